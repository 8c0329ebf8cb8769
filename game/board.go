package game

import (
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"

	"github.com/sweepmind/sweepmind/util/collections"
)

var Log = logrus.StandardLogger()

type boardConfig struct {
	Width, Height uint
	NumMines      uint
	Mode          GameMode
	Seed          int64

	Director  Director
	OnGameEnd func(*Board)
}

type Board struct {
	width, height uint // in number of cells
	mode          GameMode
	seed          int64
	rand          *rand.Rand
	cells         [][]Cell

	state      BoardState
	numMines   uint
	numFlags   uint
	hasClicked bool

	// remainingCells holds the unrevealed non-mine cells; the game is won
	// once it drains. Reveals arrive concurrently from the flood goroutines,
	// so it is only touched under revealedLock.
	remainingCells collections.Set[*Cell]
	revealedLock   sync.Mutex

	director      Director
	directorFrame int

	changedCells []*Cell
	changedLock  sync.Mutex

	directorAnnotations deque.Deque[Annotation]
	annotationsLock     sync.Mutex

	onGameEnd func(*Board)
}

func (board *Board) Width() uint {
	return board.width
}

func (board *Board) Height() uint {
	return board.height
}

func (board *Board) NumCells() uint {
	return board.width * board.height
}

func (board *Board) NumMines() uint {
	return board.numMines
}

func (board *Board) State() BoardState {
	return board.state
}

func (board *Board) Rand() *rand.Rand {
	return board.rand
}

func (board *Board) CellAt(x, y uint) *Cell {
	if x < board.width && y < board.height {
		return &board.cells[y][x]
	}
	return nil
}

func (board *Board) Cells() <-chan *Cell {
	out := make(chan *Cell)
	go func() {
		for y := uint(0); y < board.height; y++ {
			for x := uint(0); x < board.width; x++ {
				out <- board.CellAt(x, y)
			}
		}
		close(out)
	}()
	return out
}

func (board *Board) UnrevealedCells() <-chan *Cell {
	out := make(chan *Cell)
	go func() {
		for cell := range board.Cells() {
			if !cell.isRevealed {
				out <- cell
			}
		}
		close(out)
	}()
	return out
}

func (board *Board) canPlay() bool {
	return board.state == Ongoing || board.state == Paused
}

func (board *Board) TogglePaused() {
	switch board.state {
	case Ongoing:
		board.state = Paused
	case Paused:
		board.state = Ongoing
	}
}

func (board *Board) win() {
	if !board.canPlay() {
		return
	}
	board.state = Won
	board.endGame()
}

func (board *Board) lose() {
	if !board.canPlay() {
		return
	}
	board.state = Lost
	board.endGame()

	cells := board.Cells()

	wg := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			for cell := range cells {
				cell.revealLost()
			}
			wg.Done()
		}()
	}
	wg.Wait()
}

func (board *Board) endGame() {
	Log.WithFields(logrus.Fields{
		"state": board.state,
		"mines": board.numMines,
		"flags": board.numFlags,
	}).Info("Game over")

	if board.onGameEnd != nil {
		board.onGameEnd(board)
	}
	if board.director != nil {
		board.director.End()
	}
}

func (board *Board) startGame() {
	if board.director != nil {
		board.director.Start(board)
	}
}

func (board *Board) markRevealed(cell *Cell) {
	board.revealedLock.Lock()
	defer board.revealedLock.Unlock()

	delete(board.remainingCells, cell)

	if len(board.remainingCells) == 0 {
		board.win()
	}
}

func (board *Board) markChanged(cell *Cell) {
	if board.director == nil {
		return
	}

	board.changedLock.Lock()
	board.changedCells = append(board.changedCells, cell)
	board.changedLock.Unlock()
}

// flushChanges hands every cell changed since the last flush to the
// director, and blocks until it has digested them.
func (board *Board) flushChanges() {
	if board.director == nil {
		return
	}

	board.changedLock.Lock()
	changed := board.changedCells
	board.changedCells = nil
	board.changedLock.Unlock()

	if len(changed) == 0 {
		return
	}

	changes := make(chan *Cell)
	go func() {
		for _, cell := range changed {
			changes <- cell
		}
		close(changes)
	}()

	board.director.CellChanges(changes)
}

// RequestDirectorAct runs one director turn: flush pending cell changes,
// apply the actions the director sends, then flush the changes those actions
// caused. Reports whether any action was applied.
func (board *Board) RequestDirectorAct() bool {
	if board.director == nil || board.state != Ongoing {
		return false
	}

	board.flushChanges()
	board.directorFrame++

	actions := make(chan CellAction)
	board.director.Act(actions)

	numApplied := 0
	for action := range actions {
		if !board.canPlay() {
			continue
		}

		board.AddAnnotation(action.annotation())
		action.apply()
		numApplied++
	}

	if board.state == Ongoing {
		board.flushChanges()
	}

	return numApplied > 0
}

func (board *Board) AddAnnotation(annotation Annotation) {
	annotation.firstShown = time.Now()
	annotation.frame = board.directorFrame

	board.annotationsLock.Lock()
	board.directorAnnotations.PushBack(annotation)
	board.annotationsLock.Unlock()
}

// clearSurroundingMines relocates any mines in the 3x3 block around center
// to random cells outside it, so the first click always opens an area.
func (board *Board) clearSurroundingMines(center *Cell) {
	block := make(map[*Cell]struct{})
	for cell := range center.SelfNeighbors() {
		block[cell] = struct{}{}
	}

	candidates := make([]*Cell, 0, board.NumCells())
	for cell := range board.Cells() {
		if _, inBlock := block[cell]; inBlock || cell.isMine {
			continue
		}
		candidates = append(candidates, cell)
	}
	board.rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for cell := range block {
		if !cell.isMine || len(candidates) == 0 {
			continue
		}

		cell.setMine(false)
		candidates[len(candidates)-1].setMine(true)
		candidates = candidates[:len(candidates)-1]
	}
}

func (board *Board) snapshot() *BoardSnapshot {
	rows := make([]string, board.height)
	for y := uint(0); y < board.height; y++ {
		row := strings.Builder{}
		for x := uint(0); x < board.width; x++ {
			row.WriteString(board.CellAt(x, y).serialize())
		}
		rows[y] = row.String()
	}

	return &BoardSnapshot{
		Seed:            board.seed,
		SerializedBoard: strings.Join(rows, "\n"),
	}
}

func createBoard(config boardConfig) *Board {
	board := Board{
		state:          Ongoing,
		width:          config.Width,
		height:         config.Height,
		mode:           config.Mode,
		seed:           config.Seed,
		rand:           rand.New(rand.NewSource(config.Seed)),
		cells:          make([][]Cell, config.Height),
		remainingCells: collections.NewSet[*Cell](),
		director:       config.Director,
		onGameEnd:      config.OnGameEnd,
	}

	cellIdx := uint(0)
	for y := uint(0); y < board.height; y++ {
		row := make([]Cell, board.width)
		board.cells[y] = row

		for x := uint(0); x < board.width; x++ {
			cell := &board.cells[y][x]
			cell.board = &board
			cell.idx = cellIdx
			cell.x, cell.y = x, y
			cell.state = Unrevealed
			cell.isDirty = true

			board.remainingCells.Add(cell)
			cellIdx++
		}
	}

	return &board
}

func createFilledBoard(config boardConfig) *Board {
	board := createBoard(config)

	numMines := config.NumMines
	if maxMines := board.NumCells() - 1; numMines > maxMines {
		numMines = maxMines
	}

	cellIndexes := make([]uint, board.NumCells())
	for i := range cellIndexes {
		cellIndexes[i] = uint(i)
	}
	board.rand.Shuffle(len(cellIndexes), func(i, j int) {
		cellIndexes[i], cellIndexes[j] = cellIndexes[j], cellIndexes[i]
	})

	mineCells := make(chan *Cell, numMines)
	for _, cellIdx := range cellIndexes[:numMines] {
		mineCells <- board.CellAt(cellIdx%board.width, cellIdx/board.width)
	}
	close(mineCells)

	board.fillMines(mineCells)

	return board
}

// fillMines marks every cell received as a mine and bumps the neighbor
// counts around it. Cells sent twice are counted once.
func (board *Board) fillMines(mineCells <-chan *Cell) {
	mineNeighbors := make(chan *Cell)
	done := make(chan struct{})
	go func() {
		for cell := range mineNeighbors {
			atomic.AddUint32(&cell.numMines, 1)
		}
		close(done)
	}()

	seen := make(map[*Cell]struct{})
	for cell := range mineCells {
		if _, isSeen := seen[cell]; isSeen {
			continue
		}
		seen[cell] = struct{}{}

		cell.isMine = true
		board.numMines++

		board.revealedLock.Lock()
		delete(board.remainingCells, cell)
		board.revealedLock.Unlock()

		cell.SendNeighbors(mineNeighbors)
	}
	close(mineNeighbors)
	<-done
}
