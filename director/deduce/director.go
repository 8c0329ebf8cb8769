// Package deduce implements a director backed by the infer knowledge engine.
// Every revealed count is fed to the engine, and moves are drawn from its
// deductions; it only probes blindly when nothing further can be proven.
package deduce

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sweepmind/sweepmind/game"
	"github.com/sweepmind/sweepmind/infer"
)

var Log = logrus.StandardLogger()

type Director struct {
	game.BaseDirector

	board     *game.Board
	knowledge *infer.Knowledge

	act chan chan<- game.CellAction

	// stats is bumped from the acting goroutine while End may read it from
	// the game's, so it stays behind statsLock.
	stats     Stats
	statsLock sync.Mutex
}

// Stats counts how the director chose its moves over one game.
type Stats struct {
	// SafeMoves is the number of cells clicked because the engine proved
	// them safe.
	SafeMoves int
	// FlagMoves is the number of mines the engine proved and committed,
	// whether or not a flag still had to be placed on the board.
	FlagMoves int
	// RandomMoves is the number of blind probes.
	RandomMoves int
}

func (director *Director) Start(board *game.Board) {
	director.board = board
	director.knowledge = infer.New(int(board.Height()), int(board.Width()))
	director.act = make(chan chan<- game.CellAction)
	director.stats = Stats{}

	// Boards loaded from a snapshot may come with cells already revealed.
	for cell := range board.Cells() {
		if cell.IsRevealed() {
			director.observe(cell)
		}
	}

	go func() {
		for actions := range director.act {
			if !director.actDeduced(actions) {
				director.actRandom(actions)
			}
			close(actions)
		}
	}()
}

func (director *Director) Act(actions chan<- game.CellAction) {
	if director.act == nil {
		close(actions)
		return
	}
	director.act <- actions
}

func (director *Director) CellChanges(changes <-chan *game.Cell) {
	for cell := range changes {
		if cell.IsRevealed() {
			director.observe(cell)
		}
	}
}

func (director *Director) End() {
	if director.act == nil {
		return
	}

	act := director.act
	director.act = nil
	close(act)

	stats := director.Stats()
	Log.WithFields(logrus.Fields{
		"safe":   stats.SafeMoves,
		"flags":  stats.FlagMoves,
		"random": stats.RandomMoves,
	}).Info("Director done")
}

func (director *Director) Stats() Stats {
	director.statsLock.Lock()
	defer director.statsLock.Unlock()
	return director.stats
}

func (director *Director) countMove(count *int) {
	director.statsLock.Lock()
	*count++
	director.statsLock.Unlock()
}

func (director *Director) observe(cell *game.Cell) {
	inferCell := infer.Cell{Row: int(cell.Y()), Col: int(cell.X())}
	if err := director.knowledge.Observe(inferCell, int(cell.NumMines())); err != nil {
		Log.WithError(err).WithField("cell", cell).Error("Discarding observation")
		return
	}

	if Log.IsLevelEnabled(logrus.DebugLevel) {
		Log.WithFields(logrus.Fields{
			"cell":        inferCell,
			"mines":       len(director.knowledge.Mines()),
			"safes":       len(director.knowledge.Safes()),
			"constraints": len(director.knowledge.Constraints()),
		}).Debug("Observation ingested")
	}
}

// actDeduced drains every move the engine can prove: flags for known mines
// first, then clicks for safe cells. Reports whether any board action was
// sent.
func (director *Director) actDeduced(actions chan<- game.CellAction) bool {
	acted := false

	for {
		cell, ok := director.knowledge.FlagMove()
		if !ok {
			break
		}
		director.countMove(&director.stats.FlagMoves)

		if boardCell := director.boardCell(cell); !boardCell.IsFlagged() {
			actions <- boardCell.RightClick()
			acted = true
		}
	}

	for {
		cell, ok := director.knowledge.SafeMove()
		if !ok {
			break
		}

		director.countMove(&director.stats.SafeMoves)
		actions <- director.boardCell(cell).Click()
		acted = true
	}

	return acted
}

func (director *Director) actRandom(actions chan<- game.CellAction) {
	cell, ok := director.knowledge.RandomMove(director.board.Rand())
	if !ok {
		return
	}

	boardCell := director.boardCell(cell)
	director.board.AddAnnotation(game.Annotation{
		Type: game.AnnotateHighlightYellow,
		Cell: boardCell,
	})

	director.countMove(&director.stats.RandomMoves)
	actions <- boardCell.Click()
}

func (director *Director) boardCell(cell infer.Cell) *game.Cell {
	return director.board.CellAt(uint(cell.Col), uint(cell.Row))
}
