package game

import (
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"
)

// A BoardSnapshot is the saved form of a board: the seed it was built with
// and one glyph per cell (see Cell.serialize).
type BoardSnapshot struct {
	Seed            int64  `yaml:"seed"`
	SerializedBoard string `yaml:"board,flow"`
}

func (snapshot *BoardSnapshot) Serialize() string {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		panic(err)
	}

	return string(out)
}

// CreateBoard rebuilds the snapshot's board. When fresh is set, reveals and
// flags are dropped and only the mine layout is kept.
func (snapshot *BoardSnapshot) CreateBoard(config boardConfig, fresh bool) *Board {
	rows := strings.Split(snapshot.SerializedBoard, "\n")

	config.Height = uint(len(rows))
	config.Width = uint(len(rows[0]))
	config.Seed = snapshot.Seed

	board := createBoard(config)

	mineCells := make(chan *Cell)

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		for y, row := range rows {
			for x, c := range row {
				cell := board.CellAt(uint(x), uint(y))
				cell.deserialize(string(c), fresh)

				if cell.isMine {
					mineCells <- cell
				}
			}
		}
		close(mineCells)

		wg.Done()
	}()

	board.fillMines(mineCells)
	wg.Wait()

	// Revealed cells were restored before the mine counts around them were
	// known; give them their real numbers now.
	for cell := range board.Cells() {
		if cell.isRevealed && !cell.isMine {
			cell.setState(CellState(cell.numMines))
		}
	}

	return board
}

func (snapshot *BoardSnapshot) validate() error {
	rows := strings.Split(snapshot.SerializedBoard, "\n")
	if len(rows) == 0 || len(rows[0]) == 0 {
		return fmt.Errorf("snapshot board is empty")
	}

	for y, row := range rows {
		if len(row) != len(rows[0]) {
			return fmt.Errorf("snapshot row %d is %d cells wide, want %d", y, len(row), len(rows[0]))
		}

		for _, c := range row {
			if !strings.ContainsRune(cellGlyphs, c) {
				return fmt.Errorf("snapshot row %d holds unknown cell glyph %q", y, c)
			}
		}
	}

	return nil
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, err
	}
	if err := snapshot.validate(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
