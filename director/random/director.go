// Package random implements a director which clicks blindly.
package random

import (
	"github.com/sweepmind/sweepmind/game"
)

type Director struct {
	game.BaseDirector

	board *game.Board
}

func (director *Director) Start(board *game.Board) {
	director.board = board
}

func (director *Director) Act(actions chan<- game.CellAction) {
	defer close(actions)

	candidates := make([]*game.Cell, 0, director.board.NumCells())
	for cell := range director.board.UnrevealedCells() {
		if !cell.IsFlagged() {
			candidates = append(candidates, cell)
		}
	}

	if len(candidates) > 0 {
		actions <- candidates[director.board.Rand().Intn(len(candidates))].Click()
	}
}
