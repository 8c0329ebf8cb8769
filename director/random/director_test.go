package random

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sweepmind/sweepmind/game"
)

func TestWinsMinelessBoard(t *testing.T) {
	config := game.NewGameConfig()
	config.Width, config.Height, config.NumMines = 3, 3, 0
	config.Seed = 1
	config.Director = &Director{}

	board := game.RunHeadless(config)

	assert.Equal(t, game.Won, board.State())
}

func TestPlaysToCompletion(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		config := game.NewGameConfig()
		config.Width, config.Height, config.NumMines = 5, 5, 3
		config.Seed = seed
		config.Director = &Director{}

		board := game.RunHeadless(config)

		assert.Contains(t, []game.BoardState{game.Won, game.Lost}, board.State(), "seed %d", seed)
	}
}
