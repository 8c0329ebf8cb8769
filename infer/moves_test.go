package infer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeMoveDrainsInRowMajorOrder(t *testing.T) {
	knowledge := New(5, 5)
	knowledge.safes.Add(Cell{2, 3})
	knowledge.safes.Add(Cell{0, 4})
	knowledge.safes.Add(Cell{0, 1})

	var picked []Cell
	for {
		cell, ok := knowledge.SafeMove()
		if !ok {
			break
		}
		picked = append(picked, cell)
	}

	assert.Equal(t, []Cell{{0, 1}, {0, 4}, {2, 3}}, picked)
	// Every selection was committed.
	assert.True(t, knowledge.MovesMade().Equal(cells(Cell{0, 1}, Cell{0, 4}, Cell{2, 3})))
}

func TestSafeMoveSkipsCellsAlreadyPlayed(t *testing.T) {
	knowledge := New(3, 3)
	require.NoError(t, knowledge.Observe(Cell{1, 1}, 0))

	// (1,1) is safe but was played by the observation itself.
	for i := 0; i < 8; i++ {
		cell, ok := knowledge.SafeMove()
		require.True(t, ok, "move %d", i)
		assert.NotEqual(t, Cell{1, 1}, cell)
	}
	_, ok := knowledge.SafeMove()
	assert.False(t, ok)
}

func TestFlagMoveCommitsKnownMines(t *testing.T) {
	knowledge := New(2, 2)
	knowledge.mines.Add(Cell{1, 0})
	knowledge.mines.Add(Cell{0, 0})

	cell, ok := knowledge.FlagMove()
	require.True(t, ok)
	assert.Equal(t, Cell{0, 0}, cell)

	cell, ok = knowledge.FlagMove()
	require.True(t, ok)
	assert.Equal(t, Cell{1, 0}, cell)

	_, ok = knowledge.FlagMove()
	assert.False(t, ok)
}

func TestRandomMoveNeverPicksKnownMinesOrPlayedCells(t *testing.T) {
	knowledge := New(2, 2)
	knowledge.mines.Add(Cell{0, 0})
	knowledge.movesMade.Add(Cell{0, 1})

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		cell, ok := knowledge.RandomMove(rng)
		require.True(t, ok)
		assert.Contains(t, []Cell{{1, 0}, {1, 1}}, cell)
	}
}

func TestRandomMoveDoesNotCommit(t *testing.T) {
	knowledge := New(2, 2)
	rng := rand.New(rand.NewSource(1))

	_, ok := knowledge.RandomMove(rng)
	require.True(t, ok)
	assert.Empty(t, knowledge.MovesMade())
}

func TestRandomMoveExhausted(t *testing.T) {
	knowledge := New(1, 2)
	knowledge.mines.Add(Cell{0, 0})
	knowledge.movesMade.Add(Cell{0, 1})

	_, ok := knowledge.RandomMove(rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}
