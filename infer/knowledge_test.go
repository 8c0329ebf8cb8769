package infer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCenterZeroClearsAllNeighbors(t *testing.T) {
	knowledge := New(3, 3)

	require.NoError(t, knowledge.Observe(Cell{1, 1}, 0))

	// The zero observation proves the whole board safe in one pass.
	assert.Len(t, knowledge.Safes(), 9)
	assert.Empty(t, knowledge.Mines())
	assert.Empty(t, knowledge.Constraints())
	assert.True(t, knowledge.MovesMade().Equal(cells(Cell{1, 1})))
}

func TestObserveCornerCreatesSingleConstraint(t *testing.T) {
	knowledge := New(3, 3)

	require.NoError(t, knowledge.Observe(Cell{0, 0}, 1))

	constraints := knowledge.Constraints()
	require.Len(t, constraints, 1)
	assert.True(t, constraints[0].Cells().Equal(cells(Cell{0, 1}, Cell{1, 0}, Cell{1, 1})))
	assert.Equal(t, 1, constraints[0].Count())

	// One mine among three cells proves nothing on its own.
	assert.Empty(t, knowledge.Mines())
	assert.True(t, knowledge.Safes().Equal(cells(Cell{0, 0})))
}

func TestSubsumptionDerivesMine(t *testing.T) {
	knowledge := New(1, 3)
	knowledge.constraints = append(knowledge.constraints,
		newConstraint(cells(Cell{0, 0}, Cell{0, 1}), 1),
		newConstraint(cells(Cell{0, 0}, Cell{0, 1}, Cell{0, 2}), 2),
	)

	knowledge.saturate()

	// {(0,0),(0,1)}=1 inside {(0,0),(0,1),(0,2)}=2 leaves {(0,2)}=1.
	assert.True(t, knowledge.Mines().Equal(cells(Cell{0, 2})))
	assert.Empty(t, knowledge.Safes())
}

// The 1-2 pattern along a wall: revealing the bottom row of
//
//	. * * .
//	1 2 2 1
//
// pins both mines and clears the rest of the top row using only subsumption
// and resolved-cell folding.
func TestBottomRowSolvesOneTwoPattern(t *testing.T) {
	knowledge := New(2, 4)

	require.NoError(t, knowledge.Observe(Cell{1, 0}, 1))
	require.NoError(t, knowledge.Observe(Cell{1, 1}, 2))
	require.NoError(t, knowledge.Observe(Cell{1, 2}, 2))
	require.NoError(t, knowledge.Observe(Cell{1, 3}, 1))

	assert.True(t, knowledge.Mines().Equal(cells(Cell{0, 1}, Cell{0, 2})))
	assert.True(t, knowledge.Safes().Equal(cells(
		Cell{0, 0}, Cell{0, 3},
		Cell{1, 0}, Cell{1, 1}, Cell{1, 2}, Cell{1, 3},
	)))

	// Selection drains the proven cells in row-major order.
	safe, ok := knowledge.SafeMove()
	require.True(t, ok)
	assert.Equal(t, Cell{0, 0}, safe)
	safe, ok = knowledge.SafeMove()
	require.True(t, ok)
	assert.Equal(t, Cell{0, 3}, safe)
	_, ok = knowledge.SafeMove()
	assert.False(t, ok)

	flag, ok := knowledge.FlagMove()
	require.True(t, ok)
	assert.Equal(t, Cell{0, 1}, flag)
	flag, ok = knowledge.FlagMove()
	require.True(t, ok)
	assert.Equal(t, Cell{0, 2}, flag)
	_, ok = knowledge.FlagMove()
	assert.False(t, ok)
}

func TestObserveFoldsKnownMinesIntoCount(t *testing.T) {
	knowledge := New(1, 3)

	// (0,0)=1 proves the only neighbor (0,1) is a mine.
	require.NoError(t, knowledge.Observe(Cell{0, 0}, 1))
	require.True(t, knowledge.Mines().Equal(cells(Cell{0, 1})))

	// (0,2)=1 is fully explained by the known mine: no constraint remains.
	require.NoError(t, knowledge.Observe(Cell{0, 2}, 1))
	assert.Empty(t, knowledge.Constraints())
	assert.True(t, knowledge.Safes().Equal(cells(Cell{0, 0}, Cell{0, 2})))
}

func TestDuplicateObservationIsNoOp(t *testing.T) {
	knowledge := New(3, 3)
	require.NoError(t, knowledge.Observe(Cell{0, 0}, 1))

	mines := knowledge.Mines()
	safes := knowledge.Safes()
	moves := knowledge.MovesMade()
	constraints := knowledge.Constraints()

	require.NoError(t, knowledge.Observe(Cell{0, 0}, 1))

	assert.True(t, knowledge.Mines().Equal(mines))
	assert.True(t, knowledge.Safes().Equal(safes))
	assert.True(t, knowledge.MovesMade().Equal(moves))
	after := knowledge.Constraints()
	require.Len(t, after, len(constraints))
	for i := range after {
		assert.True(t, after[i].Equal(constraints[i]))
	}
}

func TestObserveRejectsOutOfBounds(t *testing.T) {
	knowledge := New(3, 3)

	assert.Error(t, knowledge.Observe(Cell{3, 0}, 0))
	assert.Error(t, knowledge.Observe(Cell{0, -1}, 0))

	// Rejection happens before anything is recorded.
	assert.Empty(t, knowledge.MovesMade())
	assert.Empty(t, knowledge.Safes())
}

func TestObserveRejectsImpossibleCount(t *testing.T) {
	knowledge := New(3, 3)

	// A corner has three neighbors.
	assert.Error(t, knowledge.Observe(Cell{0, 0}, 4))
	assert.Error(t, knowledge.Observe(Cell{0, 0}, -1))
	assert.Empty(t, knowledge.MovesMade())
}

func TestObservingKnownMineReportsInconsistency(t *testing.T) {
	knowledge := New(1, 2)
	require.NoError(t, knowledge.Observe(Cell{0, 0}, 1))
	require.True(t, knowledge.Mines().Equal(cells(Cell{0, 1})))

	// The caller now claims the proven mine was revealed safely.
	err := knowledge.Observe(Cell{0, 1}, 0)
	var inconsistency InconsistencyError
	assert.True(t, errors.As(err, &inconsistency), "got %v", err)
}

func TestConflictingCountsReportInconsistency(t *testing.T) {
	knowledge := New(1, 3)
	require.NoError(t, knowledge.Observe(Cell{0, 0}, 1)) // proves (0,1) is a mine

	// (0,2) also borders only (0,1), so a zero count is a contradiction.
	err := knowledge.Observe(Cell{0, 2}, 0)
	var inconsistency InconsistencyError
	assert.True(t, errors.As(err, &inconsistency), "got %v", err)
}

// minefield drives Observe the way a game loop would, with ground truth held
// by the test.
type minefield struct {
	height, width int
	mines         CellSet
}

func (field minefield) countAround(cell Cell) int {
	count := 0
	for row := cell.Row - 1; row <= cell.Row+1; row++ {
		for col := cell.Col - 1; col <= cell.Col+1; col++ {
			neighbor := Cell{row, col}
			if neighbor == cell {
				continue
			}
			if row < 0 || row >= field.height || col < 0 || col >= field.width {
				continue
			}
			if field.mines.Contains(neighbor) {
				count++
			}
		}
	}
	return count
}

func TestConsistencyAndMonotonicityAcrossAGame(t *testing.T) {
	field := minefield{
		height: 4,
		width:  4,
		mines:  cells(Cell{0, 3}, Cell{2, 1}, Cell{3, 3}),
	}
	knowledge := New(field.height, field.width)

	reveals := []Cell{
		{0, 0}, {1, 1}, {3, 0}, {0, 2}, {1, 3}, {2, 3}, {3, 1}, {1, 0}, {2, 0},
	}

	prevMines := knowledge.Mines()
	prevSafes := knowledge.Safes()
	prevMoves := knowledge.MovesMade()
	for _, cell := range reveals {
		require.False(t, field.mines.Contains(cell), "test revealed a mine at %s", cell)
		require.NoError(t, knowledge.Observe(cell, field.countAround(cell)))

		// Consistency: nothing is ever both a mine and safe.
		assert.Empty(t, knowledge.Mines().Intersection(knowledge.Safes()))

		// Monotonicity: facts only accumulate.
		_, grewMines := prevMines.IntersectionEx(knowledge.Mines())
		_, grewSafes := prevSafes.IntersectionEx(knowledge.Safes())
		_, grewMoves := prevMoves.IntersectionEx(knowledge.MovesMade())
		assert.True(t, grewMines && grewSafes && grewMoves)

		prevMines = knowledge.Mines()
		prevSafes = knowledge.Safes()
		prevMoves = knowledge.MovesMade()
	}

	// Soundness: every deduced mine is a real one.
	_, sound := knowledge.Mines().IntersectionEx(field.mines)
	assert.True(t, sound, "deduced mines %v, real mines %v", knowledge.Mines(), field.mines)
	for cell := range knowledge.Safes() {
		assert.False(t, field.mines.Contains(cell), "%s deduced safe but holds a mine", cell)
	}
}

func TestViewsAreCopies(t *testing.T) {
	knowledge := New(3, 3)
	require.NoError(t, knowledge.Observe(Cell{0, 0}, 1))

	knowledge.Safes().Add(Cell{2, 2})
	knowledge.Mines().Add(Cell{2, 2})
	knowledge.MovesMade().Add(Cell{2, 2})
	knowledge.Constraints()[0].MarkSafe(Cell{0, 1})

	assert.Len(t, knowledge.Safes(), 1)
	assert.Empty(t, knowledge.Mines())
	assert.Len(t, knowledge.MovesMade(), 1)
	assert.Len(t, knowledge.Constraints()[0].Cells(), 3)
}
