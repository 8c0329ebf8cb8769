package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sweepmind/sweepmind/util/collections"
)

func cells(list ...Cell) CellSet {
	return collections.NewSet(list...)
}

// assertInconsistencyPanic runs fn and requires it to panic with an
// InconsistencyError.
func assertInconsistencyPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected an inconsistency panic")
		}
		_, ok := r.(InconsistencyError)
		assert.True(t, ok, "panic value: %v", r)
	}()
	fn()
}

func TestKnownMines(t *testing.T) {
	full := newConstraint(cells(Cell{0, 0}, Cell{0, 1}), 2)
	assert.True(t, full.KnownMines().Equal(cells(Cell{0, 0}, Cell{0, 1})))

	partial := newConstraint(cells(Cell{0, 0}, Cell{0, 1}), 1)
	assert.Empty(t, partial.KnownMines())

	// A vacuous constraint proves no mines even though len(cells) == count.
	vacuous := newConstraint(make(CellSet), 0)
	assert.Empty(t, vacuous.KnownMines())
}

func TestKnownSafes(t *testing.T) {
	clear := newConstraint(cells(Cell{1, 1}, Cell{1, 2}), 0)
	assert.True(t, clear.KnownSafes().Equal(cells(Cell{1, 1}, Cell{1, 2})))

	unresolved := newConstraint(cells(Cell{1, 1}, Cell{1, 2}), 1)
	assert.Empty(t, unresolved.KnownSafes())
}

func TestMarkMine(t *testing.T) {
	constraint := newConstraint(cells(Cell{0, 0}, Cell{0, 1}, Cell{1, 0}), 2)

	constraint.MarkMine(Cell{0, 1})
	assert.True(t, constraint.Cells().Equal(cells(Cell{0, 0}, Cell{1, 0})))
	assert.Equal(t, 1, constraint.Count())

	// Unmentioned cells leave the constraint alone
	constraint.MarkMine(Cell{5, 5})
	assert.Equal(t, 1, constraint.Count())
	assert.Len(t, constraint.Cells(), 2)
}

func TestMarkSafe(t *testing.T) {
	constraint := newConstraint(cells(Cell{0, 0}, Cell{0, 1}, Cell{1, 0}), 1)

	constraint.MarkSafe(Cell{1, 0})
	assert.True(t, constraint.Cells().Equal(cells(Cell{0, 0}, Cell{0, 1})))
	assert.Equal(t, 1, constraint.Count())

	constraint.MarkSafe(Cell{5, 5})
	assert.Len(t, constraint.Cells(), 2)
}

func TestMarkMinePanicsOnMinelessConstraint(t *testing.T) {
	constraint := newConstraint(cells(Cell{0, 0}, Cell{0, 1}), 0)
	assertInconsistencyPanic(t, func() {
		constraint.MarkMine(Cell{0, 0})
	})
}

func TestMarkSafePanicsWhenMinesOutnumberCells(t *testing.T) {
	constraint := newConstraint(cells(Cell{0, 0}, Cell{0, 1}), 2)
	assertInconsistencyPanic(t, func() {
		constraint.MarkSafe(Cell{0, 0})
	})
}

func TestNewConstraintRejectsImpossibleCounts(t *testing.T) {
	assertInconsistencyPanic(t, func() {
		newConstraint(cells(Cell{0, 0}), 2)
	})
	assertInconsistencyPanic(t, func() {
		newConstraint(cells(Cell{0, 0}), -1)
	})
}

func TestEqualIgnoresInsertionOrder(t *testing.T) {
	a := newConstraint(cells(Cell{0, 0}, Cell{0, 1}), 1)
	b := newConstraint(cells(Cell{0, 1}, Cell{0, 0}), 1)
	c := newConstraint(cells(Cell{0, 1}, Cell{0, 0}), 0)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.key(), b.key())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.key(), c.key())
}

func TestString(t *testing.T) {
	constraint := newConstraint(cells(Cell{1, 0}, Cell{0, 1}, Cell{0, 0}), 2)
	assert.Equal(t, "{(0, 0), (0, 1), (1, 0)} = 2", constraint.String())
}
