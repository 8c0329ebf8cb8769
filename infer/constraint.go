package infer

import (
	"fmt"
	"sort"
	"strings"
)

// Constraint is the logical statement "exactly count of these cells hold
// mines". Constraints shrink as cells around them resolve: a cell proven to
// be a mine or proven safe is removed, and once no cells remain the
// constraint says nothing at all.
//
// A constraint always satisfies 0 <= count <= len(cells); a breach means the
// knowledge feeding it is inconsistent.
type Constraint struct {
	cells CellSet
	count int
}

// newConstraint takes ownership of cells.
func newConstraint(cells CellSet, count int) *Constraint {
	if count < 0 || count > len(cells) {
		panic(inconsistencyf("constraint places %d mines in %d cells", count, len(cells)))
	}
	return &Constraint{cells: cells, count: count}
}

// Cells returns a copy of the cells the constraint still speaks about.
func (constraint *Constraint) Cells() CellSet {
	return constraint.cells.Copy()
}

// Count returns how many of the remaining cells are mines.
func (constraint *Constraint) Count() int {
	return constraint.count
}

// KnownMines returns every cell the constraint proves to be a mine: all of
// them when count equals the number of cells, none otherwise.
func (constraint *Constraint) KnownMines() CellSet {
	if len(constraint.cells) == constraint.count {
		return constraint.cells.Copy()
	}
	return make(CellSet)
}

// KnownSafes returns every cell the constraint proves to be safe: all of
// them when count is zero, none otherwise.
func (constraint *Constraint) KnownSafes() CellSet {
	if constraint.count == 0 {
		return constraint.cells.Copy()
	}
	return make(CellSet)
}

// MarkMine resolves cell as a mine, removing it and decrementing count.
// No-op if the constraint does not mention cell.
func (constraint *Constraint) MarkMine(cell Cell) {
	if !constraint.cells.Contains(cell) {
		return
	}
	if constraint.count == 0 {
		panic(inconsistencyf("mine %s resolved inside mineless constraint %s", cell, constraint))
	}
	constraint.cells.Remove(cell)
	constraint.count--
}

// MarkSafe resolves cell as safe, removing it and leaving count alone.
// No-op if the constraint does not mention cell.
func (constraint *Constraint) MarkSafe(cell Cell) {
	if !constraint.cells.Contains(cell) {
		return
	}
	constraint.cells.Remove(cell)
	if constraint.count > len(constraint.cells) {
		panic(inconsistencyf("safe %s leaves constraint %s short of cells", cell, constraint))
	}
}

// IsEmpty reports whether every cell has been resolved, leaving the trivial
// always-true statement.
func (constraint *Constraint) IsEmpty() bool {
	return len(constraint.cells) == 0
}

// Equal reports structural equality: same cells, same count.
func (constraint *Constraint) Equal(other *Constraint) bool {
	return constraint.count == other.count && constraint.cells.Equal(other.cells)
}

func (constraint *Constraint) copy() *Constraint {
	return &Constraint{cells: constraint.cells.Copy(), count: constraint.count}
}

// sortedCells returns the constraint's cells ascending row-major.
func (constraint *Constraint) sortedCells() []Cell {
	cells := make([]Cell, 0, len(constraint.cells))
	for cell := range constraint.cells {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Less(cells[j])
	})
	return cells
}

// key is the canonical form used to deduplicate structurally equal
// constraints without pairwise comparison.
func (constraint *Constraint) key() string {
	var key strings.Builder
	for _, cell := range constraint.sortedCells() {
		fmt.Fprintf(&key, "%d.%d,", cell.Row, cell.Col)
	}
	fmt.Fprintf(&key, "=%d", constraint.count)
	return key.String()
}

func (constraint *Constraint) String() string {
	var cellsRepr strings.Builder
	for i, cell := range constraint.sortedCells() {
		if i > 0 {
			cellsRepr.WriteString(", ")
		}
		cellsRepr.WriteString(cell.String())
	}
	return fmt.Sprintf("{%s} = %d", cellsRepr.String(), constraint.count)
}
