// Package infer deduces safe cells and mine cells from the numbers revealed
// during a hidden-mine grid game. Every revealed count becomes a Constraint
// over the cell's unresolved neighbors; constraints are propagated against
// each other until no further deduction is possible, and only certain
// conclusions are ever reported.
package infer

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sweepmind/sweepmind/util/collections"
)

// Log is the package logger. Debug level traces every propagated
// observation; Trace level additionally follows individual saturation passes.
var Log = logrus.StandardLogger()

// Knowledge is everything proven about one game session: which cells were
// played, which are certainly mines, which are certainly safe, and the
// constraints still being worked on. It exclusively owns its constraints;
// the only mutations come from Observe and the move selectors.
type Knowledge struct {
	height, width int

	movesMade CellSet
	mines     CellSet
	safes     CellSet

	// observed holds the cells that already sourced a constraint, so a
	// duplicate observation can be dropped without touching anything.
	observed CellSet

	constraints []*Constraint
}

// New creates an empty knowledge store for a height-by-width board.
func New(height, width int) *Knowledge {
	if height <= 0 || width <= 0 {
		panic(fmt.Sprintf("infer: board must have positive dimensions, got %dx%d", height, width))
	}
	return &Knowledge{
		height:    height,
		width:     width,
		movesMade: make(CellSet),
		mines:     make(CellSet),
		safes:     make(CellSet),
		observed:  make(CellSet),
	}
}

func (knowledge *Knowledge) Height() int {
	return knowledge.height
}

func (knowledge *Knowledge) Width() int {
	return knowledge.width
}

// Observe records that the revealed cell has exactly count mines among its
// in-bounds neighbors, then propagates every consequence until nothing new
// can be deduced.
//
// Observing the same cell again is a no-op. An out-of-range cell or count is
// rejected before anything is recorded. An InconsistencyError return means
// the observations contradict each other; the store must not be trusted
// afterwards.
func (knowledge *Knowledge) Observe(cell Cell, count int) (err error) {
	if !knowledge.inBounds(cell) {
		return fmt.Errorf("observed cell %s outside %dx%d board", cell, knowledge.height, knowledge.width)
	}
	neighbors := knowledge.neighbors(cell)
	if count < 0 || count > len(neighbors) {
		return fmt.Errorf("observed %d mines around %s, which has only %d neighbors", count, cell, len(neighbors))
	}
	if knowledge.observed.Contains(cell) {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			inconsistency, ok := r.(InconsistencyError)
			if !ok {
				panic(r)
			}
			err = inconsistency
		}
	}()

	knowledge.observed.Add(cell)
	knowledge.movesMade.Add(cell)
	knowledge.markSafe(cell)

	// The observation constrains only neighbors not already resolved;
	// neighbors known to be mines are folded into the count instead.
	cells := make(CellSet)
	remaining := count
	for _, neighbor := range neighbors {
		switch {
		case knowledge.mines.Contains(neighbor):
			remaining--
		case knowledge.safes.Contains(neighbor):
		default:
			cells.Add(neighbor)
		}
	}
	if remaining < 0 || remaining > len(cells) {
		panic(inconsistencyf(
			"observation %s=%d leaves %d mines for %d unresolved neighbors",
			cell, count, remaining, len(cells)))
	}
	if len(cells) > 0 {
		knowledge.constraints = append(knowledge.constraints, newConstraint(cells, remaining))
	}

	knowledge.saturate()

	Log.WithFields(logrus.Fields{
		"cell":        cell,
		"count":       count,
		"mines":       len(knowledge.mines),
		"safes":       len(knowledge.safes),
		"constraints": len(knowledge.constraints),
	}).Debug("observation propagated")

	return nil
}

// saturate runs derivation passes until a full pass changes nothing. Each
// pass first applies every fact the constraints agree on, then derives the
// subsumption splits; termination is guaranteed because a pass either
// resolves a cell (shrinking all constraints) or adds a constraint that did
// not exist before, and only finitely many constraints fit on the board.
func (knowledge *Knowledge) saturate() {
	for pass := 1; ; pass++ {
		changed := false

		foundMines := make(CellSet)
		foundSafes := make(CellSet)
		for _, constraint := range knowledge.constraints {
			foundMines = foundMines.Union(constraint.KnownMines())
			foundSafes = foundSafes.Union(constraint.KnownSafes())
		}

		for cell := range foundMines {
			if knowledge.mines.Contains(cell) {
				continue
			}
			knowledge.markMine(cell)
			changed = true
		}
		for cell := range foundSafes {
			if knowledge.safes.Contains(cell) {
				continue
			}
			knowledge.markSafe(cell)
			changed = true
		}

		// Subsumption: when one constraint's cells sit inside another's,
		// the superset minus the subset is itself a valid statement.
		keys := make(collections.Set[string], len(knowledge.constraints))
		for _, constraint := range knowledge.constraints {
			keys.Add(constraint.key())
		}
		var derived []*Constraint
		for i, subset := range knowledge.constraints {
			if subset.IsEmpty() {
				continue
			}
			for j, superset := range knowledge.constraints {
				if i == j {
					continue
				}
				if _, isSubset := subset.cells.IntersectionEx(superset.cells); !isSubset {
					continue
				}
				remainder := superset.cells.Difference(subset.cells)
				if len(remainder) == 0 {
					continue
				}
				split := newConstraint(remainder, superset.count-subset.count)
				if keys.Contains(split.key()) {
					continue
				}
				keys.Add(split.key())
				derived = append(derived, split)
			}
		}
		if len(derived) > 0 {
			knowledge.constraints = append(knowledge.constraints, derived...)
			changed = true
		}

		knowledge.pruneResolved()

		Log.WithFields(logrus.Fields{
			"pass":        pass,
			"mines":       len(foundMines),
			"safes":       len(foundSafes),
			"derived":     len(derived),
			"constraints": len(knowledge.constraints),
		}).Trace("saturation pass")

		if !changed {
			return
		}
	}
}

// pruneResolved drops constraints whose cells have all been resolved. They
// are trivially true and derive nothing, so this only keeps the collection
// small.
func (knowledge *Knowledge) pruneResolved() {
	active := knowledge.constraints[:0]
	for _, constraint := range knowledge.constraints {
		if !constraint.IsEmpty() {
			active = append(active, constraint)
		}
	}
	knowledge.constraints = active
}

// markMine records cell as a proven mine and resolves it in every
// constraint. Idempotent.
func (knowledge *Knowledge) markMine(cell Cell) {
	if knowledge.safes.Contains(cell) {
		panic(inconsistencyf("%s proven to be both a mine and safe", cell))
	}
	knowledge.mines.Add(cell)
	for _, constraint := range knowledge.constraints {
		constraint.MarkMine(cell)
	}
}

// markSafe records cell as proven safe and resolves it in every constraint.
// Idempotent.
func (knowledge *Knowledge) markSafe(cell Cell) {
	if knowledge.mines.Contains(cell) {
		panic(inconsistencyf("%s proven to be both safe and a mine", cell))
	}
	knowledge.safes.Add(cell)
	for _, constraint := range knowledge.constraints {
		constraint.MarkSafe(cell)
	}
}

func (knowledge *Knowledge) inBounds(cell Cell) bool {
	return cell.Row >= 0 && cell.Row < knowledge.height &&
		cell.Col >= 0 && cell.Col < knowledge.width
}

// neighbors returns every in-bounds cell within Chebyshev distance 1 of
// cell, excluding cell itself.
func (knowledge *Knowledge) neighbors(cell Cell) []Cell {
	neighbors := make([]Cell, 0, 8)
	for row := cell.Row - 1; row <= cell.Row+1; row++ {
		for col := cell.Col - 1; col <= cell.Col+1; col++ {
			neighbor := Cell{Row: row, Col: col}
			if neighbor == cell || !knowledge.inBounds(neighbor) {
				continue
			}
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

// Mines returns a copy of every cell proven to hold a mine.
func (knowledge *Knowledge) Mines() CellSet {
	return knowledge.mines.Copy()
}

// Safes returns a copy of every cell proven mine-free.
func (knowledge *Knowledge) Safes() CellSet {
	return knowledge.safes.Copy()
}

// MovesMade returns a copy of every cell already observed or committed to by
// a move selector.
func (knowledge *Knowledge) MovesMade() CellSet {
	return knowledge.movesMade.Copy()
}

// Constraints returns copies of the active constraints, for inspection and
// logging only.
func (knowledge *Knowledge) Constraints() []*Constraint {
	constraints := make([]*Constraint, len(knowledge.constraints))
	for i, constraint := range knowledge.constraints {
		constraints[i] = constraint.copy()
	}
	return constraints
}
