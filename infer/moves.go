package infer

import "math/rand"

// SafeMove returns a cell proven safe that has not been played yet, or false
// when no unplayed safe cell is known. The returned cell is committed into
// the played set before returning, so asking again yields the next
// candidate; selection and commitment are one step.
func (knowledge *Knowledge) SafeMove() (Cell, bool) {
	return knowledge.commitLowest(knowledge.safes)
}

// FlagMove returns a proven mine that has not been flagged yet, committed
// the same way SafeMove commits, or false when every known mine is flagged.
func (knowledge *Knowledge) FlagMove() (Cell, bool) {
	return knowledge.commitLowest(knowledge.mines)
}

// commitLowest picks the lowest row-major candidate not yet played and
// records it as played. Any candidate would be equally valid; the stable
// order keeps games reproducible.
func (knowledge *Knowledge) commitLowest(candidates CellSet) (Cell, bool) {
	var chosen Cell
	found := false
	for cell := range candidates {
		if knowledge.movesMade.Contains(cell) {
			continue
		}
		if !found || cell.Less(chosen) {
			chosen = cell
			found = true
		}
	}
	if found {
		knowledge.movesMade.Add(chosen)
	}
	return chosen, found
}

// RandomMove returns a uniformly chosen cell that has not been played and is
// not a known mine, or false if no such cell remains. Unlike SafeMove and
// FlagMove the choice is not committed: the caller reports the outcome back
// through Observe.
func (knowledge *Knowledge) RandomMove(rng *rand.Rand) (Cell, bool) {
	candidates := make([]Cell, 0, knowledge.height*knowledge.width-len(knowledge.movesMade))
	for row := 0; row < knowledge.height; row++ {
		for col := 0; col < knowledge.width; col++ {
			cell := Cell{Row: row, Col: col}
			if knowledge.movesMade.Contains(cell) || knowledge.mines.Contains(cell) {
				continue
			}
			candidates = append(candidates, cell)
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}
