package infer

import (
	"fmt"

	"github.com/sweepmind/sweepmind/util/collections"
)

// Cell is a single board coordinate. Row and Col are zero-based, with (0, 0)
// in the top-left corner.
type Cell struct {
	Row, Col int
}

func (cell Cell) String() string {
	return fmt.Sprintf("(%d, %d)", cell.Row, cell.Col)
}

// Less orders cells ascending row-major, the order move selection uses to
// break ties.
func (cell Cell) Less(other Cell) bool {
	if cell.Row != other.Row {
		return cell.Row < other.Row
	}
	return cell.Col < other.Col
}

// CellSet is a set of board coordinates.
type CellSet = collections.Set[Cell]
