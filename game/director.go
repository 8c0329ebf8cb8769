package game

import "time"

// A Director plays the board. The board drives it: Start is called once
// before the first frame, Act once per unpaused frame, and CellChanges after
// every batch of applied actions with the cells that changed during it.
type Director interface {
	Start(board *Board)

	// Act sends the director's moves for this frame and closes the channel
	// when it has no more to give.
	Act(actions chan<- CellAction)

	// CellChanges consumes the cells revealed or flagged since the last
	// flush. The channel must be drained.
	CellChanges(changes <-chan *Cell)

	End()
}

// BaseDirector provides no-op defaults for directors which only care about
// part of the contract.
type BaseDirector struct{}

func (BaseDirector) Start(board *Board) {}

func (BaseDirector) Act(actions chan<- CellAction) {
	close(actions)
}

func (BaseDirector) CellChanges(changes <-chan *Cell) {
	for range changes {
	}
}

func (BaseDirector) End() {}

type cellActionType int

const (
	Click cellActionType = iota
	RightClick
	MiddleClick
)

type CellAction struct {
	cell   *Cell
	action cellActionType
}

func (cellAction CellAction) apply() {
	switch cellAction.action {
	case Click:
		cellAction.cell.click()
	case RightClick:
		cellAction.cell.rightClick()
	case MiddleClick:
		cellAction.cell.middleClick()
	}
}

func (cellAction CellAction) annotation() Annotation {
	annotationType := AnnotateClick
	switch cellAction.action {
	case RightClick:
		annotationType = AnnotateRightClick
	case MiddleClick:
		annotationType = AnnotateMiddleClick
	}

	return Annotation{
		Type: annotationType,
		Cell: cellAction.cell,
	}
}

type AnnotationType int

const (
	AnnotateClick AnnotationType = iota
	AnnotateRightClick
	AnnotateMiddleClick
	AnnotateHighlightYellow
)

// An Annotation highlights a cell on screen for a short while, so a human
// can follow what the director is doing.
type Annotation struct {
	Type AnnotationType
	Cell *Cell

	firstShown time.Time
	frame      int
}
