package game

type CellState int
type BoardState int
type GameMode int

const (
	Unrevealed CellState = iota - 1
	Empty
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Flag
	FlagWrong
	Mine
	MineUnrevealed
	MineLosing
)

var CellStates = []CellState{
	Unrevealed,
	Empty,
	Number1,
	Number2,
	Number3,
	Number4,
	Number5,
	Number6,
	Number7,
	Number8,
	Flag,
	FlagWrong,
	Mine,
	MineUnrevealed,
	MineLosing,
}

const (
	cellWidth = 16
)

const (
	Lost BoardState = iota
	Won
	Ongoing
	Paused
)

func (state BoardState) String() string {
	switch state {
	case Lost:
		return "lost"
	case Won:
		return "won"
	case Ongoing:
		return "ongoing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

const (
	// Classic leaves mines where they land; the first click can lose.
	Classic GameMode = iota
	// Win7 clears all mines surrounding the first-clicked cell, so the
	// first click always cascades.
	Win7
)
