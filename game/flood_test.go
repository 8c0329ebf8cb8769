package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelFloodVisitsEveryCellOnce(t *testing.T) {
	board := loadBoard("####\n####\n####\n####", true, boardConfig{})

	visits := make(map[*Cell]int)
	visitsLock := sync.Mutex{}

	parallelFlood(
		board.CellAt(0, 0),
		4,
		func(cell *Cell) {
			visitsLock.Lock()
			visits[cell]++
			visitsLock.Unlock()
		},
		func(cell *Cell) <-chan *Cell {
			return cell.Neighbors()
		},
	)

	assert.Len(t, visits, 16)
	for cell, count := range visits {
		assert.Equal(t, 1, count, "visits to %s", cell)
	}
}

func TestFloodStopsAtNumberedCells(t *testing.T) {
	// Mines on the right edge wall off the last column.
	board := loadBoard("###O\n###O\n###O\n###O", true, boardConfig{})

	visited := make(map[*Cell]struct{})
	visitsLock := sync.Mutex{}

	flood(
		board.CellAt(0, 0),
		func(cell *Cell) {
			visitsLock.Lock()
			visited[cell] = struct{}{}
			visitsLock.Unlock()
		},
		func(cell *Cell) <-chan *Cell {
			return cell.Neighbors()
		},
	)

	for cell := range board.Cells() {
		_, wasVisited := visited[cell]
		if cell.isMine {
			assert.False(t, wasVisited, "%s is a mine", cell)
		} else {
			assert.True(t, wasVisited, "%s is reachable", cell)
		}
	}
}
