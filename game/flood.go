// Flood-fill structure adapted from: https://github.com/hinshun/floodfill

package game

import (
	"sync"

	"github.com/gammazero/deque"
)

const defaultParallelism = 20

type neighborGetter func(*Cell) <-chan *Cell
type visitor func(*Cell)

func flood(cell *Cell, visit visitor, getNeighbors neighborGetter) {
	parallelFlood(cell, defaultParallelism, visit, getNeighbors)
}

func parallelFlood(cell *Cell, parallelism int, visit visitor, getNeighbors neighborGetter) {
	visited := make(map[uint]struct{})
	visitQueue := deque.Deque[*Cell]{}
	visitLock := sync.Mutex{}
	permitCh := make(chan struct{}, parallelism)
	wg := sync.WaitGroup{}

	var visitNext func()

	enqueue := func(cell *Cell) {
		visitLock.Lock()
		defer visitLock.Unlock()

		// Don't visit, if already visited
		if _, alreadyVisited := visited[cell.idx]; alreadyVisited {
			return
		}

		visited[cell.idx] = struct{}{}
		visitQueue.PushBack(cell)
		wg.Add(1)

		go visitNext()
	}

	dequeue := func() *Cell {
		visitLock.Lock()
		defer visitLock.Unlock()

		return visitQueue.PopFront()
	}

	visitNext = func() {
		defer wg.Done()

		<-permitCh
		defer func() {
			permitCh <- struct{}{}
		}()

		cell := dequeue()
		visit(cell)

		if cell.numMines == 0 {
			for neighbor := range getNeighbors(cell) {
				enqueue(neighbor)
			}
		}
	}

	for i := 0; i < parallelism; i++ {
		permitCh <- struct{}{}
	}

	enqueue(cell)
	wg.Wait()
}
