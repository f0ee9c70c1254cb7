package simulation

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/sparks/systems"
)

// workerScratch holds per-worker reusable buffers and counters. Counters are
// written only by the owning worker and read by the orchestrator after the
// done barrier.
type workerScratch struct {
	Neighbors []systems.Neighbor

	active     int
	expired    int
	pairChecks int

	_ [64]byte // keep neighbouring workers' counters off the same cache line
}

func (w *workerScratch) reset() {
	w.active = 0
	w.expired = 0
	w.pairChecks = 0
}

// workerPool runs a fixed set of long-lived workers in lockstep with Step.
// Every frame the orchestrator and all workers meet at start, the workers
// integrate their slices, and everyone meets again at done.
type workerPool struct {
	numWorkers int
	scratches  []workerScratch

	start *Barrier
	done  *Barrier

	dt       atomic.Uint32 // float32 bits
	shutdown atomic.Bool

	wg      sync.WaitGroup
	running atomic.Int32 // live worker goroutines
	stopped bool
}

func newWorkerPool(numWorkers int) *workerPool {
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].Neighbors = make([]systems.Neighbor, 0, 64)
	}
	return &workerPool{
		numWorkers: numWorkers,
		scratches:  scratches,
		start:      NewBarrier(numWorkers + 1),
		done:       NewBarrier(numWorkers + 1),
	}
}

// startWorkers launches the worker goroutines. Each runs until stopWorkers.
func (wp *workerPool) startWorkers(s *System) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		wp.running.Add(1)
		go wp.worker(s, i)
	}
}

// run publishes dt, releases the workers and blocks until all have finished.
func (wp *workerPool) run(dt float32) {
	for i := range wp.scratches {
		wp.scratches[i].reset()
	}
	wp.dt.Store(math.Float32bits(dt))
	wp.start.Wait()
	wp.done.Wait()
}

// stopWorkers signals all workers to exit and waits for them.
func (wp *workerPool) stopWorkers() {
	if wp.stopped {
		return
	}
	wp.stopped = true
	wp.shutdown.Store(true)
	wp.start.Wait()
	wp.wg.Wait()
}

// worker parks on the start barrier, integrates its slice, then parks on the
// done barrier. It only exits from the start barrier.
func (wp *workerPool) worker(s *System, workerID int) {
	defer wp.wg.Done()
	defer wp.running.Add(-1)
	scratch := &wp.scratches[workerID]

	for {
		wp.start.Wait()
		if wp.shutdown.Load() {
			return
		}

		dt := math.Float32frombits(wp.dt.Load())
		lo, hi := chunkBounds(workerID, wp.numWorkers, len(s.pool))
		s.integrateRange(lo, hi, dt, scratch)

		wp.done.Wait()
	}
}

// chunkBounds returns the static slice of n slots owned by worker id. Every
// worker gets n/workers slots and the last one absorbs the remainder.
func chunkBounds(id, workers, n int) (lo, hi int) {
	size := n / workers
	lo = id * size
	hi = lo + size
	if id == workers-1 {
		hi = n
	}
	return lo, hi
}

// totals sums the per-worker counters of the last run.
func (wp *workerPool) totals() (active, expired, pairChecks int) {
	for i := range wp.scratches {
		w := &wp.scratches[i]
		active += w.active
		expired += w.expired
		pairChecks += w.pairChecks
	}
	return active, expired, pairChecks
}
