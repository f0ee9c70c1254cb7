package simulation

import "sync"

// Barrier is a reusable rendezvous point for a fixed number of goroutines.
// Each call to Wait blocks until parties goroutines have called it, then all
// are released together and the barrier resets for the next round.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation uint64
}

// NewBarrier creates a barrier for parties goroutines. parties must be >= 1.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("simulation: barrier needs at least one party")
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Parties returns the number of goroutines that must arrive to release the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// Wait blocks until all parties have arrived. Writes made by any party before
// Wait are visible to every party after it returns.
func (b *Barrier) Wait() {
	b.mu.Lock()
	gen := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	for gen == b.generation {
		b.cond.Wait()
	}
	b.mu.Unlock()
}
