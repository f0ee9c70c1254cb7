package simulation

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestBarrierSingleParty(t *testing.T) {
	b := NewBarrier(1)
	if b.Parties() != 1 {
		t.Fatalf("Parties() = %d, want 1", b.Parties())
	}
	for i := 0; i < 3; i++ {
		b.Wait()
	}
}

// TestBarrierReuse checks that no party starts round r+1 before every party
// has finished round r, across many generations.
func TestBarrierReuse(t *testing.T) {
	const (
		parties = 6
		rounds  = 500
	)
	b := NewBarrier(parties)
	if got := b.Parties(); got != parties {
		t.Fatalf("Parties() = %d, want %d", got, parties)
	}
	var arrived [rounds]atomic.Int32
	var wg sync.WaitGroup
	errs := make(chan string, parties)

	for w := 0; w < b.Parties(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				arrived[r].Add(1)
				b.Wait()
				if got := arrived[r].Load(); got != parties {
					errs <- "party released early"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Fatal(e)
	}
}

func TestBarrierPanicsOnZeroParties(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewBarrier(0) did not panic")
		}
	}()
	NewBarrier(0)
}
