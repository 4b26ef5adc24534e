package gas

import (
	"math"
	"sync"
)

// nextCollisionParallel splits the pair sweep across cfg.Workers
// goroutines. Prediction is read-only over particle state, so the
// fan-out is safe; the minimum reduction runs serially afterwards and
// compares (time, pair index) to reproduce the serial tie-break order
// exactly.
func (e *Engine) nextCollisionParallel() (event, bool) {
	total := e.pairCount()
	workers := e.cfg.Workers
	if workers > total {
		workers = total
	}

	events := make([]event, workers)
	founds := make([]bool, workers)
	chunk := (total + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > total {
			hi = total
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(slot, lo, hi int) {
			defer wg.Done()
			events[slot], founds[slot] = e.sweep(lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	best := event{dt: math.Inf(1)}
	found := false
	for w := range events {
		if !founds[w] {
			continue
		}
		ev := events[w]
		if !found || ev.dt < best.dt || (ev.dt == best.dt && ev.pair < best.pair) {
			best = ev
			found = true
		}
	}
	return best, found
}
