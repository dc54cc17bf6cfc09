package detgeom

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"
)

// CollectStats summarizes one reflection collection pass.
type CollectStats struct {
	Assigned   int // recorded on some leaf
	Unassigned int // fell in a gap or missed every panel
}

// splitWork distributes n items across workers evenly, remainder to the
// first workers. It returns the [start, end) range of each worker.
func splitWork(n, workers int) [][2]int {
	base, rem := n/workers, n%workers
	out := make([][2]int, workers)
	start := 0
	for w := 0; w < workers; w++ {
		cnt := base
		if w < rem {
			cnt++
		}
		out[w] = [2]int{start, start + cnt}
		start += cnt
	}
	return out
}

func workerCount(workers, n int) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	return imax(workers, 1)
}

// locate finds the leaf for one reflection: an existing assignment wins,
// then the ray (when the reflection has a usable one), then the raw pixel
// coordinate.
func (r *Registry) locate(refl Reflection) (PanelID, error) {
	if id := refl.Panel(); id != NoPanel {
		if !r.valid(id) {
			return NoPanel, fmt.Errorf("assigned panel %d: %w", id, ErrNoPanel)
		}
		return id, nil
	}
	if rr, ok := refl.(Rayed); ok {
		if ray := rr.Ray(); ray != (r3.Vector{}) && isFiniteVec(ray) {
			id, _, found := r.PanelForRay(r.root, ray)
			if !found {
				return NoPanel, nil
			}
			return id, nil
		}
	}
	x, y := refl.RawXY()
	id, found := r.FindLeafForPixelCoord(r.root, x, y)
	if !found {
		return NoPanel, nil
	}
	return id, nil
}

// CollectReflections assigns each reflection to the leaf that owns it and
// records it there, fanning out over workers (0 means one per CPU). The tree
// is refreshed first and must not be mutated until this returns.
func (r *Registry) CollectReflections(refls []Reflection, workers int) (CollectStats, error) {
	if !r.active {
		return CollectStats{}, ErrInactive
	}
	if r.root == NoPanel || len(refls) == 0 {
		return CollectStats{Unassigned: len(refls)}, nil
	}
	r.Refresh()

	workers = workerCount(workers, len(refls))
	var assigned, unassigned int64
	var g errgroup.Group
	for _, span := range splitWork(len(refls), workers) {
		lo, hi := span[0], span[1]
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				refl := refls[i]
				id, err := r.locate(refl)
				if err != nil {
					return fmt.Errorf("reflection %d: %w", i, err)
				}
				if id == NoPanel {
					atomic.AddInt64(&unassigned, 1)
					continue
				}
				refl.SetPanel(id)
				r.RecordReflection(id, refl)
				atomic.AddInt64(&assigned, 1)
			}
			return nil
		})
	}
	err := g.Wait()
	stats := CollectStats{Assigned: int(assigned), Unassigned: int(unassigned)}
	diagf("run %s: collected %d reflections on %d workers (%d in gaps)", r.RunID, stats.Assigned, workers, stats.Unassigned)
	return stats, err
}
