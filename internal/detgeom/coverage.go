package detgeom

import (
	"image"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
)

// unarrangedBounds is the smallest pixel rectangle holding every leaf.
func (r *Registry) unarrangedBounds() image.Rectangle {
	var b image.Rectangle
	for i, lid := range r.Leaves(r.root) {
		lr := r.panels[lid].Rect().Canon()
		if i == 0 {
			b = lr
			continue
		}
		b = b.Union(lr)
	}
	return b
}

// EstimateCoverage samples the unarranged bounding box of all leaves and
// returns the fraction of samples owned by some leaf; 1 minus this is the
// gap fraction. seed 0 picks a time-based seed. The tree is refreshed
// first and must not be mutated until this returns.
func (r *Registry) EstimateCoverage(samples, workers int, seed int64) float64 {
	if samples <= 0 || r.root == NoPanel {
		return 0
	}
	b := r.unarrangedBounds()
	if b.Empty() {
		return 0
	}
	r.Refresh()
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers = workerCount(workers, samples)
	spans := splitWork(samples, workers)
	hits := make([]int, len(spans))
	w, h := float64(b.Dx()), float64(b.Dy())
	var g errgroup.Group
	for wid, span := range spans {
		wid := wid
		n := span[1] - span[0]
		if n == 0 {
			continue
		}
		g.Go(func() error {
			// independent RNG per worker
			rng := rand.New(rand.NewSource(seed ^ int64(uint64(wid)*0x9e3779b97f4a7c15)))
			local := 0
			for i := 0; i < n; i++ {
				x := float64(b.Min.X) + rng.Float64()*w
				y := float64(b.Min.Y) + rng.Float64()*h
				if _, ok := r.FindLeafForPixelCoord(r.root, x, y); ok {
					local++
				}
			}
			hits[wid] = local
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, n := range hits {
		total += n
	}
	frac := float64(total) / float64(samples)
	diagf("run %s: coverage %.4f from %d samples on %d workers", r.RunID, frac, samples, workers)
	return frac
}
