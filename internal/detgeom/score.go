package detgeom

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ShiftScore summarizes how far the reflections recorded on the leaves under
// id lie from their predicted positions: the mean shift magnitude, or its
// standard deviation when stdev is set. ok is false when no recorded
// reflection implements Shifter.
func (r *Registry) ShiftScore(id PanelID, stdev bool) (score float64, ok bool) {
	var shifts []float64
	for _, lid := range r.Leaves(id) {
		p := r.panels[lid]
		p.reflMu.Lock()
		for _, refl := range p.reflections {
			s, isShifter := refl.(Shifter)
			if !isShifter {
				continue
			}
			dx, dy := s.Shift()
			if d := math.Hypot(dx, dy); isFinite(d) {
				shifts = append(shifts, d)
			}
		}
		p.reflMu.Unlock()
	}
	if len(shifts) == 0 {
		return 0, false
	}
	if stdev {
		if len(shifts) < 2 {
			return 0, true
		}
		return stat.StdDev(shifts, nil), true
	}
	return stat.Mean(shifts, nil), true
}
