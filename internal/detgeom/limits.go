package detgeom

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

var beamAxis = r3.Vector{X: 0, Y: 0, Z: 1}

// SpotCoordToResolution returns the d-spacing (Å when wavelength is in Å)
// of the pixel (x, y) on leaf id, from the Bragg angle between the beam and
// the diffracted direction. The beam centre itself gives +Inf.
func (r *Registry) SpotCoordToResolution(id PanelID, x, y, wavelength float64) float64 {
	v := r.LocalPixelToAbsoluteVector(id, x, y)
	twoTheta := v.Angle(beamAxis).Radians()
	s := math.Sin(twoTheta / 2)
	if s < parallelEps {
		return math.Inf(1)
	}
	return wavelength / (2 * s)
}

// leafCorners returns the four unarranged corners of leaf p.
func (p *Panel) leafCorners() [4][2]float64 {
	x0, y0 := float64(p.topLeft.X), float64(p.topLeft.Y)
	x1, y1 := float64(p.bottomRight.X), float64(p.bottomRight.Y)
	return [4][2]float64{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}}
}

// ZLimits returns the smallest and largest lab-frame z (pixel units) reached
// by any leaf corner under id.
func (r *Registry) ZLimits(id PanelID) (min, max float64) {
	var zs []float64
	for _, lid := range r.Leaves(id) {
		for _, c := range r.panels[lid].leafCorners() {
			zs = append(zs, r.LocalPixelToAbsoluteVector(lid, c[0], c[1]).Z)
		}
	}
	if len(zs) == 0 {
		return 0, 0
	}
	return floats.Min(zs), floats.Max(zs)
}

// ResolutionLimits returns the finest and coarsest d-spacing sampled at the
// leaf corners under id. A leaf covering the beam centre reaches lower
// resolution than its corners; callers wanting that should probe the centre.
func (r *Registry) ResolutionLimits(id PanelID, wavelength float64) (best, worst float64) {
	var ds []float64
	for _, lid := range r.Leaves(id) {
		for _, c := range r.panels[lid].leafCorners() {
			ds = append(ds, r.SpotCoordToResolution(lid, c[0], c[1], wavelength))
		}
	}
	if len(ds) == 0 {
		return 0, 0
	}
	return floats.Min(ds), floats.Max(ds)
}
