package detgeom

import (
	"math"

	"github.com/golang/geo/r3"
)

// planeHit returns t such that t·ray lies on the plane through point with
// the given normal, or +Inf when the ray is parallel or the plane is behind.
func planeHit(point, normal, ray r3.Vector) float64 {
	den := normal.Dot(ray)
	if math.Abs(den) < parallelEps {
		return math.Inf(1)
	}
	t := point.Dot(normal) / den
	if !isFinite(t) || t <= minRayT {
		return math.Inf(1)
	}
	return t
}

// IntersectionWithRay intersects a ray from the origin with the plane of
// leaf id.
func (r *Registry) IntersectionWithRay(id PanelID, ray r3.Vector) (r3.Vector, bool) {
	p := r.Panel(id)
	t := planeHit(r.AbsoluteMidPoint(id), p.normal, ray)
	if !isFinite(t) {
		return r3.Vector{}, false
	}
	return ray.Mul(t), true
}

// PanelForRay finds the leaf under id struck by a ray from the origin, trying
// children in order. It returns the lab-frame intersection point.
func (r *Registry) PanelForRay(id PanelID, ray r3.Vector) (PanelID, r3.Vector, bool) {
	p := r.Panel(id)
	if !p.IsLeaf() {
		for _, c := range p.children {
			if found, hit, ok := r.PanelForRay(c, ray); ok {
				return found, hit, true
			}
		}
		return NoPanel, r3.Vector{}, false
	}

	hit, ok := r.IntersectionWithRay(id, ray)
	if !ok {
		if Debug {
			logRay(p.tag, RayParallel, ray, hit)
		}
		return NoPanel, r3.Vector{}, false
	}
	x, y := r.AbsoluteVectorToLocalPixel(id, hit)
	if !r.WithinBounds(id, x, y) {
		if Debug {
			logRay(p.tag, RayOutside, ray, hit)
		}
		return NoPanel, r3.Vector{}, false
	}
	if Debug {
		logRay(p.tag, RayHit, ray, hit)
	}
	return id, hit, true
}

// SpotCoordForRay traces ray from the root and returns the struck leaf and
// the pixel coordinate on it.
func (r *Registry) SpotCoordForRay(ray r3.Vector) (id PanelID, x, y float64, ok bool) {
	if r.root == NoPanel {
		return NoPanel, 0, 0, false
	}
	id, hit, ok := r.PanelForRay(r.root, ray)
	if !ok {
		return NoPanel, 0, 0, false
	}
	x, y = r.AbsoluteVectorToLocalPixel(id, hit)
	return id, x, y, true
}
