package detgeom

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Reflection is a spot with an assigned lattice index, as seen by the
// geometry: where it was recorded and which panel owns it.
type Reflection interface {
	Panel() PanelID // NoPanel when unassigned
	SetPanel(PanelID)
	RawXY() (x, y float64)
}

// Shifter is implemented by reflections that know how far the observed spot
// lies from its predicted position, in pixels. Used for panel scoring.
type Shifter interface {
	Shift() (dx, dy float64)
}

// Rayed is implemented by reflections that carry the diffracted ray
// direction; collection then locates the panel by ray tracing.
type Rayed interface {
	Ray() r3.Vector
}

// Spot is a minimal Reflection for callers without their own type.
type Spot struct {
	X, Y      float64
	Direction r3.Vector // zero when unknown
	DX, DY    float64   // observed minus predicted

	panel    PanelID
	assigned bool
}

func (s *Spot) Panel() PanelID {
	if !s.assigned {
		return NoPanel
	}
	return s.panel
}

func (s *Spot) SetPanel(id PanelID) {
	s.panel, s.assigned = id, id != NoPanel
}

func (s *Spot) RawXY() (float64, float64) { return s.X, s.Y }
func (s *Spot) Shift() (float64, float64) { return s.DX, s.DY }
func (s *Spot) Ray() r3.Vector            { return s.Direction }

// RecordReflection appends refl to the reflections observed on id. Safe for
// concurrent use; the lock is held only for the append.
func (r *Registry) RecordReflection(id PanelID, refl Reflection) {
	p := r.Panel(id)
	p.reflMu.Lock()
	p.reflections = append(p.reflections, refl)
	p.reflMu.Unlock()
}

// ReflectionCount is meant for use after all writers have joined.
func (r *Registry) ReflectionCount(id PanelID) int {
	return len(r.Panel(id).reflections)
}

// ReflectionAt is meant for use after all writers have joined.
func (r *Registry) ReflectionAt(id PanelID, i int) Reflection {
	p := r.Panel(id)
	if i < 0 || i >= len(p.reflections) {
		panic(fmt.Sprintf("detgeom: reflection %d out of range on %q (%d recorded)", i, p.tag, len(p.reflections)))
	}
	return p.reflections[i]
}

// ClearReflections forgets the reflections recorded on id and below.
func (r *Registry) ClearReflections(id PanelID) {
	r.Walk(id, func(_ PanelID, p *Panel) {
		p.reflMu.Lock()
		p.reflections = nil
		p.reflMu.Unlock()
	})
}
