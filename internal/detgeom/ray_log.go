package detgeom

import (
	"sort"
	"sync"

	"github.com/golang/geo/r3"
)

type Category uint8

const (
	RayHit      Category = iota // ray landed on the panel
	RayOutside                  // plane hit outside the panel extent
	RayParallel                 // ray parallel to (or pointing away from) the panel plane
)

func (c Category) String() string {
	switch c {
	case RayHit:
		return "hit"
	case RayOutside:
		return "outside"
	case RayParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

type RayLog struct {
	Panel     string
	Category  Category
	Direction r3.Vector
	Point     r3.Vector // plane intersection, if any
}

type RayLogCache struct {
	mu   sync.Mutex
	rays map[string][]RayLog // panel tag -> logs
}

var cache = &RayLogCache{
	rays: make(map[string][]RayLog),
}

func logRay(panel string, category Category, direction, point r3.Vector) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.rays[panel] = append(cache.rays[panel], RayLog{
		Panel:     panel,
		Category:  category,
		Direction: direction,
		Point:     point,
	})
}

// RayStats counts logged rays per panel and category.
func RayStats() map[string]map[Category]int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	out := make(map[string]map[Category]int, len(cache.rays))
	for tag, logs := range cache.rays {
		m := make(map[Category]int)
		for _, l := range logs {
			m[l.Category]++
		}
		out[tag] = m
	}
	return out
}

func raysStats() {
	stats := RayStats()
	tags := make([]string, 0, len(stats))
	for tag := range stats {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		m := stats[tag]
		diagf("rays on %s: hit=%d outside=%d parallel=%d", tag, m[RayHit], m[RayOutside], m[RayParallel])
	}
}

func resetRayLog() {
	cache.mu.Lock()
	cache.rays = make(map[string][]RayLog)
	cache.mu.Unlock()
}
