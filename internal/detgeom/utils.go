package detgeom

import (
	"math"

	"github.com/golang/geo/r3"
)

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func isFiniteVec(v r3.Vector) bool { return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z) }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
