package detgeom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Tait-Bryan angles in radians: Alpha about X, Beta about Y, Gamma about Z.
// Stored as an r3.Vector (X=alpha, Y=beta, Z=gamma) on the panel.

func rotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	M := I3()
	M.M[1][1], M.M[1][2] = c, -s
	M.M[2][1], M.M[2][2] = s, c
	return M
}
func rotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	M := I3()
	M.M[0][0], M.M[0][2] = c, s
	M.M[2][0], M.M[2][2] = -s, c
	return M
}
func rotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	M := I3()
	M.M[0][0], M.M[0][1] = c, -s
	M.M[1][0], M.M[1][1] = s, c
	return M
}

// Compose rotation from angles: X first, then Y, then Z.
func rotFromAngles(a r3.Vector) Mat3 {
	R := I3()
	R = rotX(a.X).Mul(R)
	R = rotY(a.Y).Mul(R)
	R = rotZ(a.Z).Mul(R)
	return R
}
