package detgeom

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// 3×3 matrix (row-major)
type Mat3 struct {
	M [3][3]float64
}

func I3() Mat3 {
	return Mat3{M: [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

// FromColumns builds the matrix whose columns are a, b and c.
func FromColumns(a, b, c r3.Vector) Mat3 {
	return Mat3{M: [3][3]float64{
		{a.X, b.X, c.X},
		{a.Y, b.Y, c.Y},
		{a.Z, b.Z, c.Z},
	}}
}

func (A Mat3) Mul(B Mat3) Mat3 {
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

func (A Mat3) Transpose() Mat3 {
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = A.M[c][r]
		}
	}
	return R
}

func (A Mat3) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: A.M[0][0]*v.X + A.M[0][1]*v.Y + A.M[0][2]*v.Z,
		Y: A.M[1][0]*v.X + A.M[1][1]*v.Y + A.M[1][2]*v.Z,
		Z: A.M[2][0]*v.X + A.M[2][1]*v.Y + A.M[2][2]*v.Z,
	}
}

func (A Mat3) Det() float64 {
	return mat.Det(A.dense())
}

// Inverse returns A⁻¹, or an error when A is (numerically) singular.
func (A Mat3) Inverse() (Mat3, error) {
	if d := A.Det(); d > -SingularTolerance && d < SingularTolerance {
		return Mat3{}, fmt.Errorf("singular 3x3 matrix (det=%.3g)", d)
	}
	var inv mat.Dense
	if err := inv.Inverse(A.dense()); err != nil {
		return Mat3{}, err
	}
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = inv.At(r, c)
		}
	}
	return R, nil
}

func (A Mat3) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		A.M[0][0], A.M[0][1], A.M[0][2],
		A.M[1][0], A.M[1][1], A.M[1][2],
		A.M[2][0], A.M[2][1], A.M[2][2],
	})
}
