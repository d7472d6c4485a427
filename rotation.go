package orbitviz

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// PQW2ECI returns the rotation from the perifocal frame to the inertial frame,
// i.e. R3(-Ω)·R1(-i)·R3(-ω). All angles are in degrees and are not normalized.
// NOTE: the order of the products matters; R3(-ω)·R1(-i)·R3(-Ω) is a different plane.
func PQW2ECI(i, ω, Ω float64) *mat64.Dense {
	var r1r3, m mat64.Dense
	r1r3.Mul(R1(-i*deg2rad), R3(-ω*deg2rad))
	m.Mul(R3(-Ω*deg2rad), &r1r3)
	return &m
}

// R3R1R3 is the closed form of PQW2ECI, with angles in radians.
// From Vallado, page 173.
func R3R1R3(i, ω, Ω float64) *mat64.Dense {
	si, ci := math.Sincos(i)
	sω, cω := math.Sincos(ω)
	sΩ, cΩ := math.Sincos(Ω)
	return mat64.NewDense(3, 3, []float64{cΩ*cω - sΩ*sω*ci, -cΩ*sω - sΩ*cω*ci, sΩ * si,
		sΩ*cω + cΩ*sω*ci, cΩ*cω*ci - sΩ*sω, -cΩ * si,
		sω * si, cω * si, ci})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat64.Matrix, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// DenseIdentity returns an identity matrix of the provided size.
func DenseIdentity(n int) *mat64.Dense {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j++ {
		if j%(n+1) == 0 {
			vals[j] = 1
		}
	}
	return mat64.NewDense(n, n, vals)
}

// IsOrthonormal returns whether Mᵀ·M is the identity within the provided tolerance.
func IsOrthonormal(m mat64.Matrix, ε float64) bool {
	r, c := m.Dims()
	if r != c {
		return false
	}
	var mTm mat64.Dense
	mTm.Mul(m.T(), m)
	return mat64.EqualApprox(&mTm, DenseIdentity(r), ε)
}
