package orbitviz

import (
	"errors"
	"math"

	"github.com/gonum/matrix/mat64"
)

// DisplayLength is the length of every display vector, in km.
const DisplayLength = 2000.0

// ErrDegenerateNodeVector is returned when the orbit is (nearly) equatorial, so the
// line of nodes is undefined. The other display vectors remain valid.
var ErrDegenerateNodeVector = errors.New("node vector is degenerate for an equatorial orbit")

// DisplayVectors are the directions drawn next to the orbit, each DisplayLength long.
type DisplayVectors struct {
	H []float64 // Orbit normal (angular momentum direction)
	E []float64 // Periapsis (eccentricity) direction
	N []float64 // Ascending node direction, zero if NodeDegenerate
	// NodeDegenerate is set when the inclination is within 0.005 degrees of 0 or 180.
	NodeDegenerate bool
}

// DeriveVectors returns the display vectors of the provided elements.
// The error is ErrDegenerateNodeVector for equatorial orbits, in which case H and E are still set.
func DeriveVectors(o OrbitalElements) (DisplayVectors, error) {
	if err := o.Validate(); err != nil {
		return DisplayVectors{}, err
	}
	R := o.Rotation()
	return deriveVectors(o, R, MxV33(R, []float64{o.Periapsis(), 0, 0}))
}

// deriveVectors uses the periapsis position, i.e. the first sample of the trajectory.
// H is built from the periapsis velocity, along the perifocal Q axis, and is only
// a direction: its magnitude is not that of the angular momentum.
func deriveVectors(o OrbitalElements, R mat64.Matrix, periapsis []float64) (DisplayVectors, error) {
	vp := o.AngularMomentumNorm() / o.Periapsis()
	V := MxV33(R, []float64{0, vp, 0})
	vecs := DisplayVectors{
		H: scaledUnit(cross(periapsis, V), DisplayLength),
		E: scaledUnit(periapsis, DisplayLength),
	}
	n := cross([]float64{0, 0, 1}, vecs.H)
	if norm(n)/DisplayLength < math.Sin(angleε) {
		vecs.N = []float64{0, 0, 0}
		vecs.NodeDegenerate = true
		return vecs, ErrDegenerateNodeVector
	}
	vecs.N = scaledUnit(n, DisplayLength)
	return vecs, nil
}
