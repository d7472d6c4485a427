package orbitviz

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbsOrRel(a[i], b[i], 1e-9, 1e-3) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in Radians are equal, modulo 2π.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Abs(math.Remainder(a-b, 2*math.Pi))
	if diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", diff/deg2rad)
}

// testElements returns the reference a=5137 e=0.6 orbit around the Earth with dt=1s.
func testElements(i, Ω, ω float64) OrbitalElements {
	return NewOrbitalElements(5137, 0.6, i, Ω, ω, Earth)
}
