package orbitviz

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestDisplayVectorsPerpendicular(t *testing.T) {
	for _, o := range []OrbitalElements{testElements(10, 0, 0), testElements(28.5, 45, 30), testElements(90, 270, 90),
		testElements(135, 300, 200), testElements(170, 15, 345)} {
		snap, err := ComputeOrbitSnapshot(o)
		if err != nil {
			t.Fatal(err)
		}
		vecs := snap.Vectors
		if vecs.NodeDegenerate {
			t.Fatalf("%s: unexpected degenerate node", o)
		}
		for name, v := range map[string][]float64{"h": vecs.H, "e": vecs.E, "n": vecs.N} {
			if !floats.EqualWithinRel(norm(v), DisplayLength, 1e-12) {
				t.Fatalf("%s: |%s| = %f", o, name, norm(v))
			}
		}
		hHat := unit(vecs.H)
		for k, R := range snap.Trajectory {
			if d := dot(hHat, unit(R)); math.Abs(d) > 1e-9 {
				t.Fatalf("%s: h·r = %e at sample %d", o, d, k)
			}
		}
		if !floats.EqualWithinAbs(vecs.N[2], 0, 1e-9) {
			t.Fatalf("%s: node vector off the reference plane: %v", o, vecs.N)
		}
		if !vectorsEqual(unit(vecs.N), unit(cross([]float64{0, 0, 1}, vecs.H))) {
			t.Fatalf("%s: n is not along Z × h", o)
		}
		if !vectorsEqual(unit(vecs.E), unit(snap.Trajectory[0])) {
			t.Fatalf("%s: e is not along the periapsis", o)
		}
	}
}

func TestDisplayVectorsClassical(t *testing.T) {
	for _, angles := range [][3]float64{{28.5, 45, 30}, {90, 90, 0}, {63.4, 200, 270}, {120, 330, 10}} {
		i, Ω, ω := angles[0]*deg2rad, angles[1]*deg2rad, angles[2]*deg2rad
		vecs, err := DeriveVectors(testElements(angles[0], angles[1], angles[2]))
		if err != nil {
			t.Fatal(err)
		}
		hExp := []float64{math.Sin(Ω) * math.Sin(i), -math.Cos(Ω) * math.Sin(i), math.Cos(i)}
		if !vectorsEqual(unit(vecs.H), hExp) {
			t.Fatalf("%v: h=%v instead of %v", angles, unit(vecs.H), hExp)
		}
		nExp := []float64{math.Cos(Ω), math.Sin(Ω), 0}
		if !vectorsEqual(unit(vecs.N), nExp) {
			t.Fatalf("%v: n=%v instead of %v", angles, unit(vecs.N), nExp)
		}
		// ω is the angle from the node to the periapsis.
		if cosω := dot(unit(vecs.N), unit(vecs.E)); !floats.EqualWithinAbs(cosω, math.Cos(ω), 1e-9) {
			t.Fatalf("%v: cos ω = %f instead of %f", angles, cosω, math.Cos(ω))
		}
	}
}

func TestDisplayVectorsDegenerate(t *testing.T) {
	for _, i := range []float64{0, 180, 0.001, 179.999} {
		vecs, err := DeriveVectors(testElements(i, 30, 60))
		if !errors.Is(err, ErrDegenerateNodeVector) {
			t.Fatalf("i=%f: expected ErrDegenerateNodeVector, got %v", i, err)
		}
		if !vecs.NodeDegenerate || norm(vecs.N) != 0 {
			t.Fatalf("i=%f: node should be flagged and zero: %+v", i, vecs)
		}
		if !floats.EqualWithinRel(math.Abs(vecs.H[2]), DisplayLength, 1e-6) {
			t.Fatalf("i=%f: h should be along ±Z: %v", i, vecs.H)
		}
		if !floats.EqualWithinRel(norm(vecs.E), DisplayLength, 1e-12) {
			t.Fatalf("i=%f: e should still be set: %v", i, vecs.E)
		}
	}
	// The smallest inclination step of the controls is not degenerate.
	if vecs, err := DeriveVectors(testElements(0.01, 30, 60)); err != nil || vecs.NodeDegenerate {
		t.Fatalf("i=0.01: unexpected degenerate node (%v)", err)
	}
	if vecs, _ := DeriveVectors(testElements(180, 30, 60)); vecs.H[2] >= 0 {
		t.Fatalf("retrograde equatorial orbit should have h along -Z: %v", vecs.H)
	}
}

func TestDeriveVectorsInvalid(t *testing.T) {
	o := testElements(30, 0, 0)
	o.SMA = -5
	if _, err := DeriveVectors(o); !errors.Is(err, ErrInvalidElements) {
		t.Fatalf("expected ErrInvalidElements, got %v", err)
	}
}
