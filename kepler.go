package orbitviz

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/kepler"
	sunit "github.com/soniakeys/unit"
)

const (
	// KeplerTolerance is the default stopping criterion on |E_k - E_k-1|, in radians.
	KeplerTolerance = 1e-3
	// KeplerMaxIterations is the default bound on the Newton-Raphson iterations.
	KeplerMaxIterations = 1000
)

// ErrConvergence is matched by every ConvergenceError.
var ErrConvergence = errors.New("kepler equation did not converge")

// ConvergenceError is returned when the solver runs out of iterations.
type ConvergenceError struct {
	M, Ecc     float64 // Inputs
	E          float64 // Last iterate
	Δ          float64 // Last correction
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s after %d iterations (M=%f e=%f E=%f ΔE=%e)", ErrConvergence, e.Iterations, e.M, e.Ecc, e.E, e.Δ)
}

// Unwrap allows errors.Is(err, ErrConvergence).
func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

// KeplerSolver solves Kepler's equation M = E - e·sin(E) with Newton-Raphson.
// The zero value uses KeplerTolerance and KeplerMaxIterations.
type KeplerSolver struct {
	Tolerance     float64
	MaxIterations int
	// Fallback restarts a failed iteration from Sinnott's solution, which is
	// bounded for every e < 1. The restart gets MaxIterations as well.
	Fallback bool
}

func (s KeplerSolver) params() (tol float64, maxIter int) {
	tol, maxIter = s.Tolerance, s.MaxIterations
	if tol <= 0 {
		tol = KeplerTolerance
	}
	if maxIter <= 0 {
		maxIter = KeplerMaxIterations
	}
	return
}

// EccentricAnomaly returns E for the mean anomaly M (radians) and eccentricity e.
// The iteration is seeded with E = M.
func (s KeplerSolver) EccentricAnomaly(M, e float64) (float64, error) {
	if e < 0 || e >= 1 || !finite(M, e) {
		return math.NaN(), fmt.Errorf("%w: cannot solve Kepler's equation for M=%f e=%f", ErrInvalidElements, M, e)
	}
	tol, maxIter := s.params()
	E, err := newton(M, e, M, tol, maxIter)
	if err != nil && s.Fallback {
		ref := ReferenceEccentricAnomaly(M, e)
		// Same revolution as M so that E stays continuous along a trajectory.
		ref += 2 * math.Pi * math.Round((M-ref)/(2*math.Pi))
		return newton(M, e, ref, tol, maxIter)
	}
	return E, err
}

func newton(M, e, E, tol float64, maxIter int) (float64, error) {
	Δ := math.Inf(1)
	for iter := 1; iter <= maxIter; iter++ {
		sinE, cosE := math.Sincos(E)
		Δ = (M - E + e*sinE) / (1 - e*cosE)
		E += Δ
		if math.Abs(Δ) < tol {
			return E, nil
		}
	}
	return E, &ConvergenceError{M: M, Ecc: e, E: E, Δ: Δ, Iterations: maxIter}
}

// Solve returns the eccentric and true anomalies for the mean anomaly M (radians).
func (s KeplerSolver) Solve(M, e float64) (E, ν float64, err error) {
	if E, err = s.EccentricAnomaly(M, e); err != nil {
		return E, math.NaN(), err
	}
	return E, TrueAnomaly(E, e), nil
}

// SolveKepler solves Kepler's equation with the default solver.
func SolveKepler(M, e float64) (E, ν float64, err error) {
	return KeplerSolver{}.Solve(M, e)
}

// TrueAnomaly returns ν from the eccentric anomaly E, without wrapping it in [0, 2π).
func TrueAnomaly(E, e float64) float64 {
	sinE2, cosE2 := math.Sincos(E / 2)
	return 2 * math.Atan2(math.Sqrt(1+e)*sinE2, math.Sqrt(1-e)*cosE2)
}

// MeanAnomaly returns M = E - e·sin(E).
func MeanAnomaly(E, e float64) float64 {
	return E - e*math.Sin(E)
}

// Radius returns the conic radius a(1-e²)/(1+e·cos(ν)).
func Radius(a, e, ν float64) float64 {
	return a * (1 - e*e) / (1 + e*math.Cos(ν))
}

// ReferenceEccentricAnomaly solves Kepler's equation with Sinnott's binary search
// (Meeus, Astronomical Algorithms, chapter 30). It is slow but converges for every e < 1,
// and the result is in (-π, π].
func ReferenceEccentricAnomaly(M, e float64) float64 {
	return kepler.Kepler3(e, sunit.Angle(M)).Rad()
}
