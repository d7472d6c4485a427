package orbitviz

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gonum/matrix/mat64"
)

const (
	// DefaultMu is the gravitational parameter used by the viewer, in km^3/s^2.
	DefaultMu = 398600.4415
	// DefaultStep is the default sampling time step, in seconds.
	DefaultStep = 1.0

	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
)

// ErrInvalidElements is returned for elements which cannot describe a sampled elliptical orbit.
var ErrInvalidElements = errors.New("invalid orbital elements")

// OrbitalElements defines an elliptical orbit and how finely it is sampled.
// Angles are in degrees.
type OrbitalElements struct {
	SMA     float64 // Semi major axis, km
	Ecc     float64 // Eccentricity, 0 <= e < 1
	Inc     float64 // Inclination, deg
	RAAN    float64 // Right ascension of the ascending node Ω, deg
	ArgPeri float64 // Argument of periapsis ω, deg
	Mu      float64 // Gravitational parameter, km^3/s^2
	Step    float64 // Sampling time step, s
}

// NewOrbitalElements returns the elements around the provided body with the default time step.
// WARNING: Angles must be in degrees not radian.
func NewOrbitalElements(a, e, i, Ω, ω float64, c CelestialObject) OrbitalElements {
	return OrbitalElements{SMA: a, Ecc: e, Inc: i, RAAN: Ω, ArgPeri: ω, Mu: c.GM(), Step: DefaultStep}
}

// Validate returns an error wrapping ErrInvalidElements if these elements cannot be sampled.
func (o OrbitalElements) Validate() error {
	if !finite(o.SMA, o.Ecc, o.Inc, o.RAAN, o.ArgPeri, o.Mu, o.Step) {
		return fmt.Errorf("%w: non finite value in %s", ErrInvalidElements, o)
	}
	if o.SMA <= 0 {
		return fmt.Errorf("%w: semi major axis must be positive (a=%f)", ErrInvalidElements, o.SMA)
	}
	if o.Ecc < 0 || o.Ecc >= 1 {
		return fmt.Errorf("%w: only elliptical orbits are supported (e=%f)", ErrInvalidElements, o.Ecc)
	}
	if o.Mu <= 0 {
		return fmt.Errorf("%w: gravitational parameter must be positive (μ=%f)", ErrInvalidElements, o.Mu)
	}
	if o.Step <= 0 {
		return fmt.Errorf("%w: time step must be positive (dt=%f)", ErrInvalidElements, o.Step)
	}
	return nil
}

// SemiParameter returns the semi parameter p = a(1-e²).
func (o OrbitalElements) SemiParameter() float64 {
	return o.SMA * (1 - o.Ecc*o.Ecc)
}

// AngularMomentumNorm returns the norm of the specific angular momentum, h = sqrt(μ·p).
func (o OrbitalElements) AngularMomentumNorm() float64 {
	return math.Sqrt(o.Mu * o.SemiParameter())
}

// Apoapsis returns the apoapsis radius.
func (o OrbitalElements) Apoapsis() float64 {
	return o.SMA * (1 + o.Ecc)
}

// Periapsis returns the periapsis radius.
func (o OrbitalElements) Periapsis() float64 {
	return o.SMA * (1 - o.Ecc)
}

// Energyξ returns the specific mechanical energy ξ.
func (o OrbitalElements) Energyξ() float64 {
	return -o.Mu / (2 * o.SMA)
}

// MeanMotion returns the mean motion n in rad/s.
func (o OrbitalElements) MeanMotion() float64 {
	return math.Sqrt(o.Mu / math.Pow(o.SMA, 3))
}

// Period returns the orbital period T in seconds.
func (o OrbitalElements) Period() float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(o.SMA, 3)/o.Mu)
}

// PeriodDuration returns the period as a time.Duration (nanosecond resolution).
func (o OrbitalElements) PeriodDuration() time.Duration {
	return time.Duration(o.Period() * float64(time.Second))
}

// Radius returns the orbital radius at the true anomaly ν (radians).
func (o OrbitalElements) Radius(ν float64) float64 {
	return Radius(o.SMA, o.Ecc, ν)
}

// Rotation returns the perifocal to inertial rotation of these elements.
func (o OrbitalElements) Rotation() *mat64.Dense {
	return PQW2ECI(o.Inc, o.ArgPeri, o.RAAN)
}

// String implements the stringer interface (hence the value receiver)
func (o OrbitalElements) String() string {
	if o.Ecc < eccentricityε {
		return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f dt=%.3f", o.SMA, o.Ecc, o.Inc, o.RAAN, o.Step)
	}
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f dt=%.3f", o.SMA, o.Ecc, o.Inc, o.RAAN, o.ArgPeri, o.Step)
}
