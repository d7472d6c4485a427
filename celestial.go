package orbitviz

import (
	"fmt"
	"strings"
)

// CelestialObject defines the central body of an orbit.
type CelestialObject struct {
	Name   string
	Radius float64
	μ      float64
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialObject) GM() float64 {
	return c.μ
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.μ == b.μ
}

// NewCelestialObject returns a custom central body.
func NewCelestialObject(name string, radius, μ float64) CelestialObject {
	return CelestialObject{name, radius, μ}
}

// CelestialObjectFromString returns the object from its name.
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "earth", "":
		return Earth, nil
	case "sun":
		return Sun, nil
	case "venus":
		return Venus, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	default:
		return CelestialObject{}, fmt.Errorf("undefined planet '%s'", name)
	}
}

/* Definitions */

// Sun is our closest star.
var Sun = CelestialObject{"Sun", 695700, 1.32712440017987e11}

// Venus is poisonous.
var Venus = CelestialObject{"Venus", 6051.8, 3.24858599e5}

// Earth is home. Its μ is the display constant of the orbit viewer.
var Earth = CelestialObject{"Earth", 6378.1363, DefaultMu}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 3396.19, 4.28283100e4}

// Jupiter is big.
var Jupiter = CelestialObject{"Jupiter", 71492.0, 1.266865361e8}
