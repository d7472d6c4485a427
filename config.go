package orbitviz

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding a scenario, e.g. ORBITVIZ_ORBIT_ECC.
const EnvPrefix = "ORBITVIZ"

// J2000 is the default periapsis passage of the exports.
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// Scenario is an orbit and how to animate and export it.
type Scenario struct {
	Body          CelestialObject
	Elements      OrbitalElements
	Solver        KeplerSolver
	Speed         float64
	Frames        int
	FrameInterval time.Duration
	Export        ExportConfig
}

// LoadScenario reads the TOML (or any viper supported format) scenario at path.
// Every key may be overridden from the environment.
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return scenarioFrom(v)
}

func scenarioFrom(v *viper.Viper) (Scenario, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("orbit.body", "Earth")
	v.SetDefault("orbit.sma", 5137.0)
	v.SetDefault("orbit.ecc", 0.6)
	v.SetDefault("orbit.inc", 0.0)
	v.SetDefault("orbit.raan", 0.0)
	v.SetDefault("orbit.argperi", 0.0)
	v.SetDefault("orbit.mu", 0.0)
	v.SetDefault("sampling.step", DefaultStep)
	v.SetDefault("sampling.tolerance", KeplerTolerance)
	v.SetDefault("sampling.iterations", KeplerMaxIterations)
	v.SetDefault("sampling.fallback", true)
	v.SetDefault("animation.speed", 100.0)
	v.SetDefault("animation.frames", 0)
	v.SetDefault("animation.interval", time.Second/60)
	v.SetDefault("output.path", ".")
	v.SetDefault("output.name", "orbit")
	v.SetDefault("output.formats", []string{FormatJSON})
	v.SetDefault("output.timestamp", false)

	bodyName := v.GetString("orbit.body")
	body, err := CelestialObjectFromString(bodyName)
	if err != nil {
		return Scenario{}, fmt.Errorf("could not understand body `%s`: %w", bodyName, err)
	}
	if μ := v.GetFloat64("orbit.mu"); μ > 0 {
		body = NewCelestialObject(body.Name, body.Radius, μ)
	}

	o := NewOrbitalElements(v.GetFloat64("orbit.sma"), v.GetFloat64("orbit.ecc"), v.GetFloat64("orbit.inc"),
		v.GetFloat64("orbit.raan"), v.GetFloat64("orbit.argperi"), body)
	o.Step = v.GetFloat64("sampling.step")
	if err := o.Validate(); err != nil {
		return Scenario{}, err
	}

	epoch := J2000
	if v.IsSet("output.epoch") {
		if epoch, err = time.Parse(time.RFC3339, v.GetString("output.epoch")); err != nil {
			// cast handles TOML datetimes and more layouts.
			epoch = v.GetTime("output.epoch")
			if epoch.IsZero() {
				return Scenario{}, fmt.Errorf("could not parse output.epoch `%s`", v.GetString("output.epoch"))
			}
		}
	}

	return Scenario{
		Body:          body,
		Elements:      o,
		Solver: KeplerSolver{
			Tolerance:     v.GetFloat64("sampling.tolerance"),
			MaxIterations: v.GetInt("sampling.iterations"),
			Fallback:      v.GetBool("sampling.fallback"),
		},
		Speed:         clampSpeed(v.GetFloat64("animation.speed")),
		Frames:        v.GetInt("animation.frames"),
		FrameInterval: v.GetDuration("animation.interval"),
		Export: ExportConfig{
			Dir:       v.GetString("output.path"),
			Filename:  v.GetString("output.name"),
			Formats:   v.GetStringSlice("output.formats"),
			Epoch:     epoch.UTC(),
			Timestamp: v.GetBool("output.timestamp"),
		},
	}, nil
}
