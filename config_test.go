package orbitviz

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testScenario = `[orbit]
body = "Earth"
sma = 7000.0
ecc = 0.1
inc = 28.5
raan = 45.0
argperi = 30.0

[sampling]
step = 5.0

[animation]
speed = 250.0
frames = 600
interval = "16ms"

[output]
path = "/tmp"
formats = ["json", "csv"]
epoch = "2016-03-24T20:41:48Z"
`

func writeScenario(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	conf, err := LoadScenario(writeScenario(t, testScenario))
	if err != nil {
		t.Fatal(err)
	}
	exp := OrbitalElements{SMA: 7000, Ecc: 0.1, Inc: 28.5, RAAN: 45, ArgPeri: 30, Mu: DefaultMu, Step: 5}
	if conf.Elements != exp {
		t.Fatalf("elements %+v instead of %+v", conf.Elements, exp)
	}
	if !conf.Body.Equals(Earth) || conf.Speed != 250 || conf.Frames != 600 || conf.FrameInterval != 16*time.Millisecond {
		t.Fatalf("unexpected scenario %+v", conf)
	}
	if conf.Export.Dir != "/tmp" || len(conf.Export.Formats) != 2 || conf.Export.Filename != "orbit" {
		t.Fatalf("unexpected export %+v", conf.Export)
	}
	if !conf.Export.Epoch.Equal(time.Date(2016, 3, 24, 20, 41, 48, 0, time.UTC)) {
		t.Fatalf("epoch %s", conf.Export.Epoch)
	}
	if exp := (KeplerSolver{Tolerance: KeplerTolerance, MaxIterations: KeplerMaxIterations, Fallback: true}); conf.Solver != exp {
		t.Fatalf("solver %+v instead of %+v", conf.Solver, exp)
	}
}

func TestLoadScenarioSolver(t *testing.T) {
	conf, err := LoadScenario(writeScenario(t, "[sampling]\nstep = 2.0\ntolerance = 1e-6\niterations = 50\nfallback = false\n"))
	if err != nil {
		t.Fatal(err)
	}
	if exp := (KeplerSolver{Tolerance: 1e-6, MaxIterations: 50}); conf.Solver != exp {
		t.Fatalf("solver %+v instead of %+v", conf.Solver, exp)
	}
}

func TestLoadScenarioDefaults(t *testing.T) {
	conf, err := LoadScenario(writeScenario(t, "[orbit]\nbody = \"Mars\"\nsma = 4000.0\necc = 0.2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Elements.Mu != Mars.GM() || conf.Elements.Step != DefaultStep {
		t.Fatalf("unexpected defaults %+v", conf.Elements)
	}
	if !conf.Export.Epoch.Equal(J2000) || conf.Speed != 100 || conf.Frames != 0 {
		t.Fatalf("unexpected defaults %+v", conf)
	}
}

func TestLoadScenarioOverrides(t *testing.T) {
	t.Setenv("ORBITVIZ_ORBIT_ECC", "0.25")
	t.Setenv("ORBITVIZ_ANIMATION_SPEED", "5000")
	conf, err := LoadScenario(writeScenario(t, testScenario+"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Elements.Ecc != 0.25 {
		t.Fatalf("eccentricity %f not overridden", conf.Elements.Ecc)
	}
	if conf.Speed != MaxSpeed {
		t.Fatalf("speed %f not clamped", conf.Speed)
	}
	t.Setenv("ORBITVIZ_ANIMATION_SPEED", "0")
	if conf, err = LoadScenario(writeScenario(t, testScenario)); err != nil || conf.Speed != MinSpeed {
		t.Fatalf("speed %f not clamped to %f (%v)", conf.Speed, MinSpeed, err)
	}

	mu := writeScenario(t, "[orbit]\nsma = 7000.0\necc = 0.1\nmu = 1000.0\n")
	if conf, err = LoadScenario(mu); err != nil || conf.Elements.Mu != 1000 {
		t.Fatalf("μ override failed: %+v (%v)", conf.Elements, err)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if _, err := LoadScenario(writeScenario(t, "[orbit]\nbody = \"Vesta\"\n")); err == nil {
		t.Fatal("expected an error for an unknown body")
	}
	if _, err := LoadScenario(writeScenario(t, "[orbit]\necc = 1.5\n")); !errors.Is(err, ErrInvalidElements) {
		t.Fatalf("expected ErrInvalidElements, got %v", err)
	}
	if _, err := LoadScenario(writeScenario(t, "[output]\nepoch = \"not a date\"\n")); err == nil {
		t.Fatal("expected an error for an invalid epoch")
	}
}
