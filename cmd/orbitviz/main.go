package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/orbitviz/orbitviz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// This computes the orbit snapshot of a scenario, exports it and optionally
// runs the marker animation for a number of frames.

const defaultScenario = "~~unset~~"

var (
	scenario    string
	metricsAddr string
	verbose     bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file")
	flag.StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address (e.g. :9090)")
	flag.BoolVar(&verbose, "verbose", false, "log every animation frame")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	conf, err := orbitviz.LoadScenario(scenario)
	if err != nil {
		log.Fatalf("%s: Error %s", scenario, err)
	}

	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "ts", kitlog.DefaultTimestampUTC)

	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				klog.Log("level", "error", "subsys", "metrics", "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := orbitviz.NewSnapshotStore(klog, orbitviz.NewMetrics(reg)).WithSolver(conf.Solver)
	snap, err := store.Update(ctx, conf.Elements)
	if err != nil {
		log.Fatalf("could not compute orbit %s: %s", conf.Elements, err)
	}
	klog.Log("level", "info", "subsys", "main", "body", conf.Body, "periapsis(km)", conf.Elements.Periapsis(), "apoapsis(km)", conf.Elements.Apoapsis(), "period", conf.Elements.PeriodDuration(), "energy(km²/s²)", conf.Elements.Energyξ(), "degenerate_node", snap.Vectors.NodeDegenerate)

	if len(conf.Export.Formats) > 0 {
		paths, err := orbitviz.ExportSnapshot(snap, conf.Export)
		if err != nil {
			log.Fatalf("export failed: %s", err)
		}
		for _, path := range paths {
			klog.Log("level", "info", "subsys", "export", "file", path)
		}
	}

	if conf.Frames <= 0 {
		return
	}
	animate(ctx, klog, store, conf)
}

// animate moves the marker along the current snapshot, one frame per tick.
func animate(ctx context.Context, klog kitlog.Logger, store *orbitviz.SnapshotStore, conf orbitviz.Scenario) {
	interval := conf.FrameInterval
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	clock := orbitviz.NewAnimationClock(time.Now(), conf.Speed)
	for frame := 0; frame < conf.Frames; frame++ {
		select {
		case <-ctx.Done():
			klog.Log("level", "notice", "subsys", "animation", "status", "interrupted", "frame", frame)
			return
		case now := <-ticker.C:
			var k int
			var R []float64
			clock, k, R = store.Current().Animate(clock, now)
			if verbose {
				klog.Log("level", "debug", "subsys", "animation", "frame", frame, "index", k, "x", R[0], "y", R[1], "z", R[2])
			}
		}
	}
	klog.Log("level", "notice", "subsys", "animation", "status", "finished", "frames", conf.Frames, "elapsed(s)", clock.Elapsed(time.Now()))
}
