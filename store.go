package orbitviz

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// ErrSuperseded is returned by Update when a more recent update was published first.
var ErrSuperseded = errors.New("snapshot superseded by a newer update")

// SnapshotStore holds the current orbit snapshot. Updates compute a whole new
// snapshot and swap it in atomically; on any error the previous one stays current.
type SnapshotStore struct {
	current   atomic.Pointer[OrbitSnapshot]
	sampler   TrajectorySampler
	logger    kitlog.Logger
	metrics   *Metrics
	mu        sync.Mutex // protects published
	requested atomic.Uint64
	published uint64
}

// NewSnapshotStore returns an empty store. The logger and metrics may be nil.
func NewSnapshotStore(logger kitlog.Logger, m *Metrics) *SnapshotStore {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &SnapshotStore{logger: kitlog.With(logger, "subsys", "store"), metrics: m}
}

// WithSolver sets the Kepler solver used by subsequent updates. Not safe for concurrent use with Update.
func (s *SnapshotStore) WithSolver(solver KeplerSolver) *SnapshotStore {
	s.sampler.Solver = solver
	return s
}

// Current returns the current snapshot, or nil if none was ever published.
func (s *SnapshotStore) Current() *OrbitSnapshot {
	return s.current.Load()
}

// Update computes the snapshot of o and publishes it, unless an update requested
// later has already been published.
func (s *SnapshotStore) Update(ctx context.Context, o OrbitalElements) (*OrbitSnapshot, error) {
	gen := s.requested.Add(1)
	start := time.Now()
	snap, err := s.sampler.Snapshot(ctx, o)
	took := time.Since(start)
	if err != nil {
		outcome := outcomeInvalid
		switch {
		case errors.Is(err, ErrConvergence):
			outcome = outcomeConvergence
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			outcome = outcomeCanceled
		}
		s.metrics.observe(outcome, took)
		s.logger.Log("level", "error", "orbit", o, "status", "rejected", "err", err)
		return nil, err
	}

	s.mu.Lock()
	if gen < s.published {
		s.mu.Unlock()
		s.metrics.observe(outcomeSuperseded, took)
		s.logger.Log("level", "info", "orbit", o, "status", "superseded")
		return nil, ErrSuperseded
	}
	s.published = gen
	s.current.Store(snap)
	s.mu.Unlock()

	s.metrics.published(snap)
	if snap.Vectors.NodeDegenerate {
		s.metrics.observe(outcomeDegenerate, took)
		s.logger.Log("level", "warning", "orbit", o, "message", ErrDegenerateNodeVector)
	} else {
		s.metrics.observe(outcomeOK, took)
	}
	s.logger.Log("level", "info", "orbit", o, "status", "published", "samples", snap.Len(), "period(s)", snap.Period, "duration", took)
	return snap, nil
}
