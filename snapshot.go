package orbitviz

import (
	"context"
	"errors"
	"time"

	"github.com/gonum/matrix/mat64"
)

// OrbitSnapshot is everything derived from one set of orbital elements.
// A snapshot is never modified after it is returned; a change of elements yields a new one.
type OrbitSnapshot struct {
	Elements   OrbitalElements
	Rotation   *mat64.Dense // Perifocal to inertial
	Trajectory Trajectory
	Vectors    DisplayVectors
	Period     float64 // seconds
	ComputedAt time.Time
}

// ComputeOrbitSnapshot samples the orbit and derives its display vectors.
// Equatorial orbits are not an error: the snapshot is returned with Vectors.NodeDegenerate set.
func ComputeOrbitSnapshot(o OrbitalElements) (*OrbitSnapshot, error) {
	return ComputeOrbitSnapshotContext(context.Background(), o)
}

// ComputeOrbitSnapshotContext is ComputeOrbitSnapshot with a cancelable sampling.
func ComputeOrbitSnapshotContext(ctx context.Context, o OrbitalElements) (*OrbitSnapshot, error) {
	return TrajectorySampler{}.Snapshot(ctx, o)
}

// Snapshot computes a snapshot with the sampler's Kepler solver.
func (s TrajectorySampler) Snapshot(ctx context.Context, o OrbitalElements) (*OrbitSnapshot, error) {
	count, err := sampleCount(o)
	if err != nil {
		return nil, err
	}
	R := o.Rotation()
	traj, err := s.sample(ctx, o, R, count)
	if err != nil {
		return nil, err
	}
	vecs, err := deriveVectors(o, R, traj[0])
	if err != nil && !errors.Is(err, ErrDegenerateNodeVector) {
		return nil, err
	}
	return &OrbitSnapshot{
		Elements:   o,
		Rotation:   R,
		Trajectory: traj,
		Vectors:    vecs,
		Period:     o.Period(),
		ComputedAt: time.Now().UTC(),
	}, nil
}

// Len returns the number of trajectory samples.
func (s *OrbitSnapshot) Len() int {
	return s.Trajectory.Len()
}

// Position returns a copy of the k-th sampled position.
func (s *OrbitSnapshot) Position(k int) []float64 {
	return s.Trajectory.At(k)
}

// Animate advances the clock and returns the marker position at now.
func (s *OrbitSnapshot) Animate(c AnimationClock, now time.Time) (AnimationClock, int, []float64) {
	next, k := c.Advance(now, s.Len(), s.Elements.Step)
	return next, k, s.Position(k)
}
