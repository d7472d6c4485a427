package orbitviz

import (
	"context"
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// MaxSamples bounds the length of a sampled trajectory.
const MaxSamples = 5000000

// Trajectory is an ordered list of inertial positions (km), from periapsis at
// t=0 to periapsis again at t=T. It must not be modified once published.
type Trajectory [][]float64

// Len returns the number of samples.
func (t Trajectory) Len() int {
	return len(t)
}

// At returns a copy of the i-th position.
func (t Trajectory) At(i int) []float64 {
	return []float64{t[i][0], t[i][1], t[i][2]}
}

// Flatten returns the positions as x0, y0, z0, x1, ... for line strips.
func (t Trajectory) Flatten() []float64 {
	flat := make([]float64, 0, 3*len(t))
	for _, R := range t {
		flat = append(flat, R[0], R[1], R[2])
	}
	return flat
}

// SampleCount returns ceil(T/dt)+1, the number of samples of one period.
func SampleCount(o OrbitalElements) int {
	return int(math.Ceil(o.Period()/o.Step)) + 1
}

// SampleTime returns the time since periapsis of the k-th sample, clamped to one period.
func SampleTime(o OrbitalElements, k int) float64 {
	return math.Min(float64(k)*o.Step, o.Period())
}

// SampleTrajectory samples one full period of the orbit.
func SampleTrajectory(o OrbitalElements) (Trajectory, error) {
	return TrajectorySampler{}.Sample(context.Background(), o)
}

// TrajectorySampler samples orbits by solving Kepler's equation at each time step.
type TrajectorySampler struct {
	Solver KeplerSolver
}

// Sample returns the trajectory of o. The context is checked periodically so that a
// long sampling may be abandoned.
func (s TrajectorySampler) Sample(ctx context.Context, o OrbitalElements) (Trajectory, error) {
	count, err := sampleCount(o)
	if err != nil {
		return nil, err
	}
	return s.sample(ctx, o, o.Rotation(), count)
}

// sampleCount validates o and returns its number of samples.
func sampleCount(o OrbitalElements) (int, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	count := SampleCount(o)
	if count > MaxSamples || count < 2 {
		return 0, fmt.Errorf("%w: %d samples outside [2, %d] (T=%.1fs dt=%.3fs)", ErrInvalidElements, count, MaxSamples, o.Period(), o.Step)
	}
	return count, nil
}

func (s TrajectorySampler) sample(ctx context.Context, o OrbitalElements, R *mat64.Dense, count int) (Trajectory, error) {
	n := o.MeanMotion()
	traj := make(Trajectory, 0, count)
	for k := 0; k < count; k++ {
		if k%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		M := n * SampleTime(o, k)
		_, ν, err := s.Solver.Solve(M, o.Ecc)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", k, err)
		}
		r := o.Radius(ν)
		sinν, cosν := math.Sincos(ν)
		traj = append(traj, MxV33(R, []float64{r * cosν, r * sinν, 0}))
	}
	return traj, nil
}
