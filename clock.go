package orbitviz

import (
	"math"
	"time"
)

const (
	// MinSpeed and MaxSpeed bound the speed factor of a scenario.
	MinSpeed = 1.0
	MaxSpeed = 1000.0
)

// AnimationClock maps wall clock time to a sample index. It is a value: each call
// returns the clock to use for the next frame.
type AnimationClock struct {
	Epoch time.Time // Wall time of sample zero, moved forward on every wrap
	Speed float64   // Simulated seconds per wall clock second
}

// NewAnimationClock returns a clock starting at now.
func NewAnimationClock(now time.Time, speed float64) AnimationClock {
	return AnimationClock{Epoch: now, Speed: speed}
}

func clampSpeed(s float64) float64 {
	if math.IsNaN(s) {
		return MinSpeed
	}
	return math.Max(MinSpeed, math.Min(MaxSpeed, s))
}

// running returns whether the speed factor moves the marker at all.
func (c AnimationClock) running() bool {
	return c.Speed > 0 && !math.IsInf(c.Speed, 0)
}

// Elapsed returns the simulated time since the epoch, in seconds. It is zero for a
// clock whose speed is not positive, the zero value included.
func (c AnimationClock) Elapsed(now time.Time) float64 {
	if !c.running() {
		return 0
	}
	return now.Sub(c.Epoch).Seconds() * c.Speed
}

// Advance returns the index of the sample to show at now in a trajectory of n samples
// spaced dt seconds apart. When the index wraps, the returned clock's epoch moves forward
// by the whole number of trajectories traversed, so the elapsed time stays under n·dt.
func (c AnimationClock) Advance(now time.Time, n int, dt float64) (AnimationClock, int) {
	if n <= 0 || dt <= 0 {
		return c, 0
	}
	elapsed := c.Elapsed(now)
	if elapsed <= 0 {
		return c, 0
	}
	k := int64(math.Floor(elapsed / dt))
	if k < int64(n) {
		return c, int(k)
	}
	laps := k / int64(n)
	consumed := float64(laps*int64(n)) * dt / c.Speed
	c.Epoch = c.Epoch.Add(time.Duration(consumed * float64(time.Second)))
	return c, int(k % int64(n))
}

// WithSpeed changes the speed factor without moving the marker. A speed that is
// not positive stops the marker at periapsis.
func (c AnimationClock) WithSpeed(now time.Time, speed float64) AnimationClock {
	elapsed := c.Elapsed(now)
	c.Speed = speed
	if !c.running() {
		c.Speed = 0
		return c
	}
	c.Epoch = now.Add(-time.Duration(elapsed / speed * float64(time.Second)))
	return c
}

// Reset restarts the animation at periapsis.
func (c AnimationClock) Reset(now time.Time) AnimationClock {
	c.Epoch = now
	return c
}
