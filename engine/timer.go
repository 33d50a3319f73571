package engine

import "time"

// minTimeStep keeps the reported step positive even if the clock does not
// advance between frames.
const minTimeStep = 1e-4

// FrameTimer measures the wall-clock time between frames.
type FrameTimer struct {
	now  func() time.Time
	last time.Time
	max  float32
}

// NewFrameTimer starts timing now. Steps are clamped to (0, max] seconds. A
// nil clock uses time.Now.
func NewFrameTimer(max float32, clock func() time.Time) *FrameTimer {
	if clock == nil {
		clock = time.Now
	}
	return &FrameTimer{now: clock, last: clock(), max: max}
}

// Step returns the seconds elapsed since the previous Step.
func (t *FrameTimer) Step() float32 {
	now := t.now()
	dt := float32(now.Sub(t.last).Seconds())
	t.last = now
	if dt > t.max {
		dt = t.max
	}
	if dt < minTimeStep {
		dt = minTimeStep
	}
	return dt
}

// fpsCounter reports the frame rate once per second of accumulated time.
// Steps are summed in float64; float32 sums of 1/60 fall short of a second.
type fpsCounter struct {
	frames  int
	elapsed float64
}

func (c *fpsCounter) tick(dt float32) (fps float32, ok bool) {
	c.frames++
	c.elapsed += float64(dt)
	if c.elapsed < 1 {
		return 0, false
	}
	fps = float32(float64(c.frames) / c.elapsed)
	c.frames, c.elapsed = 0, 0
	return fps, true
}
