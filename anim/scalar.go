// Package anim provides the per-frame interpolation primitives that move
// visual quantities (spin rate, emissive intensity, opacity, color)
// toward externally-set targets. Each value advances by an exponential
// step: the configured rate is the fraction of remaining distance closed
// per reference frame (1/60 s), so a constant target is approached
// asymptotically and never overshot.
package anim

import "math"

// refDT is the reference frame duration the configured rates assume.
const refDT = 1.0 / 60.0

// Scalar is a single animated quantity with independent rise and fall
// rates. Rising (target above current) models spin-up under power; falling
// models coast-down, which is typically slower.
type Scalar struct {
	current float64
	target  float64
	rise    float64
	fall    float64

	// Optional clamp applied to targets, not to intermediate values.
	min, max  float64
	hasBounds bool
}

// NewScalar creates a scalar with separate rise and fall rates.
// Rates outside (0, 1] are clamped into that interval.
func NewScalar(initial, rise, fall float64) Scalar {
	return Scalar{
		current: initial,
		target:  initial,
		rise:    clampRate(rise),
		fall:    clampRate(fall),
	}
}

// NewSymmetricScalar creates a scalar with one rate for both directions.
func NewSymmetricScalar(initial, rate float64) Scalar {
	return NewScalar(initial, rate, rate)
}

// Bounded returns a copy with targets clamped to [min, max].
func (s Scalar) Bounded(min, max float64) Scalar {
	s.min, s.max = min, max
	s.hasBounds = true
	if s.target < min {
		s.target = min
	} else if s.target > max {
		s.target = max
	}
	return s
}

// SetTarget updates the desired value. Targets are clamped to the bounds
// before storage; the current value is left untouched.
func (s *Scalar) SetTarget(v float64) {
	if s.hasBounds {
		if v < s.min {
			v = s.min
		} else if v > s.max {
			v = s.max
		}
	}
	s.target = v
}

// Advance moves the current value toward the target by one frame step.
// The effective rate scales with dt so behavior is stable when the frame
// rate deviates from the 60 FPS reference, and is clamped to [0, 1] so a
// long stall can never overshoot the target.
func (s *Scalar) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	rate := s.rise
	if s.target < s.current {
		rate = s.fall
	}
	step := rate * dt / refDT
	if step > 1 {
		step = 1
	}
	s.current += (s.target - s.current) * step
}

// Value returns the current value.
func (s *Scalar) Value() float64 { return s.current }

// Target returns the stored target.
func (s *Scalar) Target() float64 { return s.target }

// Settled reports whether the current value is within eps of the target.
// Exponential interpolation never reaches the target bit-exactly;
// consumers needing exact convergence check Settled and then Snap.
func (s *Scalar) Settled(eps float64) bool {
	return math.Abs(s.target-s.current) < eps
}

// Snap sets the current value to the target exactly.
func (s *Scalar) Snap() { s.current = s.target }

func clampRate(r float64) float64 {
	if r <= 0 {
		return refDT // degenerate rate; still converges
	}
	if r > 1 {
		return 1
	}
	return r
}
