package anim

import (
	"math"
	"testing"
)

const frameDT = 1.0 / 60.0

func TestScalarConvergesMonotone(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		target  float64
	}{
		{"rising from zero", 0, 1},
		{"falling to zero", 1, 0},
		{"rising negative start", -0.5, 0.5},
		{"falling small delta", 0.31, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScalar(tt.initial, 0.05, 0.05)
			s.SetTarget(tt.target)

			prevDist := math.Abs(tt.target - tt.initial)
			for i := 0; i < 300; i++ {
				s.Advance(frameDT)
				dist := math.Abs(tt.target - s.Value())
				if dist >= prevDist {
					t.Fatalf("frame %d: distance %v did not decrease from %v", i, dist, prevDist)
				}
				// No overshoot: value stays on the starting side of the target
				if tt.initial < tt.target && s.Value() > tt.target {
					t.Fatalf("frame %d: overshot target rising: %v > %v", i, s.Value(), tt.target)
				}
				if tt.initial > tt.target && s.Value() < tt.target {
					t.Fatalf("frame %d: overshot target falling: %v < %v", i, s.Value(), tt.target)
				}
				prevDist = dist
			}
		})
	}
}

func TestScalarNoOvershootLargeDT(t *testing.T) {
	// A stalled frame scales the step up; the step clamp must keep the
	// value from passing the target.
	s := NewScalar(0, 0.5, 0.5)
	s.SetTarget(1)
	s.Advance(2.0) // 2 s frame, unclamped step would be 60
	if s.Value() > 1 {
		t.Errorf("overshot target after long frame: %v", s.Value())
	}
	if s.Value() < 0.99 {
		t.Errorf("expected near-snap after long frame, got %v", s.Value())
	}
}

func TestScalarAsymmetricRates(t *testing.T) {
	// With rise 0.03 and fall 0.015, reaching within eps of 1 on the way
	// up must take fewer frames than reaching within eps of 0 on the way
	// down.
	const eps = 0.05

	s := NewScalar(0, 0.03, 0.015)
	s.SetTarget(1)
	riseFrames := 0
	for !s.Settled(eps) {
		s.Advance(frameDT)
		riseFrames++
		if riseFrames > 10000 {
			t.Fatal("rise never settled")
		}
	}

	s.SetTarget(0)
	fallFrames := 0
	for !s.Settled(eps) {
		s.Advance(frameDT)
		fallFrames++
		if fallFrames > 10000 {
			t.Fatal("fall never settled")
		}
	}

	if riseFrames >= fallFrames {
		t.Errorf("rise (%d frames) should settle faster than fall (%d frames)", riseFrames, fallFrames)
	}
}

func TestPumpSpinUpScenario(t *testing.T) {
	// Pump flag flips on at t=0. After 60 frames at 1/60 s the speed must
	// exceed 80% of the 3.0 rad/s maximum; after flipping off it must
	// decay below 20% within twice as many frames.
	const maxSpeed = 3.0

	s := NewScalar(0, 0.03, 0.015).Bounded(0, maxSpeed)
	s.SetTarget(maxSpeed)
	for i := 0; i < 60; i++ {
		s.Advance(frameDT)
	}
	if s.Value() <= 0.8*maxSpeed {
		t.Errorf("after 60 frames speed = %v, want > %v", s.Value(), 0.8*maxSpeed)
	}

	s.SetTarget(0)
	for i := 0; i < 120; i++ {
		s.Advance(frameDT)
	}
	if s.Value() >= 0.2*maxSpeed {
		t.Errorf("after 120 frames of coast-down speed = %v, want < %v", s.Value(), 0.2*maxSpeed)
	}
}

func TestHighlightScenario(t *testing.T) {
	// Selecting a component sets the highlight target to 0.3; after 30
	// frames at rate 0.08 the intensity is close under the peak, and
	// deselection decays it back toward zero at the same rate.
	s := NewSymmetricScalar(0, 0.08)
	s.SetTarget(0.3)
	for i := 0; i < 30; i++ {
		s.Advance(frameDT)
	}
	if v := s.Value(); v < 0.27 || v > 0.3 {
		t.Errorf("after 30 frames highlight = %v, want in [0.27, 0.3]", v)
	}

	peak := s.Value()
	s.SetTarget(0)
	for i := 0; i < 30; i++ {
		s.Advance(frameDT)
	}
	if s.Value() >= peak*0.2 {
		t.Errorf("after 30 frames of decay highlight = %v, want < %v", s.Value(), peak*0.2)
	}
}

func TestScalarTargetClamping(t *testing.T) {
	s := NewScalar(0.5, 0.1, 0.1).Bounded(0, 1)

	s.SetTarget(1.7)
	if s.Target() != 1 {
		t.Errorf("target = %v, want clamped to 1", s.Target())
	}
	s.SetTarget(-0.3)
	if s.Target() != 0 {
		t.Errorf("target = %v, want clamped to 0", s.Target())
	}
}

func TestScalarSettledAndSnap(t *testing.T) {
	s := NewSymmetricScalar(0, 0.2)
	s.SetTarget(1)
	for i := 0; i < 600; i++ {
		s.Advance(frameDT)
	}
	// Exponential approach never reaches the target exactly
	if s.Value() == 1 {
		t.Error("expected asymptotic approach, got exact convergence")
	}
	if !s.Settled(1e-4) {
		t.Errorf("expected settled within 1e-4 after 600 frames, value %v", s.Value())
	}
	s.Snap()
	if s.Value() != 1 {
		t.Errorf("snap: value = %v, want 1", s.Value())
	}
}

func TestScalarZeroDTIsNoOp(t *testing.T) {
	s := NewSymmetricScalar(0.4, 0.1)
	s.SetTarget(1)
	s.Advance(0)
	if s.Value() != 0.4 {
		t.Errorf("zero-dt advance moved value to %v", s.Value())
	}
}
