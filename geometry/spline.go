// Package geometry builds the procedural pipe geometry: smooth space
// curves through anchor points and watertight tube surfaces around them.
// Mesh data is assembled in plain slices so it can be tested without a
// GPU; upload to raylib happens in a separate step.
package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Spline is a uniform Catmull-Rom curve through an ordered list of
// control points. It passes exactly through every point, has first
// derivative continuity at interior points, and never extends beyond the
// first or last point. Endpoint tangents come from mirrored phantom
// points.
type Spline struct {
	pts []r3.Vec
}

// NewSpline creates a spline through the given points, in order.
func NewSpline(points []r3.Vec) (*Spline, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("geometry: spline needs at least 2 control points, got %d", len(points))
	}
	pts := make([]r3.Vec, len(points))
	copy(pts, points)
	return &Spline{pts: pts}, nil
}

// Points returns the control points (read-only; do not mutate).
func (s *Spline) Points() []r3.Vec { return s.pts }

// At evaluates the curve at t in [0, 1]. t maps linearly onto the
// control-point spans; control point i sits at t = i/(n-1) exactly.
func (s *Spline) At(t float64) r3.Vec {
	n := len(s.pts)
	if t <= 0 {
		return s.pts[0]
	}
	if t >= 1 {
		return s.pts[n-1]
	}

	u := t * float64(n-1)
	seg := int(u)
	if seg > n-2 {
		seg = n - 2
	}
	lt := u - float64(seg)

	p0 := s.phantom(seg - 1)
	p1 := s.pts[seg]
	p2 := s.pts[seg+1]
	p3 := s.phantom(seg + 2)

	return catmullRom(p0, p1, p2, p3, lt)
}

// Tangent returns the (unnormalized) curve derivative at t, by central
// difference. Good enough for frame construction; never zero on routes
// with distinct anchors.
func (s *Spline) Tangent(t float64) r3.Vec {
	const h = 1e-4
	a, b := t-h, t+h
	if a < 0 {
		a = 0
	}
	if b > 1 {
		b = 1
	}
	return r3.Sub(s.At(b), s.At(a))
}

// Sample returns n points along the curve, endpoints included exactly.
func (s *Spline) Sample(n int) []r3.Vec {
	if n < 2 {
		n = 2
	}
	out := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		out[i] = s.At(float64(i) / float64(n-1))
	}
	return out
}

// phantom returns control point i, extending past the ends by mirroring
// so the end tangents follow the first and last spans.
func (s *Spline) phantom(i int) r3.Vec {
	n := len(s.pts)
	switch {
	case i < 0:
		return r3.Sub(r3.Scale(2, s.pts[0]), s.pts[1])
	case i >= n:
		return r3.Sub(r3.Scale(2, s.pts[n-1]), s.pts[n-2])
	default:
		return s.pts[i]
	}
}

// catmullRom evaluates the uniform Catmull-Rom basis at local t in [0,1]
// for the span p1..p2.
func catmullRom(p0, p1, p2, p3 r3.Vec, t float64) r3.Vec {
	t2 := t * t
	t3 := t2 * t

	c0 := -0.5*t3 + t2 - 0.5*t
	c1 := 1.5*t3 - 2.5*t2 + 1
	c2 := -1.5*t3 + 2*t2 + 0.5*t
	c3 := 0.5*t3 - 0.5*t2

	return r3.Add(
		r3.Add(r3.Scale(c0, p0), r3.Scale(c1, p1)),
		r3.Add(r3.Scale(c2, p2), r3.Scale(c3, p3)),
	)
}
