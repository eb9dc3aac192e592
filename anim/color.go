package anim

// RGB is a normalized 3-channel color.
type RGB struct {
	R, G, B float64
}

// Lerp blends from c toward other by t in [0, 1].
func (c RGB) Lerp(other RGB, t float64) RGB {
	return RGB{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

// Bytes returns the color as 8-bit channels.
func (c RGB) Bytes() (r, g, b uint8) {
	return to8(c.R), to8(c.G), to8(c.B)
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Color is an animated 3-channel color with a single blend rate applied
// per channel. Convergence behaves exactly like Scalar: monotone toward a
// constant target, no overshoot.
type Color struct {
	current RGB
	target  RGB
	rate    float64
}

// NewColor creates an animated color starting (and targeting) initial.
func NewColor(initial RGB, rate float64) Color {
	return Color{current: initial, target: initial, rate: clampRate(rate)}
}

// SetTarget updates the desired color.
func (c *Color) SetTarget(t RGB) { c.target = t }

// Advance moves each channel toward its target by one frame step.
func (c *Color) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	step := c.rate * dt / refDT
	if step > 1 {
		step = 1
	}
	c.current = c.current.Lerp(c.target, step)
}

// Value returns the current color.
func (c *Color) Value() RGB { return c.current }

// Target returns the stored target color.
func (c *Color) Target() RGB { return c.target }

// Snap sets the current color to the target exactly.
func (c *Color) Snap() { c.current = c.target }
