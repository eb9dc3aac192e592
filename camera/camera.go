// Package camera provides an orbit camera for the 3D plant view.
package camera

import "math"

// Camera orbits a target point at a yaw/pitch/distance. All math is pure
// so input handling and rendering can share one instance.
type Camera struct {
	// Target is the orbit center in world coordinates
	TargetX, TargetY, TargetZ float64

	// Orbit parameters
	Yaw      float64 // radians around the Y axis
	Pitch    float64 // radians above the horizon
	Distance float64

	// Constraints
	MinPitch, MaxPitch       float64
	MinDistance, MaxDistance float64

	// Defaults restored by Reset
	homeYaw, homePitch, homeDistance float64
}

// New creates a camera orbiting the given target.
func New(targetX, targetY, targetZ, distance float64) *Camera {
	return &Camera{
		TargetX:      targetX,
		TargetY:      targetY,
		TargetZ:      targetZ,
		Yaw:          math.Pi / 4,
		Pitch:        math.Pi / 6,
		Distance:     distance,
		MinPitch:     -math.Pi/2 + 0.05,
		MaxPitch:     math.Pi/2 - 0.05,
		MinDistance:  distance * 0.15,
		MaxDistance:  distance * 4,
		homeYaw:      math.Pi / 4,
		homePitch:    math.Pi / 6,
		homeDistance: distance,
	}
}

// Position returns the camera eye position in world coordinates.
func (c *Camera) Position() (x, y, z float64) {
	horiz := c.Distance * math.Cos(c.Pitch)
	x = c.TargetX + horiz*math.Cos(c.Yaw)
	y = c.TargetY + c.Distance*math.Sin(c.Pitch)
	z = c.TargetZ + horiz*math.Sin(c.Yaw)
	return x, y, z
}

// Orbit rotates the camera by the given yaw/pitch deltas, clamping pitch
// so the view never flips over the pole.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = wrapAngle(c.Yaw + dYaw)
	c.Pitch = clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// Dolly scales the orbit distance (factor < 1 moves closer).
func (c *Camera) Dolly(factor float64) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Pan shifts the orbit target in the camera's horizontal plane.
func (c *Camera) Pan(dRight, dForward float64) {
	sin, cos := math.Sin(c.Yaw), math.Cos(c.Yaw)
	// Right vector is perpendicular to the view direction on the ground plane
	c.TargetX += -sin*dRight - cos*dForward
	c.TargetZ += cos*dRight - sin*dForward
}

// Reset returns the camera to its initial orbit.
func (c *Camera) Reset() {
	c.Yaw = c.homeYaw
	c.Pitch = c.homePitch
	c.Distance = c.homeDistance
}

// wrapAngle wraps an angle to [-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
