// Package components defines the ECS components attached to plant
// entities. Components are plain data; all behavior lives in the viz
// frame driver. Animated values are owned here so teardown of an entity
// tears down its animation state with it.
package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pwrviz/anim"
	"github.com/pthm-cable/pwrviz/plant"
)

// Meta identifies a plant component for selection and display.
type Meta struct {
	ID   plant.ComponentID
	Name string // human-readable, shown in the HUD
	Loop int    // owning loop index, -1 for non-loop components
}

// Renderable holds the prebuilt model and its base material values. The
// frame driver writes final colors/opacity as draw tints; geometry is
// never rebuilt here.
type Renderable struct {
	Model rl.Model
	Built bool // false until the model is uploaded; writes skip until then

	Pos      rl.Vector3 // draw position (tube models bake world coords and use zero)
	Axis     rl.Vector3 // model orientation axis
	AngleDeg float32    // rotation around Axis at build time
	Scale    rl.Vector3

	Base anim.RGB // base diffuse color
	Tint rl.Color // final draw color for this frame, set by the write phase
	Wire bool     // also draw wireframe (kept visible in x-ray)
}

// Rotor spins a mesh around its axis. Speed is the animated value driven
// by the pump flag or turbine power; Angle accumulates Speed*dt per frame
// and wraps, since rotation is unbounded.
type Rotor struct {
	Speed anim.Scalar // rad/s toward the current target
	Angle float64     // accumulated rotation, radians
	Axis  rl.Vector3
}

// Glow is the shared selection-highlight behavior: one animated emissive
// intensity per component, target Peak while selected, zero otherwise.
// Peak and the scalar's rate are the only parameters.
type Glow struct {
	Level anim.Scalar
	Peak  float64
}

// Heat blends a surface color along the temperature gradient.
type Heat struct {
	Blend anim.Scalar // normalized temperature the color has caught up to
}

// PowerGlow drives the core emissive color from reactor power.
type PowerGlow struct {
	Level anim.Scalar
}

// ShellGroup names a set of surfaces sharing one view-mode blend value.
type ShellGroup int

const (
	GroupCasing      ShellGroup = iota // vessel, SG, pump, turbine casings
	GroupContainment                   // containment building shell
	NumShellGroups
)

// Shell marks a surface whose opacity follows the view-mode controller.
// BaseOpacity scales the group blend, registered once at build time so no
// scene walk happens per frame.
type Shell struct {
	Group       ShellGroup
	BaseOpacity float64
}

// Interior tags detail meshes that are only drawn while the interior
// view mode is active.
type Interior struct{}

// Pickable gives a component a bounding sphere for mouse ray selection.
type Pickable struct {
	Center rl.Vector3
	Radius float32
}
