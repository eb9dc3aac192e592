package viz

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pwrviz/plant"
)

const (
	orbitSensitivity = 0.005
	panSensitivity   = 0.05
	zoomStep         = 0.1
)

// handleInput processes keyboard and mouse input for one frame.
func (a *App) handleInput() {
	// View modes on the number row
	if rl.IsKeyPressed(rl.KeyOne) {
		a.mode = plant.ViewNormal
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		a.mode = plant.ViewXRay
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		a.mode = plant.ViewSection
	}
	if rl.IsKeyPressed(rl.KeyFour) {
		a.mode = plant.ViewInterior
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.cam.Reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) && a.pan != nil {
		a.pan.Toggle()
	}

	a.handleCameraInput()

	// Left click selects; clicking through the panel is ignored.
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if a.pan == nil || !a.pan.Hovered(mouse) {
			a.Select(a.pick(mouse))
		}
	}

	// Panel state overrides keyboard mode selection while it is open.
	if a.pan != nil && a.pan.Visible() {
		a.mode = a.pan.Mode()
		if a.pan.TakeResetCamera() {
			a.cam.Reset()
		}
	} else if a.pan != nil {
		a.pan.SetMode(a.mode)
	}
}

// handleCameraInput drives the orbit camera: right drag orbits, middle
// drag pans, wheel zooms.
func (a *App) handleCameraInput() {
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		a.cam.Dolly(1 - float64(wheel)*zoomStep)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		a.cam.Orbit(float64(d.X)*orbitSensitivity, float64(d.Y)*orbitSensitivity)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		a.cam.Pan(-float64(d.X)*panSensitivity, float64(d.Y)*panSensitivity)
	}

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		a.cam.Pan(panSensitivity*4, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.cam.Pan(-panSensitivity*4, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.cam.Pan(0, panSensitivity*4)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.cam.Pan(0, -panSensitivity*4)
	}
}
