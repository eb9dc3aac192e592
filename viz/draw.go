package viz

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pwrviz/plant"
	"github.com/pthm-cable/pwrviz/telemetry"
	"github.com/pthm-cable/pwrviz/ui"
)

var backgroundColor = rl.Color{R: 18, G: 22, B: 28, A: 255}

// Draw renders the frame: opaque geometry first, interior detail when
// visible, then the translucent shells back to front. Shells below the
// depth threshold stop writing depth so geometry behind them stays
// visible through overlapping transparent surfaces.
func (a *App) Draw() {
	a.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	cam := a.rlCamera()
	rl.BeginMode3D(cam)

	// Ground slab under the whole site
	rl.DrawPlane(
		rl.Vector3{X: float32(a.cfg.Plant.TurbineOffset * 0.5), Y: -0.05},
		rl.Vector2{X: float32(a.cfg.Plant.TurbineOffset * 4), Y: float32(a.cfg.Plant.TurbineOffset * 3)},
		rl.Color{R: 30, G: 34, B: 38, A: 255},
	)

	for _, e := range a.opaque {
		a.drawEntity(e)
	}

	if a.view.InteriorVisible() {
		for _, e := range a.interior {
			a.drawEntity(e)
		}
	}

	a.drawShells(cam)

	rl.EndMode3D()

	a.drawOverlay()

	rl.EndDrawing()
	a.perf.EndFrame()
	a.maybeFlushTelemetry()
}

// drawShells renders the translucent pass sorted back to front by
// distance to the camera eye. Fully transparent shells are skipped.
func (a *App) drawShells(cam rl.Camera3D) {
	type depthEntry struct {
		e    ecs.Entity
		dist float32
	}
	order := make([]depthEntry, 0, len(a.shells))
	for _, e := range a.shells {
		r := a.renderMap.Get(e)
		if r == nil || r.Tint.A == 0 {
			continue
		}
		dx := r.Pos.X - cam.Position.X
		dy := r.Pos.Y - cam.Position.Y
		dz := r.Pos.Z - cam.Position.Z
		order = append(order, depthEntry{e: e, dist: dx*dx + dy*dy + dz*dz})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].dist > order[j].dist })

	threshold := uint8(a.cfg.View.DepthThreshold * 255)
	for _, d := range order {
		r := a.renderMap.Get(d.e)
		if r.Tint.A < threshold {
			rl.DisableDepthMask()
			a.drawEntity(d.e)
			rl.EnableDepthMask()
		} else {
			a.drawEntity(d.e)
		}
	}
}

// drawEntity draws one renderable plus its wireframe overlay in x-ray.
func (a *App) drawEntity(e ecs.Entity) {
	r := a.renderMap.Get(e)
	if r == nil || !r.Built {
		return
	}
	rl.DrawModelEx(r.Model, r.Pos, r.Axis, r.AngleDeg, r.Scale, r.Tint)

	if r.Wire && a.view.Mode() == plant.ViewXRay {
		wire := r.Tint
		wire.A = 70
		rl.DrawModelWiresEx(r.Model, r.Pos, r.Axis, r.AngleDeg, r.Scale, wire)
	}
}

// drawOverlay renders the HUD strip, the control panel, and the selected
// component card.
func (a *App) drawOverlay() {
	if a.hud == nil {
		return
	}

	pumpsOn := 0
	for _, on := range a.snap.PumpOn {
		if on {
			pumpsOn++
		}
	}
	a.hud.Draw(ui.HUDData{
		Mode:         a.view.Mode().String(),
		Power:        a.snap.Power,
		Temperature:  a.snap.Temperature,
		PumpsOn:      pumpsOn,
		Loops:        len(a.lay.Loops),
		SimTime:      a.simTime,
		FPS:          rl.GetFPS(),
		Paused:       a.paused,
		ScreenHeight: int32(a.cfg.Screen.Height),
	})

	if a.selected != plant.IDNone {
		a.drawInfoCard()
	}

	if a.pan != nil {
		a.pan.Draw()
	}
}

// drawInfoCard shows the selected component's identity and live state.
func (a *App) drawInfoCard() {
	card := ui.InfoData{ID: string(a.selected), Highlight: a.selectedGlow()}

	for _, e := range a.pickables {
		meta := a.metaMap.Get(e)
		if meta == nil || meta.ID != a.selected {
			continue
		}
		card.Name = meta.Name
		card.Loop = meta.Loop
		if h := a.heatMap.Get(e); h != nil {
			card.Heat = h.Blend.Value()
			card.HasHeat = true
		}
		break
	}

	// Pump speed comes from the rotor entity sharing the component id.
	rq := a.rotorFilter.Query()
	for rq.Next() {
		meta, rotor := rq.Get()
		if meta.ID == a.selected {
			card.Speed = rotor.Speed.Value()
			card.HasSpeed = true
		}
	}

	a.hud.DrawInfoCard(card, int32(a.cfg.Screen.Width))
}

// rlCamera converts the orbit camera to a raylib perspective camera.
func (a *App) rlCamera() rl.Camera3D {
	x, y, z := a.cam.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: float32(x), Y: float32(y), Z: float32(z)},
		Target:     rl.Vector3{X: float32(a.cam.TargetX), Y: float32(a.cam.TargetY), Z: float32(a.cam.TargetZ)},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
