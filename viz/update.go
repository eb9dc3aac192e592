package viz

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pwrviz/anim"
	"github.com/pthm-cable/pwrviz/plant"
	"github.com/pthm-cable/pwrviz/telemetry"
)

// glowWhite is the color the selection highlight blends toward.
var glowWhite = anim.RGB{R: 1, G: 1, B: 1}

// Update runs one windowed frame: input, scenario sampling, and the
// animation phases. Draw must be called afterwards in the same frame.
func (a *App) Update() {
	a.handleInput()

	dt := float64(rl.GetFrameTime())
	if dt <= 0 {
		dt = a.cfg.Derived.FixedDT
	}
	a.Step(a.sampleExternal(dt), dt)
}

// UpdateHeadless runs one frame at the fixed step with no input or draw.
func (a *App) UpdateHeadless() {
	dt := a.cfg.Derived.FixedDT
	a.Step(a.sampleExternal(dt), dt)
	a.perf.EndFrame()
	a.maybeFlushTelemetry()
}

// sampleExternal produces this frame's snapshot from the scenario script
// or the manual override panel, merged with the tracked selection and
// view mode.
func (a *App) sampleExternal(dt float64) plant.Snapshot {
	if !a.paused {
		a.simTime += dt
	}

	var power, temp float64
	var pumps []bool

	if a.pan != nil && a.pan.Manual {
		power = float64(a.pan.Power)
		temp = float64(a.pan.Temperature)
		pumps = a.pan.Pumps
	} else if a.script != nil {
		power, temp, pumps = a.script.Sample(a.simTime)
	}

	return plant.NewSnapshot(power, temp, pumps, a.selected, a.mode)
}

// Step drives the animation phases for one frame. Targets are set, every
// animated value advances exactly once, then the results are written into
// draw state. Callers never advance values themselves.
func (a *App) Step(snap plant.Snapshot, dt float64) {
	a.perf.StartFrame()
	a.perf.StartPhase(telemetry.PhaseSnapshot)
	a.snap = snap
	a.frame++

	a.perf.StartPhase(telemetry.PhaseTargets)
	a.setTargets(snap)

	a.perf.StartPhase(telemetry.PhaseAdvance)
	a.advance(dt)

	a.perf.StartPhase(telemetry.PhaseWrite)
	a.write()

	a.recordStats(dt)
}

// setTargets pushes the snapshot into every animated value's target.
func (a *App) setTargets(snap plant.Snapshot) {
	cfg := a.cfg

	query := a.rotorFilter.Query()
	for query.Next() {
		meta, rotor := query.Get()
		if meta.Loop >= 0 {
			// Pump impeller: full speed under power, zero otherwise.
			target := 0.0
			if snap.PumpRunning(meta.Loop) {
				target = cfg.Anim.PumpMaxSpeed
			}
			rotor.Speed.SetTarget(target)
		} else {
			// Turbine train follows reactor power.
			rotor.Speed.SetTarget(snap.Power * cfg.Anim.TurbineFactor)
		}
	}

	gq := a.glowFilter.Query()
	for gq.Next() {
		meta, glow := gq.Get()
		if snap.Selected != plant.IDNone && meta.ID == snap.Selected {
			glow.Level.SetTarget(glow.Peak)
		} else {
			glow.Level.SetTarget(0)
		}
	}

	hq := a.heatFilter.Query()
	for hq.Next() {
		hq.Get().Blend.SetTarget(snap.Temperature)
	}

	pq := a.powerFilter.Query()
	for pq.Next() {
		pq.Get().Level.SetTarget(snap.Power)
	}

	a.view.SetMode(snap.Mode)
}

// advance steps every animated value once. Values that have settled
// within the epsilon snap to their target so steady state reads exact.
func (a *App) advance(dt float64) {
	eps := a.cfg.Anim.SnapEpsilon

	query := a.rotorFilter.Query()
	for query.Next() {
		_, rotor := query.Get()
		rotor.Speed.Advance(dt)
		if rotor.Speed.Settled(eps) {
			rotor.Speed.Snap()
		}
		// Rotation is unbounded; integrate and wrap.
		rotor.Angle += rotor.Speed.Value() * dt
		if rotor.Angle >= 2*math.Pi {
			rotor.Angle = math.Mod(rotor.Angle, 2*math.Pi)
		}
	}

	gq := a.glowFilter.Query()
	for gq.Next() {
		_, glow := gq.Get()
		glow.Level.Advance(dt)
		if glow.Level.Settled(eps) {
			glow.Level.Snap()
		}
	}

	hq := a.heatFilter.Query()
	for hq.Next() {
		heat := hq.Get()
		heat.Blend.Advance(dt)
		if heat.Blend.Settled(eps) {
			heat.Blend.Snap()
		}
	}

	pq := a.powerFilter.Query()
	for pq.Next() {
		pg := pq.Get()
		pg.Level.Advance(dt)
		if pg.Level.Settled(eps) {
			pg.Level.Snap()
		}
	}

	a.view.Advance(dt)
}

// write folds the animated values into each renderable's draw state. A
// renderable without a built model still gets its tint computed, so
// headless runs exercise the identical path.
func (a *App) write() {
	query := a.renderFilter.Query()
	for query.Next() {
		e := query.Entity()
		r := query.Get()

		base := r.Base
		if h := a.heatMap.Get(e); h != nil {
			base = anim.HeatGradient.At(h.Blend.Value())
		}
		if p := a.powerMap.Get(e); p != nil {
			base = anim.PowerGradient.At(p.Level.Value())
		}
		if g := a.glowMap.Get(e); g != nil {
			base = base.Lerp(glowWhite, g.Level.Value())
		}

		alpha := 1.0
		if s := a.shellMap.Get(e); s != nil {
			alpha = a.view.Value(s.Group) * s.BaseOpacity
		}

		if rot := a.rotorMap.Get(e); rot != nil {
			r.AngleDeg = float32(rot.Angle * 180 / math.Pi)
		}

		r.Tint = tint(base, alpha)
	}
}

// recordStats accumulates telemetry for the frame.
func (a *App) recordStats(dt float64) {
	speeds := make([]float64, 0, len(a.lay.Loops))
	query := a.rotorFilter.Query()
	for query.Next() {
		meta, rotor := query.Get()
		if meta.Loop >= 0 {
			speeds = append(speeds, rotor.Speed.Value())
		}
	}
	a.windowReady = a.stats.RecordFrame(dt, speeds)
}

// maybeFlushTelemetry writes the window stats and perf breakdown when the
// stats window has elapsed.
func (a *App) maybeFlushTelemetry() {
	if !a.windowReady {
		return
	}
	a.windowReady = false

	pumpsOn := 0
	for _, on := range a.snap.PumpOn {
		if on {
			pumpsOn++
		}
	}
	stats := a.stats.Flush(telemetry.WindowStats{
		Power:          a.snap.Power,
		Temperature:    a.snap.Temperature,
		PumpsOn:        pumpsOn,
		ShellOpacity:   a.view.Value(0),
		HighlightLevel: a.selectedGlow(),
		ViewMode:       a.view.Mode().String(),
	})

	if a.logStats {
		stats.Log()
		a.perf.Stats().LogStats()
	}
	if a.out != nil {
		if err := a.out.WriteTelemetry(stats); err != nil {
			logWriteErr(err)
		}
		if err := a.out.WritePerf(a.perf.Stats(), a.frame); err != nil {
			logWriteErr(err)
		}
	}
}

// selectedGlow returns the highlight level of the selected component,
// zero when nothing is selected.
func (a *App) selectedGlow() float64 {
	if a.selected == plant.IDNone {
		return 0
	}
	query := a.glowFilter.Query()
	level := 0.0
	for query.Next() {
		meta, glow := query.Get()
		if meta.ID == a.selected && glow.Level.Value() > level {
			level = glow.Level.Value()
		}
	}
	return level
}

func logWriteErr(err error) {
	slog.Warn("telemetry write failed", "error", err)
}

// tint converts a normalized color and alpha into a raylib draw color.
func tint(c anim.RGB, alpha float64) rl.Color {
	r, g, b := c.Bytes()
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return rl.Color{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}
