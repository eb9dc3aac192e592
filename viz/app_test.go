package viz

import (
	"math"
	"testing"

	"github.com/pthm-cable/pwrviz/components"
	"github.com/pthm-cable/pwrviz/config"
	"github.com/pthm-cable/pwrviz/plant"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	app, err := New(cfg, Options{Headless: true})
	if err != nil {
		t.Fatalf("building app: %v", err)
	}
	return app
}

// step drives n frames at the reference rate with a fixed snapshot.
func step(app *App, snap plant.Snapshot, n int) {
	for i := 0; i < n; i++ {
		app.Step(snap, 1.0/60.0)
	}
}

func allPumpsOn(app *App) []bool {
	on := make([]bool, len(app.lay.Loops))
	for i := range on {
		on[i] = true
	}
	return on
}

func TestSceneEntityCounts(t *testing.T) {
	app := newTestApp(t)
	loops := len(app.lay.Loops)

	// Vessel, containment, turbine island (6), plus SG and pump per loop.
	wantPickables := 8 + 2*loops
	if len(app.pickables) != wantPickables {
		t.Errorf("pickables = %d, want %d", len(app.pickables), wantPickables)
	}

	// Shells add the containment dome on top of the pickable surfaces.
	if len(app.shells) != wantPickables+1 {
		t.Errorf("shells = %d, want %d", len(app.shells), wantPickables+1)
	}

	// One tube per route plus the turbine shaft.
	if len(app.opaque) != len(app.lay.Routes)+1 {
		t.Errorf("opaque = %d, want %d", len(app.opaque), len(app.lay.Routes)+1)
	}

	// Core, CRDM housing, per-loop tube bundle and impeller.
	if len(app.interior) != 2+2*loops {
		t.Errorf("interior = %d, want %d", len(app.interior), 2+2*loops)
	}
}

func TestPumpSpinUpAndCoastDown(t *testing.T) {
	app := newTestApp(t)
	max := app.cfg.Anim.PumpMaxSpeed

	on := plant.NewSnapshot(1, 0.5, allPumpsOn(app), plant.IDNone, plant.ViewNormal)
	step(app, on, 60)

	speeds := pumpSpeeds(app)
	if len(speeds) != len(app.lay.Loops) {
		t.Fatalf("got %d pump rotors, want %d", len(speeds), len(app.lay.Loops))
	}
	for i, s := range speeds {
		if s < max*0.8 {
			t.Errorf("pump %d after 1s spin-up = %v, want > %v", i, s, max*0.8)
		}
		if s > max {
			t.Errorf("pump %d overshot max speed: %v > %v", i, s, max)
		}
	}

	off := plant.NewSnapshot(1, 0.5, make([]bool, len(app.lay.Loops)), plant.IDNone, plant.ViewNormal)
	step(app, off, 120)

	for i, s := range pumpSpeeds(app) {
		if s > max*0.2 {
			t.Errorf("pump %d after 2s coast-down = %v, want < %v", i, s, max*0.2)
		}
	}
}

func pumpSpeeds(app *App) []float64 {
	var speeds []float64
	query := app.rotorFilter.Query()
	for query.Next() {
		meta, rotor := query.Get()
		if meta.Loop >= 0 {
			speeds = append(speeds, rotor.Speed.Value())
		}
	}
	return speeds
}

func TestTurbineFollowsPower(t *testing.T) {
	app := newTestApp(t)

	full := plant.NewSnapshot(1, 0.5, nil, plant.IDNone, plant.ViewNormal)
	step(app, full, 300)

	query := app.rotorFilter.Query()
	found := false
	for query.Next() {
		meta, rotor := query.Get()
		if meta.Loop < 0 {
			found = true
			want := app.cfg.Anim.TurbineFactor
			if math.Abs(rotor.Speed.Value()-want) > want*0.1 {
				t.Errorf("turbine speed = %v, want ~%v", rotor.Speed.Value(), want)
			}
		}
	}
	if !found {
		t.Fatal("no turbine rotor in scene")
	}
}

func TestRotorAngleWraps(t *testing.T) {
	app := newTestApp(t)

	on := plant.NewSnapshot(1, 0, allPumpsOn(app), plant.IDNone, plant.ViewNormal)
	// Long run guarantees multiple revolutions at pump_max_speed rad/s.
	step(app, on, 1200)

	query := app.rotorFilter.Query()
	for query.Next() {
		_, rotor := query.Get()
		if rotor.Angle < 0 || rotor.Angle >= 2*math.Pi {
			t.Errorf("rotor angle %v outside [0, 2pi)", rotor.Angle)
		}
	}
}

func TestSelectionHighlightsOnlyTarget(t *testing.T) {
	app := newTestApp(t)

	sel := plant.NewSnapshot(0, 0, nil, plant.SGID(0), plant.ViewNormal)
	step(app, sel, 30)

	query := app.glowFilter.Query()
	for query.Next() {
		meta, glow := query.Get()
		if meta.ID == plant.SGID(0) {
			if glow.Level.Value() < 0.25 {
				t.Errorf("selected %s glow = %v, want near peak %v",
					meta.ID, glow.Level.Value(), glow.Peak)
			}
		} else if glow.Level.Value() > 1e-9 {
			t.Errorf("unselected %s glow = %v, want 0", meta.ID, glow.Level.Value())
		}
	}
}

func TestSelectionDecaysAfterClear(t *testing.T) {
	app := newTestApp(t)

	sel := plant.NewSnapshot(0, 0, nil, plant.IDVessel, plant.ViewNormal)
	step(app, sel, 60)

	clear := plant.NewSnapshot(0, 0, nil, plant.IDNone, plant.ViewNormal)
	step(app, clear, 240)

	query := app.glowFilter.Query()
	for query.Next() {
		meta, glow := query.Get()
		if glow.Level.Value() > 0.01 {
			t.Errorf("%s glow = %v after decay, want ~0", meta.ID, glow.Level.Value())
		}
	}
}

func TestHeatTintTracksTemperature(t *testing.T) {
	app := newTestApp(t)

	cold := plant.NewSnapshot(0, 0, nil, plant.IDNone, plant.ViewNormal)
	step(app, cold, 1)
	coldTint := vesselTint(t, app)

	hot := plant.NewSnapshot(0, 1, nil, plant.IDNone, plant.ViewNormal)
	step(app, hot, 600)
	hotTint := vesselTint(t, app)

	// Heat gradient runs cool blue to hot red.
	if hotTint.R <= coldTint.R {
		t.Errorf("hot tint red %d not above cold %d", hotTint.R, coldTint.R)
	}
	if hotTint.B >= coldTint.B {
		t.Errorf("hot tint blue %d not below cold %d", hotTint.B, coldTint.B)
	}
}

func vesselTint(t *testing.T, app *App) (tint struct{ R, G, B, A uint8 }) {
	t.Helper()
	for _, e := range app.pickables {
		meta := app.metaMap.Get(e)
		if meta == nil || meta.ID != plant.IDVessel {
			continue
		}
		r := app.renderMap.Get(e)
		return struct{ R, G, B, A uint8 }{r.Tint.R, r.Tint.G, r.Tint.B, r.Tint.A}
	}
	t.Fatal("vessel entity not found")
	return
}

func TestViewModeOpacityBlend(t *testing.T) {
	app := newTestApp(t)

	normal := plant.NewSnapshot(0, 0, nil, plant.IDNone, plant.ViewNormal)
	step(app, normal, 1)
	if got := app.view.Value(components.GroupCasing); got != app.cfg.View.NormalOpacity {
		t.Fatalf("normal casing opacity = %v, want %v", got, app.cfg.View.NormalOpacity)
	}

	xray := plant.NewSnapshot(0, 0, nil, plant.IDNone, plant.ViewXRay)
	step(app, xray, 600)

	want := app.cfg.View.XRayOpacity
	if got := app.view.Value(components.GroupCasing); math.Abs(got-want) > 0.01 {
		t.Errorf("x-ray casing opacity = %v, want ~%v", got, want)
	}

	// Tint alpha on a shell follows the blend.
	tint := vesselTint(t, app)
	wantA := uint8(want*255 + 0.5)
	if d := int(tint.A) - int(wantA); d < -3 || d > 3 {
		t.Errorf("shell tint alpha = %d, want ~%d", tint.A, wantA)
	}
}

func TestSectionModeCutsContainmentOnly(t *testing.T) {
	app := newTestApp(t)

	section := plant.NewSnapshot(0, 0, nil, plant.IDNone, plant.ViewSection)
	step(app, section, 600)

	if got := app.view.Value(components.GroupContainment); got > 0.01 {
		t.Errorf("section containment opacity = %v, want ~0", got)
	}
	want := app.cfg.View.SectionOpacity
	if got := app.view.Value(components.GroupCasing); math.Abs(got-want) > 0.01 {
		t.Errorf("section casing opacity = %v, want ~%v", got, want)
	}
}

func TestSelectToggle(t *testing.T) {
	app := newTestApp(t)

	app.Select(plant.SGID(1))
	if app.Selected() != plant.SGID(1) {
		t.Fatalf("Selected = %q, want %q", app.Selected(), plant.SGID(1))
	}
	app.Select(plant.SGID(1))
	if app.Selected() != plant.IDNone {
		t.Errorf("reselecting should clear, got %q", app.Selected())
	}
}

func TestHeadlessFrameAdvancesClock(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 10; i++ {
		app.UpdateHeadless()
	}

	if app.Frame() != 10 {
		t.Errorf("frame = %d, want 10", app.Frame())
	}
	want := 10 * app.cfg.Derived.FixedDT
	if math.Abs(app.SimTime()-want) > 1e-9 {
		t.Errorf("sim time = %v, want %v", app.SimTime(), want)
	}
}
