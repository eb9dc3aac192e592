package layout

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pwrviz/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return cfg
}

func TestNewIsDeterministic(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !reflect.DeepEqual(a.Loops, b.Loops) {
		t.Error("loop placements differ between identical builds")
	}
	if !reflect.DeepEqual(a.Routes, b.Routes) {
		t.Error("routes differ between identical builds")
	}
}

func TestLoopSpacing(t *testing.T) {
	cfg := testConfig(t)
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if len(l.Loops) != cfg.Plant.Loops {
		t.Fatalf("got %d loops, want %d", len(l.Loops), cfg.Plant.Loops)
	}

	// Loops partition the circle evenly, starting at the configured offset
	want := 2 * math.Pi / float64(cfg.Plant.Loops)
	for i := 1; i < len(l.Loops); i++ {
		got := l.Loops[i].Angle - l.Loops[i-1].Angle
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("spacing between loops %d and %d = %v, want %v", i-1, i, got, want)
		}
	}
	offset := cfg.Plant.LoopOffsetDeg * math.Pi / 180
	if math.Abs(l.Loops[0].Angle-offset) > 1e-12 {
		t.Errorf("loop 0 angle = %v, want offset %v", l.Loops[0].Angle, offset)
	}
}

func TestLoopRotationSymmetry(t *testing.T) {
	// Rotating loop i's SG position by the loop spacing must give loop
	// i+1's SG position: the placement is a pure function of angle.
	cfg := testConfig(t)
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	spacing := 2 * math.Pi / float64(cfg.Plant.Loops)
	for i := 0; i < len(l.Loops)-1; i++ {
		got := rotateY(l.Loops[i].SGPos, spacing)
		want := l.Loops[i+1].SGPos
		if dist(got, want) > 1e-9 {
			t.Errorf("loop %d SG rotated = %+v, loop %d SG = %+v", i, got, i+1, want)
		}
	}
}

func TestAnchorsOnShells(t *testing.T) {
	cfg := testConfig(t)
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := &cfg.Plant

	for _, lp := range l.Loops {
		if r := horizRadius(lp.HotNozzle); math.Abs(r-p.VesselRadius) > 1e-9 {
			t.Errorf("loop %d hot nozzle radius = %v, want %v", lp.Index, r, p.VesselRadius)
		}
		if r := horizRadius(lp.ColdNozzle); math.Abs(r-p.VesselRadius) > 1e-9 {
			t.Errorf("loop %d cold nozzle radius = %v, want %v", lp.Index, r, p.VesselRadius)
		}
		if d := horizDist(lp.SGInlet, lp.SGPos); math.Abs(d-p.SGRadius) > 1e-9 {
			t.Errorf("loop %d SG inlet offset = %v, want %v", lp.Index, d, p.SGRadius)
		}
		if lp.HotNozzle.Y != p.HotLegHeight {
			t.Errorf("loop %d hot nozzle height = %v, want %v", lp.Index, lp.HotNozzle.Y, p.HotLegHeight)
		}
		if lp.SteamNozzle.Y != p.SteamHeight {
			t.Errorf("loop %d steam nozzle height = %v, want %v", lp.Index, lp.SteamNozzle.Y, p.SteamHeight)
		}
	}
}

func TestRouteEndpointsAreAnchors(t *testing.T) {
	cfg := testConfig(t)
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Expected (first, last) anchor pair per route name prefix
	for _, rt := range l.Routes {
		if len(rt.Points) < 3 {
			t.Errorf("route %s has %d control points, want >= 3", rt.Name, len(rt.Points))
			continue
		}

		var first, last r3.Vec
		switch {
		case rt.Loop >= 0:
			lp := &l.Loops[rt.Loop]
			switch rt.Class {
			case ClassPrimary:
				switch {
				case rt.Hot:
					first, last = lp.HotNozzle, lp.SGInlet
				case rt.Name == routeName("crossover-leg", rt.Loop):
					first, last = lp.SGOutlet, lp.PumpSuction
				default:
					first, last = lp.PumpOutlet, lp.ColdNozzle
				}
			case ClassSteam:
				first, last = lp.SteamNozzle, l.HPPos
			case ClassFeedwater:
				first, last = l.CondenserPos, lp.FeedNozzle
			}
		case rt.Name == "crossover-hp-msr":
			first, last = l.HPPos, l.MSRPos
		case rt.Name == "crossover-msr-lp1":
			first, last = l.MSRPos, l.LP1Pos
		case rt.Name == "crossover-msr-lp2":
			first, last = l.MSRPos, l.LP2Pos
		default:
			t.Errorf("unexpected route %s", rt.Name)
			continue
		}

		if dist(rt.Points[0], first) > 1e-12 {
			t.Errorf("route %s first point %+v != declared anchor %+v", rt.Name, rt.Points[0], first)
		}
		if dist(rt.Points[len(rt.Points)-1], last) > 1e-12 {
			t.Errorf("route %s last point %+v != declared anchor %+v", rt.Name, rt.Points[len(rt.Points)-1], last)
		}
	}
}

func TestComponentIDsUnique(t *testing.T) {
	cfg := testConfig(t)
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	seen := make(map[string]bool)
	for _, id := range l.ComponentIDs() {
		if seen[string(id)] {
			t.Errorf("duplicate component id %q", id)
		}
		seen[string(id)] = true
	}

	// One SG and one pump per loop
	wantLen := 8 + 2*cfg.Plant.Loops
	if len(l.ComponentIDs()) != wantLen {
		t.Errorf("got %d component ids, want %d", len(l.ComponentIDs()), wantLen)
	}
}

func routeName(prefix string, loop int) string {
	return prefix + "-" + string(rune('1'+loop))
}

func rotateY(v r3.Vec, angle float64) r3.Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return r3.Vec{
		X: v.X*c - v.Z*s,
		Y: v.Y,
		Z: v.X*s + v.Z*c,
	}
}

func dist(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

func horizRadius(v r3.Vec) float64 {
	return math.Hypot(v.X, v.Z)
}

func horizDist(a, b r3.Vec) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}
