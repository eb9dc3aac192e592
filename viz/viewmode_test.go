package viz

import (
	"math"
	"testing"

	"github.com/pthm-cable/pwrviz/components"
	"github.com/pthm-cable/pwrviz/config"
	"github.com/pthm-cable/pwrviz/plant"
)

func newTestView(t *testing.T) *ViewController {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return NewViewController(cfg)
}

func TestSetModeSameModeIsNoOp(t *testing.T) {
	v := newTestView(t)
	v.SetMode(plant.ViewXRay)
	for i := 0; i < 10; i++ {
		v.Advance(1.0 / 60.0)
	}
	mid := v.Value(components.GroupCasing)

	// Re-setting the active mode must not restart or redirect the blend.
	v.SetMode(plant.ViewXRay)
	if got := v.Value(components.GroupCasing); got != mid {
		t.Errorf("blend changed on redundant SetMode: %v -> %v", mid, got)
	}
	v.Advance(1.0 / 60.0)
	if got := v.Value(components.GroupCasing); got >= mid {
		t.Errorf("blend stopped converging after redundant SetMode: %v -> %v", mid, got)
	}
}

func TestSetModeRejectsInvalid(t *testing.T) {
	v := newTestView(t)
	v.SetMode(plant.ViewMode(99))
	if v.Mode() != plant.ViewNormal {
		t.Errorf("mode = %v, want %v", v.Mode(), plant.ViewNormal)
	}
}

func TestSectionTargetsCutContainmentOnly(t *testing.T) {
	v := newTestView(t)
	v.SetMode(plant.ViewSection)
	for i := 0; i < 600; i++ {
		v.Advance(1.0 / 60.0)
	}
	if got := v.Value(components.GroupContainment); got != 0 {
		t.Errorf("containment blend = %v, want 0", got)
	}
	want := v.cfg.View.SectionOpacity
	if got := v.Value(components.GroupCasing); math.Abs(got-want) > 1e-6 {
		t.Errorf("casing blend = %v, want %v", got, want)
	}
}

func TestInteriorVisibleTracksCasingBlend(t *testing.T) {
	v := newTestView(t)
	if v.InteriorVisible() {
		t.Fatal("interior visible at full casing opacity")
	}
	v.SetMode(plant.ViewInterior)
	for i := 0; i < 600; i++ {
		v.Advance(1.0 / 60.0)
	}
	if !v.InteriorVisible() {
		t.Errorf("interior hidden with casing blend %v", v.Value(components.GroupCasing))
	}
}
