package viz

import (
	"github.com/pthm-cable/pwrviz/anim"
	"github.com/pthm-cable/pwrviz/components"
	"github.com/pthm-cable/pwrviz/config"
	"github.com/pthm-cable/pwrviz/plant"
)

// ViewController owns the per-group shell opacity blends. Mode switches
// only retarget the blends; the write phase reads the current values every
// frame, so rapid mode cycling just redirects the same interpolation.
type ViewController struct {
	mode  plant.ViewMode
	blend [components.NumShellGroups]anim.Scalar
	cfg   *config.Config
}

// NewViewController starts in normal mode with all groups at full opacity.
func NewViewController(cfg *config.Config) *ViewController {
	v := &ViewController{mode: plant.ViewNormal, cfg: cfg}
	for g := range v.blend {
		v.blend[g] = anim.NewSymmetricScalar(
			cfg.View.NormalOpacity, cfg.Anim.ViewRate,
		).Bounded(0, 1)
	}
	return v
}

// SetMode retargets the group blends for the given mode. Setting the
// active mode again is a no-op.
func (v *ViewController) SetMode(m plant.ViewMode) {
	if !m.Valid() || m == v.mode {
		return
	}
	v.mode = m
	for g := range v.blend {
		v.blend[g].SetTarget(v.opacityFor(m, components.ShellGroup(g)))
	}
}

// opacityFor maps a mode and shell group to its target opacity. Section
// mode cuts the containment away entirely while casings stay ghosted.
func (v *ViewController) opacityFor(m plant.ViewMode, g components.ShellGroup) float64 {
	switch m {
	case plant.ViewXRay:
		return v.cfg.View.XRayOpacity
	case plant.ViewSection:
		if g == components.GroupContainment {
			return 0
		}
		return v.cfg.View.SectionOpacity
	case plant.ViewInterior:
		return v.cfg.View.InteriorOpacity
	}
	return v.cfg.View.NormalOpacity
}

// Advance steps every group blend, snapping once within the epsilon so a
// finished transition reads back the exact target.
func (v *ViewController) Advance(dt float64) {
	eps := v.cfg.Anim.SnapEpsilon
	for g := range v.blend {
		v.blend[g].Advance(dt)
		if v.blend[g].Settled(eps) {
			v.blend[g].Snap()
		}
	}
}

// Value returns the current opacity blend for a shell group.
func (v *ViewController) Value(g components.ShellGroup) float64 {
	return v.blend[g].Value()
}

// Mode returns the active view mode.
func (v *ViewController) Mode() plant.ViewMode { return v.mode }

// InteriorVisible reports whether interior detail should be drawn: it is
// wasted work while the casings are still opaque enough to occlude it.
func (v *ViewController) InteriorVisible() bool {
	return v.Value(components.GroupCasing) < v.cfg.View.DepthThreshold
}
