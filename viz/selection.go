package viz

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pwrviz/plant"
)

// pick casts a ray through the mouse position and returns the id of the
// nearest pickable component it hits, or IDNone. Bounding spheres are
// deliberately generous; picking the shell of a component counts as
// picking the component.
func (a *App) pick(mouse rl.Vector2) plant.ComponentID {
	ray := rl.GetScreenToWorldRay(mouse, a.rlCamera())

	best := plant.IDNone
	bestDist := float32(0)

	for _, e := range a.pickables {
		p := a.pickMap.Get(e)
		meta := a.metaMap.Get(e)
		if p == nil || meta == nil {
			continue
		}
		hit := rl.GetRayCollisionSphere(ray, p.Center, p.Radius)
		if !hit.Hit || hit.Distance <= 0 {
			continue
		}
		if best == plant.IDNone || hit.Distance < bestDist {
			best = meta.ID
			bestDist = hit.Distance
		}
	}
	return best
}

// Select sets the selected component directly, for programmatic control.
// Selecting the already-selected component clears the selection.
func (a *App) Select(id plant.ComponentID) {
	if id == a.selected {
		a.selected = plant.IDNone
		return
	}
	a.selected = id
}

// SetMode requests a view mode directly.
func (a *App) SetMode(m plant.ViewMode) {
	if m.Valid() {
		a.mode = m
	}
}
