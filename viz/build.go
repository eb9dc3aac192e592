package viz

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pwrviz/anim"
	"github.com/pthm-cable/pwrviz/components"
	"github.com/pthm-cable/pwrviz/geometry"
	"github.com/pthm-cable/pwrviz/layout"
	"github.com/pthm-cable/pwrviz/plant"
)

// Base palette. Heat-colored surfaces start at the gradient's cool end so
// the first frame matches a cold plant.
var (
	steelColor     = anim.RGB{R: 0.62, G: 0.64, B: 0.68}
	casingColor    = anim.RGB{R: 0.45, G: 0.48, B: 0.55}
	containColor   = anim.RGB{R: 0.72, G: 0.70, B: 0.66}
	generatorColor = anim.RGB{R: 0.70, G: 0.55, B: 0.25}
	condenserColor = anim.RGB{R: 0.35, G: 0.45, B: 0.50}
	steamColor     = anim.RGB{R: 0.78, G: 0.78, B: 0.80}
	feedColor      = anim.RGB{R: 0.35, G: 0.55, B: 0.45}
	rotorColor     = anim.RGB{R: 0.80, G: 0.78, B: 0.70}
	internalsColor = anim.RGB{R: 0.50, G: 0.50, B: 0.55}
)

// buildScene creates every entity from the layout: shells, rotors,
// interior detail, and one tube model per pipe route. Geometry errors are
// fatal; a route that cannot be built means the layout constants are
// inconsistent.
func (a *App) buildScene() error {
	cfg := a.cfg
	p := &cfg.Plant

	// Reactor vessel: heat-colored casing shell with pickable bounds.
	vesselPos := rl.Vector3{}
	a.addShell(shellSpec{
		id: plant.IDVessel, name: "Reactor Vessel", loop: -1,
		mesh:   func() rl.Model { return cylinderModel(p.VesselRadius, p.VesselHeight) },
		pos:    vesselPos,
		base:   steelColor,
		center: rl.Vector3{Y: float32(p.VesselHeight / 2)},
		radius: float32(max64(p.VesselRadius, p.VesselHeight/2)) * 1.1,
		heat:   true,
	})

	// Core: emissive column inside the vessel, interior detail only.
	core := a.coreMapper.NewEntity(
		&components.Meta{ID: plant.IDVessel, Name: "Core", Loop: -1},
		&components.Renderable{
			Model: a.model(func() rl.Model {
				return cylinderModel(p.VesselRadius*0.55, p.VesselHeight*0.6)
			}),
			Built: !a.headless,
			Pos:   rl.Vector3{Y: float32(p.VesselHeight * 0.15)},
			Axis:  rl.Vector3{Y: 1},
			Scale: one(),
			Base:  anim.PowerGradient.Low,
		},
		&components.Interior{},
		&components.PowerGlow{Level: anim.NewSymmetricScalar(0, cfg.Anim.GlowRate).Bounded(0, 1)},
	)
	a.interior = append(a.interior, core)

	// Control rod drive housing on the vessel head.
	crdm := a.interiorMapper.NewEntity(
		&components.Meta{ID: plant.IDVessel, Name: "CRDM Housing", Loop: -1},
		&components.Renderable{
			Model: a.model(func() rl.Model {
				return cylinderModel(p.VesselRadius*0.35, p.VesselHeight*0.25)
			}),
			Built: !a.headless,
			Pos:   rl.Vector3{Y: float32(p.VesselHeight)},
			Axis:  rl.Vector3{Y: 1},
			Scale: one(),
			Base:  internalsColor,
		},
		&components.Interior{},
	)
	a.interior = append(a.interior, crdm)

	// Per-loop equipment.
	for i := range a.lay.Loops {
		lp := &a.lay.Loops[i]

		a.addShell(shellSpec{
			id: plant.SGID(i), name: fmt.Sprintf("Steam Generator %d", i+1), loop: i,
			mesh:   func() rl.Model { return cylinderModel(p.SGRadius, p.SGHeight) },
			pos:    v3(at(lp.SGPos, 0)),
			base:   steelColor,
			center: v3(at(lp.SGPos, p.SGHeight/2)),
			radius: float32(p.SGHeight/2) * 1.1,
			heat:   true,
		})

		// SG tube bundle, visible in interior views.
		bundle := a.interiorMapper.NewEntity(
			&components.Meta{ID: plant.SGID(i), Name: "Tube Bundle", Loop: i},
			&components.Renderable{
				Model: a.model(func() rl.Model {
					return cylinderModel(p.SGRadius*0.7, p.SGHeight*0.55)
				}),
				Built: !a.headless,
				Pos:   v3(at(lp.SGPos, p.SGHeight*0.1)),
				Axis:  rl.Vector3{Y: 1},
				Scale: one(),
				Base:  internalsColor,
			},
			&components.Interior{},
		)
		a.interior = append(a.interior, bundle)

		a.addShell(shellSpec{
			id: plant.RCPID(i), name: fmt.Sprintf("Coolant Pump %d", i+1), loop: i,
			mesh:   func() rl.Model { return sphereModel(p.RCPRadius) },
			pos:    v3(at(lp.PumpPos, p.RCPHeight*0.5)),
			base:   casingColor,
			center: v3(at(lp.PumpPos, p.RCPHeight*0.5)),
			radius: float32(p.RCPRadius) * 1.3,
			heat:   true,
		})

		// Impeller inside the pump casing, spinning about Y.
		impeller := a.rotorMapper.NewEntity(
			&components.Meta{ID: plant.RCPID(i), Name: "Impeller", Loop: i},
			&components.Renderable{
				Model: a.model(func() rl.Model {
					return cubeModel(p.RCPRadius*1.4, p.RCPRadius*0.3, p.RCPRadius*0.4)
				}),
				Built: !a.headless,
				Pos:   v3(at(lp.PumpPos, p.RCPHeight*0.5)),
				Axis:  rl.Vector3{Y: 1},
				Scale: one(),
				Base:  rotorColor,
			},
			&components.Rotor{
				Speed: anim.NewScalar(0, cfg.Anim.PumpRise, cfg.Anim.PumpFall).
					Bounded(0, cfg.Anim.PumpMaxSpeed),
				Axis: rl.Vector3{Y: 1},
			},
		)
		a.interior = append(a.interior, impeller)
	}

	// Containment: cylinder plus dome, the cut-away group. Only the
	// cylinder is pickable; the dome follows the same id for highlight.
	shell := a.casingMapper.NewEntity(
		&components.Meta{ID: plant.IDContainment, Name: "Containment", Loop: -1},
		&components.Renderable{
			Model: a.model(func() rl.Model {
				return cylinderModel(p.ContainRadius, p.ContainHeight)
			}),
			Built: !a.headless,
			Axis:  rl.Vector3{Y: 1},
			Scale: one(),
			Base:  containColor,
			Wire:  true,
		},
		&components.Shell{Group: components.GroupContainment, BaseOpacity: 1},
		&components.Glow{
			Level: anim.NewSymmetricScalar(0, cfg.Anim.HighlightRate).Bounded(0, 1),
			Peak:  cfg.Anim.HighlightPeak,
		},
		&components.Pickable{
			Center: rl.Vector3{Y: float32(p.ContainHeight / 2)},
			Radius: float32(p.ContainRadius) * 1.05,
		},
	)
	a.shells = append(a.shells, shell)
	a.pickables = append(a.pickables, shell)
	dome := a.partMapper.NewEntity(
		&components.Meta{ID: plant.IDContainment, Name: "Containment Dome", Loop: -1},
		&components.Renderable{
			Model: a.model(func() rl.Model { return domeModel(p.ContainRadius) }),
			Built: !a.headless,
			Pos:   rl.Vector3{Y: float32(p.ContainHeight)},
			Axis:  rl.Vector3{Y: 1},
			Scale: one(),
			Base:  containColor,
			Wire:  true,
		},
		&components.Shell{Group: components.GroupContainment, BaseOpacity: 1},
		&components.Glow{
			Level: anim.NewSymmetricScalar(0, cfg.Anim.HighlightRate).Bounded(0, 1),
			Peak:  cfg.Anim.HighlightPeak,
		},
	)
	a.shells = append(a.shells, dome)

	// Turbine island.
	a.addTurbine(plant.IDTurbineHP, "HP Turbine", a.lay.HPPos, p.TurbineRadius)
	a.addTurbine(plant.IDTurbineLP1, "LP Turbine 1", a.lay.LP1Pos, p.TurbineRadius*1.4)
	a.addTurbine(plant.IDTurbineLP2, "LP Turbine 2", a.lay.LP2Pos, p.TurbineRadius*1.4)

	a.addShell(shellSpec{
		id: plant.IDMSR, name: "Moisture Separator", loop: -1,
		mesh: func() rl.Model {
			return xCylinderModel(p.TurbineRadius*0.9, p.TurbineSpacing*1.2)
		},
		pos:    v3(a.lay.MSRPos),
		base:   casingColor,
		center: v3(a.lay.MSRPos),
		radius: float32(p.TurbineSpacing) * 0.8,
	})

	a.addShell(shellSpec{
		id: plant.IDGenerator, name: "Generator", loop: -1,
		mesh: func() rl.Model {
			return xCylinderModel(p.TurbineRadius*1.2, p.TurbineSpacing*0.9)
		},
		pos:    v3(a.lay.GeneratorPos),
		base:   generatorColor,
		center: v3(a.lay.GeneratorPos),
		radius: float32(p.TurbineSpacing) * 0.7,
	})

	a.addShell(shellSpec{
		id: plant.IDCondenser, name: "Condenser", loop: -1,
		mesh: func() rl.Model {
			return cubeModel(p.TurbineSpacing*2.2, p.CondenserDrop*0.8, p.TurbineRadius*3)
		},
		pos:    v3(a.lay.CondenserPos),
		base:   condenserColor,
		center: v3(a.lay.CondenserPos),
		radius: float32(p.TurbineSpacing) * 1.3,
	})

	// One shaft rotor spanning the turbine train, spinning about X.
	shaftLen := a.lay.GeneratorPos.X - a.lay.HPPos.X + p.TurbineSpacing
	shaftMid := r3.Vec{X: (a.lay.HPPos.X + a.lay.GeneratorPos.X) / 2, Y: a.lay.ShaftY}
	shaft := a.rotorMapper.NewEntity(
		&components.Meta{ID: plant.IDTurbineHP, Name: "Turbine Shaft", Loop: -1},
		&components.Renderable{
			Model: a.model(func() rl.Model {
				return cubeModel(shaftLen, p.TurbineRadius*0.25, p.TurbineRadius*0.25)
			}),
			Built: !a.headless,
			Pos:   v3(shaftMid),
			Axis:  rl.Vector3{X: 1},
			Scale: one(),
			Base:  rotorColor,
		},
		&components.Rotor{
			Speed: anim.NewScalar(0, cfg.Anim.PumpRise, cfg.Anim.PumpFall).
				Bounded(0, cfg.Anim.TurbineFactor),
			Axis: rl.Vector3{X: 1},
		},
	)
	a.opaque = append(a.opaque, shaft)

	// Pipe routes. Splines and tube surfaces are built even headless so
	// bad control points fail fast; only the GPU upload is skipped.
	for ri := range a.lay.Routes {
		rt := &a.lay.Routes[ri]
		if err := a.addRoute(rt); err != nil {
			return fmt.Errorf("route %s: %w", rt.Name, err)
		}
	}

	return nil
}

// shellSpec bundles the arguments for one pickable shell surface.
type shellSpec struct {
	id     plant.ComponentID
	name   string
	loop   int
	mesh   func() rl.Model
	pos    rl.Vector3
	base   anim.RGB
	center rl.Vector3
	radius float32
	heat   bool
}

func (a *App) addShell(s shellSpec) {
	cfg := a.cfg
	meta := components.Meta{ID: s.id, Name: s.name, Loop: s.loop}
	rend := components.Renderable{
		Model: a.model(s.mesh),
		Built: !a.headless,
		Pos:   s.pos,
		Axis:  rl.Vector3{Y: 1},
		Scale: one(),
		Base:  s.base,
		Wire:  true,
	}
	shell := components.Shell{Group: components.GroupCasing, BaseOpacity: 1}
	glow := components.Glow{
		Level: anim.NewSymmetricScalar(0, cfg.Anim.HighlightRate).Bounded(0, 1),
		Peak:  cfg.Anim.HighlightPeak,
	}
	pick := components.Pickable{Center: s.center, Radius: s.radius}

	var e ecs.Entity
	if s.heat {
		heat := components.Heat{Blend: anim.NewSymmetricScalar(0, cfg.Anim.HeatRate).Bounded(0, 1)}
		e = a.shellMapper.NewEntity(&meta, &rend, &shell, &glow, &pick, &heat)
	} else {
		e = a.casingMapper.NewEntity(&meta, &rend, &shell, &glow, &pick)
	}
	a.shells = append(a.shells, e)
	a.pickables = append(a.pickables, e)
}

func (a *App) addTurbine(id plant.ComponentID, name string, pos r3.Vec, radius float64) {
	a.addShell(shellSpec{
		id: id, name: name, loop: -1,
		mesh: func() rl.Model {
			return xCylinderModel(radius, a.cfg.Plant.TurbineSpacing*0.8)
		},
		pos:    v3(pos),
		base:   casingColor,
		center: v3(pos),
		radius: float32(radius) * 1.6,
	})
}

// addRoute builds the spline and tube surface for one pipe route and
// registers its entity. Tube vertices are in world coordinates, so the
// renderable draws at the origin.
func (a *App) addRoute(rt *layout.Route) error {
	sp, err := geometry.NewSpline(rt.Points)
	if err != nil {
		return err
	}
	pc := rt.Params(&a.cfg.Pipes)
	tube, err := geometry.BuildTube(sp, geometry.TubeParams{
		Radius:     pc.Radius,
		RadialSegs: pc.RadialSegs,
		Segments:   pc.SegsPerSpan * (len(rt.Points) - 1),
	})
	if err != nil {
		return err
	}

	var model rl.Model
	if !a.headless {
		model = tube.Upload()
	}

	meta := components.Meta{ID: plant.IDNone, Name: rt.Name, Loop: rt.Loop}
	rend := components.Renderable{
		Model: model,
		Built: !a.headless,
		Axis:  rl.Vector3{Y: 1},
		Scale: one(),
		Base:  routeColor(rt.Class),
	}
	var e ecs.Entity
	if rt.Hot {
		heat := components.Heat{
			Blend: anim.NewSymmetricScalar(0, a.cfg.Anim.HeatRate).Bounded(0, 1),
		}
		e = a.hotPipeMapper.NewEntity(&meta, &rend, &heat)
	} else {
		e = a.pipeMapper.NewEntity(&meta, &rend)
	}
	a.opaque = append(a.opaque, e)
	return nil
}

func routeColor(c layout.RouteClass) anim.RGB {
	switch c {
	case layout.ClassSteam:
		return steamColor
	case layout.ClassFeedwater:
		return feedColor
	case layout.ClassCrossover:
		return steamColor
	}
	return anim.HeatGradient.Low
}

// model evaluates the mesh builder unless running headless, where no GL
// context exists.
func (a *App) model(build func() rl.Model) rl.Model {
	if a.headless {
		return rl.Model{}
	}
	return build()
}

func cylinderModel(radius, height float64) rl.Model {
	return rl.LoadModelFromMesh(rl.GenMeshCylinder(float32(radius), float32(height), 24))
}

// xCylinderModel bakes a rotation into the model transform so the
// cylinder lies along the X axis, centered on its position.
func xCylinderModel(radius, length float64) rl.Model {
	m := rl.LoadModelFromMesh(rl.GenMeshCylinder(float32(radius), float32(length), 24))
	m.Transform = rl.MatrixMultiply(
		rl.MatrixTranslate(0, -float32(length)/2, 0),
		rl.MatrixRotateZ(-90*rl.Deg2rad),
	)
	return m
}

func sphereModel(radius float64) rl.Model {
	return rl.LoadModelFromMesh(rl.GenMeshSphere(float32(radius), 16, 24))
}

func domeModel(radius float64) rl.Model {
	return rl.LoadModelFromMesh(rl.GenMeshHemiSphere(float32(radius), 12, 24))
}

func cubeModel(w, h, l float64) rl.Model {
	return rl.LoadModelFromMesh(rl.GenMeshCube(float32(w), float32(h), float32(l)))
}

func v3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func at(v r3.Vec, y float64) r3.Vec {
	v.Y = y
	return v
}

func one() rl.Vector3 { return rl.Vector3{X: 1, Y: 1, Z: 1} }

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
