// Package layout computes the static spatial configuration of the plant:
// positions and orientations of every loop component and every anchor
// point the pipe routes must begin or end at. Everything here is a pure
// deterministic function of the plant config constants; rebuilding with
// the same config yields bit-identical results.
package layout

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pwrviz/config"
	"github.com/pthm-cable/pwrviz/plant"
)

// Loop holds the placement and anchors of one primary coolant circuit.
// The world is y-up; the vessel center line is the y axis.
type Loop struct {
	Index int     // 0-based loop index
	Angle float64 // radians from +X around the vessel
	Dir   r3.Vec  // unit vector from vessel center toward the SG

	SGPos   r3.Vec // steam generator base center
	PumpPos r3.Vec // coolant pump base center

	// Primary-side anchors
	HotNozzle    r3.Vec // hot-leg nozzle on the vessel shell
	SGInlet      r3.Vec // SG channel head, hot side
	SGOutlet     r3.Vec // SG channel head, cold side
	PumpSuction  r3.Vec // pump casing inlet
	PumpOutlet   r3.Vec // pump casing discharge
	ColdNozzle   r3.Vec // cold-leg nozzle on the vessel shell
	SteamNozzle  r3.Vec // main steam nozzle on the SG dome
	FeedNozzle   r3.Vec // feedwater nozzle on the SG shell
}

// Layout is the full computed spatial configuration. It is immutable once
// built and shared read-only by the geometry builder and the renderer.
type Layout struct {
	Loops []Loop

	// Turbine island, laid out along the +X shaft axis
	HPPos        r3.Vec // high-pressure turbine center
	MSRPos       r3.Vec // moisture-separator-reheater, beside the shaft
	LP1Pos       r3.Vec // first low-pressure turbine center
	LP2Pos       r3.Vec // second low-pressure turbine center
	GeneratorPos r3.Vec // generator center
	CondenserPos r3.Vec // condenser block center, below the LP stages
	ShaftY       float64

	Routes []Route

	cfg *config.PlantConfig
}

// Plant returns the config constants this layout was built from.
func (l *Layout) Plant() *config.PlantConfig { return l.cfg }

// New computes the layout from configuration constants. The config has
// already passed validation; the only failure left is a duplicate
// component id, which would break selection and is fatal at startup.
func New(cfg *config.Config) (*Layout, error) {
	p := &cfg.Plant

	l := &Layout{
		Loops:  make([]Loop, p.Loops),
		ShaftY: p.CondenserDrop,
		cfg:    p,
	}

	offset := p.LoopOffsetDeg * math.Pi / 180
	swing := p.PumpSwingDeg * math.Pi / 180
	for i := 0; i < p.Loops; i++ {
		angle := offset + float64(i)*2*math.Pi/float64(p.Loops)
		l.Loops[i] = newLoop(i, angle, swing, p)
	}

	// Turbine island along +X beyond the containment
	l.HPPos = r3.Vec{X: p.TurbineOffset, Y: l.ShaftY}
	l.MSRPos = r3.Vec{X: p.TurbineOffset + p.TurbineSpacing*0.5, Y: l.ShaftY, Z: p.TurbineRadius * 3.5}
	l.LP1Pos = r3.Vec{X: p.TurbineOffset + p.TurbineSpacing, Y: l.ShaftY}
	l.LP2Pos = r3.Vec{X: p.TurbineOffset + 2*p.TurbineSpacing, Y: l.ShaftY}
	l.GeneratorPos = r3.Vec{X: p.TurbineOffset + 3*p.TurbineSpacing, Y: l.ShaftY}
	l.CondenserPos = r3.Vec{X: p.TurbineOffset + 1.5*p.TurbineSpacing, Y: l.ShaftY - p.CondenserDrop + 1.0}

	l.Routes = buildRoutes(l, cfg)

	if err := l.checkIDs(); err != nil {
		return nil, err
	}
	return l, nil
}

// newLoop places one loop's components and anchors from its angle.
func newLoop(i int, angle, swing float64, p *config.PlantConfig) Loop {
	dir := r3.Vec{X: math.Cos(angle), Z: math.Sin(angle)}
	pumpAngle := angle + swing
	pumpDir := r3.Vec{X: math.Cos(pumpAngle), Z: math.Sin(pumpAngle)}

	sgPos := r3.Scale(p.LoopRadius, dir)
	pumpPos := r3.Scale(p.PumpRadius, pumpDir)

	lp := Loop{
		Index:   i,
		Angle:   angle,
		Dir:     dir,
		SGPos:   sgPos,
		PumpPos: pumpPos,
	}

	// Hot leg runs from the vessel shell to the SG face nearest the
	// vessel, at hot-leg height.
	lp.HotNozzle = at(r3.Scale(p.VesselRadius, dir), p.HotLegHeight)
	lp.SGInlet = at(r3.Sub(sgPos, r3.Scale(p.SGRadius, dir)), p.HotLegHeight)

	// Crossover leg exits the SG cold-side channel head toward the pump.
	toPump := unitXZ(r3.Sub(pumpPos, sgPos))
	lp.SGOutlet = at(r3.Add(sgPos, r3.Scale(p.SGRadius, toPump)), p.ColdLegHeight)
	lp.PumpSuction = at(r3.Sub(pumpPos, r3.Scale(p.RCPRadius, toPump)), p.ColdLegHeight*0.6)

	// Cold leg returns from the pump discharge to the vessel shell.
	lp.PumpOutlet = at(r3.Sub(pumpPos, r3.Scale(p.RCPRadius, pumpDir)), p.ColdLegHeight)
	lp.ColdNozzle = at(r3.Scale(p.VesselRadius, pumpDir), p.ColdLegHeight)

	// Secondary-side nozzles on the SG
	lp.SteamNozzle = at(sgPos, p.SteamHeight)
	lp.FeedNozzle = at(r3.Add(sgPos, r3.Scale(p.SGRadius, dir)), p.FeedHeight)

	return lp
}

// checkIDs rejects duplicate component ids, which the selection system
// cannot disambiguate.
func (l *Layout) checkIDs() error {
	seen := make(map[plant.ComponentID]bool)
	for _, id := range l.ComponentIDs() {
		if seen[id] {
			return fmt.Errorf("layout: duplicate component id %q", id)
		}
		seen[id] = true
	}
	return nil
}

// ComponentIDs returns every selectable component id in this layout.
func (l *Layout) ComponentIDs() []plant.ComponentID {
	ids := []plant.ComponentID{
		plant.IDVessel,
		plant.IDContainment,
		plant.IDTurbineHP,
		plant.IDTurbineLP1,
		plant.IDTurbineLP2,
		plant.IDMSR,
		plant.IDGenerator,
		plant.IDCondenser,
	}
	for i := range l.Loops {
		ids = append(ids, plant.SGID(i), plant.RCPID(i))
	}
	return ids
}

// at places an XZ position at the given height.
func at(v r3.Vec, y float64) r3.Vec {
	v.Y = y
	return v
}

// unitXZ normalizes the horizontal part of v, ignoring Y.
func unitXZ(v r3.Vec) r3.Vec {
	v.Y = 0
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{X: 1}
	}
	return r3.Scale(1/n, v)
}
