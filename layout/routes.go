package layout

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pwrviz/config"
)

// RouteClass selects the tube parameters for a pipe route.
type RouteClass int

const (
	ClassPrimary RouteClass = iota
	ClassSteam
	ClassFeedwater
	ClassCrossover
)

// String returns the class name.
func (c RouteClass) String() string {
	switch c {
	case ClassPrimary:
		return "primary"
	case ClassSteam:
		return "steam"
	case ClassFeedwater:
		return "feedwater"
	case ClassCrossover:
		return "crossover"
	}
	return fmt.Sprintf("RouteClass(%d)", int(c))
}

// Route is one logical pipe: an ordered sequence of control points whose
// first and last entries are the declared source and target anchors. The
// spline passes exactly through every point, so violating that pairing
// shows up as a visible gap at the nozzle.
type Route struct {
	Name   string
	Class  RouteClass
	Loop   int  // owning loop index, -1 for turbine-island routes
	Hot    bool // carries primary hot-side coolant (heat colored)
	Points []r3.Vec
}

// Params returns the tube parameters for this route's class.
func (r *Route) Params(pipes *config.PipesConfig) config.PipeClassConfig {
	switch r.Class {
	case ClassSteam:
		return pipes.Steam
	case ClassFeedwater:
		return pipes.Feedwater
	case ClassCrossover:
		return pipes.Crossover
	default:
		return pipes.Primary
	}
}

// buildRoutes assembles every pipe route from the computed anchors.
// Intermediate waypoints only shape the path; both ends of every route
// are anchors. Steam and feedwater lines deliberately terminate inside
// the turbine and condenser housings so no seam is visible where they
// meet - the occluding volume hides the tube end.
func buildRoutes(l *Layout, cfg *config.Config) []Route {
	p := &cfg.Plant
	routes := make([]Route, 0, len(l.Loops)*5+3)

	for i := range l.Loops {
		lp := &l.Loops[i]

		// Hot leg: vessel -> SG, a gentle outward sag between anchors.
		hotMid := midpoint(lp.HotNozzle, lp.SGInlet)
		hotMid.Y += 0.4
		routes = append(routes, Route{
			Name:   fmt.Sprintf("hot-leg-%d", i+1),
			Class:  ClassPrimary,
			Loop:   i,
			Hot:    true,
			Points: []r3.Vec{lp.HotNozzle, hotMid, lp.SGInlet},
		})

		// Crossover leg: SG -> pump, dipping below both anchors the way
		// the real loop seal does.
		dip := midpoint(lp.SGOutlet, lp.PumpSuction)
		dip.Y = 0.8
		routes = append(routes, Route{
			Name:   fmt.Sprintf("crossover-leg-%d", i+1),
			Class:  ClassPrimary,
			Loop:   i,
			Points: []r3.Vec{lp.SGOutlet, dip, lp.PumpSuction},
		})

		// Cold leg: pump -> vessel.
		coldMid := midpoint(lp.PumpOutlet, lp.ColdNozzle)
		coldMid.Y += 0.3
		routes = append(routes, Route{
			Name:   fmt.Sprintf("cold-leg-%d", i+1),
			Class:  ClassPrimary,
			Loop:   i,
			Points: []r3.Vec{lp.PumpOutlet, coldMid, lp.ColdNozzle},
		})

		// Main steam line: SG dome -> up -> over the containment wall ->
		// down into the HP turbine casing.
		rise := lp.SteamNozzle
		rise.Y = p.ContainHeight + 2.5
		wall := r3.Vec{X: p.ContainRadius + 3, Y: p.ContainHeight + 2.5, Z: lp.SteamNozzle.Z * 0.4}
		approach := r3.Vec{X: p.TurbineOffset - p.TurbineSpacing*0.8, Y: l.ShaftY + 3, Z: 0}
		routes = append(routes, Route{
			Name:   fmt.Sprintf("steam-line-%d", i+1),
			Class:  ClassSteam,
			Loop:   i,
			Points: []r3.Vec{lp.SteamNozzle, rise, wall, approach, l.HPPos},
		})

		// Feedwater line: condenser hotwell -> back along grade -> up the
		// SG shell to the feed nozzle.
		grade := r3.Vec{X: p.ContainRadius + 3, Y: 1.5, Z: lp.FeedNozzle.Z * 0.5}
		climb := lp.FeedNozzle
		climb.Y = 1.5
		climb = r3.Add(climb, r3.Scale(1.5, unitXZ(lp.FeedNozzle)))
		routes = append(routes, Route{
			Name:   fmt.Sprintf("feed-line-%d", i+1),
			Class:  ClassFeedwater,
			Loop:   i,
			Points: []r3.Vec{l.CondenserPos, grade, climb, lp.FeedNozzle},
		})
	}

	// Turbine crossover piping: HP exhaust through the MSR into each LP
	// stage. All three ends sit inside casings.
	routes = append(routes,
		Route{
			Name:   "crossover-hp-msr",
			Class:  ClassCrossover,
			Loop:   -1,
			Points: []r3.Vec{l.HPPos, above(midpoint(l.HPPos, l.MSRPos), 2), l.MSRPos},
		},
		Route{
			Name:   "crossover-msr-lp1",
			Class:  ClassCrossover,
			Loop:   -1,
			Points: []r3.Vec{l.MSRPos, above(midpoint(l.MSRPos, l.LP1Pos), 2.5), l.LP1Pos},
		},
		Route{
			Name:   "crossover-msr-lp2",
			Class:  ClassCrossover,
			Loop:   -1,
			Points: []r3.Vec{l.MSRPos, above(midpoint(l.MSRPos, l.LP2Pos), 3), l.LP2Pos},
		},
	)

	return routes
}

func midpoint(a, b r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(a, b))
}

func above(v r3.Vec, dy float64) r3.Vec {
	v.Y += dy
	return v
}
