// Package viz owns the visualization runtime: the ECS scene built from
// the plant layout, the per-frame animation driver, view-mode control,
// selection, and the render passes. The external simulation only ever
// hands it a plant.Snapshot once per frame.
package viz

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pwrviz/camera"
	"github.com/pthm-cable/pwrviz/components"
	"github.com/pthm-cable/pwrviz/config"
	"github.com/pthm-cable/pwrviz/layout"
	"github.com/pthm-cable/pwrviz/plant"
	"github.com/pthm-cable/pwrviz/scenario"
	"github.com/pthm-cable/pwrviz/telemetry"
	"github.com/pthm-cable/pwrviz/ui"
)

// Options configures app construction.
type Options struct {
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Script         *scenario.Script
}

// App holds the complete visualization state.
type App struct {
	world *ecs.World
	cfg   *config.Config
	lay   *layout.Layout

	// Archetype mappers for scene construction
	shellMapper    *ecs.Map6[components.Meta, components.Renderable, components.Shell, components.Glow, components.Pickable, components.Heat]
	casingMapper   *ecs.Map5[components.Meta, components.Renderable, components.Shell, components.Glow, components.Pickable]
	partMapper     *ecs.Map4[components.Meta, components.Renderable, components.Shell, components.Glow]
	rotorMapper    *ecs.Map3[components.Meta, components.Renderable, components.Rotor]
	pipeMapper     *ecs.Map2[components.Meta, components.Renderable]
	hotPipeMapper  *ecs.Map3[components.Meta, components.Renderable, components.Heat]
	interiorMapper *ecs.Map3[components.Meta, components.Renderable, components.Interior]
	coreMapper     *ecs.Map4[components.Meta, components.Renderable, components.Interior, components.PowerGlow]

	// Phase filters
	rotorFilter  *ecs.Filter2[components.Meta, components.Rotor]
	glowFilter   *ecs.Filter2[components.Meta, components.Glow]
	heatFilter   *ecs.Filter1[components.Heat]
	powerFilter  *ecs.Filter1[components.PowerGlow]
	renderFilter *ecs.Filter1[components.Renderable]

	// Component lookups for the write and draw phases
	renderMap *ecs.Map1[components.Renderable]
	metaMap   *ecs.Map1[components.Meta]
	heatMap   *ecs.Map1[components.Heat]
	glowMap   *ecs.Map1[components.Glow]
	powerMap  *ecs.Map1[components.PowerGlow]
	shellMap  *ecs.Map1[components.Shell]
	pickMap   *ecs.Map1[components.Pickable]
	rotorMap  *ecs.Map1[components.Rotor]

	// Draw ordering, fixed at build time
	opaque    []ecs.Entity
	shells    []ecs.Entity
	interior  []ecs.Entity
	pickables []ecs.Entity

	view *ViewController
	cam  *camera.Camera
	hud  *ui.HUD
	pan  *ui.Panel

	// External state tracked across frames
	snap     plant.Snapshot
	selected plant.ComponentID
	mode     plant.ViewMode
	paused   bool

	script      *scenario.Script
	simTime     float64
	frame       int64
	windowReady bool

	headless bool
	logStats bool

	stats *telemetry.Collector
	perf  *telemetry.PerfCollector
	out   *telemetry.OutputManager
}

// New builds the app: layout, geometry, scene entities, camera, UI, and
// telemetry. Model upload is skipped in headless mode; geometry is still
// generated so layout and mesh errors surface regardless.
func New(cfg *config.Config, opts Options) (*App, error) {
	lay, err := layout.New(cfg)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()

	a := &App{
		world:    world,
		cfg:      cfg,
		lay:      lay,
		headless: opts.Headless,
		logStats: opts.LogStats,
		script:   opts.Script,
		mode:     plant.ViewNormal,

		shellMapper:    ecs.NewMap6[components.Meta, components.Renderable, components.Shell, components.Glow, components.Pickable, components.Heat](world),
		casingMapper:   ecs.NewMap5[components.Meta, components.Renderable, components.Shell, components.Glow, components.Pickable](world),
		partMapper:     ecs.NewMap4[components.Meta, components.Renderable, components.Shell, components.Glow](world),
		rotorMapper:    ecs.NewMap3[components.Meta, components.Renderable, components.Rotor](world),
		pipeMapper:     ecs.NewMap2[components.Meta, components.Renderable](world),
		hotPipeMapper:  ecs.NewMap3[components.Meta, components.Renderable, components.Heat](world),
		interiorMapper: ecs.NewMap3[components.Meta, components.Renderable, components.Interior](world),
		coreMapper:     ecs.NewMap4[components.Meta, components.Renderable, components.Interior, components.PowerGlow](world),

		rotorFilter:  ecs.NewFilter2[components.Meta, components.Rotor](world),
		glowFilter:   ecs.NewFilter2[components.Meta, components.Glow](world),
		heatFilter:   ecs.NewFilter1[components.Heat](world),
		powerFilter:  ecs.NewFilter1[components.PowerGlow](world),
		renderFilter: ecs.NewFilter1[components.Renderable](world),

		renderMap: ecs.NewMap1[components.Renderable](world),
		metaMap:   ecs.NewMap1[components.Meta](world),
		heatMap:   ecs.NewMap1[components.Heat](world),
		glowMap:   ecs.NewMap1[components.Glow](world),
		powerMap:  ecs.NewMap1[components.PowerGlow](world),
		shellMap:  ecs.NewMap1[components.Shell](world),
		pickMap:   ecs.NewMap1[components.Pickable](world),
		rotorMap:  ecs.NewMap1[components.Rotor](world),
	}

	a.view = NewViewController(cfg)

	// Orbit center between the containment and the turbine hall
	p := &cfg.Plant
	a.cam = camera.New(p.TurbineOffset*0.4, p.ContainHeight*0.35, 0, p.TurbineOffset*1.6)

	if !a.headless {
		a.hud = ui.NewHUD()
		a.pan = ui.NewPanel(cfg)
	}

	if err := a.buildScene(); err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	a.stats = telemetry.NewCollector(statsWindow)
	a.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	a.out = om
	if err := a.out.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	slog.Info("scene built",
		"loops", len(lay.Loops),
		"routes", len(lay.Routes),
		"opaque", len(a.opaque),
		"shells", len(a.shells),
		"interior", len(a.interior),
		"headless", a.headless,
	)

	return a, nil
}

// Layout returns the computed plant layout.
func (a *App) Layout() *layout.Layout { return a.lay }

// Frame returns the number of frames driven so far.
func (a *App) Frame() int64 { return a.frame }

// SimTime returns accumulated scenario time in seconds.
func (a *App) SimTime() float64 { return a.simTime }

// Selected returns the currently selected component id.
func (a *App) Selected() plant.ComponentID { return a.selected }

// Mode returns the requested view mode.
func (a *App) Mode() plant.ViewMode { return a.mode }

// Close flushes telemetry output. GPU resources are owned by the raylib
// context and released when the window closes.
func (a *App) Close() error {
	if a.logStats {
		a.perf.Stats().LogStats()
	}
	return a.out.Close()
}
