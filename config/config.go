// Package config provides configuration loading and access for the visualization.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all visualization configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Plant     PlantConfig     `yaml:"plant"`
	Pipes     PipesConfig     `yaml:"pipes"`
	Anim      AnimConfig      `yaml:"anim"`
	View      ViewConfig      `yaml:"view"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PlantConfig holds the static layout constants for the plant.
// Every position the layout registry produces is a pure function of these.
type PlantConfig struct {
	Loops          int     `yaml:"loops"`           // Number of primary coolant loops
	LoopOffsetDeg  float64 `yaml:"loop_offset_deg"` // Angular offset of loop 1 from +X axis
	LoopRadius     float64 `yaml:"loop_radius"`     // Distance from vessel center to SG center
	PumpRadius     float64 `yaml:"pump_radius"`     // Distance from vessel center to pump center
	PumpSwingDeg   float64 `yaml:"pump_swing_deg"`  // Angular offset of pump from its loop axis
	VesselRadius   float64 `yaml:"vessel_radius"`   // Reactor vessel outer radius
	VesselHeight   float64 `yaml:"vessel_height"`   // Reactor vessel height
	SGRadius       float64 `yaml:"sg_radius"`       // Steam generator shell radius
	SGHeight       float64 `yaml:"sg_height"`       // Steam generator shell height
	RCPRadius      float64 `yaml:"rcp_radius"`      // Coolant pump casing radius
	RCPHeight      float64 `yaml:"rcp_height"`      // Coolant pump casing height
	HotLegHeight   float64 `yaml:"hot_leg_height"`  // Height of hot-leg nozzles on the vessel
	ColdLegHeight  float64 `yaml:"cold_leg_height"` // Height of cold-leg nozzles on the vessel
	SteamHeight    float64 `yaml:"steam_height"`    // Height of steam nozzles on the SG domes
	FeedHeight     float64 `yaml:"feed_height"`     // Height of feedwater nozzles on the SG shells
	ContainRadius  float64 `yaml:"contain_radius"`  // Containment shell radius
	ContainHeight  float64 `yaml:"contain_height"`  // Containment cylinder height (dome excluded)
	TurbineOffset  float64 `yaml:"turbine_offset"`  // X distance from vessel center to turbine hall
	TurbineSpacing float64 `yaml:"turbine_spacing"` // Spacing between turbine stages along the shaft
	TurbineRadius  float64 `yaml:"turbine_radius"`  // HP turbine casing radius (LP stages scale up)
	CondenserDrop  float64 `yaml:"condenser_drop"`  // Vertical drop from LP turbines to the condenser
}

// PipeClassConfig holds tube parameters for one class of piping.
type PipeClassConfig struct {
	Radius      float64 `yaml:"radius"`        // Tube radius
	RadialSegs  int     `yaml:"radial_segs"`   // Vertices per ring
	SegsPerSpan int     `yaml:"segs_per_span"` // Longitudinal segments per control-point span
}

// PipesConfig holds tube parameters per route class.
type PipesConfig struct {
	Primary   PipeClassConfig `yaml:"primary"`   // Hot/cold legs and crossover leg
	Steam     PipeClassConfig `yaml:"steam"`     // Main steam lines
	Feedwater PipeClassConfig `yaml:"feedwater"` // Feedwater lines
	Crossover PipeClassConfig `yaml:"crossover"` // Turbine crossover piping via the MSR
}

// AnimConfig holds interpolation rates and targets for all animated values.
// Rates are the fraction of remaining distance closed per reference frame (1/60 s).
type AnimConfig struct {
	PumpMaxSpeed  float64 `yaml:"pump_max_speed"` // Impeller speed at full flow (rad/s)
	PumpRise      float64 `yaml:"pump_rise"`      // Spin-up rate (under power)
	PumpFall      float64 `yaml:"pump_fall"`      // Coast-down rate (no power)
	TurbineFactor float64 `yaml:"turbine_factor"` // Turbine shaft speed per unit power (rad/s)
	HighlightPeak float64 `yaml:"highlight_peak"` // Selection emissive peak intensity
	HighlightRate float64 `yaml:"highlight_rate"` // Selection rise/fall rate (symmetric)
	HeatRate      float64 `yaml:"heat_rate"`      // Temperature color blend rate
	GlowRate      float64 `yaml:"glow_rate"`      // Core power glow rate
	ViewRate      float64 `yaml:"view_rate"`      // View-mode opacity blend rate
	SnapEpsilon   float64 `yaml:"snap_epsilon"`   // Close-enough threshold for hard snaps
}

// ViewConfig holds the opacity target per view mode and the depth-write rule.
type ViewConfig struct {
	NormalOpacity   float64 `yaml:"normal_opacity"`
	XRayOpacity     float64 `yaml:"xray_opacity"`
	SectionOpacity  float64 `yaml:"section_opacity"`
	InteriorOpacity float64 `yaml:"interior_opacity"`
	DepthThreshold  float64 `yaml:"depth_threshold"` // Below this opacity, shells stop writing depth
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames in the perf rolling window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FixedDT   float64 // 1/TargetFPS, the headless step size
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects malformed layout and animation constants.
// Errors here are fatal at startup; nothing downstream re-checks them.
func (c *Config) Validate() error {
	p := &c.Plant
	if p.Loops < 1 {
		return fmt.Errorf("config: plant.loops must be >= 1, got %d", p.Loops)
	}
	for name, v := range map[string]float64{
		"plant.loop_radius":    p.LoopRadius,
		"plant.pump_radius":    p.PumpRadius,
		"plant.vessel_radius":  p.VesselRadius,
		"plant.vessel_height":  p.VesselHeight,
		"plant.sg_radius":      p.SGRadius,
		"plant.sg_height":      p.SGHeight,
		"plant.rcp_radius":     p.RCPRadius,
		"plant.rcp_height":     p.RCPHeight,
		"plant.contain_radius": p.ContainRadius,
		"plant.contain_height": p.ContainHeight,
		"plant.turbine_radius": p.TurbineRadius,
	} {
		if v <= 0 {
			return fmt.Errorf("config: %s must be positive, got %g", name, v)
		}
	}
	if p.LoopRadius <= p.VesselRadius {
		return fmt.Errorf("config: plant.loop_radius (%g) must exceed plant.vessel_radius (%g)",
			p.LoopRadius, p.VesselRadius)
	}
	for name, pc := range map[string]PipeClassConfig{
		"pipes.primary":   c.Pipes.Primary,
		"pipes.steam":     c.Pipes.Steam,
		"pipes.feedwater": c.Pipes.Feedwater,
		"pipes.crossover": c.Pipes.Crossover,
	} {
		if pc.Radius <= 0 {
			return fmt.Errorf("config: %s.radius must be positive, got %g", name, pc.Radius)
		}
		if pc.RadialSegs < 3 {
			return fmt.Errorf("config: %s.radial_segs must be >= 3, got %d", name, pc.RadialSegs)
		}
		if pc.SegsPerSpan < 1 {
			return fmt.Errorf("config: %s.segs_per_span must be >= 1, got %d", name, pc.SegsPerSpan)
		}
	}
	for name, r := range map[string]float64{
		"anim.pump_rise":      c.Anim.PumpRise,
		"anim.pump_fall":      c.Anim.PumpFall,
		"anim.highlight_rate": c.Anim.HighlightRate,
		"anim.heat_rate":      c.Anim.HeatRate,
		"anim.glow_rate":      c.Anim.GlowRate,
		"anim.view_rate":      c.Anim.ViewRate,
	} {
		if r <= 0 || r > 1 {
			return fmt.Errorf("config: %s must be in (0, 1], got %g", name, r)
		}
	}
	if c.Anim.PumpMaxSpeed <= 0 {
		return fmt.Errorf("config: anim.pump_max_speed must be positive, got %g", c.Anim.PumpMaxSpeed)
	}
	for name, op := range map[string]float64{
		"view.normal_opacity":   c.View.NormalOpacity,
		"view.xray_opacity":     c.View.XRayOpacity,
		"view.section_opacity":  c.View.SectionOpacity,
		"view.interior_opacity": c.View.InteriorOpacity,
	} {
		if op < 0 || op > 1 {
			return fmt.Errorf("config: %s must be in [0, 1], got %g", name, op)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FixedDT = 1.0 / float64(fps)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
