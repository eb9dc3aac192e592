package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}
	if cfg.Plant.Loops != 4 {
		t.Errorf("plant.loops = %d, want 4", cfg.Plant.Loops)
	}
	if cfg.Derived.FixedDT <= 0 {
		t.Error("derived fixed dt not computed")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"zero loops", func(c *Config) { c.Plant.Loops = 0 }, "plant.loops"},
		{"negative vessel radius", func(c *Config) { c.Plant.VesselRadius = -1 }, "vessel_radius"},
		{"loop radius inside vessel", func(c *Config) { c.Plant.LoopRadius = 1 }, "loop_radius"},
		{"pipe radial segs", func(c *Config) { c.Pipes.Primary.RadialSegs = 2 }, "radial_segs"},
		{"rate above one", func(c *Config) { c.Anim.PumpRise = 1.5 }, "pump_rise"},
		{"opacity above one", func(c *Config) { c.View.XRayOpacity = 1.1 }, "xray_opacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mut(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
