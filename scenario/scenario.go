// Package scenario supplies the external state the visualization tracks.
// It stands in for the plant simulator: a keyframed script of power,
// temperature, and pump flags sampled once per frame. The viz layer only
// ever sees the sampled snapshot values, never the script.
package scenario

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/pwrviz/plant"
)

//go:embed startup.yaml
var defaultScriptYAML []byte

// Keyframe is one scripted plant state at a point in time. Continuous
// channels interpolate linearly toward the next keyframe; pump flags
// hold until the next keyframe is reached.
type Keyframe struct {
	Time        float64 `yaml:"time"`
	Power       float64 `yaml:"power"`
	Temperature float64 `yaml:"temperature"`
	Pumps       []bool  `yaml:"pumps"`
}

// Script is a timed sequence of plant states.
type Script struct {
	Name      string     `yaml:"name"`
	Loop      bool       `yaml:"loop"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Load reads a script from a YAML file, or the embedded startup sequence
// if path is empty.
func Load(path string) (*Script, error) {
	data := defaultScriptYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading scenario file: %w", err)
		}
		data = b
	}

	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) validate() error {
	if len(s.Keyframes) == 0 {
		return fmt.Errorf("scenario %q has no keyframes", s.Name)
	}
	for i := 1; i < len(s.Keyframes); i++ {
		if s.Keyframes[i].Time < s.Keyframes[i-1].Time {
			return fmt.Errorf("scenario %q: keyframe %d time %g before keyframe %d time %g",
				s.Name, i, s.Keyframes[i].Time, i-1, s.Keyframes[i-1].Time)
		}
	}
	return nil
}

// Duration returns the time of the last keyframe.
func (s *Script) Duration() float64 {
	return s.Keyframes[len(s.Keyframes)-1].Time
}

// Sample evaluates the script at time t. Looping scripts wrap; otherwise
// the last keyframe holds. Values are clamped on the way out so a sloppy
// script never feeds out-of-range numbers downstream.
func (s *Script) Sample(t float64) (power, temperature float64, pumps []bool) {
	dur := s.Duration()
	if s.Loop && dur > 0 {
		t = math.Mod(t, dur)
		if t < 0 {
			t += dur
		}
	}

	kfs := s.Keyframes
	if t <= kfs[0].Time {
		k := kfs[0]
		return plant.Clamp01(k.Power), plant.Clamp01(k.Temperature), k.Pumps
	}
	if t >= dur {
		k := kfs[len(kfs)-1]
		return plant.Clamp01(k.Power), plant.Clamp01(k.Temperature), k.Pumps
	}

	// Find the surrounding keyframe pair
	hi := 1
	for kfs[hi].Time < t {
		hi++
	}
	a, b := kfs[hi-1], kfs[hi]

	frac := 0.0
	if span := b.Time - a.Time; span > 0 {
		frac = (t - a.Time) / span
	}
	power = plant.Clamp01(a.Power + (b.Power-a.Power)*frac)
	temperature = plant.Clamp01(a.Temperature + (b.Temperature-a.Temperature)*frac)
	return power, temperature, a.Pumps
}
