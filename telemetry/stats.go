package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// WindowStats holds aggregated animation-state statistics for a time
// window of frames, written to telemetry.csv in headless runs.
type WindowStats struct {
	WindowEndFrame int64   `csv:"window_end"`
	SimTimeSec     float64 `csv:"sim_time"`

	// External inputs at window end
	Power       float64 `csv:"power"`
	Temperature float64 `csv:"temperature"`
	PumpsOn     int     `csv:"pumps_on"`

	// Animated state distribution over the window
	PumpSpeedMean float64 `csv:"pump_speed_mean"`
	PumpSpeedP10  float64 `csv:"pump_speed_p10"`
	PumpSpeedP50  float64 `csv:"pump_speed_p50"`
	PumpSpeedP90  float64 `csv:"pump_speed_p90"`

	ShellOpacity   float64 `csv:"shell_opacity"`
	HighlightLevel float64 `csv:"highlight_level"`
	ViewMode       string  `csv:"view_mode"`
}

// Log writes the window stats via slog.
func (w WindowStats) Log() {
	slog.Info("telemetry",
		"frame", w.WindowEndFrame,
		"sim_time", w.SimTimeSec,
		"power", w.Power,
		"temperature", w.Temperature,
		"pumps_on", w.PumpsOn,
		"pump_speed_mean", w.PumpSpeedMean,
		"shell_opacity", w.ShellOpacity,
		"view_mode", w.ViewMode,
	)
}

// Collector accumulates per-frame samples and produces WindowStats when a
// window elapses.
type Collector struct {
	windowSec float64

	windowStart float64
	simTime     float64
	frame       int64

	pumpSpeeds []float64
}

// NewCollector creates a stats collector with the given window length in
// seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 2.0
	}
	return &Collector{windowSec: windowSec}
}

// RecordFrame accumulates one frame's pump speeds and advances the clock.
// It returns true when the current window has elapsed; the caller then
// builds a WindowStats via Flush.
func (c *Collector) RecordFrame(dt float64, pumpSpeeds []float64) bool {
	c.simTime += dt
	c.frame++
	c.pumpSpeeds = append(c.pumpSpeeds, pumpSpeeds...)
	return c.simTime-c.windowStart >= c.windowSec
}

// Frame returns the number of frames recorded so far.
func (c *Collector) Frame() int64 { return c.frame }

// SimTime returns accumulated simulation time in seconds.
func (c *Collector) SimTime() float64 { return c.simTime }

// Flush computes the window stats, fills in the caller-supplied snapshot
// fields, and starts a new window.
func (c *Collector) Flush(stats WindowStats) WindowStats {
	sorted := append([]float64(nil), c.pumpSpeeds...)
	sort.Float64s(sorted)

	stats.WindowEndFrame = c.frame
	stats.SimTimeSec = c.simTime
	stats.PumpSpeedMean = mean(sorted)
	stats.PumpSpeedP10 = Percentile(sorted, 0.1)
	stats.PumpSpeedP50 = Percentile(sorted, 0.5)
	stats.PumpSpeedP90 = Percentile(sorted, 0.9)

	c.pumpSpeeds = c.pumpSpeeds[:0]
	c.windowStart = c.simTime
	return stats
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
