// Package telemetry tracks frame timing and animation state statistics
// for the visualization, with CSV output for headless soak runs.
package telemetry

import (
	"log/slog"
	"sort"
	"time"
)

// Phase names for the frame driver.
const (
	PhaseSnapshot = "snapshot" // sample external state
	PhaseTargets  = "targets"  // push targets into animated values
	PhaseAdvance  = "advance"  // advance all animated values
	PhaseWrite    = "write"    // write values into materials/transforms
	PhaseDraw     = "draw"     // render passes
)

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over (e.g., 120 for 2 s at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Phase breakdown (average durations) and percentages of frame time
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	FramesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, min, max time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		if i == 0 || s.FrameDuration < min {
			min = s.FrameDuration
		}
		if s.FrameDuration > max {
			max = s.FrameDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var fps float64
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgFrameDuration: avg,
		MinFrameDuration: min,
		MaxFrameDuration: max,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		FramesPerSecond:  fps,
	}
}

// SortedPhases returns phase names in alphabetical order for stable output.
func (s PerfStats) SortedPhases() []string {
	names := make([]string, 0, len(s.PhaseAvg))
	for name := range s.PhaseAvg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LogStats logs performance statistics via slog.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"fps", int(s.FramesPerSecond),
	}
	for _, name := range s.SortedPhases() {
		attrs = append(attrs, "phase_"+name+"_us", s.PhaseAvg[name].Microseconds())
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is the flattened CSV record for a perf window.
type PerfStatsCSV struct {
	Frame      int64   `csv:"frame"`
	AvgFrameUs int64   `csv:"avg_frame_us"`
	MinFrameUs int64   `csv:"min_frame_us"`
	MaxFrameUs int64   `csv:"max_frame_us"`
	FPS        float64 `csv:"fps"`
	SnapshotUs int64   `csv:"snapshot_us"`
	TargetsUs  int64   `csv:"targets_us"`
	AdvanceUs  int64   `csv:"advance_us"`
	WriteUs    int64   `csv:"write_us"`
	DrawUs     int64   `csv:"draw_us"`
}

// ToCSV flattens the stats for CSV output at the given frame number.
func (s PerfStats) ToCSV(frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:      frame,
		AvgFrameUs: s.AvgFrameDuration.Microseconds(),
		MinFrameUs: s.MinFrameDuration.Microseconds(),
		MaxFrameUs: s.MaxFrameDuration.Microseconds(),
		FPS:        s.FramesPerSecond,
		SnapshotUs: s.PhaseAvg[PhaseSnapshot].Microseconds(),
		TargetsUs:  s.PhaseAvg[PhaseTargets].Microseconds(),
		AdvanceUs:  s.PhaseAvg[PhaseAdvance].Microseconds(),
		WriteUs:    s.PhaseAvg[PhaseWrite].Microseconds(),
		DrawUs:     s.PhaseAvg[PhaseDraw].Microseconds(),
	}
}
