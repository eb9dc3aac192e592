package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(10)
	stats := p.Stats()

	if stats.AvgFrameDuration != 0 {
		t.Errorf("AvgFrameDuration = %v, want 0", stats.AvgFrameDuration)
	}
	if stats.FramesPerSecond != 0 {
		t.Errorf("FramesPerSecond = %v, want 0", stats.FramesPerSecond)
	}
	if len(stats.PhaseAvg) != 0 {
		t.Errorf("PhaseAvg has %d entries, want 0", len(stats.PhaseAvg))
	}
}

func TestPerfCollectorRecordsPhases(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartFrame()
	p.StartPhase(PhaseSnapshot)
	time.Sleep(time.Millisecond)
	p.StartPhase(PhaseAdvance)
	time.Sleep(time.Millisecond)
	p.EndFrame()

	stats := p.Stats()

	if stats.AvgFrameDuration < 2*time.Millisecond {
		t.Errorf("AvgFrameDuration = %v, want >= 2ms", stats.AvgFrameDuration)
	}
	if stats.PhaseAvg[PhaseSnapshot] < time.Millisecond {
		t.Errorf("snapshot phase = %v, want >= 1ms", stats.PhaseAvg[PhaseSnapshot])
	}
	if stats.PhaseAvg[PhaseAdvance] < time.Millisecond {
		t.Errorf("advance phase = %v, want >= 1ms", stats.PhaseAvg[PhaseAdvance])
	}
	if _, ok := stats.PhaseAvg[PhaseDraw]; ok {
		t.Error("draw phase recorded but never started")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p := NewPerfCollector(3)

	for i := 0; i < 5; i++ {
		p.StartFrame()
		p.StartPhase(PhaseAdvance)
		p.EndFrame()
	}

	if p.sampleCount != 3 {
		t.Errorf("sampleCount = %d, want 3 (window size)", p.sampleCount)
	}
}

func TestPerfStatsSortedPhases(t *testing.T) {
	stats := PerfStats{
		PhaseAvg: map[string]time.Duration{
			PhaseWrite:    time.Millisecond,
			PhaseAdvance:  time.Millisecond,
			PhaseSnapshot: time.Millisecond,
		},
	}

	names := stats.SortedPhases()
	want := []string{PhaseAdvance, PhaseSnapshot, PhaseWrite}
	if len(names) != len(want) {
		t.Fatalf("got %d phases, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgFrameDuration: 16 * time.Millisecond,
		MinFrameDuration: 14 * time.Millisecond,
		MaxFrameDuration: 20 * time.Millisecond,
		FramesPerSecond:  62.5,
		PhaseAvg: map[string]time.Duration{
			PhaseSnapshot: time.Millisecond,
			PhaseDraw:     10 * time.Millisecond,
		},
	}

	rec := stats.ToCSV(600)

	if rec.Frame != 600 {
		t.Errorf("Frame = %d, want 600", rec.Frame)
	}
	if rec.AvgFrameUs != 16000 {
		t.Errorf("AvgFrameUs = %d, want 16000", rec.AvgFrameUs)
	}
	if rec.SnapshotUs != 1000 {
		t.Errorf("SnapshotUs = %d, want 1000", rec.SnapshotUs)
	}
	if rec.DrawUs != 10000 {
		t.Errorf("DrawUs = %d, want 10000", rec.DrawUs)
	}
	if rec.AdvanceUs != 0 {
		t.Errorf("AdvanceUs = %d, want 0 for missing phase", rec.AdvanceUs)
	}
}
