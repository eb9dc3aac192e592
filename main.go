package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pwrviz/config"
	"github.com/pthm-cable/pwrviz/scenario"
	"github.com/pthm-cable/pwrviz/viz"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Path to scenario YAML (empty = embedded startup script)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output telemetry windows via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	script, err := scenario.Load(*scenarioPath)
	if err != nil {
		slog.Error("failed to load scenario", "error", err)
		os.Exit(1)
	}

	opts := viz.Options{
		Headless:       *headless,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Script:         script,
	}

	if *headless {
		app, err := viz.New(cfg, opts)
		if err != nil {
			slog.Error("failed to build visualization", "error", err)
			os.Exit(1)
		}
		defer app.Close()

		slog.Info("starting headless run",
			"scenario", script.Name,
			"duration", script.Duration(),
			"max_frames", *maxFrames,
		)

		for {
			app.UpdateHeadless()

			if *maxFrames > 0 && int(app.Frame()) >= *maxFrames {
				slog.Info("max frames reached", "frame", app.Frame())
				return
			}
		}
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "PWR Plant Visualization")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	app, err := viz.New(cfg, opts)
	if err != nil {
		slog.Error("failed to build visualization", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()

		if *maxFrames > 0 && int(app.Frame()) >= *maxFrames {
			break
		}
	}
}
