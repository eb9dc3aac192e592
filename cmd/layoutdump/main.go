// Package main dumps the computed plant layout as CSV: one file of
// component anchors and one of route control points. Useful for checking
// layout changes without starting the renderer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/pwrviz/config"
	"github.com/pthm-cable/pwrviz/layout"
)

// AnchorRow is one named anchor position.
type AnchorRow struct {
	Loop   int     `csv:"loop"`
	Anchor string  `csv:"anchor"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Z      float64 `csv:"z"`
}

// RouteRow is one control point of one route.
type RouteRow struct {
	Route string  `csv:"route"`
	Class string  `csv:"class"`
	Loop  int     `csv:"loop"`
	Point int     `csv:"point"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	Z     float64 `csv:"z"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output", ".", "Output directory for CSV files")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	lay, err := layout.New(cfg)
	if err != nil {
		log.Fatalf("computing layout: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	if err := writeAnchors(lay, filepath.Join(*outputDir, "anchors.csv")); err != nil {
		log.Fatalf("writing anchors: %v", err)
	}
	if err := writeRoutes(lay, filepath.Join(*outputDir, "routes.csv")); err != nil {
		log.Fatalf("writing routes: %v", err)
	}

	fmt.Printf("wrote %d loops, %d routes to %s\n", len(lay.Loops), len(lay.Routes), *outputDir)
}

func writeAnchors(lay *layout.Layout, path string) error {
	var rows []AnchorRow
	add := func(loop int, name string, x, y, z float64) {
		rows = append(rows, AnchorRow{Loop: loop, Anchor: name, X: x, Y: y, Z: z})
	}

	for i := range lay.Loops {
		lp := &lay.Loops[i]
		add(i, "sg", lp.SGPos.X, lp.SGPos.Y, lp.SGPos.Z)
		add(i, "pump", lp.PumpPos.X, lp.PumpPos.Y, lp.PumpPos.Z)
		add(i, "hot_nozzle", lp.HotNozzle.X, lp.HotNozzle.Y, lp.HotNozzle.Z)
		add(i, "sg_inlet", lp.SGInlet.X, lp.SGInlet.Y, lp.SGInlet.Z)
		add(i, "sg_outlet", lp.SGOutlet.X, lp.SGOutlet.Y, lp.SGOutlet.Z)
		add(i, "pump_suction", lp.PumpSuction.X, lp.PumpSuction.Y, lp.PumpSuction.Z)
		add(i, "pump_outlet", lp.PumpOutlet.X, lp.PumpOutlet.Y, lp.PumpOutlet.Z)
		add(i, "cold_nozzle", lp.ColdNozzle.X, lp.ColdNozzle.Y, lp.ColdNozzle.Z)
		add(i, "steam_nozzle", lp.SteamNozzle.X, lp.SteamNozzle.Y, lp.SteamNozzle.Z)
		add(i, "feed_nozzle", lp.FeedNozzle.X, lp.FeedNozzle.Y, lp.FeedNozzle.Z)
	}
	add(-1, "hp_turbine", lay.HPPos.X, lay.HPPos.Y, lay.HPPos.Z)
	add(-1, "msr", lay.MSRPos.X, lay.MSRPos.Y, lay.MSRPos.Z)
	add(-1, "lp1_turbine", lay.LP1Pos.X, lay.LP1Pos.Y, lay.LP1Pos.Z)
	add(-1, "lp2_turbine", lay.LP2Pos.X, lay.LP2Pos.Y, lay.LP2Pos.Z)
	add(-1, "generator", lay.GeneratorPos.X, lay.GeneratorPos.Y, lay.GeneratorPos.Z)
	add(-1, "condenser", lay.CondenserPos.X, lay.CondenserPos.Y, lay.CondenserPos.Z)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}

func writeRoutes(lay *layout.Layout, path string) error {
	var rows []RouteRow
	for ri := range lay.Routes {
		rt := &lay.Routes[ri]
		for pi, pt := range rt.Points {
			rows = append(rows, RouteRow{
				Route: rt.Name,
				Class: rt.Class.String(),
				Loop:  rt.Loop,
				Point: pi,
				X:     pt.X, Y: pt.Y, Z: pt.Z,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}
