// Package ui renders the 2D overlay: the HUD strip, the selected
// component card, and the raygui control panel with manual overrides.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Mode         string
	Power        float64
	Temperature  float64
	PumpsOn      int
	Loops        int
	SimTime      float64
	FPS          int32
	Paused       bool
	ScreenHeight int32
}

// InfoData describes the selected component for the info card.
type InfoData struct {
	ID        string
	Name      string
	Loop      int
	Highlight float64
	Heat      float64
	HasHeat   bool
	Speed     float64
	HasSpeed  bool
}

// HUD renders the heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD strip and the control legend.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText("PWR Plant", 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Power: %3.0f%% | Temp: %3.0f%% | Pumps: %d/%d",
			data.Power*100, data.Temperature*100, data.PumpsOn, data.Loops),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("View: %s | T+%.1fs | FPS: %d", data.Mode, data.SimTime, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}

	rl.DrawText(
		"[1-4] view  [LMB] select  [RMB] orbit  [MMB] pan  [wheel] zoom  [R] reset cam  [Tab] panel  [Space] pause",
		10, data.ScreenHeight-25, 14, rl.Gray,
	)
}

// DrawInfoCard renders the selected component card in the top-right corner.
func (h *HUD) DrawInfoCard(data InfoData, screenWidth int32) {
	const cardWidth = 230
	x := screenWidth - cardWidth - 10
	y := int32(10)

	lines := int32(3)
	if data.HasHeat {
		lines++
	}
	if data.HasSpeed {
		lines++
	}
	height := lines*20 + 16

	rl.DrawRectangle(x, y, cardWidth, height, rl.Color{R: 20, G: 24, B: 30, A: 220})
	rl.DrawRectangleLines(x, y, cardWidth, height, rl.Color{R: 90, G: 100, B: 110, A: 255})

	tx := x + 10
	ty := y + 8
	rl.DrawText(data.Name, tx, ty, 16, rl.White)
	ty += 20
	loc := "shared"
	if data.Loop >= 0 {
		loc = fmt.Sprintf("loop %d", data.Loop+1)
	}
	rl.DrawText(fmt.Sprintf("%s (%s)", data.ID, loc), tx, ty, 14, rl.LightGray)
	ty += 20
	rl.DrawText(fmt.Sprintf("highlight: %.2f", data.Highlight), tx, ty, 14, rl.LightGray)
	ty += 20
	if data.HasHeat {
		rl.DrawText(fmt.Sprintf("heat blend: %.2f", data.Heat), tx, ty, 14, rl.LightGray)
		ty += 20
	}
	if data.HasSpeed {
		rl.DrawText(fmt.Sprintf("rotor: %.2f rad/s", data.Speed), tx, ty, 14, rl.LightGray)
	}
}
