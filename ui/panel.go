package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pwrviz/config"
	"github.com/pthm-cable/pwrviz/plant"
)

const (
	panelWidth  = 240
	rowHeight   = 26
	rowGap      = 6
	panelMargin = 10
)

// Panel is the raygui control panel. When Manual is checked its sliders
// and checkboxes replace the scenario script as the external state
// source; the app reads the public fields after Draw each frame.
type Panel struct {
	Manual      bool
	Power       float32
	Temperature float32
	Pumps       []bool

	visible     bool
	mode        int32
	resetCamera bool
	bounds      rl.Rectangle
}

// NewPanel creates the panel sized for the configured loop count.
func NewPanel(cfg *config.Config) *Panel {
	p := &Panel{
		Pumps: make([]bool, cfg.Plant.Loops),
	}
	rows := 6 + cfg.Plant.Loops
	p.bounds = rl.Rectangle{
		X:      panelMargin,
		Y:      110,
		Width:  panelWidth,
		Height: float32(rows*(rowHeight+rowGap) + 40),
	}
	return p
}

// Toggle flips panel visibility.
func (p *Panel) Toggle() { p.visible = !p.visible }

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool { return p.visible }

// Hovered reports whether the mouse is over the panel, so clicks on
// widgets do not fall through into 3D picking.
func (p *Panel) Hovered(mouse rl.Vector2) bool {
	return p.visible && rl.CheckCollisionPointRec(mouse, p.bounds)
}

// Mode returns the view mode chosen in the panel's toggle group.
func (p *Panel) Mode() plant.ViewMode { return plant.ViewMode(p.mode) }

// SetMode syncs the toggle group to an externally chosen mode.
func (p *Panel) SetMode(m plant.ViewMode) { p.mode = int32(m) }

// TakeResetCamera returns and clears the reset-camera request.
func (p *Panel) TakeResetCamera() bool {
	r := p.resetCamera
	p.resetCamera = false
	return r
}

// Draw renders the panel widgets and captures their new values.
func (p *Panel) Draw() {
	if !p.visible {
		return
	}

	gui.Panel(p.bounds, "Controls")

	x := p.bounds.X + 10
	w := p.bounds.Width - 20
	y := p.bounds.Y + 30

	p.mode = gui.ToggleGroup(
		rl.Rectangle{X: x, Y: y, Width: (w - 6) / 4, Height: rowHeight},
		"NORM;XRAY;SECT;INT", p.mode,
	)
	y += rowHeight + rowGap

	p.Manual = gui.CheckBox(
		rl.Rectangle{X: x, Y: y, Width: rowHeight - 6, Height: rowHeight - 6},
		"Manual override", p.Manual,
	)
	y += rowHeight + rowGap

	p.Power = gui.SliderBar(
		rl.Rectangle{X: x + 50, Y: y, Width: w - 90, Height: rowHeight - 6},
		"Power", fmt.Sprintf("%.2f", p.Power), p.Power, 0, 1,
	)
	y += rowHeight + rowGap

	p.Temperature = gui.SliderBar(
		rl.Rectangle{X: x + 50, Y: y, Width: w - 90, Height: rowHeight - 6},
		"Temp", fmt.Sprintf("%.2f", p.Temperature), p.Temperature, 0, 1,
	)
	y += rowHeight + rowGap

	for i := range p.Pumps {
		p.Pumps[i] = gui.CheckBox(
			rl.Rectangle{X: x, Y: y, Width: rowHeight - 6, Height: rowHeight - 6},
			fmt.Sprintf("Pump %d", i+1), p.Pumps[i],
		)
		y += rowHeight + rowGap
	}

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: rowHeight}, "Reset Camera") {
		p.resetCamera = true
	}
}
