// Package plant defines the shared domain types exchanged between the
// external simulation layer and the visualization: component identifiers,
// view modes, and the per-frame input snapshot.
package plant

import "fmt"

// ComponentID names one selectable plant component.
type ComponentID string

// Fixed component ids. Loop-indexed components append their 1-based loop
// number (e.g. "sg-1", "rcp-3").
const (
	IDNone        ComponentID = ""
	IDVessel      ComponentID = "vessel"
	IDContainment ComponentID = "containment"
	IDTurbineHP   ComponentID = "turbine-hp"
	IDTurbineLP1  ComponentID = "turbine-lp-1"
	IDTurbineLP2  ComponentID = "turbine-lp-2"
	IDMSR         ComponentID = "msr"
	IDGenerator   ComponentID = "generator"
	IDCondenser   ComponentID = "condenser"
)

// SGID returns the steam generator id for a 0-based loop index.
func SGID(loop int) ComponentID {
	return ComponentID(fmt.Sprintf("sg-%d", loop+1))
}

// RCPID returns the reactor coolant pump id for a 0-based loop index.
func RCPID(loop int) ComponentID {
	return ComponentID(fmt.Sprintf("rcp-%d", loop+1))
}

// ViewMode selects how the plant shells are rendered.
type ViewMode int

const (
	// ViewNormal renders all shells fully opaque.
	ViewNormal ViewMode = iota
	// ViewXRay renders shells near-transparent with wireframe overlays.
	ViewXRay
	// ViewSection is reserved for a cut-plane variant; it currently
	// renders like x-ray.
	ViewSection
	// ViewInterior hides exterior shells entirely and shows interior detail.
	ViewInterior

	numViewModes
)

// String returns the mode name.
func (m ViewMode) String() string {
	switch m {
	case ViewNormal:
		return "normal"
	case ViewXRay:
		return "x-ray"
	case ViewSection:
		return "section"
	case ViewInterior:
		return "interior"
	}
	return fmt.Sprintf("ViewMode(%d)", int(m))
}

// Valid reports whether m is one of the four defined modes.
func (m ViewMode) Valid() bool {
	return m >= ViewNormal && m < numViewModes
}

// Snapshot is the external state consumed once per frame. The frame
// driver treats it as immutable; values are clamped at construction so
// out-of-range simulation output never propagates as an error.
type Snapshot struct {
	Power       float64     // Normalized reactor power [0,1]
	Temperature float64     // Normalized core temperature [0,1]
	PumpOn      []bool      // Per-loop pump running flags
	Selected    ComponentID // Currently selected component, IDNone if none
	Mode        ViewMode    // Active view mode
}

// NewSnapshot builds a clamped snapshot from raw simulation output.
func NewSnapshot(power, temperature float64, pumpOn []bool, selected ComponentID, mode ViewMode) Snapshot {
	if !mode.Valid() {
		mode = ViewNormal
	}
	return Snapshot{
		Power:       Clamp01(power),
		Temperature: Clamp01(temperature),
		PumpOn:      pumpOn,
		Selected:    selected,
		Mode:        mode,
	}
}

// PumpRunning reports the pump flag for a loop, false when out of range.
func (s *Snapshot) PumpRunning(loop int) bool {
	if loop < 0 || loop >= len(s.PumpOn) {
		return false
	}
	return s.PumpOn[loop]
}

// Clamp01 restricts a value to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
