package anim

// Gradient3 is a three-stop piecewise color gradient over [0, 1] with the
// breakpoint at 0.5: inputs below it blend Low->Mid, above it Mid->High.
// The mapping is continuous at the breakpoint and returns Low at 0 and
// High at 1 exactly.
type Gradient3 struct {
	Low, Mid, High RGB
}

// At returns the gradient color for v, clamped to [0, 1].
func (g Gradient3) At(v float64) RGB {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	if v < 0.5 {
		return g.Low.Lerp(g.Mid, v*2)
	}
	return g.Mid.Lerp(g.High, (v-0.5)*2)
}

// HeatGradient maps normalized coolant temperature to hull color:
// cool steel blue through warm amber to hot orange-red.
var HeatGradient = Gradient3{
	Low:  RGB{R: 0.28, G: 0.38, B: 0.52},
	Mid:  RGB{R: 0.75, G: 0.45, B: 0.18},
	High: RGB{R: 0.92, G: 0.22, B: 0.08},
}

// PowerGradient maps normalized reactor power to core glow color:
// dark cherenkov blue up to a bright blue-white.
var PowerGradient = Gradient3{
	Low:  RGB{R: 0.02, G: 0.05, B: 0.14},
	Mid:  RGB{R: 0.10, G: 0.35, B: 0.85},
	High: RGB{R: 0.55, G: 0.80, B: 1.0},
}
