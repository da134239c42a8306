package ui

import (
	"image"
	"math"
	"strconv"

	"sandgarden/internal/core"
)

type controlState struct {
	control core.ParameterControl
	value   string

	intValue   int
	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// controlSet tracks the HUD-adjustable parameters of one simulation.
type controlSet struct {
	states      []controlState
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
}

func newControlSet(sim any) *controlSet {
	cs := &controlSet{}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		cs.states = make([]controlState, len(controls))
		for i, ctrl := range controls {
			cs.states[i] = controlState{control: ctrl, value: "--"}
		}
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		cs.intSetter = setter
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		cs.floatSetter = setter
	}
	return cs
}

func (cs *controlSet) refresh(snap core.ParameterSnapshot) {
	for i := range cs.states {
		state := &cs.states[i]
		state.hasValue = false
		state.value = "--"
		param, ok := snap.Find(state.control.Key)
		if !ok {
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(param.Value)
			if err != nil {
				continue
			}
			state.intValue = parsed
			state.floatValue = float64(parsed)
			state.value = strconv.Itoa(parsed)
			state.hasValue = true
		case core.ParamTypeFloat:
			parsed, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				continue
			}
			state.floatValue = parsed
			state.value = formatFloat(state.control, parsed)
			state.hasValue = true
		}
	}
}

func (cs *controlSet) layout(width int) {
	for i := range cs.states {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		cs.states[i].top = top
		cs.states[i].minusRect = minusRect
		cs.states[i].plusRect = plusRect
	}
}

// click applies the button under (x, y), in panel coordinates.
func (cs *controlSet) click(x, y int) bool {
	for i := range cs.states {
		state := &cs.states[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(x, y, state.minusRect) {
			return cs.adjust(state, -1)
		}
		if pointInRect(x, y, state.plusRect) {
			return cs.adjust(state, 1)
		}
	}
	return false
}

// target returns the value one step in direction, clamped to the control's
// bounds.
func (s *controlState) target(direction int) float64 {
	ctrl := s.control
	if ctrl.Type == core.ParamTypeInt {
		step := int(math.Round(ctrl.Step))
		if step <= 0 {
			step = 1
		}
		v := s.intValue + direction*step
		if ctrl.HasMin {
			v = max(v, int(math.Round(ctrl.Min)))
		}
		if ctrl.HasMax {
			v = min(v, int(math.Round(ctrl.Max)))
		}
		return float64(v)
	}
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	return ctrl.Clamp(s.floatValue + float64(direction)*step)
}

func (cs *controlSet) canAdjust(state *controlState, direction int) bool {
	if state == nil || direction == 0 || !state.hasValue {
		return false
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		return cs.intSetter != nil && int(state.target(direction)) != state.intValue
	case core.ParamTypeFloat:
		return cs.floatSetter != nil && math.Abs(state.target(direction)-state.floatValue) >= 1e-9
	}
	return false
}

func (cs *controlSet) adjust(state *controlState, direction int) bool {
	if !cs.canAdjust(state, direction) {
		return false
	}
	target := state.target(direction)
	switch state.control.Type {
	case core.ParamTypeInt:
		v := int(target)
		if !cs.intSetter.SetIntParameter(state.control.Key, v) {
			return false
		}
		state.intValue = v
		state.floatValue = target
		state.value = strconv.Itoa(v)
	case core.ParamTypeFloat:
		if !cs.floatSetter.SetFloatParameter(state.control.Key, target) {
			return false
		}
		state.floatValue = target
		state.value = formatFloat(state.control, target)
	}
	return true
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 18
	controlsTop    = panelPadding + headerBaseline + 14
)
