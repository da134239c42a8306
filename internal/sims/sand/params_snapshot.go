package sand

import (
	"strconv"

	"sandgarden/internal/core"
)

// Parameters reports the world settings, the growth parameters applied to
// newly planted bushes, and live counters.
func (w *World) Parameters() core.ParameterSnapshot {
	bush := w.cfg.Bush
	growing := 0
	for _, b := range w.bushes {
		if b.Growing() {
			growing++
		}
	}
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.w),
				intParam("h", "Height", w.h),
				int64Param("seed", "Seed", w.cfg.Seed),
				{Key: "scene", Label: "Scene", Type: core.ParamTypeString, Value: w.sceneName()},
			},
		},
		{
			Name:    "Bush",
			Summary: "Applied to seeds that germinate after the change.",
			Params: []core.Parameter{
				intParam("root_size_min", "Root size min", bush.RootSizeMin),
				intParam("root_size_max", "Root size max", bush.RootSizeMax),
				floatParam("stop_chance", "Stop chance", bush.StopChance),
				intParam("growth_delay", "Growth delay", bush.GrowthDelay),
				intParam("max_buds", "Buds per cell", bush.MaxBuds),
			},
		},
		{
			Name: "Stats",
			Params: []core.Parameter{
				int64Param("ticks", "Ticks", int64(w.ticks)),
				intParam("bushes", "Bushes", len(w.bushes)),
				intParam("growing", "Growing", growing),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func (w *World) sceneName() string {
	if w.layout == nil {
		return "empty"
	}
	return w.layout.Name
}

// ParameterControls lists the HUD-adjustable growth parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "root_size_min", Label: "Root min", Type: core.ParamTypeInt, Step: 10, Min: 1, Max: rootSizeCap, HasMin: true, HasMax: true},
		{Key: "root_size_max", Label: "Root max", Type: core.ParamTypeInt, Step: 10, Min: 1, Max: rootSizeCap, HasMin: true, HasMax: true},
		{Key: "stop_chance", Label: "Stop chance", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "growth_delay", Label: "Growth delay", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 60, HasMin: true, HasMax: true},
		{Key: "max_buds", Label: "Buds", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: budsCap, HasMin: true, HasMax: true},
	}
}

func (w *World) control(key string) (core.ParameterControl, bool) {
	for _, c := range w.ParameterControls() {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

// SetIntParameter updates an integer growth parameter, clamped to its control
// bounds.
func (w *World) SetIntParameter(key string, value int) bool {
	ctrl, ok := w.control(key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	v := int(ctrl.Clamp(float64(value)))
	bush := &w.cfg.Bush
	switch key {
	case "root_size_min":
		bush.RootSizeMin = v
		if bush.RootSizeMax < v {
			bush.RootSizeMax = v
		}
	case "root_size_max":
		bush.RootSizeMax = v
		if bush.RootSizeMin > v {
			bush.RootSizeMin = v
		}
	case "growth_delay":
		bush.GrowthDelay = v
	case "max_buds":
		bush.MaxBuds = v
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point growth parameter.
func (w *World) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := w.control(key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	switch key {
	case "stop_chance":
		w.cfg.Bush.StopChance = ctrl.Clamp(value)
		return true
	}
	return false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
