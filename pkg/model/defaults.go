package model

import (
	"github.com/matzehuels/chartcore/pkg/option"
)

// =============================================================================
// Component defaults
// =============================================================================

func defaultAxisType(mainType string) string {
	switch mainType {
	case TypeXAxis, TypeAngleAxis:
		return "category"
	case TypeRadiusAxis, TypeYAxis, TypeParallelAxis, TypeSingleAxis:
		return "value"
	}
	return "value"
}

func axisDefaults(subType string) *option.Map {
	m := option.MapOf(
		"show", true,
		"inverse", false,
		"splitNumber", 5.0,
	)
	switch subType {
	case "category":
		m.Set("boundaryGap", true)
		m.Set("deduplication", true)
	case "time", "value", "log":
		m.Set("boundaryGap", []any{0.0, 0.0})
		m.Set("scale", false)
	}
	if subType == "log" {
		m.Set("logBase", 10.0)
	}
	return m
}

func componentDefaults(mainType, subType string) *option.Map {
	switch mainType {
	case TypeXAxis, TypeYAxis:
		m := axisDefaults(subType)
		m.Set("gridIndex", 0.0)
		m.Set("offset", 0.0)
		return m
	case TypeRadiusAxis, TypeAngleAxis:
		m := axisDefaults(subType)
		m.Set("polarIndex", 0.0)
		if mainType == TypeAngleAxis {
			m.Set("startAngle", 90.0)
			m.Set("clockwise", true)
		}
		return m
	case TypeParallelAxis:
		m := axisDefaults(subType)
		m.Set("parallelIndex", 0.0)
		return m
	case TypeSingleAxis:
		m := axisDefaults(subType)
		m.Set("left", "5%")
		m.Set("top", "5%")
		m.Set("right", "5%")
		m.Set("bottom", "5%")
		m.Set("orient", "horizontal")
		return m
	case TypeGrid:
		return option.MapOf(
			"left", "10%",
			"top", 60.0,
			"right", "10%",
			"bottom", 70.0,
			"containLabel", false,
		)
	case TypePolar:
		return option.MapOf(
			"center", []any{"50%", "50%"},
			"radius", "80%",
		)
	case TypeRadar:
		return option.MapOf(
			"center", []any{"50%", "50%"},
			"radius", "75%",
			"startAngle", 90.0,
			"splitNumber", 5.0,
			"shape", "polygon",
			"scale", false,
		)
	case TypeParallel:
		return option.MapOf(
			"left", 80.0,
			"top", 60.0,
			"right", 80.0,
			"bottom", 60.0,
			"layout", "horizontal",
			"axisExpandable", false,
			"axisExpandCenter", nil,
			"axisExpandCount", 0.0,
			"axisExpandWidth", 50.0,
		)
	case TypeDataset:
		return option.MapOf(
			"seriesLayoutBy", "column",
			"sourceHeader", nil,
		)
	}
	return option.NewMap()
}
