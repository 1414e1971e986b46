package coord

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// ExtentInfo is a scale extent before nicing. A fixed side came from the
// axis min or max option and must not be moved by NiceExtent.
type ExtentInfo struct {
	Extent [2]float64
	FixMin bool
	FixMax bool
	Blank  bool
}

// GetScaleExtent computes the extent an axis should show from the data
// extent already unioned into s and the axis options. It marks s blank
// when either bound is undefined or a category axis has no categories.
func GetScaleExtent(s scale.Scale, axis *model.AxisCommon) ExtentInfo {
	dataExtent := s.Extent()
	if dataExtent[1] < dataExtent[0] {
		dataExtent = [2]float64{math.NaN(), math.NaN()}
	}
	dataMin, dataMax := dataExtent[0], dataExtent[1]

	isOrdinal := s.Type() == "ordinal"
	needCrossZero := s.Type() == "interval" && !axis.Scale()

	categories := 0
	var gap [2]float64
	if isOrdinal {
		if o, ok := s.(*scale.Ordinal); ok {
			categories = o.OrdinalMeta().Count()
		}
	} else {
		_, raw := axis.BoundaryGap()
		_, b0 := raw[0].(bool)
		_, b1 := raw[1].(bool)
		if !b0 && !b1 {
			gap[0] = zeroIfNaN(numeric.ParsePercent(raw[0], 1))
			gap[1] = zeroIfNaN(numeric.ParsePercent(raw[1], 1))
		}
	}

	span := dataMax - dataMin
	if span == 0 {
		span = math.Abs(dataMin)
	}

	minBound, maxBound := axis.Min(), axis.Max()
	info := ExtentInfo{FixMin: minBound.Set, FixMax: maxBound.Set}

	min := minBound.Resolve(dataExtent)
	if !minBound.Set {
		switch {
		case !isOrdinal:
			min = dataMin - gap[0]*span
		case categories > 0:
			min = 0
		default:
			min = math.NaN()
		}
	}
	max := maxBound.Resolve(dataExtent)
	if !maxBound.Set {
		switch {
		case !isOrdinal:
			max = dataMax + gap[1]*span
		case categories > 0:
			max = float64(categories - 1)
		default:
			max = math.NaN()
		}
	}
	if math.IsInf(min, 0) {
		min = math.NaN()
	}
	if math.IsInf(max, 0) {
		max = math.NaN()
	}

	info.Blank = math.IsNaN(min) || math.IsNaN(max) || (isOrdinal && categories == 0)

	if needCrossZero {
		if min > 0 && max > 0 && !info.FixMin {
			min = 0
		}
		if min < 0 && max < 0 && !info.FixMax {
			max = 0
		}
	}

	s.SetBlank(info.Blank)
	info.Extent = [2]float64{min, max}
	return info
}

// AdjustScaleForOverflow widens [min, max] so bars drawn at the ends of a
// numeric base axis stay inside the axis pixel extent.
func AdjustScaleForOverflow(min, max float64, axis *Axis, columns []ColumnSpan) (float64, float64) {
	if len(columns) == 0 {
		return min, max
	}
	axisLength := axis.Length()

	minOverflow, maxOverflow := math.Inf(1), math.Inf(-1)
	for _, c := range columns {
		minOverflow = math.Min(minOverflow, c.Offset)
		maxOverflow = math.Max(maxOverflow, c.Offset+c.Width)
	}
	minOverflow = math.Abs(minOverflow)
	maxOverflow = math.Abs(maxOverflow)
	total := minOverflow + maxOverflow
	if total == 0 || axisLength <= total {
		return min, max
	}

	oldRange := max - min
	oldRangePercentOfNew := 1 - total/axisLength
	buffer := oldRange/oldRangePercentOfNew - oldRange

	max += buffer * (maxOverflow / total)
	min -= buffer * (minOverflow / total)
	return min, max
}

// NiceScaleExtent sets the extent of s from GetScaleExtent and rounds it
// to nice tick boundaries.
func NiceScaleExtent(s scale.Scale, axis *model.AxisCommon) {
	ApplyScaleExtent(s, axis, GetScaleExtent(s, axis))
}

// ApplyScaleExtent sets info's extent on s and nices it. A fixed interval
// option overrides the computed one.
func ApplyScaleExtent(s scale.Scale, axis *model.AxisCommon, info ExtentInfo) {
	s.SetExtent(info.Extent[0], info.Extent[1])
	opt := scale.NiceOptions{
		SplitNumber: axis.SplitNumber(),
		FixMin:      info.FixMin,
		FixMax:      info.FixMax,
	}
	if t := s.Type(); t == "interval" || t == "time" {
		opt.MinInterval = axis.MinInterval()
		opt.MaxInterval = axis.MaxInterval()
	}
	s.NiceExtent(opt)

	if iv := axis.Interval(); iv > 0 {
		if is, ok := s.(*scale.Interval); ok {
			is.SetInterval(iv)
		}
	}
}

// CreateScaleByModel creates the empty scale of an axis component.
func CreateScaleByModel(axis *model.AxisCommon) scale.Scale {
	switch axis.Type() {
	case "category":
		return scale.NewOrdinal(axis.OrdinalMeta())
	case "time":
		return scale.NewTime()
	case "log":
		return scale.NewLog(axis.LogBase())
	}
	return scale.NewInterval()
}

// IfAxisCrossZero reports whether the scale extent of axis includes zero.
func IfAxisCrossZero(axis *Axis) bool {
	extent := axis.Scale.Extent()
	return !((extent[0] > 0 && extent[1] > 0) || (extent[0] < 0 && extent[1] < 0))
}

func zeroIfNaN(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}
