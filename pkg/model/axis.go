package model

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/option"
)

// AxisCommon holds the behavior every axis component shares, whatever
// coordinate system it belongs to.
type AxisCommon struct {
	model       *Model
	axisType    string
	ordinalMeta *data.OrdinalMeta
}

// NewAxisCommon creates the axis behavior for m. Axis components get one
// automatically; axis-like options such as radar indicators create their
// own.
func NewAxisCommon(m *Model, axisType string) *AxisCommon {
	a := &AxisCommon{model: m, axisType: axisType}
	if axisType == "category" {
		a.ordinalMeta = data.OrdinalMetaFromAxis(m.GetOwn("data"), m.Get("deduplication") != false)
	}
	return a
}

// Type returns "category", "value", "time" or "log".
func (a *AxisCommon) Type() string { return a.axisType }

// IsCategory reports whether the axis is a category axis.
func (a *AxisCommon) IsCategory() bool { return a.axisType == "category" }

// OrdinalMeta returns the categories of a category axis, nil otherwise.
func (a *AxisCommon) OrdinalMeta() *data.OrdinalMeta { return a.ordinalMeta }

// Model returns the axis' option model.
func (a *AxisCommon) Model() *Model { return a.model }

// Inverse reports whether the axis runs backwards.
func (a *AxisCommon) Inverse() bool { return a.model.GetBool("inverse") }

// Scale reports whether a value axis may leave out zero.
func (a *AxisCommon) Scale() bool { return a.model.GetBool("scale") }

// SplitNumber returns the desired number of ticks, 5 by default.
func (a *AxisCommon) SplitNumber() int {
	if n := a.model.GetInt("splitNumber"); n > 0 {
		return n
	}
	return 5
}

// MinInterval and MaxInterval return the interval bounds, 0 when unset.
func (a *AxisCommon) MinInterval() float64 { return positiveOrZero(a.model.GetFloat("minInterval")) }

func (a *AxisCommon) MaxInterval() float64 { return positiveOrZero(a.model.GetFloat("maxInterval")) }

// Interval returns the fixed tick interval, 0 when unset.
func (a *AxisCommon) Interval() float64 { return positiveOrZero(a.model.GetFloat("interval")) }

// LogBase returns the base of a log axis.
func (a *AxisCommon) LogBase() float64 {
	if b := a.model.GetFloat("logBase"); b > 1 {
		return b
	}
	return 10
}

// Bound is a min or max option: unset, a number, "dataMin"/"dataMax", or
// a function of the data extent.
type Bound struct {
	Set     bool
	Value   float64
	DataMin bool
	DataMax bool
	Fn      func(extent [2]float64) float64
}

// Resolve returns the bound for a raw data extent.
func (b Bound) Resolve(extent [2]float64) float64 {
	switch {
	case !b.Set:
		return math.NaN()
	case b.Fn != nil:
		return b.Fn(extent)
	case b.DataMin:
		return extent[0]
	case b.DataMax:
		return extent[1]
	}
	return b.Value
}

// Min returns the min option of the axis.
func (a *AxisCommon) Min() Bound { return a.bound("min") }

// Max returns the max option of the axis.
func (a *AxisCommon) Max() Bound { return a.bound("max") }

func (a *AxisCommon) bound(key string) Bound {
	v := a.model.Get(key)
	switch t := v.(type) {
	case nil:
		return Bound{}
	case func([2]float64) float64:
		return Bound{Set: true, Fn: t}
	case string:
		switch t {
		case "dataMin":
			return Bound{Set: true, DataMin: true}
		case "dataMax":
			return Bound{Set: true, DataMax: true}
		}
		if a.IsCategory() && a.ordinalMeta != nil {
			if i := a.ordinalMeta.GetOrdinal(t); i >= 0 {
				return Bound{Set: true, Value: float64(i)}
			}
		}
		if a.axisType == "time" {
			return Bound{Set: true, Value: numeric.ParseDate(t)}
		}
	}
	f := option.ToFloat(v)
	if math.IsNaN(f) {
		return Bound{}
	}
	return Bound{Set: true, Value: f}
}

// BoundaryGap returns the boundary gap of the axis. Category axes have a
// boolean gap (true: items sit between ticks); other axes have a
// [before, after] pair of lengths relative to the data span, which may be
// percentages.
func (a *AxisCommon) BoundaryGap() (onBand bool, gap [2]any) {
	v := a.model.Get("boundaryGap")
	if a.IsCategory() {
		b, ok := v.(bool)
		return !ok || b, gap
	}
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return false, [2]any{0.0, 0.0}
	}
	gap[0] = arr[0]
	if len(arr) > 1 {
		gap[1] = arr[1]
	} else {
		gap[1] = arr[0]
	}
	return false, gap
}

func positiveOrZero(f float64) float64 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	return f
}
