// Package radar implements the radar coordinate system: one value axis per
// indicator, spread evenly around a center.
package radar

import (
	"math"
	"strconv"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/option"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Name is the coordinate system name series refer to.
const Name = "radar"

// Indicator is the value axis of one radar indicator.
type Indicator struct {
	*coord.Axis
	Name string
	// Angle is the direction of the axis in radians, in (-Pi, Pi].
	Angle float64
}

// Radar is a radar coordinate system. Its dimensions are named
// "indicator_<i>".
type Radar struct {
	Model  *model.ComponentModel
	CX, CY float64
	R0, R  float64
	// StartAngle is the direction of the first indicator in radians.
	StartAngle float64

	indicators []*Indicator
	dims       []string
}

var (
	_ coord.System   = (*Radar)(nil)
	_ coord.Instance = (*Radar)(nil)
	_ coord.Updater  = (*Radar)(nil)
	_ coord.Resizer  = (*Radar)(nil)
)

// New creates the radar of a radar component.
func New(rm *model.ComponentModel, api coord.API) *Radar {
	r := &Radar{Model: rm}
	scaleOpt := rm.Get("scale")
	for i, raw := range rm.GetSlice("indicator") {
		rec, _ := raw.(*option.Map)
		rec = indicatorOption(rec, rm.GetBool("scale"))
		parent := model.New(option.MapOf(
			"scale", scaleOpt,
			"splitNumber", rm.Get("splitNumber"),
			"boundaryGap", []any{0.0, 0.0},
		), nil)
		im := model.New(rec, parent)
		cm := &model.ComponentModel{
			Model:    im,
			MainType: "radarIndicator",
			SubType:  "value",
			Index:    i,
			Name:     im.GetString("name"),
			Axis:     model.NewAxisCommon(im, "value"),
		}
		dim := "indicator_" + strconv.Itoa(i)
		axis := coord.NewAxis(dim, scale.NewInterval(), [2]float64{0, 0})
		axis.Model = cm
		axis.Index = i
		r.indicators = append(r.indicators, &Indicator{Axis: axis, Name: cm.Name})
		r.dims = append(r.dims, dim)
	}
	r.Resize(api)
	return r
}

// indicatorOption starts a non-scaled indicator at zero when only a
// positive max is given, or ends it at zero when only a negative min is.
func indicatorOption(rec *option.Map, scaled bool) *option.Map {
	if rec == nil {
		return option.NewMap()
	}
	rec = rec.Clone()
	if scaled {
		return rec
	}
	minV, maxV := rec.Value("min"), rec.Value("max")
	if maxV != nil && option.ToFloat(maxV) > 0 && minV == nil {
		rec.Set("min", 0.0)
	} else if minV != nil && option.ToFloat(minV) < 0 && maxV == nil {
		rec.Set("max", 0.0)
	}
	return rec
}

func (r *Radar) Type() string            { return Name }
func (r *Radar) Dimensions() []string    { return r.dims }
func (r *Radar) Systems() []coord.System { return []coord.System{r} }

// Indicators returns the indicator axes in declaration order.
func (r *Radar) Indicators() []*Indicator { return r.indicators }

func (r *Radar) Axes() []*coord.Axis {
	out := make([]*coord.Axis, len(r.indicators))
	for i, ind := range r.indicators {
		out[i] = ind.Axis
	}
	return out
}

// IndicatorPoint maps a value on indicator idx to a pixel point.
func (r *Radar) IndicatorPoint(value float64, idx int) [2]float64 {
	if idx < 0 || idx >= len(r.indicators) {
		return [2]float64{math.NaN(), math.NaN()}
	}
	ind := r.indicators[idx]
	return r.CoordToPoint(ind.DataToCoord(value, false), idx)
}

// CoordToPoint maps a pixel distance from the center along indicator idx
// to a point.
func (r *Radar) CoordToPoint(coord float64, idx int) [2]float64 {
	angle := r.indicators[idx].Angle
	return [2]float64{r.CX + coord*math.Cos(angle), r.CY - coord*math.Sin(angle)}
}

// DataToPoint takes [value, indicatorIndex].
func (r *Radar) DataToPoint(values []float64) [2]float64 {
	if len(values) < 2 {
		return [2]float64{math.NaN(), math.NaN()}
	}
	return r.IndicatorPoint(values[0], int(values[1]))
}

// PointToData returns [indicatorIndex, value] for the indicator whose
// direction is closest to the point.
func (r *Radar) PointToData(pt [2]float64) []float64 {
	dx, dy := pt[0]-r.CX, pt[1]-r.CY
	radius := math.Hypot(dx, dy)
	radian := math.Atan2(-dy, dx)

	closest := -1
	minDiff := math.Inf(1)
	for i, ind := range r.indicators {
		if d := math.Abs(radian - ind.Angle); d < minDiff {
			closest, minDiff = i, d
		}
	}
	if closest < 0 {
		return []float64{-1, math.NaN()}
	}
	return []float64{float64(closest), r.indicators[closest].CoordToData(radius, false)}
}

// Resize places the center, the radius range and the indicator angles.
func (r *Radar) Resize(api coord.API) {
	width, height := api.Width(), api.Height()
	viewSize := math.Min(width, height) / 2
	center := r.Model.GetSlice("center")
	r.CX = numeric.ParsePercent(valueAt(center, 0, "50%"), width)
	r.CY = numeric.ParsePercent(valueAt(center, 1, "50%"), height)

	start := r.Model.GetFloat("startAngle")
	if math.IsNaN(start) {
		start = 90
	}
	r.StartAngle = start * math.Pi / 180

	radius := r.Model.GetSlice("radius")
	switch len(radius) {
	case 0:
		r.R0, r.R = 0, viewSize*0.75
	case 1:
		r.R0, r.R = 0, numeric.ParsePercent(radius[0], viewSize)
	default:
		r.R0 = numeric.ParsePercent(radius[0], viewSize)
		r.R = numeric.ParsePercent(radius[1], viewSize)
	}

	n := float64(len(r.indicators))
	for i, ind := range r.indicators {
		ind.SetExtent(r.R0, r.R)
		angle := r.StartAngle + float64(i)*math.Pi*2/n
		ind.Angle = math.Atan2(math.Sin(angle), math.Cos(angle))
	}
}

// Update fits the indicator scales to the radar series data and makes
// every indicator show splitNumber intervals.
func (r *Radar) Update(g *model.Global, api coord.API) {
	for _, ind := range r.indicators {
		ind.Scale.SetExtent(math.Inf(1), math.Inf(-1))
	}
	g.EachSeries(func(s *model.SeriesModel) {
		if s.CoordinateSystem != r || s.Data == nil {
			return
		}
		for _, ind := range r.indicators {
			if dim := s.Data.MapDimension(ind.Dim); dim != "" {
				scale.UnionExtentFromData(ind.Scale, s.Data, dim)
			}
		}
	})

	splitNumber := r.Model.GetInt("splitNumber")
	if splitNumber <= 0 {
		splitNumber = 5
	}
	for _, ind := range r.indicators {
		r.fitIndicator(ind, splitNumber)
	}
}

func (r *Radar) fitIndicator(ind *Indicator, splitNumber int) {
	axis := ind.Model.Axis
	raw := coord.GetScaleExtent(ind.Scale, axis).Extent
	coord.NiceScaleExtent(ind.Scale, axis)

	s, ok := ind.Scale.(*scale.Interval)
	if !ok {
		return
	}
	split := float64(splitNumber)
	interval := s.Interval()
	minB, maxB := axis.Min(), axis.Max()
	fixedMin, fixedMax := minB.Resolve(raw), maxB.Resolve(raw)

	switch {
	case minB.Set && maxB.Set:
		s.SetExtent(fixedMin, fixedMax)
		s.SetInterval((fixedMax - fixedMin) / split)
	case minB.Set:
		for {
			hi := fixedMin + interval*split
			s.SetExtent(fixedMin, hi)
			s.SetInterval(interval)
			interval = increaseInterval(interval)
			if !(hi < raw[1] && numeric.IsFinite(hi) && numeric.IsFinite(raw[1])) {
				break
			}
		}
	case maxB.Set:
		for {
			lo := fixedMax - interval*split
			s.SetExtent(lo, fixedMax)
			s.SetInterval(interval)
			interval = increaseInterval(interval)
			if !(lo > raw[0] && numeric.IsFinite(lo) && numeric.IsFinite(raw[0])) {
				break
			}
		}
	default:
		if len(s.Ticks())-1 > splitNumber {
			interval = increaseInterval(interval)
		}
		center := math.Ceil((raw[0]+raw[1])/2/interval) * interval
		half := math.Round(split / 2)
		s.SetExtent(
			numeric.Round(center-half*interval, 10),
			numeric.Round(center+(split-half)*interval, 10),
		)
		s.SetInterval(interval)
	}
}

// increaseInterval steps a nice interval to the next nice value:
// 1 -> 2 -> 5 -> 10.
func increaseInterval(interval float64) float64 {
	exp10 := math.Pow(10, math.Floor(math.Log10(interval)))
	f := interval / exp10
	if f == 2 {
		f = 5
	} else {
		f *= 2
	}
	return f * exp10
}

func valueAt(values []any, i int, def any) any {
	if i < len(values) && values[i] != nil {
		return values[i]
	}
	return def
}

// Create builds one Radar per radar component and binds radar series to
// the radar their radarIndex names.
func Create(g *model.Global, api coord.API) []coord.Instance {
	var radars []*Radar
	var out []coord.Instance
	for _, rm := range g.Components(model.TypeRadar) {
		r := New(rm, api)
		rm.CoordinateSystem = r
		radars = append(radars, r)
		out = append(out, r)
	}
	g.EachSeries(func(s *model.SeriesModel) {
		if s.GetString("coordinateSystem") != Name && s.Type != Name {
			return
		}
		idx := s.GetInt("radarIndex")
		if idx < 0 || idx >= len(radars) {
			g.Warnf("series %q: radar %d not found", s.Name, idx)
			return
		}
		s.CoordinateSystem = radars[idx]
	})
	return out
}
