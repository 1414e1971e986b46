package coord

import (
	"math"
	"strconv"

	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/scale"
)

var normalizedExtent = [2]float64{0, 1}

// Axis maps the values of one scale onto a pixel extent.
type Axis struct {
	// Dim is the coordDim the axis serves, e.g. "x" or "radius".
	Dim   string
	Scale scale.Scale
	// Model is the axis component, nil for axes built in code.
	Model *model.ComponentModel
	// Index is the position of the axis among axes with the same Dim.
	Index int
	// OnBand places category values in the middle of their band.
	OnBand bool
	// Inverse flips the pixel extent.
	Inverse bool
	// Position is where a cartesian axis sits: top, bottom, left or right.
	Position string

	extent [2]float64
}

// NewAxis creates an axis over s with the given pixel extent.
func NewAxis(dim string, s scale.Scale, extent [2]float64) *Axis {
	return &Axis{Dim: dim, Scale: s, extent: extent}
}

// NewAxisFromModel creates an axis for an axis component, building its
// scale from the component options.
func NewAxisFromModel(dim string, cm *model.ComponentModel) *Axis {
	a := NewAxis(dim, CreateScaleByModel(cm.Axis), [2]float64{0, 0})
	a.Model = cm
	a.Index = cm.Index
	a.Inverse = cm.Axis.Inverse()
	a.OnBand, _ = cm.Axis.BoundaryGap()
	if !cm.Axis.IsCategory() {
		a.OnBand = false
	}
	return a
}

// Type returns the axis type: category, value, time or log.
func (a *Axis) Type() string {
	if a.Model != nil && a.Model.Axis != nil {
		return a.Model.Axis.Type()
	}
	switch a.Scale.Type() {
	case "ordinal":
		return "category"
	case "interval":
		return "value"
	}
	return a.Scale.Type()
}

// Key identifies the axis among all axes of a chart, e.g. "x0".
func (a *Axis) Key() string {
	return a.Dim + strconv.Itoa(a.Index)
}

func (a *Axis) Extent() [2]float64 { return a.extent }

func (a *Axis) SetExtent(start, end float64) {
	a.extent = [2]float64{start, end}
}

// Length returns the absolute pixel length of the axis.
func (a *Axis) Length() float64 {
	return math.Abs(a.extent[1] - a.extent[0])
}

// Contain reports whether a pixel coordinate lies on the axis.
func (a *Axis) Contain(coord float64) bool {
	lo, hi := math.Min(a.extent[0], a.extent[1]), math.Max(a.extent[0], a.extent[1])
	return coord >= lo && coord <= hi
}

// ContainData reports whether a data value lies in the scale extent.
func (a *Axis) ContainData(v float64) bool {
	return a.Scale.Contain(v)
}

func (a *Axis) bandExtent() [2]float64 {
	extent := a.extent
	if a.OnBand && a.Scale.Type() == "ordinal" {
		if n, ok := a.Scale.(*scale.Ordinal); ok && n.Count() > 0 {
			margin := (extent[1] - extent[0]) / float64(n.Count()) / 2
			extent[0] += margin
			extent[1] -= margin
		}
	}
	return extent
}

// DataToCoord maps a data value to a pixel coordinate.
func (a *Axis) DataToCoord(v float64, clamp bool) float64 {
	return numeric.LinearMap(a.Scale.Normalize(v), normalizedExtent, a.bandExtent(), clamp)
}

// CoordToData maps a pixel coordinate back to a data value.
func (a *Axis) CoordToData(coord float64, clamp bool) float64 {
	t := numeric.LinearMap(coord, a.bandExtent(), normalizedExtent, clamp)
	return a.Scale.Scale(t)
}

// BandWidth returns the pixel width of one category band, or of one data
// unit on a numeric axis.
func (a *Axis) BandWidth() float64 {
	dataExtent := a.Scale.Extent()
	n := dataExtent[1] - dataExtent[0]
	if a.OnBand {
		n++
	}
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		n = 1
	}
	return a.Length() / n
}

// TickCoord is a tick value and its pixel coordinate. Value is NaN for
// the closing tick added after the last band.
type TickCoord struct {
	Coord float64 `json:"coord"`
	Value float64 `json:"value"`
}

// TicksCoords returns the pixel positions of the scale ticks. On band
// axes ticks sit on band boundaries unless axisTick.alignWithLabel is set.
func (a *Axis) TicksCoords(clamp bool) []TickCoord {
	ticks := a.Scale.Ticks()
	coords := make([]TickCoord, len(ticks))
	for i, v := range ticks {
		coords[i] = TickCoord{Coord: a.DataToCoord(v, false), Value: v}
	}
	alignWithLabel := false
	if a.Model != nil {
		alignWithLabel = a.Model.GetBool("axisTick", "alignWithLabel")
	}
	return a.fixOnBandTicks(coords, alignWithLabel, clamp)
}

func (a *Axis) fixOnBandTicks(coords []TickCoord, alignWithLabel, clamp bool) []TickCoord {
	n := len(coords)
	if !a.OnBand || alignWithLabel || n == 0 {
		return coords
	}
	extent := a.extent
	var last TickCoord
	if n == 1 {
		coords[0].Coord = extent[0]
		last = TickCoord{Coord: extent[0], Value: math.NaN()}
	} else {
		cross := coords[n-1].Value - coords[0].Value
		shift := (coords[n-1].Coord - coords[0].Coord) / cross
		for i := range coords {
			coords[i].Coord -= shift / 2
		}
		dataExtent := a.Scale.Extent()
		diff := 1 + dataExtent[1] - coords[n-1].Value
		last = TickCoord{Coord: coords[n-1].Coord + shift*diff, Value: math.NaN()}
	}

	inverse := extent[0] > extent[1]
	lessThan := func(x, y float64) bool {
		x, y = numeric.Round(x, 10), numeric.Round(y, 10)
		if inverse {
			return x > y
		}
		return x < y
	}

	if lessThan(coords[0].Coord, extent[0]) {
		if clamp {
			coords[0].Coord = extent[0]
		} else {
			coords = coords[1:]
		}
	}
	if clamp && len(coords) > 0 && lessThan(extent[0], coords[0].Coord) {
		coords = append([]TickCoord{{Coord: extent[0], Value: math.NaN()}}, coords...)
	}
	if lessThan(extent[1], last.Coord) {
		if !clamp {
			return coords
		}
		last.Coord = extent[1]
	}
	coords = append(coords, last)
	if clamp && lessThan(last.Coord, extent[1]) {
		coords = append(coords, TickCoord{Coord: extent[1], Value: math.NaN()})
	}
	return coords
}
