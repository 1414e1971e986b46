package layout

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/layout/bargrid"
	"github.com/matzehuels/chartcore/pkg/model"
)

// Rect is the item layout of one bar. Width or Height is negative when the
// bar grows towards smaller pixel coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LargeBars is the layout of a bar series in large mode. Points and
// BackgroundPoints hold one x, y pair per data index in DataIndices.
type LargeBars struct {
	Points           []float32 `json:"points"`
	BackgroundPoints []float32 `json:"backgroundPoints"`
	DataIndices      []int     `json:"dataIndices"`

	BarWidth            float64 `json:"barWidth"`
	ValueAxisStart      float64 `json:"valueAxisStart"`
	BackgroundStart     float64 `json:"backgroundStart"`
	ValueAxisHorizontal bool    `json:"valueAxisHorizontal"`
}

// valueAxisStart is the pixel where bars on valueAxis start: the
// coordinate of 0, or of 1 on a log axis.
func valueAxisStart(valueAxis *coord.Axis) float64 {
	if valueAxis.Type() == "log" {
		return valueAxis.DataToCoord(1, false)
	}
	return valueAxis.DataToCoord(0, false)
}

type stackCoord struct{ p, n float64 }

// BarLayout lays out every bar series of seriesType on a cartesian that is
// not in large mode. Stacked bars start where the previous bar of the
// same stack and category ended, separately for positive and negative
// values. Bars shorter than barMinHeight are stretched to it.
func BarLayout(seriesType string) Task {
	return Task{
		Name:       seriesType + ".layout",
		SeriesType: seriesType,
		Overall: func(ctx *Context) {
			layoutBars(bargrid.PrepareSeries(ctx.Global, seriesType))
		},
	}
}

func layoutBars(series []*model.SeriesModel) {
	columns := bargrid.MakeColumnLayout(series)
	lastStackCoords := make(map[string]map[float64]*stackCoord)

	for _, s := range series {
		list := s.Data
		cartesian, _ := bargrid.Cartesian(s)
		baseAxis := cartesian.BaseAxis()
		valueAxis := cartesian.OtherAxis(baseAxis)

		stackID := bargrid.StackID(s)
		col, _ := columns.Column(baseAxis, stackID)
		barMinHeight := s.GetFloat("barMinHeight")
		if math.IsNaN(barMinHeight) {
			barMinHeight = 0
		}
		if lastStackCoords[stackID] == nil {
			lastStackCoords[stackID] = make(map[float64]*stackCoord)
		}
		coords := lastStackCoords[stackID]

		list.SetLayout(KeyBandWidth, col.BandWidth)
		list.SetLayout(KeyOffset, col.Offset)
		list.SetLayout(KeySize, col.Width)

		valueDim := list.MapDimension(valueAxis.Dim)
		baseDim := list.MapDimension(baseAxis.Dim)
		stacked := data.IsDimensionStacked(list, valueDim)
		horizontal := valueAxis.Dim == "x"
		start := valueAxisStart(valueAxis)

		for idx, n := 0, list.Count(); idx < n; idx++ {
			value := list.Get(valueDim, idx)
			baseValue := list.Get(baseDim, idx)

			positive := value >= 0
			baseCoord := start
			var sc *stackCoord
			if stacked {
				if sc = coords[baseValue]; sc == nil {
					sc = &stackCoord{p: start, n: start}
					coords[baseValue] = sc
				}
				baseCoord = sc.n
				if positive {
					baseCoord = sc.p
				}
			}

			var r Rect
			var length float64
			pt := cartesian.DataToPoint(orderXY(baseAxis, baseValue, value))
			if horizontal {
				r = Rect{X: baseCoord, Y: pt[1] + col.Offset, Width: pt[0] - start, Height: col.Width}
				if math.Abs(r.Width) < barMinHeight {
					r.Width = sign(r.Width < 0) * barMinHeight
				}
				length = r.Width
			} else {
				r = Rect{X: pt[0] + col.Offset, Y: baseCoord, Width: col.Width, Height: pt[1] - start}
				// A zero value still makes an upward bar.
				if math.Abs(r.Height) < barMinHeight {
					r.Height = sign(r.Height <= 0) * barMinHeight
				}
				length = r.Height
			}
			// NaN values do not move the stack.
			if sc != nil && !math.IsNaN(length) {
				if positive {
					sc.p += length
				} else {
					sc.n += length
				}
			}
			list.SetItemLayout(idx, r)
		}
	}
}

// orderXY returns the values for Cartesian2D.DataToPoint, which takes x
// first.
func orderXY(baseAxis *coord.Axis, base, value float64) []float64 {
	if baseAxis.Dim == "x" {
		return []float64{base, value}
	}
	return []float64{value, base}
}

func sign(negative bool) float64 {
	if negative {
		return -1
	}
	return 1
}

// LargeBarLayout lays out bar series in large mode into a flat LargeBars
// buffer. Stacking is not supported in large mode.
func LargeBarLayout() Task {
	return Task{
		Name:       "bar.largeLayout",
		SeriesType: "bar",
		Reset: func(_ *Context, s *model.SeriesModel) Progress {
			cartesian, ok := bargrid.Cartesian(s)
			if !ok || !s.Large || s.Data == nil {
				return nil
			}
			rect := cartesianRect(cartesian)
			baseAxis := cartesian.BaseAxis()
			valueAxis := cartesian.OtherAxis(baseAxis)
			horizontal := valueAxis.Dim == "x"

			col, _ := bargrid.MakeColumnLayout([]*model.SeriesModel{s}).Retrieve(baseAxis, s)
			barWidth := col.Width
			if !(barWidth > bargrid.LargeMinWidth) {
				barWidth = bargrid.LargeMinWidth
			}

			bars := &LargeBars{
				BarWidth:            barWidth,
				ValueAxisStart:      valueAxisStart(valueAxis),
				BackgroundStart:     rect.Y,
				ValueAxisHorizontal: horizontal,
			}
			if horizontal {
				bars.BackgroundStart = rect.X
			}
			s.Data.SetLayout(KeyLarge, bars)

			valueDim := s.Data.MapDimension(valueAxis.Dim)
			baseDim := s.Data.MapDimension(baseAxis.Dim)
			return func(p *Params, l *data.List) {
				for idx, ok := p.Next(); ok; idx, ok = p.Next() {
					pt := cartesian.DataToPoint(orderXY(baseAxis, l.Get(baseDim, idx), l.Get(valueDim, idx)))
					bg := [2]float64{pt[0], rect.Y + rect.Height}
					if horizontal {
						bg = [2]float64{rect.X + rect.Width, pt[1]}
					}
					bars.Points = append(bars.Points, float32(pt[0]), float32(pt[1]))
					bars.BackgroundPoints = append(bars.BackgroundPoints, float32(bg[0]), float32(bg[1]))
					bars.DataIndices = append(bars.DataIndices, idx)
				}
			}
		},
	}
}

type rected interface{ Rect() coord.Rect }

func cartesianRect(c coord.System) coord.Rect {
	if r, ok := c.(rected); ok {
		return r.Rect()
	}
	return coord.Rect{}
}
