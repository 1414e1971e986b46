// Package bargrid solves the width and offset of bar columns that share a
// base axis.
//
// Bar series on the same base axis are grouped into columns by their stack
// id: series with the same "stack" option share one column, every other
// series gets a column of its own. Within one band of the axis the columns
// are placed side by side, separated by barGap and surrounded by
// barCategoryGap.
//
// Layout options shared by an axis (barGap, barCategoryGap) and by a column
// (barWidth, barMaxWidth, barMinWidth) are taken from the last series that
// sets them.
package bargrid

import (
	"math"
	"sort"
	"strconv"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
)

// StackPrefix prefixes the synthetic stack id of an unstacked series.
const StackPrefix = "__ec_stack_"

// LargeMinWidth is the narrowest bar drawn in large mode.
const LargeMinWidth = 0.5

const defaultBarGap = "20%"

// SeriesInfo is the input of Solve for one series.
type SeriesInfo struct {
	// AxisKey identifies the base axis the series is on.
	AxisKey string
	// StackID identifies the column of the series on that axis.
	StackID   string
	BandWidth float64

	// BarWidth, BarMaxWidth and BarMinWidth are pixels; zero or NaN means
	// unset.
	BarWidth    float64
	BarMaxWidth float64
	BarMinWidth float64

	// BarGap is a fraction of the bar width, BarCategoryGap a length of
	// the band. Both may be numbers or percent strings; nil means unset.
	BarGap         any
	BarCategoryGap any
}

// Column is the solved placement of one column. Offset is relative to the
// center of the band.
type Column struct {
	StackID      string  `json:"stackId"`
	BandWidth    float64 `json:"bandWidth"`
	Offset       float64 `json:"offset"`
	OffsetCenter float64 `json:"offsetCenter"`
	Width        float64 `json:"width"`
}

// Span returns the column as an axis overflow span.
func (c Column) Span() coord.ColumnSpan {
	return coord.ColumnSpan{Offset: c.Offset, Width: c.Width}
}

// Layout holds the solved columns of every base axis, keyed by axis key,
// in the order their stacks first appeared.
type Layout map[string][]Column

// Axis returns the columns on axis.
func (l Layout) Axis(axis *coord.Axis) []Column {
	if l == nil || axis == nil {
		return nil
	}
	return l[axis.Key()]
}

// Column returns the column of stackID on axis.
func (l Layout) Column(axis *coord.Axis, stackID string) (Column, bool) {
	for _, c := range l.Axis(axis) {
		if c.StackID == stackID {
			return c, true
		}
	}
	return Column{}, false
}

// Retrieve returns the column of series s on axis.
func (l Layout) Retrieve(axis *coord.Axis, s *model.SeriesModel) (Column, bool) {
	return l.Column(axis, StackID(s))
}

// StackID returns the stack option of s, or a synthetic id unique to s.
func StackID(s *model.SeriesModel) string {
	if id := s.GetString("stack"); id != "" {
		return id
	}
	return StackPrefix + strconv.Itoa(s.Index)
}

func set(v float64) bool { return v != 0 && !math.IsNaN(v) }

type stack struct {
	id       string
	width    float64
	maxWidth float64
	minWidth float64
	// reserved is what width took off the remaining band.
	reserved float64
}

type axisColumns struct {
	bandWidth      float64
	remainedWidth  float64
	autoWidthCount int
	categoryGap    any
	gap            any
	stacks         []*stack
	byID           map[string]*stack
}

// Solve computes the columns of every axis in infos.
//
// Columns with an explicit width keep it, clamped by their max and min
// width. The remaining band, minus the category gap, is shared evenly by
// the other columns. A column whose share breaks its max or min width is
// fixed at that width and the share is computed once more; there is no
// further correction.
func Solve(infos []SeriesInfo) Layout {
	var order []string
	axes := make(map[string]*axisColumns)

	for _, info := range infos {
		ac := axes[info.AxisKey]
		if ac == nil {
			ac = &axisColumns{
				bandWidth:     info.BandWidth,
				remainedWidth: info.BandWidth,
				gap:           defaultBarGap,
				byID:          make(map[string]*stack),
			}
			axes[info.AxisKey] = ac
			order = append(order, info.AxisKey)
		}

		st := ac.byID[info.StackID]
		if st == nil {
			st = &stack{id: info.StackID}
			ac.byID[info.StackID] = st
			ac.stacks = append(ac.stacks, st)
			ac.autoWidthCount++
		}

		// An explicit width may exceed what is left of the band. A later
		// width replaces the earlier one and gives back its reservation.
		if barWidth := info.BarWidth; set(barWidth) {
			ac.remainedWidth += st.reserved
			st.width = barWidth
			st.reserved = math.Min(ac.remainedWidth, barWidth)
			ac.remainedWidth -= st.reserved
		}
		if set(info.BarMaxWidth) {
			st.maxWidth = info.BarMaxWidth
		}
		if set(info.BarMinWidth) {
			st.minWidth = info.BarMinWidth
		}
		if info.BarGap != nil {
			ac.gap = info.BarGap
		}
		if info.BarCategoryGap != nil {
			ac.categoryGap = info.BarCategoryGap
		}
	}

	out := make(Layout, len(axes))
	for _, key := range order {
		out[key] = axes[key].solve()
	}
	return out
}

func (ac *axisColumns) solve() []Column {
	categoryGapPercent := ac.categoryGap
	if categoryGapPercent == nil {
		// More columns leave less room between bands.
		categoryGapPercent = strconv.Itoa(max(35-len(ac.stacks)*4, 15)) + "%"
	}
	categoryGap := numeric.ParsePercent(categoryGapPercent, ac.bandWidth)
	barGap := numeric.ParsePercent(ac.gap, 1)

	remained := ac.remainedWidth
	autoCount := ac.autoWidthCount
	autoWidth := func() float64 {
		w := (remained - categoryGap) / (float64(autoCount) + float64(autoCount-1)*barGap)
		return math.Max(w, 0)
	}
	auto := autoWidth()

	for _, st := range ac.stacks {
		if st.width == 0 {
			w := auto
			if st.maxWidth != 0 && st.maxWidth < w {
				w = math.Min(st.maxWidth, remained)
			}
			// The min width wins over the max width and the band, so bars
			// on a dense value axis may overlap.
			if st.minWidth != 0 && st.minWidth > w {
				w = st.minWidth
			}
			if w != auto {
				st.width = w
				remained -= w + barGap*w
				autoCount--
			}
			continue
		}
		w := st.width
		if st.maxWidth != 0 {
			w = math.Min(w, st.maxWidth)
		}
		if st.minWidth != 0 {
			w = math.Max(w, st.minWidth)
		}
		st.width = w
		remained -= w + barGap*w
		autoCount--
	}

	auto = autoWidth()

	var sum float64
	for _, st := range ac.stacks {
		if st.width == 0 {
			st.width = auto
		}
		sum += st.width * (1 + barGap)
	}
	if n := len(ac.stacks); n > 0 {
		sum -= ac.stacks[n-1].width * barGap
	}

	cols := make([]Column, 0, len(ac.stacks))
	offset := -sum / 2
	for _, st := range ac.stacks {
		cols = append(cols, Column{
			StackID:      st.id,
			BandWidth:    ac.bandWidth,
			Offset:       offset,
			OffsetCenter: offset + st.width/2,
			Width:        st.width,
		})
		offset += st.width * (1 + barGap)
	}
	return cols
}

// AxisOptions are the shared layout options of LayoutOnAxis.
type AxisOptions struct {
	BarWidth       float64
	BarMaxWidth    float64
	BarMinWidth    float64
	BarGap         any
	BarCategoryGap any
}

// LayoutOnAxis places count virtual columns in a band of a category axis.
// It returns nil for other axis types.
func LayoutOnAxis(axis *coord.Axis, count int, opt AxisOptions) []Column {
	if axis.Type() != "category" {
		return nil
	}
	const key = "axis0"
	bandWidth := axis.BandWidth()
	infos := make([]SeriesInfo, count)
	for i := range infos {
		infos[i] = SeriesInfo{
			AxisKey:        key,
			StackID:        StackPrefix + strconv.Itoa(i),
			BandWidth:      bandWidth,
			BarWidth:       opt.BarWidth,
			BarMaxWidth:    opt.BarMaxWidth,
			BarMinWidth:    opt.BarMinWidth,
			BarGap:         opt.BarGap,
			BarCategoryGap: opt.BarCategoryGap,
		}
	}
	return Solve(infos)[key]
}

// ============================================================================
// Series on cartesians
// ============================================================================

// Cartesian returns the coordinate system of s when it is a cartesian2d.
func Cartesian(s *model.SeriesModel) (coord.BaseAxisSystem, bool) {
	c, ok := s.CoordinateSystem.(coord.BaseAxisSystem)
	if !ok || c.Type() != "cartesian2d" {
		return nil, false
	}
	return c, true
}

// PrepareSeries returns the series of seriesType that are on a cartesian
// and not in large mode.
func PrepareSeries(g *model.Global, seriesType string) []*model.SeriesModel {
	var out []*model.SeriesModel
	g.EachSeriesByType(seriesType, func(s *model.SeriesModel) {
		if _, ok := Cartesian(s); ok && !s.Large && s.Data != nil {
			out = append(out, s)
		}
	})
	return out
}

// valueAxesMinGaps returns, per numeric base axis, the smallest positive
// distance between two data values of all series on it.
func valueAxesMinGaps(series []*model.SeriesModel) map[string]float64 {
	values := make(map[string][]float64)
	for _, s := range series {
		c, _ := Cartesian(s)
		base := c.BaseAxis()
		if t := base.Type(); t != "time" && t != "value" {
			continue
		}
		dim := s.Data.MapDimension(base.Dim)
		for i, n := 0, s.Data.Count(); i < n; i++ {
			values[base.Key()] = append(values[base.Key()], s.Data.Get(dim, i))
		}
	}

	gaps := make(map[string]float64, len(values))
	for key, vs := range values {
		sort.Float64s(vs)
		gap := math.NaN()
		for j := 1; j < len(vs); j++ {
			if d := vs[j] - vs[j-1]; d > 0 && !(d >= gap) {
				gap = d
			}
		}
		gaps[key] = gap
	}
	return gaps
}

// MakeColumnLayout solves the columns of bar series on cartesians.
func MakeColumnLayout(series []*model.SeriesModel) Layout {
	gaps := valueAxesMinGaps(series)

	infos := make([]SeriesInfo, 0, len(series))
	for _, s := range series {
		c, ok := Cartesian(s)
		if !ok {
			continue
		}
		base := c.BaseAxis()
		extent := base.Extent()
		extentSpan := math.Abs(extent[1] - extent[0])

		var bandWidth float64
		switch base.Type() {
		case "category":
			bandWidth = base.BandWidth()
		case "value", "time":
			bandWidth = extentSpan
			if gap := gaps[base.Key()]; set(gap) {
				se := base.Scale.Extent()
				bandWidth = extentSpan / math.Abs(se[1]-se[0]) * gap
			}
		default:
			bandWidth = extentSpan / float64(s.Data.Count())
		}

		minWidth := s.Get("barMinWidth")
		// Auto widths on a value axis may fall below one pixel.
		if f := numeric.ParsePercent(minWidth, bandWidth); !set(f) {
			minWidth = 1.0
		}

		infos = append(infos, SeriesInfo{
			AxisKey:        base.Key(),
			StackID:        StackID(s),
			BandWidth:      bandWidth,
			BarWidth:       numeric.ParsePercent(s.Get("barWidth"), bandWidth),
			BarMaxWidth:    numeric.ParsePercent(s.Get("barMaxWidth"), bandWidth),
			BarMinWidth:    numeric.ParsePercent(minWidth, bandWidth),
			BarGap:         s.Get("barGap"),
			BarCategoryGap: s.Get("barCategoryGap"),
		})
	}
	return Solve(infos)
}

// Columns reports the bar columns of g on axis. It is meant for
// cartesian.NewFactory so time axes leave room for edge bars.
func Columns(g *model.Global, axis *coord.Axis) []coord.ColumnSpan {
	cols := MakeColumnLayout(PrepareSeries(g, "bar")).Axis(axis)
	if len(cols) == 0 {
		return nil
	}
	spans := make([]coord.ColumnSpan, len(cols))
	for i, c := range cols {
		spans[i] = c.Span()
	}
	return spans
}

var _ coord.ColumnsFunc = Columns
