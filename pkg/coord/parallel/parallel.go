// Package parallel implements parallel coordinates: one axis per data
// dimension, laid out side by side.
package parallel

import (
	"math"
	"strconv"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Name is the coordinate system name series refer to.
const Name = "parallel"

// Layout directions.
const (
	Horizontal = "horizontal"
	Vertical   = "vertical"
)

// ActiveState is the brush state of a data item. Without brushing every
// item is StateNormal.
type ActiveState string

const (
	StateNormal   ActiveState = "normal"
	StateActive   ActiveState = "active"
	StateInactive ActiveState = "inactive"
)

// LayoutInfo describes how axes are spread over the layout direction,
// including the axis expand window.
type LayoutInfo struct {
	Layout string
	// PixelDimIndex is 0 when axes are spread along x, 1 along y.
	PixelDimIndex     int
	LayoutBase        float64
	LayoutLength      float64
	AxisBase          float64
	AxisLength        float64
	AxisExpandable    bool
	AxisExpandWidth   float64
	AxisCollapseWidth float64
	AxisExpandWindow  [2]float64
	AxisCount         int
	WinInnerIndices   [2]int
	WindowStart       float64
}

// AxisLayout is the placement of one axis.
type AxisLayout struct {
	Position [2]float64 `json:"position"`
	// Rotation is Pi/2 for vertical axes of a horizontal layout.
	Rotation           float64 `json:"rotation"`
	NameAvailableWidth float64 `json:"nameAvailableWidth"`
	LabelShow          bool    `json:"labelShow"`
	NameTruncateWidth  float64 `json:"nameTruncateWidth,omitempty"`
}

// Parallel is a parallel coordinate system.
type Parallel struct {
	Model *model.ComponentModel

	dims    []string
	axes    map[string]*coord.Axis
	layouts map[string]AxisLayout
	rect    coord.Rect
}

var (
	_ coord.System   = (*Parallel)(nil)
	_ coord.Instance = (*Parallel)(nil)
	_ coord.Updater  = (*Parallel)(nil)
	_ coord.Resizer  = (*Parallel)(nil)
)

func newParallel(g *model.Global, pm *model.ComponentModel, api coord.API) *Parallel {
	p := &Parallel{
		Model:   pm,
		axes:    make(map[string]*coord.Axis),
		layouts: make(map[string]AxisLayout),
	}
	for _, am := range g.Components(model.TypeParallelAxis) {
		if g.ReferredComponent(am.Model, model.TypeParallel) != pm {
			continue
		}
		n := am.Index
		if am.Has("dim") {
			n = am.GetInt("dim")
		}
		dim := "dim" + strconv.Itoa(n)
		if _, dup := p.axes[dim]; dup {
			g.Warnf("parallelAxis[%d]: dimension %s declared twice", am.Index, dim)
			continue
		}
		p.axes[dim] = coord.NewAxisFromModel(dim, am)
		p.dims = append(p.dims, dim)
	}
	p.Resize(api)
	return p
}

func (p *Parallel) Type() string            { return Name }
func (p *Parallel) Dimensions() []string    { return p.dims }
func (p *Parallel) Systems() []coord.System { return []coord.System{p} }
func (p *Parallel) Rect() coord.Rect        { return p.rect }

// Axis returns the axis of dim, or nil.
func (p *Parallel) Axis(dim string) *coord.Axis { return p.axes[dim] }

func (p *Parallel) Axes() []*coord.Axis {
	out := make([]*coord.Axis, len(p.dims))
	for i, d := range p.dims {
		out[i] = p.axes[d]
	}
	return out
}

// AxisLayout returns the placement of the axis of dim.
func (p *Parallel) AxisLayout(dim string) AxisLayout { return p.layouts[dim] }

// AxisPoint maps a value on the axis of dim to a pixel point.
func (p *Parallel) AxisPoint(value float64, dim string) [2]float64 {
	a := p.axes[dim]
	if a == nil {
		return [2]float64{math.NaN(), math.NaN()}
	}
	return p.axisCoordToPoint(a.DataToCoord(value, false), dim)
}

func (p *Parallel) axisCoordToPoint(c float64, dim string) [2]float64 {
	l := p.layouts[dim]
	if l.Rotation != 0 {
		return [2]float64{l.Position[0], l.Position[1] - c}
	}
	return [2]float64{l.Position[0] + c, l.Position[1]}
}

// DataToPoint takes [value, axisIndex].
func (p *Parallel) DataToPoint(values []float64) [2]float64 {
	if len(values) < 2 {
		return [2]float64{math.NaN(), math.NaN()}
	}
	i := int(values[1])
	if i < 0 || i >= len(p.dims) {
		return [2]float64{math.NaN(), math.NaN()}
	}
	return p.AxisPoint(values[0], p.dims[i])
}

// Points maps one value per axis to the polyline of a data item.
func (p *Parallel) Points(values []float64) [][2]float64 {
	pts := make([][2]float64, 0, len(p.dims))
	for i, dim := range p.dims {
		if i >= len(values) {
			break
		}
		pts = append(pts, p.AxisPoint(values[i], dim))
	}
	return pts
}

// PointToData returns [axisIndex, value] for the axis nearest to the
// point along the layout direction.
func (p *Parallel) PointToData(pt [2]float64) []float64 {
	info := p.LayoutInfo()
	best, bestDist := -1, math.Inf(1)
	for i, dim := range p.dims {
		l := p.layouts[dim]
		if d := math.Abs(pt[info.PixelDimIndex] - l.Position[info.PixelDimIndex]); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return []float64{-1, math.NaN()}
	}
	dim := p.dims[best]
	l := p.layouts[dim]
	var c float64
	if l.Rotation != 0 {
		c = l.Position[1] - pt[1]
	} else {
		c = pt[0] - l.Position[0]
	}
	return []float64{float64(best), p.axes[dim].CoordToData(c, false)}
}

// ContainPoint reports whether pt lies inside the axes area.
func (p *Parallel) ContainPoint(pt [2]float64) bool {
	info := p.LayoutInfo()
	pAxis := pt[1-info.PixelDimIndex]
	pLayout := pt[info.PixelDimIndex]
	return pAxis >= info.AxisBase && pAxis <= info.AxisBase+info.AxisLength &&
		pLayout >= info.LayoutBase && pLayout <= info.LayoutBase+info.LayoutLength
}

// Update fits every axis to the data of the parallel series.
func (p *Parallel) Update(g *model.Global, api coord.API) {
	for _, a := range p.axes {
		a.Scale.SetExtent(math.Inf(1), math.Inf(-1))
	}
	g.EachSeries(func(s *model.SeriesModel) {
		if s.CoordinateSystem != p || s.Data == nil {
			return
		}
		for _, dim := range p.dims {
			if d := s.Data.MapDimension(dim); d != "" {
				scale.UnionExtentFromData(p.axes[dim].Scale, s.Data, d)
			}
		}
	})
	for _, dim := range p.dims {
		a := p.axes[dim]
		coord.NiceScaleExtent(a.Scale, a.Model.Axis)
	}
	p.Resize(api)
}

// Resize lays the parallel component out and places its axes.
func (p *Parallel) Resize(api coord.API) {
	p.rect = coord.LayoutRect(p.Model.Model, api.Width(), api.Height())
	p.layoutAxes()
}

// LayoutInfo computes the spread of the axes for the current rect.
func (p *Parallel) LayoutInfo() LayoutInfo {
	r := p.rect
	layout := p.Model.GetString("layout")
	if layout != Vertical {
		layout = Horizontal
	}
	info := LayoutInfo{Layout: layout, AxisCount: len(p.dims)}
	if layout == Horizontal {
		info.LayoutBase, info.LayoutLength = r.X, r.Width
		info.AxisBase, info.AxisLength = r.Y, r.Height
	} else {
		info.PixelDimIndex = 1
		info.LayoutBase, info.LayoutLength = r.Y, r.Height
		info.AxisBase, info.AxisLength = r.X, r.Width
	}

	layoutExtent := [2]float64{0, info.LayoutLength}
	count := float64(info.AxisCount)
	expandWidth := restrict(orZero(p.Model.GetFloat("axisExpandWidth")), layoutExtent)
	expandCount := restrict(orZero(p.Model.GetFloat("axisExpandCount")), [2]float64{0, count})
	info.AxisExpandWidth = expandWidth
	info.AxisExpandable = p.Model.GetBool("axisExpandable") &&
		info.AxisCount > 3 && count > expandCount && expandCount > 1 &&
		expandWidth > 0 && info.LayoutLength > 0

	var winSize float64
	if win := p.Model.GetSlice("axisExpandWindow"); len(win) >= 2 {
		w0, w1 := numeric.ParsePercent(win[0], 1), numeric.ParsePercent(win[1], 1)
		winSize = restrict(w1-w0, layoutExtent)
		info.AxisExpandWindow = [2]float64{w0, w0 + winSize}
	} else {
		winSize = restrict(expandWidth*(expandCount-1), layoutExtent)
		center := p.Model.GetFloat("axisExpandCenter")
		if math.IsNaN(center) {
			center = math.Floor(count / 2)
		}
		start := expandWidth*center - winSize/2
		info.AxisExpandWindow = [2]float64{start, start + winSize}
	}

	collapse := (info.LayoutLength - winSize) / (count - expandCount)
	if collapse < 3 || math.IsNaN(collapse) || math.IsInf(collapse, 0) {
		collapse = 0
	}
	info.AxisCollapseWidth = collapse
	if expandWidth > 0 {
		info.WinInnerIndices = [2]int{
			int(math.Floor(numeric.Round(info.AxisExpandWindow[0]/expandWidth, 1))) + 1,
			int(math.Ceil(numeric.Round(info.AxisExpandWindow[1]/expandWidth, 1))) - 1,
		}
		info.WindowStart = collapse / expandWidth * info.AxisExpandWindow[0]
	}
	return info
}

func (p *Parallel) layoutAxes() {
	info := p.LayoutInfo()
	for _, dim := range p.dims {
		a := p.axes[dim]
		if a.Inverse {
			a.SetExtent(info.AxisLength, 0)
		} else {
			a.SetExtent(0, info.AxisLength)
		}
	}
	for i, dim := range p.dims {
		var l AxisLayout
		var pos float64
		if info.AxisExpandable {
			pos, l = layoutWithExpand(i, info)
		} else {
			pos, l = layoutWithoutExpand(i, info)
		}
		if info.Layout == Horizontal {
			l.Position = [2]float64{pos + p.rect.X, info.AxisLength + p.rect.Y}
			l.Rotation = math.Pi / 2
		} else {
			l.Position = [2]float64{p.rect.X, pos + p.rect.Y}
		}
		p.layouts[dim] = l
	}
}

func layoutWithoutExpand(i int, info LayoutInfo) (float64, AxisLayout) {
	step := info.LayoutLength
	if info.AxisCount > 1 {
		step /= float64(info.AxisCount - 1)
	}
	return step * float64(i), AxisLayout{NameAvailableWidth: step, LabelShow: true}
}

func layoutWithExpand(i int, info LayoutInfo) (float64, AxisLayout) {
	l := AxisLayout{NameAvailableWidth: info.AxisCollapseWidth}
	var pos float64
	switch {
	case i < info.WinInnerIndices[0]:
		pos = float64(i) * info.AxisCollapseWidth
		l.NameTruncateWidth = info.AxisCollapseWidth
	case i <= info.WinInnerIndices[1]:
		pos = info.WindowStart + float64(i)*info.AxisExpandWidth - info.AxisExpandWindow[0]
		l.NameAvailableWidth = info.AxisExpandWidth
		l.LabelShow = true
	default:
		pos = info.LayoutLength - float64(info.AxisCount-1-i)*info.AxisCollapseWidth
		l.NameTruncateWidth = info.AxisCollapseWidth
	}
	return pos, l
}

// EachActiveState calls fn with the brush state of every item in
// [start, end) of list. Brushing is not modeled, so all items are normal.
func (p *Parallel) EachActiveState(list *data.List, start, end int, fn func(state ActiveState, idx int)) {
	if end < 0 || end > list.Count() {
		end = list.Count()
	}
	for i := max(start, 0); i < end; i++ {
		fn(StateNormal, i)
	}
}

func restrict(v float64, extent [2]float64) float64 {
	return math.Min(math.Max(v, extent[0]), extent[1])
}

func orZero(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// Create builds one Parallel per parallel component and binds parallel
// series to them.
func Create(g *model.Global, api coord.API) []coord.Instance {
	var out []coord.Instance
	byModel := make(map[*model.ComponentModel]*Parallel)
	for _, pm := range g.Components(model.TypeParallel) {
		p := newParallel(g, pm, api)
		pm.CoordinateSystem = p
		byModel[pm] = p
		out = append(out, p)
	}
	g.EachSeries(func(s *model.SeriesModel) {
		if s.GetString("coordinateSystem") != Name && s.Type != Name {
			return
		}
		if p := byModel[g.ReferredComponent(s.Model, model.TypeParallel)]; p != nil {
			s.CoordinateSystem = p
			return
		}
		g.Warnf("series %q: parallel not found", s.Name)
	})
	return out
}
