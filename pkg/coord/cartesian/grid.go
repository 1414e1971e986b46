package cartesian

import (
	"math"
	"strconv"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Grid is a rectangle holding x and y axes and the cartesians they form.
type Grid struct {
	Model *model.ComponentModel

	rect       coord.Rect
	axes       []*coord.Axis
	xAxes      map[int]*coord.Axis
	yAxes      map[int]*coord.Axis
	cartesians []*Cartesian2D
	byKey      map[string]*Cartesian2D
	columns    coord.ColumnsFunc
}

var (
	_ coord.Instance = (*Grid)(nil)
	_ coord.Updater  = (*Grid)(nil)
	_ coord.Resizer  = (*Grid)(nil)
)

func newGrid(g *model.Global, gm *model.ComponentModel, columns coord.ColumnsFunc) *Grid {
	grid := &Grid{
		Model:   gm,
		xAxes:   make(map[int]*coord.Axis),
		yAxes:   make(map[int]*coord.Axis),
		byKey:   make(map[string]*Cartesian2D),
		columns: columns,
	}

	used := map[string]bool{}
	create := func(dim, mainType string, axes map[int]*coord.Axis) {
		for _, am := range g.Components(mainType) {
			if g.ReferredComponent(am.Model, model.TypeGrid) != gm {
				continue
			}
			a := coord.NewAxisFromModel(dim, am)
			a.Position = axisPosition(dim, am.GetString("position"), used)
			used[a.Position] = true
			axes[am.Index] = a
			grid.axes = append(grid.axes, a)
		}
	}
	create("x", model.TypeXAxis, grid.xAxes)
	create("y", model.TypeYAxis, grid.yAxes)

	if len(grid.xAxes) == 0 || len(grid.yAxes) == 0 {
		grid.axes = nil
		return grid
	}
	for _, xi := range sortedKeys(grid.xAxes) {
		for _, yi := range sortedKeys(grid.yAxes) {
			key := "x" + strconv.Itoa(xi) + "y" + strconv.Itoa(yi)
			c := &Cartesian2D{Key: key, grid: grid, x: grid.xAxes[xi], y: grid.yAxes[yi]}
			grid.byKey[key] = c
			grid.cartesians = append(grid.cartesians, c)
		}
	}
	return grid
}

func axisPosition(dim, pos string, used map[string]bool) string {
	if dim == "x" {
		if pos == "top" || pos == "bottom" {
			return pos
		}
		if used["bottom"] {
			return "top"
		}
		return "bottom"
	}
	if pos == "left" || pos == "right" {
		return pos
	}
	if used["left"] {
		return "right"
	}
	return "left"
}

func sortedKeys(m map[int]*coord.Axis) []int {
	keys := make([]int, 0, len(m))
	for i := 0; len(keys) < len(m); i++ {
		if _, ok := m[i]; ok {
			keys = append(keys, i)
		}
	}
	return keys
}

// Systems returns the cartesians of the grid.
func (g *Grid) Systems() []coord.System {
	out := make([]coord.System, len(g.cartesians))
	for i, c := range g.cartesians {
		out[i] = c
	}
	return out
}

// Cartesians returns the cartesians in x-major order.
func (g *Grid) Cartesians() []*Cartesian2D { return g.cartesians }

// Cartesian returns the cartesian of the given axis indices, or nil.
func (g *Grid) Cartesian(xAxisIndex, yAxisIndex int) *Cartesian2D {
	return g.byKey["x"+strconv.Itoa(xAxisIndex)+"y"+strconv.Itoa(yAxisIndex)]
}

// Axis returns the axis of dim with the given component index, or nil.
func (g *Grid) Axis(dim string, idx int) *coord.Axis {
	switch dim {
	case "x":
		return g.xAxes[idx]
	case "y":
		return g.yAxes[idx]
	}
	return nil
}

// Axes returns all axes of the grid.
func (g *Grid) Axes() []*coord.Axis { return g.axes }

// Rect returns the pixel rectangle of the grid.
func (g *Grid) Rect() coord.Rect { return g.rect }

// Update fits every axis scale to the data of the series on this grid,
// nices the extents and lays the axes out.
func (g *Grid) Update(global *model.Global, api coord.API) {
	for _, a := range g.axes {
		a.Scale.SetExtent(math.Inf(1), math.Inf(-1))
	}
	global.EachSeries(func(s *model.SeriesModel) {
		c, ok := s.CoordinateSystem.(*Cartesian2D)
		if !ok || c.grid != g || s.Data == nil {
			return
		}
		unionExtent(s.Data, c.x)
		unionExtent(s.Data, c.y)
	})

	for _, a := range g.axes {
		info := coord.GetScaleExtent(a.Scale, a.Model.Axis)
		if a.Scale.Type() == "time" && g.columns != nil {
			info.Extent[0], info.Extent[1] = coord.AdjustScaleForOverflow(
				info.Extent[0], info.Extent[1], a, g.columns(global, a))
		}
		coord.ApplyScaleExtent(a.Scale, a.Model.Axis, info)
	}
	g.Resize(api)
}

func unionExtent(list *data.List, a *coord.Axis) {
	for _, dim := range list.MapDimensionsAll(a.Dim) {
		scale.UnionExtentFromData(a.Scale, list, data.StackedDimension(list, dim))
	}
}

// Resize lays the grid out in the viewport and sets the pixel extent of
// every axis. Vertical axes grow upwards.
func (g *Grid) Resize(api coord.API) {
	g.rect = coord.LayoutRect(g.Model.Model, api.Width(), api.Height())
	r := g.rect
	for _, a := range g.axes {
		var extent [2]float64
		if a.Dim == "x" {
			extent = [2]float64{r.X, r.X + r.Width}
		} else {
			extent = [2]float64{r.Y + r.Height, r.Y}
		}
		if a.Inverse {
			extent[0], extent[1] = extent[1], extent[0]
		}
		a.SetExtent(extent[0], extent[1])
	}
}

// Factory creates grids and assigns cartesians to series.
type Factory struct {
	// Columns reports the bars placed on a time base axis, so the axis
	// extent can leave room for them. May be nil.
	Columns coord.ColumnsFunc
}

// NewFactory creates a grid factory.
func NewFactory(columns coord.ColumnsFunc) *Factory {
	return &Factory{Columns: columns}
}

// Create builds one Grid per grid component and binds every cartesian2d
// series to the cartesian of its x and y axes.
func (f *Factory) Create(g *model.Global, api coord.API) []coord.Instance {
	grids := make(map[*model.ComponentModel]*Grid)
	var out []coord.Instance
	for _, gm := range g.Components(model.TypeGrid) {
		grid := newGrid(g, gm, f.Columns)
		grid.Resize(api)
		if len(grid.cartesians) > 0 {
			gm.CoordinateSystem = grid.cartesians[0]
		}
		grids[gm] = grid
		out = append(out, grid)
	}

	g.EachSeries(func(s *model.SeriesModel) {
		if s.CoordSysType() != Name {
			return
		}
		xm := g.ReferredComponent(s.Model, model.TypeXAxis)
		ym := g.ReferredComponent(s.Model, model.TypeYAxis)
		if xm == nil || ym == nil {
			g.Warnf("series %q: xAxis or yAxis not found", s.Name)
			return
		}
		gm := g.ReferredComponent(xm.Model, model.TypeGrid)
		if gm == nil || gm != g.ReferredComponent(ym.Model, model.TypeGrid) {
			g.Warnf("series %q: xAxis and yAxis must share a grid", s.Name)
			return
		}
		if c := grids[gm].Cartesian(xm.Index, ym.Index); c != nil {
			s.CoordinateSystem = c
		}
	})
	return out
}
