// Package coord defines coordinate systems: the objects that translate
// between data values and pixel points.
//
// # Contract
//
// A [System] maps data to points and back and exposes its axes. Systems
// are created by a [Factory] registered under a name ("cartesian2d",
// "polar", "radar", "parallel", "singleAxis", "view") in a [Registry].
// A factory returns [Instance] values: a single system, or a container
// such as a grid that holds several cartesians.
//
// Instances may implement [Updater] to fit their scales to the series
// data and [Resizer] to recompute pixel extents for a new viewport. The
// [Manager] drives both for a whole chart:
//
//	reg := coord.NewRegistry()
//	reg.Register("cartesian2d", cartesian.NewFactory(nil))
//	mgr := coord.NewManager(reg)
//	mgr.Create(global, coord.Viewport{W: 800, H: 600})
//	mgr.Update(global, api)
//
// # Axis helpers
//
// [GetScaleExtent], [NiceScaleExtent] and [CreateScaleByModel] turn an
// axis option plus the union of its series' data extents into a scale
// with a nice extent. Blank scales (no data, no categories) are flagged
// through [scale.Scale.SetBlank].
package coord

import (
	"github.com/matzehuels/chartcore/pkg/model"
)

// API exposes the viewport to coordinate systems.
type API interface {
	Width() float64
	Height() float64
}

// Viewport is a fixed-size API.
type Viewport struct {
	W, H float64
}

func (v Viewport) Width() float64  { return v.W }
func (v Viewport) Height() float64 { return v.H }

// System is a live coordinate system.
type System interface {
	model.CoordinateSystem
	Axes() []*Axis
}

// BaseAxisSystem is implemented by systems with a category-like base axis
// that bars and stacks are laid out along.
type BaseAxisSystem interface {
	System
	BaseAxis() *Axis
	OtherAxis(axis *Axis) *Axis
}

// Instance is what a Factory creates.
type Instance interface {
	// Systems returns the coordinate systems this instance owns.
	Systems() []System
}

// Updater is implemented by instances whose scales follow series data.
type Updater interface {
	Update(g *model.Global, api API)
}

// Resizer is implemented by instances laid out relative to the viewport.
type Resizer interface {
	Resize(api API)
}

// Factory creates the coordinate system instances of one type for a chart
// and assigns them to the series that use them. Problems such as a series
// referring to a missing axis are reported through g.Warnf.
type Factory interface {
	Create(g *model.Global, api API) []Instance
}

// FactoryFunc adapts a function to a Factory.
type FactoryFunc func(g *model.Global, api API) []Instance

func (f FactoryFunc) Create(g *model.Global, api API) []Instance { return f(g, api) }

// ColumnSpan is the placement of one bar column relative to a category
// band center.
type ColumnSpan struct {
	Offset float64 `json:"offset"`
	Width  float64 `json:"width"`
}

// ColumnsFunc returns the bar columns placed on axis, nil when none.
type ColumnsFunc func(g *model.Global, axis *Axis) []ColumnSpan
