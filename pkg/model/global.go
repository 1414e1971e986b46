package model

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/option"
)

// CoordinateSystem is the part of a coordinate system that series and
// layouts need: mapping between data values and pixel points.
type CoordinateSystem interface {
	Type() string
	// Dimensions are the coordDims the system reads, e.g. ["x", "y"].
	Dimensions() []string
	DataToPoint(values []float64) [2]float64
	PointToData(point [2]float64) []float64
}

// Component main types understood by the library.
const (
	TypeGrid         = "grid"
	TypeXAxis        = "xAxis"
	TypeYAxis        = "yAxis"
	TypePolar        = "polar"
	TypeRadiusAxis   = "radiusAxis"
	TypeAngleAxis    = "angleAxis"
	TypeRadar        = "radar"
	TypeParallel     = "parallel"
	TypeParallelAxis = "parallelAxis"
	TypeSingleAxis   = "singleAxis"
	TypeDataset      = "dataset"
)

// ComponentTypes lists the component main types in creation order.
var ComponentTypes = []string{
	TypeDataset,
	TypeGrid, TypeXAxis, TypeYAxis,
	TypePolar, TypeRadiusAxis, TypeAngleAxis,
	TypeRadar,
	TypeParallel, TypeParallelAxis,
	TypeSingleAxis,
}

// ignoredKeys are top-level option keys that carry styling or interaction
// settings this library does not model.
var ignoredKeys = map[string]bool{
	"title": true, "legend": true, "tooltip": true, "toolbox": true,
	"color": true, "backgroundColor": true, "animation": true,
	"textStyle": true, "visualMap": true, "dataZoom": true,
	"axisPointer": true, "brush": true, "graphic": true,
}

func isAxisType(mainType string) bool {
	switch mainType {
	case TypeXAxis, TypeYAxis, TypeRadiusAxis, TypeAngleAxis, TypeParallelAxis, TypeSingleAxis:
		return true
	}
	return false
}

// ComponentModel is one component of a chart, e.g. the second xAxis.
type ComponentModel struct {
	*Model
	MainType string
	SubType  string
	// Index is the position among components of the same MainType.
	Index int
	ID    string
	Name  string
	// Axis is set for axis components.
	Axis *AxisCommon
	// CoordinateSystem is set by the coordinate system created for this
	// component (grid, polar, radar, parallel, singleAxis).
	CoordinateSystem CoordinateSystem
}

// SeriesModel is one series of a chart.
type SeriesModel struct {
	*Model
	Type  string
	Index int
	ID    string
	Name  string

	// Source is the prepared data source, set by PrepareSource.
	Source *data.Source
	// Data is the series' List, set by the series' initial data step.
	Data *data.List
	// Graph holds nodes and edges for graph series.
	Graph *data.Graph
	// CoordinateSystem is assigned when coordinate systems are created.
	CoordinateSystem CoordinateSystem
	// State carries per-series layout state between passes, e.g. the
	// preserved node positions of a force layout.
	State any
	// Large is set by the scheduler when the series is laid out in large
	// mode.
	Large bool
}

// Get satisfies data.OptionGetter.
var _ data.OptionGetter = (*SeriesModel)(nil)

// GlobalOptions controls NewGlobal.
type GlobalOptions struct {
	// SeriesDefaults returns the default option of a series type, nil when
	// the type is unknown.
	SeriesDefaults func(seriesType string) *option.Map
	// Previous is the Global of the previous pass. Series with the same id
	// take over its layout State.
	Previous *Global
}

// Global is the model of a whole chart option.
type Global struct {
	*Model
	components map[string][]*ComponentModel
	series     []*SeriesModel
	warnings   []string
}

// NewGlobal splits opt into components and series. Unknown top-level keys
// and series without a type are skipped and reported through Warnings.
func NewGlobal(opt *option.Map, gopt GlobalOptions) *Global {
	g := &Global{
		Model:      New(opt, nil),
		components: make(map[string][]*ComponentModel),
	}

	known := make(map[string]bool, len(ComponentTypes))
	for _, t := range ComponentTypes {
		known[t] = true
		for i, raw := range option.ToArray(opt.Value(t)) {
			if raw == nil {
				continue
			}
			rec, ok := raw.(*option.Map)
			if !ok {
				g.Warnf("%s[%d] is not an object", t, i)
				continue
			}
			g.addComponent(t, rec)
		}
	}

	g.addImplicit(TypeGrid, TypeXAxis, TypeYAxis)
	g.addImplicit(TypePolar, TypeRadiusAxis, TypeAngleAxis)
	g.addImplicit(TypeParallel, TypeParallelAxis)

	for _, key := range opt.Keys() {
		if key != "series" && !known[key] && !ignoredKeys[key] {
			if _, isRec := opt.Value(key).(*option.Map); isRec {
				g.Warnf("unknown component type %q", key)
			}
		}
	}

	for i, raw := range option.ToArray(opt.Value("series")) {
		rec, ok := raw.(*option.Map)
		if !ok {
			g.Warnf("series[%d] is not an object", i)
			continue
		}
		typ := option.String(rec.Value("type"))
		var defaults *option.Map
		if gopt.SeriesDefaults != nil {
			defaults = gopt.SeriesDefaults(typ)
		}
		if defaults == nil {
			g.Warnf("series[%d] has unknown type %q", i, typ)
			continue
		}
		s := &SeriesModel{
			Model: New(rec, New(defaults, nil)),
			Type:  typ,
			Index: len(g.series),
			ID:    option.String(rec.Value("id")),
			Name:  option.String(rec.Value("name")),
		}
		if s.Name == "" {
			s.Name = "series" + strconv.Itoa(s.Index)
		}
		if s.ID == "" {
			s.ID = s.Name
		}
		if gopt.Previous != nil {
			if prev := gopt.Previous.SeriesByID(s.ID); prev != nil && prev.Type == s.Type {
				s.State = prev.State
			}
		}
		g.series = append(g.series, s)
	}
	return g
}

// Warnf records a configuration warning.
func (g *Global) Warnf(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the configuration problems found while building the
// model. They never prevent a layout pass.
func (g *Global) Warnings() []string { return g.warnings }

func (g *Global) addComponent(mainType string, rec *option.Map) {
	subType := option.String(rec.Value("type"))
	if isAxisType(mainType) && subType == "" {
		subType = defaultAxisType(mainType)
	}
	list := g.components[mainType]
	c := &ComponentModel{
		Model:    New(rec, New(componentDefaults(mainType, subType), nil)),
		MainType: mainType,
		SubType:  subType,
		Index:    len(list),
		ID:       option.String(rec.Value("id")),
		Name:     option.String(rec.Value("name")),
	}
	if isAxisType(mainType) {
		c.Axis = NewAxisCommon(c.Model, subType)
	}
	g.components[mainType] = append(list, c)
}

// addImplicit adds a default container component when axes of it are
// declared without one, e.g. an xAxis without a grid.
func (g *Global) addImplicit(container string, axisTypes ...string) {
	if len(g.components[container]) > 0 {
		return
	}
	for _, t := range axisTypes {
		if len(g.components[t]) > 0 {
			g.addComponent(container, option.NewMap())
			return
		}
	}
}

// Components returns all components of mainType in declaration order.
func (g *Global) Components(mainType string) []*ComponentModel {
	return g.components[mainType]
}

// Component returns the idx-th component of mainType, or nil.
func (g *Global) Component(mainType string, idx int) *ComponentModel {
	list := g.components[mainType]
	if idx < 0 || idx >= len(list) {
		return nil
	}
	return list[idx]
}

// ComponentByID returns the component of mainType with id, or nil.
func (g *Global) ComponentByID(mainType, id string) *ComponentModel {
	for _, c := range g.components[mainType] {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ReferredComponent resolves the component of mainType a model points at
// through "<mainType>Index" or "<mainType>Id", defaulting to the first.
func (g *Global) ReferredComponent(m *Model, mainType string) *ComponentModel {
	if id := m.GetString(mainType + "Id"); id != "" {
		return g.ComponentByID(mainType, id)
	}
	return g.Component(mainType, m.GetInt(mainType+"Index"))
}

// Series returns all series in declaration order.
func (g *Global) Series() []*SeriesModel { return g.series }

// SeriesByID returns the series with id, or nil.
func (g *Global) SeriesByID(id string) *SeriesModel {
	for _, s := range g.series {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// EachSeries calls fn for every series.
func (g *Global) EachSeries(fn func(s *SeriesModel)) {
	for _, s := range g.series {
		fn(s)
	}
}

// EachSeriesByType calls fn for every series of the given type.
func (g *Global) EachSeriesByType(typ string, fn func(s *SeriesModel)) {
	for _, s := range g.series {
		if s.Type == typ {
			fn(s)
		}
	}
}

// CoordSysType returns the coordinate system type a series is declared on,
// "cartesian2d" when not set.
func (s *SeriesModel) CoordSysType() string {
	if cs := s.GetString("coordinateSystem"); cs != "" {
		return cs
	}
	return "cartesian2d"
}
