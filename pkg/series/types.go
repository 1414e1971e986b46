package series

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/coord/view"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/option"
)

// Built-in series types.
const (
	TypeLine     = "line"
	TypeBar      = "bar"
	TypeScatter  = "scatter"
	TypePie      = "pie"
	TypeRadar    = "radar"
	TypeParallel = "parallel"
	TypeGraph    = "graph"
)

func builtin() []*Type {
	return []*Type{
		{
			Name:      TypeLine,
			Stackable: true,
			DefaultOption: func() *option.Map {
				return option.MapOf(
					"coordinateSystem", "cartesian2d",
					"xAxisIndex", 0.0,
					"yAxisIndex", 0.0,
					"polarIndex", 0.0,
					"clip", true,
					"symbol", "emptyCircle",
					"symbolSize", 4.0,
					"showSymbol", true,
					"smooth", false,
					"connectNulls", false,
					"step", false,
				)
			},
			InitialData: axisData(true),
		},
		{
			Name:      TypeBar,
			Stackable: true,
			DefaultOption: func() *option.Map {
				return option.MapOf(
					"coordinateSystem", "cartesian2d",
					"xAxisIndex", 0.0,
					"yAxisIndex", 0.0,
					"clip", true,
					"barMinHeight", 0.0,
					"barMinAngle", 0.0,
					"large", false,
					"largeThreshold", 400.0,
					"progressive", 3000.0,
					"progressiveChunkMode", "mod",
					"showBackground", false,
				)
			},
			InitialData: axisData(true),
		},
		{
			Name: TypeScatter,
			DefaultOption: func() *option.Map {
				return option.MapOf(
					"coordinateSystem", "cartesian2d",
					"xAxisIndex", 0.0,
					"yAxisIndex", 0.0,
					"clip", true,
					"symbolSize", 10.0,
					"large", false,
					"largeThreshold", 2000.0,
				)
			},
			InitialData: axisData(false),
		},
		{
			Name: TypePie,
			DefaultOption: func() *option.Map {
				return option.MapOf(
					"coordinateSystem", "none",
					"center", []any{"50%", "50%"},
					"radius", []any{0.0, "75%"},
					"clockwise", true,
					"startAngle", 90.0,
					"minAngle", 0.0,
					"padAngle", 0.0,
					"stillShowZeroSum", true,
					"left", 0.0,
					"top", 0.0,
					"right", 0.0,
					"bottom", 0.0,
				)
			},
			InitialData: pieData,
		},
		{
			Name: TypeRadar,
			DefaultOption: func() *option.Map {
				return option.MapOf(
					"coordinateSystem", "radar",
					"radarIndex", 0.0,
					"symbol", "emptyCircle",
					"symbolSize", 4.0,
				)
			},
			InitialData: radarData,
		},
		{
			Name: TypeParallel,
			DefaultOption: func() *option.Map {
				return option.MapOf(
					"coordinateSystem", "parallel",
					"parallelIndex", 0.0,
					"inactiveOpacity", 0.05,
					"activeOpacity", 1.0,
					"smooth", false,
					"progressive", 500.0,
				)
			},
			InitialData: parallelData,
		},
		{
			Name: TypeGraph,
			DefaultOption: func() *option.Map {
				return option.MapOf(
					"coordinateSystem", "view",
					"force", option.MapOf(
						"repulsion", []any{0.0, 50.0},
						"gravity", 0.1,
						"friction", 0.6,
						"edgeLength", 30.0,
						"layoutAnimation", true,
					),
					"left", "center",
					"top", "center",
					"symbol", "circle",
					"symbolSize", 10.0,
					"draggable", false,
					"roam", false,
					"zoom", 1.0,
					"nodeScaleRatio", 0.6,
					"lineStyle", option.MapOf(
						"width", 1.0,
						"curveness", 0.0,
						"opacity", 0.5,
					),
				)
			},
			InitialData: graphData,
		},
	}
}

// coordSysDims describes the dimensions of the coordinate system s is on.
// Dimensions on category axes are ordinal and share the axis' categories;
// dimensions on time axes are times. Series without a coordinate system
// get x and y.
func coordSysDims(s *model.SeriesModel) []data.SysDim {
	sys, ok := s.CoordinateSystem.(coord.System)
	if !ok {
		return data.SysDims("x", "y")
	}
	axes := sys.Axes()
	out := make([]data.SysDim, 0, len(sys.Dimensions()))
	for _, dim := range sys.Dimensions() {
		sd := data.SysDim{Name: dim}
		for _, a := range axes {
			if a.Dim != dim || a.Model == nil || a.Model.Axis == nil {
				continue
			}
			switch a.Model.Axis.Type() {
			case "category":
				sd.Type, sd.OrdinalMeta = data.TypeOrdinal, a.Model.Axis.OrdinalMeta()
			case "time":
				sd.Type = data.TypeTime
			}
			break
		}
		out = append(out, sd)
	}
	return out
}

func firstOrdinal(dims []data.SysDim) string {
	for _, d := range dims {
		if d.Type == data.TypeOrdinal {
			return d.Name
		}
	}
	return ""
}

// axisData reads series on axis coordinate systems (cartesian, polar,
// single axis). Plain values on a category axis are placed on the
// categories in order.
func axisData(stackable bool) func(ctx *Context, s *model.SeriesModel) error {
	return func(ctx *Context, s *model.SeriesModel) error {
		sysDims := coordSysDims(s)
		dims := data.CreateDimensions(s.Source, data.CreateOptions{
			CoordDimensions: sysDims,
			EncodeDefaulter: func(src *data.Source, _ int) *data.Encode {
				if ctx.Encode == nil {
					return nil
				}
				return ctx.Encode.ForAxisCoordSys(sysDims, src)
			},
		})
		var info data.StackInfo
		if stackable {
			dims, info = data.EnableDataStack(s, dims, data.StackOptions{})
		}
		l := data.NewList(dims)
		l.SetStackInfo(info)
		if cat := firstOrdinal(sysDims); cat != "" && data.NeedsOrdinalIndex(s.Source) {
			l.UseIndexAsValue(l.MapDimension(cat))
		}
		l.InitData(s.Source, nil)
		s.Data = l
		return nil
	}
}

func pieData(ctx *Context, s *model.SeriesModel) error {
	dims := data.CreateDimensions(s.Source, data.CreateOptions{
		CoordDimensions: data.SysDims("value"),
		EncodeDefaulter: func(src *data.Source, dimCount int) *data.Encode {
			if ctx.Encode == nil {
				return nil
			}
			return ctx.Encode.ForNameBased(src, dimCount)
		},
	})
	l := data.NewList(dims)
	l.InitData(s.Source, nil)
	s.Data = l
	return nil
}

// radarData reads one value per indicator: the n-th value of an item is
// on indicator n.
func radarData(_ *Context, s *model.SeriesModel) error {
	dims := data.CreateDimensions(s.Source, data.CreateOptions{
		GenerateCoord:      "indicator_",
		GenerateCoordCount: math.MaxInt32,
	})
	l := data.NewList(dims)
	l.InitData(s.Source, nil)
	s.Data = l
	return nil
}

// parallelData reads series on parallel coordinates. Without an explicit
// encode the axis declared with dim n reads column n.
func parallelData(ctx *Context, s *model.SeriesModel) error {
	sysDims := coordSysDims(s)
	encode := s.Source.EncodeDefine
	if encode == nil {
		if _, ok := s.CoordinateSystem.(coord.System); ok {
			encode = data.NewEncode()
			for i, d := range sysDims {
				encode.Set(d.Name, parallelColumn(d.Name, i))
			}
		}
	}
	dims := data.CreateDimensions(s.Source, data.CreateOptions{
		CoordDimensions: sysDims,
		EncodeDefine:    encode,
	})
	l := data.NewList(dims)
	l.InitData(s.Source, nil)
	s.Data = l
	return nil
}

// parallelColumn turns a parallel dimension name "dimN" into N.
func parallelColumn(dim string, fallback int) int {
	n := 0
	if len(dim) <= 3 || dim[:3] != "dim" {
		return fallback
	}
	for _, c := range dim[3:] {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// graphData builds the node List, the edge List and the Graph of a graph
// series. Links refer to nodes by id, name or index; links to unknown
// nodes are dropped with a warning.
func graphData(ctx *Context, s *model.SeriesModel) error {
	coordDims := data.SysDims("value")
	if sys, ok := s.CoordinateSystem.(coord.System); ok && sys.Type() != view.Name {
		coordDims = coordSysDims(s)
	}
	nodeDims := data.CreateDimensions(s.Source, data.CreateOptions{
		CoordDimensions: coordDims,
		EncodeDefine:    s.Source.EncodeDefine,
	})
	nodes := data.NewList(nodeDims)
	nodes.InitData(s.Source, nil)

	g := data.NewGraph(true)
	g.NodeData = nodes
	for i := 0; i < nodes.Count(); i++ {
		id := nodes.GetID(i)
		if g.Node(id) != nil {
			ctx.Global.Warnf("series %q: duplicate node %q", s.Name, id)
		}
		g.AddNode(id, i)
	}

	rawLinks := s.Get("links")
	if rawLinks == nil {
		rawLinks = s.Get("edges")
	}
	var links []any
	for i, raw := range option.ToArray(rawLinks) {
		m, _ := raw.(*option.Map)
		if m == nil {
			ctx.Global.Warnf("series %q: link %d is not an object", s.Name, i)
			continue
		}
		from, ok1 := nodeRef(nodes, m.Value("source"))
		to, ok2 := nodeRef(nodes, m.Value("target"))
		if !ok1 || !ok2 {
			ctx.Global.Warnf("series %q: link %d refers to an unknown node", s.Name, i)
			continue
		}
		if _, err := g.AddEdge(from, to, len(links)); err != nil {
			ctx.Global.Warnf("series %q: link %d: %v", s.Name, i, err)
			continue
		}
		links = append(links, m)
	}

	edgeSrc := data.NewSourceWithFormat(links, data.FormatOriginal, data.SourceMeta{}, nil)
	edges := data.NewList(data.CreateDimensions(edgeSrc, data.CreateOptions{
		CoordDimensions: data.SysDims("value"),
	}))
	edges.InitData(edgeSrc, nil)
	g.EdgeData = edges

	s.Data = nodes
	s.Graph = g
	return nil
}

// nodeRef resolves a link end to a node id. Numbers address nodes by
// index.
func nodeRef(nodes *data.List, ref any) (string, bool) {
	switch v := ref.(type) {
	case float64:
		idx := int(v)
		if idx < 0 || idx >= nodes.Count() || float64(idx) != v {
			return "", false
		}
		return nodes.GetID(idx), true
	case string:
		if v == "" {
			return "", false
		}
		for i := 0; i < nodes.Count(); i++ {
			if nodes.GetID(i) == v {
				return v, true
			}
		}
		if i := nodes.IndexOfName(v); i >= 0 {
			return nodes.GetID(i), true
		}
	}
	return "", false
}
