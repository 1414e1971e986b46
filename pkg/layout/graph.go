package layout

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/coord/view"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/layout/force"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/option"
)

// Graph node layouts are Points and edge layouts are []Point: both ends,
// then the control points of a curved edge. Positions on a view are in the
// view's source units; View.DataToPoint maps them to pixels.

const defaultNodeScaleRatio = 0.6

// ForceState is what a graph series with a force layout keeps in
// SeriesModel.State between passes.
type ForceState struct {
	Simulation *force.Simulation
	// PreservedPoints are the latest node positions by node id.
	PreservedPoints map[string]force.Vec

	// ids are the node ids Simulation was built for, in data order.
	ids []string
}

// resumable reports whether the simulation of st can continue on graph g:
// the same nodes in the same order and the same number of edges.
func (st *ForceState) resumable(g *data.Graph) bool {
	if st == nil || st.Simulation == nil || len(st.ids) != g.NodeData.Count() {
		return false
	}
	if len(st.Simulation.Edges()) != len(g.Edges) {
		return false
	}
	for idx, id := range st.ids {
		if g.NodeData.GetID(idx) != id {
			return false
		}
	}
	return true
}

func forceState(s *model.SeriesModel) *ForceState {
	st, _ := s.State.(*ForceState)
	return st
}

func itemModel(l *data.List, idx int, parent *model.Model) *model.Model {
	m, _ := l.GetRawItem(idx).(*option.Map)
	return model.New(m, parent)
}

func nanPoint() Point { return Point{math.NaN(), math.NaN()} }

func nodePoint(g *data.Graph, n *data.GraphNode) Point {
	if p, ok := g.NodeData.ItemLayout(n.DataIndex).(Point); ok {
		return p
	}
	return nanPoint()
}

// symbolSize reads a node's symbolSize; a [width, height] pair counts as
// their mean.
func symbolSize(m *model.Model) float64 {
	switch v := m.Get("symbolSize").(type) {
	case []any:
		switch len(v) {
		case 0:
			return math.NaN()
		case 1:
			return option.ToFloat(v[0])
		}
		return (option.ToFloat(v[0]) + option.ToFloat(v[1])) / 2
	default:
		return option.ToFloat(v)
	}
}

// nodeGlobalScale converts symbol pixels to view source units. Roaming
// scales symbols by nodeScaleRatio of the zoom only.
func nodeGlobalScale(s *model.SeriesModel) float64 {
	v, ok := s.CoordinateSystem.(*view.View)
	if !ok {
		return 1
	}
	ratio := floatOr(s.Model, "nodeScaleRatio", defaultNodeScaleRatio)
	nodeScale := (v.Zoom()-1)*ratio + 1
	return nodeScale / v.ScaleX()
}

// cubicPosition returns the point at distance radius from center in the
// direction of pt.
func cubicPosition(pt, center force.Vec, radius float64) force.Vec {
	return center.Add(pt.Sub(center).Normalize().Scale(radius))
}

func unitAt(degree float64) force.Vec {
	r := degree * radian
	return force.Vec{math.Cos(r), math.Sin(r)}
}

// selfLoopControlPoints places the two control points of a self-loop on
// node n. The loop goes between the two neighbors that are furthest apart
// in direction, or above the node when it has at most one neighbor.
func selfLoopControlPoints(g *data.Graph, n *data.GraphNode, radius float64) (Point, Point) {
	p := force.Vec(nodePoint(g, n))
	var dirs []force.Vec
	for _, e := range n.InEdges {
		if e.Node1 != e.Node2 {
			dirs = append(dirs, force.Vec(nodePoint(g, e.Node1)).Sub(p).Normalize())
		}
	}
	for _, e := range n.OutEdges {
		if e.Node1 != e.Node2 {
			dirs = append(dirs, force.Vec(nodePoint(g, e.Node2)).Sub(p).Normalize())
		}
	}
	if len(dirs) <= 1 {
		return Point{p[0] - radius*2, p[1] - radius*4}, Point{p[0] + radius*2, p[1] - radius*4}
	}

	d := math.Inf(-1)
	var u1, u2 force.Vec
	for i := range dirs {
		for j := i + 1; j < len(dirs); j++ {
			if ds := dirs[i].DistSquare(dirs[j]); ds > d {
				d, u1, u2 = ds, dirs[i], dirs[j]
			}
		}
	}
	pt1 := p.Add(u1.Scale(radius))
	pt2 := p.Add(u2.Scale(radius))
	far := 10 * radius
	cp1 := cubicPosition(pt1, p, far)
	cp2 := cubicPosition(pt2, p, far)
	// Wider than sixty degrees: open the loop by sixty degrees around the
	// bisector instead.
	if u1.DistSquare(u2) > math.Sqrt(3) {
		mid := cp1.Add(cp2).Scale(0.5).Sub(p)
		degree := math.Atan2(mid[1], mid[0]) / radian
		cp1 = p.Add(unitAt(degree - 30).Scale(far))
		cp2 = p.Add(unitAt(degree + 30).Scale(far))
	}
	return Point(cp1), Point(cp2)
}

// curveControlPoint offsets the middle of p1 and p2 perpendicular to the
// edge by curveness times its length.
func curveControlPoint(p1, p2 Point, curveness float64) Point {
	return Point{
		(p1[0]+p2[0])/2 - (p1[1]-p2[1])*curveness,
		(p1[1]+p2[1])/2 - (p2[0]-p1[0])*curveness,
	}
}

func edgeCurveness(g *data.Graph, e *data.GraphEdge, s *model.SeriesModel) float64 {
	c := itemModel(g.EdgeData, e.DataIndex, s.Model).GetFloat("lineStyle", "curveness")
	if math.IsNaN(c) {
		return 0
	}
	return c
}

func selfLoopRadius(g *data.Graph, n *data.GraphNode, s *model.SeriesModel) float64 {
	size := symbolSize(itemModel(g.NodeData, n.DataIndex, s.Model))
	return nodeGlobalScale(s) * size / 2
}

// layoutStraightEdges lays out the edges of g from the current node
// positions.
func layoutStraightEdges(g *data.Graph, s *model.SeriesModel) {
	for _, e := range g.Edges {
		p1, p2 := nodePoint(g, e.Node1), nodePoint(g, e.Node2)
		points := []Point{p1, p2}
		if c := edgeCurveness(g, e, s); c != 0 {
			points = append(points, curveControlPoint(p1, p2, c))
		}
		g.EdgeData.SetItemLayout(e.DataIndex, points)
	}
}

// =============================================================================
// Simple layout
// =============================================================================

// GraphSimpleLayout places graph nodes where their data puts them: at their
// x and y options on a view, or through any other coordinate system from
// their values. It runs for layout "none" or no layout.
func GraphSimpleLayout() Task {
	return Task{
		Name:       "graph.simpleLayout",
		SeriesType: "graph",
		Reset: func(_ *Context, s *model.SeriesModel) Progress {
			if s.Graph == nil {
				return nil
			}
			if l := s.GetString("layout"); l != "" && l != "none" {
				return nil
			}
			if sys, ok := s.CoordinateSystem.(coord.System); ok && sys.Type() != view.Name {
				layoutNodesOn(sys, s.Graph.NodeData)
			} else {
				simpleLayout(s)
			}
			layoutStraightEdges(s.Graph, s)
			return nil
		},
	}
}

func simpleLayout(s *model.SeriesModel) {
	g := s.Graph
	for _, n := range g.Nodes {
		m := itemModel(g.NodeData, n.DataIndex, nil)
		g.NodeData.SetItemLayout(n.DataIndex, Point{m.GetFloat("x"), m.GetFloat("y")})
	}
}

func layoutNodesOn(sys coord.System, l *data.List) {
	var dims []string
	for _, d := range sys.Dimensions() {
		dims = append(dims, l.MapDimensionsAll(d)...)
	}
	for idx, n := 0, l.Count(); idx < n; idx++ {
		values := l.GetValues(dims, idx)
		hasValue := false
		for _, v := range values {
			if !math.IsNaN(v) {
				hasValue = true
				break
			}
		}
		if !hasValue {
			l.SetItemLayout(idx, nanPoint())
			continue
		}
		l.SetItemLayout(idx, Point(sys.DataToPoint(values)))
	}
}

// =============================================================================
// Circular layout
// =============================================================================

// GraphCircularLayout places the nodes of graph series with layout
// "circular" on the circle inscribed in their view, each taking an arc as
// wide as its symbol.
func GraphCircularLayout() Task {
	return Task{
		Name:       "graph.circularLayout",
		SeriesType: "graph",
		Reset: func(_ *Context, s *model.SeriesModel) Progress {
			v, ok := s.CoordinateSystem.(*view.View)
			if !ok || s.Graph == nil || s.GetString("layout") != "circular" {
				return nil
			}
			circularLayout(s, v, "symbolSize")
			return nil
		},
	}
}

// circularLayout spreads the nodes around the circle by their value, or by
// their symbol size. Curved edges bend towards the circle center.
func circularLayout(s *model.SeriesModel, v *view.View, basedOn string) {
	g := s.Graph
	nodeData := g.NodeData
	rect := v.BoundingRect()
	cx := rect.Width/2 + rect.X
	cy := rect.Height/2 + rect.Y
	r := math.Min(rect.Width, rect.Height) / 2
	count := nodeData.Count()

	nodeData.SetLayout(KeyCenter, Point{cx, cy})
	if count == 0 {
		return
	}

	halves := make([]float64, len(g.Nodes))
	switch basedOn {
	case "value":
		valueDim := nodeData.MapDimension("value")
		sum := nodeData.Sum(valueDim)
		unit := math.Pi * 2 / float64(count)
		if sum != 0 {
			unit = math.Pi * 2 / sum
		}
		for i, n := range g.Nodes {
			w := 1.0
			if sum != 0 {
				w = nodeData.Get(valueDim, n.DataIndex)
			}
			halves[i] = unit * w / 2
		}
	default:
		scale := nodeGlobalScale(s)
		sumRadian := 0.0
		for i, n := range g.Nodes {
			size := symbolSize(itemModel(nodeData, n.DataIndex, s.Model))
			if math.IsNaN(size) {
				size = 2
			}
			size = math.Max(size, 0) * scale
			half := math.Asin(size / 2 / r)
			// The symbol is wider than the circle.
			if math.IsNaN(half) {
				half = math.Pi / 2
			}
			halves[i] = half
			sumRadian += half * 2
		}
		halfRemain := (2*math.Pi - sumRadian) / float64(count) / 2
		for i := range halves {
			halves[i] += halfRemain
		}
	}

	angle := 0.0
	for i, n := range g.Nodes {
		angle += halves[i]
		nodeData.SetItemLayout(n.DataIndex, Point{r*math.Cos(angle) + cx, r*math.Sin(angle) + cy})
		angle += halves[i]
	}

	for _, e := range g.Edges {
		p1, p2 := nodePoint(g, e.Node1), nodePoint(g, e.Node2)
		points := []Point{p1, p2}
		switch c := edgeCurveness(g, e, s); {
		case e.Node1 == e.Node2:
			cp1, cp2 := selfLoopControlPoints(g, e.Node1, selfLoopRadius(g, e.Node1, s))
			points = append(points, cp1, cp2)
		case c != 0:
			c *= 3
			points = append(points, Point{
				cx*c + (p1[0]+p2[0])/2*(1-c),
				cy*c + (p1[1]+p2[1])/2*(1-c),
			})
		}
		g.EdgeData.SetItemLayout(e.DataIndex, points)
	}
}

// =============================================================================
// Force layout
// =============================================================================

// GraphForceLayout runs a force simulation for graph series with layout
// "force". A pass over the same nodes and edges as the previous one
// continues its simulation, so friction keeps cooling and a stopped
// simulation stays stopped. Otherwise nodes start from the positions of the previous pass when there
// is one, otherwise from force.initLayout ("none" or "circular"); nodes
// without a position start at random. Node repulsion and edge length map
// linearly from the data values, larger edge values giving shorter edges.
func GraphForceLayout() Task {
	return Task{
		Name:       "graph.forceLayout",
		SeriesType: "graph",
		Reset: func(ctx *Context, s *model.SeriesModel) Progress {
			v, ok := s.CoordinateSystem.(*view.View)
			if !ok || s.Graph == nil {
				return nil
			}
			if s.GetString("layout") != "force" {
				if st := forceState(s); st != nil {
					st.Simulation = nil
				}
				return nil
			}
			sim := resumeForceSimulation(s)
			if sim == nil {
				sim = newForceSimulation(ctx, s, v)
			}
			steps := ctx.ForceSteps
			if steps < 0 {
				steps = 1
			}
			sim.Run(steps)
			return nil
		},
	}
}

// valueRange reads a number or a [min, max] pair.
func valueRange(v any) [2]float64 {
	if arr, ok := v.([]any); ok && len(arr) >= 2 {
		return [2]float64{option.ToFloat(arr[0]), option.ToFloat(arr[1])}
	}
	f := option.ToFloat(v)
	return [2]float64{f, f}
}

func mapOrMean(v float64, extent, rng [2]float64) float64 {
	out := numeric.LinearMap(v, extent, rng, false)
	if math.IsNaN(out) {
		return (rng[0] + rng[1]) / 2
	}
	return out
}

func newForceSimulation(ctx *Context, s *model.SeriesModel, v *view.View) *force.Simulation {
	g := s.Graph
	nodeData, edgeData := g.NodeData, g.EdgeData
	forceModel := s.GetModel("force")

	preserved := make(map[string]force.Vec)
	if prev := forceState(s); prev != nil && prev.PreservedPoints != nil {
		preserved = prev.PreservedPoints
		for idx, n := 0, nodeData.Count(); idx < n; idx++ {
			p, ok := preserved[nodeData.GetID(idx)]
			if !ok {
				p = force.Vec(nanPoint())
			}
			nodeData.SetItemLayout(idx, Point(p))
		}
	} else if forceModel.GetString("initLayout") == "circular" {
		circularLayout(s, v, "value")
	} else {
		simpleLayout(s)
	}

	nodeValue := nodeData.MapDimension("value")
	edgeValue := edgeData.MapDimension("value")
	nodeExtent := nodeData.DataExtent(nodeValue)
	edgeExtent := edgeData.DataExtent(edgeValue)
	repulsion := valueRange(forceModel.Get("repulsion"))
	edgeLength := valueRange(forceModel.Get("edgeLength"))
	edgeLength[0], edgeLength[1] = edgeLength[1], edgeLength[0]

	nodes := make([]*force.Node, nodeData.Count())
	for idx := range nodes {
		rep := mapOrMean(nodeData.Get(nodeValue, idx), nodeExtent, repulsion)
		p, ok := nodeData.ItemLayout(idx).(Point)
		if !ok {
			p = nanPoint()
		}
		nodes[idx] = &force.Node{
			P:     force.Vec(p),
			W:     rep,
			Rep:   rep,
			Fixed: itemModel(nodeData, idx, nil).GetBool("fixed"),
		}
	}
	edges := make([]*force.Edge, len(g.Edges))
	for i, e := range g.Edges {
		m := itemModel(edgeData, e.DataIndex, s.Model)
		edges[i] = &force.Edge{
			N1:                nodes[e.Node1.DataIndex],
			N2:                nodes[e.Node2.DataIndex],
			D:                 mapOrMean(edgeData.Get(edgeValue, e.DataIndex), edgeExtent, edgeLength),
			Curveness:         edgeCurveness(g, e, s),
			IgnoreForceLayout: m.GetBool("ignoreForceLayout"),
		}
	}

	sim := force.New(nodes, edges, force.Options{
		Rect:     v.BoundingRect(),
		Gravity:  floatOr(forceModel, "gravity", force.DefaultGravity),
		Friction: floatOr(forceModel, "friction", force.DefaultFriction),
		Rand:     ctx.Rand,
	})
	bindForceSimulation(s, sim, preserved)
	return sim
}

// resumeForceSimulation returns the simulation of the previous pass bound
// to the data of s, or nil when it cannot continue.
func resumeForceSimulation(s *model.SeriesModel) *force.Simulation {
	prev := forceState(s)
	if !prev.resumable(s.Graph) {
		return nil
	}
	sim := prev.Simulation
	nodeData := s.Graph.NodeData
	for idx, n := range sim.Nodes() {
		nodeData.SetItemLayout(idx, Point(n.P))
	}
	after := bindForceSimulation(s, sim, prev.PreservedPoints)
	after(sim.Nodes(), sim.Edges(), sim.Stopped())
	return sim
}

// bindForceSimulation points the step callbacks of sim at the lists of s
// and records sim as its state. It returns the after-step callback.
func bindForceSimulation(s *model.SeriesModel, sim *force.Simulation, preserved map[string]force.Vec) force.AfterStepFunc {
	g := s.Graph
	nodeData, edgeData := g.NodeData, g.EdgeData
	ids := make([]string, nodeData.Count())
	for idx := range ids {
		ids[idx] = nodeData.GetID(idx)
	}
	// Fixed nodes follow their layout, which a drag may have moved.
	sim.BeforeStep(func(nodes []*force.Node, _ []*force.Edge) {
		for idx, n := range nodes {
			if !n.Fixed {
				continue
			}
			if p, ok := nodeData.ItemLayout(idx).(Point); ok && !force.Vec(p).IsNaN() {
				n.P = force.Vec(p)
			}
		}
	})
	after := func(nodes []*force.Node, edges []*force.Edge, _ bool) {
		for idx, n := range nodes {
			if !n.Fixed {
				nodeData.SetItemLayout(idx, Point(n.P))
			}
			preserved[nodeData.GetID(idx)] = n.P
		}
		for i, fe := range edges {
			e := g.Edges[i]
			p1, p2 := Point(fe.N1.P), Point(fe.N2.P)
			points := []Point{p1, p2}
			switch {
			case fe.N1 == fe.N2:
				cp1, cp2 := selfLoopControlPoints(g, e.Node1, selfLoopRadius(g, e.Node1, s))
				points = append(points, cp1, cp2)
			case fe.Curveness != 0:
				points = append(points, curveControlPoint(p1, p2, fe.Curveness))
			}
			edgeData.SetItemLayout(e.DataIndex, points)
		}
	}
	sim.AfterStep(after)

	s.State = &ForceState{Simulation: sim, PreservedPoints: preserved, ids: ids}
	return after
}
