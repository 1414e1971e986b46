package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/chartcore/pkg/coord/view"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/layout/force"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/option"
)

// prepareGraph builds views and node and edge Lists for the graph series
// of doc. prev is the Global of the previous pass, or nil.
func prepareGraph(t *testing.T, doc string, prev *model.Global) *model.Global {
	t.Helper()
	opt, err := model.LoadOption([]byte(doc), model.FormatJSON)
	if err != nil {
		t.Fatalf("LoadOption: %v", err)
	}
	g := model.NewGlobal(opt, model.GlobalOptions{
		SeriesDefaults: func(string) *option.Map { return option.NewMap() },
		Previous:       prev,
	})
	view.Create(g, viewport)

	valueDims := data.CreateOptions{CoordDimensions: []data.SysDim{{Name: "value"}}}
	g.EachSeries(func(s *model.SeriesModel) {
		nodeSrc := data.SourceFromSeriesData(s.Get("nodes"))
		nodes := data.NewList(data.CreateDimensions(nodeSrc, valueDims))
		nodes.InitData(nodeSrc, nil)
		edgeSrc := data.SourceFromSeriesData(s.Get("links"))
		edges := data.NewList(data.CreateDimensions(edgeSrc, valueDims))
		edges.InitData(edgeSrc, nil)

		gr := data.NewGraph(true)
		gr.NodeData, gr.EdgeData = nodes, edges
		for i := 0; i < nodes.Count(); i++ {
			gr.AddNode(nodes.GetID(i), i)
		}
		for i := 0; i < edges.Count(); i++ {
			m := edges.GetRawItem(i).(*option.Map)
			if _, err := gr.AddEdge(option.String(m.Value("source")), option.String(m.Value("target")), i); err != nil {
				t.Fatalf("AddEdge: %v", err)
			}
		}
		s.Graph, s.Data = gr, nodes
	})
	return g
}

func runGraph(g *model.Global, steps int, tasks ...Task) {
	ctx := &Context{Global: g, API: viewport, ForceSteps: steps}
	for _, task := range tasks {
		g.EachSeries(func(s *model.SeriesModel) {
			if task.Applies(s) {
				task.Reset(ctx, s)
			}
		})
	}
}

func nodeAt(t *testing.T, s *model.SeriesModel, idx int) Point {
	t.Helper()
	p, ok := s.Graph.NodeData.ItemLayout(idx).(Point)
	if !ok {
		t.Fatalf("node %d layout = %v, want Point", idx, s.Graph.NodeData.ItemLayout(idx))
	}
	return p
}

func edgeAt(t *testing.T, s *model.SeriesModel, idx int) []Point {
	t.Helper()
	pts, ok := s.Graph.EdgeData.ItemLayout(idx).([]Point)
	if !ok {
		t.Fatalf("edge %d layout = %v, want []Point", idx, s.Graph.EdgeData.ItemLayout(idx))
	}
	return pts
}

func approxPoint(a, b Point) bool { return approx(a[0], b[0]) && approx(a[1], b[1]) }

func TestGraphSimpleLayout(t *testing.T) {
	g := prepareGraph(t, `{"series": [{
		"type": "graph", "coordinateSystem": "view",
		"nodes": [{"name": "a", "x": 0, "y": 0}, {"name": "b", "x": 100, "y": 0}],
		"links": [
			{"source": "a", "target": "b"},
			{"source": "b", "target": "a", "lineStyle": {"curveness": 0.2}}
		]
	}]}`, nil)
	runGraph(g, 0, GraphSimpleLayout())
	s := g.Series()[0]

	if got := nodeAt(t, s, 1); got != (Point{100, 0}) {
		t.Errorf("node b = %v, want [100 0]", got)
	}
	if got := edgeAt(t, s, 0); len(got) != 2 || got[0] != (Point{0, 0}) || got[1] != (Point{100, 0}) {
		t.Errorf("straight edge = %v", got)
	}
	curved := edgeAt(t, s, 1)
	if len(curved) != 3 || !approxPoint(curved[2], Point{50, 20}) {
		t.Errorf("curved edge = %v, want control point [50 20]", curved)
	}
}

func TestGraphSimpleLayoutSkipsOtherLayouts(t *testing.T) {
	g := prepareGraph(t, `{"series": [{
		"type": "graph", "coordinateSystem": "view", "layout": "circular",
		"nodes": [{"name": "a", "x": 3, "y": 4}]
	}]}`, nil)
	runGraph(g, 0, GraphSimpleLayout())
	if l := g.Series()[0].Graph.NodeData.ItemLayout(0); l != nil {
		t.Errorf("layout = %v, want none", l)
	}
}

func TestGraphCircularLayout(t *testing.T) {
	g := prepareGraph(t, `{"series": [{
		"type": "graph", "coordinateSystem": "view", "layout": "circular", "symbolSize": 0,
		"nodes": [{"name": "a"}, {"name": "b"}, {"name": "c"}, {"name": "d"}],
		"links": [{"source": "a", "target": "c", "lineStyle": {"curveness": 0.1}}]
	}]}`, nil)
	runGraph(g, 0, GraphCircularLayout())
	s := g.Series()[0]
	rect := s.CoordinateSystem.(*view.View).BoundingRect()
	cx, cy := rect.X+rect.Width/2, rect.Y+rect.Height/2
	r := math.Min(rect.Width, rect.Height) / 2

	if c, _ := s.Graph.NodeData.Layout(KeyCenter).(Point); c != (Point{cx, cy}) {
		t.Errorf("center = %v, want [%v %v]", c, cx, cy)
	}
	for i := range 4 {
		angle := math.Pi/4 + float64(i)*math.Pi/2
		want := Point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
		if got := nodeAt(t, s, i); !approxPoint(got, want) {
			t.Errorf("node %d = %v, want %v", i, got, want)
		}
	}

	edge := edgeAt(t, s, 0)
	a, c := nodeAt(t, s, 0), nodeAt(t, s, 2)
	want := Point{cx*0.3 + (a[0]+c[0])/2*0.7, cy*0.3 + (a[1]+c[1])/2*0.7}
	if len(edge) != 3 || !approxPoint(edge[2], want) {
		t.Errorf("edge = %v, want control point %v", edge, want)
	}
}

func TestSelfLoopControlPoints(t *testing.T) {
	tests := []struct {
		name     string
		links    string
		cp1, cp2 func(p Point, r float64) Point
	}{
		{
			name:  "above lone node",
			links: `{"source": "a", "target": "a"}, {"source": "a", "target": "b"}`,
			cp1:   func(p Point, r float64) Point { return Point{p[0] - 2*r, p[1] - 4*r} },
			cp2:   func(p Point, r float64) Point { return Point{p[0] + 2*r, p[1] - 4*r} },
		},
		{
			name:  "between wide neighbors",
			links: `{"source": "a", "target": "a"}, {"source": "a", "target": "b"}, {"source": "c", "target": "a"}`,
			cp1: func(p Point, r float64) Point {
				return Point{p[0] + 10*r*math.Cos(15*radian), p[1] + 10*r*math.Sin(15*radian)}
			},
			cp2: func(p Point, r float64) Point {
				return Point{p[0] + 10*r*math.Cos(75*radian), p[1] + 10*r*math.Sin(75*radian)}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := prepareGraph(t, `{"series": [{
				"type": "graph", "coordinateSystem": "view", "symbolSize": 10,
				"nodes": [{"name": "a", "x": 0, "y": 0}, {"name": "b", "x": 100, "y": 0}, {"name": "c", "x": 0, "y": 100}],
				"links": [`+tt.links+`]
			}]}`, nil)
			runGraph(g, 0, GraphSimpleLayout())
			s := g.Series()[0]
			n := s.Graph.Node("a")
			r := nodeGlobalScale(s) * 5

			cp1, cp2 := selfLoopControlPoints(s.Graph, n, r)
			p := nodeAt(t, s, 0)
			if want := tt.cp1(p, r); !approxPoint(cp1, want) {
				t.Errorf("cp1 = %v, want %v", cp1, want)
			}
			if want := tt.cp2(p, r); !approxPoint(cp2, want) {
				t.Errorf("cp2 = %v, want %v", cp2, want)
			}
		})
	}
}

const forceDoc = `{"series": [{
	"type": "graph", "id": "g", "coordinateSystem": "view", "layout": "force",
	"force": {"repulsion": 50, "gravity": 0.1, "edgeLength": 100},
	"nodes": [{"name": "a", "value": 1}, {"name": "b", "value": 2}],
	"links": [{"source": "a", "target": "b", "lineStyle": {"curveness": 0.3}}]
}]}`

func TestGraphForceLayout(t *testing.T) {
	g := prepareGraph(t, forceDoc, nil)
	runGraph(g, 0, GraphForceLayout())
	s := g.Series()[0]

	st, ok := s.State.(*ForceState)
	if !ok || st.Simulation == nil {
		t.Fatalf("State = %v, want *ForceState with a simulation", s.State)
	}
	if !st.Simulation.Stopped() {
		t.Error("simulation did not stop")
	}
	a, b := nodeAt(t, s, 0), nodeAt(t, s, 1)
	if d := force.Vec(b).Sub(force.Vec(a)).Len(); d < 85 || d > 100 {
		t.Errorf("node distance = %v, want close to the edge length", d)
	}
	if st.PreservedPoints["a"] != force.Vec(a) || st.PreservedPoints["b"] != force.Vec(b) {
		t.Errorf("PreservedPoints = %v", st.PreservedPoints)
	}

	edge := edgeAt(t, s, 0)
	if len(edge) != 3 || edge[0] != a || edge[1] != b {
		t.Fatalf("edge = %v, want ends at the nodes", edge)
	}
	if want := curveControlPoint(a, b, 0.3); !approxPoint(edge[2], want) {
		t.Errorf("control point = %v, want %v", edge[2], want)
	}
}

func TestGraphForceLayoutResumesFromPreviousPass(t *testing.T) {
	const doc = `{"series": [{
		"type": "graph", "id": "g", "coordinateSystem": "view", "layout": "force",
		"force": {"repulsion": 50, "gravity": 0.1, "edgeLength": 30},
		"nodes": [{"name": "a", "fixed": true}, {"name": "b"}` + "%s" + `],
		"links": [{"source": "a", "target": "b"}]
	}]}`
	first := prepareGraph(t, fmt.Sprintf(doc, ""), nil)
	runGraph(first, 10, GraphForceLayout())
	pinned := first.Series()[0].State.(*ForceState).PreservedPoints["a"]

	second := prepareGraph(t, fmt.Sprintf(doc, `, {"name": "c"}`), first)
	runGraph(second, 1, GraphForceLayout())
	s := second.Series()[0]

	if got := nodeAt(t, s, 0); got != Point(pinned) {
		t.Errorf("fixed node = %v, want preserved %v", got, pinned)
	}
	if c := nodeAt(t, s, 2); force.Vec(c).IsNaN() {
		t.Error("new node was not placed")
	}
	if st := s.State.(*ForceState); len(st.PreservedPoints) != 3 {
		t.Errorf("PreservedPoints = %v, want 3 nodes", st.PreservedPoints)
	}
}

func TestGraphForceLayoutFixedNode(t *testing.T) {
	g := prepareGraph(t, `{"series": [{
		"type": "graph", "coordinateSystem": "view", "layout": "force",
		"force": {"repulsion": 100, "gravity": 0.1, "edgeLength": 30},
		"nodes": [{"name": "a", "x": 120, "y": 80, "fixed": true}, {"name": "b"}, {"name": "c"}],
		"links": [{"source": "a", "target": "b"}, {"source": "b", "target": "c"}]
	}]}`, nil)
	runGraph(g, 0, GraphForceLayout())
	if got := nodeAt(t, g.Series()[0], 0); got != (Point{120, 80}) {
		t.Errorf("fixed node = %v, want [120 80]", got)
	}
}

func TestGraphForceLayoutEdgeLength(t *testing.T) {
	g := prepareGraph(t, `{"series": [{
		"type": "graph", "coordinateSystem": "view", "layout": "force",
		"force": {"repulsion": [10, 100], "edgeLength": [10, 100]},
		"nodes": [{"name": "a", "value": 1}, {"name": "b", "value": 5}, {"name": "c", "value": 3}],
		"links": [
			{"source": "a", "target": "b", "value": 1},
			{"source": "b", "target": "c", "value": 10},
			{"source": "a", "target": "c"}
		]
	}]}`, nil)
	runGraph(g, 1, GraphForceLayout())
	sim := g.Series()[0].State.(*ForceState).Simulation

	// Larger values give shorter edges; edges without a value get the mean.
	for i, want := range []float64{100, 10, 55} {
		if got := sim.Edges()[i].D; !approx(got, want) {
			t.Errorf("edge %d length = %v, want %v", i, got, want)
		}
	}
	for i, want := range []float64{10, 100, 55} {
		if got := sim.Nodes()[i].Rep; !approx(got, want) {
			t.Errorf("node %d repulsion = %v, want %v", i, got, want)
		}
	}
}

func TestGraphForceLayoutDropsSimulation(t *testing.T) {
	first := prepareGraph(t, forceDoc, nil)
	runGraph(first, 1, GraphForceLayout())

	second := prepareGraph(t, `{"series": [{
		"type": "graph", "id": "g", "coordinateSystem": "view", "layout": "none",
		"nodes": [{"name": "a", "x": 0, "y": 0}]
	}]}`, first)
	runGraph(second, 1, GraphForceLayout())
	if st := second.Series()[0].State.(*ForceState); st.Simulation != nil {
		t.Error("simulation kept after switching layout")
	}
}
