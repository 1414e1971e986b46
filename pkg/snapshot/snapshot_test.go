package snapshot

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/option"
)

func TestToJSON(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"float", 1.5, 1.5},
		{"NaN", nan, nil},
		{"Inf", math.Inf(1), nil},
		{"int", 3, 3.0},
		{"point", layout.Point{1, nan}, []any{1.0, nil}},
		{"points", []layout.Point{{1, 2}}, []any{[]any{1.0, 2.0}}},
		{"float32", []float32{0.5, float32(nan)}, []any{0.5, nil}},
		{
			"rect",
			layout.Rect{X: 1, Y: 2, Width: 3, Height: -4},
			map[string]any{"x": 1.0, "y": 2.0, "width": 3.0, "height": -4.0},
		},
		{
			"pointer",
			&layout.LargeBars{Points: []float32{1, 2}, DataIndices: []int{7}, BarWidth: 2},
			map[string]any{
				"points":              []any{1.0, 2.0},
				"backgroundPoints":    nil,
				"dataIndices":         []any{7.0},
				"barWidth":            2.0,
				"valueAxisStart":      0.0,
				"backgroundStart":     0.0,
				"valueAxisHorizontal": false,
			},
		},
		{"map", map[string]float64{"a": nan}, map[string]any{"a": nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toJSON(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("toJSON(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
			if _, err := json.Marshal(got); err != nil {
				t.Errorf("Marshal: %v", err)
			}
		})
	}
}

func TestFloatJSON(t *testing.T) {
	data, err := json.Marshal([]Float{1.25, NaN(), Float(math.Inf(-1))})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[1.25,null,null]" {
		t.Errorf("Marshal = %s, want [1.25,null,null]", data)
	}

	var back []Float
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back[0] != 1.25 || !back[1].IsNaN() || !back[2].IsNaN() {
		t.Errorf("Unmarshal = %v", back)
	}
}

func TestRoundTrip(t *testing.T) {
	l := Layout{
		Width:  800,
		Height: 600,
		Series: []Series{
			{
				Index: 0, Type: "bar", CoordinateSystem: "cartesian2d", Count: 2,
				Items:  []any{toJSON(layout.Rect{X: 10, Y: 100, Width: 20, Height: -50}), nil},
				Layout: map[string]any{"bandWidth": 40.0},
			},
			{
				Index: 1, Type: "graph", Count: 2,
				Graph: &Graph{
					Nodes: []Node{{ID: "a", X: 1, Y: 2}, {ID: "b", X: 3, Y: 4}},
					Edges: []Edge{{Source: "a", Target: "b", Points: [][2]Float{{1, 2}, {3, 4}}}},
				},
			},
		},
		Warnings: []string{"something odd"},
	}

	raw, err := Marshal(l)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, l) {
		t.Errorf("round trip = %+v, want %+v", back, l)
	}
	if s := back.FindSeries(1); s == nil || s.Graph == nil || len(s.Graph.Edges) != 1 {
		t.Errorf("FindSeries(1) = %+v", s)
	}
	if s := back.FindSeries(5); s != nil {
		t.Errorf("FindSeries(5) = %+v, want nil", s)
	}
}

func TestUnmarshalRejectsEmptySize(t *testing.T) {
	for _, in := range []string{`{}`, `{"width": 10, "height": 0}`, `not json`} {
		if _, err := Unmarshal([]byte(in)); err == nil {
			t.Errorf("Unmarshal(%s) succeeded", in)
		}
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := Layout{Width: 10, Height: 20, Series: []Series{}}
	if err := WriteFile(l, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Width != 10 || got.Height != 20 {
		t.Errorf("ReadFile = %+v", got)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) err = %v", err)
	}
}

func TestBuildGraph(t *testing.T) {
	raw, err := option.ParseJSON([]byte(`[{"name": "a", "value": 1}, {"name": "b", "value": 2}]`))
	if err != nil {
		t.Fatal(err)
	}
	nodes := listOf(raw)
	edgesRaw, _ := option.ParseJSON([]byte(`[{"source": "a", "target": "b"}]`))
	edges := listOf(edgesRaw)

	g := data.NewGraph(true)
	g.NodeData, g.EdgeData = nodes, edges
	g.AddNode("a", 0)
	g.AddNode("b", 1)
	if _, err := g.AddEdge("a", "b", 0); err != nil {
		t.Fatal(err)
	}
	nodes.SetItemLayout(0, layout.Point{10, 20})
	edges.SetItemLayout(0, []layout.Point{{10, 20}, {30, 40}})

	out := buildGraph(g, nil)
	if len(out.Nodes) != 2 || !out.Directed {
		t.Fatalf("buildGraph = %+v", out)
	}
	if n := out.Nodes[0]; n.ID != "a" || n.X != 10 || n.Y != 20 || !n.Placed() {
		t.Errorf("node a = %+v", n)
	}
	if n := out.Nodes[1]; n.Placed() {
		t.Errorf("node b = %+v, want unplaced", n)
	}
	if e := out.Edges[0]; e.Source != "a" || e.Target != "b" || len(e.Points) != 2 || e.Points[1] != [2]Float{30, 40} {
		t.Errorf("edge = %+v", e)
	}
}

func listOf(raw any) *data.List {
	src := data.SourceFromSeriesData(raw)
	dims := data.CreateDimensions(src, data.CreateOptions{
		CoordDimensions: []data.SysDim{{Name: "value"}},
	})
	l := data.NewList(dims)
	l.InitData(src, nil)
	return l
}
