package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/chartcore/pkg/coord/view"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/model"
)

// =============================================================================
// Layout - Computed Chart
// =============================================================================

// Layout is the serialized result of a layout pass.
type Layout struct {
	Width    float64  `json:"width" bson:"width"`
	Height   float64  `json:"height" bson:"height"`
	Series   []Series `json:"series" bson:"series"`
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// Series is the layout of one series.
type Series struct {
	Index            int    `json:"index" bson:"index"`
	Type             string `json:"type" bson:"type"`
	ID               string `json:"id,omitempty" bson:"id,omitempty"`
	Name             string `json:"name,omitempty" bson:"name,omitempty"`
	CoordinateSystem string `json:"coordinateSystem,omitempty" bson:"coordinate_system,omitempty"`
	Large            bool   `json:"large,omitempty" bson:"large,omitempty"`
	// Count is the number of data items.
	Count  int            `json:"count" bson:"count"`
	Items  []any          `json:"items,omitempty" bson:"items,omitempty"`
	Layout map[string]any `json:"layout,omitempty" bson:"layout,omitempty"`
	Graph  *Graph         `json:"graph,omitempty" bson:"graph,omitempty"`
}

// FindSeries returns the series with index idx, or nil.
func (l *Layout) FindSeries(idx int) *Series {
	for i := range l.Series {
		if l.Series[i].Index == idx {
			return &l.Series[i]
		}
	}
	return nil
}

// =============================================================================
// Graph - Positioned Nodes and Edges
// =============================================================================

// Graph holds the nodes and edges of a graph series in pixels.
type Graph struct {
	Directed bool   `json:"directed,omitempty" bson:"directed,omitempty"`
	Nodes    []Node `json:"nodes" bson:"nodes"`
	Edges    []Edge `json:"edges" bson:"edges"`
}

// Node is a positioned graph node. X and Y are NaN for nodes that could
// not be placed.
type Node struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
	X    Float  `json:"x" bson:"x"`
	Y    Float  `json:"y" bson:"y"`
}

// Placed reports whether the node has a position.
func (n Node) Placed() bool { return !n.X.IsNaN() && !n.Y.IsNaN() }

// Edge connects two nodes by id. Points are both ends followed by the
// control point of a curved edge.
type Edge struct {
	Source string     `json:"source" bson:"source"`
	Target string     `json:"target" bson:"target"`
	Points [][2]Float `json:"points,omitempty" bson:"points,omitempty"`
}

// =============================================================================
// Building
// =============================================================================

// Build snapshots the layout of every series of g for a viewport of
// width × height.
func Build(g *model.Global, width, height float64) Layout {
	out := Layout{
		Width:    width,
		Height:   height,
		Series:   make([]Series, 0, len(g.Series())),
		Warnings: g.Warnings(),
	}
	g.EachSeries(func(s *model.SeriesModel) {
		out.Series = append(out.Series, buildSeries(s))
	})
	return out
}

func buildSeries(s *model.SeriesModel) Series {
	out := Series{
		Index: s.Index,
		Type:  s.Type,
		ID:    s.ID,
		Name:  s.Name,
		Large: s.Large,
	}
	if s.CoordinateSystem != nil {
		out.CoordinateSystem = s.CoordinateSystem.Type()
	}
	l := s.Data
	if l == nil {
		return out
	}
	out.Count = l.Count()

	var placed bool
	items := make([]any, out.Count)
	for idx := range items {
		if v := l.ItemLayout(idx); v != nil {
			items[idx] = toJSON(v)
			placed = true
		}
	}
	if placed {
		out.Items = items
	}
	if keys := l.LayoutKeys(); len(keys) > 0 {
		out.Layout = make(map[string]any, len(keys))
		for _, key := range keys {
			out.Layout[key] = toJSON(l.Layout(key))
		}
	}
	if s.Graph != nil {
		v, _ := s.CoordinateSystem.(*view.View)
		out.Graph = buildGraph(s.Graph, v)
	}
	return out
}

// buildGraph converts node and edge layouts to pixels. Layouts on a view
// are in the view's source units.
func buildGraph(g *data.Graph, v *view.View) *Graph {
	toPixel := func(p layout.Point) [2]Float {
		if v != nil {
			p = layout.Point(v.DataToPoint(p[:]))
		}
		return [2]Float{Float(p[0]), Float(p[1])}
	}

	out := &Graph{
		Directed: g.Directed,
		Nodes:    make([]Node, 0, len(g.Nodes)),
		Edges:    make([]Edge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		node := Node{ID: n.ID, Name: g.NodeData.GetName(n.DataIndex), X: NaN(), Y: NaN()}
		if p, ok := g.NodeData.ItemLayout(n.DataIndex).(layout.Point); ok {
			px := toPixel(p)
			node.X, node.Y = px[0], px[1]
		}
		out.Nodes = append(out.Nodes, node)
	}
	for _, e := range g.Edges {
		edge := Edge{Source: e.Node1.ID, Target: e.Node2.ID}
		if pts, ok := g.EdgeData.ItemLayout(e.DataIndex).([]layout.Point); ok {
			edge.Points = make([][2]Float, len(pts))
			for i, p := range pts {
				edge.Points[i] = toPixel(p)
			}
		}
		out.Edges = append(out.Edges, edge)
	}
	return out
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, fmt.Errorf("layout must have a positive size, got %gx%g", l.Width, l.Height)
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
