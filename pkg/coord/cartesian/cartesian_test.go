package cartesian

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/option"
)

var viewport = coord.Viewport{W: 800, H: 600}

func newGlobal(t *testing.T, doc string) *model.Global {
	t.Helper()
	opt, err := model.LoadOption([]byte(doc), model.FormatJSON)
	if err != nil {
		t.Fatalf("LoadOption: %v", err)
	}
	return model.NewGlobal(opt, model.GlobalOptions{
		SeriesDefaults: func(string) *option.Map { return option.NewMap() },
	})
}

// attachData gives every series on a cartesian a List over x and y, with
// x read as categories when its axis is a category axis.
func attachData(g *model.Global) {
	g.EachSeries(func(s *model.SeriesModel) {
		c, ok := s.CoordinateSystem.(*Cartesian2D)
		if !ok {
			return
		}
		x := data.SysDim{Name: "x"}
		if meta := c.Axis("x").Model.Axis.OrdinalMeta(); meta != nil {
			x.Type, x.OrdinalMeta = data.TypeOrdinal, meta
		}
		src := data.SourceFromSeriesData(s.Get("data"))
		dims := data.CreateDimensions(src, data.CreateOptions{
			CoordDimensions: []data.SysDim{x, {Name: "y"}},
		})
		l := data.NewList(dims)
		l.InitData(src, nil)
		s.Data = l
	})
}

func create(t *testing.T, doc string) (*model.Global, *Grid) {
	t.Helper()
	g := newGlobal(t, doc)
	insts := NewFactory(nil).Create(g, viewport)
	if len(insts) == 0 {
		t.Fatal("no grid created")
	}
	attachData(g)
	grid := insts[0].(*Grid)
	grid.Update(g, viewport)
	return g, grid
}

func TestGridCategoryValue(t *testing.T) {
	g, grid := create(t, `{
		"xAxis": {"data": ["a", "b", "c"]},
		"yAxis": {},
		"series": [{"type": "bar", "data": [["a", 10], ["b", 30], ["c", 20]]}]
	}`)

	if got := grid.Rect(); got != (coord.Rect{X: 80, Y: 60, Width: 640, Height: 470}) {
		t.Errorf("Rect = %+v", got)
	}
	c := g.Series()[0].CoordinateSystem.(*Cartesian2D)
	if c != grid.Cartesian(0, 0) {
		t.Fatalf("series bound to %v, want x0y0", c.Key)
	}
	if got := c.BaseAxis(); got != c.Axis("x") {
		t.Errorf("BaseAxis = %s, want x", got.Dim)
	}
	if got := c.OtherAxis(c.Axis("x")); got != c.Axis("y") {
		t.Errorf("OtherAxis(x) = %s, want y", got.Dim)
	}

	y := c.Axis("y").Scale.Extent()
	if y[0] != 0 || y[1] < 30 {
		t.Errorf("y extent = %v, want [0 >=30]", y)
	}
	if got := c.Axis("y").Extent(); got != [2]float64{530, 60} {
		t.Errorf("y pixel extent = %v, want [530 60]", got)
	}

	pt := c.DataToPoint([]float64{1, 15})
	if math.Abs(pt[0]-400) > 1e-9 {
		t.Errorf("x of category 1 = %v, want 400", pt[0])
	}
	back := c.PointToData(pt)
	if back[0] != 1 || math.Abs(back[1]-15) > 1e-9 {
		t.Errorf("PointToData = %v, want [1 15]", back)
	}
	if !c.ContainPoint(pt) || c.ContainPoint([2]float64{10, 10}) {
		t.Error("ContainPoint wrong")
	}
	if got := c.DataToPoint([]float64{1}); !math.IsNaN(got[0]) {
		t.Errorf("short values = %v, want NaN", got)
	}
}

func TestGridValueValueInverse(t *testing.T) {
	_, grid := create(t, `{
		"xAxis": {"type": "value", "scale": true},
		"yAxis": {"inverse": true},
		"series": [{"type": "scatter", "data": [[10, 1], [20, 4]]}]
	}`)
	c := grid.Cartesian(0, 0)
	if got := c.BaseAxis(); got != c.Axis("x") {
		t.Errorf("BaseAxis = %s, want x", got.Dim)
	}
	if got := c.Axis("y").Extent(); got != [2]float64{60, 530} {
		t.Errorf("inverse y pixel extent = %v, want [60 530]", got)
	}
	x := c.Axis("x").Scale.Extent()
	if x[0] > 10 || x[1] < 20 || x[0] == 0 {
		t.Errorf("scaled x extent = %v, want around [10 20] without zero", x)
	}
}

func TestGridMultipleAxes(t *testing.T) {
	g, grid := create(t, `{
		"xAxis": [{"type": "value"}, {"type": "value"}],
		"yAxis": {"type": "value"},
		"series": [
			{"type": "scatter", "data": [[1, 1]]},
			{"type": "scatter", "xAxisIndex": 1, "data": [[100, 1]]}
		]
	}`)
	if got := len(grid.Cartesians()); got != 2 {
		t.Fatalf("cartesians = %d, want 2", got)
	}
	if g.Series()[1].CoordinateSystem != grid.Cartesian(1, 0) {
		t.Error("second series not on x1y0")
	}
	if got := grid.Axis("x", 0).Position; got != "bottom" {
		t.Errorf("x0 position = %q, want bottom", got)
	}
	if got := grid.Axis("x", 1).Position; got != "top" {
		t.Errorf("x1 position = %q, want top", got)
	}
	if x1 := grid.Axis("x", 1).Scale.Extent(); x1[1] < 100 {
		t.Errorf("x1 extent = %v, want to cover 100", x1)
	}
	if x0 := grid.Axis("x", 0).Scale.Extent(); x0[1] >= 100 {
		t.Errorf("x0 extent = %v, want unaffected by x1 series", x0)
	}
}

func TestFactoryWarnsOnMissingAxis(t *testing.T) {
	g := newGlobal(t, `{
		"xAxis": {}, "yAxis": {},
		"series": [{"type": "line", "xAxisIndex": 3, "data": [1]}]
	}`)
	NewFactory(nil).Create(g, viewport)

	if g.Series()[0].CoordinateSystem != nil {
		t.Error("series bound despite missing axis")
	}
	found := false
	for _, w := range g.Warnings() {
		found = found || strings.Contains(w, "not found")
	}
	if !found {
		t.Errorf("warnings = %v, want a not found entry", g.Warnings())
	}
}

func TestTimeAxisLeavesRoomForBars(t *testing.T) {
	g := newGlobal(t, `{
		"xAxis": {"type": "time"},
		"yAxis": {},
		"series": [{"type": "bar", "data": [[0, 1], [1000, 2]]}]
	}`)
	columns := func(*model.Global, *coord.Axis) []coord.ColumnSpan {
		return []coord.ColumnSpan{{Offset: -20, Width: 40}}
	}
	plain := NewFactory(nil).Create(g, viewport)[0].(*Grid)
	attachData(g)
	plain.Update(g, viewport)
	plainExtent := plain.Axis("x", 0).Scale.Extent()

	g = newGlobal(t, `{
		"xAxis": {"type": "time"},
		"yAxis": {},
		"series": [{"type": "bar", "data": [[0, 1], [1000, 2]]}]
	}`)
	padded := NewFactory(columns).Create(g, viewport)[0].(*Grid)
	attachData(g)
	padded.Update(g, viewport)
	paddedExtent := padded.Axis("x", 0).Scale.Extent()

	if !(paddedExtent[0] <= plainExtent[0] && paddedExtent[1] >= plainExtent[1]) ||
		paddedExtent == plainExtent {
		t.Errorf("padded extent %v does not widen %v", paddedExtent, plainExtent)
	}
}
