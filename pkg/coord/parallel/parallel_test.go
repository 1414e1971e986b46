package parallel

import (
	"math"
	"testing"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/option"
)

var viewport = coord.Viewport{W: 800, H: 600}

func mustParallel(t *testing.T, doc string) (*model.Global, *Parallel) {
	t.Helper()
	opt, err := model.LoadOption([]byte(doc), model.FormatJSON)
	if err != nil {
		t.Fatalf("LoadOption: %v", err)
	}
	g := model.NewGlobal(opt, model.GlobalOptions{
		SeriesDefaults: func(string) *option.Map { return option.NewMap() },
	})
	insts := Create(g, viewport)
	if len(insts) != 1 {
		t.Fatalf("instances = %d, want 1", len(insts))
	}
	p := insts[0].(*Parallel)
	g.EachSeries(func(s *model.SeriesModel) {
		if s.CoordinateSystem != p {
			return
		}
		var sys []data.SysDim
		for _, a := range p.Axes() {
			d := data.SysDim{Name: a.Dim}
			if meta := a.Model.Axis.OrdinalMeta(); meta != nil {
				d.Type, d.OrdinalMeta = data.TypeOrdinal, meta
			}
			sys = append(sys, d)
		}
		src := data.SourceFromSeriesData(s.Get("data"))
		l := data.NewList(data.CreateDimensions(src, data.CreateOptions{CoordDimensions: sys}))
		l.InitData(src, nil)
		s.Data = l
	})
	p.Update(g, viewport)
	return g, p
}

func near(a, b [2]float64) bool {
	return math.Abs(a[0]-b[0]) < 1e-6 && math.Abs(a[1]-b[1]) < 1e-6
}

func TestParallelHorizontal(t *testing.T) {
	g, p := mustParallel(t, `{
		"parallelAxis": [
			{"dim": 0, "min": 0, "max": 10},
			{"dim": 1},
			{"dim": 2, "type": "category", "data": ["x", "y"]}
		],
		"series": [{"type": "parallel", "data": [[1, 10, "x"], [3, 30, "y"]]}]
	}`)
	if g.Series()[0].CoordinateSystem != p {
		t.Fatal("series not bound")
	}
	if got := p.Dimensions(); len(got) != 3 || got[0] != "dim0" || got[2] != "dim2" {
		t.Errorf("Dimensions = %v", got)
	}
	if got := p.Rect(); got != (coord.Rect{X: 80, Y: 60, Width: 640, Height: 480}) {
		t.Errorf("Rect = %+v", got)
	}

	l := p.AxisLayout("dim1")
	if l.Position != [2]float64{400, 540} || l.Rotation != math.Pi/2 || !l.LabelShow {
		t.Errorf("dim1 layout = %+v", l)
	}
	if got := p.AxisPoint(5, "dim0"); !near(got, [2]float64{80, 300}) {
		t.Errorf("AxisPoint(5, dim0) = %v, want (80, 300)", got)
	}
	if got := p.AxisPoint(1, "dim2"); !near(got, [2]float64{720, 180}) {
		t.Errorf("AxisPoint(y, dim2) = %v, want (720, 180)", got)
	}
	if got := p.DataToPoint([]float64{5, 0}); !near(got, [2]float64{80, 300}) {
		t.Errorf("DataToPoint = %v, want (80, 300)", got)
	}
	if got := p.Points([]float64{5, 20, 1}); len(got) != 3 {
		t.Errorf("Points = %v, want 3 points", got)
	}

	back := p.PointToData([2]float64{700, 200})
	if back[0] != 2 || back[1] != 1 {
		t.Errorf("PointToData = %v, want [2 1]", back)
	}
	if !p.ContainPoint([2]float64{100, 100}) || p.ContainPoint([2]float64{10, 100}) {
		t.Error("ContainPoint wrong")
	}

	if ext := p.Axis("dim1").Scale.Extent(); ext[0] != 0 || ext[1] < 30 {
		t.Errorf("dim1 extent = %v, want [0 >=30]", ext)
	}

	var states []ActiveState
	p.EachActiveState(g.Series()[0].Data, 0, -1, func(s ActiveState, _ int) { states = append(states, s) })
	if len(states) != 2 || states[0] != StateNormal {
		t.Errorf("states = %v, want 2 normal", states)
	}
}

func TestParallelVertical(t *testing.T) {
	_, p := mustParallel(t, `{
		"parallel": {"layout": "vertical"},
		"parallelAxis": [{"dim": 0, "min": 0, "max": 10}, {"dim": 1, "min": 0, "max": 10}]
	}`)
	l := p.AxisLayout("dim1")
	if l.Position != [2]float64{80, 540} || l.Rotation != 0 {
		t.Errorf("dim1 layout = %+v", l)
	}
	if got := p.AxisPoint(5, "dim1"); !near(got, [2]float64{400, 540}) {
		t.Errorf("AxisPoint(5, dim1) = %v, want (400, 540)", got)
	}
}

func TestParallelAxisExpand(t *testing.T) {
	doc := `{"parallel": {"axisExpandable": true, "axisExpandCount": 4, "axisExpandWidth": 50}, "parallelAxis": [`
	for i := range 10 {
		if i > 0 {
			doc += ","
		}
		doc += `{"dim": ` + string(rune('0'+i)) + `}`
	}
	doc += `]}`
	_, p := mustParallel(t, doc)

	info := p.LayoutInfo()
	if !info.AxisExpandable {
		t.Fatal("AxisExpandable = false")
	}
	if info.AxisExpandWindow != [2]float64{175, 325} {
		t.Errorf("window = %v, want [175 325]", info.AxisExpandWindow)
	}
	if info.WinInnerIndices != [2]int{4, 6} {
		t.Errorf("inner indices = %v, want [4 6]", info.WinInnerIndices)
	}
	collapse := 490.0 / 6
	if math.Abs(info.AxisCollapseWidth-collapse) > 1e-9 {
		t.Errorf("collapse width = %v, want %v", info.AxisCollapseWidth, collapse)
	}

	tests := []struct {
		dim       string
		x         float64
		labelShow bool
	}{
		{"dim0", 80, false},
		{"dim5", 80 + collapse/50*175 + 5*50 - 175, true},
		{"dim9", 720, false},
	}
	for _, tt := range tests {
		l := p.AxisLayout(tt.dim)
		if math.Abs(l.Position[0]-tt.x) > 1e-9 || l.LabelShow != tt.labelShow {
			t.Errorf("%s layout = %+v, want x %v label %v", tt.dim, l, tt.x, tt.labelShow)
		}
	}
}
