package polar

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

func near(a, b [2]float64) bool {
	return math.Abs(a[0]-b[0]) < 1e-6 && math.Abs(a[1]-b[1]) < 1e-6
}

func TestPolarClockwise(t *testing.T) {
	g := newGlobal(t, `{
		"polar": {},
		"radiusAxis": {"max": 10},
		"angleAxis": {"type": "value", "min": 0, "max": 360},
		"series": [{"type": "scatter", "coordinateSystem": "polar", "data": [[5, 45], [8, 270]]}]
	}`)
	insts := Create(g, viewport)
	if len(insts) != 1 {
		t.Fatalf("instances = %d, want 1", len(insts))
	}
	p := insts[0].(*Polar)
	s := g.Series()[0]
	if s.CoordinateSystem != p {
		t.Fatal("series not bound to polar")
	}

	src := data.SourceFromSeriesData(s.Get("data"))
	l := data.NewList(data.CreateDimensions(src, data.CreateOptions{CoordDimensions: data.SysDims("radius", "angle")}))
	l.InitData(src, nil)
	s.Data = l
	p.Update(g, viewport)

	if p.CX != 400 || p.CY != 300 {
		t.Errorf("center = (%v, %v), want (400, 300)", p.CX, p.CY)
	}
	if got := p.RadiusAxis().Extent(); got != [2]float64{0, 240} {
		t.Errorf("radius extent = %v, want [0 240]", got)
	}
	if got := p.AngleAxis().Extent(); got != [2]float64{90, -270} {
		t.Errorf("angle extent = %v, want [90 -270]", got)
	}

	tests := []struct {
		values []float64
		want   [2]float64
	}{
		{[]float64{10, 0}, [2]float64{400, 60}},
		{[]float64{10, 90}, [2]float64{640, 300}},
		{[]float64{5, 180}, [2]float64{400, 420}},
		{[]float64{0, 123}, [2]float64{400, 300}},
	}
	for _, tt := range tests {
		if got := p.DataToPoint(tt.values); !near(got, tt.want) {
			t.Errorf("DataToPoint(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}

	back := p.PointToData([2]float64{640, 300})
	if math.Abs(back[0]-10) > 1e-9 || math.Abs(back[1]-90) > 1e-9 {
		t.Errorf("PointToData = %v, want [10 90]", back)
	}
	if !p.ContainPoint([2]float64{400, 300}) || p.ContainPoint([2]float64{0, 0}) {
		t.Error("ContainPoint wrong")
	}
}

func TestPolarCategoryAngleWithoutGap(t *testing.T) {
	g := newGlobal(t, `{
		"radiusAxis": {},
		"angleAxis": {"data": ["a", "b", "c", "d"], "boundaryGap": false, "clockwise": false}
	}`)
	p := Create(g, viewport)[0].(*Polar)
	// The implicit polar is counter-clockwise; the last category must not
	// land on the first.
	if got := p.AngleAxis().Extent(); got != [2]float64{90, 360} {
		t.Errorf("angle extent = %v, want [90 360]", got)
	}
	if got := p.BaseAxis(); got != p.AngleAxis() {
		t.Errorf("BaseAxis = %s, want angle", got.Dim)
	}
}

func TestPolarRequiresBothAxes(t *testing.T) {
	g := newGlobal(t, `{"polar": {}, "radiusAxis": {}}`)
	if insts := Create(g, viewport); len(insts) != 0 {
		t.Errorf("instances = %d, want 0", len(insts))
	}
	if w := g.Warnings(); len(w) != 1 || !strings.Contains(w[0], "angleAxis") {
		t.Errorf("warnings = %v", w)
	}
}
