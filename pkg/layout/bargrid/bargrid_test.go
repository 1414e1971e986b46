package bargrid

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/coord/cartesian"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/option"
	"github.com/matzehuels/chartcore/pkg/scale"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func infos(n int, band float64) []SeriesInfo {
	out := make([]SeriesInfo, n)
	for i := range out {
		out[i] = SeriesInfo{AxisKey: "x0", StackID: fmt.Sprintf("%s%d", StackPrefix, i), BandWidth: band}
	}
	return out
}

type column struct{ offset, width float64 }

func checkColumns(t *testing.T, got []Column, want []column) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("columns = %+v, want %d", got, len(want))
	}
	for i, c := range got {
		if !approx(c.Offset, want[i].offset) || !approx(c.Width, want[i].width) {
			t.Errorf("column %d = {%v %v}, want {%v %v}", i, c.Offset, c.Width, want[i].offset, want[i].width)
		}
		if !approx(c.OffsetCenter, c.Offset+c.Width/2) {
			t.Errorf("column %d OffsetCenter = %v", i, c.OffsetCenter)
		}
	}
}

func TestSolveEvenShare(t *testing.T) {
	got := Solve(infos(3, 100))["x0"]
	w := 77 / 3.4
	checkColumns(t, got, []column{{-38.5, w}, {-38.5 + 1.2*w, w}, {-38.5 + 2.4*w, w}})

	// Columns plus gaps fill the band minus the category gap.
	var sum float64
	for _, c := range got {
		sum += c.Width
	}
	sum += 2 * 0.2 * w
	if !approx(sum, 77) {
		t.Errorf("occupied = %v, want 77", sum)
	}
}

func TestSolveExplicitGaps(t *testing.T) {
	in := infos(3, 100)
	for i := range in {
		in[i].BarCategoryGap = "20%"
		in[i].BarGap = "30%"
	}
	got := Solve(in)["x0"]
	w := 80 / 3.6
	if math.Abs(w-22.22) > 0.01 {
		t.Fatalf("expected width %v", w)
	}
	checkColumns(t, got, []column{{-40, w}, {-40 + 1.3*w, w}, {-40 + 2.6*w, w}})
}

func TestSolveLastBarWidthWins(t *testing.T) {
	stacked := func(widths ...float64) []Column {
		var in []SeriesInfo
		for _, w := range widths {
			in = append(in, SeriesInfo{AxisKey: "x0", StackID: "total", BandWidth: 100, BarWidth: w})
		}
		in = append(in, SeriesInfo{AxisKey: "x0", StackID: "other", BandWidth: 100})
		return Solve(in)["x0"]
	}
	got, want := stacked(10, 30), stacked(30)
	if got[0].Width != 30 {
		t.Errorf("shared stack width = %v, want 30", got[0].Width)
	}
	for i := range want {
		if !approx(got[i].Offset, want[i].Offset) || !approx(got[i].Width, want[i].Width) {
			t.Errorf("column %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if got := stacked(30, 0)[0].Width; got != 30 {
		t.Errorf("width after an unset override = %v, want 30", got)
	}
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name string
		edit func([]SeriesInfo) []SeriesInfo
		n    int
		band float64
		want []column
	}{
		{
			name: "shared stack",
			n:    3,
			band: 100,
			edit: func(in []SeriesInfo) []SeriesInfo {
				in[0].StackID, in[2].StackID = "total", "total"
				return in
			},
			want: []column{{-36.5, 73 / 2.2}, {-36.5 + 1.2*73/2.2, 73 / 2.2}},
		},
		{
			name: "explicit width",
			n:    2,
			band: 100,
			edit: func(in []SeriesInfo) []SeriesInfo {
				in[0].BarWidth = 10
				return in
			},
			want: []column{{-31.5, 10}, {-19.5, 51}},
		},
		{
			name: "max width",
			n:    1,
			band: 100,
			edit: func(in []SeriesInfo) []SeriesInfo {
				in[0].BarMaxWidth = 20
				return in
			},
			want: []column{{-10, 20}},
		},
		{
			name: "min width beats band",
			n:    3,
			band: 10,
			edit: func(in []SeriesInfo) []SeriesInfo {
				for i := range in {
					in[i].BarMinWidth = 5
				}
				return in
			},
			want: []column{{-8.5, 5}, {-2.5, 5}, {3.5, 5}},
		},
		{
			name: "last bar gap wins",
			n:    2,
			band: 100,
			edit: func(in []SeriesInfo) []SeriesInfo {
				in[0].BarGap, in[1].BarGap = "0%", "100%"
				return in
			},
			want: []column{{-36.5, 73.0 / 3}, {-36.5 + 2*73.0/3, 73.0 / 3}},
		},
		{
			name: "category gap",
			n:    1,
			band: 100,
			edit: func(in []SeriesInfo) []SeriesInfo {
				in[0].BarCategoryGap = 40.0
				return in
			},
			want: []column{{-30, 60}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkColumns(t, Solve(tt.edit(infos(tt.n, tt.band)))["x0"], tt.want)
		})
	}
}

func TestSolveSeparatesAxes(t *testing.T) {
	in := infos(3, 100)
	in[2].AxisKey = "x1"
	l := Solve(in)
	if len(l["x0"]) != 2 || len(l["x1"]) != 1 {
		t.Errorf("columns per axis = %d/%d, want 2/1", len(l["x0"]), len(l["x1"]))
	}
}

func TestLayoutOnAxis(t *testing.T) {
	meta := data.NewOrdinalMeta([]string{"a", "b", "c"}, false, false)
	axis := coord.NewAxis("x", scale.NewOrdinal(meta), [2]float64{0, 300})
	axis.OnBand = true

	cols := LayoutOnAxis(axis, 2, AxisOptions{BarGap: "0%"})
	w := 73.0 / 2
	checkColumns(t, cols, []column{{-w, w}, {0, w}})

	value := coord.NewAxis("y", scale.NewInterval(), [2]float64{0, 300})
	if got := LayoutOnAxis(value, 2, AxisOptions{}); got != nil {
		t.Errorf("value axis = %v, want nil", got)
	}
}

func newGlobal(t *testing.T, doc string) *model.Global {
	t.Helper()
	opt, err := model.LoadOption([]byte(doc), model.FormatJSON)
	if err != nil {
		t.Fatalf("LoadOption: %v", err)
	}
	g := model.NewGlobal(opt, model.GlobalOptions{
		SeriesDefaults: func(string) *option.Map { return option.NewMap() },
	})
	grid := cartesian.NewFactory(Columns).Create(g, coord.Viewport{W: 800, H: 600})[0].(*cartesian.Grid)
	g.EachSeries(func(s *model.SeriesModel) {
		c := s.CoordinateSystem.(*cartesian.Cartesian2D)
		x := data.SysDim{Name: "x"}
		if meta := c.Axis("x").Model.Axis.OrdinalMeta(); meta != nil {
			x.Type, x.OrdinalMeta = data.TypeOrdinal, meta
		}
		src := data.SourceFromSeriesData(s.Get("data"))
		l := data.NewList(data.CreateDimensions(src, data.CreateOptions{
			CoordDimensions: []data.SysDim{x, {Name: "y"}},
		}))
		l.InitData(src, nil)
		s.Data = l
	})
	grid.Update(g, coord.Viewport{W: 800, H: 600})
	return g
}

func TestMakeColumnLayoutOnCategoryAxis(t *testing.T) {
	g := newGlobal(t, `{
		"xAxis": {"data": ["a", "b", "c", "d"]},
		"yAxis": {},
		"series": [
			{"type": "bar", "barWidth": "25%", "data": [["a", 1], ["b", 2]]},
			{"type": "bar", "data": [["a", 3], ["d", 4]]},
			{"type": "line", "data": [["a", 3]]}
		]
	}`)
	series := PrepareSeries(g, "bar")
	if len(series) != 2 {
		t.Fatalf("bar series = %d, want 2", len(series))
	}
	l := MakeColumnLayout(series)
	axis := series[0].CoordinateSystem.(*cartesian.Cartesian2D).Axis("x")

	checkColumns(t, l.Axis(axis), []column{{-38.4, 40}, {9.6, 28.8}})
	c, ok := l.Retrieve(axis, series[1])
	if !ok || c.StackID != StackPrefix+"1" || !approx(c.BandWidth, 160) {
		t.Errorf("Retrieve = %+v, %v", c, ok)
	}
	if got := Columns(g, axis); len(got) != 2 || !approx(got[0].Width, 40) {
		t.Errorf("Columns = %+v", got)
	}
}

func TestPrepareSeriesSkipsLarge(t *testing.T) {
	g := newGlobal(t, `{
		"xAxis": {"data": ["a"]}, "yAxis": {},
		"series": [{"type": "bar", "data": [["a", 1]]}, {"type": "bar", "data": [["a", 2]]}]
	}`)
	g.Series()[0].Large = true
	if got := PrepareSeries(g, "bar"); len(got) != 1 || got[0].Index != 1 {
		t.Errorf("PrepareSeries = %d series, want only series 1", len(got))
	}
}

func TestValueAxesMinGaps(t *testing.T) {
	g := newGlobal(t, `{
		"xAxis": {"type": "value"}, "yAxis": {},
		"series": [
			{"type": "bar", "data": [[0, 1], [30, 2]]},
			{"type": "bar", "data": [[0, 1], [10, 2]]}
		]
	}`)
	gaps := valueAxesMinGaps(PrepareSeries(g, "bar"))
	if got := gaps["x0"]; got != 10 {
		t.Errorf("min gap = %v, want 10", got)
	}

	g = newGlobal(t, `{
		"xAxis": {"type": "value"}, "yAxis": {},
		"series": [{"type": "bar", "data": [[5, 1]]}]
	}`)
	if got := valueAxesMinGaps(PrepareSeries(g, "bar"))["x0"]; !math.IsNaN(got) {
		t.Errorf("single value gap = %v, want NaN", got)
	}
}

func ExampleSolve() {
	l := Solve([]SeriesInfo{
		{AxisKey: "x0", StackID: "a", BandWidth: 100, BarWidth: 30},
		{AxisKey: "x0", StackID: "b", BandWidth: 100, BarWidth: 30},
	})
	for _, c := range l["x0"] {
		fmt.Printf("%s %.0f %.0f\n", c.StackID, c.Offset, c.Width)
	}
	// Output:
	// a -33 30
	// b 3 30
}
