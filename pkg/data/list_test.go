package data

import (
	"math"
	"testing"
)

func weekList(t *testing.T, meta *OrdinalMeta, raw string) *List {
	t.Helper()
	src := SourceFromSeriesData(mustJSON(t, raw))
	dims := CreateDimensions(src, CreateOptions{
		CoordDimensions: []SysDim{{Name: "x", Type: TypeOrdinal, OrdinalMeta: meta}, {Name: "y"}},
	})
	l := NewList(dims)
	l.InitData(src, nil)
	return l
}

func TestListInitData(t *testing.T) {
	meta := NewOrdinalMeta(nil, true, true)
	l := weekList(t, meta, `[["Mon",1],["Tue",3],["Wed",2]]`)

	if l.Count() != 3 {
		t.Fatalf("Count = %d, want 3", l.Count())
	}
	if got := l.Get("x", 1); got != 1 {
		t.Errorf("Get(x, 1) = %v, want 1", got)
	}
	if got := l.Get("y", 1); got != 3 {
		t.Errorf("Get(y, 1) = %v, want 3", got)
	}
	if got := l.Get("nope", 0); !math.IsNaN(got) {
		t.Errorf("unknown dim = %v, want NaN", got)
	}
	if got := l.MapDimension("y"); got != "y" {
		t.Errorf("MapDimension(y) = %q, want y", got)
	}
	if got := meta.Categories(); len(got) != 3 || got[2] != "Wed" {
		t.Errorf("categories = %v", got)
	}
}

func TestListStatistics(t *testing.T) {
	l := weekList(t, nil, `[["Mon",1],["Tue","-"],["Wed",5],["Thu",2]]`)

	ext := l.DataExtent("y")
	if ext != [2]float64{1, 5} {
		t.Errorf("DataExtent = %v, want [1 5]", ext)
	}
	if got := l.Sum("y"); got != 8 {
		t.Errorf("Sum = %v, want 8", got)
	}
	empty := l.DataExtent("missing")
	if !math.IsInf(empty[0], 1) || !math.IsInf(empty[1], -1) {
		t.Errorf("empty extent = %v", empty)
	}
}

func TestListFilterKeepsRawIndices(t *testing.T) {
	l := weekList(t, nil, `[["Mon",1],["Tue",3],["Wed",2]]`)
	l.Filter([]string{"y"}, func(_ int, v []float64) bool { return v[0] > 1 })

	if l.Count() != 2 {
		t.Fatalf("Count = %d, want 2", l.Count())
	}
	if got := l.RawIndex(0); got != 1 {
		t.Errorf("RawIndex(0) = %d, want 1", got)
	}
	if got := l.IndexOfRawIndex(0); got != -1 {
		t.Errorf("IndexOfRawIndex(0) = %d, want -1", got)
	}
	if got := l.DataExtent("y"); got != [2]float64{2, 3} {
		t.Errorf("DataExtent = %v, want [2 3]", got)
	}
}

func TestListMapDoesNotModifyReceiver(t *testing.T) {
	l := weekList(t, nil, `[["Mon",1],["Tue",3]]`)
	doubled := l.Map([]string{"y"}, func(_ int, v []float64) []float64 { return []float64{v[0] * 2} })

	if got := doubled.Get("y", 1); got != 6 {
		t.Errorf("mapped = %v, want 6", got)
	}
	if got := l.Get("y", 1); got != 3 {
		t.Errorf("original = %v, want 3", got)
	}
}

func TestListRowLayout(t *testing.T) {
	raw := mustJSON(t, `[["x","a","b"],["y",1,2]]`)
	src, err := NewSource(raw, SourceMeta{SeriesLayoutBy: LayoutByRow, SourceHeader: SourceHeader{Auto: true}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	dims := CreateDimensions(src, CreateOptions{
		CoordDimensions: []SysDim{{Name: "x", Type: TypeOrdinal}, {Name: "y"}},
	})
	l := NewList(dims)
	l.InitData(src, nil)

	if l.Count() != 2 {
		t.Fatalf("Count = %d, want 2", l.Count())
	}
	if got := l.Get("y", 1); got != 2 {
		t.Errorf("Get(y, 1) = %v, want 2", got)
	}
	if got := l.Get("x", 1); got != 1 {
		t.Errorf("Get(x, 1) = %v, want 1", got)
	}
}

func TestListNamesAndDiff(t *testing.T) {
	src := SourceFromSeriesData(mustJSON(t, `[{"name":"a","value":1},{"name":"b","value":2}]`))
	dims := CreateDimensions(src, CreateOptions{CoordDimensions: SysDims("value")})
	old := NewList(dims)
	old.InitData(src, nil)

	src2 := SourceFromSeriesData(mustJSON(t, `[{"name":"b","value":5},{"name":"c","value":6}]`))
	l := NewList(CreateDimensions(src2, CreateOptions{CoordDimensions: SysDims("value")}))
	l.InitData(src2, nil)

	if got := l.GetName(0); got != "b" {
		t.Errorf("GetName(0) = %q, want b", got)
	}
	if got := l.IndexOfName("c"); got != 1 {
		t.Errorf("IndexOfName(c) = %d, want 1", got)
	}
	d := l.Diff(old)
	if len(d.Updated) != 1 || d.Updated[0] != [2]int{0, 1} {
		t.Errorf("Updated = %v, want [[0 1]]", d.Updated)
	}
	if len(d.Added) != 1 || d.Added[0] != 1 {
		t.Errorf("Added = %v, want [1]", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0] != 0 {
		t.Errorf("Removed = %v, want [0]", d.Removed)
	}
}

func TestListLayouts(t *testing.T) {
	l := weekList(t, nil, `[["Mon",1],["Tue",3]]`)
	l.SetItemLayout(1, [2]float64{10, 20})
	l.SetLayout("barWidth", 12.0)

	if got := l.ItemLayout(1); got != [2]float64{10, 20} {
		t.Errorf("ItemLayout(1) = %v", got)
	}
	if got := l.ItemLayout(0); got != nil {
		t.Errorf("ItemLayout(0) = %v, want nil", got)
	}
	if got := l.Layout("barWidth"); got != 12.0 {
		t.Errorf("Layout(barWidth) = %v, want 12", got)
	}
}

func TestGraph(t *testing.T) {
	g := NewGraph(false)
	g.AddNode("a", 0)
	g.AddNode("b", 1)
	if again := g.AddNode("a", 5); again.DataIndex != 0 {
		t.Errorf("AddNode should return existing node")
	}
	if _, err := g.AddEdge("a", "b", 0); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := g.AddEdge("a", "zzz", 1); err == nil {
		t.Error("AddEdge to unknown node should fail")
	}
	if got := g.Node("a").Degree(); got != 1 {
		t.Errorf("Degree = %d, want 1", got)
	}
}

func TestListUseIndexAsValue(t *testing.T) {
	meta := NewOrdinalMeta([]string{"Mon", "Tue", "Wed"}, false, true)
	src := SourceFromSeriesData(mustJSON(t, `[4, 7, {"value": 9}]`))
	if !NeedsOrdinalIndex(src) {
		t.Fatal("NeedsOrdinalIndex = false for plain values")
	}
	dims := CreateDimensions(src, CreateOptions{
		CoordDimensions: []SysDim{{Name: "x", Type: TypeOrdinal, OrdinalMeta: meta}, {Name: "y"}},
	})
	l := NewList(dims)
	l.UseIndexAsValue("x")
	l.InitData(src, nil)

	for i, want := range []float64{4, 7, 9} {
		if got := l.Get("x", i); got != float64(i) {
			t.Errorf("Get(x, %d) = %v, want %d", i, got, i)
		}
		if got := l.Get("y", i); got != want {
			t.Errorf("Get(y, %d) = %v, want %v", i, got, want)
		}
	}

	if NeedsOrdinalIndex(SourceFromSeriesData(mustJSON(t, `[[0, 1]]`))) {
		t.Error("NeedsOrdinalIndex = true for array items")
	}
}
