package coord

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/option"
	"github.com/matzehuels/chartcore/pkg/scale"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

type stubInstance struct{ updated, resized int }

func (s *stubInstance) Systems() []System         { return nil }
func (s *stubInstance) Update(*model.Global, API) { s.updated++ }
func (s *stubInstance) Resize(API)                { s.resized++ }

func TestRegistryLastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	one := FactoryFunc(func(*model.Global, API) []Instance { return []Instance{&stubInstance{}} })
	two := FactoryFunc(func(*model.Global, API) []Instance {
		return []Instance{&stubInstance{}, &stubInstance{}}
	})
	reg.Register("b", one)
	reg.Register("a", one)
	reg.Register("a", two)

	if got := reg.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names = %v, want [a b]", got)
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}

	mgr := NewManager(reg)
	g := model.NewGlobal(option.NewMap(), model.GlobalOptions{})
	mgr.Create(g, Viewport{W: 100, H: 100})
	if got := len(mgr.Instances()); got != 3 {
		t.Fatalf("instances = %d, want 3", got)
	}

	mgr.Update(g, Viewport{W: 100, H: 100})
	mgr.Resize(Viewport{W: 50, H: 50})
	for i, inst := range mgr.Instances() {
		s := inst.(*stubInstance)
		if s.updated != 1 || s.resized != 1 {
			t.Errorf("instance %d updated/resized = %d/%d, want 1/1", i, s.updated, s.resized)
		}
	}
}

func TestManagerCreatesInNameOrder(t *testing.T) {
	reg := NewRegistry()
	var calls []string
	record := func(name string) Factory {
		return FactoryFunc(func(*model.Global, API) []Instance {
			calls = append(calls, name)
			return nil
		})
	}
	reg.Register("polar", record("polar"))
	reg.Register("cartesian2d", record("cartesian2d"))
	reg.Register("radar", record("radar"))

	g := model.NewGlobal(option.NewMap(), model.GlobalOptions{})
	NewManager(reg).Create(g, Viewport{W: 100, H: 100})
	if fmt.Sprint(calls) != "[cartesian2d polar radar]" {
		t.Errorf("factory calls = %v, want [cartesian2d polar radar]", calls)
	}
}

func valueAxis(kv ...any) *model.AxisCommon {
	return model.NewAxisCommon(model.New(option.MapOf(kv...), nil), "value")
}

func TestGetScaleExtent(t *testing.T) {
	empty := [2]float64{math.Inf(1), math.Inf(-1)}
	tests := []struct {
		name   string
		axis   *model.AxisCommon
		data   [2]float64
		want   [2]float64
		fixMin bool
		fixMax bool
		blank  bool
	}{
		{"cross zero", valueAxis(), [2]float64{3, 97}, [2]float64{0, 97}, false, false, false},
		{"scale", valueAxis("scale", true), [2]float64{3, 97}, [2]float64{3, 97}, false, false, false},
		{"negative", valueAxis(), [2]float64{-5, -1}, [2]float64{-5, 0}, false, false, false},
		{"boundary gap", valueAxis("scale", true, "boundaryGap", []any{"10%", "10%"}), [2]float64{0, 100}, [2]float64{-10, 110}, false, false, false},
		{"fixed", valueAxis("min", 10.0, "max", 50.0), [2]float64{3, 97}, [2]float64{10, 50}, true, true, false},
		{"data min", valueAxis("min", "dataMin"), [2]float64{3, 97}, [2]float64{3, 97}, true, false, false},
		{"no data", valueAxis(), empty, [2]float64{math.NaN(), math.NaN()}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scale.NewInterval()
			s.SetExtent(tt.data[0], tt.data[1])
			info := GetScaleExtent(s, tt.axis)
			for i := range 2 {
				got, want := info.Extent[i], tt.want[i]
				if !(approx(got, want) || math.IsNaN(got) && math.IsNaN(want)) {
					t.Errorf("Extent = %v, want %v", info.Extent, tt.want)
					break
				}
			}
			if info.FixMin != tt.fixMin || info.FixMax != tt.fixMax {
				t.Errorf("fixed = %v/%v, want %v/%v", info.FixMin, info.FixMax, tt.fixMin, tt.fixMax)
			}
			if info.Blank != tt.blank || s.IsBlank() != tt.blank {
				t.Errorf("Blank = %v (scale %v), want %v", info.Blank, s.IsBlank(), tt.blank)
			}
		})
	}
}

func TestGetScaleExtentCategory(t *testing.T) {
	withData := model.NewAxisCommon(model.New(option.MapOf("data", []any{"a", "b", "c"}), nil), "category")
	s := scale.NewOrdinal(withData.OrdinalMeta())
	s.SetExtent(math.Inf(1), math.Inf(-1))
	if info := GetScaleExtent(s, withData); info.Extent != [2]float64{0, 2} || info.Blank {
		t.Errorf("categories: %+v, want [0 2] not blank", info)
	}

	none := model.NewAxisCommon(model.New(option.NewMap(), nil), "category")
	s = scale.NewOrdinal(none.OrdinalMeta())
	if info := GetScaleExtent(s, none); !info.Blank || !s.IsBlank() {
		t.Errorf("no categories: Blank = %v, want true", info.Blank)
	}
}

func TestNiceScaleExtent(t *testing.T) {
	s := scale.NewInterval()
	s.SetExtent(3, 97)
	NiceScaleExtent(s, valueAxis())
	if got := s.Extent(); got != [2]float64{0, 100} {
		t.Errorf("Extent = %v, want [0 100]", got)
	}

	s = scale.NewInterval()
	s.SetExtent(3, 97)
	NiceScaleExtent(s, valueAxis("interval", 25.0))
	if got := s.Interval(); got != 25 {
		t.Errorf("Interval = %v, want 25", got)
	}
}

func TestCreateScaleByModel(t *testing.T) {
	for typ, want := range map[string]string{
		"category": "ordinal",
		"value":    "interval",
		"time":     "time",
		"log":      "log",
	} {
		axis := model.NewAxisCommon(model.New(option.NewMap(), nil), typ)
		if got := CreateScaleByModel(axis).Type(); got != want {
			t.Errorf("CreateScaleByModel(%s) = %s, want %s", typ, got, want)
		}
	}
}

func TestLayoutRect(t *testing.T) {
	tests := []struct {
		name string
		opt  *option.Map
		want Rect
	}{
		{"grid defaults", option.MapOf("left", "10%", "top", 60.0, "right", "10%", "bottom", 70.0), Rect{80, 60, 640, 470}},
		{"centered", option.MapOf("left", "center", "top", "middle", "width", 200.0, "height", 100.0), Rect{300, 250, 200, 100}},
		{"from right", option.MapOf("right", 10.0, "width", 100.0), Rect{690, 0, 100, 600}},
		{"empty", option.NewMap(), Rect{0, 0, 800, 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayoutRect(model.New(tt.opt, nil), 800, 600); got != tt.want {
				t.Errorf("LayoutRect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLayoutRectAspect(t *testing.T) {
	m := model.New(option.MapOf("left", "center", "top", "middle"), nil)
	got := LayoutRectAspect(m, 800, 600, 2)
	if want := (Rect{80, 140, 640, 320}); got != want {
		t.Errorf("wide = %+v, want %+v", got, want)
	}
	got = LayoutRectAspect(m, 800, 600, 0.5)
	if want := (Rect{280, 60, 240, 480}); got != want {
		t.Errorf("tall = %+v, want %+v", got, want)
	}
}

func categoryAxis(t *testing.T, extent [2]float64) *Axis {
	t.Helper()
	am := model.NewAxisCommon(model.New(option.MapOf("data", []any{"a", "b", "c"}), nil), "category")
	a := NewAxis("x", scale.NewOrdinal(am.OrdinalMeta()), extent)
	a.OnBand = true
	return a
}

func TestAxisOnBand(t *testing.T) {
	a := categoryAxis(t, [2]float64{0, 300})

	for v, want := range []float64{50, 150, 250} {
		if got := a.DataToCoord(float64(v), false); !approx(got, want) {
			t.Errorf("DataToCoord(%d) = %v, want %v", v, got, want)
		}
	}
	if got := a.CoordToData(160, false); got != 1 {
		t.Errorf("CoordToData(160) = %v, want 1", got)
	}
	if got := a.BandWidth(); !approx(got, 100) {
		t.Errorf("BandWidth = %v, want 100", got)
	}

	ticks := a.TicksCoords(false)
	want := []float64{0, 100, 200, 300}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want coords %v", ticks, want)
	}
	for i, tc := range ticks {
		if !approx(tc.Coord, want[i]) {
			t.Errorf("tick %d coord = %v, want %v", i, tc.Coord, want[i])
		}
	}
	if !math.IsNaN(ticks[3].Value) {
		t.Errorf("closing tick value = %v, want NaN", ticks[3].Value)
	}
}

func TestAxisValue(t *testing.T) {
	s := scale.NewInterval()
	s.SetExtent(0, 100)
	a := NewAxis("y", s, [2]float64{0, 500})
	if got := a.DataToCoord(20, false); got != 100 {
		t.Errorf("DataToCoord(20) = %v, want 100", got)
	}
	if got := a.DataToCoord(120, true); got != 500 {
		t.Errorf("clamped = %v, want 500", got)
	}
	a.SetExtent(500, 0)
	if got := a.DataToCoord(20, false); got != 400 {
		t.Errorf("inverse DataToCoord(20) = %v, want 400", got)
	}
	if !a.Contain(250) || a.Contain(501) {
		t.Error("Contain wrong for inverse extent")
	}
	if got := a.Key(); got != "y0" {
		t.Errorf("Key = %q, want y0", got)
	}
}

func TestIfAxisCrossZero(t *testing.T) {
	tests := []struct {
		extent [2]float64
		want   bool
	}{
		{[2]float64{-1, 1}, true},
		{[2]float64{0, 10}, true},
		{[2]float64{1, 10}, false},
		{[2]float64{-10, -1}, false},
	}
	for _, tt := range tests {
		s := scale.NewInterval()
		s.SetExtent(tt.extent[0], tt.extent[1])
		if got := IfAxisCrossZero(NewAxis("x", s, [2]float64{0, 1})); got != tt.want {
			t.Errorf("IfAxisCrossZero(%v) = %v, want %v", tt.extent, got, tt.want)
		}
	}
}

func TestAdjustScaleForOverflow(t *testing.T) {
	a := NewAxis("x", scale.NewTime(), [2]float64{0, 1000})
	cols := []ColumnSpan{{Offset: -10, Width: 20}}

	min, max := AdjustScaleForOverflow(0, 100, a, cols)
	buffer := 100/0.98 - 100
	if !approx(min, -buffer/2) || !approx(max, 100+buffer/2) {
		t.Errorf("adjusted = [%v %v], want [%v %v]", min, max, -buffer/2, 100+buffer/2)
	}

	if min, max := AdjustScaleForOverflow(0, 100, a, nil); min != 0 || max != 100 {
		t.Errorf("no columns = [%v %v], want [0 100]", min, max)
	}
	short := NewAxis("x", scale.NewTime(), [2]float64{0, 10})
	if min, max := AdjustScaleForOverflow(0, 100, short, cols); min != 0 || max != 100 {
		t.Errorf("overflow wider than axis = [%v %v], want [0 100]", min, max)
	}
}

func ExampleLayoutRect() {
	grid := model.New(option.MapOf("left", "10%", "top", 60.0, "right", "10%", "bottom", 70.0), nil)
	r := LayoutRect(grid, 800, 600)
	fmt.Printf("%.0f %.0f %.0f %.0f\n", r.X, r.Y, r.Width, r.Height)
	// Output: 80 60 640 470
}
