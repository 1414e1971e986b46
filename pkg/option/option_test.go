package option

import (
	"math"
	"reflect"
	"testing"
)

func TestParseJSONKeepsKeyOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"zeta": 1, "alpha": [1, "a", null], "mid": {"b": true, "a": false}}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	m, ok := v.(*Map)
	if !ok {
		t.Fatalf("ParseJSON returned %T, want *Map", v)
	}
	if got, want := m.Keys(), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if got := m.Value("alpha"); !reflect.DeepEqual(got, []any{1.0, "a", nil}) {
		t.Errorf("alpha = %#v", got)
	}
	mid := m.Value("mid").(*Map)
	if got, want := mid.Keys(), []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("mid.Keys() = %v, want %v", got, want)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"a":`)); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestParseTOML(t *testing.T) {
	doc := `
title = "sales"

[[series]]
type = "bar"
stack = "total"
data = [1, 2, 3]

[[series]]
type = "line"
`
	v, err := ParseTOML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}
	m := v.(*Map)
	if got, want := m.Keys(), []string{"title", "series"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	series := m.Value("series").([]any)
	if len(series) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(series))
	}
	first := series[0].(*Map)
	if got, want := first.Keys(), []string{"type", "stack", "data"}; !reflect.DeepEqual(got, want) {
		t.Errorf("series[0].Keys() = %v, want %v", got, want)
	}
	if got := first.Value("data"); !reflect.DeepEqual(got, []any{1.0, 2.0, 3.0}) {
		t.Errorf("data = %#v, want float64 values", got)
	}
}

func TestPatch(t *testing.T) {
	doc := []byte(`{"series":[{"type":"bar"}]}`)
	out, err := Patch(doc, []string{"series.0.barWidth=20", "series.0.stack=total"})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	v, _ := ParseJSON(out)
	s := v.(*Map).Value("series").([]any)[0].(*Map)
	if got := s.Value("barWidth"); got != 20.0 {
		t.Errorf("barWidth = %v, want 20", got)
	}
	if got := s.Value("stack"); got != "total" {
		t.Errorf("stack = %v, want total", got)
	}

	if _, err := Patch(doc, []string{"novalue"}); err == nil {
		t.Error("expected error for assignment without '='")
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{1.5, 1.5},
		{"12", 12},
		{" 3.5 ", 3.5},
		{true, 1},
		{"", math.NaN()},
		{"-", math.NaN()},
		{nil, math.NaN()},
	}
	for _, tt := range tests {
		got := ToFloat(tt.in)
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("ToFloat(%#v) = %v, want NaN", tt.in, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ToFloat(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTypedArrays(t *testing.T) {
	buf := []float32{1, 2, 3}
	if !IsTypedArray(buf) || !IsArrayLike(buf) {
		t.Error("[]float32 should be a typed array")
	}
	if got := Index(buf, 1); got != 2.0 {
		t.Errorf("Index = %v, want 2", got)
	}
	if got := Index(buf, 5); got != nil {
		t.Errorf("Index out of range = %v, want nil", got)
	}
	if IsTypedArray([]any{1.0}) {
		t.Error("[]any should not be a typed array")
	}
}
