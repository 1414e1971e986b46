// Package option holds the raw, format-independent representation of a
// chart option document.
//
// Option values are plain Go values: nil, bool, float64, string, []any and
// *Map. Map keeps keys in document order, which matters for data sources
// whose dimensions are inferred from record keys.
//
// # Loading
//
// Documents can be decoded from JSON (order-preserving, via gjson) or TOML
// (via BurntSushi/toml, ordered by the decoder's key metadata):
//
//	v, err := option.ParseJSON(data)
//	v, err := option.ParseTOML(data)
//
// Both produce the same value shapes, so the rest of the library never
// needs to know which format a chart came from.
package option

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Map is an insertion-ordered string-keyed record.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// MapOf builds a Map from alternating key/value pairs.
// It panics if kv has odd length or a key is not a string.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("option.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}

// FromGoMap converts a Go map into a Map with keys in sorted order.
// Nested maps and slices are converted recursively.
func FromGoMap(src map[string]any) *Map {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := NewMap()
	for _, k := range keys {
		m.Set(k, Normalize(src[k]))
	}
	return m
}

// Normalize converts loosely typed Go values (map[string]any, []map[string]any,
// ints) into the canonical option value shapes.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromGoMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = FromGoMap(e)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case float32:
		return float64(t)
	}
	return v
}

// Set stores v under key, keeping the original position of an existing key.
func (m *Map) Set(key string, v any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value stored under key or nil.
func (m *Map) Value(key string) any {
	v, _ := m.Get(key)
	return v
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every entry in insertion order.
func (m *Map) Each(fn func(key string, v any)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := NewMap()
	for _, k := range m.keys {
		out.Set(k, Clone(m.values[k]))
	}
	return out
}

// ToGo converts m into plain Go maps and slices, e.g. for JSON encoding.
func (m *Map) ToGo() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = ToGo(m.values[k])
	}
	return out
}

// Clone deep-copies an option value.
func Clone(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	}
	return v
}

// ToGo converts an option value into plain Go values.
func ToGo(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.ToGo()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToGo(e)
		}
		return out
	}
	return v
}

// =============================================================================
// Value helpers
// =============================================================================

// IsArray reports whether v is an ordered sequence of option values.
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsTypedArray reports whether v is a flat numeric buffer.
func IsTypedArray(v any) bool {
	switch v.(type) {
	case []float64, []float32, []int, []int32, []int64, []uint8, []uint16, []uint32:
		return true
	}
	return false
}

// IsArrayLike reports whether v is an ordered sequence or a typed array.
func IsArrayLike(v any) bool {
	return IsArray(v) || IsTypedArray(v)
}

// Len returns the length of an array-like value, or 0.
func Len(v any) int {
	switch t := v.(type) {
	case []any:
		return len(t)
	case []float64:
		return len(t)
	case []float32:
		return len(t)
	case []int:
		return len(t)
	case []int32:
		return len(t)
	case []int64:
		return len(t)
	case []uint8:
		return len(t)
	case []uint16:
		return len(t)
	case []uint32:
		return len(t)
	}
	return 0
}

// Index returns element i of an array-like value, or nil when out of range.
func Index(v any, i int) any {
	if i < 0 || i >= Len(v) {
		return nil
	}
	switch t := v.(type) {
	case []any:
		return t[i]
	case []float64:
		return t[i]
	case []float32:
		return float64(t[i])
	case []int:
		return float64(t[i])
	case []int32:
		return float64(t[i])
	case []int64:
		return float64(t[i])
	case []uint8:
		return float64(t[i])
	case []uint16:
		return float64(t[i])
	case []uint32:
		return float64(t[i])
	}
	return nil
}

// ToArray returns v as a slice, wrapping a scalar into a one-element slice.
// nil yields an empty slice.
func ToArray(v any) []any {
	if v == nil {
		return nil
	}
	if a, ok := v.([]any); ok {
		return a
	}
	if IsTypedArray(v) {
		n := Len(v)
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = Index(v, i)
		}
		return out
	}
	return []any{v}
}

// ToFloat converts an option value to a number the way a loosely typed
// option would be coerced: numbers pass through, numeric strings are parsed,
// booleans become 0/1 and everything else is NaN.
func ToFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// IsNumber reports whether v is a Go numeric value.
func IsNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return true
	}
	return false
}

// IsNumeric reports whether v coerces to a finite number.
// The empty string is not numeric.
func IsNumeric(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(bool); ok {
		return false
	}
	f := ToFloat(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ItemValue returns the `value` field of a data item record, or the item
// itself when it is not a record.
func ItemValue(item any) any {
	if m, ok := item.(*Map); ok {
		return m.Value("value")
	}
	return item
}

// String returns the string form of a scalar option value.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}
