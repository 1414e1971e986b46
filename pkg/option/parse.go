package option

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ParseJSON decodes a JSON document into option values, preserving the
// order of object keys.
func ParseJSON(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	}
	if r.IsArray() {
		out := make([]any, 0)
		r.ForEach(func(_, v gjson.Result) bool {
			out = append(out, fromResult(v))
			return true
		})
		return out
	}
	m := NewMap()
	r.ForEach(func(k, v gjson.Result) bool {
		m.Set(k.Str, fromResult(v))
		return true
	})
	return m
}

// ParseTOML decodes a TOML document into option values. Table keys keep the
// order in which they appear in the document.
func ParseTOML(data []byte) (any, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}
	order := make(map[string]int)
	for i, k := range md.Keys() {
		p := strings.Join(k, "\x00")
		if _, ok := order[p]; !ok {
			order[p] = i
		}
	}
	return fromTOML(raw, "", order), nil
}

func fromTOML(v any, path string, order map[string]int) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		rank := func(k string) int {
			if i, ok := order[joinPath(path, k)]; ok {
				return i
			}
			return math.MaxInt
		}
		sort.SliceStable(keys, func(i, j int) bool {
			ri, rj := rank(keys[i]), rank(keys[j])
			if ri != rj {
				return ri < rj
			}
			return keys[i] < keys[j]
		})
		m := NewMap()
		for _, k := range keys {
			m.Set(k, fromTOML(t[k], joinPath(path, k), order))
		}
		return m
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromTOML(e, path, order)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromTOML(e, path, order)
		}
		return out
	case int64:
		return float64(t)
	case time.Time:
		return float64(t.UnixMilli())
	}
	return v
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "\x00" + key
}

// Patch applies "path=value" assignments to a JSON document. Paths use the
// dotted gjson/sjson syntax (e.g. "series.0.barWidth"). Values that parse
// as JSON are inserted raw, anything else is stored as a string.
func Patch(doc []byte, sets []string) ([]byte, error) {
	for _, s := range sets {
		path, value, ok := strings.Cut(s, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected path=value", s)
		}
		var err error
		if gjson.Valid(value) {
			doc, err = sjson.SetRawBytes(doc, path, []byte(value))
		} else {
			doc, err = sjson.SetBytes(doc, path, value)
		}
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", path, err)
		}
	}
	return doc, nil
}
