// Package model provides read access to chart options.
//
// A [Model] wraps one option record and an optional parent. Lookups that
// miss in the record fall back to the parent, which is how component and
// series defaults apply without copying them into every option.
//
// [Global] is the model of a whole chart: it splits the option into
// components (axes, grids, datasets, ...) and series and keeps them in
// declaration order.
package model

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/option"
)

// Model is an option record with parent fallback. The zero value and the
// nil Model are empty.
type Model struct {
	option *option.Map
	parent *Model
}

// New creates a model over opt. parent may be nil.
func New(opt *option.Map, parent *Model) *Model {
	if opt == nil {
		opt = option.NewMap()
	}
	return &Model{option: opt, parent: parent}
}

// Option returns the record of this model without parent values.
func (m *Model) Option() *option.Map {
	if m == nil {
		return nil
	}
	return m.option
}

// Parent returns the fallback model, or nil.
func (m *Model) Parent() *Model {
	if m == nil {
		return nil
	}
	return m.parent
}

// Get returns the value at path, walking nested records. A missing or nil
// value is looked up in the parent chain.
func (m *Model) Get(path ...string) any {
	for cur := m; cur != nil; cur = cur.parent {
		if v := lookup(cur.option, path); v != nil {
			return v
		}
	}
	return nil
}

// GetOwn returns the value at path without consulting the parent.
func (m *Model) GetOwn(path ...string) any {
	if m == nil {
		return nil
	}
	return lookup(m.option, path)
}

func lookup(opt *option.Map, path []string) any {
	var cur any = opt
	for _, key := range path {
		rec, ok := cur.(*option.Map)
		if !ok || rec == nil {
			return nil
		}
		cur = rec.Value(key)
	}
	if len(path) == 0 {
		return nil
	}
	return cur
}

// Has reports whether path resolves to a non-nil value.
func (m *Model) Has(path ...string) bool {
	return m.Get(path...) != nil
}

// GetString returns the value at path as a string, "" when missing.
func (m *Model) GetString(path ...string) string {
	return option.String(m.Get(path...))
}

// GetFloat returns the value at path as a number, NaN when missing or not
// numeric.
func (m *Model) GetFloat(path ...string) float64 {
	v := m.Get(path...)
	if v == nil {
		return math.NaN()
	}
	return option.ToFloat(v)
}

// GetInt returns the value at path truncated to an int, 0 when missing.
func (m *Model) GetInt(path ...string) int {
	f := m.GetFloat(path...)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// GetBool returns the truthiness of the value at path.
func (m *Model) GetBool(path ...string) bool {
	switch t := m.Get(path...).(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	}
	return true
}

// GetSlice returns the value at path as a slice. Scalars become
// one-element slices and a missing value is nil.
func (m *Model) GetSlice(path ...string) []any {
	v := m.Get(path...)
	if v == nil {
		return nil
	}
	return option.ToArray(v)
}

// GetModel returns the child model at path. Its parent is the matching
// child of this model's parent, so nested defaults keep applying.
func (m *Model) GetModel(path ...string) *Model {
	var parent *Model
	if m.Parent() != nil {
		parent = m.Parent().GetModel(path...)
	}
	rec, _ := m.GetOwn(path...).(*option.Map)
	return New(rec, parent)
}
