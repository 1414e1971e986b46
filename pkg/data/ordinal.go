package data

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/option"
)

// OrdinalMeta maps category labels to stable integer ordinals.
//
// The ordinal of a category is its insertion index and never changes for the
// lifetime of the meta. Categories are only ever appended.
type OrdinalMeta struct {
	categories    []string
	index         map[string]int
	needCollect   bool
	deduplication bool
}

// NewOrdinalMeta creates a meta seeded with categories. With needCollect
// set, unknown categories are appended on demand by ParseAndCollect. With
// deduplication off, every collected value gets a fresh ordinal even if the
// label repeats.
func NewOrdinalMeta(categories []string, needCollect, deduplication bool) *OrdinalMeta {
	return &OrdinalMeta{
		categories:    append([]string(nil), categories...),
		needCollect:   needCollect,
		deduplication: deduplication,
	}
}

// OrdinalMetaFromAxis creates the meta for a category axis from the axis'
// `data` option. Without declared categories, categories are collected from
// the series data.
func OrdinalMetaFromAxis(axisData any, deduplication bool) *OrdinalMeta {
	var categories []string
	if axisData != nil {
		for _, item := range option.ToArray(axisData) {
			categories = append(categories, categoryName(item))
		}
	}
	return NewOrdinalMeta(categories, categories == nil, deduplication)
}

func categoryName(item any) string {
	if m, ok := item.(*option.Map); ok {
		if v := m.Value("value"); v != nil {
			return option.String(v)
		}
	}
	return option.String(item)
}

// Categories returns the collected categories in ordinal order.
func (m *OrdinalMeta) Categories() []string {
	return m.categories
}

// Count returns the number of categories.
func (m *OrdinalMeta) Count() int {
	return len(m.categories)
}

// GetOrdinal returns the ordinal of category, or -1 when unknown.
func (m *OrdinalMeta) GetOrdinal(category string) int {
	if i, ok := m.indexMap()[category]; ok {
		return i
	}
	return -1
}

// ParseAndCollect resolves a raw value to its ordinal, collecting unknown
// categories when the meta allows it. Numbers are treated as ordinals
// already when the meta is not collecting. Unknown categories of a
// non-collecting meta resolve to NaN.
func (m *OrdinalMeta) ParseAndCollect(v any) float64 {
	s, isStr := v.(string)
	if !isStr {
		if !m.needCollect {
			return option.ToFloat(v)
		}
		s = categoryName(v)
	}

	if m.needCollect && !m.deduplication {
		m.categories = append(m.categories, s)
		return float64(len(m.categories) - 1)
	}

	idx := m.indexMap()
	if i, ok := idx[s]; ok {
		return float64(i)
	}
	if !m.needCollect {
		return math.NaN()
	}
	m.categories = append(m.categories, s)
	idx[s] = len(m.categories) - 1
	return float64(len(m.categories) - 1)
}

func (m *OrdinalMeta) indexMap() map[string]int {
	if m.index == nil {
		m.index = make(map[string]int, len(m.categories))
		for i, c := range m.categories {
			if _, ok := m.index[c]; !ok {
				m.index[c] = i
			}
		}
	}
	return m.index
}
