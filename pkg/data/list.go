package data

import (
	"math"
	"sort"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"

	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/option"
)

// List is the columnar dataset of one series. Values are stored per
// dimension as float64: ordinal dimensions hold category ordinals, time
// dimensions hold epoch milliseconds and missing values are NaN.
//
// A List may be filtered; item indices then address the remaining items
// while raw indices keep addressing the original data.
type List struct {
	dims     []*DimensionInfo
	dimIndex map[string]int

	storage [][]float64
	// indices maps item index to raw index, nil when unfiltered.
	indices []int
	rawItems []any
	names    []string
	ids      []string

	inverted  map[int]map[float64]int
	extents   map[int][2]float64
	stackInfo StackInfo

	itemLayouts []any
	layout      map[string]any

	// indexDim reads the item index instead of the raw value, -1 if none.
	indexDim int
}

// NewList creates an empty List over dims. Ordinal dimensions without an
// OrdinalMeta get a collecting one of their own.
func NewList(dims []*DimensionInfo) *List {
	l := &List{
		dims:     dims,
		dimIndex: make(map[string]int, len(dims)),
		layout:   make(map[string]any),
		indexDim: -1,
	}
	for i, d := range dims {
		l.dimIndex[d.Name] = i
		if d.IsOrdinal() && d.OrdinalMeta == nil {
			d.OrdinalMeta = NewOrdinalMeta(nil, true, true)
		}
	}
	return l
}

// UseIndexAsValue makes InitData store the item index as the value of
// dim. It is used for a category dimension of data that only lists the
// values of the other axis.
func (l *List) UseIndexAsValue(dim string) {
	if i, ok := l.dimIndex[dim]; ok {
		l.indexDim = i
	}
}

// NeedsOrdinalIndex reports whether items of src are plain values rather
// than arrays, so a category dimension has to be filled with item indices.
func NeedsOrdinalIndex(src *Source) bool {
	if src == nil || src.Format != FormatOriginal {
		return false
	}
	for _, item := range option.ToArray(src.Data) {
		if v := option.ItemValue(item); v != nil {
			return !option.IsArrayLike(v)
		}
	}
	return false
}

// InitData reads all items of src into the List. nameList provides item
// names used when the data items carry none.
func (l *List) InitData(src *Source, nameList []string) {
	p := newProvider(src, l.dims)
	n := p.count()

	l.storage = make([][]float64, len(l.dims))
	for d := range l.storage {
		l.storage[d] = make([]float64, n)
	}
	l.rawItems = make([]any, n)
	l.names = make([]string, n)
	l.ids = make([]string, n)
	l.indices = nil
	l.extents = nil
	l.itemLayouts = nil

	nameDim, idDim := -1, -1
	for i, d := range l.dims {
		if _, ok := d.OtherDims[OtherItemName]; ok && nameDim < 0 {
			nameDim = i
		}
		if _, ok := d.OtherDims[OtherItemID]; ok && idDim < 0 {
			idDim = i
		}
	}

	for idx := 0; idx < n; idx++ {
		item := p.item(idx)
		l.rawItems[idx] = item
		for d, dim := range l.dims {
			if dim.Role != RoleData {
				l.storage[d][idx] = math.NaN()
				continue
			}
			if d == l.indexDim {
				l.storage[d][idx] = float64(idx)
				continue
			}
			raw := p.value(item, idx, d)
			l.storage[d][idx] = l.parseValue(dim, raw)
			if d == nameDim {
				l.names[idx] = rawName(raw)
			}
			if d == idDim {
				l.ids[idx] = rawName(raw)
			}
		}
		if m, ok := item.(*option.Map); ok {
			if name := m.Value("name"); name != nil && l.names[idx] == "" {
				l.names[idx] = option.String(name)
			}
			if id := m.Value("id"); id != nil && l.ids[idx] == "" {
				l.ids[idx] = option.String(id)
			}
		}
		if l.names[idx] == "" && idx < len(nameList) {
			l.names[idx] = nameList[idx]
		}
		if l.ids[idx] == "" {
			l.ids[idx] = l.names[idx]
			if l.ids[idx] == "" {
				l.ids[idx] = "e\x00" + strconv.Itoa(idx)
			}
		}
	}
	l.buildInvertedIndices()
}

func (l *List) parseValue(dim *DimensionInfo, raw any) float64 {
	if raw == nil || raw == "-" {
		return math.NaN()
	}
	if m, ok := raw.(*option.Map); ok {
		raw = m.Value("value")
	}
	switch {
	case dim.OrdinalMeta != nil && dim.IsOrdinal():
		return dim.OrdinalMeta.ParseAndCollect(raw)
	case dim.OrdinalMeta != nil:
		if _, isStr := raw.(string); isStr && !option.IsNumeric(raw) {
			return dim.OrdinalMeta.ParseAndCollect(raw)
		}
	case dim.Type == TypeTime:
		return numeric.ParseDate(raw)
	case dim.Type == TypeInt:
		return math.Round(option.ToFloat(raw))
	}
	return option.ToFloat(raw)
}

func rawName(v any) string {
	if v == nil {
		return ""
	}
	return option.String(v)
}

func (l *List) buildInvertedIndices() {
	l.inverted = nil
	for d, dim := range l.dims {
		if !dim.CreateInvertedIndices {
			continue
		}
		if l.inverted == nil {
			l.inverted = make(map[int]map[float64]int)
		}
		inv := make(map[float64]int, len(l.storage[d]))
		for raw, v := range l.storage[d] {
			if math.IsNaN(v) {
				continue
			}
			if _, ok := inv[v]; !ok {
				inv[v] = raw
			}
		}
		l.inverted[d] = inv
	}
}

// =============================================================================
// Dimensions
// =============================================================================

// Dimensions returns the dimension names in order.
func (l *List) Dimensions() []string {
	out := make([]string, len(l.dims))
	for i, d := range l.dims {
		out[i] = d.Name
	}
	return out
}

// DimensionInfos returns the resolved dimension descriptors.
func (l *List) DimensionInfos() []*DimensionInfo { return l.dims }

// DimensionInfo returns the descriptor of dim, or nil.
func (l *List) DimensionInfo(dim string) *DimensionInfo {
	if i, ok := l.dimIndex[dim]; ok {
		return l.dims[i]
	}
	return nil
}

// DimensionIndex returns the storage index of dim, or -1.
func (l *List) DimensionIndex(dim string) int {
	if i, ok := l.dimIndex[dim]; ok {
		return i
	}
	return -1
}

// MapDimension returns the first data dimension bound to coordDim, or ""
// when none is.
func (l *List) MapDimension(coordDim string) string {
	for _, d := range l.dims {
		if d.CoordDim == coordDim && d.CoordDimIndex == 0 && d.Role == RoleData {
			return d.Name
		}
	}
	return ""
}

// MapDimensionsAll returns every data dimension bound to coordDim ordered
// by coordDimIndex.
func (l *List) MapDimensionsAll(coordDim string) []string {
	var found []*DimensionInfo
	for _, d := range l.dims {
		if d.CoordDim == coordDim && d.Role == RoleData {
			found = append(found, d)
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].CoordDimIndex < found[j].CoordDimIndex })
	out := make([]string, len(found))
	for i, d := range found {
		out[i] = d.Name
	}
	return out
}

// StackInfo returns the stacking bookkeeping of the series.
func (l *List) StackInfo() StackInfo { return l.stackInfo }

// SetStackInfo records the stacking bookkeeping of the series.
func (l *List) SetStackInfo(info StackInfo) { l.stackInfo = info }

// =============================================================================
// Item access
// =============================================================================

// Count returns the number of items, after filtering.
func (l *List) Count() int {
	if l.indices != nil {
		return len(l.indices)
	}
	if len(l.storage) == 0 {
		return len(l.rawItems)
	}
	return len(l.storage[0])
}

// RawCount returns the number of items before filtering.
func (l *List) RawCount() int { return len(l.rawItems) }

// RawIndex returns the raw index of item idx, or -1 when out of range.
func (l *List) RawIndex(idx int) int {
	if idx < 0 || idx >= l.Count() {
		return -1
	}
	if l.indices != nil {
		return l.indices[idx]
	}
	return idx
}

// IndexOfRawIndex returns the item index of a raw index, or -1 when the
// raw item was filtered out.
func (l *List) IndexOfRawIndex(raw int) int {
	if raw < 0 || raw >= l.RawCount() {
		return -1
	}
	if l.indices == nil {
		return raw
	}
	i := sort.SearchInts(l.indices, raw)
	if i < len(l.indices) && l.indices[i] == raw {
		return i
	}
	return -1
}

func (l *List) getAt(dim, idx int) float64 {
	raw := l.RawIndex(idx)
	if dim < 0 || raw < 0 {
		return math.NaN()
	}
	return l.storage[dim][raw]
}

func (l *List) setAt(dim, idx int, v float64) {
	raw := l.RawIndex(idx)
	if dim < 0 || raw < 0 {
		return
	}
	l.storage[dim][raw] = v
	delete(l.extents, dim)
}

// Get returns the value of dim for item idx. Unknown dimensions and out of
// range indices yield NaN.
func (l *List) Get(dim string, idx int) float64 {
	return l.getAt(l.DimensionIndex(dim), idx)
}

// Set overwrites the value of dim for item idx. It is meant for calculated
// dimensions.
func (l *List) Set(dim string, idx int, v float64) {
	l.setAt(l.DimensionIndex(dim), idx, v)
}

// GetValues returns the values of dims for item idx.
func (l *List) GetValues(dims []string, idx int) []float64 {
	out := make([]float64, len(dims))
	for i, d := range dims {
		out[i] = l.Get(d, idx)
	}
	return out
}

// GetByRawIndex returns the value of dim at a raw index.
func (l *List) GetByRawIndex(dim string, raw int) float64 {
	d := l.DimensionIndex(dim)
	if d < 0 || raw < 0 || raw >= l.RawCount() {
		return math.NaN()
	}
	return l.storage[d][raw]
}

// GetName returns the name of item idx.
func (l *List) GetName(idx int) string {
	if raw := l.RawIndex(idx); raw >= 0 {
		return l.names[raw]
	}
	return ""
}

// GetID returns the id of item idx. Items without id or name get a
// generated id that is stable for their raw index.
func (l *List) GetID(idx int) string {
	if raw := l.RawIndex(idx); raw >= 0 {
		return l.ids[raw]
	}
	return ""
}

// GetRawItem returns the raw data item of idx.
func (l *List) GetRawItem(idx int) any {
	if raw := l.RawIndex(idx); raw >= 0 {
		return l.rawItems[raw]
	}
	return nil
}

// IndexOfName returns the first item named name, or -1.
func (l *List) IndexOfName(name string) int {
	for i := 0; i < l.Count(); i++ {
		if l.GetName(i) == name {
			return i
		}
	}
	return -1
}

// RawIndexOf returns the raw index of the first item whose dim equals
// value, using the inverted index when the dimension has one. -1 when not
// found.
func (l *List) RawIndexOf(dim string, value float64) int {
	d := l.DimensionIndex(dim)
	if d < 0 || math.IsNaN(value) {
		return -1
	}
	if inv, ok := l.inverted[d]; ok {
		if raw, ok := inv[value]; ok {
			return raw
		}
		return -1
	}
	for raw, v := range l.storage[d] {
		if v == value {
			return raw
		}
	}
	return -1
}

// IndexOfRawValue returns the item index of the first item whose dim
// equals value, or -1.
func (l *List) IndexOfRawValue(dim string, value float64) int {
	return l.IndexOfRawIndex(l.RawIndexOf(dim, value))
}

// =============================================================================
// Statistics
// =============================================================================

func (l *List) finiteValues(d int) []float64 {
	vals := make([]float64, 0, l.Count())
	for i := 0; i < l.Count(); i++ {
		if v := l.getAt(d, i); numeric.IsFinite(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

// DataExtent returns the [min, max] of dim over the current items,
// ignoring NaN. An empty extent is [+Inf, -Inf].
func (l *List) DataExtent(dim string) [2]float64 {
	d := l.DimensionIndex(dim)
	empty := [2]float64{math.Inf(1), math.Inf(-1)}
	if d < 0 {
		return empty
	}
	if ext, ok := l.extents[d]; ok {
		return ext
	}
	vals := l.finiteValues(d)
	ext := empty
	if len(vals) > 0 {
		ext[0], ext[1] = stats.Bounds(vals)
	}
	if l.extents == nil {
		l.extents = make(map[int][2]float64)
	}
	l.extents[d] = ext
	return ext
}

// Sum returns the sum of the finite values of dim.
func (l *List) Sum(dim string) float64 {
	d := l.DimensionIndex(dim)
	if d < 0 {
		return 0
	}
	return vec.Sum(l.finiteValues(d))
}

// =============================================================================
// Iteration and transforms
// =============================================================================

// Each calls fn with the values of dims for every item.
func (l *List) Each(dims []string, fn func(idx int, values []float64)) {
	for i := 0; i < l.Count(); i++ {
		fn(i, l.GetValues(dims, i))
	}
}

// Filter keeps the items for which keep returns true. Raw indices,
// names and ids of kept items are preserved.
func (l *List) Filter(dims []string, keep func(idx int, values []float64) bool) *List {
	kept := make([]int, 0, l.Count())
	for i := 0; i < l.Count(); i++ {
		if keep(i, l.GetValues(dims, i)) {
			kept = append(kept, l.RawIndex(i))
		}
	}
	l.indices = kept
	l.extents = nil
	return l
}

// Map returns a copy of the List whose dims values are replaced by fn.
// The receiver is not modified.
func (l *List) Map(dims []string, fn func(idx int, values []float64) []float64) *List {
	out := l.CloneShallow()
	dimIdx := make([]int, len(dims))
	for i, d := range dims {
		dimIdx[i] = l.DimensionIndex(d)
		if dimIdx[i] >= 0 {
			out.storage[dimIdx[i]] = append([]float64(nil), l.storage[dimIdx[i]]...)
		}
	}
	for i := 0; i < l.Count(); i++ {
		res := fn(i, l.GetValues(dims, i))
		for k, d := range dimIdx {
			if d >= 0 && k < len(res) {
				out.storage[d][l.RawIndex(i)] = res[k]
			}
		}
	}
	return out
}

// CloneShallow returns a List sharing the value storage of l with its own
// filtering, extent cache and layouts.
func (l *List) CloneShallow() *List {
	out := *l
	out.storage = append([][]float64(nil), l.storage...)
	if l.indices != nil {
		out.indices = append([]int(nil), l.indices...)
	}
	out.extents = nil
	out.itemLayouts = append([]any(nil), l.itemLayouts...)
	out.layout = make(map[string]any, len(l.layout))
	for k, v := range l.layout {
		out.layout[k] = v
	}
	return &out
}

// ListDiff is the result of Diff.
type ListDiff struct {
	Added   []int `json:"added"`
	Updated [][2]int `json:"updated"`
	Removed []int `json:"removed"`
}

// Diff matches items of old and l by id. Added and Removed hold item
// indices into l and old; Updated holds [newIdx, oldIdx] pairs.
func (l *List) Diff(old *List) ListDiff {
	var res ListDiff
	oldByID := make(map[string]int)
	if old != nil {
		for i := 0; i < old.Count(); i++ {
			oldByID[old.GetID(i)] = i
		}
	}
	seen := make(map[string]bool)
	for i := 0; i < l.Count(); i++ {
		id := l.GetID(i)
		if j, ok := oldByID[id]; ok && !seen[id] {
			res.Updated = append(res.Updated, [2]int{i, j})
			seen[id] = true
			continue
		}
		res.Added = append(res.Added, i)
	}
	if old != nil {
		for i := 0; i < old.Count(); i++ {
			if !seen[old.GetID(i)] {
				res.Removed = append(res.Removed, i)
			}
		}
	}
	return res
}

// =============================================================================
// Layout slots
// =============================================================================

// SetItemLayout stores the computed layout of item idx.
func (l *List) SetItemLayout(idx int, layout any) {
	if idx < 0 || idx >= l.Count() {
		return
	}
	if len(l.itemLayouts) < l.Count() {
		grown := make([]any, l.Count())
		copy(grown, l.itemLayouts)
		l.itemLayouts = grown
	}
	l.itemLayouts[idx] = layout
}

// ItemLayout returns the layout of item idx, or nil.
func (l *List) ItemLayout(idx int) any {
	if idx < 0 || idx >= len(l.itemLayouts) {
		return nil
	}
	return l.itemLayouts[idx]
}

// ItemLayouts returns all item layouts, indexed by item index.
func (l *List) ItemLayouts() []any { return l.itemLayouts }

// SetLayout stores a series-level layout value.
func (l *List) SetLayout(key string, v any) { l.layout[key] = v }

// Layout returns a series-level layout value.
func (l *List) Layout(key string) any { return l.layout[key] }

// LayoutKeys returns the keys of the series-level layout in sorted order.
func (l *List) LayoutKeys() []string {
	keys := make([]string, 0, len(l.layout))
	for k := range l.layout {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
