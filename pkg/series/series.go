// Package series describes the built-in series types: their default
// options and how their data is read into Lists.
//
// A pass prepares every series in two steps once coordinate systems exist:
// [PrepareSource] resolves where the data comes from (the series' own data
// or a dataset) and the type's InitialData builds the List, and for graph
// series the Graph, from that Source. [CalculateStacks] then accumulates
// stacked series.
package series

import (
	"sort"
	"sync"

	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/option"
)

// Context is shared by the series of one pass.
type Context struct {
	Global *model.Global
	// Encode hands out default encodes for series sharing a dataset.
	Encode *data.EncodeDefaulter
}

// NewContext returns a context with a fresh encode defaulter.
func NewContext(g *model.Global) *Context {
	return &Context{Global: g, Encode: data.NewEncodeDefaulter()}
}

// Type describes one series type.
type Type struct {
	Name string
	// DefaultOption returns the default option of the type. Every call
	// returns a new map.
	DefaultOption func() *option.Map
	// Stackable types take part in data stacking.
	Stackable bool
	// InitialData builds s.Data, and s.Graph for graph types, from
	// s.Source.
	InitialData func(ctx *Context, s *model.SeriesModel) error
}

// Registry maps series type names to types. It is safe for concurrent
// use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register adds or replaces t.
func (r *Registry) Register(t *Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Name] = t
}

// Get returns the type registered as name.
func (r *Registry) Get(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the default option of a registered type, nil for
// unknown types. It fits model.GlobalOptions.SeriesDefaults.
func (r *Registry) Defaults(name string) *option.Map {
	t, ok := r.Get(name)
	if !ok {
		return nil
	}
	if t.DefaultOption == nil {
		return option.NewMap()
	}
	return t.DefaultOption()
}

// Default returns a registry holding the built-in series types.
func Default() *Registry {
	r := NewRegistry()
	for _, t := range builtin() {
		r.Register(t)
	}
	return r
}

// =============================================================================
// Source preparation
// =============================================================================

// PrepareSource resolves the Source of s: its own data when it has any,
// otherwise the source of the dataset it refers to (datasetIndex or
// datasetId, the first dataset by default). The series' seriesLayoutBy,
// sourceHeader, dimensions and encode options apply to both.
func PrepareSource(g *model.Global, s *model.SeriesModel) error {
	raw := s.Get("data")
	if raw == nil && s.Type == TypeGraph {
		raw = s.Get("nodes")
	}

	meta := data.SourceMeta{
		SeriesLayoutBy: data.SeriesLayoutBy(s.GetString("seriesLayoutBy")),
		SourceHeader:   data.SourceHeaderFromOption(s.Get("sourceHeader")),
		Dimensions:     data.DimensionsFromOption(s.Get("dimensions")),
	}
	encode := data.EncodeFromOption(s.Get("encode"))

	if raw != nil {
		format := data.FormatOriginal
		if option.IsTypedArray(raw) {
			format = data.FormatTypedArray
		}
		s.Source = data.NewSourceWithFormat(raw, format, meta, encode)
		return nil
	}

	ds := g.ReferredComponent(s.Model, model.TypeDataset)
	if ds == nil {
		s.Source = data.NewSourceWithFormat(nil, data.FormatOriginal, meta, encode)
		return nil
	}
	if meta.SeriesLayoutBy == "" {
		meta.SeriesLayoutBy = data.SeriesLayoutBy(ds.GetString("seriesLayoutBy"))
	}
	if !s.Has("sourceHeader") {
		meta.SourceHeader = data.SourceHeaderFromOption(ds.Get("sourceHeader"))
	}
	if meta.Dimensions == nil {
		meta.Dimensions = data.DimensionsFromOption(ds.Get("dimensions"))
	}
	src, err := data.NewSource(ds.Get("source"), meta, encode)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidData, err, "series %q: dataset %d", s.Name, ds.Index)
	}
	src.FromDataset = true
	src.DatasetIndex = ds.Index
	s.Source = src
	return nil
}

// =============================================================================
// Stacking
// =============================================================================

// CalculateStacks accumulates the stacked dimensions of all series sharing
// a stack name, in series order.
func CalculateStacks(g *model.Global) {
	groups := make(map[string][]*data.List)
	var order []string
	g.EachSeries(func(s *model.SeriesModel) {
		stack := s.GetString("stack")
		if stack == "" || s.Data == nil || !s.Data.StackInfo().Enabled() {
			return
		}
		if _, ok := groups[stack]; !ok {
			order = append(order, stack)
		}
		groups[stack] = append(groups[stack], s.Data)
	})
	for _, stack := range order {
		data.CalculateStack(groups[stack])
	}
}
