package data

import (
	"github.com/matzehuels/chartcore/pkg/option"
)

// SourceFormat tags the shape of raw input data.
type SourceFormat string

// Source formats.
const (
	FormatArrayRows    SourceFormat = "arrayRows"
	FormatObjectRows   SourceFormat = "objectRows"
	FormatKeyedColumns SourceFormat = "keyedColumns"
	FormatTypedArray   SourceFormat = "typedArray"
	FormatOriginal     SourceFormat = "original"
	FormatUnknown      SourceFormat = "unknown"
)

// SeriesLayoutBy is the orientation of arrayRows data.
type SeriesLayoutBy string

// Layout orientations. With LayoutByColumn each column is a dimension.
const (
	LayoutByColumn SeriesLayoutBy = "column"
	LayoutByRow    SeriesLayoutBy = "row"
)

// Encode maps coordinate dimensions (and auxiliary roles such as
// "itemName") to data dimensions. Entries are either int indices or
// dimension names. Key order is preserved.
type Encode struct {
	keys []string
	dims map[string][]any
}

// NewEncode creates an empty Encode.
func NewEncode() *Encode {
	return &Encode{dims: make(map[string][]any)}
}

// EncodeFromOption converts an `encode` option record. nil yields nil, which
// is different from an empty Encode: only a nil Encode lets defaults apply.
func EncodeFromOption(v any) *Encode {
	m, ok := v.(*option.Map)
	if !ok {
		return nil
	}
	e := NewEncode()
	m.Each(func(key string, raw any) {
		var dims []any
		for _, d := range option.ToArray(raw) {
			switch t := d.(type) {
			case string:
				dims = append(dims, t)
			default:
				dims = append(dims, int(option.ToFloat(t)))
			}
		}
		e.Set(key, dims...)
	})
	return e
}

// Set binds coordDim to dims, replacing any previous binding.
func (e *Encode) Set(coordDim string, dims ...any) {
	if _, ok := e.dims[coordDim]; !ok {
		e.keys = append(e.keys, coordDim)
	}
	e.dims[coordDim] = dims
}

// Get returns the dims bound to coordDim.
func (e *Encode) Get(coordDim string) ([]any, bool) {
	if e == nil {
		return nil, false
	}
	d, ok := e.dims[coordDim]
	return d, ok
}

// Keys returns the bound coordinate dimensions in insertion order.
func (e *Encode) Keys() []string {
	if e == nil {
		return nil
	}
	return e.keys
}

// Len returns the number of bindings.
func (e *Encode) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Indices returns the int indices bound to coordDim, skipping names.
func (e *Encode) Indices(coordDim string) []int {
	d, _ := e.Get(coordDim)
	var out []int
	for _, v := range d {
		if i, ok := v.(int); ok {
			out = append(out, i)
		}
	}
	return out
}

// Source is the normalized description of raw series or dataset data.
// It is read-only after construction.
type Source struct {
	Data           any
	Format         SourceFormat
	SeriesLayoutBy SeriesLayoutBy
	// DimensionsDefine is nil when no names could be determined.
	DimensionsDefine []DimensionDefine
	// EncodeDefine is the user's `encode`, nil when not given.
	EncodeDefine *Encode
	// StartIndex is the number of header rows (arrayRows only).
	StartIndex int
	// DimensionsDetectCount is 0 when unknown.
	DimensionsDetectCount int
	// PotentialNameDimIndex is the index of a dimension literally named
	// "name", or -1.
	PotentialNameDimIndex int
	// FromDataset is set when the source was shared from a dataset
	// component rather than taken from the series' own data.
	FromDataset bool
	// DatasetIndex identifies the upstream dataset when FromDataset is set.
	DatasetIndex int
}

// SourceHeader is the `sourceHeader` option: Auto detects from data,
// otherwise Rows header rows are skipped.
type SourceHeader struct {
	Auto bool
	Rows int
}

// SourceHeaderFromOption converts a raw `sourceHeader` option value.
func SourceHeaderFromOption(v any) SourceHeader {
	switch t := v.(type) {
	case nil:
		return SourceHeader{Auto: true}
	case string:
		if t == "auto" {
			return SourceHeader{Auto: true}
		}
		if t == "" {
			return SourceHeader{}
		}
		return SourceHeader{Rows: 1}
	case bool:
		if t {
			return SourceHeader{Rows: 1}
		}
		return SourceHeader{}
	case float64:
		return SourceHeader{Rows: int(t)}
	}
	return SourceHeader{Auto: true}
}

// SourceMeta is the per-series or per-dataset description of how raw data
// should be read.
type SourceMeta struct {
	SeriesLayoutBy SeriesLayoutBy
	SourceHeader   SourceHeader
	// Dimensions are user-declared dimensions, nil when not declared.
	Dimensions []DimensionDefine
}

// NewSource detects the format of raw data and completes header and
// dimension information. It fails with ErrInvalidData when the data shape
// is not recognized.
func NewSource(raw any, meta SourceMeta, encode *Encode) (*Source, error) {
	format, err := DetectSourceFormat(raw)
	if err != nil {
		return nil, err
	}
	return NewSourceWithFormat(raw, format, meta, encode), nil
}

// NewSourceWithFormat builds a Source for data whose format is already known.
func NewSourceWithFormat(raw any, format SourceFormat, meta SourceMeta, encode *Encode) *Source {
	layout := meta.SeriesLayoutBy
	if layout == "" {
		layout = LayoutByColumn
	}
	det := CompleteBySourceData(raw, format, layout, meta.SourceHeader, meta.Dimensions)
	return &Source{
		Data:                  raw,
		Format:                format,
		SeriesLayoutBy:        layout,
		DimensionsDefine:      det.DimensionsDefine,
		EncodeDefine:          encode,
		StartIndex:            det.StartIndex,
		DimensionsDetectCount: det.DimensionsDetectCount,
		PotentialNameDimIndex: det.PotentialNameDimIndex,
	}
}

// SourceFromSeriesData wraps series `data` that does not come from a
// dataset: typed arrays keep their format, anything else is "original".
func SourceFromSeriesData(raw any) *Source {
	format := FormatOriginal
	if option.IsTypedArray(raw) {
		format = FormatTypedArray
	}
	return NewSourceWithFormat(raw, format, SourceMeta{}, nil)
}
