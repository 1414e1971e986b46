package data

import (
	"github.com/matzehuels/chartcore/pkg/option"
)

// provider reads raw values out of a Source regardless of its format.
type provider struct {
	src *Source
	// keys are the record keys (objectRows, keyedColumns) per dimension.
	keys    []string
	dimSize int
}

func newProvider(src *Source, dims []*DimensionInfo) *provider {
	p := &provider{src: src}
	for _, d := range dims {
		if d.Role == RoleData {
			p.dimSize++
		}
	}
	p.keys = make([]string, len(dims))
	for i, d := range dims {
		p.keys[i] = d.Name
		if i < len(src.DimensionsDefine) && src.DimensionsDefine[i].HasName {
			p.keys[i] = src.DimensionsDefine[i].DisplayName
			if p.keys[i] == "" {
				p.keys[i] = src.DimensionsDefine[i].Name
			}
		}
	}
	return p
}

// count returns the number of data items.
func (p *provider) count() int {
	src := p.src
	switch src.Format {
	case FormatArrayRows:
		rows := option.ToArray(src.Data)
		if src.SeriesLayoutBy == LayoutByRow {
			if len(rows) == 0 {
				return 0
			}
			return max(option.Len(rows[0])-src.StartIndex, 0)
		}
		return max(len(rows)-src.StartIndex, 0)
	case FormatObjectRows, FormatOriginal:
		return option.Len(src.Data)
	case FormatKeyedColumns:
		m, _ := src.Data.(*option.Map)
		if m == nil || len(p.keys) == 0 {
			return 0
		}
		return option.Len(m.Value(p.keys[0]))
	case FormatTypedArray:
		if p.dimSize == 0 {
			return 0
		}
		return option.Len(src.Data) / p.dimSize
	}
	return 0
}

// item returns the raw data item at idx, used for names, ids and
// per-item options.
func (p *provider) item(idx int) any {
	src := p.src
	switch src.Format {
	case FormatArrayRows:
		rows := option.ToArray(src.Data)
		if src.SeriesLayoutBy == LayoutByRow {
			col := make([]any, len(rows))
			for i, r := range rows {
				col[i] = option.Index(r, src.StartIndex+idx)
			}
			return col
		}
		return option.Index(src.Data, src.StartIndex+idx)
	case FormatObjectRows, FormatOriginal:
		return option.Index(src.Data, idx)
	}
	return nil
}

// value returns the raw value of dimension dim for item idx.
func (p *provider) value(item any, idx, dim int) any {
	src := p.src
	switch src.Format {
	case FormatArrayRows:
		return option.Index(item, dim)
	case FormatObjectRows:
		if m, ok := item.(*option.Map); ok && dim < len(p.keys) {
			return m.Value(p.keys[dim])
		}
	case FormatKeyedColumns:
		m, _ := src.Data.(*option.Map)
		if dim < len(p.keys) {
			return option.Index(m.Value(p.keys[dim]), idx)
		}
	case FormatOriginal:
		v := option.ItemValue(item)
		if option.IsArrayLike(v) {
			return option.Index(v, dim)
		}
		return v
	case FormatTypedArray:
		return option.Index(src.Data, idx*p.dimSize+dim)
	}
	return nil
}
