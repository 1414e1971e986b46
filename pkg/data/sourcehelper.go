package data

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/chartcore/pkg/option"
)

// ErrInvalidData is returned when raw data has a shape no source format can
// describe.
var ErrInvalidData = errors.New("invalid data")

// DetectSourceFormat tags the shape of raw data. It is deterministic and has
// no side effects.
func DetectSourceFormat(raw any) (SourceFormat, error) {
	if raw == nil {
		return FormatUnknown, nil
	}
	if option.IsTypedArray(raw) {
		return FormatTypedArray, nil
	}
	switch t := raw.(type) {
	case []any:
		if len(t) == 0 {
			return FormatArrayRows, nil
		}
		for _, item := range t {
			switch item.(type) {
			case nil:
				continue
			case []any:
				return FormatArrayRows, nil
			case *option.Map:
				return FormatObjectRows, nil
			}
			if option.IsTypedArray(item) {
				return FormatArrayRows, nil
			}
		}
		return FormatUnknown, nil
	case *option.Map:
		for _, k := range t.Keys() {
			if option.IsArrayLike(t.Value(k)) {
				return FormatKeyedColumns, nil
			}
		}
		return FormatUnknown, nil
	}
	return FormatUnknown, fmt.Errorf("%w: unsupported top-level value of type %T", ErrInvalidData, raw)
}

// SourceDetection is the result of CompleteBySourceData.
type SourceDetection struct {
	StartIndex            int
	DimensionsDefine      []DimensionDefine
	DimensionsDetectCount int
	PotentialNameDimIndex int
}

// CompleteBySourceData determines header rows, dimension names and the
// detected dimension count from raw data. User-declared dimensions take
// precedence over detected names.
func CompleteBySourceData(raw any, format SourceFormat, layout SeriesLayoutBy, header SourceHeader, dims []DimensionDefine) SourceDetection {
	res := SourceDetection{PotentialNameDimIndex: -1}
	if raw == nil {
		res.DimensionsDefine = NormalizeDimensionsDefine(dims)
		return res
	}

	findPotentialName := false
	var detected []any

	switch format {
	case FormatArrayRows:
		rows := option.ToArray(raw)
		startIndex := -1
		if header.Auto {
			arrayRowsTravelFirst(func(val any, _ int) {
				if val == nil || val == "-" {
					return
				}
				if _, ok := val.(string); ok {
					if startIndex < 0 {
						startIndex = 1
					}
				} else {
					startIndex = 0
				}
			}, layout, rows, 10)
		} else {
			startIndex = header.Rows
		}
		if startIndex < 0 {
			startIndex = 0
		}
		res.StartIndex = startIndex

		if dims == nil && startIndex == 1 {
			arrayRowsTravelFirst(func(val any, i int) {
				for len(detected) <= i {
					detected = append(detected, "")
				}
				if val != nil {
					detected[i] = option.String(val)
				}
			}, layout, rows, -1)
			if detected == nil {
				detected = []any{}
			}
		}

		switch {
		case dims != nil:
			res.DimensionsDetectCount = len(dims)
		case detected != nil:
			res.DimensionsDetectCount = len(detected)
		case layout == LayoutByRow:
			res.DimensionsDetectCount = len(rows)
		case len(rows) > 0:
			res.DimensionsDetectCount = option.Len(rows[0])
		}

	case FormatObjectRows:
		if dims == nil {
			detected = objectRowsCollectDimensions(option.ToArray(raw))
			findPotentialName = true
		}

	case FormatKeyedColumns:
		if dims == nil {
			if m, ok := raw.(*option.Map); ok {
				detected = []any{}
				for _, k := range m.Keys() {
					detected = append(detected, k)
				}
			}
			findPotentialName = true
		}

	case FormatOriginal:
		items := option.ToArray(raw)
		res.DimensionsDetectCount = 1
		if len(items) > 0 {
			if v0 := option.ItemValue(items[0]); option.IsArrayLike(v0) && option.Len(v0) > 0 {
				res.DimensionsDetectCount = option.Len(v0)
			}
		}
	}

	if dims == nil && detected != nil {
		dims = make([]DimensionDefine, len(detected))
		for i, d := range detected {
			dims[i] = DimensionDefine{Name: option.String(d), HasName: true}
		}
	}

	if findPotentialName {
		for i, d := range dims {
			if d.HasName && d.Name == "name" {
				res.PotentialNameDimIndex = i
			}
		}
	}

	res.DimensionsDefine = NormalizeDimensionsDefine(dims)
	return res
}

// arrayRowsTravelFirst visits the first row (layout by column) or the first
// column (layout by row) of arrayRows data. maxLoop < 0 means unlimited.
func arrayRowsTravelFirst(fn func(val any, index int), layout SeriesLayoutBy, rows []any, maxLoop int) {
	limit := func(n int) int {
		if maxLoop >= 0 && n > maxLoop {
			return maxLoop
		}
		return n
	}
	if layout == LayoutByRow {
		for i := 0; i < limit(len(rows)); i++ {
			fn(option.Index(rows[i], 0), i)
		}
		return
	}
	if len(rows) == 0 {
		return
	}
	first := rows[0]
	for i := 0; i < limit(option.Len(first)); i++ {
		fn(option.Index(first, i), i)
	}
}

func objectRowsCollectDimensions(rows []any) []any {
	for _, row := range rows {
		if m, ok := row.(*option.Map); ok {
			out := make([]any, 0, m.Len())
			for _, k := range m.Keys() {
				out = append(out, k)
			}
			return out
		}
	}
	return nil
}

// NormalizeDimensionsDefine stringifies names, defaults display names to the
// name and makes names unique by suffixing later duplicates with "-N", N
// counting from 1 per name. Unnamed entries are kept unnamed. nil stays nil.
func NormalizeDimensionsDefine(dims []DimensionDefine) []DimensionDefine {
	if dims == nil {
		return nil
	}
	used := make(map[string]bool)
	counts := make(map[string]int)
	out := make([]DimensionDefine, len(dims))
	for i, d := range dims {
		item := d
		if !item.HasName {
			out[i] = item
			continue
		}
		if item.DisplayName == "" {
			item.DisplayName = item.Name
		}
		if used[item.Name] {
			n := counts[item.Name]
			if n == 0 {
				n = 1
			}
			for used[item.Name+"-"+strconv.Itoa(n)] {
				n++
			}
			counts[item.Name] = n + 1
			item.Name = item.Name + "-" + strconv.Itoa(n)
		}
		used[item.Name] = true
		out[i] = item
	}
	return out
}

// DimensionsFromOption converts a raw `dimensions` option. nil yields nil.
func DimensionsFromOption(v any) []DimensionDefine {
	if v == nil {
		return nil
	}
	raw := option.ToArray(v)
	out := make([]DimensionDefine, len(raw))
	for i, item := range raw {
		switch t := item.(type) {
		case nil:
		case *option.Map:
			if name := t.Value("name"); name != nil {
				out[i].Name = option.String(name)
				out[i].HasName = true
			}
			if typ, ok := t.Value("type").(string); ok {
				out[i].Type = DimensionType(typ)
			}
			if dn, ok := t.Value("displayName").(string); ok {
				out[i].DisplayName = dn
			}
		default:
			out[i].Name = option.String(t)
			out[i].HasName = true
		}
	}
	return out
}

// =============================================================================
// Ordinal guessing
// =============================================================================

// OrdinalGuess is the result of sampling a dimension's values.
type OrdinalGuess int

const (
	// MustBeOrdinal: a non-numeric string other than "-" was found.
	MustBeOrdinal OrdinalGuess = iota + 1
	// MightBeOrdinal: a numeric-looking string was found.
	MightBeOrdinal
	// NotOrdinal: numbers, nothing decisive, or no data.
	NotOrdinal
)

// GuessOrdinal samples up to five values of dimension dimIndex and guesses
// whether it holds categories. The first decisive sample wins.
func GuessOrdinal(src *Source, dimIndex int) OrdinalGuess {
	return doGuessOrdinal(src.Data, src.Format, src.SeriesLayoutBy, src.DimensionsDefine, src.StartIndex, dimIndex)
}

func doGuessOrdinal(raw any, format SourceFormat, layout SeriesLayoutBy, dims []DimensionDefine, startIndex, dimIndex int) OrdinalGuess {
	const maxLoop = 5

	if option.IsTypedArray(raw) {
		return NotOrdinal
	}

	var dimName string
	hasName := false
	if dimIndex < len(dims) {
		d := dims[dimIndex]
		if d.Type != "" {
			if d.Type == TypeOrdinal {
				return MustBeOrdinal
			}
			return NotOrdinal
		}
		dimName, hasName = d.Name, d.HasName
	}

	switch format {
	case FormatArrayRows:
		rows := option.ToArray(raw)
		if layout == LayoutByRow {
			if dimIndex < len(rows) {
				sample := rows[dimIndex]
				for i := 0; i < option.Len(sample) && i < maxLoop; i++ {
					if r, ok := detectValue(option.Index(sample, startIndex+i)); ok {
						return r
					}
				}
			}
		} else {
			for i := 0; i < len(rows) && i < maxLoop; i++ {
				if startIndex+i >= len(rows) {
					break
				}
				row := rows[startIndex+i]
				if row == nil {
					continue
				}
				if r, ok := detectValue(option.Index(row, dimIndex)); ok {
					return r
				}
			}
		}

	case FormatObjectRows:
		if !hasName || dimName == "" {
			return NotOrdinal
		}
		rows := option.ToArray(raw)
		for i := 0; i < len(rows) && i < maxLoop; i++ {
			if m, ok := rows[i].(*option.Map); ok {
				if r, ok := detectValue(m.Value(dimName)); ok {
					return r
				}
			}
		}

	case FormatKeyedColumns:
		if !hasName || dimName == "" {
			return NotOrdinal
		}
		m, _ := raw.(*option.Map)
		sample := m.Value(dimName)
		if sample == nil || option.IsTypedArray(sample) {
			return NotOrdinal
		}
		for i := 0; i < option.Len(sample) && i < maxLoop; i++ {
			if r, ok := detectValue(option.Index(sample, i)); ok {
				return r
			}
		}

	case FormatOriginal:
		items := option.ToArray(raw)
		for i := 0; i < len(items) && i < maxLoop; i++ {
			val := option.ItemValue(items[i])
			if !option.IsArray(val) {
				return NotOrdinal
			}
			if r, ok := detectValue(option.Index(val, dimIndex)); ok {
				return r
			}
		}
	}
	return NotOrdinal
}

func detectValue(v any) (OrdinalGuess, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		if t != "" && option.IsNumeric(t) {
			return MightBeOrdinal, true
		}
		if t != "-" {
			return MustBeOrdinal, true
		}
		return 0, false
	case bool:
		return NotOrdinal, true
	}
	if option.IsNumber(v) && option.IsNumeric(v) {
		return NotOrdinal, true
	}
	return 0, false
}
