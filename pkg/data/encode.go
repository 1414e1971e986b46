package data

import "fmt"

// datasetRecord tracks, per dataset and orientation, which data dimensions
// previous series already consumed by default.
type datasetRecord struct {
	categoryWayDim int
	valueWayDim    int
}

// EncodeDefaulter generates default encodes for series that read from a
// shared dataset. Successive series on the same dataset take successive
// value columns. A fresh defaulter is used for every layout pass.
type EncodeDefaulter struct {
	records map[string]*datasetRecord
}

// NewEncodeDefaulter creates an empty defaulter.
func NewEncodeDefaulter() *EncodeDefaulter {
	return &EncodeDefaulter{records: make(map[string]*datasetRecord)}
}

// ForAxisCoordSys builds the default encode of a series on an axis-based
// coordinate system (cartesian, polar, single). With a category axis among
// coordDims, the category axis reads dimension 0 and the other axes read
// the next unused columns; otherwise every axis takes the next unused
// columns. Only sources shared from a dataset get defaults.
func (d *EncodeDefaulter) ForAxisCoordSys(coordDims []SysDim, src *Source) *Encode {
	enc := NewEncode()
	if src == nil || !src.FromDataset || len(coordDims) == 0 {
		return enc
	}

	var itemName, seriesName []any
	baseCategory := -1
	categoryWayStart := 0
	for i, cd := range coordDims {
		if cd.Type == TypeOrdinal && baseCategory < 0 {
			baseCategory = i
			categoryWayStart = dimCountOnCoordDim(cd)
		}
		enc.Set(cd.Name)
	}

	key := fmt.Sprintf("%d_%s", src.DatasetIndex, src.SeriesLayoutBy)
	rec, ok := d.records[key]
	if !ok {
		rec = &datasetRecord{categoryWayDim: categoryWayStart}
		d.records[key] = rec
	}

	for i, cd := range coordDims {
		count := dimCountOnCoordDim(cd)
		dims, _ := enc.Get(cd.Name)
		switch {
		case baseCategory < 0:
			start := rec.valueWayDim
			dims = pushDims(dims, start, count)
			seriesName = pushDims(seriesName, start, count)
			rec.valueWayDim += count
		case baseCategory == i:
			dims = pushDims(dims, 0, count)
			itemName = pushDims(itemName, 0, count)
		default:
			start := rec.categoryWayDim
			dims = pushDims(dims, start, count)
			seriesName = pushDims(seriesName, start, count)
			rec.categoryWayDim += count
		}
		enc.Set(cd.Name, dims...)
	}

	if len(itemName) > 0 {
		enc.Set(OtherItemName, itemName...)
	}
	if len(seriesName) > 0 {
		enc.Set(OtherSeriesName, seriesName...)
	}
	return enc
}

// ForNameBased builds the default encode of a series without axes (pie,
// funnel): the first purely numeric dimension among the first five becomes
// the value, and a category-like dimension becomes the item name. A
// dimension named "name" always wins as item name.
func (d *EncodeDefaulter) ForNameBased(src *Source, dimCount int) *Encode {
	enc := NewEncode()
	if src == nil || !src.FromDataset {
		return enc
	}

	potentialName := -1
	if src.Format == FormatObjectRows || src.Format == FormatKeyedColumns {
		for i, dim := range src.DimensionsDefine {
			if dim.HasName && dim.Name == "name" {
				potentialName = i
			}
		}
	}

	type idxResult struct{ v, n int }
	res0 := idxResult{-1, -1}
	res1 := idxResult{-1, -1}
	fulfilled := func(r idxResult) bool { return r.v >= 0 && r.n >= 0 }

	var records []OrdinalGuess
	var chosen *idxResult
	n := dimCount
	if n > 5 {
		n = 5
	}
	for i := 0; i < n; i++ {
		guess := doGuessOrdinal(src.Data, src.Format, src.SeriesLayoutBy, src.DimensionsDefine, src.StartIndex, i)
		records = append(records, guess)
		pureNumber := guess == NotOrdinal

		if pureNumber && res0.v < 0 && i != potentialName {
			res0.v = i
		}
		if res0.n < 0 || res0.n == res0.v || (!pureNumber && records[res0.n] == NotOrdinal) {
			res0.n = i
		}
		if fulfilled(res0) && records[res0.n] != NotOrdinal {
			chosen = &res0
			break
		}

		if !pureNumber {
			if guess == MightBeOrdinal && res1.v < 0 && i != potentialName {
				res1.v = i
			}
			if res1.n < 0 || res1.n == res1.v {
				res1.n = i
			}
		}
	}
	if chosen == nil {
		switch {
		case fulfilled(res0):
			chosen = &res0
		case fulfilled(res1):
			chosen = &res1
		}
	}

	if chosen != nil {
		enc.Set("value", chosen.v)
		nameDim := chosen.n
		if potentialName >= 0 {
			nameDim = potentialName
		}
		enc.Set(OtherItemName, nameDim)
		enc.Set(OtherSeriesName, nameDim)
	}
	return enc
}

func dimCountOnCoordDim(cd SysDim) int {
	if len(cd.DimsDef) > 0 {
		return len(cd.DimsDef)
	}
	return 1
}

func pushDims(dst []any, from, count int) []any {
	for i := 0; i < count; i++ {
		dst = append(dst, from+i)
	}
	return dst
}
