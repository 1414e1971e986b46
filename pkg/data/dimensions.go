package data

import (
	"strconv"
)

// CompleteOptions controls CompleteDimensions.
type CompleteOptions struct {
	// DimsDef are the user-declared dimensions (series or dataset
	// `dimensions`).
	DimsDef []DimensionDefine
	// EncodeDef is the user's encode. A nil EncodeDef lets EncodeDefaulter
	// provide one.
	EncodeDef       *Encode
	EncodeDefaulter func(src *Source, dimCount int) *Encode
	// GenerateCoord names generated coordDims instead of "value".
	GenerateCoord string
	// GenerateCoordCount is the number of generated coordDims that are
	// not marked extra. With a non-zero count generated names are numbered
	// from zero (GenerateCoord+"0", GenerateCoord+"1", ...).
	GenerateCoordCount int
	// DimCount forces a minimum dimension count.
	DimCount int
}

// CompleteDimensions merges the dimensions a coordinate system requires,
// user-declared dimensions and encode bindings into the resolved dimension
// list of a series. The returned descriptors have unique names and a
// non-empty coordDim. src is not modified.
func CompleteDimensions(sysDims []SysDim, src *Source, opt CompleteOptions) []*DimensionInfo {
	dimCount := getDimCount(src, sysDims, opt.DimsDef, opt.DimCount)

	result := make([]*DimensionInfo, dimCount)
	nameMap := make(map[string]bool)
	coordDimNames := make(map[string]bool)
	nameIndex := make(map[string]int)

	for i := 0; i < dimCount; i++ {
		item := newDimensionInfo()
		result[i] = item
		if i >= len(opt.DimsDef) {
			continue
		}
		def := opt.DimsDef[i]
		if def.HasName && !nameMap[def.Name] {
			item.Name = def.Name
			item.DisplayName = def.Name
			item.hasName = true
			nameMap[def.Name] = true
			nameIndex[def.Name] = i
		}
		if def.Type != "" {
			item.Type = def.Type
		}
		if def.DisplayName != "" {
			item.DisplayName = def.DisplayName
		}
	}

	applyDim := func(item *DimensionInfo, coordDim string, coordDimIndex int) {
		if IsOtherDimension(coordDim) {
			item.OtherDims[coordDim] = coordDimIndex
			return
		}
		item.CoordDim = coordDim
		item.CoordDimIndex = coordDimIndex
		item.hasCoordDim = true
		coordDimNames[coordDim] = true
	}

	encodeDef := opt.EncodeDef
	if encodeDef == nil && opt.EncodeDefaulter != nil {
		encodeDef = opt.EncodeDefaulter(src, dimCount)
	}

	type binding struct{ dim, coordDimIndex int }
	bound := make(map[string][]binding)
	unbound := make(map[string]bool)

	for _, coordDim := range encodeDef.Keys() {
		refs, _ := encodeDef.Get(coordDim)
		// A single negative index means the coordDim is explicitly unbound.
		if len(refs) == 1 {
			if i, ok := refs[0].(int); ok && i < 0 {
				unbound[coordDim] = true
				continue
			}
		}
		valid := []binding{}
		for idx, ref := range refs {
			dim := -1
			switch r := ref.(type) {
			case string:
				if i, ok := nameIndex[r]; ok {
					dim = i
				}
			case int:
				dim = r
			}
			if dim >= 0 && dim < dimCount {
				valid = append(valid, binding{dim, idx})
				applyDim(result[dim], coordDim, idx)
			}
		}
		bound[coordDim] = valid
	}

	availDimIdx := 0
	for _, sd := range sysDims {
		coordDim := sd.Name
		if unbound[coordDim] {
			continue
		}
		dataDims := bound[coordDim]
		if len(dataDims) == 0 {
			n := len(sd.DimsDef)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				for availDimIdx < len(result) && result[availDimIdx].hasCoordDim {
					availDimIdx++
				}
				if availDimIdx < len(result) {
					dataDims = append(dataDims, binding{availDimIdx, len(dataDims)})
					availDimIdx++
				}
			}
		}

		for _, b := range dataDims {
			item := result[b.dim]
			if item.Type == "" {
				item.Type = sd.Type
			}
			if item.OrdinalMeta == nil {
				item.OrdinalMeta = sd.OrdinalMeta
			}
			applyDim(item, coordDim, b.coordDimIndex)
			if !item.hasName && b.coordDimIndex < len(sd.DimsDef) {
				if name := sd.DimsDef[b.coordDimIndex]; name != "" && !nameMap[name] {
					item.Name = name
					item.DisplayName = name
					item.hasName = true
					nameMap[name] = true
				}
			}
			item.IsSysCoord = true
			for k, v := range sd.OtherDims {
				if _, ok := item.OtherDims[k]; !ok {
					item.OtherDims[k] = v
				}
			}
		}
	}

	extra := opt.GenerateCoord
	if extra == "" {
		extra = "value"
	}
	fromZero := opt.GenerateCoordCount != 0
	generateCount := 0
	if opt.GenerateCoord != "" {
		generateCount = opt.GenerateCoordCount
		if generateCount == 0 {
			generateCount = 1
		}
	}

	for i, item := range result {
		if !item.hasCoordDim {
			item.CoordDim = genName(extra, coordDimNames, fromZero)
			item.CoordDimIndex = 0
			item.hasCoordDim = true
			if opt.GenerateCoord == "" || generateCount <= 0 {
				item.IsExtraCoord = true
			}
			generateCount--
		}
		if !item.hasName {
			item.Name = genName(item.CoordDim, nameMap, false)
			item.hasName = true
		}
		if item.Type == "" {
			_, hasItemName := item.OtherDims[OtherItemName]
			_, hasSeriesName := item.OtherDims[OtherSeriesName]
			if (src != nil && GuessOrdinal(src, i) == MustBeOrdinal) ||
				(item.IsExtraCoord && (hasItemName || hasSeriesName)) {
				item.Type = TypeOrdinal
			}
		}
	}
	return result
}

func getDimCount(src *Source, sysDims []SysDim, dimsDef []DimensionDefine, optDimCount int) int {
	n := 1
	if src != nil && src.DimensionsDetectCount > 0 {
		n = src.DimensionsDetectCount
	}
	n = max(n, len(sysDims), len(dimsDef), optDimCount)
	for _, sd := range sysDims {
		n = max(n, len(sd.DimsDef))
	}
	return n
}

// genName returns name, or name followed by the first free number when
// name is taken or fromZero is set, and marks the result as taken.
func genName(name string, taken map[string]bool, fromZero bool) string {
	if fromZero || taken[name] {
		i := 0
		for taken[name+strconv.Itoa(i)] {
			i++
		}
		name += strconv.Itoa(i)
	}
	taken[name] = true
	return name
}

// CreateOptions controls CreateDimensions.
type CreateOptions struct {
	CoordDimensions    []SysDim
	DimensionsDefine   []DimensionDefine
	EncodeDefine       *Encode
	DimensionsCount    int
	EncodeDefaulter    func(src *Source, dimCount int) *Encode
	GenerateCoord      string
	GenerateCoordCount int
}

// CreateDimensions resolves the dimensions of a series from its Source,
// falling back to the source's own dimension and encode definitions.
func CreateDimensions(src *Source, opt CreateOptions) []*DimensionInfo {
	dimsDef := opt.DimensionsDefine
	encodeDef := opt.EncodeDefine
	if src != nil {
		if dimsDef == nil {
			dimsDef = src.DimensionsDefine
		}
		if encodeDef == nil {
			encodeDef = src.EncodeDefine
		}
	}
	return CompleteDimensions(opt.CoordDimensions, src, CompleteOptions{
		DimsDef:            dimsDef,
		EncodeDef:          encodeDef,
		EncodeDefaulter:    opt.EncodeDefaulter,
		GenerateCoord:      opt.GenerateCoord,
		GenerateCoordCount: opt.GenerateCoordCount,
		DimCount:           opt.DimensionsCount,
	})
}
