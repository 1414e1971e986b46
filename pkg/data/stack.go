package data

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/numeric"
)

// Display names of the synthetic stacking dimensions. Identity of these
// dimensions is their Role, never their name.
const (
	StackResultName = "__stack_result"
	StackedOverName = "__stacked_over"
)

// OptionGetter reads series options.
type OptionGetter interface {
	Get(path ...string) any
}

// StackOptions controls EnableDataStack.
type StackOptions struct {
	// ByIndex forces stacking by data index instead of by category.
	ByIndex bool
	// StackedCoordDimension restricts the stacked dimension to a coordDim.
	StackedCoordDimension string
}

// StackInfo describes how a series is stacked. All dimension fields are
// empty when stacking is disabled.
type StackInfo struct {
	StackedDimension     string `json:"stackedDimension,omitempty"`
	StackedByDimension   string `json:"stackedByDimension,omitempty"`
	IsStackedByIndex     bool   `json:"isStackedByIndex"`
	StackedOverDimension string `json:"stackedOverDimension,omitempty"`
	StackResultDimension string `json:"stackResultDimension,omitempty"`
}

// Enabled reports whether the series is stacked.
func (s StackInfo) Enabled() bool {
	return s.StackedDimension != ""
}

// EnableDataStack decides how a series with a `stack` option stacks and
// appends the stack-result and stacked-over dimensions to dims. Running it
// again on a list that already carries them appends nothing.
func EnableDataStack(series OptionGetter, dims []*DimensionInfo, opt StackOptions) ([]*DimensionInfo, StackInfo) {
	byIndex := opt.ByIndex
	mayStack := false
	if series != nil {
		mayStack = truthy(series.Get("stack"))
	}

	var stackedBy, stacked *DimensionInfo
	var result, over *DimensionInfo
	for _, d := range dims {
		switch d.Role {
		case RoleStackResult:
			result = d
			continue
		case RoleStackedOver:
			over = d
			continue
		}
		if !mayStack || d.IsExtraCoord {
			continue
		}
		if !byIndex && stackedBy == nil && d.OrdinalMeta != nil {
			stackedBy = d
		}
		if stacked == nil && d.Type != TypeOrdinal && d.Type != TypeTime &&
			(opt.StackedCoordDimension == "" || opt.StackedCoordDimension == d.CoordDim) {
			stacked = d
		}
	}

	if stacked != nil && !byIndex && stackedBy == nil {
		byIndex = true
	}

	info := StackInfo{IsStackedByIndex: byIndex}
	if stacked == nil {
		return dims, info
	}

	if stackedBy != nil {
		stackedBy.CreateInvertedIndices = true
	}

	if result == nil || over == nil {
		coordDimIndex := 0
		for _, d := range dims {
			if d.CoordDim == stacked.CoordDim {
				coordDimIndex++
			}
		}
		result = &DimensionInfo{
			Name:               uniqueDimName(dims, StackResultName),
			CoordDim:           stacked.CoordDim,
			CoordDimIndex:      coordDimIndex,
			Type:               stacked.Type,
			OtherDims:          map[string]int{},
			IsExtraCoord:       true,
			IsCalculationCoord: true,
			Role:               RoleStackResult,
			hasName:            true,
			hasCoordDim:        true,
		}
		dims = append(dims, result)
		over = &DimensionInfo{
			Name:               uniqueDimName(dims, StackedOverName),
			CoordDim:           stacked.CoordDim,
			CoordDimIndex:      coordDimIndex + 1,
			Type:               stacked.Type,
			OtherDims:          map[string]int{},
			IsExtraCoord:       true,
			IsCalculationCoord: true,
			Role:               RoleStackedOver,
			hasName:            true,
			hasCoordDim:        true,
		}
		dims = append(dims, over)
	}

	info.StackedDimension = stacked.Name
	if stackedBy != nil {
		info.StackedByDimension = stackedBy.Name
	}
	info.StackResultDimension = result.Name
	info.StackedOverDimension = over.Name
	return dims, info
}

func uniqueDimName(dims []*DimensionInfo, base string) string {
	taken := make(map[string]bool, len(dims))
	for _, d := range dims {
		taken[d.Name] = true
	}
	return genName(base, taken, false)
}

func truthy(v any) bool {
	switch t := v.(type) {
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

// IsDimensionStacked reports whether dim is the stacked dimension of list.
func IsDimensionStacked(list *List, dim string) bool {
	info := list.StackInfo()
	return info.Enabled() && dim == info.StackedDimension
}

// StackedDimension returns the dimension holding accumulated values for
// targetDim: the stack result dimension when targetDim is stacked,
// targetDim otherwise.
func StackedDimension(list *List, targetDim string) string {
	if IsDimensionStacked(list, targetDim) {
		return list.StackInfo().StackResultDimension
	}
	return targetDim
}

// CalculateStack fills the stack-result and stacked-over dimensions of the
// lists of one stack group, in series order. A value accumulates onto the
// nearest earlier series with the same category (or index) whose result
// has the same sign.
func CalculateStack(group []*List) {
	for idx, target := range group {
		info := target.StackInfo()
		if !info.Enabled() {
			continue
		}
		resultDim := target.DimensionIndex(info.StackResultDimension)
		overDim := target.DimensionIndex(info.StackedOverDimension)
		stackedDim := target.DimensionIndex(info.StackedDimension)
		byDim := -1
		if !info.IsStackedByIndex {
			byDim = target.DimensionIndex(info.StackedByDimension)
		}
		if resultDim < 0 || overDim < 0 || stackedDim < 0 {
			continue
		}

		for i := 0; i < target.Count(); i++ {
			sum := target.getAt(stackedDim, i)
			stackedOver := math.NaN()
			if math.IsNaN(sum) {
				target.setAt(resultDim, i, math.NaN())
				target.setAt(overDim, i, math.NaN())
				continue
			}

			rawIndex := target.RawIndex(i)
			var byValue float64
			if byDim >= 0 {
				byValue = target.getAt(byDim, i)
			}

			for j := idx - 1; j >= 0; j-- {
				prev := group[j]
				pinfo := prev.StackInfo()
				if !pinfo.Enabled() {
					continue
				}
				if !info.IsStackedByIndex {
					rawIndex = prev.RawIndexOf(pinfo.StackedByDimension, byValue)
				}
				if rawIndex < 0 {
					continue
				}
				val := prev.GetByRawIndex(pinfo.StackResultDimension, rawIndex)
				if (sum >= 0 && val > 0) || (sum <= 0 && val < 0) {
					sum = addSafe(sum, val)
					stackedOver = val
					break
				}
			}
			target.setAt(resultDim, i, sum)
			target.setAt(overDim, i, stackedOver)
		}
	}
}

// addSafe adds two numbers at the precision of the more precise operand,
// so that 0.1 + 0.2 stacks to 0.3.
func addSafe(a, b float64) float64 {
	return numeric.Round(a+b, max(numeric.Precision(a), numeric.Precision(b)))
}
