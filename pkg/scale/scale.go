// Package scale maps data values onto the normalized [0, 1] range of an
// axis and computes nice extents and tick positions.
//
// Four scale types exist:
//
//   - [Ordinal]: category ordinals, one tick per category
//   - [Interval]: linear numbers with nice round ticks
//   - [Time]: epoch milliseconds with calendar-aligned ticks
//   - [Log]: logarithmic numbers, ticks at powers of the base
//
// A new scale has the empty extent [+Inf, -Inf] and grows through
// [Scale.UnionExtent] or [UnionExtentFromData].
package scale

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/data"
)

// Scale is the behavior shared by all scale types.
type Scale interface {
	// Type returns "ordinal", "interval", "time" or "log".
	Type() string
	// Parse converts a raw option value (category name, date string,
	// number) to the scale's numeric domain.
	Parse(v any) float64
	Contain(v float64) bool
	// Normalize maps v to [0, 1] over the extent.
	Normalize(v float64) float64
	// Scale is the inverse of Normalize.
	Scale(t float64) float64

	Extent() [2]float64
	// SetExtent sets the extent. NaN bounds leave that side unchanged.
	SetExtent(lo, hi float64)
	UnionExtent(other [2]float64)

	// NiceTicks chooses a tick interval for about splitNumber ticks.
	NiceTicks(splitNumber int, minInterval, maxInterval float64)
	// NiceExtent widens the extent to tick boundaries on the sides that
	// are not fixed.
	NiceExtent(opt NiceOptions)
	Ticks() []float64
	Label(tick float64) string

	IsBlank() bool
	SetBlank(blank bool)
}

// NiceOptions controls NiceExtent.
type NiceOptions struct {
	SplitNumber int
	FixMin      bool
	FixMax      bool
	MinInterval float64
	MaxInterval float64
}

// UnionExtentFromData grows s by the extent of dim in list.
func UnionExtentFromData(s Scale, list *data.List, dim string) {
	s.UnionExtent(list.DataExtent(dim))
}

// New creates an empty scale of the given type. Unknown types fall back to
// an interval scale.
func New(typ string, meta *data.OrdinalMeta) Scale {
	switch typ {
	case "ordinal", "category":
		return NewOrdinal(meta)
	case "time":
		return NewTime()
	case "log":
		return NewLog(10)
	}
	return NewInterval()
}

// base holds the extent and blank state shared by all scales.
type base struct {
	extent [2]float64
	blank  bool
}

func newBase() base {
	return base{extent: [2]float64{math.Inf(1), math.Inf(-1)}}
}

func (b *base) Extent() [2]float64 { return b.extent }

func (b *base) SetExtent(lo, hi float64) {
	if !math.IsNaN(lo) {
		b.extent[0] = lo
	}
	if !math.IsNaN(hi) {
		b.extent[1] = hi
	}
}

func (b *base) UnionExtent(other [2]float64) {
	lo, hi := b.extent[0], b.extent[1]
	if other[0] < lo {
		lo = other[0]
	}
	if other[1] > hi {
		hi = other[1]
	}
	b.SetExtent(lo, hi)
}

func (b *base) IsBlank() bool { return b.blank }

func (b *base) SetBlank(blank bool) { b.blank = blank }

func contain(v float64, extent [2]float64) bool {
	return v >= extent[0] && v <= extent[1]
}

func normalize(v float64, extent [2]float64) float64 {
	if extent[1] == extent[0] {
		return 0.5
	}
	return (v - extent[0]) / (extent[1] - extent[0])
}

func denormalize(t float64, extent [2]float64) float64 {
	return t*(extent[1]-extent[0]) + extent[0]
}

var (
	_ Scale = (*Interval)(nil)
	_ Scale = (*Ordinal)(nil)
	_ Scale = (*Time)(nil)
	_ Scale = (*Log)(nil)
)
