package scale

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/option"
)

// Ordinal is a category scale. Its extent is a range of ordinals.
type Ordinal struct {
	base
	meta *data.OrdinalMeta
}

// NewOrdinal creates an ordinal scale over meta with the extent
// [0, categoryCount-1]. A nil meta creates an empty collecting one.
func NewOrdinal(meta *data.OrdinalMeta) *Ordinal {
	if meta == nil {
		meta = data.NewOrdinalMeta(nil, true, true)
	}
	s := &Ordinal{base: newBase(), meta: meta}
	s.extent = [2]float64{0, float64(meta.Count() - 1)}
	return s
}

func (s *Ordinal) Type() string { return "ordinal" }

// OrdinalMeta returns the categories behind the scale.
func (s *Ordinal) OrdinalMeta() *data.OrdinalMeta { return s.meta }

// Parse resolves category names to ordinals and rounds numbers.
func (s *Ordinal) Parse(v any) float64 {
	if str, ok := v.(string); ok {
		if i := s.meta.GetOrdinal(str); i >= 0 {
			return float64(i)
		}
		return math.NaN()
	}
	return math.Round(option.ToFloat(v))
}

func (s *Ordinal) Contain(v float64) bool {
	r := math.Round(v)
	return contain(r, s.extent) && r >= 0 && int(r) < s.meta.Count()
}

func (s *Ordinal) Normalize(v float64) float64 { return normalize(math.Round(v), s.extent) }

func (s *Ordinal) Scale(t float64) float64 { return math.Round(denormalize(t, s.extent)) }

// Ticks returns every ordinal in the extent.
func (s *Ordinal) Ticks() []float64 {
	var ticks []float64
	for r := s.extent[0]; r <= s.extent[1]; r++ {
		ticks = append(ticks, r)
		if len(ticks) > tickSafeLimit {
			break
		}
	}
	return ticks
}

// Label returns the category name of an ordinal tick.
func (s *Ordinal) Label(tick float64) string {
	cats := s.meta.Categories()
	i := int(math.Round(tick))
	if s.blank || i < 0 || i >= len(cats) {
		return ""
	}
	return cats[i]
}

// Count returns the number of ordinals in the extent.
func (s *Ordinal) Count() int {
	return int(s.extent[1]-s.extent[0]) + 1
}

// NiceTicks is a no-op: every category is a tick.
func (s *Ordinal) NiceTicks(int, float64, float64) {}

// NiceExtent is a no-op: the extent is already integral.
func (s *Ordinal) NiceExtent(NiceOptions) {}
