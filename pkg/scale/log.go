package scale

import (
	"math"

	moreScale "github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/option"
)

// Log is a logarithmic scale. It keeps an interval scale over the
// exponents; Extent, Ticks and Scale convert back to data space.
// Non-positive values have no logarithm and are ignored by extents.
type Log struct {
	inner *Interval
	base  float64
}

// NewLog creates an empty log scale with the given base (10 when <= 1).
func NewLog(base float64) *Log {
	if base <= 1 {
		base = 10
	}
	return &Log{inner: NewInterval(), base: base}
}

func (s *Log) Type() string { return "log" }

// Base returns the logarithm base.
func (s *Log) Base() float64 { return s.base }

func (s *Log) log(v float64) float64 {
	if v <= 0 {
		return math.NaN()
	}
	return math.Log(v) / math.Log(s.base)
}

func (s *Log) pow(e float64) float64 {
	return numeric.Round(math.Pow(s.base, e), 10)
}

func (s *Log) Parse(v any) float64 { return option.ToFloat(v) }

func (s *Log) Contain(v float64) bool { return s.inner.Contain(s.log(v)) }

func (s *Log) Normalize(v float64) float64 { return s.inner.Normalize(s.log(v)) }

func (s *Log) Scale(t float64) float64 { return s.pow(s.inner.Scale(t)) }

// Extent returns the extent in data space.
func (s *Log) Extent() [2]float64 {
	e := s.inner.Extent()
	return [2]float64{math.Pow(s.base, e[0]), math.Pow(s.base, e[1])}
}

// SetExtent sets the extent in data space. -Inf is kept so an extent can
// be reset to empty.
func (s *Log) SetExtent(lo, hi float64) {
	s.inner.SetExtent(s.logBound(lo), s.logBound(hi))
}

func (s *Log) logBound(v float64) float64 {
	if math.IsInf(v, -1) {
		return v
	}
	return s.log(v)
}

func (s *Log) UnionExtent(other [2]float64) {
	lo, hi := s.log(other[0]), s.log(other[1])
	if math.IsNaN(lo) {
		lo = math.Inf(1)
	}
	if math.IsNaN(hi) {
		hi = math.Inf(-1)
	}
	s.inner.UnionExtent([2]float64{lo, hi})
}

// exponentTicker offers ticks on every level-th whole exponent of an
// extent.
type exponentTicker [2]float64

func (t exponentTicker) CountTicks(level int) int {
	step := float64(level)
	return int(math.Floor(t[1]/step)-math.Ceil(t[0]/step)) + 1
}

func (t exponentTicker) TicksAtLevel(level int) interface{} {
	step := float64(level)
	var out []float64
	for e := math.Ceil(t[0]/step) * step; e <= t[1]; e += step {
		out = append(out, e)
	}
	return out
}

var _ moreScale.Ticker = exponentTicker{}

// NiceTicks places ticks on whole exponents, taking the smallest exponent
// step that yields at most splitNumber intervals.
func (s *Log) NiceTicks(splitNumber int, _, _ float64) {
	if splitNumber <= 0 {
		splitNumber = 10
	}
	ext := s.inner.extent
	span := ext[1] - ext[0]
	if !numeric.IsFinite(span) {
		return
	}
	opts := moreScale.TickOptions{
		Max:      splitNumber + 1,
		MinLevel: 1,
		MaxLevel: max(1, int(math.Ceil(span))),
	}
	level, ok := opts.FindLevel(exponentTicker(ext), 1)
	if !ok {
		level = max(1, int(math.Ceil(span)))
	}
	interval := float64(level)
	nice := [2]float64{math.Ceil(ext[0]/interval) * interval, math.Floor(ext[1]/interval) * interval}
	fixExtent(&nice, ext)
	s.inner.interval = interval
	s.inner.intervalPrecision = 0
	s.inner.niceExtent = nice
}

func (s *Log) NiceExtent(opt NiceOptions) {
	ext := &s.inner.extent
	if !numeric.IsFinite(ext[1] - ext[0]) {
		ext[0], ext[1] = 0, 1
	}
	if ext[0] == ext[1] {
		ext[0]--
		ext[1]++
	}
	s.NiceTicks(opt.SplitNumber, 0, 0)
	interval := s.inner.interval
	if !opt.FixMin {
		ext[0] = math.Floor(ext[0]/interval) * interval
	}
	if !opt.FixMax {
		ext[1] = math.Ceil(ext[1]/interval) * interval
	}
}

// Ticks returns the ticks in data space.
func (s *Log) Ticks() []float64 {
	exps := s.inner.Ticks()
	out := make([]float64, len(exps))
	for i, e := range exps {
		out[i] = s.pow(e)
	}
	return out
}

func (s *Log) Label(tick float64) string {
	return formatNumber(tick, numeric.Precision(tick))
}

func (s *Log) IsBlank() bool { return s.inner.IsBlank() }

func (s *Log) SetBlank(blank bool) { s.inner.SetBlank(blank) }
