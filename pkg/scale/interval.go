package scale

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/option"
)

// tickSafeLimit bounds the number of generated ticks.
const tickSafeLimit = 10000

// Interval is a linear numeric scale.
type Interval struct {
	base
	interval          float64
	niceExtent        [2]float64
	intervalPrecision int
}

// NewInterval creates an empty interval scale.
func NewInterval() *Interval {
	return &Interval{base: newBase(), intervalPrecision: 2}
}

func (s *Interval) Type() string { return "interval" }

func (s *Interval) Parse(v any) float64 { return option.ToFloat(v) }

func (s *Interval) Contain(v float64) bool { return contain(v, s.extent) }

func (s *Interval) Normalize(v float64) float64 { return normalize(v, s.extent) }

func (s *Interval) Scale(t float64) float64 { return denormalize(t, s.extent) }

// Interval returns the tick interval, 0 before NiceTicks.
func (s *Interval) Interval() float64 { return s.interval }

// SetInterval fixes the tick interval and takes the current extent as the
// nice tick extent.
func (s *Interval) SetInterval(interval float64) {
	s.interval = interval
	s.niceExtent = s.extent
	s.intervalPrecision = intervalPrecision(interval)
}

// Ticks returns the tick values. The extent ends are included even when
// they do not fall on the interval.
func (s *Interval) Ticks() []float64 {
	return s.ticks(false)
}

func (s *Interval) ticks(expandToNiced bool) []float64 {
	interval := s.interval
	if interval == 0 || math.IsNaN(interval) {
		return nil
	}
	extent, nice, prec := s.extent, s.niceExtent, s.intervalPrecision

	var ticks []float64
	if extent[0] < nice[0] {
		if expandToNiced {
			ticks = append(ticks, numeric.Round(nice[0]-interval, prec))
		} else {
			ticks = append(ticks, extent[0])
		}
	}
	for tick := nice[0]; tick <= nice[1]; {
		ticks = append(ticks, tick)
		next := numeric.Round(tick+interval, prec)
		if next == tick {
			break
		}
		tick = next
		if len(ticks) > tickSafeLimit {
			return nil
		}
	}
	last := nice[1]
	if len(ticks) > 0 {
		last = ticks[len(ticks)-1]
	}
	if extent[1] > last {
		if expandToNiced {
			ticks = append(ticks, numeric.Round(last+interval, prec))
		} else {
			ticks = append(ticks, extent[1])
		}
	}
	return ticks
}

// MinorTicks splits every tick interval into splitNumber parts and returns
// the inner split points that fall inside the extent.
func (s *Interval) MinorTicks(splitNumber int) [][]float64 {
	ticks := s.ticks(true)
	var out [][]float64
	for i := 1; i < len(ticks); i++ {
		prev := ticks[i-1]
		step := (ticks[i] - prev) / float64(splitNumber)
		var group []float64
		for c := 1; c < splitNumber; c++ {
			minor := numeric.Round(prev+float64(c)*step, 10)
			if minor > s.extent[0] && minor < s.extent[1] {
				group = append(group, minor)
			}
		}
		out = append(out, group)
	}
	return out
}

// Label formats a tick with its own precision and thousands separators.
func (s *Interval) Label(tick float64) string {
	return formatNumber(tick, numeric.Precision(tick))
}

func (s *Interval) NiceTicks(splitNumber int, minInterval, maxInterval float64) {
	if splitNumber <= 0 {
		splitNumber = 5
	}
	span := s.extent[1] - s.extent[0]
	if !numeric.IsFinite(span) {
		return
	}
	if span < 0 {
		s.extent[0], s.extent[1] = s.extent[1], s.extent[0]
	}
	res := intervalNiceTicks(s.extent, splitNumber, minInterval, maxInterval)
	s.interval = res.interval
	s.intervalPrecision = res.precision
	s.niceExtent = res.niceTickExtent
}

func (s *Interval) NiceExtent(opt NiceOptions) {
	ext := &s.extent
	if ext[0] == ext[1] {
		if ext[0] != 0 {
			expand := ext[0]
			if !opt.FixMax {
				ext[1] += expand / 2
			}
			ext[0] -= expand / 2
		} else {
			ext[1] = 1
		}
	}
	if !numeric.IsFinite(ext[1] - ext[0]) {
		ext[0], ext[1] = 0, 1
	}

	s.NiceTicks(opt.SplitNumber, opt.MinInterval, opt.MaxInterval)

	interval := s.interval
	if !opt.FixMin {
		ext[0] = numeric.Round(math.Floor(ext[0]/interval)*interval, 10)
	}
	if !opt.FixMax {
		ext[1] = numeric.Round(math.Ceil(ext[1]/interval)*interval, 10)
	}
}

type niceTicksResult struct {
	interval       float64
	precision      int
	niceTickExtent [2]float64
}

// intervalNiceTicks picks a nice interval for about splitNumber ticks over
// extent, clamped by minInterval and maxInterval when they are positive.
func intervalNiceTicks(extent [2]float64, splitNumber int, minInterval, maxInterval float64) niceTicksResult {
	span := extent[1] - extent[0]
	interval := numeric.Nice(span/float64(splitNumber), true)
	if minInterval > 0 && interval < minInterval {
		interval = minInterval
	}
	if maxInterval > 0 && interval > maxInterval {
		interval = maxInterval
	}
	prec := intervalPrecision(interval)
	nice := [2]float64{
		numeric.Round(math.Ceil(extent[0]/interval)*interval, prec),
		numeric.Round(math.Floor(extent[1]/interval)*interval, prec),
	}
	fixExtent(&nice, extent)
	return niceTicksResult{interval: interval, precision: prec, niceTickExtent: nice}
}

func intervalPrecision(interval float64) int {
	return numeric.Precision(interval) + 2
}

// fixExtent clamps the nice tick extent into extent.
func fixExtent(nice *[2]float64, extent [2]float64) {
	for i := range nice {
		if !numeric.IsFinite(nice[i]) {
			nice[i] = extent[i]
		}
		nice[i] = math.Max(math.Min(nice[i], extent[1]), extent[0])
	}
	if nice[0] > nice[1] {
		nice[0] = nice[1]
	}
}
