package scale

import (
	"math"
	"sort"
	"time"

	"github.com/matzehuels/chartcore/pkg/numeric"
)

const (
	oneSecond = 1000.0
	oneMinute = oneSecond * 60
	oneHour   = oneMinute * 60
	oneDay    = oneHour * 24
	oneYear   = oneDay * 365
)

type timeUnit struct {
	name     string
	approx   float64
	step     time.Duration
	months   int
	labelFmt string
}

// timeUnits are ordered by approximate length. Units of a month and more
// step along the calendar instead of a fixed duration.
var timeUnits = []timeUnit{
	{"second", oneSecond, time.Second, 0, "15:04:05"},
	{"minute", oneMinute, time.Minute, 0, "15:04"},
	{"hour", oneHour, time.Hour, 0, "15:04"},
	{"quarter-day", oneHour * 6, 6 * time.Hour, 0, "01-02 15:04"},
	{"half-day", oneHour * 12, 12 * time.Hour, 0, "01-02 15:04"},
	{"day", oneDay * 1.2, 24 * time.Hour, 0, "01-02"},
	{"half-week", oneDay * 3.5, 84 * time.Hour, 0, "01-02"},
	{"week", oneDay * 7, 7 * 24 * time.Hour, 0, "01-02"},
	{"month", oneDay * 31, 0, 1, "2006-01"},
	{"quarter", oneDay * 95, 0, 3, "2006-01"},
	{"half-year", oneYear / 2, 0, 6, "2006-01"},
	{"year", oneYear, 0, 12, "2006"},
}

// Time is a linear scale over epoch milliseconds (UTC).
type Time struct {
	base
	unit           int
	step           int
	interval       float64
	approxInterval float64
}

// NewTime creates an empty time scale.
func NewTime() *Time {
	return &Time{base: newBase()}
}

func (s *Time) Type() string { return "time" }

func (s *Time) Parse(v any) float64 { return numeric.ParseDate(v) }

func (s *Time) Contain(v float64) bool { return contain(v, s.extent) }

func (s *Time) Normalize(v float64) float64 { return normalize(v, s.extent) }

func (s *Time) Scale(t float64) float64 { return denormalize(t, s.extent) }

// Interval returns the approximate tick interval in milliseconds.
func (s *Time) Interval() float64 { return s.interval }

// Unit returns the name of the tick unit, e.g. "day".
func (s *Time) Unit() string { return timeUnits[s.unit].name }

// NiceTicks picks the smallest calendar unit at least as long as
// span/splitNumber. splitNumber defaults to 10.
func (s *Time) NiceTicks(splitNumber int, minInterval, maxInterval float64) {
	if splitNumber <= 0 {
		splitNumber = 10
	}
	span := s.extent[1] - s.extent[0]
	s.approxInterval = span / float64(splitNumber)
	if minInterval > 0 && s.approxInterval < minInterval {
		s.approxInterval = minInterval
	}
	if maxInterval > 0 && s.approxInterval > maxInterval {
		s.approxInterval = maxInterval
	}
	idx := sort.Search(len(timeUnits), func(i int) bool { return timeUnits[i].approx >= s.approxInterval })
	idx = min(idx, len(timeUnits)-1)
	s.interval = timeUnits[idx].approx
	s.step = idx
	s.unit = max(idx-1, 0)
}

// NiceExtent widens a zero-span extent by a day on each side and an empty
// extent to the day before today. Time extents are not rounded to ticks.
func (s *Time) NiceExtent(opt NiceOptions) {
	if s.extent[0] == s.extent[1] {
		s.extent[0] -= oneDay
		s.extent[1] += oneDay
	}
	if math.IsInf(s.extent[0], 1) && math.IsInf(s.extent[1], -1) {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		s.extent[1] = float64(today.UnixMilli())
		s.extent[0] = s.extent[1] - oneDay
	}
	s.NiceTicks(opt.SplitNumber, opt.MinInterval, opt.MaxInterval)
}

// Ticks returns both extent ends and the instants between them that are
// aligned to the tick interval.
func (s *Time) Ticks() []float64 {
	if s.interval == 0 {
		return nil
	}
	step := timeUnits[s.step]
	ticks := []float64{s.extent[0]}
	t := alignTime(time.UnixMilli(int64(s.extent[0])).UTC(), step)
	for len(ticks) < tickSafeLimit {
		v := float64(t.UnixMilli())
		if v >= s.extent[1] {
			break
		}
		if v > s.extent[0] {
			ticks = append(ticks, v)
		}
		if step.months > 0 {
			t = t.AddDate(0, step.months, 0)
		} else {
			t = t.Add(step.step)
		}
	}
	return append(ticks, s.extent[1])
}

func alignTime(t time.Time, u timeUnit) time.Time {
	if u.months == 0 {
		return t.Truncate(u.step)
	}
	month := (int(t.Month())-1)/u.months*u.months + 1
	return time.Date(t.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// Label formats a tick at the precision of the tick unit.
func (s *Time) Label(tick float64) string {
	if !numeric.IsFinite(tick) {
		return ""
	}
	return time.UnixMilli(int64(tick)).UTC().Format(timeUnits[s.unit].labelFmt)
}
