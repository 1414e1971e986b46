// Package numeric provides the number helpers shared by scales, coordinate
// systems and layouts: percentage parsing, linear mapping, nice rounding and
// precision handling.
package numeric

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/chartcore/pkg/option"
)

// ParsePercent resolves a length option against a reference size. Strings
// ending in "%" are fractions of all; "center"/"middle" are 50%,
// "left"/"top" 0% and "right"/"bottom" 100%. nil yields NaN.
func ParsePercent(v any, all float64) float64 {
	if s, ok := v.(string); ok {
		switch s {
		case "center", "middle":
			s = "50%"
		case "left", "top":
			s = "0%"
		case "right", "bottom":
			s = "100%"
		}
		s = strings.TrimSpace(s)
		if strings.HasSuffix(s, "%") {
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return math.NaN()
			}
			return f / 100 * all
		}
		return option.ToFloat(s)
	}
	if v == nil {
		return math.NaN()
	}
	return option.ToFloat(v)
}

// LinearMap maps val from domain to rng. With clamp set, results outside rng
// are clamped to its ends. A zero-width domain maps to the middle of rng.
func LinearMap(val float64, domain, rng [2]float64, clamp bool) float64 {
	subDomain := domain[1] - domain[0]
	subRange := rng[1] - rng[0]

	if subDomain == 0 {
		if subRange == 0 {
			return rng[0]
		}
		return (rng[0] + rng[1]) / 2
	}

	if clamp {
		if subDomain > 0 {
			if val <= domain[0] {
				return rng[0]
			} else if val >= domain[1] {
				return rng[1]
			}
		} else {
			if val >= domain[0] {
				return rng[0]
			} else if val <= domain[1] {
				return rng[1]
			}
		}
	} else {
		if val == domain[0] {
			return rng[0]
		}
		if val == domain[1] {
			return rng[1]
		}
	}
	return (val-domain[0])/subDomain*subRange + rng[0]
}

// Round rounds x to precision decimal places (clamped to [0, 20]).
func Round(x float64, precision int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if precision < 0 {
		precision = 0
	}
	if precision > 20 {
		precision = 20
	}
	f, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', precision, 64), 64)
	return f
}

// Precision returns the number of significant decimal places of v.
func Precision(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == math.Trunc(v) {
		return 0
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, expStr, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expStr)
	digits := 0
	if _, frac, ok := strings.Cut(mant, "."); ok {
		digits = len(frac)
	}
	p := digits - exp
	if p < 0 {
		return 0
	}
	return p
}

// Nice returns a "nice" number approximately equal to val: 1, 2, 3, 5 or
// 10 times a power of ten. With round set the nearest nice value is taken,
// otherwise the ceiling.
func Nice(val float64, round bool) float64 {
	if val <= 0 || math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	exponent := math.Floor(math.Log10(val))
	exp10 := math.Pow(10, exponent)
	f := val / exp10

	var nf float64
	if round {
		switch {
		case f < 1.5:
			nf = 1
		case f < 2.5:
			nf = 2
		case f < 4:
			nf = 3
		case f < 7:
			nf = 5
		default:
			nf = 10
		}
	} else {
		switch {
		case f < 1:
			nf = 1
		case f < 2:
			nf = 2
		case f < 3:
			nf = 3
		case f < 5:
			nf = 5
		default:
			nf = 10
		}
	}
	val = nf * exp10

	// Clean up float noise such as 0.30000000000000004.
	if exponent >= -20 {
		p := 0
		if exponent < 0 {
			p = int(-exponent)
		}
		return Round(val, p)
	}
	return val
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Remainder2PI normalizes an angle in radians into [0, 2π).
func Remainder2PI(radian float64) float64 {
	const pi2 = math.Pi * 2
	return math.Mod(math.Mod(radian, pi2)+pi2, pi2)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006-01",
	"2006",
}

// ParseDate converts a time value to milliseconds since the epoch. Numbers
// are taken as milliseconds already; strings are parsed as ISO-like dates
// in UTC. Unparseable values yield NaN.
func ParseDate(v any) float64 {
	switch t := v.(type) {
	case time.Time:
		return float64(t.UnixMilli())
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return float64(ts.UnixMilli())
			}
		}
		return math.NaN()
	case nil:
		return math.NaN()
	}
	return option.ToFloat(v)
}
