package layout

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
)

const (
	pi2    = math.Pi * 2
	radian = math.Pi / 180
)

// Sector is the item layout of a pie slice. Angles are radians in screen
// space, growing clockwise.
type Sector struct {
	Angle      float64 `json:"angle"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Clockwise  bool    `json:"clockwise"`
	CX         float64 `json:"cx"`
	CY         float64 `json:"cy"`
	R0         float64 `json:"r0"`
	R          float64 `json:"r"`
}

// Pie is the series layout of a pie, stored under KeyPie.
type Pie struct {
	CX         float64    `json:"cx"`
	CY         float64    `json:"cy"`
	R0         float64    `json:"r0"`
	R          float64    `json:"r"`
	StartAngle float64    `json:"startAngle"`
	EndAngle   float64    `json:"endAngle"`
	Clockwise  bool       `json:"clockwise"`
	ViewRect   coord.Rect `json:"viewRect"`
}

func floatOr(m *model.Model, key string, def float64) float64 {
	if f := m.GetFloat(key); !math.IsNaN(f) {
		return f
	}
	return def
}

func boolOr(m *model.Model, key string, def bool) bool {
	if !m.Has(key) {
		return def
	}
	return m.GetBool(key)
}

// circleLayout resolves center and radius of s inside its box layout.
// radius is a number, a percentage of half the smaller box side, or an
// [inner, outer] pair of those.
func circleLayout(s *model.SeriesModel, api coord.API) (cx, cy, r0, r float64, rect coord.Rect) {
	rect = coord.LayoutRect(s.Model, api.Width(), api.Height())

	center := s.GetSlice("center")
	if len(center) < 2 {
		center = []any{"50%", "50%"}
	}
	cx = numeric.ParsePercent(center[0], rect.Width) + rect.X
	cy = numeric.ParsePercent(center[1], rect.Height) + rect.Y

	size := math.Min(rect.Width, rect.Height) / 2
	radius := s.GetSlice("radius")
	switch len(radius) {
	case 0:
		radius = []any{0.0, "75%"}
	case 1:
		radius = []any{0.0, radius[0]}
	}
	r0 = numeric.ParsePercent(radius[0], size)
	r = numeric.ParsePercent(radius[1], size)
	if math.IsNaN(r0) {
		r0 = 0
	}
	return cx, cy, r0, r, rect
}

func mod2PI(a float64) float64 {
	a = math.Mod(a, pi2)
	if a < 0 {
		a += pi2
	}
	return a
}

// normalizeArcAngles moves start into [0, 2π) and end so that sweeping
// from start to end in the given direction covers at most a full turn.
func normalizeArcAngles(start, end float64, anticlockwise bool) (float64, float64) {
	newStart := mod2PI(start)
	end += newStart - start
	switch {
	case !anticlockwise && end-newStart >= pi2:
		end = newStart + pi2
	case anticlockwise && newStart-end >= pi2:
		end = newStart - pi2
	case !anticlockwise && newStart > end:
		end = newStart + (pi2 - mod2PI(newStart-end))
	case anticlockwise && newStart < end:
		end = newStart - (pi2 - mod2PI(end-newStart))
	}
	return newStart, end
}

// PieLayout splits the circle of every pie series among its values.
//
// Slices narrower than minAngle are widened to it and the other slices
// share what is left in proportion to their values. When nothing is left,
// every slice gets the same angle. With roseType "radius" the slice radius
// follows the value; with "area" all slices get the same angle as well.
func PieLayout() Task {
	return Task{
		Name:       "pie.layout",
		SeriesType: "pie",
		Reset: func(ctx *Context, s *model.SeriesModel) Progress {
			if s.Data == nil {
				return nil
			}
			layoutPie(s, ctx.API)
			return nil
		},
	}
}

func layoutPie(s *model.SeriesModel, api coord.API) {
	l := s.Data
	valueDim := l.MapDimension("value")
	roseType := s.GetString("roseType")
	cx, cy, r0, r, viewRect := circleLayout(s, api)

	startAngle := -floatOr(s.Model, "startAngle", 90) * radian
	endAngle := startAngle - pi2
	if e := s.GetFloat("endAngle"); !math.IsNaN(e) {
		endAngle = -e * radian
	}
	padAngle := floatOr(s.Model, "padAngle", 0) * radian
	minAndPadAngle := floatOr(s.Model, "minAngle", 0)*radian + padAngle
	clockwise := boolOr(s.Model, "clockwise", true)
	stillShowZeroSum := boolOr(s.Model, "stillShowZeroSum", true)

	values := make([]float64, l.Count())
	valid := 0
	for i := range values {
		values[i] = l.Get(valueDim, i)
		if !math.IsNaN(values[i]) {
			valid++
		}
	}
	sum := l.Sum(valueDim)
	unit := sum
	if unit == 0 {
		unit = float64(valid)
	}
	unitRadian := math.Pi / unit * 2

	extent := l.DataExtent(valueDim)
	extent[0] = 0

	dir := 1.0
	if !clockwise {
		dir = -1
	}
	startAngle, endAngle = normalizeArcAngles(startAngle, endAngle, !clockwise)
	halfPad := dir * padAngle / 2

	l.SetLayout(KeyPie, Pie{
		CX: cx, CY: cy, R0: r0, R: r,
		StartAngle: startAngle, EndAngle: endAngle,
		Clockwise: clockwise, ViewRect: viewRect,
	})

	angleRange := math.Abs(endAngle - startAngle)
	restAngle := angleRange
	valueSumLargerThanMin := 0.0
	current := startAngle

	sectors := make([]*Sector, len(values))
	place := func(sec *Sector, from, angle float64) {
		if padAngle > angle {
			sec.StartAngle = from + dir*angle/2
			sec.EndAngle = sec.StartAngle
			return
		}
		sec.StartAngle = from + halfPad
		sec.EndAngle = from + dir*angle - halfPad
	}

	for i, v := range values {
		sec := &Sector{Clockwise: clockwise, CX: cx, CY: cy, R0: r0, R: r}
		sectors[i] = sec
		if math.IsNaN(v) {
			sec.Angle, sec.StartAngle, sec.EndAngle = math.NaN(), math.NaN(), math.NaN()
			if roseType != "" {
				sec.R = math.NaN()
			}
			continue
		}

		var angle float64
		switch {
		case roseType == "area":
			angle = angleRange / float64(valid)
		case sum == 0 && stillShowZeroSum:
			angle = unitRadian
		default:
			angle = v * unitRadian
		}
		if angle < minAndPadAngle {
			angle = minAndPadAngle
			restAngle -= minAndPadAngle
		} else {
			valueSumLargerThanMin += v
		}

		sec.Angle = angle
		place(sec, current, angle)
		if roseType != "" {
			sec.R = numeric.LinearMap(v, extent, [2]float64{r0, r}, false)
		}
		current += dir * angle
	}

	// Slices held at minAngle leave less room for the others.
	if restAngle < pi2 && valid > 0 {
		if restAngle <= 1e-3 {
			angle := angleRange / float64(valid)
			for i, sec := range sectors {
				if math.IsNaN(values[i]) {
					continue
				}
				sec.Angle = angle
				place(sec, startAngle+dir*float64(i)*angle, angle)
			}
		} else {
			unitRadian = restAngle / valueSumLargerThanMin
			current = startAngle
			for i, sec := range sectors {
				if math.IsNaN(values[i]) {
					continue
				}
				angle := values[i] * unitRadian
				if sec.Angle == minAndPadAngle {
					angle = minAndPadAngle
				}
				place(sec, current, angle)
				current += dir * angle
			}
		}
	}

	for i, sec := range sectors {
		l.SetItemLayout(i, *sec)
	}
}
