// Package polar implements the polar coordinate system. Data values are
// [radius, angle] pairs; angles are in degrees, counter-clockwise from
// the positive x axis.
package polar

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Name is the coordinate system name series refer to.
const Name = "polar"

var dimensions = []string{"radius", "angle"}

// Polar is a polar coordinate system around (CX, CY).
type Polar struct {
	Model  *model.ComponentModel
	CX, CY float64

	radius *coord.Axis
	angle  *coord.Axis
}

var (
	_ coord.BaseAxisSystem = (*Polar)(nil)
	_ coord.Instance       = (*Polar)(nil)
	_ coord.Updater        = (*Polar)(nil)
	_ coord.Resizer        = (*Polar)(nil)
)

func (p *Polar) Type() string            { return Name }
func (p *Polar) Dimensions() []string    { return dimensions }
func (p *Polar) Axes() []*coord.Axis     { return []*coord.Axis{p.radius, p.angle} }
func (p *Polar) Systems() []coord.System { return []coord.System{p} }

// RadiusAxis returns the radius axis. Its extent is in pixels.
func (p *Polar) RadiusAxis() *coord.Axis { return p.radius }

// AngleAxis returns the angle axis. Its extent is in degrees.
func (p *Polar) AngleAxis() *coord.Axis { return p.angle }

// BaseAxis returns the category axis if any, else the time axis, else
// the angle axis.
func (p *Polar) BaseAxis() *coord.Axis {
	for _, typ := range []string{"ordinal", "time"} {
		for _, a := range p.Axes() {
			if a.Scale.Type() == typ {
				return a
			}
		}
	}
	return p.angle
}

// OtherAxis returns the axis that is not axis.
func (p *Polar) OtherAxis(axis *coord.Axis) *coord.Axis {
	if axis == p.angle {
		return p.radius
	}
	return p.angle
}

// DataToPoint maps [radius, angle] data values to a pixel point.
func (p *Polar) DataToPoint(values []float64) [2]float64 {
	if len(values) < 2 {
		return [2]float64{math.NaN(), math.NaN()}
	}
	return p.CoordToPoint(
		p.radius.DataToCoord(values[0], false),
		p.angle.DataToCoord(values[1], false),
	)
}

// PointToData maps a pixel point to [radius, angle] data values.
func (p *Polar) PointToData(point [2]float64) []float64 {
	r, deg := p.PointToCoord(point)
	return []float64{p.radius.CoordToData(r, false), p.angle.CoordToData(deg, false)}
}

// CoordToPoint converts a pixel radius and an angle in degrees to a point.
func (p *Polar) CoordToPoint(radius, degree float64) [2]float64 {
	rad := degree / 180 * math.Pi
	return [2]float64{
		math.Cos(rad)*radius + p.CX,
		-math.Sin(rad)*radius + p.CY,
	}
}

// PointToCoord converts a point to a pixel radius and an angle in degrees
// normalized into the angle axis extent.
func (p *Polar) PointToCoord(point [2]float64) (float64, float64) {
	dx, dy := point[0]-p.CX, point[1]-p.CY
	extent := p.angle.Extent()
	minAngle := math.Min(extent[0], extent[1])
	maxAngle := math.Max(extent[0], extent[1])
	if p.angle.Inverse {
		minAngle = maxAngle - 360
	} else {
		maxAngle = minAngle + 360
	}

	radius := math.Hypot(dx, dy)
	if radius == 0 {
		return 0, minAngle
	}
	deg := math.Atan2(-dy/radius, dx/radius) / math.Pi * 180
	dir := -1.0
	if deg < minAngle {
		dir = 1
	}
	for deg < minAngle || deg > maxAngle {
		deg += dir * 360
	}
	return radius, deg
}

// ContainPoint reports whether a point lies inside the radius extent.
func (p *Polar) ContainPoint(point [2]float64) bool {
	r, _ := p.PointToCoord(point)
	return p.radius.Contain(r)
}

// Resize places the center and the radius extent in the viewport.
func (p *Polar) Resize(api coord.API) {
	width, height := api.Width(), api.Height()
	center := p.Model.GetSlice("center")
	p.CX = numeric.ParsePercent(at(center, 0, "50%"), width)
	p.CY = numeric.ParsePercent(at(center, 1, "50%"), height)

	size := math.Min(width, height) / 2
	radius := p.Model.GetSlice("radius")
	var r0, r1 float64
	switch len(radius) {
	case 0:
		r1 = size
	case 1:
		r1 = numeric.ParsePercent(radius[0], size)
	default:
		r0 = numeric.ParsePercent(radius[0], size)
		r1 = numeric.ParsePercent(radius[1], size)
	}
	if p.radius.Inverse {
		p.radius.SetExtent(r1, r0)
	} else {
		p.radius.SetExtent(r0, r1)
	}
	p.setAngleExtent()
}

func (p *Polar) setAngleExtent() {
	start := p.angle.Model.GetFloat("startAngle")
	if math.IsNaN(start) {
		start = 90
	}
	end := start + 360
	if p.angle.Inverse {
		end = start - 360
	}
	p.angle.SetExtent(start, end)

	// A category angle axis without band gap must not put the first and
	// last category on the same spot.
	if p.angle.Type() == "category" && !p.angle.OnBand {
		if o, ok := p.angle.Scale.(*scale.Ordinal); ok && o.Count() > 0 {
			diff := 360 / float64(o.Count())
			if p.angle.Inverse {
				end += diff
			} else {
				end -= diff
			}
			p.angle.SetExtent(start, end)
		}
	}
}

// Update fits both scales to the data of the polar series.
func (p *Polar) Update(g *model.Global, api coord.API) {
	for _, a := range p.Axes() {
		a.Scale.SetExtent(math.Inf(1), math.Inf(-1))
	}
	g.EachSeries(func(s *model.SeriesModel) {
		if s.CoordinateSystem != p || s.Data == nil {
			return
		}
		for _, a := range p.Axes() {
			for _, dim := range s.Data.MapDimensionsAll(a.Dim) {
				scale.UnionExtentFromData(a.Scale, s.Data, data.StackedDimension(s.Data, dim))
			}
		}
	})
	for _, a := range p.Axes() {
		coord.NiceScaleExtent(a.Scale, a.Model.Axis)
	}
	p.Resize(api)
}

func at(values []any, i int, def any) any {
	if i < len(values) && values[i] != nil {
		return values[i]
	}
	return def
}

// Create builds one Polar per polar component from its radius and angle
// axes and binds the polar series to them.
func Create(g *model.Global, api coord.API) []coord.Instance {
	var out []coord.Instance
	polars := make(map[*model.ComponentModel]*Polar)
	for _, pm := range g.Components(model.TypePolar) {
		var radius, angle *model.ComponentModel
		for _, am := range g.Components(model.TypeRadiusAxis) {
			if g.ReferredComponent(am.Model, model.TypePolar) == pm {
				radius = am
				break
			}
		}
		for _, am := range g.Components(model.TypeAngleAxis) {
			if g.ReferredComponent(am.Model, model.TypePolar) == pm {
				angle = am
				break
			}
		}
		if radius == nil || angle == nil {
			g.Warnf("polar[%d]: radiusAxis and angleAxis are both required", pm.Index)
			continue
		}
		p := &Polar{
			Model:  pm,
			radius: coord.NewAxisFromModel("radius", radius),
			angle:  coord.NewAxisFromModel("angle", angle),
		}
		// Angles grow counter-clockwise, so a clockwise axis is inverted.
		p.angle.Inverse = p.angle.Inverse != angle.GetBool("clockwise")
		p.Resize(api)
		pm.CoordinateSystem = p
		polars[pm] = p
		out = append(out, p)
	}

	g.EachSeries(func(s *model.SeriesModel) {
		if s.CoordSysType() != Name {
			return
		}
		pm := g.ReferredComponent(s.Model, model.TypePolar)
		if p := polars[pm]; p != nil {
			s.CoordinateSystem = p
			return
		}
		g.Warnf("series %q: polar not found", s.Name)
	})
	return out
}
