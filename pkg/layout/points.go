package layout

import (
	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/coord/parallel"
	"github.com/matzehuels/chartcore/pkg/coord/radar"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
)

// Point is the item layout of a symbol.
type Point [2]float64

// PointsLayout maps every item of seriesType through its coordinate system
// onto a Point. Stacked dimensions contribute their accumulated values. In
// large mode the points go into one flat []float32 under KeyPoints instead
// of per-item layouts.
func PointsLayout(seriesType string) Task {
	return Task{
		Name:       seriesType + ".points",
		SeriesType: seriesType,
		Reset: func(_ *Context, s *model.SeriesModel) Progress {
			sys, ok := s.CoordinateSystem.(coord.System)
			if !ok || s.Data == nil {
				return nil
			}
			dims := pointDims(s.Data, sys.Dimensions())
			if len(dims) == 0 {
				return nil
			}
			large := s.Large
			var flat []float32
			if large {
				s.Data.SetLayout(KeyPoints, flat)
			}
			return func(p *Params, l *data.List) {
				for idx, ok := p.Next(); ok; idx, ok = p.Next() {
					pt := sys.DataToPoint(l.GetValues(dims, idx))
					if large {
						flat = append(flat, float32(pt[0]), float32(pt[1]))
						continue
					}
					l.SetItemLayout(idx, Point(pt))
				}
				if large {
					l.SetLayout(KeyPoints, flat)
				}
			}
		},
	}
}

// pointDims maps the first two coordinate dimensions of a system to the
// List dimensions read for a point.
func pointDims(l *data.List, sysDims []string) []string {
	if len(sysDims) > 2 {
		sysDims = sysDims[:2]
	}
	dims := make([]string, 0, len(sysDims))
	for _, d := range sysDims {
		dim := l.MapDimension(d)
		if dim == "" {
			return nil
		}
		dims = append(dims, data.StackedDimension(l, dim))
	}
	return dims
}

// RadarLayout maps every item of a radar series onto one point per
// indicator.
func RadarLayout() Task {
	return Task{
		Name:       "radar.layout",
		SeriesType: "radar",
		Reset: func(_ *Context, s *model.SeriesModel) Progress {
			r, ok := s.CoordinateSystem.(*radar.Radar)
			if !ok || s.Data == nil {
				return nil
			}
			dims := make([]string, len(r.Dimensions()))
			for i, d := range r.Dimensions() {
				dims[i] = s.Data.MapDimension(d)
			}
			return func(p *Params, l *data.List) {
				for idx, ok := p.Next(); ok; idx, ok = p.Next() {
					pts := make([]Point, len(dims))
					for i, dim := range dims {
						v := l.Get(dim, idx)
						pts[i] = Point(r.IndicatorPoint(v, i))
					}
					l.SetItemLayout(idx, pts)
				}
			}
		},
	}
}

// ParallelLayout maps every item of a parallel series onto its polyline
// across the parallel axes.
func ParallelLayout() Task {
	return Task{
		Name:       "parallel.layout",
		SeriesType: "parallel",
		Reset: func(_ *Context, s *model.SeriesModel) Progress {
			par, ok := s.CoordinateSystem.(*parallel.Parallel)
			if !ok || s.Data == nil {
				return nil
			}
			dims := make([]string, len(par.Dimensions()))
			for i, d := range par.Dimensions() {
				dims[i] = s.Data.MapDimension(d)
			}
			return func(p *Params, l *data.List) {
				for idx, ok := p.Next(); ok; idx, ok = p.Next() {
					raw := par.Points(l.GetValues(dims, idx))
					pts := make([]Point, len(raw))
					for i, pt := range raw {
						pts[i] = Point(pt)
					}
					l.SetItemLayout(idx, pts)
				}
			}
		},
	}
}
