// Package view implements the view coordinate system: data points are
// scaled from their bounding rect into a view rect, then moved by a roam
// transform (center and zoom).
package view

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
	"github.com/matzehuels/chartcore/pkg/option"
)

// Name is the coordinate system name series refer to.
const Name = "view"

var dimensions = []string{"x", "y"}

// transform is a scale followed by a translation on each axis.
type transform struct {
	sx, sy, tx, ty float64
}

func identity() transform { return transform{sx: 1, sy: 1} }

func (t transform) apply(p [2]float64) [2]float64 {
	return [2]float64{p[0]*t.sx + t.tx, p[1]*t.sy + t.ty}
}

func (t transform) invert(p [2]float64) [2]float64 {
	return [2]float64{(p[0] - t.tx) / t.sx, (p[1] - t.ty) / t.sy}
}

// View maps source coordinates to pixels. The zero value is not usable;
// use New.
type View struct {
	// Series is the series the view was created for, nil for standalone
	// views.
	Series *model.SeriesModel
	// ZoomMin and ZoomMax clamp the zoom when positive.
	ZoomMin, ZoomMax float64

	rect     coord.Rect
	viewRect coord.Rect
	center   *[2]float64
	zoom     float64

	raw   transform
	final transform
}

var (
	_ coord.System   = (*View)(nil)
	_ coord.Instance = (*View)(nil)
	_ coord.Resizer  = (*View)(nil)
)

// New returns a view whose bounding rect and view rect are both r.
func New(r coord.Rect) *View {
	v := &View{raw: identity(), final: identity()}
	v.SetBoundingRect(r)
	v.SetViewRect(r)
	return v
}

func (v *View) Type() string            { return Name }
func (v *View) Dimensions() []string    { return dimensions }
func (v *View) Axes() []*coord.Axis     { return nil }
func (v *View) Systems() []coord.System { return []coord.System{v} }

// SetBoundingRect sets the rect of the source data.
func (v *View) SetBoundingRect(r coord.Rect) {
	v.rect = r
	v.updateRaw()
}

// BoundingRect returns the rect of the source data.
func (v *View) BoundingRect() coord.Rect { return v.rect }

// SetViewRect sets the pixel rect the bounding rect is fitted into.
func (v *View) SetViewRect(r coord.Rect) {
	v.viewRect = r
	v.updateRaw()
}

// ViewRect returns the pixel rect before roaming.
func (v *View) ViewRect() coord.Rect { return v.viewRect }

func (v *View) updateRaw() {
	t := identity()
	if v.rect.Width != 0 && v.rect.Height != 0 {
		t.sx = v.viewRect.Width / v.rect.Width
		t.sy = v.viewRect.Height / v.rect.Height
	}
	t.tx = v.viewRect.X - v.rect.X*t.sx
	t.ty = v.viewRect.Y - v.rect.Y*t.sy
	v.raw = t
	v.updateRoam()
}

// SetCenter sets the source point shown at the middle of the view rect.
// Entries may be percentages of the viewport. A nil center resets to the
// bounding rect center.
func (v *View) SetCenter(center []any, api coord.API) {
	if len(center) < 2 {
		v.center = nil
	} else {
		v.center = &[2]float64{
			numeric.ParsePercent(center[0], api.Width()),
			numeric.ParsePercent(center[1], api.Height()),
		}
	}
	v.updateRoam()
}

// SetZoom sets the roam zoom, clamped to ZoomMin and ZoomMax. Zero means 1.
func (v *View) SetZoom(zoom float64) {
	if zoom == 0 || math.IsNaN(zoom) {
		zoom = 1
	}
	if v.ZoomMax > 0 {
		zoom = math.Min(v.ZoomMax, zoom)
	}
	if v.ZoomMin > 0 {
		zoom = math.Max(v.ZoomMin, zoom)
	}
	v.zoom = zoom
	v.updateRoam()
}

// DefaultCenter is the center of the bounding rect.
func (v *View) DefaultCenter() [2]float64 {
	return [2]float64{v.rect.X + v.rect.Width/2, v.rect.Y + v.rect.Height/2}
}

// Center returns the roam center in source units.
func (v *View) Center() [2]float64 {
	if v.center != nil {
		return *v.center
	}
	return v.DefaultCenter()
}

// ScaleX is the horizontal scale from source units to pixels, roam
// included.
func (v *View) ScaleX() float64 { return v.final.sx }

// Zoom returns the roam zoom.
func (v *View) Zoom() float64 {
	if v.zoom == 0 {
		return 1
	}
	return v.zoom
}

// updateRoam scales around the transformed center by the zoom and moves
// that center onto the transformed default center.
func (v *View) updateRoam() {
	c := v.raw.apply(v.Center())
	dc := v.raw.apply(v.DefaultCenter())
	z := v.Zoom()
	v.final = transform{
		sx: v.raw.sx * z,
		sy: v.raw.sy * z,
		tx: (v.raw.tx-c[0])*z + dc[0],
		ty: (v.raw.ty-c[1])*z + dc[1],
	}
}

// DataToPoint maps an [x, y] source point to pixels, roam included.
func (v *View) DataToPoint(values []float64) [2]float64 {
	if len(values) < 2 {
		return [2]float64{math.NaN(), math.NaN()}
	}
	return v.final.apply([2]float64{values[0], values[1]})
}

// DataToPointNoRoam maps an [x, y] source point to pixels ignoring roam.
func (v *View) DataToPointNoRoam(values []float64) [2]float64 {
	if len(values) < 2 {
		return [2]float64{math.NaN(), math.NaN()}
	}
	return v.raw.apply([2]float64{values[0], values[1]})
}

// PointToData inverts DataToPoint.
func (v *View) PointToData(pt [2]float64) []float64 {
	p := v.final.invert(pt)
	return []float64{p[0], p[1]}
}

// ViewRectAfterRoam is the bounding rect in pixels, roam included.
func (v *View) ViewRectAfterRoam() coord.Rect {
	a := v.final.apply([2]float64{v.rect.X, v.rect.Y})
	b := v.final.apply([2]float64{v.rect.X + v.rect.Width, v.rect.Y + v.rect.Height})
	return coord.Rect{
		X:      math.Min(a[0], b[0]),
		Y:      math.Min(a[1], b[1]),
		Width:  math.Abs(b[0] - a[0]),
		Height: math.Abs(b[1] - a[1]),
	}
}

// ContainPoint reports whether pt lies inside the roamed bounding rect.
func (v *View) ContainPoint(pt [2]float64) bool {
	return v.ViewRectAfterRoam().Contain(pt[0], pt[1])
}

// Resize refits the view of a series to the viewport.
func (v *View) Resize(api coord.API) {
	if v.Series != nil {
		v.fitSeries(v.Series, api)
	}
}

// itemPositions reads the x and y options of the series' nodes.
func itemPositions(s *model.SeriesModel) [][2]float64 {
	items := s.GetSlice("data")
	if items == nil {
		items = s.GetSlice("nodes")
	}
	out := make([][2]float64, 0, len(items))
	for _, it := range items {
		m, _ := it.(*option.Map)
		if m == nil {
			out = append(out, [2]float64{math.NaN(), math.NaN()})
			continue
		}
		out = append(out, [2]float64{option.ToFloat(m.Value("x")), option.ToFloat(m.Value("y"))})
	}
	return out
}

func bounds(pts [][2]float64) (lo, hi [2]float64) {
	lo = [2]float64{math.Inf(1), math.Inf(1)}
	hi = [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		for i := range 2 {
			if math.IsNaN(p[i]) {
				return [2]float64{math.NaN(), math.NaN()}, [2]float64{math.NaN(), math.NaN()}
			}
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	return lo, hi
}

// fitSeries fits the bounding rect of the series' declared positions into
// the box layout of the series, keeping their aspect. Without usable
// positions source units are pixels of the layout box.
func (v *View) fitSeries(s *model.SeriesModel, api coord.API) {
	lo, hi := bounds(itemPositions(s))
	for i := range 2 {
		if hi[i]-lo[i] == 0 {
			hi[i]++
			lo[i]--
		}
	}
	aspect := (hi[0] - lo[0]) / (hi[1] - lo[1])
	if as := s.GetFloat("aspectScale"); as > 0 {
		aspect *= as
	}

	var viewRect coord.Rect
	if numeric.IsFinite(aspect) && aspect > 0 {
		viewRect = coord.LayoutRectAspect(s.Model, api.Width(), api.Height(), aspect)
	} else {
		viewRect = coord.LayoutRect(s.Model, api.Width(), api.Height())
		lo = [2]float64{viewRect.X, viewRect.Y}
		hi = [2]float64{viewRect.X + viewRect.Width, viewRect.Y + viewRect.Height}
	}

	v.rect = coord.Rect{X: lo[0], Y: lo[1], Width: hi[0] - lo[0], Height: hi[1] - lo[1]}
	v.viewRect = viewRect
	v.updateRaw()
	limit := s.GetModel("scaleLimit")
	v.ZoomMin, v.ZoomMax = limit.GetFloat("min"), limit.GetFloat("max")
	v.SetCenter(s.GetSlice("center"), api)
	v.SetZoom(s.GetFloat("zoom"))
}

// Create builds one View per series on the view coordinate system.
func Create(g *model.Global, api coord.API) []coord.Instance {
	var out []coord.Instance
	g.EachSeries(func(s *model.SeriesModel) {
		if s.CoordSysType() != Name {
			return
		}
		v := &View{Series: s, raw: identity(), final: identity()}
		v.fitSeries(s, api)
		s.CoordinateSystem = v
		out = append(out, v)
	})
	return out
}
