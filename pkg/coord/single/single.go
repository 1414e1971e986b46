// Package single implements the single axis coordinate system: one axis
// laid along a box, with data placed on its center line.
package single

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Name is the coordinate system name series refer to.
const Name = "singleAxis"

// Orientations.
const (
	Horizontal = "horizontal"
	Vertical   = "vertical"
)

var dimensions = []string{"single"}

// Single is a single axis coordinate system.
type Single struct {
	Model *model.ComponentModel

	axis *coord.Axis
	rect coord.Rect
}

var (
	_ coord.BaseAxisSystem = (*Single)(nil)
	_ coord.Instance       = (*Single)(nil)
	_ coord.Updater        = (*Single)(nil)
	_ coord.Resizer        = (*Single)(nil)
)

func (s *Single) Type() string                      { return Name }
func (s *Single) Dimensions() []string              { return dimensions }
func (s *Single) Axes() []*coord.Axis               { return []*coord.Axis{s.axis} }
func (s *Single) Systems() []coord.System           { return []coord.System{s} }
func (s *Single) Axis() *coord.Axis                 { return s.axis }
func (s *Single) BaseAxis() *coord.Axis             { return s.axis }
func (s *Single) Rect() coord.Rect                  { return s.rect }
func (s *Single) OtherAxis(*coord.Axis) *coord.Axis { return nil }

// Orient returns Horizontal or Vertical.
func (s *Single) Orient() string {
	if s.Model.GetString("orient") == Vertical {
		return Vertical
	}
	return Horizontal
}

func (s *Single) pixelIndex() int {
	if s.Orient() == Vertical {
		return 1
	}
	return 0
}

// DataToPoint places values[0] on the axis and the point on the center
// line of the box.
func (s *Single) DataToPoint(values []float64) [2]float64 {
	if len(values) < 1 {
		return [2]float64{math.NaN(), math.NaN()}
	}
	var pt [2]float64
	idx := s.pixelIndex()
	pt[idx] = s.axis.DataToCoord(values[0], false)
	if idx == 0 {
		pt[1] = s.rect.Y + s.rect.Height/2
	} else {
		pt[0] = s.rect.X + s.rect.Width/2
	}
	return pt
}

// PointToData returns the axis value at the point.
func (s *Single) PointToData(pt [2]float64) []float64 {
	return []float64{s.axis.CoordToData(pt[s.pixelIndex()], false)}
}

// ContainPoint reports whether pt lies inside the box.
func (s *Single) ContainPoint(pt [2]float64) bool {
	return s.rect.Contain(pt[0], pt[1])
}

// Resize lays the box out and spans the axis along it.
func (s *Single) Resize(api coord.API) {
	s.rect = coord.LayoutRect(s.Model.Model, api.Width(), api.Height())
	lo, hi := s.rect.X, s.rect.X+s.rect.Width
	if s.Orient() == Vertical {
		lo, hi = s.rect.Y, s.rect.Y+s.rect.Height
	}
	if s.axis.Inverse {
		lo, hi = hi, lo
	}
	s.axis.SetExtent(lo, hi)
}

// Update fits the axis to the data of the series on it.
func (s *Single) Update(g *model.Global, api coord.API) {
	s.axis.Scale.SetExtent(math.Inf(1), math.Inf(-1))
	g.EachSeries(func(sm *model.SeriesModel) {
		if sm.CoordinateSystem != s || sm.Data == nil {
			return
		}
		for _, dim := range sm.Data.MapDimensionsAll("single") {
			scale.UnionExtentFromData(s.axis.Scale, sm.Data, data.StackedDimension(sm.Data, dim))
		}
	})
	coord.NiceScaleExtent(s.axis.Scale, s.axis.Model.Axis)
	s.Resize(api)
}

// Create builds one Single per singleAxis component and binds series
// through singleAxisIndex or singleAxisId.
func Create(g *model.Global, api coord.API) []coord.Instance {
	var out []coord.Instance
	byModel := make(map[*model.ComponentModel]*Single)
	for _, am := range g.Components(model.TypeSingleAxis) {
		s := &Single{Model: am, axis: coord.NewAxisFromModel("single", am)}
		s.Resize(api)
		am.CoordinateSystem = s
		byModel[am] = s
		out = append(out, s)
	}
	g.EachSeries(func(sm *model.SeriesModel) {
		if sm.CoordSysType() != Name {
			return
		}
		if s := byModel[g.ReferredComponent(sm.Model, model.TypeSingleAxis)]; s != nil {
			sm.CoordinateSystem = s
			return
		}
		g.Warnf("series %q: singleAxis not found", sm.Name)
	})
	return out
}
