// Package cartesian implements the rectangular coordinate system: grids
// holding one [Cartesian2D] per pair of x and y axes.
package cartesian

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/coord"
)

// Name is the coordinate system name series refer to.
const Name = "cartesian2d"

var dimensions = []string{"x", "y"}

// Cartesian2D is one x/y axis pair of a grid.
type Cartesian2D struct {
	// Key is "x<i>y<j>" for the axis indices it combines.
	Key  string
	grid *Grid
	x, y *coord.Axis
}

var _ coord.BaseAxisSystem = (*Cartesian2D)(nil)

func (c *Cartesian2D) Type() string         { return Name }
func (c *Cartesian2D) Dimensions() []string { return dimensions }
func (c *Cartesian2D) Axes() []*coord.Axis  { return []*coord.Axis{c.x, c.y} }

// Grid returns the grid that owns the cartesian.
func (c *Cartesian2D) Grid() *Grid { return c.grid }

// Axis returns the x or y axis.
func (c *Cartesian2D) Axis(dim string) *coord.Axis {
	switch dim {
	case "x":
		return c.x
	case "y":
		return c.y
	}
	return nil
}

// BaseAxis returns the category axis if any, else the time axis, else x.
func (c *Cartesian2D) BaseAxis() *coord.Axis {
	for _, typ := range []string{"ordinal", "time"} {
		for _, a := range c.Axes() {
			if a.Scale.Type() == typ {
				return a
			}
		}
	}
	return c.x
}

// OtherAxis returns the axis that is not axis.
func (c *Cartesian2D) OtherAxis(axis *coord.Axis) *coord.Axis {
	if axis == c.x {
		return c.y
	}
	return c.x
}

// Rect returns the pixel area of the cartesian.
func (c *Cartesian2D) Rect() coord.Rect {
	return c.grid.Rect()
}

// DataToPoint maps [x, y] data values to a pixel point.
func (c *Cartesian2D) DataToPoint(values []float64) [2]float64 {
	if len(values) < 2 {
		return [2]float64{math.NaN(), math.NaN()}
	}
	return [2]float64{
		c.x.DataToCoord(values[0], false),
		c.y.DataToCoord(values[1], false),
	}
}

// PointToData maps a pixel point to [x, y] data values.
func (c *Cartesian2D) PointToData(point [2]float64) []float64 {
	return []float64{
		c.x.CoordToData(point[0], false),
		c.y.CoordToData(point[1], false),
	}
}

// ContainPoint reports whether a pixel point lies inside both axes.
func (c *Cartesian2D) ContainPoint(point [2]float64) bool {
	return c.x.Contain(point[0]) && c.y.Contain(point[1])
}

// ContainData reports whether [x, y] lies inside both scale extents.
func (c *Cartesian2D) ContainData(values []float64) bool {
	return len(values) >= 2 && c.x.ContainData(values[0]) && c.y.ContainData(values[1])
}
