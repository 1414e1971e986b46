package coord

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/numeric"
)

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contain reports whether (x, y) lies inside r.
func (r Rect) Contain(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// LayoutRect positions a box component (grid, parallel, singleAxis) in a
// container from its left, top, right, bottom, width and height options.
// Each option may be a number or a percentage of the container; left may
// also be "center" or "right" and top "middle" or "bottom".
func LayoutRect(m *model.Model, containerWidth, containerHeight float64) Rect {
	return layoutRect(m, containerWidth, containerHeight, math.NaN())
}

// LayoutRectAspect is LayoutRect for content with a fixed width/height
// aspect. A size that is not pinned by the options follows from the
// other one; when neither is pinned the box takes 80% of the container
// along its limiting side.
func LayoutRectAspect(m *model.Model, containerWidth, containerHeight, aspect float64) Rect {
	return layoutRect(m, containerWidth, containerHeight, aspect)
}

func layoutRect(m *model.Model, containerWidth, containerHeight, aspect float64) Rect {
	left := numeric.ParsePercent(m.Get("left"), containerWidth)
	top := numeric.ParsePercent(m.Get("top"), containerHeight)
	right := numeric.ParsePercent(m.Get("right"), containerWidth)
	bottom := numeric.ParsePercent(m.Get("bottom"), containerHeight)
	width := numeric.ParsePercent(m.Get("width"), containerWidth)
	height := numeric.ParsePercent(m.Get("height"), containerHeight)

	leftKeyword := m.GetString("left")
	topKeyword := m.GetString("top")
	if isKeyword(leftKeyword) {
		left = math.NaN()
	}
	if isKeyword(topKeyword) {
		top = math.NaN()
	}

	if math.IsNaN(aspect) || aspect <= 0 {
		if math.IsNaN(width) {
			width = containerWidth - orZero(right) - orZero(left)
		}
		if math.IsNaN(height) {
			height = containerHeight - orZero(bottom) - orZero(top)
		}
	} else {
		if math.IsNaN(width) {
			width = containerWidth - right - left
		}
		if math.IsNaN(height) {
			height = containerHeight - bottom - top
		}
		if math.IsNaN(width) && math.IsNaN(height) {
			if aspect > containerWidth/containerHeight {
				width = containerWidth * 0.8
			} else {
				height = containerHeight * 0.8
			}
		}
		if math.IsNaN(width) {
			width = aspect * height
		}
		if math.IsNaN(height) {
			height = width / aspect
		}
	}
	if math.IsNaN(left) {
		left = containerWidth - orZero(right) - width
	}
	if math.IsNaN(top) {
		top = containerHeight - orZero(bottom) - height
	}

	switch leftKeyword {
	case "left":
		left = 0
	case "center":
		left = containerWidth/2 - width/2
	case "right":
		left = containerWidth - width
	}
	switch topKeyword {
	case "top":
		top = 0
	case "middle", "center":
		top = containerHeight/2 - height/2
	case "bottom":
		top = containerHeight - height
	}

	return Rect{X: orZero(left), Y: orZero(top), Width: math.Max(width, 0), Height: math.Max(height, 0)}
}

func isKeyword(s string) bool {
	switch s {
	case "center", "middle", "left", "right", "top", "bottom":
		return true
	}
	return false
}

func orZero(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}
