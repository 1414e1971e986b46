// Package layout computes the pixel layout of series on their coordinate
// systems.
//
// Every layout is a Task. A task either runs once over the whole chart
// (Overall), or prepares one series at a time (Reset) and returns a
// Progress step that the scheduler calls with consecutive chunks of the
// series' data. Series in large mode are chunked; all others get a single
// chunk covering their whole List.
//
// Layouts write their results into the series' List: per-item results
// through List.SetItemLayout, shared results through List.SetLayout.
package layout

import (
	"math/rand/v2"

	"github.com/matzehuels/chartcore/pkg/coord"
	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/model"
)

// Keys of List.SetLayout written by the layouts in this package.
const (
	KeyBandWidth = "bandWidth"
	KeyOffset    = "offset"
	KeySize      = "size"
	KeyLarge     = "large"
	KeyPoints    = "points"
	KeyPie       = "pie"
	KeyCenter    = "center"
)

// Params is one chunk of data indices, [Start, End).
type Params struct {
	Start, End int

	next int
}

// NewParams returns a chunk over [start, end).
func NewParams(start, end int) *Params {
	return &Params{Start: start, End: end, next: start}
}

// Count returns the number of indices in the chunk.
func (p *Params) Count() int { return p.End - p.Start }

// Next returns the next index of the chunk, false when it is exhausted.
func (p *Params) Next() (int, bool) {
	if p.next >= p.End {
		return 0, false
	}
	p.next++
	return p.next - 1, true
}

// Progress lays out one chunk of l.
type Progress func(p *Params, l *data.List)

// Context is what a task sees of the pass it runs in.
type Context struct {
	Global *model.Global
	API    coord.API
	// ForceSteps is the number of steps a force layout runs per pass. Zero
	// runs until the simulation stops.
	ForceSteps int
	// Rand places force layout nodes that have no position yet. Nil uses a
	// fixed seed.
	Rand *rand.Rand
}

// Task is one layout step.
type Task struct {
	// Name identifies the task in logs and metrics.
	Name string
	// SeriesType restricts Reset to series of one type; empty means all.
	SeriesType string
	// Overall runs once per pass before any Reset. May be nil.
	Overall func(ctx *Context)
	// Reset prepares series s and returns its progress step, nil when the
	// series needs none. May be nil.
	Reset func(ctx *Context, s *model.SeriesModel) Progress
}

// Applies reports whether the task's Reset runs for s.
func (t Task) Applies(s *model.SeriesModel) bool {
	return t.Reset != nil && (t.SeriesType == "" || t.SeriesType == s.Type)
}

// Tasks returns the layouts of the built-in series types, in the order
// they run.
func Tasks() []Task {
	return []Task{
		BarLayout("bar"),
		LargeBarLayout(),
		PointsLayout("line"),
		PointsLayout("scatter"),
		RadarLayout(),
		ParallelLayout(),
		PieLayout(),
		GraphSimpleLayout(),
		GraphCircularLayout(),
		GraphForceLayout(),
	}
}
