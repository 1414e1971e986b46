// Package force implements a force-directed simulation for graph layouts.
//
// Nodes repel each other, edges pull their ends towards an ideal length and
// gravity pulls every free node towards the center of the layout rect. The
// simulation is stateful: each Step integrates once and lowers the friction,
// and the simulation reports itself stopped once the friction falls below
// StopFriction. Fixed nodes are never moved by a step.
package force

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/chartcore/pkg/coord"
)

// Simulation defaults and tuning.
const (
	DefaultGravity  = 0.1
	DefaultFriction = 0.6
	// FrictionDecay is applied to the friction after every step.
	FrictionDecay = 0.992
	// StopFriction is the friction below which the simulation is stopped.
	StopFriction = 0.01
	// warmUpFactor scales the initial friction on WarmUp.
	warmUpFactor = 0.8
)

// Vec is a 2D vector.
type Vec [2]float64

func (v Vec) Add(w Vec) Vec       { return Vec{v[0] + w[0], v[1] + w[1]} }
func (v Vec) Sub(w Vec) Vec       { return Vec{v[0] - w[0], v[1] - w[1]} }
func (v Vec) Scale(s float64) Vec { return Vec{v[0] * s, v[1] * s} }
func (v Vec) Len() float64        { return math.Hypot(v[0], v[1]) }
func (v Vec) IsNaN() bool         { return math.IsNaN(v[0]) || math.IsNaN(v[1]) }

// DistSquare returns the squared distance between v and w.
func (v Vec) DistSquare(w Vec) float64 {
	d := v.Sub(w)
	return d[0]*d[0] + d[1]*d[1]
}

// Normalize returns v scaled to unit length, or v when it has none.
func (v Vec) Normalize() Vec {
	if l := v.Len(); l > 0 {
		return v.Scale(1 / l)
	}
	return v
}

// Node is a simulated node. A P with a NaN component is replaced by a
// random position inside the layout rect when the simulation is created.
type Node struct {
	P     Vec
	W     float64
	Rep   float64
	Fixed bool

	pp Vec
}

// Edge connects two nodes with an ideal length D.
type Edge struct {
	N1, N2            *Node
	D                 float64
	Curveness         float64
	IgnoreForceLayout bool
}

// StepFunc observes the nodes and edges around a step.
type StepFunc func(nodes []*Node, edges []*Edge)

// AfterStepFunc observes the nodes and edges after a step.
type AfterStepFunc func(nodes []*Node, edges []*Edge, stopped bool)

// Options configures New.
type Options struct {
	// Rect bounds random initial positions; its center attracts nodes.
	Rect coord.Rect
	// Gravity pulls free nodes towards the center of Rect.
	Gravity float64
	// Friction is the initial friction. Zero or less means DefaultFriction.
	Friction float64
	// Rand places nodes without a position. Nil uses a fixed seed.
	Rand *rand.Rand
}

// Simulation is a running force layout. It is not safe for concurrent use.
type Simulation struct {
	nodes  []*Node
	edges  []*Edge
	center Vec

	gravity         float64
	initialFriction float64
	friction        float64
	stopped         bool
	steps           int

	rnd    *rand.Rand
	before StepFunc
	after  AfterStepFunc
}

// New creates a simulation over nodes and edges and places every node
// without a position.
func New(nodes []*Node, edges []*Edge, opts Options) *Simulation {
	r := opts.Rect
	friction := opts.Friction
	if !(friction > 0) {
		friction = DefaultFriction
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(1, 2))
	}
	s := &Simulation{
		nodes:           nodes,
		edges:           edges,
		center:          Vec{r.X + r.Width/2, r.Y + r.Height/2},
		gravity:         opts.Gravity,
		initialFriction: friction,
		friction:        friction,
		rnd:             rnd,
	}
	for _, n := range nodes {
		if n.P.IsNaN() {
			n.P = Vec{
				r.Width*(rnd.Float64()-0.5) + s.center[0],
				r.Height*(rnd.Float64()-0.5) + s.center[1],
			}
		}
		n.pp = n.P
	}
	return s
}

func (s *Simulation) Nodes() []*Node    { return s.nodes }
func (s *Simulation) Edges() []*Edge    { return s.edges }
func (s *Simulation) Friction() float64 { return s.friction }
func (s *Simulation) Steps() int        { return s.steps }

// Stopped reports whether the friction fell below StopFriction. It stays
// set until WarmUp.
func (s *Simulation) Stopped() bool { return s.stopped }

// WarmUp restarts a stopped simulation with most of its initial friction.
func (s *Simulation) WarmUp() {
	s.friction = s.initialFriction * warmUpFactor
	s.stopped = false
}

// SetFixed pins node idx.
func (s *Simulation) SetFixed(idx int) { s.nodes[idx].Fixed = true }

// SetUnfixed releases node idx.
func (s *Simulation) SetUnfixed(idx int) { s.nodes[idx].Fixed = false }

// BeforeStep sets the callback run at the start of every step.
func (s *Simulation) BeforeStep(fn StepFunc) { s.before = fn }

// AfterStep sets the callback run at the end of every step.
func (s *Simulation) AfterStep(fn AfterStepFunc) { s.after = fn }

// Step integrates once and reports whether the simulation is stopped.
func (s *Simulation) Step() bool {
	if s.before != nil {
		s.before(s.nodes, s.edges)
	}
	f := s.friction

	for _, e := range s.edges {
		if e.IgnoreForceLayout {
			continue
		}
		n1, n2 := e.N1, e.N2
		v12 := n2.P.Sub(n1.P)
		d := v12.Len() - e.D
		w := n2.W / (n1.W + n2.W)
		if math.IsNaN(w) {
			w = 0
		}
		v12 = v12.Normalize()
		if !n1.Fixed {
			n1.P = n1.P.Add(v12.Scale(w * d * f))
		}
		if !n2.Fixed {
			n2.P = n2.P.Add(v12.Scale(-(1 - w) * d * f))
		}
	}

	for _, n := range s.nodes {
		if !n.Fixed {
			n.P = n.P.Add(s.center.Sub(n.P).Scale(s.gravity * f))
		}
	}

	// Repulsion moves the previous positions, so it turns into velocity
	// below.
	for i, n1 := range s.nodes {
		for _, n2 := range s.nodes[i+1:] {
			v12 := n2.P.Sub(n1.P)
			d := v12.Len()
			if d == 0 {
				v12 = Vec{s.rnd.Float64() - 0.5, s.rnd.Float64() - 0.5}
				d = 1
			}
			rep := (n1.Rep + n2.Rep) / d / d
			if !n1.Fixed {
				n1.pp = n1.pp.Add(v12.Scale(rep))
			}
			if !n2.Fixed {
				n2.pp = n2.pp.Add(v12.Scale(-rep))
			}
		}
	}

	for _, n := range s.nodes {
		if !n.Fixed {
			n.P = n.P.Add(n.P.Sub(n.pp).Scale(f))
		}
		n.pp = n.P
	}

	s.friction *= FrictionDecay
	s.steps++
	if s.friction < StopFriction {
		s.stopped = true
	}
	if s.after != nil {
		s.after(s.nodes, s.edges, s.stopped)
	}
	return s.stopped
}

// Run steps until the simulation stops or limit steps ran. limit <= 0 means no
// limit. It returns the number of steps taken.
func (s *Simulation) Run(limit int) int {
	n := 0
	for !s.stopped && (limit <= 0 || n < limit) {
		s.Step()
		n++
	}
	return n
}
