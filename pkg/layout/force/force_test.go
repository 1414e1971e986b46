package force

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/chartcore/pkg/coord"
)

var box = coord.Rect{X: 0, Y: 0, Width: 400, Height: 400}

func nan() Vec { return Vec{math.NaN(), math.NaN()} }

func TestRunConverges(t *testing.T) {
	a := &Node{P: Vec{0, 0}, W: 50, Rep: 50}
	b := &Node{P: Vec{300, 100}, W: 50, Rep: 50}
	e := &Edge{N1: a, N2: b, D: 100}
	sim := New([]*Node{a, b}, []*Edge{e}, Options{Rect: box, Gravity: 0.1})

	if n := sim.Run(0); n != 510 {
		t.Errorf("Run() = %d steps, want 510", n)
	}
	if !sim.Stopped() {
		t.Fatal("Stopped() = false after Run")
	}

	// Edge pull and gravity balance repulsion where
	// (1+f)(r - D + g*r) = 2*(a.Rep+b.Rep)/r, with f the final friction.
	f := sim.Friction() / FrictionDecay
	qa, qb, qc := (1+f)*1.1, -(1+f)*100, -200.0
	want := (-qb + math.Sqrt(qb*qb-4*qa*qc)) / (2 * qa)
	if got := b.P.Sub(a.P).Len(); math.Abs(got-want) > 1 {
		t.Errorf("distance = %v, want %v", got, want)
	}

	before := [2]Vec{a.P, b.P}
	sim.Step()
	moved := a.P.Sub(before[0]).Len() + b.P.Sub(before[1]).Len()
	if moved > 1e-2 {
		t.Errorf("step after stop moved nodes by %v", moved)
	}
	if !sim.Stopped() {
		t.Error("Stopped() = false after another step")
	}
}

func TestFixedNodeNeverMoves(t *testing.T) {
	nodes := []*Node{
		{P: Vec{10, 10}, W: 20, Rep: 20},
		{P: Vec{50, 80}, W: 20, Rep: 20},
		{P: nan(), W: 20, Rep: 20},
	}
	edges := []*Edge{{N1: nodes[0], N2: nodes[1], D: 30}, {N1: nodes[1], N2: nodes[2], D: 30}}
	sim := New(nodes, edges, Options{Rect: box, Gravity: DefaultGravity})
	sim.SetFixed(0)
	sim.Run(50)

	if nodes[0].P != (Vec{10, 10}) {
		t.Errorf("fixed node at %v, want [10 10]", nodes[0].P)
	}
	if nodes[1].P == (Vec{50, 80}) {
		t.Error("free node did not move")
	}

	sim.SetUnfixed(0)
	sim.Step()
	if nodes[0].P == (Vec{10, 10}) {
		t.Error("released node did not move")
	}
}

func TestBeforeStepPinsFixedNodes(t *testing.T) {
	a := &Node{P: Vec{100, 100}, W: 1, Rep: 10, Fixed: true}
	b := &Node{P: Vec{200, 200}, W: 1, Rep: 10}
	sim := New([]*Node{a, b}, []*Edge{{N1: a, N2: b, D: 50}}, Options{Rect: box})

	dragged := Vec{300, 40}
	sim.BeforeStep(func(nodes []*Node, _ []*Edge) {
		for _, n := range nodes {
			if n.Fixed {
				n.P = dragged
			}
		}
	})
	var calls int
	sim.AfterStep(func(nodes []*Node, _ []*Edge, stopped bool) {
		calls++
		if stopped {
			t.Error("stopped after a few steps")
		}
	})
	for range 3 {
		sim.Step()
	}
	if a.P != dragged {
		t.Errorf("fixed node at %v, want %v", a.P, dragged)
	}
	if calls != 3 {
		t.Errorf("AfterStep called %d times, want 3", calls)
	}
}

func TestWarmUp(t *testing.T) {
	sim := New([]*Node{{P: Vec{1, 1}}}, nil, Options{Rect: box, Friction: 0.5})
	sim.Run(0)
	if !sim.Stopped() {
		t.Fatal("Stopped() = false after Run")
	}
	sim.WarmUp()
	if sim.Stopped() {
		t.Error("Stopped() = true after WarmUp")
	}
	if got := sim.Friction(); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("Friction() = %v, want 0.4", got)
	}
}

func TestRandomPlacementInsideRect(t *testing.T) {
	r := coord.Rect{X: 50, Y: 20, Width: 100, Height: 60}
	nodes := make([]*Node, 20)
	for i := range nodes {
		nodes[i] = &Node{P: nan()}
	}
	New(nodes, nil, Options{Rect: r, Rand: rand.New(rand.NewPCG(7, 7))})
	for i, n := range nodes {
		if !r.Contain(n.P[0], n.P[1]) {
			t.Errorf("node %d at %v, outside %v", i, n.P, r)
		}
	}
}

func TestIgnoreForceLayout(t *testing.T) {
	a := &Node{P: Vec{0, 0}, W: 1}
	b := &Node{P: Vec{10, 0}, W: 1}
	sim := New([]*Node{a, b}, []*Edge{{N1: a, N2: b, D: 100, IgnoreForceLayout: true}}, Options{Rect: box})
	sim.Step()
	if a.P != (Vec{0, 0}) || b.P != (Vec{10, 0}) {
		t.Errorf("positions = %v %v, want unchanged", a.P, b.P)
	}
}

func TestCoincidentNodesSeparate(t *testing.T) {
	a := &Node{P: Vec{5, 5}, Rep: 10}
	b := &Node{P: Vec{5, 5}, Rep: 10}
	sim := New([]*Node{a, b}, nil, Options{Rect: box})
	sim.Step()
	if a.P.DistSquare(b.P) == 0 {
		t.Error("coincident nodes did not separate")
	}
}
