package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

func TestDrawGraph(t *testing.T) {
	l := snapshot.Layout{
		Width: 100, Height: 100,
		Series: []snapshot.Series{{
			Type: "graph",
			Graph: &snapshot.Graph{
				Nodes: []snapshot.Node{
					{ID: "a", X: 5, Y: 5},
					{ID: "b", X: 95, Y: 5},
					{ID: "c", X: snapshot.NaN(), Y: snapshot.NaN()},
				},
				Edges: []snapshot.Edge{{Source: "a", Target: "b"}, {Source: "a", Target: "c"}},
			},
		}},
	}
	rows := drawGraph(l, 10, 5)
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if got := rows[0]; got != "o········o" {
		t.Errorf("row 0 = %q", got)
	}
	for i, row := range rows[1:] {
		if strings.TrimSpace(row) != "" {
			t.Errorf("row %d = %q, want empty", i+1, row)
		}
	}
}

func TestForceModelPasses(t *testing.T) {
	m := newForceModel(t.Context(), forceDocOptions(), 0)
	msg := m.Init()()
	next, cmd := m.Update(msg)
	fm := next.(forceModel)
	if fm.err != nil {
		t.Fatalf("pass: %v", fm.err)
	}
	if !fm.status.found || fm.status.steps != 1 {
		t.Errorf("status = %+v, want one step", fm.status)
	}
	if cmd == nil {
		t.Error("running model scheduled no tick")
	}
	if !strings.Contains(fm.View(), "step 1") {
		t.Errorf("View = %q", fm.View())
	}
}

func forceDocOptions() pipeline.Options {
	return pipeline.Options{Document: []byte(forceOption), ForceSteps: 1}
}
