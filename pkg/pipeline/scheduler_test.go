package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/chartcore/pkg/data"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/model"
)

// scatterDoc has one scatter series of n points; extra adds series
// options.
func scatterDoc(n int, extra string) string {
	points := make([]string, n)
	for i := range points {
		points[i] = fmt.Sprintf("[%d, %d]", i, i*i)
	}
	return fmt.Sprintf(`{
		"xAxis": {"type": "value"},
		"yAxis": {"type": "value"},
		"series": [{"type": "scatter", "data": [%s]%s}]
	}`, strings.Join(points, ", "), extra)
}

// recorder is a task that records the chunks it is given.
type recorder struct {
	overall int
	chunks  [][2]int
	visited int
}

func (r *recorder) task() layout.Task {
	return layout.Task{
		Name: "record",
		Overall: func(*layout.Context) {
			r.overall++
		},
		Reset: func(_ *layout.Context, s *model.SeriesModel) layout.Progress {
			return func(p *layout.Params, l *data.List) {
				r.chunks = append(r.chunks, [2]int{p.Start, p.End})
				for _, ok := p.Next(); ok; _, ok = p.Next() {
					r.visited++
				}
			}
		},
	}
}

func prepared(t *testing.T, doc string) *model.Global {
	t.Helper()
	g, err := Prepare(Options{Document: []byte(doc)})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return g
}

func TestSchedulerChunks(t *testing.T) {
	const large = `, "large": true`
	tests := []struct {
		name      string
		extra     string
		threshold int
		wantLarge bool
		want      [][2]int
	}{
		{"below default threshold", large, 0, false, [][2]int{{0, 10}}},
		{"threshold override", large, 5, true, [][2]int{{0, 3}, {3, 6}, {6, 9}, {9, 10}}},
		{"series threshold", large + `, "largeThreshold": 10`, 0, true, [][2]int{{0, 3}, {3, 6}, {6, 9}, {9, 10}}},
		{"progressive", large + `, "largeThreshold": 1, "progressive": 4`, 0, true, [][2]int{{0, 4}, {4, 8}, {8, 10}}},
		{"not large", `, "largeThreshold": 1`, 5, false, [][2]int{{0, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := prepared(t, scatterDoc(10, tt.extra))
			rec := &recorder{}
			sc := &Scheduler{Tasks: []layout.Task{rec.task()}, ChunkSize: 3, LargeThreshold: tt.threshold}
			sc.MarkLarge(g)

			if got := g.Series()[0].Large; got != tt.wantLarge {
				t.Errorf("Large = %v, want %v", got, tt.wantLarge)
			}
			if err := sc.Run(context.Background(), &layout.Context{Global: g}); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if fmt.Sprint(rec.chunks) != fmt.Sprint(tt.want) {
				t.Errorf("chunks = %v, want %v", rec.chunks, tt.want)
			}
			if rec.visited != 10 || rec.overall != 1 {
				t.Errorf("visited %d items, overall ran %d times", rec.visited, rec.overall)
			}
		})
	}
}

func TestSchedulerSeriesType(t *testing.T) {
	g := prepared(t, scatterDoc(3, ""))
	rec := &recorder{}
	task := rec.task()
	task.SeriesType = "bar"
	sc := &Scheduler{Tasks: []layout.Task{task}}
	if err := sc.Run(context.Background(), &layout.Context{Global: g}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.chunks) != 0 || rec.overall != 1 {
		t.Errorf("bar task ran on scatter: %v chunks, overall %d", rec.chunks, rec.overall)
	}
}

func TestSchedulerStopsBetweenChunks(t *testing.T) {
	g := prepared(t, scatterDoc(10, `, "large": true`))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks := 0
	task := layout.Task{
		Name: "cancel",
		Reset: func(*layout.Context, *model.SeriesModel) layout.Progress {
			return func(*layout.Params, *data.List) {
				chunks++
				cancel()
			}
		},
	}
	sc := &Scheduler{Tasks: []layout.Task{task}, ChunkSize: 2, LargeThreshold: 1}
	sc.MarkLarge(g)
	if err := sc.Run(ctx, &layout.Context{Global: g}); err != context.Canceled {
		t.Errorf("Run err = %v, want context.Canceled", err)
	}
	if chunks != 1 {
		t.Errorf("ran %d chunks after cancel, want 1", chunks)
	}
}

func TestSchedulerLargeScatterLayout(t *testing.T) {
	res, err := Pass(context.Background(), Options{
		Document:       []byte(scatterDoc(10, `, "large": true`)),
		LargeThreshold: 5,
		ChunkSize:      4,
	})
	if err != nil {
		t.Fatalf("Pass: %v", err)
	}
	s := res.Layout.Series[0]
	if !s.Large || s.Items != nil {
		t.Errorf("series large = %v items = %v, want large without items", s.Large, s.Items)
	}
	points, _ := s.Layout["points"].([]any)
	if len(points) != 20 {
		t.Errorf("points = %d values, want 20 across all chunks", len(points))
	}
}
