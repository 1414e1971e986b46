package render

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/chartcore/pkg/snapshot"
)

// pointsPerInch converts pixel sizes to the inches of Graphviz width and
// height attributes. Positions stay in pixels through inputscale.
const pointsPerInch = 72

// pointSize is the diameter of a point marker in pixels.
const pointSize = 4

// Options configures DOT generation.
type Options struct {
	// Series restricts the output to the series with these indices.
	// Empty includes all series.
	Series []int
	// Detailed labels every element with its series and data index.
	Detailed bool
}

func (o Options) includes(idx int) bool {
	return len(o.Series) == 0 || slices.Contains(o.Series, idx)
}

// ToDOT converts a layout to Graphviz DOT with every element pinned at its
// pixel position.
func ToDOT(l snapshot.Layout, opts Options) string {
	w := &dotWriter{height: l.Height, detailed: opts.Detailed}
	w.printf("digraph chart {\n")
	w.printf("  graph [bb=\"0,0,%s,%s\", inputscale=%d, notranslate=true, splines=true, outputorder=edgesfirst, bgcolor=\"transparent\"];\n",
		num(l.Width), num(l.Height), pointsPerInch)
	w.printf("  node [shape=circle, fixedsize=true, style=filled, fillcolor=white, label=\"\", fontsize=10, margin=0];\n")
	w.printf("  edge [arrowsize=0.5];\n")

	for _, s := range l.Series {
		if !opts.includes(s.Index) {
			continue
		}
		w.series(s)
	}

	w.printf("}\n")
	return w.buf.String()
}

type dotWriter struct {
	buf      bytes.Buffer
	height   float64
	detailed bool
}

func (w *dotWriter) printf(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
}

// pos formats a pinned position, flipping y.
func (w *dotWriter) pos(x, y float64) string {
	return fmt.Sprintf("pos=\"%s,%s!\"", num(x), num(w.height-y))
}

func (w *dotWriter) series(s snapshot.Series) {
	w.printf("\n  // series %d: %s %q\n", s.Index, s.Type, s.Name)
	if s.Graph != nil {
		w.graph(s)
		return
	}
	for idx, item := range s.Items {
		w.item(fmt.Sprintf("s%d_%d", s.Index, idx), s.Index, idx, item)
	}
	w.largePoints(s)
}

func (w *dotWriter) graph(s snapshot.Series) {
	id := func(nodeID string) string { return fmt.Sprintf("s%d_n_%s", s.Index, nodeID) }
	for _, n := range s.Graph.Nodes {
		if !n.Placed() {
			continue
		}
		label := n.Name
		if label == "" {
			label = n.ID
		}
		w.printf("  %q [shape=ellipse, fixedsize=false, label=%q, %s];\n",
			id(n.ID), label, w.pos(float64(n.X), float64(n.Y)))
	}
	placed := make(map[string]bool, len(s.Graph.Nodes))
	for _, n := range s.Graph.Nodes {
		placed[n.ID] = n.Placed()
	}
	for _, e := range s.Graph.Edges {
		if !placed[e.Source] || !placed[e.Target] {
			continue
		}
		attrs := ""
		if !s.Graph.Directed {
			attrs = " [dir=none]"
		}
		w.printf("  %q -> %q%s;\n", id(e.Source), id(e.Target), attrs)
	}
}

func (w *dotWriter) item(id string, seriesIdx, dataIdx int, item any) {
	label := ""
	if w.detailed {
		label = fmt.Sprintf(", xlabel=\"%d:%d\"", seriesIdx, dataIdx)
	}
	switch v := item.(type) {
	case []any:
		if p, ok := point(v); ok {
			w.marker(id, p, label)
			return
		}
		var prev string
		for i, raw := range v {
			arr, _ := raw.([]any)
			p, ok := point(arr)
			if !ok {
				prev = ""
				continue
			}
			pid := fmt.Sprintf("%s_%d", id, i)
			w.marker(pid, p, label)
			label = ""
			if prev != "" {
				w.printf("  %q -> %q [dir=none];\n", prev, pid)
			}
			prev = pid
		}
	case map[string]any:
		if r, ok := rect(v); ok {
			w.printf("  %q [shape=box, width=%s, height=%s, %s%s];\n", id,
				num(math.Abs(r[2])/pointsPerInch), num(math.Abs(r[3])/pointsPerInch),
				w.pos(r[0]+r[2]/2, r[1]+r[3]/2), label)
			return
		}
		if p, ok := sectorCenter(v); ok {
			w.marker(id, p, label)
		}
	}
}

func (w *dotWriter) marker(id string, p [2]float64, label string) {
	w.printf("  %q [width=%s, %s%s];\n", id, num(pointSize/float64(pointsPerInch)), w.pos(p[0], p[1]), label)
}

// largePoints draws the flat point buffers of large-mode series.
func (w *dotWriter) largePoints(s snapshot.Series) {
	var flat []any
	if v, ok := s.Layout["points"].([]any); ok {
		flat = v
	} else if bars, ok := s.Layout["large"].(map[string]any); ok {
		flat, _ = bars["points"].([]any)
	}
	for i := 0; i+1 < len(flat); i += 2 {
		p, ok := point(flat[i : i+2])
		if !ok {
			continue
		}
		w.marker(fmt.Sprintf("s%d_l%d", s.Index, i/2), p, "")
	}
}

// =============================================================================
// Item shapes
// =============================================================================

func point(v []any) ([2]float64, bool) {
	if len(v) != 2 {
		return [2]float64{}, false
	}
	x, ok1 := v[0].(float64)
	y, ok2 := v[1].(float64)
	return [2]float64{x, y}, ok1 && ok2
}

// rect returns x, y, width, height.
func rect(m map[string]any) ([4]float64, bool) {
	var out [4]float64
	for i, key := range []string{"x", "y", "width", "height"} {
		f, ok := m[key].(float64)
		if !ok {
			return out, false
		}
		out[i] = f
	}
	return out, true
}

// sectorCenter returns the middle of the arc of a pie sector.
func sectorCenter(m map[string]any) ([2]float64, bool) {
	var v [6]float64
	for i, key := range []string{"cx", "cy", "r0", "r", "startAngle", "endAngle"} {
		f, ok := m[key].(float64)
		if !ok {
			return [2]float64{}, false
		}
		v[i] = f
	}
	mid := (v[4] + v[5]) / 2
	r := (v[2] + v[3]) / 2
	return [2]float64{v[0] + math.Cos(mid)*r, v[1] + math.Sin(mid)*r}, true
}

func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
