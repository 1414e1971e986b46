package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// RenderSVG lays out DOT source from [ToDOT] with the Graphviz neato
// engine, which keeps pinned node positions, and returns the SVG document.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)
	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("graphviz svg: %w", err)
	}
	return pixelSize(buf.Bytes()), nil
}

var (
	viewBoxRe = regexp.MustCompile(`viewBox="[-0-9.]+ [-0-9.]+ ([0-9.]+) ([0-9.]+)"`)
	ptSizeRe  = regexp.MustCompile(`(width|height)="[0-9.]+pt"`)
)

// pixelSize replaces the point sizes Graphviz puts on the root svg element
// with the pixel extent of its viewBox, so the chart renders at the size it
// was laid out for.
func pixelSize(svg []byte) []byte {
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		return svg
	}
	end := bytes.IndexByte(svg[start:], '>')
	if end < 0 {
		return svg
	}
	end += start
	tag := svg[start:end]
	vb := viewBoxRe.FindSubmatch(tag)
	if vb == nil {
		return svg
	}

	fixed := ptSizeRe.ReplaceAllFunc(tag, func(m []byte) []byte {
		name, v := "width", vb[1]
		if bytes.HasPrefix(m, []byte("height")) {
			name, v = "height", vb[2]
		}
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return m
		}
		return fmt.Appendf(nil, `%s="%.0f"`, name, f)
	})

	out := make([]byte, 0, len(svg))
	out = append(out, svg[:start]...)
	out = append(out, fixed...)
	return append(out, svg[end:]...)
}
