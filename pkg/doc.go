// Package pkg holds the libraries of chartcore, the data and layout core of
// a declarative charting engine.
//
// # Overview
//
// A chart is described by an option document (JSON or TOML): components
// such as grids, axes and datasets, and a list of series. Chartcore turns
// the document into positioned series, leaving drawing to a renderer:
//
//	option document
//	     ↓
//	[option], [model]     parse, merge defaults, build the component tree
//	     ↓
//	[data], [series]      normalize sources, resolve dimensions, stack
//	     ↓
//	[coord], [scale]      create coordinate systems and fit axes to data
//	     ↓
//	[layout]              bars, points, sectors and graph nodes in pixels
//	     ↓
//	[snapshot]            serializable layout
//
// [pipeline] runs these stages as one pass, with caching ([cache]),
// persistence ([store]) and metrics ([observability]). [render] exports a
// layout as DOT, SVG, PNG or PDF previews and [api] serves passes over HTTP.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document: []byte(`{"xAxis": {"data": ["a", "b"]}, "yAxis": {},
//	        "series": [{"type": "bar", "data": [3, 5]}]}`),
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range result.Layout.Series {
//	    fmt.Println(s.Type, s.Items)
//	}
//
// [option]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/option
// [model]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/model
// [data]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/data
// [series]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/series
// [coord]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/coord
// [scale]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/scale
// [layout]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/layout
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/snapshot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/render
// [api]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/api
package pkg
