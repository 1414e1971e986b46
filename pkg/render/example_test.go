package render_test

import (
	"fmt"

	"github.com/matzehuels/chartcore/pkg/render"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

func ExampleToDOT() {
	l := snapshot.Layout{
		Width:  100,
		Height: 100,
		Series: []snapshot.Series{{
			Index: 0,
			Type:  "scatter",
			Items: []any{[]any{25.0, 75.0}},
		}},
	}
	fmt.Print(render.ToDOT(l, render.Options{}))
	// Output:
	// digraph chart {
	//   graph [bb="0,0,100,100", inputscale=72, notranslate=true, splines=true, outputorder=edgesfirst, bgcolor="transparent"];
	//   node [shape=circle, fixedsize=true, style=filled, fillcolor=white, label="", fontsize=10, margin=0];
	//   edge [arrowsize=0.5];
	//
	//   // series 0: scatter ""
	//   "s0_0" [width=0.06, pos="25,25!"];
	// }
}
