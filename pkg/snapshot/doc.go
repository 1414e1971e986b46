// Package snapshot provides the serialized form of a computed chart layout.
//
// A [Layout] is what a layout pass hands to everything outside the
// library: JSON files, API responses, the layout cache, stored documents
// and the exporters. It is built from a laid-out [model.Global] by [Build]
// and is independent of the live models afterwards.
//
// # Series
//
// Every series contributes one [Series] entry in series order:
//
//   - Items holds the item layout of every data index (a bar rect, a point,
//     a pie sector, a radar or parallel point list), nil for indices
//     without one
//   - Layout holds the shared layout values written under layout keys
//     ("bandWidth", "offset", "large", "pie", ...)
//   - Graph holds the positioned nodes and edges of graph series, in
//     pixels
//
// # Numbers
//
// Layout values contain NaN for items that could not be placed. JSON has
// no NaN, so Items and Layout values go through a conversion that writes
// NaN and infinities as null, and node positions use [Float], which does
// the same and reads null back as NaN:
//
//	data, _ := snapshot.Marshal(l)     // Layout → []byte
//	parsed, _ := snapshot.Unmarshal(data)
//
// Items and Layout values of a parsed layout hold the generic JSON values
// (float64, string, bool, []any, map[string]any, nil).
package snapshot
