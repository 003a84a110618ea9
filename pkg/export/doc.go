// Package export renders a project's model or a diagram overlay as a
// node-link graph.
//
// # Usage
//
// Convert the model tree to DOT, then render to SVG:
//
//	dot := export.ModelDOT(p, export.Options{Detailed: true})
//	svg, err := export.RenderSVG(ctx, dot)
//
// A diagram overlay keeps its stored node positions:
//
//	dot, err := export.DiagramDOT(d, export.Options{})
//
// The [Runner] caches rendered SVG keyed by the hash of the DOT source, so
// exporting an unchanged model twice renders once.
//
// # Notation
//
// Packages and models are drawn as clusters with a folder-shaped tab node
// standing for the package itself, so links can point at packages.
// Generalizations get a hollow triangle head, dependencies are dashed (a
// realization dependency also gets a hollow head), and associations show
// their roles and multiplicities at the ends and a diamond at the source
// when they aggregate.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package export
