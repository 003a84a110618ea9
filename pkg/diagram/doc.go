// Package diagram implements the diagram element and its visual overlay.
//
// A [Diagram] is an ordinary model element (it has an identifier, lives in a
// package and is listed in the project index). Its shapes are not part of the
// element file: they are kept in a sidecar file named after the diagram's
// identifier in the project's diagrams folder and are only loaded by
// [Diagram.Open].
//
// # Overlay
//
// The overlay holds one [Node] per displayed element and one [Edge] per
// displayed link. The diagram subscribes to every element it shows, so
// disposing an element removes its shape:
//
//	if err := d.Open(); err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	a, _ := d.AddNode(classA)
//	b, _ := d.AddNode(classB)
//	a.Position = diagram.Point{X: 40, Y: 40}
//	if _, err := d.AddEdge(assoc); err != nil {
//	    return err
//	}
//	return d.Save()
//
// # Sidecar Format
//
//	{
//	  "version": 1,
//	  "nodes": [{"element": "<id>", "position": {...}, "size": {...}, "style": {...}}],
//	  "edges": [{"link": "<id>", "node1": "<id>", "node2": "<id>", "routing": "straight", "points": [...]}]
//	}
//
// node1 and node2 are element identifiers, not shape identifiers, so the file
// stays self-describing. Nodes whose element no longer exists are skipped
// with a warning; an edge whose endpoint node cannot be found fails the open
// and leaves the overlay empty.
package diagram
