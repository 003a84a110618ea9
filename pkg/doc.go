// Package pkg provides the core libraries of umlstack, a UML model store.
//
// # Overview
//
// A umlstack project is a directory holding an index file, one JSON file per
// model element, and one sidecar file per opened diagram. The pkg directory
// is organized bottom-up:
//
//  1. [ref] - intrusive reference counting and strong handles
//  2. [model] - elements, composites, links and their JSON archive codec
//  3. [catalog] - class-name keyed element builders
//  4. [uml] - the UML element kinds registered into a catalog
//  5. [project] - the element index with load, save and lazy file deletion
//  6. [diagram] - diagram overlays stored in sidecar files
//  7. [export] - Graphviz DOT and SVG output, cached through [cache]
//
// # Architecture
//
// The typical data flow:
//
//	index file + element files
//	         ↓
//	    [project] Load (catalog builds each element, archive reads fields)
//	         ↓
//	    [model] element graph (owner tree + links)
//	         ↓
//	    [diagram] Open (sidecar resolves nodes and edges by identifier)
//	         ↓
//	    [project] Save / [export] DOT, SVG
//
// # Quick Start
//
//	cat := catalog.New()
//	_ = uml.Register(cat)
//	_ = diagram.Register(cat)
//
//	p := project.New(cat, project.WithAuthor("jane"))
//	if err := p.Create("/tmp", "shop"); err != nil {
//	    return err
//	}
//
//	order := uml.NewClass(model.NilID)
//	order.SetName("Order")
//	_ = p.Insert(order)
//	_ = p.Root().Insert(-1, order)
//	return p.Save()
//
// # Errors
//
// Failures carry a code from [errors], for example DANGLING_REFERENCE when a
// file names an identifier the project does not know.
package pkg
