// Package project implements the project store: the identifier index that
// owns every element, the fixed folder layout and the JSON persistence of
// the index and element files.
//
// # Layout
//
//	<dir>/
//	  <name>.umlproj    index: name, author, comment, count, version, elements
//	  artifacts/
//	  code/
//	  diagrams/         one sidecar per diagram, <id>.json
//	  elements/         one file per element, <id>.json
//
// # Lifecycle
//
//	cat := catalog.New()
//	uml.Register(cat)
//	diagram.Register(cat)
//
//	p := project.New(cat, project.WithLogger(logger))
//	if err := p.Create(parent, "shop"); err != nil {
//	    return err
//	}
//	pkg := uml.NewPackage(model.NilID)
//	p.Insert(pkg)
//	p.Root().Insert(-1, pkg)
//	return p.Save()
//
// Loading is two-pass: every indexed element is built from the catalog
// first, then each element file is read so references between elements can
// be resolved against the complete index.
//
// # Lazy Deletion
//
// Files of removed or disposed elements are queued, never deleted at once.
// They are unlinked at the next successful [Project.Save], and re-inserting
// the element before then cancels the deletion.
//
// # Ownership
//
// The index holds the only counted reference to each element. Removing an
// element from the project releases that reference; it does not dispose the
// element.
package project
