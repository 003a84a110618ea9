// Package model implements the element graph shared by every UML kind.
//
// # Core Types
//
//   - [Element]: identity-bearing entity with keywords, an owner, a project
//     back-reference, observers and the links attached to it
//   - [Composite]: element owning an ordered list of children
//   - [Link]: hidden element connecting a source and a target element
//   - [Archive]: bidirectional JSON field codec used by Serialize
//
// Concrete kinds embed [Base], [CompositeBase] or [LinkBase] and call
// Init from their constructor so the base can dispatch to the outer type:
//
//	type Note struct {
//	    model.Base
//	    text string
//	}
//
//	func NewNote(id model.ID) *Note {
//	    n := &Note{}
//	    n.Init(n, id)
//	    return n
//	}
//
//	func (n *Note) ClassName() string { return "Note" }
//
//	func (n *Note) Serialize(a *model.Archive) error {
//	    if err := n.Base.Serialize(a); err != nil {
//	        return err
//	    }
//	    a.String("text", &n.text)
//	    return a.Err()
//	}
//
// # Ownership
//
// Only the project index owns elements (it holds a [ref.Ref] per element).
// The owner pointer, the child list, link endpoints and the per-element
// link lists are non-owning: they never touch the reference count. An
// element is destroyed when the project releases its last reference, which
// is expected to follow an explicit [Element.Dispose].
//
// # Ordering
//
// Hidden children (links) always follow every visible child of a composite.
// [CompositeBase.Insert] keeps that split and [CompositeBase.Count] relies on
// it.
//
// # Concurrency
//
// The graph is single-threaded. Only the reference count is atomic.
package model
