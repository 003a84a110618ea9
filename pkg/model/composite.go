package model

import (
	"slices"
)

// Composite is an element owning an ordered list of children. Hidden
// children always follow the visible ones.
type Composite interface {
	Element

	// Insert adds e at position among the visible children, clamped to
	// their count. Hidden elements are always appended.
	Insert(position int, e Element) error
	// Remove detaches e and clears its owner.
	Remove(e Element) error
	// MoveUp swaps a visible child with its visible predecessor.
	MoveUp(e Element) bool
	// MoveDown swaps a visible child with its visible successor.
	MoveDown(e Element) bool
	// Count returns the number of children. Without hidden children it
	// returns the length of the visible prefix.
	Count(includeHidden bool) int
	// At returns the child at index, or nil when out of range.
	At(index int) Element
	// IndexOf returns the position of e, or -1.
	IndexOf(e Element) int
	// Children returns a copy of the child list.
	Children() []Element
}

// CompositeBase implements [Composite] for embedding kinds.
type CompositeBase struct {
	Base
	children []Element
}

func (c *CompositeBase) composite() Composite {
	if cc, ok := c.self.(Composite); ok {
		return cc
	}
	return nil
}

func (c *CompositeBase) Insert(position int, e Element) error {
	if e == nil {
		return ErrNilElement
	}
	if c.disposed || e.IsDisposed() {
		return ErrDisposed
	}
	if e.Owner() != nil {
		return ErrOwned
	}
	self := c.composite()
	for anc := Composite(self); anc != nil; anc = anc.Owner() {
		if Element(anc) == e {
			return ErrCycle
		}
	}

	if e.IsHidden() {
		c.children = append(c.children, e)
	} else {
		visible := c.Count(false)
		if position < 0 || position > visible {
			position = visible
		}
		c.children = slices.Insert(c.children, position, e)
	}
	e.SetOwner(self)
	return nil
}

func (c *CompositeBase) Remove(e Element) error {
	i := c.IndexOf(e)
	if i < 0 {
		return ErrNotChild
	}
	c.children = slices.Delete(c.children, i, i+1)
	e.SetOwner(nil)
	return nil
}

func (c *CompositeBase) MoveUp(e Element) bool {
	i := c.IndexOf(e)
	if i <= 0 || i >= c.Count(false) {
		return false
	}
	c.children[i-1], c.children[i] = c.children[i], c.children[i-1]
	return true
}

func (c *CompositeBase) MoveDown(e Element) bool {
	i := c.IndexOf(e)
	if i < 0 || i >= c.Count(false)-1 {
		return false
	}
	c.children[i+1], c.children[i] = c.children[i], c.children[i+1]
	return true
}

func (c *CompositeBase) Count(includeHidden bool) int {
	if includeHidden {
		return len(c.children)
	}
	for i, e := range c.children {
		if e.IsHidden() {
			return i
		}
	}
	return len(c.children)
}

func (c *CompositeBase) At(index int) Element {
	if index < 0 || index >= len(c.children) {
		return nil
	}
	return c.children[index]
}

func (c *CompositeBase) IndexOf(e Element) int {
	if e == nil {
		return -1
	}
	return slices.Index(c.children, e)
}

func (c *CompositeBase) Children() []Element { return slices.Clone(c.children) }

// OnDispose detaches every child. Children are not disposed.
func (c *CompositeBase) OnDispose() {
	for _, e := range c.children {
		e.SetOwner(nil)
	}
	c.children = nil
}

// Serialize adds the ordered child identifiers to the base fields. On read,
// every child is resolved through the archive's resolver and inserted.
// Children the resolver does not know, such as elements of a class the
// catalog no longer builds, are skipped with a warning.
func (c *CompositeBase) Serialize(a *Archive) error {
	if err := c.Base.Serialize(a); err != nil {
		return err
	}
	if !a.Reading() {
		children := c.children
		a.Refs("elements", &children)
		return a.Err()
	}

	var children []Element
	missing := a.RefsSkipMissing("elements", &children)
	if a.Err() != nil {
		return a.Err()
	}
	if r := c.Project(); r != nil {
		for _, id := range missing {
			r.Logger().Warn("unknown child skipped", "owner", c.ID(), "child", id)
		}
	}
	for _, e := range children {
		if err := c.Insert(len(c.children), e); err != nil {
			a.Fail(err)
			break
		}
	}
	return a.Err()
}

// Ordered reports whether every hidden child follows every visible child.
func Ordered(c Composite) bool {
	seenHidden := false
	for _, e := range c.Children() {
		if e.IsHidden() {
			seenHidden = true
		} else if seenHidden {
			return false
		}
	}
	return true
}

// Walk visits c's descendants depth-first in child order. fn receives the
// element and its depth (direct children have depth 0). Returning false
// from fn skips the element's subtree.
func Walk(c Composite, includeHidden bool, fn func(e Element, depth int) bool) {
	walk(c, includeHidden, 0, fn)
}

func walk(c Composite, includeHidden bool, depth int, fn func(Element, int) bool) {
	n := c.Count(includeHidden)
	for i := 0; i < n; i++ {
		e := c.At(i)
		if !fn(e, depth) {
			continue
		}
		if sub, ok := e.(Composite); ok {
			walk(sub, includeHidden, depth+1, fn)
		}
	}
}
