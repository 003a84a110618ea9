// Package catalog maps class names to element builders.
//
// A [Catalog] is constructed explicitly and passed to the code that needs
// it (the project loader, the CLI). Each kind package exposes a Register
// function that subscribes its builders:
//
//	cat := catalog.New()
//	uml.Register(cat)
//	diagram.Register(cat)
//
//	e := cat.Build("Association::Composition", model.NewID())
//
// Keys are case-sensitive. A key is either the class name reported by the
// element's ClassName method or a variant "Class::Variant" whose builder
// returns the same concrete kind with a distinguishing property preset.
package catalog

import (
	"slices"
	"strings"
	"sync"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/model"
)

// Builder constructs an element with the given identifier.
type Builder func(id model.ID) model.Element

// VariantSeparator joins a class name and a variant name.
const VariantSeparator = "::"

// Catalog is a class-name keyed registry of element builders.
// It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{builders: make(map[string]Builder)}
}

// Subscribe registers b under name. A taken name keeps its existing
// builder and returns an ALREADY_EXISTS error.
func (c *Catalog) Subscribe(name string, b Builder) error {
	if err := errs.ValidateClassName(name); err != nil {
		return err
	}
	if b == nil {
		return errs.New(errs.ErrCodeContract, "nil builder for class %q", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.builders[name]; ok {
		return errs.New(errs.ErrCodeAlreadyExists, "class %q is already subscribed", name)
	}
	c.builders[name] = b
	return nil
}

// IsSubscribed reports whether name has a builder.
func (c *Catalog) IsSubscribed(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.builders[name]
	return ok
}

// Build returns a new element of the named class, or nil when the name is
// not registered. Callers loading files treat nil as a class that a newer
// format removed and skip the entry.
func (c *Catalog) Build(name string, id model.ID) model.Element {
	c.mu.RLock()
	b, ok := c.builders[name]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return b(id)
}

// Names returns every registered key in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.builders))
	for name := range c.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Variant joins a class name and a variant name.
func Variant(class, variant string) string {
	return class + VariantSeparator + variant
}

// SplitVariant splits a key into its class and variant parts. The variant
// is empty for plain class names.
func SplitVariant(name string) (class, variant string) {
	class, variant, _ = strings.Cut(name, VariantSeparator)
	return class, variant
}
