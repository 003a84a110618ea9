package model

import (
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/ref"
)

var (
	// ErrDisposed is returned when an operation targets a disposed element.
	ErrDisposed = errs.New(errs.ErrCodeContract, "element is disposed")

	// ErrOwned is returned by [Composite.Insert] when the element already
	// has an owner. Moving a child requires Remove before Insert.
	ErrOwned = errs.New(errs.ErrCodeContract, "element already has an owner")

	// ErrNotChild is returned by [Composite.Remove] when the element is not
	// one of the composite's children.
	ErrNotChild = errs.New(errs.ErrCodeContract, "element is not a child of this composite")

	// ErrCycle is returned by [Composite.Insert] when the element is the
	// composite itself or one of its ancestors.
	ErrCycle = errs.New(errs.ErrCodeContract, "insert would create an ownership cycle")

	// ErrNilElement is returned when a nil element is passed where one is required.
	ErrNilElement = errs.New(errs.ErrCodeContract, "element is nil")
)

// Registry is the part of a project visible to the elements it contains.
type Registry interface {
	// Find looks up an element by identifier.
	Find(id ID) (Element, bool)
	// ElementFile returns the path of an element's backing file.
	ElementFile(id ID) string
	// DiagramsDir returns the folder holding diagram sidecar files.
	DiagramsDir() string
	// RemoveFile queues a file for deletion at the next successful save.
	RemoveFile(path string)
	// RecoverFile cancels a queued deletion.
	RecoverFile(path string)
	// Logger returns the project's logger.
	Logger() *log.Logger
}

// Element is the base entity of the model graph.
type Element interface {
	ref.Counted

	// ID returns the identifier. It never changes after construction.
	ID() ID
	// ClassName returns the catalog key of the element's concrete kind.
	ClassName() string

	Keywords() string
	SetKeywords(keywords string)

	// Owner returns the composite currently holding the element, or nil.
	Owner() Composite
	// SetOwner is the composite-graph edge setter used by Composite
	// implementations. It is not meant for general use.
	SetOwner(c Composite)

	// Project returns the registry the element was inserted into, or nil.
	Project() Registry
	SetProject(r Registry)

	// Links returns a copy of the links attached to the element.
	Links() []Link
	// LinkTo attaches l. It is idempotent and called only by Link setters.
	LinkTo(l Link)
	// Unlink detaches l. It is idempotent and called only by Link setters.
	Unlink(l Link)

	IsHidden() bool
	IsLink() bool
	IsDisposed() bool
	// IsDestroyed reports whether the last reference has been released.
	IsDestroyed() bool

	Subscribe(o Observer)
	Unsubscribe(o Observer)

	// Dispose notifies observers, queues the backing file for lazy
	// deletion, clears the ends of attached links that point at the
	// element, drops observers and marks the element disposed. Disposing
	// twice is a contract violation.
	Dispose() error

	// Serialize reads or writes the element's fields. Implementations call
	// the embedded base first.
	Serialize(a *Archive) error
}

// Disposer is implemented by kinds that release their own state during
// Dispose. OnDispose runs after observers were notified and before links and
// observers are cleared. Overrides must call the embedded implementation.
type Disposer interface {
	OnDispose()
}

// Named is implemented by kinds with a display name.
type Named interface {
	Name() string
}

// SidecarSaver is implemented by elements that keep state in a file next to
// their element file. The project saves every open sidecar after the
// element files.
type SidecarSaver interface {
	IsOpen() bool
	SaveSidecar() error
	// SidecarFile returns the sidecar path, or "" outside a project.
	SidecarFile() string
}

// Base holds the state shared by every element. Concrete kinds embed it and
// call Init from their constructor.
type Base struct {
	ref.Count

	self      Element
	id        ID
	keywords  string
	owner     Composite
	project   Registry
	observers []Observer
	links     []Link
	disposed  bool
}

// Init binds the base to the outer element and assigns its identifier.
// A nil id is replaced by a fresh one.
func (b *Base) Init(self Element, id ID) {
	if id == NilID {
		id = NewID()
	}
	b.self = self
	b.id = id
}

// Self returns the outer element the base was initialized with.
func (b *Base) Self() Element { return b.self }

func (b *Base) ID() ID { return b.id }

func (b *Base) Keywords() string { return b.keywords }

func (b *Base) SetKeywords(keywords string) { b.keywords = keywords }

func (b *Base) Owner() Composite { return b.owner }

func (b *Base) SetOwner(c Composite) { b.owner = c }

func (b *Base) Project() Registry { return b.project }

func (b *Base) SetProject(r Registry) { b.project = r }

func (b *Base) Links() []Link { return slices.Clone(b.links) }

func (b *Base) LinkTo(l Link) {
	if l == nil || slices.Contains(b.links, l) {
		return
	}
	b.links = append(b.links, l)
}

func (b *Base) Unlink(l Link) {
	if i := slices.Index(b.links, l); i >= 0 {
		b.links = slices.Delete(b.links, i, i+1)
	}
}

// IsHidden reports whether the element is excluded from ordinary tree
// traversal. Plain elements are visible.
func (b *Base) IsHidden() bool { return false }

// IsLink reports whether the element is a link.
func (b *Base) IsLink() bool { return false }

func (b *Base) IsDisposed() bool { return b.disposed }

func (b *Base) IsDestroyed() bool { return b.Dropped() }

func (b *Base) Subscribe(o Observer) {
	if o == nil || b.disposed || slices.Contains(b.observers, o) {
		return
	}
	b.observers = append(b.observers, o)
}

func (b *Base) Unsubscribe(o Observer) {
	if i := slices.Index(b.observers, o); i >= 0 {
		b.observers = slices.Delete(b.observers, i, i+1)
	}
}

// Observers returns the number of subscribed observers.
func (b *Base) Observers() int { return len(b.observers) }

func (b *Base) Dispose() error {
	if b.disposed {
		return ErrDisposed
	}

	for _, o := range slices.Clone(b.observers) {
		o.Notify(b.self, EventReleased)
	}
	if b.project != nil {
		b.project.RemoveFile(b.project.ElementFile(b.id))
	}
	for _, l := range slices.Clone(b.links) {
		if l.Source() == b.self {
			l.SetSource(nil)
		}
		if l.Target() == b.self {
			l.SetTarget(nil)
		}
	}
	if d, ok := b.self.(Disposer); ok {
		d.OnDispose()
	}

	b.links = nil
	b.observers = nil
	b.disposed = true
	return nil
}

// Serialize reads or writes the class name and the keywords. On read, a
// stored class name that differs from the element's own is reported as
// corruption.
func (b *Base) Serialize(a *Archive) error {
	class := b.self.ClassName()
	if a.Reading() {
		var stored string
		a.String("class", &stored)
		if stored != "" && stored != class {
			a.Fail(errs.New(errs.ErrCodeCorrupt, "%s: stored class %q does not match %q", b.id, stored, class))
		}
	} else {
		a.String("class", &class)
	}
	a.String("keywords", &b.keywords)
	return a.Err()
}
