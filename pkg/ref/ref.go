package ref

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Counted is implemented by objects that carry an intrusive reference count.
type Counted interface {
	// Acquire adds one reference.
	Acquire()
	// Release drops one reference and reports whether it was the last one.
	Release() bool
	// Refs returns the current number of references.
	Refs() int32
}

// Count is an embeddable atomic reference counter.
//
// The zero value has no references and no destroy hook.
type Count struct {
	n       atomic.Int32
	once    sync.Once
	onZero  func()
	dropped atomic.Bool
}

// OnZero sets the hook run when the count drops from one to zero.
// It must be set before the first Acquire.
func (c *Count) OnZero(fn func()) { c.onZero = fn }

// Acquire adds one reference.
func (c *Count) Acquire() { c.n.Add(1) }

// Release drops one reference. Releasing an object with no references is a
// no-op that returns false.
func (c *Count) Release() bool {
	for {
		n := c.n.Load()
		if n <= 0 {
			return false
		}
		if c.n.CompareAndSwap(n, n-1) {
			if n != 1 {
				return false
			}
			c.once.Do(func() {
				c.dropped.Store(true)
				if c.onZero != nil {
					c.onZero()
				}
			})
			return true
		}
	}
}

// Refs returns the current number of references.
func (c *Count) Refs() int32 { return c.n.Load() }

// Dropped reports whether the count has ever reached zero after being held.
func (c *Count) Dropped() bool { return c.dropped.Load() }

var _ Counted = (*Count)(nil)

// Ref is a strong reference to a counted object.
//
// The zero value is a nil reference. Copying a Ref by value does not
// acquire; use Clone for a second owner.
type Ref[T Counted] struct {
	ptr  T
	held bool
}

// New acquires a reference to v and returns the handle.
func New[T Counted](v T) Ref[T] {
	if isNil(v) {
		return Ref[T]{}
	}
	v.Acquire()
	return Ref[T]{ptr: v, held: true}
}

// Get returns the referenced object, or the zero value for a nil reference.
func (r Ref[T]) Get() T { return r.ptr }

// IsNil reports whether r holds nothing.
func (r Ref[T]) IsNil() bool { return !r.held }

// Clone acquires another reference to the same object.
func (r Ref[T]) Clone() Ref[T] {
	if !r.held {
		return Ref[T]{}
	}
	return New(r.ptr)
}

// Release drops the reference held by r and resets it to nil. Releasing a
// nil reference is a no-op. It reports whether the object was destroyed.
func (r *Ref[T]) Release() bool {
	if !r.held {
		return false
	}
	var zero T
	p := r.ptr
	r.ptr, r.held = zero, false
	return p.Release()
}

// Reset points r at v, acquiring v before releasing the previous target so
// that self-assignment is safe.
func (r *Ref[T]) Reset(v T) {
	next := New(v)
	r.Release()
	*r = next
}

// Same reports whether r and o point at the same object. Comparison is by
// identity, never by value.
func (r Ref[T]) Same(o Ref[T]) bool {
	if !r.held || !o.held {
		return r.held == o.held
	}
	return any(r.ptr) == any(o.ptr)
}

// Is reports whether r points at v.
func (r Ref[T]) Is(v T) bool {
	return r.held && any(r.ptr) == any(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
