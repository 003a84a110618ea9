// Package ref provides the ownership primitive used by the model graph.
//
// Objects embed [Count] to become reference counted. A [Ref] is a strong
// handle: creating one acquires a reference, releasing it drops one. When
// the last reference is released the object's destroy hook runs exactly
// once.
//
// # Usage
//
//	type thing struct{ ref.Count }
//
//	t := &thing{}
//	t.OnZero(func() { fmt.Println("destroyed") })
//
//	a := ref.New(t)   // count = 1
//	b := a.Clone()    // count = 2
//	a.Release()       // count = 1
//	b.Release()       // count = 0, prints "destroyed"
//
// # Concurrency
//
// Acquire and Release are atomic, so handles may be copied into transient
// structures (for example an undo snapshot) from any goroutine. Nothing else
// in this package synchronizes access to the counted object.
package ref
