package model

import (
	"path/filepath"

	"github.com/charmbracelet/log"
)

type node struct {
	Base
	name string
}

func newNode(name string) *node {
	n := &node{name: name}
	n.Init(n, NilID)
	return n
}

func (n *node) ClassName() string { return "Node" }

func (n *node) Serialize(a *Archive) error {
	if err := n.Base.Serialize(a); err != nil {
		return err
	}
	a.String("name", &n.name)
	return a.Err()
}

type folder struct {
	CompositeBase
	name string
}

func newFolder(name string) *folder {
	f := &folder{name: name}
	f.Init(f, NilID)
	return f
}

func (f *folder) ClassName() string { return "Folder" }

type edge struct {
	LinkBase
	directed bool
}

func newEdge(directed bool) *edge {
	e := &edge{directed: directed}
	e.Init(e, NilID)
	return e
}

func (e *edge) ClassName() string { return "Edge" }

func (e *edge) IsDirected() bool { return e.directed }

// registry is an in-memory Registry that records lazy deletions.
type registry struct {
	elements map[ID]Element
	removed  []string
}

func newRegistry(elems ...Element) *registry {
	r := &registry{elements: make(map[ID]Element)}
	for _, e := range elems {
		r.elements[e.ID()] = e
		e.SetProject(r)
	}
	return r
}

func (r *registry) Find(id ID) (Element, bool) {
	e, ok := r.elements[id]
	return e, ok
}

func (r *registry) ElementFile(id ID) string { return filepath.Join("elements", id.String()+".json") }

func (r *registry) DiagramsDir() string { return "diagrams" }

func (r *registry) RemoveFile(path string) { r.removed = append(r.removed, path) }

func (r *registry) RecoverFile(string) {}

func (r *registry) Logger() *log.Logger { return log.Default() }

type recorder struct {
	events []Event
	from   []Element
}

func (r *recorder) Notify(sender Element, ev Event) {
	r.events = append(r.events, ev)
	r.from = append(r.from, sender)
}
