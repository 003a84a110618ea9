package diagram

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/fsutil"
	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/observability"
)

// ClassName is the catalog key of the diagram kind.
const ClassName = "Diagram"

// Diagram kinds preset by the catalog variants.
const (
	KindClass      = "class"
	KindPackage    = "package"
	KindComponent  = "component"
	KindDeployment = "deployment"
	KindUseCase    = "usecase"
	KindObject     = "object"
)

var (
	// ErrNotOpen is returned by operations that need the overlay loaded.
	ErrNotOpen = errs.New(errs.ErrCodeNotOpen, "diagram is not open")

	// ErrAlreadyOpen is returned by Open on an open diagram.
	ErrAlreadyOpen = errs.New(errs.ErrCodeAlreadyOpen, "diagram is already open")

	// ErrNoProject is returned when the diagram was never inserted into a
	// project and therefore has no sidecar location.
	ErrNoProject = errs.New(errs.ErrCodeContract, "diagram is not part of a project")
)

// Diagram is a named element owning a lazily loaded overlay of shapes.
type Diagram struct {
	model.Base
	name          string
	kind          string
	documentation string

	cache   *SidecarCache
	open    bool
	nodes   []*Node
	edges   []*Edge
	lastErr string
}

func New(id model.ID) *Diagram {
	d := &Diagram{kind: KindClass}
	d.Init(d, id)
	return d
}

func (d *Diagram) ClassName() string { return ClassName }

// SetSidecarCache sets the cache Open reads the sidecar through. A nil
// cache reads the file on every Open.
func (d *Diagram) SetSidecarCache(c *SidecarCache) { d.cache = c }

func (d *Diagram) Name() string { return d.name }

func (d *Diagram) SetName(name string) { d.name = name }

// Kind returns the diagram type, such as "class" or "package".
func (d *Diagram) Kind() string { return d.kind }

func (d *Diagram) SetKind(kind string) { d.kind = kind }

func (d *Diagram) Documentation() string { return d.documentation }

func (d *Diagram) SetDocumentation(doc string) { d.documentation = doc }

// IsOpen reports whether the overlay is loaded.
func (d *Diagram) IsOpen() bool { return d.open }

// LastError returns the message of the last failed Open or Save, or "".
func (d *Diagram) LastError() string { return d.lastErr }

// SidecarFile returns the path of the overlay file, or "" when the diagram
// is not part of a project.
func (d *Diagram) SidecarFile() string {
	p := d.Project()
	if p == nil {
		return ""
	}
	return filepath.Join(p.DiagramsDir(), d.ID().String()+".json")
}

func (d *Diagram) logger() *log.Logger {
	if p := d.Project(); p != nil && p.Logger() != nil {
		return p.Logger()
	}
	return log.Default()
}

func (d *Diagram) fail(err error) error {
	d.lastErr = errs.UserMessage(err)
	return err
}

// Open loads the overlay from the sidecar file. A missing file opens an
// empty overlay. Shapes whose element or link is gone are skipped; an edge
// whose endpoint node cannot be found fails the open and leaves the overlay
// cleared.
func (d *Diagram) Open() error {
	if d.open {
		return d.fail(ErrAlreadyOpen)
	}
	if d.IsDisposed() {
		return d.fail(model.ErrDisposed)
	}
	p := d.Project()
	if p == nil {
		return d.fail(ErrNoProject)
	}

	start := time.Now()
	skipped, err := d.load(p)
	observability.Diagram().OnOpen(d.name, len(d.nodes), len(d.edges), skipped, time.Since(start), err)
	if err != nil {
		d.clear()
		return d.fail(err)
	}
	d.open = true
	d.lastErr = ""
	d.logger().Debug("diagram opened", "diagram", d.name, "nodes", len(d.nodes), "edges", len(d.edges), "skipped", skipped)
	return nil
}

func (d *Diagram) load(p model.Registry) (skipped int, err error) {
	path := d.SidecarFile()
	doc, err := d.cache.read(path)
	if err != nil || doc == nil {
		return 0, err
	}
	logger := d.logger()

	byElement := make(map[model.ID]*Node, len(doc.Nodes))
	for _, rec := range doc.Nodes {
		id, err := model.ParseID(rec.Element)
		if err != nil {
			return skipped, errs.Wrap(errs.ErrCodeParse, err, "%s: node", path)
		}
		e, ok := p.Find(id)
		if !ok || e.IsDisposed() {
			logger.Warn("diagram node element missing", "diagram", d.name, "element", rec.Element)
			skipped++
			continue
		}
		if _, dup := byElement[id]; dup || e.IsLink() {
			logger.Warn("diagram node ignored", "diagram", d.name, "element", rec.Element)
			skipped++
			continue
		}
		n := &Node{element: e, Position: rec.Position, Size: rec.Size, Style: rec.Style}
		d.nodes = append(d.nodes, n)
		byElement[id] = n
		e.Subscribe(d)
	}

	type pending struct {
		edge         *Edge
		node1, node2 string
	}
	var edges []pending
	for _, rec := range doc.Edges {
		id, err := model.ParseID(rec.Link)
		if err != nil {
			return skipped, errs.Wrap(errs.ErrCodeParse, err, "%s: edge", path)
		}
		e, ok := p.Find(id)
		link, isLink := e.(model.Link)
		if !ok || !isLink || e.IsDisposed() {
			logger.Warn("diagram edge link missing", "diagram", d.name, "link", rec.Link)
			skipped++
			continue
		}
		edge := &Edge{link: link, Routing: rec.Routing, Points: slices.Clone(rec.Points), Style: rec.Style}
		d.edges = append(d.edges, edge)
		link.Subscribe(d)
		edges = append(edges, pending{edge: edge, node1: rec.Node1, node2: rec.Node2})
	}

	resolve := func(raw string) *Node {
		id, err := model.ParseID(raw)
		if err != nil {
			return nil
		}
		return byElement[id]
	}
	for _, pe := range edges {
		pe.edge.node1 = resolve(pe.node1)
		pe.edge.node2 = resolve(pe.node2)
		if pe.edge.node1 == nil || pe.edge.node2 == nil {
			return skipped, errs.New(errs.ErrCodeDanglingRef, "%s: edge %s: unresolved endpoint %q or %q",
				path, pe.edge.link.ID(), pe.node1, pe.node2)
		}
	}
	return skipped, nil
}

// Save writes the overlay to the sidecar file through an atomic replace.
func (d *Diagram) Save() error {
	if !d.open {
		return d.fail(ErrNotOpen)
	}
	path := d.SidecarFile()
	if path == "" {
		return d.fail(ErrNoProject)
	}

	start := time.Now()
	data, err := encodeSidecar(d.nodes, d.edges)
	if err == nil {
		err = fsutil.WriteFileAtomic(path, data, 0o644)
	}
	d.cache.forget(path)
	observability.Diagram().OnSave(d.name, time.Since(start), err)
	if err != nil {
		return d.fail(err)
	}
	d.lastErr = ""
	return nil
}

// SaveSidecar saves the overlay as part of a project save.
func (d *Diagram) SaveSidecar() error { return d.Save() }

// Close discards the overlay. The sidecar file is not touched.
func (d *Diagram) Close() {
	d.clear()
	d.open = false
}

func (d *Diagram) clear() {
	for _, n := range d.nodes {
		n.element.Unsubscribe(d)
	}
	for _, e := range d.edges {
		e.link.Unsubscribe(d)
	}
	d.nodes = nil
	d.edges = nil
}

// Notify removes the shape of a released element.
func (d *Diagram) Notify(sender model.Element, ev model.Event) {
	if ev != model.EventReleased {
		return
	}
	if n := d.NodeOf(sender); n != nil {
		d.Remove(n)
		return
	}
	if l, ok := sender.(model.Link); ok {
		if e := d.EdgeOf(l); e != nil {
			d.Remove(e)
		}
	}
}

// AddNode displays e. Each element appears at most once per diagram.
func (d *Diagram) AddNode(e model.Element) (*Node, error) {
	switch {
	case !d.open:
		return nil, ErrNotOpen
	case e == nil:
		return nil, model.ErrNilElement
	case e.IsDisposed():
		return nil, model.ErrDisposed
	case e.IsLink():
		return nil, errs.New(errs.ErrCodeContract, "%s is a link; use AddEdge", e.ID())
	case d.NodeOf(e) != nil:
		return nil, errs.New(errs.ErrCodeAlreadyExists, "element %s is already on the diagram", e.ID())
	}
	n := &Node{element: e, Size: DefaultSize}
	d.nodes = append(d.nodes, n)
	e.Subscribe(d)
	return n, nil
}

// AddEdge displays l between the nodes of its source and target, which
// must already be on the diagram.
func (d *Diagram) AddEdge(l model.Link) (*Edge, error) {
	switch {
	case !d.open:
		return nil, ErrNotOpen
	case l == nil:
		return nil, model.ErrNilElement
	case l.IsDisposed():
		return nil, model.ErrDisposed
	case d.EdgeOf(l) != nil:
		return nil, errs.New(errs.ErrCodeAlreadyExists, "link %s is already on the diagram", l.ID())
	}
	n1, n2 := d.NodeOf(l.Source()), d.NodeOf(l.Target())
	if n1 == nil || n2 == nil {
		return nil, errs.New(errs.ErrCodeNotFound, "link %s: an endpoint is not on the diagram", l.ID())
	}
	e := &Edge{link: l, node1: n1, node2: n2}
	d.edges = append(d.edges, e)
	l.Subscribe(d)
	return e, nil
}

// Remove deletes a shape. Removing a node also removes every edge attached
// to it. It reports whether the shape was on the diagram.
func (d *Diagram) Remove(s Shape) bool {
	switch s := s.(type) {
	case *Node:
		i := slices.Index(d.nodes, s)
		if i < 0 {
			return false
		}
		for _, e := range slices.Clone(d.edges) {
			if e.node1 == s || e.node2 == s {
				d.Remove(e)
			}
		}
		d.nodes = slices.Delete(d.nodes, i, i+1)
		s.element.Unsubscribe(d)
		return true
	case *Edge:
		i := slices.Index(d.edges, s)
		if i < 0 {
			return false
		}
		d.edges = slices.Delete(d.edges, i, i+1)
		s.link.Unsubscribe(d)
		return true
	}
	return false
}

// Contains reports whether e is displayed as a node or an edge.
func (d *Diagram) Contains(e model.Element) bool {
	if d.NodeOf(e) != nil {
		return true
	}
	l, ok := e.(model.Link)
	return ok && d.EdgeOf(l) != nil
}

// NodeOf returns the node displaying e, or nil.
func (d *Diagram) NodeOf(e model.Element) *Node {
	if e == nil {
		return nil
	}
	for _, n := range d.nodes {
		if n.element == e {
			return n
		}
	}
	return nil
}

// EdgeOf returns the edge displaying l, or nil.
func (d *Diagram) EdgeOf(l model.Link) *Edge {
	if l == nil {
		return nil
	}
	for _, e := range d.edges {
		if e.link == l {
			return e
		}
	}
	return nil
}

// Nodes returns a copy of the node list.
func (d *Diagram) Nodes() []*Node { return slices.Clone(d.nodes) }

// Edges returns a copy of the edge list.
func (d *Diagram) Edges() []*Edge { return slices.Clone(d.edges) }

// OnDispose closes the overlay and queues the sidecar for deletion.
func (d *Diagram) OnDispose() {
	d.Close()
	if p := d.Project(); p != nil {
		p.RemoveFile(d.SidecarFile())
	}
}

func (d *Diagram) Serialize(a *model.Archive) error {
	if err := d.Base.Serialize(a); err != nil {
		return err
	}
	a.String("name", &d.name)
	a.String("kind", &d.kind)
	a.String("documentation", &d.documentation)
	return a.Err()
}
