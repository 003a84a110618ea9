package diagram

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlstack/pkg/catalog"
	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/uml"
)

type registry struct {
	dir      string
	elements map[model.ID]model.Element
	removed  []string
}

func newRegistry(t *testing.T) *registry {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "diagrams"), 0o755); err != nil {
		t.Fatal(err)
	}
	return &registry{dir: dir, elements: make(map[model.ID]model.Element)}
}

func (r *registry) add(elems ...model.Element) {
	for _, e := range elems {
		r.elements[e.ID()] = e
		e.SetProject(r)
	}
}

func (r *registry) Find(id model.ID) (model.Element, bool) {
	e, ok := r.elements[id]
	return e, ok
}

func (r *registry) ElementFile(id model.ID) string {
	return filepath.Join(r.dir, "elements", id.String()+".json")
}

func (r *registry) DiagramsDir() string { return filepath.Join(r.dir, "diagrams") }

func (r *registry) RemoveFile(path string) { r.removed = append(r.removed, path) }

func (r *registry) RecoverFile(string) {}

func (r *registry) Logger() *log.Logger { return log.New(io.Discard) }

type fixture struct {
	reg   *registry
	d     *Diagram
	a, b  *uml.Class
	c     *uml.Class
	assoc *uml.Association
	gen   *uml.Generalization
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		reg:   newRegistry(t),
		d:     New(model.NilID),
		a:     uml.NewClass(model.NilID),
		b:     uml.NewClass(model.NilID),
		c:     uml.NewClass(model.NilID),
		assoc: uml.NewAssociation(model.NilID),
		gen:   uml.NewGeneralization(model.NilID),
	}
	f.d.SetName("overview")
	f.a.SetName("A")
	f.b.SetName("B")
	f.c.SetName("C")
	f.assoc.SetName("uses")
	f.assoc.SetSource(f.a)
	f.assoc.SetTarget(f.b)
	f.gen.SetSource(f.c)
	f.gen.SetTarget(f.a)
	f.reg.add(f.d, f.a, f.b, f.c, f.assoc, f.gen)
	return f
}

func (f *fixture) populate(t *testing.T) {
	t.Helper()
	for i, e := range []model.Element{f.a, f.b, f.c} {
		n, err := f.d.AddNode(e)
		if err != nil {
			t.Fatalf("AddNode: %v", err)
		}
		n.Position = Point{X: float64(40 * i), Y: 20}
	}
	e, err := f.d.AddEdge(f.assoc)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	e.Routing = RoutingOrthogonal
	e.Points = []Point{{X: 10, Y: 10}}
	if _, err := f.d.AddEdge(f.gen); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
}

func writeSidecar(t *testing.T, d *Diagram, content string) {
	t.Helper()
	if err := os.WriteFile(d.SidecarFile(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenMissingSidecar(t *testing.T) {
	f := newFixture(t)
	if err := f.d.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !f.d.IsOpen() || len(f.d.Nodes()) != 0 {
		t.Errorf("IsOpen = %v, nodes = %d", f.d.IsOpen(), len(f.d.Nodes()))
	}

	err := f.d.Open()
	if !errs.Is(err, errs.ErrCodeAlreadyOpen) {
		t.Errorf("second Open = %v, want ALREADY_OPEN", err)
	}
	if f.d.LastError() == "" {
		t.Error("LastError empty after failed Open")
	}
}

func TestSaveRequiresOpen(t *testing.T) {
	f := newFixture(t)
	if err := f.d.Save(); !errs.Is(err, errs.ErrCodeNotOpen) {
		t.Errorf("Save = %v, want NOT_OPEN", err)
	}
	if _, err := f.d.AddNode(f.a); !errs.Is(err, errs.ErrCodeNotOpen) {
		t.Errorf("AddNode = %v, want NOT_OPEN", err)
	}
}

func TestOpenWithoutProject(t *testing.T) {
	d := New(model.NilID)
	if err := d.Open(); err == nil {
		t.Error("Open without project succeeded")
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	f := newFixture(t)
	if err := f.d.Open(); err != nil {
		t.Fatal(err)
	}
	f.populate(t)
	if err := f.d.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f.d.Close()
	if f.d.IsOpen() || len(f.d.Nodes()) != 0 {
		t.Fatal("Close did not discard the overlay")
	}

	if err := f.d.Open(); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := len(f.d.Nodes()); got != 3 {
		t.Errorf("nodes = %d, want 3", got)
	}
	if got := len(f.d.Edges()); got != 2 {
		t.Fatalf("edges = %d, want 2", got)
	}

	e := f.d.EdgeOf(f.assoc)
	if e == nil {
		t.Fatal("association edge missing")
	}
	if e.Node1().Element() != model.Element(f.a) || e.Node2().Element() != model.Element(f.b) {
		t.Errorf("endpoints = %s, %s", e.Node1().Label(), e.Node2().Label())
	}
	if e.Routing != RoutingOrthogonal || len(e.Points) != 1 {
		t.Errorf("routing = %v, points = %v", e.Routing, e.Points)
	}
	if got := e.Labels().Name; got != "uses" {
		t.Errorf("Labels().Name = %q", got)
	}
	if n := f.d.NodeOf(f.b); n == nil || n.Position != (Point{X: 40, Y: 20}) || n.Size != DefaultSize {
		t.Errorf("node B = %+v", n)
	}

	// open then save then open again reproduces the same file
	first, _ := os.ReadFile(f.d.SidecarFile())
	if err := f.d.Save(); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(f.d.SidecarFile())
	if string(first) != string(second) {
		t.Errorf("sidecar changed across open/save:\n%s\n---\n%s", first, second)
	}
}

func TestOpenSkipsMissingNode(t *testing.T) {
	f := newFixture(t)
	gone := model.NewID()
	writeSidecar(t, f.d, fmt.Sprintf(`{
  "version": 1,
  "nodes": [
    {"element": %q, "position": {"x": 1, "y": 2}},
    {"element": %q, "position": {"x": 3, "y": 4}}
  ],
  "edges": []
}`, gone, f.a.ID()))

	if err := f.d.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	nodes := f.d.Nodes()
	if len(nodes) != 1 || nodes[0].Element() != model.Element(f.a) {
		t.Fatalf("nodes = %v, want only A", nodes)
	}
	if nodes[0].Position != (Point{X: 3, Y: 4}) {
		t.Errorf("position = %+v", nodes[0].Position)
	}
}

func TestOpenSkipsMissingLink(t *testing.T) {
	f := newFixture(t)
	writeSidecar(t, f.d, fmt.Sprintf(`{
  "version": 1,
  "nodes": [{"element": %q}, {"element": %q}],
  "edges": [{"link": %q, "node1": %q, "node2": %q, "routing": "straight"}]
}`, f.a.ID(), f.b.ID(), model.NewID(), f.a.ID(), f.b.ID()))

	if err := f.d.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(f.d.Nodes()) != 2 || len(f.d.Edges()) != 0 {
		t.Errorf("nodes = %d, edges = %d", len(f.d.Nodes()), len(f.d.Edges()))
	}
}

func TestOpenUnresolvedEndpoint(t *testing.T) {
	f := newFixture(t)
	writeSidecar(t, f.d, fmt.Sprintf(`{
  "version": 1,
  "nodes": [{"element": %q}],
  "edges": [{"link": %q, "node1": %q, "node2": %q, "routing": "straight"}]
}`, f.a.ID(), f.assoc.ID(), f.a.ID(), f.b.ID()))

	err := f.d.Open()
	if !errs.Is(err, errs.ErrCodeDanglingRef) {
		t.Fatalf("Open = %v, want DANGLING_REFERENCE", err)
	}
	if f.d.IsOpen() || len(f.d.Nodes()) != 0 || len(f.d.Edges()) != 0 {
		t.Error("failed Open left a partial overlay")
	}
	if f.a.Observers() != 0 || f.assoc.Observers() != 0 {
		t.Error("failed Open left subscriptions behind")
	}
	if f.d.LastError() == "" {
		t.Error("LastError empty")
	}
}

func TestOpenMalformedSidecar(t *testing.T) {
	f := newFixture(t)
	writeSidecar(t, f.d, `{"version": 1, "nodes": [`)
	if err := f.d.Open(); !errs.Is(err, errs.ErrCodeParse) {
		t.Errorf("Open = %v, want PARSE_ERROR", err)
	}
}

func TestAddShapes(t *testing.T) {
	f := newFixture(t)
	f.d.Open()

	if _, err := f.d.AddEdge(f.assoc); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("AddEdge without nodes = %v, want NOT_FOUND", err)
	}
	if _, err := f.d.AddNode(f.assoc); !errs.Is(err, errs.ErrCodeContract) {
		t.Errorf("AddNode(link) = %v, want CONTRACT_VIOLATION", err)
	}
	f.d.AddNode(f.a)
	if _, err := f.d.AddNode(f.a); !errs.Is(err, errs.ErrCodeAlreadyExists) {
		t.Errorf("duplicate AddNode = %v, want ALREADY_EXISTS", err)
	}
	f.d.AddNode(f.b)
	if _, err := f.d.AddEdge(f.assoc); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if !f.d.Contains(f.assoc) || !f.d.Contains(f.a) || f.d.Contains(f.c) {
		t.Error("Contains mismatch")
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	f := newFixture(t)
	f.d.Open()
	f.populate(t)

	if !f.d.Remove(f.d.NodeOf(f.a)) {
		t.Fatal("Remove reported false")
	}
	if len(f.d.Nodes()) != 2 || len(f.d.Edges()) != 0 {
		t.Errorf("nodes = %d, edges = %d; edges of A must go with it", len(f.d.Nodes()), len(f.d.Edges()))
	}
	if f.a.Observers() != 0 || f.assoc.Observers() != 0 {
		t.Error("removed shapes still subscribed")
	}
	if f.d.Remove(&Node{}) {
		t.Error("Remove of a foreign node reported true")
	}
}

func TestNotifyReleasedElement(t *testing.T) {
	f := newFixture(t)
	f.d.Open()
	f.populate(t)

	if err := f.gen.Dispose(); err != nil {
		t.Fatal(err)
	}
	if f.d.EdgeOf(f.gen) != nil || len(f.d.Edges()) != 1 {
		t.Error("disposed link still on the diagram")
	}

	if err := f.b.Dispose(); err != nil {
		t.Fatal(err)
	}
	if f.d.NodeOf(f.b) != nil {
		t.Error("disposed element still on the diagram")
	}
	if len(f.d.Edges()) != 0 {
		t.Error("edge to disposed element kept")
	}
}

func TestDisposeQueuesSidecar(t *testing.T) {
	f := newFixture(t)
	f.d.Open()
	f.d.AddNode(f.a)
	sidecar := f.d.SidecarFile()

	if err := f.d.Dispose(); err != nil {
		t.Fatal(err)
	}
	if f.d.IsOpen() {
		t.Error("disposed diagram still open")
	}
	if !slices.Contains(f.reg.removed, sidecar) {
		t.Errorf("sidecar not queued: %v", f.reg.removed)
	}
	if !slices.Contains(f.reg.removed, f.reg.ElementFile(f.d.ID())) {
		t.Errorf("element file not queued: %v", f.reg.removed)
	}
	if f.a.Observers() != 0 {
		t.Error("disposed diagram still subscribed")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	d := New(model.NilID)
	d.SetName("deploy")
	d.SetKind(KindDeployment)
	d.SetDocumentation("prod")

	w := model.NewWriter(1)
	if err := d.Serialize(w); err != nil {
		t.Fatal(err)
	}
	data, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	r, err := model.NewReader(data, "diagram", nil)
	if err != nil {
		t.Fatal(err)
	}
	got := New(d.ID())
	if err := got.Serialize(r); err != nil {
		t.Fatal(err)
	}
	if got.Name() != "deploy" || got.Kind() != KindDeployment || got.Documentation() != "prod" {
		t.Errorf("fields lost: %q %q %q", got.Name(), got.Kind(), got.Documentation())
	}
}

func TestRegister(t *testing.T) {
	c := catalog.New()
	if err := Register(c); err != nil {
		t.Fatal(err)
	}
	d, ok := c.Build("Diagram::UseCase", model.NewID()).(*Diagram)
	if !ok || d.Kind() != KindUseCase || d.ClassName() != ClassName {
		t.Errorf("Build(Diagram::UseCase) = %v", d)
	}
	if d, _ := c.Build("Diagram", model.NewID()).(*Diagram); d == nil || d.Kind() != KindClass {
		t.Error("plain Diagram does not default to a class diagram")
	}
}

func TestSidecarCache(t *testing.T) {
	sidecars, err := NewSidecarCache(0)
	if err != nil {
		t.Fatal(err)
	}
	c := catalog.New()
	if err := Register(c, WithSidecarCache(sidecars)); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t)
	d := c.Build("Diagram::Class", model.NewID()).(*Diagram)
	f.reg.add(d)
	if err := d.Open(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddNode(f.a); err != nil {
		t.Fatal(err)
	}
	if err := d.Save(); err != nil {
		t.Fatal(err)
	}
	if sidecars.Len() != 0 {
		t.Errorf("Len() = %d after Save, want 0", sidecars.Len())
	}

	d.Close()
	if err := d.Open(); err != nil {
		t.Fatal(err)
	}
	if sidecars.Len() != 1 {
		t.Errorf("Len() = %d after Open, want 1", sidecars.Len())
	}

	// a second diagram on the same file reuses the parsed document
	other := c.Build("Diagram", d.ID()).(*Diagram)
	f.reg.add(other)
	if err := other.Open(); err != nil {
		t.Fatal(err)
	}
	if len(other.Nodes()) != 1 || sidecars.Len() != 1 {
		t.Errorf("nodes = %d, Len() = %d", len(other.Nodes()), sidecars.Len())
	}
}

func TestNilSidecarCache(t *testing.T) {
	f := newFixture(t)
	f.populate(t)
	if err := f.d.Save(); err != nil {
		t.Fatal(err)
	}
	f.d.Close()
	if err := f.d.Open(); err != nil {
		t.Fatal(err)
	}
	if len(f.d.Nodes()) != 3 {
		t.Errorf("nodes = %d, want 3", len(f.d.Nodes()))
	}
}
