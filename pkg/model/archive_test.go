package model

import (
	"encoding/json"
	"strings"
	"testing"

	errs "github.com/matzehuels/umlstack/pkg/errors"
)

func TestArchiveRoundTrip(t *testing.T) {
	src := newNode("alpha")
	src.SetKeywords("entity")

	w := NewWriter(3)
	if err := src.Serialize(w); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if raw["class"] != "Node" || raw["version"] != float64(3) {
		t.Errorf("class/version = %v/%v", raw["class"], raw["version"])
	}

	r, err := NewReader(data, "alpha.json", nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Version() != 3 {
		t.Errorf("Version() = %d, want 3", r.Version())
	}
	dst := &node{}
	dst.Init(dst, src.ID())
	if err := dst.Serialize(r); err != nil {
		t.Fatalf("Serialize(read): %v", err)
	}
	if dst.name != "alpha" || dst.Keywords() != "entity" {
		t.Errorf("read back name=%q keywords=%q", dst.name, dst.Keywords())
	}
}

func TestArchiveMissingKeysKeepValues(t *testing.T) {
	r, err := NewReader([]byte(`{"class": "Node"}`), "n.json", nil)
	if err != nil {
		t.Fatal(err)
	}
	n := newNode("keep")
	n.SetKeywords("kw")
	if err := n.Serialize(r); err != nil {
		t.Fatal(err)
	}
	if n.name != "keep" || n.Keywords() != "kw" {
		t.Error("absent keys overwrote existing values")
	}
	if r.Version() != 0 {
		t.Errorf("Version() = %d for file without version, want 0", r.Version())
	}
}

func TestArchiveParseErrorOffset(t *testing.T) {
	_, err := NewReader([]byte(`{"class": "Node",, }`), "broken.json", nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errs.Is(err, errs.ErrCodeParse) {
		t.Errorf("code = %v, want PARSE_ERROR", errs.GetCode(err))
	}
	if !strings.Contains(err.Error(), "offset ") {
		t.Errorf("error %q does not report the byte offset", err)
	}
	if !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestArchiveFieldTypeError(t *testing.T) {
	r, err := NewReader([]byte(`{"name": 42}`), "n.json", nil)
	if err != nil {
		t.Fatal(err)
	}
	var name string
	r.String("name", &name)
	if !errs.Is(r.Err(), errs.ErrCodeParse) {
		t.Errorf("Err() = %v, want PARSE_ERROR", r.Err())
	}

	// Sticky: later calls do nothing.
	var kw = "unchanged"
	r.String("keywords", &kw)
	if kw != "unchanged" {
		t.Error("archive kept reading after failure")
	}
}

func TestLinkSerializeResolves(t *testing.T) {
	a, b := newNode("a"), newNode("b")
	l := newEdge(true)
	l.SetSource(a)
	l.SetTarget(b)

	w := NewWriter(1)
	if err := l.Serialize(w); err != nil {
		t.Fatal(err)
	}
	data, _ := w.Bytes()

	reg := newRegistry(a, b)
	r, err := NewReader(data, "l.json", reg)
	if err != nil {
		t.Fatal(err)
	}
	fresh := &edge{directed: true}
	fresh.Init(fresh, l.ID())
	if err := fresh.Serialize(r); err != nil {
		t.Fatalf("Serialize(read): %v", err)
	}
	if fresh.Source() != Element(a) || fresh.Target() != Element(b) {
		t.Error("endpoints not resolved")
	}
	if len(a.Links()) != 2 {
		t.Errorf("a.Links() = %d, want 2 (original and reloaded)", len(a.Links()))
	}
}

func TestLinkSerializeDangling(t *testing.T) {
	missing := NewID()
	data := []byte(`{"class": "Edge", "source": "` + missing.String() + `", "target": null}`)
	r, err := NewReader(data, "l.json", newRegistry())
	if err != nil {
		t.Fatal(err)
	}
	l := newEdge(true)
	err = l.Serialize(r)
	if !errs.Is(err, errs.ErrCodeDanglingRef) {
		t.Fatalf("error = %v, want DANGLING_REFERENCE", err)
	}
	if !strings.Contains(err.Error(), missing.String()) {
		t.Errorf("error %q does not carry the raw identifier", err)
	}
}

func TestCompositeSerializeRoundTrip(t *testing.T) {
	f := newFolder("root")
	a, b := newNode("a"), newNode("b")
	l := newEdge(false)
	_ = f.Insert(0, a)
	_ = f.Insert(1, b)
	_ = f.Insert(0, l)

	w := NewWriter(1)
	if err := f.Serialize(w); err != nil {
		t.Fatal(err)
	}
	data, _ := w.Bytes()

	// Detach so the same elements can be reinserted into a fresh composite.
	for _, e := range f.Children() {
		_ = f.Remove(e)
	}

	r, err := NewReader(data, "f.json", newRegistry(a, b, l))
	if err != nil {
		t.Fatal(err)
	}
	g := &folder{}
	g.Init(g, f.ID())
	if err := g.Serialize(r); err != nil {
		t.Fatalf("Serialize(read): %v", err)
	}
	if got, want := names(g), []string{"a", "b", "~"}; !equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestCompositeSerializeSkipsUnknownChildren(t *testing.T) {
	f := newFolder("root")
	a, gone := newNode("a"), newNode("gone")
	l := newEdge(false)
	_ = f.Insert(0, a)
	_ = f.Insert(1, gone)
	_ = f.Insert(2, l)

	w := NewWriter(1)
	if err := f.Serialize(w); err != nil {
		t.Fatal(err)
	}
	data, _ := w.Bytes()
	for _, e := range f.Children() {
		_ = f.Remove(e)
	}

	reg := newRegistry(a, l)
	r, err := NewReader(data, "f.json", reg)
	if err != nil {
		t.Fatal(err)
	}
	g := &folder{}
	g.Init(g, f.ID())
	g.SetProject(reg)
	if err := g.Serialize(r); err != nil {
		t.Fatalf("Serialize(read): %v", err)
	}
	if got, want := names(g), []string{"a", "~"}; !equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestRefsSkipMissingMalformed(t *testing.T) {
	r, err := NewReader([]byte(`{"elements": ["not-an-id"]}`), "f.json", newRegistry())
	if err != nil {
		t.Fatal(err)
	}
	var list []Element
	r.RefsSkipMissing("elements", &list)
	if !errs.Is(r.Err(), errs.ErrCodeDanglingRef) {
		t.Errorf("Err() = %v, want DANGLING_REFERENCE", r.Err())
	}
}
