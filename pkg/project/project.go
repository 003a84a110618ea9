package project

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlstack/pkg/catalog"
	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/ref"
)

// Extension is the file extension of the project index.
const Extension = ".umlproj"

// FormatVersion is the version written to the index and element files.
const FormatVersion = 1

// Fixed subfolders of a project directory.
const (
	ArtifactsFolder = "artifacts"
	CodeFolder      = "code"
	DiagramsFolder  = "diagrams"
	ElementsFolder  = "elements"
)

// Folders lists the subfolders created with a project.
var Folders = []string{ArtifactsFolder, CodeFolder, DiagramsFolder, ElementsFolder}

var (
	// ErrRootElement is returned when the root element is removed.
	ErrRootElement = errs.New(errs.ErrCodeContract, "the root element cannot be removed")

	// ErrNoFile is returned by Save on a project that was never created or
	// loaded.
	ErrNoFile = errs.New(errs.ErrCodeNotOpen, "project has no index file")
)

// Option configures a Project.
type Option func(*Project)

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(l *log.Logger) Option { return func(p *Project) { p.logger = l } }

// WithAuthor sets the author recorded in new projects.
func WithAuthor(author string) Option { return func(p *Project) { p.author = author } }

// Project is the registry owning every element of a model.
type Project struct {
	catalog *catalog.Catalog
	logger  *log.Logger

	path    string
	name    string
	author  string
	comment string

	root     *Root
	elements map[model.ID]ref.Ref[model.Element]
	pending  []string
	dirty    bool
	lastErr  string
}

// New returns an empty project holding only the root element.
func New(cat *catalog.Catalog, opts ...Option) *Project {
	p := &Project{catalog: cat, logger: log.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.reset()
	return p
}

func (p *Project) reset() {
	for id := range p.elements {
		r := p.elements[id]
		r.Get().SetProject(nil)
		r.Release()
	}
	p.elements = make(map[model.ID]ref.Ref[model.Element])
	p.pending = nil
	p.dirty = false
	p.root = newRoot()
	p.root.SetProject(p)
	p.elements[model.RootID] = ref.New[model.Element](p.root)
}

// Close releases every element and resets the project to an empty one.
// Unsaved changes and queued deletions are discarded.
func (p *Project) Close() {
	p.reset()
	p.path = ""
	p.name = ""
	p.comment = ""
	p.lastErr = ""
}

// Catalog returns the catalog used to rebuild elements on load.
func (p *Project) Catalog() *catalog.Catalog { return p.catalog }

// Logger returns the project's logger.
func (p *Project) Logger() *log.Logger { return p.logger }

// Path returns the index file path, or "" for an unsaved project.
func (p *Project) Path() string { return p.path }

// Dir returns the project directory.
func (p *Project) Dir() string {
	if p.path == "" {
		return ""
	}
	return filepath.Dir(p.path)
}

func (p *Project) Name() string { return p.name }

func (p *Project) SetName(name string) {
	p.name = name
	p.dirty = true
}

func (p *Project) Author() string { return p.author }

func (p *Project) SetAuthor(author string) {
	p.author = author
	p.dirty = true
}

func (p *Project) Comment() string { return p.comment }

func (p *Project) SetComment(comment string) {
	p.comment = comment
	p.dirty = true
}

// Dirty reports whether the project changed since the last load or save.
func (p *Project) Dirty() bool { return p.dirty }

// MarkDirty flags an element change the project cannot observe itself.
func (p *Project) MarkDirty() { p.dirty = true }

// LastError returns the message of the last failed create, load or save.
func (p *Project) LastError() string { return p.lastErr }

func (p *Project) fail(err error) error {
	p.lastErr = errs.UserMessage(err)
	return err
}

// Root returns the root composite. It is never nil.
func (p *Project) Root() model.Composite { return p.root }

// Count returns the number of elements, not counting the root.
func (p *Project) Count() int { return len(p.elements) - 1 }

// Find looks up an element by identifier.
func (p *Project) Find(id model.ID) (model.Element, bool) {
	r, ok := p.elements[id]
	if !ok {
		return nil, false
	}
	return r.Get(), true
}

// Take returns the element with the given identifier without reporting
// whether it exists; a missing identifier yields nil. Use it only where
// the identifier is known to be indexed.
func (p *Project) Take(id model.ID) model.Element {
	return p.elements[id].Get()
}

// Elements returns every element except the root, sorted by identifier.
func (p *Project) Elements() []model.Element {
	out := make([]model.Element, 0, len(p.elements))
	for id, r := range p.elements {
		if id != model.RootID {
			out = append(out, r.Get())
		}
	}
	slices.SortFunc(out, func(a, b model.Element) int {
		return strings.Compare(a.ID().String(), b.ID().String())
	})
	return out
}

// Insert adds e to the index and sets its project. An identifier that is
// already indexed is rejected and the project is left unchanged. A pending
// deletion of the element's files is cancelled.
func (p *Project) Insert(e model.Element) error {
	switch {
	case e == nil:
		return model.ErrNilElement
	case e.IsDisposed():
		return model.ErrDisposed
	}
	if _, ok := p.elements[e.ID()]; ok {
		return errs.New(errs.ErrCodeDuplicateID, "element %s is already in the project", e.ID())
	}

	p.elements[e.ID()] = ref.New(e)
	e.SetProject(p)
	p.RecoverFile(p.ElementFile(e.ID()))
	if s, ok := e.(model.SidecarSaver); ok {
		p.RecoverFile(s.SidecarFile())
	}
	p.dirty = true
	return nil
}

// Remove drops e from the index, clears its project and queues its files
// for deletion. The element is not disposed; if the index held its last
// reference it is destroyed. The root cannot be removed.
func (p *Project) Remove(e model.Element) error {
	if e == nil {
		return model.ErrNilElement
	}
	if e.ID() == model.RootID {
		return ErrRootElement
	}
	r, ok := p.elements[e.ID()]
	if !ok || !r.Is(e) {
		return errs.New(errs.ErrCodeNotFound, "element %s is not in the project", e.ID())
	}

	p.RemoveFile(p.ElementFile(e.ID()))
	if s, ok := e.(model.SidecarSaver); ok {
		p.RemoveFile(s.SidecarFile())
	}
	e.SetProject(nil)
	delete(p.elements, e.ID())
	r.Release()
	p.dirty = true
	return nil
}

// ElementFile returns the path of an element's file.
func (p *Project) ElementFile(id model.ID) string {
	return filepath.Join(p.Dir(), ElementsFolder, id.String()+".json")
}

// DiagramsDir returns the diagram sidecar folder.
func (p *Project) DiagramsDir() string { return filepath.Join(p.Dir(), DiagramsFolder) }

// ElementsDir returns the element file folder.
func (p *Project) ElementsDir() string { return filepath.Join(p.Dir(), ElementsFolder) }

// ArtifactsDir returns the folder for exported artifacts.
func (p *Project) ArtifactsDir() string { return filepath.Join(p.Dir(), ArtifactsFolder) }

// CodeDir returns the folder reserved for source files.
func (p *Project) CodeDir() string { return filepath.Join(p.Dir(), CodeFolder) }

// RemoveFile queues path for deletion at the next successful save.
func (p *Project) RemoveFile(path string) {
	if path == "" || slices.Contains(p.pending, path) {
		return
	}
	p.pending = append(p.pending, path)
	p.dirty = true
}

// RecoverFile cancels a queued deletion of path.
func (p *Project) RecoverFile(path string) {
	if i := slices.Index(p.pending, path); i >= 0 {
		p.pending = slices.Delete(p.pending, i, i+1)
	}
}

// PendingFiles returns the files queued for deletion, in queue order.
func (p *Project) PendingFiles() []string { return slices.Clone(p.pending) }

var _ model.Registry = (*Project)(nil)

// RootClassName is the class name stored for the root element.
const RootClassName = "Root"

// Root is the project's top-level composite, always present under
// [model.RootID]. It is rebuilt by the project rather than the catalog.
type Root struct {
	model.CompositeBase
}

func newRoot() *Root {
	r := &Root{}
	r.Init(r, model.RootID)
	return r
}

func (r *Root) ClassName() string { return RootClassName }
