package project

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/model"
)

// Report lists the inconsistencies found by Check.
type Report struct {
	// Orphans are element files without an index entry that are not queued
	// for deletion.
	Orphans []string
	// StaleSidecars are diagram files whose diagram is not in the project.
	StaleSidecars []string
	// BrokenLinks are links with an end that is unset, disposed or not
	// in the index.
	BrokenLinks []model.ID
	// Unordered are composites with a hidden child ahead of a visible one.
	Unordered []model.ID
	// Detached are visible elements other than the root that have no owner.
	Detached []model.ID
}

// Issues returns the total number of findings.
func (r *Report) Issues() int {
	return len(r.Orphans) + len(r.StaleSidecars) + len(r.BrokenLinks) + len(r.Unordered) + len(r.Detached)
}

// OK reports whether no inconsistency was found.
func (r *Report) OK() bool { return r.Issues() == 0 }

// Check inspects the in-memory graph and, for a saved project, the files
// on disk. It never modifies either.
func Check(p *Project) (*Report, error) {
	r := &Report{}

	for _, e := range append([]model.Element{p.root}, p.Elements()...) {
		if l, ok := e.(model.Link); ok && (!p.indexed(l.Source()) || !p.indexed(l.Target())) {
			r.BrokenLinks = append(r.BrokenLinks, e.ID())
		}
		if c, ok := e.(model.Composite); ok && !model.Ordered(c) {
			r.Unordered = append(r.Unordered, e.ID())
		}
		if e.ID() != model.RootID && !e.IsHidden() && e.Owner() == nil {
			r.Detached = append(r.Detached, e.ID())
		}
	}

	if p.Dir() == "" {
		return r, nil
	}

	var err error
	r.Orphans, err = p.scan(p.ElementsDir(), func(e model.Element) bool { return true })
	if err != nil {
		return nil, err
	}
	r.StaleSidecars, err = p.scan(p.DiagramsDir(), func(e model.Element) bool {
		_, ok := e.(model.SidecarSaver)
		return ok
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// indexed reports whether e is a live element of the project.
func (p *Project) indexed(e model.Element) bool {
	if e == nil || e.IsDisposed() {
		return false
	}
	found, ok := p.Find(e.ID())
	return ok && found == e
}

// scan returns the JSON files in dir that do not belong to an indexed
// element accepted by keep and are not queued for deletion.
func (p *Project) scan(dir string, keep func(model.Element) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read %s", dir)
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(dir, name)
		if slices.Contains(p.pending, path) {
			continue
		}
		id, err := model.ParseID(strings.TrimSuffix(name, ".json"))
		if err == nil {
			if e, ok := p.Find(id); ok && keep(e) {
				continue
			}
		}
		out = append(out, path)
	}
	return out, nil
}
