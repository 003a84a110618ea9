package project

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/fsutil"
	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/observability"
)

type indexEntry struct {
	Class      string `json:"class"`
	Identifier string `json:"identifier"`
}

// IndexFile returns the index path of a project named name in dir.
func IndexFile(dir, name string) string {
	return filepath.Join(dir, name+Extension)
}

// Create makes the directory path/name with the fixed subfolders, resets
// the project to an empty one named name and writes its index. It fails
// if the directory already exists.
func (p *Project) Create(path, name string) error {
	if err := errs.ValidateProjectName(name); err != nil {
		return p.fail(err)
	}
	dir := filepath.Join(path, name)
	if fsutil.Exists(dir) {
		return p.fail(errs.New(errs.ErrCodeAlreadyExists, "%s already exists", dir))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return p.fail(errs.Wrap(errs.ErrCodeIO, err, "create %s", dir))
	}
	for _, sub := range Folders {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			return p.fail(errs.Wrap(errs.ErrCodeIO, err, "create %s", sub))
		}
	}

	p.Close()
	p.name = name
	p.path = IndexFile(dir, name)
	p.logger.Info("project created", "path", p.path)
	return p.Save()
}

// Load replaces the project's content with the project stored at filename.
// On any failure the project is reset to an empty one and the error is
// also available from LastError.
func (p *Project) Load(filename string) (err error) {
	start := time.Now()
	observability.Project().OnLoadStart(filename)
	defer func() {
		observability.Project().OnLoadComplete(filename, p.Count(), time.Since(start), err)
	}()

	p.Close()
	if err := p.load(filename); err != nil {
		p.Close()
		return p.fail(err)
	}
	p.dirty = false
	p.logger.Info("project loaded", "name", p.name, "elements", p.Count(), "duration", time.Since(start))
	return nil
}

func (p *Project) load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "read %s", filename)
	}
	a, err := model.NewReader(data, filename, nil)
	if err != nil {
		return err
	}
	if a.Version() > FormatVersion {
		return errs.New(errs.ErrCodeParse, "%s: format version %d is newer than %d", filename, a.Version(), FormatVersion)
	}

	var (
		count   int
		entries []indexEntry
	)
	a.String("name", &p.name)
	a.String("author", &p.author)
	a.String("comment", &p.comment)
	a.Int("count", &count)
	a.Field("elements", &entries)
	if a.Err() != nil {
		return a.Err()
	}
	if count == 0 {
		return errs.New(errs.ErrCodeCorrupt, "%s: element count is zero", filename)
	}
	if count != len(entries) {
		p.logger.Warn("index count mismatch", "count", count, "entries", len(entries))
	}
	p.path = filename

	// Pass 1: rebuild every indexed element.
	order := make([]model.Element, 0, len(entries))
	order = append(order, p.root)
	for _, entry := range entries {
		id, err := model.ParseID(entry.Identifier)
		if err != nil {
			return errs.Wrap(errs.ErrCodeParse, err, "%s: index entry", filename)
		}
		if id == model.RootID {
			continue
		}
		e := p.catalog.Build(entry.Class, id)
		if e == nil {
			p.logger.Warn("unknown element class skipped", "class", entry.Class, "id", entry.Identifier)
			continue
		}
		if err := p.Insert(e); err != nil {
			return errs.Wrap(errs.ErrCodeCorrupt, err, "%s: index entry", filename)
		}
		order = append(order, e)
	}

	// Pass 2: read element files against the complete index.
	for _, e := range order {
		if err := p.readElement(e); err != nil {
			return err
		}
	}
	p.pending = nil
	return nil
}

func (p *Project) readElement(e model.Element) error {
	path := p.ElementFile(e.ID())
	data, err := os.ReadFile(path)
	if err != nil {
		if e.ID() == model.RootID && os.IsNotExist(err) {
			return nil
		}
		return errs.Wrap(errs.ErrCodeIO, err, "read %s", path)
	}
	a, err := model.NewReader(data, path, p)
	if err != nil {
		return err
	}
	if a.Version() > FormatVersion {
		return errs.New(errs.ErrCodeParse, "%s: format version %d is newer than %d", path, a.Version(), FormatVersion)
	}
	return e.Serialize(a)
}

// Save writes the index, every element file and every open diagram
// sidecar, then deletes the queued files. Files written by this save are
// never deleted by it. Dirty state and the queue are cleared on success.
func (p *Project) Save() (err error) {
	if p.path == "" {
		return p.fail(ErrNoFile)
	}
	start := time.Now()
	written := make(map[string]bool)
	observability.Project().OnSaveStart(p.path)
	defer func() {
		observability.Project().OnSaveComplete(p.path, len(written), time.Since(start), err)
	}()

	if err := p.save(written); err != nil {
		return p.fail(err)
	}

	var failed []string
	for _, path := range p.pending {
		if written[path] {
			continue
		}
		if err := fsutil.RemoveIfExists(path); err != nil {
			p.logger.Warn("queued file not removed", "path", path, "err", err)
			failed = append(failed, path)
			continue
		}
		observability.Project().OnFileRemoved(path)
		p.logger.Debug("removed file", "path", path)
	}
	p.pending = failed
	p.dirty = false
	p.lastErr = ""
	p.logger.Debug("project saved", "path", p.path, "files", len(written), "duration", time.Since(start))
	return nil
}

// SaveAs saves the project under a new index path, creating the fixed
// subfolders next to it. Element files and open sidecars are rewritten at
// the new location; the sidecars of closed diagrams are copied there.
func (p *Project) SaveAs(filename string) error {
	dir := filepath.Dir(filename)
	for _, sub := range Folders {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return p.fail(errs.Wrap(errs.ErrCodeIO, err, "create %s", sub))
		}
	}

	var closed []string
	if p.path != "" && filepath.Dir(p.path) != dir {
		closed = p.closedSidecars()
		p.pending = nil
	}
	from := p.DiagramsDir()
	p.path = filename
	if p.name == "" {
		p.name = strings.TrimSuffix(filepath.Base(filename), Extension)
	}
	if err := p.Save(); err != nil {
		return err
	}
	for _, name := range closed {
		if err := copyFile(filepath.Join(from, name), filepath.Join(p.DiagramsDir(), name)); err != nil {
			return p.fail(err)
		}
	}
	return nil
}

// closedSidecars returns the base names of the existing sidecar files of
// diagrams that are not open.
func (p *Project) closedSidecars() []string {
	var names []string
	for _, e := range p.Elements() {
		s, ok := e.(model.SidecarSaver)
		if !ok || s.IsOpen() {
			continue
		}
		path := s.SidecarFile()
		if path != "" && fsutil.Exists(path) {
			names = append(names, filepath.Base(path))
		}
	}
	return names
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "read %s", src)
	}
	return fsutil.WriteFileAtomic(dst, data, 0o644)
}

func (p *Project) save(written map[string]bool) error {
	elements := append([]model.Element{p.root}, p.Elements()...)

	index := model.NewWriter(FormatVersion)
	entries := make([]indexEntry, 0, len(elements))
	for _, e := range elements {
		entries = append(entries, indexEntry{Class: e.ClassName(), Identifier: e.ID().String()})
	}
	count := len(entries)
	index.String("name", &p.name)
	index.String("author", &p.author)
	index.String("comment", &p.comment)
	index.Int("count", &count)
	index.Field("elements", entries)
	if err := writeArchive(p.path, index); err != nil {
		return err
	}
	written[p.path] = true

	for _, e := range elements {
		a := model.NewWriter(FormatVersion)
		if err := e.Serialize(a); err != nil {
			return err
		}
		path := p.ElementFile(e.ID())
		if err := writeArchive(path, a); err != nil {
			return err
		}
		written[path] = true
	}

	for _, e := range elements {
		s, ok := e.(model.SidecarSaver)
		if !ok || !s.IsOpen() {
			continue
		}
		if err := s.SaveSidecar(); err != nil {
			return err
		}
		written[s.SidecarFile()] = true
	}
	return nil
}

func writeArchive(path string, a *model.Archive) error {
	data, err := a.Bytes()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}
