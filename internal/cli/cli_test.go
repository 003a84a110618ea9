package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	errs "github.com/matzehuels/umlstack/pkg/errors"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })

	config := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(config, []byte("no_cache = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", config}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

// newShop creates a project with a model holding two associated classes and
// returns its directory.
func newShop(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, "new", dir, "shop", "--author", "tester")
	shop := filepath.Join(dir, "shop")
	mustRun(t, "add", shop, "Model", "--name", "Shop")
	mustRun(t, "add", shop, "Class", "--name", "Order", "--parent", "Shop")
	mustRun(t, "add", shop, "Class", "--name", "Item", "--parent", "Shop")
	mustRun(t, "link", shop, "Association", "Order", "Item")
	return shop
}

func TestNewProject(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, "new", dir, "shop")
	if !strings.Contains(out, "Created project shop") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "shop", "shop.umlproj")); err != nil {
		t.Errorf("index missing: %v", err)
	}

	if _, err := run(t, "new", dir, "shop"); !errs.Is(err, errs.ErrCodeAlreadyExists) {
		t.Errorf("second new = %v, want ALREADY_EXISTS", err)
	}
}

func TestTree(t *testing.T) {
	shop := newShop(t)

	out := mustRun(t, "tree", shop)
	for _, want := range []string{"Shop", "Order", "Item"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Association") {
		t.Errorf("tree shows hidden link:\n%s", out)
	}

	out = mustRun(t, "tree", shop, "--all")
	if !strings.Contains(out, "Association") || !strings.Contains(out, "Order → Item") {
		t.Errorf("tree --all missing link:\n%s", out)
	}
}

func TestInfo(t *testing.T) {
	shop := newShop(t)
	out := mustRun(t, "info", shop)
	for _, want := range []string{"shop", "tester", "Elements", "Class", "Association", "Model"} {
		if !strings.Contains(out, want) {
			t.Errorf("info missing %s:\n%s", want, out)
		}
	}
}

func TestCheck(t *testing.T) {
	shop := newShop(t)
	if out := mustRun(t, "check", shop); !strings.Contains(out, "No issues") {
		t.Errorf("check output = %q", out)
	}

	orphan := filepath.Join(shop, "elements", "00000000-0000-0000-0000-0000000000ff.json")
	if err := os.WriteFile(orphan, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "check", shop)
	if !errs.Is(err, errs.ErrCodeCorrupt) {
		t.Errorf("check with orphan = %v, want CORRUPT_PROJECT", err)
	}
	if !strings.Contains(out, "orphan element file") {
		t.Errorf("check output = %q", out)
	}
}

func TestAddErrors(t *testing.T) {
	shop := newShop(t)
	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"unknown class", []string{"add", shop, "Widget"}, errs.ErrCodeUnknownClass},
		{"link class", []string{"add", shop, "Generalization"}, errs.ErrCodeContract},
		{"missing parent", []string{"add", shop, "Class", "--parent", "Nowhere"}, errs.ErrCodeNotFound},
		{"name on unnamed kind", []string{"add", shop, "Comment", "--name", "note"}, errs.ErrCodeContract},
		{"link of element class", []string{"link", shop, "Class", "Order", "Item"}, errs.ErrCodeContract},
		{"missing project", []string{"tree", filepath.Join(shop, "missing")}, errs.ErrCodeIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDiagramCommands(t *testing.T) {
	shop := newShop(t)

	if out := mustRun(t, "diagram", "list", shop); !strings.Contains(out, "No diagrams") {
		t.Errorf("list output = %q", out)
	}

	out := mustRun(t, "diagram", "add", shop, "Overview", "-e", "Order", "-e", "Item")
	if !strings.Contains(out, "2 nodes") || !strings.Contains(out, "1 edges") {
		t.Errorf("add output = %q", out)
	}

	out = mustRun(t, "diagram", "list", shop)
	if !strings.Contains(out, "Overview") || !strings.Contains(out, "yes") {
		t.Errorf("list output = %q", out)
	}

	out = mustRun(t, "diagram", "show", shop, "Overview")
	for _, want := range []string{"Overview", "Order", "Item", "Association", "straight"} {
		if !strings.Contains(out, want) {
			t.Errorf("show missing %s:\n%s", want, out)
		}
	}

	if _, err := run(t, "diagram", "add", shop, "Bad", "--kind", "timing"); !errs.Is(err, errs.ErrCodeContract) {
		t.Errorf("add with bad kind = %v, want CONTRACT_VIOLATION", err)
	}
	if _, err := run(t, "diagram", "show", shop, "Missing"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("show missing = %v, want NOT_FOUND", err)
	}
}

func TestExportDOT(t *testing.T) {
	shop := newShop(t)

	out := mustRun(t, "export", shop, "--format", "dot")
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, `label="Order"`) {
		t.Errorf("export output = %q", out)
	}

	mustRun(t, "diagram", "add", shop, "Overview", "-e", "Order")
	file := filepath.Join(t.TempDir(), "overview.dot")
	out = mustRun(t, "export", shop, "--diagram", "Overview", "--format", "dot", "-o", file)
	if !strings.Contains(out, "Exported shop") {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "layout=neato") {
		t.Errorf("diagram DOT = %s", data)
	}

	if _, err := run(t, "export", shop, "--format", "gif"); !errs.Is(err, errs.ErrCodeUnsupportedFormat) {
		t.Errorf("export gif = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestResolveIndex(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "a.umlproj")
	if err := os.WriteFile(index, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{dir, index} {
		if got, err := resolveIndex(path); err != nil || got != index {
			t.Errorf("resolveIndex(%s) = %s, %v", path, got, err)
		}
	}

	if _, err := resolveIndex(t.TempDir()); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("empty dir: %v, want NOT_FOUND", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.umlproj"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveIndex(dir); !errs.Is(err, errs.ErrCodeContract) {
		t.Errorf("two indexes: %v, want CONTRACT_VIOLATION", err)
	}
}
