// Package cli implements the umlstack command-line interface.
//
// The commands create and inspect UML projects on disk, manage diagram
// overlays, export the model through Graphviz, and browse the ownership
// tree interactively. The CLI is built with cobra, logs through
// charmbracelet/log and prints styled output with lipgloss.
//
// # Commands
//
//   - new, add, link: create a project and add elements to it
//   - info, tree, check, browse: inspect a project
//   - diagram: list, show and add diagram overlays
//   - export: render the model or a diagram as DOT or SVG
//   - cache: manage the export cache
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/umlstack/config.toml. Flags
// override the file. See [Config].
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlstack/pkg/buildinfo"
	"github.com/matzehuels/umlstack/pkg/cache"
	"github.com/matzehuels/umlstack/pkg/catalog"
	"github.com/matzehuels/umlstack/pkg/diagram"
	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/export"
	"github.com/matzehuels/umlstack/pkg/project"
	"github.com/matzehuels/umlstack/pkg/uml"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "umlstack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "umlstack edits UML models stored as plain JSON files",
		Long:         `umlstack manages UML projects on disk: one JSON file per element, an index file, and diagram overlays stored next to them. It can check a project for inconsistencies and export the model through Graphviz.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template(
		fmt.Sprintf("project format: v%d", project.FormatVersion),
		fmt.Sprintf("sidecar format: v%d", diagram.SidecarVersion),
	))
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file into c.Config.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := configFile()
		if err != nil {
			c.Logger.Debug("no config location", "error", err)
			return nil
		}
		path = p
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
	}
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// =============================================================================
// Project Access
// =============================================================================

// newCatalog returns a catalog with every element kind registered.
func newCatalog() (*catalog.Catalog, error) {
	cat := catalog.New()
	if err := uml.Register(cat); err != nil {
		return nil, err
	}
	sidecars, err := diagram.NewSidecarCache(diagram.DefaultSidecarCacheSize)
	if err != nil {
		return nil, err
	}
	if err := diagram.Register(cat, diagram.WithSidecarCache(sidecars)); err != nil {
		return nil, err
	}
	return cat, nil
}

// newProject creates an empty project configured for CLI use.
func (c *CLI) newProject() (*project.Project, error) {
	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}
	return project.New(cat, project.WithLogger(c.Logger), project.WithAuthor(c.Config.Author)), nil
}

// openProject loads the project at path, which is either an index file or
// a project directory holding exactly one.
func (c *CLI) openProject(path string) (*project.Project, error) {
	filename, err := resolveIndex(path)
	if err != nil {
		return nil, err
	}
	p, err := c.newProject()
	if err != nil {
		return nil, err
	}
	prog := newProgress(c.Logger)
	if err := p.Load(filename); err != nil {
		return nil, err
	}
	prog.done("Loaded " + p.Name())
	return p, nil
}

func resolveIndex(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeIO, err, "open %s", path)
	}
	if !info.IsDir() {
		return path, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "*"+project.Extension))
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeIO, err, "scan %s", path)
	}
	switch len(matches) {
	case 0:
		return "", errs.New(errs.ErrCodeNotFound, "no %s file in %s", project.Extension, path)
	case 1:
		return matches[0], nil
	default:
		return "", errs.New(errs.ErrCodeContract, "%d %s files in %s, name one explicitly", len(matches), project.Extension, path)
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an export runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*export.Runner, error) {
	ch, err := c.newCache(noCache || c.Config.NoCache)
	if err != nil {
		return nil, err
	}
	return export.NewRunner(ch, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory or the platform default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	return cache.DefaultDir()
}
