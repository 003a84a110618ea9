package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/export"
)

// Config holds the CLI defaults read from config.toml.
//
//	author = "Jane Doe"
//	verbose = false
//	cache_dir = "/tmp/umlstack"
//	no_cache = false
//
//	[export]
//	detailed = true
//	format = "svg"
type Config struct {
	// Author is recorded in projects created by "new".
	Author   string       `toml:"author"`
	Verbose  bool         `toml:"verbose"`
	CacheDir string       `toml:"cache_dir"`
	NoCache  bool         `toml:"no_cache"`
	Export   ExportConfig `toml:"export"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Detailed bool   `toml:"detailed"`
	Format   string `toml:"format"`
}

func defaultConfig() Config {
	return Config{
		Author: os.Getenv("USER"),
		Export: ExportConfig{Format: export.FormatSVG},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return defaultConfig(), errs.Wrap(errs.ErrCodeParse, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return defaultConfig(), errs.New(errs.ErrCodeParse, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = export.FormatSVG
	}
	if !slices.Contains(export.Formats, cfg.Export.Format) {
		return defaultConfig(), errs.New(errs.ErrCodeUnsupportedFormat, "config %s: export format %q", path, cfg.Export.Format)
	}
	return cfg, nil
}

// configFile returns the config path using the XDG standard
// (~/.config/umlstack/config.toml).
func configFile() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

func defaultConfigHint() string {
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}
