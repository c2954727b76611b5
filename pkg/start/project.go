package start

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/vito/start/pkg/pretty"
)

// ConfigFileName is the name of the project configuration file.
const ConfigFileName = "start.toml"

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ProjectConfig represents a start.toml project configuration file.
type ProjectConfig struct {
	// Width is the pretty-printer width. Defaults to 80.
	Width int `toml:"width,omitempty"`

	Color ColorMode `toml:"color,omitempty"`

	// Theme is a path to a YAML theme file, relative to start.toml. It
	// supports ${ENV_VAR} expansion.
	Theme string `toml:"theme,omitempty"`

	// Stdlib runs the embedded prelude before user code. Defaults to true.
	Stdlib *bool `toml:"stdlib,omitempty"`

	// Debug holds the initial debug switches, keyed by option name in any
	// case: `debug_typer = true` sets DebugTyper.
	Debug map[string]bool `toml:"debug,omitempty"`

	Format FormatConfig `toml:"format,omitempty"`

	// dir is the directory containing start.toml.
	dir string
}

type FormatConfig struct {
	Width int `toml:"width,omitempty"`
}

// DefaultProjectConfig is used when no start.toml is found.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{}
}

// LoadProjectConfig loads a start.toml file from the given path.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	var config ProjectConfig
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("parsing %s: unknown key %s", path, undecoded[0])
	}
	switch config.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, errors.Errorf("parsing %s: color must be auto, always or never, got %q", path, config.Color)
	}
	for name := range config.Debug {
		if _, ok := ParseOption(name); !ok {
			return nil, errors.Errorf("parsing %s: unknown debug option %q", path, name)
		}
	}
	config.dir = filepath.Dir(path)
	return &config, nil
}

// FindProjectConfig searches for a start.toml file starting from dir and
// walking up to parent directories. Returns the path to start.toml and the
// parsed config, or ("", nil, nil) if not found.
func FindProjectConfig(dir string) (string, *ProjectConfig, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			config, err := LoadProjectConfig(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		// Stop at .git boundary
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// ApplyEnv overrides the configuration from START_WIDTH, START_COLOR and
// NO_COLOR.
func (c *ProjectConfig) ApplyEnv() error {
	if w := os.Getenv("START_WIDTH"); w != "" {
		width, err := strconv.Atoi(w)
		if err != nil {
			return errors.Wrap(err, "START_WIDTH")
		}
		c.Width = width
	}
	if mode := os.Getenv("START_COLOR"); mode != "" {
		c.Color = ColorMode(strings.ToLower(mode))
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		c.Color = ColorNever
	}
	return nil
}

// PrinterWidth is the configured width, or the default.
func (c *ProjectConfig) PrinterWidth() int {
	if c.Width > 0 {
		return c.Width
	}
	return pretty.DefaultWidth
}

// FormatWidth is the width used by the formatter.
func (c *ProjectConfig) FormatWidth() int {
	if c.Format.Width > 0 {
		return c.Format.Width
	}
	return c.PrinterWidth()
}

// UseStdlib reports whether the prelude should run first.
func (c *ProjectConfig) UseStdlib() bool {
	return c.Stdlib == nil || *c.Stdlib
}

// UseColor decides whether to color output going to a terminal (isTTY).
func (c *ProjectConfig) UseColor(isTTY bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTTY
}

// DebugOptions are the debug switches set in the [debug] table.
func (c *ProjectConfig) DebugOptions() Options {
	var opts Options
	for name, value := range c.Debug {
		if opt, ok := ParseOption(name); ok {
			opts.Set(opt, value)
		}
	}
	return opts
}

// LoadTheme builds the theme for the configuration: the YAML theme file if
// any, the default colors when color is enabled, and no colors otherwise.
func (c *ProjectConfig) LoadTheme(color bool) (*Theme, error) {
	if !color {
		return PlainTheme().WithWidth(c.PrinterWidth()), nil
	}
	if c.Theme == "" {
		return DefaultTheme().WithWidth(c.PrinterWidth()), nil
	}
	path := expandEnvVars(c.Theme)
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	theme, err := LoadTheme(path)
	if err != nil {
		return nil, err
	}
	return theme.WithWidth(c.PrinterWidth()), nil
}

// expandEnvVars expands ${VAR} references in a string using os.Getenv.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		return os.Getenv(key)
	})
}

// projectConfigKey is a context key for passing the resolved project config.
type projectConfigKey struct{}

type projectConfigEntry struct {
	path   string
	config *ProjectConfig
}

// ContextWithProjectConfig adds a project config to the context so that the
// language server and the front-ends share one configuration.
func ContextWithProjectConfig(ctx context.Context, configPath string, config *ProjectConfig) context.Context {
	return context.WithValue(ctx, projectConfigKey{}, &projectConfigEntry{
		path:   configPath,
		config: config,
	})
}

// ProjectConfigFromContext returns the config stored by
// ContextWithProjectConfig, or the default config.
func ProjectConfigFromContext(ctx context.Context) (string, *ProjectConfig) {
	if v := ctx.Value(projectConfigKey{}); v != nil {
		e := v.(*projectConfigEntry)
		return e.path, e.config
	}
	return "", DefaultProjectConfig()
}
