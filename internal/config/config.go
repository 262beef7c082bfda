package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/codecore/internal/config/loader"
)

// Config is the complete host configuration.
type Config struct {
	Editor    EditorConfig    `toml:"editor"`
	Viewport  ViewportConfig  `toml:"viewport"`
	History   HistoryConfig   `toml:"history"`
	Languages LanguagesConfig `toml:"languages"`
	Logging   LoggingConfig   `toml:"logging"`
}

// EditorConfig holds document settings.
type EditorConfig struct {
	TabSpaces int `toml:"tabSpaces"`
	// Language is used when a file's language cannot be detected.
	Language string `toml:"language"`
	Theme    string `toml:"theme"`
	// CacheSize bounds the tokenized lines kept per editor.
	CacheSize int `toml:"cacheSize"`
	// Gutter shows line numbers.
	Gutter     bool `toml:"gutter"`
	StatusLine bool `toml:"statusLine"`
	// Colors recolors token classes of the theme, keyed by class name
	// ("keyword", "cm-str") with a color name or "#rrggbb" value.
	Colors map[string]string `toml:"colors"`
}

// ViewportConfig holds scrolling settings.
type ViewportConfig struct {
	FontSize    int `toml:"fontSize"`
	MarginLines int `toml:"marginLines"`
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	MaxSteps int `toml:"maxSteps"`
	// WindowMs is the burst length in milliseconds within which edits share
	// one undo step.
	WindowMs int `toml:"windowMs"`
}

// Window returns the burst length as a duration.
func (h HistoryConfig) Window() time.Duration {
	return time.Duration(h.WindowMs) * time.Millisecond
}

// LanguagesConfig locates user language definitions.
type LanguagesConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
	// ScriptTimeoutMs bounds each call into a language's rule script.
	ScriptTimeoutMs int `toml:"scriptTimeoutMs"`
}

// ScriptTimeout returns the rule script bound as a duration.
func (l LanguagesConfig) ScriptTimeout() time.Duration {
	return time.Duration(l.ScriptTimeoutMs) * time.Millisecond
}

// LoggingConfig controls the host log.
type LoggingConfig struct {
	Level string `toml:"level"`
	// Format is "console" or "json".
	Format string `toml:"format"`
	// File is the log destination. Empty discards the log, since the
	// terminal is owned by the editor.
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabSpaces:  4,
			Language:   "Plain Text",
			Theme:      "Default Dark",
			CacheSize:  1000,
			Gutter:     true,
			StatusLine: true,
		},
		Viewport: ViewportConfig{
			FontSize:    14,
			MarginLines: 20,
		},
		History: HistoryConfig{
			MaxSteps: 16,
			WindowMs: 2000,
		},
		Languages: LanguagesConfig{
			Watch:           true,
			ScriptTimeoutMs: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	logFormats = []string{"console", "json"}
)

// Validate checks every setting and reports all failures together.
func (c Config) Validate() error {
	var errs []FieldError
	check := func(ok bool, path string, value any, msg string) {
		if !ok {
			errs = append(errs, FieldError{Path: path, Value: value, Message: msg})
		}
	}
	check(c.Editor.TabSpaces >= 1 && c.Editor.TabSpaces <= 16, "editor.tabSpaces", c.Editor.TabSpaces, "must be between 1 and 16")
	check(c.Editor.CacheSize > 0, "editor.cacheSize", c.Editor.CacheSize, "must be positive")
	check(c.Viewport.FontSize >= 9 && c.Viewport.FontSize <= 22, "viewport.fontSize", c.Viewport.FontSize, "must be between 9 and 22")
	check(c.Viewport.MarginLines >= 0, "viewport.marginLines", c.Viewport.MarginLines, "must not be negative")
	check(c.History.MaxSteps > 0, "history.maxSteps", c.History.MaxSteps, "must be positive")
	check(c.Languages.ScriptTimeoutMs > 0, "languages.scriptTimeoutMs", c.Languages.ScriptTimeoutMs, "must be positive")
	check(c.History.WindowMs >= 0, "history.windowMs", c.History.WindowMs, "must not be negative")
	check(slices.Contains(logLevels, c.Logging.Level), "logging.level", c.Logging.Level, "unknown level")
	check(slices.Contains(logFormats, c.Logging.Format), "logging.format", c.Logging.Format, "must be console or json")
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// toMap converts c to the generic form used by the loader.
func (c Config) toMap() (map[string]any, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// decode converts a merged settings map to a Config. Keys the map lacks
// keep their values from base.
func decode(m map[string]any, base Config) (Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return Config{}, err
	}
	cfg := base
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Option configures a Loader.
type Option func(*Loader)

// WithUserFile sets the user configuration file. An empty path skips the
// user layer.
func WithUserFile(path string) Option {
	return func(l *Loader) { l.userFile = path }
}

// WithProjectFile sets the project configuration file. An empty path skips
// the project layer.
func WithProjectFile(path string) Option {
	return func(l *Loader) { l.projectFile = path }
}

// WithFileSystem sets the file system configuration files are read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(l *Loader) { l.fs = fsys }
}

// WithEnvPrefix sets the prefix of environment overrides. An empty prefix
// skips the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithEnv replaces the environment source, mainly for tests.
func WithEnv(env *loader.EnvLoader) Option {
	return func(l *Loader) { l.env = env }
}

// Loader reads the configuration layers.
type Loader struct {
	fs          loader.FileSystem
	userFile    string
	projectFile string
	envPrefix   string
	env         *loader.EnvLoader
}

// ProjectFileName is the project configuration file looked up in the
// working directory.
const ProjectFileName = ".codecore.toml"

// DefaultUserFile returns the user configuration path, or "" when the user
// configuration directory is unknown.
func DefaultUserFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "codecore", "config.toml")
}

// NewLoader creates a loader for the default layers.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		fs:          loader.OSFS{},
		userFile:    DefaultUserFile(),
		projectFile: ProjectFileName,
		envPrefix:   loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.env == nil && l.envPrefix != "" {
		l.env = loader.NewEnvLoader(l.envPrefix)
	}
	return l
}

// Files returns the configuration files the loader reads, whether or not
// they exist.
func (l *Loader) Files() []string {
	var files []string
	for _, f := range []string{l.userFile, l.projectFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// Load reads and merges every layer, then validates the result.
func (l *Loader) Load() (Config, error) {
	base := Default()
	defaults, err := base.toMap()
	if err != nil {
		return Config{}, fmt.Errorf("encode defaults: %w", err)
	}

	sources := []loader.Source{loader.SourceFunc(func() (map[string]any, error) { return defaults, nil })}
	for _, f := range l.Files() {
		sources = append(sources, loader.NewTOMLLoaderWithFS(l.fs, f))
	}
	if l.env != nil {
		sources = append(sources, l.env)
	}

	merged, err := loader.LoadAll(sources...)
	if err != nil {
		return Config{}, err
	}
	cfg, err := decode(merged, base)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Languages.Dir = expandPath(cfg.Languages.Dir)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration with the default layers.
func Load(opts ...Option) (Config, error) {
	return NewLoader(opts...).Load()
}

// expandPath expands environment variables and a leading ~.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || len(p) > 1 && p[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
