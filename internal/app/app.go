package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dshills/codecore/internal/config"
	"github.com/dshills/codecore/internal/config/watcher"
	"github.com/dshills/codecore/internal/engine"
	"github.com/dshills/codecore/internal/engine/history"
	"github.com/dshills/codecore/internal/input"
	"github.com/dshills/codecore/internal/lang"
	"github.com/dshills/codecore/internal/renderer"
	"github.com/dshills/codecore/internal/renderer/backend"
	"github.com/dshills/codecore/internal/renderer/gutter"
	"github.com/dshills/codecore/internal/renderer/highlight"
	"github.com/dshills/codecore/internal/renderer/statusline"
	"github.com/dshills/codecore/internal/renderer/viewport"
)

// Options configures the application.
type Options struct {
	// ConfigPath replaces the user configuration file.
	ConfigPath string
	// ProjectConfig replaces the project configuration file. Empty uses
	// the default name in the working directory.
	ProjectConfig string
	// File is opened on startup. It need not exist yet.
	File string
	// LogLevel overrides the configured level.
	LogLevel string
	// Watch overrides languages.watch when set.
	Watch *bool

	// Loader replaces the configuration loader built from the fields above.
	Loader *config.Loader
	// Clipboard replaces the in-process clipboard.
	Clipboard engine.Clipboard
}

// Application owns one editor and the terminal it is drawn on.
type Application struct {
	mu      sync.Mutex
	opts    Options
	loader  *config.Loader
	cfg     config.Config
	logger  zerolog.Logger
	logFile io.Closer

	store   *lang.Store
	themes  *highlight.ThemeRegistry
	editor  *engine.Editor
	path    string
	saved   uint64 // revision last read or written
	watcher *watcher.Watcher

	message     string
	messageType statusline.MessageType

	backend    backend.Backend
	renderer   *renderer.Renderer
	translator *input.Translator
	gutter     int
	tabWidth   int

	running atomic.Bool
	done    chan struct{}
	once    sync.Once
}

// New loads the configuration and builds the editor. Configuration and
// language errors are logged and the defaults used instead.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:       opts,
		themes:     highlight.NewThemeRegistry(),
		translator: input.NewTranslator(),
		done:       make(chan struct{}),
	}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	// 1. Configuration
	app.loader = app.opts.Loader
	if app.loader == nil {
		var lopts []config.Option
		if app.opts.ConfigPath != "" {
			lopts = append(lopts, config.WithUserFile(app.opts.ConfigPath))
		}
		if app.opts.ProjectConfig != "" {
			lopts = append(lopts, config.WithProjectFile(app.opts.ProjectConfig))
		}
		app.loader = config.NewLoader(lopts...)
	}
	cfg, cfgErr := app.loader.Load()
	if cfgErr != nil {
		cfg = config.Default()
	}
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	if app.opts.Watch != nil {
		cfg.Languages.Watch = *app.opts.Watch
	}
	app.cfg = cfg
	app.tabWidth = cfg.Editor.TabSpaces

	// 2. Logging
	logger, closer, err := NewLogger(cfg.Logging)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	app.logger, app.logFile = logger, closer
	if cfgErr != nil {
		app.logger.Warn().Err(cfgErr).Msg("configuration not loaded, using defaults")
	}

	// 3. Languages and theme
	app.store = lang.NewStore(lang.WithLogger(app.logger))
	if dir := cfg.Languages.Dir; dir != "" {
		_ = app.store.Reload(app.languageFS(dir))
	}
	if err := app.themes.SetCurrent(cfg.Editor.Theme); err != nil {
		app.logger.Warn().Err(err).Msg("keeping default theme")
	}

	// 4. Editor
	clip := app.opts.Clipboard
	if clip == nil {
		clip = engine.NewMemoryClipboard()
	}
	app.editor = engine.New(
		engine.WithLogger(app.logger),
		engine.WithRegistry(app.store.Registry()),
		engine.WithLanguage(cfg.Editor.Language),
		engine.WithTabSpaces(cfg.Editor.TabSpaces),
		engine.WithCacheSize(cfg.Editor.CacheSize),
		engine.WithScriptTimeout(cfg.Languages.ScriptTimeout()),
		engine.WithMargins(viewport.MarginConfig{Up: cfg.Viewport.MarginLines, Down: cfg.Viewport.MarginLines}),
		engine.WithMetrics(viewport.CellMetrics(80, 24, 0)),
		engine.WithHistory(
			history.WithMaxSteps(cfg.History.MaxSteps),
			history.WithWindow(cfg.History.Window()),
		),
		engine.WithClipboard(clip),
		engine.WithFontSizing(false),
		engine.WithSaveHandler(app.save),
	)

	// 5. Initial document
	if app.opts.File != "" {
		if err := app.open(app.opts.File); err != nil {
			return &InitError{Component: "document", Err: err}
		}
	}

	// 6. Watching
	if cfg.Languages.Watch {
		app.startWatcher()
	}

	app.logger.Info().
		Str("editor", app.editor.ID().String()).
		Str("file", app.path).
		Str("language", app.editor.Language().Name).
		Msg("started")
	return nil
}

// languageFS is the file system language definitions are read from.
func (app *Application) languageFS(dir string) fs.FS {
	return os.DirFS(dir)
}

// open loads path into the editor. A missing file starts an empty document
// that will be created on save.
func (app *Application) open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("open %s: %w", path, err)
	}
	app.editor.Open(path, string(data))
	app.mu.Lock()
	app.path = path
	app.saved = app.editor.Revision()
	app.mu.Unlock()
	return nil
}

// save writes the document to its file.
func (app *Application) save(text string) error {
	app.mu.Lock()
	path := app.path
	app.mu.Unlock()
	if path == "" {
		return errors.New("document has no file name")
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return err
	}
	rev := app.editor.Revision()
	app.mu.Lock()
	app.saved = rev
	app.mu.Unlock()
	app.setMessage(fmt.Sprintf("saved %s (%d bytes)", filepath.Base(path), len(text)), statusline.MessageInfo)
	app.logger.Info().Str("file", path).Int("bytes", len(text)).Msg("saved")
	return nil
}

// setMessage shows a message in the status bar until the next key.
func (app *Application) setMessage(msg string, typ statusline.MessageType) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.message, app.messageType = msg, typ
}

// Status returns what the status bar shows.
func (app *Application) Status() statusline.Info {
	ed := app.editor
	main := ed.MainCursor()
	info := statusline.Info{
		Language: ed.Language().Name,
		Line:     main.Line,
		Column:   main.Column,
		Lines:    ed.LineCount(),
		Cursors:  len(ed.Cursors()),
	}
	rev := ed.Revision()

	app.mu.Lock()
	defer app.mu.Unlock()
	info.File = filepath.Base(app.path)
	if app.path == "" {
		info.File = ""
	}
	info.Modified = rev != app.saved
	info.Message, info.MessageType = app.message, app.messageType
	return info
}

// SetBackend sets the terminal backend. It must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.mu.Lock()
	defer app.mu.Unlock()
	app.backend = b
	return nil
}

// Editor returns the hosted editor.
func (app *Application) Editor() *engine.Editor {
	return app.editor
}

// Config returns the configuration in effect.
func (app *Application) Config() config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Path returns the file being edited.
func (app *Application) Path() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.path
}

// Logger returns the host logger.
func (app *Application) Logger() zerolog.Logger {
	return app.logger
}

// Close stops the loop and releases the watcher, the editor and the log.
func (app *Application) Close() {
	app.once.Do(func() {
		close(app.done)
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.logger.Warn().Err(err).Msg("closing watcher")
			}
		}
		if app.editor != nil {
			app.editor.Close()
		}
		if app.logFile != nil {
			app.logFile.Close()
		}
	})
}

// theme returns the current theme with colors recolored on a copy. Invalid
// overrides are logged and the plain theme is used.
func (app *Application) theme(colors map[string]string) *highlight.Theme {
	t := app.themes.Current()
	if len(colors) == 0 {
		return t
	}
	t = t.Clone()
	if err := t.Override(colors); err != nil {
		app.logger.Warn().Err(err).Msg("ignoring color overrides")
		return app.themes.Current()
	}
	return t
}

func rendererOptions(cfg config.Config) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.Gutter = gutter.DefaultConfig()
	opts.Gutter.ShowLineNumbers = cfg.Editor.Gutter
	opts.StatusLine = cfg.Editor.StatusLine
	return opts
}
