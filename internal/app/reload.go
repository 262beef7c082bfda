package app

import (
	"maps"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codecore/internal/config/watcher"
)

// startWatcher watches the configuration files and the language directory.
// Paths that do not exist are skipped; the watcher is optional and its
// failure only disables live reload.
func (app *Application) startWatcher() {
	w, err := watcher.New(watcher.WithLogger(app.logger))
	if err != nil {
		app.logger.Warn().Err(err).Msg("live reload disabled")
		return
	}
	app.watcher = w

	for _, f := range app.loader.Files() {
		app.watch(f)
	}
	if dir := app.cfg.Languages.Dir; dir != "" {
		app.watch(dir)
	}
	w.OnChange(app.changed)
}

func (app *Application) watch(path string) {
	if err := app.watcher.Add(path); err != nil {
		app.logger.Debug().Err(err).Str("path", path).Msg("not watched")
	}
}

// changed routes a file event to the matching reload.
func (app *Application) changed(ev watcher.Event) {
	app.mu.Lock()
	dir := app.cfg.Languages.Dir
	app.mu.Unlock()

	if dir != "" && inDir(ev.Path, dir) {
		app.ReloadLanguages()
	} else {
		app.ReloadConfig()
	}
	app.wake()
}

func inDir(path, dir string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return filepath.Dir(path) == abs
}

// ReloadLanguages rebuilds the language registry from the language
// directory and hands it to the editor. A broken definition leaves the
// current registry in place.
func (app *Application) ReloadLanguages() error {
	app.mu.Lock()
	dir := app.cfg.Languages.Dir
	app.mu.Unlock()
	if dir == "" {
		return nil
	}
	if err := app.store.Reload(app.languageFS(dir)); err != nil {
		return err
	}
	app.editor.SetRegistry(app.store.Registry())
	return nil
}

// ReloadConfig reloads the configuration and applies the theme. Document
// settings such as the tab width apply to the next start, and logging and
// the language directory keep their startup values.
func (app *Application) ReloadConfig() error {
	cfg, err := app.loader.Load()
	if err != nil {
		app.logger.Warn().Err(err).Msg("configuration not reloaded")
		return err
	}

	app.mu.Lock()
	old := app.cfg
	cfg.Logging = old.Logging
	cfg.Languages = old.Languages
	app.cfg = cfg
	r := app.renderer
	app.mu.Unlock()

	themeChanged := cfg.Editor.Theme != old.Editor.Theme
	if themeChanged {
		if err := app.themes.SetCurrent(cfg.Editor.Theme); err != nil {
			app.logger.Warn().Err(err).Msg("theme not changed")
		}
	}
	if r != nil && (themeChanged || !maps.Equal(cfg.Editor.Colors, old.Editor.Colors)) {
		r.SetTheme(app.theme(cfg.Editor.Colors))
	}
	if cfg.Editor.TabSpaces != old.Editor.TabSpaces {
		app.logger.Info().Int("tabSpaces", cfg.Editor.TabSpaces).Msg("tab width applies after restart")
	}
	app.logger.Info().Msg("configuration reloaded")
	return nil
}

// wake makes a running loop redraw.
func (app *Application) wake() {
	if !app.running.Load() {
		return
	}
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b != nil {
		if err := b.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
			app.logger.Debug().Err(err).Msg("redraw not queued")
		}
	}
}
