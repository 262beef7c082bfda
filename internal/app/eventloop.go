package app

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codecore/internal/engine"
	"github.com/dshills/codecore/internal/input"
	"github.com/dshills/codecore/internal/renderer"
	"github.com/dshills/codecore/internal/renderer/statusline"
	"github.com/dshills/codecore/internal/renderer/viewport"
)

// Run initializes the backend and processes terminal events until Ctrl+Q,
// Close, or cancellation of ctx.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}
	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.mu.Lock()
	app.renderer = renderer.New(b, app.theme(app.cfg.Editor.Colors), rendererOptions(app.cfg))
	app.mu.Unlock()

	app.resize()
	app.draw()

	events := app.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.done:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handle(ctx, ev); err != nil {
				if errors.Is(err, ErrQuit) {
					app.logger.Info().Msg("quit")
					return nil
				}
				return err
			}
			app.draw()
		}
	}
}

// poll reads backend events on a goroutine. PollEvent blocks, so the
// goroutine ends when the backend is shut down and returns nil.
func (app *Application) poll(ctx context.Context) <-chan tcell.Event {
	out := make(chan tcell.Event, 64)
	go func() {
		defer close(out)
		for {
			ev := app.backend.PollEvent()
			if ev == nil {
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			case <-app.done:
				return
			}
		}
	}()
	return out
}

// handle applies one terminal event.
func (app *Application) handle(ctx context.Context, ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventResize:
		app.resize()
		return nil
	case *tcell.EventInterrupt:
		return nil
	case *tcell.EventKey:
		if isQuit(e) {
			return ErrQuit
		}
	}

	for _, iev := range app.translator.Translate(ev) {
		if iev.Kind == input.KeyPress {
			app.setMessage("", statusline.MessageNone)
		}
		if isMouse(iev) {
			iev = app.mapMouse(iev)
		}
		if err := app.editor.HandleEvent(ctx, iev); err != nil {
			app.report(iev, err)
		}
	}
	return nil
}

// report logs an event the editor could not complete and rings the bell.
func (app *Application) report(ev input.Event, err error) {
	if errors.Is(err, engine.ErrNoClipboard) {
		app.logger.Debug().Stringer("event", ev).Msg("no clipboard")
		return
	}
	app.logger.Error().Err(err).Stringer("event", ev).Msg("event failed")
	app.setMessage(err.Error(), statusline.MessageError)
	app.backend.Beep()
}

// isQuit matches Ctrl+Q in either of the forms terminals report it.
func isQuit(e *tcell.EventKey) bool {
	if e.Key() == tcell.KeyCtrlQ {
		return true
	}
	return e.Key() == tcell.KeyRune && e.Modifiers()&tcell.ModCtrl != 0 &&
		(e.Rune() == 'q' || e.Rune() == 'Q')
}

func isMouse(ev input.Event) bool {
	switch ev.Kind {
	case input.MouseDown, input.MouseMove, input.MouseUp, input.Click:
		return true
	}
	return false
}

// resize fits the editor's viewport to the terminal and the gutter.
func (app *Application) resize() {
	w, _ := app.backend.Size()
	h := app.renderer.TextRows()
	gw := app.renderer.GutterWidth(app.editor.LineCount())
	app.mu.Lock()
	app.gutter = gw
	app.mu.Unlock()
	app.editor.SetMetrics(viewport.CellMetrics(w, h, gw))
}

// draw renders the current frame, first refitting the viewport when the
// gutter grew or shrank with the document.
func (app *Application) draw() {
	gw := app.renderer.GutterWidth(app.editor.LineCount())
	app.mu.Lock()
	changed := gw != app.gutter
	app.mu.Unlock()
	if changed {
		app.resize()
	}
	app.renderer.SetStatus(app.Status())
	app.renderer.Draw(app.editor.Render())
}

// mapMouse converts a pointer cell to the coordinates the viewport expects.
// Terminal cells are not document columns once tabs and wide runes are
// involved, so the column is resolved against the line's text here.
func (app *Application) mapMouse(ev input.Event) input.Event {
	app.mu.Lock()
	gw, tabWidth := app.gutter, app.tabWidth
	app.mu.Unlock()

	vp := app.editor.Viewport()
	left := int(vp.ScrollLeft())
	line := int(vp.ScrollTop()) + int(ev.Position.Y)
	cell := int(ev.Position.X) - gw + left
	if cell < 0 {
		cell = 0
	}
	col := renderer.ColumnAt(app.editor.Line(line), cell, tabWidth)
	ev.Position.X = float64(col + gw - left)
	return ev
}
