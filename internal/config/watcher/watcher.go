// Package watcher reports changes to configuration files and directories.
//
// Files are watched through their parent directory so that editors which
// save by writing a temporary file and renaming it over the original are
// still seen. Bursts of events for one path are coalesced into a single
// notification delivered after a quiet period.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDelay is the quiet period before a change is reported.
const DefaultDelay = 100 * time.Millisecond

var (
	// ErrClosed is returned by operations on a closed watcher.
	ErrClosed = errors.New("watcher closed")

	// ErrPathNotExist is returned when adding a path that does not exist.
	ErrPathNotExist = errors.New("path does not exist")
)

// Op is a set of file operations.
type Op uint8

const (
	OpWrite Op = 1 << iota
	OpCreate
	OpRemove
	OpRename
)

// Has reports whether o includes every operation in other.
func (o Op) Has(other Op) bool {
	return o&other == other
}

func (o Op) String() string {
	var parts []string
	for _, n := range []struct {
		op   Op
		name string
	}{{OpWrite, "write"}, {OpCreate, "create"}, {OpRemove, "remove"}, {OpRename, "rename"}} {
		if o.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Event is a coalesced change to one path.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives change events. Handlers run on the watcher's timer
// goroutines and must not block for long.
type Handler func(Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDelay sets the quiet period before an event is delivered.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithFilter drops events whose path the filter rejects.
func WithFilter(f func(path string) bool) Option {
	return func(w *Watcher) { w.filter = f }
}

// Watcher watches files and directories for changes.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	logger   zerolog.Logger
	delay    time.Duration
	filter   func(string) bool
	files    map[string]bool // watched files
	dirs     map[string]bool // directories watched for all their entries
	refs     map[string]int  // fsnotify registrations per directory
	pending  map[string]*pending
	handlers []Handler
	closed   bool
	closeCh  chan struct{}
	wg       sync.WaitGroup
}

type pending struct {
	event Event
	timer *time.Timer
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		logger:  zerolog.Nop(),
		delay:   DefaultDelay,
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		refs:    make(map[string]int),
		pending: make(map[string]*pending),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Add watches a file or a directory. Watching a directory reports changes
// to any file directly inside it.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	dir := abs
	if info.IsDir() {
		if w.dirs[abs] {
			return nil
		}
	} else {
		if w.files[abs] {
			return nil
		}
		dir = filepath.Dir(abs)
	}

	if w.refs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.refs[dir]++
	if info.IsDir() {
		w.dirs[abs] = true
	} else {
		w.files[abs] = true
	}
	w.logger.Debug().Str("path", abs).Msg("watching")
	return nil
}

// Remove stops watching a path previously added.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	var dir string
	switch {
	case w.dirs[abs]:
		delete(w.dirs, abs)
		dir = abs
	case w.files[abs]:
		delete(w.files, abs)
		dir = filepath.Dir(abs)
	default:
		return nil
	}
	if w.refs[dir]--; w.refs[dir] <= 0 {
		delete(w.refs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// Watched returns the watched paths.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files)+len(w.dirs))
	for p := range w.dirs {
		out = append(out, p)
	}
	for p := range w.files {
		out = append(out, p)
	}
	return out
}

// OnChange registers a handler for change events.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for p, ev := range w.pending {
		ev.timer.Stop()
		delete(w.pending, p)
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

func convertOp(op fsnotify.Op) Op {
	var o Op
	if op.Has(fsnotify.Write) {
		o |= OpWrite
	}
	if op.Has(fsnotify.Create) {
		o |= OpCreate
	}
	if op.Has(fsnotify.Remove) {
		o |= OpRemove
	}
	if op.Has(fsnotify.Rename) {
		o |= OpRename
	}
	return o
}

// handle schedules a notification for ev, restarting the quiet period when
// one is already pending for the path.
func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.interested(path) {
		return
	}

	if p, ok := w.pending[path]; ok {
		p.event.Op |= op
		p.event.Time = time.Now()
		p.timer.Reset(w.delay)
		return
	}
	p := &pending{event: Event{Path: path, Op: op, Time: time.Now()}}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(path) })
	w.pending[path] = p
}

func (w *Watcher) interested(path string) bool {
	if w.filter != nil && !w.filter(path) {
		return false
	}
	return w.files[path] || w.dirs[filepath.Dir(path)]
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.Unlock()

	w.logger.Debug().Str("path", path).Stringer("op", p.event.Op).Msg("changed")
	for _, h := range handlers {
		h(p.event)
	}
}
