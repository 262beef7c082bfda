package lang

import (
	"io/fs"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Store publishes the current Registry to concurrent readers. Reload builds
// a fresh registry and swaps it in atomically; readers holding the old one
// keep a consistent view.
type Store struct {
	current atomic.Pointer[Registry]
	logger  zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used to report reloads.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a store holding the builtin registry.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(NewBuiltinRegistry())
	return s
}

// Registry returns the current registry.
func (s *Store) Registry() *Registry {
	return s.current.Load()
}

// Reload rebuilds the registry from the builtin table plus the definitions
// found in fsys. On error the current registry is left untouched.
func (s *Store) Reload(fsys fs.FS) error {
	user, err := LoadDir(fsys)
	if err != nil {
		s.logger.Warn().Err(err).Msg("language definitions not reloaded")
		return err
	}
	reg := NewBuiltinRegistry().With(user...)
	s.current.Store(reg)
	s.logger.Info().
		Int("user", len(user)).
		Int("total", reg.Len()).
		Msg("language registry reloaded")
	return nil
}

// Swap replaces the registry directly.
func (s *Store) Swap(r *Registry) *Registry {
	return s.current.Swap(r)
}
