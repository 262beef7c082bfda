// Package loader reads configuration sources into generic maps.
//
// Each source produces a map[string]any keyed by section; sources are
// layered with DeepMerge so later sources override earlier ones. The typed
// configuration is decoded from the merged map by the config package.
package loader

import (
	"io/fs"
	"os"
)

// Source is a configuration source.
type Source interface {
	// Load returns the source's settings, or nil, nil when the source does
	// not exist.
	Load() (map[string]any, error)
}

// FileSystem is the file access used by file sources. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads from the operating system.
type OSFS struct{}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat implements FileSystem.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (map[string]any, error)

// Load implements Source.
func (f SourceFunc) Load() (map[string]any, error) {
	return f()
}

// LoadAll loads every source in order and merges the results, later
// sources taking precedence.
func LoadAll(sources ...Source) (map[string]any, error) {
	merged := make(map[string]any)
	for _, s := range sources {
		m, err := s.Load()
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, m)
	}
	return merged, nil
}
