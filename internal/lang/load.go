package lang

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseError describes a definition file that could not be decoded.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// tomlFile is the layout of a TOML definition file: one [[language]] table
// per language.
type tomlFile struct {
	Language []Definition `toml:"language"`
}

// ParseTOML decodes definitions from TOML.
func ParseTOML(source string, data []byte) ([]Definition, error) {
	var f tomlFile
	if err := toml.Unmarshal(data, &f); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			pe.Line, _ = decErr.Position()
		}
		return nil, pe
	}
	return f.Language, nil
}

// ParseYAML decodes definitions from YAML. The document may be a list of
// definitions or a single one.
func ParseYAML(source string, data []byte) ([]Definition, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	var defs []Definition
	var err error
	if root.Kind == yaml.SequenceNode {
		err = root.Decode(&defs)
	} else {
		var d Definition
		err = root.Decode(&d)
		defs = []Definition{d}
	}
	if err != nil {
		return nil, &ParseError{Path: source, Line: root.Line, Message: err.Error(), Err: err}
	}
	return defs, nil
}

// LoadDir reads every .toml, .yaml and .yml file under fsys and builds the
// languages they define. A definition's rules_file is resolved relative to
// the file that names it.
func LoadDir(fsys fs.FS) ([]*Language, error) {
	var out []*Language
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		var parse func(string, []byte) ([]Definition, error)
		switch strings.ToLower(path.Ext(p)) {
		case ".toml":
			parse = ParseTOML
		case ".yaml", ".yml":
			parse = ParseYAML
		default:
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		defs, err := parse(p, data)
		if err != nil {
			return err
		}
		langs, err := buildAll(fsys, path.Dir(p), defs)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, langs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func buildAll(fsys fs.FS, dir string, defs []Definition) ([]*Language, error) {
	out := make([]*Language, 0, len(defs))
	for _, d := range defs {
		if d.Rules == "" && d.RulesFile != "" && fsys != nil {
			src, err := fs.ReadFile(fsys, path.Join(dir, d.RulesFile))
			if err != nil {
				return nil, fmt.Errorf("reading rules for %s: %w", d.Name, err)
			}
			d.Rules = string(bytes.TrimSpace(src))
		}
		l, err := d.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
