package lang

import (
	"fmt"
	"strings"
)

// Definition is the serialized form of a Language, as found in the embedded
// builtin table and in user definition files. Pointer fields distinguish
// "unset" from false so that defaults can apply.
type Definition struct {
	Name       string   `yaml:"name" toml:"name"`
	Extensions []string `yaml:"extensions" toml:"extensions"`

	SingleLineComments     *bool    `yaml:"single_line_comments" toml:"single_line_comments"`
	SingleLineCommentToken string   `yaml:"single_line_comment_token" toml:"single_line_comment_token"`
	BlockComments          *bool    `yaml:"block_comments" toml:"block_comments"`
	BlockCommentTokens     []string `yaml:"block_comment_tokens" toml:"block_comment_tokens"`

	Numbers         *bool `yaml:"numbers" toml:"numbers"`
	Tags            bool  `yaml:"tags" toml:"tags"`
	IgnoreCase      bool  `yaml:"ignore_case" toml:"ignore_case"`
	UsePreprocessor bool  `yaml:"use_preprocessor" toml:"use_preprocessor"`

	Strings        map[string]string `yaml:"strings" toml:"strings"`
	IncludeStrings bool              `yaml:"include_strings" toml:"include_strings"`
	LinkStrings    bool              `yaml:"link_strings" toml:"link_strings"`

	Keywords   []string `yaml:"keywords" toml:"keywords"`
	Types      []string `yaml:"types" toml:"types"`
	BuiltIns   []string `yaml:"builtins" toml:"builtins"`
	Statements []string `yaml:"statements" toml:"statements"`
	Symbols    []string `yaml:"symbols" toml:"symbols"`
	Utils      []string `yaml:"utils" toml:"utils"`
	Indicators []string `yaml:"indicators" toml:"indicators"`

	RuleSet string `yaml:"rule_set" toml:"rule_set"`
	// RulesFile is a Lua script path, relative to the definition file.
	RulesFile string `yaml:"rules_file" toml:"rules_file"`
	// Rules is inline Lua source. It takes precedence over RulesFile.
	Rules string `yaml:"rules" toml:"rules"`
}

// Build validates the definition and produces a Language.
func (d Definition) Build() (*Language, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidDefinition)
	}

	l := &Language{
		Name:                   name,
		Key:                    KeyFor(name),
		SingleLineComments:     boolOr(d.SingleLineComments, true),
		SingleLineCommentToken: d.SingleLineCommentToken,
		BlockComments:          boolOr(d.BlockComments, true),
		BlockCommentOpen:       DefaultBlockCommentOpen,
		BlockCommentClose:      DefaultBlockCommentClose,
		Numbers:                boolOr(d.Numbers, true),
		Tags:                   d.Tags,
		IgnoreCase:             d.IgnoreCase,
		UsePreprocessor:        d.UsePreprocessor,
		IncludeStrings:         d.IncludeStrings,
		LinkStrings:            d.LinkStrings,
		Keywords:               NewWordSet(d.Keywords, d.IgnoreCase),
		Types:                  NewWordSet(d.Types, d.IgnoreCase),
		BuiltIns:               NewWordSet(d.BuiltIns, d.IgnoreCase),
		Statements:             NewWordSet(d.Statements, d.IgnoreCase),
		Symbols:                NewWordSet(d.Symbols, d.IgnoreCase),
		Utils:                  NewWordSet(d.Utils, d.IgnoreCase),
		Indicators:             append([]string(nil), d.Indicators...),
		RuleSet:                d.RuleSet,
		RuleScript:             d.Rules,
	}

	if l.SingleLineCommentToken == "" {
		l.SingleLineCommentToken = DefaultLineComment
	}

	switch len(d.BlockCommentTokens) {
	case 0:
	case 2:
		if d.BlockCommentTokens[0] == "" || d.BlockCommentTokens[1] == "" {
			return nil, fmt.Errorf("%w: %s: empty block comment token", ErrInvalidDefinition, name)
		}
		l.BlockCommentOpen, l.BlockCommentClose = d.BlockCommentTokens[0], d.BlockCommentTokens[1]
	default:
		return nil, fmt.Errorf("%w: %s: block_comment_tokens needs an opener and a closer", ErrInvalidDefinition, name)
	}

	l.Strings = map[string]string{`"`: `"`, `'`: `'`}
	if len(d.Strings) > 0 {
		l.Strings = make(map[string]string, len(d.Strings))
		for open, closer := range d.Strings {
			if open == "" || closer == "" {
				return nil, fmt.Errorf("%w: %s: empty string delimiter", ErrInvalidDefinition, name)
			}
			l.Strings[open] = closer
		}
	}

	for _, ext := range d.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			l.Extensions = append(l.Extensions, ext)
		}
	}

	if l.RuleSet == "" {
		l.RuleSet = l.Key
	}
	return l, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
