package highlight

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ErrUnknownTheme is returned when a theme name is not registered.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme maps token classes to terminal styles.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	Background    tcell.Color
	Foreground    tcell.Color
	Selection     tcell.Color
	LineHighlight tcell.Color
	Gutter        tcell.Color

	classes [classCount]tcell.Style
	set     [classCount]bool
}

// Base returns the style of unclassified text.
func (t *Theme) Base() tcell.Style {
	return tcell.StyleDefault.Foreground(t.Foreground).Background(t.Background)
}

// Style returns the style for a token class, falling back to Base.
func (t *Theme) Style(c Class) tcell.Style {
	if c < classCount && t.set[c] {
		return t.classes[c]
	}
	return t.Base()
}

// SetStyle overrides the style of one class.
func (t *Theme) SetStyle(c Class, s tcell.Style) {
	if c < classCount {
		t.classes[c] = s
		t.set[c] = true
	}
}

// Override recolors classes from a map of class name (or CSS class) to a
// color name or "#rrggbb" value, as found in configuration files.
func (t *Theme) Override(colors map[string]string) error {
	for name, value := range colors {
		c, ok := ParseClass(strings.ToLower(name))
		if !ok {
			return fmt.Errorf("theme %q: unknown token class %q", t.Name, name)
		}
		color := tcell.GetColor(value)
		if color == tcell.ColorDefault && value != "default" {
			return fmt.Errorf("theme %q: invalid color %q for %s", t.Name, value, name)
		}
		t.SetStyle(c, t.Style(c).Foreground(color))
	}
	return nil
}

// Clone returns an independent copy.
func (t *Theme) Clone() *Theme {
	c := *t
	return &c
}

func newTheme(name string, bg, fg tcell.Color, styles map[Class]tcell.Style) *Theme {
	t := &Theme{Name: name, Background: bg, Foreground: fg}
	for c, s := range styles {
		t.SetStyle(c, s.Background(bg))
	}
	return t
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() *Theme {
	fg := tcell.NewRGBColor(212, 212, 212)
	t := newTheme("Default Dark", tcell.NewRGBColor(30, 30, 30), fg, map[Class]tcell.Style{
		ClassComment:      fgStyle(106, 153, 85).Italic(true),
		ClassString:       fgStyle(206, 145, 120),
		ClassKeyword:      fgStyle(86, 156, 214),
		ClassBuiltin:      fgStyle(220, 220, 170),
		ClassStatement:    fgStyle(197, 134, 192),
		ClassSymbol:       fgStyle(212, 212, 212),
		ClassType:         fgStyle(78, 201, 176),
		ClassNumber:       fgStyle(181, 206, 168),
		ClassPreprocessor: fgStyle(155, 155, 155),
		ClassMethod:       fgStyle(220, 220, 170),
		ClassEnum:         fgStyle(79, 193, 255),
		ClassVariable:     fgStyle(156, 220, 254),
	})
	t.Selection = tcell.NewRGBColor(38, 79, 120)
	t.LineHighlight = tcell.NewRGBColor(40, 40, 40)
	t.Gutter = tcell.NewRGBColor(133, 133, 133)
	return t
}

// MonokaiTheme returns a Monokai-inspired theme.
func MonokaiTheme() *Theme {
	t := newTheme("Monokai", tcell.NewRGBColor(39, 40, 34), tcell.NewRGBColor(248, 248, 242), map[Class]tcell.Style{
		ClassComment:      fgStyle(117, 113, 94),
		ClassString:       fgStyle(230, 219, 116),
		ClassKeyword:      fgStyle(249, 38, 114),
		ClassBuiltin:      fgStyle(102, 217, 239),
		ClassStatement:    fgStyle(249, 38, 114),
		ClassSymbol:       fgStyle(248, 248, 242),
		ClassType:         fgStyle(102, 217, 239).Italic(true),
		ClassNumber:       fgStyle(174, 129, 255),
		ClassPreprocessor: fgStyle(249, 38, 114),
		ClassMethod:       fgStyle(166, 226, 46),
		ClassEnum:         fgStyle(174, 129, 255),
		ClassVariable:     fgStyle(253, 151, 31),
	})
	t.Selection = tcell.NewRGBColor(73, 72, 62)
	t.LineHighlight = tcell.NewRGBColor(62, 61, 50)
	t.Gutter = tcell.NewRGBColor(144, 144, 138)
	return t
}

// LightTheme returns the built-in light theme.
func LightTheme() *Theme {
	t := newTheme("Light", tcell.NewRGBColor(255, 255, 255), tcell.NewRGBColor(0, 0, 0), map[Class]tcell.Style{
		ClassComment:      fgStyle(0, 128, 0).Italic(true),
		ClassString:       fgStyle(163, 21, 21),
		ClassKeyword:      fgStyle(0, 0, 255),
		ClassBuiltin:      fgStyle(121, 94, 38),
		ClassStatement:    fgStyle(175, 0, 219),
		ClassSymbol:       fgStyle(0, 0, 0),
		ClassType:         fgStyle(38, 127, 153),
		ClassNumber:       fgStyle(9, 134, 88),
		ClassPreprocessor: fgStyle(128, 128, 128),
		ClassMethod:       fgStyle(121, 94, 38),
		ClassEnum:         fgStyle(0, 112, 193),
		ClassVariable:     fgStyle(0, 16, 128),
	})
	t.Selection = tcell.NewRGBColor(173, 214, 255)
	t.LineHighlight = tcell.NewRGBColor(245, 245, 245)
	t.Gutter = tcell.NewRGBColor(35, 120, 147)
	return t
}

func fgStyle(r, g, b int32) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(r, g, b))
}

// ThemeRegistry holds available themes.
type ThemeRegistry struct {
	themes  map[string]*Theme
	current *Theme
}

// NewThemeRegistry creates a registry holding the built-in themes with the
// default dark theme selected.
func NewThemeRegistry() *ThemeRegistry {
	r := &ThemeRegistry{themes: make(map[string]*Theme)}
	r.Register(DefaultTheme())
	r.Register(MonokaiTheme())
	r.Register(LightTheme())
	r.current = r.themes[themeKey("Default Dark")]
	return r
}

func themeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds or replaces a theme.
func (r *ThemeRegistry) Register(t *Theme) {
	r.themes[themeKey(t.Name)] = t
}

// Get returns a theme by case-insensitive name.
func (r *ThemeRegistry) Get(name string) (*Theme, bool) {
	t, ok := r.themes[themeKey(name)]
	return t, ok
}

// Current returns the selected theme.
func (r *ThemeRegistry) Current() *Theme {
	return r.current
}

// SetCurrent selects a theme by name.
func (r *ThemeRegistry) SetCurrent(name string) error {
	t, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	r.current = t
	return nil
}

// Names returns the registered theme names, sorted.
func (r *ThemeRegistry) Names() []string {
	names := make([]string, 0, len(r.themes))
	for _, t := range r.themes {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
