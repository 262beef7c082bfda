package input

import (
	"github.com/gdamore/tcell/v2"
)

// Translator converts tcell events into editor events. It keeps the button
// state needed to turn tcell's level-based mouse reports into down, move,
// up and click edges.
type Translator struct {
	clicks  *ClickTracker
	pressed bool
	count   int
}

// NewTranslator creates a translator with the default click timing.
func NewTranslator() *Translator {
	return &Translator{clicks: NewClickTracker(DefaultClickTime, DefaultClickDistance)}
}

// Translate converts one tcell event. Events the editor does not consume,
// such as resizes, yield nil.
func (t *Translator) Translate(ev tcell.Event) []Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if k, ok := FromKey(e); ok {
			return []Event{k}
		}
	case *tcell.EventMouse:
		return t.mouse(e)
	}
	return nil
}

func (t *Translator) mouse(e *tcell.EventMouse) []Event {
	x, y := e.Position()
	base := Event{
		Position:  Position{X: float64(x), Y: float64(y)},
		Modifiers: modifiers(e.Modifiers()),
		Time:      e.When(),
	}
	buttons := e.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		base.Kind, base.DeltaY = Wheel, -1
		return []Event{base}
	case buttons&tcell.WheelDown != 0:
		base.Kind, base.DeltaY = Wheel, 1
		return []Event{base}
	}

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !t.pressed:
		t.pressed = true
		t.count = t.clicks.Record(base.Position, base.Time)
		base.Kind, base.Clicks = MouseDown, t.count
		return []Event{base}
	case down:
		base.Kind, base.Pressed = MouseMove, true
		return []Event{base}
	case t.pressed:
		t.pressed = false
		up := base
		up.Kind = MouseUp
		click := base
		click.Kind, click.Clicks = Click, t.count
		return []Event{up, click}
	default:
		base.Kind = MouseMove
		return []Event{base}
	}
}

// FromKey converts a tcell key event. It returns false for keys the editor
// has no name for.
func FromKey(e *tcell.EventKey) (Event, bool) {
	ev := Event{Kind: KeyPress, Modifiers: modifiers(e.Modifiers()), Time: e.When()}

	switch k := e.Key(); k {
	case tcell.KeyRune:
		ev.Key = string(e.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		ev.Key = KeyEnter
	case tcell.KeyTab:
		ev.Key = KeyTab
	case tcell.KeyBacktab:
		ev.Key = KeyTab
		ev.Modifiers.Shift = true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ev.Key = KeyBackspace
	case tcell.KeyEscape:
		ev.Key = KeyEscape
	case tcell.KeyDelete:
		ev.Key = KeyDelete
	case tcell.KeyInsert:
		ev.Key = KeyInsert
	case tcell.KeyHome:
		ev.Key = KeyHome
	case tcell.KeyEnd:
		ev.Key = KeyEnd
	case tcell.KeyPgUp:
		ev.Key = KeyPageUp
	case tcell.KeyPgDn:
		ev.Key = KeyPageDown
	case tcell.KeyUp:
		ev.Key = KeyArrowUp
	case tcell.KeyDown:
		ev.Key = KeyArrowDown
	case tcell.KeyLeft:
		ev.Key = KeyArrowLeft
	case tcell.KeyRight:
		ev.Key = KeyArrowRight
	case tcell.KeyCtrlSpace:
		ev.Key = " "
		ev.Modifiers.Ctrl = true
	default:
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			ev.Key = string(rune('a' + int(k-tcell.KeyCtrlA)))
			ev.Modifiers.Ctrl = true
			return ev, true
		}
		return Event{}, false
	}
	return ev, true
}

func modifiers(m tcell.ModMask) Modifiers {
	return Modifiers{
		Shift: m&tcell.ModShift != 0,
		Ctrl:  m&tcell.ModCtrl != 0,
		Alt:   m&tcell.ModAlt != 0,
		Meta:  m&tcell.ModMeta != 0,
	}
}
