// Package actions defines the OS actions the input mapper produces and the
// sink boundary that performs them. The mapper only ever constructs values
// from this package; injection itself lives behind Sink.
package actions

import (
	"fmt"
	"strings"
)

// Key is a named keyboard key. Single letters and digits are themselves
// ("a".."z", "0".."9"); everything else uses the constants below.
type Key string

const (
	KeyEnter  Key = "enter"
	KeyEscape Key = "escape"
	KeyTab    Key = "tab"
	KeySpace  Key = "space"
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
	KeyPageUp Key = "pageup"
	KeyPageDn Key = "pagedown"

	KeyShift Key = "shift"
	KeyCtrl  Key = "ctrl"
	KeyAlt   Key = "alt"
)

// IsModifier reports whether the key is held around the rest of a chord.
func (k Key) IsModifier() bool {
	return k == KeyShift || k == KeyCtrl || k == KeyAlt
}

// Chord is one key press with modifiers: all but the last element are held,
// the last is pressed and released.
type Chord []Key

// MouseButton selects which button a click action uses.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
)

// Action is one OS-level request produced by the mapper.
type Action interface{ isAction() }

// KeySequence synthesizes one or more chords in order. Multi-chord
// sequences carry prefixed bindings such as tmux's prefix+key.
type KeySequence struct{ Chords []Chord }

// MouseMove moves the cursor by a relative pixel delta.
type MouseMove struct{ DX, DY int }

// MouseClick presses and releases a mouse button.
type MouseClick struct{ Button MouseButton }

// Scroll turns the wheel; positive ticks scroll up.
type Scroll struct{ Ticks int }

// ToggleMic flips the system microphone mute state.
type ToggleMic struct{}

func (KeySequence) isAction() {}
func (MouseMove) isAction()   {}
func (MouseClick) isAction()  {}
func (Scroll) isAction()      {}
func (ToggleMic) isAction()   {}

// Sink performs actions against the operating system. Implementations must
// tolerate being called from the input loop at report rate.
type Sink interface {
	SendKeys(seq KeySequence) error
	MoveMouse(dx, dy int) error
	Click(button MouseButton) error
	Scroll(ticks int) error
	ToggleMic() error
}

// Dispatch routes one action to the sink.
func Dispatch(s Sink, a Action) error {
	switch v := a.(type) {
	case KeySequence:
		return s.SendKeys(v)
	case MouseMove:
		return s.MoveMouse(v.DX, v.DY)
	case MouseClick:
		return s.Click(v.Button)
	case Scroll:
		return s.Scroll(v.Ticks)
	case ToggleMic:
		return s.ToggleMic()
	default:
		return fmt.Errorf("unknown action %T", a)
	}
}

var keyAliases = map[string]Key{
	"enter": KeyEnter, "return": KeyEnter,
	"escape": KeyEscape, "esc": KeyEscape,
	"tab":   KeyTab,
	"space": KeySpace,
	"up":    KeyUp, "down": KeyDown, "left": KeyLeft, "right": KeyRight,
	"pageup": KeyPageUp, "pgup": KeyPageUp,
	"pagedown": KeyPageDn, "pgdn": KeyPageDn,
	"shift": KeyShift,
	"ctrl":  KeyCtrl, "control": KeyCtrl,
	"alt": KeyAlt,
}

// ParseChord parses a "+"-joined chord such as "Shift+Alt+Tab" or "Ctrl+B".
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(s, "+")
	chord := make(Chord, 0, len(parts))
	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			return nil, fmt.Errorf("empty key in chord %q", s)
		}
		if k, ok := keyAliases[name]; ok {
			chord = append(chord, k)
			continue
		}
		if len(name) == 1 && (name[0] >= 'a' && name[0] <= 'z' || name[0] >= '0' && name[0] <= '9') {
			chord = append(chord, Key(name))
			continue
		}
		return nil, fmt.Errorf("unknown key %q in chord %q", part, s)
	}
	if len(chord) == 0 {
		return nil, fmt.Errorf("empty chord %q", s)
	}
	return chord, nil
}

// ParseSequence parses a ","-joined chord sequence such as "Ctrl+B,N".
func ParseSequence(s string) (KeySequence, error) {
	var seq KeySequence
	for _, part := range strings.Split(s, ",") {
		chord, err := ParseChord(part)
		if err != nil {
			return KeySequence{}, err
		}
		seq.Chords = append(seq.Chords, chord)
	}
	return seq, nil
}
