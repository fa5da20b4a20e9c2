package mapper

import (
	"fmt"

	"github.com/agentpad/agentpad/internal/actions"
	"github.com/agentpad/agentpad/internal/protocol"
)

// Bindable button names accepted in configuration tables.
const (
	controlCross    = "cross"
	controlCircle   = "circle"
	controlSquare   = "square"
	controlTriangle = "triangle"
	controlL1       = "l1"
	controlR1       = "r1"
	controlL2       = "l2"
	controlR2       = "r2"
	controlOptions  = "options"
	controlR3       = "r3"

	controlDPadUp    = "dpad_up"
	controlDPadDown  = "dpad_down"
	controlDPadLeft  = "dpad_left"
	controlDPadRight = "dpad_right"
)

var bindableControls = []string{
	controlCross, controlCircle, controlSquare, controlTriangle,
	controlL1, controlR1, controlL2, controlR2,
	controlOptions, controlR3,
	controlDPadUp, controlDPadDown, controlDPadLeft, controlDPadRight,
}

// defaultBindings is the Default profile table.
var defaultBindings = map[string]string{
	controlCross:    "Enter",
	controlCircle:   "Escape",
	controlTriangle: "Tab",
	controlSquare:   "Space",
	controlL1:       "Shift+Alt+Tab",
	controlR1:       "Alt+Tab",

	controlDPadUp:    "Up",
	controlDPadDown:  "Down",
	controlDPadLeft:  "Left",
	controlDPadRight: "Right",
}

// defaultTmuxBindings is the Tmux profile table. A bare key name is wrapped
// with the configured prefix chord; sequences containing a comma or plus
// are taken verbatim.
var defaultTmuxBindings = map[string]string{
	controlCross:    "Enter",
	controlCircle:   "Escape",
	controlL1:       "p", // previous window
	controlR1:       "n", // next window
	controlTriangle: "c", // new window
	controlSquare:   "z", // zoom pane

	controlDPadUp:    "Up",
	controlDPadDown:  "Down",
	controlDPadLeft:  "Left",
	controlDPadRight: "Right",
}

// tmuxPrefixed reports whether a tmux binding value should be wrapped with
// the prefix chord: single bare keys are, chords and sequences are not,
// and neither are the arrow keys.
func tmuxPrefixed(value string) bool {
	if len(value) != 1 {
		return false
	}
	c := value[0]
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

type bindingTable map[string]actions.KeySequence

// buildTables merges user overrides over the built-in tables and parses
// every value once. An empty override value unbinds the control.
func buildTables(cfg Config) ([2]bindingTable, error) {
	var tables [2]bindingTable

	parseTable := func(defaults, overrides map[string]string, tmux bool) (bindingTable, error) {
		merged := make(map[string]string, len(defaults))
		for k, v := range defaults {
			merged[k] = v
		}
		for k, v := range overrides {
			if !isBindable(k) {
				return nil, fmt.Errorf("unknown control %q", k)
			}
			merged[k] = v
		}

		table := make(bindingTable, len(merged))
		for control, value := range merged {
			if value == "" {
				continue
			}
			if tmux && tmuxPrefixed(value) {
				value = cfg.TmuxPrefix + "," + value
			}
			seq, err := actions.ParseSequence(value)
			if err != nil {
				return nil, fmt.Errorf("control %q: %w", control, err)
			}
			table[control] = seq
		}
		return table, nil
	}

	var err error
	if tables[ProfileDefault], err = parseTable(defaultBindings, cfg.Buttons, false); err != nil {
		return tables, err
	}
	if tables[ProfileTmux], err = parseTable(defaultTmuxBindings, cfg.TmuxButtons, true); err != nil {
		return tables, err
	}
	return tables, nil
}

func isBindable(name string) bool {
	for _, c := range bindableControls {
		if c == name {
			return true
		}
	}
	return false
}

// pressed reads one named digital control out of a button block.
// Unknown names read as released, so unmapped controls never error.
func pressed(b protocol.Buttons, control string) bool {
	switch control {
	case controlCross:
		return b.Cross
	case controlCircle:
		return b.Circle
	case controlSquare:
		return b.Square
	case controlTriangle:
		return b.Triangle
	case controlL1:
		return b.L1
	case controlR1:
		return b.R1
	case controlL2:
		return b.L2
	case controlR2:
		return b.R2
	case controlOptions:
		return b.Options
	case controlR3:
		return b.R3
	default:
		return false
	}
}

// dpadControl maps a cardinal direction to its binding name. Diagonals are
// not bound; the repeat logic treats them as distinct directions so a
// diagonal still cancels a running cardinal repeat.
func dpadControl(d protocol.DPad) (string, bool) {
	switch d {
	case protocol.DPadUp:
		return controlDPadUp, true
	case protocol.DPadDown:
		return controlDPadDown, true
	case protocol.DPadLeft:
		return controlDPadLeft, true
	case protocol.DPadRight:
		return controlDPadRight, true
	default:
		return "", false
	}
}
