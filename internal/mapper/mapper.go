// Package mapper turns decoded controller snapshots into OS actions: edge
// detection for buttons, confirm-then-repeat for the d-pad, and dead-zoned
// analog conversion for scrolling and mouse movement. The mapper is a pure
// state machine driven by Update; it performs no I/O and owns no goroutine.
package mapper

import (
	"log/slog"
	"time"

	"github.com/agentpad/agentpad/internal/actions"
	"github.com/agentpad/agentpad/internal/protocol"
)

// edgeControls are the digital controls resolved through the binding
// tables. Share, mute, L3 and touchpad-click are handled specially and
// never appear here.
var edgeControls = []string{
	controlCross, controlCircle, controlSquare, controlTriangle,
	controlL1, controlR1, controlL2, controlR2,
	controlOptions, controlR3,
}

// Mapper converts input snapshots into actions. Not safe for concurrent
// use; the input loop is its only caller.
type Mapper struct {
	cfg      Config
	tables   [2]bindingTable
	selector *Selector
	logger   *slog.Logger

	prev protocol.InputState

	// mouseFromTouchpad selects the mouse source; toggled by L3.
	mouseFromTouchpad bool
	prevTouch         protocol.TouchPoint

	dpad dpadState

	scrollAcc accumulator
	mouseX    accumulator
	mouseY    accumulator
}

// dpadState implements confirm-then-repeat: a direction must be seen on two
// consecutive snapshots before the first keypress, after which it repeats
// until release or a direction change.
type dpadState struct {
	candidate protocol.DPad // seen once, awaiting confirmation
	active    protocol.DPad // currently firing
	nextFire  time.Time
}

func newDpadState() dpadState {
	return dpadState{candidate: protocol.DPadNeutral, active: protocol.DPadNeutral}
}

// NewMapper builds a mapper over the given configuration. The selector is
// updated on every profile switch; it may be shared with other goroutines.
// Binding table errors surface here, before any device is opened.
func NewMapper(cfg Config, selector *Selector, logger *slog.Logger) (*Mapper, error) {
	tables, err := buildTables(cfg)
	if err != nil {
		return nil, err
	}
	return &Mapper{
		cfg:      cfg,
		tables:   tables,
		selector: selector,
		logger:   logger,
		prev:     protocol.NeutralInput(),
		dpad:     newDpadState(),
	}, nil
}

// Reset returns edge state to neutral, as after a fresh connection. Profile
// selection and the mouse source toggle survive a reset.
func (m *Mapper) Reset() {
	m.prev = protocol.NeutralInput()
	m.prevTouch = protocol.TouchPoint{}
	m.dpad = newDpadState()
	m.scrollAcc.Reset()
	m.mouseX.Reset()
	m.mouseY.Reset()
}

// Update consumes one snapshot and returns the actions it triggers, in a
// stable order: profile/mode toggles, button presses, d-pad, then analog.
func (m *Mapper) Update(cur protocol.InputState, now time.Time) []actions.Action {
	var out []actions.Action

	prev := m.prev
	m.prev = cur

	// Share toggles the profile on its press edge.
	if cur.Buttons.Share && !prev.Buttons.Share {
		next := ProfileDefault
		if m.selector.Get() == ProfileDefault {
			next = ProfileTmux
		}
		m.selector.Set(next)
		m.logger.Info("profile switched", "profile", next.String())
	}

	if cur.Buttons.Mute && !prev.Buttons.Mute {
		out = append(out, actions.ToggleMic{})
	}

	if cur.Buttons.L3 && !prev.Buttons.L3 {
		m.mouseFromTouchpad = !m.mouseFromTouchpad
		m.prevTouch = protocol.TouchPoint{}
		m.logger.Debug("mouse source toggled", "touchpad", m.mouseFromTouchpad)
	}

	if cur.Buttons.Touchpad && !prev.Buttons.Touchpad {
		out = append(out, actions.MouseClick{Button: actions.MouseLeft})
	}

	table := m.tables[m.selector.Get()]
	for _, control := range edgeControls {
		if pressed(cur.Buttons, control) && !pressed(prev.Buttons, control) {
			if seq, ok := table[control]; ok {
				out = append(out, seq)
			}
		}
	}

	if a, ok := m.updateDpad(cur.Buttons.DPad, table, now); ok {
		out = append(out, a)
	}

	out = append(out, m.updateAnalog(cur)...)
	return out
}

// updateDpad advances the confirm-then-repeat machine by one snapshot and
// returns at most one keypress.
func (m *Mapper) updateDpad(dir protocol.DPad, table bindingTable, now time.Time) (actions.Action, bool) {
	d := &m.dpad

	if dir != d.active {
		// Not (or no longer) the firing direction. A changed direction
		// cancels any repeat immediately and starts a fresh confirmation.
		if dir == protocol.DPadNeutral {
			d.candidate = protocol.DPadNeutral
			d.active = protocol.DPadNeutral
			return nil, false
		}
		if dir != d.candidate {
			d.candidate = dir
			d.active = protocol.DPadNeutral
			return nil, false
		}
		// Second consecutive read: confirmed, fire now.
		d.active = dir
		d.candidate = protocol.DPadNeutral
		d.nextFire = now.Add(m.cfg.RepeatDelay)
		return m.dpadAction(dir, table)
	}

	if now.Before(d.nextFire) {
		return nil, false
	}
	d.nextFire = now.Add(m.cfg.RepeatInterval)
	return m.dpadAction(dir, table)
}

func (m *Mapper) dpadAction(dir protocol.DPad, table bindingTable) (actions.Action, bool) {
	control, ok := dpadControl(dir)
	if !ok {
		return nil, false
	}
	seq, ok := table[control]
	if !ok {
		return nil, false
	}
	return seq, true
}

// updateAnalog emits scroll ticks from the right stick and mouse deltas
// from the active mouse source.
func (m *Mapper) updateAnalog(cur protocol.InputState) []actions.Action {
	var out []actions.Action

	// Pushing the stick up reads below center; up scrolls up (positive).
	ry := shape(normalize(cur.RY), m.cfg.Deadzone, m.cfg.Curve)
	if ticks := m.scrollAcc.Add(-ry * m.cfg.ScrollMaxTicks); ticks != 0 {
		out = append(out, actions.Scroll{Ticks: ticks})
	}

	var dx, dy int
	if m.mouseFromTouchpad {
		dx, dy = m.touchpadDelta(cur.Touch[0])
	} else {
		lx := shape(normalize(cur.LX), m.cfg.Deadzone, m.cfg.Curve)
		ly := shape(normalize(cur.LY), m.cfg.Deadzone, m.cfg.Curve)
		dx = m.mouseX.Add(lx * m.cfg.MouseMaxSpeed)
		dy = m.mouseY.Add(ly * m.cfg.MouseMaxSpeed)
	}
	if dx != 0 || dy != 0 {
		out = append(out, actions.MouseMove{DX: dx, DY: dy})
	}
	return out
}

// touchpadDelta tracks the primary contact between snapshots. The first
// snapshot of a new contact anchors it without moving the cursor.
func (m *Mapper) touchpadDelta(t protocol.TouchPoint) (int, int) {
	defer func() { m.prevTouch = t }()

	if !t.Active || !m.prevTouch.Active {
		m.mouseX.Reset()
		m.mouseY.Reset()
		return 0, 0
	}
	dx := m.mouseX.Add(float64(int(t.X)-int(m.prevTouch.X)) * m.cfg.TouchpadSensitivity)
	dy := m.mouseY.Add(float64(int(t.Y)-int(m.prevTouch.Y)) * m.cfg.TouchpadSensitivity)
	return dx, dy
}
