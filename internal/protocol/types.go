// Package protocol implements the HID report codec for DualSense and
// DualShock 4 controllers over USB and Bluetooth: raw report bytes to a
// unified input snapshot, and output frames to raw report bytes. The
// package is pure; it performs no I/O.
package protocol

// DPad is the decoded 4-bit hat switch.
type DPad uint8

const (
	DPadUp DPad = iota
	DPadUpRight
	DPadRight
	DPadDownRight
	DPadDown
	DPadDownLeft
	DPadLeft
	DPadUpLeft
	DPadNeutral
)

func (d DPad) String() string {
	switch d {
	case DPadUp:
		return "up"
	case DPadUpRight:
		return "up-right"
	case DPadRight:
		return "right"
	case DPadDownRight:
		return "down-right"
	case DPadDown:
		return "down"
	case DPadDownLeft:
		return "down-left"
	case DPadLeft:
		return "left"
	case DPadUpLeft:
		return "up-left"
	default:
		return "neutral"
	}
}

// Buttons is the decoded digital button block.
type Buttons struct {
	Square   bool
	Cross    bool
	Circle   bool
	Triangle bool

	L1      bool
	R1      bool
	L2      bool
	R2      bool
	Share   bool // "Create" on DualSense
	Options bool
	L3      bool
	R3      bool

	PS       bool
	Touchpad bool
	Mute     bool // DualSense only

	DPad DPad
}

// TouchPoint is one capacitive contact on the touchpad.
// X ranges 0-1919 left to right, Y 0-1079 top to bottom.
type TouchPoint struct {
	Active bool
	X, Y   uint16
}

// InputState is the normalized snapshot produced for every decoded input
// report, regardless of variant or transport.
type InputState struct {
	LX, LY uint8
	RX, RY uint8
	L2, R2 uint8

	// Counter is the hardware report counter. 8 bits on DualSense,
	// 6 bits on DS4; callers must only rely on it changing.
	Counter uint8

	Buttons Buttons

	// Touch holds up to two contacts. Always inactive on DS4.
	Touch [2]TouchPoint
}

// NeutralInput returns a snapshot with sticks centered and nothing pressed.
func NeutralInput() InputState {
	return InputState{
		LX: StickCenter, LY: StickCenter,
		RX: StickCenter, RY: StickCenter,
		Buttons: Buttons{DPad: DPadNeutral},
	}
}

// OutputFrame is the transport-agnostic render target: what the lightbar,
// motors and LEDs should show right now.
type OutputFrame struct {
	LightbarR, LightbarG, LightbarB uint8
	RumbleLeft, RumbleRight         uint8

	// PlayerLEDs is the DualSense player indicator bitmask. Ignored by DS4
	// layouts, which have no player LEDs.
	PlayerLEDs uint8
	// MuteLED lights the DualSense mic mute LED. Ignored by DS4 layouts.
	MuteLED bool
}
