package protocol

import (
	"errors"
	"fmt"

	"github.com/agentpad/agentpad/internal/controller"
)

// Decode errors. Both mean "drop the frame and keep reading"; neither is
// fatal for the connection.
var (
	ErrTooShort = errors.New("report too short")
	ErrChecksum = errors.New("bluetooth crc mismatch")
)

// Decode turns one raw input report into a unified snapshot. For Bluetooth
// layouts the CRC trailer is verified before any byte is interpreted; a
// mismatch returns ErrChecksum and the frame must be dropped.
func Decode(l Layout, data []byte) (InputState, error) {
	if l.CRC && !ValidateCRC(CRCSeedInput, data) {
		return InputState{}, ErrChecksum
	}

	// hidapi delivers the report ID byte on some platforms and strips it on
	// others. The layout offset assumes it is present; shift down when the
	// first byte is already payload.
	off := l.InputOffset
	if len(data) == 0 || data[0] != l.InputReportID {
		off--
	}
	if len(data) < off+l.InputMinLen {
		return InputState{}, fmt.Errorf("%w: need %d bytes, got %d", ErrTooShort, off+l.InputMinLen, len(data))
	}

	switch l.Family {
	case controller.FamilyDualSense:
		return decodeDualSense(data, off), nil
	default:
		return decodeDS4(data, off), nil
	}
}

// DualSense payload: sticks at 0-3, triggers at 4-5, counter at 6, buttons
// at 7-9, touchpad contacts at 32-39.
func decodeDualSense(data []byte, off int) InputState {
	s := InputState{
		LX: data[off], LY: data[off+1],
		RX: data[off+2], RY: data[off+3],
		L2: data[off+4], R2: data[off+5],
		Counter: data[off+6],
		Buttons: decodeButtons(data[off+7], data[off+8], data[off+9]),
	}
	s.Touch = decodeTouch(data, off)
	return s
}

// DS4 payload: sticks at 0-3, buttons at 4-6 with the frame counter packed
// into the system byte, triggers at 7-8. The DS4 touchpad block uses a
// different layout and is left inactive.
func decodeDS4(data []byte, off int) InputState {
	return InputState{
		LX: data[off], LY: data[off+1],
		RX: data[off+2], RY: data[off+3],
		Buttons: decodeButtons(data[off+4], data[off+5], data[off+6]),
		Counter: (data[off+6] & DS4CounterMask) >> DS4CounterShift,
		L2:      data[off+7],
		R2:      data[off+8],
	}
}

func decodeButtons(b0, b1, b2 uint8) Buttons {
	return Buttons{
		DPad:     decodeHat(b0 & HatMask),
		Square:   b0&ButtonSquareBit != 0,
		Cross:    b0&ButtonCrossBit != 0,
		Circle:   b0&ButtonCircleBit != 0,
		Triangle: b0&ButtonTriangleBit != 0,

		L1:      b1&ButtonL1Bit != 0,
		R1:      b1&ButtonR1Bit != 0,
		L2:      b1&ButtonL2Bit != 0,
		R2:      b1&ButtonR2Bit != 0,
		Share:   b1&ButtonShareBit != 0,
		Options: b1&ButtonOptionsBit != 0,
		L3:      b1&ButtonL3Bit != 0,
		R3:      b1&ButtonR3Bit != 0,

		PS:       b2&ButtonPSBit != 0,
		Touchpad: b2&ButtonTouchpadBit != 0,
		Mute:     b2&ButtonMuteBit != 0,
	}
}

// Hat values 0-7 are the eight directions clockwise from North; 8 and above
// mean released.
func decodeHat(hat uint8) DPad {
	if hat > 7 {
		return DPadNeutral
	}
	return DPad(hat)
}

// decodeTouch reads the two 4-byte contact blocks at payload offset 32.
//   byte 0: bit 7 inactive flag (0 = touching), bits 0-6 contact ID
//   byte 1: X low 8 bits
//   byte 2: low nibble X high 4 bits, high nibble Y low 4 bits
//   byte 3: Y high 8 bits
//
// Returns inactive contacts when the buffer is too short for the block.
func decodeTouch(data []byte, off int) [2]TouchPoint {
	var pts [2]TouchPoint
	if len(data) < off+40 {
		return pts
	}
	for i := range pts {
		base := off + 32 + i*4
		mid := data[base+2]
		pts[i] = TouchPoint{
			Active: data[base]&TouchInactiveMask == 0,
			X:      uint16(data[base+1]) | uint16(mid&0x0F)<<8,
			Y:      uint16(mid>>4) | uint16(data[base+3])<<4,
		}
	}
	return pts
}
