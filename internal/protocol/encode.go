package protocol

import (
	"errors"
	"fmt"
)

// Encode builds the raw output report for a frame. The returned buffer
// always has exactly the layout's fixed output length; field positions were
// validated when the layout table was built, so this never fails at runtime.
func Encode(l Layout, f OutputFrame) []byte {
	buf := make([]byte, l.OutputLen)
	for off, b := range l.outputStatic {
		buf[off] = b
	}
	buf[l.rumbleRightOff] = f.RumbleRight
	buf[l.rumbleLeftOff] = f.RumbleLeft
	buf[l.lightbarOff] = f.LightbarR
	buf[l.lightbarOff+1] = f.LightbarG
	buf[l.lightbarOff+2] = f.LightbarB
	if l.playerLEDOff >= 0 {
		buf[l.playerLEDOff] = f.PlayerLEDs
	}
	if l.muteLEDOff >= 0 && f.MuteLED {
		buf[l.muteLEDOff] = 0x01
	}
	if l.CRC {
		StampCRC(CRCSeedOutput, buf)
	}
	return buf
}

// ErrBadReport means an output report could not be read back as a frame.
var ErrBadReport = errors.New("malformed output report")

// DecodeFrame reads the symmetric fields (rumble, lightbar, player LEDs)
// back out of an encoded output report. Used by raw-log inspection and by
// the codec round-trip tests.
func DecodeFrame(l Layout, report []byte) (OutputFrame, error) {
	if len(report) != l.OutputLen {
		return OutputFrame{}, fmt.Errorf("%w: length %d, layout wants %d", ErrBadReport, len(report), l.OutputLen)
	}
	if report[0] != l.OutputReportID {
		return OutputFrame{}, fmt.Errorf("%w: report ID %#02x, layout wants %#02x", ErrBadReport, report[0], l.OutputReportID)
	}
	if l.CRC && !ValidateCRC(CRCSeedOutput, report) {
		return OutputFrame{}, ErrChecksum
	}
	f := OutputFrame{
		RumbleRight: report[l.rumbleRightOff],
		RumbleLeft:  report[l.rumbleLeftOff],
		LightbarR:   report[l.lightbarOff],
		LightbarG:   report[l.lightbarOff+1],
		LightbarB:   report[l.lightbarOff+2],
	}
	if l.playerLEDOff >= 0 {
		f.PlayerLEDs = report[l.playerLEDOff]
	}
	if l.muteLEDOff >= 0 {
		f.MuteLED = report[l.muteLEDOff] != 0
	}
	return f, nil
}
