package protocol

import (
	"fmt"

	"github.com/agentpad/agentpad/internal/controller"
)

// Layout is the immutable report-layout descriptor for one
// (family, transport) pair. It is resolved once at connection time; every
// codec function takes it as plain data.
//
// Report geometry differs between USB and Bluetooth for the same hardware:
// Bluetooth input reports carry an extra header after the report ID, use a
// different report ID on some variants, and append a CRC-32 trailer.
type Layout struct {
	Family    controller.Family
	Transport controller.Transport

	// Input geometry.
	InputReportID byte
	// InputOffset is the payload start when the report ID byte is present.
	// hidapi strips the leading report ID on some platforms; Decode detects
	// that case and shifts by one.
	InputOffset int
	// InputMinLen is the number of payload bytes Decode requires past the
	// offset (sticks, triggers and the three button bytes).
	InputMinLen int

	// Output geometry.
	OutputReportID byte
	OutputLen      int
	// outputStatic holds fixed flag bytes poked into every output report.
	outputStatic map[int]byte
	// Byte positions of the encoded fields. -1 marks a field the variant
	// does not support.
	rumbleRightOff int
	rumbleLeftOff  int
	lightbarOff    int // R at lightbarOff, G and B follow
	playerLEDOff   int
	muteLEDOff     int

	// FeatureReportID is the feature report read to switch a Bluetooth
	// connection out of basic-compatibility mode.
	FeatureReportID byte

	// CRC is true when reports carry the seeded CRC-32 trailer.
	CRC bool
}

type layoutKey struct {
	family    controller.Family
	transport controller.Transport
}

var layouts = map[layoutKey]Layout{
	{controller.FamilyDualSense, controller.TransportUSB}: mustLayout(Layout{
		Family:        controller.FamilyDualSense,
		Transport:     controller.TransportUSB,
		InputReportID: 0x01,
		InputOffset:   1,
		InputMinLen:   10,

		OutputReportID: 0x02,
		OutputLen:      48,
		outputStatic: map[int]byte{
			0:  0x02, // report ID
			1:  0x0F, // valid flag 0: rumble + trigger effects
			2:  0x55, // valid flag 1: mic LED + lightbar + player LEDs
			39: 0x02, // valid flag 2: lightbar setup control
			42: 0x02, // lightbar setup: fade out the boot blue
			43: 0x00, // LED brightness high
		},
		rumbleRightOff: 3,
		rumbleLeftOff:  4,
		muteLEDOff:     9,
		playerLEDOff:   44,
		lightbarOff:    45,

		FeatureReportID: 0x05,
	}),
	{controller.FamilyDualSense, controller.TransportBluetooth}: mustLayout(Layout{
		Family:        controller.FamilyDualSense,
		Transport:     controller.TransportBluetooth,
		InputReportID: 0x31,
		InputOffset:   2,
		InputMinLen:   10,

		OutputReportID: 0x31,
		OutputLen:      78,
		outputStatic: map[int]byte{
			0:  0x31, // report ID
			1:  0x02, // fixed data tag
			2:  0x0F,
			3:  0x55,
			40: 0x02,
			43: 0x02,
			44: 0x00,
		},
		rumbleRightOff: 4,
		rumbleLeftOff:  5,
		muteLEDOff:     10,
		playerLEDOff:   45,
		lightbarOff:    46,

		FeatureReportID: 0x05,
		CRC:             true,
	}),
	{controller.FamilyDS4, controller.TransportUSB}: mustLayout(Layout{
		Family:        controller.FamilyDS4,
		Transport:     controller.TransportUSB,
		InputReportID: 0x01,
		InputOffset:   1,
		InputMinLen:   9,

		OutputReportID: 0x05,
		OutputLen:      32,
		outputStatic: map[int]byte{
			0: 0x05, // report ID
			1: 0x07, // rumble + lightbar
		},
		rumbleRightOff: 4,
		rumbleLeftOff:  5,
		lightbarOff:    6,
		playerLEDOff:   -1,
		muteLEDOff:     -1,

		FeatureReportID: 0x02,
	}),
	{controller.FamilyDS4, controller.TransportBluetooth}: mustLayout(Layout{
		Family:        controller.FamilyDS4,
		Transport:     controller.TransportBluetooth,
		InputReportID: 0x11,
		InputOffset:   3,
		InputMinLen:   9,

		OutputReportID: 0x11,
		OutputLen:      79,
		outputStatic: map[int]byte{
			0: 0x11, // report ID
			1: 0x80, // HID output flag
			3: 0xF7, // rumble + lightbar + flash enable
		},
		rumbleRightOff: 6,
		rumbleLeftOff:  7,
		lightbarOff:    8,
		playerLEDOff:   -1,
		muteLEDOff:     -1,

		FeatureReportID: 0x02,
		CRC:             true,
	}),
}

// mustLayout validates report geometry at table-construction time. A
// mismatched size here is a programmer error, never a runtime condition.
func mustLayout(l Layout) Layout {
	trailer := 0
	if l.CRC {
		trailer = 4
	}
	check := func(name string, off, width int) {
		if off < 0 {
			return
		}
		if off+width > l.OutputLen-trailer {
			panic(fmt.Sprintf("protocol: %v/%v layout: %s at %d overruns %d-byte report",
				l.Family, l.Transport, name, off, l.OutputLen))
		}
	}
	check("rumble-right", l.rumbleRightOff, 1)
	check("rumble-left", l.rumbleLeftOff, 1)
	check("lightbar", l.lightbarOff, 3)
	check("player-leds", l.playerLEDOff, 1)
	check("mute-led", l.muteLEDOff, 1)
	for off := range l.outputStatic {
		check("static", off, 1)
	}
	if l.InputOffset < 1 || l.InputMinLen <= 0 {
		panic(fmt.Sprintf("protocol: %v/%v layout: bad input geometry", l.Family, l.Transport))
	}
	return l
}

// Resolve returns the layout descriptor for a model and transport.
func Resolve(model controller.Model, transport controller.Transport) Layout {
	return layouts[layoutKey{model.Family(), transport}]
}

// Layouts returns every defined layout, in no particular order. Intended for
// exhaustive codec tests.
func Layouts() []Layout {
	out := make([]Layout, 0, len(layouts))
	for _, l := range layouts {
		out = append(out, l)
	}
	return out
}
