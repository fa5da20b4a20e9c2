// Package controller identifies supported Sony controllers and classifies
// how they are attached.
package controller

import "strings"

// Model is a concrete hardware variant.
type Model int

const (
	ModelUnknown Model = iota
	ModelDualSense
	ModelDualSenseEdge
	ModelDS4V1
	ModelDS4V2
)

// Family groups models that share a report protocol.
type Family int

const (
	FamilyDualSense Family = iota
	FamilyDS4
)

// Transport is how the controller is attached. It determines report IDs,
// byte offsets and whether CRC framing applies.
type Transport int

const (
	TransportUSB Transport = iota
	TransportBluetooth
)

const (
	VendorSony = 0x054C

	ProductDualSense     = 0x0CE6
	ProductDualSenseEdge = 0x0DF2
	ProductDS4V1         = 0x05C4
	ProductDS4V2         = 0x09CC
)

// Only the gamepad HID collection accepts output reports. A single physical
// device exposes several collections, so scanning must filter on usage page
// and usage as well as VID/PID.
const (
	GamepadUsagePage = 0x01 // Generic Desktop
	GamepadUsage     = 0x05 // Game Pad
)

// Identity describes one discovered controller. Immutable once the device
// has been opened.
type Identity struct {
	Model     Model
	Transport Transport
	Path      string
	VendorID  uint16
	ProductID uint16
}

// Identify maps a VID/PID pair to a known model. ok is false for anything
// that is not a supported Sony controller.
func Identify(vid, pid uint16) (Model, bool) {
	if vid != VendorSony {
		return ModelUnknown, false
	}
	switch pid {
	case ProductDualSense:
		return ModelDualSense, true
	case ProductDualSenseEdge:
		return ModelDualSenseEdge, true
	case ProductDS4V1:
		return ModelDS4V1, true
	case ProductDS4V2:
		return ModelDS4V2, true
	default:
		return ModelUnknown, false
	}
}

// Family returns the protocol family for the model.
func (m Model) Family() Family {
	switch m {
	case ModelDualSense, ModelDualSenseEdge:
		return FamilyDualSense
	default:
		return FamilyDS4
	}
}

func (m Model) String() string {
	switch m {
	case ModelDualSense:
		return "DualSense"
	case ModelDualSenseEdge:
		return "DualSense Edge"
	case ModelDS4V1:
		return "DualShock 4 v1"
	case ModelDS4V2:
		return "DualShock 4 v2"
	default:
		return "unknown"
	}
}

func (t Transport) String() string {
	if t == TransportBluetooth {
		return "Bluetooth"
	}
	return "USB"
}

// DetectTransport classifies the attachment from the HID device path rather
// than by negotiation. Bluetooth HID paths on Windows carry "&0005" (the
// Bluetooth HID service) or the Bluetooth HID class GUID prefix; everything
// else is treated as USB, which is the safe default since USB reports carry
// no CRC.
func DetectTransport(path string) Transport {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "&0005") || strings.Contains(lower, "{00001124") {
		return TransportBluetooth
	}
	return TransportUSB
}
