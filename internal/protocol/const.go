package protocol

// Button block bit assignments, shared by every supported variant.
// Byte 0 packs the hat nibble with the face buttons, byte 1 the
// shoulder/stick buttons, byte 2 the system buttons.
const (
	HatMask uint8 = 0x0F

	ButtonSquareBit   uint8 = 0x10
	ButtonCrossBit    uint8 = 0x20
	ButtonCircleBit   uint8 = 0x40
	ButtonTriangleBit uint8 = 0x80

	ButtonL1Bit      uint8 = 0x01
	ButtonR1Bit      uint8 = 0x02
	ButtonL2Bit      uint8 = 0x04
	ButtonR2Bit      uint8 = 0x08
	ButtonShareBit   uint8 = 0x10
	ButtonOptionsBit uint8 = 0x20
	ButtonL3Bit      uint8 = 0x40
	ButtonR3Bit      uint8 = 0x80

	ButtonPSBit       uint8 = 0x01
	ButtonTouchpadBit uint8 = 0x02
	ButtonMuteBit     uint8 = 0x04 // DualSense only
)

// DS4 packs a 6-bit frame counter into the top of the system button byte.
const (
	DS4CounterMask  uint8 = 0xFC
	DS4CounterShift       = 2
)

// Touchpad contact encoding (4 bytes per contact, two contacts).
const (
	TouchInactiveMask uint8 = 0x80

	TouchpadMaxX uint16 = 1919
	TouchpadMaxY uint16 = 1079
)

// Player indicator LED bitmasks (DualSense only). Bits 0-4 are the five
// dots left to right; bit 5 requests instant switching without fade.
const (
	PlayerLEDCenter    uint8 = 0x04
	PlayerLEDInnerPair uint8 = 0x0A
	PlayerLEDInstant   uint8 = 0x20
)

// StickCenter is the resting value of every stick axis.
const StickCenter uint8 = 128
