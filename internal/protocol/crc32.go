package protocol

import (
	"encoding/binary"
	"hash/crc32"
)

// Bluetooth reports are framed with a trailing little-endian CRC-32
// (polynomial 0xEDB88320) computed over a virtual buffer: one constant seed
// byte followed by the report bytes, excluding the CRC field itself.
const (
	CRCSeedInput  byte = 0xA1
	CRCSeedOutput byte = 0xA2
)

// crc32.IEEE is the same reflected 0xEDB88320 polynomial the controllers use.
var crcTable = crc32.MakeTable(crc32.IEEE)

// Pre-folded seed states so per-frame checksums never copy the buffer.
var (
	crcSeedInState  = crc32.Update(0, crcTable, []byte{CRCSeedInput})
	crcSeedOutState = crc32.Update(0, crcTable, []byte{CRCSeedOutput})
)

// Checksum computes the seeded CRC-32 over data.
func Checksum(seed byte, data []byte) uint32 {
	var state uint32
	switch seed {
	case CRCSeedInput:
		state = crcSeedInState
	case CRCSeedOutput:
		state = crcSeedOutState
	default:
		state = crc32.Update(0, crcTable, []byte{seed})
	}
	return crc32.Update(state, crcTable, data)
}

// ValidateCRC reports whether the last four bytes of report match the seeded
// CRC-32 of the preceding bytes.
func ValidateCRC(seed byte, report []byte) bool {
	if len(report) < 4 {
		return false
	}
	body := report[:len(report)-4]
	want := binary.LittleEndian.Uint32(report[len(report)-4:])
	return Checksum(seed, body) == want
}

// StampCRC writes the seeded CRC-32 of report[:len-4] into the last four
// bytes of report.
func StampCRC(seed byte, report []byte) {
	body := report[:len(report)-4]
	binary.LittleEndian.PutUint32(report[len(report)-4:], Checksum(seed, body))
}
