package protocol_test

import (
	"hash/crc32"
	"testing"

	"github.com/agentpad/agentpad/internal/protocol"
	"github.com/stretchr/testify/assert"
)

func TestChecksumMatchesSeededIEEE(t *testing.T) {
	// Reference value: IEEE CRC-32 of "123456789" is 0xCBF43926. The seeded
	// checksum must equal folding the seed byte ahead of the data.
	data := []byte("123456789")
	assert.Equal(t, uint32(0xCBF43926), crc32.ChecksumIEEE(data))

	for _, seed := range []byte{protocol.CRCSeedInput, protocol.CRCSeedOutput, 0x00} {
		want := crc32.ChecksumIEEE(append([]byte{seed}, data...))
		assert.Equal(t, want, protocol.Checksum(seed, data), "seed %#02x", seed)
	}
}

func TestStampAndValidate(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = 0x31
	buf[1] = 0x02
	buf[2] = 0xFF

	protocol.StampCRC(protocol.CRCSeedOutput, buf)
	assert.True(t, protocol.ValidateCRC(protocol.CRCSeedOutput, buf))

	// Wrong seed must not validate.
	assert.False(t, protocol.ValidateCRC(protocol.CRCSeedInput, buf))

	// Corruption must not validate.
	buf[1] ^= 0x01
	assert.False(t, protocol.ValidateCRC(protocol.CRCSeedOutput, buf))
}

func TestValidateShortBuffer(t *testing.T) {
	assert.False(t, protocol.ValidateCRC(protocol.CRCSeedInput, []byte{1, 2, 3}))
	assert.False(t, protocol.ValidateCRC(protocol.CRCSeedInput, nil))
}
