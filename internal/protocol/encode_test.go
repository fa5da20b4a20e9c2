package protocol_test

import (
	"testing"

	"github.com/agentpad/agentpad/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDualSenseUSB(t *testing.T) {
	report := protocol.Encode(dualSenseUSB(), protocol.OutputFrame{
		LightbarR: 255, LightbarG: 128, LightbarB: 0,
		RumbleLeft: 10, RumbleRight: 20,
		PlayerLEDs: protocol.PlayerLEDCenter | protocol.PlayerLEDInstant,
		MuteLED:    true,
	})
	require.Len(t, report, 48)
	assert.Equal(t, uint8(0x02), report[0])
	assert.Equal(t, uint8(0x0F), report[1])
	assert.Equal(t, uint8(0x55), report[2])
	assert.Equal(t, uint8(20), report[3]) // right motor
	assert.Equal(t, uint8(10), report[4]) // left motor
	assert.Equal(t, uint8(0x01), report[9])
	assert.Equal(t, uint8(0x24), report[44])
	assert.Equal(t, []byte{255, 128, 0}, report[45:48])
}

func TestEncodeDualSenseBT(t *testing.T) {
	report := protocol.Encode(dualSenseBT(), protocol.OutputFrame{
		LightbarR: 1, LightbarG: 2, LightbarB: 3,
		PlayerLEDs: protocol.PlayerLEDInnerPair,
	})
	require.Len(t, report, 78)
	assert.Equal(t, uint8(0x31), report[0])
	assert.Equal(t, uint8(0x02), report[1]) // fixed tag, no sequence numbering
	assert.Equal(t, uint8(protocol.PlayerLEDInnerPair), report[45])
	assert.Equal(t, []byte{1, 2, 3}, report[46:49])
	assert.True(t, protocol.ValidateCRC(protocol.CRCSeedOutput, report))
}

func TestEncodeDS4USB(t *testing.T) {
	report := protocol.Encode(ds4USB(), protocol.OutputFrame{
		LightbarG:  255,
		RumbleLeft: 128, RumbleRight: 64,
		PlayerLEDs: 0xFF, // DS4 has no player LEDs; must be ignored
		MuteLED:    true,
	})
	require.Len(t, report, 32)
	assert.Equal(t, uint8(0x05), report[0])
	assert.Equal(t, uint8(0x07), report[1])
	assert.Equal(t, uint8(64), report[4])
	assert.Equal(t, uint8(128), report[5])
	assert.Equal(t, []byte{0, 255, 0}, report[6:9])
}

func TestEncodeDS4BT(t *testing.T) {
	report := protocol.Encode(ds4BT(), protocol.OutputFrame{LightbarB: 9})
	require.Len(t, report, 79)
	assert.Equal(t, uint8(0x11), report[0])
	assert.Equal(t, uint8(0x80), report[1])
	assert.Equal(t, uint8(0xF7), report[3])
	assert.Equal(t, uint8(9), report[10])
	assert.True(t, protocol.ValidateCRC(protocol.CRCSeedOutput, report))
}

// Every layout must round-trip the symmetric frame fields.
func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	frames := []protocol.OutputFrame{
		{},
		{LightbarR: 255, LightbarG: 140, LightbarB: 0},
		{RumbleLeft: 180, RumbleRight: 180},
		{LightbarR: 0, LightbarG: 100, LightbarB: 255, RumbleLeft: 1, RumbleRight: 255},
	}
	for _, l := range protocol.Layouts() {
		for _, want := range frames {
			report := protocol.Encode(l, want)
			require.Len(t, report, l.OutputLen)

			got, err := protocol.DecodeFrame(l, report)
			require.NoError(t, err)
			assert.Equal(t, want.LightbarR, got.LightbarR)
			assert.Equal(t, want.LightbarG, got.LightbarG)
			assert.Equal(t, want.LightbarB, got.LightbarB)
			assert.Equal(t, want.RumbleLeft, got.RumbleLeft)
			assert.Equal(t, want.RumbleRight, got.RumbleRight)
		}
	}
}

func TestDecodeFrameRejectsWrongLength(t *testing.T) {
	_, err := protocol.DecodeFrame(dualSenseUSB(), make([]byte, 47))
	assert.ErrorIs(t, err, protocol.ErrBadReport)
}

func TestLayoutTableComplete(t *testing.T) {
	assert.Len(t, protocol.Layouts(), 4)
	for _, l := range protocol.Layouts() {
		assert.NotZero(t, l.OutputLen)
		assert.NotZero(t, l.InputReportID)
		assert.NotZero(t, l.FeatureReportID)
	}
}
