package render_test

import (
	"testing"
	"time"

	"github.com/agentpad/agentpad/internal/agentstate"
	"github.com/agentpad/agentpad/internal/mapper"
	"github.com/agentpad/agentpad/internal/protocol"
	"github.com/agentpad/agentpad/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() render.Config {
	return render.Config{
		IdleColor:    "255,140,0",
		WorkingColor: "0,100,255",
		DoneColor:    "0,255,0",
		ErrorColor:   "255,0,0",
		PulsePeriod:  2 * time.Second,
	}
}

func TestSolidColors(t *testing.T) {
	r, err := render.NewRenderer(defaultConfig())
	require.NoError(t, err)

	cr, cg, cb := r.Lightbar(agentstate.StateIdle, 0)
	assert.Equal(t, [3]uint8{255, 140, 0}, [3]uint8{cr, cg, cb})

	// Solid states ignore elapsed time.
	cr2, cg2, cb2 := r.Lightbar(agentstate.StateIdle, 5*time.Second)
	assert.Equal(t, [3]uint8{cr, cg, cb}, [3]uint8{cr2, cg2, cb2})

	cr, cg, cb = r.Lightbar(agentstate.StateDone, 0)
	assert.Equal(t, [3]uint8{0, 255, 0}, [3]uint8{cr, cg, cb})

	cr, cg, cb = r.Lightbar(agentstate.StateError, 0)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{cr, cg, cb})
}

func TestWorkingPulse(t *testing.T) {
	r, err := render.NewRenderer(defaultConfig())
	require.NoError(t, err)

	_, _, b0 := r.Lightbar(agentstate.StateWorking, 0)
	_, _, bMax := r.Lightbar(agentstate.StateWorking, 500*time.Millisecond)  // quarter period
	_, _, bMin := r.Lightbar(agentstate.StateWorking, 1500*time.Millisecond) // three-quarter period

	assert.Greater(t, bMax, bMin)
	assert.Greater(t, b0, bMin)
	assert.Less(t, b0, bMax)

	// Peaks approach the 1.0 and 0.3 brightness bounds.
	assert.GreaterOrEqual(t, bMax, uint8(254))
	assert.InDelta(t, 0.3*255, float64(bMin), 1.5)
}

func TestBadColorRejected(t *testing.T) {
	for _, bad := range []string{"", "1,2", "256,0,0", "a,b,c", "1,2,3,4"} {
		cfg := defaultConfig()
		cfg.IdleColor = bad
		_, err := render.NewRenderer(cfg)
		assert.Error(t, err, "color %q", bad)
	}
}

func TestPlayerLEDs(t *testing.T) {
	assert.Equal(t, protocol.PlayerLEDCenter, render.PlayerLEDs(mapper.ProfileDefault))
	assert.Equal(t, protocol.PlayerLEDInnerPair, render.PlayerLEDs(mapper.ProfileTmux))
}

func TestFrame(t *testing.T) {
	r, err := render.NewRenderer(defaultConfig())
	require.NoError(t, err)

	f := r.Frame(agentstate.StateDone, 0, mapper.ProfileTmux, true, 10, 20)
	assert.Equal(t, protocol.OutputFrame{
		LightbarG:   255,
		RumbleLeft:  10,
		RumbleRight: 20,
		PlayerLEDs:  protocol.PlayerLEDInnerPair,
		MuteLED:     true,
	}, f)
}

func TestDonePatternShape(t *testing.T) {
	pat := render.DonePattern()
	require.Len(t, pat, 3)
	assert.Equal(t, uint8(180), pat[0].Left)
	assert.Equal(t, uint8(0), pat[1].Left) // pause
	assert.Equal(t, uint8(180), pat[2].Left)
}

func TestErrorPatternIsDistinct(t *testing.T) {
	pat := render.ErrorPattern()
	require.Len(t, pat, 5)
	assert.Equal(t, uint8(200), pat[0].Left)
	assert.Equal(t, uint8(0), pat[1].Left)
	assert.NotEqual(t, render.DonePattern(), pat)
}

func TestPlayerRunsToCompletion(t *testing.T) {
	var p render.Player
	require.True(t, p.Start(render.IdleReminderPattern()))

	tick := 100 * time.Millisecond
	var samples []uint8
	for p.Playing() {
		l, _ := p.Sample(tick)
		samples = append(samples, l)
	}
	assert.Equal(t, []uint8{255, 255, 255}, samples)

	// Finished: motors off.
	l, r := p.Sample(tick)
	assert.Equal(t, uint8(0), l)
	assert.Equal(t, uint8(0), r)
}

func TestPlayerDropsOverlappingTriggers(t *testing.T) {
	var p render.Player
	require.True(t, p.Start(render.DonePattern()))
	assert.False(t, p.Start(render.IdleReminderPattern()), "second trigger while playing must be dropped")

	// Drain.
	for p.Playing() {
		p.Sample(33 * time.Millisecond)
	}
	assert.True(t, p.Start(render.IdleReminderPattern()), "player must accept a new pattern once idle")
}

func TestPlayerStepTransitions(t *testing.T) {
	var p render.Player
	require.True(t, p.Start(render.DonePattern()))

	// 120ms pulse consumed in four 33ms ticks, then the pause shows zeros.
	var seen []uint8
	for i := 0; i < 10 && p.Playing(); i++ {
		l, _ := p.Sample(33 * time.Millisecond)
		seen = append(seen, l)
	}
	assert.Contains(t, seen, uint8(180))
	assert.Contains(t, seen, uint8(0))
}
