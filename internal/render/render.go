// Package render maps the aggregate agent status onto controller feedback:
// lightbar color (with a sinusoidal pulse while working), rumble patterns
// for notifications, and the player/mute LEDs. Rendering is pure; the
// output loop owns timing and device writes.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agentpad/agentpad/internal/agentstate"
	"github.com/agentpad/agentpad/internal/mapper"
	"github.com/agentpad/agentpad/internal/protocol"
)

// Config holds the lightbar palette as "R,G,B" strings so colors can come
// straight from flags or a config file.
type Config struct {
	IdleColor    string        `help:"Lightbar color while idle (R,G,B)." default:"255,140,0"`
	WorkingColor string        `help:"Lightbar color while working (R,G,B)." default:"0,100,255"`
	DoneColor    string        `help:"Lightbar color when done (R,G,B)." default:"0,255,0"`
	ErrorColor   string        `help:"Lightbar color on error (R,G,B)." default:"255,0,0"`
	PulsePeriod  time.Duration `help:"Full working-pulse cycle length." default:"2s"`
}

type color struct {
	r, g, b uint8
}

func parseColor(s string) (color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color{}, fmt.Errorf("color %q: want R,G,B", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color{}, fmt.Errorf("color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return color{ch[0], ch[1], ch[2]}, nil
}

// Renderer computes output frames from status. Safe for concurrent use;
// it holds no mutable state.
type Renderer struct {
	idle, working, done, errc color
	period                    time.Duration
}

func NewRenderer(cfg Config) (*Renderer, error) {
	r := &Renderer{period: cfg.PulsePeriod}
	var err error
	if r.idle, err = parseColor(cfg.IdleColor); err != nil {
		return nil, err
	}
	if r.working, err = parseColor(cfg.WorkingColor); err != nil {
		return nil, err
	}
	if r.done, err = parseColor(cfg.DoneColor); err != nil {
		return nil, err
	}
	if r.errc, err = parseColor(cfg.ErrorColor); err != nil {
		return nil, err
	}
	if r.period <= 0 {
		return nil, fmt.Errorf("pulse period must be positive, got %v", r.period)
	}
	return r, nil
}

// Lightbar returns the RGB for a status. elapsed is time since the status
// was entered; only the working pulse depends on it.
func (r *Renderer) Lightbar(status agentstate.State, elapsed time.Duration) (uint8, uint8, uint8) {
	switch status {
	case agentstate.StateWorking:
		// Brightness swings between 0.3 and 1.0 over one period.
		phase := (elapsed.Seconds() / r.period.Seconds()) * 2 * math.Pi
		brightness := 0.65 + 0.35*math.Sin(phase)
		return uint8(float64(r.working.r) * brightness),
			uint8(float64(r.working.g) * brightness),
			uint8(float64(r.working.b) * brightness)
	case agentstate.StateDone:
		return r.done.r, r.done.g, r.done.b
	case agentstate.StateError:
		return r.errc.r, r.errc.g, r.errc.b
	default:
		return r.idle.r, r.idle.g, r.idle.b
	}
}

// PlayerLEDs is a pure function of the active profile, so a glance at the
// controller shows which binding table is live.
func PlayerLEDs(p mapper.Profile) uint8 {
	if p == mapper.ProfileTmux {
		return protocol.PlayerLEDInnerPair
	}
	return protocol.PlayerLEDCenter
}

// Frame composes one output frame. Rumble comes from the caller's pattern
// player; everything else derives from status, profile and mic state.
func (r *Renderer) Frame(status agentstate.State, elapsed time.Duration, profile mapper.Profile, micMuted bool, rumbleLeft, rumbleRight uint8) protocol.OutputFrame {
	lr, lg, lb := r.Lightbar(status, elapsed)
	return protocol.OutputFrame{
		LightbarR:   lr,
		LightbarG:   lg,
		LightbarB:   lb,
		RumbleLeft:  rumbleLeft,
		RumbleRight: rumbleRight,
		PlayerLEDs:  PlayerLEDs(profile),
		MuteLED:     micMuted,
	}
}
