package render

import "time"

// Step is one segment of a rumble pattern: both motor intensities held for
// a duration.
type Step struct {
	Left, Right uint8
	Duration    time.Duration
}

// Pattern is a finite rumble sequence. Patterns always run to completion;
// the Player drops triggers that arrive mid-playback.
type Pattern []Step

// DonePattern is the task-finished notification: two short pulses.
func DonePattern() Pattern {
	return Pattern{
		{Left: 180, Right: 180, Duration: 120 * time.Millisecond},
		{Duration: 100 * time.Millisecond},
		{Left: 180, Right: 180, Duration: 120 * time.Millisecond},
	}
}

// IdleReminderPattern is a single strong attention pulse.
func IdleReminderPattern() Pattern {
	return Pattern{
		{Left: 255, Right: 255, Duration: 300 * time.Millisecond},
	}
}

// ErrorPattern is the buzz for a transition into the error state: three
// rapid ticks, distinct from both notification patterns.
func ErrorPattern() Pattern {
	return Pattern{
		{Left: 200, Right: 200, Duration: 60 * time.Millisecond},
		{Duration: 60 * time.Millisecond},
		{Left: 200, Right: 200, Duration: 60 * time.Millisecond},
		{Duration: 60 * time.Millisecond},
		{Left: 200, Right: 200, Duration: 60 * time.Millisecond},
	}
}

// Player advances a pattern in step with the output frame cadence. At most
// one pattern is in flight; Start while playing is a no-op. Not safe for
// concurrent use.
type Player struct {
	steps     Pattern
	idx       int
	remaining time.Duration
}

// Playing reports whether a pattern is mid-flight.
func (p *Player) Playing() bool {
	return p.idx < len(p.steps)
}

// Start begins a pattern. Returns false if one is already playing.
func (p *Player) Start(pat Pattern) bool {
	if p.Playing() || len(pat) == 0 {
		return false
	}
	p.steps = pat
	p.idx = 0
	p.remaining = pat[0].Duration
	return true
}

// Sample returns the motor intensities for the next frame and consumes
// tick worth of playback time. Motors read zero once the pattern ends.
func (p *Player) Sample(tick time.Duration) (left, right uint8) {
	if !p.Playing() {
		return 0, 0
	}
	left, right = p.steps[p.idx].Left, p.steps[p.idx].Right
	p.remaining -= tick
	for p.remaining <= 0 {
		p.idx++
		if !p.Playing() {
			p.steps = nil
			break
		}
		p.remaining += p.steps[p.idx].Duration
	}
	return left, right
}
