package mapper

import "time"

// Config tunes the input mapper. Zero values are replaced by the kong
// defaults at flag-parse time; NewMapper does not re-default.
type Config struct {
	Deadzone            float64 `help:"Normalized stick dead zone radius." default:"0.12"`
	Curve               float64 `help:"Stick sensitivity power curve exponent." default:"1.5"`
	ScrollMaxTicks      float64 `help:"Scroll ticks per cycle at full right-stick deflection." default:"0.6"`
	MouseMaxSpeed       float64 `help:"Mouse pixels per cycle at full left-stick deflection." default:"14"`
	TouchpadSensitivity float64 `help:"Multiplier applied to touchpad deltas when the touchpad drives the mouse." default:"1.4"`

	RepeatDelay    time.Duration `help:"Delay before the d-pad starts auto-repeating." default:"400ms"`
	RepeatInterval time.Duration `help:"Interval between d-pad auto-repeats." default:"150ms"`

	TmuxPrefix  string            `help:"Prefix chord wrapped around bare keys in the tmux profile." default:"Ctrl+B"`
	Buttons     map[string]string `help:"Default profile binding overrides (control=sequence)."`
	TmuxButtons map[string]string `help:"Tmux profile binding overrides (control=sequence)."`
}
