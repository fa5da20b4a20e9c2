//go:build !windows

package actions

import "log/slog"

// logSink stands in on platforms without an injection backend. Actions are
// logged at debug level and otherwise discarded.
type logSink struct {
	logger    *slog.Logger
	micToggle func() error
}

// NewSink builds the platform sink. micToggle is the external microphone
// capability; nil disables the mute button.
func NewSink(logger *slog.Logger, micToggle func() error) Sink {
	return &logSink{logger: logger, micToggle: micToggle}
}

func (s *logSink) SendKeys(seq KeySequence) error {
	s.logger.Debug("key sequence", "chords", len(seq.Chords))
	return nil
}

func (s *logSink) MoveMouse(dx, dy int) error {
	s.logger.Debug("mouse move", "dx", dx, "dy", dy)
	return nil
}

func (s *logSink) Click(button MouseButton) error {
	s.logger.Debug("mouse click", "button", button)
	return nil
}

func (s *logSink) Scroll(ticks int) error {
	s.logger.Debug("scroll", "ticks", ticks)
	return nil
}

func (s *logSink) ToggleMic() error {
	if s.micToggle == nil {
		s.logger.Debug("mute pressed but no microphone capability configured")
		return nil
	}
	return s.micToggle()
}
