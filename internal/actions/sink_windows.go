//go:build windows

package actions

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard = 1

	keyEventKeyUp = 0x0002

	mouseEventMove      = 0x0001
	mouseEventLeftDown  = 0x0002
	mouseEventLeftUp    = 0x0004
	mouseEventRightDown = 0x0008
	mouseEventRightUp   = 0x0010
	mouseEventWheel     = 0x0800
	wheelDelta          = 120
)

// keyboardInput mirrors KEYBDINPUT; input pads the union out to the size of
// the largest member so SendInput accepts the array.
type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uint64
}

type keyInput struct {
	inputType uint32
	ki        keyboardInput
	padding   uint64
}

type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uint64
}

type mouseEvent struct {
	inputType uint32
	mi        mouseInput
}

var vkCodes = map[Key]uint16{
	KeyEnter:  0x0D,
	KeyEscape: 0x1B,
	KeyTab:    0x09,
	KeySpace:  0x20,
	KeyPageUp: 0x21,
	KeyPageDn: 0x22,
	KeyLeft:   0x25,
	KeyUp:     0x26,
	KeyRight:  0x27,
	KeyDown:   0x28,
	KeyShift:  0x10,
	KeyCtrl:   0x11,
	KeyAlt:    0x12,
}

func vkCode(k Key) (uint16, bool) {
	if vk, ok := vkCodes[k]; ok {
		return vk, true
	}
	if len(k) == 1 {
		c := k[0]
		if c >= 'a' && c <= 'z' {
			return uint16(c - 'a' + 0x41), true
		}
		if c >= '0' && c <= '9' {
			return uint16(c - '0' + 0x30), true
		}
	}
	return 0, false
}

type windowsSink struct {
	logger    *slog.Logger
	micToggle func() error
}

// NewSink builds the SendInput-backed sink. micToggle is the external
// microphone capability; nil disables the mute button.
func NewSink(logger *slog.Logger, micToggle func() error) Sink {
	return &windowsSink{logger: logger, micToggle: micToggle}
}

func (s *windowsSink) SendKeys(seq KeySequence) error {
	for _, chord := range seq.Chords {
		if err := s.sendChord(chord); err != nil {
			return err
		}
	}
	return nil
}

// sendChord sends modifier downs, the final key down+up, then modifier ups
// in reverse order, all in a single SendInput call so the combo lands
// atomically.
func (s *windowsSink) sendChord(chord Chord) error {
	if len(chord) == 0 {
		return nil
	}
	modifiers, main := chord[:len(chord)-1], chord[len(chord)-1]

	inputs := make([]keyInput, 0, len(chord)*2)
	push := func(k Key, flags uint32) error {
		vk, ok := vkCode(k)
		if !ok {
			return fmt.Errorf("no virtual key code for %q", k)
		}
		inputs = append(inputs, keyInput{
			inputType: inputKeyboard,
			ki:        keyboardInput{wVk: vk, dwFlags: flags},
		})
		return nil
	}

	for _, m := range modifiers {
		if err := push(m, 0); err != nil {
			return err
		}
	}
	if err := push(main, 0); err != nil {
		return err
	}
	if err := push(main, keyEventKeyUp); err != nil {
		return err
	}
	for i := len(modifiers) - 1; i >= 0; i-- {
		if err := push(modifiers[i], keyEventKeyUp); err != nil {
			return err
		}
	}

	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput sent %d of %d events: %v", n, len(inputs), err)
	}
	return nil
}

func (s *windowsSink) sendMouse(events []mouseEvent) error {
	if len(events) == 0 {
		return nil
	}
	n, _, err := procSendInput.Call(
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		unsafe.Sizeof(events[0]),
	)
	if int(n) != len(events) {
		return fmt.Errorf("SendInput sent %d of %d events: %v", n, len(events), err)
	}
	return nil
}

func (s *windowsSink) MoveMouse(dx, dy int) error {
	return s.sendMouse([]mouseEvent{{
		inputType: 0, // INPUT_MOUSE
		mi:        mouseInput{dx: int32(dx), dy: int32(dy), dwFlags: mouseEventMove},
	}})
}

func (s *windowsSink) Click(button MouseButton) error {
	down, up := uint32(mouseEventLeftDown), uint32(mouseEventLeftUp)
	if button == MouseRight {
		down, up = mouseEventRightDown, mouseEventRightUp
	}
	return s.sendMouse([]mouseEvent{
		{mi: mouseInput{dwFlags: down}},
		{mi: mouseInput{dwFlags: up}},
	})
}

func (s *windowsSink) Scroll(ticks int) error {
	return s.sendMouse([]mouseEvent{{
		mi: mouseInput{mouseData: uint32(int32(ticks * wheelDelta)), dwFlags: mouseEventWheel},
	}})
}

func (s *windowsSink) ToggleMic() error {
	if s.micToggle == nil {
		s.logger.Debug("mute pressed but no microphone capability configured")
		return nil
	}
	return s.micToggle()
}
