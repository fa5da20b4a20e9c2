// Package hidio wraps raw HID access for supported controllers: enumeration
// with the gamepad usage filter, non-blocking reads, output report writes
// and the Bluetooth extended-mode feature report.
package hidio

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sstallion/go-hid"

	"github.com/agentpad/agentpad/internal/controller"
	"github.com/agentpad/agentpad/internal/log"
)

// ErrDisconnected marks an OS-level read or write failure; the session is
// over and the caller should rescan.
var ErrDisconnected = errors.New("controller disconnected")

// ErrNoDevice is returned by Scan when no supported controller is present.
var ErrNoDevice = errors.New("no supported controller found")

const readTimeout = 5 * time.Millisecond

// Init initializes the hidapi backend. Call once before any other
// function; a failure here is fatal for the process.
func Init() error {
	if err := hid.Init(); err != nil {
		return fmt.Errorf("hidapi init: %w", err)
	}
	return nil
}

// Exit releases the hidapi backend.
func Exit() error {
	return hid.Exit()
}

// Scan enumerates HID devices and returns the best supported controller:
// the gamepad interface of a known model, preferring USB over Bluetooth so
// a cabled controller wins when both transports expose the same unit.
func Scan(logger *slog.Logger) (controller.Identity, error) {
	var best controller.Identity
	found := false

	err := hid.Enumerate(controller.VendorSony, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		model, ok := controller.Identify(info.VendorID, info.ProductID)
		if !ok {
			return nil
		}
		if info.UsagePage != controller.GamepadUsagePage || info.Usage != controller.GamepadUsage {
			return nil
		}
		id := controller.Identity{
			Model:     model,
			Transport: controller.DetectTransport(info.Path),
			Path:      info.Path,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
		}
		logger.Debug("controller candidate",
			"model", model.String(), "transport", id.Transport.String(), "path", info.Path)

		if !found || (best.Transport == controller.TransportBluetooth && id.Transport == controller.TransportUSB) {
			best = id
			found = true
		}
		return nil
	})
	if err != nil {
		return controller.Identity{}, fmt.Errorf("enumerate: %w", err)
	}
	if !found {
		return controller.Identity{}, ErrNoDevice
	}
	return best, nil
}

// Handle is an open controller. Reads and writes are independent streams;
// the input and output loops may use one Handle concurrently, but each
// direction has a single owner.
type Handle struct {
	dev    *hid.Device
	id     controller.Identity
	logger *slog.Logger
	raw    log.RawLogger
}

// Open opens the controller at the identity's path.
func Open(id controller.Identity, logger *slog.Logger, raw log.RawLogger) (*Handle, error) {
	dev, err := hid.OpenPath(id.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id.Path, err)
	}
	return &Handle{dev: dev, id: id, logger: logger, raw: raw}, nil
}

func (h *Handle) Identity() controller.Identity {
	return h.id
}

// Read fills buf with the next input report. Returns 0 bytes when no
// report arrived within the poll timeout; that is not an error. An OS
// failure wraps ErrDisconnected.
func (h *Handle) Read(buf []byte) (int, error) {
	n, err := h.dev.ReadWithTimeout(buf, readTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	if n > 0 {
		h.raw.Report(true, buf[:n])
	}
	return n, nil
}

// Write sends one output report. Failures are logged and reported as a
// bool so the output loop can keep its cadence; a wedged transport shows
// up as repeated false returns until the read side notices the disconnect.
func (h *Handle) Write(report []byte) bool {
	h.raw.Report(false, report)
	if _, err := h.dev.Write(report); err != nil {
		h.logger.Debug("output report write failed", "error", err)
		return false
	}
	return true
}

// ActivateExtendedMode requests the calibration feature report, which
// switches a Bluetooth controller from its compatibility input layout to
// the full extended report. USB controllers do not need it.
func (h *Handle) ActivateExtendedMode(featureID byte) error {
	buf := make([]byte, 64)
	buf[0] = featureID
	if _, err := h.dev.GetFeatureReport(buf); err != nil {
		return fmt.Errorf("feature report 0x%02X: %w", featureID, err)
	}
	return nil
}

func (h *Handle) Close() error {
	return h.dev.Close()
}
