// Package daemon runs the connection lifecycle: scan for a controller,
// open it, then drive the input loop (reports in, actions out) and the
// output loop (status in, frames out) until the device goes away, and
// start over. The two loops share only the profile selector, the mic-mute
// flag and the device handle; the output loop is the handle's sole writer.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentpad/agentpad/internal/actions"
	"github.com/agentpad/agentpad/internal/agentstate"
	"github.com/agentpad/agentpad/internal/controller"
	"github.com/agentpad/agentpad/internal/hidio"
	"github.com/agentpad/agentpad/internal/journal"
	"github.com/agentpad/agentpad/internal/log"
	"github.com/agentpad/agentpad/internal/mapper"
	"github.com/agentpad/agentpad/internal/protocol"
	"github.com/agentpad/agentpad/internal/render"
)

// Config tunes connection management and frame cadence.
type Config struct {
	RescanInterval time.Duration `help:"Delay between scans while no controller is present." default:"2s"`
	OutputInterval time.Duration `help:"Output frame cadence." default:"33ms"`
	ReconnectDelay time.Duration `help:"Settle time after a disconnect before rescanning." default:"1s"`
}

// device is the part of the HID handle the loops need. Read belongs to the
// input loop, Write to the output loop.
type device interface {
	Read(buf []byte) (int, error)
	Write(report []byte) bool
}

// Daemon owns one controller at a time.
type Daemon struct {
	cfg      Config
	logger   *slog.Logger
	raw      log.RawLogger
	mapper   *mapper.Mapper
	selector *mapper.Selector
	store    *agentstate.Store
	renderer *render.Renderer
	journal  *journal.Journal
	sink     actions.Sink

	// micMuted mirrors the system microphone state as far as we know it;
	// the mute LED follows this flag.
	micMuted atomic.Bool

	// parseErrs counts bad input reports on the current connection.
	parseErrs int
}

func New(cfg Config, logger *slog.Logger, raw log.RawLogger, m *mapper.Mapper, sel *mapper.Selector,
	store *agentstate.Store, renderer *render.Renderer, jnl *journal.Journal, sink actions.Sink) *Daemon {
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		raw:      raw,
		mapper:   m,
		selector: sel,
		store:    store,
		renderer: renderer,
		journal:  jnl,
		sink:     sink,
	}
}

// Run blocks until ctx is cancelled, cycling through scan, connect, serve
// and disconnect forever.
func (d *Daemon) Run(ctx context.Context) error {
	for {
		id, err := d.scan(ctx)
		if err != nil {
			return err
		}
		d.logger.Info("controller found",
			"model", id.Model.String(), "transport", id.Transport.String())

		if err := d.serve(ctx, id); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.logger.Info("controller session ended", "error", err)
		}

		if err := sleepCtx(ctx, d.cfg.ReconnectDelay); err != nil {
			return err
		}
	}
}

// scan polls until a supported controller appears or ctx ends.
func (d *Daemon) scan(ctx context.Context) (controller.Identity, error) {
	for {
		id, err := hidio.Scan(d.logger)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, hidio.ErrNoDevice) {
			d.logger.Warn("device scan failed", "error", err)
		}
		if err := sleepCtx(ctx, d.cfg.RescanInterval); err != nil {
			return controller.Identity{}, err
		}
	}
}

// serve owns one connection from open to close.
func (d *Daemon) serve(ctx context.Context, id controller.Identity) error {
	handle, err := hidio.Open(id, d.logger, d.raw)
	if err != nil {
		return err
	}
	defer handle.Close()

	layout := protocol.Resolve(id.Model, id.Transport)

	// Bluetooth controllers boot in a reduced compatibility layout; the
	// feature report read flips them to the full one. If it fails we keep
	// the connection and live with degraded input.
	if id.Transport == controller.TransportBluetooth {
		if err := handle.ActivateExtendedMode(layout.FeatureReportID); err != nil {
			d.logger.Warn("extended mode activation failed, input may be degraded", "error", err)
		}
	}

	d.mapper.Reset()
	d.parseErrs = 0

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.outputLoop(sessCtx, handle, layout)
	}()

	err = d.inputLoop(sessCtx, handle, layout)
	cancel()
	wg.Wait()
	return err
}

// inputLoop reads reports and feeds the mapper until the device fails or
// the session is cancelled.
func (d *Daemon) inputLoop(ctx context.Context, handle device, layout protocol.Layout) error {
	buf := make([]byte, 128)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := handle.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}

		state, err := protocol.Decode(layout, buf[:n])
		if err != nil {
			d.parseErrs++
			if d.parseErrs%100 == 1 {
				d.logger.Warn("input report rejected", "error", err, "total", d.parseErrs)
			}
			continue
		}

		for _, a := range d.mapper.Update(state, time.Now()) {
			if _, ok := a.(actions.ToggleMic); ok {
				d.micMuted.Store(!d.micMuted.Load())
			}
			if err := actions.Dispatch(d.sink, a); err != nil {
				d.logger.Warn("action dispatch failed", "error", err)
			}
		}
	}
}

// outputLoop renders frames at a fixed cadence and polls the agent state
// store, until the session is cancelled. Write failures do not end the
// session; the read side detects real disconnects.
func (d *Daemon) outputLoop(ctx context.Context, handle device, layout protocol.Layout) {
	frames := time.NewTicker(d.cfg.OutputInterval)
	defer frames.Stop()
	polls := time.NewTicker(d.store.PollInterval())
	defer polls.Stop()

	status := agentstate.StateIdle
	statusSince := time.Now()
	var player render.Player

	for {
		select {
		case <-ctx.Done():
			// Motors off, lightbar back to idle before letting go.
			frame := d.renderer.Frame(agentstate.StateIdle, 0, d.selector.Get(), d.micMuted.Load(), 0, 0)
			handle.Write(protocol.Encode(layout, frame))
			return

		case <-polls.C:
			snap := d.store.Poll()
			for _, t := range snap.Transitions {
				d.journal.RecordTransition(ctx, t.SessionID, t.From.String(), t.To.String())
			}
			if snap.Status != status {
				d.logger.Info("status changed", "from", status.String(), "to", snap.Status.String())
				if snap.Status == agentstate.StateError {
					player.Start(render.ErrorPattern())
				}
				status = snap.Status
				statusSince = time.Now()
			}
			for _, n := range snap.Notifications {
				pattern := render.DonePattern()
				if n == agentstate.NotifyIdleReminder {
					pattern = render.IdleReminderPattern()
				}
				if player.Start(pattern) {
					d.logger.Info("notification rumble", "kind", n.String())
				}
			}

		case <-frames.C:
			left, right := player.Sample(d.cfg.OutputInterval)
			frame := d.renderer.Frame(status, time.Since(statusSince), d.selector.Get(), d.micMuted.Load(), left, right)
			handle.Write(protocol.Encode(layout, frame))
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
