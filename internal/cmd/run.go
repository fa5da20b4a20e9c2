package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/agentpad/agentpad/internal/actions"
	"github.com/agentpad/agentpad/internal/agentstate"
	"github.com/agentpad/agentpad/internal/configpaths"
	"github.com/agentpad/agentpad/internal/daemon"
	"github.com/agentpad/agentpad/internal/hidio"
	"github.com/agentpad/agentpad/internal/journal"
	"github.com/agentpad/agentpad/internal/log"
	"github.com/agentpad/agentpad/internal/mapper"
	"github.com/agentpad/agentpad/internal/render"
)

const journalFileName = "agentpad.db"

// Run is the daemon command: attach to a controller and bridge it to the
// agent sessions until interrupted.
type Run struct {
	MapperConfig mapper.Config     `embed:"" prefix:"mapper."`
	AgentsConfig agentstate.Config `embed:"" prefix:"agents."`
	Lightbar     render.Config     `embed:"" prefix:"lightbar."`
	DaemonConfig daemon.Config     `embed:"" prefix:"daemon."`

	JournalPath string `help:"Session journal database path (default: config dir)" env:"AGENTPAD_JOURNAL"`
	NoJournal   bool   `help:"Disable the session transition journal"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if r.AgentsConfig.Dir == "" {
		r.AgentsConfig.Dir = configpaths.DefaultStateDir()
	}
	logger.Info("Starting agentpad daemon", "state_dir", r.AgentsConfig.Dir)

	// The HID backend is the one dependency we cannot run without.
	if err := hidio.Init(); err != nil {
		return err
	}
	defer hidio.Exit()

	selector := &mapper.Selector{}
	m, err := mapper.NewMapper(r.MapperConfig, selector, logger)
	if err != nil {
		return fmt.Errorf("button bindings: %w", err)
	}

	renderer, err := render.NewRenderer(r.Lightbar)
	if err != nil {
		return fmt.Errorf("lightbar config: %w", err)
	}

	store := agentstate.NewStore(r.AgentsConfig, logger)

	var jnl *journal.Journal
	if !r.NoJournal {
		path, err := r.journalPath()
		if err == nil {
			jnl, err = journal.Open(ctx, path, logger)
		}
		if err != nil {
			logger.Warn("session journal unavailable, continuing without", "error", err)
		} else {
			defer jnl.Close()
			logger.Debug("session journal open", "path", path, "run_id", jnl.RunID())
		}
	}

	sink := actions.NewSink(logger, nil)

	d := daemon.New(r.DaemonConfig, logger, rawLogger, m, selector, store, renderer, jnl, sink)
	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Shutting down")
	return nil
}

func (r *Run) journalPath() (string, error) {
	if r.JournalPath != "" {
		return r.JournalPath, nil
	}
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, journalFileName), nil
}
