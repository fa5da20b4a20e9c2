package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/agentpad/agentpad/internal/configpaths"
	"github.com/agentpad/agentpad/internal/journal"
)

// Sessions prints recent agent session transitions from the journal.
type Sessions struct {
	Limit       int    `help:"Number of transitions to show" default:"20"`
	JournalPath string `help:"Session journal database path (default: config dir)" env:"AGENTPAD_JOURNAL"`
}

// Run is called by Kong when the sessions command is executed.
func (s *Sessions) Run(logger *slog.Logger) error {
	path := s.JournalPath
	if path == "" {
		dir, err := configpaths.DefaultConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, journalFileName)
	}

	ctx := context.Background()
	jnl, err := journal.Open(ctx, path, logger)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	entries, err := jnl.Recent(ctx, s.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no recorded transitions")
		return nil
	}

	for _, e := range entries {
		from := e.From
		if from == "" {
			from = "-"
		}
		fmt.Printf("%s  %-12s %s -> %s\n",
			e.At.Local().Format(time.DateTime), e.SessionID, from, e.To)
	}
	return nil
}
