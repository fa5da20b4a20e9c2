package agentstate

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FilePrefix is the session file naming convention: the session id is
// everything after the prefix. A paired "<file>_start" record holds the
// working start time as decimal unix seconds.
const (
	FilePrefix  = "agentpad_agent_"
	startSuffix = "_start"
)

// Config tunes the store. Zero durations are replaced by the kong defaults
// at flag-parse time.
type Config struct {
	Dir          string        `help:"Directory watched for agent session files." default:""`
	PollInterval time.Duration `help:"Session file poll interval." default:"500ms"`
	StaleTimeout time.Duration `help:"Working sessions older than this are demoted to idle." default:"10m"`
	IdleTimeout  time.Duration `help:"Done/error sessions older than this are rewritten to idle." default:"30s"`
	IdleReminder time.Duration `help:"Continuous idle beyond this fires a one-shot reminder." default:"3m"`
	DoneMinimum  time.Duration `help:"Minimum working duration for a done notification." default:"10m"`
}

// Transition is one observed per-session state change.
type Transition struct {
	SessionID string
	From, To  State
}

// Snapshot is the result of one poll.
type Snapshot struct {
	Status        State
	Notifications []Notification
	Transitions   []Transition
}

type session struct {
	state State
	// since is when the current state was first observed (store clock).
	since time.Time
	// workingSince comes from the start record while Working; zero otherwise.
	workingSince time.Time
	// reminderFired debounces the idle reminder for this idle stretch.
	reminderFired bool
}

// Store aggregates agent session files. Not safe for concurrent use; the
// output loop is its only caller.
type Store struct {
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
	sessions map[string]*session
}

func NewStore(cfg Config, logger *slog.Logger) *Store {
	return &Store{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// PollInterval returns the configured poll cadence for the caller's ticker.
func (s *Store) PollInterval() time.Duration {
	return s.cfg.PollInterval
}

// Poll reads every session file once and returns the aggregate view.
// External writers race these reads; any file that vanishes or holds
// garbage is treated as absent for this cycle.
func (s *Store) Poll() Snapshot {
	now := s.now()
	var snap Snapshot

	observed := s.readSessions()

	for id, state := range observed {
		sess, known := s.sessions[id]
		if !known {
			sess = &session{state: state, since: now}
			if state == StateWorking {
				sess.workingSince = s.readStart(id, now)
			}
			s.sessions[id] = sess
			snap.Transitions = append(snap.Transitions, Transition{SessionID: id, To: state})
		} else if state != sess.state {
			snap.Transitions = append(snap.Transitions, Transition{SessionID: id, From: sess.state, To: state})

			if sess.state == StateWorking && state == StateDone &&
				!sess.workingSince.IsZero() && now.Sub(sess.workingSince) >= s.cfg.DoneMinimum {
				snap.Notifications = append(snap.Notifications, NotifyDone)
			}

			sess.since = now
			if state == StateWorking {
				sess.workingSince = s.readStart(id, now)
			} else {
				sess.workingSince = time.Time{}
			}
			if state != StateIdle {
				sess.reminderFired = false
			}
			sess.state = state
		}

		switch sess.state {
		case StateWorking:
			// A crashed writer must not pin the aggregate at Working.
			if !sess.workingSince.IsZero() && now.Sub(sess.workingSince) > s.cfg.StaleTimeout {
				s.logger.Warn("demoting stale working session", "session", id,
					"working_for", now.Sub(sess.workingSince).Round(time.Second))
				s.demoteToIdle(id, sess, now)
				snap.Transitions = append(snap.Transitions, Transition{SessionID: id, From: StateWorking, To: StateIdle})
			}
		case StateDone, StateError:
			if sess.state == StateError {
				s.removeStart(id)
			}
			if s.cfg.IdleTimeout > 0 && now.Sub(sess.since) >= s.cfg.IdleTimeout {
				s.logger.Info("auto-idle", "session", id, "from", sess.state.String())
				s.demoteToIdle(id, sess, now)
				snap.Transitions = append(snap.Transitions, Transition{SessionID: id, From: observed[id], To: StateIdle})
			}
		}

		if sess.state == StateIdle && !sess.reminderFired && now.Sub(sess.since) >= s.cfg.IdleReminder {
			sess.reminderFired = true
			snap.Notifications = append(snap.Notifications, NotifyIdleReminder)
			// Reminder delivered; the file has served its purpose.
			s.removeSessionFiles(id)
			delete(s.sessions, id)
		}
	}

	// Sessions whose files vanished drop out of the aggregate.
	for id := range s.sessions {
		if _, ok := observed[id]; !ok {
			delete(s.sessions, id)
		}
	}

	states := make([]State, 0, len(s.sessions))
	for _, sess := range s.sessions {
		states = append(states, sess.state)
	}
	snap.Status = Aggregate(states)
	return snap
}

// readSessions scans the directory for session files and parses each body.
func (s *Store) readSessions() map[string]State {
	out := make(map[string]State)
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		s.logger.Debug("state directory unreadable", "dir", s.cfg.Dir, "error", err)
		return out
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, FilePrefix) || strings.HasSuffix(name, startSuffix) {
			continue
		}
		id := strings.TrimPrefix(name, FilePrefix)
		if id == "" {
			continue
		}
		body, err := os.ReadFile(filepath.Join(s.cfg.Dir, name))
		if err != nil {
			continue
		}
		state, ok := ParseState(string(body))
		if !ok {
			continue
		}
		out[id] = state
	}
	return out
}

// readStart reads a session's start record. A missing or malformed record
// falls back to the observation time so staleness still terminates.
func (s *Store) readStart(id string, fallback time.Time) time.Time {
	body, err := os.ReadFile(s.startPath(id))
	if err != nil {
		return fallback
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return fallback
	}
	return time.Unix(secs, 0)
}

// demoteToIdle rewrites the session file so external observers converge,
// clears the start record, and resets in-memory state. Happens at most once
// per stretch because the in-memory state flips immediately.
func (s *Store) demoteToIdle(id string, sess *session, now time.Time) {
	if err := os.WriteFile(s.statePath(id), []byte("idle"), 0o644); err != nil {
		s.logger.Warn("rewriting session file failed", "session", id, "error", err)
	}
	s.removeStart(id)
	sess.state = StateIdle
	sess.since = now
	sess.workingSince = time.Time{}
	sess.reminderFired = false
}

func (s *Store) removeSessionFiles(id string) {
	if err := os.Remove(s.statePath(id)); err != nil && !os.IsNotExist(err) {
		s.logger.Debug("removing session file failed", "session", id, "error", err)
	}
	s.removeStart(id)
}

func (s *Store) removeStart(id string) {
	if err := os.Remove(s.startPath(id)); err != nil && !os.IsNotExist(err) {
		s.logger.Debug("removing start record failed", "session", id, "error", err)
	}
}

func (s *Store) statePath(id string) string {
	return filepath.Join(s.cfg.Dir, FilePrefix+id)
}

func (s *Store) startPath(id string) string {
	return s.statePath(id) + startSuffix
}
