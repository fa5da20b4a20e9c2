// Package agentstate watches a directory of agent session files and reduces
// them to one aggregate status plus edge-triggered notifications. External
// writers (shell hooks, agent wrappers) own the files; this package only
// reads, demotes stale sessions and prunes idle leftovers.
package agentstate

import "strings"

// State is one agent session's lifecycle state as written to its file.
type State int

const (
	StateIdle State = iota
	StateWorking
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateWorking:
		return "working"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// ParseState reads a state file body. Surrounding whitespace is ignored and
// matching is case-insensitive; anything else is not a state.
func ParseState(s string) (State, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return StateIdle, true
	case "working":
		return StateWorking, true
	case "done":
		return StateDone, true
	case "error":
		return StateError, true
	default:
		return StateIdle, false
	}
}

// priority orders states for aggregation: Working > Error > Done > Idle.
func (s State) priority() int {
	switch s {
	case StateWorking:
		return 3
	case StateError:
		return 2
	case StateDone:
		return 1
	default:
		return 0
	}
}

// Aggregate reduces a set of session states to the highest-priority one.
// An empty set is Idle.
func Aggregate(states []State) State {
	agg := StateIdle
	for _, s := range states {
		if s.priority() > agg.priority() {
			agg = s
		}
	}
	return agg
}

// Notification is an edge-triggered event derived from session transitions.
type Notification int

const (
	// NotifyDone fires when a session finishes a sufficiently long task.
	NotifyDone Notification = iota
	// NotifyIdleReminder fires once per session left idle too long.
	NotifyIdleReminder
)

func (n Notification) String() string {
	if n == NotifyIdleReminder {
		return "idle-reminder"
	}
	return "done"
}
