package mapper

import "sync/atomic"

// Profile selects which binding table the mapper consults. Exactly one is
// active at a time; switching is instantaneous and carries no transition
// state.
type Profile int32

const (
	ProfileDefault Profile = iota
	ProfileTmux
)

func (p Profile) String() string {
	if p == ProfileTmux {
		return "tmux"
	}
	return "default"
}

// Selector shares the active profile between the input loop (writer) and
// the output loop (reader, for the player LED pattern). It is the only
// cross-loop signal besides the device handle.
type Selector struct {
	v atomic.Int32
}

func (s *Selector) Get() Profile {
	return Profile(s.v.Load())
}

func (s *Selector) Set(p Profile) {
	s.v.Store(int32(p))
}
