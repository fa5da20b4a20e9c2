package agentstate

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	cases := []struct {
		in   string
		want State
		ok   bool
	}{
		{"idle", StateIdle, true},
		{"WORKING", StateWorking, true},
		{"  done\n", StateDone, true},
		{"Error", StateError, true},
		{"unknown", StateIdle, false},
		{"", StateIdle, false},
	}
	for _, tc := range cases {
		got, ok := ParseState(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestAggregatePriority(t *testing.T) {
	assert.Equal(t, StateIdle, Aggregate(nil))
	assert.Equal(t, StateWorking, Aggregate([]State{StateWorking, StateIdle}))
	assert.Equal(t, StateError, Aggregate([]State{StateDone, StateError}))
	assert.Equal(t, StateWorking, Aggregate([]State{StateDone, StateError, StateWorking}))
	assert.Equal(t, StateDone, Aggregate([]State{StateIdle, StateDone}))
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *testClock, string) {
	t.Helper()
	dir := t.TempDir()
	clock := &testClock{t: time.Unix(1_700_000_000, 0)}
	store := NewStore(Config{
		Dir:          dir,
		PollInterval: 500 * time.Millisecond,
		StaleTimeout: 10 * time.Minute,
		IdleTimeout:  30 * time.Second,
		IdleReminder: 3 * time.Minute,
		DoneMinimum:  10 * time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	store.now = clock.now
	return store, clock, dir
}

func writeSession(t *testing.T, dir, id, state string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FilePrefix+id), []byte(state), 0o644))
}

func writeStart(t *testing.T, dir, id string, at time.Time) {
	t.Helper()
	body := fmt.Sprintf("%d", at.Unix())
	require.NoError(t, os.WriteFile(filepath.Join(dir, FilePrefix+id+startSuffix), []byte(body), 0o644))
}

func TestPollEmptyDirIsIdle(t *testing.T) {
	store, _, _ := newTestStore(t)
	snap := store.Poll()
	assert.Equal(t, StateIdle, snap.Status)
	assert.Empty(t, snap.Notifications)
}

func TestPollMissingDirIsIdle(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.cfg.Dir = filepath.Join(t.TempDir(), "nope")
	assert.Equal(t, StateIdle, store.Poll().Status)
}

func TestPollAggregates(t *testing.T) {
	store, clock, dir := newTestStore(t)
	writeSession(t, dir, "a", "working")
	writeStart(t, dir, "a", clock.t)
	writeSession(t, dir, "b", "idle")

	snap := store.Poll()
	assert.Equal(t, StateWorking, snap.Status)

	writeSession(t, dir, "a", "done")
	writeSession(t, dir, "b", "error")
	snap = store.Poll()
	assert.Equal(t, StateError, snap.Status)
}

func TestGarbageFilesAreAbsent(t *testing.T) {
	store, _, dir := newTestStore(t)
	writeSession(t, dir, "a", "definitely not a state")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("working"), 0o644))

	assert.Equal(t, StateIdle, store.Poll().Status)
}

func TestStaleWorkingDemotedOnce(t *testing.T) {
	store, clock, dir := newTestStore(t)
	writeSession(t, dir, "a", "working")
	writeStart(t, dir, "a", clock.t)

	require.Equal(t, StateWorking, store.Poll().Status)

	clock.advance(10*time.Minute + time.Second)
	snap := store.Poll()
	assert.Equal(t, StateIdle, snap.Status)

	// The file was rewritten and the start record cleared.
	body, err := os.ReadFile(filepath.Join(dir, FilePrefix+"a"))
	require.NoError(t, err)
	assert.Equal(t, "idle", string(body))
	_, err = os.Stat(filepath.Join(dir, FilePrefix+"a"+startSuffix))
	assert.True(t, os.IsNotExist(err))

	// Subsequent polls see a plain idle session, no second demotion.
	snap = store.Poll()
	assert.Equal(t, StateIdle, snap.Status)
	assert.Empty(t, snap.Transitions)
}

func TestDoneNotificationThreshold(t *testing.T) {
	store, clock, dir := newTestStore(t)

	start := clock.t
	writeSession(t, dir, "a", "working")
	writeStart(t, dir, "a", start)
	store.Poll()

	// One millisecond under the minimum: no notification.
	clock.advance(10*time.Minute - time.Millisecond)
	writeSession(t, dir, "a", "done")
	snap := store.Poll()
	assert.NotContains(t, snap.Notifications, NotifyDone)

	// Fresh session that works exactly the minimum: fires.
	writeSession(t, dir, "b", "working")
	writeStart(t, dir, "b", clock.t)
	store.Poll()
	clock.advance(10 * time.Minute)
	writeSession(t, dir, "b", "done")
	snap = store.Poll()
	assert.Contains(t, snap.Notifications, NotifyDone)

	// Re-polling the same done file never re-fires.
	snap = store.Poll()
	assert.Empty(t, snap.Notifications)
}

func TestAutoIdleAfterDone(t *testing.T) {
	store, clock, dir := newTestStore(t)
	writeSession(t, dir, "a", "done")
	require.Equal(t, StateDone, store.Poll().Status)

	clock.advance(29 * time.Second)
	assert.Equal(t, StateDone, store.Poll().Status)

	clock.advance(2 * time.Second)
	assert.Equal(t, StateIdle, store.Poll().Status)
	body, err := os.ReadFile(filepath.Join(dir, FilePrefix+"a"))
	require.NoError(t, err)
	assert.Equal(t, "idle", string(body))
}

func TestErrorClearsStartRecord(t *testing.T) {
	store, clock, dir := newTestStore(t)
	writeSession(t, dir, "a", "working")
	writeStart(t, dir, "a", clock.t)
	store.Poll()

	writeSession(t, dir, "a", "error")
	snap := store.Poll()
	assert.Equal(t, StateError, snap.Status)
	_, err := os.Stat(filepath.Join(dir, FilePrefix+"a"+startSuffix))
	assert.True(t, os.IsNotExist(err))
}

func TestIdleReminderFiresOnceAndPrunes(t *testing.T) {
	store, clock, dir := newTestStore(t)
	writeSession(t, dir, "a", "idle")
	store.Poll()

	clock.advance(3*time.Minute - time.Second)
	snap := store.Poll()
	assert.Empty(t, snap.Notifications)

	clock.advance(2 * time.Second)
	snap = store.Poll()
	assert.Contains(t, snap.Notifications, NotifyIdleReminder)

	// The idle file is pruned so the watched set stays bounded.
	_, err := os.Stat(filepath.Join(dir, FilePrefix+"a"))
	assert.True(t, os.IsNotExist(err))

	// Nothing left to remind about.
	clock.advance(10 * time.Minute)
	assert.Empty(t, store.Poll().Notifications)
}

func TestVanishedSessionDropsOut(t *testing.T) {
	store, _, dir := newTestStore(t)
	writeSession(t, dir, "a", "error")
	require.Equal(t, StateError, store.Poll().Status)

	require.NoError(t, os.Remove(filepath.Join(dir, FilePrefix+"a")))
	assert.Equal(t, StateIdle, store.Poll().Status)
}

func TestTransitionsReported(t *testing.T) {
	store, clock, dir := newTestStore(t)
	writeSession(t, dir, "a", "working")
	writeStart(t, dir, "a", clock.t)

	snap := store.Poll()
	require.Len(t, snap.Transitions, 1)
	assert.Equal(t, "a", snap.Transitions[0].SessionID)
	assert.Equal(t, StateWorking, snap.Transitions[0].To)

	writeSession(t, dir, "a", "done")
	snap = store.Poll()
	require.Len(t, snap.Transitions, 1)
	assert.Equal(t, StateWorking, snap.Transitions[0].From)
	assert.Equal(t, StateDone, snap.Transitions[0].To)
}
