package actions_test

import (
	"testing"

	"github.com/agentpad/agentpad/internal/actions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChord(t *testing.T) {
	cases := []struct {
		in   string
		want actions.Chord
	}{
		{"Enter", actions.Chord{actions.KeyEnter}},
		{"esc", actions.Chord{actions.KeyEscape}},
		{"Shift+Alt+Tab", actions.Chord{actions.KeyShift, actions.KeyAlt, actions.KeyTab}},
		{"Ctrl+b", actions.Chord{actions.KeyCtrl, actions.Key("b")}},
		{"n", actions.Chord{actions.Key("n")}},
		{"5", actions.Chord{actions.Key("5")}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			chord, err := actions.ParseChord(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, chord)
		})
	}
}

func TestParseChordRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "nosuchkey", "Ctrl+", "F13"} {
		_, err := actions.ParseChord(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseSequence(t *testing.T) {
	seq, err := actions.ParseSequence("Ctrl+B,N")
	require.NoError(t, err)
	require.Len(t, seq.Chords, 2)
	assert.Equal(t, actions.Chord{actions.KeyCtrl, actions.Key("b")}, seq.Chords[0])
	assert.Equal(t, actions.Chord{actions.Key("n")}, seq.Chords[1])
}

type recorder struct {
	keys    []actions.KeySequence
	moves   [][2]int
	clicks  []actions.MouseButton
	scrolls []int
	mics    int
}

func (r *recorder) SendKeys(seq actions.KeySequence) error { r.keys = append(r.keys, seq); return nil }
func (r *recorder) MoveMouse(dx, dy int) error {
	r.moves = append(r.moves, [2]int{dx, dy})
	return nil
}
func (r *recorder) Click(b actions.MouseButton) error { r.clicks = append(r.clicks, b); return nil }
func (r *recorder) Scroll(ticks int) error            { r.scrolls = append(r.scrolls, ticks); return nil }
func (r *recorder) ToggleMic() error                  { r.mics++; return nil }

func TestDispatch(t *testing.T) {
	rec := &recorder{}

	require.NoError(t, actions.Dispatch(rec, actions.KeySequence{Chords: []actions.Chord{{actions.KeyEnter}}}))
	require.NoError(t, actions.Dispatch(rec, actions.MouseMove{DX: 3, DY: -2}))
	require.NoError(t, actions.Dispatch(rec, actions.MouseClick{Button: actions.MouseRight}))
	require.NoError(t, actions.Dispatch(rec, actions.Scroll{Ticks: -1}))
	require.NoError(t, actions.Dispatch(rec, actions.ToggleMic{}))

	assert.Len(t, rec.keys, 1)
	assert.Equal(t, [][2]int{{3, -2}}, rec.moves)
	assert.Equal(t, []actions.MouseButton{actions.MouseRight}, rec.clicks)
	assert.Equal(t, []int{-1}, rec.scrolls)
	assert.Equal(t, 1, rec.mics)
}
