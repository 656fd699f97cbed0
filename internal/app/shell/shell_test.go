package shell

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19queue/internal/domain/playlist"
	"github.com/osa030/19queue/internal/domain/track"
	"github.com/osa030/19queue/internal/infra/metrics"
)

func newTestShell(t *testing.T, names ...string) (*Shell, *playlist.Playlist[track.Track], *bytes.Buffer) {
	t.Helper()

	pl := playlist.New[track.Track](playlist.Config{Rand: rand.New(rand.NewPCG(1, 2))})
	for _, name := range names {
		pl.Add(track.Track{ID: name, Name: name})
	}
	var out bytes.Buffer
	return New(pl, &out), pl, &out
}

func names(tracks []track.Track) []string {
	result := make([]string, len(tracks))
	for i, t := range tracks {
		result[i] = t.Name
	}
	return result
}

func TestShell_Add(t *testing.T) {
	s, pl, out := newTestShell(t)

	require.NoError(t, s.Exec("add Bohemian Rhapsody"))
	require.NoError(t, s.Exec("add   Song 2  "))

	items := pl.Items()
	assert.Equal(t, []string{"Bohemian Rhapsody", "Song 2"}, names(items))
	assert.NotEmpty(t, items[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Contains(t, out.String(), "Added Bohemian Rhapsody\n")

	err := s.Exec("add")
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestShell_Exec_Errors(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		target error
	}{
		{name: "unknown command", line: "rewind", target: ErrUnknownCommand},
		{name: "remove without index", line: "remove", target: ErrUsage},
		{name: "remove with text", line: "remove first", target: ErrUsage},
		{name: "remove out of range", line: "remove 3", target: playlist.ErrIndexOutOfRange},
		{name: "remove-range bad arity", line: "remove-range 1", target: ErrUsage},
		{name: "remove-range bad end", line: "remove-range 0 x", target: ErrUsage},
		{name: "remove-range past end", line: "remove-range 0 4", target: playlist.ErrIndexOutOfRange},
		{name: "remove-selected unset", line: "remove-selected", target: playlist.ErrIndexOutOfRange},
		{name: "select out of range", line: "select -1", target: playlist.ErrIndexOutOfRange},
		{name: "play out of range", line: "play 9", target: playlist.ErrIndexOutOfRange},
		{name: "play-selected unset", line: "play-selected", target: playlist.ErrInvalidState},
		{name: "loop-last before playing", line: "loop-last", target: playlist.ErrInvalidState},
		{name: "loop-selected unset", line: "loop-selected", target: playlist.ErrInvalidState},
		{name: "shuffle bad value", line: "shuffle maybe", target: ErrUsage},
		{name: "loop missing value", line: "loop", target: ErrUsage},
		{name: "quit", line: "quit", target: ErrQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, pl, _ := newTestShell(t, "A", "B", "C")

			err := s.Exec(tt.line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.Equal(t, []string{"A", "B", "C"}, names(pl.Items()))
		})
	}
}

func TestShell_Exec_BlankLine(t *testing.T) {
	s, _, out := newTestShell(t)
	assert.NoError(t, s.Exec("   "))
	assert.Empty(t, out.String())
}

func TestShell_Playback(t *testing.T) {
	s, pl, out := newTestShell(t, "A", "B", "C")

	require.NoError(t, s.Exec("play 1"))
	require.NoError(t, s.Exec("next"))
	require.NoError(t, s.Exec("next"))
	require.NoError(t, s.Exec("next"))

	assert.Equal(t, "Playing B\nPlaying B\nPlaying C\nQueue is empty\n", out.String())

	require.NoError(t, s.Exec("LOOP on"))
	assert.True(t, pl.Loop())
	out.Reset()
	require.NoError(t, s.Exec("next"))
	assert.Equal(t, "Playing A\n", out.String())

	require.NoError(t, s.Exec("shuffle on"))
	assert.True(t, pl.Shuffle())
	require.NoError(t, s.Exec("shuffle off"))
	assert.False(t, pl.Shuffle())
}

func TestShell_Selection(t *testing.T) {
	s, pl, out := newTestShell(t, "A", "B", "C", "D")

	require.NoError(t, s.Exec("select 2"))
	require.NoError(t, s.Exec("play-selected"))
	assert.Equal(t, "Playing C\n", out.String())
	assert.Equal(t, []string{"D"}, names(pl.Queue()))

	require.NoError(t, s.Exec("loop-selected"))
	assert.Equal(t, []string{"C", "D"}, names(pl.Queue()))

	require.NoError(t, s.Exec("remove-selected"))
	assert.Equal(t, []string{"A", "B", "D"}, names(pl.Items()))
}

func TestShell_Views(t *testing.T) {
	s, _, out := newTestShell(t, "A", "B", "C")

	require.NoError(t, s.Exec("list"))
	assert.Equal(t, "PLAYLIST\n\n0: A\n1: B\n2: C\n", out.String())

	out.Reset()
	require.NoError(t, s.Exec("play 1"))
	out.Reset()
	require.NoError(t, s.Exec("queue"))
	assert.Equal(t, "PLAY QUEUE\n\n0: B\n1: C\n", out.String())

	out.Reset()
	require.NoError(t, s.Exec("table"))
	assert.Contains(t, out.String(), "Playlist")
	assert.Contains(t, out.String(), "3 TRACKS")
}

func TestShell_Help(t *testing.T) {
	s, _, out := newTestShell(t)

	require.NoError(t, s.Exec("help"))
	for name := range commands {
		assert.Contains(t, out.String(), commands[name].usage)
	}

	// Commands are listed alphabetically
	assert.Less(t, strings.Index(out.String(), "add <name>"), strings.Index(out.String(), "quit"))
}

func TestShell_Stats(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s, _, out := newTestShell(t, "A")
		require.NoError(t, s.Exec("stats"))
		assert.Equal(t, "Statistics are not enabled\n", out.String())
	})

	t.Run("enabled", func(t *testing.T) {
		recorder := metrics.NewRecorder()
		pl := playlist.New[track.Track](playlist.Config{Observer: recorder})
		pl.Add(track.Track{Name: "A"})

		var out bytes.Buffer
		s := New(pl, &out, WithStats(recorder), WithTitle("Mix"))
		require.NoError(t, s.Exec("play 0"))
		require.NoError(t, s.Exec("stats"))

		assert.Contains(t, out.String(), "playlist_items_played_total 1")
		assert.Contains(t, out.String(), `playlist_queue_generations_total{mode="ordered"} 1`)
	})
}

func TestShell_Run(t *testing.T) {
	s, pl, out := newTestShell(t)
	s.prompt = "> "

	input := strings.Join([]string{
		"add A",
		"add B",
		"bogus",
		"play 5",
		"play 0",
		"quit",
		"add C",
	}, "\n")

	require.NoError(t, s.Run(context.Background(), strings.NewReader(input)))

	// Commands after quit are not executed
	assert.Equal(t, []string{"A", "B"}, names(pl.Items()))
	assert.Contains(t, out.String(), "Error: \"bogus\" (try \"help\"): unknown command")
	assert.Contains(t, out.String(), "Error: index 5 (length 2): index out of range")
	assert.Contains(t, out.String(), "> Playing A")
}

func TestShell_Run_EOF(t *testing.T) {
	s, pl, _ := newTestShell(t)

	require.NoError(t, s.Run(context.Background(), strings.NewReader("add A\nadd B")))
	assert.Equal(t, []string{"A", "B"}, names(pl.Items()))
}

func TestShell_Run_Cancelled(t *testing.T) {
	s, pl, _ := newTestShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, strings.NewReader("add A\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, pl.Len())
}

func TestShell_Run_CancelledWhileWaiting(t *testing.T) {
	s, _, _ := newTestShell(t)

	// The reader never produces a line, so Run is parked waiting for input
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, r)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
}

func TestShell_Run_ReadError(t *testing.T) {
	s, _, _ := newTestShell(t)

	r, w := io.Pipe()
	_ = w.CloseWithError(errors.New("broken input"))

	err := s.Run(context.Background(), r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
	assert.Contains(t, err.Error(), "broken input")
}

func TestShell_RunScript_StopsOnError(t *testing.T) {
	s, pl, out := newTestShell(t)

	err := s.RunScript("add A\n# comment\n\nremove 4\nadd B\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, playlist.ErrIndexOutOfRange))
	assert.Contains(t, err.Error(), `command "remove 4"`)

	assert.Equal(t, []string{"A"}, names(pl.Items()))
	assert.Equal(t, "> add A\nAdded A\n> remove 4\n", out.String())
}

func TestShell_DemoScript(t *testing.T) {
	s, pl, out := newTestShell(t)

	require.NoError(t, s.RunScript(DemoScript))

	assert.Equal(t, []string{"Song 3", "Song 4", "Song 5", "New Song"}, names(pl.Items()))
	// The queue was generated before the removal and keeps every track
	assert.Equal(t, []string{"Song 1", "Song 2", "Song 3", "Song 4", "Song 5"}, names(pl.Queue()))

	last, ok := pl.LastPlayed()
	require.True(t, ok)
	assert.Equal(t, "Song 1", last.Name)

	assert.Contains(t, out.String(), "PLAY QUEUE\n\n0: Song 1\n1: Song 2\n2: Song 3\n3: Song 4\n4: Song 5\n")
	assert.Contains(t, out.String(), "PLAYLIST\n\n0: Song 3\n1: Song 4\n2: Song 5\n3: New Song\n")
}
