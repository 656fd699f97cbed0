// Package shell provides a line-oriented command interpreter over a track playlist.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/osa030/19queue/internal/app/view"
	"github.com/osa030/19queue/internal/domain/playlist"
	"github.com/osa030/19queue/internal/domain/track"
)

// Errors
var (
	ErrQuit           = errors.New("quit")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("invalid usage")
)

// StatsWriter writes playback statistics.
type StatsWriter interface {
	WriteText(w io.Writer) error
}

// command describes a shell command.
type command struct {
	usage string
	help  string
	run   func(s *Shell, args []string) error
}

// commands maps command names to their handlers.
var commands map[string]command

func init() {
	commands = map[string]command{
		"add":             {usage: "add <name>", help: "Append a track", run: (*Shell).add},
		"remove":          {usage: "remove <index>", help: "Remove the track at index", run: (*Shell).remove},
		"remove-range":    {usage: "remove-range <start> <end>", help: "Remove tracks in [start, end)", run: (*Shell).removeRange},
		"remove-selected": {usage: "remove-selected", help: "Remove the selected track", run: (*Shell).removeSelected},
		"select":          {usage: "select <index>", help: "Select the track at index", run: (*Shell).selectTrack},
		"play":            {usage: "play <index>", help: "Play from index and rebuild the queue", run: (*Shell).play},
		"play-selected":   {usage: "play-selected", help: "Play from the selected track", run: (*Shell).playSelected},
		"next":            {usage: "next", help: "Play the next queued track", run: (*Shell).next},
		"loop-last":       {usage: "loop-last", help: "Queue the last played track again", run: (*Shell).loopLast},
		"loop-selected":   {usage: "loop-selected", help: "Queue the selected track next", run: (*Shell).loopSelected},
		"shuffle":         {usage: "shuffle on|off", help: "Toggle shuffled queues", run: (*Shell).setShuffle},
		"loop":            {usage: "loop on|off", help: "Toggle looping when the queue runs out", run: (*Shell).setLoop},
		"list":            {usage: "list", help: "Show the playlist", run: (*Shell).list},
		"queue":           {usage: "queue", help: "Show the play queue", run: (*Shell).queue},
		"table":           {usage: "table", help: "Show the playlist as a table", run: (*Shell).table},
		"stats":           {usage: "stats", help: "Show playback statistics", run: (*Shell).stats},
		"help":            {usage: "help", help: "Show this help", run: (*Shell).help},
		"quit":            {usage: "quit", help: "Leave the shell", run: func(*Shell, []string) error { return ErrQuit }},
	}
}

// Option configures a Shell.
type Option func(*Shell)

// WithTitle sets the title used by the table view.
func WithTitle(title string) Option {
	return func(s *Shell) { s.title = title }
}

// WithStats enables the stats command.
func WithStats(stats StatsWriter) Option {
	return func(s *Shell) { s.recorder = stats }
}

// WithPrompt sets the prompt printed before each line is read.
func WithPrompt(prompt string) Option {
	return func(s *Shell) { s.prompt = prompt }
}

// Shell executes commands against a playlist and writes results to out.
type Shell struct {
	playlist *playlist.Playlist[track.Track]
	out      io.Writer
	title    string
	prompt   string
	recorder StatsWriter
}

// New creates a new shell.
func New(pl *playlist.Playlist[track.Track], out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		playlist: pl,
		out:      out,
		title:    "Playlist",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads commands from in until quit, EOF or ctx is done.
// Command errors are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printf("%s", s.prompt)

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return errors.Wrap(err, "failed to read input")
				}
				return ctx.Err()
			}
			line = l
		}

		err := s.Exec(line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			s.printf("Error: %v\n", err)
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The lines channel is closed after the scan error is sent.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			readErr <- err
			close(lines)
		}()

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	return lines, readErr
}

// RunScript executes each line of script, echoing it first.
// Execution stops at the first failing command.
func (s *Shell) RunScript(script string) error {
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.printf("> %s\n", line)
		if err := s.Exec(line); err != nil {
			return errors.Wrapf(err, "command %q", line)
		}
	}
	return nil
}

// Exec executes a single command line.
// Blank lines are ignored.
func (s *Shell) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name := strings.ToLower(fields[0])
	cmd, ok := commands[name]
	if !ok {
		return errors.Wrapf(ErrUnknownCommand, "%q (try \"help\")", fields[0])
	}

	zlog.Debug().Msgf("shell: exec: command=%s args=%v", name, fields[1:])
	return cmd.run(s, fields[1:])
}

func (s *Shell) add(args []string) error {
	if len(args) == 0 {
		return usage("add")
	}
	t := track.Track{
		ID:   uuid.New().String(),
		Name: strings.Join(args, " "),
	}
	s.playlist.Add(t)
	s.printf("Added %s\n", t)
	return nil
}

func (s *Shell) remove(args []string) error {
	index, err := intArg("remove", args)
	if err != nil {
		return err
	}
	return s.playlist.Remove(index)
}

func (s *Shell) removeRange(args []string) error {
	if len(args) != 2 {
		return usage("remove-range")
	}
	start, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("remove-range")
	}
	end, err := strconv.Atoi(args[1])
	if err != nil {
		return usage("remove-range")
	}
	return s.playlist.RemoveRange(start, end)
}

func (s *Shell) removeSelected(args []string) error {
	return s.playlist.RemoveCurrentSelection()
}

func (s *Shell) selectTrack(args []string) error {
	index, err := intArg("select", args)
	if err != nil {
		return err
	}
	return s.playlist.Select(index)
}

func (s *Shell) play(args []string) error {
	index, err := intArg("play", args)
	if err != nil {
		return err
	}
	t, err := s.playlist.Play(index)
	if err != nil {
		return err
	}
	s.printf("Playing %s\n", t)
	return nil
}

func (s *Shell) playSelected(args []string) error {
	t, err := s.playlist.PlayCurrentSelection()
	if err != nil {
		return err
	}
	s.printf("Playing %s\n", t)
	return nil
}

func (s *Shell) next(args []string) error {
	t, ok := s.playlist.PlayNext()
	if !ok {
		s.printf("Queue is empty\n")
		return nil
	}
	s.printf("Playing %s\n", t)
	return nil
}

func (s *Shell) loopLast(args []string) error {
	return s.playlist.LoopLastPlayed()
}

func (s *Shell) loopSelected(args []string) error {
	return s.playlist.LoopCurrentSelection()
}

func (s *Shell) setShuffle(args []string) error {
	on, err := onOffArg("shuffle", args)
	if err != nil {
		return err
	}
	s.playlist.SetShuffle(on)
	return nil
}

func (s *Shell) setLoop(args []string) error {
	on, err := onOffArg("loop", args)
	if err != nil {
		return err
	}
	s.playlist.SetLoop(on)
	return nil
}

func (s *Shell) list(args []string) error {
	s.printf("%s", view.Playlist(s.playlist.Items()))
	return nil
}

func (s *Shell) queue(args []string) error {
	s.printf("%s", view.Queue(s.playlist.Queue()))
	return nil
}

func (s *Shell) table(args []string) error {
	s.printf("%s\n", view.TrackTable(s.title, s.playlist.Items()))
	return nil
}

func (s *Shell) stats(args []string) error {
	if s.recorder == nil {
		s.printf("Statistics are not enabled\n")
		return nil
	}
	return s.recorder.WriteText(s.out)
}

func (s *Shell) help(args []string) error {
	names := lo.Keys(commands)
	slices.Sort(names)
	for _, name := range names {
		cmd := commands[name]
		s.printf("  %-28s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func usage(name string) error {
	return errors.Wrapf(ErrUsage, "usage: %s", commands[name].usage)
}

func intArg(name string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, usage(name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usage(name)
	}
	return n, nil
}

func onOffArg(name string, args []string) (bool, error) {
	if len(args) != 1 {
		return false, usage(name)
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, usage(name)
	}
}
