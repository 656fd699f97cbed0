// Package main provides the playlist CLI entry point.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19queue/internal/app/shell"
	"github.com/osa030/19queue/internal/app/view"
	"github.com/osa030/19queue/internal/domain/playlist"
	"github.com/osa030/19queue/internal/domain/track"
	"github.com/osa030/19queue/internal/infra/config"
	"github.com/osa030/19queue/internal/infra/logger"
	"github.com/osa030/19queue/internal/infra/metrics"
)

var (
	app        = kingpin.New("playlist", "Playlist and play queue manager")
	configPath = app.Flag("config", "Path to config file").Default("config/playlist.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()
	seed       = app.Flag("seed", "Seed for shuffled queues (0 = random)").Uint64()
	shuffle    = app.Flag("shuffle", "Generate shuffled queues").Bool()
	loop       = app.Flag("loop", "Loop the playlist when the queue runs out").Bool()

	// demo command (default)
	demoCmd = app.Command("demo", "Run the reference scenario").Default()

	// show command
	showCmd = app.Command("show", "Print the configured playlist and exit")

	// shell command
	shellCmd = app.Command("shell", "Read commands from stdin")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Load config
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger, command-line flags win over the config file
	loggerConfig := logger.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	closeLog, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = closeLog() }()

	if err := run(command, cfg); err != nil {
		zlog.Error().Msgf("playlist: %v", err)
		os.Exit(1)
	}
}

// run executes the selected command.
func run(command string, cfg *config.Config) error {
	if *shuffle {
		cfg.Playback.Shuffle = true
	}
	if *loop {
		cfg.Playback.Loop = true
	}
	if *seed != 0 {
		cfg.Playback.Seed = *seed
	}

	tracks, err := cfg.Tracks()
	if err != nil {
		return errors.Wrap(err, "failed to read tracks")
	}

	recorder := metrics.NewRecorder()
	pl := playlist.New[track.Track](playlist.Config{
		Shuffle:  cfg.Playback.Shuffle,
		Loop:     cfg.Playback.Loop,
		Rand:     newRand(cfg.Playback.Seed),
		Observer: recorder,
	})
	// The demo builds its own playlist from scratch
	if command != demoCmd.FullCommand() {
		pl.AddAll(tracks)
	}

	zlog.Info().Msgf("Loaded playlist %q: tracks=%d shuffle=%v loop=%v",
		cfg.Playlist.Name, pl.Len(), cfg.Playback.Shuffle, cfg.Playback.Loop)

	opts := []shell.Option{shell.WithTitle(cfg.Playlist.Name), shell.WithStats(recorder)}

	switch command {
	case demoCmd.FullCommand():
		return shell.New(pl, os.Stdout, opts...).RunScript(shell.DemoScript)

	case showCmd.FullCommand():
		fmt.Println(view.TrackTable(cfg.Playlist.Name, pl.Items()))
		return nil

	case shellCmd.FullCommand():
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println(`Type "help" for a list of commands.`)
		sh := shell.New(pl, os.Stdout, append(opts, shell.WithPrompt("playlist> "))...)
		if err := sh.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		zlog.Info().Msg("Shell closed")
		return nil
	}

	return errors.Newf("unknown command: %s", command)
}

// newRand returns a random source seeded with seed, or nil for a random seed.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}
