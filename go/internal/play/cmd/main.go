package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/config"
	"github.com/mcdev12/quizshow/go/internal/dbconfig"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/game/sound"
	"github.com/mcdev12/quizshow/go/internal/play"
	"github.com/mcdev12/quizshow/go/internal/results"
	"github.com/mcdev12/quizshow/go/internal/results/duckdb"
	"github.com/mcdev12/quizshow/go/internal/results/postgres"
)

func main() {
	quizPath := flag.String("quiz", "", "path to the quiz YAML file")
	teamID := flag.String("team", "", "team id recorded with the result")
	uiMode := flag.String("ui", "auto", "auto|live|plain")
	mute := flag.Bool("mute", false, "start muted")
	noSound := flag.Bool("no-sound", false, "do not open the audio device")
	dbPath := flag.String("results", config.GetEnv("RESULTS_DUCKDB", "quizshow.duckdb"), "DuckDB file for local results")
	logPath := flag.String("log", config.GetEnv("PLAY_LOG", "quizshow-play.log"), "log file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}
	if *quizPath == "" {
		fmt.Fprintln(os.Stderr, "usage: play -quiz friday.yaml [-team owls] [-ui auto|live|plain]")
		os.Exit(2)
	}

	logFile, err := setupLogging(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(*quizPath, *teamID, *uiMode, *mute, *noSound, *dbPath); err != nil {
		log.Error().Err(err).Msg("play failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setupLogging sends logs to a file so they never corrupt the terminal UI.
func setupLogging(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return f, nil
}

func run(quizPath, teamID, uiMode string, mute, noSound bool, dbPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode, err := play.ResolveUIMode(uiMode, os.Stdout)
	if err != nil {
		return err
	}
	if mode.Warning != "" {
		fmt.Fprintln(os.Stderr, mode.Warning)
	}

	qf, err := config.LoadQuizFile(quizPath)
	if err != nil {
		return err
	}
	registry, err := qf.Registry()
	if err != nil {
		return err
	}

	recorder, closeStores, err := setupResults(ctx, dbPath)
	if err != nil {
		return err
	}
	defer closeStores()

	player := setupPlayer(registry, noSound)
	defer player.Close()

	soundCfg := qf.Sound
	soundCfg.Muted = soundCfg.Muted || mute

	var (
		observer session.Observer
		notifier session.Notifier
		feed     *play.Feed
	)
	if mode.Live {
		feed = play.NewFeed(256)
		observer, notifier = feed, feed
	} else {
		printer := play.NewPrinter(os.Stdout)
		observer, notifier = printer, printer
	}

	sess, err := session.New(qf.Questions, qf.Quiz, session.Options{
		TeamID:    teamID,
		Config:    qf.Session,
		Sounds:    sound.NewSequencer(player, registry, soundCfg, nil),
		Results:   recorder,
		Notifier:  notifier,
		Observers: []session.Observer{observer},
	})
	if err != nil {
		return err
	}
	// Close persists a result that is still pending when the player quits early.
	defer sess.Close()
	sess.Start()

	if mode.Live {
		defer feed.Close()
		return play.Run(ctx, sess, feed, play.Options{Title: qf.Quiz.Title, NoColor: os.Getenv("NO_COLOR") != ""})
	}
	return play.RunPlain(ctx, sess, os.Stdin, os.Stdout)
}

func setupPlayer(registry sound.Registry, disabled bool) sound.Player {
	if disabled {
		return sound.NopPlayer{}
	}
	p, err := sound.NewBeepPlayer(registry)
	if err != nil {
		log.Warn().Err(err).Msg("audio unavailable, playing silently")
		return sound.NopPlayer{}
	}
	return p
}

// setupResults records locally to DuckDB and, when a database is configured, to
// Postgres as the primary store.
func setupResults(ctx context.Context, dbPath string) (*results.Recorder, func(), error) {
	local, err := duckdb.Open(ctx, dbPath)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{local.Close}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn().Err(err).Msg("failed to close result store")
			}
		}
	}

	if !dbconfig.Enabled() {
		return results.NewRecorder(results.Named{Name: "duckdb", Sink: local}), closeAll, nil
	}

	cfg := dbconfig.NewConfigFromEnv()
	database, err := postgres.Open(ctx, cfg.DSN())
	if err != nil {
		log.Warn().Err(err).Str("database", cfg.String()).Msg("postgres unavailable, recording locally only")
		return results.NewRecorder(results.Named{Name: "duckdb", Sink: local}), closeAll, nil
	}
	closers = append(closers, database.Close)
	store := postgres.NewStore(database)
	if err := store.Migrate(ctx); err != nil {
		closeAll()
		return nil, nil, err
	}
	return results.NewRecorder(
		results.Named{Name: "postgres", Sink: store},
		results.Named{Name: "duckdb", Sink: local},
	), closeAll, nil
}
