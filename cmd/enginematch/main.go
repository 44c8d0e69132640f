package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/ChizhovVadim/enginematch/internal/arena"
	"github.com/ChizhovVadim/enginematch/internal/pgn"
	"github.com/ChizhovVadim/enginematch/internal/status"
	"github.com/ChizhovVadim/enginematch/internal/store"
	"github.com/ChizhovVadim/enginematch/pkg/uci"
)

const envPrefix = "ENGINEMATCH_"

type Config struct {
	Games            int
	Workers          int
	MoveTime         time.Duration
	MaxMoves         int
	Engine1          string
	Engine2          string
	Name1            string
	Name2            string
	Options1         string
	Options2         string
	Openings         string
	Database         string
	PgnFile          string
	HttpAddr         string
	ProgressInterval time.Duration
	LogLevel         string
}

var config Config

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().Timestamp().Logger()
	var err = run(logger)
	if err != nil {
		logger.Error().Err(err).Msg("enginematch failed")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("load .env")
	}

	flag.IntVar(&config.Games, "games", 1000000, "Total number of games")
	flag.IntVar(&config.Workers, "workers", 12, "Number of concurrent games")
	flag.DurationVar(&config.MoveTime, "movetime", 100*time.Millisecond, "Fixed time per move")
	flag.IntVar(&config.MaxMoves, "maxmoves", 500, "Plies before a game is adjudicated a draw")
	flag.StringVar(&config.Engine1, "engine1", "stockfish", "Path to the first engine")
	flag.StringVar(&config.Engine2, "engine2", "reckless", "Path to the second engine")
	flag.StringVar(&config.Name1, "name1", "", "Name of the first engine")
	flag.StringVar(&config.Name2, "name2", "", "Name of the second engine")
	flag.StringVar(&config.Options1, "option1", "", "UCI options of the first engine, e.g. Hash=64,Threads=1")
	flag.StringVar(&config.Options2, "option2", "", "UCI options of the second engine")
	flag.StringVar(&config.Openings, "openings", "", "Openings file: LAN move lines or .pgn")
	flag.StringVar(&config.Database, "db", "", "SQLite database for results")
	flag.StringVar(&config.PgnFile, "pgn", "", "PGN file to append finished games to")
	flag.StringVar(&config.HttpAddr, "http", "", "Address of the status endpoint, e.g. :8080")
	flag.DurationVar(&config.ProgressInterval, "progress", arena.DefaultProgressInterval, "Progress report interval")
	flag.StringVar(&config.LogLevel, "loglevel", "info", "Log level")
	if err := applyEnv(flag.CommandLine); err != nil {
		return err
	}
	flag.Parse()

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logger = logger.Level(level)
	logger.Info().Msgf("%+v", config)

	matchConfig, err := buildMatchConfig(config)
	if err != nil {
		return err
	}
	if err := matchConfig.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks []arena.ResultSink
	var closers []func() error
	defer func() {
		var err error
		for _, closeFn := range closers {
			err = multierr.Append(err, closeFn())
		}
		if err != nil {
			logger.Warn().Err(err).Msg("close result sinks")
		}
	}()

	var recorder *store.Recorder
	if config.Database != "" {
		db, err := store.Open(config.Database)
		if err != nil {
			return err
		}
		closers = append(closers, db.Close)
		recorder, err = db.StartRun(ctx, matchConfig)
		if err != nil {
			return err
		}
		sinks = append(sinks, recorder)
		logger.Info().Str("run", recorder.RunID().String()).Str("db", config.Database).Msg("recording results")
	}

	if config.PgnFile != "" {
		file, err := os.OpenFile(config.PgnFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		closers = append(closers, file.Close)
		sinks = append(sinks, pgn.NewWriter(file, "enginematch"))
	}

	a, err := arena.New(matchConfig, logger, sinks...)
	if err != nil {
		return err
	}

	if config.HttpAddr != "" {
		var runID string
		if recorder != nil {
			runID = recorder.RunID().String()
		}
		var httpCtx, cancelHTTP = context.WithCancel(ctx)
		defer cancelHTTP()
		var server = status.NewServer(a, runID, logger)
		go func() {
			if err := server.ListenAndServe(httpCtx, config.HttpAddr); err != nil {
				logger.Error().Err(err).Msg("status server")
			}
		}()
	}

	err = a.Run(ctx)
	if recorder != nil {
		if finishErr := recorder.Finish(context.Background(), a.Stats().Snapshot()); finishErr != nil {
			logger.Warn().Err(finishErr).Msg("finish run")
		}
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn().Msg("interrupted")
		return nil
	}
	return err
}

// applyEnv uses ENGINEMATCH_<FLAG> variables as flag defaults.
func applyEnv(fs *flag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		var value, ok = os.LookupEnv(envPrefix + strings.ToUpper(f.Name))
		if !ok {
			return
		}
		if setErr := f.Value.Set(value); setErr != nil {
			err = multierr.Append(err, fmt.Errorf("%v%v: %w", envPrefix, strings.ToUpper(f.Name), setErr))
		}
	})
	return err
}

func buildMatchConfig(config Config) (arena.Config, error) {
	options1, err := parseOptions(config.Options1)
	if err != nil {
		return arena.Config{}, err
	}
	options2, err := parseOptions(config.Options2)
	if err != nil {
		return arena.Config{}, err
	}
	var name1, name2 = engineNames(config)

	var openings [][]string
	if config.Openings != "" {
		openings, err = loadOpenings(config.Openings)
		if err != nil {
			return arena.Config{}, err
		}
	}

	return arena.Config{
		Games:            config.Games,
		Engine1:          uci.EngineConfig{Name: name1, Path: config.Engine1, Options: options1},
		Engine2:          uci.EngineConfig{Name: name2, Path: config.Engine2, Options: options2},
		MoveTime:         config.MoveTime,
		MaxMoves:         config.MaxMoves,
		Workers:          config.Workers,
		ProgressInterval: config.ProgressInterval,
		Openings:         openings,
	}, nil
}

func loadOpenings(path string) ([][]string, error) {
	var file, err = os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if strings.EqualFold(filepath.Ext(path), ".pgn") {
		return pgn.LoadOpenings(file)
	}
	return arena.LoadOpenings(file)
}

// parseOptions parses "Name=Value,Name=Value".
func parseOptions(s string) ([]uci.Option, error) {
	var result []uci.Option
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		var name, value, found = strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("bad engine option %q", item)
		}
		result = append(result, uci.Option{Name: name, Value: strings.TrimSpace(value)})
	}
	return result, nil
}

func engineNames(config Config) (string, string) {
	var name1, name2 = config.Name1, config.Name2
	if name1 == "" {
		name1 = filepath.Base(config.Engine1)
	}
	if name2 == "" {
		name2 = filepath.Base(config.Engine2)
	}
	if name1 == name2 {
		name1, name2 = name1+"-1", name2+"-2"
	}
	return name1, name2
}
