package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Input   string
	Output  string
	Ply     int
	Count   int
	Seed    int64
	Threads int
}

var config Config

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().Timestamp().Logger()

	flag.StringVar(&config.Input, "input", "", "PGN file with games; random openings when empty")
	flag.StringVar(&config.Output, "output", "openings.txt", "Path to output openings file")
	flag.IntVar(&config.Ply, "ply", 8, "Opening length in plies")
	flag.IntVar(&config.Count, "count", 1000, "Number of random openings")
	flag.Int64Var(&config.Seed, "seed", 1, "Random seed")
	flag.IntVar(&config.Threads, "threads", runtime.NumCPU(), "Number of threads")
	flag.Parse()

	logger.Info().Msgf("%+v", config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	if config.Input != "" {
		err = generateOpeningsPipeline(ctx, logger, config.Threads, config.Input, config.Output, config.Ply)
	} else {
		err = generateOpeningsRandomPipeline(ctx, logger, config.Output, config.Ply, config.Count, config.Seed)
	}
	if err != nil {
		logger.Error().Err(err).Msg("opengen failed")
		os.Exit(1)
	}
}
