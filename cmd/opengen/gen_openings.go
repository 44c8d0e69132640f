package main

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/enginematch/internal/pgn"
)

func generateOpeningsPipeline(
	ctx context.Context,
	logger zerolog.Logger,
	threads int,
	inputPgnFilePath string,
	outputFilePath string,
	ply int,
) error {
	logger.Info().Msg("generateOpenings started")
	defer logger.Info().Msg("generateOpenings finished")

	g, ctx := errgroup.WithContext(ctx)

	var games = make(chan pgn.GameRaw, 128)
	var openings = make(chan []string, 128)

	g.Go(func() error {
		defer close(games)
		var file, err = os.Open(inputPgnFilePath)
		if err != nil {
			return err
		}
		defer file.Close()
		return pgn.WalkPgn(file, func(game pgn.GameRaw) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case games <- game:
				return nil
			}
		})
	})

	g.Go(func() error {
		return saveOpenings(ctx, logger, outputFilePath, openings)
	})

	var wg = &sync.WaitGroup{}

	for i := 0; i < threads; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return extractOpenings(ctx, logger, ply, games, openings)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(openings)
		return nil
	})

	return g.Wait()
}

func extractOpenings(
	ctx context.Context,
	logger zerolog.Logger,
	ply int,
	games <-chan pgn.GameRaw,
	openings chan<- []string,
) error {
	for game := range games {
		var moves, err = pgn.ParseMoves(pgn.ParsePgnBody(game.BodyRaw))
		if err != nil {
			logger.Debug().Err(err).Msg("skip game")
			continue
		}
		if len(moves) < ply {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case openings <- moves[:ply]:
		}
	}
	return nil
}
