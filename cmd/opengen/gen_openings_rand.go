package main

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/enginematch/pkg/common"
)

func generateOpeningsRandomPipeline(
	ctx context.Context,
	logger zerolog.Logger,
	outputFilePath string,
	ply int,
	count int,
	seed int64,
) error {
	logger.Info().Msg("generateOpenings started")
	defer logger.Info().Msg("generateOpenings finished")

	g, ctx := errgroup.WithContext(ctx)

	var openings = make(chan []string, 128)

	g.Go(func() error {
		defer close(openings)
		var rnd = rand.New(rand.NewSource(seed))
		for i := 0; i < count; {
			var moves, ok = randomOpening(rnd, ply)
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case openings <- moves:
				i++
			}
		}
		return nil
	})

	g.Go(func() error {
		return saveOpenings(ctx, logger, outputFilePath, openings)
	})

	return g.Wait()
}

// randomOpening plays ply random legal moves. ok is false if the game ended early.
func randomOpening(rnd *rand.Rand, ply int) ([]string, bool) {
	var pos = common.InitialPosition()
	var moves = make([]string, 0, ply)
	for i := 0; i < ply; i++ {
		var ml = pos.GenerateLegalMoves()
		if len(ml) == 0 {
			return nil, false
		}
		var move = ml[rnd.Intn(len(ml))]
		var child, err = pos.Apply(move)
		if err != nil {
			return nil, false
		}
		moves = append(moves, move.String())
		pos = child
	}
	if !pos.HasLegalMove() || pos.IsInsufficientMaterial() {
		return nil, false
	}
	return moves, true
}
