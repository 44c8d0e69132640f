package arena

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/ChizhovVadim/enginematch/pkg/uci"
)

// StartFunc launches one engine session.
type StartFunc func(ctx context.Context, config uci.EngineConfig, logger zerolog.Logger) (Engine, error)

func startUCI(ctx context.Context, config uci.EngineConfig, logger zerolog.Logger) (Engine, error) {
	var e, err = uci.Start(ctx, config, logger)
	if err != nil {
		return nil, err
	}
	return e, nil
}

var respawnBackoff = func() retry.Backoff {
	return retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
}

type enginePair struct {
	first  Engine
	second Engine
}

func (p enginePair) quit() error {
	return multierr.Combine(p.first.Quit(), p.second.Quit())
}

type worker struct {
	id      int
	config  *Config
	counter *WorkCounter
	stats   *MatchStats
	runner  GameRunner
	start   StartFunc
	results chan<- CompletionMessage
	logger  zerolog.Logger
}

func (w *worker) startPair(ctx context.Context) (enginePair, error) {
	var first, err = w.start(ctx, w.config.Engine1, w.logger)
	if err != nil {
		return enginePair{}, err
	}
	second, err := w.start(ctx, w.config.Engine2, w.logger)
	if err != nil {
		first.Quit()
		return enginePair{}, err
	}
	return enginePair{first: first, second: second}, nil
}

func (w *worker) respawn(ctx context.Context) (enginePair, error) {
	return retry.DoValue(ctx, respawnBackoff(), func(ctx context.Context) (enginePair, error) {
		var pair, err = w.startPair(ctx)
		if err != nil {
			w.logger.Warn().Err(err).Msg("respawn failed")
			return enginePair{}, retry.RetryableError(err)
		}
		return pair, nil
	})
}

// run claims games until the counter passes the total or ctx is done.
// onStarted is called once the first engine pair is up.
func (w *worker) run(ctx context.Context, onStarted func()) error {
	var pair, err = w.startPair(ctx)
	if err != nil {
		return err
	}
	onStarted()
	defer func() {
		if pair.first == nil {
			return
		}
		if err := pair.quit(); err != nil {
			w.logger.Debug().Err(err).Msg("quit engines")
		}
	}()

	for ctx.Err() == nil {
		var index = w.counter.Claim()
		if index >= w.config.Games {
			return nil
		}

		var firstIsWhite = index%2 == 0
		var white, black = pair.first, pair.second
		if !firstIsWhite {
			white, black = black, white
		}

		var start = time.Now()
		var result, err = w.runner.PlayGame(white, black, openingFor(w.config.Openings, index))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.stats.recordFailure()
			w.logger.Warn().Err(err).Int("index", index).Msg("game failed, restarting engines")
			pair.quit()
			pair, err = w.respawn(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			continue
		}

		var msg = CompletionMessage{
			Index:        index,
			Worker:       w.id,
			FirstIsWhite: firstIsWhite,
			White:        white.Name(),
			Black:        black.Name(),
			Result:       result,
			Duration:     time.Since(start),
		}
		select {
		case w.results <- msg:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}
