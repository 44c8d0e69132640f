package arena

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ResultSink receives every completed game after it is counted.
type ResultSink interface {
	Save(ctx context.Context, msg CompletionMessage) error
}

type Arena struct {
	config Config
	stats  *MatchStats
	sinks  []ResultSink
	start  StartFunc
	logger zerolog.Logger
}

func New(config Config, logger zerolog.Logger, sinks ...ResultSink) (*Arena, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Arena{
		config: config,
		stats:  &MatchStats{},
		sinks:  sinks,
		start:  startUCI,
		logger: logger,
	}, nil
}

func (a *Arena) Config() Config {
	return a.config
}

func (a *Arena) Stats() *MatchStats {
	return a.stats
}

// Run plays the match and logs the summary. It returns an error only when no
// worker could start its engines or when ctx is cancelled.
func (a *Arena) Run(ctx context.Context) error {
	var parent = ctx
	a.logger.Info().
		Int("numcpu", runtime.NumCPU()).
		Int("games", a.config.Games).
		Int("workers", a.config.Workers).
		Dur("movetime", a.config.MoveTime).
		Int("maxmoves", a.config.MaxMoves).
		Int("openings", len(a.config.Openings)).
		Msg("arena started")
	var startTime = time.Now()

	g, ctx := errgroup.WithContext(ctx)

	var results = make(chan CompletionMessage, 2*a.config.Workers)
	var drained = make(chan struct{})
	var counter = &WorkCounter{}

	g.Go(func() error {
		defer close(drained)
		return a.aggregate(ctx, results)
	})

	g.Go(func() error {
		a.reportProgress(ctx, drained)
		return nil
	})

	var started atomic.Int32
	var mu sync.Mutex
	var workerErrs error
	var wg = &sync.WaitGroup{}

	for i := 0; i < a.config.Workers; i++ {
		var w = &worker{
			id:      i + 1,
			config:  &a.config,
			counter: counter,
			stats:   a.stats,
			runner:  GameRunner{MoveTime: a.config.MoveTime, MaxMoves: a.config.MaxMoves},
			start:   a.start,
			results: results,
			logger:  a.logger.With().Int("worker", i+1).Logger(),
		}
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			var err = w.run(ctx, func() { started.Add(1) })
			if err != nil {
				w.logger.Error().Err(err).Msg("worker stopped")
				mu.Lock()
				workerErrs = multierr.Append(workerErrs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	var err = g.Wait()
	a.logSummary(time.Since(startTime))
	if err != nil {
		return err
	}
	if err := parent.Err(); err != nil {
		return err
	}
	if started.Load() == 0 {
		return fmt.Errorf("no worker could start its engines: %w", workerErrs)
	}
	return nil
}

func (a *Arena) aggregate(ctx context.Context, results <-chan CompletionMessage) error {
	var sinkCtx = context.WithoutCancel(ctx)
	for msg := range results {
		a.stats.Record(msg)
		a.logger.Debug().
			Int("index", msg.Index).
			Int("worker", msg.Worker).
			Str("white", msg.White).
			Str("black", msg.Black).
			Str("result", msg.Result.Outcome.String()).
			Str("reason", msg.Result.Reason).
			Int("plies", msg.Result.Plies()).
			Dur("duration", msg.Duration).
			Msg("game finished")
		for _, sink := range a.sinks {
			if err := sink.Save(sinkCtx, msg); err != nil {
				a.logger.Warn().Err(err).Int("index", msg.Index).Msg("save result")
			}
		}
	}
	return nil
}

func (a *Arena) reportProgress(ctx context.Context, drained <-chan struct{}) {
	var ticker = time.NewTicker(a.config.ProgressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-drained:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			var s = a.stats.Snapshot()
			a.logProgress(s)
			if s.Completed >= int64(a.config.Games) {
				return
			}
		}
	}
}
