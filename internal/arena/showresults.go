package arena

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

func (a *Arena) logProgress(s Snapshot) {
	a.logger.Info().
		Str("completed", humanize.Comma(s.Completed)).
		Str("total", humanize.Comma(int64(a.config.Games))).
		Int64("failed", s.Failed).
		Msgf("%v %v - %v %v, draws %v",
			a.config.Engine1.Name, s.FirstWins(), s.SecondWins(), a.config.Engine2.Name, s.Draws)
}

func (a *Arena) logSummary(elapsed time.Duration) {
	var s = a.stats.Snapshot()
	var total = s.Completed
	var name1, name2 = a.config.Engine1.Name, a.config.Engine2.Name

	a.logger.Info().Msgf("Finished %v of %v games in %v, failed %v",
		humanize.Comma(total), humanize.Comma(int64(a.config.Games)),
		elapsed.Round(time.Millisecond), s.Failed)
	a.logger.Info().Msgf("%v wins: %v (%v%%) white %v black %v",
		name1, s.FirstWins(), percent(s.FirstWins(), total), s.FirstWhiteWins, s.FirstBlackWins)
	a.logger.Info().Msgf("%v wins: %v (%v%%) white %v black %v",
		name2, s.SecondWins(), percent(s.SecondWins(), total), s.SecondWhiteWins, s.SecondBlackWins)
	a.logger.Info().Msgf("Draws: %v (%v%%)", s.Draws, percent(s.Draws, total))

	if total == 0 {
		return
	}
	var stat = computeStat(int(s.FirstWins()), int(s.SecondWins()), int(s.Draws))
	a.logger.Info().Msgf("Score of %v: %v - %v - %v  [%.3f]",
		name1, s.FirstWins(), s.SecondWins(), s.Draws, stat.winningFraction)
	a.logger.Info().Msgf("Elo difference: %v, LOS: %.1f %%",
		formatElo(stat.eloDifference), stat.los*100)
}

// percent formats n/total with one decimal place.
func percent(n, total int64) string {
	if total == 0 {
		return "0.0"
	}
	return decimal.NewFromInt(n).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		StringFixed(1)
}

// formatElo prints n/a when one side scored every point.
func formatElo(elo float64) string {
	if math.IsInf(elo, 0) || math.IsNaN(elo) {
		return "n/a"
	}
	if elo == 0 {
		elo = 0 // no "-0.0"
	}
	return strconv.FormatFloat(elo, 'f', 1, 64)
}

type gameStatistics struct {
	winningFraction float64
	eloDifference   float64
	los             float64
}

//https://www.chessprogramming.org/Match_Statistics
func computeStat(wins, losses, draws int) gameStatistics {
	var games = wins + losses + draws
	if games == 0 {
		return gameStatistics{winningFraction: 0.5, los: 0.5}
	}
	var winningFraction = (float64(wins) + 0.5*float64(draws)) / float64(games)
	var eloDifference = -math.Log(1/winningFraction-1) * 400 / math.Ln10
	var los = 0.5
	if wins+losses != 0 {
		los = 0.5 + 0.5*math.Erf(float64(wins-losses)/math.Sqrt(2*float64(wins+losses)))
	}
	return gameStatistics{
		winningFraction: winningFraction,
		eloDifference:   eloDifference,
		los:             los,
	}
}
