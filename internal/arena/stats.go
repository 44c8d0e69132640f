package arena

import "sync/atomic"

// MatchStats counts finished games. Counters only grow.
type MatchStats struct {
	firstWhiteWins  atomic.Int64
	firstBlackWins  atomic.Int64
	secondWhiteWins atomic.Int64
	secondBlackWins atomic.Int64
	draws           atomic.Int64
	completed       atomic.Int64
	failed          atomic.Int64
}

type Snapshot struct {
	FirstWhiteWins  int64 `json:"first_white_wins"`
	FirstBlackWins  int64 `json:"first_black_wins"`
	SecondWhiteWins int64 `json:"second_white_wins"`
	SecondBlackWins int64 `json:"second_black_wins"`
	Draws           int64 `json:"draws"`
	Completed       int64 `json:"completed"`
	Failed          int64 `json:"failed"`
}

func (s *MatchStats) Record(msg CompletionMessage) {
	switch msg.Result.Outcome {
	case WhiteWins:
		if msg.FirstIsWhite {
			s.firstWhiteWins.Add(1)
		} else {
			s.secondWhiteWins.Add(1)
		}
	case BlackWins:
		if msg.FirstIsWhite {
			s.secondBlackWins.Add(1)
		} else {
			s.firstBlackWins.Add(1)
		}
	default:
		s.draws.Add(1)
	}
	s.completed.Add(1)
}

func (s *MatchStats) recordFailure() {
	s.failed.Add(1)
}

func (s *MatchStats) Completed() int64 {
	return s.completed.Load()
}

func (s *MatchStats) Snapshot() Snapshot {
	return Snapshot{
		FirstWhiteWins:  s.firstWhiteWins.Load(),
		FirstBlackWins:  s.firstBlackWins.Load(),
		SecondWhiteWins: s.secondWhiteWins.Load(),
		SecondBlackWins: s.secondBlackWins.Load(),
		Draws:           s.draws.Load(),
		Completed:       s.completed.Load(),
		Failed:          s.failed.Load(),
	}
}

func (s Snapshot) FirstWins() int64 {
	return s.FirstWhiteWins + s.FirstBlackWins
}

func (s Snapshot) SecondWins() int64 {
	return s.SecondWhiteWins + s.SecondBlackWins
}
