package arena

import (
	"fmt"
	"time"

	"github.com/ChizhovVadim/enginematch/pkg/common"
	"github.com/ChizhovVadim/enginematch/pkg/uci"
)

// MoveError reports a move that the rules rejected.
type MoveError struct {
	Ply  int
	Move string
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("ply %v move %q: %v", e.Ply, e.Move, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

type GameRunner struct {
	MoveTime time.Duration
	// MaxMoves bounds the number of engine moves; the opening does not count.
	MaxMoves int
}

const movesCapacityHint = 512


// PlayGame plays one game from the standard start position after the opening moves.
// Player errors are returned unchanged and the game is abandoned.
func (r *GameRunner) PlayGame(white, black Player, opening []string) (GameResult, error) {
	if err := white.NewGame(); err != nil {
		return GameResult{}, err
	}
	if err := black.NewGame(); err != nil {
		return GameResult{}, err
	}

	var pos = common.InitialPosition()
	var moves = make([]string, 0, len(opening)+min(r.MaxMoves, movesCapacityHint))

	for _, move := range opening {
		var child, err = applyMove(&pos, len(moves), move)
		if err != nil {
			return GameResult{}, err
		}
		pos = child
		moves = append(moves, move)
		if outcome, reason, over := adjudicate(&pos); over {
			return GameResult{Outcome: outcome, Reason: reason, Moves: moves, OpeningPlies: len(opening)}, nil
		}
	}

	for i := 0; i < r.MaxMoves; i++ {
		var player = black
		if pos.WhiteMove {
			player = white
		}
		if err := player.SetPosition(moves); err != nil {
			return GameResult{}, err
		}
		var move, err = player.BestMove(r.MoveTime)
		if err != nil {
			return GameResult{}, err
		}
		if isResignation(move) {
			var outcome = WhiteWins
			if pos.WhiteMove {
				outcome = BlackWins
			}
			return GameResult{Outcome: outcome, Reason: ReasonResignation, Moves: moves, OpeningPlies: len(opening)}, nil
		}
		child, err := applyMove(&pos, len(moves), move)
		if err != nil {
			return GameResult{}, err
		}
		pos = child
		moves = append(moves, move)
		if outcome, reason, over := adjudicate(&pos); over {
			return GameResult{Outcome: outcome, Reason: reason, Moves: moves, OpeningPlies: len(opening)}, nil
		}
	}

	return GameResult{Outcome: Draw, Reason: ReasonMaxMoves, Moves: moves, OpeningPlies: len(opening)}, nil
}

func isResignation(move string) bool {
	return move == "" || move == uci.NoMove || move == uci.NullMove
}

func applyMove(pos *common.Position, ply int, move string) (common.Position, error) {
	var lan, err = common.ParseLAN(move)
	if err != nil {
		return common.Position{}, &MoveError{Ply: ply, Move: move, Err: err}
	}
	mv, err := pos.Resolve(lan)
	if err != nil {
		return common.Position{}, &MoveError{Ply: ply, Move: move, Err: err}
	}
	child, err := pos.Apply(mv)
	if err != nil {
		return common.Position{}, &MoveError{Ply: ply, Move: move, Err: err}
	}
	return child, nil
}

// adjudicate checks the position reached by the last move.
func adjudicate(pos *common.Position) (Outcome, string, bool) {
	if pos.IsCheckmate() {
		if pos.WhiteMove {
			return BlackWins, ReasonCheckmate, true
		}
		return WhiteWins, ReasonCheckmate, true
	}
	if pos.IsStalemate() {
		return Draw, ReasonStalemate, true
	}
	if pos.IsInsufficientMaterial() {
		return Draw, ReasonInsufficientMaterial, true
	}
	if pos.Rule50 >= 100 {
		return Draw, ReasonFiftyMoves, true
	}
	return Draw, "", false
}
