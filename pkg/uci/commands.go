package uci

import (
	"fmt"
	"strings"
	"time"
)

// Sentinels an engine may announce instead of a move.
const (
	NoMove   = "(none)"
	NullMove = "0000"
)

func positionCommand(moves []string) string {
	if len(moves) == 0 {
		return "position startpos"
	}
	return "position startpos moves " + strings.Join(moves, " ")
}

func goCommand(moveTime time.Duration) string {
	return fmt.Sprintf("go movetime %d", moveTime.Milliseconds())
}

func setOptionCommand(option Option) string {
	return fmt.Sprintf("setoption name %v value %v", option.Name, option.Value)
}

// parseBestMove extracts the move from a "bestmove <move> [ponder <move>]" line.
// ok is false for any other line.
func parseBestMove(line string) (move string, ok bool, err error) {
	var fields = strings.Fields(line)
	if len(fields) == 0 || fields[0] != "bestmove" {
		return "", false, nil
	}
	if len(fields) == 1 {
		return "", true, fmt.Errorf("%w: %q", ErrProtocolViolation, line)
	}
	return fields[1], true, nil
}

func isToken(token string) func(string) bool {
	return func(line string) bool {
		return strings.TrimSpace(line) == token
	}
}
