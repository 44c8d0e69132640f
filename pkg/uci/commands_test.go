package uci

import (
	"errors"
	"testing"
	"time"
)

func TestPositionCommand(t *testing.T) {
	var tests = []struct {
		moves []string
		want  string
	}{
		{nil, "position startpos"},
		{[]string{}, "position startpos"},
		{[]string{"e2e4"}, "position startpos moves e2e4"},
		{[]string{"e2e4", "e7e5", "g1f3"}, "position startpos moves e2e4 e7e5 g1f3"},
	}
	for _, test := range tests {
		if got := positionCommand(test.moves); got != test.want {
			t.Errorf("positionCommand(%v) = %q, want %q", test.moves, got, test.want)
		}
	}
}

func TestGoCommand(t *testing.T) {
	if got := goCommand(100 * time.Millisecond); got != "go movetime 100" {
		t.Error(got)
	}
	if got := goCommand(2 * time.Second); got != "go movetime 2000" {
		t.Error(got)
	}
}

func TestParseBestMove(t *testing.T) {
	var tests = []struct {
		line string
		move string
		ok   bool
		err  error
	}{
		{"bestmove e2e4", "e2e4", true, nil},
		{"bestmove e7e8q ponder a2a1", "e7e8q", true, nil},
		{"bestmove (none)", NoMove, true, nil},
		{"bestmove 0000", NullMove, true, nil},
		{"  bestmove g1f3  ", "g1f3", true, nil},
		{"bestmove", "", true, ErrProtocolViolation},
		{"info depth 10 score cp 20 pv e2e4", "", false, nil},
		{"", "", false, nil},
		{"bestmoves e2e4", "", false, nil},
	}
	for _, test := range tests {
		move, ok, err := parseBestMove(test.line)
		if move != test.move || ok != test.ok || !errors.Is(err, test.err) {
			t.Errorf("parseBestMove(%q) = %q %v %v", test.line, move, ok, err)
		}
	}
}
