package arena

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ChizhovVadim/enginematch/pkg/common"
	"github.com/ChizhovVadim/enginematch/pkg/uci"
)

// scriptedPlayer replies with its moves in order, cycling when cycle is set.
type scriptedPlayer struct {
	name      string
	moves     []string
	cycle     bool
	err       error
	next      int
	newGames  int
	positions [][]string
}

func (p *scriptedPlayer) Name() string {
	return p.name
}

func (p *scriptedPlayer) NewGame() error {
	p.newGames++
	return nil
}

func (p *scriptedPlayer) SetPosition(moves []string) error {
	p.positions = append(p.positions, append([]string(nil), moves...))
	return nil
}

func (p *scriptedPlayer) BestMove(moveTime time.Duration) (string, error) {
	if p.next >= len(p.moves) {
		if p.cycle && len(p.moves) != 0 {
			p.next = 0
		} else if p.err != nil {
			return "", p.err
		} else {
			return uci.NoMove, nil
		}
	}
	var move = p.moves[p.next]
	p.next++
	return move, nil
}

func newRunner(maxMoves int) *GameRunner {
	return &GameRunner{MoveTime: 10 * time.Millisecond, MaxMoves: maxMoves}
}

func TestPlayGameResignation(t *testing.T) {
	var tests = []struct {
		name  string
		reply string
	}{
		{"no move", uci.NoMove},
		{"null move resigns", uci.NullMove},
		{"empty", ""},
	}
	for _, test := range tests {
		var white = &scriptedPlayer{name: "w", moves: []string{"e2e4"}}
		var black = &scriptedPlayer{name: "b", moves: []string{test.reply}}
		var result, err = newRunner(100).PlayGame(white, black, nil)
		if err != nil {
			t.Fatalf("%v: %v", test.name, err)
		}
		if result.Outcome != WhiteWins || result.Reason != ReasonResignation {
			t.Errorf("%v: got %v %v", test.name, result.Outcome, result.Reason)
		}
		if strings.Join(result.Moves, " ") != "e2e4" {
			t.Errorf("%v: moves %v", test.name, result.Moves)
		}
	}
}

func TestPlayGameHugeMoveCap(t *testing.T) {
	var white = &scriptedPlayer{name: "w", moves: []string{"e2e4"}}
	var black = &scriptedPlayer{name: "b", moves: []string{uci.NoMove}}
	var result, err = newRunner(math.MaxInt).PlayGame(white, black, []string{"d2d4", "d7d5"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != WhiteWins || result.Plies() != 3 {
		t.Errorf("got %+v", result)
	}
}

func TestPlayGameWhiteResignsAtOnce(t *testing.T) {
	var white = &scriptedPlayer{name: "w"}
	var black = &scriptedPlayer{name: "b"}
	var result, err = newRunner(100).PlayGame(white, black, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != BlackWins || result.Plies() != 0 {
		t.Errorf("got %+v", result)
	}
	if white.newGames != 1 || black.newGames != 1 {
		t.Errorf("newgame counts %v %v", white.newGames, black.newGames)
	}
}

func TestPlayGameCheckmate(t *testing.T) {
	var white = &scriptedPlayer{name: "w", moves: []string{"f2f3", "g2g4"}}
	var black = &scriptedPlayer{name: "b", moves: []string{"e7e5", "d8h4"}}
	var result, err = newRunner(100).PlayGame(white, black, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != BlackWins || result.Reason != ReasonCheckmate || result.Plies() != 4 {
		t.Errorf("got %+v", result)
	}
	var wantPositions = []string{"", "f2f3 e7e5"}
	for i, moves := range white.positions {
		if strings.Join(moves, " ") != wantPositions[i] {
			t.Errorf("white position %v: %v", i, moves)
		}
	}
	if strings.Join(black.positions[1], " ") != "f2f3 e7e5 g2g4" {
		t.Errorf("black position: %v", black.positions[1])
	}
}

func TestPlayGameFiftyMoves(t *testing.T) {
	var white = &scriptedPlayer{name: "w", moves: []string{"g1f3", "f3g1"}, cycle: true}
	var black = &scriptedPlayer{name: "b", moves: []string{"g8f6", "f6g8"}, cycle: true}
	var result, err = newRunner(300).PlayGame(white, black, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != Draw || result.Reason != ReasonFiftyMoves || result.Plies() != 100 {
		t.Errorf("got %v %v %v", result.Outcome, result.Reason, result.Plies())
	}
}

func TestPlayGameMaxMoves(t *testing.T) {
	var white = &scriptedPlayer{name: "w", moves: []string{"g1f3", "f3g1"}, cycle: true}
	var black = &scriptedPlayer{name: "b", moves: []string{"g8f6", "f6g8"}, cycle: true}
	var result, err = newRunner(10).PlayGame(white, black, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != Draw || result.Reason != ReasonMaxMoves || result.Plies() != 10 {
		t.Errorf("got %v %v %v", result.Outcome, result.Reason, result.Plies())
	}
}

func TestPlayGameBadMoves(t *testing.T) {
	var tests = []struct {
		name string
		move string
		want error
	}{
		{"invalid", "e2e9", common.ErrInvalidMove},
		{"garbage", "hello", common.ErrInvalidMove},
		{"illegal", "e2e5", common.ErrIllegalMove},
		{"wrong side", "e2e4", common.ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var white = &scriptedPlayer{name: "w", moves: []string{"d2d4"}}
			var black = &scriptedPlayer{name: "b", moves: []string{tt.move}}
			var _, err = newRunner(100).PlayGame(white, black, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var moveErr *MoveError
			if !errors.As(err, &moveErr) || moveErr.Ply != 1 || moveErr.Move != tt.move {
				t.Errorf("unexpected error %#v", err)
			}
		})
	}
}

func TestPlayGamePlayerError(t *testing.T) {
	var white = &scriptedPlayer{name: "w", moves: []string{"e2e4"}}
	var black = &scriptedPlayer{name: "b", err: uci.ErrEngineDisconnected}
	var _, err = newRunner(100).PlayGame(white, black, nil)
	if !errors.Is(err, uci.ErrEngineDisconnected) {
		t.Fatalf("expected ErrEngineDisconnected, got %v", err)
	}
}

func TestPlayGameOpening(t *testing.T) {
	var white = &scriptedPlayer{name: "w", moves: []string{"g1f3"}}
	var black = &scriptedPlayer{name: "b"}
	var opening = []string{"e2e4", "e7e5"}
	var result, err = newRunner(100).PlayGame(white, black, opening)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(white.positions[0], " "); got != "e2e4 e7e5" {
		t.Errorf("first request saw %q", got)
	}
	if got := strings.Join(result.Moves, " "); got != "e2e4 e7e5 g1f3" {
		t.Errorf("moves %q", got)
	}
	if result.OpeningPlies != 2 || result.Outcome != WhiteWins {
		t.Errorf("got %+v", result)
	}
}

func TestPlayGameBlackToMoveAfterOpening(t *testing.T) {
	var white = &scriptedPlayer{name: "w"}
	var black = &scriptedPlayer{name: "b"}
	var result, err = newRunner(100).PlayGame(white, black, []string{"d2d4"})
	if err != nil {
		t.Fatal(err)
	}
	if len(white.positions) != 0 || len(black.positions) != 1 {
		t.Errorf("requests white %v black %v", white.positions, black.positions)
	}
	if result.Outcome != WhiteWins {
		t.Errorf("got %v", result.Outcome)
	}
}

func TestPlayGameBadOpening(t *testing.T) {
	var white = &scriptedPlayer{name: "w"}
	var black = &scriptedPlayer{name: "b"}
	var _, err = newRunner(100).PlayGame(white, black, []string{"e2e4", "e2e4"})
	var moveErr *MoveError
	if !errors.As(err, &moveErr) || moveErr.Ply != 1 {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestAdjudicate(t *testing.T) {
	var tests = []struct {
		name    string
		fen     string
		outcome Outcome
		reason  string
		over    bool
	}{
		{"white mated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", BlackWins, ReasonCheckmate, true},
		{"black mated", "6Qk/5K2/8/8/8/8/8/8 b - - 0 1", WhiteWins, ReasonCheckmate, true},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Draw, ReasonStalemate, true},
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", Draw, ReasonInsufficientMaterial, true},
		{"fifty moves", "8/8/8/4k3/8/8/8/R3K3 w - - 100 80", Draw, ReasonFiftyMoves, true},
		{"ninety nine", "8/8/8/4k3/8/8/8/R3K3 w - - 99 80", Draw, "", false},
		{"mate beats fifty moves", "6Qk/5K2/8/8/8/8/8/8 b - - 100 90", WhiteWins, ReasonCheckmate, true},
		{"initial", common.InitialPositionFen, Draw, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pos, err = common.NewPositionFromFEN(tt.fen)
			if err != nil {
				t.Fatal(err)
			}
			var outcome, reason, over = adjudicate(&pos)
			if outcome != tt.outcome || reason != tt.reason || over != tt.over {
				t.Errorf("got %v %q %v", outcome, reason, over)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	if WhiteWins.String() != "1-0" || BlackWins.String() != "0-1" || Draw.String() != "1/2-1/2" {
		t.Error(WhiteWins, BlackWins, Draw)
	}
}
