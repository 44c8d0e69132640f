package common

import (
	"errors"
	"testing"
)

func mustFEN(t *testing.T, fen string) Position {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func playLAN(t *testing.T, p Position, moves ...string) Position {
	t.Helper()
	for _, m := range moves {
		var child, err = p.MakeMoveLAN(m)
		if err != nil {
			t.Fatalf("%v: %v", m, err)
		}
		p = child
	}
	return p
}

func TestFENRoundTrip(t *testing.T) {
	var tests = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"8/8/8/4k3/8/8/8/4K2N b - - 37 80",
	}
	for _, fen := range tests {
		var p = mustFEN(t, fen)
		if got := p.String(); got != fen {
			t.Errorf("got %v want %v", got, fen)
		}
	}
}

func TestBadFEN(t *testing.T) {
	var tests = []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq -",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq -",
		"8/8/8/8/8/8/8/8 w - -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9",
	}
	for _, fen := range tests {
		if _, err := NewPositionFromFEN(fen); err == nil {
			t.Errorf("expected error for %q", fen)
		}
	}
}

func TestMoveCounters(t *testing.T) {
	var p = playLAN(t, InitialPosition(), "g1f3", "g8f6", "f3g1")
	if p.Rule50 != 3 {
		t.Errorf("Rule50 = %v", p.Rule50)
	}
	if p.FullMove != 2 {
		t.Errorf("FullMove = %v", p.FullMove)
	}
	p = playLAN(t, p, "e7e5")
	if p.Rule50 != 0 {
		t.Errorf("pawn move must reset Rule50, got %v", p.Rule50)
	}
	if p.EpSquare != mustSquare("e6") {
		t.Errorf("EpSquare = %v", p.EpSquare)
	}
}

func mustSquare(s string) int {
	var sq, err = ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

func TestParseLAN(t *testing.T) {
	var tests = []struct {
		name  string
		move  string
		valid bool
	}{
		{"quiet", "e2e4", true},
		{"promotion", "e7e8q", true},
		{"underpromotion", "a2a1n", true},
		{"short", "e2e", false},
		{"long", "e2e4qq", false},
		{"bad rank", "e2e9", false},
		{"bad file", "i2e4", false},
		{"bad promotion", "e7e8k", false},
		{"sentinel", "(none)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lan, err = ParseLAN(tt.move)
			if tt.valid {
				if err != nil {
					t.Fatal(err)
				}
				if lan.String() != tt.move {
					t.Errorf("got %v", lan)
				}
			} else if !errors.Is(err, ErrInvalidMove) {
				t.Errorf("expected ErrInvalidMove, got %v", err)
			}
		})
	}
}

func TestResolveIllegal(t *testing.T) {
	var p = InitialPosition()
	var tests = []string{"e2e5", "e1e2", "a7a6", "b1d2"}
	for _, m := range tests {
		var lan, err = ParseLAN(m)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := p.Resolve(lan); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("%v: expected ErrIllegalMove, got %v", m, err)
		}
	}
}

func TestResolvePinned(t *testing.T) {
	// the e-file knight is pinned against the king
	var p = mustFEN(t, "4r1k1/8/8/8/8/8/4N3/4K3 w - - 0 1")
	var lan, _ = ParseLAN("e2c3")
	if _, err := p.Resolve(lan); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("expected ErrIllegalMove, got %v", err)
	}
}

func TestApplyRejected(t *testing.T) {
	var p = mustFEN(t, "4r1k1/8/8/8/8/8/4N3/4K3 w - - 0 1")
	var mv = makeMove(mustSquare("e2"), mustSquare("c3"), Knight, Empty)
	if _, err := p.Apply(mv); !errors.Is(err, ErrApplyRejected) {
		t.Errorf("expected ErrApplyRejected, got %v", err)
	}
}

func TestCheckmate(t *testing.T) {
	var p = playLAN(t, InitialPosition(), "f2f3", "e7e5", "g2g4", "d8h4")
	if !p.IsCheckmate() {
		t.Error("fool's mate not detected")
	}
	if p.IsStalemate() {
		t.Error("checkmate reported as stalemate")
	}
	if !p.WhiteMove {
		t.Error("white should be to move")
	}
}

func TestStalemate(t *testing.T) {
	var p = mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !p.IsStalemate() {
		t.Error("stalemate not detected")
	}
	if p.IsCheckmate() {
		t.Error("stalemate reported as checkmate")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	var tests = []struct {
		name string
		fen  string
		want bool
	}{
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", true},
		{"knight", "8/8/8/4k3/8/8/8/4K2N w - - 0 1", true},
		{"bishop", "8/8/8/4k3/8/8/8/4KB2 w - - 0 1", true},
		{"same colour bishops", "8/8/8/4k3/8/8/8/3BKB2 w - - 0 1", true},
		{"opposite colour bishops", "8/8/8/4k3/8/8/8/2B1KB2 w - - 0 1", false},
		{"two knights", "8/8/8/4k3/8/8/8/1N2K1N1 w - - 0 1", false},
		{"pawn", "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", false},
		{"rook", "8/8/8/4k3/8/8/8/R3K3 w - - 0 1", false},
		{"initial", InitialPositionFen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p = mustFEN(t, tt.fen)
			if got := p.IsInsufficientMaterial(); got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestMoveToSAN(t *testing.T) {
	var tests = []struct {
		name string
		fen  string
		move string
		want string
	}{
		{"pawn push", InitialPositionFen, "e2e4", "e4"},
		{"knight", InitialPositionFen, "g1f3", "Nf3"},
		{"castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"long castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"promotion", "8/4P3/8/8/8/8/k7/4K3 w - - 0 1", "e7e8q", "e8=Q"},
		{"file disambiguation", "4k3/8/8/8/8/8/8/R4RK1 w - - 0 1", "a1d1", "Rad1"},
		{"rank disambiguation", "4k3/8/8/R7/8/8/8/R5K1 w - - 0 1", "a1a3", "R1a3"},
		{"mate", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "d8h4", "Qh4#"},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", "exd5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p = mustFEN(t, tt.fen)
			var lan, err = ParseLAN(tt.move)
			if err != nil {
				t.Fatal(err)
			}
			mv, err := p.Resolve(lan)
			if err != nil {
				t.Fatal(err)
			}
			if got := MoveToSAN(&p, mv); got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestParseMoveSAN(t *testing.T) {
	var tests = []struct {
		fen  string
		san  string
		want string
	}{
		{InitialPositionFen, "e4", "e2e4"},
		{InitialPositionFen, "Nf3", "g1f3"},
		{InitialPositionFen, "Nf3!?", "g1f3"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "O-O", "e1g1"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "0-0-0", "e1c1"},
		{"8/4P3/8/8/8/8/k7/4K3 w - - 0 1", "e8=Q", "e7e8q"},
		{"8/4P3/8/8/8/8/k7/4K3 w - - 0 1", "e8N", "e7e8n"},
		{"4k3/8/8/8/8/8/8/R4RK1 w - - 0 1", "Rad1", "a1d1"},
		{"rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "Qh4#", "d8h4"},
		{"rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "Qh4", "d8h4"},
	}
	for _, tt := range tests {
		var p = mustFEN(t, tt.fen)
		var mv, err = ParseMoveSAN(&p, tt.san)
		if err != nil {
			t.Errorf("%v: %v", tt.san, err)
			continue
		}
		if mv.String() != tt.want {
			t.Errorf("%v: got %v want %v", tt.san, mv, tt.want)
		}
	}

	var p = InitialPosition()
	for _, san := range []string{"e5", "Rd1", "Nd2", "O-O", "", "+"} {
		if _, err := ParseMoveSAN(&p, san); err == nil {
			t.Errorf("%q: expected error", san)
		}
	}
}
