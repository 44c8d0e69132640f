package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMove   = errors.New("invalid move")
	ErrIllegalMove   = errors.New("illegal move")
	ErrApplyRejected = errors.New("move rejected")
)

type Move int32

const MoveEmpty = Move(0)

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15))
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.Promotion() != Empty {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

// LanMove is a syntactically valid long algebraic move (e2e4, e7e8q)
// not yet checked against any position.
type LanMove struct {
	From, To, Promotion int
}

func (m LanMove) String() string {
	var s = SquareName(m.From) + SquareName(m.To)
	if m.Promotion != Empty {
		s += string("nbrq"[m.Promotion-Knight])
	}
	return s
}

func ParseLAN(s string) (LanMove, error) {
	if len(s) != 4 && len(s) != 5 {
		return LanMove{}, fmt.Errorf("%w %q", ErrInvalidMove, s)
	}
	var from, err = ParseSquare(s[0:2])
	if err != nil || from == SquareNone {
		return LanMove{}, fmt.Errorf("%w %q", ErrInvalidMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil || to == SquareNone {
		return LanMove{}, fmt.Errorf("%w %q", ErrInvalidMove, s)
	}
	var result = LanMove{From: from, To: to}
	if len(s) == 5 {
		var i = strings.IndexByte("nbrq", s[4])
		if i < 0 {
			return LanMove{}, fmt.Errorf("%w %q", ErrInvalidMove, s)
		}
		result.Promotion = Knight + i
	}
	return result, nil
}

// Resolve finds the legal move in p matching lan.
func (p *Position) Resolve(lan LanMove) (Move, error) {
	var buffer [MaxMoves]Move
	var child Position
	for _, mv := range p.GenerateMoves(buffer[:]) {
		if mv.From() != lan.From || mv.To() != lan.To || mv.Promotion() != lan.Promotion {
			continue
		}
		if !p.MakeMove(mv, &child) {
			break
		}
		return mv, nil
	}
	return MoveEmpty, fmt.Errorf("%w %v in %v", ErrIllegalMove, lan, p)
}

func (p *Position) Apply(move Move) (Position, error) {
	var child Position
	if !p.MakeMove(move, &child) {
		return Position{}, fmt.Errorf("%w %v in %v", ErrApplyRejected, move, p)
	}
	return child, nil
}

// MakeMoveLAN parses, resolves and applies a move in one step.
func (p *Position) MakeMoveLAN(s string) (Position, error) {
	var lan, err = ParseLAN(s)
	if err != nil {
		return Position{}, err
	}
	mv, err := p.Resolve(lan)
	if err != nil {
		return Position{}, err
	}
	return p.Apply(mv)
}

// MoveToSAN formats a legal move of p in standard algebraic notation,
// with a check or mate suffix.
func MoveToSAN(p *Position, mv Move) string {
	const pieceNames = "NBRQK"
	var san string
	switch mv {
	case whiteKingSideCastle, blackKingSideCastle:
		san = "O-O"
	case whiteQueenSideCastle, blackQueenSideCastle:
		san = "O-O-O"
	}
	if san == "" {
		var strPiece, strFrom, strCapture, strPromotion string
		if mv.MovingPiece() != Pawn {
			strPiece = string(pieceNames[mv.MovingPiece()-Knight])
		}
		if mv.CapturedPiece() != Empty {
			strCapture = "x"
			if mv.MovingPiece() == Pawn {
				strFrom = SquareName(mv.From())[:1]
			}
		}
		if mv.Promotion() != Empty {
			strPromotion = "=" + string(pieceNames[mv.Promotion()-Knight])
		}
		if mv.MovingPiece() != Pawn {
			strFrom = disambiguation(p, mv)
		}
		san = strPiece + strFrom + strCapture + SquareName(mv.To()) + strPromotion
	}

	var child Position
	if p.MakeMove(mv, &child) && child.IsCheck() {
		if child.HasLegalMove() {
			san += "+"
		} else {
			san += "#"
		}
	}
	return san
}

func disambiguation(p *Position, mv Move) string {
	var ambiguity = false
	var uniqFile = true
	var uniqRank = true
	for _, other := range p.GenerateLegalMoves() {
		if other.From() == mv.From() ||
			other.To() != mv.To() ||
			other.MovingPiece() != mv.MovingPiece() {
			continue
		}
		ambiguity = true
		if File(other.From()) == File(mv.From()) {
			uniqFile = false
		}
		if Rank(other.From()) == Rank(mv.From()) {
			uniqRank = false
		}
	}
	if !ambiguity {
		return ""
	}
	var from = SquareName(mv.From())
	if uniqFile {
		return from[:1]
	}
	if uniqRank {
		return from[1:2]
	}
	return from
}

// ParseMoveSAN finds the legal move of p written as san.
// Check, mate and annotation suffixes are ignored.
func ParseMoveSAN(p *Position, san string) (Move, error) {
	var want = normalizeSAN(san)
	if want == "" {
		return MoveEmpty, fmt.Errorf("%w %q", ErrInvalidMove, san)
	}
	for _, mv := range p.GenerateLegalMoves() {
		if normalizeSAN(MoveToSAN(p, mv)) == want {
			return mv, nil
		}
	}
	return MoveEmpty, fmt.Errorf("%w %v in %v", ErrIllegalMove, san, p)
}

func normalizeSAN(san string) string {
	san = strings.TrimRight(san, "+#!?")
	san = strings.ReplaceAll(san, "0", "O")
	return strings.ReplaceAll(san, "=", "")
}
