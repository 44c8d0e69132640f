package common

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var castleMask [64]int

func InitialPosition() Position {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return p
}

func NewPositionFromFEN(fen string) (Position, error) {
	var tokens = strings.Fields(fen)
	if len(tokens) < 4 {
		return Position{}, fmt.Errorf("parse fen failed %v", fen)
	}

	var board [64]coloredPiece
	var rows = strings.Split(tokens[0], "/")
	if len(rows) != 8 {
		return Position{}, fmt.Errorf("parse fen failed %v", fen)
	}
	for i, row := range rows {
		var rank = Rank8 - i
		var file = FileA
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			var piece, ok = parsePiece(ch)
			if !ok || file > FileH {
				return Position{}, fmt.Errorf("parse fen failed %v", fen)
			}
			board[MakeSquare(file, rank)] = piece
			file++
		}
		if file != 8 {
			return Position{}, fmt.Errorf("parse fen failed %v", fen)
		}
	}

	var whiteMove bool
	switch tokens[1] {
	case "w":
		whiteMove = true
	case "b":
		whiteMove = false
	default:
		return Position{}, fmt.Errorf("parse fen failed %v", fen)
	}

	var cr = 0
	if strings.Contains(tokens[2], "K") {
		cr |= WhiteKingSide
	}
	if strings.Contains(tokens[2], "Q") {
		cr |= WhiteQueenSide
	}
	if strings.Contains(tokens[2], "k") {
		cr |= BlackKingSide
	}
	if strings.Contains(tokens[2], "q") {
		cr |= BlackQueenSide
	}

	var epSquare, err = ParseSquare(tokens[3])
	if err != nil {
		return Position{}, fmt.Errorf("parse fen failed %v: %w", fen, err)
	}

	var rule50, fullMove = 0, 1
	if len(tokens) > 4 {
		rule50, _ = strconv.Atoi(tokens[4])
	}
	if len(tokens) > 5 {
		fullMove, _ = strconv.Atoi(tokens[5])
	}

	var pos, isLegal = createPosition(board, whiteMove, cr, epSquare, rule50, fullMove)
	if !isLegal {
		return Position{}, fmt.Errorf("parse fen failed %v", fen)
	}
	return pos, nil
}

func createPosition(board [64]coloredPiece, wtm bool,
	castleRights, ep, fifty, fullMove int) (Position, bool) {
	var p = Position{
		WhiteMove:    wtm,
		CastleRights: castleRights,
		EpSquare:     ep,
		Rule50:       fifty,
		FullMove:     fullMove,
		LastMove:     MoveEmpty,
	}

	for sq, piece := range board {
		if piece.Type != Empty {
			xorPiece(&p, piece.Type, piece.Side, sq)
		}
	}

	if PopCount(p.Kings&p.White) != 1 || PopCount(p.Kings&p.Black) != 1 {
		return Position{}, false
	}

	p.Checkers = p.computeCheckers()

	if !p.isLegal() {
		return Position{}, false
	}
	return p, true
}

func parsePiece(ch rune) (coloredPiece, bool) {
	var i = strings.IndexRune("pnbrqk", unicode.ToLower(ch))
	if i < 0 {
		return coloredPiece{}, false
	}
	return coloredPiece{Type: i + Pawn, Side: unicode.IsUpper(ch)}, true
}

func (p *Position) String() string {
	var sb strings.Builder

	for rank := Rank8; rank >= Rank1; rank-- {
		var emptyCount = 0
		for file := FileA; file <= FileH; file++ {
			var piece, side = p.GetPieceTypeAndSide(MakeSquare(file, rank))
			if piece == Empty {
				emptyCount++
				continue
			}
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			sb.WriteString(pieceToChar(piece, side))
		}
		if emptyCount != 0 {
			sb.WriteString(strconv.Itoa(emptyCount))
		}
		if rank != Rank1 {
			sb.WriteString("/")
		}
	}

	if p.WhiteMove {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.CastleRights == 0 {
		sb.WriteString("-")
	} else {
		if (p.CastleRights & WhiteKingSide) != 0 {
			sb.WriteString("K")
		}
		if (p.CastleRights & WhiteQueenSide) != 0 {
			sb.WriteString("Q")
		}
		if (p.CastleRights & BlackKingSide) != 0 {
			sb.WriteString("k")
		}
		if (p.CastleRights & BlackQueenSide) != 0 {
			sb.WriteString("q")
		}
	}
	sb.WriteString(" ")

	if p.EpSquare == SquareNone {
		sb.WriteString("-")
	} else {
		sb.WriteString(SquareName(p.EpSquare))
	}

	fmt.Fprintf(&sb, " %d %d", p.Rule50, p.FullMove)
	return sb.String()
}

func pieceToChar(pieceType int, side bool) string {
	var result = string("pnbrqk"[pieceType-Pawn])
	if side {
		result = strings.ToUpper(result)
	}
	return result
}

func (p *Position) GetPieceTypeAndSide(sq int) (pieceType int, side bool) {
	var bb = SquareMask[sq]
	if (p.White & bb) != 0 {
		side = true
	} else if (p.Black & bb) == 0 {
		return Empty, false
	}
	return p.WhatPiece(sq), side
}

func (p *Position) WhatPiece(sq int) int {
	var bb = SquareMask[sq]
	switch {
	case ((p.White | p.Black) & bb) == 0:
		return Empty
	case (p.Pawns & bb) != 0:
		return Pawn
	case (p.Knights & bb) != 0:
		return Knight
	case (p.Bishops & bb) != 0:
		return Bishop
	case (p.Rooks & bb) != 0:
		return Rook
	case (p.Queens & bb) != 0:
		return Queen
	case (p.Kings & bb) != 0:
		return King
	}
	panic(fmt.Errorf("wrong piece on %s", SquareName(sq)))
}

// MakeMove writes the position after move into result.
// It returns false if the move leaves the mover's king in check.
func (src *Position) MakeMove(move Move, result *Position) bool {
	var from = move.From()
	var to = move.To()
	var movingPiece = move.MovingPiece()
	var capturedPiece = move.CapturedPiece()

	*result = *src
	result.WhiteMove = !src.WhiteMove
	result.CastleRights = src.CastleRights & castleMask[from] & castleMask[to]
	result.EpSquare = SquareNone

	if movingPiece == Pawn || capturedPiece != Empty {
		result.Rule50 = 0
	} else {
		result.Rule50 = src.Rule50 + 1
	}
	if !src.WhiteMove {
		result.FullMove = src.FullMove + 1
	}

	if capturedPiece != Empty {
		if capturedPiece == Pawn && to == src.EpSquare {
			var victim = to - 8
			if !src.WhiteMove {
				victim = to + 8
			}
			xorPiece(result, Pawn, !src.WhiteMove, victim)
		} else {
			xorPiece(result, capturedPiece, !src.WhiteMove, to)
		}
	}

	movePiece(result, movingPiece, src.WhiteMove, from, to)

	if movingPiece == Pawn {
		if src.WhiteMove {
			if to == from+16 {
				result.EpSquare = from + 8
			}
			if Rank(to) == Rank8 {
				xorPiece(result, Pawn, true, to)
				xorPiece(result, move.Promotion(), true, to)
			}
		} else {
			if to == from-16 {
				result.EpSquare = from - 8
			}
			if Rank(to) == Rank1 {
				xorPiece(result, Pawn, false, to)
				xorPiece(result, move.Promotion(), false, to)
			}
		}
	} else if movingPiece == King {
		switch {
		case from == SquareE1 && to == SquareG1:
			movePiece(result, Rook, true, SquareH1, SquareF1)
		case from == SquareE1 && to == SquareC1:
			movePiece(result, Rook, true, SquareA1, SquareD1)
		case from == SquareE8 && to == SquareG8:
			movePiece(result, Rook, false, SquareH8, SquareF8)
		case from == SquareE8 && to == SquareC8:
			movePiece(result, Rook, false, SquareA8, SquareD8)
		}
	}

	if !result.isLegal() {
		return false
	}
	result.Checkers = result.computeCheckers()
	result.LastMove = move
	return true
}

func (p *Position) PiecesByColor(side bool) uint64 {
	if side {
		return p.White
	}
	return p.Black
}

func xorPiece(p *Position, piece int, side bool, square int) {
	var b = SquareMask[square]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	*p.pieceBoard(piece) ^= b
}

func movePiece(p *Position, piece int, side bool, from int, to int) {
	var b = SquareMask[from] ^ SquareMask[to]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	*p.pieceBoard(piece) ^= b
}

func (p *Position) pieceBoard(piece int) *uint64 {
	switch piece {
	case Pawn:
		return &p.Pawns
	case Knight:
		return &p.Knights
	case Bishop:
		return &p.Bishops
	case Rook:
		return &p.Rooks
	case Queen:
		return &p.Queens
	case King:
		return &p.Kings
	}
	panic(fmt.Errorf("bad piece %v", piece))
}

func (p *Position) isAttackedBySide(sq int, side bool) bool {
	var enemy = p.PiecesByColor(side)
	if (PawnAttacks(sq, !side) & p.Pawns & enemy) != 0 {
		return true
	}
	if (KnightAttacks[sq] & p.Knights & enemy) != 0 {
		return true
	}
	if (KingAttacks[sq] & p.Kings & enemy) != 0 {
		return true
	}
	var allPieces = p.White | p.Black
	if (BishopAttacks(sq, allPieces) & (p.Bishops | p.Queens) & enemy) != 0 {
		return true
	}
	if (RookAttacks(sq, allPieces) & (p.Rooks | p.Queens) & enemy) != 0 {
		return true
	}
	return false
}

func (p *Position) attackersTo(sq int) uint64 {
	var occ = p.White | p.Black
	return (blackPawnAttacks[sq] & p.Pawns & p.White) |
		(whitePawnAttacks[sq] & p.Pawns & p.Black) |
		(KnightAttacks[sq] & p.Knights) |
		(BishopAttacks(sq, occ) & (p.Bishops | p.Queens)) |
		(RookAttacks(sq, occ) & (p.Rooks | p.Queens)) |
		(KingAttacks[sq] & p.Kings)
}

func (p *Position) computeCheckers() uint64 {
	if p.WhiteMove {
		return p.attackersTo(FirstOne(p.Kings&p.White)) & p.Black
	}
	return p.attackersTo(FirstOne(p.Kings&p.Black)) & p.White
}

// isLegal reports whether the side that just moved left its king safe.
func (p *Position) isLegal() bool {
	var kingSq = FirstOne(p.Kings & p.PiecesByColor(!p.WhiteMove))
	return !p.isAttackedBySide(kingSq, p.WhiteMove)
}

func (p *Position) IsCheck() bool {
	return p.Checkers != 0
}

func init() {
	for i := range castleMask {
		castleMask[i] = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	}
	castleMask[SquareA1] &^= WhiteQueenSide
	castleMask[SquareE1] &^= WhiteQueenSide | WhiteKingSide
	castleMask[SquareH1] &^= WhiteKingSide
	castleMask[SquareA8] &^= BlackQueenSide
	castleMask[SquareE8] &^= BlackQueenSide | BlackKingSide
	castleMask[SquareH8] &^= BlackKingSide
}
