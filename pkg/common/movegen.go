package common

const (
	f1g1Mask = (uint64(1) << SquareF1) | (uint64(1) << SquareG1)
	b1d1Mask = (uint64(1) << (SquareA1 + 1)) | (uint64(1) << SquareC1) | (uint64(1) << SquareD1)
	f8g8Mask = (uint64(1) << SquareF8) | (uint64(1) << SquareG8)
	b8d8Mask = (uint64(1) << (SquareA8 + 1)) | (uint64(1) << SquareC8) | (uint64(1) << SquareD8)
)

var (
	whiteKingSideCastle  = makeMove(SquareE1, SquareG1, King, Empty)
	whiteQueenSideCastle = makeMove(SquareE1, SquareC1, King, Empty)
	blackKingSideCastle  = makeMove(SquareE8, SquareG8, King, Empty)
	blackQueenSideCastle = makeMove(SquareE8, SquareC8, King, Empty)
)

func addPromotions(ml []Move, move Move) int {
	ml[0] = move ^ Move(Queen<<18)
	ml[1] = move ^ Move(Rook<<18)
	ml[2] = move ^ Move(Bishop<<18)
	ml[3] = move ^ Move(Knight<<18)
	return 4
}

// GenerateMoves fills ml with pseudo-legal moves.
// Moves that leave the king in check are rejected later by MakeMove.
func (p *Position) GenerateMoves(ml []Move) []Move {
	var count = 0
	var fromBB, toBB, ownPieces, oppPieces uint64
	var from, to int

	if p.WhiteMove {
		ownPieces = p.White
		oppPieces = p.Black
	} else {
		ownPieces = p.Black
		oppPieces = p.White
	}

	var target = ^ownPieces
	if p.Checkers != 0 {
		var kingSq = FirstOne(p.Kings & ownPieces)
		target = p.Checkers | betweenMask[FirstOne(p.Checkers)][kingSq]
	}

	var allPieces = p.White | p.Black
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			ml[count] = makeMove(from, p.EpSquare, Pawn, Pawn)
			count++
		}
	}

	var forward, doublePushRank, promotionFromRank = 8, Rank2, Rank7
	if !p.WhiteMove {
		forward, doublePushRank, promotionFromRank = -8, Rank7, Rank2
	}

	for fromBB = ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		var promotion = Rank(from) == promotionFromRank
		var add = func(to, captured int) {
			var move = makeMove(from, to, Pawn, captured)
			if promotion {
				count += addPromotions(ml[count:], move)
			} else {
				ml[count] = move
				count++
			}
		}
		to = from + forward
		if (SquareMask[to] & allPieces) == 0 {
			add(to, Empty)
			if Rank(from) == doublePushRank && (SquareMask[to+forward]&allPieces) == 0 {
				add(to+forward, Empty)
			}
		}
		for toBB = PawnAttacks(from, p.WhiteMove) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			add(to, p.WhatPiece(to))
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, Knight, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, Bishop, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, Rook, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, Queen, p.WhatPiece(to))
			count++
		}
	}

	from = FirstOne(p.Kings & ownPieces)
	for toBB = KingAttacks[from] &^ ownPieces; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count] = makeMove(from, to, King, p.WhatPiece(to))
		count++
	}

	if p.WhiteMove {
		if (p.CastleRights&WhiteKingSide) != 0 &&
			(allPieces&f1g1Mask) == 0 &&
			!p.isAttackedBySide(SquareE1, false) &&
			!p.isAttackedBySide(SquareF1, false) {
			ml[count] = whiteKingSideCastle
			count++
		}
		if (p.CastleRights&WhiteQueenSide) != 0 &&
			(allPieces&b1d1Mask) == 0 &&
			!p.isAttackedBySide(SquareE1, false) &&
			!p.isAttackedBySide(SquareD1, false) {
			ml[count] = whiteQueenSideCastle
			count++
		}
	} else {
		if (p.CastleRights&BlackKingSide) != 0 &&
			(allPieces&f8g8Mask) == 0 &&
			!p.isAttackedBySide(SquareE8, true) &&
			!p.isAttackedBySide(SquareF8, true) {
			ml[count] = blackKingSideCastle
			count++
		}
		if (p.CastleRights&BlackQueenSide) != 0 &&
			(allPieces&b8d8Mask) == 0 &&
			!p.isAttackedBySide(SquareE8, true) &&
			!p.isAttackedBySide(SquareD8, true) {
			ml[count] = blackQueenSideCastle
			count++
		}
	}

	return ml[:count]
}

func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]Move
	var child Position
	var ml []Move
	for _, m := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(m, &child) {
			ml = append(ml, m)
		}
	}
	return ml
}

func (p *Position) HasLegalMove() bool {
	var buffer [MaxMoves]Move
	var child Position
	for _, m := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(m, &child) {
			return true
		}
	}
	return false
}
