package position

import bb "chessengine/bitboard"

// Legal assumes m is pseudo-legal and decides whether playing it would leave
// the moving side's own king in check.
func (p *Position) Legal(m Move) bool {
	us := p.sideToMove
	from := m.From()
	to := m.To()
	ksq := p.KingSquare(us)

	switch m.Kind() {
	case EnPassant:
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		occ := p.Occupied() &^ from.BB() &^ capturedSq.BB() | to.BB()
		return p.attackersTo(ksq, occ)&p.byColor[us.Opposite()] == 0

	case Castling:
		rookSq := to
		idx := -1
		for _, cr := range allCastleRights {
			i := castleRightIndex(cr)
			if p.castlingRookSquare[i] == rookSq && p.st.CastlingRights&cr != 0 {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		them := us.Opposite()
		kingside := rookSq > ksq
		rank := ksq.Rank()
		var kingDest Square
		if kingside {
			kingDest = MakeSquare(bb.FileG, rank)
		} else {
			kingDest = MakeSquare(bb.FileC, rank)
		}
		path := bb.BetweenBB[ksq][kingDest] | ksq.BB() | kingDest.BB()
		occWithoutKingRook := p.Occupied() &^ ksq.BB() &^ rookSq.BB()
		for sq := path; sq != 0; {
			s := sq.LSB()
			sq &= sq - 1
			if p.attackersTo(s, occWithoutKingRook)&p.byColor[them] != 0 {
				return false
			}
		}
		if p.isChess960 {
			// The rook being castled-through must not itself become a
			// pinner of the king's destination square.
			var rookDest Square
			if kingside {
				rookDest = kingDest - 1
			} else {
				rookDest = kingDest + 1
			}
			occAfter := occWithoutKingRook | kingDest.BB() | rookDest.BB()
			if p.attackersTo(kingDest, occAfter)&p.byColor[them] != 0 {
				return false
			}
		}
		return true

	default:
		if p.board[from].Type() == King {
			occ := p.Occupied() &^ from.BB()
			return p.attackersTo(to, occ)&p.byColor[us.Opposite()] == 0
		}
		if p.Pinned(us)&from.BB() == 0 {
			return true
		}
		return bb.LineBB[ksq][from]&to.BB() != 0
	}
}

// PseudoLegal is a fuller validator used to verify moves retrieved from the
// transposition table, which may be corrupted by key collisions: it checks
// color, piece existence, geometry, blockers, capture rules, promotion
// requirements, and evasion correctness when in check.
func (p *Position) PseudoLegal(m Move) bool {
	if m.IsNone() || m.IsNull() {
		return false
	}
	from, to := m.From(), m.To()
	if from == to {
		return false
	}
	us := p.sideToMove
	moved := p.board[from]
	if moved == NoPiece || moved.Color() != us {
		return false
	}
	if p.board[to] != NoPiece && p.board[to].Color() == us && m.Kind() != Castling {
		return false
	}

	switch m.Kind() {
	case EnPassant:
		if moved.Type() != Pawn || to != p.st.EpSquare {
			return false
		}
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		if p.board[capturedSq].Type() != Pawn || p.board[capturedSq].Color() == us {
			return false
		}
	case Promotion:
		if moved.Type() != Pawn {
			return false
		}
		promoRank := bb.RankEight
		if us == Black {
			promoRank = bb.RankOne
		}
		if to.Rank() != promoRank {
			return false
		}
		if !p.pseudoLegalPawnMove(us, from, to) {
			return false
		}
	case Castling:
		idx := -1
		for _, cr := range allCastleRights {
			i := castleRightIndex(cr)
			if p.castlingRookSquare[i] == to && p.st.CastlingRights&cr != 0 {
				idx = i
			}
		}
		if idx < 0 || moved.Type() != King || p.board[to].Type() != Rook || p.board[to].Color() != us {
			return false
		}
		if p.InCheck() {
			return false
		}
		if p.castlingPath[idx]&p.Occupied() != 0 {
			return false
		}
		return true
	default:
		if moved.Type() == Pawn && !p.pseudoLegalPawnMove(us, from, to) {
			return false
		}
	}

	if moved.Type() != Pawn {
		occ := p.Occupied()
		var attacks Bitboard
		switch moved.Type() {
		case Knight:
			attacks = bb.Attacks(bb.KnightPT, from, occ)
		case Bishop:
			attacks = bb.Attacks(bb.BishopPT, from, occ)
		case Rook:
			attacks = bb.Attacks(bb.RookPT, from, occ)
		case Queen:
			attacks = bb.Attacks(bb.QueenPT, from, occ)
		case King:
			attacks = bb.Attacks(bb.KingPT, from, occ)
		}
		if attacks&to.BB() == 0 {
			return false
		}
	}

	if p.InCheck() {
		ksq := p.KingSquare(us)
		if moved.Type() != King {
			checker := p.Checkers().LSB()
			block := bb.BetweenBB[ksq][checker] | p.Checkers()
			if block&to.BB() == 0 {
				return false
			}
		}
		if p.Checkers().MoreThanOne() && moved.Type() != King {
			return false
		}
	}

	return true
}

func (p *Position) pseudoLegalPawnMove(us Color, from, to Square) bool {
	occ := p.Occupied()
	them := us.Opposite()
	var push bb.Direction
	var startRank bb.Rank
	if us == White {
		push, startRank = bb.North, bb.RankTwo
	} else {
		push, startRank = bb.South, bb.RankSeven
	}
	forward := from.BB()
	single := bb.Shift(forward, push)
	if single&to.BB() != 0 {
		return occ&to.BB() == 0
	}
	if from.Rank() == startRank {
		double := bb.Shift(single&p.Empty(), push)
		if double&to.BB() != 0 {
			return occ&to.BB() == 0 && single&occ == 0
		}
	}
	if bb.PawnAttacks[us][from]&to.BB() != 0 {
		return p.byColor[them]&to.BB() != 0
	}
	return false
}

// GivesCheck reports whether playing m (pseudo-legal for the side to move)
// would place the opponent's king in check, without mutating the position.
func (p *Position) GivesCheck(m Move) bool {
	us := p.sideToMove
	them := us.Opposite()
	from, to := m.From(), m.To()
	moved := p.board[from]
	theirKsq := p.KingSquare(them)

	if p.st.CheckSquares[moved.Type()]&to.BB() != 0 {
		return true
	}

	if p.st.BlockersForKing[them]&p.byColor[us] == 0 {
		// fast path: no discovered check possible, and direct check already
		// ruled out above for non-special moves.
	} else if p.st.BlockersForKing[them]&from.BB() != 0 && bb.LineBB[from][theirKsq]&to.BB() == 0 {
		return true
	}

	switch m.Kind() {
	case Promotion:
		occ := p.Occupied() &^ from.BB() | to.BB()
		pt := m.PromotionType()
		var idx int
		switch pt {
		case Knight:
			idx = bb.KnightPT
		case Bishop:
			idx = bb.BishopPT
		case Rook:
			idx = bb.RookPT
		case Queen:
			idx = bb.QueenPT
		}
		return bb.Attacks(idx, to, occ)&theirKsq.BB() != 0
	case EnPassant:
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		occ := p.Occupied() &^ from.BB() &^ capturedSq.BB() | to.BB()
		rookLike := bb.Attacks(bb.RookPT, theirKsq, occ) & (p.PiecesColorType(us, Rook) | p.PiecesColorType(us, Queen))
		bishopLike := bb.Attacks(bb.BishopPT, theirKsq, occ) & (p.PiecesColorType(us, Bishop) | p.PiecesColorType(us, Queen))
		return rookLike != 0 || bishopLike != 0
	case Castling:
		rookSq := to
		rank := from.Rank()
		kingside := rookSq > from
		var rookDest Square
		if kingside {
			rookDest = MakeSquare(bb.FileF, rank)
		} else {
			rookDest = MakeSquare(bb.FileD, rank)
		}
		occ := p.Occupied() &^ from.BB() &^ rookSq.BB() | rookDest.BB()
		return bb.Attacks(bb.RookPT, rookDest, occ)&theirKsq.BB() != 0
	}
	return false
}
