package position

import bb "chessengine/bitboard"

func seeValue(pt PieceType) int32 {
	switch pt {
	case Pawn:
		return PawnValue
	case Knight:
		return KnightValue
	case Bishop:
		return BishopValue
	case Rook:
		return RookValue
	case Queen:
		return QueenValue
	case King:
		return 20000
	default:
		return 0
	}
}

const maxSeeDepth = 32

// SeeGe is the Static Exchange Evaluation threshold test: simulate the
// capture sequence at the move's destination square — at each step the
// side to move picks its least valuable attacker, toggling sides, removing
// that attacker from the occupancy and revealing any x-ray attacker behind
// it — then back-propagate the per-ply gains with a minimax pass, the way
// the teacher's gain[]-array SEE does. Pinned attackers may not capture
// while their pinner remains on the board. Returns true iff the resulting
// swap sequence leaves the side making the first capture up by at least
// threshold.
func (p *Position) SeeGe(m Move, threshold int32) bool {
	return p.see(m) >= threshold
}

func (p *Position) see(m Move) int32 {
	from, to := m.From(), m.To()

	var gain [maxSeeDepth]int32
	depth := 0

	var captured Piece
	if m.Kind() == EnPassant {
		captured = MakePiece(p.sideToMove.Opposite(), Pawn)
	} else {
		captured = p.board[to]
	}
	gain[0] = seeValue(captured.Type())

	occ := p.Occupied() &^ from.BB()
	if m.Kind() == EnPassant {
		var capSq Square
		if p.sideToMove == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		occ &^= capSq.BB()
	}

	attackerPt := p.board[from].Type()
	if m.Kind() == Promotion {
		attackerPt = m.PromotionType()
	}
	stm := p.sideToMove.Opposite()

	for {
		depth++
		if depth >= maxSeeDepth {
			break
		}
		gain[depth] = seeValue(attackerPt) - gain[depth-1]
		if maxI32(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attackers := p.attackersTo(to, occ) & occ
		stmAttackers := attackers & p.byColor[stm]
		// exclude pinned attackers unless the capture stays on the pin line
		pinned := p.Pinned(stm) & stmAttackers
		for pb := pinned; pb != 0; {
			sq := pb.LSB()
			pb &= pb - 1
			if bb.LineBB[p.KingSquare(stm)][sq]&to.BB() == 0 {
				stmAttackers &^= sq.BB()
			}
		}
		if stmAttackers == 0 {
			break
		}
		pt, sq := leastValuableAttacker(p, stmAttackers)
		occ &^= sq.BB()
		attackerPt = pt
		stm = stm.Opposite()
	}

	for d := depth - 1; d > 0; d-- {
		gain[d-1] = -maxI32(-gain[d-1], gain[d])
	}
	return gain[0]
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func leastValuableAttacker(p *Position, attackers Bitboard) (PieceType, Square) {
	for _, pt := range [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King} {
		bbPt := attackers & p.Pieces(pt)
		if bbPt != 0 {
			return pt, bbPt.LSB()
		}
	}
	return NoPieceType, NoSquare
}
