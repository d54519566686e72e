package position

import bb "chessengine/bitboard"

// GenType selects which category of pseudo-legal moves to produce, per
// spec §4.3.
type GenType int

const (
	GenCaptures GenType = iota
	GenQuiets
	GenQuietChecks
	GenEvasions
	GenNonEvasions
	GenLegal
)

// Generate appends pseudo-legal (or, for GenLegal, fully legal) moves of the
// requested category to dst and returns the extended slice.
func (p *Position) Generate(gt GenType, dst []Move) []Move {
	if gt == GenLegal {
		var buf [256]Move
		all := p.generateOne(GenEvasionsOrNon(p), buf[:0])
		for _, m := range all {
			if p.Legal(m) {
				dst = append(dst, m)
			}
		}
		return dst
	}
	return p.generateOne(gt, dst)
}

func GenEvasionsOrNon(p *Position) GenType {
	if p.InCheck() {
		return GenEvasions
	}
	return GenNonEvasions
}

func (p *Position) generateOne(gt GenType, dst []Move) []Move {
	us := p.sideToMove
	if gt == GenEvasions && p.Checkers().MoreThanOne() {
		return p.generateKingMoves(us, dst, gt)
	}
	dst = p.generatePawnMoves(us, dst, gt)
	dst = p.generatePieceMoves(Knight, us, dst, gt)
	dst = p.generatePieceMoves(Bishop, us, dst, gt)
	dst = p.generatePieceMoves(Rook, us, dst, gt)
	dst = p.generatePieceMoves(Queen, us, dst, gt)
	dst = p.generateKingMoves(us, dst, gt)
	if gt == GenQuiets || gt == GenNonEvasions {
		dst = p.generateCastling(us, dst)
	}
	return dst
}

// targetSquares computes the destination-square filter implied by gt, given
// we are not generating pawn double-push/capture-specific squares (handled
// separately).
func (p *Position) targetSquares(gt GenType) Bitboard {
	us := p.sideToMove
	them := us.Opposite()
	switch gt {
	case GenCaptures:
		return p.byColor[them]
	case GenQuiets, GenQuietChecks:
		return p.Empty()
	case GenEvasions:
		ksq := p.KingSquare(us)
		checker := p.Checkers().LSB()
		return bb.BetweenBB[ksq][checker] | p.Checkers()
	default: // GenNonEvasions
		return ^p.byColor[us]
	}
}

func (p *Position) generatePieceMoves(pt PieceType, us Color, dst []Move, gt GenType) []Move {
	them := us.Opposite()
	occ := p.Occupied()
	targets := p.targetSquares(gt)
	pcIdxMap := map[PieceType]int{Knight: bb.KnightPT, Bishop: bb.BishopPT, Rook: bb.RookPT, Queen: bb.QueenPT}
	idx := pcIdxMap[pt]
	for pieces := p.PiecesColorType(us, pt); pieces != 0; {
		from := pieces.LSB()
		pieces &= pieces - 1
		attacks := bb.Attacks(idx, from, occ) & targets
		if gt == GenQuietChecks {
			attacks &= p.st.CheckSquares[pt]
		}
		for dsts := attacks; dsts != 0; {
			to := dsts.LSB()
			dsts &= dsts - 1
			dst = append(dst, NewMove(from, to))
		}
	}
	_ = them
	return dst
}

func (p *Position) generateKingMoves(us Color, dst []Move, gt GenType) []Move {
	ksq := p.KingSquare(us)
	occ := p.Occupied()
	var targets Bitboard
	if gt == GenEvasions {
		targets = ^p.byColor[us]
	} else {
		targets = p.targetSquares(gt)
	}
	attacks := bb.Attacks(bb.KingPT, ksq, occ) & targets
	if gt == GenQuietChecks {
		attacks = 0 // king can't give a direct check by moving adjacent to the opposing king
	}
	for a := attacks; a != 0; {
		to := a.LSB()
		a &= a - 1
		dst = append(dst, NewMove(ksq, to))
	}
	return dst
}

func (p *Position) generateCastling(us Color, dst []Move) []Move {
	if p.InCheck() {
		return dst
	}
	occ := p.Occupied()
	var rights [2]CastleRight
	if us == White {
		rights = [2]CastleRight{WhiteKingSide, WhiteQueenSide}
	} else {
		rights = [2]CastleRight{BlackKingSide, BlackQueenSide}
	}
	for _, cr := range rights {
		if p.st.CastlingRights&cr == 0 {
			continue
		}
		idx := castleRightIndex(cr)
		rookSq := p.castlingRookSquare[idx]
		path := p.castlingPath[idx]
		if path&occ != 0 {
			continue
		}
		ksq := p.KingSquare(us)
		// Encoded as "king captures own rook" per spec.
		dst = append(dst, NewSpecialMove(ksq, rookSq, Castling))
	}
	return dst
}

func (p *Position) generatePawnMoves(us Color, dst []Move, gt GenType) []Move {
	them := us.Opposite()
	empty := p.Empty()
	pawns := p.PiecesColorType(us, Pawn)

	var push, doublePush bb.Direction
	var startRank, promoRank bb.Rank
	if us == White {
		push, doublePush = bb.North, bb.North
		startRank, promoRank = bb.RankTwo, bb.RankEight
	} else {
		push, doublePush = bb.South, bb.South
		startRank, promoRank = bb.RankSeven, bb.RankOne
	}

	var target Bitboard
	evasion := gt == GenEvasions
	if evasion {
		target = p.targetSquares(GenEvasions)
	}

	if gt == GenCaptures || gt == GenEvasions || gt == GenNonEvasions {
		for _, dir := range captureDirs(us) {
			attacks := bb.Shift(pawns, dir) & p.byColor[them]
			if evasion {
				attacks &= target
			}
			for a := attacks; a != 0; {
				to := a.LSB()
				a &= a - 1
				from := to - Square(dir)
				dst = p.appendPawnMoveOrPromo(dst, from, to, promoRank)
			}
		}
		if ep := p.st.EpSquare; ep != NoSquare {
			var capturedSq Square
			if us == White {
				capturedSq = ep - 8
			} else {
				capturedSq = ep + 8
			}
			if !evasion || p.Checkers()&capturedSq.BB() != 0 {
				for _, dir := range captureDirs(us) {
					src := ep - Square(dir)
					if src.Valid() && bb.SquareDistance[src][ep] == 1 && pawns&src.BB() != 0 {
						dst = append(dst, NewSpecialMove(src, ep, EnPassant))
					}
				}
			}
		}
	}

	if gt == GenQuiets || gt == GenQuietChecks || gt == GenNonEvasions || gt == GenEvasions {
		single := bb.Shift(pawns, push) & empty
		if evasion {
			single &= target
		}
		for s := single; s != 0; {
			to := s.LSB()
			s &= s - 1
			from := to - Square(push)
			dst = p.appendPawnMoveOrPromo(dst, from, to, promoRank)
		}
		doubleOrigin := pawns & bb.RankBB(startRank)
		doubleTargets := bb.Shift(bb.Shift(doubleOrigin, push)&empty, doublePush) & empty
		if evasion {
			doubleTargets &= target
		}
		for d := doubleTargets; d != 0; {
			to := d.LSB()
			d &= d - 1
			from := to - Square(push) - Square(doublePush)
			dst = append(dst, NewMove(from, to))
		}
	}

	return dst
}

func captureDirs(us Color) [2]bb.Direction {
	if us == White {
		return [2]bb.Direction{bb.NorthWest, bb.NorthEast}
	}
	return [2]bb.Direction{bb.SouthWest, bb.SouthEast}
}

func (p *Position) appendPawnMoveOrPromo(dst []Move, from, to Square, promoRank bb.Rank) []Move {
	if to.Rank() == promoRank {
		for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
			dst = append(dst, NewPromotionMove(from, to, pt))
		}
		return dst
	}
	return append(dst, NewMove(from, to))
}

// filterToTargets keeps only moves (starting at index from) whose To() lies
// within targets; used to restrict pawn pushes/captures generated without a
// target mask to the evasion block/capture squares.
func (p *Position) filterToTargets(dst []Move, targets Bitboard, from int) []Move {
	kept := dst[:from]
	for _, m := range dst[from:] {
		if targets&m.To().BB() != 0 {
			kept = append(kept, m)
		}
	}
	return kept
}
