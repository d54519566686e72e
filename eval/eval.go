// Package eval implements the classical, hand-tuned positional evaluator:
// tapered material and piece-square tables, mobility, pawn structure,
// king safety, and a handful of piece-specific bonuses, all blended by
// game phase the way the teacher's Evaluation function does.
package eval

import (
	"chessengine/bitboard"
	"chessengine/position"
)

// Evaluator implements search.Evaluator with the full classical
// evaluation function described above.
type Evaluator struct{}

// New returns the classical evaluator.
func New() *Evaluator { return &Evaluator{} }

// HintCommonAccess is a no-op: this evaluator touches nothing beyond pos
// itself, so there is nothing useful to prefetch ahead of the call.
func (*Evaluator) HintCommonAccess(pos *position.Position) {}

// Evaluate scores pos from the side to move's perspective, blending a
// midgame and an endgame score by the remaining material's game phase and
// adding a small tempo bonus for the side on move. optimism nudges the
// score toward pushing tactically sharp positions rather than trading them
// off, the same knob the search's aspiration/razoring logic expects.
func (e *Evaluator) Evaluate(pos *position.Position, optimism int32) int32 {
	mg, eg := e.taperedScore(pos)

	phase := gamePhase(pos)
	score := (mg*phase + eg*(totalPhase-phase)) / totalPhase

	if pos.SideToMove() == position.Black {
		score = -score
	}
	score += tempoBonus
	return score + optimism*score/256
}

func gamePhase(pos *position.Position) int32 {
	phase := int32(0)
	for pt := position.Knight; pt <= position.Queen; pt++ {
		phase += phaseWeight[pt] * int32(pos.Pieces(pt).Count())
	}
	if phase > totalPhase {
		phase = totalPhase
	}
	return phase
}

// taperedScore returns White-minus-Black midgame and endgame component
// scores; Evaluate folds them by phase and flips sign for Black to move.
func (e *Evaluator) taperedScore(pos *position.Position) (mg, eg int32) {
	occ := pos.Occupied()

	for c := position.White; c <= position.Black; c++ {
		sign := int32(1)
		if c == position.Black {
			sign = -1
		}

		for pt := position.Pawn; pt <= position.King; pt++ {
			bb := pos.PiecesColorType(c, pt)
			for bb != 0 {
				sq := bb.PopLSB()
				idx := int(sq)
				if c == position.Black {
					idx ^= 56
				}
				mg += sign * (pieceValueMG[pt] + psqtMG[pt][idx])
				eg += sign * (pieceValueEG[pt] + psqtEG[pt][idx])
			}
		}

		friendly := pos.PiecesByColor(c)
		for pt := position.Knight; pt <= position.Queen; pt++ {
			pieces := pos.PiecesColorType(c, pt)
			for pieces != 0 {
				sq := pieces.PopLSB()
				attacks := bitboard.Attacks(int(pt), sq, occ) &^ friendly
				n := int32(attacks.Count())
				mg += sign * n * mobilityValueMG[pt]
				eg += sign * n * mobilityValueEG[pt]
			}
		}

		if pos.PiecesColorType(c, position.Bishop).Count() >= 2 {
			mg += sign * bishopPairBonusMG
			eg += sign * bishopPairBonusEG
		}

		rm, re := e.rookFileScore(pos, c)
		mg += sign * rm
		eg += sign * re

		pm, pe := e.pawnStructureScore(pos, c)
		mg += sign * pm
		eg += sign * pe

		sm, se := e.spaceScore(pos, c)
		mg += sign * sm
		eg += sign * se
	}

	wkm, wke := e.kingSafetyScore(pos, position.White)
	bkm, bke := e.kingSafetyScore(pos, position.Black)
	mg += wkm - bkm
	eg += wke - bke

	return mg, eg
}

// rookFileScore rewards rooks on open/semi-open files and doubled rooks
// sharing a file, both cheap proxies for rook activity.
func (e *Evaluator) rookFileScore(pos *position.Position, c position.Color) (mg, eg int32) {
	rooks := pos.PiecesColorType(c, position.Rook)
	ourPawns := pos.PiecesColorType(c, position.Pawn)
	theirPawns := pos.PiecesColorType(c.Opposite(), position.Pawn)

	fileCounts := [8]int{}
	for b := rooks; b != 0; {
		sq := b.PopLSB()
		f := sq.File()
		fileCounts[f]++
		fileBB := bitboard.FileBB(f)
		switch {
		case ourPawns&fileBB == 0 && theirPawns&fileBB == 0:
			mg += rookOpenMG
		case ourPawns&fileBB == 0:
			mg += rookSemiOpenMG
		}
	}
	for _, n := range fileCounts {
		if n >= 2 {
			mg += rookStackedMG
		}
	}
	return mg, eg
}

// pawnStructureScore folds doubled, isolated, passed, connected/phalanx,
// and blocked pawn bonuses and penalties for one side.
func (e *Evaluator) pawnStructureScore(pos *position.Position, c position.Color) (mg, eg int32) {
	us := pos.PiecesColorType(c, position.Pawn)
	them := pos.PiecesColorType(c.Opposite(), position.Pawn)

	for b := us; b != 0; {
		sq := b.PopLSB()
		f := sq.File()

		adjacent := bitboard.Bitboard(0)
		if f > 0 {
			adjacent |= bitboard.FileBB(f - 1)
		}
		if f < 7 {
			adjacent |= bitboard.FileBB(f + 1)
		}
		if us&adjacent == 0 {
			mg -= isolatedPawnMG
			eg -= isolatedPawnEG
		}

		if n := (us & bitboard.FileBB(f)).Count(); n > 1 {
			mg -= doubledPawnMG / int32(n)
			eg -= doubledPawnEG / int32(n)
		}

		ahead := aheadMask(c, sq)
		if them&(adjacent|bitboard.FileBB(f))&ahead == 0 {
			idx := int(sq)
			if c == position.Black {
				idx ^= 56
			}
			mg += passedPawnMG[idx]
			eg += passedPawnEG[idx]
		}

		support := bitboard.PawnAttacks[c.Opposite()][sq] & us
		if support != 0 {
			mg += connectedMG
			eg += connectedEG
		} else if phalanxNeighbors(us, sq) {
			mg += phalanxMG
			eg += phalanxEG
		}

		front := pawnPush(c, sq)
		if front.Valid() && them&front.BB() != 0 {
			mg += blockedPawnMG
			eg += blockedPawnEG
		}
	}
	return mg, eg
}

func phalanxNeighbors(pawns bitboard.Bitboard, sq bitboard.Square) bool {
	f, r := sq.File(), sq.Rank()
	rankBB := bitboard.RankBB(r)
	if f > 0 && pawns&rankBB&bitboard.FileBB(f-1) != 0 {
		return true
	}
	if f < 7 && pawns&rankBB&bitboard.FileBB(f+1) != 0 {
		return true
	}
	return false
}

func aheadMask(c position.Color, sq bitboard.Square) bitboard.Bitboard {
	r := sq.Rank()
	mask := bitboard.Bitboard(0)
	if c == position.White {
		for rr := int(r) + 1; rr < 8; rr++ {
			mask |= bitboard.RankBB(bitboard.Rank(rr))
		}
	} else {
		for rr := int(r) - 1; rr >= 0; rr-- {
			mask |= bitboard.RankBB(bitboard.Rank(rr))
		}
	}
	return mask
}

func pawnPush(c position.Color, sq bitboard.Square) bitboard.Square {
	if c == position.White {
		return bitboard.Shift(sq.BB(), bitboard.North).LSB()
	}
	return bitboard.Shift(sq.BB(), bitboard.South).LSB()
}

// spaceScore rewards controlling safe squares in the side's own camp,
// a cheap proxy for the teacher's space evaluation.
func (e *Evaluator) spaceScore(pos *position.Position, c position.Color) (mg, eg int32) {
	var zone bitboard.Bitboard
	if c == position.White {
		zone = bitboard.FileBB(bitboard.FileC) | bitboard.FileBB(bitboard.FileD) |
			bitboard.FileBB(bitboard.FileE) | bitboard.FileBB(bitboard.FileF)
		zone &= bitboard.RankBB(bitboard.RankTwo) | bitboard.RankBB(bitboard.RankThree) | bitboard.RankBB(bitboard.RankFour)
	} else {
		zone = bitboard.FileBB(bitboard.FileC) | bitboard.FileBB(bitboard.FileD) |
			bitboard.FileBB(bitboard.FileE) | bitboard.FileBB(bitboard.FileF)
		zone &= bitboard.RankBB(bitboard.RankSeven) | bitboard.RankBB(bitboard.RankSix) | bitboard.RankBB(bitboard.RankFive)
	}
	theirPawnAttacks := bitboard.Bitboard(0)
	for b := pos.PiecesColorType(c.Opposite(), position.Pawn); b != 0; {
		sq := b.PopLSB()
		theirPawnAttacks |= bitboard.PawnAttacks[c.Opposite()][sq]
	}
	safe := zone &^ theirPawnAttacks &^ pos.PiecesByColor(c.Opposite())
	n := int32(safe.Count())
	return n * spaceBonusMG, n * spaceBonusEG
}

// kingSafetyScore converts nearby enemy piece pressure into an attack-unit
// count, looked up in kingSafetyTable, plus flat open/semi-open file and
// defender bonuses.
func (e *Evaluator) kingSafetyScore(pos *position.Position, c position.Color) (mg, eg int32) {
	kingSq := pos.KingSquare(c)
	if !kingSq.Valid() {
		return 0, 0
	}
	inner := bitboard.PseudoAttacks[bitboard.KingPT][kingSq]
	outer := bitboard.Bitboard(0)
	for b := inner; b != 0; {
		sq := b.PopLSB()
		outer |= bitboard.PseudoAttacks[bitboard.KingPT][sq]
	}
	outer &^= inner
	outer &^= kingSq.BB()

	enemy := c.Opposite()
	occ := pos.Occupied()
	units := int32(0)
	for pt := position.Knight; pt <= position.Queen; pt++ {
		for b := pos.PiecesColorType(enemy, pt); b != 0; {
			sq := b.PopLSB()
			attacks := bitboard.Attacks(int(pt), sq, occ)
			if attacks&inner != 0 {
				units += attackerInner[pt]
			}
			if attacks&outer != 0 {
				units += attackerOuter[pt]
			}
		}
	}
	if units > 99 {
		units = 99
	}
	mg -= kingSafetyTable[units]

	f := kingSq.File()
	ourPawns := pos.PiecesColorType(c, position.Pawn)
	theirPawns := pos.PiecesColorType(enemy, position.Pawn)
	fileBB := bitboard.FileBB(f)
	switch {
	case ourPawns&fileBB == 0 && theirPawns&fileBB == 0:
		mg += kingOpenFileMG
	case ourPawns&fileBB == 0:
		mg += kingSemiOpenFileMG
	}

	defenders := (pos.PiecesColorType(c, position.Knight) | pos.PiecesColorType(c, position.Bishop)) & inner
	mg += int32(defenders.Count()) * kingMinorDefenseMG
	mg += int32((ourPawns & inner).Count()) * kingPawnDefenseMG

	return mg, eg
}
