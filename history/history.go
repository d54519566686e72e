// Package history implements the move-ordering statistics tables: butterfly,
// capture, continuation (piece-to), pawn, counter-move, and correction
// history, all updated with the saturating gravity rule.
package history

import "chessengine/position"

// Saturation limits per table, taken from the magnitude each table's score
// is allowed to drift toward but never exceed.
const (
	ButterflyLimit   int32 = 7183
	CaptureLimit     int32 = 10692
	PieceToLimit     int32 = 29952
	PawnLimit        int32 = 8192
	CorrectionLimit  int32 = 1024
	pawnTableBuckets       = 512
	correctionBuckets      = 16384
)

// PieceTo is a [piece][to] score table, used both standalone (as the move
// scored by the most recent ply) and as the value type of Continuation.
type PieceTo [16][64]int16

// Tables bundles every move-ordering statistic the search consults. The
// zero value is ready to use.
type Tables struct {
	Butterfly    [2][64 * 64]int16
	Capture      [16][64][7]int16
	Continuation [2][2][16][64]PieceTo
	Pawn         [pawnTableBuckets][16][64]int16
	counterMove  [16][64]position.Move
	Correction   [2][correctionBuckets]int16
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// updateGravity applies the saturating gravity rule: entry moves toward the
// clamped bonus but the step shrinks as entry approaches ±limit, so it never
// overshoots the limit regardless of how large bonus is. Go's native "/"
// truncates toward zero for mixed-sign operands, which is exactly the
// truncation the rule calls for, so no special-casing is needed here.
func updateGravity(entry *int16, bonus int32, limit int32) {
	cb := clamp32(bonus, -limit, limit)
	v := int32(*entry) + cb - int32(*entry)*abs32(cb)/limit
	*entry = int16(v)
}

func butterflyIndex(from, to position.Square) int {
	return int(from)*64 + int(to)
}

func (t *Tables) ButterflyScore(c position.Color, from, to position.Square) int32 {
	return int32(t.Butterfly[c][butterflyIndex(from, to)])
}

func (t *Tables) UpdateButterfly(c position.Color, from, to position.Square, bonus int32) {
	updateGravity(&t.Butterfly[c][butterflyIndex(from, to)], bonus, ButterflyLimit)
}

func (t *Tables) CaptureScore(p position.Piece, to position.Square, captured position.PieceType) int32 {
	return int32(t.Capture[p][to][captured])
}

func (t *Tables) UpdateCapture(p position.Piece, to position.Square, captured position.PieceType, bonus int32) {
	updateGravity(&t.Capture[p][to][captured], bonus, CaptureLimit)
}

// ContinuationSlot returns the PieceTo table keyed by the previous move's
// context, for the caller to index again by the current move's piece/to.
func (t *Tables) ContinuationSlot(prevInCheck, prevWasCapture bool, prevPiece position.Piece, prevTo position.Square) *PieceTo {
	return &t.Continuation[boolIdx(prevInCheck)][boolIdx(prevWasCapture)][prevPiece][prevTo]
}

func (pt *PieceTo) Score(p position.Piece, to position.Square) int32 {
	return int32(pt[p][to])
}

func (pt *PieceTo) Update(p position.Piece, to position.Square, bonus int32) {
	updateGravity(&pt[p][to], bonus, PieceToLimit)
}

func boolIdx(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (t *Tables) PawnScore(pawnKey uint64, p position.Piece, to position.Square) int32 {
	return int32(t.Pawn[pawnKey%pawnTableBuckets][p][to])
}

func (t *Tables) UpdatePawn(pawnKey uint64, p position.Piece, to position.Square, bonus int32) {
	updateGravity(&t.Pawn[pawnKey%pawnTableBuckets][p][to], bonus, PawnLimit)
}

func (t *Tables) CounterMove(p position.Piece, to position.Square) position.Move {
	return t.counterMove[p][to]
}

func (t *Tables) SetCounterMove(p position.Piece, to position.Square, m position.Move) {
	t.counterMove[p][to] = m
}

func (t *Tables) CorrectionScore(c position.Color, pawnKey uint64) int32 {
	return int32(t.Correction[c][pawnKey%correctionBuckets])
}

func (t *Tables) UpdateCorrection(c position.Color, pawnKey uint64, bonus int32) {
	updateGravity(&t.Correction[c][pawnKey%correctionBuckets], bonus, CorrectionLimit)
}

// NewSearch ages every score-valued table down rather than clearing it
// outright, so move ordering from the previous search still has a (heavily
// discounted) voice early in the next one. This mirrors the teacher's
// ageHistoryTable halving policy, generalized to every table the gravity
// rule now drives; CounterMove holds moves rather than scores and is left
// alone, since a stale counter-move suggestion costs nothing but a wasted
// ordering slot and is quickly overwritten.
func (t *Tables) NewSearch() {
	halve := func(v *int16) { *v /= 2 }
	for c := range t.Butterfly {
		for i := range t.Butterfly[c] {
			halve(&t.Butterfly[c][i])
		}
	}
	for p := range t.Capture {
		for sq := range t.Capture[p] {
			for capIdx := range t.Capture[p][sq] {
				halve(&t.Capture[p][sq][capIdx])
			}
		}
	}
	for a := range t.Continuation {
		for b := range t.Continuation[a] {
			for p := range t.Continuation[a][b] {
				for sq := range t.Continuation[a][b][p] {
					for p2 := range t.Continuation[a][b][p][sq] {
						for sq2 := range t.Continuation[a][b][p][sq][p2] {
							halve(&t.Continuation[a][b][p][sq][p2][sq2])
						}
					}
				}
			}
		}
	}
	for bucket := range t.Pawn {
		for p := range t.Pawn[bucket] {
			for sq := range t.Pawn[bucket][p] {
				halve(&t.Pawn[bucket][p][sq])
			}
		}
	}
	for c := range t.Correction {
		for i := range t.Correction[c] {
			halve(&t.Correction[c][i])
		}
	}
}
