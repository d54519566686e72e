package search

import (
	"chessengine/position"
	"chessengine/tt"
)

var rfpMargins = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}
var futilityMargins = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
var lmpMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

func matedIn(ply int) int32 { return -tt.MaxScore + int32(ply) }
func mateIn(ply int) int32  { return tt.MaxScore - int32(ply) }
func drawScore() int32      { return 0 }

func isCapture(pos *position.Position, m position.Move) bool {
	return pos.PieceOn(m.To()) != position.NoPiece || m.Kind() == position.EnPassant
}

func hasNonPawnMaterial(pos *position.Position) bool {
	return pos.State().NonPawnMaterial[pos.SideToMove()] > 0
}

func absLess(v, bound int32) bool {
	if v < 0 {
		v = -v
	}
	return v < bound
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	return minInt(maxInt(v, lo), hi)
}

func clampIdx(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// statBonus is the per-depth move-ordering bonus awarded to the move that
// causes a beta cutoff, shaped so shallow cutoffs still move the needle but
// deep ones do not saturate the tables in one update.
func statBonus(depth int) int32 {
	b := depth*depth + 2*depth - 2
	if b > 1200 {
		b = 1200
	}
	if b < 0 {
		b = 0
	}
	return int32(b)
}

// reduction looks the late-move reduction up in the pool's depth/move-count
// table, the product of two independent log-shaped curves the way
// reinitReductions built them.
func (w *Worker) reduction(depth, moveCount int) int {
	rd := w.pool.reductions[clampIdx(depth, len(w.pool.reductions)-1)]
	rm := w.pool.reductions[clampIdx(moveCount, len(w.pool.reductions)-1)]
	r := int(rd * rm / 2000.0)
	if r < 0 {
		r = 0
	}
	return r
}

// updateQuietStats records a beta cutoff caused by a non-capture: it
// becomes a killer at this ply, its butterfly/continuation entries move
// toward saturation, and it becomes the counter-move for whatever the
// opponent just played to reach this node.
func (w *Worker) updateQuietStats(ss *Stack, m position.Move, bonus int32) {
	pos := w.pos
	if ss.killers[0] != m {
		ss.killers[1] = ss.killers[0]
		ss.killers[0] = m
	}
	w.hist.UpdateButterfly(pos.SideToMove(), m.From(), m.To(), bonus)

	piece := pos.PieceOn(m.From())
	w.hist.UpdatePawn(pos.State().PawnKey, piece, m.To(), bonus)
	for _, slot := range w.continuationSlots(ss.ply) {
		if slot != nil {
			slot.Update(piece, m.To(), bonus)
		}
	}

	if ss.ply >= 1 {
		prev := frameAt(w.frames, ss.ply-1)
		if prev.currentMove != position.MoveNone && prev.currentMove != position.MoveNull {
			w.hist.SetCounterMove(pos.PieceOn(prev.currentMove.To()), prev.currentMove.To(), m)
		}
	}
}

func (w *Worker) markQuietMalus(ss *Stack, m position.Move, bonus int32) {
	pos := w.pos
	w.hist.UpdateButterfly(pos.SideToMove(), m.From(), m.To(), -bonus)
	piece := pos.PieceOn(m.From())
	w.hist.UpdatePawn(pos.State().PawnKey, piece, m.To(), -bonus)
	for _, slot := range w.continuationSlots(ss.ply) {
		if slot != nil {
			slot.Update(piece, m.To(), -bonus)
		}
	}
}
