package search

import (
	"chessengine/movepick"
	"chessengine/position"
	"chessengine/tt"
)

// qsearchCheckPly is the highest ply from the search root at which qsearch
// still lets the move picker try quiet checking moves; at later plies only
// captures (or evasions, when in check) are searched.
const qsearchCheckPly = 2

// qsearch resolves tactical sequences at the leaves of the main search:
// captures and, near the horizon, checks, until the position is quiet
// enough for the static evaluator to be trusted.
func (w *Worker) qsearch(ss *Stack, alpha, beta int32) int32 {
	pos := w.pos
	ply := ss.ply

	w.nodes.Add(1)
	if ply > w.selDepth {
		w.selDepth = ply
	}
	if w.nodes.Load()&2047 == 0 {
		w.checkTime()
	}
	if w.shouldStop() {
		return 0
	}
	if pos.IsDraw(ply) {
		return drawScore()
	}
	if ply >= MaxPly-1 {
		return w.pool.Eval.Evaluate(pos, 0)
	}

	inCheck := pos.InCheck()
	posKey := pos.Key()
	halfmoveClock := int(pos.State().HalfmoveClock)

	entry, ttHit := w.pool.Table.Probe(posKey)
	ttMove := position.MoveNone
	if ttHit {
		ttMove = entry.Move()
		ttValue := tt.ValueFromTT(entry.Value(), ply, halfmoveClock)
		if ttValue != tt.UnusableScore {
			bound := entry.Bound()
			if bound == tt.BoundExact ||
				(bound == tt.BoundLower && ttValue >= beta) ||
				(bound == tt.BoundUpper && ttValue <= alpha) {
				return ttValue
			}
		}
	}

	var staticEval int32
	if ttHit && entry.Eval() != 0 {
		staticEval = entry.Eval()
	} else {
		staticEval = w.pool.Eval.Evaluate(pos, 0)
	}

	var bestValue int32
	var futilityBase int32
	if !inCheck {
		if staticEval >= beta {
			if !ttHit {
				w.pool.Table.Save(entry, posKey, tt.ValueToTT(staticEval, ply), false, tt.BoundLower, 0, position.MoveNone, staticEval)
			}
			return staticEval
		}
		if staticEval > alpha {
			alpha = staticEval
		}
		bestValue = staticEval
		futilityBase = staticEval + 226
	} else {
		bestValue = -tt.MaxScore
	}

	picker := movepick.New(pos, &w.hist, movepick.Quiescence, ttMove, [2]position.Move{}, position.MoveNone, 0, w.continuationSlots(ply))
	if !inCheck && ply <= qsearchCheckPly {
		picker.EnableQuietChecks()
	}

	bestMove := position.MoveNone
	moveCount := 0

	for {
		m := picker.Next()
		if m == position.MoveNone {
			break
		}

		isCap := isCapture(pos, m)
		if !inCheck {
			if isCap {
				captured := pos.PieceOn(m.To()).Type()
				if m.Kind() == position.EnPassant {
					captured = position.Pawn
				}
				if futilityBase+position.PieceTypeValue(captured) <= alpha && !pos.SeeGe(m, 1) {
					continue
				}
			}
			if !pos.SeeGe(m, -78) {
				continue
			}
		}

		givesCheck := pos.GivesCheck(m)
		moveCount++
		pos.DoMove(m)
		childSS := frameAt(w.frames, ply+1)
		*childSS = Stack{ply: ply + 1, currentMove: m, inCheck: givesCheck}
		value := -w.qsearch(childSS, -beta, -alpha)
		pos.UndoMove(m)

		if w.shouldStop() {
			return 0
		}

		if value > bestValue {
			bestValue = value
			bestMove = m
			if value > alpha {
				alpha = value
				if value >= beta {
					w.pool.Table.Save(entry, posKey, tt.ValueToTT(value, ply), false, tt.BoundLower, 0, m, staticEval)
					return value
				}
			}
		}
	}

	if inCheck && moveCount == 0 {
		return matedIn(ply)
	}

	if !w.shouldStop() {
		w.pool.Table.Save(entry, posKey, tt.ValueToTT(bestValue, ply), false, tt.BoundUpper, 0, bestMove, staticEval)
	}
	return bestValue
}
