package search

import (
	"chessengine/movepick"
	"chessengine/position"
	"chessengine/tt"
)

// search is the principal-variation alpha-beta routine. alpha and beta are
// expressed from the side-to-move's perspective at ss.ply; beta-alpha>1
// marks a PV node. cutNode hints that this node is expected to fail high
// (the non-PV side of a PVS split), steering late-move-reduction and
// internal-iterative-reduction aggressiveness.
func (w *Worker) search(ss *Stack, alpha, beta int32, depth int, cutNode bool) int32 {
	if depth <= 0 {
		return w.qsearch(ss, alpha, beta)
	}

	pos := w.pos
	ply := ss.ply
	pvNode := beta-alpha > 1
	rootNode := ply == 0

	w.nodes.Add(1)
	if ply > w.selDepth {
		w.selDepth = ply
	}
	if w.nodes.Load()&1023 == 0 {
		w.checkTime()
	}
	if w.shouldStop() {
		return 0
	}
	if ply >= MaxPly-1 {
		return w.pool.Eval.Evaluate(pos, 0)
	}

	if !rootNode {
		if alpha < drawScore() && pos.HasGameCycle(ply) {
			alpha = drawScore()
			if alpha >= beta {
				return alpha
			}
		}
		if pos.IsDraw(ply) {
			return drawScore()
		}
	}

	if !rootNode {
		alpha = maxI32(alpha, matedIn(ply))
		beta = minI32(beta, mateIn(ply+1))
		if alpha >= beta {
			return alpha
		}
	}

	excludedMove := ss.excludedMove
	posKey := pos.Key()
	halfmoveClock := int(pos.State().HalfmoveClock)

	entry, ttHit := w.pool.Table.Probe(posKey)
	ttMove := position.MoveNone
	ttValue := tt.UnusableScore
	ttPv := pvNode
	if ttHit {
		ttMove = entry.Move()
		ttValue = tt.ValueFromTT(entry.Value(), ply, halfmoveClock)
		ttPv = ttPv || entry.PV()
	}
	ss.ttHit = ttHit
	ss.ttPv = ttPv

	if excludedMove == position.MoveNone && ttHit && int(entry.Depth()) >= depth && ttValue != tt.UnusableScore {
		bound := entry.Bound()
		usable := bound == tt.BoundExact ||
			(bound == tt.BoundLower && ttValue >= beta) ||
			(bound == tt.BoundUpper && ttValue <= alpha)
		if usable && !pvNode && halfmoveClock < 90 {
			if ttValue >= beta && ttMove != position.MoveNone && !isCapture(pos, ttMove) {
				w.updateQuietStats(ss, ttMove, statBonus(depth))
			}
			return ttValue
		}
	}

	inCheck := pos.InCheck()
	ss.inCheck = inCheck

	var staticEval int32
	if ttHit && entry.Eval() != 0 {
		staticEval = entry.Eval()
	} else {
		staticEval = w.pool.Eval.Evaluate(pos, 0)
		w.pool.Eval.HintCommonAccess(pos)
	}
	corrected := staticEval
	if !inCheck {
		corr := w.hist.CorrectionScore(pos.SideToMove(), pos.State().PawnKey)
		corrected = clampScore(staticEval + corr/64)
	}
	ss.staticEval = corrected

	improving := false
	if !inCheck && ply >= 2 {
		improving = corrected > frameAt(w.frames, ply-2).staticEval
	}
	worsening := false
	if ply >= 1 {
		worsening = corrected+frameAt(w.frames, ply-1).staticEval < 0
	}

	// Razoring: the position looks lost even before generating a move; a
	// quiescence probe confirms it cheaply before committing to full search.
	if !rootNode && !inCheck && !pvNode && depth <= 4 {
		margin := int32(300 + 175*depth)
		if corrected < alpha-margin {
			v := w.qsearch(ss, alpha, alpha+1)
			if v <= alpha {
				return v
			}
		}
	}

	// Reverse futility pruning.
	if !rootNode && !inCheck && !pvNode && depth <= 7 && absLess(beta, tt.Checkmate) {
		margin := rfpMargins[clampIdx(depth, len(rfpMargins)-1)]
		if !improving {
			margin -= 50
		}
		if worsening {
			margin -= 30
		}
		if corrected-margin >= beta {
			return (corrected + beta) / 2
		}
	}

	// Null-move pruning.
	if !rootNode && !pvNode && !inCheck && ss.currentMove != position.MoveNull &&
		corrected >= beta && hasNonPawnMaterial(pos) && depth >= 3 {
		r := minInt(int(corrected-beta)/144, 6) + depth/3 + 4
		r = clampInt(r, 1, depth-1)

		pos.DoNullMove()
		childSS := frameAt(w.frames, ply+1)
		*childSS = Stack{ply: ply + 1, currentMove: position.MoveNull}
		value := -w.search(childSS, -beta, -beta+1, depth-r, !cutNode)
		pos.UndoNullMove()

		if value >= beta && value < tt.Checkmate {
			if depth > 12 {
				verify := w.search(ss, beta-1, beta, depth-r, false)
				if verify >= beta {
					return verify
				}
			} else {
				return value
			}
		}
	}

	// Internal iterative reduction when no TT move is available to order
	// against.
	if ttMove == position.MoveNone && !rootNode {
		if pvNode {
			depth -= 3
		} else if cutNode && depth >= 6 {
			depth -= 2
		}
		if depth <= 0 {
			return w.qsearch(ss, alpha, beta)
		}
	}

	// ProbCut: a cheap capture-only search to see whether this node is
	// likely to fail high by a wide margin, skipping the full move loop.
	if !pvNode && depth > 4 && absLess(beta, tt.Checkmate) {
		probCutBeta := beta + 180
		threshold := probCutBeta - corrected
		picker := movepick.NewProbCut(pos, &w.hist, threshold)
		for {
			m := picker.Next()
			if m == position.MoveNone {
				break
			}
			if m == excludedMove {
				continue
			}
			givesCheck := pos.GivesCheck(m)
			pos.DoMove(m)
			childSS := frameAt(w.frames, ply+1)
			*childSS = Stack{ply: ply + 1, currentMove: m, inCheck: givesCheck}
			value := -w.qsearch(childSS, -probCutBeta, -probCutBeta+1)
			if value >= probCutBeta {
				value = -w.search(childSS, -probCutBeta, -probCutBeta+1, depth-4, !cutNode)
			}
			pos.UndoMove(m)
			if w.shouldStop() {
				return 0
			}
			if value >= probCutBeta {
				w.pool.Table.Save(entry, posKey, tt.ValueToTT(value, ply), false, tt.BoundLower, int8(depth-3), m, staticEval)
				return value
			}
		}
	}

	var counterMove position.Move
	if ply >= 1 {
		prev := frameAt(w.frames, ply-1)
		if prev.currentMove != position.MoveNone && prev.currentMove != position.MoveNull {
			counterMove = w.hist.CounterMove(pos.PieceOn(prev.currentMove.To()), prev.currentMove.To())
		}
	}

	picker := movepick.New(pos, &w.hist, movepick.MainSearch, ttMove, ss.killers, counterMove, depth, w.continuationSlots(ply))

	var quietsTried []position.Move
	bestValue := -tt.MaxScore
	bestMove := position.MoveNone
	boundFlag := tt.BoundUpper
	moveCount := 0

	for {
		m := picker.Next()
		if m == position.MoveNone {
			break
		}
		if m == excludedMove {
			continue
		}
		if rootNode && w.isExcludedRootMove(m) {
			continue
		}

		moveCount++
		isCap := isCapture(pos, m)
		givesCheck := pos.GivesCheck(m)
		tactical := isCap || givesCheck || m.Kind() == position.Promotion

		if !rootNode && !pvNode && !inCheck && !tactical && moveCount > 1 {
			limit := lmpMargins[clampIdx(depth, len(lmpMargins)-1)]
			if !improving {
				limit = limit * 2 / 3
			}
			if limit > 0 && moveCount > limit {
				continue
			}
		}

		if !rootNode && !pvNode && !inCheck && !tactical && depth <= 7 && absLess(alpha, tt.Checkmate) {
			margin := futilityMargins[clampIdx(depth, len(futilityMargins)-1)]
			if !improving {
				margin -= 50
			}
			if corrected+margin <= alpha {
				continue
			}
		}

		if !rootNode && depth <= 8 {
			threshold := int32(-90 * depth)
			if !tactical {
				threshold = int32(-20 * depth * depth)
			}
			if !pos.SeeGe(m, threshold) {
				continue
			}
		}

		if !isCap {
			quietsTried = append(quietsTried, m)
		}

		extension := 0
		if !rootNode && m == ttMove && !inCheck && depth >= 8 && ttHit &&
			entry.Bound() == tt.BoundLower && int(entry.Depth()) >= depth-3 && absLess(ttValue, tt.Checkmate) {
			margin := int32(50 + 10*depth)
			singularBeta := ttValue - margin
			r := 3 + depth/4
			r = clampInt(r, 1, depth-1)

			savedExcluded := ss.excludedMove
			ss.excludedMove = m
			sv := w.search(ss, singularBeta-1, singularBeta, depth-1-r, cutNode)
			ss.excludedMove = savedExcluded

			if sv < singularBeta {
				extension = 1
				if !pvNode && sv < singularBeta-20 {
					extension = 2
				}
			} else if singularBeta >= beta {
				return singularBeta
			}
		}
		if extension == 0 && pvNode && isCap && ply >= 1 {
			prev := frameAt(w.frames, ply-1)
			if prev.currentMove != position.MoveNone && prev.currentMove.To() == m.To() {
				capHist := w.hist.CaptureScore(pos.PieceOn(m.From()), m.To(), pos.PieceOn(m.To()).Type())
				if capHist > 4000 {
					extension = 1
				}
			}
		}

		newDepth := depth - 1 + extension

		pos.DoMove(m)
		childSS := frameAt(w.frames, ply+1)
		movedPiece := pos.PieceOn(m.To())
		*childSS = Stack{
			ply:         ply + 1,
			currentMove: m,
			inCheck:     givesCheck,
			contHist:    w.hist.ContinuationSlot(inCheck, isCap, movedPiece, m.To()),
		}

		var value int32
		if moveCount == 1 {
			value = -w.search(childSS, -beta, -alpha, newDepth, false)
		} else {
			r := 0
			if depth >= 2 && moveCount >= 2 && !tactical {
				r = w.reduction(depth, moveCount)
				if ttPv {
					r--
				}
				if cutNode {
					r++
				}
				hist := w.hist.ButterflyScore(pos.SideToMove().Opposite(), m.From(), m.To())
				r -= int(hist / 13659)
				if r < 0 {
					r = 0
				}
			}
			d := clampInt(newDepth-r, 1, newDepth+1)
			value = -w.search(childSS, -(alpha + 1), -alpha, d, true)
			if value > alpha && r > 0 {
				value = -w.search(childSS, -(alpha + 1), -alpha, newDepth, !cutNode)
			}
			if value > alpha && value < beta {
				value = -w.search(childSS, -beta, -alpha, newDepth, false)
			}
		}
		pos.UndoMove(m)

		if w.shouldStop() {
			return 0
		}

		if value > bestValue {
			bestValue = value
			bestMove = m
		}
		if value >= beta {
			boundFlag = tt.BoundLower
			if !isCap {
				bonus := statBonus(depth)
				w.updateQuietStats(ss, m, bonus)
				for _, fm := range quietsTried {
					if fm != m {
						w.markQuietMalus(ss, fm, bonus)
					}
				}
			}
			break
		}
		if value > alpha {
			alpha = value
			boundFlag = tt.BoundExact
			if pvNode {
				ss.pv.set(m, &childSS.pv)
			}
		}
	}

	if moveCount == 0 {
		if excludedMove != position.MoveNone {
			return alpha
		}
		if inCheck {
			return matedIn(ply)
		}
		return drawScore()
	}

	if !pvNode && boundFlag == tt.BoundLower && absLess(bestValue, tt.Checkmate) {
		bestValue = (bestValue*(int32(depth)+2) + beta) / (int32(depth) + 3)
	}

	if !inCheck && (bestMove == position.MoveNone || !isCapture(pos, bestMove)) && absLess(bestValue, tt.Checkmate) {
		bonus := clampScore((bestValue - staticEval) * int32(depth) / 8)
		w.hist.UpdateCorrection(pos.SideToMove(), pos.State().PawnKey, bonus)
	}

	if !w.shouldStop() {
		w.pool.Table.Save(entry, posKey, tt.ValueToTT(bestValue, ply), pvNode, boundFlag, int8(depth), bestMove, staticEval)
	}

	return bestValue
}
