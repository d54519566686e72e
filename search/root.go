package search

import (
	"time"

	"chessengine/tt"
)

// multiPVCount clamps the configured MultiPV to the number of legal root
// moves, defaulting to 1 (the common single-PV case).
func (w *Worker) multiPVCount() int {
	k := w.pool.limits.MultiPV
	if k < 1 {
		k = 1
	}
	if k > len(w.rootMoves) {
		k = len(w.rootMoves)
	}
	return k
}

// iterativeDeepening is the per-worker root loop: for each depth, run the
// multi-PV loop spec §4.7 step 1 describes — one aspiration-windowed call
// into search() per PV line, each excluding the lines already resolved at
// this depth so it searches only the remainder, then report the resolved
// lines in score order and move on to the next depth until the pool's time/depth limits or an external stop tells it to
// quit. search() itself explores every (non-excluded) legal root move
// through its own ordinary move loop, re-searching on fail-high/low with a
// widening window.
func (w *Worker) iterativeDeepening() {
	if len(w.rootMoves) == 0 {
		return
	}

	ss := frameAt(w.frames, 0)
	*ss = Stack{ply: 0}

	maxDepth := MaxPly - 1
	if w.pool.limits.Depth > 0 {
		maxDepth = w.pool.limits.Depth
	}

	k := w.multiPVCount()

	for depth := 1; depth <= maxDepth; depth++ {
		if w.shouldStop() {
			break
		}
		if w.isMain && depth > 1 && w.pool.timeCtl.ShouldStopIterative() {
			break
		}

		w.selDepth = 0
		done := 0

		for pvIdx := 0; pvIdx < k; pvIdx++ {
			if w.shouldStop() {
				break
			}

			// rootMoves[0:pvIdx] holds the lines already resolved at this
			// depth, sorted by score; rootMoves[pvIdx] itself still holds
			// its score from the previous depth.
			avg := w.rootMoves[pvIdx].previousScore
			if depth <= 1 || avg == 0 {
				avg = w.rootMoves[pvIdx].score
			}
			delta := int32(10) + avg*avg/12493
			alpha := clampScore(avg - delta)
			beta := clampScore(avg + delta)
			w.rootDelta = delta
			w.multiPVExclude = w.rootMoves[:pvIdx]

			var value int32
			for {
				ss.pv.clear()
				value = w.search(ss, alpha, beta, depth, false)
				if w.shouldStop() {
					break
				}
				if value <= alpha {
					beta = (alpha + beta) / 2
					alpha = clampScore(value - delta)
				} else if value >= beta {
					beta = clampScore(value + delta)
				} else {
					break
				}
				delta += delta/3 + 1
				if delta > tt.MaxScore {
					delta = tt.MaxScore
				}
			}
			w.multiPVExclude = nil
			if w.shouldStop() {
				break
			}

			w.rootMoves[pvIdx].previousScore = w.rootMoves[pvIdx].score
			w.rootMoves[pvIdx].score = value
			pv := ss.pv.slice()
			if len(pv) > 0 {
				w.rootMoves[pvIdx].move = pv[0]
			}
			w.rootMoves[pvIdx].pv = append(w.rootMoves[pvIdx].pv[:0], pv...)
			done = pvIdx + 1

			// Keep the resolved lines sorted by score, best first.
			for i := pvIdx; i > 0 && w.rootMoves[i].score > w.rootMoves[i-1].score; i-- {
				w.rootMoves[i], w.rootMoves[i-1] = w.rootMoves[i-1], w.rootMoves[i]
			}
		}
		if w.isMain && w.pool.Info != nil {
			for i := 0; i < done; i++ {
				w.reportInfo(depth, i)
			}
		}
		if w.shouldStop() {
			break
		}

		w.completedDepth = depth

		bestScore := w.rootMoves[0].score
		if bestScore >= tt.Checkmate || bestScore <= -tt.Checkmate {
			break
		}
		if w.pool.limits.Nodes > 0 && w.pool.TotalNodes() >= w.pool.limits.Nodes {
			break
		}
	}
}

func (w *Worker) reportInfo(depth, pvIdx int) {
	best := w.rootMoves[pvIdx]
	info := Info{
		Depth:      depth,
		SelDepth:   w.selDepth,
		MultiPVIdx: pvIdx + 1,
		Score:      best.score,
		Nodes:      w.pool.TotalNodes(),
		HashFull:   w.pool.Table.HashFull(),
		Time:       time.Since(w.pool.startTime),
		PV:         best.pv,
		Bound:      tt.BoundExact,
	}
	if best.score >= tt.Checkmate {
		info.Mate = true
	} else if best.score <= -tt.Checkmate {
		info.Mate = true
	}
	w.pool.Info(info)
}

func clampScore(v int32) int32 {
	if v > tt.MaxScore {
		return tt.MaxScore
	}
	if v < -tt.MaxScore {
		return -tt.MaxScore
	}
	return v
}
