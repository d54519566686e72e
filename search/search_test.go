package search

import (
	"testing"

	"chessengine/position"
	"chessengine/tt"
)

func newPool(t *testing.T) *Pool {
	t.Helper()
	return New(1, 4, nil)
}

func TestMateInOneIsFoundAndScoredAsMate(t *testing.T) {
	pos, err := position.NewPositionFromFEN("7k/6pp/8/8/8/8/8/1R4K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	pool := newPool(t)
	best, score := pool.StartSearching(pos, nil, Limits{Depth: 3})

	want := position.NewMove(position.MakeSquare(1, 0), position.MakeSquare(1, 7))
	if best != want {
		t.Fatalf("expected the back-rank mate Rb1b8, got %v", best)
	}
	if score < tt.Checkmate {
		t.Fatalf("expected a mate score above the checkmate threshold, got %d", score)
	}
}

func TestDepthLessOrEqualZeroRoutesToQsearch(t *testing.T) {
	pos, err := position.NewPositionFromFEN(position.StartFEN)
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	w := newWorker(0, New(1, 4, nil))
	w.pos = pos
	ss := frameAt(w.frames, 0)
	*ss = Stack{ply: 0}

	// A quiet starting position has no tactics to resolve; search at depth 0
	// should fall straight through to the static evaluator via qsearch
	// rather than recursing into the main alpha-beta loop.
	value := w.search(ss, -tt.MaxScore, tt.MaxScore, 0, false)
	staticValue := w.pool.Eval.Evaluate(pos, 0)
	if value != staticValue {
		t.Fatalf("depth<=0 should return the quiescence value of a quiet position (%d), got %d", staticValue, value)
	}
}

func TestCheckmatedSideScoresAsLosingMate(t *testing.T) {
	// A position with zero legal moves while in check must resolve through
	// the moveCount==0/inCheck branch to a losing mate score; null-move
	// pruning and every other non-root heuristic in the search must leave
	// this path reachable rather than looping or crashing on a position
	// with no moves to try.
	pos, err := position.NewPositionFromFEN("7k/6pp/8/8/8/8/8/1R4K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	pos.DoMove(position.NewMove(position.MakeSquare(1, 0), position.MakeSquare(1, 7)))
	if !pos.InCheck() {
		t.Fatalf("expected the king to be in check after the back-rank rook move")
	}

	w := newWorker(0, New(1, 4, nil))
	w.pos = pos
	ss := frameAt(w.frames, 1)
	*ss = Stack{ply: 1}

	value := w.search(ss, -1, 1, 4, false)
	if value > -tt.Checkmate {
		t.Fatalf("expected a losing mate score for the side in checkmate, got %d", value)
	}
}

func TestDrawScoreOnRepetition(t *testing.T) {
	pos, err := position.NewPositionFromFEN(position.StartFEN)
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	nf3 := position.NewMove(position.MakeSquare(6, 0), position.MakeSquare(5, 2))
	ng8f6 := position.NewMove(position.MakeSquare(6, 7), position.MakeSquare(5, 5))
	ng1 := position.NewMove(position.MakeSquare(5, 2), position.MakeSquare(6, 0))
	nf6g8 := position.NewMove(position.MakeSquare(5, 5), position.MakeSquare(6, 7))

	for i := 0; i < 2; i++ {
		pos.DoMove(nf3)
		pos.DoMove(ng8f6)
		pos.DoMove(ng1)
		pos.DoMove(nf6g8)
	}

	if !pos.IsDraw(1) {
		t.Fatalf("expected threefold repetition to be reported as a draw")
	}

	w := newWorker(0, New(1, 4, nil))
	w.pos = pos
	ss := frameAt(w.frames, 1)
	*ss = Stack{ply: 1}
	value := w.search(ss, -tt.MaxScore, tt.MaxScore, 4, false)
	if value != drawScore() {
		t.Fatalf("expected the draw score at a repeated position, got %d", value)
	}
}

func TestMultiPVReportsDistinctDescendingLines(t *testing.T) {
	// Kiwipete has many reasonable root moves, giving the multi-PV loop
	// real alternatives to rank rather than degenerate single-move lines.
	pos, err := position.NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	pool := newPool(t)

	var infos []Info
	pool.Info = func(info Info) { infos = append(infos, info) }

	best, _ := pool.StartSearching(pos, nil, Limits{Depth: 3, MultiPV: 3})
	if best.IsNone() {
		t.Fatalf("expected a best move")
	}

	byDepth := map[int][]Info{}
	for _, info := range infos {
		byDepth[info.Depth] = append(byDepth[info.Depth], info)
	}
	last := byDepth[3]
	if len(last) != 3 {
		t.Fatalf("expected 3 reported PV lines at depth 3, got %d", len(last))
	}
	seen := map[position.Move]bool{}
	for i, info := range last {
		if info.MultiPVIdx != i+1 {
			t.Fatalf("expected MultiPVIdx %d, got %d", i+1, info.MultiPVIdx)
		}
		if len(info.PV) == 0 {
			t.Fatalf("expected a non-empty PV for line %d", i+1)
		}
		if seen[info.PV[0]] {
			t.Fatalf("move %v reported in more than one PV line", info.PV[0])
		}
		seen[info.PV[0]] = true
		if i > 0 && info.Score > last[i-1].Score {
			t.Fatalf("line %d scored higher than line %d: %d > %d", i+1, i, info.Score, last[i-1].Score)
		}
	}
}
