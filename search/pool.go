// Package search implements parallel iterative-deepening alpha-beta search
// over a shared transposition table: aspiration windows, null-move pruning,
// late-move reductions, singular extensions, quiescence, and the history
// heuristics that drive move ordering.
package search

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"chessengine/history"
	"chessengine/movepick"
	"chessengine/position"
	"chessengine/timeman"
	"chessengine/tt"
)

// Info is one reportable iteration of the principal variation, shaped after
// a UCI "info" line without committing this package to any wire format.
type Info struct {
	Depth    int
	SelDepth int
	// MultiPVIdx is this line's 1-based rank among the searched PVs; 1 in
	// the common single-PV case.
	MultiPVIdx int
	Score      int32
	Mate       bool
	Bound      tt.Bound // always BoundExact: only lines resolved inside their aspiration window are reported
	Nodes      uint64
	HashFull   int
	Time       time.Duration
	PV         []position.Move
}

// InfoFunc receives one Info per PV line of each completed root iteration;
// a search cut short by an aspiration fail-high or fail-low is not reported.
// Only the main worker (id 0) calls it.
type InfoFunc func(Info)

type rootMove struct {
	move          position.Move
	score         int32
	previousScore int32
	pv            []position.Move
}

// Worker runs iterative deepening on its own position copy, reading and
// writing the pool's shared transposition table and its own thread-local
// history tables and search stack.
type Worker struct {
	id     int
	isMain bool
	pool   *Pool

	pos    *position.Position
	hist   history.Tables
	frames []Stack

	rootMoves []rootMove
	// multiPVExclude holds the root moves already resolved for earlier PV
	// indices at the current depth; the root move loop in search() skips
	// them so each successive multi-PV line searches only the remainder.
	multiPVExclude []rootMove

	nodes           atomic.Uint64
	bestMoveChanges atomic.Uint64
	selDepth        int
	completedDepth  int
	rootDelta       int32
}

func newWorker(id int, pool *Pool) *Worker {
	return &Worker{
		id:     id,
		isMain: id == 0,
		pool:   pool,
		frames: newStackFrames(),
	}
}

// Pool owns every search worker and the resources they share: the
// transposition table, the evaluator, and the running stop flag.
type Pool struct {
	Table   *tt.Table
	Eval    Evaluator
	Threads int

	workers []*Worker

	stop       atomic.Bool
	timeCtl    timeman.Controller
	limits     Limits
	reductions []float64

	Info InfoFunc

	startTime time.Time
	wg        sync.WaitGroup
}

// New builds a pool with the given worker count and table size in
// megabytes. A nil eval falls back to DefaultEvaluator.
func New(threads, tableMB int, eval Evaluator) *Pool {
	if threads < 1 {
		threads = 1
	}
	if eval == nil {
		eval = DefaultEvaluator
	}
	p := &Pool{
		Table:   tt.New(tableMB),
		Eval:    eval,
		Threads: threads,
	}
	for i := 0; i < threads; i++ {
		p.workers = append(p.workers, newWorker(i, p))
	}
	p.reinitReductions()
	return p
}

// Clear zeroes every worker's history tables and rebuilds the LMR
// reduction table for the current thread count, the way new_game/ucinewgame
// resets move-ordering state between games.
func (p *Pool) Clear() {
	for _, w := range p.workers {
		w.hist = history.Tables{}
	}
	p.reinitReductions()
}

// Resize reallocates the shared transposition table to mb megabytes,
// zeroing it cooperatively across the pool's worker count.
func (p *Pool) Resize(mb int) { p.Table.Resize(mb, p.Threads) }

func (p *Pool) reinitReductions() {
	n := MaxPly + 2
	p.reductions = make([]float64, n)
	base := 19.80 + math.Log(float64(p.Threads))/2
	for i := 1; i < n; i++ {
		p.reductions[i] = math.Floor(base * math.Log(float64(i)))
	}
}

// Stop requests every worker to abandon the running search as soon as it
// next checks, discarding any depth in flight in favor of the last
// completed iteration.
func (p *Pool) Stop() { p.stop.Store(true) }

// StartSearching runs iterative deepening from root to the limits given,
// blocking until every worker finishes, and returns the best move and score
// chosen by the main worker.
func (p *Pool) StartSearching(root *position.Position, rootMoves []position.Move, limits Limits) (position.Move, int32) {
	p.stop.Store(false)
	p.limits = limits
	p.startTime = time.Now()
	p.Table.NewSearch()

	p.timeCtl.Start(timeman.Limits{
		OurTimeMs:      sideTime(root, limits),
		OurIncMs:       sideInc(root, limits),
		MovesToGo:      limits.MovesToGo,
		Ply:            root.GamePly(),
		MoveOverheadMs: limits.MoveOverheadMs,
		Ponder:         limits.Ponder,
	}, limits.fixedDepth())

	for _, w := range p.workers {
		w.pos = root.Clone()
		w.nodes.Store(0)
		w.bestMoveChanges.Store(0)
		w.selDepth = 0
		w.completedDepth = 0
		w.hist.NewSearch()
		w.rootMoves = w.rootMoves[:0]
		moves := rootMoves
		if moves == nil {
			var buf [256]position.Move
			moves = root.Generate(position.GenLegal, buf[:0])
		}
		for _, m := range moves {
			w.rootMoves = append(w.rootMoves, rootMove{move: m})
		}
	}

	p.wg.Add(len(p.workers))
	for _, w := range p.workers {
		go func(w *Worker) {
			defer p.wg.Done()
			w.iterativeDeepening()
		}(w)
	}
	p.wg.Wait()

	main := p.workers[0]
	best := position.MoveNone
	var score int32
	if len(main.rootMoves) > 0 {
		best = main.rootMoves[0].move
		score = main.rootMoves[0].score
	}
	return best, score
}

func sideTime(pos *position.Position, l Limits) int64 {
	if pos.SideToMove() == position.White {
		return l.WTimeMs
	}
	return l.BTimeMs
}

func sideInc(pos *position.Position, l Limits) int64 {
	if pos.SideToMove() == position.White {
		return l.WIncMs
	}
	return l.BIncMs
}

// TotalNodes sums the node counters across every worker; consistent only at
// a StartSearching return boundary, per the relaxed cross-worker ordering
// this package's concurrency model allows.
func (p *Pool) TotalNodes() uint64 {
	var n uint64
	for _, w := range p.workers {
		n += w.nodes.Load()
	}
	return n
}

func (w *Worker) checkTime() {
	if !w.isMain {
		return
	}
	if w.pool.timeCtl.ShouldStopHard() {
		w.pool.Stop()
	}
}

func (w *Worker) shouldStop() bool { return w.pool.stop.Load() }

func (w *Worker) isExcludedRootMove(m position.Move) bool {
	for _, rm := range w.multiPVExclude {
		if rm.move == m {
			return true
		}
	}
	return false
}

// continuationSlots builds the four back-pointer continuation-history
// slots (ss-1, ss-2, ss-4, ss-6) for the node at ply.
func (w *Worker) continuationSlots(ply int) movepick.ContinuationSlots {
	var c movepick.ContinuationSlots
	offsets := [4]int{1, 2, 4, 6}
	for i, off := range offsets {
		if ply-off < -sentinelFrames {
			continue
		}
		c[i] = frameAt(w.frames, ply-off).contHist
	}
	return c
}
