package search

import (
	"chessengine/history"
	"chessengine/position"
)

// MaxPly bounds recursion depth; stack frames are allocated MaxPly+10 deep
// with 7 pre-root sentinel frames so continuation-history back-pointers as
// far as ss-6 are always in bounds, never requiring a conditional check.
const MaxPly = 246

const sentinelFrames = 7

// pvArray holds the principal variation for one ply, len moves long; PV is
// copied upward one frame at a time as the search unwinds, the way the
// teacher's PVLine.Update propagates a child line into its parent.
type pvArray struct {
	moves [MaxPly + 1]position.Move
	len   int
}

func (pv *pvArray) clear() { pv.len = 0 }

func (pv *pvArray) set(m position.Move, child *pvArray) {
	pv.moves[0] = m
	n := child.len
	if n > MaxPly {
		n = MaxPly
	}
	copy(pv.moves[1:], child.moves[:n])
	pv.len = n + 1
}

func (pv *pvArray) slice() []position.Move { return pv.moves[:pv.len] }

// Stack is the per-ply search frame.
type Stack struct {
	pv            pvArray
	contHist      *history.PieceTo
	currentMove   position.Move
	excludedMove  position.Move
	killers       [2]position.Move
	staticEval    int32
	statScore     int32
	ply           int
	moveCount     int
	cutoffCount   int
	inCheck       bool
	ttHit         bool
	ttPv          bool
}

// newStackFrames allocates a MaxPly+10-deep frame array with the first
// sentinelFrames entries acting as "no move played yet" sentinels, so a
// node at ply p indexes frames() at p+sentinelFrames and every back-pointer
// from ply 0 up to ss-6 resolves to a valid (empty) sentinel frame rather
// than needing a bounds check on every continuation-history read.
func newStackFrames() []Stack {
	frames := make([]Stack, MaxPly+10)
	for i := range frames {
		frames[i].ply = i - sentinelFrames
	}
	return frames
}

func frameAt(frames []Stack, ply int) *Stack {
	return &frames[ply+sentinelFrames]
}
