// Package timeman computes the optimum and maximum per-move time budgets
// from the clock, increment, and move number.
package timeman

import (
	"math"
	"time"
)

// Limits describes the inputs a UCI "go" command supplies for time control.
type Limits struct {
	OurTimeMs     int64
	OurIncMs      int64
	MovesToGo     int // 0 means "not specified"
	Ply           int
	MoveOverheadMs int64
	Ponder        bool
}

// Budget is the computed optimum/maximum search duration for the move.
type Budget struct {
	Optimum time.Duration
	Maximum time.Duration
}

// Compute derives the optimum/maximum time budget for the current move
// using the same curve-fit formulas classical-search engines tune against
// self-play: an opening/middlegame allowance that grows slowly with ply and
// shrinks as the clock empties, capped by a hard maximum that never lets a
// single move consume the whole remaining clock.
func Compute(l Limits) Budget {
	overhead := l.MoveOverheadMs
	if overhead < 0 {
		overhead = 0
	}
	ourTime := float64(l.OurTimeMs)
	if ourTime < 1 {
		ourTime = 1
	}
	inc := float64(l.OurIncMs)

	mtg := l.MovesToGo
	if mtg <= 0 || mtg > 50 {
		mtg = 50
	}
	if l.OurTimeMs < 1000 {
		mtg = int(float64(mtg) * ourTime / 1000)
		if mtg < 1 {
			mtg = 1
		}
	}

	timeLeft := ourTime + inc*float64(mtg-1) - float64(overhead)*float64(mtg+2)
	if timeLeft < 1 {
		timeLeft = 1
	}

	logSeconds := math.Log10(ourTime / 1000)
	c1 := math.Min(0.00308+0.000319*logSeconds, 0.00506)

	incBonus := 1.0
	if l.OurIncMs >= 500 {
		incBonus = 1.13
	}

	ply := float64(l.Ply)
	optScale := math.Min(0.0122+math.Pow(ply+2.95, 0.462)*c1, 0.213*ourTime/timeLeft) * incBonus

	maxScale := math.Min(6.64, math.Max(3.39+3.01*logSeconds, 2.93)+ply/12)

	optimumMs := optScale * timeLeft
	if l.Ponder {
		optimumMs *= 1.25
	}

	maximumMs := math.Min(0.825*ourTime-float64(overhead), maxScale*optimumMs) - 10
	if maximumMs < float64(optimumMs) {
		maximumMs = optimumMs
	}
	if maximumMs < 1 {
		maximumMs = 1
	}
	if optimumMs < 1 {
		optimumMs = 1
	}

	return Budget{
		Optimum: time.Duration(optimumMs) * time.Millisecond,
		Maximum: time.Duration(maximumMs) * time.Millisecond,
	}
}
