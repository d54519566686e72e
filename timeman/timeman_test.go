package timeman

import "testing"

func TestComputeOptimumGrowsWithPlyAndBudgetBounded(t *testing.T) {
	base := Limits{OurTimeMs: 60000, OurIncMs: 0, Ply: 1, MoveOverheadMs: 30}
	later := base
	later.Ply = 40

	b1 := Compute(base)
	b2 := Compute(later)

	if b2.Optimum < b1.Optimum {
		t.Fatalf("optimum should not shrink as ply increases (all else equal): ply1=%v ply40=%v", b1.Optimum, b2.Optimum)
	}
	if b1.Maximum < b1.Optimum {
		t.Fatalf("maximum must never be below optimum: opt=%v max=%v", b1.Optimum, b1.Maximum)
	}
}

func TestComputeNeverExceedsRemainingClock(t *testing.T) {
	l := Limits{OurTimeMs: 5000, OurIncMs: 0, Ply: 10, MoveOverheadMs: 30}
	b := Compute(l)
	if b.Maximum.Milliseconds() >= l.OurTimeMs {
		t.Fatalf("maximum budget %v should leave some of a %dms clock unspent", b.Maximum, l.OurTimeMs)
	}
}

func TestComputeWithIncrementBonus(t *testing.T) {
	noInc := Limits{OurTimeMs: 30000, OurIncMs: 0, Ply: 20, MoveOverheadMs: 30}
	withInc := noInc
	withInc.OurIncMs = 1000

	a := Compute(noInc)
	b := Compute(withInc)
	if b.Optimum <= a.Optimum {
		t.Fatalf("a large increment should increase the optimum budget: noinc=%v withinc=%v", a.Optimum, b.Optimum)
	}
}

func TestControllerDoesNotStopHardRightAfterStart(t *testing.T) {
	var c Controller
	c.Start(Limits{OurTimeMs: 1000, OurIncMs: 0, Ply: 1, MoveOverheadMs: 0}, false)
	if c.ShouldStopHard() {
		t.Fatalf("should not report a hard stop immediately after starting")
	}
}

func TestControllerFixedDepthNeverStops(t *testing.T) {
	var c Controller
	c.Start(Limits{OurTimeMs: 1, OurIncMs: 0, Ply: 1, MoveOverheadMs: 0}, true)
	if c.ShouldStopHard() || c.ShouldStopIterative() {
		t.Fatalf("a fixed-depth search must never be stopped by the clock")
	}
}
