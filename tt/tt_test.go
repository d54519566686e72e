package tt

import (
	"testing"

	"chessengine/position"
)

func TestProbeMissThenHit(t *testing.T) {
	table := New(1)
	key := uint64(0x1234567890ABCDEF)

	entry, hit := table.Probe(key)
	if hit {
		t.Fatalf("expected a miss on an empty table")
	}
	move := position.NewMove(position.MakeSquare(4, 1), position.MakeSquare(4, 3))
	table.Save(entry, key, 123, true, BoundExact, 8, move, 100)

	entry2, hit2 := table.Probe(key)
	if !hit2 {
		t.Fatalf("expected a hit after save")
	}
	if entry2.Value() != 123 || entry2.Eval() != 100 || entry2.Move() != move {
		t.Fatalf("round-tripped entry fields changed: %+v", entry2)
	}
	if entry2.Bound() != BoundExact || !entry2.PV() {
		t.Fatalf("round-tripped bound/pv changed: bound=%v pv=%v", entry2.Bound(), entry2.PV())
	}
}

func TestSavePreservesMoveWhenNewMoveIsNone(t *testing.T) {
	table := New(1)
	key := uint64(42)
	move := position.NewMove(position.MakeSquare(1, 1), position.MakeSquare(1, 3))

	entry, _ := table.Probe(key)
	table.Save(entry, key, 0, false, BoundUpper, 4, move, 0)

	entry2, hit := table.Probe(key)
	if !hit {
		t.Fatalf("expected hit")
	}
	table.Save(entry2, key, 10, false, BoundUpper, 4, position.MoveNone, 5)

	entry3, _ := table.Probe(key)
	if entry3.Move() != move {
		t.Fatalf("save with MoveNone should preserve the prior move, got %v want %v", entry3.Move(), move)
	}
}

func TestShallowNonExactSaveDoesNotClobberDeeperEntry(t *testing.T) {
	table := New(1)
	key := uint64(777)

	entry, _ := table.Probe(key)
	table.Save(entry, key, 500, false, BoundLower, 20, position.MoveNone, 500)

	entry2, hit := table.Probe(key)
	if !hit {
		t.Fatalf("expected hit")
	}
	table.Save(entry2, key, -500, false, BoundUpper, 2, position.MoveNone, -500)

	entry3, _ := table.Probe(key)
	if entry3.Depth() != 20 || entry3.Value() != 500 {
		t.Fatalf("shallow non-exact save should not overwrite a much deeper entry, got depth=%d value=%d", entry3.Depth(), entry3.Value())
	}
}

func TestMateScoreRoundTripsAcrossPly(t *testing.T) {
	// A mate claimed from the root: the stored score is close to MaxScore,
	// not merely above the Checkmate threshold.
	rootMate := MaxScore - 7
	stored := ValueToTT(rootMate, 5)
	recovered := ValueFromTT(stored, 5, 0)
	if recovered != rootMate {
		t.Fatalf("mate score did not round trip: got %d want %d", recovered, rootMate)
	}
}

func TestMateClaimDemotedWhenFiftyMoveRuleBlocksIt(t *testing.T) {
	// A mate distance that the remaining halfmove budget cannot possibly
	// reach must be demoted rather than reported as a real mate.
	stored := MaxScore - 2
	got := ValueFromTT(stored, 1, 98)
	if got >= Checkmate && got != Checkmate-1 {
		t.Fatalf("expected demotion to the non-mate bound, got %d", got)
	}
}

func TestDepthZeroSaveIsStillAProbeHit(t *testing.T) {
	// qsearch always saves with depth 0; a depth-0 entry must remain
	// distinguishable from a genuinely empty slot.
	table := New(1)
	key := uint64(0xBEEF)

	entry, hit := table.Probe(key)
	if hit {
		t.Fatalf("expected a miss on an empty table")
	}
	table.Save(entry, key, 55, false, BoundLower, 0, position.MoveNone, 55)

	entry2, hit2 := table.Probe(key)
	if !hit2 {
		t.Fatalf("expected a hit on a depth-0 entry, got a miss")
	}
	if entry2.Depth() != 0 {
		t.Fatalf("expected Depth() to round-trip to 0, got %d", entry2.Depth())
	}
	if entry2.Value() != 55 {
		t.Fatalf("round-tripped value changed: got %d want 55", entry2.Value())
	}
}

func TestNewSearchAgesGenerationWithoutTouchingLowBits(t *testing.T) {
	table := New(1)
	key := uint64(9001)
	entry, _ := table.Probe(key)
	table.Save(entry, key, 1, true, BoundExact, 1, position.MoveNone, 1)
	before := entry.GenBound8 & 0x7

	table.NewSearch()

	entry2, _ := table.Probe(key)
	if entry2.GenBound8&0x7 != before {
		t.Fatalf("NewSearch must not disturb the pv/bound bits")
	}
}
