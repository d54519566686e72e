package position

import "testing"

// TestHasGameCycleDetectsNearestOddDistance plays a reversible shuffle where
// White's knight steps out and back while Black's knight steps out once,
// leaving a net single-move difference (one piece relocation plus one side
// flip) between the current position and the position three plies back —
// exactly the shape a cuckoo-table entry encodes. HasGameCycle must find it
// at the minimum eligible distance of 3, not only at distance 4 or beyond.
func TestHasGameCycleDetectsNearestOddDistance(t *testing.T) {
	p, err := NewPositionFromFEN(StartFEN)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	g1, f3 := MakeSquare(6, 0), MakeSquare(5, 2)
	g8, f6 := MakeSquare(6, 7), MakeSquare(5, 5)

	p.DoMove(NewMove(g1, f3))
	p.DoMove(NewMove(g8, f6))
	p.DoMove(NewMove(f3, g1))

	if !p.HasGameCycle(0) {
		t.Fatalf("expected HasGameCycle to detect the distance-3 cuckoo hit")
	}
}

func TestHasGameCycleFalseWithoutEligibleHistory(t *testing.T) {
	p, err := NewPositionFromFEN(StartFEN)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if p.HasGameCycle(0) {
		t.Fatalf("expected no cycle at the start position with no move history")
	}

	e2, e4 := MakeSquare(4, 1), MakeSquare(4, 3)
	p.DoMove(NewMove(e2, e4))
	if p.HasGameCycle(0) {
		t.Fatalf("expected no cycle after a single move (maxDist below 3)")
	}
}
