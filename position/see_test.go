package position

import "testing"

func TestSeeMonotonicity(t *testing.T) {
	// A rook takes a pawn defended by another rook: net material after the
	// exchange is pawn - rook, clearly negative for the capturing side.
	p, err := NewPositionFromFEN("4k3/8/8/3p4/8/8/3R4/3R2K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	d2 := MakeSquare(3, 1)
	d5 := MakeSquare(3, 4)
	m := NewMove(d2, d5)
	score := p.see(m)
	for _, threshold := range []int32{score, score - 50, score - 1000} {
		if !p.SeeGe(m, threshold) {
			t.Fatalf("SeeGe(m, %d) should hold when see(m)=%d", threshold, score)
		}
	}
	if p.SeeGe(m, score+1) {
		t.Fatalf("SeeGe(m, score+1) should not hold")
	}
}

func TestSeeKiwipeteKnightTakesPawn(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e5 := MakeSquare(4, 4)
	f7 := MakeSquare(5, 6)
	m := NewMove(e5, f7)
	// Knight captures a pawn defended by the king: net material is
	// pawn - knight, so see_ge(m, 0) must be false.
	if p.SeeGe(m, 0) {
		t.Fatalf("Ne5xf7 should not meet see_ge(m, 0) in Kiwipete")
	}
}
