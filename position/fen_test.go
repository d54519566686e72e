package position

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/3p4/KPp4r/1R3p1k/8/4P1P1/8 w - c6 0 1",
	}
	for _, fen := range fens {
		p, err := NewPositionFromFEN(fen)
		if err != nil {
			t.Fatalf("parse %q: %v", fen, err)
		}
		got := p.FEN()
		p2, err := NewPositionFromFEN(got)
		if err != nil {
			t.Fatalf("re-parse emitted FEN %q (from %q): %v", got, fen, err)
		}
		if p.board != p2.board || p.st.CastlingRights != p2.st.CastlingRights || p.st.EpSquare != p2.st.EpSquare {
			t.Fatalf("FEN round trip mismatch: %q -> %q -> differs", fen, got)
		}
	}
}

func TestEnPassantOmittedWhenNoCaptureExists(t *testing.T) {
	// White just pushed a pawn to e4 but black has no pawn able to capture
	// en passant, so the FEN's EP square should not be retained.
	p, err := NewPositionFromFEN("4k3/8/8/8/4P3/8/8/4K3 b - e3 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.EpSquare() != NoSquare {
		t.Fatalf("EP square should be dropped when no pseudo-legal EP capture exists")
	}
}

func TestChess960CastlingPathOverlap(t *testing.T) {
	fen := "nqbnrkrb/pppppppp/8/8/8/8/PPPPPPPP/NQBNRKRB w KQkq - 0 1"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse Chess960 FEN: %v", err)
	}
	if !p.IsChess960() {
		t.Fatalf("position with non-standard rook files should be detected as Chess960")
	}
	// The king on f1 already stands next to its kingside rook on g1, so the
	// castle's king and rook squares overlap; legal move generation must
	// still work from this position.
	var buf [256]Move
	legal := p.Generate(GenLegal, buf[:0])
	if len(legal) == 0 {
		t.Fatalf("expected at least one legal move from the Chess960 start position")
	}
}
