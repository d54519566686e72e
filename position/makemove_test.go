package position

import "testing"

func playAndUndo(t *testing.T, fen string, moves []Move) {
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN %q: %v", fen, err)
	}
	type snap struct {
		board   [64]Piece
		key     uint64
		castle  CastleRight
		ep      Square
		hm      int16
		side    Color
	}
	var stack []snap
	for _, m := range moves {
		stack = append(stack, snap{p.board, p.st.Key, p.st.CastlingRights, p.st.EpSquare, p.st.HalfmoveClock, p.sideToMove})
		p.DoMove(m)
		if got, want := p.st.Key, p.computeZobrist(); got != want {
			t.Fatalf("zobrist drift after %s: incremental=%x recomputed=%x", m, got, want)
		}
	}
	for i := len(moves) - 1; i >= 0; i-- {
		p.UndoMove(moves[i])
		s := stack[i]
		if p.board != s.board {
			t.Fatalf("board mismatch after undo of %s", moves[i])
		}
		if p.st.Key != s.key {
			t.Fatalf("key mismatch after undo of %s: got %x want %x", moves[i], p.st.Key, s.key)
		}
		if p.st.CastlingRights != s.castle {
			t.Fatalf("castling rights mismatch after undo of %s", moves[i])
		}
		if p.st.EpSquare != s.ep {
			t.Fatalf("ep square mismatch after undo of %s", moves[i])
		}
		if p.sideToMove != s.side {
			t.Fatalf("side to move mismatch after undo of %s", moves[i])
		}
	}
}

func TestMakeUnmakeRoundTripStart(t *testing.T) {
	e2 := MakeSquare(4, 1)
	e4 := MakeSquare(4, 3)
	e7 := MakeSquare(4, 6)
	e5 := MakeSquare(4, 4)
	g1 := MakeSquare(6, 0)
	f3 := MakeSquare(5, 2)
	playAndUndo(t, StartFEN, []Move{NewMove(e2, e4), NewMove(e7, e5), NewMove(g1, f3)})
}

func TestMakeUnmakeRoundTripCastling(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -"
	e1 := MakeSquare(4, 0)
	h1 := MakeSquare(7, 0)
	playAndUndo(t, fen, []Move{NewSpecialMove(e1, h1, Castling)})
}

func TestMakeUnmakeRoundTripEnPassant(t *testing.T) {
	fen := "8/8/3p4/KPp4r/1R3p1k/8/4P1P1/8 w - c6 0 1"
	b5 := MakeSquare(1, 4)
	c6 := MakeSquare(2, 5)
	playAndUndo(t, fen, []Move{NewSpecialMove(b5, c6, EnPassant)})
}

func TestEnPassantDiscoveryIsIllegal(t *testing.T) {
	fen := "8/8/3p4/KPp4r/1R3p1k/8/4P1P1/8 w - c6 0 1"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	b5 := MakeSquare(1, 4)
	c6 := MakeSquare(2, 5)
	m := NewSpecialMove(b5, c6, EnPassant)
	if !p.PseudoLegal(m) {
		t.Fatalf("b5xc6 en passant should be pseudo-legal")
	}
	if p.Legal(m) {
		t.Fatalf("b5xc6 en passant should be illegal: it opens a rook check on a5/h5")
	}
}

// pawnKeyMatchesRecompute asserts the incrementally maintained PawnKey
// equals a from-scratch recomputation, the same cross-check computeZobrist
// gives the full Key.
func pawnKeyMatchesRecompute(t *testing.T, p *Position, label string) {
	t.Helper()
	_, want, _ := p.computeMaterialKeys()
	if got := p.st.PawnKey; got != want {
		t.Fatalf("PawnKey drift %s: incremental=%x recomputed=%x", label, got, want)
	}
}

func TestPawnKeyTracksOrdinaryPushesAndCaptures(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	pawnKeyMatchesRecompute(t, p, "at start")

	e2, e4 := MakeSquare(4, 1), MakeSquare(4, 3)
	d7, d5 := MakeSquare(3, 6), MakeSquare(3, 4)
	p.DoMove(NewMove(e2, e4))
	pawnKeyMatchesRecompute(t, p, "after e2e4")
	p.DoMove(NewMove(d7, d5))
	pawnKeyMatchesRecompute(t, p, "after d7d5")
	p.DoMove(NewMove(e4, d5))
	pawnKeyMatchesRecompute(t, p, "after exd5 capture")
}

func TestPawnKeyTracksEnPassantCapture(t *testing.T) {
	fen := "8/8/3p4/KPp4r/1R3p1k/8/4P1P1/8 w - c6 0 1"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	pawnKeyMatchesRecompute(t, p, "before en passant")
	b5, c6 := MakeSquare(1, 4), MakeSquare(2, 5)
	p.DoMove(NewSpecialMove(b5, c6, EnPassant))
	pawnKeyMatchesRecompute(t, p, "after en passant capture")
}

func Test50MoveRuleDraw(t *testing.T) {
	fen := "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 100 1"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if !p.IsDraw(0) {
		t.Fatalf("position with halfmove clock 100 and a legal move should be a draw")
	}
}
