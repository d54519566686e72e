package position

import "testing"

func TestPerftStartPosition(t *testing.T) {
	p, err := NewPositionFromFEN(StartFEN)
	if err != nil {
		t.Fatalf("parse start FEN: %v", err)
	}
	var buf [256]Move
	legal := p.Generate(GenLegal, buf[:0])
	if len(legal) != 20 {
		t.Fatalf("start position legal move count = %d, want 20", len(legal))
	}
	if got := p.Perft(4); got != 197281 {
		t.Fatalf("Perft(4) from start position = %d, want 197281", got)
	}
}

func TestPerftKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse kiwipete FEN: %v", err)
	}
	if got := p.Perft(3); got != 97862 {
		t.Fatalf("Perft(3) from Kiwipete = %d, want 97862", got)
	}
}

func TestKiwipeteKingsideCastleIsLegal(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse kiwipete FEN: %v", err)
	}
	e1 := MakeSquare(4, 0)
	h1 := MakeSquare(7, 0)
	m := NewSpecialMove(e1, h1, Castling)
	if !p.PseudoLegal(m) {
		t.Fatalf("e1h1 castling should be pseudo-legal in Kiwipete")
	}
	if !p.Legal(m) {
		t.Fatalf("e1h1 castling should be legal (safe) in Kiwipete")
	}
}
