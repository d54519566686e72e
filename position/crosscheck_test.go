package position

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// dragonPerft walks dragontoothmg's own legal move generator to the same
// depth this package's Perft does, as an independent cross-check that the
// two move generators agree on leaf counts for the same FEN.
func dragonPerft(b dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		child := b
		child.Apply(m)
		nodes += dragonPerft(child, depth-1)
	}
	return nodes
}

func crossCheck(t *testing.T, fen string, depth int) {
	t.Helper()
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse fen with this package: %v", err)
	}
	want := p.Perft(depth)

	dragonBoard := dragontoothmg.ParseFen(fen)
	got := dragonPerft(dragonBoard, depth)

	if got != want {
		t.Fatalf("dragontoothmg Perft(%d) = %d, this package's Perft(%d) = %d for fen %q", depth, got, depth, want, fen)
	}
}

func TestCrossCheckPerftStartPosition(t *testing.T) {
	crossCheck(t, StartFEN, 4)
}

func TestCrossCheckPerftKiwipete(t *testing.T) {
	crossCheck(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3)
}

func TestCrossCheckPerftEndgame(t *testing.T) {
	crossCheck(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4)
}
