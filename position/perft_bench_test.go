package position

import "testing"

func benchPerft(b *testing.B, fen string, depth int) {
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		b.Fatalf("parse fen: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Perft(depth)
	}
}

func BenchmarkPerftInitialD4(b *testing.B) {
	benchPerft(b, StartFEN, 4)
}

func BenchmarkPerftKiwipeteD3(b *testing.B) {
	benchPerft(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3)
}
