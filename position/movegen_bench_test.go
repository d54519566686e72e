package position

import "testing"

func benchGenerate(b *testing.B, fen string, gt GenType) {
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		b.Fatalf("parse fen: %v", err)
	}
	buf := make([]Move, 0, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = p.Generate(gt, buf[:0])
	}
}

func BenchmarkGenerateMovesInitial(b *testing.B) {
	benchGenerate(b, StartFEN, GenLegal)
}

func BenchmarkGenerateMovesKiwipete(b *testing.B) {
	benchGenerate(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", GenLegal)
}

func BenchmarkGenerateMovesPos6(b *testing.B) {
	benchGenerate(b, "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10", GenLegal)
}

func BenchmarkGenerateCapturesEP(b *testing.B) {
	benchGenerate(b, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", GenCaptures)
}

func BenchmarkGenerateQuietsInitial(b *testing.B) {
	benchGenerate(b, StartFEN, GenQuiets)
}

func BenchmarkMakeUnmakeAllMovesInitial(b *testing.B) {
	p, err := NewPositionFromFEN(StartFEN)
	if err != nil {
		b.Fatalf("parse fen: %v", err)
	}
	var buf [256]Move
	moves := p.Generate(GenLegal, buf[:0])
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			p.DoMove(m)
			p.UndoMove(m)
		}
	}
}
