package position

import "math/rand"

// Zobrist tables are process-wide immutable after init, seeded
// deterministically so hashes (and therefore perft/TT test vectors) are
// reproducible across runs, mirroring goosemg's seeded-PRNG approach.
var (
	zobristPiece    [16][64]uint64
	zobristCastle   [16]uint64
	zobristEnPassant [8]uint64
	zobristSide     uint64
)

func init() {
	r := rand.New(rand.NewSource(0xC0DE))
	for pc := 0; pc < 16; pc++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[pc][sq] = r.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = r.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = r.Uint64()
	}
	zobristSide = r.Uint64()
	initCuckoo()
}

// computeZobrist recomputes the Zobrist key from scratch; used both to seed
// a freshly parsed position and, in tests, to verify the incrementally
// maintained key never drifts (spec's Zobrist-incrementality invariant).
func (p *Position) computeZobrist() uint64 {
	var key uint64
	for s := Square(0); s < 64; s++ {
		if pc := p.board[s]; pc != NoPiece {
			key ^= zobristPiece[pc][s]
		}
	}
	if p.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[p.st.CastlingRights]
	if p.st.EpSquare != NoSquare {
		key ^= zobristEnPassant[p.st.EpSquare.File()]
	}
	return key
}

// ComputeZobrist exposes computeZobrist for cross-check tests.
func (p *Position) ComputeZobrist() uint64 { return p.computeZobrist() }
