package position

import bb "chessengine/bitboard"

// The cuckoo table detects, in O(1), whether the current position can
// re-reach an ancestor position via a single reversible piece move — used
// by has_game_cycle as a faster alternative to the ancestor-scanning
// repetition check in repetition.go.
//
// At init time every reversible (non-pawn, non-castling) move of every
// piece on an empty board is hashed by its Zobrist key difference into one
// shared 8192-slot table using two independent hash functions (H1, H2);
// collisions are resolved by displacing the existing entry into its other
// slot, cuckoo-style, matching the scheme engines commonly use for this
// check.
const cuckooSize = 8192

var cuckooKey [cuckooSize]uint64
var cuckooMove [cuckooSize]Move

func h1(key uint64) int { return int(key & (cuckooSize/2 - 1)) }
func h2(key uint64) int { return int((key>>16)&(cuckooSize/2-1)) + cuckooSize/2 }

// initCuckoo is called explicitly from zobrist.go's init(), after the
// Zobrist tables are populated, rather than being its own init() — Go does
// not guarantee this file runs after zobrist.go's otherwise.
func initCuckoo() {
	insertCount := 0
	for pt := Knight; pt <= King; pt++ {
		for color := White; color <= Black; color++ {
			pc := MakePiece(color, pt)
			for s1 := Square(0); s1 < 64; s1++ {
				attacks := pseudoAttacksEmptyBoard(pt, s1)
				for a := attacks; a != 0; {
					s2 := a.LSB()
					a &= a - 1
					if s2 <= s1 {
						continue // each reversible pair only needs one direction
					}
					move := NewMove(s1, s2)
					key := zobristPiece[pc][s1] ^ zobristPiece[pc][s2] ^ zobristSide
					i := h1(key)
					for {
						oldKey, oldMove := cuckooKey[i], cuckooMove[i]
						cuckooKey[i], cuckooMove[i] = key, move
						if oldKey == 0 {
							break
						}
						key, move = oldKey, oldMove
						if i == h1(key) {
							i = h2(key)
						} else {
							i = h1(key)
						}
					}
					insertCount++
				}
			}
		}
	}
}

func pseudoAttacksEmptyBoard(pt PieceType, s Square) Bitboard {
	switch pt {
	case Knight:
		return knightAttacksEmpty(s)
	case King:
		return kingAttacksEmpty(s)
	case Bishop:
		return slideEmpty(s, []int8{9, 7, -7, -9})
	case Rook:
		return slideEmpty(s, []int8{8, -8, 1, -1})
	case Queen:
		return slideEmpty(s, []int8{8, -8, 1, -1, 9, 7, -7, -9})
	}
	return 0
}

func knightAttacksEmpty(s Square) Bitboard {
	var b Bitboard
	f, r := int8(s.File()), int8(s.Rank())
	deltas := [8][2]int8{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	for _, d := range deltas {
		nf, nr := f+d[0], r+d[1]
		if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
			b |= MakeSquare(File(nf), Rank(nr)).BB()
		}
	}
	return b
}

func kingAttacksEmpty(s Square) Bitboard {
	var b Bitboard
	f, r := int8(s.File()), int8(s.Rank())
	for df := int8(-1); df <= 1; df++ {
		for dr := int8(-1); dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			nf, nr := f+df, r+dr
			if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				b |= MakeSquare(File(nf), Rank(nr)).BB()
			}
		}
	}
	return b
}

func slideEmpty(s Square, steps []int8) Bitboard {
	var b Bitboard
	f0, r0 := int8(s.File()), int8(s.Rank())
	for _, step := range steps {
		df, dr := stepDelta(step)
		f, r := f0, r0
		for {
			f += df
			r += dr
			if f < 0 || f >= 8 || r < 0 || r >= 8 {
				break
			}
			b |= MakeSquare(File(f), Rank(r)).BB()
		}
	}
	return b
}

func stepDelta(step int8) (int8, int8) {
	switch step {
	case 8:
		return 0, 1
	case -8:
		return 0, -1
	case 1:
		return 1, 0
	case -1:
		return -1, 0
	case 9:
		return 1, 1
	case 7:
		return -1, 1
	case -7:
		return 1, -1
	case -9:
		return -1, -1
	}
	return 0, 0
}

// HasGameCycle implements the O(1) cuckoo scheme: XOR the current key with
// each ancestor key at odd ply distance and probe both cuckoo slots; a hit
// indicates the current position is reachable from that ancestor by one
// reversible move. The distance stride is odd, not even, because every
// stored cuckooKey bakes in exactly one zobristSide flip (cuckoo.go:41), so
// only an odd number of plies back can ever net out to a single-move
// difference. The candidate is verified by checking the move is
// unobstructed on the current board and, for ancestors at or before the
// search root, that it represents a real repetition rather than merely a
// same-key coincidence.
func (p *Position) HasGameCycle(ply int) bool {
	st := p.st
	maxDist := int(st.PliesFromNull)
	if maxDist > int(st.HalfmoveClock) {
		maxDist = int(st.HalfmoveClock)
	}
	if maxDist < 3 {
		return false
	}
	ancestor := st.Previous
	for d := 3; d <= maxDist; d += 2 {
		if ancestor == nil || ancestor.Previous == nil || ancestor.Previous.Previous == nil {
			return false
		}
		ancestor = ancestor.Previous.Previous

		key := st.Key ^ ancestor.Key
		for _, idx := range [2]int{h1(key), h2(key)} {
			if cuckooKey[idx] != key {
				continue
			}
			move := cuckooMove[idx]
			from, to := move.From(), move.To()
			if p.Occupied()&(bb.BetweenBB[from][to]&^to.BB()) != 0 {
				continue
			}
			if ply > d {
				return true
			}
			// ancestor at or before the root: only a real repetition (the
			// moving side's piece is actually on one of the two squares)
			// counts.
			sq := from
			if p.board[sq] == NoPiece {
				sq = to
			}
			if p.board[sq] != NoPiece && p.board[sq].Color() == p.sideToMove {
				return true
			}
		}
	}
	return false
}

