package position

import bb "chessengine/bitboard"

// DoMove applies a pseudo-legal move, pushing a fresh StateInfo. The caller
// is responsible for having already verified legality.
func (p *Position) DoMove(m Move) {
	prev := p.st
	p.stTop++
	p.st = &p.states[p.stTop]
	*p.st = StateInfo{
		Previous:        prev,
		MaterialKey:     prev.MaterialKey,
		PawnKey:         prev.PawnKey,
		NonPawnMaterial: prev.NonPawnMaterial,
		CastlingRights:  prev.CastlingRights,
		HalfmoveClock:   prev.HalfmoveClock + 1,
		PliesFromNull:   prev.PliesFromNull + 1,
		EpSquare:        NoSquare,
		Key:             prev.Key,
		AccumulatorWhite: prev.AccumulatorWhite,
		AccumulatorBlack: prev.AccumulatorBlack,
	}
	st := p.st
	us := p.sideToMove
	them := us.Opposite()
	from, to := m.From(), m.To()
	moved := p.board[from]

	st.Key ^= zobristCastle[st.CastlingRights]
	if prev.EpSquare != NoSquare {
		st.Key ^= zobristEnPassant[prev.EpSquare.File()]
	}

	if moved.Type() == Pawn {
		st.HalfmoveClock = 0
		st.PawnKey ^= zobristPiece[moved][from]
	}

	switch m.Kind() {
	case Castling:
		rookSq := to
		idx := -1
		for _, cr := range allCastleRights {
			i := castleRightIndex(cr)
			if p.castlingRookSquare[i] == rookSq {
				idx = i
				break
			}
		}
		rank := from.Rank()
		kingside := rookSq > from
		var kingDest, rookDest Square
		if kingside {
			kingDest = MakeSquare(bb.FileG, rank)
			rookDest = MakeSquare(bb.FileF, rank)
		} else {
			kingDest = MakeSquare(bb.FileC, rank)
			rookDest = MakeSquare(bb.FileD, rank)
		}
		king := p.board[from]
		rook := p.board[rookSq]
		p.removePiece(from)
		p.removePiece(rookSq)
		p.putPiece(king, kingDest)
		p.putPiece(rook, rookDest)
		st.Key ^= zobristPiece[king][from] ^ zobristPiece[king][kingDest]
		st.Key ^= zobristPiece[rook][rookSq] ^ zobristPiece[rook][rookDest]
		st.DirtyPiece.add(king, from, kingDest)
		st.DirtyPiece.add(rook, rookSq, rookDest)
		st.CapturedPiece = NoPiece
		_ = idx

	case EnPassant:
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		captured := p.board[capturedSq]
		p.removePiece(capturedSq)
		p.movePiece(from, to)
		st.Key ^= zobristPiece[moved][from] ^ zobristPiece[moved][to]
		st.Key ^= zobristPiece[captured][capturedSq]
		st.PawnKey ^= zobristPiece[moved][to]
		st.PawnKey ^= zobristPiece[captured][capturedSq]
		st.CapturedPiece = captured
		st.DirtyPiece.add(moved, from, to)
		st.DirtyPiece.add(captured, capturedSq, NoSquare)
		st.HalfmoveClock = 0

	case Promotion:
		captured := p.board[to]
		if captured != NoPiece {
			p.removePiece(to)
			st.Key ^= zobristPiece[captured][to]
			if captured.Type() != Pawn {
				st.NonPawnMaterial[them] -= pieceTypeValue(captured.Type())
			} else {
				st.PawnKey ^= zobristPiece[captured][to]
			}
			st.HalfmoveClock = 0
		}
		promoted := MakePiece(us, m.PromotionType())
		p.removePiece(from)
		p.putPiece(promoted, to)
		st.Key ^= zobristPiece[moved][from] ^ zobristPiece[promoted][to]
		st.NonPawnMaterial[us] += pieceTypeValue(m.PromotionType())
		st.CapturedPiece = captured
		st.DirtyPiece.add(moved, from, NoSquare)
		st.DirtyPiece.add(promoted, NoSquare, to)
		st.HalfmoveClock = 0

	default:
		captured := p.board[to]
		if captured != NoPiece {
			p.removePiece(to)
			st.Key ^= zobristPiece[captured][to]
			if captured.Type() != Pawn {
				st.NonPawnMaterial[them] -= pieceTypeValue(captured.Type())
			} else {
				st.PawnKey ^= zobristPiece[captured][to]
			}
			st.HalfmoveClock = 0
		}
		p.movePiece(from, to)
		st.Key ^= zobristPiece[moved][from] ^ zobristPiece[moved][to]
		if moved.Type() == Pawn {
			st.PawnKey ^= zobristPiece[moved][to]
		}
		st.CapturedPiece = captured
		st.DirtyPiece.add(moved, from, to)

		if moved.Type() == Pawn && to == from+16 {
			if bb.PawnAttacks[us][from+8]&p.PiecesColorType(them, Pawn) != 0 {
				st.EpSquare = from + 8
			}
		} else if moved.Type() == Pawn && to == from-16 {
			if bb.PawnAttacks[us][from-8]&p.PiecesColorType(them, Pawn) != 0 {
				st.EpSquare = from - 8
			}
		}
	}

	// The old castling term was already removed near the top of this
	// function (before any of the rights bits below were cleared); XOR the
	// post-move rights word back in now that it has settled.
	st.CastlingRights &^= p.castlingRightsMask[from] | p.castlingRightsMask[to]
	st.Key ^= zobristCastle[st.CastlingRights]

	if st.EpSquare != NoSquare {
		st.Key ^= zobristEnPassant[st.EpSquare.File()]
	}

	st.Key ^= zobristSide

	p.sideToMove = them
	p.gamePly++
	p.updateCheckInfo()
	p.computeRepetition()
}

// UndoMove reverses a DoMove by popping the StateInfo and reconstructing the
// board via the inverse piece relocation.
func (p *Position) UndoMove(m Move) {
	us := p.sideToMove.Opposite()
	p.sideToMove = us
	st := p.st
	from, to := m.From(), m.To()

	switch m.Kind() {
	case Castling:
		rank := from.Rank()
		kingside := to > from
		var kingDest, rookDest Square
		if kingside {
			kingDest = MakeSquare(bb.FileG, rank)
			rookDest = MakeSquare(bb.FileF, rank)
		} else {
			kingDest = MakeSquare(bb.FileC, rank)
			rookDest = MakeSquare(bb.FileD, rank)
		}
		king := p.board[kingDest]
		rook := p.board[rookDest]
		p.removePiece(kingDest)
		p.removePiece(rookDest)
		p.putPiece(king, from)
		p.putPiece(rook, to)

	case EnPassant:
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		p.movePiece(to, from)
		p.putPiece(st.CapturedPiece, capturedSq)

	case Promotion:
		p.removePiece(to)
		p.putPiece(MakePiece(us, Pawn), from)
		if st.CapturedPiece != NoPiece {
			p.putPiece(st.CapturedPiece, to)
		}

	default:
		p.movePiece(to, from)
		if st.CapturedPiece != NoPiece {
			p.putPiece(st.CapturedPiece, to)
		}
	}

	p.st = st.Previous
	p.stTop--
	p.gamePly--
}

// DoNullMove plays a null move: side to move flips, en-passant is cleared,
// and plies-from-null resets; used by null-move pruning.
func (p *Position) DoNullMove() {
	prev := p.st
	p.stTop++
	p.st = &p.states[p.stTop]
	*p.st = *prev
	p.st.Previous = prev
	p.st.PliesFromNull = 0
	p.st.CapturedPiece = NoPiece
	p.st.DirtyPiece = DirtyPiece{}
	if prev.EpSquare != NoSquare {
		p.st.Key ^= zobristEnPassant[prev.EpSquare.File()]
	}
	p.st.EpSquare = NoSquare
	p.st.Key ^= zobristSide
	p.sideToMove = p.sideToMove.Opposite()
	p.gamePly++
	p.updateCheckInfo()
}

func (p *Position) UndoNullMove() {
	p.sideToMove = p.sideToMove.Opposite()
	p.st = p.st.Previous
	p.stTop--
	p.gamePly--
}
