package position

// Piece values used for simple_eval and non-pawn material bookkeeping,
// per the evaluator boundary's required constants.
const (
	PawnValue   = 208
	KnightValue = 781
	BishopValue = 825
	RookValue   = 1276
	QueenValue  = 2538
)

// PieceTypeValue is the material value movepick uses for MVV-LVA scoring and
// SEE thresholds, and qsearch for capture futility; kings and the empty piece
// type are worth nothing here.
func PieceTypeValue(pt PieceType) int32 {
	return pieceTypeValue(pt)
}

func pieceTypeValue(pt PieceType) int32 {
	switch pt {
	case Pawn:
		return PawnValue
	case Knight:
		return KnightValue
	case Bishop:
		return BishopValue
	case Rook:
		return RookValue
	case Queen:
		return QueenValue
	default:
		return 0
	}
}

// SimpleEval implements the evaluator boundary's required material
// fallback: pawnValue*(myPawns-theirPawns) + (myNonPawnMaterial-theirNonPawnMaterial).
func (p *Position) SimpleEval(c Color) int32 {
	them := c.Opposite()
	myPawns := p.PiecesColorType(c, Pawn).Count()
	theirPawns := p.PiecesColorType(them, Pawn).Count()
	return PawnValue*int32(myPawns-theirPawns) + p.st.NonPawnMaterial[c] - p.st.NonPawnMaterial[them]
}

func (p *Position) computeMaterialKeys() (materialKey, pawnKey uint64, nonPawn [2]int32) {
	for s := Square(0); s < 64; s++ {
		pc := p.board[s]
		if pc == NoPiece {
			continue
		}
		if pc.Type() == Pawn {
			pawnKey ^= zobristPiece[pc][s]
		} else if pc.Type() != King {
			nonPawn[pc.Color()] += pieceTypeValue(pc.Type())
		}
		materialKey ^= zobristPiece[pc][s]
	}
	return materialKey, pawnKey, nonPawn
}
