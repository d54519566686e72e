package position

// Castling rights, one bit per (color, side).
type CastleRight uint8

const (
	WhiteKingSide CastleRight = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

var allCastleRights = [4]CastleRight{WhiteKingSide, WhiteQueenSide, BlackKingSide, BlackQueenSide}

func castleRightIndex(cr CastleRight) int {
	switch cr {
	case WhiteKingSide:
		return 0
	case WhiteQueenSide:
		return 1
	case BlackKingSide:
		return 2
	default:
		return 3
	}
}

// StateInfo is one frame of the undo stack, chained by Previous. It holds
// every field do_move must be able to restore plus the derived legality
// caches (checkers/pinners/blockers/check squares) the search consults on
// every node without recomputing them.
type StateInfo struct {
	Previous *StateInfo

	MaterialKey     uint64
	PawnKey         uint64
	NonPawnMaterial [2]int32

	CastlingRights   CastleRight
	HalfmoveClock    int16
	PliesFromNull    int16
	EpSquare         Square
	Key              uint64
	RepetitionPly    int // signed distance to an earlier repetition; 0 = none, negative marks a chain that closes ≥3-fold

	Checkers       Bitboard
	PinnersFor     [2]Bitboard
	BlockersForKing [2]Bitboard
	CheckSquares   [7]Bitboard

	CapturedPiece Piece
	DirtyPiece    DirtyPiece

	// Opaque evaluator accumulator snapshots; the search never reads these,
	// it only carries them forward so an incremental evaluator can use them.
	AccumulatorWhite [2]uint64
	AccumulatorBlack [2]uint64
}

// Position is the mutable board state. It is copied by value for worker
// threads (goosemg-style), and mutated only through DoMove/UndoMove/
// DoNullMove/UndoNullMove.
type Position struct {
	board    [64]Piece
	byType   [7]Bitboard // index 1..6 used; index 0 (AllPieces) is never set
	byColor  [2]Bitboard

	sideToMove Color

	castlingRookSquare [4]Square
	castlingRightsMask [64]CastleRight
	castlingPath       [4]Bitboard
	castlingRights     CastleRight

	gamePly    int
	isChess960 bool

	st *StateInfo

	// states backs every StateInfo pushed by DoMove. A fixed-size array
	// (rather than a growable slice) keeps every StateInfo's address stable
	// for the lifetime of the Position, so the Previous chain built by
	// DoMove is never invalidated by a reallocation — the Go analogue of
	// the design note's caller-owned Vec<StateInfo> indexed by gamePly.
	states [maxStateDepth]StateInfo
	stTop  int
}

// maxStateDepth bounds how many plies of undo history one Position can
// carry (root ply count plus maximum search depth); generous relative to
// spec's MAX_PLY+10 search stack sizing.
const maxStateDepth = 1024

func (p *Position) SideToMove() Color  { return p.sideToMove }
func (p *Position) PieceOn(s Square) Piece { return p.board[s] }
func (p *Position) Pieces(pt PieceType) Bitboard { return p.byType[pt] }
func (p *Position) PiecesByColor(c Color) Bitboard { return p.byColor[c] }
func (p *Position) PiecesColorType(c Color, pt PieceType) Bitboard {
	return p.byColor[c] & p.byType[pt]
}
func (p *Position) Occupied() Bitboard { return p.byColor[White] | p.byColor[Black] }
func (p *Position) Empty() Bitboard    { return ^p.Occupied() }
func (p *Position) GamePly() int       { return p.gamePly }
func (p *Position) IsChess960() bool   { return p.isChess960 }
func (p *Position) State() *StateInfo  { return p.st }
func (p *Position) Key() uint64        { return p.st.Key }
func (p *Position) CastlingRights() CastleRight { return p.st.CastlingRights }
func (p *Position) EpSquare() Square   { return p.st.EpSquare }
func (p *Position) Checkers() Bitboard { return p.st.Checkers }
func (p *Position) InCheck() bool      { return p.st.Checkers != 0 }
func (p *Position) KingSquare(c Color) Square {
	return p.PiecesColorType(c, King).LSB()
}

func (p *Position) putPiece(pc Piece, s Square) {
	p.board[s] = pc
	p.byType[pc.Type()] |= s.BB()
	p.byColor[pc.Color()] |= s.BB()
}

func (p *Position) removePiece(s Square) {
	pc := p.board[s]
	p.board[s] = NoPiece
	p.byType[pc.Type()] &^= s.BB()
	p.byColor[pc.Color()] &^= s.BB()
}

func (p *Position) movePiece(from, to Square) {
	pc := p.board[from]
	fromTo := from.BB() | to.BB()
	p.byType[pc.Type()] ^= fromTo
	p.byColor[pc.Color()] ^= fromTo
	p.board[from] = NoPiece
	p.board[to] = pc
}
