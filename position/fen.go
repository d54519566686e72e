package position

import (
	"fmt"
	"strconv"
	"strings"

	bb "chessengine/bitboard"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var letterToType = map[byte]PieceType{'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King}

// NewPositionFromFEN parses a standard six-field FEN, Shredder-FEN, or
// X-FEN castling-rights field (any of KQkq or rook-file letters A-H/a-h).
// isChess960 is inferred: any rook-file letter in the castling field marks
// the position as Chess960, and so does a KQkq letter whose king is not on
// the e-file or whose castling rook is not on the a- or h-file.
func NewPositionFromFEN(fen string) (*Position, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return nil, fmt.Errorf("position: malformed FEN %q: need at least 4 fields", fen)
	}
	p := &Position{}
	p.stTop = 0
	p.st = &p.states[0]
	p.st.EpSquare = NoSquare

	if err := p.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return nil, fmt.Errorf("position: malformed FEN %q: bad side to move %q", fen, fields[1])
	}

	if err := p.parseCastling(fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := parseSquareName(fields[3])
		if err != nil {
			return nil, fmt.Errorf("position: malformed FEN %q: bad en passant square: %w", fen, err)
		}
		if p.epIsPseudoLegal(sq) {
			p.st.EpSquare = sq
		}
	}

	p.st.HalfmoveClock = 0
	if len(fields) > 4 {
		if hm, err := strconv.Atoi(fields[4]); err == nil {
			p.st.HalfmoveClock = int16(hm)
		}
	}
	p.gamePly = 0
	if len(fields) > 5 {
		if fm, err := strconv.Atoi(fields[5]); err == nil {
			p.gamePly = 2*(fm-1) + int(p.sideToMove)
			if p.gamePly < 0 {
				p.gamePly = 0
			}
		}
	}

	p.st.Key = p.computeZobrist()
	p.st.PliesFromNull = 0
	p.updateCheckInfo()
	p.st.MaterialKey, p.st.PawnKey, p.st.NonPawnMaterial = p.computeMaterialKeys()

	return p, nil
}

func (p *Position) parsePlacement(field string) error {
	rows := strings.Split(field, "/")
	if len(rows) != 8 {
		return fmt.Errorf("position: malformed FEN piece placement %q", field)
	}
	for i := 0; i < 8; i++ {
		rank := Rank(7 - i)
		file := File(0)
		for _, c := range rows[i] {
			switch {
			case c >= '1' && c <= '8':
				file += File(c - '0')
			default:
				pt, ok := letterToType[byteLower(byte(c))]
				if !ok {
					return fmt.Errorf("position: malformed FEN piece placement %q: bad char %q", field, c)
				}
				color := White
				if c >= 'a' && c <= 'z' {
					color = Black
				}
				if !file.Valid() {
					return fmt.Errorf("position: malformed FEN piece placement %q: rank overflow", field)
				}
				p.putPiece(MakePiece(color, pt), MakeSquare(file, rank))
				file++
			}
		}
	}
	return nil
}

func byteLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func (p *Position) parseCastling(field string) error {
	if field == "-" {
		p.computeCastlingPaths()
		return nil
	}
	for _, c := range field {
		switch c {
		case 'K', 'Q', 'k', 'q':
			color := White
			kingside := c == 'K'
			if c == 'k' || c == 'q' {
				color = Black
				kingside = c == 'k'
			}
			ksq := p.PiecesColorType(color, King).LSB()
			rookRank := ksq.Rank()
			var rookSq Square
			if kingside {
				rookSq = p.findCornerRook(color, rookRank, true)
			} else {
				rookSq = p.findCornerRook(color, rookRank, false)
			}
			p.setCastleRightForSide(color, kingside, rookSq)
			if ksq.File() != bb.FileE || (rookSq != NoSquare && rookSq.File() != bb.FileA && rookSq.File() != bb.FileH) {
				p.isChess960 = true
			}
		case 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H':
			p.isChess960 = true
			color := White
			rookFile := File(c - 'A')
			p.setCastleRightByRookFile(color, rookFile)
		case 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h':
			p.isChess960 = true
			color := Black
			rookFile := File(c - 'a')
			p.setCastleRightByRookFile(color, rookFile)
		default:
			return fmt.Errorf("position: malformed FEN castling field %q", field)
		}
	}
	p.computeCastlingPaths()
	return nil
}

func (p *Position) findCornerRook(color Color, rank Rank, kingside bool) Square {
	ksq := p.PiecesColorType(color, King).LSB()
	rooks := p.PiecesColorType(color, Rook) & bb.RankBB(rank)
	best := NoSquare
	for r := rooks; r != 0; {
		s := r.LSB()
		r &= r - 1
		if kingside && s > ksq {
			if best == NoSquare || s > best {
				best = s
			}
		} else if !kingside && s < ksq {
			if best == NoSquare || s < best {
				best = s
			}
		}
	}
	return best
}

func (p *Position) setCastleRightByRookFile(color Color, rookFile File) {
	rank := Rank(0)
	if color == Black {
		rank = 7
	}
	rookSq := MakeSquare(rookFile, rank)
	ksq := p.PiecesColorType(color, King).LSB()
	kingside := rookFile > ksq.File()
	p.setCastleRightForSide(color, kingside, rookSq)
}

func (p *Position) setCastleRightForSide(color Color, kingside bool, rookSq Square) {
	if rookSq == NoSquare {
		return
	}
	var cr CastleRight
	switch {
	case color == White && kingside:
		cr = WhiteKingSide
	case color == White && !kingside:
		cr = WhiteQueenSide
	case color == Black && kingside:
		cr = BlackKingSide
	default:
		cr = BlackQueenSide
	}
	p.castlingRights |= cr
	p.st.CastlingRights |= cr
	idx := castleRightIndex(cr)
	p.castlingRookSquare[idx] = rookSq
	ksq := p.PiecesColorType(color, King).LSB()
	p.castlingRightsMask[ksq] |= cr
	p.castlingRightsMask[rookSq] |= cr
}

func (p *Position) computeCastlingPaths() {
	for _, cr := range allCastleRights {
		idx := castleRightIndex(cr)
		rookSq := p.castlingRookSquare[idx]
		if p.st.CastlingRights&cr == 0 {
			continue
		}
		color := White
		if cr == BlackKingSide || cr == BlackQueenSide {
			color = Black
		}
		ksq := p.PiecesColorType(color, King).LSB()
		kingside := cr == WhiteKingSide || cr == BlackKingSide
		var kingDest, rookDest Square
		rank := ksq.Rank()
		if kingside {
			kingDest = MakeSquare(bb.FileG, rank)
			rookDest = MakeSquare(bb.FileF, rank)
		} else {
			kingDest = MakeSquare(bb.FileC, rank)
			rookDest = MakeSquare(bb.FileD, rank)
		}
		path := bb.BetweenBB[ksq][kingDest] | kingDest.BB()
		path |= bb.BetweenBB[rookSq][rookDest] | rookDest.BB()
		path |= bb.BetweenBB[ksq][rookSq]
		path &^= ksq.BB()
		path &^= rookSq.BB()
		p.castlingPath[idx] = path
	}
}

func parseSquareName(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	f := s[0]
	r := s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return MakeSquare(File(f-'a'), Rank(r-'1')), nil
}

// epIsPseudoLegal retains the EP square only if a pawn of the side to move
// can actually capture there and the square is empty with an enemy pawn
// directly behind it, per spec.
func (p *Position) epIsPseudoLegal(sq Square) bool {
	if sq.File() < 0 {
		return false
	}
	us := p.sideToMove
	them := us.Opposite()
	var behind Square
	if us == White {
		behind = sq - 8
	} else {
		behind = sq + 8
	}
	if behind < 0 || behind >= 64 {
		return false
	}
	if p.board[behind].Type() != Pawn || p.board[behind].Color() != them {
		return false
	}
	if p.board[sq] != NoPiece {
		return false
	}
	attackers := bb.PawnAttacks[them][sq] & p.PiecesColorType(us, Pawn)
	return attackers != 0
}

// FEN emits the current position as a standard FEN, using Shredder-style
// castling letters when the position is in Chess960 mode.
func (p *Position) FEN() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			sq := MakeSquare(File(f), Rank(r))
			pc := p.board[sq]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(p.castlingFieldString())
	sb.WriteByte(' ')
	if p.st.EpSquare == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(squareName(p.st.EpSquare))
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.st.HalfmoveClock)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.gamePly/2 + 1))
	return sb.String()
}

func (p *Position) castlingFieldString() string {
	if p.st.CastlingRights == 0 {
		return "-"
	}
	var sb strings.Builder
	order := []struct {
		cr     CastleRight
		letter byte
		letterLower byte
	}{
		{WhiteKingSide, 'K', 'k'},
		{WhiteQueenSide, 'Q', 'q'},
		{BlackKingSide, 'K', 'k'},
		{BlackQueenSide, 'Q', 'q'},
	}
	for i, o := range order {
		if p.st.CastlingRights&o.cr == 0 {
			continue
		}
		if !p.isChess960 {
			if i < 2 {
				sb.WriteByte(o.letter)
			} else {
				sb.WriteByte(o.letterLower)
			}
			continue
		}
		idx := castleRightIndex(o.cr)
		rookSq := p.castlingRookSquare[idx]
		letter := byte('A' + rookSq.File())
		if i >= 2 {
			letter = byte('a' + rookSq.File())
		}
		sb.WriteByte(letter)
	}
	return sb.String()
}
