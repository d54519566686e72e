package position

import "testing"

func TestMoveUCIRendersStandardCastlingAsKingDestination(t *testing.T) {
	e1, h1 := MakeSquare(4, 0), MakeSquare(7, 0)
	kingside := NewSpecialMove(e1, h1, Castling)
	if got, want := kingside.UCI(false), "e1g1"; got != want {
		t.Fatalf("standard kingside castle: got %q want %q", got, want)
	}
	if got, want := kingside.String(), "e1g1"; got != want {
		t.Fatalf("String() should default to standard chess: got %q want %q", got, want)
	}
	if got, want := kingside.UCI(true), "e1h1"; got != want {
		t.Fatalf("chess960 kingside castle: got %q want %q", got, want)
	}

	a1 := MakeSquare(0, 0)
	queenside := NewSpecialMove(e1, a1, Castling)
	if got, want := queenside.UCI(false), "e1c1"; got != want {
		t.Fatalf("standard queenside castle: got %q want %q", got, want)
	}
	if got, want := queenside.UCI(true), "e1a1"; got != want {
		t.Fatalf("chess960 queenside castle: got %q want %q", got, want)
	}
}

func TestMoveUCIOrdinaryMoveUnaffectedByChess960Flag(t *testing.T) {
	e2, e4 := MakeSquare(4, 1), MakeSquare(4, 3)
	m := NewMove(e2, e4)
	if got, want := m.UCI(false), "e2e4"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got, want := m.UCI(true), "e2e4"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
