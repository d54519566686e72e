package eval

import (
	"testing"

	"chessengine/position"
)

func TestStartPositionIsRoughlyBalanced(t *testing.T) {
	pos, err := position.NewPositionFromFEN(position.StartFEN)
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	e := New()
	score := e.Evaluate(pos, 0)
	if score < -tempoBonus-50 || score > tempoBonus+50 {
		t.Fatalf("expected the start position to score near zero plus tempo, got %d", score)
	}
}

func TestExtraQueenScoresDecisivelyAhead(t *testing.T) {
	pos, err := position.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	e := New()
	score := e.Evaluate(pos, 0)
	if score < 500 {
		t.Fatalf("expected a lone extra queen to score as a large advantage, got %d", score)
	}
}

func TestScoreFlipsSignWithSideToMove(t *testing.T) {
	white, err := position.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	black, err := position.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	e := New()
	ws := e.Evaluate(white, 0)
	bs := e.Evaluate(black, 0)
	if ws <= 0 || bs >= 0 {
		t.Fatalf("expected opposite-signed scores for the same material from each side's perspective, got white=%d black=%d", ws, bs)
	}
}
