// Package movepick implements the staged, lazily-sorted move picker that
// drives the main search and quiescence move loops.
package movepick

import (
	"golang.org/x/exp/slices"

	"chessengine/history"
	"chessengine/position"
)

type stage int

const (
	stageTT stage = iota
	stageGenCaptures
	stageGoodCaptures
	stageRefutations
	stageGenQuiets
	stageGoodQuiets
	stageBadCaptures
	stageBadQuiets
	stageDone
)

type scored struct {
	m     position.Move
	score int32
}

// list is a selection-sort-as-you-go buffer: each Pop call finds the
// highest-scoring remaining entry, swaps it to the front, and returns it.
// This mirrors the teacher's orderNextMove one-at-a-time selection sort,
// which is exactly the "lazily sorted" behavior a staged picker needs —
// moves past the current pointer never need to be fully sorted if a cutoff
// ends the loop early.
type list struct {
	items []scored
	next  int
}

func (l *list) push(m position.Move, score int32) { l.items = append(l.items, scored{m, score}) }

func (l *list) pop() (position.Move, bool) {
	if l.next >= len(l.items) {
		return position.MoveNone, false
	}
	best := l.next
	for i := l.next + 1; i < len(l.items); i++ {
		if l.items[i].score > l.items[best].score {
			best = i
		}
	}
	l.items[l.next], l.items[best] = l.items[best], l.items[l.next]
	m := l.items[l.next].m
	l.next++
	return m, true
}

func (l *list) lastScore() int32 {
	if l.next == 0 {
		return 0
	}
	return l.items[l.next-1].score
}

// ContinuationSlots bundles the back-pointer continuation-history tables
// the stack frame exposes for ss-1, ss-2, ss-4, ss-6, in that order. A nil
// entry (pre-root sentinel or no previous move) contributes nothing.
type ContinuationSlots [4]*history.PieceTo

// Mode selects which family of stages the picker walks.
type Mode int

const (
	MainSearch Mode = iota
	Quiescence
	ProbCut
)

// Picker is a single-use, per-node lazy move generator. Construct one with
// New, then call Next repeatedly until it returns position.MoveNone.
type Picker struct {
	pos  *position.Position
	hist *history.Tables
	mode Mode

	ttMove  position.Move
	killers [2]position.Move
	counter position.Move
	depth   int
	cont    ContinuationSlots

	probCutThreshold int32
	qsChecks         bool

	stage stage

	captures    list
	badCaptures list
	quiets      list
	badQuiets   list
	refutations []position.Move
	refIdx      int

	skipQuiets bool
}

// New builds a picker for the main search / quiescence move loop at pos.
func New(pos *position.Position, hist *history.Tables, mode Mode, ttMove position.Move, killers [2]position.Move, counter position.Move, depth int, cont ContinuationSlots) *Picker {
	p := &Picker{
		pos:     pos,
		hist:    hist,
		mode:    mode,
		ttMove:  ttMove,
		killers: killers,
		counter: counter,
		depth:   depth,
		cont:    cont,
	}
	if mode == MainSearch && ttMove != position.MoveNone && pos.PseudoLegal(ttMove) && pos.Legal(ttMove) {
		p.stage = stageTT
	} else {
		p.stage = stageGenCaptures
	}
	return p
}

// NewProbCut builds a picker that yields only captures clearing threshold.
func NewProbCut(pos *position.Position, hist *history.Tables, threshold int32) *Picker {
	return &Picker{
		pos:              pos,
		hist:             hist,
		mode:             ProbCut,
		probCutThreshold: threshold,
		stage:            stageGenCaptures,
	}
}

// EnableQuietChecks switches the quiescence quiets stage from "no quiets"
// to "generate direct/discovered checks", used beyond the check-depth
// threshold the quiescence search applies.
func (p *Picker) EnableQuietChecks() { p.qsChecks = true }

// SkipQuiets curtails the quiet stages once the caller has decided quiets
// cannot improve alpha at this node.
func (p *Picker) SkipQuiets() { p.skipQuiets = true }

func (p *Picker) isTTMove(m position.Move) bool {
	return p.ttMove != position.MoveNone && m == p.ttMove
}

func (p *Picker) isRefutation(m position.Move) bool {
	return slices.Contains(p.killers[:], m) || m == p.counter
}

// captureScore ranks a capture as 7x the victim's material value plus its
// capture-history score.
func (p *Picker) captureScore(m position.Move) int32 {
	to := m.To()
	victim := p.pos.PieceOn(to).Type()
	if m.Kind() == position.EnPassant {
		victim = position.Pawn
	}
	attacker := p.pos.PieceOn(m.From())
	return 7*position.PieceTypeValue(victim) + p.hist.CaptureScore(attacker, to, victim)
}

func (p *Picker) quietScore(m position.Move) int32 {
	from, to := m.From(), m.To()
	piece := p.pos.PieceOn(from)
	score := p.hist.ButterflyScore(p.pos.SideToMove(), from, to)
	score += p.hist.PawnScore(p.pos.State().PawnKey, piece, to)
	for _, slot := range p.cont {
		if slot != nil {
			score += slot.Score(piece, to)
		}
	}
	if p.pos.GivesCheck(m) {
		score += 16384
	}
	return score
}

func quietThreshold(depth int) int32 {
	if depth <= 0 {
		return -3000
	}
	return -3000 - int32(depth)*512
}

// Next returns the next move in staged priority order, or MoveNone once the
// picker is exhausted.
func (p *Picker) Next() position.Move {
	for {
		switch p.stage {
		case stageTT:
			p.stage = stageGenCaptures
			return p.ttMove

		case stageGenCaptures:
			p.generateCaptures()
			p.stage = stageGoodCaptures

		case stageGoodCaptures:
			m, ok := p.captures.pop()
			if !ok {
				switch {
				case p.mode == ProbCut:
					p.stage = stageDone
				case p.mode == Quiescence && p.pos.InCheck():
					// Evasions must be exhausted even when quiet checks are
					// otherwise disabled at this ply: a king with only
					// non-capturing evasions is not checkmated.
					p.stage = stageGenQuiets
				case p.mode == Quiescence && !p.qsChecks:
					p.stage = stageBadCaptures
				case p.mode == Quiescence:
					p.stage = stageGenQuiets
				default:
					p.buildRefutations()
					p.stage = stageRefutations
				}
				continue
			}
			if p.isTTMove(m) {
				continue
			}
			if p.mode == ProbCut {
				if p.pos.SeeGe(m, p.probCutThreshold) {
					return m
				}
				continue
			}
			threshold := -position.PieceTypeValue(p.pos.PieceOn(m.To()).Type()) / 18
			if p.pos.SeeGe(m, threshold) {
				return m
			}
			p.badCaptures.push(m, p.captures.lastScore())

		case stageRefutations:
			if p.refIdx >= len(p.refutations) {
				if p.skipQuiets {
					p.stage = stageBadCaptures
					continue
				}
				p.stage = stageGenQuiets
				continue
			}
			m := p.refutations[p.refIdx]
			p.refIdx++
			if m == position.MoveNone || p.isTTMove(m) || !p.pos.PseudoLegal(m) || !p.pos.Legal(m) {
				continue
			}
			if p.pos.PieceOn(m.To()) != position.NoPiece {
				continue
			}
			return m

		case stageGenQuiets:
			p.generateQuiets()
			p.stage = stageGoodQuiets

		case stageGoodQuiets:
			if p.skipQuiets {
				p.stage = stageBadCaptures
				continue
			}
			m, ok := p.quiets.pop()
			if !ok {
				p.stage = stageBadCaptures
				continue
			}
			if p.isTTMove(m) || p.isRefutation(m) {
				continue
			}
			if p.quiets.lastScore() < quietThreshold(p.depth) {
				p.badQuiets.push(m, p.quiets.lastScore())
				continue
			}
			return m

		case stageBadCaptures:
			m, ok := p.badCaptures.pop()
			if !ok {
				if p.skipQuiets || (p.mode != MainSearch && !p.pos.InCheck()) {
					p.stage = stageDone
					continue
				}
				p.stage = stageBadQuiets
				continue
			}
			if p.isTTMove(m) {
				continue
			}
			return m

		case stageBadQuiets:
			m, ok := p.badQuiets.pop()
			if !ok {
				p.stage = stageDone
				continue
			}
			if p.isTTMove(m) || p.isRefutation(m) {
				continue
			}
			return m

		case stageDone:
			return position.MoveNone
		}
	}
}

func (p *Picker) generateCaptures() {
	var buf [64]position.Move
	gt := position.GenCaptures
	if p.pos.InCheck() {
		gt = position.GenEvasions
	}
	moves := p.pos.Generate(gt, buf[:0])
	for _, m := range moves {
		isCapture := p.pos.PieceOn(m.To()) != position.NoPiece || m.Kind() == position.EnPassant
		if !isCapture {
			continue
		}
		if !p.pos.Legal(m) {
			continue
		}
		p.captures.push(m, p.captureScore(m))
	}
}

func (p *Picker) generateQuiets() {
	var buf [128]position.Move
	var gt position.GenType
	switch {
	case p.pos.InCheck():
		gt = position.GenEvasions
	case p.mode == Quiescence && p.qsChecks:
		gt = position.GenQuietChecks
	default:
		gt = position.GenQuiets
	}
	moves := p.pos.Generate(gt, buf[:0])
	for _, m := range moves {
		isCapture := p.pos.PieceOn(m.To()) != position.NoPiece || m.Kind() == position.EnPassant
		if isCapture {
			continue
		}
		if !p.pos.Legal(m) {
			continue
		}
		p.quiets.push(m, p.quietScore(m))
	}
}

func (p *Picker) buildRefutations() {
	p.refutations = p.refutations[:0]
	p.refutations = append(p.refutations, p.killers[0])
	if !slices.Contains(p.refutations, p.killers[1]) {
		p.refutations = append(p.refutations, p.killers[1])
	}
	if !slices.Contains(p.refutations, p.counter) {
		p.refutations = append(p.refutations, p.counter)
	}
}
