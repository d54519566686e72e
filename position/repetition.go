package position

// computeRepetition scans ancestors at distances 4, 6, 8, ... up to
// min(halfmoveClock, pliesFromNull) looking for an identical key, storing
// the signed ply distance to the nearest one (negative marks a chain where
// an earlier repetition already closes a three-fold cycle). This is the
// teacher's linear ancestor scan (state_stack.go's repetitionInfo), kept
// alongside the cuckoo-table has_game_cycle check in cuckoo.go which gives
// the search an O(1) alternative.
func (p *Position) computeRepetition() {
	st := p.st
	st.RepetitionPly = 0
	end := int(st.HalfmoveClock)
	if int(st.PliesFromNull) < end {
		end = int(st.PliesFromNull)
	}
	if end < 4 {
		return
	}
	ancestor := st.Previous.Previous
	for d := 2; d <= end; d += 2 {
		if ancestor == nil {
			return
		}
		if d >= 4 {
			if ancestor.Key == st.Key {
				if ancestor.RepetitionPly != 0 {
					st.RepetitionPly = -d
				} else {
					st.RepetitionPly = d
				}
				return
			}
		}
		if ancestor.Previous == nil || ancestor.Previous.Previous == nil {
			return
		}
		ancestor = ancestor.Previous.Previous
	}
}

// IsDraw returns true when the 50-move counter has expired (and the side to
// move either has a legal move or is not in check) or a repetition closer
// than the given search root ply has been recorded.
func (p *Position) IsDraw(plyFromRoot int) bool {
	st := p.st
	if st.HalfmoveClock >= 100 {
		if !p.InCheck() {
			return true
		}
		var buf [256]Move
		if len(p.Generate(GenLegal, buf[:0])) > 0 {
			return true
		}
	}
	return st.RepetitionPly != 0 && st.RepetitionPly < plyFromRoot
}
