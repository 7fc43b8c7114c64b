package world

// Equality decides whether a final state satisfies a goal state.
type Equality func(got, want State) bool

// StatesEqual reports whether a and b have the same robot position and
// direction and the same multiset of beepers. Beeper order is ignored.
func StatesEqual(a, b State) bool {
	if a.X != b.X || a.Y != b.Y || a.Direction != b.Direction {
		return false
	}
	if len(a.Beepers) != len(b.Beepers) {
		return false
	}
	counts := make(map[Beeper]int, len(a.Beepers))
	for _, bp := range a.Beepers {
		counts[bp]++
	}
	for _, bp := range b.Beepers {
		if counts[bp] == 0 {
			return false
		}
		counts[bp]--
	}
	return true
}

// StatesLooselyEqual is the historical grading check: equal beeper counts
// and every beeper in a has some beeper at the same cell in b. Two beepers
// on one cell of a can both match a single beeper in b.
func StatesLooselyEqual(a, b State) bool {
	if a.X != b.X || a.Y != b.Y || a.Direction != b.Direction {
		return false
	}
	if len(a.Beepers) != len(b.Beepers) {
		return false
	}
	for _, bp := range a.Beepers {
		found := false
		for _, other := range b.Beepers {
			if bp == other {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
