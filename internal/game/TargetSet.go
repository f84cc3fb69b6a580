package game

import "math/rand"

// TargetSet holds the fruit positions of a session. It is disjoint from the body by
// construction: every spawn draws from the cells not covered by the body or by
// another target.
type TargetSet struct {
	positions []Coordinate
	// wanted is how many fruits the session keeps on the board. It shrinks when the
	// board has no room left for a replacement.
	wanted int
	rng    *rand.Rand
}

func NewTargetSet(count int, rng *rand.Rand) *TargetSet {
	return &TargetSet{wanted: count, rng: rng}
}

// Positions returns a copy of the current targets in insertion order.
func (t *TargetSet) Positions() []Coordinate {
	return append([]Coordinate(nil), t.positions...)
}

func (t *TargetSet) Len() int    { return len(t.positions) }
func (t *TargetSet) Wanted() int { return t.wanted }

// IndexOf returns the index of c in the set or -1.
func (t *TargetSet) IndexOf(c Coordinate) int {
	for i, p := range t.positions {
		if p == c {
			return i
		}
	}
	return -1
}

func (t *TargetSet) Remove(index int) {
	t.positions = append(t.positions[:index], t.positions[index+1:]...)
}

// Fill places the initial targets on distinct free cells.
func (t *TargetSet) Fill(grid Grid, body []Coordinate) {
	free := grid.FreeCells(body, t.positions)
	t.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for _, c := range free {
		if len(t.positions) >= t.wanted {
			return
		}
		t.positions = append(t.positions, c)
	}
	t.wanted = len(t.positions)
}

// Respawn adds one target on a random free cell. When the board is full the wanted
// count drops instead; it returns false in that case.
func (t *TargetSet) Respawn(grid Grid, body []Coordinate) bool {
	free := grid.FreeCells(body, t.positions)
	if len(free) == 0 {
		t.wanted--
		return false
	}
	t.positions = append(t.positions, free[t.rng.Intn(len(free))])
	return true
}
