package game

// VirtualBody is a disposable copy of a body used for lookahead. Every Step moves it by
// exactly one grid cell; there is no sub-cell animation.
type VirtualBody struct {
	cells         []Coordinate
	direction     Direction
	tailDirection Direction
	growNext      bool
}

// Clone copies the cell sequence and direction of any body. Animation and growth
// bookkeeping are not carried over.
func Clone(body BodyView) *VirtualBody {
	cells := body.Cells()
	v := &VirtualBody{
		cells:     append(make([]Coordinate, 0, len(cells)+1), cells...),
		direction: body.Direction(),
	}
	if n := len(v.cells); n >= 2 {
		v.tailDirection = v.cells[n-2].Sub(v.cells[n-1])
	}
	return v
}

// NewVirtualBody builds a virtual body straight from a cell sequence.
func NewVirtualBody(cells []Coordinate, direction Direction) *VirtualBody {
	return Clone(&VirtualBody{cells: cells, direction: direction})
}

// Clone keeps the tail direction but, like the package-level Clone, drops any
// growth queued with GrowOnNextStep.
func (v *VirtualBody) Clone() *VirtualBody {
	c := Clone(v)
	c.tailDirection = v.tailDirection
	return c
}

func (v *VirtualBody) Cells() []Coordinate {
	return append([]Coordinate(nil), v.cells...)
}

func (v *VirtualBody) Direction() Direction     { return v.direction }
func (v *VirtualBody) TailDirection() Direction { return v.tailDirection }
func (v *VirtualBody) Head() Coordinate         { return v.cells[0] }
func (v *VirtualBody) Tail() Coordinate         { return v.cells[len(v.cells)-1] }
func (v *VirtualBody) Len() int                 { return len(v.cells) }

// GrowOnNextStep makes the next Step keep the tail in place.
func (v *VirtualBody) GrowOnNextStep() {
	v.growNext = true
}

// Step moves the body one cell in direction d. A growth step inserts the new head
// without dropping the tail; otherwise the tail vacates and tailDirection records
// the vector from the old tail to the new one.
func (v *VirtualBody) Step(d Direction) {
	v.direction = d
	newHead := v.cells[0].Add(d)

	if v.growNext {
		v.cells = append(v.cells, Coordinate{})
		copy(v.cells[1:], v.cells[:len(v.cells)-1])
		v.cells[0] = newHead
		v.growNext = false
		return
	}

	prevTail := v.Tail()
	copy(v.cells[1:], v.cells[:len(v.cells)-1])
	v.cells[0] = newHead
	v.tailDirection = v.Tail().Sub(prevTail)
}

// StepTo moves the head onto an adjacent cell.
func (v *VirtualBody) StepTo(c Coordinate) {
	v.Step(c.Sub(v.cells[0]))
}

// Follow replays a head-exclusive path one cell at a time.
func (v *VirtualBody) Follow(path Path) {
	for _, c := range path {
		v.StepTo(c)
	}
}

// Grow appends one segment behind the tail, where the tail was one step ago.
// This is the simulated result of consuming a target.
func (v *VirtualBody) Grow() {
	v.cells = append(v.cells, v.Tail().Add(v.tailDirection.Opposite()))
}

// Distinct reports whether all cells are pairwise distinct.
func (v *VirtualBody) Distinct() bool {
	seen := make(map[Coordinate]struct{}, len(v.cells))
	for _, c := range v.cells {
		if _, ok := seen[c]; ok {
			return false
		}
		seen[c] = struct{}{}
	}
	return true
}
