package game

import "fmt"

const (
	MinBodyLength       = 3
	DefaultStepsPerCell = 10
)

// MotionState is the kinematic state of a Body.
type MotionState int

const (
	MotionIdle MotionState = iota
	MotionAligned
	MotionInterpolating
)

func (s MotionState) String() string {
	switch s {
	case MotionIdle:
		return "idle"
	case MotionAligned:
		return "aligned"
	case MotionInterpolating:
		return "interpolating"
	}
	return "unknown"
}

// Position is a sub-cell position used only for drawing.
type Position struct {
	X, Y float64
}

// BodyView is the read-only surface the planner and the simulator need from a body.
type BodyView interface {
	Cells() []Coordinate
	Direction() Direction
}

// Body is the real, animated snake. cells[0] is the head and cells[len-1] the tail.
// The integer cells always hold the last aligned positions; the sub-cell offset of
// each segment is derived from its segment direction and the traversal progress.
type Body struct {
	cells             []Coordinate
	segmentDirections []Direction
	direction         Direction
	pendingDirection  Direction
	tailDirection     Direction

	// growth is double-buffered: the first aligned event after Grow arms it,
	// the second appends the cell the tail vacated on the last snap.
	growthPending int
	growthArmed   bool

	stepsPerCell int
	iterations   int
}

// NewBody validates cells against grid and returns an idle, aligned body.
func NewBody(grid Grid, cells []Coordinate, stepsPerCell int) (*Body, error) {
	if stepsPerCell < 1 {
		return nil, fmt.Errorf("%w: steps per cell %d", ErrInvalidBody, stepsPerCell)
	}
	if err := grid.ValidateBody(cells, MinBodyLength); err != nil {
		return nil, err
	}

	b := &Body{
		cells:        append([]Coordinate(nil), cells...),
		stepsPerCell: stepsPerCell,
		iterations:   stepsPerCell,
	}
	b.tailDirection = b.cells[len(b.cells)-2].Sub(b.cells[len(b.cells)-1])
	b.recomputeSegmentDirections()
	return b, nil
}

func (b *Body) Head() Coordinate { return b.cells[0] }
func (b *Body) Tail() Coordinate { return b.cells[len(b.cells)-1] }
func (b *Body) Len() int         { return len(b.cells) }

// Cells returns a copy of the aligned cell sequence, head first.
func (b *Body) Cells() []Coordinate {
	return append([]Coordinate(nil), b.cells...)
}

func (b *Body) Direction() Direction        { return b.direction }
func (b *Body) PendingDirection() Direction { return b.pendingDirection }
func (b *Body) TailDirection() Direction    { return b.tailDirection }
func (b *Body) GrowthPending() bool         { return b.growthPending > 0 }
func (b *Body) StepsPerCell() int           { return b.stepsPerCell }

// SegmentDirections returns the per-segment motion of the current traversal.
func (b *Body) SegmentDirections() []Direction {
	return append([]Direction(nil), b.segmentDirections...)
}

// Progress is the fraction of the current inter-cell traversal in [0,1).
func (b *Body) Progress() float64 {
	if b.iterations >= b.stepsPerCell {
		return 0
	}
	return float64(b.iterations) / float64(b.stepsPerCell)
}

func (b *Body) State() MotionState {
	switch {
	case b.iterations < b.stepsPerCell:
		return MotionInterpolating
	case b.direction == None:
		return MotionIdle
	default:
		return MotionAligned
	}
}

// Positions returns the interpolated position of every segment.
func (b *Body) Positions() []Position {
	frac := b.Progress()
	out := make([]Position, len(b.cells))
	for i, c := range b.cells {
		d := b.segmentDirections[i]
		out[i] = Position{
			X: float64(c.X) + float64(d.Dx)*frac,
			Y: float64(c.Y) + float64(d.Dy)*frac,
		}
	}
	return out
}

// Steer queues d as the next direction. It is adopted at the next aligned event.
// None and the reverse of the current direction are dropped.
func (b *Body) Steer(d Direction) bool {
	if d == None || d.IsOpposite(b.direction) {
		return false
	}
	if abs(d.Dx)+abs(d.Dy) != 1 {
		return false
	}
	b.pendingDirection = d
	return true
}

// Grow requests one more segment. It is appended behind the tail on the second
// aligned event after the call. Requests made on consecutive steps queue up.
func (b *Body) Grow() {
	b.growthPending++
}

// growthCell is the previous tail's pre-move position.
func (b *Body) growthCell() Coordinate {
	return b.Tail().Add(b.tailDirection.Opposite())
}

// reservedCells is the body plus an armed growth cell, which the tail has just
// vacated but the next aligned event reclaims.
func (b *Body) reservedCells() []Coordinate {
	cells := b.Cells()
	if b.growthArmed {
		cells = append(cells, b.growthCell())
	}
	return cells
}

// SelfCollision reports whether the head overlaps the rest of the body, including
// the armed growth cell that is about to be appended.
func (b *Body) SelfCollision() bool {
	head := b.cells[0]
	for _, c := range b.cells[1:] {
		if c == head {
			return true
		}
	}
	return b.growthArmed && b.growthCell() == head
}

// Tick advances the kinematics by one sub-cell step. It returns true when the body
// snapped onto a new set of cells during this tick.
func (b *Body) Tick() bool {
	if b.iterations >= b.stepsPerCell {
		if b.direction == None && b.pendingDirection == None {
			return false
		}
		b.align()
		if b.direction == None {
			return false
		}
	}

	b.iterations++
	if b.iterations == b.stepsPerCell {
		b.snap()
		return true
	}
	return false
}

// align runs the aligned event and starts the next traversal.
func (b *Body) align() {
	if b.growthArmed {
		b.cells = append(b.cells, b.growthCell())
		b.growthPending--
		b.growthArmed = false
	}
	if b.growthPending > 0 {
		b.growthArmed = true
	}

	if b.pendingDirection != None && !b.pendingDirection.IsOpposite(b.direction) {
		b.direction = b.pendingDirection
	}
	b.recomputeSegmentDirections()
	b.iterations = 0
}

// snap moves every segment one full cell along its segment direction.
func (b *Body) snap() {
	prevTail := b.Tail()
	for i := range b.cells {
		b.cells[i] = b.cells[i].Add(b.segmentDirections[i])
	}
	b.tailDirection = b.Tail().Sub(prevTail)
}

// segment i follows segment i-1, so its direction is fully determined by its neighbors.
func (b *Body) recomputeSegmentDirections() {
	if cap(b.segmentDirections) < len(b.cells) {
		b.segmentDirections = make([]Direction, len(b.cells))
	}
	b.segmentDirections = b.segmentDirections[:len(b.cells)]
	b.segmentDirections[0] = b.direction
	for i := 1; i < len(b.cells); i++ {
		b.segmentDirections[i] = b.cells[i-1].Sub(b.cells[i])
	}
}

// Clone returns a detached virtual copy for lookahead.
func (b *Body) Clone() *VirtualBody {
	return Clone(b)
}
