package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGrid = errors.New("game: invalid grid")
	ErrInvalidBody = errors.New("game: invalid body")
)

// Grid is the fixed W×H index space of one session. It holds no occupancy of its own;
// occupancy is always supplied by the caller.
type Grid struct {
	Width  int
	Height int
}

// MaxGridSide bounds both dimensions so Width*Height cannot overflow and the
// per-search buffers stay small.
const MaxGridSide = 256

func NewGrid(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 || width > MaxGridSide || height > MaxGridSide {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}
	return Grid{Width: width, Height: height}, nil
}

func (g Grid) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Size is the number of cells in the grid.
func (g Grid) Size() int {
	return g.Width * g.Height
}

// index flattens an in-bounds coordinate for the per-call search buffers.
func (g Grid) index(c Coordinate) int {
	return c.Y*g.Width + c.X
}

// Occupancy is a dense bitmap of blocked cells.
type Occupancy struct {
	grid    Grid
	blocked []bool
}

// Occupy builds an occupancy bitmap from the given cells. Out of bounds cells are ignored.
func (g Grid) Occupy(cells []Coordinate) *Occupancy {
	o := &Occupancy{grid: g, blocked: make([]bool, g.Size())}
	for _, c := range cells {
		if g.InBounds(c) {
			o.blocked[g.index(c)] = true
		}
	}
	return o
}

// IsFree reports whether c is in bounds and not blocked.
func (o *Occupancy) IsFree(c Coordinate) bool {
	return o.grid.InBounds(c) && !o.blocked[o.grid.index(c)]
}

// Neighbors returns the four neighbors of c in expansion order, bounds unchecked.
func (g Grid) Neighbors(c Coordinate) [4]Coordinate {
	var out [4]Coordinate
	for i, d := range Directions {
		out[i] = c.Add(d)
	}
	return out
}

// FreeNeighbors returns the in-bounds neighbors of c that are not in occupied and
// are not the excluded cell.
func (g Grid) FreeNeighbors(c Coordinate, occupied []Coordinate, exclude Coordinate) []Coordinate {
	o := g.Occupy(occupied)
	free := make([]Coordinate, 0, 4)
	for _, n := range g.Neighbors(c) {
		if o.IsFree(n) && n != exclude {
			free = append(free, n)
		}
	}
	return free
}

// FreeCells lists every cell not in occupied, row by row.
func (g Grid) FreeCells(occupied ...[]Coordinate) []Coordinate {
	o := &Occupancy{grid: g, blocked: make([]bool, g.Size())}
	for _, cells := range occupied {
		for _, c := range cells {
			if g.InBounds(c) {
				o.blocked[g.index(c)] = true
			}
		}
	}
	free := make([]Coordinate, 0, g.Size())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Coordinate{X: x, Y: y}
			if o.IsFree(c) {
				free = append(free, c)
			}
		}
	}
	return free
}

// ValidateBody checks the construction preconditions of a body on this grid:
// at least minLength cells, all in bounds, pairwise distinct and consecutive cells adjacent.
func (g Grid) ValidateBody(cells []Coordinate, minLength int) error {
	if len(cells) < minLength {
		return fmt.Errorf("%w: length %d, need at least %d", ErrInvalidBody, len(cells), minLength)
	}
	seen := make(map[Coordinate]struct{}, len(cells))
	for i, c := range cells {
		if !g.InBounds(c) {
			return fmt.Errorf("%w: cell %d %s out of bounds", ErrInvalidBody, i, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate cell %s", ErrInvalidBody, c)
		}
		seen[c] = struct{}{}
		if i > 0 && GetManhattanDistance(cells[i-1], c) != 1 {
			return fmt.Errorf("%w: cells %d and %d are not adjacent", ErrInvalidBody, i-1, i)
		}
	}
	return nil
}
