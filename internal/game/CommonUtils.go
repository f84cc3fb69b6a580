package game

import "fmt"

// Coordinate is a grid cell. Equality is exact integer equality.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) Add(d Direction) Coordinate {
	return Coordinate{X: c.X + d.Dx, Y: c.Y + d.Dy}
}

// Sub returns the vector pointing from other to c.
func (c Coordinate) Sub(other Coordinate) Direction {
	return Direction{Dx: c.X - other.X, Dy: c.Y - other.Y}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is a unit step on the grid, or None when the body is not moving.
type Direction struct {
	Dx, Dy int
}

var (
	None  = Direction{}
	Up    = Direction{Dx: 0, Dy: -1}
	Down  = Direction{Dx: 0, Dy: 1}
	Left  = Direction{Dx: -1, Dy: 0}
	Right = Direction{Dx: 1, Dy: 0}
)

// Directions lists the neighbor expansion order used by every search: +x, -x, +y, -y.
var Directions = []Direction{Right, Left, Down, Up}

func (d Direction) Opposite() Direction {
	return Direction{Dx: -d.Dx, Dy: -d.Dy}
}

func (d Direction) IsOpposite(other Direction) bool {
	return d != None && d.Dx == -other.Dx && d.Dy == -other.Dy
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case None:
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", d.Dx, d.Dy)
}

// ParseDirection maps the names produced by Direction.String back to directions.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	case "none", "":
		return None, true
	}
	return None, false
}

func GetManhattanDistance(c1, c2 Coordinate) int {
	return abs(c1.X-c2.X) + abs(c1.Y-c2.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
