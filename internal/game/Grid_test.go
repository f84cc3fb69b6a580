package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_Errors(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
	}{
		{"ZeroWidth", 0, 5},
		{"ZeroHeight", 5, 0},
		{"Negative", -1, 3},
		{"TooWide", MaxGridSide + 1, 4},
		{"TooTall", 4, MaxGridSide + 1},
		{"ProductOverflows", math.MaxInt, math.MaxInt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGrid(tc.width, tc.height)
			assert.ErrorIs(t, err, ErrInvalidGrid)
		})
	}

	g, err := NewGrid(MaxGridSide, MaxGridSide)
	require.NoError(t, err)
	assert.Equal(t, MaxGridSide*MaxGridSide, g.Size())
}

func TestGrid_NeighborOrder(t *testing.T) {
	g, err := NewGrid(4, 4)
	require.NoError(t, err)

	got := g.Neighbors(Coordinate{X: 1, Y: 1})
	want := [4]Coordinate{{X: 2, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 0}}
	assert.Equal(t, want, got)
}

func TestGrid_FreeNeighbors(t *testing.T) {
	g, err := NewGrid(3, 3)
	require.NoError(t, err)

	occupied := []Coordinate{{X: 1, Y: 0}}
	free := g.FreeNeighbors(Coordinate{X: 0, Y: 0}, occupied, Coordinate{X: 0, Y: 1})
	assert.Empty(t, free, "corner with one neighbor occupied and the other excluded")

	free = g.FreeNeighbors(Coordinate{X: 1, Y: 1}, occupied, noTarget)
	assert.Equal(t, []Coordinate{{X: 2, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 2}}, free)
}

func TestGrid_FreeCells(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)

	free := g.FreeCells([]Coordinate{{X: 0, Y: 0}}, []Coordinate{{X: 1, Y: 1}, {X: 9, Y: 9}})
	assert.Equal(t, []Coordinate{{X: 1, Y: 0}, {X: 0, Y: 1}}, free)
}

func TestGrid_ValidateBody(t *testing.T) {
	g, err := NewGrid(5, 5)
	require.NoError(t, err)

	cases := []struct {
		name  string
		cells []Coordinate
		ok    bool
	}{
		{"Valid", []Coordinate{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2}}, true},
		{"TooShort", []Coordinate{{X: 2, Y: 2}, {X: 1, Y: 2}}, false},
		{"OutOfBounds", []Coordinate{{X: 5, Y: 2}, {X: 4, Y: 2}, {X: 3, Y: 2}}, false},
		{"Duplicate", []Coordinate{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}, false},
		{"Gap", []Coordinate{{X: 3, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2}}, false},
		{"Diagonal", []Coordinate{{X: 2, Y: 2}, {X: 1, Y: 1}, {X: 0, Y: 1}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := g.ValidateBody(tc.cells, MinBodyLength)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidBody)
			}
		})
	}
}

func TestDirection_Helpers(t *testing.T) {
	assert.Equal(t, Down, Up.Opposite())
	assert.True(t, Left.IsOpposite(Right))
	assert.False(t, None.IsOpposite(None))
	assert.False(t, Up.IsOpposite(Left))
	assert.Equal(t, "left", Left.String())

	d, ok := ParseDirection("down")
	assert.True(t, ok)
	assert.Equal(t, Down, d)
	_, ok = ParseDirection("sideways")
	assert.False(t, ok)

	c := Coordinate{X: 2, Y: 3}
	assert.Equal(t, Coordinate{X: 2, Y: 2}, c.Add(Up))
	assert.Equal(t, Right, Coordinate{X: 3, Y: 3}.Sub(c))
	assert.Equal(t, 5, GetManhattanDistance(c, Coordinate{X: 0, Y: 0}))
}
