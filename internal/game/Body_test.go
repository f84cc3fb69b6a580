package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBody(t *testing.T, stepsPerCell int) *Body {
	t.Helper()
	g, err := NewGrid(10, 10)
	require.NoError(t, err)
	b, err := NewBody(g, []Coordinate{{X: 3, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}}, stepsPerCell)
	require.NoError(t, err)
	return b
}

func TestNewBody_Errors(t *testing.T) {
	g, err := NewGrid(5, 5)
	require.NoError(t, err)

	_, err = NewBody(g, []Coordinate{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2}}, 0)
	assert.ErrorIs(t, err, ErrInvalidBody)

	_, err = NewBody(g, []Coordinate{{X: 2, Y: 2}, {X: 1, Y: 2}}, 1)
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestBody_IdleUntilSteered(t *testing.T) {
	b := newTestBody(t, 2)
	assert.Equal(t, MotionIdle, b.State())

	assert.False(t, b.Tick())
	assert.Equal(t, []Coordinate{{X: 3, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}}, b.Cells())
}

func TestBody_InterpolationAndSnap(t *testing.T) {
	b := newTestBody(t, 2)
	require.True(t, b.Steer(Right))

	assert.False(t, b.Tick())
	assert.Equal(t, MotionInterpolating, b.State())
	assert.InDelta(t, 0.5, b.Progress(), 1e-9)
	assert.Equal(t, []Direction{Right, Right, Right}, b.SegmentDirections())
	assert.Equal(t, Position{X: 3.5, Y: 1}, b.Positions()[0])
	// integer cells only move on the snap
	assert.Equal(t, Coordinate{X: 3, Y: 1}, b.Head())

	assert.True(t, b.Tick())
	assert.Equal(t, MotionAligned, b.State())
	assert.Equal(t, []Coordinate{{X: 4, Y: 1}, {X: 3, Y: 1}, {X: 2, Y: 1}}, b.Cells())
	assert.Equal(t, Right, b.TailDirection())
	assert.Zero(t, b.Progress())
}

func TestBody_TurnAdoptedAtAlignment(t *testing.T) {
	b := newTestBody(t, 2)
	require.True(t, b.Steer(Right))
	b.Tick()
	b.Tick()

	require.True(t, b.Steer(Down))
	assert.Equal(t, Right, b.Direction(), "pending direction waits for the aligned event")

	b.Tick()
	assert.Equal(t, Down, b.Direction())
	assert.Equal(t, []Direction{Down, Right, Right}, b.SegmentDirections())

	assert.True(t, b.Tick())
	assert.Equal(t, []Coordinate{{X: 4, Y: 2}, {X: 4, Y: 1}, {X: 3, Y: 1}}, b.Cells())
	assert.False(t, b.SelfCollision())
}

func TestBody_SteerRejects(t *testing.T) {
	b := newTestBody(t, 1)
	require.True(t, b.Steer(Right))
	b.Tick()

	assert.False(t, b.Steer(Left), "reversal")
	assert.False(t, b.Steer(None))
	assert.False(t, b.Steer(Direction{Dx: 2}))
	assert.Equal(t, Right, b.PendingDirection())
}

func TestBody_GrowthIsDoubleBuffered(t *testing.T) {
	b := newTestBody(t, 1)
	require.True(t, b.Steer(Right))
	b.Tick()
	require.Equal(t, []Coordinate{{X: 4, Y: 1}, {X: 3, Y: 1}, {X: 2, Y: 1}}, b.Cells())

	b.Grow()
	assert.True(t, b.GrowthPending())

	b.Tick() // first aligned event arms
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []Coordinate{{X: 5, Y: 1}, {X: 4, Y: 1}, {X: 3, Y: 1}}, b.Cells())

	b.Tick() // second aligned event appends the previous tail position
	assert.Equal(t, 4, b.Len())
	assert.False(t, b.GrowthPending())
	assert.Equal(t, []Coordinate{{X: 6, Y: 1}, {X: 5, Y: 1}, {X: 4, Y: 1}, {X: 3, Y: 1}}, b.Cells())
}

func TestBody_ConsecutiveGrowth(t *testing.T) {
	b := newTestBody(t, 1)
	require.True(t, b.Steer(Right))
	b.Tick()
	b.Grow()
	b.Tick()
	b.Grow()
	b.Tick()
	b.Tick()

	assert.Equal(t, 5, b.Len())
	assert.False(t, b.GrowthPending())
	assert.True(t, NewVirtualBody(b.Cells(), b.Direction()).Distinct())
	require.NoError(t, Grid{Width: 10, Height: 10}.ValidateBody(b.Cells(), MinBodyLength))
}

func TestBody_SelfCollisionOnArmedGrowthCell(t *testing.T) {
	b := newTestBody(t, 1)
	require.True(t, b.Steer(Right))
	b.Tick()
	b.Grow()
	b.Tick()

	// (2,1) was vacated by the tail and is reserved for the new segment
	assert.Contains(t, b.reservedCells(), Coordinate{X: 2, Y: 1})
	b.cells[0] = Coordinate{X: 2, Y: 1}
	assert.True(t, b.SelfCollision())
}

func TestBody_CloneIsIsolated(t *testing.T) {
	b := newTestBody(t, 1)
	v := b.Clone()
	v.Step(Down)
	v.Step(Down)

	assert.Equal(t, []Coordinate{{X: 3, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}}, b.Cells())
	assert.Equal(t, None, b.Direction())
	assert.Equal(t, Down, v.Direction())
}
