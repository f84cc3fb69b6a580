package game

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// AntiStallFactor scales the grid area into the number of moves without a capture
// after which an adjacent target is taken without any safety check.
const AntiStallFactor = 10

// Path is an ordered, head-exclusive sequence of cells to visit.
type Path []Coordinate

// Tier names the strategy that produced a plan.
type Tier int

const (
	TierNone Tier = iota
	TierAntiStall
	TierShortestPath
	TierLongestPath
	TierSafeMove
	TierChaseTail
)

func (t Tier) String() string {
	switch t {
	case TierAntiStall:
		return "anti-stall"
	case TierShortestPath:
		return "shortest-path"
	case TierLongestPath:
		return "longest-path-to-tail"
	case TierSafeMove:
		return "safe-move"
	case TierChaseTail:
		return "chase-tail"
	}
	return "none"
}

// Decision is a plan together with the tier that produced it.
type Decision struct {
	Path   Path
	Tier   Tier
	Target Coordinate
}

// noTarget is never in bounds, so excluding it from a neighbor scan is a no-op.
var noTarget = Coordinate{X: -1, Y: -1}

// PathPlanner chooses the next move of a body on a fixed grid. All search state is
// scoped to a single call, so a planner can be reused across ticks but must not be
// shared between goroutines because of its random source.
type PathPlanner struct {
	grid   Grid
	rng    *rand.Rand
	logger *log.Logger
}

type PlannerOption func(*PathPlanner)

// WithRand injects the source used to shuffle safe-move candidates.
func WithRand(rng *rand.Rand) PlannerOption {
	return func(p *PathPlanner) {
		if rng != nil {
			p.rng = rng
		}
	}
}

func WithLogger(logger *log.Logger) PlannerOption {
	return func(p *PathPlanner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPathPlanner(grid Grid, opts ...PlannerOption) *PathPlanner {
	p := &PathPlanner{
		grid:   grid,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PathPlanner) Grid() Grid { return p.grid }

// Plan returns the path the body should follow next, or false when no move is
// necessary or possible. The body is never mutated.
func (p *PathPlanner) Plan(body BodyView, targets []Coordinate, movesSinceLastCapture int) (Path, bool) {
	d := p.Decide(body, targets, movesSinceLastCapture)
	return d.Path, d.Tier != TierNone
}

// PlanDirection is Plan reduced to the direction of the first step.
func (p *PathPlanner) PlanDirection(body BodyView, targets []Coordinate, movesSinceLastCapture int) (Direction, bool) {
	path, ok := p.Plan(body, targets, movesSinceLastCapture)
	if !ok {
		return None, false
	}
	return path[0].Sub(body.Cells()[0]), true
}

// Decide runs the tiers in order and reports which one produced the plan.
func (p *PathPlanner) Decide(body BodyView, targets []Coordinate, movesSinceLastCapture int) Decision {
	cells := body.Cells()
	if len(cells) == 0 {
		return Decision{}
	}
	head := cells[0]

	target, hasTarget := NearestTarget(head, targets)
	exclude := noTarget
	if hasTarget {
		exclude = target
	}

	if hasTarget && movesSinceLastCapture >= AntiStallFactor*p.grid.Size() &&
		GetManhattanDistance(head, target) == 1 {
		return p.decided(Path{target}, TierAntiStall, target)
	}

	if hasTarget {
		if path := p.shortestSafePath(body, target); path != nil {
			return p.decided(path, TierShortestPath, target)
		}
	}

	if path := p.LongestPathToTail(body, exclude); path != nil {
		return p.decided(path, TierLongestPath, exclude)
	}

	if path, tier := p.SafeMove(body, exclude); path != nil {
		return p.decided(path, tier, exclude)
	}

	p.logger.Debug("No path available", "head", head, "length", len(cells))
	return Decision{Target: exclude}
}

func (p *PathPlanner) decided(path Path, tier Tier, target Coordinate) Decision {
	p.logger.Debug("Planned move", "tier", tier, "next", path[0], "length", len(path))
	return Decision{Path: path, Tier: tier, Target: target}
}

// shortestSafePath returns the BFS path to target if, after following it and eating,
// the body can still reach its own tail.
func (p *PathPlanner) shortestSafePath(body BodyView, target Coordinate) Path {
	cells := body.Cells()
	pathToTarget := p.BreadthFirstSearch(cells[0], target, cells)
	if pathToTarget == nil {
		return nil
	}

	v := Clone(body)
	v.Follow(pathToTarget)
	v.Grow()

	if p.PathToTail(v) == nil {
		return nil
	}
	return pathToTarget
}

// LongestPathToTail picks the free neighbor of the head that is farthest from the
// tail (Manhattan) among those that keep an escape path to the tail. The first
// maximal neighbor in expansion order wins. target is never stepped on.
func (p *PathPlanner) LongestPathToTail(body BodyView, target Coordinate) Path {
	cells := body.Cells()
	head, tail := cells[0], cells[len(cells)-1]

	best := -1
	var choice Coordinate
	for _, neighbor := range p.grid.FreeNeighbors(head, cells, target) {
		distance := GetManhattanDistance(neighbor, tail)
		if distance <= best {
			continue
		}

		v := Clone(body)
		v.StepTo(neighbor)
		if neighbor == target {
			v.Grow()
		}

		if p.PathToTail(v) != nil {
			best = distance
			choice = neighbor
		}
	}

	if best < 0 {
		return nil
	}
	return Path{choice}
}

// SafeMove tries the head's free neighbors in random order, treating the tail cell as
// free, and returns the first one after which the tail is still reachable. Failing
// that it returns the body's own path to its tail.
func (p *PathPlanner) SafeMove(body BodyView, target Coordinate) (Path, Tier) {
	cells := body.Cells()
	head := cells[0]

	neighbors := p.grid.FreeNeighbors(head, cells[:len(cells)-1], target)
	p.rng.Shuffle(len(neighbors), func(i, j int) {
		neighbors[i], neighbors[j] = neighbors[j], neighbors[i]
	})

	for _, neighbor := range neighbors {
		v := Clone(body)
		v.StepTo(neighbor)
		if p.PathToTail(v) != nil {
			return Path{neighbor}, TierSafeMove
		}
	}

	if path := p.PathToTail(body); path != nil {
		return path, TierChaseTail
	}
	return nil, TierNone
}

// PathToTail is the escape test: a path from the head to the tail over free cells,
// where the tail cell itself is not an obstacle because it vacates next.
func (p *PathPlanner) PathToTail(body BodyView) Path {
	cells := body.Cells()
	if len(cells) < 2 {
		return nil
	}
	last := len(cells) - 1
	return p.BreadthFirstSearch(cells[0], cells[last], cells[:last])
}

// BreadthFirstSearch returns the shortest path from start to end avoiding obstacles,
// head-exclusive, or nil when end is unreachable. The start cell may itself be an
// obstacle. Ties between shortest paths are resolved by expansion order.
func (p *PathPlanner) BreadthFirstSearch(start, end Coordinate, obstacles []Coordinate) Path {
	g := p.grid
	if !g.InBounds(start) || !g.InBounds(end) || start == end {
		return nil
	}

	free := g.Occupy(obstacles)
	visited := make([]bool, g.Size())
	parents := make([]int, g.Size())

	queue := make([]Coordinate, 0, g.Size())
	queue = append(queue, start)
	visited[g.index(start)] = true
	parents[g.index(start)] = -1

	for q := 0; q < len(queue); q++ {
		node := queue[q]
		if node == end {
			break
		}
		for _, next := range g.Neighbors(node) {
			if !free.IsFree(next) {
				continue
			}
			i := g.index(next)
			if visited[i] {
				continue
			}
			visited[i] = true
			parents[i] = g.index(node)
			queue = append(queue, next)
		}
	}

	if !visited[g.index(end)] {
		return nil
	}

	var reversed Path
	for i := g.index(end); i != g.index(start); i = parents[i] {
		reversed = append(reversed, Coordinate{X: i % g.Width, Y: i / g.Width})
	}

	path := make(Path, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path
}

// NearestTarget returns the target closest to from by Manhattan distance. Ties keep
// the earliest target in the set.
func NearestTarget(from Coordinate, targets []Coordinate) (Coordinate, bool) {
	if len(targets) == 0 {
		return Coordinate{}, false
	}
	best := targets[0]
	bestDistance := GetManhattanDistance(from, best)
	for _, t := range targets[1:] {
		if d := GetManhattanDistance(from, t); d < bestDistance {
			best, bestDistance = t, d
		}
	}
	return best, true
}
