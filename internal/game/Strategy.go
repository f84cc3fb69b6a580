package game

// Strategy decides the direction of an autopiloted body at every aligned event.
// Returning None keeps the current direction.
type Strategy interface {
	Name() string
	getNextBestDirection(session *Session) Direction
}

// PlannerStrategy drives the body with the tiered PathPlanner.
type PlannerStrategy struct {
	planner *PathPlanner
	last    Decision
}

func NewPlannerStrategy(planner *PathPlanner) *PlannerStrategy {
	return &PlannerStrategy{planner: planner}
}

func (s *PlannerStrategy) Name() string { return "pathfinder" }

// LastDecision is the most recent plan, for display.
func (s *PlannerStrategy) LastDecision() Decision { return s.last }

func (s *PlannerStrategy) getNextBestDirection(session *Session) Direction {
	s.last = s.planner.Decide(session.body, session.targets.Positions(), session.movesSinceLastCapture)
	if s.last.Tier == TierNone {
		return None
	}
	return s.last.Path[0].Sub(session.body.Head())
}
