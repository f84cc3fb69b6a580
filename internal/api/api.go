// Package api exposes the path planner over HTTP so that other game clients can use
// it as a stateless decision service.
package api

import (
	"math/rand"
	"net/http"
	"slices"
	"strconv"

	"github.com/Mshel/autosnake/internal/game"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// PlanRequest describes one planning problem.
type PlanRequest struct {
	Width                 int               `json:"width" binding:"required,min=1,max=256"`
	Height                int               `json:"height" binding:"required,min=1,max=256"`
	Body                  []game.Coordinate `json:"body" binding:"required,min=3"`
	Direction             string            `json:"direction"`
	Targets               []game.Coordinate `json:"targets"`
	MovesSinceLastCapture int               `json:"moves_since_last_capture" binding:"min=0"`
	// Seed makes the safe-move shuffle reproducible. Zero uses a random seed.
	Seed int64 `json:"seed"`
}

type PlanResponse struct {
	Found     bool              `json:"found"`
	Path      []game.Coordinate `json:"path"`
	Direction string            `json:"direction"`
	Tier      string            `json:"tier"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ScoreLister is the read side of the high score store.
type ScoreLister interface {
	GetHighScores(limit, offset int) ([]game.Score, error)
	GetTotalScoreCount() (int, error)
}

type Handler struct {
	scores ScoreLister
	logger *log.Logger
}

func NewHandler(scores ScoreLister, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{scores: scores, logger: logger}
}

// NewRouter wires every endpoint onto a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	v1 := router.Group("/v1")
	v1.POST("/plan", h.Plan)
	if h.scores != nil {
		v1.GET("/highscores", h.HighScores)
	}
	return router
}

// Plan answers a PlanRequest. "No path" is a normal answer, not an error.
func (h *Handler) Plan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	direction, ok := game.ParseDirection(req.Direction)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown direction " + strconv.Quote(req.Direction)})
		return
	}

	grid, err := game.NewGrid(req.Width, req.Height)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := grid.ValidateBody(req.Body, game.MinBodyLength); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	for _, target := range req.Targets {
		if !grid.InBounds(target) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "target " + target.String() + " out of bounds"})
			return
		}
		if slices.Contains(req.Body, target) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "target " + target.String() + " overlaps the body"})
			return
		}
	}

	opts := []game.PlannerOption{game.WithLogger(h.logger)}
	if req.Seed != 0 {
		opts = append(opts, game.WithRand(rand.New(rand.NewSource(req.Seed))))
	}
	planner := game.NewPathPlanner(grid, opts...)
	body := game.NewVirtualBody(req.Body, direction)
	decision := planner.Decide(body, req.Targets, req.MovesSinceLastCapture)

	resp := PlanResponse{
		Found: decision.Tier != game.TierNone,
		Path:  []game.Coordinate(decision.Path),
		Tier:  decision.Tier.String(),
	}
	if resp.Path == nil {
		resp.Path = []game.Coordinate{}
	}
	if resp.Found {
		resp.Direction = decision.Path[0].Sub(req.Body[0]).String()
	} else {
		resp.Direction = game.None.String()
	}
	c.JSON(http.StatusOK, resp)
}

type HighScoresResponse struct {
	Total  int          `json:"total"`
	Scores []game.Score `json:"scores"`
}

func (h *Handler) HighScores(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 100"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "offset must not be negative"})
		return
	}

	scores, err := h.scores.GetHighScores(limit, offset)
	if err != nil {
		h.logger.Error("Listing high scores failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not list high scores"})
		return
	}
	total, err := h.scores.GetTotalScoreCount()
	if err != nil {
		h.logger.Error("Counting high scores failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not count high scores"})
		return
	}
	if scores == nil {
		scores = []game.Score{}
	}
	c.JSON(http.StatusOK, HighScoresResponse{Total: total, Scores: scores})
}
