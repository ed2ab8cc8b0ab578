package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
	"leagueapi/internal/render"
	"leagueapi/internal/repositories"
	"leagueapi/internal/validate"
)

type GoalHandlers struct {
	goalRepo repositories.GoalRepository
}

func NewGoalHandlers(goalRepo repositories.GoalRepository) *GoalHandlers {
	return &GoalHandlers{goalRepo: goalRepo}
}

type GoalRequest struct {
	MatchID  string `json:"match_id"`
	TeamID   string `json:"team_id"`
	ScorerID string `json:"scorer_id"`
	Minute   int    `json:"minute"`
}

func bindGoal(req GoalRequest, goal *models.Goal) validate.Errors {
	errs := validate.Run(
		validate.Required("match_id", req.MatchID),
		validate.Required("team_id", req.TeamID),
		validate.Required("scorer_id", req.ScorerID),
	)

	matchID, matchErr := uuid.Parse(req.MatchID)
	if req.MatchID != "" && matchErr != nil {
		errs.Add("match_id", "is invalid")
	}
	teamID, teamErr := uuid.Parse(req.TeamID)
	if req.TeamID != "" && teamErr != nil {
		errs.Add("team_id", "is invalid")
	}
	scorerID, scorerErr := uuid.Parse(req.ScorerID)
	if req.ScorerID != "" && scorerErr != nil {
		errs.Add("scorer_id", "is invalid")
	}
	if req.Minute < 0 || req.Minute > 120 {
		errs.Add("minute", "must be between 0 and 120")
	}

	if errs.Any() {
		return errs
	}
	goal.MatchID = matchID
	goal.TeamID = teamID
	goal.ScorerID = scorerID
	goal.Minute = req.Minute
	return errs
}

func (h *GoalHandlers) ListGoals(c echo.Context) error {
	limit, offset := pagination(c)
	goals, err := h.goalRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list goals")
	}
	return render.Collection(c, http.StatusOK, "goals", goals)
}

func (h *GoalHandlers) CreateGoal(c echo.Context) error {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	goal := &models.Goal{ID: uuid.New()}
	if verrs := bindGoal(req, goal); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}
	if err := h.goalRepo.Create(c.Request().Context(), goal); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create goal")
	}
	return render.Created(c, "goals", goal)
}

func (h *GoalHandlers) GetGoal(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Goal")
	}
	goal, err := h.goalRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Goal")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get goal")
	}
	return render.Object(c, http.StatusOK, "goals", goal)
}

func (h *GoalHandlers) UpdateGoal(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Goal")
	}
	goal, err := h.goalRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Goal")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update goal")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if verrs := bindGoal(req, goal); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}
	if err := h.goalRepo.Update(c.Request().Context(), goal); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Goal")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update goal")
	}
	return render.Object(c, http.StatusOK, "goals", goal)
}

func (h *GoalHandlers) DeleteGoal(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Goal")
	}
	if err := h.goalRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Goal")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete goal")
	}
	return render.NoContent(c)
}
