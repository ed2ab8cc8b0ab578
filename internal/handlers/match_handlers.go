package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
	"leagueapi/internal/render"
	"leagueapi/internal/repositories"
	"leagueapi/internal/validate"
)

const dateLayout = "2006-01-02"

type MatchHandlers struct {
	matchRepo repositories.MatchRepository
}

func NewMatchHandlers(matchRepo repositories.MatchRepository) *MatchHandlers {
	return &MatchHandlers{matchRepo: matchRepo}
}

type MatchRequest struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	PlayedOn   string `json:"played_on"`
}

// bindMatch validates the payload and, when clean, fills the match fields.
func bindMatch(req MatchRequest, match *models.Match) validate.Errors {
	errs := validate.Run(
		validate.Required("home_team_id", req.HomeTeamID),
		validate.Required("away_team_id", req.AwayTeamID),
		validate.Required("played_on", req.PlayedOn),
	)

	homeID, homeErr := uuid.Parse(req.HomeTeamID)
	if req.HomeTeamID != "" && homeErr != nil {
		errs.Add("home_team_id", "is invalid")
	}
	awayID, awayErr := uuid.Parse(req.AwayTeamID)
	if req.AwayTeamID != "" && awayErr != nil {
		errs.Add("away_team_id", "is invalid")
	}
	if homeErr == nil && awayErr == nil && req.HomeTeamID != "" && homeID == awayID {
		errs.Add("away_team_id", "can't equal home team")
	}

	playedOn, dateErr := time.Parse(dateLayout, req.PlayedOn)
	if req.PlayedOn != "" && dateErr != nil {
		errs.Add("played_on", "must be a YYYY-MM-DD date")
	}

	if errs.Any() {
		return errs
	}
	match.HomeTeamID = homeID
	match.AwayTeamID = awayID
	match.PlayedOn = playedOn
	return errs
}

func (h *MatchHandlers) ListMatches(c echo.Context) error {
	limit, offset := pagination(c)
	matches, err := h.matchRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list matches")
	}
	return render.Collection(c, http.StatusOK, "matches", matches)
}

func (h *MatchHandlers) CreateMatch(c echo.Context) error {
	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	match := &models.Match{ID: uuid.New()}
	if verrs := bindMatch(req, match); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}

	if err := h.matchRepo.Create(c.Request().Context(), match); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			verrs := validate.Errors{}
			verrs.Add("played_on", "has already been taken for this pairing")
			return render.InvalidRecord(c, verrs)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create match")
	}
	return render.Created(c, "matches", match)
}

func (h *MatchHandlers) GetMatch(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Match")
	}
	match, err := h.matchRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Match")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get match")
	}
	return render.Object(c, http.StatusOK, "matches", match)
}

func (h *MatchHandlers) UpdateMatch(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Match")
	}
	match, err := h.matchRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Match")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update match")
	}

	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if verrs := bindMatch(req, match); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}

	if err := h.matchRepo.Update(c.Request().Context(), match); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			verrs := validate.Errors{}
			verrs.Add("played_on", "has already been taken for this pairing")
			return render.InvalidRecord(c, verrs)
		}
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Match")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update match")
	}
	return render.Object(c, http.StatusOK, "matches", match)
}

func (h *MatchHandlers) DeleteMatch(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Match")
	}
	if err := h.matchRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Match")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete match")
	}
	return render.NoContent(c)
}
