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

type AssistHandlers struct {
	assistRepo repositories.AssistRepository
}

func NewAssistHandlers(assistRepo repositories.AssistRepository) *AssistHandlers {
	return &AssistHandlers{assistRepo: assistRepo}
}

type AssistRequest struct {
	GoalID      string `json:"goal_id"`
	AssistantID string `json:"assistant_id"`
}

func bindAssist(req AssistRequest, assist *models.Assist) validate.Errors {
	errs := validate.Run(
		validate.Required("goal_id", req.GoalID),
		validate.Required("assistant_id", req.AssistantID),
	)

	goalID, goalErr := uuid.Parse(req.GoalID)
	if req.GoalID != "" && goalErr != nil {
		errs.Add("goal_id", "is invalid")
	}
	assistantID, assistantErr := uuid.Parse(req.AssistantID)
	if req.AssistantID != "" && assistantErr != nil {
		errs.Add("assistant_id", "is invalid")
	}

	if errs.Any() {
		return errs
	}
	assist.GoalID = goalID
	assist.AssistantID = assistantID
	return errs
}

func (h *AssistHandlers) ListAssists(c echo.Context) error {
	limit, offset := pagination(c)
	assists, err := h.assistRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list assists")
	}
	return render.Collection(c, http.StatusOK, "assists", assists)
}

func (h *AssistHandlers) CreateAssist(c echo.Context) error {
	var req AssistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	assist := &models.Assist{ID: uuid.New()}
	if verrs := bindAssist(req, assist); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}
	if err := h.assistRepo.Create(c.Request().Context(), assist); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create assist")
	}
	return render.Created(c, "assists", assist)
}

func (h *AssistHandlers) GetAssist(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Assist")
	}
	assist, err := h.assistRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Assist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get assist")
	}
	return render.Object(c, http.StatusOK, "assists", assist)
}

func (h *AssistHandlers) UpdateAssist(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Assist")
	}
	assist, err := h.assistRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Assist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update assist")
	}

	var req AssistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if verrs := bindAssist(req, assist); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}
	if err := h.assistRepo.Update(c.Request().Context(), assist); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Assist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update assist")
	}
	return render.Object(c, http.StatusOK, "assists", assist)
}

func (h *AssistHandlers) DeleteAssist(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Assist")
	}
	if err := h.assistRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Assist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete assist")
	}
	return render.NoContent(c)
}
