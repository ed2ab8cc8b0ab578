package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
	"leagueapi/internal/render"
	"leagueapi/internal/repositories"
	"leagueapi/internal/services"
	"leagueapi/internal/validate"
)

const crestURLExpiry = 15 * time.Minute

type TeamHandlers struct {
	teamRepo repositories.TeamRepository
	crestSvc services.CrestService
}

func NewTeamHandlers(teamRepo repositories.TeamRepository, crestSvc services.CrestService) *TeamHandlers {
	return &TeamHandlers{teamRepo: teamRepo, crestSvc: crestSvc}
}

type TeamRequest struct {
	Name string `json:"name"`
}

func (h *TeamHandlers) validateTeam(c echo.Context, name string, excludeID uuid.UUID) (validate.Errors, error) {
	errs := validate.Run(validate.Required("name", name))
	if !errs.Any() {
		taken, err := h.teamRepo.NameTaken(c.Request().Context(), name, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("name", "has already been taken")
		}
	}
	return errs, nil
}

func (h *TeamHandlers) ListTeams(c echo.Context) error {
	limit, offset := pagination(c)
	teams, err := h.teamRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list teams")
	}
	return render.Collection(c, http.StatusOK, "teams", teams)
}

func (h *TeamHandlers) CreateTeam(c echo.Context) error {
	var req TeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	verrs, err := h.validateTeam(c, req.Name, uuid.Nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create team")
	}
	if verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}

	team := &models.Team{ID: uuid.New(), Name: req.Name}
	if err := h.teamRepo.Create(c.Request().Context(), team); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			verrs.Add("name", "has already been taken")
			return render.InvalidRecord(c, verrs)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create team")
	}
	return render.Created(c, "teams", team)
}

func (h *TeamHandlers) GetTeam(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Team")
	}
	team, err := h.teamRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Team")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get team")
	}
	return render.Object(c, http.StatusOK, "teams", team)
}

func (h *TeamHandlers) UpdateTeam(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Team")
	}
	team, err := h.teamRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Team")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update team")
	}

	var req TeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	verrs, err := h.validateTeam(c, req.Name, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update team")
	}
	if verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}

	team.Name = req.Name
	if err := h.teamRepo.Update(c.Request().Context(), team); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Team")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update team")
	}
	return render.Object(c, http.StatusOK, "teams", team)
}

func (h *TeamHandlers) DeleteTeam(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Team")
	}
	team, err := h.teamRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Team")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete team")
	}
	if err := h.teamRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Team")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete team")
	}
	// Best effort; the row is already gone.
	if team.CrestObject != nil {
		_ = h.crestSvc.Delete(c.Request().Context(), *team.CrestObject)
	}
	return render.NoContent(c)
}

// UploadCrest stores a team badge image in object storage.
func (h *TeamHandlers) UploadCrest(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Team")
	}
	team, err := h.teamRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Team")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load team")
	}

	file, err := c.FormFile("crest")
	if err != nil {
		verrs := validate.Errors{}
		verrs.Add("crest", "can't be blank")
		return render.InvalidRecord(c, verrs)
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read upload")
	}
	defer src.Close()

	objectName := fmt.Sprintf("crests/%s", team.ID)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.crestSvc.Upload(c.Request().Context(), objectName, src, file.Size, contentType); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store crest")
	}

	team.CrestObject = &objectName
	if err := h.teamRepo.Update(c.Request().Context(), team); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update team")
	}
	return render.Object(c, http.StatusOK, "teams", team)
}

// GetCrest returns a short-lived presigned URL for the team badge.
func (h *TeamHandlers) GetCrest(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Team")
	}
	team, err := h.teamRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Team")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load team")
	}
	if team.CrestObject == nil {
		return render.NotFound(c, "Crest")
	}

	url, err := h.crestSvc.PresignedURL(c.Request().Context(), *team.CrestObject, crestURLExpiry)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign crest URL")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
