package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
	"leagueapi/internal/render"
	"leagueapi/internal/repositories"
	"leagueapi/internal/validate"
)

// ApplicationHandlers manages OAuth client applications. Every operation,
// including create, sits behind the admin scope.
type ApplicationHandlers struct {
	appRepo repositories.ApplicationRepository
}

func NewApplicationHandlers(appRepo repositories.ApplicationRepository) *ApplicationHandlers {
	return &ApplicationHandlers{appRepo: appRepo}
}

type ApplicationRequest struct {
	Name         string `json:"name"`
	RedirectURI  string `json:"redirect_uri"`
	Scopes       string `json:"scopes"`
	Confidential *bool  `json:"confidential"`
}

func validateApplication(req ApplicationRequest) validate.Errors {
	errs := validate.Run(
		validate.Required("name", req.Name),
		validate.Required("redirect_uri", req.RedirectURI),
	)
	for _, s := range models.SplitScopes(req.Scopes) {
		if s != "read" && s != "write" && s != "admin" {
			errs.Add("scopes", "contains an unknown scope")
			break
		}
	}
	return errs
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func (h *ApplicationHandlers) ListApplications(c echo.Context) error {
	limit, offset := pagination(c)
	apps, err := h.appRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list applications")
	}
	return render.Collection(c, http.StatusOK, "oauth_applications", apps)
}

// CreateApplication registers a client. The generated plaintext secret is
// included in this response only; afterwards just its hash is kept.
func (h *ApplicationHandlers) CreateApplication(c echo.Context) error {
	var req ApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if verrs := validateApplication(req); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}

	secret := randomHex(32)
	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create application")
	}

	scopes := req.Scopes
	if scopes == "" {
		scopes = "read write"
	}
	confidential := true
	if req.Confidential != nil {
		confidential = *req.Confidential
	}

	app := &models.Application{
		ID:           uuid.New(),
		Name:         req.Name,
		UID:          randomHex(16),
		Secret:       secret,
		SecretHash:   string(secretHash),
		RedirectURI:  req.RedirectURI,
		Scopes:       scopes,
		Confidential: confidential,
	}
	if err := h.appRepo.Create(c.Request().Context(), app); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create application")
	}
	return render.Created(c, "oauth_applications", app)
}

func (h *ApplicationHandlers) GetApplication(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Application")
	}
	app, err := h.appRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Application")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get application")
	}
	return render.Object(c, http.StatusOK, "oauth_applications", app)
}

func (h *ApplicationHandlers) UpdateApplication(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Application")
	}
	app, err := h.appRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Application")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update application")
	}

	var req ApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if verrs := validateApplication(req); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}

	app.Name = req.Name
	app.RedirectURI = req.RedirectURI
	if req.Scopes != "" {
		app.Scopes = req.Scopes
	}
	if req.Confidential != nil {
		app.Confidential = *req.Confidential
	}
	if err := h.appRepo.Update(c.Request().Context(), app); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Application")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update application")
	}
	return render.Object(c, http.StatusOK, "oauth_applications", app)
}

func (h *ApplicationHandlers) DeleteApplication(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Application")
	}
	if err := h.appRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Application")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete application")
	}
	return render.NoContent(c)
}
