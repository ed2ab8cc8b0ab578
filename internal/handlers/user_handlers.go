package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"leagueapi/internal/apperr"
	"leagueapi/internal/render"
	"leagueapi/internal/services"
)

// UserHandlers handles user-related HTTP requests.
type UserHandlers struct {
	userSvc services.UserService
}

func NewUserHandlers(userSvc services.UserService) *UserHandlers {
	return &UserHandlers{userSvc: userSvc}
}

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
}

// UpdateUserRequest carries partial updates; absent fields stay untouched.
type UpdateUserRequest struct {
	Email                *string `json:"email"`
	Password             *string `json:"password"`
	PasswordConfirmation *string `json:"password_confirmation"`
	FirstName            *string `json:"first_name"`
	LastName             *string `json:"last_name"`
}

func (h *UserHandlers) ListUsers(c echo.Context) error {
	limit, offset := pagination(c)
	users, err := h.userSvc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list users")
	}
	return render.Collection(c, http.StatusOK, "users", users)
}

// CreateUser registers a new principal. Deliberately unauthenticated.
func (h *UserHandlers) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, verrs, err := h.userSvc.Create(c.Request().Context(), services.UserParams{
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}
	if verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}
	return render.Created(c, "users", user)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "User")
	}
	user, err := h.userSvc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "User")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get user")
	}
	return render.Object(c, http.StatusOK, "users", user)
}

func (h *UserHandlers) UpdateUser(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "User")
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, verrs, err := h.userSvc.Update(c.Request().Context(), id, services.UserUpdateParams{
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "User")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}
	if verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}
	return render.Object(c, http.StatusOK, "users", user)
}

func (h *UserHandlers) DeleteUser(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "User")
	}
	if err := h.userSvc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "User")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}
	return render.NoContent(c)
}
