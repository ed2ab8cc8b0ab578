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

type CardHandlers struct {
	cardRepo repositories.CardRepository
}

func NewCardHandlers(cardRepo repositories.CardRepository) *CardHandlers {
	return &CardHandlers{cardRepo: cardRepo}
}

type CardRequest struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
	Color    string `json:"color"`
	Minute   int    `json:"minute"`
}

func bindCard(req CardRequest, card *models.Card) validate.Errors {
	errs := validate.Run(
		validate.Required("match_id", req.MatchID),
		validate.Required("player_id", req.PlayerID),
		validate.Required("color", req.Color),
		validate.OneOf("color", req.Color, models.CardYellow, models.CardRed),
	)

	matchID, matchErr := uuid.Parse(req.MatchID)
	if req.MatchID != "" && matchErr != nil {
		errs.Add("match_id", "is invalid")
	}
	playerID, playerErr := uuid.Parse(req.PlayerID)
	if req.PlayerID != "" && playerErr != nil {
		errs.Add("player_id", "is invalid")
	}
	if req.Minute < 0 || req.Minute > 120 {
		errs.Add("minute", "must be between 0 and 120")
	}

	if errs.Any() {
		return errs
	}
	card.MatchID = matchID
	card.PlayerID = playerID
	card.Color = req.Color
	card.Minute = req.Minute
	return errs
}

func (h *CardHandlers) ListCards(c echo.Context) error {
	limit, offset := pagination(c)
	cards, err := h.cardRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list cards")
	}
	return render.Collection(c, http.StatusOK, "cards", cards)
}

func (h *CardHandlers) CreateCard(c echo.Context) error {
	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	card := &models.Card{ID: uuid.New()}
	if verrs := bindCard(req, card); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}
	if err := h.cardRepo.Create(c.Request().Context(), card); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create card")
	}
	return render.Created(c, "cards", card)
}

func (h *CardHandlers) GetCard(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Card")
	}
	card, err := h.cardRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Card")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get card")
	}
	return render.Object(c, http.StatusOK, "cards", card)
}

func (h *CardHandlers) UpdateCard(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Card")
	}
	card, err := h.cardRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Card")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update card")
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if verrs := bindCard(req, card); verrs.Any() {
		return render.InvalidRecord(c, verrs)
	}
	if err := h.cardRepo.Update(c.Request().Context(), card); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Card")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update card")
	}
	return render.Object(c, http.StatusOK, "cards", card)
}

func (h *CardHandlers) DeleteCard(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return render.NotFound(c, "Card")
	}
	if err := h.cardRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return render.NotFound(c, "Card")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete card")
	}
	return render.NoContent(c)
}
