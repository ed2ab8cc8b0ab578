package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
)

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Card, error)
}

type cardRepo struct {
	db Database
}

func NewCardRepo(db Database) CardRepository {
	return &cardRepo{db: db}
}

const cardColumns = `id, match_id, player_id, color, minute, created_at, updated_at`

func (r *cardRepo) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (id, match_id, player_id, color, minute, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, card.ID, card.MatchID, card.PlayerID, card.Color, card.Minute)
	return err
}

func (r *cardRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	card := &models.Card{}
	query := fmt.Sprintf(`SELECT %s FROM cards WHERE id = $1`, cardColumns)
	err := r.db.QueryRow(ctx, query, id).Scan(&card.ID, &card.MatchID, &card.PlayerID, &card.Color,
		&card.Minute, &card.CreatedAt, &card.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (r *cardRepo) Update(ctx context.Context, card *models.Card) error {
	query := `
		UPDATE cards SET match_id = $1, player_id = $2, color = $3, minute = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, card.MatchID, card.PlayerID, card.Color, card.Minute, card.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *cardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *cardRepo) List(ctx context.Context, limit, offset int) ([]*models.Card, error) {
	query := fmt.Sprintf(`SELECT %s FROM cards ORDER BY created_at DESC`, cardColumns)
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(&card.ID, &card.MatchID, &card.PlayerID, &card.Color, &card.Minute,
			&card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}
