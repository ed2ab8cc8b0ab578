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

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Match, error)
}

type matchRepo struct {
	db Database
}

func NewMatchRepo(db Database) MatchRepository {
	return &matchRepo{db: db}
}

const matchColumns = `id, home_team_id, away_team_id, played_on, created_at, updated_at`

func scanMatch(row pgx.Row) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(&match.ID, &match.HomeTeamID, &match.AwayTeamID, &match.PlayedOn, &match.CreatedAt, &match.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *matchRepo) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, home_team_id, away_team_id, played_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, match.ID, match.HomeTeamID, match.AwayTeamID, match.PlayedOn)
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyExists
	}
	return err
}

func (r *matchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE id = $1`, matchColumns)
	return scanMatch(r.db.QueryRow(ctx, query, id))
}

func (r *matchRepo) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET home_team_id = $1, away_team_id = $2, played_on = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, match.HomeTeamID, match.AwayTeamID, match.PlayedOn, match.ID)
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *matchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *matchRepo) List(ctx context.Context, limit, offset int) ([]*models.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches ORDER BY played_on DESC`, matchColumns)
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

	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		if err := rows.Scan(&match.ID, &match.HomeTeamID, &match.AwayTeamID, &match.PlayedOn,
			&match.CreatedAt, &match.UpdatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}
