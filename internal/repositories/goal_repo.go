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

type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Goal, error)
}

type goalRepo struct {
	db Database
}

func NewGoalRepo(db Database) GoalRepository {
	return &goalRepo{db: db}
}

const goalColumns = `id, match_id, team_id, scorer_id, minute, created_at, updated_at`

func (r *goalRepo) Create(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO goals (id, match_id, team_id, scorer_id, minute, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, goal.ID, goal.MatchID, goal.TeamID, goal.ScorerID, goal.Minute)
	return err
}

func (r *goalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	goal := &models.Goal{}
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE id = $1`, goalColumns)
	err := r.db.QueryRow(ctx, query, id).Scan(&goal.ID, &goal.MatchID, &goal.TeamID, &goal.ScorerID,
		&goal.Minute, &goal.CreatedAt, &goal.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepo) Update(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals SET match_id = $1, team_id = $2, scorer_id = $3, minute = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, goal.MatchID, goal.TeamID, goal.ScorerID, goal.Minute, goal.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *goalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *goalRepo) List(ctx context.Context, limit, offset int) ([]*models.Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals ORDER BY created_at DESC`, goalColumns)
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

	var goals []*models.Goal
	for rows.Next() {
		goal := &models.Goal{}
		if err := rows.Scan(&goal.ID, &goal.MatchID, &goal.TeamID, &goal.ScorerID, &goal.Minute,
			&goal.CreatedAt, &goal.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}
