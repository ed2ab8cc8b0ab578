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

type AssistRepository interface {
	Create(ctx context.Context, assist *models.Assist) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assist, error)
	Update(ctx context.Context, assist *models.Assist) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Assist, error)
}

type assistRepo struct {
	db Database
}

func NewAssistRepo(db Database) AssistRepository {
	return &assistRepo{db: db}
}

const assistColumns = `id, goal_id, assistant_id, created_at, updated_at`

func (r *assistRepo) Create(ctx context.Context, assist *models.Assist) error {
	query := `
		INSERT INTO assists (id, goal_id, assistant_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, assist.ID, assist.GoalID, assist.AssistantID)
	return err
}

func (r *assistRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Assist, error) {
	assist := &models.Assist{}
	query := fmt.Sprintf(`SELECT %s FROM assists WHERE id = $1`, assistColumns)
	err := r.db.QueryRow(ctx, query, id).Scan(&assist.ID, &assist.GoalID, &assist.AssistantID,
		&assist.CreatedAt, &assist.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return assist, nil
}

func (r *assistRepo) Update(ctx context.Context, assist *models.Assist) error {
	query := `UPDATE assists SET goal_id = $1, assistant_id = $2, updated_at = NOW() WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, assist.GoalID, assist.AssistantID, assist.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *assistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *assistRepo) List(ctx context.Context, limit, offset int) ([]*models.Assist, error) {
	query := fmt.Sprintf(`SELECT %s FROM assists ORDER BY created_at DESC`, assistColumns)
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

	var assists []*models.Assist
	for rows.Next() {
		assist := &models.Assist{}
		if err := rows.Scan(&assist.ID, &assist.GoalID, &assist.AssistantID, &assist.CreatedAt, &assist.UpdatedAt); err != nil {
			return nil, err
		}
		assists = append(assists, assist)
	}
	return assists, rows.Err()
}
