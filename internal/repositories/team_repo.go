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

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Team, error)
	NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
}

type teamRepo struct {
	db Database
}

func NewTeamRepo(db Database) TeamRepository {
	return &teamRepo{db: db}
}

const teamColumns = `id, name, crest_object, created_at, updated_at`

func (r *teamRepo) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, name, crest_object, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, team.ID, team.Name, team.CrestObject)
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyExists
	}
	return err
}

func (r *teamRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team := &models.Team{}
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, teamColumns)
	err := r.db.QueryRow(ctx, query, id).Scan(&team.ID, &team.Name, &team.CrestObject, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *teamRepo) Update(ctx context.Context, team *models.Team) error {
	query := `UPDATE teams SET name = $1, crest_object = $2, updated_at = NOW() WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, team.Name, team.CrestObject, team.ID)
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

func (r *teamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *teamRepo) List(ctx context.Context, limit, offset int) ([]*models.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams ORDER BY name ASC`, teamColumns)
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

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		if err := rows.Scan(&team.ID, &team.Name, &team.CrestObject, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *teamRepo) NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM teams WHERE lower(name) = lower($1) AND id <> $2`
	if err := r.db.QueryRow(ctx, query, name, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
