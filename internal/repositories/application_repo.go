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

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	GetByUID(ctx context.Context, uid string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Application, error)
}

type applicationRepo struct {
	db Database
}

func NewApplicationRepo(db Database) ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id, name, uid, secret_hash, redirect_uri, scopes, confidential, created_at, updated_at`

func scanApplication(row pgx.Row) (*models.Application, error) {
	app := &models.Application{}
	err := row.Scan(&app.ID, &app.Name, &app.UID, &app.SecretHash, &app.RedirectURI,
		&app.Scopes, &app.Confidential, &app.CreatedAt, &app.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepo) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO oauth_applications (id, name, uid, secret_hash, redirect_uri, scopes, confidential, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, app.ID, app.Name, app.UID, app.SecretHash, app.RedirectURI, app.Scopes, app.Confidential)
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyExists
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM oauth_applications WHERE id = $1`, applicationColumns)
	return scanApplication(r.db.QueryRow(ctx, query, id))
}

func (r *applicationRepo) GetByUID(ctx context.Context, uid string) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM oauth_applications WHERE uid = $1`, applicationColumns)
	return scanApplication(r.db.QueryRow(ctx, query, uid))
}

func (r *applicationRepo) Update(ctx context.Context, app *models.Application) error {
	query := `
		UPDATE oauth_applications
		SET name = $1, redirect_uri = $2, scopes = $3, confidential = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, app.Name, app.RedirectURI, app.Scopes, app.Confidential, app.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM oauth_applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) List(ctx context.Context, limit, offset int) ([]*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM oauth_applications ORDER BY created_at DESC`, applicationColumns)
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

	var apps []*models.Application
	for rows.Next() {
		app := &models.Application{}
		if err := rows.Scan(&app.ID, &app.Name, &app.UID, &app.SecretHash, &app.RedirectURI,
			&app.Scopes, &app.Confidential, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
