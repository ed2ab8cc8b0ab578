package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
)

type GrantRepository interface {
	Create(ctx context.Context, grant *models.AccessGrant) error
	GetByCodeHash(ctx context.Context, hash string) (*models.AccessGrant, error)
	Revoke(ctx context.Context, hash string, at time.Time) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

type grantRepo struct {
	db Database
}

func NewGrantRepo(db Database) GrantRepository {
	return &grantRepo{db: db}
}

const grantColumns = `id, code_hash, application_id, resource_owner_id, redirect_uri, scopes, expires_at, revoked_at, created_at`

func (r *grantRepo) Create(ctx context.Context, grant *models.AccessGrant) error {
	query := `
		INSERT INTO oauth_access_grants (id, code_hash, application_id, resource_owner_id, redirect_uri, scopes, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, grant.ID, grant.CodeHash, grant.ApplicationID,
		grant.ResourceOwnerID, grant.RedirectURI, grant.Scopes, grant.ExpiresAt)
	if isUniqueViolation(err) {
		return apperr.ErrAlreadyExists
	}
	return err
}

func (r *grantRepo) GetByCodeHash(ctx context.Context, hash string) (*models.AccessGrant, error) {
	grant := &models.AccessGrant{}
	query := fmt.Sprintf(`SELECT %s FROM oauth_access_grants WHERE code_hash = $1`, grantColumns)
	err := r.db.QueryRow(ctx, query, hash).Scan(&grant.ID, &grant.CodeHash, &grant.ApplicationID,
		&grant.ResourceOwnerID, &grant.RedirectURI, &grant.Scopes, &grant.ExpiresAt, &grant.RevokedAt, &grant.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// Revoke marks a grant used so a code can only be exchanged once.
func (r *grantRepo) Revoke(ctx context.Context, hash string, at time.Time) error {
	query := `UPDATE oauth_access_grants SET revoked_at = $1 WHERE code_hash = $2 AND revoked_at IS NULL`
	_, err := r.db.Exec(ctx, query, at, hash)
	return err
}

func (r *grantRepo) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM oauth_access_grants WHERE expires_at < $1 OR revoked_at < $1`
	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
