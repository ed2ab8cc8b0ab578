package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
)

type TokenRepository interface {
	Create(ctx context.Context, token *models.AccessToken) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AccessToken, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*models.AccessToken, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error
	RevokeAllForOwner(ctx context.Context, ownerID uuid.UUID, at time.Time) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

type tokenRepo struct {
	db Database
}

func NewTokenRepo(db Database) TokenRepository {
	return &tokenRepo{db: db}
}

const tokenColumns = `id, application_id, resource_owner_id, scopes, refresh_token_hash, expires_at, revoked_at, created_at`

func scanToken(row pgx.Row) (*models.AccessToken, error) {
	token := &models.AccessToken{}
	err := row.Scan(&token.ID, &token.ApplicationID, &token.ResourceOwnerID, &token.Scopes,
		&token.RefreshTokenHash, &token.ExpiresAt, &token.RevokedAt, &token.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (r *tokenRepo) Create(ctx context.Context, token *models.AccessToken) error {
	query := `
		INSERT INTO oauth_access_tokens (id, application_id, resource_owner_id, scopes, refresh_token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, token.ID, token.ApplicationID, token.ResourceOwnerID,
		token.Scopes, token.RefreshTokenHash, token.ExpiresAt)
	return err
}

func (r *tokenRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AccessToken, error) {
	query := fmt.Sprintf(`SELECT %s FROM oauth_access_tokens WHERE id = $1`, tokenColumns)
	return scanToken(r.db.QueryRow(ctx, query, id))
}

func (r *tokenRepo) GetByRefreshTokenHash(ctx context.Context, hash string) (*models.AccessToken, error) {
	query := fmt.Sprintf(`SELECT %s FROM oauth_access_tokens WHERE refresh_token_hash = $1`, tokenColumns)
	return scanToken(r.db.QueryRow(ctx, query, hash))
}

func (r *tokenRepo) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE oauth_access_tokens SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`
	_, err := r.db.Exec(ctx, query, at, id)
	return err
}

func (r *tokenRepo) RevokeAllForOwner(ctx context.Context, ownerID uuid.UUID, at time.Time) error {
	query := `UPDATE oauth_access_tokens SET revoked_at = $1 WHERE resource_owner_id = $2 AND revoked_at IS NULL`
	_, err := r.db.Exec(ctx, query, at, ownerID)
	return err
}

// DeleteStale removes tokens that expired or were revoked before the cutoff.
func (r *tokenRepo) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM oauth_access_tokens WHERE expires_at < $1 OR revoked_at < $1`
	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
