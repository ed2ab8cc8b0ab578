package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"leagueapi/internal/apperr"
	"leagueapi/internal/caching"
	"leagueapi/internal/models"
	"leagueapi/internal/repositories"
)

const (
	tokenIssuer  = "leagueapi"
	defaultScope = "read write"
	grantCodeTTL = 10 * time.Minute
)

// TokenInfo is the result of resolving a bearer token: the resource-owner
// identity, the granted scope set and the expiry.
type TokenInfo struct {
	OwnerID   uuid.UUID // uuid.Nil for client_credentials tokens
	Scopes    string
	ExpiresAt time.Time
}

// TokenAuthority issues, refreshes, revokes, introspects and resolves bearer
// tokens. Access tokens are HS256 JWTs whose jti is the stored token row id;
// refresh tokens and grant codes are opaque and stored as SHA-256 hashes.
type TokenAuthority interface {
	PasswordGrant(ctx context.Context, email, password, clientUID, clientSecret, scope string) (*models.TokenResponse, error)
	ClientCredentialsGrant(ctx context.Context, clientUID, clientSecret, scope string) (*models.TokenResponse, error)
	AuthorizationCodeGrant(ctx context.Context, code, clientUID, clientSecret, redirectURI string) (*models.TokenResponse, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*models.TokenResponse, error)

	// Authorize issues an authorization code binding a signed-in resource
	// owner to a client application.
	Authorize(ctx context.Context, ownerID uuid.UUID, clientUID, redirectURI, scope string) (string, error)

	Revoke(ctx context.Context, token, typeHint string) error
	Introspect(ctx context.Context, token string) *models.Introspection

	// Resolve validates a presented bearer token: signature, expiry,
	// blacklist, and the stored row's revocation state.
	Resolve(ctx context.Context, bearer string) (*TokenInfo, error)
}

type tokenAuthority struct {
	tokens   repositories.TokenRepository
	grants   repositories.GrantRepository
	apps     repositories.ApplicationRepository
	verifier CredentialVerifier
	cache    caching.TokenCache
	logger   *zap.Logger

	signingKey []byte
	tokenTTL   time.Duration
}

func NewTokenAuthority(
	tokens repositories.TokenRepository,
	grants repositories.GrantRepository,
	apps repositories.ApplicationRepository,
	verifier CredentialVerifier,
	cache caching.TokenCache,
	logger *zap.Logger,
	signingKey string,
	tokenTTL time.Duration,
) TokenAuthority {
	return &tokenAuthority{
		tokens:     tokens,
		grants:     grants,
		apps:       apps,
		verifier:   verifier,
		cache:      cache,
		logger:     logger,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

type accessTokenClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// --- grants ---

func (a *tokenAuthority) PasswordGrant(ctx context.Context, email, password, clientUID, clientSecret, scope string) (*models.TokenResponse, error) {
	user, ok := a.verifier.Verify(ctx, email, password)
	if !ok {
		return nil, apperr.ErrInvalidGrant
	}

	// Without a client the full scope vocabulary is reachable; admin is
	// gated below on the principal's admin flag.
	var appID *uuid.UUID
	allowed := "read write admin"
	if clientUID != "" {
		app, err := a.authenticateClient(ctx, clientUID, clientSecret)
		if err != nil {
			return nil, err
		}
		appID = &app.ID
		allowed = app.Scopes
	}

	scopes, err := resolveScopes(scope, allowed)
	if err != nil {
		return nil, err
	}
	// The admin scope is only grantable to admin principals.
	if models.HasScope(scopes, "admin") && !user.Admin {
		return nil, apperr.ErrInvalidGrant
	}

	ownerID := user.ID
	return a.issue(ctx, appID, &ownerID, scopes, true)
}

func (a *tokenAuthority) ClientCredentialsGrant(ctx context.Context, clientUID, clientSecret, scope string) (*models.TokenResponse, error) {
	app, err := a.authenticateClient(ctx, clientUID, clientSecret)
	if err != nil {
		return nil, err
	}
	// Client credentials require a confidential client.
	if !app.Confidential {
		return nil, apperr.ErrInvalidClient
	}

	scopes, err := resolveScopes(scope, app.Scopes)
	if err != nil {
		return nil, err
	}
	// No resource owner and no refresh token for app-only tokens.
	return a.issue(ctx, &app.ID, nil, scopes, false)
}

func (a *tokenAuthority) Authorize(ctx context.Context, ownerID uuid.UUID, clientUID, redirectURI, scope string) (string, error) {
	app, err := a.apps.GetByUID(ctx, clientUID)
	if err != nil {
		return "", apperr.ErrInvalidClient
	}
	if redirectURI != app.RedirectURI {
		return "", apperr.ErrInvalidGrant
	}
	scopes, err := resolveScopes(scope, app.Scopes)
	if err != nil {
		return "", err
	}

	code := randomToken()
	grant := &models.AccessGrant{
		ID:              uuid.New(),
		CodeHash:        hashToken(code),
		ApplicationID:   app.ID,
		ResourceOwnerID: ownerID,
		RedirectURI:     redirectURI,
		Scopes:          scopes,
		ExpiresAt:       time.Now().Add(grantCodeTTL),
	}
	if err := a.grants.Create(ctx, grant); err != nil {
		return "", err
	}
	a.cacheGrant(ctx, grant)
	a.logger.Info("authorization code issued",
		zap.String("client_uid", clientUID),
		zap.String("owner_id", ownerID.String()))
	return code, nil
}

func (a *tokenAuthority) AuthorizationCodeGrant(ctx context.Context, code, clientUID, clientSecret, redirectURI string) (*models.TokenResponse, error) {
	app, err := a.authenticateClient(ctx, clientUID, clientSecret)
	if err != nil {
		return nil, err
	}

	grant, err := a.lookupGrant(ctx, hashToken(code))
	if err != nil {
		return nil, apperr.ErrInvalidGrant
	}
	now := time.Now()
	if grant.RevokedAt != nil || now.After(grant.ExpiresAt) {
		return nil, apperr.ErrInvalidGrant
	}
	if grant.ApplicationID != app.ID || grant.RedirectURI != redirectURI {
		return nil, apperr.ErrInvalidGrant
	}

	// Single use: burn the code before issuing.
	if err := a.grants.Revoke(ctx, grant.CodeHash, now); err != nil {
		return nil, err
	}
	if err := a.cache.Delete(ctx, grantKey(grant.CodeHash)); err != nil {
		a.logger.Warn("drop cached grant", zap.Error(err))
	}
	ownerID := grant.ResourceOwnerID
	return a.issue(ctx, &grant.ApplicationID, &ownerID, grant.Scopes, true)
}

func (a *tokenAuthority) RefreshGrant(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	if refreshToken == "" {
		return nil, apperr.ErrInvalidGrant
	}
	old, err := a.tokens.GetByRefreshTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, apperr.ErrInvalidGrant
	}
	if old.RevokedAt != nil {
		return nil, apperr.ErrInvalidGrant
	}

	// Rotation: the old pair dies with the exchange.
	now := time.Now()
	if err := a.tokens.Revoke(ctx, old.ID, now); err != nil {
		return nil, err
	}
	a.blacklist(ctx, old)

	return a.issue(ctx, old.ApplicationID, old.ResourceOwnerID, old.Scopes, true)
}

// --- revocation / introspection / resolution ---

// Revoke implements RFC 7009. The type hint only orders the search; a miss
// on the hinted type extends it to the other one. Unknown tokens revoke
// successfully.
func (a *tokenAuthority) Revoke(ctx context.Context, token, typeHint string) error {
	if typeHint == "access_token" {
		if found, err := a.revokeAccess(ctx, token); found {
			return err
		}
		_, err := a.revokeRefresh(ctx, token)
		return err
	}

	// Refresh tokens are opaque; try the hash lookup first.
	if found, err := a.revokeRefresh(ctx, token); found {
		return err
	}
	_, err := a.revokeAccess(ctx, token)
	return err
}

func (a *tokenAuthority) revokeRefresh(ctx context.Context, token string) (bool, error) {
	row, err := a.tokens.GetByRefreshTokenHash(ctx, hashToken(token))
	if err != nil {
		return false, nil
	}
	return true, a.revokeRow(ctx, row)
}

func (a *tokenAuthority) revokeAccess(ctx context.Context, token string) (bool, error) {
	claims, err := a.parse(token)
	if err != nil {
		return false, nil
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return false, nil
	}
	row, err := a.tokens.GetByID(ctx, id)
	if err != nil {
		return false, nil
	}
	return true, a.revokeRow(ctx, row)
}

func (a *tokenAuthority) revokeRow(ctx context.Context, row *models.AccessToken) error {
	if err := a.tokens.Revoke(ctx, row.ID, time.Now()); err != nil {
		return err
	}
	a.blacklist(ctx, row)
	a.logger.Info("token revoked", zap.String("token_id", row.ID.String()))
	return nil
}

func (a *tokenAuthority) Introspect(ctx context.Context, token string) *models.Introspection {
	info, err := a.Resolve(ctx, token)
	if err != nil {
		// Opaque refresh tokens introspect through the hash lookup.
		row, rerr := a.tokens.GetByRefreshTokenHash(ctx, hashToken(token))
		if rerr != nil || !row.Valid(time.Now()) {
			return &models.Introspection{Active: false}
		}
		resp := &models.Introspection{
			Active:    true,
			Scope:     row.Scopes,
			ExpiresAt: row.ExpiresAt.Unix(),
			IssuedAt:  row.CreatedAt.Unix(),
		}
		if row.ResourceOwnerID != nil {
			resp.Subject = row.ResourceOwnerID.String()
		}
		return resp
	}
	resp := &models.Introspection{
		Active:    true,
		Scope:     info.Scopes,
		ExpiresAt: info.ExpiresAt.Unix(),
	}
	if info.OwnerID != uuid.Nil {
		resp.Subject = info.OwnerID.String()
	}
	return resp
}

func (a *tokenAuthority) Resolve(ctx context.Context, bearer string) (*TokenInfo, error) {
	claims, err := a.parse(bearer)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	// Fast reject for freshly revoked tokens.
	if revoked, err := a.cache.IsBlacklisted(ctx, tokenID.String()); err == nil && revoked {
		return nil, apperr.ErrUnauthorized
	}

	row, err := a.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	if !row.Valid(time.Now()) {
		return nil, apperr.ErrUnauthorized
	}

	info := &TokenInfo{Scopes: row.Scopes, ExpiresAt: row.ExpiresAt}
	if row.ResourceOwnerID != nil {
		info.OwnerID = *row.ResourceOwnerID
	}
	return info, nil
}

// --- helpers ---

func (a *tokenAuthority) issue(ctx context.Context, appID, ownerID *uuid.UUID, scopes string, withRefresh bool) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.New()

	row := &models.AccessToken{
		ID:              tokenID,
		ApplicationID:   appID,
		ResourceOwnerID: ownerID,
		Scopes:          scopes,
		ExpiresAt:       now.Add(a.tokenTTL),
		CreatedAt:       now,
	}

	var refreshToken string
	if withRefresh {
		refreshToken = randomToken()
		hash := hashToken(refreshToken)
		row.RefreshTokenHash = &hash
	}

	claims := accessTokenClaims{
		Scope: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ID:        tokenID.String(),
			ExpiresAt: jwt.NewNumericDate(row.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if ownerID != nil {
		claims.Subject = ownerID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	if err := a.tokens.Create(ctx, row); err != nil {
		return nil, err
	}
	a.logger.Debug("access token issued", zap.String("token_id", tokenID.String()))

	return &models.TokenResponse{
		AccessToken:  signed,
		TokenType:    "Bearer",
		ExpiresIn:    int(a.tokenTTL.Seconds()),
		RefreshToken: refreshToken,
		Scope:        scopes,
		CreatedAt:    now.Unix(),
	}, nil
}

func (a *tokenAuthority) parse(token string) (*accessTokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &accessTokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*accessTokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (a *tokenAuthority) authenticateClient(ctx context.Context, uid, secret string) (*models.Application, error) {
	app, err := a.apps.GetByUID(ctx, uid)
	if err != nil {
		return nil, apperr.ErrInvalidClient
	}
	if app.Confidential {
		if secret == "" || bcryptCompare(app.SecretHash, secret) != nil {
			return nil, apperr.ErrInvalidClient
		}
	}
	return app, nil
}

func grantKey(codeHash string) string {
	return "grant_code:" + codeHash
}

// cacheGrant writes the grant through to redis so the code exchange can skip
// the database on the hot path. The oauth_access_grants row stays authoritative.
func (a *tokenAuthority) cacheGrant(ctx context.Context, grant *models.AccessGrant) {
	payload, err := json.Marshal(grant)
	if err != nil {
		a.logger.Warn("cache grant", zap.Error(err))
		return
	}
	if err := a.cache.SetString(ctx, grantKey(grant.CodeHash), string(payload), grantCodeTTL); err != nil {
		a.logger.Warn("cache grant", zap.Error(err))
	}
}

func (a *tokenAuthority) lookupGrant(ctx context.Context, codeHash string) (*models.AccessGrant, error) {
	if payload, err := a.cache.GetString(ctx, grantKey(codeHash)); err == nil {
		grant := &models.AccessGrant{}
		if err := json.Unmarshal([]byte(payload), grant); err == nil {
			// The hash is the key, not part of the cached payload.
			grant.CodeHash = codeHash
			return grant, nil
		}
	}
	return a.grants.GetByCodeHash(ctx, codeHash)
}

func (a *tokenAuthority) blacklist(ctx context.Context, row *models.AccessToken) {
	ttl := time.Until(row.ExpiresAt)
	if err := a.cache.Blacklist(ctx, row.ID.String(), ttl); err != nil {
		// The database row stays authoritative; a cache failure only delays rejection.
		a.logger.Warn("blacklist token", zap.Error(err))
	}
}

// resolveScopes narrows the requested scope string to the allowed set,
// falling back to the default scope when nothing was requested.
func resolveScopes(requested, allowed string) (string, error) {
	if requested == "" {
		requested = defaultScope
	}
	for _, s := range models.SplitScopes(requested) {
		switch s {
		case "read", "write", "admin":
		default:
			return "", apperr.ErrInvalidGrant
		}
		if !models.HasScope(allowed, s) {
			return "", apperr.ErrInvalidGrant
		}
	}
	return requested, nil
}

func bcryptCompare(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}

func randomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
