package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Application is a registered OAuth client. Confidential clients must
// authenticate with their secret; public clients present only the uid.
type Application struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	UID          string    `json:"uid" db:"uid"`
	Secret       string    `json:"secret,omitempty" db:"-"` // Plaintext, returned once on create
	SecretHash   string    `json:"-" db:"secret_hash"`
	RedirectURI  string    `json:"redirect_uri" db:"redirect_uri"`
	Scopes       string    `json:"scopes" db:"scopes"` // space-delimited
	Confidential bool      `json:"confidential" db:"confidential"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AccessToken is the stored record behind an issued bearer token. The token
// id doubles as the JWT jti. A token is valid iff revoked_at is null and
// expires_at is in the future.
type AccessToken struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ApplicationID    *uuid.UUID `json:"application_id" db:"application_id"`
	ResourceOwnerID  *uuid.UUID `json:"resource_owner_id" db:"resource_owner_id"`
	Scopes           string     `json:"scopes" db:"scopes"`
	RefreshTokenHash *string    `json:"-" db:"refresh_token_hash"`
	ExpiresAt        time.Time  `json:"expires_at" db:"expires_at"`
	RevokedAt        *time.Time `json:"revoked_at" db:"revoked_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// Valid reports whether the token may still be presented.
func (t *AccessToken) Valid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// AccessGrant is an authorization-code grant awaiting exchange.
type AccessGrant struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	CodeHash        string     `json:"-" db:"code_hash"`
	ApplicationID   uuid.UUID  `json:"application_id" db:"application_id"`
	ResourceOwnerID uuid.UUID  `json:"resource_owner_id" db:"resource_owner_id"`
	RedirectURI     string     `json:"redirect_uri" db:"redirect_uri"`
	Scopes          string     `json:"scopes" db:"scopes"`
	ExpiresAt       time.Time  `json:"expires_at" db:"expires_at"`
	RevokedAt       *time.Time `json:"revoked_at" db:"revoked_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// TokenResponse is the token endpoint payload (RFC 6749 §5.1).
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

// Introspection is the introspection endpoint payload (RFC 7662 §2.2).
type Introspection struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Subject   string `json:"sub,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// SplitScopes breaks a space-delimited scope string into its tokens.
func SplitScopes(s string) []string {
	return strings.Fields(s)
}

// HasScope reports whether the space-delimited scope string contains scope.
func HasScope(scopes, scope string) bool {
	for _, s := range SplitScopes(scopes) {
		if s == scope {
			return true
		}
	}
	return false
}
