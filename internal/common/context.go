package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// UserIDKey holds the resource-owner id resolved from the bearer token.
	UserIDKey contextKey = "user_id"
	// ScopesKey holds the space-delimited scope string of the bearer token.
	ScopesKey contextKey = "scopes"
)

// WithTokenInfo stores the resolved token identity on the request context.
func WithTokenInfo(ctx context.Context, userID uuid.UUID, scopes string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, ScopesKey, scopes)
}

// GetUserIDFromContext extracts the resource-owner id from the request context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

// GetScopesFromContext extracts the token scope string from the request context.
func GetScopesFromContext(ctx context.Context) (string, bool) {
	scopes, ok := ctx.Value(ScopesKey).(string)
	return scopes, ok
}
