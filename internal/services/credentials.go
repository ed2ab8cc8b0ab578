package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"leagueapi/internal/models"
	"leagueapi/internal/repositories"
)

// CredentialVerifier checks a plaintext password against the stored bcrypt
// hash for a principal. It is read-only: it never issues tokens or mutates
// the user. The password grant of the token authority calls into it.
type CredentialVerifier interface {
	// Verify returns the matching user, or (nil, false) when the email is
	// unknown or the password is wrong. Lookup failures fail closed.
	Verify(ctx context.Context, email, password string) (*models.User, bool)
}

type credentialVerifier struct {
	users repositories.UserRepository
}

func NewCredentialVerifier(users repositories.UserRepository) CredentialVerifier {
	return &credentialVerifier{users: users}
}

func (v *credentialVerifier) Verify(ctx context.Context, email, password string) (*models.User, bool) {
	// Empty secrets are rejected outright, before any hashing.
	if email == "" || password == "" {
		return nil, false
	}

	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, false
	}
	if user.PasswordHash == "" {
		return nil, false
	}

	// bcrypt compare is constant-time and salted per record.
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, false
	}
	return user, true
}
