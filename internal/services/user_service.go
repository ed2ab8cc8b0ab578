package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"leagueapi/internal/apperr"
	"leagueapi/internal/models"
	"leagueapi/internal/repositories"
	"leagueapi/internal/validate"
)

const passwordMinLen = 8

// UserParams carry user registration input.
type UserParams struct {
	Email                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
}

// UserUpdateParams carry user update input. Nil fields are left untouched;
// updating unrelated fields does not re-trigger the password requirement.
type UserUpdateParams struct {
	Email                *string
	Password             *string
	PasswordConfirmation *string
	FirstName            *string
	LastName             *string
}

// UserService runs the validation pipeline and password hashing in front of
// the user repository.
type UserService interface {
	Create(ctx context.Context, params UserParams) (*models.User, validate.Errors, error)
	Update(ctx context.Context, id uuid.UUID, params UserUpdateParams) (*models.User, validate.Errors, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
}

type userService struct {
	users  repositories.UserRepository
	tokens repositories.TokenRepository
}

func NewUserService(users repositories.UserRepository, tokens repositories.TokenRepository) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) Create(ctx context.Context, params UserParams) (*models.User, validate.Errors, error) {
	errs := validate.Run(
		validate.Required("email", params.Email),
		validate.Email("email", params.Email),
		validate.Required("first_name", params.FirstName),
		validate.Required("last_name", params.LastName),
		validate.Required("password", params.Password),
		validate.MinLen("password", params.Password, passwordMinLen),
		validate.Confirmed("password", params.Password, params.PasswordConfirmation),
	)
	if !errs.Any() {
		taken, err := s.users.EmailTaken(ctx, params.Email, uuid.Nil)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			errs.Add("email", "has already been taken")
		}
	}
	if errs.Any() {
		return nil, errs, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: string(hash),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Concurrent registration can still trip the unique index.
		if errors.Is(err, apperr.ErrAlreadyExists) {
			errs.Add("email", "has already been taken")
			return nil, errs, nil
		}
		return nil, nil, err
	}
	return user, nil, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, params UserUpdateParams) (*models.User, validate.Errors, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}

	rules := []validate.Rule{
		validate.Required("email", user.Email),
		validate.Email("email", user.Email),
		validate.Required("first_name", user.FirstName),
		validate.Required("last_name", user.LastName),
	}
	// Password rules only apply when a new password was supplied.
	if params.Password != nil {
		confirmation := ""
		if params.PasswordConfirmation != nil {
			confirmation = *params.PasswordConfirmation
		}
		rules = append(rules,
			validate.Required("password", *params.Password),
			validate.MinLen("password", *params.Password, passwordMinLen),
			validate.Confirmed("password", *params.Password, confirmation),
		)
	}
	errs := validate.Run(rules...)
	if !errs.Any() && params.Email != nil {
		taken, err := s.users.EmailTaken(ctx, user.Email, user.ID)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			errs.Add("email", "has already been taken")
		}
	}
	if errs.Any() {
		return nil, errs, nil
	}

	if params.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			errs.Add("email", "has already been taken")
			return nil, errs, nil
		}
		return nil, nil, err
	}

	// A password change kills every session issued under the old password.
	if params.Password != nil {
		if err := s.tokens.RevokeAllForOwner(ctx, user.ID, time.Now()); err != nil {
			return nil, nil, err
		}
	}
	return user, nil, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.List(ctx, limit, offset)
}
