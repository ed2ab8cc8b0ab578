package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leagueapi/internal/apperr"
	"leagueapi/internal/common"
	"leagueapi/internal/models"
	"leagueapi/internal/services"
)

type MockTokenAuthority struct {
	mock.Mock
}

func (m *MockTokenAuthority) PasswordGrant(ctx context.Context, email, password, clientUID, clientSecret, scope string) (*models.TokenResponse, error) {
	args := m.Called(ctx, email, password, clientUID, clientSecret, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockTokenAuthority) ClientCredentialsGrant(ctx context.Context, clientUID, clientSecret, scope string) (*models.TokenResponse, error) {
	args := m.Called(ctx, clientUID, clientSecret, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockTokenAuthority) AuthorizationCodeGrant(ctx context.Context, code, clientUID, clientSecret, redirectURI string) (*models.TokenResponse, error) {
	args := m.Called(ctx, code, clientUID, clientSecret, redirectURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockTokenAuthority) RefreshGrant(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockTokenAuthority) Authorize(ctx context.Context, ownerID uuid.UUID, clientUID, redirectURI, scope string) (string, error) {
	args := m.Called(ctx, ownerID, clientUID, redirectURI, scope)
	return args.String(0), args.Error(1)
}

func (m *MockTokenAuthority) Revoke(ctx context.Context, token, typeHint string) error {
	args := m.Called(ctx, token, typeHint)
	return args.Error(0)
}

func (m *MockTokenAuthority) Introspect(ctx context.Context, token string) *models.Introspection {
	args := m.Called(ctx, token)
	return args.Get(0).(*models.Introspection)
}

func (m *MockTokenAuthority) Resolve(ctx context.Context, bearer string) (*services.TokenInfo, error) {
	args := m.Called(ctx, bearer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenInfo), args.Error(1)
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return rec, handler(c)
}

func TestBearerAuth_ValidToken(t *testing.T) {
	authority := &MockTokenAuthority{}
	ownerID := uuid.New()
	authority.On("Resolve", mock.Anything, "good-token").Return(&services.TokenInfo{
		OwnerID:   ownerID,
		Scopes:    "read write",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()

	var gotOwner uuid.UUID
	var gotScopes string

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := BearerAuth(authority)(func(c echo.Context) error {
		gotOwner, _ = common.GetUserIDFromContext(c.Request().Context())
		gotScopes, _ = common.GetScopesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, ownerID, gotOwner)
	assert.Equal(t, "read write", gotScopes)
	authority.AssertExpectations(t)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	authority := &MockTokenAuthority{}

	_, err := invoke(t, BearerAuth(authority), "")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestBearerAuth_NotBearer(t *testing.T) {
	authority := &MockTokenAuthority{}

	_, err := invoke(t, BearerAuth(authority), "Basic dXNlcjpwYXNz")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestBearerAuth_RejectedToken(t *testing.T) {
	authority := &MockTokenAuthority{}
	authority.On("Resolve", mock.Anything, "revoked").Return(nil, apperr.ErrUnauthorized).Once()

	_, err := invoke(t, BearerAuth(authority), "Bearer revoked")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
