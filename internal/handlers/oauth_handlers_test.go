package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

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

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestToken_PasswordGrant(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	authority.On("PasswordGrant", mock.Anything, "alice@example.com", "topsecret1", "", "", "").
		Return(&models.TokenResponse{
			AccessToken: "signed.jwt.here",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
			Scope:       "read write",
		}, nil).Once()

	e := echo.New()
	req := formRequest("/oauth/token", url.Values{
		"grant_type": {"password"},
		"username":   {"alice@example.com"},
		"password":   {"topsecret1"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "signed.jwt.here", body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	assert.Equal(t, "read write", body["scope"])
	authority.AssertExpectations(t)
}

func TestToken_PasswordGrantBadCredentials(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	authority.On("PasswordGrant", mock.Anything, "alice@example.com", "wrong", "", "", "").
		Return(nil, apperr.ErrInvalidGrant).Once()

	e := echo.New()
	req := formRequest("/oauth/token", url.Values{
		"grant_type": {"password"},
		"username":   {"alice@example.com"},
		"password":   {"wrong"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_grant", decodeBody(t, rec)["error"])
}

func TestToken_ClientCredentialsBadSecret(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	authority.On("ClientCredentialsGrant", mock.Anything, "uid", "bad", "").
		Return(nil, apperr.ErrInvalidClient).Once()

	e := echo.New()
	req := formRequest("/oauth/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"uid"},
		"client_secret": {"bad"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_client", decodeBody(t, rec)["error"])
}

func TestToken_UnsupportedGrantType(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	e := echo.New()
	req := formRequest("/oauth/token", url.Values{"grant_type": {"implicit"}})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unsupported_grant_type", decodeBody(t, rec)["error"])
}

func TestToken_RefreshGrant(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	authority.On("RefreshGrant", mock.Anything, "opaque-refresh").
		Return(&models.TokenResponse{AccessToken: "new.jwt", TokenType: "Bearer", RefreshToken: "rotated"}, nil).Once()

	e := echo.New()
	req := formRequest("/oauth/token", url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {"opaque-refresh"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Token(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "new.jwt", body["access_token"])
	assert.Equal(t, "rotated", body["refresh_token"])
}

func TestRevoke_AlwaysSucceeds(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	authority.On("Revoke", mock.Anything, "whatever", "").Return(nil).Once()

	e := echo.New()
	req := formRequest("/oauth/revoke", url.Values{"token": {"whatever"}})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Revoke(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIntrospect_Inactive(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	authority.On("Introspect", mock.Anything, "dead").
		Return(&models.Introspection{Active: false}).Once()

	e := echo.New()
	req := formRequest("/oauth/introspect", url.Values{"token": {"dead"}})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Introspect(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["active"])
}

func TestAuthorize_RequiresOwner(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	e := echo.New()
	req := formRequest("/oauth/authorize", url.Values{"client_id": {"uid"}})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Authorize(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthorize_RejectsAppOnlyToken(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	e := echo.New()
	req := formRequest("/oauth/authorize", url.Values{
		"client_id":    {"uid"},
		"redirect_uri": {"https://cb.example/done"},
	})
	// client_credentials tokens resolve without a resource owner.
	req = req.WithContext(common.WithTokenInfo(req.Context(), uuid.Nil, "read write"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Authorize(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_grant", decodeBody(t, rec)["error"])
	authority.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorize_IssuesCode(t *testing.T) {
	authority := &MockTokenAuthority{}
	h := NewOAuthHandlers(authority)

	ownerID := uuid.New()
	authority.On("Authorize", mock.Anything, ownerID, "uid", "https://cb.example/done", "read").
		Return("one-time-code", nil).Once()

	e := echo.New()
	req := formRequest("/oauth/authorize", url.Values{
		"client_id":    {"uid"},
		"redirect_uri": {"https://cb.example/done"},
		"scope":        {"read"},
	})
	req = req.WithContext(common.WithTokenInfo(req.Context(), ownerID, "read write"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Authorize(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "one-time-code", decodeBody(t, rec)["code"])
}
