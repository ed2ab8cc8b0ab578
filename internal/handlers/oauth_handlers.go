package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"leagueapi/internal/apperr"
	"leagueapi/internal/common"
	"leagueapi/internal/services"
)

// OAuthHandlers exposes the token authority endpoints. Error bodies follow
// RFC 6749 §5.2 rather than the domain envelope.
type OAuthHandlers struct {
	authority services.TokenAuthority
}

func NewOAuthHandlers(authority services.TokenAuthority) *OAuthHandlers {
	return &OAuthHandlers{authority: authority}
}

type TokenRequest struct {
	GrantType    string `json:"grant_type" form:"grant_type"`
	Username     string `json:"username" form:"username"`
	Password     string `json:"password" form:"password"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
	Code         string `json:"code" form:"code"`
	RedirectURI  string `json:"redirect_uri" form:"redirect_uri"`
	ClientID     string `json:"client_id" form:"client_id"`
	ClientSecret string `json:"client_secret" form:"client_secret"`
	Scope        string `json:"scope" form:"scope"`
}

func oauthError(c echo.Context, status int, code string) error {
	return c.JSON(status, map[string]string{"error": code})
}

// Token implements POST /oauth/token for the password, refresh_token,
// client_credentials and authorization_code grants.
func (h *OAuthHandlers) Token(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return oauthError(c, http.StatusBadRequest, "invalid_request")
	}

	ctx := c.Request().Context()
	switch req.GrantType {
	case "password":
		resp, err := h.authority.PasswordGrant(ctx, req.Username, req.Password, req.ClientID, req.ClientSecret, req.Scope)
		if err != nil {
			return grantFailure(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	case "refresh_token":
		resp, err := h.authority.RefreshGrant(ctx, req.RefreshToken)
		if err != nil {
			return grantFailure(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	case "client_credentials":
		resp, err := h.authority.ClientCredentialsGrant(ctx, req.ClientID, req.ClientSecret, req.Scope)
		if err != nil {
			return grantFailure(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	case "authorization_code":
		resp, err := h.authority.AuthorizationCodeGrant(ctx, req.Code, req.ClientID, req.ClientSecret, req.RedirectURI)
		if err != nil {
			return grantFailure(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	default:
		return oauthError(c, http.StatusBadRequest, "unsupported_grant_type")
	}
}

func grantFailure(c echo.Context, err error) error {
	if errors.Is(err, apperr.ErrInvalidClient) {
		return oauthError(c, http.StatusUnauthorized, "invalid_client")
	}
	if errors.Is(err, apperr.ErrInvalidGrant) {
		return oauthError(c, http.StatusBadRequest, "invalid_grant")
	}
	return oauthError(c, http.StatusInternalServerError, "server_error")
}

type RevokeRequest struct {
	Token         string `json:"token" form:"token"`
	TokenTypeHint string `json:"token_type_hint" form:"token_type_hint"`
}

// Revoke implements POST /oauth/revoke. Per RFC 7009 unknown tokens still
// revoke successfully.
func (h *OAuthHandlers) Revoke(c echo.Context) error {
	var req RevokeRequest
	if err := c.Bind(&req); err != nil {
		return oauthError(c, http.StatusBadRequest, "invalid_request")
	}
	if err := h.authority.Revoke(c.Request().Context(), req.Token, req.TokenTypeHint); err != nil {
		return oauthError(c, http.StatusInternalServerError, "server_error")
	}
	return c.JSON(http.StatusOK, map[string]string{})
}

type IntrospectRequest struct {
	Token string `json:"token" form:"token"`
}

// Introspect implements POST /oauth/introspect.
func (h *OAuthHandlers) Introspect(c echo.Context) error {
	var req IntrospectRequest
	if err := c.Bind(&req); err != nil {
		return oauthError(c, http.StatusBadRequest, "invalid_request")
	}
	return c.JSON(http.StatusOK, h.authority.Introspect(c.Request().Context(), req.Token))
}

type AuthorizeRequest struct {
	ClientID    string `json:"client_id" form:"client_id"`
	RedirectURI string `json:"redirect_uri" form:"redirect_uri"`
	Scope       string `json:"scope" form:"scope"`
}

// Authorize issues an authorization code for the signed-in resource owner.
// Runs behind the bearer middleware.
func (h *OAuthHandlers) Authorize(c echo.Context) error {
	ownerID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}
	// Client-credentials tokens carry no resource owner to bind a code to.
	if ownerID == uuid.Nil {
		return oauthError(c, http.StatusBadRequest, "invalid_grant")
	}

	var req AuthorizeRequest
	if err := c.Bind(&req); err != nil {
		return oauthError(c, http.StatusBadRequest, "invalid_request")
	}

	code, err := h.authority.Authorize(c.Request().Context(), ownerID, req.ClientID, req.RedirectURI, req.Scope)
	if err != nil {
		return grantFailure(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"code": code})
}
