package render

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leagueapi/internal/models"
	"leagueapi/internal/validate"
)

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestObjectShape(t *testing.T) {
	RegisterAll()
	c, rec := newContext(t)

	user := &models.User{
		ID:        uuid.New(),
		Email:     "a@b.com",
		FirstName: "A",
		LastName:  "B",
	}
	require.NoError(t, Object(c, http.StatusOK, "users", user))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Len(t, body, 1, "exactly one top-level data key")

	data := body["data"].(map[string]any)
	assert.Equal(t, user.ID.String(), data["id"])
	assert.Equal(t, "users", data["type"])

	attrs := data["attributes"].(map[string]any)
	assert.Equal(t, "a@b.com", attrs["email"])
	assert.Equal(t, "A", attrs["firstName"])
	assert.Equal(t, "B", attrs["lastName"])
	assert.Equal(t, false, attrs["admin"])
	assert.Contains(t, attrs, "confirmedAt")
	assert.NotContains(t, attrs, "first_name", "attributes are lowerCamelCase")
}

func TestCollectionShape(t *testing.T) {
	RegisterAll()
	c, rec := newContext(t)

	teams := []*models.Team{
		{ID: uuid.New(), Name: "Arsenal"},
		{ID: uuid.New(), Name: "Chelsea"},
		{ID: uuid.New(), Name: "Spurs"},
	}
	require.NoError(t, Collection(c, http.StatusOK, "teams", teams))

	body := decode(t, rec)
	data := body["data"].([]any)
	require.Len(t, data, 3)
	for i, raw := range data {
		elem := raw.(map[string]any)
		assert.Equal(t, teams[i].ID.String(), elem["id"])
		assert.Equal(t, "teams", elem["type"])
		attrs := elem["attributes"].(map[string]any)
		assert.Equal(t, teams[i].Name, attrs["name"])
	}
}

func TestEmptyCollection(t *testing.T) {
	RegisterAll()
	c, rec := newContext(t)

	require.NoError(t, Collection(c, http.StatusOK, "teams", []*models.Team{}))
	body := decode(t, rec)
	assert.Len(t, body["data"].([]any), 0)
}

func TestObjectNilPanics(t *testing.T) {
	RegisterAll()
	c, _ := newContext(t)

	assert.Panics(t, func() {
		_ = Object(c, http.StatusOK, "users", nil)
	})

	var user *models.User
	assert.Panics(t, func() {
		_ = Object(c, http.StatusOK, "users", user)
	}, "typed nil pointer must panic too")
}

func TestObjectUnregisteredKindPanics(t *testing.T) {
	c, _ := newContext(t)
	assert.Panics(t, func() {
		_ = Object(c, http.StatusOK, "no_such_kind", &models.User{})
	})
}

func TestInvalidRecordEnvelope(t *testing.T) {
	c, rec := newContext(t)

	errs := validate.Errors{}
	errs.Add("email", "can't be blank")
	errs.Add("email", "is invalid")
	require.NoError(t, InvalidRecord(c, errs))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "invalid_record", data["errorName"])

	detail := data["errorMessage"].(map[string]any)
	assert.Equal(t, []any{"can't be blank", "is invalid"}, detail["email"])
}

func TestNotFoundEnvelope(t *testing.T) {
	c, rec := newContext(t)

	require.NoError(t, NotFound(c, "User"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "record_not_found", data["errorName"])
	assert.Equal(t, "User not found", data["errorMessage"])
}

func TestNoContent(t *testing.T) {
	c, rec := newContext(t)
	require.NoError(t, NoContent(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
