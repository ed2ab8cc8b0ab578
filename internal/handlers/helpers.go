package handlers

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxPerPage = 100

// pagination reads page/per_page query parameters. Both must be present and
// positive for pagination to apply; otherwise the listing is unpaginated
// (limit 0).
func pagination(c echo.Context) (limit, offset int) {
	pageStr := c.QueryParam("page")
	perStr := c.QueryParam("per_page")
	if pageStr == "" || perStr == "" {
		return 0, 0
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, 0
	}
	per, err := strconv.Atoi(perStr)
	if err != nil || per < 1 {
		return 0, 0
	}
	if per > maxPerPage {
		per = maxPerPage
	}
	return per, (page - 1) * per
}

// pathID parses the :id route parameter. An unparseable id behaves like a
// missing record, so the caller maps ok=false to a 404.
func pathID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
