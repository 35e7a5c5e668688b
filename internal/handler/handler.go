package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"timesheet/internal/auth"
	apperrors "timesheet/internal/errors"
)

// ContextKeyUser is where the JWT middleware stores the validated *auth.Claims.
const ContextKeyUser = "user"

// actorFrom returns the authenticated user of the request.
func actorFrom(c echo.Context) (auth.Actor, error) {
	claims, ok := c.Get(ContextKeyUser).(*auth.Claims)
	if !ok || claims == nil {
		return auth.Actor{}, apperrors.ErrUnauthenticated
	}
	return auth.ActorFromClaims(claims), nil
}

// bind decodes the request body into req and validates it.
// Malformed JSON is a 400; rule violations come back as a ValidationError.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed request body.").SetInternal(err)
	}
	return c.Validate(req)
}

// pathID parses the :id path parameter. Anything that is not a positive integer
// cannot name a record, so it is reported as a missing resource.
func pathID(c echo.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound(resource)
	}
	return uint(id), nil
}

// queryUint parses an optional unsigned query parameter.
func queryUint(c echo.Context, name string, verr *apperrors.ValidationError) *uint {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		verr.Add(name, "The "+name+" must be an integer.")
		return nil
	}
	id := uint(v)
	return &id
}

// queryPage returns the 1-based page number, defaulting to the first page.
func queryPage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
