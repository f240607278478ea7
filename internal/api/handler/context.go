package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zabilal/sims-api/internal/api/middleware"
	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// currentUser extracts the authenticated user injected by the Authorizer
// middleware. Absence means the route was wired without authentication,
// which is a programming error surfaced as 401.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate")
	}
	return user, nil
}

// bindPageOptions reads the shared pagination query parameters. Missing or
// unparseable values stay zero and fall back to the engine defaults.
func bindPageOptions(c echo.Context) ports.PageOptions {
	var opts ports.PageOptions
	_ = echo.QueryParamsBinder(c).
		String("sortBy", &opts.SortBy).
		Int("limit", &opts.Limit).
		Int("page", &opts.Page).
		BindError()
	return opts
}
