package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cineshop/internal/data"
	"cineshop/internal/token"

	"github.com/labstack/echo/v4"
)

func (app *application) CustomRecover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					c.Response().Header().Set("Connection", "close")
					err = fmt.Errorf("%v", r)
				}
			}()
			return next(c)
		}
	}
}

// Authenticate resolves the caller from a bearer token. Requests without an
// Authorization header proceed as the anonymous user; a malformed or invalid
// token is rejected outright.
func (app *application) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Add("Vary", "Authorization")
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Set("user", data.AnonymousUser)
				return next(c)
			}
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || headerParts[0] != "Bearer" {
				c.Response().Header().Set("WWW-Authenticate", "Bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication token")
			}

			userID, err := app.tokens.Verify(headerParts[1], token.ScopeAccess)
			if err != nil {
				c.Response().Header().Set("WWW-Authenticate", "Bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication token")
			}

			user, err := app.models.Users.Get(userID)
			if err != nil {
				switch {
				case errors.Is(err, data.ErrNoRecordFound):
					c.Response().Header().Set("WWW-Authenticate", "Bearer")
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication token")
				default:
					return err
				}
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

func (app *application) RequireAuthenticatedUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := c.Get("user").(*data.User)
		if user.IsAnonymous() {
			return echo.NewHTTPError(http.StatusUnauthorized, "you must be authenticated to access this resource")
		}
		return next(c)
	}
}

// RequireEmployee permits unsafe catalog operations only to employee
// (superuser) accounts. It layers on RequireAuthenticatedUser so anonymous
// callers get 401 and authenticated non-employees get 403.
func (app *application) RequireEmployee(next echo.HandlerFunc) echo.HandlerFunc {
	fn := func(c echo.Context) error {
		user := c.Get("user").(*data.User)
		if !user.IsSuperuser {
			return echo.NewHTTPError(http.StatusForbidden, "your user account doesn't have the necessary permissions to access this resource")
		}
		return next(c)
	}
	return app.RequireAuthenticatedUser(fn)
}
