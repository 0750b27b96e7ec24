package main

import (
	"errors"
	"net/http"

	"cineshop/internal/data"
	"cineshop/internal/token"
	"cineshop/internal/validator"

	"github.com/labstack/echo/v4"
)

func (app *application) loginUserHandler(c echo.Context) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	v := validator.New()
	v.Check(input.Username != "", "username", "username must be provided")
	v.Check(input.Password != "", "password", "password must be provided")

	if !v.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
	}

	user, err := app.models.Users.GetByUsername(input.Username)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNoRecordFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication credentials")
		default:
			return err
		}
	}

	match, err := user.Password.Matches(input.Password)
	if err != nil {
		return err
	}

	if !match {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication credentials")
	}

	pair, err := app.tokens.NewPair(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

func (app *application) refreshTokenHandler(c echo.Context) error {
	var input struct {
		Refresh string `json:"refresh"`
	}

	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	v := validator.New()
	v.Check(input.Refresh != "", "refresh", "refresh token must be provided")

	if !v.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
	}

	userID, err := app.tokens.Verify(input.Refresh, token.ScopeRefresh)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
	}

	// The account behind the token must still exist before minting a fresh
	// access token for it.
	user, err := app.models.Users.Get(userID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNoRecordFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
		default:
			return err
		}
	}

	access, err := app.tokens.NewAccess(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{"access": access})
}
