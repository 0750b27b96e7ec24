package main

import (
	"errors"
	"net/http"

	"cineshop/internal/data"
	"cineshop/internal/validator"

	"github.com/labstack/echo/v4"
)

func (app *application) createMovieOrderHandler(c echo.Context) error {
	id, err := app.readIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	movie, err := app.models.Movies.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNoRecordFound):
			return echo.NewHTTPError(http.StatusNotFound, "Movie not found")
		default:
			return err
		}
	}

	var input struct {
		Price *data.Price `json:"price"`
	}

	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	v := validator.New()

	if data.ValidateOrder(v, input.Price); !v.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
	}

	user := c.Get("user").(*data.User)

	order := &data.MovieOrder{
		MovieID: movie.ID,
		UserID:  user.ID,
		Price:   *input.Price,
		Title:   movie.Title,
		BuyedBy: user.Email,
	}

	err = app.models.Orders.Insert(order)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}
