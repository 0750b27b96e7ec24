package main

import (
	"errors"
	"fmt"
	"net/http"

	"cineshop/internal/data"
	"cineshop/internal/validator"

	"github.com/labstack/echo/v4"
)

func (app *application) listMoviesHandler(c echo.Context) error {
	movies, err := app.models.Movies.GetAll()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

func (app *application) createMovieHandler(c echo.Context) error {
	var input struct {
		Title    string  `json:"title"`
		Duration *string `json:"duration"`
		Rating   *string `json:"rating"`
		Synopsis *string `json:"synopsis"`
	}

	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := c.Get("user").(*data.User)

	movie := &data.Movie{
		Title:    input.Title,
		Duration: input.Duration,
		Rating:   data.DefaultRating,
		Synopsis: input.Synopsis,
		UserID:   user.ID,
		AddedBy:  user.Email,
	}
	if input.Rating != nil {
		movie.Rating = *input.Rating
	}

	v := validator.New()

	if data.ValidateMovie(v, movie); !v.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
	}

	err := app.models.Movies.Insert(movie)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Location", fmt.Sprintf("/api/movies/%d/", movie.ID))

	return c.JSON(http.StatusCreated, movie)
}

func (app *application) showMovieHandler(c echo.Context) error {
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

	return c.JSON(http.StatusOK, movie)
}

func (app *application) deleteMovieHandler(c echo.Context) error {
	id, err := app.readIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	err = app.models.Movies.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNoRecordFound):
			return echo.NewHTTPError(http.StatusNotFound, "Movie not found")
		default:
			return err
		}
	}

	return c.NoContent(http.StatusNoContent)
}
