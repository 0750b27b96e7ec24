package main

import (
	"github.com/labstack/echo/v4"
)

func (app *application) routes(e *echo.Echo) {
	router := e.Group("/api")

	router.POST("/users/", app.registerUserHandler)
	router.POST("/users/login/", app.loginUserHandler)
	router.POST("/users/refresh/", app.refreshTokenHandler)
	router.GET("/users/:id/", app.showUserHandler, app.RequireAuthenticatedUser)
	router.PATCH("/users/:id/", app.updateUserHandler, app.RequireAuthenticatedUser)

	router.GET("/movies/", app.listMoviesHandler)
	router.POST("/movies/", app.createMovieHandler, app.RequireEmployee)
	router.GET("/movies/:id/", app.showMovieHandler)
	router.DELETE("/movies/:id/", app.deleteMovieHandler, app.RequireEmployee)

	router.POST("/movies/:id/orders/", app.createMovieOrderHandler, app.RequireAuthenticatedUser)
}
