package main

import (
	"errors"
	"net/http"

	"cineshop/internal/data"
	"cineshop/internal/validator"

	"github.com/labstack/echo/v4"
)

func (app *application) registerUserHandler(c echo.Context) error {
	var input struct {
		Username   string     `json:"username"`
		Email      string     `json:"email"`
		Password   string     `json:"password"`
		FirstName  string     `json:"first_name"`
		LastName   string     `json:"last_name"`
		Birthdate  *data.Date `json:"birthdate"`
		IsEmployee bool       `json:"is_employee"`
	}

	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Registering with is_employee is the elevated-account creation path:
	// the account comes out a superuser.
	user := &data.User{
		Username:    input.Username,
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Birthdate:   input.Birthdate,
		IsEmployee:  input.IsEmployee,
		IsSuperuser: input.IsEmployee,
	}

	err := user.Password.Set(input.Password)
	if err != nil {
		return err
	}

	v := validator.New()

	data.ValidateUser(v, user)
	app.checkUniqueness(v, user, 0)
	if !v.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
	}

	err = app.models.Users.Insert(user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateUsername):
			v.AddError("username", "username already taken.")
			return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
		case errors.Is(err, data.ErrDuplicateEmail):
			v.AddError("email", "email already registered.")
			return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
		default:
			return err
		}
	}

	app.background(func() {
		err := app.mailer.Send(user.Email, "user_welcome.tmpl", user)
		if err != nil {
			app.logger.Error(err.Error())
		}
	})

	return c.JSON(http.StatusCreated, user)
}

func (app *application) showUserHandler(c echo.Context) error {
	id, err := app.readIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	user, err := app.models.Users.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNoRecordFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		default:
			return err
		}
	}

	caller := c.Get("user").(*data.User)
	if !permitOwnerOrAdmin(caller, user) {
		return echo.NewHTTPError(http.StatusForbidden, "your user account doesn't have the necessary permissions to access this resource")
	}

	return c.JSON(http.StatusOK, user)
}

func (app *application) updateUserHandler(c echo.Context) error {
	id, err := app.readIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	user, err := app.models.Users.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNoRecordFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		default:
			return err
		}
	}

	caller := c.Get("user").(*data.User)
	if !permitOwnerOrAdmin(caller, user) {
		return echo.NewHTTPError(http.StatusForbidden, "your user account doesn't have the necessary permissions to access this resource")
	}

	var input struct {
		Username   *string    `json:"username"`
		Email      *string    `json:"email"`
		Password   *string    `json:"password"`
		FirstName  *string    `json:"first_name"`
		LastName   *string    `json:"last_name"`
		Birthdate  *data.Date `json:"birthdate"`
		IsEmployee *bool      `json:"is_employee"`
	}

	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		err := user.Password.Set(*input.Password)
		if err != nil {
			return err
		}
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Birthdate != nil {
		user.Birthdate = input.Birthdate
	}
	if input.IsEmployee != nil {
		user.IsEmployee = *input.IsEmployee
	}

	v := validator.New()

	data.ValidateUser(v, user)
	app.checkUniqueness(v, user, user.ID)
	if !v.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
	}

	err = app.models.Users.Update(user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateUsername):
			v.AddError("username", "username already taken.")
			return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
		case errors.Is(err, data.ErrDuplicateEmail):
			v.AddError("email", "email already registered.")
			return echo.NewHTTPError(http.StatusBadRequest, v.Errors)
		case errors.Is(err, data.ErrEditConflict):
			return echo.NewHTTPError(http.StatusConflict, data.ErrEditConflict.Error())
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, user)
}

// permitOwnerOrAdmin is the object-level permission for the user detail
// endpoints: only the account holder or a superuser may see or change a
// profile.
func permitOwnerOrAdmin(caller, target *data.User) bool {
	return caller.IsSuperuser || caller.ID == target.ID
}

// checkUniqueness reports field errors for a username or email that is
// already held by a different account. The database constraints remain the
// backstop against concurrent registrations.
func (app *application) checkUniqueness(v *validator.Validator, user *data.User, selfID int) {
	if user.Username != "" {
		existing, err := app.models.Users.GetByUsername(user.Username)
		if err == nil && existing.ID != selfID {
			v.AddError("username", "username already taken.")
		}
	}
	if user.Email != "" {
		existing, err := app.models.Users.GetByEmail(user.Email)
		if err == nil && existing.ID != selfID {
			v.AddError("email", "email already registered.")
		}
	}
}
