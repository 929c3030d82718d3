package main

import (
	"errors"
	"net/http"

	libvalidator "movieshelf/proj/internal/lib/validator"
	"movieshelf/proj/internal/services/auth"
)

type registerInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"required_without=Email,omitempty,min=3,max=50" errorMsg:"Either email or username must be provided"`
	Password string `json:"password" validate:"required,min=6" errorMsg:"Password must be at least 6 characters long"`
}

func (app *Application) register(w http.ResponseWriter, r *http.Request) {
	var input registerInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := libvalidator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, err := app.auth.Register(r.Context(), input.Email, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserAlreadyExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "User registered successfully")
}

type loginInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"required_without=Email" errorMsg:"Either email or username must be provided"`
	Password string `json:"password" validate:"required"`
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := libvalidator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, token, err := app.auth.Login(r.Context(), input.Email, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			app.Http.Unauthorized(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"user": user, "access_token": token}, "Login successful")
}
