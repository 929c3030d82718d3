package main

import (
	"errors"
	"net/http"

	"movieshelf/proj/internal/domain/filters"
	libvalidator "movieshelf/proj/internal/lib/validator"
	"movieshelf/proj/internal/services/movies"

	"github.com/gorilla/schema"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type createMovieInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	PublishYear int32  `json:"publish_year" validate:"required,publishyear"`
	ImageURL    string `json:"image_url" validate:"required,url"`
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var input createMovieInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := libvalidator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user := app.contextUser(r)
	movie, err := app.movies.Create(r.Context(), movies.CreateMovieInput{
		Title:       input.Title,
		PublishYear: input.PublishYear,
		ImageURL:    input.ImageURL,
	}, user.ID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieAlreadyExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"movie": movie}, "Movie created successfully")
}

func (app *Application) getMovies(w http.ResponseWriter, r *http.Request) {
	var f filters.MovieFilters
	if err := queryDecoder.Decode(&f, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, "invalid query parameters")
		return
	}
	if errs := libvalidator.ValidateStruct(app.validator, f); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user := app.contextUser(r)
	items, metadata, err := app.movies.List(r.Context(), f, user.ID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": items, "metadata": metadata}, "Movies retrieved successfully")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	user := app.contextUser(r)
	movie, err := app.movies.Get(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "Movie retrieved successfully")
}

type updateMovieInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200" errorMsg:"Title must be between 1 and 200 characters"`
	PublishYear *int32  `json:"publish_year" validate:"omitempty,publishyear"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

func (app *Application) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var input updateMovieInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := libvalidator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user := app.contextUser(r)
	movie, err := app.movies.Update(r.Context(), id, movies.UpdateMovieInput{
		Title:       input.Title,
		PublishYear: input.PublishYear,
		ImageURL:    input.ImageURL,
	}, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, movies.ErrMovieAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "Movie updated successfully")
}

func (app *Application) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	user := app.contextUser(r)
	if err := app.movies.Remove(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, nil, "Movie deleted successfully")
}
