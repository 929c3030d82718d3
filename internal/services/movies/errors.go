package movies

import "errors"

var (
	// ErrMovieNotFound is returned both for a missing id and for a movie
	// owned by another user.
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieAlreadyExists = errors.New("movie with this title and publish year already exists")
)
