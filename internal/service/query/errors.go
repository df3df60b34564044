package query

import "errors"

var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrScreeningNotFound = errors.New("screening not found")
)
