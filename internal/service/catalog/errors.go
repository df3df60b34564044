package catalog

import "errors"

var (
	ErrCinemaConflict = errors.New("cinema with this name and address already exists")
	ErrHallConflict   = errors.New("hall with this name already exists in the cinema")
	ErrCinemaNotFound = errors.New("cinema not found")
	ErrHallNotFound   = errors.New("hall not found")
	ErrEmptyLayout    = errors.New("seat layout must have at least one row")
	ErrBadLayoutRow   = errors.New("every seat layout row must hold at least one seat")
)
