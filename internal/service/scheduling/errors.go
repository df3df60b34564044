package scheduling

import (
	"errors"
	"fmt"
)

var (
	ErrMovieConflict = errors.New("movie already exists")
	ErrMovieNotFound = errors.New("movie not found")
	ErrHallNotFound  = errors.New("hall not found")
)

// ValidationError attributes a schedule-creation failure to the offending
// input field so the client can correct it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func errStartAfterEnd() error {
	return &ValidationError{Field: "start_date", Message: "Start date comes after end date"}
}

func errBeforeRentWindow() error {
	return &ValidationError{
		Field:   "start_date",
		Message: "Screening session start date can't be before movie rent start date",
	}
}

func errAfterRentWindow() error {
	return &ValidationError{
		Field:   "end_date",
		Message: "Screening session end date can't be after movie rent end date",
	}
}

func errTimeBooked() error {
	return &ValidationError{Field: "start_time", Message: "Session time is already booked"}
}
