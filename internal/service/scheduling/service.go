// Package scheduling owns movies and the hall timetable: creating a
// screening session validates hall availability and pre-materializes one
// screening per day with a ticket for every seat.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
)

type Config struct {
	// SessionBreak is the fixed gap appended after every movie before the
	// hall can host the next session.
	SessionBreak time.Duration
}

type Service struct {
	store repository.SchedulingStore
	cfg   Config
}

func New(store repository.SchedulingStore, cfg Config) *Service {
	if cfg.SessionBreak <= 0 {
		cfg.SessionBreak = 15 * time.Minute
	}

	return &Service{store: store, cfg: cfg}
}

type MovieInput struct {
	Title         string
	Director      string
	DisplayFormat domain.DisplayFormat
	ReleaseDate   time.Time
	Description   string
	AgeRating     string
	IMDBRating    float64
	IMDBLink      string
	RentStartDate time.Time
	RentEndDate   time.Time
	Duration      time.Duration
}

// CreateMovie registers a movie with its rent window.
//
// Returns:
//   - *ValidationError for a bad format, empty title/director, inverted rent
//     window or non-positive duration.
//   - scheduling.ErrMovieConflict when the same movie was already registered.
func (s *Service) CreateMovie(ctx context.Context, in MovieInput) (*domain.Movie, error) {
	const op = "service.scheduling.CreateMovie"

	if in.Title == "" {
		return nil, fmt.Errorf("%s:%w", op, &ValidationError{Field: "title", Message: "title is required"})
	}
	if in.Director == "" {
		return nil, fmt.Errorf("%s:%w", op, &ValidationError{Field: "director", Message: "director is required"})
	}
	if in.DisplayFormat == "" {
		in.DisplayFormat = domain.Format2D
	}
	if !in.DisplayFormat.Valid() {
		return nil, fmt.Errorf("%s:%w", op, &ValidationError{Field: "display_format", Message: "display format must be 2D or 3D"})
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("%s:%w", op, &ValidationError{Field: "duration", Message: "duration must be positive"})
	}
	if in.RentStartDate.After(in.RentEndDate) {
		return nil, fmt.Errorf("%s:%w", op, &ValidationError{Field: "rent_start_date", Message: "rent start date comes after rent end date"})
	}

	m, err := s.store.CreateMovie(ctx, &domain.Movie{
		Title:         in.Title,
		Director:      in.Director,
		DisplayFormat: in.DisplayFormat,
		ReleaseDate:   in.ReleaseDate,
		Description:   in.Description,
		AgeRating:     in.AgeRating,
		IMDBRating:    in.IMDBRating,
		IMDBLink:      in.IMDBLink,
		RentStartDate: in.RentStartDate,
		RentEndDate:   in.RentEndDate,
		Duration:      in.Duration,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s:%w", op, ErrMovieConflict)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return m, nil
}

type SessionInput struct {
	HallID    int64
	MovieID   int64
	StartTime domain.TimeOfDay
	StartDate time.Time
	EndDate   time.Time
	Price     decimal.Decimal
}

// SessionResult reports what session creation materialized.
type SessionResult struct {
	Session    domain.ScreeningSession
	EndTime    domain.TimeOfDay
	Screenings int
	Tickets    int
}

// CreateSession books the hall for a daily slot over the date range.
//
// Validation order: date ordering, movie rent window, then the hall overlap
// test. On success one screening per date in [StartDate, EndDate] is
// created, each with one unsold ticket per current hall seat at the given
// price. Everything commits in a single serializable transaction, so two
// concurrent bookings of the same hall cannot both pass the overlap check
// and commit.
//
// Returns:
//   - *ValidationError for any validation failure, attributed to the field.
//   - scheduling.ErrMovieNotFound / scheduling.ErrHallNotFound.
func (s *Service) CreateSession(ctx context.Context, in SessionInput) (*SessionResult, error) {
	const op = "service.scheduling.CreateSession"

	if in.Price.IsNegative() || in.Price.IsZero() {
		return nil, fmt.Errorf("%s:%w", op, &ValidationError{Field: "price", Message: "price must be positive"})
	}

	var res SessionResult

	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.SchedulingTx) error {
		movie, err := tx.Movie(ctx, in.MovieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMovieNotFound
			}
			return err
		}

		ok, err := tx.HallExists(ctx, in.HallID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrHallNotFound
		}

		if in.StartDate.After(in.EndDate) {
			return errStartAfterEnd()
		}
		if in.StartDate.Before(movie.RentStartDate) {
			return errBeforeRentWindow()
		}
		if in.EndDate.After(movie.RentEndDate) {
			return errAfterRentWindow()
		}

		session := domain.ScreeningSession{
			HallID:    in.HallID,
			MovieID:   in.MovieID,
			StartTime: in.StartTime,
			StartDate: dateOnly(in.StartDate),
			EndDate:   dateOnly(in.EndDate),
		}
		candEnd := session.EndTime(movie.Duration, s.cfg.SessionBreak)

		existing, err := tx.IntersectingSessions(ctx, in.HallID, session.StartDate, session.EndDate)
		if err != nil {
			return err
		}

		for _, other := range existing {
			otherEnd := domain.ScreeningSession{StartTime: other.StartTime}.
				EndTime(other.MovieDuration, s.cfg.SessionBreak)
			if intervalsOverlap(in.StartTime, candEnd, other.StartTime, otherEnd) {
				return errTimeBooked()
			}
		}

		sessionID, err := tx.InsertSession(ctx, &session)
		if err != nil {
			return err
		}
		session.ID = sessionID

		seatIDs, err := tx.SeatIDs(ctx, in.HallID)
		if err != nil {
			return err
		}

		for _, date := range datesBetween(session.StartDate, session.EndDate) {
			screeningID, err := tx.InsertScreening(ctx, sessionID, date)
			if err != nil {
				return err
			}

			if err := tx.BulkInsertTickets(ctx, screeningID, seatIDs, in.Price); err != nil {
				return err
			}

			res.Screenings++
			res.Tickets += len(seatIDs)
		}

		res.Session = session
		res.EndTime = candEnd

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &res, nil
}

// Movie fetches a single movie.
func (s *Service) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "service.scheduling.Movie"

	m, err := s.store.Movie(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrMovieNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return m, nil
}
