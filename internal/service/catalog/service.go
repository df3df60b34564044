// Package catalog owns the Cinema -> Hall -> Seat hierarchy.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
)

type Service struct {
	store repository.CatalogStore
}

func New(store repository.CatalogStore) *Service {
	return &Service{store: store}
}

type CinemaInput struct {
	Name          string
	Address       string
	PhoneNumber   string
	FacebookLink  string
	InstagramLink string
	YoutubeLink   string
}

// CreateCinema creates a cinema record.
//
// Returns catalog.ErrCinemaConflict when a cinema with the same name and
// address already exists.
func (s *Service) CreateCinema(ctx context.Context, in CinemaInput) (*domain.Cinema, error) {
	const op = "service.catalog.CreateCinema"

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" {
		return nil, fmt.Errorf("%s: name and address are required", op)
	}

	c, err := s.store.CreateCinema(ctx, &domain.Cinema{
		Name:          in.Name,
		Address:       in.Address,
		PhoneNumber:   in.PhoneNumber,
		FacebookLink:  in.FacebookLink,
		InstagramLink: in.InstagramLink,
		YoutubeLink:   in.YoutubeLink,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s:%w", op, ErrCinemaConflict)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return c, nil
}

func (s *Service) ListCinemas(ctx context.Context) ([]domain.Cinema, error) {
	const op = "service.catalog.ListCinemas"

	out, err := s.store.ListCinemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ExpandSeatLayout turns the compact layout descriptor into concrete seats:
// element i (1-based row index) is the seat count of row i, seats numbered
// from 1 within each row.
func ExpandSeatLayout(layout []int) ([]domain.Seat, error) {
	if len(layout) == 0 {
		return nil, ErrEmptyLayout
	}

	var seats []domain.Seat
	for i, count := range layout {
		if count <= 0 {
			return nil, ErrBadLayoutRow
		}
		for n := 1; n <= count; n++ {
			seats = append(seats, domain.Seat{Row: i + 1, Number: n})
		}
	}

	return seats, nil
}

// CreateHall creates a hall with its full seat grid. Seats are a one-shot
// snapshot: the layout can only be set at creation.
//
// Returns:
//   - catalog.ErrCinemaNotFound when the cinema does not exist.
//   - catalog.ErrHallConflict when the cinema already has a hall by this name.
//   - catalog.ErrEmptyLayout / catalog.ErrBadLayoutRow for a bad descriptor.
func (s *Service) CreateHall(ctx context.Context, cinemaID int64, name string, seatLayout []int) (*domain.Hall, []domain.Seat, error) {
	const op = "service.catalog.CreateHall"

	if strings.TrimSpace(name) == "" {
		return nil, nil, fmt.Errorf("%s: name is required", op)
	}

	seats, err := ExpandSeatLayout(seatLayout)
	if err != nil {
		return nil, nil, fmt.Errorf("%s:%w", op, err)
	}

	h, err := s.store.CreateHallWithSeats(ctx, &domain.Hall{CinemaID: cinemaID, Name: name}, seats)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s:%w", op, ErrCinemaNotFound)
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, nil, fmt.Errorf("%s:%w", op, ErrHallConflict)
		}
		return nil, nil, fmt.Errorf("%s:%w", op, err)
	}

	for i := range seats {
		seats[i].HallID = h.ID
	}

	return h, seats, nil
}

func (s *Service) ListHalls(ctx context.Context, cinemaID int64) ([]domain.Hall, error) {
	const op = "service.catalog.ListHalls"

	if _, err := s.store.GetCinema(ctx, cinemaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrCinemaNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out, err := s.store.ListHalls(ctx, cinemaID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) ListSeats(ctx context.Context, hallID int64) ([]domain.Seat, error) {
	const op = "service.catalog.ListSeats"

	out, err := s.store.ListSeats(ctx, hallID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
