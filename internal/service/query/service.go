// Package query serves the public read side: movie listings, screening
// summaries with seat availability and the ticket grid of a screening.
// Screening reads go through Redis because availability is the hottest and
// most volatile datum; the ordering service invalidates on every sale.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/romankud/kinotix/internal/domain"
	redisx "github.com/romankud/kinotix/internal/redis"
	"github.com/romankud/kinotix/internal/repository"
	redisrepo "github.com/romankud/kinotix/internal/repository/redis"
)

const (
	screeningTTL = 30 * time.Second
	ticketsTTL   = 15 * time.Second
)

type Service struct {
	store repository.QueryStore
	cache *redisrepo.Cache
}

// New wires the read service. cache may be nil, every read then goes
// straight to the store.
func New(store repository.QueryStore, cache *redisrepo.Cache) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	const op = "service.query.ListMovies"

	out, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "service.query.Movie"

	m, err := s.store.Movie(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrMovieNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return m, nil
}

// Screening returns one screening summary, cached for a short window.
func (s *Service) Screening(ctx context.Context, id int64) (*domain.ScreeningDetail, error) {
	const op = "service.query.Screening"

	load := func(ctx context.Context) (*domain.ScreeningDetail, error) {
		return s.store.Screening(ctx, id)
	}

	var d *domain.ScreeningDetail
	var err error
	if s.cache != nil {
		d, err = redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyScreeningSummary(id), screeningTTL, load)
	} else {
		d, err = load(ctx)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrScreeningNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return d, nil
}

// ListScreenings returns screening summaries, optionally narrowed by movie
// and date. Listings are not cached, filters make the key space unbounded.
func (s *Service) ListScreenings(ctx context.Context, f repository.ScreeningFilter) ([]domain.ScreeningDetail, error) {
	const op = "service.query.ListScreenings"

	out, err := s.store.ListScreenings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ScreeningTickets returns the full ticket grid of a screening, seat by
// seat with sold flags, cached briefly.
func (s *Service) ScreeningTickets(ctx context.Context, screeningID int64) ([]domain.Ticket, error) {
	const op = "service.query.ScreeningTickets"

	// Existence check first so a bogus id is a 404, not an empty grid.
	if _, err := s.Screening(ctx, screeningID); err != nil {
		return nil, err
	}

	load := func(ctx context.Context) ([]domain.Ticket, error) {
		return s.store.ScreeningTickets(ctx, screeningID)
	}

	var tickets []domain.Ticket
	var err error
	if s.cache != nil {
		tickets, err = redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyScreeningTickets(screeningID), ticketsTTL, load)
	} else {
		tickets, err = load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return tickets, nil
}
