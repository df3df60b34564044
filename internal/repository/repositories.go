// Package repository declares the storage interfaces the services depend on
// and the sentinel errors implementations translate database failures into.
// The postgres subpackage provides the production implementation; tests use
// in-memory fakes.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/romankud/kinotix/internal/domain"
)

type CatalogStore interface {
	CreateCinema(ctx context.Context, c *domain.Cinema) (*domain.Cinema, error)
	GetCinema(ctx context.Context, id int64) (*domain.Cinema, error)
	ListCinemas(ctx context.Context) ([]domain.Cinema, error)
	// CreateHallWithSeats persists the hall and its expanded seat rows in one
	// transaction.
	CreateHallWithSeats(ctx context.Context, h *domain.Hall, seats []domain.Seat) (*domain.Hall, error)
	ListHalls(ctx context.Context, cinemaID int64) ([]domain.Hall, error)
	ListSeats(ctx context.Context, hallID int64) ([]domain.Seat, error)
}

// SchedulingTx is the transactional surface of session creation: the overlap
// check and the session/screening/ticket inserts must share one transaction.
type SchedulingTx interface {
	Movie(ctx context.Context, id int64) (*domain.Movie, error)
	HallExists(ctx context.Context, hallID int64) (bool, error)
	// IntersectingSessions returns sessions of the hall whose date ranges
	// intersect [startDate, endDate] inclusively, joined with their movie
	// runtime.
	IntersectingSessions(ctx context.Context, hallID int64, startDate, endDate time.Time) ([]domain.SessionInterval, error)
	SeatIDs(ctx context.Context, hallID int64) ([]int64, error)
	InsertSession(ctx context.Context, s *domain.ScreeningSession) (int64, error)
	InsertScreening(ctx context.Context, sessionID int64, date time.Time) (int64, error)
	BulkInsertTickets(ctx context.Context, screeningID int64, seatIDs []int64, price decimal.Decimal) error
}

type SchedulingStore interface {
	CreateMovie(ctx context.Context, m *domain.Movie) (*domain.Movie, error)
	Movie(ctx context.Context, id int64) (*domain.Movie, error)
	InTx(ctx context.Context, fn func(ctx context.Context, tx SchedulingTx) error) error
}

// OrderingTx is the transactional surface of the cart/purchase/return state
// machine. Ticket flags and the buyer balance mutate together or not at all.
type OrderingTx interface {
	TicketWithScreening(ctx context.Context, ticketID int64) (*domain.TicketWithScreening, error)
	Order(ctx context.Context, orderID int64) (*domain.Order, error)
	OrderByBuyerAndOp(ctx context.Context, orderID, buyerID int64, op domain.OrderOperation) (*domain.Order, error)
	HasOrder(ctx context.Context, buyerID, ticketID int64, op domain.OrderOperation) (bool, error)
	InsertOrder(ctx context.Context, buyerID, ticketID int64, op domain.OrderOperation) (*domain.Order, error)
	DeleteCartOrder(ctx context.Context, orderID, buyerID int64) error
	SetOrderOperation(ctx context.Context, orderID int64, op domain.OrderOperation) error
	SetTicketSold(ctx context.Context, ticketID int64, sold bool) error
	User(ctx context.Context, id int64) (*domain.User, error)
	AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) error
}

type OrderingStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx OrderingTx) error) error
	CartOrders(ctx context.Context, buyerID int64) ([]domain.CartItem, error)
	HistoryOrders(ctx context.Context, buyerID int64) ([]domain.Order, error)
	TotalSpent(ctx context.Context, buyerID int64) (decimal.Decimal, error)
}

type AccountStore interface {
	CreateUser(ctx context.Context, email string, balance decimal.Decimal) (*domain.User, error)
	User(ctx context.Context, id int64) (*domain.User, error)
}

// ScreeningFilter narrows screening listings; zero values mean "any".
type ScreeningFilter struct {
	MovieID int64
	Date    time.Time
}

type QueryStore interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	Movie(ctx context.Context, id int64) (*domain.Movie, error)
	Screening(ctx context.Context, id int64) (*domain.ScreeningDetail, error)
	ListScreenings(ctx context.Context, f ScreeningFilter) ([]domain.ScreeningDetail, error)
	ScreeningTickets(ctx context.Context, screeningID int64) ([]domain.Ticket, error)
}
