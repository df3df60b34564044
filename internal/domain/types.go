package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBalance is credited to every newly registered user.
var DefaultBalance = decimal.New(100000, -2) // 1000.00

type DisplayFormat string

const (
	Format2D DisplayFormat = "2D"
	Format3D DisplayFormat = "3D"
)

func (f DisplayFormat) Valid() bool {
	switch f {
	case Format2D, Format3D:
		return true
	}
	return false
}

type OrderOperation string

const (
	OpAddToCart OrderOperation = "ADD_TO_CART"
	OpPurchase  OrderOperation = "PURCHASE"
	OpReturn    OrderOperation = "RETURN"
)

func (o OrderOperation) Valid() bool {
	switch o {
	case OpAddToCart, OpPurchase, OpReturn:
		return true
	}
	return false
}

type Cinema struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	FacebookLink  string `json:"facebook_social_link,omitempty"`
	InstagramLink string `json:"instagram_social_link,omitempty"`
	YoutubeLink   string `json:"youtube_social_link,omitempty"`
}

type Hall struct {
	ID       int64  `json:"id"`
	CinemaID int64  `json:"cinema_id"`
	Name     string `json:"name"`
}

// Seat rows are immutable once created: a hall only ever grows seats,
// it never renumbers or deletes them.
type Seat struct {
	ID     int64 `json:"id"`
	HallID int64 `json:"hall_id"`
	Row    int   `json:"row"`
	Number int   `json:"number"`
}

type Movie struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Director      string        `json:"director"`
	DisplayFormat DisplayFormat `json:"display_format"`
	ReleaseDate   time.Time     `json:"release_date"`
	Description   string        `json:"description,omitempty"`
	AgeRating     string        `json:"age_rating,omitempty"`
	IMDBRating    float64       `json:"imdb_rating,omitempty"`
	IMDBLink      string        `json:"imdb_link,omitempty"`
	RentStartDate time.Time     `json:"rent_start_date"`
	RentEndDate   time.Time     `json:"rent_end_date"`
	Duration      time.Duration `json:"duration"`
}

// ScreeningSession is a recurring daily hall booking: the movie runs in the
// hall at StartTime on every date in [StartDate, EndDate].
type ScreeningSession struct {
	ID        int64     `json:"id"`
	HallID    int64     `json:"hall_id"`
	MovieID   int64     `json:"movie_id"`
	StartTime TimeOfDay `json:"start_time"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// EndTime derives the session's end-of-slot time of day: start time plus the
// movie runtime plus the fixed inter-session break, wrapping past midnight.
func (s ScreeningSession) EndTime(movieDuration, sessionBreak time.Duration) TimeOfDay {
	end := int64(s.StartTime) + int64((movieDuration + sessionBreak).Seconds())
	return TimeOfDay(end % secondsPerDay)
}

// Screening is one calendar-day instance of a session.
type Screening struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"screening_session_id"`
	Date      time.Time `json:"screening_date"`
}

// ScreeningDateTime combines a screening date with the session start time
// into a UTC instant.
func ScreeningDateTime(date time.Time, start TimeOfDay) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		start.Hour(), start.Minute(), start.Second(),
		0, time.UTC,
	)
}

type Ticket struct {
	ID          int64           `json:"id"`
	ScreeningID int64           `json:"screening_id"`
	SeatID      int64           `json:"seat_id"`
	Price       decimal.Decimal `json:"price"`
	IsSold      bool            `json:"is_sold"`
}

// TicketWithScreening carries the derived screening instant alongside the
// ticket, which the ordering rules need for past/future checks.
type TicketWithScreening struct {
	Ticket
	ScreeningDateTime time.Time `json:"screening_date_time"`
}

// Order is an append-only event recording a state transition of a ticket for
// a buyer. The single exception is the in-place ADD_TO_CART -> PURCHASE flip
// performed on purchase.
type Order struct {
	ID        int64          `json:"id"`
	BuyerID   int64          `json:"buyer"`
	TicketID  int64          `json:"ticket"`
	Operation OrderOperation `json:"operation"`
	CreatedAt time.Time      `json:"date"`
}

type User struct {
	ID      int64           `json:"id"`
	Email   string          `json:"email"`
	Balance decimal.Decimal `json:"balance"`
}

type CartTicket struct {
	ID                int64           `json:"id"`
	Price             decimal.Decimal `json:"price"`
	ScreeningDateTime time.Time       `json:"screening_date_time"`
}

type CartItem struct {
	OrderID int64      `json:"id"`
	Ticket  CartTicket `json:"ticket"`
}

type Cart struct {
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ScreeningDetail is the read-side projection of a screening with its
// session context and unsold-ticket count.
type ScreeningDetail struct {
	Screening
	HallID            int64     `json:"hall_id"`
	MovieID           int64     `json:"movie_id"`
	StartTime         TimeOfDay `json:"start_time"`
	SessionEndDate    time.Time `json:"session_end_date"`
	ScreeningEndTime  TimeOfDay `json:"screening_end_time"`
	ScreeningDateTime time.Time `json:"screening_date_time"`
	AvailableTickets  int64     `json:"available_tickets_count"`
}

// SessionInterval is the slice of an existing session the overlap check
// compares against: its start time and the movie runtime behind it.
type SessionInterval struct {
	SessionID     int64
	StartTime     TimeOfDay
	MovieDuration time.Duration
}

func (m Movie) String() string {
	return fmt.Sprintf("%s (%s, %s)", m.Title, m.Director, m.DisplayFormat)
}
