package httpgin

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/romankud/kinotix/internal/domain"
)

const dateLayout = "2006-01-02"

type CreateCinemaRequest struct {
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address" binding:"required"`
	PhoneNumber   string `json:"phone_number"`
	FacebookLink  string `json:"facebook_social_link"`
	InstagramLink string `json:"instagram_social_link"`
	YoutubeLink   string `json:"youtube_social_link"`
}

type CreateHallRequest struct {
	CinemaID int64  `json:"cinema_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	// SeatLayout element i is the number of seats in row i+1.
	SeatLayout []int `json:"seat_layout" binding:"required,min=1"`
}

type CreateHallResponse struct {
	Hall  domain.Hall `json:"hall"`
	Seats int         `json:"seats_created"`
}

type CreateMovieRequest struct {
	Title           string  `json:"title" binding:"required"`
	Director        string  `json:"director" binding:"required"`
	DisplayFormat   string  `json:"display_format"`
	ReleaseDate     string  `json:"release_date"`
	Description     string  `json:"description"`
	AgeRating       string  `json:"age_rating"`
	IMDBRating      float64 `json:"imdb_rating"`
	IMDBLink        string  `json:"imdb_link"`
	RentStartDate   string  `json:"rent_start_date" binding:"required"`
	RentEndDate     string  `json:"rent_end_date" binding:"required"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,gt=0"`
}

type CreateSessionRequest struct {
	HallID    int64  `json:"hall_id" binding:"required"`
	MovieID   int64  `json:"movie_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Price     string `json:"price" binding:"required"`
}

type CreateSessionResponse struct {
	Session    domain.ScreeningSession `json:"screening_session"`
	EndTime    domain.TimeOfDay        `json:"end_time"`
	Screenings int                     `json:"screenings_created"`
	Tickets    int                     `json:"tickets_created"`
}

type RegisterUserRequest struct {
	Email string `json:"email" binding:"required"`
}

type AddToCartRequest struct {
	TicketID int64 `json:"ticket_id" binding:"required"`
}

type BuyTicketResponse struct {
	OrderID   int64                 `json:"order_id"`
	Operation domain.OrderOperation `json:"operation"`
}

type TotalSpentResponse struct {
	TotalSpent decimal.Decimal `json:"total_spent"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
