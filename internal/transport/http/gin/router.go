package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
	redisrepo "github.com/romankud/kinotix/internal/repository/redis"
	"github.com/romankud/kinotix/internal/service"
	"github.com/romankud/kinotix/internal/service/account"
	"github.com/romankud/kinotix/internal/service/catalog"
	"github.com/romankud/kinotix/internal/service/ordering"
	"github.com/romankud/kinotix/internal/service/query"
	"github.com/romankud/kinotix/internal/service/scheduling"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS(), IdentityMiddleware())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.POST("/users", handleRegisterUser(svcs))

	r.GET("/cinemas", handleListCinemas(svcs))
	r.GET("/cinemas/:id/halls", handleListHalls(svcs))
	r.GET("/halls/:id/seats", handleListSeats(svcs))

	r.GET("/movies", handleListMovies(svcs))
	r.GET("/movies/:id", handleGetMovie(svcs))

	r.GET("/screenings", handleListScreenings(svcs))
	r.GET("/screenings/:id", handleGetScreening(svcs))
	r.GET("/screenings/:id/tickets", handleListScreeningTickets(svcs))

	// Buyer API
	buyer := r.Group("/", RequireBuyer())
	{
		buyer.GET("/me", handleGetMe(svcs))
		buyer.GET("/cart", handleGetCart(svcs))
		buyer.POST("/cart", handleAddToCart(svcs))
		buyer.DELETE("/cart/:order_id", handleRemoveFromCart(svcs))
		buyer.POST("/orders/:id/buy", handleBuyTicket(svcs, idem))
		buyer.POST("/orders/:id/return", handleReturnTicket(svcs))
		buyer.GET("/orders/history", handleOrderHistory(svcs))
		buyer.GET("/orders/total-spent", handleTotalSpent(svcs))
	}

	// Admin-API
	// TODO: add admin middleware
	admin := r.Group("/admin")
	{
		admin.POST("/cinemas", handleCreateCinema(svcs))
		admin.POST("/halls", handleCreateHall(svcs))
		admin.POST("/movies", handleCreateMovie(svcs))
		admin.POST("/sessions", handleCreateSession(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Register user
// @Param    req body  RegisterUserRequest true "payload"
// @Success  201 {object} domain.User
// @Failure  409 {object} ErrorResponse
// @Router   /users [post]
func handleRegisterUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, err := svcs.Account.Register(c.Request.Context(), req.Email)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// @Summary  Current user
// @Success  200 {object} domain.User
// @Router   /me [get]
func handleGetMe(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svcs.Account.Get(c.Request.Context(), buyerID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// @Summary  List cinemas
// @Success  200 {array} domain.Cinema
// @Router   /cinemas [get]
func handleListCinemas(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Catalog.ListCinemas(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List halls of a cinema
// @Param    id  path  int  true  "Cinema ID"
// @Success  200 {array} domain.Hall
// @Failure  404 {object} ErrorResponse
// @Router   /cinemas/{id}/halls [get]
func handleListHalls(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cinemaID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Catalog.ListHalls(c.Request.Context(), cinemaID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List seats of a hall
// @Param    id  path  int  true  "Hall ID"
// @Success  200 {array} domain.Seat
// @Router   /halls/{id}/seats [get]
func handleListSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		hallID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Catalog.ListSeats(c.Request.Context(), hallID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List movies
// @Success  200 {array} domain.Movie
// @Router   /movies [get]
func handleListMovies(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Query.ListMovies(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  Get movie
// @Param    id  path  int  true  "Movie ID"
// @Success  200 {object} domain.Movie
// @Failure  404 {object} ErrorResponse
// @Router   /movies/{id} [get]
func handleGetMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movieID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		m, err := svcs.Query.Movie(c.Request.Context(), movieID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, m, "public, max-age=60", true)
	}
}

// @Summary  List screenings
// @Param    movie_id query int    false "Movie ID"
// @Param    date     query string false "Date YYYY-MM-DD"
// @Success  200 {array} domain.ScreeningDetail
// @Router   /screenings [get]
func handleListScreenings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f repository.ScreeningFilter

		if raw := c.Query("movie_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				badRequest(c, "invalid movie_id")
				return
			}
			f.MovieID = id
		}
		if raw := c.Query("date"); raw != "" {
			d, err := parseDate(raw)
			if err != nil {
				badRequest(c, "invalid date (YYYY-MM-DD)")
				return
			}
			f.Date = d
		}

		out, err := svcs.Query.ListScreenings(c.Request.Context(), f)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s (availability changes fast)
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  Get screening with availability
// @Param    id  path  int  true  "Screening ID"
// @Success  200 {object} domain.ScreeningDetail
// @Failure  404 {object} ErrorResponse
// @Router   /screenings/{id} [get]
func handleGetScreening(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		screeningID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		d, err := svcs.Query.Screening(c.Request.Context(), screeningID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, d, "public, max-age=15", true)
	}
}

// @Summary  List tickets of a screening
// @Param    id  path  int  true  "Screening ID"
// @Success  200 {array} domain.Ticket
// @Failure  404 {object} ErrorResponse
// @Router   /screenings/{id}/tickets [get]
func handleListScreeningTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		screeningID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Query.ScreeningTickets(c.Request.Context(), screeningID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  Get cart
// @Success  200 {object} domain.Cart
// @Router   /cart [get]
func handleGetCart(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svcs.Ordering.Cart(c.Request.Context(), buyerID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// @Summary  Add ticket to cart
// @Param    req body  AddToCartRequest true "payload"
// @Success  201 {object} domain.Order
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "ticket sold / already in cart"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /cart [post]
func handleAddToCart(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		rlKey := "ip:" + c.ClientIP()

		order, err := svcs.Ordering.AddToCart(c.Request.Context(), buyerID(c), req.TicketID, rlKey)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// @Summary  Remove ticket from cart
// @Param    order_id  path  int  true  "Order ID"
// @Success  204
// @Router   /cart/{order_id} [delete]
func handleRemoveFromCart(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseInt64Param(c, "order_id")
		if !ok {
			return
		}
		if err := svcs.Ordering.RemoveFromCart(c.Request.Context(), buyerID(c), orderID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Buy ticket (idempotent)
// @Param    id  path  int  true  "Order ID"
// @Header   200 {string} Idempotency-Key "echo"
// @Success  200 {object} BuyTicketResponse
// @Failure  400 {object} ErrorResponse "insufficient funds / screening in past"
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "idem in progress"
// @Router   /orders/{id}/buy [post]
func handleBuyTicket(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemPurchase(orderID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusOK,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusOK,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		if err := svcs.Ordering.Buy(c.Request.Context(), orderID, buyerID(c)); err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := BuyTicketResponse{OrderID: orderID, Operation: domain.OpPurchase}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Return ticket
// @Param    id  path  int  true  "Order ID of the purchase"
// @Success  201 {object} domain.Order
// @Failure  400 {object} ErrorResponse "screening started"
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "already returned"
// @Router   /orders/{id}/return [post]
func handleReturnTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		order, err := svcs.Ordering.Return(c.Request.Context(), buyerID(c), orderID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// @Summary  Purchase and return history
// @Success  200 {array} domain.Order
// @Router   /orders/history [get]
func handleOrderHistory(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Ordering.History(c.Request.Context(), buyerID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Total spent on purchases
// @Success  200 {object} TotalSpentResponse
// @Router   /orders/total-spent [get]
func handleTotalSpent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := svcs.Ordering.TotalSpent(c.Request.Context(), buyerID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, TotalSpentResponse{TotalSpent: total})
	}
}

// @Summary  Create cinema
// @Param    req body  CreateCinemaRequest true "payload"
// @Success  201 {object} domain.Cinema
// @Failure  409 {object} ErrorResponse
// @Router   /admin/cinemas [post]
func handleCreateCinema(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCinemaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		cinema, err := svcs.Catalog.CreateCinema(c.Request.Context(), catalog.CinemaInput{
			Name:          req.Name,
			Address:       req.Address,
			PhoneNumber:   req.PhoneNumber,
			FacebookLink:  req.FacebookLink,
			InstagramLink: req.InstagramLink,
			YoutubeLink:   req.YoutubeLink,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, cinema)
	}
}

// @Summary  Create hall with seats
// @Param    req body  CreateHallRequest true "payload"
// @Success  201 {object} CreateHallResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/halls [post]
func handleCreateHall(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateHallRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		hall, seats, err := svcs.Catalog.CreateHall(c.Request.Context(), req.CinemaID, req.Name, req.SeatLayout)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateHallResponse{Hall: *hall, Seats: len(seats)})
	}
}

// @Summary  Create movie
// @Param    req body  CreateMovieRequest true "payload"
// @Success  201 {object} domain.Movie
// @Failure  409 {object} ErrorResponse
// @Router   /admin/movies [post]
func handleCreateMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMovieRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		rentStart, err := parseDate(req.RentStartDate)
		if err != nil {
			badRequest(c, "invalid rent_start_date (YYYY-MM-DD)")
			return
		}
		rentEnd, err := parseDate(req.RentEndDate)
		if err != nil {
			badRequest(c, "invalid rent_end_date (YYYY-MM-DD)")
			return
		}

		var release time.Time
		if req.ReleaseDate != "" {
			release, err = parseDate(req.ReleaseDate)
			if err != nil {
				badRequest(c, "invalid release_date (YYYY-MM-DD)")
				return
			}
		}

		m, err := svcs.Scheduling.CreateMovie(c.Request.Context(), scheduling.MovieInput{
			Title:         req.Title,
			Director:      req.Director,
			DisplayFormat: domain.DisplayFormat(req.DisplayFormat),
			ReleaseDate:   release,
			Description:   req.Description,
			AgeRating:     req.AgeRating,
			IMDBRating:    req.IMDBRating,
			IMDBLink:      req.IMDBLink,
			RentStartDate: rentStart,
			RentEndDate:   rentEnd,
			Duration:      time.Duration(req.DurationMinutes) * time.Minute,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

// @Summary  Create screening session
// @Param    req body  CreateSessionRequest true "payload"
// @Success  201 {object} CreateSessionResponse
// @Failure  400 {object} ErrorResponse "validation / hall already booked"
// @Failure  404 {object} ErrorResponse
// @Router   /admin/sessions [post]
func handleCreateSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		startTime, err := domain.ParseTimeOfDay(req.StartTime)
		if err != nil {
			badRequest(c, "invalid start_time (HH:MM)")
			return
		}
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			badRequest(c, "invalid start_date (YYYY-MM-DD)")
			return
		}
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			badRequest(c, "invalid end_date (YYYY-MM-DD)")
			return
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			badRequest(c, "invalid price")
			return
		}

		res, err := svcs.Scheduling.CreateSession(c.Request.Context(), scheduling.SessionInput{
			HallID:    req.HallID,
			MovieID:   req.MovieID,
			StartTime: startTime,
			StartDate: startDate,
			EndDate:   endDate,
			Price:     price,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateSessionResponse{
			Session:    res.Session,
			EndTime:    res.EndTime,
			Screenings: res.Screenings,
			Tickets:    res.Tickets,
		})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var vErr *scheduling.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
		return
	}

	switch {
	// account service
	case errors.Is(err, account.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: account.ErrInvalidEmail.Error()})
	case errors.Is(err, account.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: account.ErrEmailTaken.Error()})
	case errors.Is(err, account.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: account.ErrUserNotFound.Error()})

	// catalog service
	case errors.Is(err, catalog.ErrCinemaConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: catalog.ErrCinemaConflict.Error()})
	case errors.Is(err, catalog.ErrHallConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: catalog.ErrHallConflict.Error()})
	case errors.Is(err, catalog.ErrCinemaNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: catalog.ErrCinemaNotFound.Error()})
	case errors.Is(err, catalog.ErrHallNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: catalog.ErrHallNotFound.Error()})
	case errors.Is(err, catalog.ErrEmptyLayout), errors.Is(err, catalog.ErrBadLayoutRow):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	// scheduling service
	case errors.Is(err, scheduling.ErrMovieConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: scheduling.ErrMovieConflict.Error()})
	case errors.Is(err, scheduling.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: scheduling.ErrMovieNotFound.Error()})
	case errors.Is(err, scheduling.ErrHallNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: scheduling.ErrHallNotFound.Error()})

	// ordering service
	case errors.Is(err, ordering.ErrTicketSold):
		c.JSON(http.StatusConflict, ErrorResponse{Error: ordering.ErrTicketSold.Error()})
	case errors.Is(err, ordering.ErrAlreadyInCart):
		c.JSON(http.StatusConflict, ErrorResponse{Error: ordering.ErrAlreadyInCart.Error()})
	case errors.Is(err, ordering.ErrAlreadyReturned):
		c.JSON(http.StatusConflict, ErrorResponse{Error: ordering.ErrAlreadyReturned.Error()})
	case errors.Is(err, ordering.ErrScreeningInPast):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ordering.ErrScreeningInPast.Error()})
	case errors.Is(err, ordering.ErrScreeningStarted):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ordering.ErrScreeningStarted.Error()})
	case errors.Is(err, ordering.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ordering.ErrInsufficientFunds.Error()})
	case errors.Is(err, ordering.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: ordering.ErrTicketNotFound.Error()})
	case errors.Is(err, ordering.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: ordering.ErrOrderNotFound.Error()})
	case errors.Is(err, ordering.ErrBuyerNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: ordering.ErrBuyerNotFound.Error()})
	case errors.Is(err, ordering.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: ordering.ErrRateLimited.Error()})

	// query service
	case errors.Is(err, query.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: query.ErrMovieNotFound.Error()})
	case errors.Is(err, query.ErrScreeningNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: query.ErrScreeningNotFound.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
