package httpgin

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romankud/kinotix/internal/service/account"
	"github.com/romankud/kinotix/internal/service/catalog"
	"github.com/romankud/kinotix/internal/service/ordering"
	"github.com/romankud/kinotix/internal/service/query"
	"github.com/romankud/kinotix/internal/service/scheduling"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErr_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{name: "ticket sold", err: ordering.ErrTicketSold, status: http.StatusConflict, body: "Ticket can't be added to cart, it's already sold"},
		{name: "already in cart", err: ordering.ErrAlreadyInCart, status: http.StatusConflict, body: "Ticket is already in the cart"},
		{name: "already returned", err: ordering.ErrAlreadyReturned, status: http.StatusConflict, body: "Ticket is already returned"},
		{name: "screening in past", err: ordering.ErrScreeningInPast, status: http.StatusBadRequest, body: "Screening session in past"},
		{name: "screening started", err: ordering.ErrScreeningStarted, status: http.StatusBadRequest, body: "Funds can't be returned. Screening session already started."},
		{name: "insufficient funds", err: ordering.ErrInsufficientFunds, status: http.StatusBadRequest, body: "insufficient funds"},
		{name: "order not found", err: ordering.ErrOrderNotFound, status: http.StatusNotFound, body: "order not found"},
		{name: "rate limited", err: ordering.ErrRateLimited, status: http.StatusTooManyRequests, body: "too many requests"},
		{name: "email taken", err: account.ErrEmailTaken, status: http.StatusConflict, body: "email is already registered"},
		{name: "cinema conflict", err: catalog.ErrCinemaConflict, status: http.StatusConflict, body: catalog.ErrCinemaConflict.Error()},
		{name: "cinema not found", err: catalog.ErrCinemaNotFound, status: http.StatusNotFound, body: catalog.ErrCinemaNotFound.Error()},
		{name: "movie conflict", err: scheduling.ErrMovieConflict, status: http.StatusConflict, body: scheduling.ErrMovieConflict.Error()},
		{name: "hall not found", err: scheduling.ErrHallNotFound, status: http.StatusNotFound, body: scheduling.ErrHallNotFound.Error()},
		{name: "screening not found", err: query.ErrScreeningNotFound, status: http.StatusNotFound, body: query.ErrScreeningNotFound.Error()},
		{
			name:   "validation error",
			err:    &scheduling.ValidationError{Field: "start_time", Message: "Session time is already booked"},
			status: http.StatusBadRequest,
			body:   "Session time is already booked",
		},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, body: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			// services wrap sentinels with an op prefix; the mapping must
			// survive that
			respondErr(c, fmt.Errorf("service.test:%w", tt.err))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestIdentityAndRequireBuyer(t *testing.T) {
	r := gin.New()
	r.Use(IdentityMiddleware())
	r.GET("/whoami", RequireBuyer(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"buyer": buyerID(c)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid id", header: "42", status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not a number", header: "bob", status: http.StatusUnauthorized},
		{name: "non-positive", header: "0", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("X-User-ID", tt.header)
			}
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"buyer":42`)
			}
		})
	}
}

func TestWriteJSONWithCache_ETag(t *testing.T) {
	r := gin.New()
	r.GET("/data", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, gin.H{"v": 1}, "public, max-age=60", true)
	})

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))

	// replay with If-None-Match
	req = httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	_, err = parseDate("10.06.2026")
	assert.Error(t, err)
}
