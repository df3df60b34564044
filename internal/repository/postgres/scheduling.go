package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
)

type SchedulingRepo struct {
	store *Store
	db    DB
}

func (r *SchedulingRepo) With(db DB) *SchedulingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *SchedulingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.store.pool
}

// InTx binds the repo to a serializable transaction so the overlap check and
// the session/screening/ticket inserts observe one snapshot.
func (r *SchedulingRepo) InTx(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.SchedulingTx) error,
) error {
	return r.store.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
		return fn(ctx, r.With(tx))
	})
}

func (r *SchedulingRepo) CreateMovie(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	const op = "postgres.SchedulingRepo.CreateMovie"

	db := r.handle()

	out := *m
	err := db.QueryRow(ctx,
		`INSERT INTO movies(title, director, display_format, release_date, description,
		                    age_rating, imdb_rating, imdb_link,
		                    rent_start_date, rent_end_date, duration_secs)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		m.Title, m.Director, string(m.DisplayFormat), m.ReleaseDate, m.Description,
		m.AgeRating, m.IMDBRating, m.IMDBLink,
		m.RentStartDate, m.RentEndDate, int64(m.Duration.Seconds()),
	).Scan(&out.ID)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *SchedulingRepo) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "postgres.SchedulingRepo.Movie"

	db := r.handle()

	m, err := scanMovie(db.QueryRow(ctx, movieSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return m, nil
}

func (r *SchedulingRepo) HallExists(ctx context.Context, hallID int64) (bool, error) {
	const op = "postgres.SchedulingRepo.HallExists"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM halls WHERE id = $1)`,
		hallID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

// IntersectingSessions fetches same-hall sessions whose date ranges touch
// [startDate, endDate] inclusively, with the movie runtime needed to derive
// each session's end time.
func (r *SchedulingRepo) IntersectingSessions(
	ctx context.Context,
	hallID int64,
	startDate, endDate time.Time,
) ([]domain.SessionInterval, error) {
	const op = "postgres.SchedulingRepo.IntersectingSessions"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT s.id, s.start_time_secs, m.duration_secs
		 FROM screening_sessions s
		 JOIN movies m ON m.id = s.movie_id
		 WHERE s.hall_id = $1
		   AND s.start_date <= $3
		   AND s.end_date >= $2`,
		hallID, startDate, endDate,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.SessionInterval
	for rows.Next() {
		var (
			iv       domain.SessionInterval
			startSec int32
			durSec   int64
		)
		if err := rows.Scan(&iv.SessionID, &startSec, &durSec); err != nil {
			return nil, wrapDBErr(op, err)
		}
		iv.StartTime = domain.TimeOfDay(startSec)
		iv.MovieDuration = time.Duration(durSec) * time.Second
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *SchedulingRepo) SeatIDs(ctx context.Context, hallID int64) ([]int64, error) {
	const op = "postgres.SchedulingRepo.SeatIDs"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id FROM seats WHERE hall_id = $1 ORDER BY "row", number`,
		hallID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *SchedulingRepo) InsertSession(ctx context.Context, s *domain.ScreeningSession) (int64, error) {
	const op = "postgres.SchedulingRepo.InsertSession"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO screening_sessions(hall_id, movie_id, start_time_secs, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		s.HallID, s.MovieID, int32(s.StartTime), s.StartDate, s.EndDate,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *SchedulingRepo) InsertScreening(ctx context.Context, sessionID int64, date time.Time) (int64, error) {
	const op = "postgres.SchedulingRepo.InsertScreening"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO screenings(session_id, screening_date)
		 VALUES ($1, $2)
		 RETURNING id`,
		sessionID, date,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// BulkInsertTickets materializes the seat grid of one screening in a single
// batch round trip.
func (r *SchedulingRepo) BulkInsertTickets(
	ctx context.Context,
	screeningID int64,
	seatIDs []int64,
	price decimal.Decimal,
) error {
	const op = "postgres.SchedulingRepo.BulkInsertTickets"

	db := r.handle()

	batch := &pgx.Batch{}
	for _, seatID := range seatIDs {
		batch.Queue(
			`INSERT INTO tickets(screening_id, seat_id, price, is_sold)
			 VALUES ($1, $2, $3, FALSE)`,
			screeningID, seatID, price,
		)
	}

	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

const movieSelect = `SELECT id, title, director, display_format, release_date, description,
       age_rating, imdb_rating, imdb_link, rent_start_date, rent_end_date, duration_secs
  FROM movies`

func scanMovie(row pgx.Row) (*domain.Movie, error) {
	var (
		m       domain.Movie
		format  string
		durSecs int64
	)

	err := row.Scan(&m.ID, &m.Title, &m.Director, &format, &m.ReleaseDate, &m.Description,
		&m.AgeRating, &m.IMDBRating, &m.IMDBLink, &m.RentStartDate, &m.RentEndDate, &durSecs)
	if err != nil {
		return nil, err
	}

	m.DisplayFormat = domain.DisplayFormat(format)
	m.Duration = time.Duration(durSecs) * time.Second

	return &m, nil
}
