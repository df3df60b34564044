package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
)

// QueryRepo serves the read side: movie and screening listings with the
// derived fields (screening instant, session end time, unsold count) the
// write model never stores.
type QueryRepo struct {
	store        *Store
	sessionBreak time.Duration
	db           DB
}

func (r *QueryRepo) With(db DB) *QueryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *QueryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.store.pool
}

func (r *QueryRepo) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	const op = "postgres.QueryRepo.ListMovies"

	db := r.handle()

	rows, err := db.Query(ctx, movieSelect+` ORDER BY id`)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *QueryRepo) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "postgres.QueryRepo.Movie"

	db := r.handle()

	m, err := scanMovie(db.QueryRow(ctx, movieSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return m, nil
}

const screeningSelect = `SELECT sc.id, sc.session_id, sc.screening_date,
       ss.hall_id, ss.movie_id, ss.start_time_secs, ss.end_date,
       m.duration_secs,
       (SELECT COUNT(*) FROM tickets t WHERE t.screening_id = sc.id AND NOT t.is_sold)
  FROM screenings sc
  JOIN screening_sessions ss ON ss.id = sc.session_id
  JOIN movies m ON m.id = ss.movie_id`

func (r *QueryRepo) scanScreening(row pgx.Row) (*domain.ScreeningDetail, error) {
	var (
		d         domain.ScreeningDetail
		startSecs int32
		durSecs   int64
	)

	err := row.Scan(&d.ID, &d.SessionID, &d.Date,
		&d.HallID, &d.MovieID, &startSecs, &d.SessionEndDate,
		&durSecs, &d.AvailableTickets)
	if err != nil {
		return nil, err
	}

	d.StartTime = domain.TimeOfDay(startSecs)
	d.ScreeningDateTime = domain.ScreeningDateTime(d.Date, d.StartTime)
	d.ScreeningEndTime = domain.ScreeningSession{StartTime: d.StartTime}.
		EndTime(time.Duration(durSecs)*time.Second, r.sessionBreak)

	return &d, nil
}

func (r *QueryRepo) Screening(ctx context.Context, id int64) (*domain.ScreeningDetail, error) {
	const op = "postgres.QueryRepo.Screening"

	db := r.handle()

	d, err := r.scanScreening(db.QueryRow(ctx, screeningSelect+` WHERE sc.id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return d, nil
}

func (r *QueryRepo) ListScreenings(ctx context.Context, f repository.ScreeningFilter) ([]domain.ScreeningDetail, error) {
	const op = "postgres.QueryRepo.ListScreenings"

	db := r.handle()

	sql := screeningSelect
	var (
		args  []any
		where []string
	)
	if f.MovieID != 0 {
		args = append(args, f.MovieID)
		where = append(where, "ss.movie_id = $"+strconv.Itoa(len(args)))
	}
	if !f.Date.IsZero() {
		args = append(args, f.Date)
		where = append(where, "sc.screening_date = $"+strconv.Itoa(len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			sql += " WHERE " + cond
		} else {
			sql += " AND " + cond
		}
	}
	sql += " ORDER BY sc.screening_date, ss.start_time_secs, sc.id"

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.ScreeningDetail
	for rows.Next() {
		d, err := r.scanScreening(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *QueryRepo) ScreeningTickets(ctx context.Context, screeningID int64) ([]domain.Ticket, error) {
	const op = "postgres.QueryRepo.ScreeningTickets"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, screening_id, seat_id, price, is_sold
		 FROM tickets
		 WHERE screening_id = $1
		 ORDER BY seat_id`,
		screeningID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.ScreeningID, &t.SeatID, &t.Price, &t.IsSold); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
