package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/romankud/kinotix/internal/domain"
)

type CatalogRepo struct {
	store *Store
	db    DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.store.pool
}

func (r *CatalogRepo) CreateCinema(ctx context.Context, c *domain.Cinema) (*domain.Cinema, error) {
	const op = "postgres.CatalogRepo.CreateCinema"

	db := r.handle()

	out := *c
	err := db.QueryRow(ctx,
		`INSERT INTO cinemas(name, address, phone_number,
		                     facebook_social_link, instagram_social_link, youtube_social_link)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		c.Name, c.Address, c.PhoneNumber,
		c.FacebookLink, c.InstagramLink, c.YoutubeLink,
	).Scan(&out.ID)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *CatalogRepo) GetCinema(ctx context.Context, id int64) (*domain.Cinema, error) {
	const op = "postgres.CatalogRepo.GetCinema"

	db := r.handle()

	var c domain.Cinema
	err := db.QueryRow(ctx,
		`SELECT id, name, address, phone_number,
		        facebook_social_link, instagram_social_link, youtube_social_link
		 FROM cinemas WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Address, &c.PhoneNumber,
		&c.FacebookLink, &c.InstagramLink, &c.YoutubeLink)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &c, nil
}

func (r *CatalogRepo) ListCinemas(ctx context.Context) ([]domain.Cinema, error) {
	const op = "postgres.CatalogRepo.ListCinemas"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, address, phone_number,
		        facebook_social_link, instagram_social_link, youtube_social_link
		 FROM cinemas
		 ORDER BY id`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Cinema
	for rows.Next() {
		var c domain.Cinema
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.PhoneNumber,
			&c.FacebookLink, &c.InstagramLink, &c.YoutubeLink); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// CreateHallWithSeats inserts the hall and its seat grid atomically. Seats
// come pre-expanded from the layout descriptor; the hall is the snapshot
// source for every future ticket grid, so a half-created hall must never be
// visible.
func (r *CatalogRepo) CreateHallWithSeats(
	ctx context.Context,
	h *domain.Hall,
	seats []domain.Seat,
) (*domain.Hall, error) {
	const op = "postgres.CatalogRepo.CreateHallWithSeats"

	out := *h
	err := r.store.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM cinemas WHERE id = $1)`,
			h.CinemaID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO halls(cinema_id, name)
			 VALUES ($1, $2)
			 RETURNING id`,
			h.CinemaID, h.Name,
		).Scan(&out.ID); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, s := range seats {
			batch.Queue(
				`INSERT INTO seats(hall_id, "row", number)
				 VALUES ($1, $2, $3)`,
				out.ID, s.Row, s.Number,
			)
		}

		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *CatalogRepo) ListHalls(ctx context.Context, cinemaID int64) ([]domain.Hall, error) {
	const op = "postgres.CatalogRepo.ListHalls"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, cinema_id, name
		 FROM halls
		 WHERE cinema_id = $1
		 ORDER BY id`,
		cinemaID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Hall
	for rows.Next() {
		var h domain.Hall
		if err := rows.Scan(&h.ID, &h.CinemaID, &h.Name); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) ListSeats(ctx context.Context, hallID int64) ([]domain.Seat, error) {
	const op = "postgres.CatalogRepo.ListSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, hall_id, "row", number
		 FROM seats
		 WHERE hall_id = $1
		 ORDER BY "row", number`,
		hallID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.HallID, &s.Row, &s.Number); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
