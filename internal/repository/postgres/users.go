package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/romankud/kinotix/internal/domain"
)

type UserRepo struct {
	store *Store
	db    DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.store.pool
}

func (r *UserRepo) CreateUser(ctx context.Context, email string, balance decimal.Decimal) (*domain.User, error) {
	const op = "postgres.UserRepo.CreateUser"

	db := r.handle()

	u := domain.User{Email: email, Balance: balance}
	err := db.QueryRow(ctx,
		`INSERT INTO users(email, balance)
		 VALUES ($1, $2)
		 RETURNING id`,
		email, balance,
	).Scan(&u.ID)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &u, nil
}

func (r *UserRepo) User(ctx context.Context, id int64) (*domain.User, error) {
	const op = "postgres.UserRepo.User"

	db := r.handle()

	var u domain.User
	err := db.QueryRow(ctx,
		`SELECT id, email, balance FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Balance)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &u, nil
}
