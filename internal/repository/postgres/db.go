package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the query surface shared by the pool and an open transaction, so a
// repo bound with With(tx) runs the same code inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// RunTx executes fn inside a transaction, serializable by default. The
// purchase/return flow mutates ticket flags and user balances together, and
// session creation interleaves an overlap check with inserts; serializable
// isolation is what keeps concurrent attempts from both committing.
func (s *Store) RunTx(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx DB) error,
) error {
	txOpts := pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	}

	if opts != nil {
		txOpts = *opts
	}

	tx, err := s.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Store) Catalog() *CatalogRepo       { return &CatalogRepo{store: s} }
func (s *Store) Scheduling() *SchedulingRepo { return &SchedulingRepo{store: s} }
func (s *Store) Ordering() *OrderingRepo     { return &OrderingRepo{store: s} }
func (s *Store) Users() *UserRepo            { return &UserRepo{store: s} }

// Query builds the read-side repo. The session break is needed to derive
// screening end times, which live nowhere in the schema.
func (s *Store) Query(sessionBreak time.Duration) *QueryRepo {
	return &QueryRepo{store: s, sessionBreak: sessionBreak}
}
