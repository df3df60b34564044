package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
)

type OrderingRepo struct {
	store *Store
	db    DB
}

func (r *OrderingRepo) With(db DB) *OrderingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.store.pool
}

// InTx runs fn with a transaction-bound copy of the repo. State transitions
// of the cart/purchase/return machine touch tickets, orders and balances in
// one atomic unit.
func (r *OrderingRepo) InTx(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.OrderingTx) error,
) error {
	return r.store.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
		return fn(ctx, r.With(tx))
	})
}

func (r *OrderingRepo) TicketWithScreening(ctx context.Context, ticketID int64) (*domain.TicketWithScreening, error) {
	const op = "postgres.OrderingRepo.TicketWithScreening"

	db := r.handle()

	var (
		t         domain.TicketWithScreening
		startSecs int32
	)
	err := db.QueryRow(ctx,
		`SELECT t.id, t.screening_id, t.seat_id, t.price, t.is_sold,
		        sc.screening_date, ss.start_time_secs
		 FROM tickets t
		 JOIN screenings sc ON sc.id = t.screening_id
		 JOIN screening_sessions ss ON ss.id = sc.session_id
		 WHERE t.id = $1`,
		ticketID,
	).Scan(&t.ID, &t.ScreeningID, &t.SeatID, &t.Price, &t.IsSold,
		&t.ScreeningDateTime, &startSecs)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	t.ScreeningDateTime = domain.ScreeningDateTime(t.ScreeningDateTime, domain.TimeOfDay(startSecs))

	return &t, nil
}

func (r *OrderingRepo) Order(ctx context.Context, orderID int64) (*domain.Order, error) {
	const op = "postgres.OrderingRepo.Order"

	db := r.handle()

	var o domain.Order
	err := db.QueryRow(ctx,
		`SELECT id, buyer_id, ticket_id, operation, created_at
		 FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.BuyerID, &o.TicketID, &o.Operation, &o.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &o, nil
}

func (r *OrderingRepo) OrderByBuyerAndOp(
	ctx context.Context,
	orderID, buyerID int64,
	op domain.OrderOperation,
) (*domain.Order, error) {
	const fnOp = "postgres.OrderingRepo.OrderByBuyerAndOp"

	db := r.handle()

	var o domain.Order
	err := db.QueryRow(ctx,
		`SELECT id, buyer_id, ticket_id, operation, created_at
		 FROM orders
		 WHERE id = $1 AND buyer_id = $2 AND operation = $3`,
		orderID, buyerID, string(op),
	).Scan(&o.ID, &o.BuyerID, &o.TicketID, &o.Operation, &o.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(fnOp, err)
	}

	return &o, nil
}

func (r *OrderingRepo) HasOrder(
	ctx context.Context,
	buyerID, ticketID int64,
	op domain.OrderOperation,
) (bool, error) {
	const fnOp = "postgres.OrderingRepo.HasOrder"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM orders
		   WHERE buyer_id = $1 AND ticket_id = $2 AND operation = $3
		 )`,
		buyerID, ticketID, string(op),
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(fnOp, err)
	}

	return exists, nil
}

func (r *OrderingRepo) InsertOrder(
	ctx context.Context,
	buyerID, ticketID int64,
	op domain.OrderOperation,
) (*domain.Order, error) {
	const fnOp = "postgres.OrderingRepo.InsertOrder"

	db := r.handle()

	o := domain.Order{
		BuyerID:   buyerID,
		TicketID:  ticketID,
		Operation: op,
	}
	err := db.QueryRow(ctx,
		`INSERT INTO orders(buyer_id, ticket_id, operation)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		buyerID, ticketID, string(op),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(fnOp, err)
	}

	return &o, nil
}

// DeleteCartOrder removes an ADD_TO_CART order scoped to the buyer. Deleting
// a row that does not exist is not an error.
func (r *OrderingRepo) DeleteCartOrder(ctx context.Context, orderID, buyerID int64) error {
	const op = "postgres.OrderingRepo.DeleteCartOrder"

	db := r.handle()

	_, err := db.Exec(ctx,
		`DELETE FROM orders
		 WHERE id = $1 AND buyer_id = $2 AND operation = $3`,
		orderID, buyerID, string(domain.OpAddToCart),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *OrderingRepo) SetOrderOperation(ctx context.Context, orderID int64, op domain.OrderOperation) error {
	const fnOp = "postgres.OrderingRepo.SetOrderOperation"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE orders SET operation = $2 WHERE id = $1`,
		orderID, string(op),
	)
	if err != nil {
		return wrapDBErr(fnOp, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(fnOp, repository.ErrNotFound)
	}

	return nil
}

func (r *OrderingRepo) SetTicketSold(ctx context.Context, ticketID int64, sold bool) error {
	const op = "postgres.OrderingRepo.SetTicketSold"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE tickets SET is_sold = $2 WHERE id = $1`,
		ticketID, sold,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *OrderingRepo) User(ctx context.Context, id int64) (*domain.User, error) {
	const op = "postgres.OrderingRepo.User"

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

func (r *OrderingRepo) AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) error {
	const op = "postgres.OrderingRepo.AdjustBalance"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE users SET balance = balance + $2 WHERE id = $1`,
		userID, delta,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *OrderingRepo) CartOrders(ctx context.Context, buyerID int64) ([]domain.CartItem, error) {
	const op = "postgres.OrderingRepo.CartOrders"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT o.id, t.id, t.price, sc.screening_date, ss.start_time_secs
		 FROM orders o
		 JOIN tickets t ON t.id = o.ticket_id
		 JOIN screenings sc ON sc.id = t.screening_id
		 JOIN screening_sessions ss ON ss.id = sc.session_id
		 WHERE o.buyer_id = $1 AND o.operation = $2
		 ORDER BY o.id`,
		buyerID, string(domain.OpAddToCart),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.CartItem
	for rows.Next() {
		var (
			item      domain.CartItem
			startSecs int32
		)
		if err := rows.Scan(&item.OrderID, &item.Ticket.ID, &item.Ticket.Price,
			&item.Ticket.ScreeningDateTime, &startSecs); err != nil {
			return nil, wrapDBErr(op, err)
		}
		item.Ticket.ScreeningDateTime = domain.ScreeningDateTime(
			item.Ticket.ScreeningDateTime, domain.TimeOfDay(startSecs),
		)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *OrderingRepo) HistoryOrders(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	const op = "postgres.OrderingRepo.HistoryOrders"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, buyer_id, ticket_id, operation, created_at
		 FROM orders
		 WHERE buyer_id = $1 AND operation = ANY($2)
		 ORDER BY created_at, id`,
		buyerID, []string{string(domain.OpPurchase), string(domain.OpReturn)},
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.TicketID, &o.Operation, &o.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// TotalSpent sums ticket prices over PURCHASE orders only. Returned tickets
// are deliberately not subtracted; the figure reads as "total ever spent".
func (r *OrderingRepo) TotalSpent(ctx context.Context, buyerID int64) (decimal.Decimal, error) {
	const op = "postgres.OrderingRepo.TotalSpent"

	db := r.handle()

	var total decimal.Decimal
	err := db.QueryRow(ctx,
		`SELECT COALESCE(SUM(t.price), 0)
		 FROM orders o
		 JOIN tickets t ON t.id = o.ticket_id
		 WHERE o.buyer_id = $1 AND o.operation = $2`,
		buyerID, string(domain.OpPurchase),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, wrapDBErr(op, err)
	}

	return total, nil
}
