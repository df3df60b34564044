// Package ordering implements the ticket purchase lifecycle: a ticket moves
// through NONE -> IN_CART -> PURCHASED -> RETURNED per buyer, with each
// transition recorded as an order row and the buyer balance acting as the
// payment ledger.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/queue"
	"github.com/romankud/kinotix/internal/repository"
)

type Cache interface {
	InvalidateScreening(ctx context.Context, screeningID int64) error
}

type Events interface {
	PublishScreeningChanged(ctx context.Context, screeningID int64) error
}

type Notifier interface {
	TicketPurchased(ctx context.Context, ev queue.TicketEvent) error
	TicketReturned(ctx context.Context, ev queue.TicketEvent) error
}

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int64, time.Duration, error)
}

type Service struct {
	store    repository.OrderingStore
	cache    Cache
	events   Events
	notifier Notifier
	limiter  Limiter
	now      func() time.Time
}

// New wires the ordering service. cache, events, notifier and limiter are
// optional; a nil value disables the concern.
func New(store repository.OrderingStore, cache Cache, events Events, notifier Notifier, limiter Limiter) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		events:   events,
		notifier: notifier,
		limiter:  limiter,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests use it to move screenings into
// the past or future deterministically.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AddToCart records an ADD_TO_CART order for the buyer.
//
// Returns:
//   - ordering.ErrTicketNotFound when the ticket does not exist.
//   - ordering.ErrTicketSold when the ticket is already sold.
//   - ordering.ErrScreeningInPast when the screening already happened.
//   - ordering.ErrAlreadyInCart when the (buyer, ticket, ADD_TO_CART) row
//     already exists; only the unique constraint guards duplicates.
//   - ordering.ErrRateLimited when rlKey exceeded the sliding window.
func (s *Service) AddToCart(ctx context.Context, buyerID, ticketID int64, rlKey string) (*domain.Order, error) {
	const op = "service.ordering.AddToCart"

	if s.limiter != nil && rlKey != "" {
		ok, _, _, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w", op, ErrRateLimited)
		}
	}

	var order *domain.Order

	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.OrderingTx) error {
		ticket, err := tx.TicketWithScreening(ctx, ticketID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTicketNotFound
			}
			return err
		}

		if ticket.IsSold {
			return ErrTicketSold
		}

		if s.now().After(ticket.ScreeningDateTime) {
			return ErrScreeningInPast
		}

		order, err = tx.InsertOrder(ctx, buyerID, ticketID, domain.OpAddToCart)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAlreadyInCart
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return order, nil
}

// RemoveFromCart deletes the buyer's ADD_TO_CART order. A missing order is
// a silent no-op.
func (s *Service) RemoveFromCart(ctx context.Context, buyerID, orderID int64) error {
	const op = "service.ordering.RemoveFromCart"

	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.OrderingTx) error {
		return tx.DeleteCartOrder(ctx, orderID, buyerID)
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Buy settles a cart order: the existing order row flips to PURCHASE in
// place, the ticket is marked sold and the price is debited from the buyer.
//
// The order lookup is deliberately by id only, not scoped to the buyer;
// any authenticated user can pay for an order they know the id of. That
// mirrors the documented behavior of the original flow.
//
// Returns:
//   - ordering.ErrOrderNotFound when no order has this id.
//   - ordering.ErrInsufficientFunds when the price exceeds the balance.
//   - ordering.ErrScreeningInPast when the screening already happened.
func (s *Service) Buy(ctx context.Context, orderID, buyerID int64) error {
	const op = "service.ordering.Buy"

	var screeningID int64
	var event queue.TicketEvent

	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.OrderingTx) error {
		order, err := tx.Order(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		ticket, err := tx.TicketWithScreening(ctx, order.TicketID)
		if err != nil {
			return err
		}

		buyer, err := tx.User(ctx, buyerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBuyerNotFound
			}
			return err
		}

		if ticket.Price.GreaterThan(buyer.Balance) {
			return ErrInsufficientFunds
		}

		if s.now().After(ticket.ScreeningDateTime) {
			return ErrScreeningInPast
		}

		if err := tx.SetOrderOperation(ctx, order.ID, domain.OpPurchase); err != nil {
			return err
		}
		if err := tx.SetTicketSold(ctx, ticket.ID, true); err != nil {
			return err
		}
		if err := tx.AdjustBalance(ctx, buyerID, ticket.Price.Neg()); err != nil {
			return err
		}

		screeningID = ticket.ScreeningID
		event = queue.TicketEvent{
			OrderID:     order.ID,
			BuyerID:     buyerID,
			TicketID:    ticket.ID,
			ScreeningID: ticket.ScreeningID,
			Price:       ticket.Price.StringFixed(2),
			OccurredAt:  s.now().UTC(),
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.afterSaleChanged(ctx, screeningID)
	if s.notifier != nil {
		_ = s.notifier.TicketPurchased(ctx, event)
	}

	return nil
}

// Return reverses a purchase: a NEW order row records the RETURN (the
// PURCHASE row stays untouched), the ticket goes back on sale and the price
// is credited back.
//
// Returns:
//   - ordering.ErrOrderNotFound when no PURCHASE order with this id belongs
//     to the buyer.
//   - ordering.ErrAlreadyReturned when a RETURN row already exists for the
//     (buyer, ticket) pair.
//   - ordering.ErrScreeningStarted when the screening already started.
func (s *Service) Return(ctx context.Context, buyerID, orderID int64) (*domain.Order, error) {
	const op = "service.ordering.Return"

	var returnOrder *domain.Order
	var screeningID int64
	var event queue.TicketEvent

	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.OrderingTx) error {
		order, err := tx.OrderByBuyerAndOp(ctx, orderID, buyerID, domain.OpPurchase)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		returned, err := tx.HasOrder(ctx, buyerID, order.TicketID, domain.OpReturn)
		if err != nil {
			return err
		}
		if returned {
			return ErrAlreadyReturned
		}

		ticket, err := tx.TicketWithScreening(ctx, order.TicketID)
		if err != nil {
			return err
		}

		if ticket.ScreeningDateTime.Before(s.now()) {
			return ErrScreeningStarted
		}

		returnOrder, err = tx.InsertOrder(ctx, buyerID, order.TicketID, domain.OpReturn)
		if err != nil {
			return err
		}

		if err := tx.SetTicketSold(ctx, ticket.ID, false); err != nil {
			return err
		}
		if err := tx.AdjustBalance(ctx, buyerID, ticket.Price); err != nil {
			return err
		}

		screeningID = ticket.ScreeningID
		event = queue.TicketEvent{
			OrderID:     returnOrder.ID,
			BuyerID:     buyerID,
			TicketID:    ticket.ID,
			ScreeningID: ticket.ScreeningID,
			Price:       ticket.Price.StringFixed(2),
			OccurredAt:  s.now().UTC(),
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.afterSaleChanged(ctx, screeningID)
	if s.notifier != nil {
		_ = s.notifier.TicketReturned(ctx, event)
	}

	return returnOrder, nil
}

// Cart returns the buyer's ADD_TO_CART orders and the summed ticket price.
func (s *Service) Cart(ctx context.Context, buyerID int64) (*domain.Cart, error) {
	const op = "service.ordering.Cart"

	items, err := s.store.CartOrders(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Ticket.Price)
	}

	return &domain.Cart{Items: items, TotalPrice: total}, nil
}

// History returns the buyer's PURCHASE and RETURN orders in creation order.
func (s *Service) History(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	const op = "service.ordering.History"

	out, err := s.store.HistoryOrders(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// TotalSpent sums the ticket prices of the buyer's PURCHASE orders.
// Returned tickets are not subtracted: the figure is "total ever spent".
func (s *Service) TotalSpent(ctx context.Context, buyerID int64) (decimal.Decimal, error) {
	const op = "service.ordering.TotalSpent"

	total, err := s.store.TotalSpent(ctx, buyerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s:%w", op, err)
	}

	return total, nil
}

// afterSaleChanged runs the post-commit side effects of a sold/returned
// ticket: cache invalidation and the availability-changed broadcast. Both
// are best effort.
func (s *Service) afterSaleChanged(ctx context.Context, screeningID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateScreening(ctx, screeningID)
	}
	if s.events != nil {
		_ = s.events.PublishScreeningChanged(ctx, screeningID)
	}
}
