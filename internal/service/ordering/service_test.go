package ordering

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
)

// fakeOrderingStore implements repository.OrderingStore and
// repository.OrderingTx over in-memory maps. InTx just runs the callback;
// atomicity is the production store's concern.
type fakeOrderingStore struct {
	tickets map[int64]*domain.TicketWithScreening
	orders  map[int64]*domain.Order
	users   map[int64]*domain.User
	nextID  int64
	now     time.Time
}

func newFakeOrderingStore() *fakeOrderingStore {
	return &fakeOrderingStore{
		tickets: make(map[int64]*domain.TicketWithScreening),
		orders:  make(map[int64]*domain.Order),
		users:   make(map[int64]*domain.User),
	}
}

func (f *fakeOrderingStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeOrderingStore) addUser(balance string) int64 {
	id := f.id()
	f.users[id] = &domain.User{ID: id, Balance: decimal.RequireFromString(balance)}
	return id
}

func (f *fakeOrderingStore) addTicket(price string, screeningAt time.Time) int64 {
	id := f.id()
	f.tickets[id] = &domain.TicketWithScreening{
		Ticket: domain.Ticket{
			ID:          id,
			ScreeningID: 1,
			Price:       decimal.RequireFromString(price),
		},
		ScreeningDateTime: screeningAt,
	}
	return id
}

func (f *fakeOrderingStore) InTx(ctx context.Context, fn func(ctx context.Context, tx repository.OrderingTx) error) error {
	return fn(ctx, f)
}

func (f *fakeOrderingStore) TicketWithScreening(ctx context.Context, ticketID int64) (*domain.TicketWithScreening, error) {
	tk, ok := f.tickets[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return tk, nil
}

func (f *fakeOrderingStore) Order(ctx context.Context, orderID int64) (*domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderingStore) OrderByBuyerAndOp(ctx context.Context, orderID, buyerID int64, op domain.OrderOperation) (*domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok || o.BuyerID != buyerID || o.Operation != op {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderingStore) HasOrder(ctx context.Context, buyerID, ticketID int64, op domain.OrderOperation) (bool, error) {
	for _, o := range f.orders {
		if o.BuyerID == buyerID && o.TicketID == ticketID && o.Operation == op {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderingStore) InsertOrder(ctx context.Context, buyerID, ticketID int64, op domain.OrderOperation) (*domain.Order, error) {
	if ok, _ := f.HasOrder(ctx, buyerID, ticketID, op); ok {
		return nil, repository.ErrConflict
	}

	o := &domain.Order{
		ID:        f.id(),
		BuyerID:   buyerID,
		TicketID:  ticketID,
		Operation: op,
		CreatedAt: f.now,
	}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrderingStore) DeleteCartOrder(ctx context.Context, orderID, buyerID int64) error {
	o, ok := f.orders[orderID]
	if ok && o.BuyerID == buyerID && o.Operation == domain.OpAddToCart {
		delete(f.orders, orderID)
	}
	return nil
}

func (f *fakeOrderingStore) SetOrderOperation(ctx context.Context, orderID int64, op domain.OrderOperation) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.Operation = op
	return nil
}

func (f *fakeOrderingStore) SetTicketSold(ctx context.Context, ticketID int64, sold bool) error {
	tk, ok := f.tickets[ticketID]
	if !ok {
		return repository.ErrNotFound
	}
	tk.IsSold = sold
	return nil
}

func (f *fakeOrderingStore) User(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeOrderingStore) AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) error {
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Balance = u.Balance.Add(delta)
	return nil
}

func (f *fakeOrderingStore) CartOrders(ctx context.Context, buyerID int64) ([]domain.CartItem, error) {
	var out []domain.CartItem
	for _, o := range f.orders {
		if o.BuyerID != buyerID || o.Operation != domain.OpAddToCart {
			continue
		}
		tk := f.tickets[o.TicketID]
		out = append(out, domain.CartItem{
			OrderID: o.ID,
			Ticket: domain.CartTicket{
				ID:                tk.ID,
				Price:             tk.Price,
				ScreeningDateTime: tk.ScreeningDateTime,
			},
		})
	}
	return out, nil
}

func (f *fakeOrderingStore) HistoryOrders(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.BuyerID != buyerID {
			continue
		}
		if o.Operation == domain.OpPurchase || o.Operation == domain.OpReturn {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderingStore) TotalSpent(ctx context.Context, buyerID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range f.orders {
		if o.BuyerID == buyerID && o.Operation == domain.OpPurchase {
			total = total.Add(f.tickets[o.TicketID].Price)
		}
	}
	return total, nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(ctx context.Context, key string) (bool, int64, time.Duration, error) {
	return false, 0, time.Minute, nil
}

var testNow = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func setupOrdering(t *testing.T) (*Service, *fakeOrderingStore) {
	t.Helper()

	store := newFakeOrderingStore()
	store.now = testNow

	svc := New(store, nil, nil, nil, nil).WithClock(func() time.Time { return testNow })
	return svc, store
}

func TestAddToCart(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OpAddToCart, order.Operation)
	assert.Equal(t, buyer, order.BuyerID)
	assert.Equal(t, ticket, order.TicketID)
}

func TestAddToCart_SoldTicket(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))
	store.tickets[ticket].IsSold = true

	_, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	assert.ErrorIs(t, err, ErrTicketSold)
	assert.EqualError(t, ErrTicketSold, "Ticket can't be added to cart, it's already sold")
}

func TestAddToCart_PastScreening(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(-time.Hour))

	_, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	assert.ErrorIs(t, err, ErrScreeningInPast)
}

func TestAddToCart_UnknownTicket(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")

	_, err := svc.AddToCart(context.Background(), buyer, 999, "")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestAddToCart_Duplicate(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	_, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)

	_, err = svc.AddToCart(context.Background(), buyer, ticket, "")
	assert.ErrorIs(t, err, ErrAlreadyInCart)
}

func TestAddToCart_RateLimited(t *testing.T) {
	_, store := setupOrdering(t)
	svc := New(store, nil, nil, nil, denyLimiter{}).WithClock(func() time.Time { return testNow })

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	_, err := svc.AddToCart(context.Background(), buyer, ticket, "ip:1.2.3.4")
	assert.ErrorIs(t, err, ErrRateLimited)

	// no key, limiter is skipped
	_, err = svc.AddToCart(context.Background(), buyer, ticket, "")
	assert.NoError(t, err)
}

func TestRemoveFromCart_SilentNoOp(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromCart(context.Background(), buyer, order.ID))
	assert.NotContains(t, store.orders, order.ID)

	// removing again, or removing a foreign id, reports nothing
	assert.NoError(t, svc.RemoveFromCart(context.Background(), buyer, order.ID))
	assert.NoError(t, svc.RemoveFromCart(context.Background(), buyer, 999))
}

func TestBuy(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)

	require.NoError(t, svc.Buy(context.Background(), order.ID, buyer))

	// order flipped in place, no second row
	assert.Equal(t, domain.OpPurchase, store.orders[order.ID].Operation)
	assert.Len(t, store.orders, 1)

	assert.True(t, store.tickets[ticket].IsSold)
	assert.Equal(t, "900.00", store.users[buyer].Balance.StringFixed(2))
}

func TestBuy_InsufficientFunds(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)

	err = svc.Buy(context.Background(), order.ID, buyer)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// nothing changed
	assert.Equal(t, "1.00", store.users[buyer].Balance.StringFixed(2))
	assert.False(t, store.tickets[ticket].IsSold)
	assert.Equal(t, domain.OpAddToCart, store.orders[order.ID].Operation)
}

func TestBuy_ExactBalance(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("100.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)

	require.NoError(t, svc.Buy(context.Background(), order.ID, buyer))
	assert.Equal(t, "0.00", store.users[buyer].Balance.StringFixed(2))
}

func TestBuy_PastScreening(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)

	// screening slips into the past between cart and purchase
	store.tickets[ticket].ScreeningDateTime = testNow.Add(-time.Minute)

	err = svc.Buy(context.Background(), order.ID, buyer)
	assert.ErrorIs(t, err, ErrScreeningInPast)
}

func TestBuy_UnknownOrder(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")

	err := svc.Buy(context.Background(), 999, buyer)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReturn_RoundTripRestoresEverything(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("250.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)
	require.NoError(t, svc.Buy(context.Background(), order.ID, buyer))

	ret, err := svc.Return(context.Background(), buyer, order.ID)
	require.NoError(t, err)

	// a fresh RETURN row, the PURCHASE row untouched
	assert.NotEqual(t, order.ID, ret.ID)
	assert.Equal(t, domain.OpReturn, ret.Operation)
	assert.Equal(t, domain.OpPurchase, store.orders[order.ID].Operation)

	assert.False(t, store.tickets[ticket].IsSold)
	assert.Equal(t, "1000.00", store.users[buyer].Balance.StringFixed(2))
}

func TestReturn_Twice(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)
	require.NoError(t, svc.Buy(context.Background(), order.ID, buyer))

	_, err = svc.Return(context.Background(), buyer, order.ID)
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), buyer, order.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
	assert.EqualError(t, ErrAlreadyReturned, "Ticket is already returned")

	// credited exactly once
	assert.Equal(t, "1000.00", store.users[buyer].Balance.StringFixed(2))
}

func TestReturn_AfterScreeningStarted(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)
	require.NoError(t, svc.Buy(context.Background(), order.ID, buyer))

	store.tickets[ticket].ScreeningDateTime = testNow.Add(-time.Minute)

	_, err = svc.Return(context.Background(), buyer, order.ID)
	assert.ErrorIs(t, err, ErrScreeningStarted)
	assert.EqualError(t, ErrScreeningStarted, "Funds can't be returned. Screening session already started.")
}

func TestReturn_OnlyOwnPurchases(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	other := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)
	require.NoError(t, svc.Buy(context.Background(), order.ID, buyer))

	_, err = svc.Return(context.Background(), other, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// a cart order is not returnable either
	ticket2 := store.addTicket("50.00", testNow.Add(24*time.Hour))
	cartOrder, err := svc.AddToCart(context.Background(), buyer, ticket2, "")
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), buyer, cartOrder.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCart_Totals(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	t1 := store.addTicket("100.50", testNow.Add(24*time.Hour))
	t2 := store.addTicket("49.50", testNow.Add(48*time.Hour))

	_, err := svc.AddToCart(context.Background(), buyer, t1, "")
	require.NoError(t, err)
	_, err = svc.AddToCart(context.Background(), buyer, t2, "")
	require.NoError(t, err)

	cart, err := svc.Cart(context.Background(), buyer)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, "150.00", cart.TotalPrice.StringFixed(2))
}

func TestCart_Empty(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")

	cart, err := svc.Cart(context.Background(), buyer)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice.IsZero())
}

func TestHistoryAndTotalSpent(t *testing.T) {
	svc, store := setupOrdering(t)

	buyer := store.addUser("1000.00")
	t1 := store.addTicket("100.00", testNow.Add(24*time.Hour))
	t2 := store.addTicket("200.00", testNow.Add(48*time.Hour))

	o1, err := svc.AddToCart(context.Background(), buyer, t1, "")
	require.NoError(t, err)
	o2, err := svc.AddToCart(context.Background(), buyer, t2, "")
	require.NoError(t, err)

	require.NoError(t, svc.Buy(context.Background(), o1.ID, buyer))
	require.NoError(t, svc.Buy(context.Background(), o2.ID, buyer))

	_, err = svc.Return(context.Background(), buyer, o1.ID)
	require.NoError(t, err)

	history, err := svc.History(context.Background(), buyer)
	require.NoError(t, err)
	// two purchases plus one return; the open cart would not show anyway
	assert.Len(t, history, 3)

	// total spent counts purchases only, returns do not subtract
	total, err := svc.TotalSpent(context.Background(), buyer)
	require.NoError(t, err)
	assert.Equal(t, "300.00", total.StringFixed(2))

	// while the live balance did get the refund
	assert.Equal(t, "800.00", store.users[buyer].Balance.StringFixed(2))
}

func TestBuy_SideEffectsFire(t *testing.T) {
	store := newFakeOrderingStore()
	store.now = testNow

	cache := &spyCache{}
	events := &spyEvents{}

	svc := New(store, cache, events, nil, nil).WithClock(func() time.Time { return testNow })

	buyer := store.addUser("1000.00")
	ticket := store.addTicket("100.00", testNow.Add(24*time.Hour))

	order, err := svc.AddToCart(context.Background(), buyer, ticket, "")
	require.NoError(t, err)
	require.NoError(t, svc.Buy(context.Background(), order.ID, buyer))

	assert.Equal(t, []int64{1}, cache.invalidated)
	assert.Equal(t, []int64{1}, events.published)
}

type spyCache struct {
	invalidated []int64
}

func (s *spyCache) InvalidateScreening(ctx context.Context, screeningID int64) error {
	s.invalidated = append(s.invalidated, screeningID)
	return nil
}

type spyEvents struct {
	published []int64
}

func (s *spyEvents) PublishScreeningChanged(ctx context.Context, screeningID int64) error {
	s.published = append(s.published, screeningID)
	return nil
}
