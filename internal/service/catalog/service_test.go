package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
)

type fakeCatalogStore struct {
	cinemas map[int64]*domain.Cinema
	halls   map[int64]*domain.Hall
	seats   map[int64][]domain.Seat
	nextID  int64
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		cinemas: make(map[int64]*domain.Cinema),
		halls:   make(map[int64]*domain.Hall),
		seats:   make(map[int64][]domain.Seat),
	}
}

func (f *fakeCatalogStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeCatalogStore) CreateCinema(ctx context.Context, c *domain.Cinema) (*domain.Cinema, error) {
	for _, existing := range f.cinemas {
		if existing.Name == c.Name && existing.Address == c.Address {
			return nil, repository.ErrConflict
		}
	}

	cp := *c
	cp.ID = f.id()
	f.cinemas[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeCatalogStore) GetCinema(ctx context.Context, id int64) (*domain.Cinema, error) {
	c, ok := f.cinemas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCatalogStore) ListCinemas(ctx context.Context) ([]domain.Cinema, error) {
	var out []domain.Cinema
	for _, c := range f.cinemas {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCatalogStore) CreateHallWithSeats(ctx context.Context, h *domain.Hall, seats []domain.Seat) (*domain.Hall, error) {
	if _, ok := f.cinemas[h.CinemaID]; !ok {
		return nil, repository.ErrNotFound
	}
	for _, existing := range f.halls {
		if existing.CinemaID == h.CinemaID && existing.Name == h.Name {
			return nil, repository.ErrConflict
		}
	}

	cp := *h
	cp.ID = f.id()
	f.halls[cp.ID] = &cp

	for i := range seats {
		seats[i].ID = f.id()
		seats[i].HallID = cp.ID
	}
	f.seats[cp.ID] = seats

	return &cp, nil
}

func (f *fakeCatalogStore) ListHalls(ctx context.Context, cinemaID int64) ([]domain.Hall, error) {
	var out []domain.Hall
	for _, h := range f.halls {
		if h.CinemaID == cinemaID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListSeats(ctx context.Context, hallID int64) ([]domain.Seat, error) {
	return f.seats[hallID], nil
}

func TestExpandSeatLayout(t *testing.T) {
	tests := []struct {
		name    string
		layout  []int
		want    int
		wantErr error
	}{
		{name: "two rows", layout: []int{1, 2}, want: 3},
		{name: "single row", layout: []int{5}, want: 5},
		{name: "empty", layout: nil, wantErr: ErrEmptyLayout},
		{name: "zero row", layout: []int{3, 0}, wantErr: ErrBadLayoutRow},
		{name: "negative row", layout: []int{-1}, wantErr: ErrBadLayoutRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seats, err := ExpandSeatLayout(tt.layout)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, seats, tt.want)
		})
	}
}

func TestExpandSeatLayout_Numbering(t *testing.T) {
	seats, err := ExpandSeatLayout([]int{2, 3})
	require.NoError(t, err)
	require.Len(t, seats, 5)

	assert.Equal(t, domain.Seat{Row: 1, Number: 1}, seats[0])
	assert.Equal(t, domain.Seat{Row: 1, Number: 2}, seats[1])
	assert.Equal(t, domain.Seat{Row: 2, Number: 1}, seats[2])
	assert.Equal(t, domain.Seat{Row: 2, Number: 3}, seats[4])
}

func TestCreateCinema(t *testing.T) {
	svc := New(newFakeCatalogStore())

	c, err := svc.CreateCinema(context.Background(), CinemaInput{Name: "Zhovten", Address: "Kostiantynivska 26"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	_, err = svc.CreateCinema(context.Background(), CinemaInput{Name: "Zhovten", Address: "Kostiantynivska 26"})
	assert.ErrorIs(t, err, ErrCinemaConflict)

	_, err = svc.CreateCinema(context.Background(), CinemaInput{Name: "  ", Address: "x"})
	assert.Error(t, err)
}

func TestCreateHall(t *testing.T) {
	store := newFakeCatalogStore()
	svc := New(store)

	c, err := svc.CreateCinema(context.Background(), CinemaInput{Name: "Zhovten", Address: "Kostiantynivska 26"})
	require.NoError(t, err)

	h, seats, err := svc.CreateHall(context.Background(), c.ID, "Hegel", []int{2, 2})
	require.NoError(t, err)
	assert.NotZero(t, h.ID)
	require.Len(t, seats, 4)
	for _, s := range seats {
		assert.Equal(t, h.ID, s.HallID)
	}

	_, _, err = svc.CreateHall(context.Background(), c.ID, "Hegel", []int{1})
	assert.ErrorIs(t, err, ErrHallConflict)

	_, _, err = svc.CreateHall(context.Background(), 999, "Kant", []int{1})
	assert.ErrorIs(t, err, ErrCinemaNotFound)

	_, _, err = svc.CreateHall(context.Background(), c.ID, "Kant", nil)
	assert.ErrorIs(t, err, ErrEmptyLayout)
}

func TestListHalls_UnknownCinema(t *testing.T) {
	svc := New(newFakeCatalogStore())

	_, err := svc.ListHalls(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCinemaNotFound)
}
