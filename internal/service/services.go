// Package service aggregates the application services behind one struct so
// the transport layer takes a single dependency.
package service

import (
	"time"

	"github.com/romankud/kinotix/internal/repository"
	redisrepo "github.com/romankud/kinotix/internal/repository/redis"
	"github.com/romankud/kinotix/internal/service/account"
	"github.com/romankud/kinotix/internal/service/catalog"
	"github.com/romankud/kinotix/internal/service/ordering"
	"github.com/romankud/kinotix/internal/service/query"
	"github.com/romankud/kinotix/internal/service/scheduling"
)

type Services struct {
	Catalog    *catalog.Service
	Scheduling *scheduling.Service
	Ordering   *ordering.Service
	Account    *account.Service
	Query      *query.Service
}

// Stores bundles the storage interfaces NewServices consumes.
type Stores struct {
	Catalog    repository.CatalogStore
	Scheduling repository.SchedulingStore
	Ordering   repository.OrderingStore
	Account    repository.AccountStore
	Query      repository.QueryStore
}

// Options carries the optional collaborators. Nil fields disable the
// matching concern.
type Options struct {
	Cache        *redisrepo.Cache
	Events       ordering.Events
	Notifier     ordering.Notifier
	Limiter      ordering.Limiter
	SessionBreak time.Duration
}

func NewServices(stores Stores, opts Options) *Services {
	var orderingCache ordering.Cache
	if opts.Cache != nil {
		orderingCache = opts.Cache
	}

	return &Services{
		Catalog:    catalog.New(stores.Catalog),
		Scheduling: scheduling.New(stores.Scheduling, scheduling.Config{SessionBreak: opts.SessionBreak}),
		Ordering:   ordering.New(stores.Ordering, orderingCache, opts.Events, opts.Notifier, opts.Limiter),
		Account:    account.New(stores.Account),
		Query:      query.New(stores.Query, opts.Cache),
	}
}
