package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ega-bank/ega-bank-client/internal/domain"
	"github.com/ega-bank/ega-bank-client/internal/logger"
	"github.com/ega-bank/ega-bank-client/internal/usecase/service_interfaces"
	"github.com/ega-bank/ega-bank-client/internal/watch"
)

const defaultDashboardTTL = 30 * time.Second

// DashboardCache is the shared in-memory source of truth for every
// entity visible to the current user. Snapshots stay fresh for the TTL;
// at most one fetch runs at a time, and concurrent callers get the most
// recent snapshot instead of starting a duplicate fetch (best-effort: a
// late caller may see stale data once).
type DashboardCache struct {
	clients service_interfaces.ClientAPI
	comptes service_interfaces.CompteAPI
	txs     service_interfaces.TransactionAPI
	session service_interfaces.SessionSource
	ttl     time.Duration

	mu         sync.Mutex
	loading    bool
	lastUpdate time.Time

	current *watch.Value[*domain.DashboardData]
}

func NewDashboardCache(
	clients service_interfaces.ClientAPI,
	comptes service_interfaces.CompteAPI,
	txs service_interfaces.TransactionAPI,
	session service_interfaces.SessionSource,
	ttl time.Duration,
) *DashboardCache {
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &DashboardCache{
		clients: clients,
		comptes: comptes,
		txs:     txs,
		session: session,
		ttl:     ttl,
		current: watch.NewValue[*domain.DashboardData](nil),
	}
}

// GetDashboardData returns the cached snapshot when it is still fresh
// and forceRefresh is false; otherwise it runs a fresh aggregate load.
// An unauthenticated caller gets an empty snapshot without any network
// traffic, and the cache is cleared. An authentication failure during
// the load clears the cache and is returned so the caller can treat the
// session as invalid.
func (c *DashboardCache) GetDashboardData(ctx context.Context, forceRefresh bool) (domain.DashboardData, error) {
	if !c.session.IsAuthenticated() {
		logger.Info("dashboard cache unauthenticated caller, serving empty snapshot", nil)
		c.ClearCache()
		return domain.EmptyDashboardData(), nil
	}

	c.mu.Lock()
	cached := c.current.Get()
	if !forceRefresh && cached != nil && time.Since(c.lastUpdate) < c.ttl {
		c.mu.Unlock()
		return *cached, nil
	}
	if c.loading && cached != nil {
		// A load is already in flight; hand back the latest snapshot
		// rather than piling on a duplicate fetch.
		c.mu.Unlock()
		return *cached, nil
	}
	c.loading = true
	c.mu.Unlock()

	data, err := c.loadFresh(ctx)
	if err != nil {
		c.mu.Lock()
		c.loading = false
		c.lastUpdate = time.Time{}
		c.mu.Unlock()
		c.current.Set(nil)
		return domain.EmptyDashboardData(), err
	}

	c.mu.Lock()
	c.lastUpdate = data.LastUpdated
	c.loading = false
	c.mu.Unlock()
	c.current.Set(&data)
	return data, nil
}

// RefreshData forces a fresh load regardless of cache age.
func (c *DashboardCache) RefreshData(ctx context.Context) (domain.DashboardData, error) {
	return c.GetDashboardData(ctx, true)
}

// loadFresh orchestrates the three collection fetches: clients and
// accounts concurrently, then the per-account transaction fan-out once
// both have completed. A failure on an independent branch degrades that
// branch to an empty collection; an authentication failure aborts the
// whole load.
func (c *DashboardCache) loadFresh(ctx context.Context) (domain.DashboardData, error) {
	logger.Info("dashboard cache fresh load started", nil)

	var clients []domain.Client
	var comptes []domain.Compte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := c.clients.GetAll(gctx)
		if err != nil {
			if domain.IsAuthFailure(err) {
				return err
			}
			logger.Error("dashboard cache clients fetch degraded to empty", err, nil)
			return nil
		}
		clients = res
		return nil
	})
	g.Go(func() error {
		res, err := c.comptes.GetAll(gctx)
		if err != nil {
			if domain.IsAuthFailure(err) {
				return err
			}
			logger.Error("dashboard cache comptes fetch degraded to empty", err, nil)
			return nil
		}
		comptes = res
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("dashboard cache load aborted", err, nil)
		return domain.DashboardData{}, err
	}

	transactions := c.loadTransactions(ctx, comptes)

	data := domain.BuildDashboardData(clients, comptes, transactions)
	logger.Info("dashboard cache fresh load complete", logger.Fields{
		"clients":      data.ClientsCount,
		"comptes":      data.ComptesCount,
		"transactions": data.TransactionsCount,
	})
	return data, nil
}

// loadTransactions fans out one fetch per account and joins on all of
// them. Fan-out order is unspecified; the flattened result is sorted
// most-recent-first before being returned. Per-account failures degrade
// to an empty list for that account only.
func (c *DashboardCache) loadTransactions(ctx context.Context, comptes []domain.Compte) []domain.Transaction {
	if len(comptes) == 0 {
		return nil
	}

	results := make([][]domain.Transaction, len(comptes))
	g, gctx := errgroup.WithContext(ctx)
	for i, compte := range comptes {
		i, compte := i, compte
		g.Go(func() error {
			res, err := c.txs.GetByCompte(gctx, compte.NumeroCompte)
			if err != nil {
				logger.Error("dashboard cache transactions fetch degraded to empty", err, logger.Fields{
					"numeroCompte": compte.NumeroCompte,
				})
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Transaction
	for _, txs := range results {
		all = append(all, txs...)
	}
	domain.SortTransactionsDesc(all)
	return all
}

// ClearCache drops the snapshot and resets the freshness clock. It is
// invoked whenever the current user identity transitions to "no user".
func (c *DashboardCache) ClearCache() {
	c.mu.Lock()
	c.loading = false
	c.lastUpdate = time.Time{}
	c.mu.Unlock()
	c.current.Set(nil)
}

// IsLoading reports whether an aggregate fetch is in flight.
func (c *DashboardCache) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// CurrentData returns the latest cached snapshot, or false when the
// cache is empty.
func (c *DashboardCache) CurrentData() (domain.DashboardData, bool) {
	if cached := c.current.Get(); cached != nil {
		return *cached, true
	}
	return domain.DashboardData{}, false
}

func (c *DashboardCache) GetClients() []domain.Client {
	if cached := c.current.Get(); cached != nil {
		return cached.Clients
	}
	return []domain.Client{}
}

func (c *DashboardCache) GetComptes() []domain.Compte {
	if cached := c.current.Get(); cached != nil {
		return cached.Comptes
	}
	return []domain.Compte{}
}

func (c *DashboardCache) GetTransactions() []domain.Transaction {
	if cached := c.current.Get(); cached != nil {
		return cached.Transactions
	}
	return []domain.Transaction{}
}

// Subscribe streams every published snapshot, starting with the current
// one (nil while the cache is empty).
func (c *DashboardCache) Subscribe() (<-chan *domain.DashboardData, func()) {
	return c.current.Subscribe()
}
