package main

import (
	"fmt"

	"github.com/ega-bank/ega-bank-client/internal/adapter/rest"
	"github.com/ega-bank/ega-bank-client/internal/adapter/storage"
	"github.com/ega-bank/ega-bank-client/internal/config"
	"github.com/ega-bank/ega-bank-client/internal/usecase/services"
)

// App wires the REST adapters, local store, and services together for
// the CLI commands.
type App struct {
	cfg           config.Config
	store         *storage.LocalStore
	auth          *services.AuthService
	cache         *services.DashboardCache
	ledger        *services.LedgerStore
	notifications *services.NotificationService

	compteAPI *rest.CompteAPI
	txAPI     *rest.TransactionAPI
}

// lazyTokenSource breaks the construction cycle between the HTTP client
// (which needs a token source) and the auth service (which needs the
// HTTP client).
type lazyTokenSource struct {
	auth *services.AuthService
}

func (t *lazyTokenSource) Token() string {
	if t.auth == nil {
		return ""
	}
	return t.auth.Token()
}

func newApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := storage.NewLocalStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	tokens := &lazyTokenSource{}
	httpClient := rest.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, tokens)

	clientAPI := rest.NewClientAPI(httpClient)
	compteAPI := rest.NewCompteAPI(httpClient)
	txAPI := rest.NewTransactionAPI(httpClient)
	authAPI := rest.NewAuthAPI(httpClient)

	auth := services.NewAuthService(authAPI, store, cfg.DemoMode)
	tokens.auth = auth

	cache := services.NewDashboardCache(clientAPI, compteAPI, txAPI, auth, cfg.DashboardCacheTTL)
	ledger := services.NewLedgerStore(auth, clientAPI, compteAPI, txAPI, store, cfg.LedgerCacheTTL)
	notifications := services.NewNotificationService(store)

	auth.OnLogout(cache.ClearCache)
	auth.OnLogout(ledger.ClearData)

	return &App{
		cfg:           cfg,
		store:         store,
		auth:          auth,
		cache:         cache,
		ledger:        ledger,
		notifications: notifications,
		compteAPI:     compteAPI,
		txAPI:         txAPI,
	}, nil
}

// requireSession fails fast when no user is logged in.
func (a *App) requireSession() error {
	if !a.auth.IsAuthenticated() {
		return fmt.Errorf("not logged in: run `bankctl login` first")
	}
	return nil
}
