package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ega-bank/ega-bank-client/internal/adapter/rest/models"
	"github.com/ega-bank/ega-bank-client/internal/domain"
	"github.com/ega-bank/ega-bank-client/internal/usecase/services"
)

type LoginCmd struct {
	Username string `arg:"" help:"Username."`
	Password string `help:"Password." required:"" short:"p"`
}

func (c *LoginCmd) Run(app *App) error {
	ctx := context.Background()
	sess, err := app.auth.Login(ctx, models.AuthRequest{
		Username: c.Username,
		Password: c.Password,
	})
	if err != nil {
		return err
	}

	app.ledger.Load(ctx, true, false)
	fmt.Println(successStyle.Render(fmt.Sprintf("Bienvenue %s", sess.Username)))
	return nil
}

type RegisterCmd struct {
	Username      string `arg:"" help:"Username."`
	Password      string `help:"Password." required:"" short:"p"`
	Nom           string `help:"Last name." required:""`
	Prenom        string `help:"First name." required:""`
	DateNaissance string `help:"Birth date (YYYY-MM-DD)." default:"1990-01-01"`
	Sexe          string `help:"Sex (M/F)." default:"M"`
	Adresse       string `help:"Address." default:""`
	Telephone     string `help:"Phone number." default:""`
	Courriel      string `help:"Email address." default:""`
	Nationalite   string `help:"Nationality." default:"Française"`
}

func (c *RegisterCmd) Run(app *App) error {
	ctx := context.Background()
	courriel := c.Courriel
	if courriel == "" {
		courriel = c.Username + "@egabank.fr"
	}

	sess, err := app.auth.Register(ctx, models.RegisterRequest{
		Nom:           c.Nom,
		Prenom:        c.Prenom,
		DateNaissance: c.DateNaissance,
		Sexe:          c.Sexe,
		Adresse:       c.Adresse,
		Telephone:     c.Telephone,
		Courriel:      courriel,
		Nationalite:   c.Nationalite,
		Username:      c.Username,
		Password:      c.Password,
	})
	if err != nil {
		return err
	}

	app.ledger.Load(ctx, true, false)
	fmt.Println(successStyle.Render(fmt.Sprintf("Compte utilisateur créé pour %s", sess.Username)))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(app *App) error {
	app.auth.Logout()
	fmt.Println("Déconnecté.")
	return nil
}

type DashboardCmd struct {
	Refresh bool `help:"Force a refresh even if the cache is fresh." short:"r"`
}

func (c *DashboardCmd) Run(app *App) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx := context.Background()

	if app.cfg.DemoMode {
		app.ledger.Load(ctx, c.Refresh, false)
		fmt.Print(renderLedger(app.ledger.CurrentData()))
		return nil
	}

	data, err := app.cache.GetDashboardData(ctx, c.Refresh)
	if err != nil {
		if domain.IsAuthFailure(err) {
			app.auth.Logout()
			return fmt.Errorf("session invalide, veuillez vous reconnecter: %w", err)
		}
		return err
	}
	fmt.Print(renderDashboard(data))
	return nil
}

type AccountsCmd struct {
	List   AccountsListCmd   `cmd:"" default:"1" help:"List accounts."`
	Create AccountsCreateCmd `cmd:"" help:"Open a new account."`
}

type AccountsListCmd struct{}

func (c *AccountsListCmd) Run(app *App) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx := context.Background()

	var comptes []domain.Compte
	if app.cfg.DemoMode {
		app.ledger.Load(ctx, false, false)
		comptes = app.ledger.GetComptes()
	} else {
		if _, err := app.cache.GetDashboardData(ctx, false); err != nil {
			return err
		}
		comptes = app.cache.GetComptes()
	}

	fmt.Print(renderComptes(comptes))
	return nil
}

type AccountsCreateCmd struct {
	Type string `arg:"" help:"Account type (COURANT or EPARGNE)." enum:"COURANT,EPARGNE"`
}

func (c *AccountsCreateCmd) Run(app *App) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx := context.Background()
	typeCompte := domain.CompteType(strings.ToUpper(c.Type))

	if app.cfg.DemoMode {
		app.ledger.Load(ctx, false, false)
		compte, err := app.ledger.CreateAccount(typeCompte)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Nouveau compte: " + compte.NumeroCompte))
		return nil
	}

	sess, _ := app.auth.CurrentSession()
	if sess.ClientID == "" {
		return fmt.Errorf("no client linked to this user")
	}
	compte, err := app.compteAPI.Create(ctx, sess.ClientID, typeCompte)
	if err != nil {
		return err
	}
	app.ledger.UpdateAfterOperation(ctx)
	if _, err := app.cache.RefreshData(ctx); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Nouveau compte: " + compte.NumeroCompte))
	return nil
}

type DepositCmd struct {
	Compte      string `arg:"" help:"Account number."`
	Montant     string `arg:"" help:"Amount to deposit."`
	Description string `help:"Operation description." default:"Dépôt"`
}

func (c *DepositCmd) Run(app *App) error {
	return runOperation(app, domain.TransactionDepot, c.Compte, "", c.Montant, c.Description)
}

type WithdrawCmd struct {
	Compte      string `arg:"" help:"Account number."`
	Montant     string `arg:"" help:"Amount to withdraw."`
	Description string `help:"Operation description." default:"Retrait"`
}

func (c *WithdrawCmd) Run(app *App) error {
	return runOperation(app, domain.TransactionRetrait, c.Compte, "", c.Montant, c.Description)
}

type TransferCmd struct {
	From        string `arg:"" help:"Source account number."`
	To          string `arg:"" help:"Destination account number."`
	Montant     string `arg:"" help:"Amount to transfer."`
	Description string `help:"Operation description." default:"Virement"`
}

func (c *TransferCmd) Run(app *App) error {
	return runOperation(app, domain.TransactionVirement, c.From, c.To, c.Montant, c.Description)
}

func runOperation(app *App, txType domain.TransactionType, compte, dest, rawMontant, description string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	montant, err := decimal.NewFromString(strings.TrimSpace(rawMontant))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", rawMontant, err)
	}
	ctx := context.Background()

	if app.cfg.DemoMode {
		app.ledger.Load(ctx, false, false)
		if err := executeLedgerOperation(app, txType, compte, dest, montant, description); err != nil {
			return err
		}
	} else {
		if err := executeBackendOperation(ctx, app, txType, compte, dest, montant, description); err != nil {
			return err
		}
		app.ledger.UpdateAfterOperation(ctx)
		if _, err := app.cache.RefreshData(ctx); err != nil {
			return err
		}
	}

	app.notifications.AddTransaction(txType, montant, compte)
	fmt.Println(successStyle.Render("Opération effectuée"))
	fmt.Print(renderComptes(currentComptes(app)))
	return nil
}

func executeLedgerOperation(app *App, txType domain.TransactionType, compte, dest string, montant decimal.Decimal, description string) error {
	switch txType {
	case domain.TransactionDepot:
		return app.ledger.ExecuteDeposit(compte, montant, description)
	case domain.TransactionRetrait:
		return app.ledger.ExecuteWithdrawal(compte, montant, description)
	case domain.TransactionVirement:
		return app.ledger.ExecuteTransfer(compte, dest, montant, description)
	default:
		return fmt.Errorf("unsupported operation %q", txType)
	}
}

func executeBackendOperation(ctx context.Context, app *App, txType domain.TransactionType, compte, dest string, montant decimal.Decimal, description string) error {
	var err error
	switch txType {
	case domain.TransactionDepot:
		_, err = app.txAPI.Depot(ctx, models.OperationRequest{NumeroCompte: compte, Montant: montant, Description: description})
	case domain.TransactionRetrait:
		_, err = app.txAPI.Retrait(ctx, models.OperationRequest{NumeroCompte: compte, Montant: montant, Description: description})
	case domain.TransactionVirement:
		_, err = app.txAPI.Virement(ctx, models.VirementRequest{CompteSource: compte, CompteDestinataire: dest, Montant: montant, Description: description})
	default:
		err = fmt.Errorf("unsupported operation %q", txType)
	}
	return err
}

func currentComptes(app *App) []domain.Compte {
	if app.cfg.DemoMode {
		return app.ledger.GetComptes()
	}
	return app.cache.GetComptes()
}

type TransactionsCmd struct {
	Compte string `help:"Filter on one account number." short:"n"`
	Limit  int    `help:"Maximum number of transactions shown." default:"20"`
}

func (c *TransactionsCmd) Run(app *App) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx := context.Background()

	var txs []domain.Transaction
	if app.cfg.DemoMode {
		app.ledger.Load(ctx, false, false)
		txs = app.ledger.GetTransactions()
	} else {
		if _, err := app.cache.GetDashboardData(ctx, false); err != nil {
			return err
		}
		txs = app.cache.GetTransactions()
	}

	if c.Compte != "" {
		filtered := txs[:0:0]
		for _, tx := range txs {
			if tx.CompteNumero == c.Compte {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}
	if c.Limit > 0 && len(txs) > c.Limit {
		txs = txs[:c.Limit]
	}

	fmt.Print(renderTransactions(txs))
	return nil
}

type StatementCmd struct {
	Compte string `arg:"" help:"Account number."`
	From   string `help:"Start date (YYYY-MM-DD)." required:""`
	To     string `help:"End date (YYYY-MM-DD)." required:""`
	Out    string `help:"Output file for the PDF export (online mode)." type:"path"`
}

func (c *StatementCmd) Run(app *App) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx := context.Background()
	req := models.ReleveRequest{NumeroCompte: c.Compte, DateDebut: c.From, DateFin: c.To}

	if app.cfg.DemoMode {
		app.ledger.Load(ctx, false, false)
		txs, err := ledgerStatement(app, req)
		if err != nil {
			return err
		}
		fmt.Print(renderTransactions(txs))
		return nil
	}

	if c.Out != "" {
		raw, err := app.txAPI.ExportReleve(ctx, req)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.Out, raw, 0o600); err != nil {
			return fmt.Errorf("write statement: %w", err)
		}
		fmt.Println(successStyle.Render("Relevé exporté vers " + c.Out))
		return nil
	}

	txs, err := app.txAPI.Releve(ctx, req)
	if err != nil {
		return err
	}
	fmt.Print(renderTransactions(txs))
	return nil
}

// ledgerStatement filters the local ledger to the requested account and
// date range, inclusive on both bounds.
func ledgerStatement(app *App, req models.ReleveRequest) ([]domain.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, err := time.Parse("2006-01-02", req.DateDebut)
	if err != nil {
		return nil, fmt.Errorf("invalid dateDebut: %w", err)
	}
	to, err := time.Parse("2006-01-02", req.DateFin)
	if err != nil {
		return nil, fmt.Errorf("invalid dateFin: %w", err)
	}
	to = to.Add(24 * time.Hour)

	var out []domain.Transaction
	for _, tx := range app.ledger.GetTransactions() {
		if tx.CompteNumero != req.NumeroCompte {
			continue
		}
		if tx.DateTransaction.Before(from) || !tx.DateTransaction.Before(to) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

type NotificationsCmd struct {
	Clear bool `help:"Clear all notifications."`
}

func (c *NotificationsCmd) Run(app *App) error {
	if c.Clear {
		app.notifications.Clear()
		fmt.Println("Notifications effacées.")
		return nil
	}
	fmt.Print(renderNotifications(app.notifications.Notifications()))
	return nil
}

type WatchCmd struct {
	Interval time.Duration `help:"Refresh interval." default:"30s"`
}

// Run polls until interrupted, printing a fresh snapshot whenever the
// published data changes. The session monitor runs alongside so an
// expiring session produces a warning instead of a silent 401 loop.
func (c *WatchCmd) Run(app *App) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	monitor := services.NewSessionMonitor(app.auth, app.cache, app.notifications, 0)
	monitor.Start(ctx)
	defer monitor.Stop()

	if app.cfg.DemoMode {
		updates, unsubscribe := app.ledger.Subscribe()
		defer unsubscribe()
		app.ledger.Load(ctx, true, false)
		for {
			select {
			case <-ctx.Done():
				return nil
			case state := <-updates:
				fmt.Print(renderLedger(state))
			case <-time.After(c.Interval):
				app.ledger.Load(ctx, true, true)
			}
		}
	}

	updates, unsubscribe := app.cache.Subscribe()
	defer unsubscribe()
	if _, err := app.cache.GetDashboardData(ctx, true); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-updates:
			if data != nil {
				fmt.Print(renderDashboard(*data))
			}
		case <-time.After(c.Interval):
			if _, err := app.cache.RefreshData(ctx); err != nil && domain.IsAuthFailure(err) {
				app.auth.Logout()
				return fmt.Errorf("session expirée: %w", err)
			}
		}
	}
}

type ResetCmd struct {
	Force bool `help:"Skip the confirmation check." short:"f"`
}

func (c *ResetCmd) Run(app *App) error {
	if !c.Force {
		return fmt.Errorf("this wipes all locally stored data; re-run with --force to confirm")
	}
	app.ledger.ResetAllData()
	app.notifications.Clear()
	app.cache.ClearCache()
	fmt.Println("Toutes les données locales ont été réinitialisées.")
	return nil
}
