package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ega-bank/ega-bank-client/internal/adapter/storage"
	"github.com/ega-bank/ega-bank-client/internal/domain"
	"github.com/ega-bank/ega-bank-client/internal/logger"
	"github.com/ega-bank/ega-bank-client/internal/usecase/service_interfaces"
	"github.com/ega-bank/ega-bank-client/internal/watch"
)

const defaultLedgerTTL = 5 * time.Minute
const recentTransactionsLimit = 10

// demoProfiles personalizes the synthesized client for well-known demo
// usernames; anything else falls back to a generic profile.
var demoProfiles = map[string]domain.Client{
	"testclient": {Nom: "Dupont", Prenom: "Jean", Sexe: "M"},
	"client1":    {Nom: "Martin", Prenom: "Marie", Sexe: "F"},
	"client2":    {Nom: "Bernard", Prenom: "Pierre", Sexe: "M"},
	"demo":       {Nom: "Durand", Prenom: "Sophie", Sexe: "F"},
}

// LedgerStore maintains a self-consistent simulated ledger for exactly
// one client identity, used when no real backend state is desired. Its
// published snapshots have the same shape as backend-fetched data so
// consumers are agnostic to the source.
//
// Every mutation runs under the store mutex as a read-copy-publish step:
// the next account and transaction slices are computed from the current
// snapshot, then the whole new snapshot is published in one assignment.
// Readers can never observe a half-applied operation.
type LedgerStore struct {
	session service_interfaces.SessionSource
	clients service_interfaces.ClientAPI
	comptes service_interfaces.CompteAPI
	txs     service_interfaces.TransactionAPI
	store   *storage.LocalStore
	ttl     time.Duration

	mu    sync.Mutex
	state *watch.Value[domain.LedgerState]
}

func NewLedgerStore(
	session service_interfaces.SessionSource,
	clients service_interfaces.ClientAPI,
	comptes service_interfaces.CompteAPI,
	txs service_interfaces.TransactionAPI,
	store *storage.LocalStore,
	ttl time.Duration,
) *LedgerStore {
	if ttl <= 0 {
		ttl = defaultLedgerTTL
	}

	s := &LedgerStore{
		session: session,
		clients: clients,
		comptes: comptes,
		txs:     txs,
		store:   store,
		ttl:     ttl,
		state:   watch.NewValue(domain.EmptyLedgerState()),
	}
	s.restoreFromStorage()
	return s
}

func (s *LedgerStore) restoreFromStorage() {
	if s.store == nil {
		return
	}

	var saved domain.LedgerState
	found, err := s.store.Get(storage.KeyStableData, &saved)
	if err != nil {
		logger.Error("ledger store restore failed", err, nil)
		return
	}
	if found && s.isCacheValid(saved) {
		logger.Info("ledger store restored from local storage", logger.Fields{
			"username": saved.Username,
			"comptes":  len(saved.Comptes),
		})
		s.state.Set(saved)
	}
}

func (s *LedgerStore) isCacheValid(state domain.LedgerState) bool {
	return state.IsPersonalized && time.Since(state.LastUpdated) < s.ttl
}

// Load resolves the current identity and account set, then republishes.
// A fresh cached state short-circuits unless forceRefresh is set. silent
// skips the loading-state toggle around the fetch span.
func (s *LedgerStore) Load(ctx context.Context, forceRefresh bool, silent bool) {
	current := s.state.Get()
	if !silent && !forceRefresh && s.isCacheValid(current) {
		return
	}

	if !silent {
		s.setLoading(true)
	}

	username := ""
	sess, authenticated := s.session.CurrentSession()
	if authenticated {
		username = sess.Username
	}

	if authenticated && strings.TrimSpace(sess.ClientID) != "" {
		s.loadAuthenticatedData(ctx, sess.ClientID, username)
		return
	}
	s.loadPersonalizedDemoData(username)
}

// UpdateAfterOperation refreshes the ledger after a real backend write
// without toggling the loading state.
func (s *LedgerStore) UpdateAfterOperation(ctx context.Context) {
	s.Load(ctx, true, true)
}

func (s *LedgerStore) loadAuthenticatedData(ctx context.Context, clientID, username string) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		logger.Error("ledger store real client lookup failed, falling back to demo data", err, logger.Fields{
			"clientId": clientID,
		})
		s.loadPersonalizedDemoData(username)
		return
	}

	comptes, err := s.comptes.GetByClientID(ctx, clientID)
	if err != nil {
		logger.Error("ledger store accounts lookup failed, falling back to demo data", err, logger.Fields{
			"clientId": clientID,
		})
		s.loadPersonalizedDemoData(username)
		return
	}

	var transactions []domain.Transaction
	for _, compte := range comptes {
		txs, err := s.txs.GetByCompte(ctx, compte.NumeroCompte)
		if err != nil {
			logger.Error("ledger store transactions lookup degraded to empty", err, logger.Fields{
				"numeroCompte": compte.NumeroCompte,
			})
			continue
		}
		transactions = append(transactions, txs...)
	}
	domain.SortTransactionsDesc(transactions)

	s.finalize(&client, comptes, transactions, username)
}

func (s *LedgerStore) loadPersonalizedDemoData(username string) {
	client := synthesizeClient(username)
	comptes := seedAccounts(client.ID)

	// No seeded transactions: the log only ever grows through real
	// operations against this store.
	s.finalize(&client, comptes, nil, username)
}

func (s *LedgerStore) finalize(client *domain.Client, comptes []domain.Compte, transactions []domain.Transaction, username string) {
	if comptes == nil {
		comptes = []domain.Compte{}
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	next := domain.LedgerState{
		Client:             client,
		Comptes:            comptes,
		RecentTransactions: firstN(transactions, recentTransactionsLimit),
		AllTransactions:    transactions,
		IsLoading:          false,
		LastUpdated:        time.Now(),
		IsPersonalized:     true,
		Username:           username,
	}

	logger.Info("ledger store data loaded", logger.Fields{
		"username":     username,
		"comptes":      len(comptes),
		"transactions": len(transactions),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(next)
}

// synthesizeClient builds a deterministic demo profile keyed by
// username.
func synthesizeClient(username string) domain.Client {
	profile, ok := demoProfiles[username]
	if !ok {
		profile = domain.Client{Nom: "Client", Prenom: "Test", Sexe: "M"}
	}

	return domain.Client{
		ID:            "stable-" + username,
		Nom:           profile.Nom,
		Prenom:        profile.Prenom,
		Sexe:          profile.Sexe,
		Courriel:      username + "@egabank.fr",
		Telephone:     "06 12 34 56 78",
		Adresse:       "15 Avenue des Champs-Élysées, 75008 Paris",
		DateNaissance: "1985-03-15",
		Nationalite:   "Française",
	}
}

// seedAccounts opens the two standard demo accounts, both at zero
// balance. Account numbers are derived from (clientID, seq) so they stay
// stable across reloads.
func seedAccounts(clientID string) []domain.Compte {
	today := time.Now().Format("2006-01-02")
	return []domain.Compte{
		{
			ID:           clientID + "-compte-1",
			NumeroCompte: domain.GenerateStableIBAN(clientID, 1),
			TypeCompte:   domain.CompteTypeCourant,
			Solde:        decimal.Zero,
			DateCreation: today,
			ClientID:     clientID,
		},
		{
			ID:           clientID + "-compte-2",
			NumeroCompte: domain.GenerateStableIBAN(clientID, 2),
			TypeCompte:   domain.CompteTypeEpargne,
			Solde:        decimal.Zero,
			DateCreation: today,
			ClientID:     clientID,
		},
	}
}

// CreateAccount appends a new zero-balance account with a stable account
// number derived from the client id and the next sequence number.
func (s *LedgerStore) CreateAccount(typeCompte domain.CompteType) (domain.Compte, error) {
	if typeCompte != domain.CompteTypeCourant && typeCompte != domain.CompteTypeEpargne {
		return domain.Compte{}, fmt.Errorf("unsupported account type %q", typeCompte)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Get()
	clientID := "demo"
	if current.Client != nil && current.Client.ID != "" {
		clientID = current.Client.ID
	}

	compte := domain.Compte{
		ID:           uuid.NewString(),
		NumeroCompte: domain.GenerateStableIBAN(clientID, len(current.Comptes)+1),
		TypeCompte:   typeCompte,
		Solde:        decimal.Zero,
		DateCreation: time.Now().Format("2006-01-02"),
		ClientID:     clientID,
	}

	next := current
	next.Comptes = append(copyComptes(current.Comptes), compte)
	next.LastUpdated = time.Now()
	s.publish(next)

	logger.Info("ledger store account created", logger.Fields{
		"numeroCompte": compte.NumeroCompte,
		"typeCompte":   string(typeCompte),
	})
	return compte, nil
}

// ExecuteDeposit credits an account and appends a DEPOT transaction
// whose SoldeApres equals the new balance. A missing account is a
// logged no-op, matching the behavior consumers already rely on.
func (s *LedgerStore) ExecuteDeposit(numeroCompte string, montant decimal.Decimal, description string) error {
	if montant.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Get()
	comptes := copyComptes(current.Comptes)
	idx := domain.FindCompte(comptes, numeroCompte)
	if idx < 0 {
		logger.Warn("ledger store deposit on unknown account ignored", logger.Fields{
			"numeroCompte": numeroCompte,
		})
		return nil
	}

	nouveauSolde := comptes[idx].Solde.Add(montant)
	comptes[idx].Solde = nouveauSolde

	tx := domain.Transaction{
		ID:              uuid.NewString(),
		TypeTransaction: domain.TransactionDepot,
		Montant:         montant,
		DateTransaction: time.Now(),
		CompteNumero:    numeroCompte,
		Description:     description,
		SoldeApres:      nouveauSolde,
	}

	s.publish(s.withMutation(current, comptes, tx))
	logger.Info("ledger store deposit executed", logger.Fields{
		"numeroCompte": numeroCompte,
		"montant":      montant.String(),
		"soldeApres":   nouveauSolde.String(),
	})
	return nil
}

// ExecuteWithdrawal debits an account after checking the balance covers
// the amount. No state changes when the check fails.
func (s *LedgerStore) ExecuteWithdrawal(numeroCompte string, montant decimal.Decimal, description string) error {
	if montant.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Get()
	comptes := copyComptes(current.Comptes)
	idx := domain.FindCompte(comptes, numeroCompte)
	if idx < 0 {
		return domain.ErrAccountNotFound
	}
	if comptes[idx].Solde.LessThan(montant) {
		return domain.ErrInsufficientFunds
	}

	nouveauSolde := comptes[idx].Solde.Sub(montant)
	comptes[idx].Solde = nouveauSolde

	tx := domain.Transaction{
		ID:              uuid.NewString(),
		TypeTransaction: domain.TransactionRetrait,
		Montant:         montant,
		DateTransaction: time.Now(),
		CompteNumero:    numeroCompte,
		Description:     description,
		SoldeApres:      nouveauSolde,
	}

	s.publish(s.withMutation(current, comptes, tx))
	logger.Info("ledger store withdrawal executed", logger.Fields{
		"numeroCompte": numeroCompte,
		"montant":      montant.String(),
		"soldeApres":   nouveauSolde.String(),
	})
	return nil
}

// ExecuteTransfer debits the source account and, when the destination
// belongs to this client's own account set, credits it and records a
// second transaction for the destination leg. A destination outside the
// set is treated as external: only the debit leg is recorded, no credit
// effect is modeled.
func (s *LedgerStore) ExecuteTransfer(compteSource, compteDestinataire string, montant decimal.Decimal, description string) error {
	if montant.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Get()
	comptes := copyComptes(current.Comptes)
	sourceIdx := domain.FindCompte(comptes, compteSource)
	if sourceIdx < 0 {
		return domain.ErrAccountNotFound
	}
	if comptes[sourceIdx].Solde.LessThan(montant) {
		return domain.ErrInsufficientFunds
	}

	now := time.Now()
	soldeSource := comptes[sourceIdx].Solde.Sub(montant)
	comptes[sourceIdx].Solde = soldeSource

	transactions := []domain.Transaction{{
		ID:                       uuid.NewString(),
		TypeTransaction:          domain.TransactionVirement,
		Montant:                  montant,
		DateTransaction:          now,
		CompteNumero:             compteSource,
		CompteDestinataireNumero: compteDestinataire,
		Description:              fmt.Sprintf("Virement vers %s - %s", accountTail(compteDestinataire), description),
		SoldeApres:               soldeSource,
	}}

	if destIdx := domain.FindCompte(comptes, compteDestinataire); destIdx >= 0 {
		soldeDest := comptes[destIdx].Solde.Add(montant)
		comptes[destIdx].Solde = soldeDest
		transactions = append(transactions, domain.Transaction{
			ID:              uuid.NewString(),
			TypeTransaction: domain.TransactionVirement,
			Montant:         montant,
			DateTransaction: now,
			CompteNumero:    compteDestinataire,
			Description:     fmt.Sprintf("Virement reçu de %s - %s", accountTail(compteSource), description),
			SoldeApres:      soldeDest,
		})
	}

	s.publish(s.withMutation(current, comptes, transactions...))
	logger.Info("ledger store transfer executed", logger.Fields{
		"compteSource":       compteSource,
		"compteDestinataire": compteDestinataire,
		"montant":            montant.String(),
		"legs":               len(transactions),
	})
	return nil
}

// withMutation builds the next snapshot from the mutated account slice
// and the newly appended transactions (newest first).
func (s *LedgerStore) withMutation(current domain.LedgerState, comptes []domain.Compte, newTxs ...domain.Transaction) domain.LedgerState {
	all := make([]domain.Transaction, 0, len(newTxs)+len(current.AllTransactions))
	all = append(all, newTxs...)
	all = append(all, current.AllTransactions...)

	next := current
	next.Comptes = comptes
	next.AllTransactions = all
	next.RecentTransactions = firstN(all, recentTransactionsLimit)
	next.LastUpdated = time.Now()
	return next
}

// publish replaces the shared snapshot in a single assignment and
// persists it. Callers must hold s.mu.
func (s *LedgerStore) publish(next domain.LedgerState) {
	s.state.Set(next)
	if s.store != nil {
		if err := s.store.Put(storage.KeyStableData, next); err != nil {
			logger.Error("ledger store persist failed", err, nil)
		}
	}
}

func (s *LedgerStore) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Get()
	next.IsLoading = loading
	s.state.Set(next)
}

// ClearData wipes persisted and in-memory state back to the empty shape.
func (s *LedgerStore) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Delete(storage.KeyStableData); err != nil {
			logger.Error("ledger store clear persisted state failed", err, nil)
		}
	}
	s.state.Set(domain.EmptyLedgerState())
	logger.Info("ledger store data cleared", nil)
}

// ResetAllData removes every related persisted key, then resets the
// in-memory state.
func (s *LedgerStore) ResetAllData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		keys, err := s.store.Keys()
		if err != nil {
			logger.Error("ledger store reset key listing failed", err, nil)
		}
		for _, key := range keys {
			if strings.Contains(key, "ega_bank") || strings.Contains(key, "stable_data") || strings.Contains(key, "client_data") {
				if err := s.store.Delete(key); err != nil {
					logger.Error("ledger store reset key delete failed", err, logger.Fields{"key": key})
				}
			}
		}
	}
	s.state.Set(domain.EmptyLedgerState())
	logger.Info("ledger store full reset complete", nil)
}

// CurrentData returns the latest published snapshot.
func (s *LedgerStore) CurrentData() domain.LedgerState {
	return s.state.Get()
}

func (s *LedgerStore) GetClient() *domain.Client {
	return s.state.Get().Client
}

func (s *LedgerStore) GetComptes() []domain.Compte {
	return s.state.Get().Comptes
}

func (s *LedgerStore) GetTransactions() []domain.Transaction {
	return s.state.Get().AllTransactions
}

func (s *LedgerStore) GetRecentTransactions() []domain.Transaction {
	return s.state.Get().RecentTransactions
}

// Subscribe streams every published snapshot, starting with the current
// one.
func (s *LedgerStore) Subscribe() (<-chan domain.LedgerState, func()) {
	return s.state.Subscribe()
}

func copyComptes(comptes []domain.Compte) []domain.Compte {
	out := make([]domain.Compte, len(comptes))
	copy(out, comptes)
	return out
}

func firstN(txs []domain.Transaction, n int) []domain.Transaction {
	if len(txs) <= n {
		out := make([]domain.Transaction, len(txs))
		copy(out, txs)
		return out
	}
	out := make([]domain.Transaction, n)
	copy(out, txs[:n])
	return out
}

func accountTail(numeroCompte string) string {
	trimmed := strings.ReplaceAll(numeroCompte, " ", "")
	if len(trimmed) <= 4 {
		return trimmed
	}
	return trimmed[len(trimmed)-4:]
}
