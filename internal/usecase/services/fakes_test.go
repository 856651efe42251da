package services_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ega-bank/ega-bank-client/internal/adapter/rest/models"
	"github.com/ega-bank/ega-bank-client/internal/domain"
)

// fakeSession is an in-memory SessionSource.
type fakeSession struct {
	mu            sync.Mutex
	authenticated bool
	session       domain.Session
}

func (f *fakeSession) IsAuthenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authenticated
}

func (f *fakeSession) CurrentSession() (domain.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.authenticated
}

func (f *fakeSession) set(authenticated bool, sess domain.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authenticated = authenticated
	f.session = sess
}

// fakeClientAPI counts calls and serves canned clients or a fixed error.
type fakeClientAPI struct {
	calls   atomic.Int64
	clients []domain.Client
	err     error
}

func (f *fakeClientAPI) GetAll(ctx context.Context) ([]domain.Client, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.clients, nil
}

func (f *fakeClientAPI) GetByID(ctx context.Context, id string) (domain.Client, error) {
	f.calls.Add(1)
	if f.err != nil {
		return domain.Client{}, f.err
	}
	for _, c := range f.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Client{}, &domain.APIError{Kind: domain.ErrorNotFound, Status: 404}
}

type fakeCompteAPI struct {
	calls   atomic.Int64
	comptes []domain.Compte
	err     error
}

func (f *fakeCompteAPI) GetAll(ctx context.Context) ([]domain.Compte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.comptes, nil
}

func (f *fakeCompteAPI) GetByClientID(ctx context.Context, clientID string) ([]domain.Compte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Compte
	for _, c := range f.comptes {
		if c.ClientID == clientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCompteAPI) Create(ctx context.Context, clientID string, typeCompte domain.CompteType) (domain.Compte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return domain.Compte{}, f.err
	}
	created := domain.Compte{NumeroCompte: "FR76 0000 0000 0000 000", TypeCompte: typeCompte, ClientID: clientID}
	f.comptes = append(f.comptes, created)
	return created, nil
}

// fakeTransactionAPI serves per-account transaction lists; errAccounts
// lists the account numbers whose fetch fails.
type fakeTransactionAPI struct {
	calls       atomic.Int64
	byCompte    map[string][]domain.Transaction
	errAccounts map[string]error
}

func (f *fakeTransactionAPI) GetByCompte(ctx context.Context, numeroCompte string) ([]domain.Transaction, error) {
	f.calls.Add(1)
	if err, ok := f.errAccounts[numeroCompte]; ok {
		return nil, err
	}
	return f.byCompte[numeroCompte], nil
}

func (f *fakeTransactionAPI) Depot(ctx context.Context, req models.OperationRequest) (domain.Transaction, error) {
	return domain.Transaction{TypeTransaction: domain.TransactionDepot, CompteNumero: req.NumeroCompte, Montant: req.Montant}, nil
}

func (f *fakeTransactionAPI) Retrait(ctx context.Context, req models.OperationRequest) (domain.Transaction, error) {
	return domain.Transaction{TypeTransaction: domain.TransactionRetrait, CompteNumero: req.NumeroCompte, Montant: req.Montant}, nil
}

func (f *fakeTransactionAPI) Virement(ctx context.Context, req models.VirementRequest) (domain.Transaction, error) {
	return domain.Transaction{TypeTransaction: domain.TransactionVirement, CompteNumero: req.CompteSource, Montant: req.Montant}, nil
}

type fakeAuthAPI struct {
	loginResp    models.AuthResponse
	registerResp models.AuthResponse
	err          error
}

func (f *fakeAuthAPI) Login(ctx context.Context, req models.AuthRequest) (models.AuthResponse, error) {
	if f.err != nil {
		return models.AuthResponse{}, f.err
	}
	return f.loginResp, nil
}

func (f *fakeAuthAPI) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	if f.err != nil {
		return models.AuthResponse{}, f.err
	}
	return f.registerResp, nil
}
