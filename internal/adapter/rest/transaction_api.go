package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ega-bank/ega-bank-client/internal/adapter/rest/models"
	"github.com/ega-bank/ega-bank-client/internal/domain"
)

// TransactionAPI wraps the /api/transactions and /api/releves endpoints.
type TransactionAPI struct {
	c *Client
}

func NewTransactionAPI(c *Client) *TransactionAPI {
	return &TransactionAPI{c: c}
}

func (a *TransactionAPI) Depot(ctx context.Context, req models.OperationRequest) (domain.Transaction, error) {
	if err := req.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	var tx domain.Transaction
	if err := a.c.do(ctx, http.MethodPost, "/api/transactions/depot", nil, req, &tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (a *TransactionAPI) Retrait(ctx context.Context, req models.OperationRequest) (domain.Transaction, error) {
	if err := req.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	var tx domain.Transaction
	if err := a.c.do(ctx, http.MethodPost, "/api/transactions/retrait", nil, req, &tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (a *TransactionAPI) Virement(ctx context.Context, req models.VirementRequest) (domain.Transaction, error) {
	if err := req.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	var tx domain.Transaction
	if err := a.c.do(ctx, http.MethodPost, "/api/transactions/virement", nil, req, &tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (a *TransactionAPI) GetByCompte(ctx context.Context, numeroCompte string) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := a.c.do(ctx, http.MethodGet, "/api/transactions/compte/"+url.PathEscape(numeroCompte), nil, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Releve returns the transactions of an account over a date range.
func (a *TransactionAPI) Releve(ctx context.Context, req models.ReleveRequest) ([]domain.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var txs []domain.Transaction
	if err := a.c.do(ctx, http.MethodPost, "/api/transactions/releve", nil, req, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ExportReleve returns the rendered statement document (PDF bytes). The
// rendering itself is entirely backend-side.
func (a *TransactionAPI) ExportReleve(ctx context.Context, req models.ReleveRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return a.c.doRaw(ctx, http.MethodPost, "/api/releves/imprimer", nil, req)
}
