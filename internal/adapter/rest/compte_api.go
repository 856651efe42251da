package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ega-bank/ega-bank-client/internal/domain"
)

// CompteAPI wraps the /api/comptes collection.
type CompteAPI struct {
	c *Client
}

func NewCompteAPI(c *Client) *CompteAPI {
	return &CompteAPI{c: c}
}

func (a *CompteAPI) GetAll(ctx context.Context) ([]domain.Compte, error) {
	var comptes []domain.Compte
	if err := a.c.do(ctx, http.MethodGet, "/api/comptes", nil, nil, &comptes); err != nil {
		return nil, err
	}
	return comptes, nil
}

func (a *CompteAPI) GetByID(ctx context.Context, id string) (domain.Compte, error) {
	var compte domain.Compte
	if err := a.c.do(ctx, http.MethodGet, "/api/comptes/"+id, nil, nil, &compte); err != nil {
		return domain.Compte{}, err
	}
	return compte, nil
}

func (a *CompteAPI) GetByNumero(ctx context.Context, numeroCompte string) (domain.Compte, error) {
	var compte domain.Compte
	if err := a.c.do(ctx, http.MethodGet, "/api/comptes/numero/"+url.PathEscape(numeroCompte), nil, nil, &compte); err != nil {
		return domain.Compte{}, err
	}
	return compte, nil
}

func (a *CompteAPI) GetByClientID(ctx context.Context, clientID string) ([]domain.Compte, error) {
	var comptes []domain.Compte
	if err := a.c.do(ctx, http.MethodGet, "/api/comptes/client/"+clientID, nil, nil, &comptes); err != nil {
		return nil, err
	}
	return comptes, nil
}

// Create opens a new account of the given type for a client; the type
// travels as the typeCompte query parameter, not a body.
func (a *CompteAPI) Create(ctx context.Context, clientID string, typeCompte domain.CompteType) (domain.Compte, error) {
	query := url.Values{"typeCompte": []string{string(typeCompte)}}

	var created domain.Compte
	if err := a.c.do(ctx, http.MethodPost, "/api/comptes/client/"+clientID, query, nil, &created); err != nil {
		return domain.Compte{}, err
	}
	return created, nil
}

func (a *CompteAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/api/comptes/"+id, nil, nil, nil)
}
