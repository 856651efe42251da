package rest

import (
	"context"
	"net/http"

	"github.com/ega-bank/ega-bank-client/internal/domain"
)

// ClientAPI wraps the /api/clients collection.
type ClientAPI struct {
	c *Client
}

func NewClientAPI(c *Client) *ClientAPI {
	return &ClientAPI{c: c}
}

func (a *ClientAPI) GetAll(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := a.c.do(ctx, http.MethodGet, "/api/clients", nil, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (a *ClientAPI) GetByID(ctx context.Context, id string) (domain.Client, error) {
	var client domain.Client
	if err := a.c.do(ctx, http.MethodGet, "/api/clients/"+id, nil, nil, &client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (a *ClientAPI) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	var created domain.Client
	if err := a.c.do(ctx, http.MethodPost, "/api/clients", nil, client, &created); err != nil {
		return domain.Client{}, err
	}
	return created, nil
}

func (a *ClientAPI) Update(ctx context.Context, id string, client domain.Client) (domain.Client, error) {
	var updated domain.Client
	if err := a.c.do(ctx, http.MethodPut, "/api/clients/"+id, nil, client, &updated); err != nil {
		return domain.Client{}, err
	}
	return updated, nil
}

func (a *ClientAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/api/clients/"+id, nil, nil, nil)
}
