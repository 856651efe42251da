package rest

import (
	"context"
	"net/http"

	"github.com/ega-bank/ega-bank-client/internal/adapter/rest/models"
)

// AuthAPI wraps the /api/auth endpoints.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

func (a *AuthAPI) Login(ctx context.Context, req models.AuthRequest) (models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return models.AuthResponse{}, err
	}

	var resp models.AuthResponse
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &resp); err != nil {
		return models.AuthResponse{}, err
	}
	return resp, nil
}

func (a *AuthAPI) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return models.AuthResponse{}, err
	}

	var resp models.AuthResponse
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &resp); err != nil {
		return models.AuthResponse{}, err
	}
	return resp, nil
}
