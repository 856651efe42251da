// Package service_interfaces declares the collaborator contracts the
// services consume, so tests can substitute in-memory fakes for the REST
// adapters.
package service_interfaces

import (
	"context"

	"github.com/ega-bank/ega-bank-client/internal/adapter/rest/models"
	"github.com/ega-bank/ega-bank-client/internal/domain"
)

type ClientAPI interface {
	GetAll(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id string) (domain.Client, error)
}

type CompteAPI interface {
	GetAll(ctx context.Context) ([]domain.Compte, error)
	GetByClientID(ctx context.Context, clientID string) ([]domain.Compte, error)
	Create(ctx context.Context, clientID string, typeCompte domain.CompteType) (domain.Compte, error)
}

type TransactionAPI interface {
	GetByCompte(ctx context.Context, numeroCompte string) ([]domain.Transaction, error)
	Depot(ctx context.Context, req models.OperationRequest) (domain.Transaction, error)
	Retrait(ctx context.Context, req models.OperationRequest) (domain.Transaction, error)
	Virement(ctx context.Context, req models.VirementRequest) (domain.Transaction, error)
}

type AuthAPI interface {
	Login(ctx context.Context, req models.AuthRequest) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
}

// SessionSource exposes the current authentication state to the caches.
type SessionSource interface {
	IsAuthenticated() bool
	CurrentSession() (domain.Session, bool)
}
