package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ega-bank/ega-bank-client/internal/adapter/rest"
	"github.com/ega-bank/ega-bank-client/internal/adapter/rest/models"
	"github.com/ega-bank/ega-bank-client/internal/domain"
)

type staticTokens string

func (t staticTokens) Token() string { return string(t) }

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	api := rest.NewCompteAPI(rest.NewClient(srv.URL, time.Second, staticTokens("abc123")))
	if _, err := api.GetAll(context.Background()); err != nil {
		t.Fatalf("GetAll: %s", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestClientOmitsAuthorizationWhenNoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	api := rest.NewCompteAPI(rest.NewClient(srv.URL, time.Second, staticTokens("")))
	if _, err := api.GetAll(context.Background()); err != nil {
		t.Fatalf("GetAll: %s", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClientClassifiesAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expiré"}`))
	}))
	defer srv.Close()

	api := rest.NewClientAPI(rest.NewClient(srv.URL, time.Second, staticTokens("stale")))
	_, err := api.GetAll(context.Background())
	if err == nil {
		t.Fatal("expected an error for 401")
	}
	if !domain.IsAuthFailure(err) {
		t.Fatalf("expected an auth failure, got %s", err)
	}

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Token expiré" {
		t.Fatalf("unexpected classification: %+v", apiErr)
	}
}

func TestClientClassifiesValidationFailureWithFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Validation échouée","fieldErrors":{"montant":"doit être positif"}}`))
	}))
	defer srv.Close()

	api := rest.NewTransactionAPI(rest.NewClient(srv.URL, time.Second, staticTokens("ok")))
	_, err := api.Depot(context.Background(), models.OperationRequest{
		NumeroCompte: "FR76",
		Montant:      decimal.NewFromInt(10),
	})
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %v", err)
	}
	if apiErr.Kind != domain.ErrorValidation {
		t.Fatalf("expected VALIDATION, got %s", apiErr.Kind)
	}
	if apiErr.Message != "Validation échouée" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if apiErr.FieldErrors["montant"] != "doit être positif" {
		t.Fatalf("unexpected field errors %v", apiErr.FieldErrors)
	}
}

func TestClientClassifiesNetworkFailure(t *testing.T) {
	// Nothing listens on this address.
	api := rest.NewClientAPI(rest.NewClient("http://127.0.0.1:1", 200*time.Millisecond, staticTokens("")))
	_, err := api.GetAll(context.Background())

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %v", err)
	}
	if apiErr.Kind != domain.ErrorNetworkUnreachable || apiErr.Status != 0 {
		t.Fatalf("unexpected classification: %+v", apiErr)
	}
}

func TestCompteCreateSendsTypeAsQueryParam(t *testing.T) {
	var gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.URL.Query().Get("typeCompte")
		w.Write([]byte(`{"numeroCompte":"FR76 1234 5678 9012 345","typeCompte":"EPARGNE"}`))
	}))
	defer srv.Close()

	api := rest.NewCompteAPI(rest.NewClient(srv.URL, time.Second, staticTokens("tok")))
	created, err := api.Create(context.Background(), "client-1", domain.CompteTypeEpargne)
	if err != nil {
		t.Fatalf("Create: %s", err)
	}
	if gotPath != "/api/comptes/client/client-1" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotType != "EPARGNE" {
		t.Fatalf("typeCompte query param not sent, got %q", gotType)
	}
	if created.TypeCompte != domain.CompteTypeEpargne {
		t.Fatalf("unexpected created account: %+v", created)
	}
}

func TestTransactionExportReleveReturnsRawBody(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer srv.Close()

	api := rest.NewTransactionAPI(rest.NewClient(srv.URL, time.Second, staticTokens("tok")))
	raw, err := api.ExportReleve(context.Background(), models.ReleveRequest{
		NumeroCompte: "FR76",
		DateDebut:    "2026-01-01",
		DateFin:      "2026-01-31",
	})
	if err != nil {
		t.Fatalf("ExportReleve: %s", err)
	}
	if string(raw) != string(pdf) {
		t.Fatalf("raw body altered: %q", raw)
	}
}

func TestAuthLoginRejectsInvalidRequestWithoutNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	api := rest.NewAuthAPI(rest.NewClient(srv.URL, time.Second, staticTokens("")))
	if _, err := api.Login(context.Background(), models.AuthRequest{}); err == nil {
		t.Fatal("expected a validation error")
	}
	if called {
		t.Fatal("invalid request must not reach the backend")
	}
}
