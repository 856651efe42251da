package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ega-bank/ega-bank-client/internal/domain"
)

func TestSortTransactionsDescOrdersMostRecentFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{ID: "old", DateTransaction: base},
		{ID: "newest", DateTransaction: base.Add(2 * time.Hour)},
		{ID: "middle", DateTransaction: base.Add(time.Hour)},
	}

	domain.SortTransactionsDesc(txs)

	got := []string{txs[0].ID, txs[1].ID, txs[2].ID}
	want := []string{"newest", "middle", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %q, want %q (full order %v)", i, got[i], want[i], got)
		}
	}
}

func TestSortTransactionsDescIsStableForEqualDates(t *testing.T) {
	when := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{ID: "a", DateTransaction: when},
		{ID: "b", DateTransaction: when},
	}

	domain.SortTransactionsDesc(txs)

	if txs[0].ID != "a" || txs[1].ID != "b" {
		t.Fatalf("equal-date transactions were reordered: %s, %s", txs[0].ID, txs[1].ID)
	}
}

func TestBuildDashboardDataComputesAggregates(t *testing.T) {
	comptes := []domain.Compte{
		{NumeroCompte: "A", Solde: decimal.NewFromInt(100)},
		{NumeroCompte: "B", Solde: decimal.RequireFromString("50.25")},
	}
	clients := []domain.Client{{ID: "c1"}}

	data := domain.BuildDashboardData(clients, comptes, nil)

	if data.ClientsCount != 1 || data.ComptesCount != 2 || data.TransactionsCount != 0 {
		t.Fatalf("unexpected counts: %d clients, %d comptes, %d transactions",
			data.ClientsCount, data.ComptesCount, data.TransactionsCount)
	}
	if !data.TotalSolde.Equal(decimal.RequireFromString("150.25")) {
		t.Fatalf("unexpected total balance: %s", data.TotalSolde)
	}
	if data.Transactions == nil {
		t.Fatal("nil transaction collection should be normalized to empty")
	}
}

func TestEmptyDashboardDataIsWellFormed(t *testing.T) {
	data := domain.EmptyDashboardData()

	if data.Clients == nil || data.Comptes == nil || data.Transactions == nil {
		t.Fatal("empty snapshot must carry empty collections, not nil")
	}
	if !data.TotalSolde.IsZero() {
		t.Fatalf("empty snapshot must have zero total, got %s", data.TotalSolde)
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status int
		want   domain.ErrorKind
	}{
		{0, domain.ErrorNetworkUnreachable},
		{400, domain.ErrorValidation},
		{401, domain.ErrorAuthentication},
		{403, domain.ErrorAuthentication},
		{404, domain.ErrorNotFound},
		{500, domain.ErrorUnknown},
	}

	for _, tc := range cases {
		if got := domain.ClassifyStatus(tc.status); got != tc.want {
			t.Errorf("status %d: got %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestIsAuthFailure(t *testing.T) {
	authErr := &domain.APIError{Kind: domain.ErrorAuthentication, Status: 401}
	if !domain.IsAuthFailure(authErr) {
		t.Fatal("401 APIError should be an auth failure")
	}
	if !domain.IsAuthFailure(fmt.Errorf("fetch clients: %w", authErr)) {
		t.Fatal("wrapped auth failure should still be detected")
	}
	if domain.IsAuthFailure(&domain.APIError{Kind: domain.ErrorNotFound, Status: 404}) {
		t.Fatal("404 should not be an auth failure")
	}
	if domain.IsAuthFailure(errors.New("boom")) {
		t.Fatal("plain errors are not auth failures")
	}
}

func TestSessionIsExpired(t *testing.T) {
	if (domain.Session{}).IsExpired() {
		t.Fatal("session without expiry must never report expired")
	}
	past := domain.Session{ExpiresAt: time.Now().Add(-time.Minute)}
	if !past.IsExpired() {
		t.Fatal("session past its expiry must report expired")
	}
	future := domain.Session{ExpiresAt: time.Now().Add(time.Hour)}
	if future.IsExpired() {
		t.Fatal("session before its expiry must not report expired")
	}
}

func TestFindCompte(t *testing.T) {
	comptes := []domain.Compte{{NumeroCompte: "A"}, {NumeroCompte: "B"}}

	if idx := domain.FindCompte(comptes, "B"); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
	if idx := domain.FindCompte(comptes, "missing"); idx != -1 {
		t.Fatalf("expected -1 for unknown account, got %d", idx)
	}
}

func TestClientFullName(t *testing.T) {
	c := domain.Client{Nom: "Dupont", Prenom: "Jean"}
	if got := c.FullName(); got != "Jean Dupont" {
		t.Fatalf("got %q", got)
	}
	if got := (domain.Client{Nom: "Dupont"}).FullName(); got != "Dupont" {
		t.Fatalf("got %q", got)
	}
}
