package domain

import "time"

// LedgerState is the full published snapshot of the local simulated
// ledger for one client identity. Consumers treat it as read-only; the
// owning store replaces the whole value on every mutation.
type LedgerState struct {
	Client             *Client       `json:"client"`
	Comptes            []Compte      `json:"comptes"`
	RecentTransactions []Transaction `json:"recentTransactions"`
	AllTransactions    []Transaction `json:"allTransactions"`
	IsLoading          bool          `json:"isLoading"`
	LastUpdated        time.Time     `json:"lastUpdated"`
	IsPersonalized     bool          `json:"isPersonalized"`
	Username           string        `json:"username"`
}

// EmptyLedgerState is the uninitialized shape published before any load
// and after ClearData.
func EmptyLedgerState() LedgerState {
	return LedgerState{
		Comptes:            []Compte{},
		RecentTransactions: []Transaction{},
		AllTransactions:    []Transaction{},
		LastUpdated:        time.Now(),
	}
}

// FindCompte returns the index of the account with the given number, or
// -1 when it is not part of the set.
func FindCompte(comptes []Compte, numeroCompte string) int {
	for i, compte := range comptes {
		if compte.NumeroCompte == numeroCompte {
			return i
		}
	}
	return -1
}
