package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardData is a pure projection of everything visible to the current
// user. It is rebuilt wholesale on each refresh, never mutated in place.
type DashboardData struct {
	Clients           []Client        `json:"clients"`
	Comptes           []Compte        `json:"comptes"`
	Transactions      []Transaction   `json:"transactions"`
	ClientsCount      int             `json:"clientsCount"`
	ComptesCount      int             `json:"comptesCount"`
	TransactionsCount int             `json:"transactionsCount"`
	TotalSolde        decimal.Decimal `json:"totalSolde"`
	LastUpdated       time.Time       `json:"lastUpdated"`
}

// EmptyDashboardData returns a well-formed zero snapshot, used when the
// caller is unauthenticated or the cache has just been cleared.
func EmptyDashboardData() DashboardData {
	return DashboardData{
		Clients:      []Client{},
		Comptes:      []Compte{},
		Transactions: []Transaction{},
		TotalSolde:   decimal.Zero,
		LastUpdated:  time.Now(),
	}
}

// BuildDashboardData assembles the aggregate from freshly fetched
// collections, computing counts and the total balance.
func BuildDashboardData(clients []Client, comptes []Compte, transactions []Transaction) DashboardData {
	if clients == nil {
		clients = []Client{}
	}
	if comptes == nil {
		comptes = []Compte{}
	}
	if transactions == nil {
		transactions = []Transaction{}
	}

	return DashboardData{
		Clients:           clients,
		Comptes:           comptes,
		Transactions:      transactions,
		ClientsCount:      len(clients),
		ComptesCount:      len(comptes),
		TransactionsCount: len(transactions),
		TotalSolde:        TotalSolde(comptes),
		LastUpdated:       time.Now(),
	}
}
