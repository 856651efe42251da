package domain

import "github.com/shopspring/decimal"

type CompteType string

const (
	CompteTypeCourant CompteType = "COURANT"
	CompteTypeEpargne CompteType = "EPARGNE"
)

// Compte is a balance-holding account belonging to a client. Solde must
// stay non-negative at rest; only a transfer's debit-then-credit window
// may observe intermediate values, and that window is never published.
type Compte struct {
	ID           string          `json:"id,omitempty"`
	NumeroCompte string          `json:"numeroCompte"`
	TypeCompte   CompteType      `json:"typeCompte"`
	Solde        decimal.Decimal `json:"solde"`
	DateCreation string          `json:"dateCreation,omitempty"`
	ClientID     string          `json:"clientId,omitempty"`
	ClientNom    string          `json:"clientNom,omitempty"`
	ClientPrenom string          `json:"clientPrenom,omitempty"`
}

// TotalSolde sums the balances of the given accounts.
func TotalSolde(comptes []Compte) decimal.Decimal {
	total := decimal.Zero
	for _, compte := range comptes {
		total = total.Add(compte.Solde)
	}
	return total
}
