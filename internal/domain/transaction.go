package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDepot    TransactionType = "DEPOT"
	TransactionRetrait  TransactionType = "RETRAIT"
	TransactionVirement TransactionType = "VIREMENT"
)

// Transaction is an immutable record of a balance-affecting operation.
// SoldeApres snapshots the account balance immediately after the
// transaction was applied.
type Transaction struct {
	ID                       string          `json:"id,omitempty"`
	TypeTransaction          TransactionType `json:"typeTransaction"`
	Montant                  decimal.Decimal `json:"montant"`
	DateTransaction          time.Time       `json:"dateTransaction"`
	CompteNumero             string          `json:"compteNumero"`
	CompteDestinataireNumero string          `json:"compteDestinataireNumero,omitempty"`
	Description              string          `json:"description,omitempty"`
	SoldeApres               decimal.Decimal `json:"soldeApres"`
}

// SortTransactionsDesc orders transactions most-recent-first, the display
// order every published snapshot guarantees.
func SortTransactionsDesc(transactions []Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].DateTransaction.After(transactions[j].DateTransaction)
	})
}
