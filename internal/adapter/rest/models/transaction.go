package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// OperationRequest is the payload for deposit (depot) and withdrawal
// (retrait) posts.
type OperationRequest struct {
	NumeroCompte string          `json:"numeroCompte"`
	Montant      decimal.Decimal `json:"montant"`
	Description  string          `json:"description,omitempty"`
}

func (r OperationRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.NumeroCompte) == "" {
		errs = append(errs, "numeroCompte is required")
	}
	if r.Montant.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "montant must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// VirementRequest is the payload for the transfer endpoint.
type VirementRequest struct {
	CompteSource       string          `json:"compteSource"`
	CompteDestinataire string          `json:"compteDestinataire"`
	Montant            decimal.Decimal `json:"montant"`
	Description        string          `json:"description,omitempty"`
}

func (r VirementRequest) Validate() error {
	var errs []string

	source := strings.TrimSpace(r.CompteSource)
	dest := strings.TrimSpace(r.CompteDestinataire)
	if source == "" {
		errs = append(errs, "compteSource is required")
	}
	if dest == "" {
		errs = append(errs, "compteDestinataire is required")
	}
	if source != "" && source == dest {
		errs = append(errs, "compteSource and compteDestinataire cannot be the same")
	}
	if r.Montant.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "montant must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ReleveRequest asks for an account statement over a date range
// (YYYY-MM-DD bounds, inclusive).
type ReleveRequest struct {
	NumeroCompte string `json:"numeroCompte"`
	DateDebut    string `json:"dateDebut"`
	DateFin      string `json:"dateFin"`
}

func (r ReleveRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.NumeroCompte) == "" {
		errs = append(errs, "numeroCompte is required")
	}
	if strings.TrimSpace(r.DateDebut) == "" {
		errs = append(errs, "dateDebut is required")
	}
	if strings.TrimSpace(r.DateFin) == "" {
		errs = append(errs, "dateFin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
