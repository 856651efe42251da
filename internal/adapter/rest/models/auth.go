package models

import (
	"errors"
	"strings"
)

type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r AuthRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(r.Password) == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type RegisterRequest struct {
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	DateNaissance string `json:"dateNaissance"`
	Sexe          string `json:"sexe"`
	Adresse       string `json:"adresse"`
	Telephone     string `json:"telephone"`
	Courriel      string `json:"courriel"`
	Nationalite   string `json:"nationalite"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Nom) == "" {
		errs = append(errs, "nom is required")
	}
	if strings.TrimSpace(r.Prenom) == "" {
		errs = append(errs, "prenom is required")
	}
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if len(strings.TrimSpace(r.Password)) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	if courriel := strings.TrimSpace(r.Courriel); courriel != "" && !strings.Contains(courriel, "@") {
		errs = append(errs, "courriel must be a valid email address")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// AuthResponse is the payload returned by the login and register
// endpoints.
type AuthResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type,omitempty"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	ClientID  string `json:"clientId,omitempty"`
	Role      string `json:"role"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
}
