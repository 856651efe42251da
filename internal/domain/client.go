package domain

// Client is the identity/profile record owned by the backend. Field names
// follow the backend wire format (French banking vocabulary).
type Client struct {
	ID            string `json:"id,omitempty"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	DateNaissance string `json:"dateNaissance"`
	Sexe          string `json:"sexe"`
	Adresse       string `json:"adresse"`
	Telephone     string `json:"telephone"`
	Courriel      string `json:"courriel"`
	Nationalite   string `json:"nationalite"`
}

func (c Client) FullName() string {
	if c.Prenom == "" {
		return c.Nom
	}
	return c.Prenom + " " + c.Nom
}
