package domain

import "time"

const (
	RoleAdmin  = "ROLE_ADMIN"
	RoleClient = "ROLE_CLIENT"
)

// Session is the authenticated user state restored from local storage or
// produced by a login/register call.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ClientID  string    `json:"clientId,omitempty"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func (s Session) IsClient() bool {
	return s.Role == RoleClient || s.Role == ""
}

// IsExpired reports whether the session carries an expiry that has
// passed. A zero ExpiresAt means no expiry is known.
func (s Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
