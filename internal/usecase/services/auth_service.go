package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ega-bank/ega-bank-client/internal/adapter/rest/models"
	"github.com/ega-bank/ega-bank-client/internal/adapter/storage"
	"github.com/ega-bank/ega-bank-client/internal/domain"
	"github.com/ega-bank/ega-bank-client/internal/logger"
	"github.com/ega-bank/ega-bank-client/internal/usecase/service_interfaces"
	"github.com/ega-bank/ega-bank-client/internal/watch"
)

const demoSessionLifetime = 24 * time.Hour

// AuthService owns the login/register flows and the current-session
// state. In demo mode credentials are verified against a local bcrypt
// store instead of the backend, so the whole application works offline.
type AuthService struct {
	api      service_interfaces.AuthAPI
	store    *storage.LocalStore
	demoMode bool

	session  *watch.Value[*domain.Session]
	onLogout []func()
}

func NewAuthService(api service_interfaces.AuthAPI, store *storage.LocalStore, demoMode bool) *AuthService {
	s := &AuthService{
		api:      api,
		store:    store,
		demoMode: demoMode,
		session:  watch.NewValue[*domain.Session](nil),
	}
	s.restoreSession()
	return s
}

func (s *AuthService) restoreSession() {
	if s.store == nil {
		return
	}

	var saved domain.Session
	found, err := s.store.Get(storage.KeyCurrentUser, &saved)
	if err != nil {
		logger.Error("auth service session restore failed", err, nil)
		return
	}
	if !found || saved.Token == "" || saved.IsExpired() {
		return
	}

	logger.Info("auth service session restored", logger.Fields{
		"username": saved.Username,
		"role":     saved.Role,
	})
	s.session.Set(&saved)
}

// OnLogout registers a callback invoked whenever the user identity
// transitions to "no user" (explicit logout or expiry handling).
func (s *AuthService) OnLogout(fn func()) {
	s.onLogout = append(s.onLogout, fn)
}

func (s *AuthService) Login(ctx context.Context, req models.AuthRequest) (domain.Session, error) {
	if err := req.Validate(); err != nil {
		return domain.Session{}, err
	}

	logger.Info("auth service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if s.demoMode {
		return s.demoLogin(req)
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		logger.Error("auth service login failed", err, logger.Fields{
			"username": req.Username,
		})
		return domain.Session{}, err
	}
	return s.establishSession(resp), nil
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (domain.Session, error) {
	if err := req.Validate(); err != nil {
		return domain.Session{}, err
	}

	logger.Info("auth service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if s.demoMode {
		return s.demoRegister(req)
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		logger.Error("auth service register failed", err, logger.Fields{
			"username": req.Username,
		})
		return domain.Session{}, err
	}
	return s.establishSession(resp), nil
}

// Logout drops the session, removes the persisted token and user, and
// runs every registered logout callback.
func (s *AuthService) Logout() {
	if s.store != nil {
		_ = s.store.Delete(storage.KeyToken)
		_ = s.store.Delete(storage.KeyCurrentUser)
	}
	s.session.Set(nil)

	for _, fn := range s.onLogout {
		fn()
	}
	logger.Info("auth service logged out", nil)
}

// Token implements rest.TokenSource.
func (s *AuthService) Token() string {
	if sess := s.session.Get(); sess != nil {
		return sess.Token
	}
	return ""
}

func (s *AuthService) IsAuthenticated() bool {
	sess := s.session.Get()
	return sess != nil && sess.Token != "" && !sess.IsExpired()
}

func (s *AuthService) CurrentSession() (domain.Session, bool) {
	if sess := s.session.Get(); sess != nil {
		return *sess, true
	}
	return domain.Session{}, false
}

func (s *AuthService) IsAdmin() bool {
	sess, ok := s.CurrentSession()
	return ok && sess.IsAdmin()
}

func (s *AuthService) IsClient() bool {
	sess, ok := s.CurrentSession()
	return ok && sess.IsClient()
}

// ExpiresWithin reports whether the current session's token expires
// within d. It returns false when no expiry is known.
func (s *AuthService) ExpiresWithin(d time.Duration) bool {
	sess := s.session.Get()
	if sess == nil || sess.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(sess.ExpiresAt) < d
}

// Subscribe streams every session change, starting with the current one
// (nil when logged out).
func (s *AuthService) Subscribe() (<-chan *domain.Session, func()) {
	return s.session.Subscribe()
}

func (s *AuthService) establishSession(resp models.AuthResponse) domain.Session {
	sess := domain.Session{
		Token:    resp.Token,
		UserID:   resp.UserID,
		Username: resp.Username,
		ClientID: resp.ClientID,
		Role:     resp.Role,
	}

	// Prefer the exp claim baked into the token; fall back to the
	// advisory expiresIn the backend may include.
	if exp, ok := tokenExpiry(resp.Token); ok {
		sess.ExpiresAt = exp
	} else if resp.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	s.persistSession(sess)
	s.session.Set(&sess)

	logger.Info("auth service session established", logger.Fields{
		"username": sess.Username,
		"role":     sess.Role,
	})
	return sess
}

func (s *AuthService) persistSession(sess domain.Session) {
	if s.store == nil {
		return
	}
	if err := s.store.Put(storage.KeyToken, sess.Token); err != nil {
		logger.Error("auth service persist token failed", err, nil)
	}
	if err := s.store.Put(storage.KeyCurrentUser, sess); err != nil {
		logger.Error("auth service persist session failed", err, nil)
	}
}

func (s *AuthService) demoLogin(req models.AuthRequest) (domain.Session, error) {
	username := strings.TrimSpace(req.Username)

	creds := s.loadDemoCredentials()
	hash, ok := creds[username]
	if !ok {
		logger.Warn("auth service demo login for unknown username", logger.Fields{
			"username": username,
		})
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	return s.establishSession(demoAuthResponse(username)), nil
}

func (s *AuthService) demoRegister(req models.RegisterRequest) (domain.Session, error) {
	username := strings.TrimSpace(req.Username)

	creds := s.loadDemoCredentials()
	if _, exists := creds[username]; exists {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Session{}, err
	}
	creds[username] = string(hash)

	if s.store != nil {
		if err := s.store.Put(storage.KeyDemoCredentials, creds); err != nil {
			logger.Error("auth service persist demo credentials failed", err, nil)
			return domain.Session{}, err
		}
	}

	return s.establishSession(demoAuthResponse(username)), nil
}

func (s *AuthService) loadDemoCredentials() map[string]string {
	creds := map[string]string{}
	if s.store == nil {
		return creds
	}
	if _, err := s.store.Get(storage.KeyDemoCredentials, &creds); err != nil {
		logger.Error("auth service load demo credentials failed", err, nil)
	}
	return creds
}

// demoAuthResponse synthesizes the login payload for demo sessions; the
// empty clientId routes the ledger store to its personalized demo path.
func demoAuthResponse(username string) models.AuthResponse {
	return models.AuthResponse{
		Token:     "demo-" + uuid.NewString(),
		UserID:    "demo-user-" + username,
		Username:  username,
		Role:      domain.RoleClient,
		ExpiresIn: int64(demoSessionLifetime / time.Second),
	}
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature (the client holds no key). Non-JWT tokens report no expiry.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
