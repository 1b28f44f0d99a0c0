package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"go-storefront/mirror"
	"go-storefront/models"
	"go-storefront/utils"
)

// Demo mode credentials and identities
const (
	DemoAdminEmail    = "admin@jojos.com"
	DemoAdminPassword = "admin123"
	demoAdminID       = "admin-offline"
	demoGoogleEmail   = "user@gmail.com"
)

// offlineAccount is one row of the local credential table
type offlineAccount struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	IsAdmin      bool   `json:"isAdmin"`
}

func (a offlineAccount) identity() models.Identity {
	return models.Identity{ID: a.ID, Name: a.Name, Email: a.Email, IsAdmin: a.IsAdmin}
}

// SessionStore holds the signed-in identity. It is either anonymous or
// carries a complete identity; a persisted identity is trusted on restart.
//
// Logins go to the backend first and fall back to the offline credential
// table only when the backend is unavailable. In demo mode the fallback
// also accepts the emergency admin credential, grants admin rights to any
// email containing "admin" and signs Google logins in as a demo user.
type SessionStore struct {
	remote Remote
	mirror mirror.Mirror
	demo   bool

	mu       sync.Mutex
	identity *models.Identity
	token    string
}

// NewSessionStore restores any identity persisted in m
func NewSessionStore(ctx context.Context, remote Remote, m mirror.Mirror, demoMode bool) *SessionStore {
	s := &SessionStore{remote: remote, mirror: m, demo: demoMode}
	if demoMode {
		zap.L().Warn("INSECURE DEMO MODE: offline logins accept the emergency admin credential and grant admin rights by email")
	}

	var id models.Identity
	found, err := m.Get(ctx, mirror.KeyUser, &id)
	if err != nil {
		zap.L().Warn("failed to restore session", zap.Error(err))
		return s
	}
	if !found || !id.Complete() {
		return s
	}
	var token string
	if _, err := m.Get(ctx, mirror.KeyToken, &token); err != nil {
		zap.L().Warn("failed to restore session token", zap.Error(err))
	}
	s.identity = &id
	s.token = token
	return s
}

// Current returns the signed-in identity
func (s *SessionStore) Current() (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Authenticated reports whether an identity is held
func (s *SessionStore) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Token returns the backend session token. Offline sessions have none.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login signs in with email and password
func (s *SessionStore) Login(ctx context.Context, email, password string) (models.Identity, error) {
	email = normalizeEmail(email)
	if err := models.Validate(models.LoginRequest{Email: email, Password: password}); err != nil {
		return models.Identity{}, err
	}

	res, err := s.remote.Login(ctx, email, password)
	if err == nil {
		s.establish(ctx, res.User, res.Token)
		return res.User, nil
	}
	if !errors.Is(err, ErrNetworkUnavailable) {
		return models.Identity{}, err
	}
	zap.L().Warn("backend login failed, attempting offline auth", zap.Error(err))

	if s.demo && email == DemoAdminEmail && password == DemoAdminPassword {
		id := models.Identity{ID: demoAdminID, Name: "Jojo Admin", Email: DemoAdminEmail, IsAdmin: true}
		zap.L().Warn("demo mode: emergency admin credential used")
		s.establish(ctx, id, "")
		return id, nil
	}

	accounts, err := s.accounts(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	acct, ok := findAccount(accounts, email)
	if !ok {
		return models.Identity{}, fmt.Errorf("user not found (offline): %w", ErrInvalidCredentials)
	}
	if !utils.CheckPassword(acct.PasswordHash, password) {
		return models.Identity{}, ErrInvalidCredentials
	}
	id := acct.identity()
	s.establish(ctx, id, "")
	return id, nil
}

// Register creates an account and signs it in
func (s *SessionStore) Register(ctx context.Context, email, password, name string) (models.Identity, error) {
	email = normalizeEmail(email)
	if err := models.Validate(models.RegisterRequest{Email: email, Password: password, Name: name}); err != nil {
		return models.Identity{}, err
	}

	res, err := s.remote.Register(ctx, email, password, name)
	if err == nil {
		s.establish(ctx, res.User, res.Token)
		return res.User, nil
	}
	if !errors.Is(err, ErrNetworkUnavailable) {
		return models.Identity{}, err
	}
	zap.L().Warn("backend register failed, attempting offline register", zap.Error(err))

	accounts, err := s.accounts(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	if _, ok := findAccount(accounts, email); ok {
		return models.Identity{}, fmt.Errorf("offline: %w", ErrAlreadyExists)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}
	acct := offlineAccount{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      s.demo && strings.Contains(email, "admin"),
	}
	if err := s.mirror.Put(ctx, mirror.KeyCredentials, append(accounts, acct)); err != nil {
		return models.Identity{}, fmt.Errorf("failed to save offline account: %w", err)
	}

	id := acct.identity()
	s.establish(ctx, id, "")
	return id, nil
}

// GoogleLogin signs in with a Google ID token
func (s *SessionStore) GoogleLogin(ctx context.Context, idToken string) (models.Identity, error) {
	if strings.TrimSpace(idToken) == "" {
		return models.Identity{}, &models.ValidationError{Field: "token", Message: "token is required"}
	}

	res, err := s.remote.GoogleLogin(ctx, idToken)
	if err == nil {
		s.establish(ctx, res.User, res.Token)
		return res.User, nil
	}
	if !s.demo || !errors.Is(err, ErrNetworkUnavailable) {
		return models.Identity{}, err
	}

	zap.L().Warn("demo mode: backend unavailable, signing in as the demo Google user", zap.Error(err))
	id := models.Identity{
		ID:    "google-user-" + utils.NewID(),
		Name:  "Google User (Demo)",
		Email: demoGoogleEmail,
	}
	s.establish(ctx, id, "")
	return id, nil
}

// Logout discards the identity and any persisted token
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.token = ""
	for _, key := range []string{mirror.KeyUser, mirror.KeyToken} {
		if err := s.mirror.Delete(ctx, key); err != nil {
			zap.L().Warn("failed to clear persisted session", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *SessionStore) establish(ctx context.Context, id models.Identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &id
	s.token = token

	if err := s.mirror.Put(ctx, mirror.KeyUser, id); err != nil {
		zap.L().Warn("failed to persist session", zap.Error(err))
	}
	var err error
	if token == "" {
		err = s.mirror.Delete(ctx, mirror.KeyToken)
	} else {
		err = s.mirror.Put(ctx, mirror.KeyToken, token)
	}
	if err != nil {
		zap.L().Warn("failed to persist session token", zap.Error(err))
	}
}

func (s *SessionStore) accounts(ctx context.Context) ([]offlineAccount, error) {
	var accounts []offlineAccount
	if _, err := s.mirror.Get(ctx, mirror.KeyCredentials, &accounts); err != nil {
		return nil, fmt.Errorf("failed to read offline accounts: %w", err)
	}
	return accounts, nil
}

func findAccount(accounts []offlineAccount, email string) (offlineAccount, bool) {
	for _, a := range accounts {
		if a.Email == email {
			return a, true
		}
	}
	return offlineAccount{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
