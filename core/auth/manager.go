package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/techfixpro/appkit/core/apiclient"
	"github.com/techfixpro/appkit/core/logger"
	"github.com/techfixpro/appkit/core/storage"
	"github.com/techfixpro/appkit/pkg/jwt"
)

// Storage keys for the persisted session.
const (
	keyToken = "auth_token"
	keyUser  = "user_data"
)

// API is the slice of the backend client the manager depends on.
type API interface {
	Login(ctx context.Context, identifier, password string) (*apiclient.AuthResponse, error)
	Refresh(ctx context.Context, token string) (*apiclient.AuthResponse, error)
	Me(ctx context.Context) (*apiclient.User, error)
	SetAuthToken(token string)
	ClearAuthToken()
}

// SessionStore persists the session across restarts. The storage gateway's
// ephemeral tier satisfies it.
type SessionStore interface {
	SetEphemeral(key string, value any) error
	GetEphemeral(key string, out any) error
	RemoveEphemeral(key string) error
}

// UserStore is optionally implemented by session stores that can also keep
// the profile in a structured record store for offline access. The storage
// gateway implements it.
type UserStore interface {
	PutRecord(ctx context.Context, store string, rec storage.Record) error
}

// Credentials are the login form values. The identifier must be an email
// address and the password at least six characters.
type Credentials struct {
	Identifier string `validate:"required,email"`
	Password   string `validate:"required,min=6"`
}

// Result is the outcome of a login attempt. Message is user-facing and set
// only on failure.
type Result struct {
	Success bool
	Message string
	User    *apiclient.User
	Token   string
}

// Manager owns the session: login with lockout after repeated failures,
// persisted token and profile, local token validation with optional server
// verification, and token refresh. Safe for concurrent use.
type Manager struct {
	cfg      Config
	api      API
	store    SessionStore
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
	online   func() bool

	mu           sync.Mutex
	token        string
	user         *apiclient.User
	attempts     int
	lockoutUntil time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for session lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock replaces the time source. Used by tests to control lockout and
// expiry windows.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithOnlineProbe sets the connectivity check consulted before server-side
// token verification. Defaults to always online.
func WithOnlineProbe(online func() bool) Option {
	return func(m *Manager) {
		if online != nil {
			m.online = online
		}
	}
}

// New creates a Manager. Zero config values fall back to defaults.
func New(cfg Config, api API, store SessionStore, opts ...Option) *Manager {
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = 3
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Minute
	}
	if cfg.RefreshThreshold <= 0 {
		cfg.RefreshThreshold = 5 * time.Minute
	}

	m := &Manager{
		cfg:      cfg,
		api:      api,
		store:    store,
		log:      logger.Discard(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		online:   func() bool { return true },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads the persisted session. A stored token that no longer
// validates locally is discarded along with the cached profile.
func (m *Manager) Restore(ctx context.Context) error {
	var token string
	if err := m.store.GetEphemeral(keyToken, &token); err != nil || token == "" {
		return nil
	}

	if !jwt.IsValid(token, m.now()) {
		m.log.Info("stored token is invalid, clearing session")
		return m.clearSession()
	}

	var user apiclient.User
	if err := m.store.GetEphemeral(keyUser, &user); err == nil {
		m.mu.Lock()
		m.user = &user
		m.mu.Unlock()
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	m.api.SetAuthToken(token)

	m.log.Info("session restored")
	return nil
}

// Login authenticates the credentials. Every failed attempt, including
// malformed credentials, counts toward the lockout; after the configured
// number of failures logins are refused for the lockout duration. Malformed
// credentials never reach the network.
func (m *Manager) Login(ctx context.Context, creds Credentials) *Result {
	m.mu.Lock()
	if m.now().Before(m.lockoutUntil) {
		remaining := remainingMinutes(m.lockoutUntil.Sub(m.now()))
		m.mu.Unlock()
		return &Result{Message: fmt.Sprintf(msgLockedOut, remaining)}
	}
	m.mu.Unlock()

	if err := m.validate.Struct(creds); err != nil {
		m.registerFailure()
		return &Result{Message: msgInvalidCredentials}
	}

	session, err := m.api.Login(ctx, creds.Identifier, creds.Password)
	if err != nil {
		m.log.Warn("login failed", logger.Error(err))
		m.registerFailure()
		return &Result{Message: loginMessage(err)}
	}
	if session.JWT == "" {
		m.registerFailure()
		return &Result{Message: msgInvalidAuthResponse}
	}

	m.establishSession(ctx, session)
	m.log.Info("login successful", logger.Key("user_id", session.User.ID))

	return &Result{Success: true, User: &session.User, Token: session.JWT}
}

// Logout ends the session. The failure counter and any active lockout are
// left in place; only a successful login resets them. Logging out without an
// active session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	return m.clearSession()
}

// IsAuthenticated reports whether an active, valid session exists. A locally
// expired token ends the session. When the connectivity probe reports
// online, the token is additionally verified with the server and any
// rejection ends the session; offline, a locally valid token is trusted.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return false
	}
	if !jwt.IsValid(token, m.now()) {
		_ = m.clearSession()
		return false
	}

	if m.online() {
		user, err := m.api.Me(ctx)
		if err != nil {
			m.log.Warn("token verification failed", logger.Error(err))
			_ = m.clearSession()
			return false
		}
		m.mu.Lock()
		m.user = user
		m.mu.Unlock()
	}

	return true
}

// CurrentUser returns the authenticated user's profile, or
// ErrNotAuthenticated when no valid session exists.
func (m *Manager) CurrentUser(ctx context.Context) (*apiclient.User, error) {
	if !m.IsAuthenticated(ctx) {
		return nil, ErrNotAuthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, nil
}

// Token returns the current session token, empty when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// RefreshToken exchanges the current token for a fresh one. A rejected
// refresh ends the session.
func (m *Manager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return ErrNoToken
	}

	session, err := m.api.Refresh(ctx, token)
	if err != nil || session.JWT == "" {
		_ = m.clearSession()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		}
		return ErrRefreshFailed
	}

	m.mu.Lock()
	m.token = session.JWT
	m.mu.Unlock()

	if err := m.store.SetEphemeral(keyToken, session.JWT); err != nil {
		m.log.Warn("failed to persist refreshed token", logger.Error(err))
	}
	m.api.SetAuthToken(session.JWT)

	m.log.Info("token refreshed")
	return nil
}

func (m *Manager) establishSession(ctx context.Context, session *apiclient.AuthResponse) {
	m.mu.Lock()
	m.token = session.JWT
	m.user = &session.User
	m.attempts = 0
	m.lockoutUntil = time.Time{}
	m.mu.Unlock()

	// Persistence failures degrade to an in-memory session.
	if err := m.store.SetEphemeral(keyToken, session.JWT); err != nil {
		m.log.Warn("failed to persist session token", logger.Error(err))
	}
	if err := m.store.SetEphemeral(keyUser, session.User); err != nil {
		m.log.Warn("failed to persist user profile", logger.Error(err))
	}

	// Mirror the profile into the structured tier for offline reads.
	if us, ok := m.store.(UserStore); ok {
		rec := storage.Record{
			"id":        session.User.ID,
			"username":  session.User.Username,
			"email":     session.User.Email,
			"confirmed": session.User.Confirmed,
			"blocked":   session.User.Blocked,
		}
		if err := us.PutRecord(ctx, "users", rec); err != nil {
			m.log.Warn("failed to mirror user record", logger.Error(err))
		}
	}

	m.api.SetAuthToken(session.JWT)
}

func (m *Manager) clearSession() error {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	m.api.ClearAuthToken()

	if err := m.store.RemoveEphemeral(keyToken); err != nil {
		return err
	}
	return m.store.RemoveEphemeral(keyUser)
}

func (m *Manager) registerFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The counter resets only on a successful login, so once the lockout
	// window elapses a single further failure re-locks immediately.
	m.attempts++
	if m.attempts >= m.cfg.MaxLoginAttempts {
		m.lockoutUntil = m.now().Add(m.cfg.LockoutDuration)
		m.log.Warn("account locked after repeated failures",
			logger.Count("attempts", m.attempts))
	}
}

// remainingMinutes rounds a lockout remainder up to whole minutes for the
// user-facing message.
func remainingMinutes(d time.Duration) int {
	minutes := int(d / time.Minute)
	if d%time.Minute > 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
