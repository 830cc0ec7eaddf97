package service

import (
	"context"
	"sync"
	"time"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Session owns the authentication token. It gates every business- and
// dashboard-scoped operation, persists the token across restarts, and
// enforces global logout when any response carries an authorization denial.
type Session struct {
	exchanger  port.TokenExchanger
	credential port.Credential
	store      port.TokenStore
	businesses *BusinessContext
	dashboard  *Dashboard
	reporter   *Reporter
	logger     *zap.Logger

	mu    sync.Mutex
	token string
}

// NewSession wires the session manager. Register HandleAuthDenied as the
// client's auth-denial hook to complete the cross-cutting logout policy.
func NewSession(exchanger port.TokenExchanger, credential port.Credential, store port.TokenStore, businesses *BusinessContext, dashboard *Dashboard, reporter *Reporter, logger *zap.Logger) *Session {
	return &Session{
		exchanger:  exchanger,
		credential: credential,
		store:      store,
		businesses: businesses,
		dashboard:  dashboard,
		reporter:   reporter,
		logger:     logger,
	}
}

// Authenticated reports whether a token is installed.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Restore loads the persisted token at startup and, when present, installs
// it and refreshes the business list. The backend remains the authority on
// validity: an expired-looking token is installed anyway and logged.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	s.inspectToken(token)
	return s.SetToken(ctx, token)
}

// inspectToken reads the token's claims without verifying the signature;
// the client never holds the signing key. Purely informational.
func (s *Session) inspectToken(token string) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		s.logger.Debug("stored token is not a parsable JWT", zap.Error(err))
		return
	}
	sub, _ := parsed.Claims.GetSubject()
	exp, err := parsed.Claims.GetExpirationTime()
	if err == nil && exp != nil && exp.Before(time.Now()) {
		s.logger.Warn("restored session token is already expired",
			zap.String("subject", sub),
			zap.Time("expired_at", exp.Time),
		)
		return
	}
	s.logger.Debug("session restored", zap.String("subject", sub))
}

// SetToken stores the token durably, installs it as the bearer credential,
// and triggers a business-list refresh.
func (s *Session) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.store.Save(token); err != nil {
		// The in-memory session still works; only persistence failed.
		s.logger.Error("failed to persist session token", zap.Error(err))
	}
	s.credential.SetToken(token)

	return s.businesses.RefreshList(ctx)
}

// ClearToken removes the credential and tears down all dependent state:
// business list, selection, and published dashboard. Idempotent, so
// concurrent denials from a fan-out collapse into one logout.
func (s *Session) ClearToken() {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.mu.Unlock()

	s.credential.ClearToken()
	if err := s.store.Clear(); err != nil {
		s.logger.Error("failed to remove persisted token", zap.Error(err))
	}
	s.businesses.Reset()
	s.dashboard.Reset()
	s.logger.Info("session cleared")
}

// HandleAuthDenied is the global logout policy, fired by the client on any
// authorization-denied response, irrespective of the originating operation.
func (s *Session) HandleAuthDenied() {
	s.logger.Warn("authorization denied; clearing session")
	s.ClearToken()
}

// Login exchanges credentials for a token atomically: on failure no state
// changes and the prior unauthenticated state persists.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.reporter.Begin()

	token, err := s.exchanger.Login(ctx, email, password)
	if err != nil {
		s.reporter.Fail(err)
		return err
	}
	return s.SetToken(ctx, token)
}

// Register creates an account and signs in with the returned token. The
// backend creates a default business for the new user.
func (s *Session) Register(ctx context.Context, fullName, email, password string) error {
	s.reporter.Begin()

	token, err := s.exchanger.Register(ctx, fullName, email, password)
	if err != nil {
		s.reporter.Fail(err)
		return err
	}
	return s.SetToken(ctx, token)
}

// Me resolves the signed-in user.
func (s *Session) Me(ctx context.Context) (*domain.UserProfile, error) {
	s.reporter.Begin()

	if !s.Authenticated() {
		s.reporter.Fail(domain.ErrNoSession)
		return nil, domain.ErrNoSession
	}
	u, err := s.exchanger.Me(ctx)
	if err != nil {
		s.reporter.Fail(err)
		return nil, err
	}
	return u, nil
}

// Logout clears the session explicitly.
func (s *Session) Logout() {
	s.reporter.Begin()
	s.ClearToken()
}
