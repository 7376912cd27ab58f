// Package auth is the credential authority: the single component permitted
// to mint and revoke credentials. Login issues a paired access+refresh
// credential, refresh re-issues access credentials against the session
// store, logout revokes the tracked refresh session.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"photostream/apperror"
	"photostream/sessions"
	"photostream/token"
	"photostream/users"
)

const (
	// DefaultAccessTTL bounds how long a stolen access credential stays
	// usable; it also bounds how long a logged-out session's last access
	// token keeps working, since access tokens cannot be revoked.
	DefaultAccessTTL = 15 * time.Minute

	// DefaultRefreshTTL is the maximum lifetime of a login session without
	// re-entering credentials.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// invalidCredentialsMsg is shared by the unknown-email and wrong-password
// paths so a caller cannot enumerate registered accounts.
const invalidCredentialsMsg = "invalid email or password"

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Service issues, refreshes and revokes credentials. Both codecs are
// injected: they carry the class-specific secrets, so the service itself
// never touches signing key material.
type Service struct {
	users      users.Repo
	sessions   sessions.Repo
	access     *token.Codec
	refresh    *token.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFunc    func() time.Time
}

// Option modifies a Service at construction time.
type Option func(*Service)

// WithTokenTTLs overrides the access and refresh credential lifetimes.
func WithTokenTTLs(accessTTL, refreshTTL time.Duration) Option {
	return func(s *Service) {
		s.accessTTL = accessTTL
		s.refreshTTL = refreshTTL
	}
}

// WithNowFunc overrides the clock, primarily for tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) {
		s.nowFunc = now
	}
}

// NewService initializes the credential authority with its required
// dependencies.
func NewService(
	userRepo users.Repo,
	sessionRepo sessions.Repo,
	accessCodec, refreshCodec *token.Codec,
	options ...Option,
) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if sessionRepo == nil {
		return nil, errors.New("[NewService] session repo is required")
	}
	if accessCodec == nil || refreshCodec == nil {
		return nil, errors.New("[NewService] access and refresh codecs are required")
	}

	s := &Service{
		users:      userRepo,
		sessions:   sessionRepo,
		access:     accessCodec,
		refresh:    refreshCodec,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		nowFunc:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// RegisterParams is a pre-validated registration payload; field-level
// validation runs at the HTTP boundary before the service is called.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	FullName string
	Bio      string
}

// Register creates a new account. Email and username are lowercased before
// the uniqueness checks so duplicates cannot hide behind casing.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*users.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	username := strings.ToLower(strings.TrimSpace(params.Username))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.New(apperror.Conflict, "this email is already in use")
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, apperror.Wrap(err, apperror.Internal, "could not complete registration")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperror.New(apperror.Conflict, "this username is already taken")
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, apperror.Wrap(err, apperror.Internal, "could not complete registration")
	}

	hash, err := users.HashPassword(params.Password)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "could not complete registration")
	}

	user := &users.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(params.FullName),
		Bio:          strings.TrimSpace(params.Bio),
		Role:         users.RoleUser,
		ProfileImg:   "default.jpg",
		Active:       true,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "could not complete registration")
	}
	return user, nil
}

// Login verifies the credentials and, on success, mints an access+refresh
// pair and records the refresh session. Both failure paths return an
// identical Authentication error.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil, apperror.New(apperror.Authentication, invalidCredentialsMsg)
		}
		return nil, nil, apperror.Wrap(err, apperror.Internal, "could not complete login")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, apperror.New(apperror.Authentication, invalidCredentialsMsg)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *Service) issuePair(ctx context.Context, user *users.User) (*TokenPair, error) {
	now := s.nowFunc()

	accessToken, err := s.access.Sign(user.ID, user.Role, s.accessTTL)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "could not issue credentials")
	}
	refreshToken, err := s.refresh.Sign(user.ID, user.Role, s.refreshTTL)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "could not issue credentials")
	}

	session := sessions.Session{
		SubjectID: user.ID,
		Token:     refreshToken,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "could not issue credentials")
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.accessTTL),
		RefreshExpiresAt: now.Add(s.refreshTTL),
	}, nil
}

// Refresh exchanges a valid, still-tracked refresh credential for a new
// access credential. The refresh credential itself is not rotated: it stays
// valid until its own expiry or logout. Codec failures and a missing
// session record are distinct internally but both surface as the same
// Authentication kind.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		// ErrMalformed, ErrBadSignature, ErrExpired: all terminal, all
		// reported identically to the caller.
		return "", time.Time{}, apperror.Wrap(err, apperror.Authentication, "session is invalid or has expired")
	}

	if _, err := s.sessions.Find(ctx, refreshToken, claims.Subject); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return "", time.Time{}, apperror.Wrap(err, apperror.Authentication, "session is invalid or has expired")
		}
		return "", time.Time{}, apperror.Wrap(err, apperror.Internal, "could not refresh session")
	}

	accessToken, err := s.access.Sign(claims.Subject, claims.Role, s.accessTTL)
	if err != nil {
		return "", time.Time{}, apperror.Wrap(err, apperror.Internal, "could not refresh session")
	}
	return accessToken, s.nowFunc().Add(s.accessTTL), nil
}

// Logout revokes the refresh session. It is idempotent: revoking an absent
// session succeeds. Access credentials already issued remain valid until
// natural expiry — pure statelessness means they cannot be recalled.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, refreshToken); err != nil {
		return apperror.Wrap(err, apperror.Internal, "could not complete logout")
	}
	return nil
}

// User returns the profile backing GET /me.
func (s *Service) User(ctx context.Context, id string) (*users.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, apperror.New(apperror.NotFound, "user no longer exists")
		}
		return nil, apperror.Wrap(err, apperror.Internal, "could not load user")
	}
	return user, nil
}
