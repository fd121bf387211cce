package adminauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neevdiamonds/storefront-backend/pkg/auth/adminsession"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
	redislib "github.com/neevdiamonds/storefront-backend/pkg/redis"
	"github.com/neevdiamonds/storefront-backend/pkg/security"
)

// lockoutScope keys the shared admin login counters. There is one admin
// account, so the scope is fixed.
const lockoutScope = "admin_login"

type attemptStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
	LockoutKey(scope string) string
	CounterKey(scope string) string
}

// Status is the lockout view exposed to the admin login page.
type Status struct {
	Locked       bool       `json:"locked"`
	AttemptsLeft int        `json:"attempts_left"`
	LockedUntil  *time.Time `json:"locked_until,omitempty"`
}

// Service authenticates the single admin account with a failed-attempt
// lockout window backed by Redis.
type Service interface {
	EnsureSeed(ctx context.Context) error
	Login(ctx context.Context, password string) (string, *Status, error)
	Status(ctx context.Context) (*Status, error)
	ChangePassword(ctx context.Context, current, next string) error
}

type service struct {
	repo     *Repository
	store    attemptStore
	sessions *adminsession.Manager
	logg     *logger.Logger
	cfg      config.AdminConfig
}

// NewService constructs the admin auth service.
func NewService(repo *Repository, store attemptStore, sessions *adminsession.Manager, logg *logger.Logger, cfg config.AdminConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("attempt store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be positive")
	}
	return &service{repo: repo, store: store, sessions: sessions, logg: logg, cfg: cfg}, nil
}

// EnsureSeed stores a hash of the configured bootstrap password when no
// admin password exists yet. An already-changed password is left alone.
func (s *service) EnsureSeed(ctx context.Context) error {
	hash, err := s.repo.GetPasswordHash(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading admin password")
	}
	if hash != "" {
		return nil
	}

	seeded, err := security.HashPassword(s.cfg.Password, security.DefaultParams)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing bootstrap password")
	}
	if err := s.repo.SetPasswordHash(ctx, seeded); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seeding admin password")
	}
	s.logg.Info(ctx, "admin password seeded")
	return nil
}

// Login verifies the password unless the account is locked. Each failure
// burns one attempt inside the rolling window; exhausting them locks the
// account for the configured duration.
func (s *service) Login(ctx context.Context, password string) (string, *Status, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return "", nil, err
	}
	if status.Locked {
		return "", status, pkgerrors.New(pkgerrors.CodeRateLimit, "too many failed attempts").
			WithDetails(status)
	}

	hash, err := s.repo.GetPasswordHash(ctx)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading admin password")
	}
	if hash == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeInternal, "admin password not seeded")
	}

	ok, err := security.VerifyPassword(password, hash)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		status, err := s.recordFailure(ctx)
		return "", status, err
	}

	// success resets the window
	if err := s.store.Del(ctx, s.store.CounterKey(lockoutScope), s.store.LockoutKey(lockoutScope)); err != nil {
		s.logg.Error(ctx, "resetting login counters failed", err)
	}

	token, err := s.sessions.Issue(time.Now())
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issuing admin session")
	}

	s.logg.Info(ctx, "admin login succeeded")
	return token, &Status{AttemptsLeft: s.cfg.MaxAttempts}, nil
}

func (s *service) recordFailure(ctx context.Context) (*Status, error) {
	count, err := s.store.IncrWithTTL(ctx, s.store.CounterKey(lockoutScope), s.cfg.AttemptWindow)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording failed attempt")
	}

	left := s.cfg.MaxAttempts - int(count)
	if left > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "attempts_left", left), "admin login failed")
		status := &Status{AttemptsLeft: left}
		return status, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password").WithDetails(status)
	}

	until := time.Now().Add(s.cfg.LockoutDuration)
	if err := s.store.Set(ctx, s.store.LockoutKey(lockoutScope), until.Format(time.RFC3339), s.cfg.LockoutDuration); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "locking admin account")
	}
	if err := s.store.Del(ctx, s.store.CounterKey(lockoutScope)); err != nil {
		s.logg.Error(ctx, "clearing attempt counter failed", err)
	}

	s.logg.Warn(ctx, "admin account locked")
	status := &Status{Locked: true, LockedUntil: &until}
	return status, pkgerrors.New(pkgerrors.CodeRateLimit, "too many failed attempts").WithDetails(status)
}

// Status reports the current lockout state without burning an attempt.
func (s *service) Status(ctx context.Context) (*Status, error) {
	raw, err := s.store.Get(ctx, s.store.LockoutKey(lockoutScope))
	if err != nil && !errors.Is(err, redislib.Nil) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading lockout state")
	}
	if raw != "" {
		until, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr == nil && until.After(time.Now()) {
			return &Status{Locked: true, LockedUntil: &until}, nil
		}
	}

	used := 0
	if countRaw, err := s.store.Get(ctx, s.store.CounterKey(lockoutScope)); err == nil && countRaw != "" {
		fmt.Sscanf(countRaw, "%d", &used)
	} else if err != nil && !errors.Is(err, redislib.Nil) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading attempt counter")
	}

	left := s.cfg.MaxAttempts - used
	if left < 0 {
		left = 0
	}
	return &Status{AttemptsLeft: left}, nil
}

// ChangePassword swaps the admin password after verifying the current one.
func (s *service) ChangePassword(ctx context.Context, current, next string) error {
	if len(next) < 4 {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must be at least 4 characters")
	}

	hash, err := s.repo.GetPasswordHash(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading admin password")
	}
	ok, err := security.VerifyPassword(current, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	newHash, err := security.HashPassword(next, security.DefaultParams)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing new password")
	}
	if err := s.repo.SetPasswordHash(ctx, newHash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing new password")
	}

	s.logg.Info(ctx, "admin password changed")
	return nil
}
