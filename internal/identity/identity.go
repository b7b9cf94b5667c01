// Package identity keeps the single local user profile and the session flag.
//
// The password is stored and compared in plaintext. This is a convenience
// login for one person on one machine and must not be exposed to a network
// or shared between users.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"smartfinance/internal/core"
	"smartfinance/internal/log"
	"smartfinance/internal/metrics"
	"smartfinance/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNoProfile          = errors.New("no profile has been created")
)

// Options configure Open. The zero value requires an explicit login after
// every restart.
type Options struct {
	// AutoAuthenticate starts the session authenticated when a profile is
	// already stored.
	AutoAuthenticate bool
	Now              func() time.Time
	Logger           *log.Logger
}

// Session is a snapshot of the session state.
type Session struct {
	Authenticated bool       `json:"authenticated"`
	User          *core.User `json:"user,omitempty"`
}

// Identity is safe for concurrent use.
type Identity struct {
	mu            sync.RWMutex
	store         storage.Store
	user          *core.User
	authenticated bool
	now           func() time.Time
	logger        *log.Logger
}

// Open loads the stored profile, if any.
func Open(ctx context.Context, store storage.Store, opts Options) (*Identity, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	id := &Identity{
		store:  store,
		now:    now,
		logger: logger.WithComponent(log.ComponentIdentity),
	}

	var u core.User
	found, err := storage.GetJSON(ctx, store, storage.KeyUser, &u)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if found {
		id.user = &u
		id.authenticated = opts.AutoAuthenticate
	}
	return id, nil
}

// Signup validates form and stores it as the one profile, replacing any
// earlier one. The session is left unauthenticated; call Login next.
func (i *Identity) Signup(ctx context.Context, form SignupForm) (core.User, error) {
	if err := form.Validate(); err != nil {
		return core.User{}, err
	}

	u := form.user()

	i.mu.Lock()
	defer i.mu.Unlock()

	u.ID = i.now().UnixMilli()
	if err := storage.PutJSON(ctx, i.store, storage.KeyUser, u); err != nil {
		i.logger.ErrorContext(ctx, "Failed to persist profile", log.FieldOperation, log.OpSignup, log.FieldError, err, log.FieldErrorType, log.ErrorTypeStorage)
		return core.User{}, err
	}
	i.user = &u
	i.authenticated = false

	i.logger.InfoContext(ctx, "Profile created", log.FieldEmail, u.Email)
	return u, nil
}

// Login starts the session when email and password exactly match the stored
// profile.
func (i *Identity) Login(ctx context.Context, email, password string) (core.User, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.user == nil || i.user.Email != email || i.user.Password != password {
		metrics.RecordLogin(false)
		i.logger.WarnContext(ctx, "Login rejected", log.FieldEmail, email)
		return core.User{}, ErrInvalidCredentials
	}

	i.authenticated = true
	metrics.RecordLogin(true)
	i.logger.InfoContext(ctx, "Login succeeded", log.FieldEmail, email)
	return i.user.Clone(), nil
}

// Logout ends the session. The profile stays stored.
func (i *Identity) Logout(ctx context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.authenticated {
		i.logger.InfoContext(ctx, "Logged out")
	}
	i.authenticated = false
}

// UpdateProfile merges the set fields of upd into the stored profile.
func (i *Identity) UpdateProfile(ctx context.Context, upd ProfileUpdate) (core.User, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.authenticated {
		return core.User{}, ErrNotAuthenticated
	}
	if i.user == nil {
		return core.User{}, ErrNoProfile
	}

	next := i.user.Clone()
	upd.apply(&next)

	if err := storage.PutJSON(ctx, i.store, storage.KeyUser, next); err != nil {
		i.logger.ErrorContext(ctx, "Failed to persist profile", log.FieldOperation, log.OpUpdate, log.FieldError, err, log.FieldErrorType, log.ErrorTypeStorage)
		return core.User{}, err
	}
	i.user = &next

	i.logger.InfoContext(ctx, "Profile updated")
	return next.Clone(), nil
}

// Authenticated reports whether a session is active.
func (i *Identity) Authenticated() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.authenticated
}

// Current returns the profile of the active session.
func (i *Identity) Current() (core.User, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if !i.authenticated || i.user == nil {
		return core.User{}, false
	}
	return i.user.Clone(), true
}

// Session returns the session state with the profile when authenticated.
func (i *Identity) Session() Session {
	u, ok := i.Current()
	if !ok {
		return Session{}
	}
	return Session{Authenticated: true, User: &u}
}
