// Package session owns the bearer credential and the signed-in user
// profile, and keeps the persisted credential in step with both.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/halvden/adminboard/internal/client"
)

// AuthClient is the slice of the auth resource client the session needs.
type AuthClient interface {
	Login(ctx context.Context, input client.LoginInput) (client.TokenResponse, error)
	CurrentUser(ctx context.Context) (client.AuthUser, error)
}

// Store is the durable credential store.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Snapshot is an immutable view of the session for the UI layer.
type Snapshot struct {
	Token   string
	User    *client.AuthUser
	Loading bool
	// Generation increments on every login and every invalidation. Views
	// holding data fetched under an older generation must re-fetch.
	Generation uint64
}

// Manager is the single writer of the ambient credential. The user profile
// is non-nil only while a credential is held; the reverse is allowed
// transiently while a profile fetch is in flight or has failed.
type Manager struct {
	auth  AuthClient
	store Store
	log   zerolog.Logger

	mu      sync.Mutex
	token   string
	user    *client.AuthUser
	loading bool
	gen     uint64
}

// New restores any persisted credential to seed the initial state. An
// unreadable store entry degrades to unauthenticated.
func New(auth AuthClient, store Store, log zerolog.Logger) *Manager {
	m := &Manager{auth: auth, store: store, log: log}

	token, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("stored credential unreadable, starting unauthenticated")
		_ = store.Clear()
		return m
	}
	m.token = token
	m.loading = token != ""
	return m
}

// Token implements client.TokenSource. A request issued after Logout
// returns never observes the cleared credential.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Snapshot returns the current session state for the UI.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var user *client.AuthUser
	if m.user != nil {
		u := *m.user
		user = &u
	}
	return Snapshot{Token: m.token, User: user, Loading: m.loading, Generation: m.gen}
}

// Bootstrap runs the single startup profile fetch when a credential was
// restored from disk. The returned error reports why the profile is
// missing; the credential itself may still be held.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.token == "" {
		m.loading = false
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()
	_, err := m.Refresh(ctx)
	return err
}

// Login authenticates and, on success, stores the credential and awaits
// the profile fetch. On failure the credential is left untouched and the
// backend's message is surfaced as a plain error. A failing profile fetch
// after a stored credential is reported to the caller. Never retried.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.auth.Login(ctx, client.LoginInput{Email: email, Password: password})
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = "authentication failed"
			}
			return errors.New(msg)
		}
		return err
	}

	m.mu.Lock()
	m.token = resp.AccessToken
	m.loading = true
	m.gen++
	m.mu.Unlock()

	if err := m.store.Save(resp.AccessToken); err != nil {
		m.log.Warn().Err(err).Msg("could not persist credential")
	}
	m.log.Info().Str("email", email).Msg("logged in")

	if _, err := m.Refresh(ctx); err != nil {
		return err
	}
	return nil
}

// Refresh fetches the current profile. An HTTP-level failure means the
// credential is no longer valid and clears the whole session; a
// transport-level failure leaves it in place. Never retried.
func (m *Manager) Refresh(ctx context.Context) (*client.AuthUser, error) {
	m.mu.Lock()
	if m.token == "" {
		m.loading = false
		m.mu.Unlock()
		return nil, nil
	}
	m.loading = true
	m.mu.Unlock()

	user, err := m.auth.CurrentUser(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false

	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			m.log.Info().Int("status", apiErr.Status).Msg("profile fetch rejected, clearing session")
			m.clearLocked()
		}
		return nil, err
	}

	// Logged out while the fetch was in flight; do not resurrect.
	if m.token == "" {
		return nil, nil
	}

	m.user = &user
	return &user, nil
}

// Logout clears the credential and profile unconditionally. Idempotent,
// no network call.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.log.Info().Msg("logged out")
}

// HandleAuthFailure is wired as the HTTP client's auth-failure callback:
// any authenticated request rejected with 401/403 invalidates the session.
// Late responses from requests in flight at logout land here too, which is
// harmless because the clear transition is idempotent.
func (m *Manager) HandleAuthFailure(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return
	}
	m.log.Info().Int("status", status).Msg("credential rejected, clearing session")
	m.clearLocked()
}

func (m *Manager) clearLocked() {
	m.token = ""
	m.user = nil
	m.loading = false
	m.gen++
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("could not clear persisted credential")
	}
}
