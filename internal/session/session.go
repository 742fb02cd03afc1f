// Package session holds the authentication state for one run of the
// application. It replaces ambient auth globals with an explicitly
// constructed object injected into the controller and caches.
package session

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/minhvu/todopad/internal/api"
)

// Credential store keys.
const (
	keyToken = "token"
	keyUser  = "user"
)

// CredentialStore persists the bearer credential between runs. The
// keyring-backed implementation lives in the credential package; tests
// inject an in-memory one.
type CredentialStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// userInfo is the persisted identity portion of a credential.
type userInfo struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Session is the current authentication context. The zero state is guest
// mode: no credential, everything routed to ephemeral storage.
type Session struct {
	mu    sync.RWMutex
	creds CredentialStore
	log   zerolog.Logger

	token string
	user  userInfo
}

// New creates a guest session backed by the given credential store.
func New(creds CredentialStore, log zerolog.Logger) *Session {
	return &Session{creds: creds, log: log}
}

// Restore loads any persisted credential into the session. A missing or
// unreadable credential simply leaves the session in guest mode. The
// caller is expected to validate the restored credential against the
// server (api.Client.Ping) and call Logout if it has expired.
func (s *Session) Restore() {
	token, err := s.creds.Get(keyToken)
	if err != nil || token == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if raw, err := s.creds.Get(keyUser); err == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.user); err != nil {
			s.log.Debug().Err(err).Msg("discarding unparsable persisted user info")
			s.user = userInfo{}
		}
	}
}

// Login installs a freshly issued credential and persists it. Credential
// store failures are logged, not surfaced: the in-memory session is
// authoritative for the current run.
func (s *Session) Login(creds api.Credentials) {
	s.mu.Lock()
	s.token = creds.Token
	s.user = userInfo{
		Username: creds.Username,
		Email:    creds.Email,
		Role:     creds.Role,
	}
	s.mu.Unlock()

	if err := s.creds.Set(keyToken, creds.Token); err != nil {
		s.log.Warn().Err(err).Msg("persisting token failed")
		return
	}
	if raw, err := json.Marshal(s.snapshotUser()); err == nil {
		if err := s.creds.Set(keyUser, string(raw)); err != nil {
			s.log.Warn().Err(err).Msg("persisting user info failed")
		}
	}
}

// Logout clears the credential, both in memory and in the store.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = userInfo{}
	s.mu.Unlock()

	if err := s.creds.Delete(keyToken); err != nil {
		s.log.Debug().Err(err).Msg("removing persisted token failed")
	}
	if err := s.creds.Delete(keyUser); err != nil {
		s.log.Debug().Err(err).Msg("removing persisted user info failed")
	}
}

// Authenticated reports whether a bearer credential is present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current bearer credential, or "" in guest mode.
// Its method value satisfies api.TokenFunc.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username returns the authenticated user's name, or "" in guest mode.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Username
}

// IsAdmin reports whether the authenticated user carries the admin role.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.EqualFold(s.user.Role, "admin")
}

func (s *Session) snapshotUser() userInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
