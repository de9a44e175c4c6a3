// client/session.go

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"airwise/internal/boundary"
	"airwise/internal/logger"
)

// Session is the client-side state between runs: who is logged in, their
// tenant and settings objects, and UI preferences. It is persisted as one
// JSON file; a file that fails to parse is discarded wholesale rather
// than trusted halfway.
type Session struct {
	Operator *boundary.UserBoundary   `json:"operator,omitempty"`
	User     *boundary.UserBoundary   `json:"user,omitempty"`
	Tenant   *boundary.ObjectBoundary `json:"tenant,omitempty"`
	Settings *boundary.ObjectBoundary `json:"settings,omitempty"`
	LoggedIn bool                     `json:"loggedIn"`
	DarkMode bool                     `json:"darkMode"`
}

// SessionStore reads and writes the session file.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load reads the stored session. A missing file yields an empty session;
// a corrupt file is cleared and also yields an empty one.
func (s *SessionStore) Load() *Session {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}
	}
	if err != nil {
		logger.Warn("reading session %s failed: %v", s.path, err)
		return &Session{}
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		logger.Warn("session %s is corrupt, clearing it: %v", s.path, err)
		s.Clear()
		return &Session{}
	}
	return &session
}

func (s *SessionStore) Save(session *Session) error {
	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Clear removes the session file.
func (s *SessionStore) Clear() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("removing session %s failed: %v", s.path, err)
	}
}

// Login initializes a session for an email. An unregistered email is
// auto-provisioned as an end user first. The tenant and settings objects
// are resolved by their alias conventions and are optional: a fresh user
// has neither yet.
func (s *SessionStore) Login(api *Client, email, username, avatar string) (*Session, error) {
	user, err := api.Login(email)
	if errors.Is(err, ErrNotRegistered) {
		user, err = api.Register(&boundary.NewUserBoundary{
			Email:    email,
			Role:     boundary.RoleEndUser,
			Username: username,
			Avatar:   avatar,
		})
		if err != nil {
			return nil, fmt.Errorf("registering %s: %w", email, err)
		}
	} else if err != nil {
		return nil, err
	}

	session := s.Load()
	session.User = user
	session.LoggedIn = true

	if tenants, err := api.SearchByAlias(email, email, 1, 0); err == nil {
		for i := range tenants {
			if tenants[i].Type == boundary.TypeTenant {
				session.Tenant = &tenants[i]
				break
			}
		}
	}
	if session.Tenant != nil && session.Tenant.ID != nil {
		alias := "Settings-" + session.Tenant.ID.ObjectID
		if rows, err := api.SearchByAlias(alias, email, 1, 0); err == nil && len(rows) > 0 {
			session.Settings = &rows[0]
		}
	}

	if err := s.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout drops the identity but keeps UI preferences.
func (s *SessionStore) Logout() error {
	session := s.Load()
	session.User = nil
	session.Operator = nil
	session.Tenant = nil
	session.Settings = nil
	session.LoggedIn = false
	return s.Save(session)
}
