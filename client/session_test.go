// client/session_test.go

package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"airwise/internal/boundary"
)

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestSessionStore(t *testing.T) {
	t.Run("Missing File Yields Empty Session", func(t *testing.T) {
		store := NewSessionStore(sessionPath(t))
		session := store.Load()
		require.False(t, session.LoggedIn)
		require.Nil(t, session.User)
	})

	t.Run("Save And Reload", func(t *testing.T) {
		path := sessionPath(t)
		store := NewSessionStore(path)

		require.NoError(t, store.Save(&Session{
			User: &boundary.UserBoundary{
				UserID: &boundary.UserID{SystemID: "airwise", Email: "tenant@test.com"},
				Role:   boundary.RoleEndUser,
			},
			LoggedIn: true,
			DarkMode: true,
		}))

		session := NewSessionStore(path).Load()
		require.True(t, session.LoggedIn)
		require.True(t, session.DarkMode)
		require.Equal(t, "tenant@test.com", session.User.UserID.Email)
	})

	t.Run("Corrupt File Is Cleared Wholesale", func(t *testing.T) {
		path := sessionPath(t)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store := NewSessionStore(path)
		session := store.Load()
		require.False(t, session.LoggedIn, "a corrupt session must not be trusted halfway")

		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err), "the corrupt file must be removed")
	})

	t.Run("Logout Keeps Preferences", func(t *testing.T) {
		path := sessionPath(t)
		store := NewSessionStore(path)
		require.NoError(t, store.Save(&Session{
			User:     &boundary.UserBoundary{Role: boundary.RoleEndUser},
			LoggedIn: true,
			DarkMode: true,
		}))

		require.NoError(t, store.Logout())

		session := store.Load()
		require.False(t, session.LoggedIn)
		require.Nil(t, session.User)
		require.True(t, session.DarkMode, "dark mode survives a logout")
	})
}

// loginServer fakes the login, registration and alias-search endpoints.
func loginServer(t *testing.T, known map[string]boundary.UserBoundary) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/users/login/"):
			email := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
			user, ok := known[email]
			if !ok {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"user is not registered"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(user)

		case r.Method == http.MethodPost && r.URL.Path == "/users":
			var newUser boundary.NewUserBoundary
			_ = json.NewDecoder(r.Body).Decode(&newUser)
			created := boundary.UserBoundary{
				UserID:   &boundary.UserID{SystemID: "airwise", Email: newUser.Email},
				Role:     newUser.Role,
				Username: newUser.Username,
				Avatar:   newUser.Avatar,
			}
			known[newUser.Email] = created
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(created)

		case strings.HasPrefix(r.URL.Path, "/objects/search/byAlias/"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"no objects found"}`))

		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSessionLogin(t *testing.T) {
	t.Run("Known User Logs Straight In", func(t *testing.T) {
		srv := loginServer(t, map[string]boundary.UserBoundary{
			"tenant@test.com": {
				UserID: &boundary.UserID{SystemID: "airwise", Email: "tenant@test.com"},
				Role:   boundary.RoleEndUser,
			},
		})
		defer srv.Close()

		store := NewSessionStore(sessionPath(t))
		session, err := store.Login(New(srv.URL, "airwise"), "tenant@test.com", "Tenant", "T")
		require.NoError(t, err)
		require.True(t, session.LoggedIn)
		require.Equal(t, "tenant@test.com", session.User.UserID.Email)
	})

	t.Run("Unknown User Is Auto-Provisioned", func(t *testing.T) {
		known := map[string]boundary.UserBoundary{}
		srv := loginServer(t, known)
		defer srv.Close()

		store := NewSessionStore(sessionPath(t))
		session, err := store.Login(New(srv.URL, "airwise"), "new@test.com", "Newcomer", "N")
		require.NoError(t, err)
		require.True(t, session.LoggedIn)
		require.Equal(t, boundary.RoleEndUser, session.User.Role, "auto-provisioning registers an end user")
		require.Contains(t, known, "new@test.com")
	})
}
