package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/duel-server/internal/db"
)

func newService(t *testing.T) *Service {
	t.Helper()
	sqlDB, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewService(NewUsers(sqlDB), Options{Secret: "test-secret", TTL: time.Hour})
}

func TestUsers_CreateAndAuthenticate(t *testing.T) {
	s := newService(t)

	u, err := s.Users.Create("  alice ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Len(t, u.ID, 22)

	_, err = s.Users.Create("ALICE", "password2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.Users.Authenticate("Alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users.Authenticate("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.Users.Authenticate("nobody", "password1")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = s.Users.ByID("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUsers_Validation(t *testing.T) {
	s := newService(t)
	for _, c := range []struct{ user, pw string }{
		{"ab", "password1"},
		{"has space", "password1"},
		{"bob", "short"},
	} {
		_, err := s.Users.Create(c.user, c.pw)
		assert.Error(t, err, c.user)
	}
}

func TestService_SignParse(t *testing.T) {
	s := newService(t)
	tok, exp, err := s.Sign("id1", "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	p, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, &Principal{ID: "id1", Username: "alice"}, p)

	other := NewService(s.Users, Options{Secret: "another-secret"})
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Require(t *testing.T) {
	s := newService(t)
	u, err := s.Users.Create("alice", "password1")
	require.NoError(t, err)

	h := s.Require()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := FromContext(r.Context())
		require.NotNil(t, p)
		_, _ = w.Write([]byte(p.ID))
	}))

	// no token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// bearer token
	tok, _, err := s.Sign(u.ID, u.Username)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID, rec.Body.String())

	// cookie token
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "wordle_token", Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// valid signature, unknown user
	ghost, _, err := s.Sign("ghost", "ghost")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestService_Cookies(t *testing.T) {
	s := NewService(nil, Options{Secret: "x", Secure: true})
	rec := httptest.NewRecorder()
	s.SetCookie(rec, "tok", time.Now().Add(time.Hour))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "wordle_token", cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)

	rec = httptest.NewRecorder()
	s.ClearCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
