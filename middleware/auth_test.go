package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionCookie(t *testing.T, m *session.Manager, identity models.Identity) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Establish(rec, identity))
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func chain(m *session.Manager, gate func(http.Handler) http.Handler) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity != nil {
			_, _ = io.WriteString(w, identity.Handle)
		}
	})
	return LoadIdentity(m, discardLogger())(gate(ok))
}

func TestRequireUser(t *testing.T) {
	m := session.NewManager("secret", time.Hour, false)
	h := chain(m, RequireUser(m))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vote", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/vote", nil)
	req.AddCookie(sessionCookie(t, m, models.Identity{UserID: 3, Handle: "alice"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	m := session.NewManager("secret", time.Hour, false)
	h := chain(m, RequireAdmin(m))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(sessionCookie(t, m, models.Identity{UserID: 3, Handle: "alice"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	var flashSet bool
	for _, c := range rec.Result().Cookies() {
		flashSet = flashSet || c.Name == session.FlashCookieName
	}
	assert.True(t, flashSet)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(sessionCookie(t, m, models.Identity{UserID: 1, Handle: "admin", IsAdmin: true}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}

func TestLoadIdentityDropsForgedCookie(t *testing.T) {
	m := session.NewManager("secret", time.Hour, false)
	forger := session.NewManager("other", time.Hour, false)
	h := chain(m, func(next http.Handler) http.Handler { return next })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, forger, models.Identity{UserID: 1, Handle: "admin", IsAdmin: true}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Body.String())
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		cleared = cleared || (c.Name == session.SessionCookieName && c.MaxAge < 0)
	}
	assert.True(t, cleared)
}
