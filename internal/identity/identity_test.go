package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver() *Resolver {
	return &Resolver{Sessions: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))}
}

func TestResolveAnonymous(t *testing.T) {
	rv := newResolver()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	id := rv.Resolve(r, "session_123_456")
	assert.True(t, id.IsAnonymous())
	assert.Equal(t, "session:session_123_456", id.OwnerKey())

	// No token at all still resolves, to an empty anonymous identity.
	id = rv.Resolve(r, "")
	assert.True(t, id.IsAnonymous())
	assert.Equal(t, "session:", id.OwnerKey())
}

func TestResolvePrefersAccount(t *testing.T) {
	rv := newResolver()

	// Log in and capture the cookie.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, rv.Login(w, r, 42))
	cookie := w.Result().Cookies()

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookie {
		r2.AddCookie(c)
	}

	id := rv.Resolve(r2, "session_123_456")
	assert.False(t, id.IsAnonymous())
	assert.Equal(t, "account:42", id.OwnerKey())
	assert.Equal(t, int64(42), rv.AccountID(r2))
}

func TestLogoutClearsAccount(t *testing.T) {
	rv := newResolver()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, rv.Login(w, r, 42))

	r2 := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	require.NoError(t, rv.Logout(w2, r2))

	// The set-cookie from logout expires the session.
	var expired bool
	for _, c := range w2.Result().Cookies() {
		if c.Name == SessionName && c.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired)
}
