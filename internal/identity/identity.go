// Package identity resolves who owns a cart or order for a given
// request: an authenticated account when one is present, otherwise the
// anonymous session token the client generated. Resolution never fails;
// it degrades to an anonymous identity.
package identity

import (
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
)

const SessionName = "clicktoeat-session"

type OwnerKind string

const (
	OwnerSession OwnerKind = "session"
	OwnerAccount OwnerKind = "account"
)

// Identity is the explicit ownership context threaded through every cart
// and order operation. A cart row is owned by exactly one identity.
type Identity struct {
	Kind OwnerKind
	Key  string
}

// OwnerKey is the storage join key. The kind prefix keeps account IDs
// and session tokens from ever colliding.
func (id Identity) OwnerKey() string {
	return string(id.Kind) + ":" + id.Key
}

func (id Identity) IsAnonymous() bool {
	return id.Kind == OwnerSession
}

type Resolver struct {
	Sessions *sessions.CookieStore
}

// Resolve prefers the authenticated account over the anonymous session
// token. sessionToken comes from the request (query or body); it may be
// empty, in which case the identity is anonymous with an empty key and
// cart reads simply come back empty.
func (rv *Resolver) Resolve(r *http.Request, sessionToken string) Identity {
	if user := rv.AccountID(r); user != 0 {
		return Identity{Kind: OwnerAccount, Key: strconv.FormatInt(user, 10)}
	}
	return Identity{Kind: OwnerSession, Key: sessionToken}
}

// AccountID returns the logged-in user's ID, or 0 when the request is
// anonymous.
func (rv *Resolver) AccountID(r *http.Request) int64 {
	session, _ := rv.Sessions.Get(r, SessionName)
	id, ok := session.Values["user_id"].(int64)
	if !ok || id == 0 {
		return 0
	}
	return id
}

// Login is the single mutation point that binds a request's session
// cookie to an account.
func (rv *Resolver) Login(w http.ResponseWriter, r *http.Request, userID int64) error {
	session, _ := rv.Sessions.Get(r, SessionName)
	session.Values["user_id"] = userID
	return session.Save(r, w)
}

// Logout clears the account binding and expires the cookie. The client
// is expected to discard its session token as well, so a new anonymous
// session never inherits the previous user's cart.
func (rv *Resolver) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := rv.Sessions.Get(r, SessionName)
	delete(session.Values, "user_id")
	session.Options.MaxAge = -1 // Expire immediately
	return session.Save(r, w)
}
