package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"event-marketplace/internal/models"
)

type contextKey string

const cartKeyContextKey contextKey = "cart_key"

const (
	// SessionName is the cookie name for the marketplace session.
	SessionName = "marketplace-session"

	guestIDSessionKey = "guest_id"
	userIDSessionKey  = "user_id"
)

// SessionMiddleware resolves the cart owner for every request. Logged-in
// users are identified by the user id stored in the session; everyone else
// gets a stable guest id minted on first contact.
type SessionMiddleware struct {
	store sessions.Store
}

// NewSessionMiddleware creates a session middleware backed by a cookie store.
func NewSessionMiddleware(secret string, secure bool) *SessionMiddleware {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionMiddleware{store: store}
}

// NewSessionMiddlewareWithStore creates a session middleware with a custom
// store. Tests use this to avoid cookie plumbing.
func NewSessionMiddlewareWithStore(store sessions.Store) *SessionMiddleware {
	return &SessionMiddleware{store: store}
}

// WithCartKey attaches the resolved cart key to the request context. A new
// guest id is generated and persisted to the session when the request
// carries neither a user id nor a guest id.
func (m *SessionMiddleware) WithCartKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			// Corrupt cookie; start over with a fresh session.
			session, _ = m.store.New(r, SessionName)
		}

		var key models.CartKey
		if userID, ok := session.Values[userIDSessionKey].(int); ok && userID > 0 {
			key = models.UserKey(userID)
		} else {
			guestID, ok := session.Values[guestIDSessionKey].(string)
			if !ok || guestID == "" {
				guestID = uuid.New().String()
				session.Values[guestIDSessionKey] = guestID
				if err := session.Save(r, w); err != nil {
					http.Error(w, "session error", http.StatusInternalServerError)
					return
				}
			}
			key = models.SessionKey(guestID)
		}

		ctx := context.WithValue(r.Context(), cartKeyContextKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithCartKeyContext returns a context carrying the given cart key. Handler
// tests use this to skip the session round trip.
func WithCartKeyContext(ctx context.Context, key models.CartKey) context.Context {
	return context.WithValue(ctx, cartKeyContextKey, key)
}

// GetCartKey returns the cart key resolved by WithCartKey. The boolean is
// false when the middleware did not run for this request.
func GetCartKey(r *http.Request) (models.CartKey, bool) {
	key, ok := r.Context().Value(cartKeyContextKey).(models.CartKey)
	return key, ok
}
