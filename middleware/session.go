package middleware

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

type contextKey string

const sessionContextKey contextKey = "session_id"

const sessionName = "rainbowread_session"

// SessionMiddleware hands every browser a stable anonymous session ID via a
// cookie. Bookmarks are keyed by that ID; there are no user accounts.
type SessionMiddleware struct {
	store *sessions.CookieStore
}

func NewSessionMiddleware() *SessionMiddleware {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "default-secret-change-in-production"
		log.Println("WARNING: Using default session secret. Set SESSION_SECRET environment variable!")
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60, // 30 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionMiddleware{store: store}
}

// WithSession ensures the request carries a session ID, minting one on
// first contact, and exposes it through the request context.
func (sm *SessionMiddleware) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := sm.store.Get(r, sessionName)
		if err != nil {
			// A tampered or stale cookie still yields a fresh session.
			log.Printf("Session decode failed, issuing new session: %v", err)
		}

		id, ok := session.Values["id"].(string)
		if !ok || id == "" {
			id = uuid.NewString()
			session.Values["id"] = id
			if err := session.Save(r, w); err != nil {
				log.Printf("Failed to save session: %v", err)
			}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session ID attached by WithSession, or empty when
// the middleware did not run.
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionContextKey).(string)
	return id
}
