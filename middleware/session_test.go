package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithSessionMintsAndReusesID(t *testing.T) {
	sm := NewSessionMiddleware()

	var seen []string
	handler := sm.WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, SessionID(r))
	}))

	// First contact mints an ID and sets the cookie.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/bookmarks", nil))

	if len(seen) != 1 || seen[0] == "" {
		t.Fatal("first request should carry a minted session ID")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("first request should set the session cookie")
	}

	// A request replaying the cookie keeps the same ID.
	req := httptest.NewRequest("GET", "/api/bookmarks", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(seen) != 2 {
		t.Fatalf("handler ran %d times, want 2", len(seen))
	}
	if seen[1] != seen[0] {
		t.Errorf("session ID changed across requests: %q then %q", seen[0], seen[1])
	}
}

func TestSessionIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := SessionID(req); got != "" {
		t.Errorf("got %q, want empty without the middleware", got)
	}
}

func TestTamperedCookieYieldsFreshSession(t *testing.T) {
	sm := NewSessionMiddleware()

	var got string
	handler := sm.WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionID(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "rainbowread_session", Value: "garbage"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == "" {
		t.Error("tampered cookie should still yield a session ID")
	}
}
