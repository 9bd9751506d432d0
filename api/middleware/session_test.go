package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSessionMintsIdentifierForNewVisitor(t *testing.T) {
	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if seen == "" {
		t.Fatal("expected a minted session id in context")
	}
	if got := w.Header().Get("X-Session-Id"); got != seen {
		t.Fatalf("header session %q does not match context %q", got, seen)
	}

	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "gn_session" && c.Value == seen {
			found = true
		}
	}
	if !found {
		t.Fatal("expected gn_session cookie with the minted id")
	}
}

func TestSessionHeaderWins(t *testing.T) {
	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-from-header")
	req.AddCookie(&http.Cookie{Name: "gn_session", Value: "sess-from-cookie"})

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "sess-from-header" {
		t.Fatalf("session = %q, want header value", seen)
	}
}

func TestSessionFallsBackToCookie(t *testing.T) {
	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "gn_session", Value: "sess-from-cookie"})

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "sess-from-cookie" {
		t.Fatalf("session = %q, want cookie value", seen)
	}
}
