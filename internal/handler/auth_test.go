package handler

import (
	"net/http"
	"testing"

	"gambling-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

func newAuthRoutes(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler("test-secret", 720, []string{"user1", "user2"})
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	return r
}

func TestLoginKnownCode(t *testing.T) {
	r := newAuthRoutes(t)

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{"user_code": "user1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	token, _ := dataField(t, w, "token").(string)
	if token == "" {
		t.Fatal("expected a token in the response")
	}
	if got, _ := dataField(t, w, "user_code").(string); got != "user1" {
		t.Fatalf("expected user_code user1, got %q", got)
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.CookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected login to set the token cookie")
	}
}

func TestLoginTrimsWhitespace(t *testing.T) {
	r := newAuthRoutes(t)

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{"user_code": "  user1  "})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginUnknownCodeRejected(t *testing.T) {
	r := newAuthRoutes(t)

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{"user_code": "stranger"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	if envelope["code"].(float64) != 40101 {
		t.Fatalf("expected business code 40101, got %v", envelope["code"])
	}
}

func TestLoginMissingCodeRejected(t *testing.T) {
	r := newAuthRoutes(t)

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r := newAuthRoutes(t)

	w := doJSON(t, r, http.MethodPost, "/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected logout to expire the token cookie")
	}
}
