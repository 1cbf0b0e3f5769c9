package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gambling-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

var testCodes = []string{"user1", "user2"}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, testCodes))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserKey))
	})
	return r
}

func validToken(t *testing.T, userCode string) string {
	t.Helper()
	token, err := util.GenerateToken(testSecret, userCode, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, "user1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "user1" {
		t.Fatalf("expected user code in context, got %q", w.Body.String())
	}
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping?token="+validToken(t, "user1"), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAuthAcceptsCookie(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: validToken(t, "user2")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "user2" {
		t.Fatalf("expected user2, got %q", w.Body.String())
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRejectsCodeOffAllowList(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, "stranger"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown code, got %d", w.Code)
	}
}
