package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newAuthRouter(jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	authed := r.Group("/", Auth(nil, jwt))
	authed.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })
	authed.GET("/admin", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	t.Parallel()

	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	r := newAuthRouter(jwt)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}
}

func TestAuthAcceptsBearerAndCookie(t *testing.T) {
	t.Parallel()

	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	r := newAuthRouter(jwt)
	tok, _, err := jwt.GenerateAccessToken("user-1", "sid-1", []string{"user"})
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "user-1" {
		t.Fatalf("bearer: got %d %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: tok})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cookie: got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	r := newAuthRouter(jwt)

	cases := []struct {
		roles []string
		want  int
	}{
		{[]string{"user"}, http.StatusForbidden},
		{[]string{"user", "admin"}, http.StatusNoContent},
	}
	for _, tc := range cases {
		tok, _, _ := jwt.GenerateAccessToken("u", "s", tc.roles)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("roles %v: expected %d, got %d", tc.roles, tc.want, w.Code)
		}
	}
}
