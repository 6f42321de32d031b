package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func TestCookieManagerSetPairScopesRefreshCookie(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	NewCookie("example.test", true).SetPair(c, "acc", time.Now().Add(time.Hour), "ref", time.Now().Add(24*time.Hour))

	cookies := map[string]*http.Cookie{}
	for _, ck := range (&http.Response{Header: w.Header()}).Cookies() {
		cookies[ck.Name] = ck
	}
	access, refresh := cookies[AccessCookie], cookies[RefreshCookie]
	if access == nil || refresh == nil {
		t.Fatalf("expected both cookies, got %v", w.Header().Values("Set-Cookie"))
	}
	if access.Path != "/" || refresh.Path != RefreshCookiePath {
		t.Fatalf("unexpected paths %q %q", access.Path, refresh.Path)
	}
	if !access.HttpOnly || !access.Secure || access.MaxAge <= 0 {
		t.Fatalf("unexpected access cookie %+v", access)
	}
}

func TestCookieManagerClearExpires(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	NewCookie("", false).Clear(c)

	for _, ck := range (&http.Response{Header: w.Header()}).Cookies() {
		if ck.MaxAge >= 0 {
			t.Fatalf("expected %s to be expired, got max-age %d", ck.Name, ck.MaxAge)
		}
	}
}
