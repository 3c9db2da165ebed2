package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestCookieManagerSetPairAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m := NewCookieManager("example.com", true)
	m.Now = func() time.Time { return now }

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	m.SetPair(c, "acc", now.Add(15*time.Minute), "ref", now.Add(-time.Minute))

	cookies := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	a := cookies[AccessTokenCookie]
	if a == nil || a.Value != "acc" || a.MaxAge != 900 || !a.HttpOnly || !a.Secure {
		t.Fatalf("access cookie = %+v", a)
	}
	if r := cookies[RefreshTokenCookie]; r == nil || r.Value != "ref" {
		t.Fatalf("refresh cookie = %+v", r)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	m.Clear(c)
	for _, ck := range w.Result().Cookies() {
		if ck.Value != "" || ck.MaxAge >= 0 {
			t.Fatalf("cleared cookie %s = %+v", ck.Name, ck)
		}
	}
	if n := len(w.Result().Cookies()); n != 2 {
		t.Fatalf("cleared %d cookies, want 2", n)
	}
}
