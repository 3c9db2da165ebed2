package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

type stubParser struct {
	want   string
	claims *helpers.AccessClaims
}

func (p stubParser) ParseAccessToken(token string) (*helpers.AccessClaims, error) {
	if token != p.want {
		return nil, errors.New("bad token")
	}
	return p.claims, nil
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestAuth(t *testing.T) {
	id := uuid.New()
	parser := stubParser{want: "good", claims: &helpers.AccessClaims{
		Email:            "ana@example.com",
		Role:             "Admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	}}

	r := newEngine(Auth(parser))
	r.GET("/me", func(c *gin.Context) {
		uid, ok := UserID(c)
		if !ok || uid != id || c.GetString(CtxUserRoleKey) != "Admin" || c.GetString(CtxUserEmailKey) != "ana@example.com" {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"bearer", "Bearer good", "", http.StatusNoContent},
		{"bearer lowercase scheme", "bearer good", "", http.StatusNoContent},
		{"cookie", "", "good", http.StatusNoContent},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	setRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set(CtxUserRoleKey, role) }
	}
	for role, want := range map[string]int{"Admin": http.StatusOK, "Employee": http.StatusForbidden, "": http.StatusForbidden} {
		r := newEngine(setRole(role), RequireRole("Admin"))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != want {
			t.Fatalf("role %q: status = %d, want %d", role, w.Code, want)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("caller id not honoured: body=%q header=%q", w.Body.String(), w.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id\n")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if _, err := uuid.Parse(w.Body.String()); err != nil {
		t.Fatalf("expected a fresh uuid, got %q", w.Body.String())
	}
}

func TestRealIP(t *testing.T) {
	r := newEngine(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIPKey)) })

	cases := map[string]map[string]string{
		"203.0.113.9":  {"CF-Connecting-IP": "203.0.113.9", "X-Forwarded-For": "198.51.100.1"},
		"198.51.100.1": {"X-Forwarded-For": "198.51.100.1, 10.0.0.1"},
	}
	for want, headers := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Body.String() != want {
			t.Fatalf("real ip = %q, want %q", w.Body.String(), want)
		}
	}
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	gin.SetMode(gin.TestMode)
	for ip, want := range map[string]bool{"127.0.0.1": true, "10.1.2.3": true, "192.168.0.7": true, "8.8.8.8": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set(CtxRealIPKey, ip)
		if got := allow(c); got != want {
			t.Fatalf("AllowPrivateIP(%s) = %v", ip, got)
		}
	}
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := newEngine(RateLimit(nil, 1, 0, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
}

func TestKeyByUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key := KeyByUserID()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(CtxRealIPKey, "10.0.0.1")
	if got := key(c); got != "rl:user:anon:ip:10.0.0.1" {
		t.Fatalf("anonymous key = %q", got)
	}
	id := uuid.New()
	c.Set(CtxUserIDKey, id)
	if got := key(c); got != "rl:user:"+id.String() {
		t.Fatalf("user key = %q", got)
	}
}

type captureHook struct{ entries []*logrus.Entry }

func (h *captureHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *captureHook) Fire(e *logrus.Entry) error {
	h.entries = append(h.entries, e)
	return nil
}

func TestRequestLogger(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hook := &captureHook{}
	logger.AddHook(hook)

	r := newEngine(RequestIDMiddleware(), RequestLogger(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, p := range []string{"/ok", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	if len(hook.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(hook.entries))
	}
	ok, boom := hook.entries[0], hook.entries[1]
	if ok.Level != logrus.InfoLevel || ok.Data["status"] != http.StatusOK || ok.Data["path"] != "/ok" {
		t.Fatalf("ok entry = %v %v", ok.Level, ok.Data)
	}
	if boom.Level != logrus.ErrorLevel || boom.Data["request_id"] == "" {
		t.Fatalf("boom entry = %v %v", boom.Level, boom.Data)
	}
}
