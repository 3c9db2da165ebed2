package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieManager writes the token pair as HttpOnly cookies.
type CookieManager struct {
	Domain string
	Secure bool
	Now    func() time.Time
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, Now: time.Now}
}

func (m *CookieManager) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, access, m.maxAgeFrom(aexp), "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshTokenCookie, refresh, m.maxAgeFrom(rexp), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) maxAgeFrom(exp time.Time) int {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	sec := int(exp.Sub(now()).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
