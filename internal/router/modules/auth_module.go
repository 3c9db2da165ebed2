package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
)

// AuthModule serves registration, login, token refresh and logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  middleware.AccessTokenParser
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, tokens middleware.AccessTokenParser, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	g := rg.Group("/auth")
	g.POST("/register", registerLimiter, m.Handler.Register)
	g.POST("/login", loginLimiter, m.Handler.Login)
	g.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	g.POST("/logout",
		middleware.Auth(m.Tokens),
		middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.Logout,
	)
}
