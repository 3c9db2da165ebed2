package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
)

// UserModule wires profile and user administration routes.
// Authenticated: GET /profile, PUT /profile/password
// Admin: GET /users, GET /users/search, POST /users/:id/deactivate
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.AccessTokenParser
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.AccessTokenParser, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(
		middleware.Auth(m.Tokens),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile/password", m.Handler.ChangePassword)
	}

	admin := auth.Group("/users")
	admin.Use(middleware.RequireRole(entity.RoleAdmin.String()))
	{
		admin.GET("", m.Handler.List)
		admin.GET("/search", m.Handler.Search)
		admin.POST("/:id/deactivate", m.Handler.Deactivate)
	}
}
