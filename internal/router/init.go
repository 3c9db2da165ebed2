package router

import (
	"github.com/oksasatya/go-ddd-identity/internal/container"
	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/router/modules"
)

// InitModules builds the handlers from c and adds every feature module to r.
// Call it once at start-up, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	authHandler := handlers.NewAuthHandler(c.Service, c.Logger, c.Cookies)
	userHandler := handlers.NewUserHandler(c.Service, c.Logger)

	r.Add(modules.NewAuthModule(authHandler, c.Tokens, c.Redis))
	r.Add(modules.NewUserModule(userHandler, c.Tokens, c.Redis))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
