package router

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the path every feature module is mounted under.
const APIPrefix = "/api"

// Module registers a feature's routes on the shared API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }

// Registry collects API-wide middleware and feature modules and mounts them
// on the engine in one pass.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	once        sync.Once
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(APIPrefix)}
}

// Use adds middleware that runs for every /api route.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	for _, m := range mods {
		if m != nil {
			r.modules = append(r.modules, m)
		}
	}
}

// RegisterAll mounts the collected middleware and modules. Calls after the
// first are no-ops, since gin panics on duplicate routes.
func (r *Registry) RegisterAll() {
	r.once.Do(func() {
		if len(r.middlewares) > 0 {
			r.API.Use(r.middlewares...)
		}
		for _, m := range r.modules {
			m.Register(r.API)
		}
	})
}
