package bootstrap

import (
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/interfaces/http/handler"
	"github.com/derbent/backend/internal/interfaces/http/middleware"
	"github.com/derbent/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteOptions tunes the protected middleware chain
type RouteOptions struct {
	Blacklist  auth.TokenBlacklist
	Logger     *zap.Logger
	LoginLimit gin.HandlerFunc
	Profiling  bool
}

// Mount registers the API and the health probes on engine and returns the
// JWT middleware so that other endpoints can reuse it
func (c *Container) Mount(engine *gin.Engine, system *handler.SystemHandler, opts RouteOptions) gin.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	jwtAuth := middleware.JWTAuth(middleware.JWTConfig{
		Validator: c.JWT,
		Blacklist: opts.Blacklist,
		Logger:    log,
	})

	r := router.NewRouter(engine)
	r.Use(
		jwtAuth,
		middleware.Tenant(middleware.TenantConfig{Checker: c.Companies, Logger: log}),
		middleware.SpanAttributes(),
	)
	if opts.Profiling {
		r.Use(middleware.Profiling())
	}
	r.Use(middleware.RequireWrite())

	router.Mount(r, c.Handlers(system), router.DefaultGuards(opts.LoginLimit))
	r.Setup()
	router.MountProbes(engine, system)

	return jwtAuth
}
