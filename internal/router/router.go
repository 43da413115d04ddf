// Package router registers the HTTP routes and mounts the middleware
// chain for each group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/facility-reservation/internal/config"
	"github.com/iliyamo/facility-reservation/internal/handler"
	"github.com/iliyamo/facility-reservation/internal/middleware"
	"github.com/iliyamo/facility-reservation/internal/model"
)

// Deps bundles everything the routes need.
type Deps struct {
	Cfg          config.Config
	Auth         *handler.AuthHandler
	Facilities   *handler.FacilityHandler
	Reservations *handler.ReservationHandler
	Redis        *redis.Client // nil disables rate limiting and caching
}

// Register wires all route groups:
//
//   - public:       health, auth, facility catalogue, availability probe
//   - member:       own reservations (JWT, rate limited)
//   - admin:        facility management, all-reservation views, status
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Auth
	ag := e.Group("/v1/auth")
	ag.POST("/register", d.Auth.Register)
	ag.POST("/login", d.Auth.Login)

	// Public catalogue.  Cached: slightly stale facility data is fine.
	cache := middleware.ResponseCache(config.LoadCache(), d.Redis)
	e.GET("/v1/facilities", d.Facilities.List, cache)
	e.GET("/v1/facilities/:id", d.Facilities.Get, cache)
	e.GET("/v1/facility-types", d.Facilities.ListTypes, cache)

	// Availability probe is public but never cached: a stale answer
	// defeats its purpose.
	e.GET("/v1/availability", d.Reservations.GetAvailability)

	limiter := middleware.RateLimit(config.LoadRateLimit(), d.Redis)

	// Member routes: any authenticated user.
	mg := e.Group("/v1", middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleMember))
	mg.GET("/me", d.Auth.Me)
	mg.POST("/reservations", d.Reservations.Create, limiter)
	mg.GET("/reservations/my", d.Reservations.ListMine)
	mg.GET("/reservations/:id", d.Reservations.GetByID)
	mg.PUT("/reservations/:id", d.Reservations.Update, limiter)
	mg.DELETE("/reservations/:id", d.Reservations.Cancel)

	// Admin routes.
	adm := e.Group("/v1", middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))
	adm.POST("/facilities", d.Facilities.Create)
	adm.PUT("/facilities/:id", d.Facilities.Update)
	adm.DELETE("/facilities/:id", d.Facilities.Delete)
	adm.GET("/reservations", d.Reservations.ListAll)
	adm.GET("/reservations/range", d.Reservations.ListByRange)
	adm.GET("/facilities/:id/reservations", d.Reservations.ListByFacility)
	adm.PATCH("/reservations/:id/status", d.Reservations.SetStatus)
}
