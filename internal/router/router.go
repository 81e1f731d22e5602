package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/vrooom/car-rental-service/internal/handler"
	"github.com/vrooom/car-rental-service/internal/middleware"
	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/repository"
)

// RegisterRoutes registers routes that carry no middleware at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the guest-facing endpoints: catalog browse,
// quoting, the pending draft and the landing-page search context.
// Catalog reads sit behind the Redis response cache when a client is
// available.
func RegisterPublic(e *echo.Echo, ch *handler.CatalogHandler, bh *handler.BookingHandler, rdb *redis.Client) {
	cars := e.Group("/v1/cars", middleware.CatalogCache(rdb, time.Minute))
	cars.GET("", ch.ListCars)
	cars.GET("/:id", ch.GetCar)

	e.POST("/v1/quotes", bh.Quote)

	e.GET("/v1/bookings/draft", bh.Draft)
	e.DELETE("/v1/bookings/draft", bh.DiscardDraft)

	e.PUT("/v1/search-context", bh.SaveSearchContext)
	e.GET("/v1/search-context", bh.SearchContext)
}

// RegisterAuth registers signup, login and the OTP endpoints under
// /v1/auth with a shared rate limit, plus the session-bound /v1/me
// and /v1/auth/logout.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, secret string, sessions *repository.SessionRepo, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.RateLimit(rdb, 10, time.Minute))
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/verify", a.VerifyOTP)
	g.POST("/resend", a.ResendOTP)

	auth := e.Group("/v1", middleware.Session(secret, sessions))
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout", a.Logout)
}

// RegisterBookings registers the booking lifecycle.  Create uses the
// optional session so a guest checkout answers 401 with the draft
// preserved instead of being rejected at the middleware.
func RegisterBookings(e *echo.Echo, bh *handler.BookingHandler, secret string, sessions *repository.SessionRepo) {
	e.POST("/v1/bookings", bh.Create, middleware.OptionalSession(secret, sessions))

	auth := e.Group("/v1/bookings", middleware.Session(secret, sessions))
	auth.GET("", bh.List)
	auth.DELETE("/:id", bh.Cancel)
}

// RegisterAdmin registers the dashboard endpoints, gated on the admin
// role.
func RegisterAdmin(e *echo.Echo, ah *handler.AdminHandler, secret string, sessions *repository.SessionRepo) {
	g := e.Group("/v1/admin", middleware.Session(secret, sessions), middleware.RequireRole(model.RoleAdmin))

	g.GET("/overview", ah.Overview)

	g.POST("/cars", ah.CreateCar)
	g.PUT("/cars/:id", ah.UpdateCar)
	g.DELETE("/cars/:id", ah.DeleteCar)

	g.GET("/bookings", ah.ListBookings)
	g.DELETE("/bookings/:id", ah.CancelBooking)

	g.GET("/users", ah.ListUsers)

	g.GET("/settings", ah.GetSettings)
	g.PUT("/settings", ah.SaveSettings)

	g.POST("/reset", ah.Reset)
}
