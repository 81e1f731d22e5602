package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/vrooom/car-rental-service/internal/auth"
	"github.com/vrooom/car-rental-service/internal/booking"
	"github.com/vrooom/car-rental-service/internal/catalog"
	"github.com/vrooom/car-rental-service/internal/config"
	"github.com/vrooom/car-rental-service/internal/handler"
	"github.com/vrooom/car-rental-service/internal/queue"
	"github.com/vrooom/car-rental-service/internal/repository"
	"github.com/vrooom/car-rental-service/internal/router"
	"github.com/vrooom/car-rental-service/internal/store"
)

func main() {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	st, err := store.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	// session-scoped values (current user, drafts, search context) are
	// transient and live in memory only
	session := store.NewMemStore()

	provider := catalog.NewProvider(st, cfg.CatalogPath)
	users := repository.NewUserRepo(st)
	bookings := repository.NewBookingRepo(st)
	cars := repository.NewCarRepo(st, provider)
	settings := repository.NewSettingsRepo(st)
	sessions := repository.NewSessionRepo(session)
	otp := auth.NewRegistry()

	flow := &booking.Workflow{
		Catalog:  provider,
		Bookings: bookings,
		Settings: settings,
		Gateway:  booking.NewSimulatedGateway(cfg.PaymentSuccessRate, time.Duration(cfg.PaymentDelayMS)*time.Millisecond),
		Events:   queue.Publisher{},
		Session:  session,
	}

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	bookingHandler := handler.NewBookingHandler(flow, session)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewCatalogHandler(provider), bookingHandler, rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, sessions, settings, otp), cfg.JWTSecret, sessions, rdb)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret, sessions)
	router.RegisterAdmin(e, handler.NewAdminHandler(st, cars, bookings, users, settings, flow), cfg.JWTSecret, sessions)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
