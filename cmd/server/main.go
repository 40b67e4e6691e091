package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/mwaldr/gigpack-server/internal/config"     // Internal config loader
	"github.com/mwaldr/gigpack-server/internal/database"   // MySQL connection helper
	"github.com/mwaldr/gigpack-server/internal/gigpack"    // Gig pack save transaction
	"github.com/mwaldr/gigpack-server/internal/handler"    // HTTP handlers
	"github.com/mwaldr/gigpack-server/internal/middleware" // Cache and rate limit middleware
	"github.com/mwaldr/gigpack-server/internal/queue"      // Broker consumer
	"github.com/mwaldr/gigpack-server/internal/repository" // Data access layer
	"github.com/mwaldr/gigpack-server/internal/router"     // Route registration
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the public page cache and the auth rate limiter.  A nil
	// client disables both; the server still works without Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories share the one *sql.DB pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	gigs := repository.NewGigRepo(db)
	roles := repository.NewRoleRepo(db)
	bands := repository.NewBandRepo(db)
	contacts := repository.NewContactRepo(db)
	notifications := repository.NewNotificationRepo(db)
	shares := repository.NewShareTokenRepo(db)

	saver := gigpack.NewSaver(db)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, rateMW)
	router.RegisterAPI(e, router.APIHandlers{
		Gigs:          handler.NewGigHandler(gigs),
		Pack:          handler.NewPackHandler(saver, gigs, shares),
		Bands:         handler.NewBandHandler(bands),
		Contacts:      handler.NewContactHandler(contacts),
		Invitations:   handler.NewInvitationHandler(roles),
		Payments:      handler.NewPaymentHandler(gigs, roles),
		Notifications: handler.NewNotificationHandler(notifications),
	}, cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(gigs, shares), cacheMW)

	// Background consumer that turns broker events into the notification
	// log.  It reconnects forever and never takes the server down.
	go func() {
		if err := queue.StartInviteConsumer(); err != nil {
			log.Printf("invite consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
