package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/pet-adoption-api/internal/config"
	"github.com/iliyamo/pet-adoption-api/internal/database"
	"github.com/iliyamo/pet-adoption-api/internal/handler"
	"github.com/iliyamo/pet-adoption-api/internal/middleware"
	"github.com/iliyamo/pet-adoption-api/internal/queue"
	"github.com/iliyamo/pet-adoption-api/internal/repository"
	"github.com/iliyamo/pet-adoption-api/internal/router"
	queue_publisher "github.com/iliyamo/pet-adoption-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(schemaCtx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}
	cancel()

	accounts := repository.NewAccountRepo(db)
	pets := repository.NewPetRepo(db)
	likes := repository.NewLikeRepo(db)

	authH := handler.NewAuthHandler(cfg, accounts)
	rehomerH := handler.NewRehomerHandler(cfg, pets, queue_publisher.PublishListingEvent)
	adopterH := &handler.PublicHandler{Pets: pets}
	likeH := handler.NewAdopterHandler(likes)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Redis is optional: without it the cache and rate limiter disable
	// themselves and every request goes straight to MySQL.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, adopterH, cacheMW)
	router.RegisterRehomer(e, rehomerH, cfg.JWTSecret)
	router.RegisterAdopter(e, likeH, cfg.JWTSecret)

	// Uploaded listing images are served straight from disk.
	e.Static(cfg.UploadBaseURL, cfg.UploadDir)

	// The listing-event consumer runs for the life of the process and
	// reconnects on its own; it never stops the server.
	go func() {
		if err := queue.StartListingConsumer(); err != nil {
			log.Printf("listing consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
