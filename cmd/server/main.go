package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/epanchayat/digital-gram-panchayat/internal/config"
	"github.com/epanchayat/digital-gram-panchayat/internal/database"
	"github.com/epanchayat/digital-gram-panchayat/internal/handler"
	"github.com/epanchayat/digital-gram-panchayat/internal/middleware"
	"github.com/epanchayat/digital-gram-panchayat/internal/queue"
	"github.com/epanchayat/digital-gram-panchayat/internal/repository"
	"github.com/epanchayat/digital-gram-panchayat/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: with no client, rate limiting and response
	// caching silently become pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	rateLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	responseCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	certs := repository.NewCertificateRepo(db)
	grievances := repository.NewGrievanceRepo(db)
	schemes := repository.NewSchemeRepo(db)
	properties := repository.NewPropertyRepo(db)

	auth := handler.NewAuthHandler(cfg, users)
	h := router.Handlers{
		Certificates: handler.NewCertificateHandler(certs),
		Grievances:   handler.NewGrievanceHandler(grievances),
		Schemes:      handler.NewSchemeHandler(schemes),
		Properties:   handler.NewPropertyHandler(properties),
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, rateLimiter)
	router.RegisterPublic(e, h.Schemes, h.Properties, responseCache)
	router.RegisterProtected(e, h, cfg.JWTSecret)

	// Audit consumer runs for the life of the process and reconnects on
	// broker failure.
	go func() {
		if err := queue.StartCertificateConsumer(); err != nil {
			log.Printf("certificate consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
