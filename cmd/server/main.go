package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/booking"
    "github.com/iliyamo/property-reservation/internal/config"
    "github.com/iliyamo/property-reservation/internal/database"
    "github.com/iliyamo/property-reservation/internal/handler"
    "github.com/iliyamo/property-reservation/internal/middleware"
    "github.com/iliyamo/property-reservation/internal/queue"
    "github.com/iliyamo/property-reservation/internal/repository"
    "github.com/iliyamo/property-reservation/internal/router"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional: a nil client disables the response cache and the
    // rate limiter but the booking engine keeps working.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; response cache and rate limiting disabled")
    }

    resources := repository.NewResourceRepo(db)
    packages := repository.NewPackageRepo(db)
    reservations := repository.NewReservationRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)

    engine := booking.NewEngine(reservations, packages)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    browseH := handler.NewBrowseHandler(resources, packages)
    availH := handler.NewAvailabilityHandler(engine, resources)
    guestH := handler.NewGuestHandler(engine, reservations, resources, packages)
    ownerH := handler.NewOwnerHandler(resources, packages, reservations)

    e := echo.New()
    e.HideBanner = true

    rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    e.Use(rateLimit)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, browseH, availH, respCache)
    router.RegisterGuest(e, guestH, availH, cfg.JWTSecret)
    router.RegisterOwner(e, ownerH, cfg.JWTSecret)

    // Background consumer appends confirmed reservations to logs/reservation.log.
    // It reconnects on broker failures and never takes the server down.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
