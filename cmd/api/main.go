package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/harborstay/harborstay/internal/handlers"
	"github.com/harborstay/harborstay/internal/mailer"
	"github.com/harborstay/harborstay/internal/repository"
	"github.com/harborstay/harborstay/internal/service"
	"github.com/harborstay/harborstay/internal/sweeper"
	"github.com/harborstay/harborstay/pkg/config"
	"github.com/harborstay/harborstay/pkg/database"
	"github.com/harborstay/harborstay/pkg/events"
	"github.com/harborstay/harborstay/pkg/logger"
	mw "github.com/harborstay/harborstay/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if err := database.Migrate(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid redis URL", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	mail := newMailer(cfg)

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	listingRepo := repository.NewListingRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	// Services
	accountService := service.NewAccountService(userRepo, eventBus, mail, cfg)
	listingService := service.NewListingService(listingRepo, userRepo, eventBus)
	bookingService := service.NewBookingService(bookingRepo, listingRepo, userRepo, eventBus, mail)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo, listingRepo, eventBus)

	h := handlers.New(accountService, listingService, bookingService, reviewService, cfg)

	// Completion sweep: confirmed stays past check-out become completed
	sweep := sweeper.New(bookingRepo, eventBus, cfg.Sweep.CompletionSchedule)
	if err := sweep.Start(); err != nil {
		logger.Error("Failed to start completion sweeper", "error", err)
		os.Exit(1)
	}
	defer sweep.Stop()

	authLimiter := mw.NewRateLimiter(rdb, mw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc:  mw.IPKeyFunc,
	})
	bookingLimiter := mw.NewRateLimiter(rdb, mw.RateLimitConfig{
		Requests: 30,
		Window:   time.Minute,
		KeyFunc:  mw.IPKeyFunc,
	})

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h.Routes(r, authLimiter.Middleware(), bookingLimiter.Middleware())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting HarborStay API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func newMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, "HarborStay", cfg.Email.SMTPFrom)
	}
	return mailer.NewSMTPMailer(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom,
		cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS,
	)
}
