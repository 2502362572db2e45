package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/srgjo27/tour_booking/internal/adapter/cache"
	"github.com/srgjo27/tour_booking/internal/adapter/handler"
	"github.com/srgjo27/tour_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/tour_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/tour_booking/internal/core/ports"
	"github.com/srgjo27/tour_booking/internal/core/services"
	"github.com/srgjo27/tour_booking/internal/platform/auth"
	"github.com/srgjo27/tour_booking/internal/platform/config"
	"github.com/srgjo27/tour_booking/internal/platform/database"
	"github.com/srgjo27/tour_booking/internal/platform/logger"
	"github.com/srgjo27/tour_booking/internal/platform/metrics"
)

type repositories struct {
	tx       ports.Transactor
	users    ports.UserRepository
	tourists ports.TouristRepository
	agencies ports.AgencyRepository
	packages ports.PackageRepository
	bookings ports.BookingRepository
	feedback ports.FeedbackRepository
	close    func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Server.LogLevel)
	log.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"storage":     cfg.Server.StorageDriver,
	}).Info("Starting tour booking API")

	repos, err := openRepositories(cfg, log)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := repos.close(); err != nil {
			log.WithError(err).Warn("Failed to close storage")
		}
	}()

	var bookingCache ports.BookingCache
	if cfg.Redis.Addr != "" {
		log.Infof("Connecting to Redis at %s...", cfg.Redis.Addr)
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Warn("Redis unavailable, booking lists will not be cached")
		} else {
			log.Info("Redis connected successfully!")
		}
		bookingCache = cache.NewBookingCache(redisClient, cfg.Redis.CacheTTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	hasher := auth.NewBcryptHasher(cfg.Security.BcryptCost)

	profileService := services.NewProfileService(repos.users, repos.tourists, repos.agencies, appMetrics, log)
	bookingService := services.NewBookingService(repos.tx, profileService, repos.packages, repos.bookings, bookingCache, appMetrics, log)
	feedbackService := services.NewFeedbackService(repos.tx, profileService, repos.bookings, repos.feedback, appMetrics, log)
	packageService := services.NewPackageService(profileService, repos.packages, log)
	authService := services.NewAuthService(repos.tx, repos.users, repos.agencies, profileService, hasher, tokens, log)

	if cfg.Admin.Username != "" {
		if _, err := authService.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatalf("Failed to provision admin account: %v", err)
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		Bookings:       handler.NewBookingHandler(bookingService, log),
		Feedback:       handler.NewFeedbackHandler(feedbackService, log),
		Packages:       handler.NewPackageHandler(packageService, log),
		Auth:           handler.NewAuthHandler(authService, log),
		Tokens:         tokens,
		Log:            log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Server starting on port :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}

	log.Info("Server exiting")
}

func openRepositories(cfg *config.Config, log logrus.FieldLogger) (*repositories, error) {
	if cfg.Server.StorageDriver == config.StorageMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			tx:       store,
			users:    store.Users(),
			tourists: store.Tourists(),
			agencies: store.Agencies(),
			packages: store.Packages(),
			bookings: store.Bookings(),
			feedback: store.Feedback(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := database.NewPostgresDB(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	return &repositories{
		tx:       postgres.NewTransactor(db),
		users:    postgres.NewUserRepository(db),
		tourists: postgres.NewTouristRepository(db),
		agencies: postgres.NewAgencyRepository(db),
		packages: postgres.NewPackageRepository(db),
		bookings: postgres.NewBookingRepository(db),
		feedback: postgres.NewFeedbackRepository(db),
		close:    db.Close,
	}, nil
}
