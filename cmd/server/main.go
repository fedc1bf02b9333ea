// @title Campus Events API
// @version 1.0
// @description Event management for colleges: events, students, registrations, attendance, feedback and reports.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"campusevents/config"
	_ "campusevents/docs"
	"campusevents/internal/adapters/auth"
	"campusevents/internal/adapters/email"
	"campusevents/internal/adapters/queue"
	"campusevents/internal/adapters/ratelimit"
	deliveryhttp "campusevents/internal/delivery/http"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
	"campusevents/internal/platform/metrics"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
	"campusevents/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	if cfg.DBAutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("database migrated")
	}

	m := metrics.New()
	checks := map[string]controllers.Pinger{"database": db}

	limiter, closeLimiter, err := newRateLimitStore(ctx, cfg, logger, checks)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// Repositories
	adminRepo := postgres.NewAdminRepository(db)
	collegeRepo := postgres.NewCollegeRepository(db)
	studentRepo := postgres.NewStudentRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	// Email
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, renderer, logger)

	// Notifications
	notifier := services.NewRegistrationNotifier(studentRepo, eventRepo, emailService)
	publisher, stopNotifications, err := newPublisher(ctx, cfg, logger, notifier)
	if err != nil {
		return err
	}
	defer stopNotifications()

	// Services
	tokens := auth.NewJWTManager(auth.JWTConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		ResetTTL:      cfg.JWT.ResetTTL,
	})
	authService := services.NewAuthService(adminRepo, auth.NewBcryptHasher(cfg.Bcrypt.Cost), tokens, emailService, logger)
	collegeService := services.NewCollegeService(collegeRepo)
	studentService := services.NewStudentService(studentRepo, collegeRepo)
	eventService := services.NewEventService(eventRepo, collegeRepo, registrationRepo, attendanceRepo, feedbackRepo)
	registrationService := services.NewRegistrationService(registrationRepo, studentRepo, eventRepo, metrics.CountFailures(publisher, m), logger)
	attendanceService := services.NewAttendanceService(attendanceRepo, studentRepo, eventRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, studentRepo, eventRepo)
	reportService := services.NewReportService(eventRepo, studentRepo, collegeRepo, registrationRepo, attendanceRepo, feedbackRepo)

	// Router
	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		Limiter:        limiter,
		APILimit:       middleware.RateLimitConfig{Name: "api", Limit: cfg.RateLimit.Max, Window: cfg.RateLimit.Window},
		AuthLimit:      middleware.RateLimitConfig{Name: "auth", Limit: cfg.AuthRateLimit.Max, Window: cfg.AuthRateLimit.Window},
		Metrics:        m,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}, deliveryhttp.Controllers{
		Auth:         controllers.NewAuthController(logger, authService, tokens, m),
		College:      controllers.NewCollegeController(logger, collegeService),
		Student:      controllers.NewStudentController(logger, studentService),
		Event:        controllers.NewEventController(logger, eventService),
		Registration: controllers.NewRegistrationController(logger, registrationService, m),
		Attendance:   controllers.NewAttendanceController(logger, attendanceService),
		Feedback:     controllers.NewFeedbackController(logger, feedbackService),
		Report:       controllers.NewReportController(logger, reportService, cfg.ReportRecentDays),
		Health:       controllers.NewHealthController(logger, checks),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRateLimitStore returns the Redis store when REDIS_URL is set, otherwise an
// in-memory store swept in the background.
func newRateLimitStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, checks map[string]controllers.Pinger) (domain.RateLimitStore, func(), error) {
	if cfg.RedisURL == "" {
		store := ratelimit.NewMemoryStore()
		store.StartSweeper(ctx, time.Minute)
		logger.Info("rate limiter using in-memory store")
		return store, func() {}, nil
	}
	client, err := ratelimit.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	checks["redis"] = controllers.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	logger.Info("rate limiter using redis")
	return ratelimit.NewRedisStore(client), closeRedis(client, logger), nil
}

func closeRedis(client *redis.Client, logger *slog.Logger) func() {
	return func() {
		if err := client.Close(); err != nil {
			logger.Warn("redis close failed", "err", err)
		}
	}
}

// newPublisher returns a RabbitMQ publisher with a consuming worker when
// RABBITMQ_URL is set, otherwise a publisher that notifies in-process.
func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger, notifier domain.NotificationHandler) (domain.NotificationPublisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("notifications delivered in-process")
		return services.NewInProcessPublisher(notifier), func() {}, nil
	}
	client, err := queue.Dial(cfg.RabbitMQURL, queue.DefaultExchange, queue.DefaultQueue, logger)
	if err != nil {
		return nil, nil, err
	}
	w := worker.NewNotificationWorker(client, notifier, logger)
	w.Start(ctx)
	return client, func() {
		w.Stop()
		client.Close()
	}, nil
}
