package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialevents/config"
	_ "socialevents/docs"
	"socialevents/internal/adapters/auth"
	"socialevents/internal/adapters/email"
	"socialevents/internal/adapters/media"
	delivery "socialevents/internal/delivery/http"
	"socialevents/internal/delivery/http/controllers"
	"socialevents/internal/delivery/http/middleware"
	"socialevents/internal/repository/postgres"
	"socialevents/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	sessionExpiry   = 30 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

// @title Social Events API
// @version 1.0
// @description Access-controlled social event directory: OTP auth, friendships, visibility-scoped event listings, interest and attendance, applications, comments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	friendshipRepo := postgres.NewFriendshipRepository(db)
	interestRepo := postgres.NewInterestRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	// Adapters
	issuer, verifier := auth.NewJWTAuth(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	mediaStore, err := media.NewDiskStore(cfg.UploadDir, "/uploads")
	if err != nil {
		logger.Error("failed to create media store", "err", err)
		os.Exit(1)
	}

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userSvc := services.NewUserService(userRepo, loginCodeRepo, issuer, verifier, sessionExpiry, emailSvc)
	eventSvc := services.NewEventService(eventRepo, friendshipRepo, attendanceRepo, commentRepo, mediaStore, serviceTimeout)
	interestSvc := services.NewInterestService(interestRepo, eventRepo, friendshipRepo, serviceTimeout)
	friendshipSvc := services.NewFriendshipService(friendshipRepo, userRepo, serviceTimeout)
	applicationSvc := services.NewApplicationService(applicationRepo, eventRepo, friendshipRepo, serviceTimeout)

	// Controllers and router
	mux := delivery.NewRouter(delivery.RouterDeps{
		Logger:       logger,
		Verifier:     verifier,
		Auth:         controllers.NewAuthController(logger, userSvc),
		Events:       controllers.NewEventController(logger, eventSvc, interestSvc, mediaStore),
		Applications: controllers.NewApplicationController(logger, applicationSvc),
		Friendships:  controllers.NewFriendshipController(logger, friendshipSvc),
		Users:        controllers.NewUserController(logger, userSvc),
		UploadDir:    cfg.UploadDir,
	})

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
