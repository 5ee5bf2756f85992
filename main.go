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

	"github.com/gin-gonic/gin"

	"band-backend/config"
	"band-backend/controllers"
	"band-backend/mailer"
	"band-backend/repositories"
	"band-backend/routes"
	"band-backend/services"
)

// room for the text fields and multipart framing around one image
const formOverheadBytes = 1 << 20

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)
	gin.SetMode(cfg.GinMode)

	db, err := config.ConnectDatabase(cfg.Database)
	if err != nil {
		slog.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established and migrations applied")

	// Repositories
	adminRepo := repositories.NewAdminRepository(db)
	resetTokenRepo := repositories.NewResetTokenRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	performanceRepo := repositories.NewPerformanceRepository(db)

	// Services
	sender := mailer.New(mailer.Settings{
		ResendAPIKey: cfg.Mail.ResendAPIKey,
		From:         cfg.Mail.From,
		SMTPHost:     cfg.Mail.SMTPHost,
		SMTPPort:     cfg.Mail.SMTPPort,
		SMTPUsername: cfg.Mail.SMTPUsername,
		SMTPPassword: cfg.Mail.SMTPPassword,
		SMTPFromName: cfg.Mail.SMTPFromName,
	})
	notificationService := services.NewNotificationService(sender, cfg.Mail.From, cfg.Mail.ContactRecipient, cfg.SiteName)
	authService := services.NewAuthService(adminRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	resetService := services.NewPasswordResetService(adminRepo, resetTokenRepo, authService, notificationService, cfg.FrontendURL, cfg.Auth.ResetTokenTTL)
	images := services.NewImageStore(cfg.Upload.Dir, cfg.Upload.URLPrefix, cfg.Upload.MaxBytes)
	memberService := services.NewMemberService(memberRepo, images)
	performanceService := services.NewPerformanceService(performanceRepo, images, time.Local, time.Now)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := authService.EnsureDefaultAdmin(bootCtx, cfg.Auth.DefaultAdminUsername, cfg.Auth.DefaultAdminPassword, cfg.Auth.DefaultAdminEmail); err != nil {
		cancelBoot()
		slog.Error("default admin seeding failed", "error", err)
		os.Exit(1)
	}
	if n, err := resetService.PurgeExpired(bootCtx); err != nil {
		slog.Warn("purge expired reset tokens failed", "error", err)
	} else if n > 0 {
		slog.Info("purged expired reset tokens", "count", n)
	}
	cancelBoot()

	// Controllers
	router := routes.SetupRouter(routes.Options{
		CORSOrigins:        cfg.CORSOrigins,
		UploadDir:          cfg.Upload.Dir,
		UploadURLPrefix:    cfg.Upload.URLPrefix,
		MaxMultipartMemory: cfg.Upload.MaxBytes,
		MaxBodyBytes:       cfg.Upload.MaxBytes + formOverheadBytes,
	}, routes.Controllers{
		Contact:      controllers.NewContactController(notificationService),
		Auth:         controllers.NewAuthController(authService, resetService),
		Members:      controllers.NewMemberController(memberService),
		Performances: controllers.NewPerformanceController(performanceService),
	}, authService)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if err := config.CloseDatabase(db); err != nil {
		slog.Warn("close database", "error", err)
	}

	slog.Info("server stopped gracefully")
}
