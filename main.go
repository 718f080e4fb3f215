package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"detailstudio-backend/cache"
	"detailstudio-backend/config"
	"detailstudio-backend/metrics"
	"detailstudio-backend/routes"
	"detailstudio-backend/scheduling"
	"detailstudio-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.App = cfg

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	config.DB = db
	metrics.Register()

	ctx := context.Background()
	if _, err := services.EnsureAdmin(ctx, db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("Admin bootstrap failed", zap.Error(err))
	}

	hours, _ := cfg.BusinessHours()
	generator, err := scheduling.NewGenerator(hours, cfg.SlotStepMinutes)
	if err != nil {
		logger.Fatal("Invalid business hours", zap.Error(err))
	}
	bookings := services.NewBookingService(db, generator)

	var catalog cache.Store = cache.NopStore{}
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			catalog = cache.NewRedisStore(client, "detailstudio:")
		}
	}

	var images services.ImageStore = &services.LocalStore{Dir: cfg.UploadDir, BaseURL: cfg.PublicBaseURL}
	if cfg.CloudinaryConfigured() {
		store, err := services.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			logger.Fatal("Cloudinary setup failed", zap.Error(err))
		}
		images = store
	}

	if cfg.TwilioConfigured() {
		sender := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		reminders := services.NewReminderService(db, sender, cfg.ReminderTemplate)
		scheduler, err := reminders.StartScheduler(cfg.ReminderCron)
		if err != nil {
			logger.Fatal("Reminder scheduler failed", zap.Error(err))
		}
		defer scheduler.Stop()
	} else {
		logger.Info("Twilio not configured, booking reminders disabled")
	}

	r := routes.SetupRouter(routes.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Bookings: bookings,
		Catalog:  catalog,
		Images:   images,
	})
	if !cfg.IsProduction() {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
