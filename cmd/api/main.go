package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-classifier/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-classifier/internal/handler/http"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/logger"
	"github.com/cmlabs-hris/attendance-classifier/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-classifier/internal/service/attendance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logLevel := logger.ParseLevel(cfg.App.LogLevel)
	log := logger.New(os.Stdout, logLevel, cfg.App.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	weeklyOffRepo := postgresql.NewWeeklyOffRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	classifiedRepo := postgresql.NewClassifiedRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	classifier := attendanceService.NewClassifier(cfg.Classifier.DefaultShift)
	attendanceSvc := attendanceService.NewAttendanceService(
		employeeRepo,
		shiftRepo,
		holidayRepo,
		weeklyOffRepo,
		punchRepo,
		classifiedRepo,
		classifier,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(JWTService, attendanceHandler, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         log,
		LogLevel:       logLevel,
	})

	var scheduler *cron.Scheduler
	if cfg.Cron.RecalculateEnabled {
		scheduler = cron.NewScheduler()
		cron.NewRecalculationJobs(punchRepo, attendanceSvc).RegisterJobs(scheduler, cfg.Cron.RecalculateInterval)
		scheduler.Start()
		slog.Info("Recalculation jobs registered", "jobs", scheduler.JobNames(), "interval", cfg.Cron.RecalculateInterval)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	slog.Info("Server stopped")
}
