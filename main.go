package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alunodb/roster-be/internal/api"
	"github.com/alunodb/roster-be/internal/auth"
	"github.com/alunodb/roster-be/internal/config"
	"github.com/alunodb/roster-be/internal/database"
	"github.com/alunodb/roster-be/internal/logger"
	"github.com/alunodb/roster-be/internal/services"
	"github.com/alunodb/roster-be/internal/web"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()
	logger.Init(cfg.Env)

	// Set up database
	db, err := database.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database migrations")
	}

	// One-time bootstrap: sample roster + admin account.
	if err := database.SeedStudents(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed students")
	}

	// Set up services
	userService := services.NewUserService(db)
	studentService := services.NewStudentService(db)

	if err := userService.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure admin account")
	}

	// Set up sessions and views
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	render, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}

	// Set up router and server
	router := api.NewRouter(db, sessions, userService, studentService, render)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
