// Command taskvault is a multi-tenant task-management REST API: registration
// and login issue signed bearer tokens, and every task operation is scoped to
// the authenticated owner.
//
// @title Taskvault API
// @version 1.0
// @description Multi-tenant task management with token-based authentication.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/user/taskvault-go/apperror"
	"github.com/user/taskvault-go/auth"
	"github.com/user/taskvault-go/config"
	"github.com/user/taskvault-go/db"
	"github.com/user/taskvault-go/tasks"
	"github.com/user/taskvault-go/validation"
)

func main() {
	// .env is a development convenience; in production the variables are set
	// directly.
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug(".env file not loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	pool, err := db.NewPool(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	// Manual dependency injection: stores into services, services into
	// handlers, configuration at construction time only.
	authService := auth.NewService(auth.NewPgxUserStore(pool), *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	taskService := tasks.NewService(tasks.NewPgxTaskStore(pool))
	taskHandlers := tasks.NewHandlers(taskService)

	r := chi.NewRouter()

	// Global middleware; chi requires all of it registered before any route.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic-to-apperror safety net so even a panicking handler answers with
	// the standard {status, message} body.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					logrus.WithField("panic", rvr).Error("recovered from panic")
					writeError(ww, apperror.NewInternalError("Internal Server Error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	gate := auth.RequireUser(authService)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(validation.Body(validation.Register)).Post("/register", authHandlers.HandleRegister())
		r.With(validation.Body(validation.Login)).Post("/login", authHandlers.HandleLogin())
	})

	// Schema validation is stateless and runs before the gate's store lookup.
	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.With(gate).Get("/", taskHandlers.HandleListTasks())
		r.With(validation.Body(validation.CreateTask), gate).Post("/", taskHandlers.HandleCreateTask())
		r.With(validation.Body(validation.UpdateTask), gate).Patch("/{id}", taskHandlers.HandleUpdateTask())
		r.With(gate).Delete("/{id}", taskHandlers.HandleDeleteTask())
	})

	r.NotFound(routeFallback)
	r.MethodNotAllowed(routeFallback)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server shutdown failed")
	}
	logrus.Info("server stopped gracefully")
}

// routeFallback answers undefined routes and methods with the standard error
// body. The message echoes the full request URI, query string included.
func routeFallback(w http.ResponseWriter, req *http.Request) {
	writeError(w, apperror.NewNotFoundError(fmt.Sprintf("Can't find %s on this server!", req.URL.RequestURI()), nil))
}

// writeError is a local helper for middleware that runs outside the handler
// chain (panic recovery, route fallbacks).
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"status":"error","message":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
