package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rh-insights/rh-insights-backend/internal/hr/auth"
	"github.com/rh-insights/rh-insights-backend/internal/hr/handler"
	"github.com/rh-insights/rh-insights-backend/internal/hr/service"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/config"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/i18n"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("rh-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("rh-service", cfg.Server.Environment)
	log.Info().Msg("starting RH Service")

	// Open the blob store
	persister := store.NewFilePersister(cfg.Storage.DataFile, cfg.Storage.MaxRetries)
	st := store.New(persister, cfg.Storage.SaveDebounce, log)
	st.Load(context.Background())

	// Token manager
	jwtManager := auth.NewManager(&cfg.JWT)

	// Initialize services
	authService := service.NewAuthService(st, jwtManager, log)
	employeeService := service.NewEmployeeService(st, log)
	positionService := service.NewPositionService(st, log)
	userService := service.NewUserService(st, log)
	movementService := service.NewMovementService(st, log)
	reportService := service.NewReportService(st, log)
	settingsService := service.NewSettingsService(st, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	employeeHandler := handler.NewEmployeeHandler(employeeService, log)
	positionHandler := handler.NewPositionHandler(positionService, log)
	userHandler := handler.NewUserHandler(userService, log)
	movementHandler := handler.NewMovementHandler(movementService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, log)
	dataHandler := handler.NewDataHandler(st, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(i18n.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", handler.Health)

	// Public auth routes
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/bootstrap", authHandler.Bootstrap)
		r.Get("/has-users", authHandler.HasUsers)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtManager, st))
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})
	})

	// API routes (authentication required)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(jwtManager, st))

		// Read surface, open to every authenticated role
		r.Get("/employees", employeeHandler.List)
		r.Get("/employees/{matricule}", employeeHandler.Get)
		r.Get("/positions", positionHandler.List)
		r.Get("/movements/salary", movementHandler.SalaryHistory)
		r.Get("/movements/work-location", movementHandler.WorkLocationHistory)
		r.Get("/movements/{kind}", movementHandler.History)
		r.Get("/movements", movementHandler.GlobalHistory)
		r.Get("/movements-export", movementHandler.ExportCSV)
		r.Get("/dashboard", reportHandler.Dashboard)
		r.Get("/reports/yearly", reportHandler.Yearly)
		r.Get("/reports/years", reportHandler.Years)
		r.Get("/settings/lists", settingsHandler.Lists)
		r.Get("/data", dataHandler.Get)

		// Write surface, admin and superadmin only
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireManager)

			r.Post("/employees", employeeHandler.Create)
			r.Put("/employees/{matricule}", employeeHandler.Update)
			r.Delete("/employees/{matricule}", employeeHandler.Delete)
			r.Delete("/employees", employeeHandler.DeleteAll)
			r.Post("/employees-import", employeeHandler.ImportCSV)

			r.Post("/positions", positionHandler.Create)
			r.Put("/positions/{id}", positionHandler.Update)
			r.Delete("/positions/{id}", positionHandler.Delete)
			r.Delete("/positions", positionHandler.DeleteAll)

			r.Post("/movements/salary", movementHandler.RecordSalary)
			r.Post("/movements/work-location", movementHandler.RecordWorkLocation)
			r.Post("/movements/{kind}", movementHandler.Record)
			r.Post("/movements-import", movementHandler.ImportCSV)

			r.Post("/settings/lists/{list}", settingsHandler.Add)
			r.Delete("/settings/lists/{list}/{value}", settingsHandler.Remove)

			r.Get("/users", userHandler.List)
			r.Post("/users", userHandler.Create)
			r.Put("/users/{email}", userHandler.Update)
			r.Delete("/users/{email}", userHandler.Delete)
			r.Delete("/users", userHandler.DeleteAll)

			r.Post("/data", dataHandler.Replace)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Push any pending debounced save to disk before exiting
	st.Flush(shutdownCtx)

	log.Info().Msg("server stopped")
}
