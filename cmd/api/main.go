// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/clearmind-health/clearmind/internal/auth"
	"github.com/clearmind-health/clearmind/internal/config"
	"github.com/clearmind-health/clearmind/internal/email"
	"github.com/clearmind-health/clearmind/internal/handler"
	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/clearmind-health/clearmind/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	therapistRepo := repository.NewTherapistRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Initialize email service; the API stays up without one so local
	// development does not need Sendgrid credentials.
	var emailService *email.Service
	if cfg.Sendgrid.APIKey != "" {
		emailService, err = email.NewEmailService(cfg, email.ProviderSendgrid)
		if err != nil {
			return fmt.Errorf("initializing email service: %w", err)
		}
	} else {
		logger.Warn("no Sendgrid API key configured, emails disabled")
	}

	// Initialize services
	userService := service.NewUserService(userRepo, credentialRepo, passwordHasher, tokenManager, emailService, cfg)
	orgService := service.NewOrganizationService(orgRepo)
	provisioningService := service.NewProvisioningService(userRepo, credentialRepo, memberRepo, therapistRepo, patientRepo, passwordHasher)
	therapistService := service.NewTherapistService(therapistRepo)
	patientService := service.NewPatientService(patientRepo)
	availabilityService := service.NewAvailabilityService(availabilityRepo, therapistRepo)
	bookingService := service.NewBookingService(bookingRepo, therapistRepo, patientRepo, availabilityRepo)
	reviewService := service.NewReviewService(reviewRepo, therapistRepo, patientRepo)
	invitationService := service.NewInvitationService(invitationRepo, orgRepo, memberRepo, userRepo, therapistRepo, patientRepo, emailService, cfg)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	userHandler := handler.NewUserHandler(provisioningService)
	therapistHandler := handler.NewTherapistHandler(therapistService)
	patientHandler := handler.NewPatientHandler(patientService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	invitationHandler := handler.NewInvitationHandler(invitationService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Get("/signup/verify", authHandler.VerifyEmail)

			r.Group(func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))

				r.Post("/signup", authHandler.Signup)
				r.Post("/login", authHandler.Login)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenManager, userRepo))

			r.Get("/me", authHandler.Me)

			// Invitation acceptance happens before membership exists, so it
			// sits outside the organization scope.
			r.Post("/invitations/{invitationID}/accept", invitationHandler.AcceptInvitation)
			r.Post("/invitations/{invitationID}/reject", invitationHandler.RejectInvitation)

			// Tenant management is reserved for the platform operator.
			r.Route("/organizations", func(r chi.Router) {
				r.Use(middleware.RequireGlobalRole(model.RoleSuperAdmin))
				r.Get("/", orgHandler.ListOrganizations)
				r.Post("/", orgHandler.CreateOrganization)
			})

			// Organization-scoped routes. Each group names the exact roles it
			// accepts; there is no hierarchy between them.
			r.Route("/org/{orgID}", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireOrgRole(memberRepo, model.OrgRoleAdmin))
					r.Get("/", orgHandler.GetOrganization)

					r.Get("/users", userHandler.ListUsers)
					r.Post("/users", userHandler.CreateUser)
					r.Patch("/users/{userID}/status", userHandler.UpdateUserStatus)
					r.Patch("/users/{userID}/role", userHandler.UpdateUserRole)
					r.Delete("/users/{userID}", userHandler.RemoveUser)

					r.Post("/therapists", userHandler.CreateTherapist)
					r.Get("/patients", patientHandler.ListPatients)
					r.Post("/patients", userHandler.CreatePatient)
					r.Patch("/therapists/{therapistID}/verification", therapistHandler.SetVerification)

					r.Get("/invitations", invitationHandler.ListInvitations)
					r.Post("/invitations", invitationHandler.Invite)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireOrgRole(memberRepo, model.OrgRoleTherapist, model.OrgRoleAdmin))
					r.Get("/therapists", therapistHandler.ListTherapists)
					r.Get("/therapists/{therapistID}", therapistHandler.GetTherapist)
					r.Patch("/therapists/{therapistID}", therapistHandler.UpdateTherapist)

					r.Get("/availability", availabilityHandler.ListSlots)
					r.Post("/availability", availabilityHandler.CreateSlot)
					r.Delete("/availability/{slotID}", availabilityHandler.DeleteSlot)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireOrgRole(memberRepo, model.OrgRolePatient, model.OrgRoleTherapist, model.OrgRoleAdmin))
					r.Get("/patients/{patientID}", patientHandler.GetPatient)
					r.Patch("/patients/{patientID}", patientHandler.UpdatePatient)

					r.Get("/bookings", bookingHandler.ListBookings)
					r.Post("/bookings", bookingHandler.CreateBooking)
					r.Get("/bookings/{bookingID}", bookingHandler.GetBooking)
					r.Patch("/bookings/{bookingID}", bookingHandler.TransitionBooking)
					r.Delete("/bookings/{bookingID}", bookingHandler.CancelBooking)

					r.Get("/reviews", reviewHandler.ListReviews)
					r.Post("/reviews", reviewHandler.CreateReview)
				})
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					err := errors.New("panic recovered")
					logger.Error("panic recovered",
						"error", err,
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"error encountered"}`))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
