package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ineffable/agency-server/internal/audit"
	"github.com/ineffable/agency-server/internal/config"
	"github.com/ineffable/agency-server/internal/database"
	"github.com/ineffable/agency-server/internal/handler"
	"github.com/ineffable/agency-server/internal/middleware"
	"github.com/ineffable/agency-server/internal/redis"
	"github.com/ineffable/agency-server/internal/repository"
	"github.com/ineffable/agency-server/internal/service"
	"github.com/ineffable/agency-server/internal/storage"
	"github.com/ineffable/agency-server/internal/token"
	"github.com/ineffable/agency-server/internal/util"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)
	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	hasher, err := util.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create password hasher")
	}
	tokens := token.NewService(cfg.JWTSecret, config.TokenIssuer)
	revocations := redis.NewRevocationList(redisClient.Client, cfg.TokenTTL())

	accountRepo := repository.NewAccountRepository(db.DB)
	serviceRepo := repository.NewServiceRepository(db.DB)
	projectRepo := repository.NewProjectRepository(db.DB)
	teamRepo := repository.NewTeamMemberRepository(db.DB)
	testimonialRepo := repository.NewTestimonialRepository(db.DB)
	messageRepo := repository.NewContactMessageRepository(db.DB)

	var objectStorage service.ObjectStorage
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure object storage")
		}
		objectStorage = s3Storage
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("object storage configured")
	}

	authService := service.NewAuthService(accountRepo, hasher, tokens, cfg.TokenTTL())
	adminUserService := service.NewAdminUserService(accountRepo, revocations)
	contentService := service.NewContentService(serviceRepo, projectRepo, teamRepo, testimonialRepo)
	contactService := service.NewContactService(messageRepo)
	dashboardService := service.NewDashboardService(serviceRepo, projectRepo, teamRepo, testimonialRepo, messageRepo)
	uploadService := service.NewUploadService(objectStorage)

	if cfg.BootstrapEnabled() {
		created, err := authService.EnsureBootstrapAdmin(context.Background(), service.BootstrapParams{
			Name:         cfg.BootstrapAdminName,
			Email:        cfg.BootstrapAdminEmail,
			PasswordHash: cfg.BootstrapAdminPasswordHash,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap super admin")
		}
		if created {
			audit.Log(context.Background(), audit.Event{
				Type:    audit.EventBootstrapAdmin,
				Details: map[string]interface{}{"email": service.NormalizeEmail(cfg.BootstrapAdminEmail)},
			})
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(tokens, revocations)
	loginRateLimit := middleware.NewLoginRateLimitMiddleware(redisClient.Client, cfg.LoginRateLimitPerMin)
	jsonBodyLimit := middleware.NewBodyLimitMiddleware(config.MaxJSONBodySize)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction())

	authHandler := handler.NewAuthHandler(authService, authMiddleware.Handler, loginRateLimit.Handler)
	adminUsersHandler := handler.NewAdminUsersHandler(adminUserService, authMiddleware.Handler)
	contentHandler := handler.NewContentHandler(contentService, authMiddleware.Handler)
	contactHandler := handler.NewContactHandler(contactService, authMiddleware.Handler, cfg.ContactRateLimitPerMin)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	uploadHandler := handler.NewUploadHandler(uploadService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeaders.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jsonBodyLimit.Handler)

			r.Mount("/auth", authHandler.Routes())
			r.Mount("/admin-users", adminUsersHandler.Routes())
			r.Mount("/services", contentHandler.ServiceRoutes())
			r.Mount("/projects", contentHandler.ProjectRoutes())
			r.Mount("/team", contentHandler.TeamRoutes())
			r.Mount("/testimonials", contentHandler.TestimonialRoutes())
			r.Mount("/contact", contactHandler.Routes())
			r.With(authMiddleware.Handler).Get("/admin/dashboard", dashboardHandler.Stats)
		})

		// Multipart uploads carry their own, larger body limit.
		r.With(authMiddleware.Handler).Post("/upload", uploadHandler.Upload)
	})

	r.NotFound(handler.StaticFileServer(cfg.StaticDir).ServeHTTP)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
