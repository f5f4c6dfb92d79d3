package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"artgens/internal/config"
	"artgens/internal/imagestore"
	custommiddleware "artgens/internal/middleware"
	"artgens/internal/repository"
	"artgens/internal/service"
	"artgens/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
}

// NewServer wires repositories, services and handlers. Every dependency is
// injected here; nothing hangs off process-wide state.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 120,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	artworkRepo := repository.NewArtworkRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	cartRepo := repository.NewCartRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	catalogService := service.NewCatalogService(artworkRepo, categoryRepo, cfg.Catalog.IncludeSold)
	socialService := service.NewSocialService(artworkRepo, likeRepo, commentRepo)
	cartService := service.NewCartService(cartRepo, artworkRepo)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	artworkHandler := transport.NewArtworkHandler(catalogService, logger)
	socialHandler := transport.NewSocialHandler(socialService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	uploadHandler := transport.NewUploadHandler(
		imagestore.NewCDNUploader(cfg.Upload.Endpoint, cfg.Upload.APIKey),
		logger,
	)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	authHandler.RegisterRoutes(router, authMiddleware)
	artworkHandler.RegisterRoutes(router, authMiddleware)
	socialHandler.RegisterRoutes(router, authMiddleware)
	cartHandler.RegisterRoutes(router, authMiddleware)
	uploadHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
