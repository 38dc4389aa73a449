package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/emirhanunsal/MovieSuggest/docs" // swagger docs

	"github.com/emirhanunsal/MovieSuggest/internal/cache"
	"github.com/emirhanunsal/MovieSuggest/internal/config"
	"github.com/emirhanunsal/MovieSuggest/internal/db"
	"github.com/emirhanunsal/MovieSuggest/internal/handler"
	"github.com/emirhanunsal/MovieSuggest/internal/openai"
	"github.com/emirhanunsal/MovieSuggest/internal/repository"
	"github.com/emirhanunsal/MovieSuggest/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title MovieSuggest API
// @version 1.0
// @description API de recomendaciones de películas en pareja (Mongo, Redis, OpenAI)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo
	client, database, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("no se pudo conectar a Mongo", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := repository.EnsureIndexes(ctx, database); err != nil {
		slog.Error("no se pudieron crear los índices", "error", err)
		os.Exit(1)
	}

	// Redis es opcional: sin cache el servicio sigue funcionando
	redisCache, err := cache.New(cfg)
	if err != nil {
		slog.Warn("Redis no disponible, se sigue sin cache", "error", err)
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// cliente del modelo
	gen := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel)
	genOpts := service.GenOptions{
		Retries:    cfg.GenRetries,
		RetryDelay: cfg.GenRetryDelay,
		Timeout:    cfg.GenTimeout,
	}

	// repos
	userRepo := repository.NewUserRepository(database)
	requestRepo := repository.NewPartnerRequestRepository(database)
	linkRepo := repository.NewPartnerLinkRepository(database)
	prefRepo := repository.NewPreferenceRepository(database)
	noteRepo := repository.NewNotificationRepository(database)
	historyRepo := repository.NewHistoryRepository(database)
	movieRepo := repository.NewMovieRepository(database)

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	noteSvc := service.NewNotificationService(noteRepo)
	partnerSvc := service.NewPartnerService(userRepo, requestRepo, linkRepo, noteSvc)
	prefSvc := service.NewPreferenceService(prefRepo)
	detailsSvc := service.NewDetailsService(movieRepo, redisCache, gen, genOpts, cfg.EnrichQueueSize)
	detailsSvc.Start(ctx, cfg.EnrichWorkers)
	defer detailsSvc.Close()
	recSvc := service.NewRecommendService(prefSvc, linkRepo, historyRepo, gen, detailsSvc, genOpts)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	partnerH := handler.NewPartnerHandler(partnerSvc)
	prefH := handler.NewPreferenceHandler(prefSvc)
	noteH := handler.NewNotificationHandler(noteSvc)
	recH := handler.NewRecommendHandler(recSvc)
	movieH := handler.NewMovieHandler(detailsSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Route("/me", func(r chi.Router) {
			r.Get("/profile", authH.Me)

			r.Get("/notifications", noteH.List)
			r.Post("/notifications/{id}/read", noteH.MarkRead)

			r.Get("/preferences", prefH.Get)
			r.Put("/preferences", prefH.Replace)
			r.Patch("/preferences/add", prefH.Add)
			r.Patch("/preferences/remove", prefH.Remove)

			// HTTP normal
			r.Get("/recommendations", recH.Get)

			// WebSocket
			r.Get("/ws/recommendations", recH.GetWS)
		})

		r.Route("/partners", func(r chi.Router) {
			r.Get("/", partnerH.Current)
			r.Delete("/", partnerH.Terminate)

			r.Get("/requests", partnerH.List)
			r.Post("/requests", partnerH.Send)
			r.Post("/requests/accept", partnerH.Accept)
			r.Post("/requests/reject", partnerH.Reject)
			r.Post("/requests/withdraw", partnerH.Withdraw)
		})

		r.Get("/movies/details", movieH.Details)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		slog.Info("HTTP escuchando", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("servidor HTTP caído", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown forzado", "error", err)
	}
}
