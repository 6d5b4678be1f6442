package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/world-war/api/internal/auth"
	"github.com/efreeman/world-war/api/internal/config"
	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/handler"
	"github.com/efreeman/world-war/api/internal/logger"
	"github.com/efreeman/world-war/api/internal/middleware"
	"github.com/efreeman/world-war/api/internal/repository/postgres"
	redisrepo "github.com/efreeman/world-war/api/internal/repository/redis"
	"github.com/efreeman/world-war/api/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	settings, err := cfg.LoadSettings()
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SettingsFile).Msg("Failed to load game settings")
	}

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Enable Redis keyspace notifications for war timer expiry events.
	if err := redisClient.Underlying().ConfigSet(context.Background(), "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to set Redis keyspace notifications (timer expiry may not work)")
	}

	// Repos
	accountRepo := postgres.NewAccountRepo(db)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	googleOAuth := auth.NewGoogleOAuth(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("GOOGLE_REDIRECT_URL"),
	)

	// WebSocket hub
	wsHub := handler.NewHub()

	// World state
	store := game.NewStore(game.NewState(settings))
	persister := service.NewPersister(redisClient)
	if err := persister.Restore(context.Background(), store); err != nil {
		log.Error().Err(err).Msg("Failed to restore world snapshot (starting fresh)")
	}
	persister.Attach(store)

	// Services
	sessionSvc := service.NewSessionService(accountRepo, store, wsHub)
	marketSvc := service.NewMarketService(store, wsHub)
	warSvc := service.NewWarService(store, redisClient, wsHub, nil)
	relationsSvc := service.NewRelationsService(store, redisClient, wsHub)
	adminSvc := service.NewAdminService(store, wsHub)
	sweeper := service.NewSweeper(store, wsHub)

	// Timer listener (auto-resolve battles on expiry)
	timerListener := service.NewTimerListener(redisClient.Underlying(), warSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(sessionSvc, googleOAuth, jwtMgr)
	gameHandler := handler.NewGameHandler(store, sessionSvc)
	messageHandler := handler.NewMessageHandler(store, sessionSvc)
	marketHandler := handler.NewMarketHandler(store, marketSvc)
	warHandler := handler.NewWarHandler(store, warSvc)
	relationsHandler := handler.NewRelationsHandler(store, relationsSvc)
	adminHandler := handler.NewAdminHandler(store, adminSvc)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("POST /auth/logout", authHandler.Logout)
	api.HandleFunc("GET /state", gameHandler.GetState)
	api.HandleFunc("GET /countries", gameHandler.ListCountries)
	api.HandleFunc("POST /countries/{id}/select", gameHandler.SelectCountry)
	api.HandleFunc("GET /users/me", gameHandler.GetMe)
	api.HandleFunc("GET /users", gameHandler.ListUsers)
	api.HandleFunc("GET /users/{id}", gameHandler.GetUser)
	api.HandleFunc("GET /notifications", gameHandler.ListNotifications)
	api.HandleFunc("GET /events", gameHandler.ListEvents)
	api.HandleFunc("GET /messages", messageHandler.ListMessages)
	api.HandleFunc("POST /messages", messageHandler.SendMessage)

	api.HandleFunc("GET /trades", marketHandler.ListTrades)
	api.HandleFunc("POST /trades", marketHandler.CreateTrade)
	api.HandleFunc("POST /trades/{id}/accept", marketHandler.AcceptTrade)
	api.HandleFunc("DELETE /trades/{id}", marketHandler.CancelTrade)
	api.HandleFunc("POST /trades/{id}/counter", marketHandler.CreateCounterOffer)
	api.HandleFunc("POST /trades/{id}/counter/{offerId}/accept", marketHandler.AcceptCounterOffer)
	api.HandleFunc("POST /market/robot-sell", marketHandler.SellToRobot)
	api.HandleFunc("GET /market/prices", marketHandler.MarketPrices)

	api.HandleFunc("GET /wars", warHandler.ListWars)
	api.HandleFunc("POST /wars", warHandler.DeclareWar)
	api.HandleFunc("GET /wars/{id}", warHandler.GetWar)
	api.HandleFunc("POST /wars/{id}/reinforce", warHandler.Reinforce)
	api.HandleFunc("POST /wars/{id}/retreat", warHandler.Retreat)

	api.HandleFunc("POST /support", relationsHandler.RequestSupport)
	api.HandleFunc("POST /support/{id}/respond", relationsHandler.RespondSupport)
	api.HandleFunc("POST /peace", relationsHandler.ProposePeace)
	api.HandleFunc("POST /peace/{id}/respond", relationsHandler.RespondPeace)
	api.HandleFunc("GET /alliances", relationsHandler.ListAlliances)
	api.HandleFunc("POST /alliances/invite", relationsHandler.InviteToAlliance)
	api.HandleFunc("POST /alliances/invitations/{id}/respond", relationsHandler.RespondAllianceInvitation)

	api.HandleFunc("POST /admin/users/{id}/gift", adminHandler.GiftItems)
	api.HandleFunc("POST /admin/users/{id}/remove-items", adminHandler.RemoveItems)
	api.HandleFunc("POST /admin/users/{id}/role", adminHandler.SetRole)
	api.HandleFunc("POST /admin/users/{id}/mute", adminHandler.MuteUser)
	api.HandleFunc("DELETE /admin/users/{id}/mute", adminHandler.UnmuteUser)
	api.HandleFunc("POST /admin/users/{id}/timeout", adminHandler.TimeoutUser)
	api.HandleFunc("DELETE /admin/users/{id}/timeout", adminHandler.ClearTimeout)
	api.HandleFunc("POST /admin/users/{id}/suspend", adminHandler.SuspendUser)
	api.HandleFunc("DELETE /admin/users/{id}", adminHandler.RemoveUser)
	api.HandleFunc("PATCH /admin/settings", adminHandler.UpdateSettings)
	api.HandleFunc("PUT /admin/market/prices", adminHandler.SetMarketPrices)
	api.HandleFunc("POST /admin/events", adminHandler.CreateGameEvent)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go timerListener.Start(ctx)
	go sweeper.Start(ctx)

	// Any wars whose timers expired while we were down resolve immediately.
	warSvc.ResolveOverdueWars(context.Background())

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
