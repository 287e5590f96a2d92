package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"lorehub/internal/arena"
	"lorehub/internal/auth"
	"lorehub/internal/lineup"
	"lorehub/internal/live"
	"lorehub/internal/logger"
	"lorehub/internal/roster"
	"lorehub/internal/spotlight"
	"lorehub/internal/taxonomy"
	"lorehub/pkg/database"
	"lorehub/pkg/utils"
)

func main() {
	logCfg, _ := logger.LoadConfig(utils.Getenv("LOREHUB_LOG_CONFIG", "configs/logging.yaml"))
	if err := logger.Initialize(logCfg); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start the TCP feed first (so you notice binding errors early)
	hub := live.NewHub()
	router.GET("/ws", live.WSHandler(hub))
	tcpSrv := live.NewServer(utils.Getenv("LOREHUB_TCP_ADDR", ":7070"), hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Characters (public)
	rosterRepo := roster.NewRepo(db)
	rosterHandler := roster.NewHandler(rosterRepo)
	rosterHandler.RegisterRoutes(router.Group("/characters"))

	// Taxonomies (public)
	taxHandler := taxonomy.NewHandler(rosterRepo)
	taxHandler.RegisterRoutes(router.Group("/taxonomies"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Arena (public)
	arenaHandler := arena.NewHandler(rosterRepo, hub)
	arenaHandler.RegisterRoutes(router.Group("/arena"))

	// Lineup (protected)
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	lineupRepo := lineup.NewRepo(db)
	lineupHandler := lineup.NewHandler(lineupRepo, rosterRepo, hub)
	lineupHandler.RegisterRoutes(protected)

	// Spotlight rotation over the faction taxonomy, pushed to the live feed.
	rotation := startSpotlight(rosterRepo, hub)
	defer rotation.Cancel()

	httpSrv := &http.Server{
		Addr:    utils.Getenv("LOREHUB_HTTP_ADDR", ":8080"),
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP API server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}

	logger.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}
	if err := tcpSrv.Close(); err != nil {
		logger.Error("tcp shutdown error", "err", err)
	}

	wg.Wait()
	logger.Info("servers stopped")
}

// startSpotlight builds the faction taxonomy once at boot and rotates a
// featured entry over it, broadcasting each advance on the hub. An empty
// or single-entry taxonomy leaves the scheduler idle.
func startSpotlight(repo *roster.Repo, hub *live.Hub) *spotlight.Scheduler {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chars, err := repo.All(ctx)
	if err != nil {
		logger.Warning("spotlight: load library failed", "err", err)
		return spotlight.New(0, nil)
	}
	set, err := taxonomy.Build(chars)
	if err != nil {
		logger.Warning("spotlight: taxonomy build failed", "err", err)
		return spotlight.New(0, nil)
	}

	entries := set.Factions
	var mu sync.Mutex
	index := 0

	sched := spotlight.New(len(entries), nil)
	sched.SetCallback(func() {
		mu.Lock()
		index = (index + 1) % len(entries)
		entry := entries[index]
		i := index
		mu.Unlock()

		hub.BroadcastJSON(live.SpotlightEvent{
			Type:  live.EventSpotlightAdvance,
			Index: i,
			Slug:  entry.Slug,
			Name:  entry.Name,
			At:    time.Now().UTC(),
		})
	})
	sched.Schedule()
	return sched
}
