package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"numerology/internal/chart"
	"numerology/internal/feed"
	"numerology/internal/meanings"
	"numerology/internal/numerology"
	"numerology/pkg/database"
	"numerology/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api server failed", zap.Error(err))
	}
	logger.Info("servers stopped")
}

func run(ctx context.Context, cfg utils.Config, logger *zap.Logger) error {
	db, err := database.OpenAndMigrate(database.Config{Path: cfg.DBPath})
	if err != nil {
		return err
	}
	defer db.Close()

	systems, err := numerology.ParseSystems(cfg.Systems)
	if err != nil {
		return fmt.Errorf("NUMEROLOGY_SYSTEMS: %w", err)
	}
	cat, err := meanings.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}

	hub := feed.NewHub(logger)
	svc := &chart.Service{
		Repo:    chart.NewRepo(db),
		Source:  meanings.Chain{meanings.NewRepo(db), cat},
		Catalog: cat,
		Feed:    hub,
		Systems: systems,
		Locale:  cat.Match(cfg.Locale),
		Log:     logger,
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(db, cfg.DBPath, svc, hub, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	tcpSrv := feed.NewServer(cfg.FeedAddr, hub, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tcpSrv.Run(gctx)
	})
	if cfg.FeedUDPAddr != "" {
		udpSrv := feed.NewUDPServer(cfg.FeedUDPAddr, logger)
		hub.AttachUDP(udpSrv)
		g.Go(func() error {
			return udpSrv.Run(gctx)
		})
	}
	g.Go(func() error {
		logger.Info("HTTP API server listening", zap.String("addr", cfg.HTTPAddr), zap.String("db", cfg.DBPath))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.CloseAll()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(db *sql.DB, dbPath string, svc *chart.Service, hub *feed.Hub, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/ws", feed.WSHandler(hub, logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbPath})
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
				"udp_clients": stats.UDPClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
			"udp_clients": stats.UDPClients,
		})
	})

	chart.NewHandler(svc).RegisterRoutes(router.Group(""))
	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
