package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"traderlens/internal/cache"
	"traderlens/internal/client/openmeteo"
	"traderlens/internal/client/polymarket/clob"
	"traderlens/internal/client/polymarket/dataapi"
	"traderlens/internal/client/polymarket/gamma"
	"traderlens/internal/client/polymarket/leaderboard"
	"traderlens/internal/client/polymarket/pnlapi"
	"traderlens/internal/config"
	cronrunner "traderlens/internal/cron"
	"traderlens/internal/db"
	"traderlens/internal/feed"
	"traderlens/internal/handler"
	"traderlens/internal/logger"
	"traderlens/internal/service"
	"traderlens/internal/tracker"

	_ "traderlens/docs"
)

func main() {
	cfgPath := os.Getenv("TL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var dbConn *db.DB
	if strings.EqualFold(cfg.Cache.Backend, "postgres") {
		dbConn, err = db.Open(cfg.DB)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
	}

	var store cache.Store
	if dbConn != nil {
		store = cache.NewDBStore(dbConn.Gorm, cfg.Cache.TTL)
	} else {
		store, err = cache.NewFileStore(cfg.Cache.Dir, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Fatal("cache dir setup failed", zap.Error(err))
		}
	}

	dataClient := dataapi.NewClient(&http.Client{Timeout: cfg.DataAPI.Timeout}, cfg.DataAPI.BaseURL)
	gammaClient := gamma.NewClient(&http.Client{Timeout: cfg.Gamma.Timeout}, cfg.Gamma.BaseURL)
	clobClient := clob.NewClient(&http.Client{Timeout: cfg.Clob.Timeout}, cfg.Clob.BaseURL)
	pnlClient := pnlapi.NewClient(&http.Client{Timeout: cfg.PnLAPI.Timeout}, cfg.PnLAPI.BaseURL)
	lbClient := leaderboard.NewClient(&http.Client{Timeout: cfg.Leaderboard.Timeout}, cfg.Leaderboard.BaseURL)
	meteoClient := openmeteo.NewClient(
		&http.Client{Timeout: cfg.OpenMeteo.Timeout},
		cfg.OpenMeteo.ForecastURL, cfg.OpenMeteo.ArchiveURL,
		cfg.OpenMeteo.Latitude, cfg.OpenMeteo.Longitude, cfg.OpenMeteo.Timezone,
	)

	profileService := &service.ProfileService{
		Gamma:       gammaClient,
		Data:        dataClient,
		PnL:         pnlClient,
		Leaderboard: lbClient,
		Logger:      logger,
	}
	analyzer := &service.Analyzer{
		Data:       dataClient,
		Profile:    profileService,
		Cache:      store,
		Logger:     logger,
		PageSize:   cfg.DataAPI.PageSize,
		MaxRecords: cfg.DataAPI.MaxRecords,
	}
	weatherService := &service.WeatherService{Meteo: meteoClient, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{}
	if dbConn != nil {
		healthHandler.DB = dbConn.Gorm
	}
	healthHandler.Register(engine)

	traderHandler := &handler.TraderHandler{Analyzer: analyzer, Logger: logger}
	traderHandler.Register(engine)
	weatherHandler := &handler.WeatherHandler{Weather: weatherService, Logger: logger}
	weatherHandler.Register(engine)
	proxyHandler := &handler.ProxyHandler{Gamma: gammaClient, Clob: clobClient, Logger: logger}
	proxyHandler.Register(engine)

	var walletTracker *tracker.WalletTracker
	if cfg.Tracker.Enabled && len(cfg.Tracker.Wallets) > 0 {
		walletTracker = &tracker.WalletTracker{
			Data:     dataClient,
			Logger:   logger,
			Wallets:  cfg.Tracker.Wallets,
			Interval: cfg.Tracker.Interval,
			Limit:    cfg.Tracker.Limit,
		}
	}
	trackerHandler := &handler.TrackerHandler{Tracker: walletTracker}
	trackerHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	sweepSpec := "@every " + cfg.Cache.SweepInterval.String()
	_, err = cronRunner.Add(sweepSpec, func(ctx context.Context) {
		n, err := store.Sweep(ctx, time.Now())
		if err != nil {
			logger.Warn("cache sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("swept expired cache entries", zap.Int("count", n))
		}
	})
	if err != nil {
		logger.Warn("cron register cache sweep failed", zap.Error(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	if walletTracker != nil {
		walletTracker.Start(ctx)
		defer walletTracker.Stop()
	}

	if cfg.Feed.Enabled {
		priceFeed := feed.New(feed.Options{
			URL:         cfg.Feed.URL,
			BackoffMin:  cfg.Feed.BackoffMin,
			BackoffMax:  cfg.Feed.BackoffMax,
			MaxAttempts: cfg.Feed.MaxAttempts,
			Logger:      logger,
		})
		priceFeed.Subscribe(cfg.Feed.Assets...)
		go func() {
			if err := priceFeed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("price feed stopped", zap.Error(err))
			}
		}()
		go func() {
			for update := range priceFeed.Updates() {
				logger.Debug("price update",
					zap.String("asset", update.AssetID),
					zap.String("price", update.Price))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
