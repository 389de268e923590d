package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"healthguide/config"
	"healthguide/handlers"
	"healthguide/middleware"
	"healthguide/routes"
	"healthguide/services/discovery"
	"healthguide/services/localstore"
	"healthguide/services/orchestrator"
	"healthguide/services/remote"
	"healthguide/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Local store driver.
	var storeClient *redis.Client
	storeOpts := []localstore.Option{localstore.WithTTL(cfg.StoreTTL)}
	if localstore.StoreType(cfg.StoreDriver) == localstore.StoreTypeRedis {
		storeClient = utils.GetStoreClient()
		storeOpts = append(storeOpts, localstore.WithRedisClient(storeClient))
	}
	backend, err := localstore.NewBackend(localstore.StoreType(cfg.StoreDriver), storeOpts...)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize local store: %v", err)
	}
	defer backend.Close()

	// Remote triage services and the manual geocoder.
	api := remote.NewClient(cfg.APIBaseURL, remoteHTTPClient(), logger)
	geocoder := discovery.NewGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent, &http.Client{Timeout: 10 * time.Second}, backend, logger)

	deps := orchestrator.Deps{
		API:      api,
		Geocoder: geocoder,
		Backend:  backend,
		Logger:   logger,
		Config: orchestrator.Config{
			LLMProvider:           cfg.LLMProvider,
			GPSTimeout:            cfg.GPSTimeout,
			QuickActionGPSTimeout: cfg.QuickActionGPSTimeout,
			PrefillWait:           cfg.PrefillWaitTimeout,
			PrefillDelay:          cfg.PrefillDelay,
			AmbulancePromptDelay:  cfg.AmbulancePromptDelay,
		},
	}
	registry := orchestrator.NewRegistry(func(ctx context.Context, clientID string) *orchestrator.Orchestrator {
		return orchestrator.New(ctx, clientID, deps)
	}, cfg.OrchestratorIdleTTL, logger)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go registry.Run(bgCtx, time.Minute)
	utils.StartHealthMonitor(bgCtx, storeClient, api.Ping)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(handlers.NewAssistantHandler(registry))
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		AllowedOrigins: cfg.Origins(),
		ClientTokenTTL: cfg.ClientTokenTTL,
		SecureCookie:   config.IsProduction(),
		Logger:         logger,
	})

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	stopBackground()
	registry.Close()

	logger.Sugar().Info("main: server stopped gracefully")
}

// remoteHTTPClient serves triage and provider calls. It carries no client
// timeout; request and orchestrator contexts bound each call.
func remoteHTTPClient() *http.Client {
	return &http.Client{}
}
