package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentwatch/rentalscraper/config"
	"rentwatch/rentalscraper/helpers"
	"rentwatch/rentalscraper/internal/browser"
	"rentwatch/rentalscraper/internal/scraper"
	"rentwatch/rentalscraper/internal/server"
	"rentwatch/rentalscraper/logger"
	"rentwatch/rentalscraper/services/cache"
	"rentwatch/rentalscraper/services/proxy"
	"rentwatch/rentalscraper/services/publisher"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("target", cfg.TargetBaseURL).
		Str("listen", cfg.ListenAddr).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	engine := buildEngine(&cfg, services)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(engine).Router(),
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		serverDone <- httpServer.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		engine.Cancel()
		cancel()
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown incomplete")
	}
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Proxies   *proxy.Rotator
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes the optional backing services. Both the
// throttle cache and the publisher stay nil when unconfigured; the engine
// runs without them.
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{
		Proxies: proxy.NewRotator(cfg.ProxyServers),
	}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	if cfg.RedisAddr != "" {
		redisPublisher, err := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err != nil {
			return nil, err
		}
		services.Publisher = redisPublisher

		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}

func buildEngine(cfg *config.Config, services *Services) *scraper.Engine {
	planner := &scraper.Planner{
		BaseURL: cfg.TargetBaseURL,
		Offset:  cfg.BaseTimeOffset,
	}

	policy := scraper.Policy{
		NavigationTimeout: cfg.NavigationTimeout,
		SelectorTimeout:   cfg.SelectorTimeout,
		ClickTimeout:      cfg.ClickTimeout,
		DetailWaitTimeout: cfg.DetailWaitTimeout,
		DetailSettleWait:  cfg.DetailSettleWait,
		RetryBackoff:      cfg.ExtractRetryBackoff,
		MaxAttempts:       cfg.ExtractMaxAttempts,
	}

	sessions := func(runCtx context.Context) (scraper.Session, error) {
		return browser.NewSession(runCtx, browser.Options{
			Headless:    cfg.Headless,
			UserAgent:   cfg.UserAgent,
			ProxyServer: services.Proxies.Next(),
		})
	}

	return scraper.NewEngine(scraper.EngineOptions{
		Planner:   planner,
		Walker:    scraper.NewWalker(scraper.DefaultSelectors(), policy, cfg.MaxCardsPerScenario),
		Sessions:  sessions,
		Store:     scraper.NewStore(),
		Cache:     services.Cache,
		Publisher: services.Publisher,
		Probe:     helpers.ProbeSite,
		BlockTime: cfg.BlockTime,
	})
}
