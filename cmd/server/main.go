package main

import (
	"context"
	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/kahvecikaan/product-catalog-api/internal/auth"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
	"github.com/kahvecikaan/product-catalog-api/internal/events"
	"github.com/kahvecikaan/product-catalog-api/internal/repository"
	"github.com/kahvecikaan/product-catalog-api/internal/service"
	httpTransport "github.com/kahvecikaan/product-catalog-api/internal/transport/http"
	websocketTransport "github.com/kahvecikaan/product-catalog-api/internal/transport/websocket"
	"github.com/nats-io/nats.go"
	"github.com/nicholasjackson/env"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

const devSecret = "change-me"

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":9090", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"info", "Log output level for the server [trace, debug, info, warn, error]")
	databaseURL = env.String("DATABASE_URL", false,
		"", "PostgreSQL connection URL, products are kept in memory when empty")
	runMigrations = env.Bool("RUN_MIGRATIONS", false,
		true, "Apply the embedded schema migrations on startup")
	jwtSecret = env.String("JWT_SECRET", false,
		devSecret, "HMAC secret used to verify bearer tokens")
	jwtIssuer = env.String("JWT_ISSUER", false,
		"product-api", "Expected issuer of bearer tokens")
	corsOrigins = env.String("CORS_ALLOWED_ORIGINS", false,
		"http://localhost:3000", "Comma separated list of allowed origins")
	rateLimitRPS = env.Float64("RATE_LIMIT_RPS", false,
		0, "Requests per second allowed per client, 0 disables rate limiting")
	rateLimitBurst = env.Int("RATE_LIMIT_BURST", false,
		10, "Burst size allowed per client")
	natsURL = env.String("NATS_URL", false,
		"", "NATS server URL, product events are only published locally when empty")
	natsSubject = env.String("NATS_SUBJECT", false,
		"products", "Subject prefix for product events on NATS")
)

func main() {
	// A missing .env file is fine, real environment variables still apply
	_ = godotenv.Load()
	configErr := env.Parse()

	// Initialize the logger
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "product-api",
		Level: hclog.LevelFromString(*logLevel),
	})

	if configErr != nil {
		logger.Error("Invalid configuration", "error", configErr)
		os.Exit(1)
	}

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	// Initialize the event bus - shared by the service, websocket and NATS forwarder
	eventBus := events.NewEventBus[events.Event]()

	// Initialize the ProductRepository
	prodRep, db, err := newRepository(logger.Named("repository"))
	if err != nil {
		logger.Error("Failed to initialise product repository", "error", err)
		os.Exit(1)
	}

	// Forward product events to NATS when configured
	var (
		natsConn  *nats.Conn
		forwarder *events.Forwarder
	)
	if *natsURL != "" {
		natsConn, err = events.ConnectNATS(*natsURL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "url", *natsURL, "error", err)
			os.Exit(1)
		}
		forwarder = events.NewForwarder(logger.Named("nats-forwarder"), natsConn, *natsSubject, eventBus)
		forwarder.Start()
	}

	// Initialize the ProductService with EventBus
	ps := service.NewProductService(
		prodRep,
		eventBus,
		logger.Named("product-service"),
	)

	if *jwtSecret == devSecret {
		logger.Warn("JWT_SECRET is not set, using the development secret")
	}
	tokens := auth.NewTokenManager(*jwtSecret, *jwtIssuer)

	var limiter *httpTransport.RateLimiter
	if *rateLimitRPS > 0 {
		limiter = httpTransport.NewRateLimiter(*rateLimitRPS, *rateLimitBurst)
	}

	cors := httpTransport.DefaultCORSConfig()
	cors.AllowedOrigins = splitList(*corsOrigins)

	// Initialize the validator and middleware
	validator := domain.NewValidation()
	mw := httpTransport.NewMiddleware(logger.Named("http"), validator, tokens, limiter)

	// Initialize HTTP handlers
	ph := httpTransport.NewProductHandler(ps, logger.Named("http-handler"))

	// Initialize the WebSocket handler with the event bus
	wh := websocketTransport.NewHandler(
		logger.Named("websocket-handler"),
		eventBus,
		websocketTransport.AllowOrigins(cors.AllowedOrigins),
	)

	// Initialize the router
	router := httpTransport.NewRouter(ph, mw, wh)

	// Create the HTTP Server
	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      httpTransport.NewServerHandler(router, cors, logger.Named("recovery")),
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Evict idle rate limit buckets
	stopCleanup := make(chan struct{})
	if limiter != nil {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					limiter.Cleanup(5 * time.Minute)
				case <-stopCleanup:
					return
				}
			}
		}()
	}

	// Start the server in a new goroutine
	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Error starting server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutting down server", "signal", sig)

	// Context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", "error", err)
	}
	close(stopCleanup)

	// Closing the bus also ends websocket streams and the forwarder
	eventBus.Close()
	if forwarder != nil {
		forwarder.Close()
	}
	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			logger.Error("Error draining NATS connection", "error", err)
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database", "error", err)
		}
	}
}

// newRepository picks the PostgreSQL repository when DATABASE_URL is set and
// the in-memory one otherwise. db is nil for the in-memory repository.
func newRepository(logger hclog.Logger) (repository.ProductRepository, *sqlx.DB, error) {
	if *databaseURL == "" {
		logger.Info("DATABASE_URL not set, keeping products in memory")
		return repository.NewMemoryProductRepository(), nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// The database may still be starting alongside us
	connect := func() (*sqlx.DB, error) {
		db, err := repository.OpenPostgres(ctx, *databaseURL)
		if err != nil {
			logger.Warn("Database not ready, retrying", "error", err)
		}
		return db, err
	}
	db, err := backoff.Retry(ctx, connect,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(time.Minute),
	)
	if err != nil {
		return nil, nil, err
	}

	if *runMigrations {
		logger.Info("Applying database migrations")
		if err := repository.Migrate(*databaseURL); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	logger.Info("Connected to PostgreSQL")
	return repository.NewPostgresProductRepository(db), db, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
