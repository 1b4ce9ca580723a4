// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"moves/internal/adapter/feed"
	"moves/internal/adapter/storage"
	"moves/internal/config"
	domainEvent "moves/internal/domain/event"
	"moves/internal/server"
	"moves/internal/server/handlers"
	eventService "moves/internal/service/event"
	geoService "moves/internal/service/geo"
	rsvpService "moves/internal/service/rsvp"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapters
	eventSource := storage.NewEventStore(db)
	rsvpStore := storage.NewRSVPStore(db)
	userStore := storage.NewUserStore(db)

	// Realtime change feed for the events table
	eventFeed := feed.NewEventFeed(natsConn, cfg.Feed.EventsSubject)

	// Initialize the canonical event collection, seeded with the bundled
	// fallback set so the feed has content before the first load lands
	eventStore := eventService.NewStore(eventSource, eventFeed, domainEvent.SeedEvents())
	if _, err := eventStore.Load(ctx); err != nil {
		log.Printf("Initial event load failed, serving seed set: %v", err)
	}

	// Per-identity RSVP trackers, reconciled on every collection change
	registry := rsvpService.NewRegistry(rsvpStore, userStore)
	unsubscribe, err := eventStore.Subscribe(func(events []domainEvent.Event) {
		for _, err := range registry.ReconcileAll(ctx, events) {
			log.Printf("RSVP reconcile failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to subscribe to event changes: %v", err)
	}
	defer unsubscribe()

	// Initialize HTTP handlers
	eventHandler := handlers.NewEventHandler(
		eventStore,
		eventSource,
		eventFeed,
		geoService.IndexConfig{
			RadiusPx:   cfg.Cluster.RadiusPx,
			MaxZoom:    cfg.Cluster.MaxZoom,
			TileExtent: cfg.Cluster.TileExtent,
		},
		cfg.Search.DefaultRadiusMiles,
	)
	rsvpHandler := handlers.NewRSVPHandler(eventStore, registry, userStore)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		eventHandler,
		rsvpHandler,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Println("Shutting down services...")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
