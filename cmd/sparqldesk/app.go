package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/sparqldesk/sparqldesk/backend"
	"github.com/sparqldesk/sparqldesk/cache"
	"github.com/sparqldesk/sparqldesk/config"
)

// App wires together the cache service and its dependencies.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// NATS
	embeddedServer *server.Server
	natsConn       *nats.Conn
	js             jetstream.JetStream

	// Cache core
	store    *cache.NATSStore
	registry *backend.Registry
	service  *cache.Service
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	return &App{cfg: cfg, logger: logger}
}

// Start initializes NATS, the cache store, and the backend registry.
func (a *App) Start(ctx context.Context) error {
	if err := a.startNATS(ctx); err != nil {
		return fmt.Errorf("start NATS: %w", err)
	}

	store, err := cache.NewNATSStore(ctx, a.js)
	if err != nil {
		return fmt.Errorf("initialize cache store: %w", err)
	}
	a.store = store

	a.registry = backend.NewRegistry(a.logger)
	if err := a.registerBackends(a.cfg); err != nil {
		return err
	}

	a.service = cache.NewService(a.store, a.registry, a.logger)
	return nil
}

// ApplyConfig swaps in a reloaded backend set. Existing caches stay in the
// store; removed backends simply stop being swept.
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, id := range a.registry.IDs() {
		still := false
		for i := range cfg.Backends {
			if cfg.Backends[i].ID == id {
				still = true
				break
			}
		}
		if !still {
			a.registry.Remove(id)
		}
	}
	if err := a.registerBackends(cfg); err != nil {
		a.logger.Warn("config apply failed", slog.String("error", err.Error()))
	}
}

func (a *App) registerBackends(cfg *config.Config) error {
	for i := range cfg.Backends {
		if err := a.registry.Register(cfg.Backends[i]); err != nil {
			return fmt.Errorf("register backend %s: %w", cfg.Backends[i].ID, err)
		}
	}
	return nil
}

func (a *App) startNATS(ctx context.Context) error {
	if a.cfg.NATS.URL != "" && !a.cfg.NATS.Embedded {
		a.logger.Info("connecting to NATS", slog.String("url", a.cfg.NATS.URL))
		conn, err := nats.Connect(a.cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		a.natsConn = conn
	} else {
		a.logger.Debug("starting embedded NATS server")
		opts := &server.Options{
			Port:      -1, // Random available port
			JetStream: true,
			StoreDir:  a.cfg.NATS.StoreDir,
			NoLog:     true,
			NoSigs:    true,
		}

		ns, err := server.NewServer(opts)
		if err != nil {
			return fmt.Errorf("create embedded NATS server: %w", err)
		}

		go ns.Start()

		if !ns.ReadyForConnections(5 * time.Second) {
			ns.Shutdown()
			return fmt.Errorf("embedded NATS server failed to start")
		}
		a.embeddedServer = ns

		conn, err := nats.Connect(ns.ClientURL())
		if err != nil {
			ns.Shutdown()
			return fmt.Errorf("connect to embedded NATS: %w", err)
		}
		a.natsConn = conn
	}

	js, err := jetstream.New(a.natsConn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	a.js = js
	return nil
}

// Stop shuts down the NATS connection and the embedded server, if any.
func (a *App) Stop() {
	if a.natsConn != nil {
		a.natsConn.Close()
	}
	if a.embeddedServer != nil {
		a.embeddedServer.Shutdown()
		a.embeddedServer.WaitForShutdown()
	}
}
