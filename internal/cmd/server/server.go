// Package server parses server flags and launches the Atlas HTTP API.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	api "github.com/atlasos/atlas/internal/api/http"
	entrypoint "github.com/atlasos/atlas/internal/platform/cmd"
	"github.com/atlasos/atlas/internal/spine/storage/sqlite"
	"github.com/atlasos/atlas/internal/trackers"
)

const shutdownTimeout = 10 * time.Second

// Config holds server command configuration.
type Config struct {
	Port       int    `env:"ATLAS_HTTP_PORT" envDefault:"8080"`
	DBPath     string `env:"ATLAS_DB_PATH" envDefault:"atlas.db"`
	AuthSecret string `env:"ATLAS_AUTH_SECRET"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP API port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the event log database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the HTTP API service and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
		defer store.Close()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           api.NewServer(store, trackers.NewRegistry(), api.Config{AuthSecret: cfg.AuthSecret}).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("http api listening on %s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	})
}
