package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lending_service/internal/config"
	"lending_service/internal/handlers"
	"lending_service/internal/logger"
	"lending_service/internal/messaging"
	"lending_service/internal/repository"
	"lending_service/internal/repository/db"
	"lending_service/internal/server"
	"lending_service/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title        Lending Service API
// @version      1.0
// @description  Users, items and loan/return of items between them.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	repos, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		log.Fatalw("failed to open store", "driver", cfg.Store.Driver, "err", err)
	}
	defer closeStore()

	pub := newPublisher(cfg.NATS, log)
	defer pub.Close()

	// wire dependencies
	services := service.NewService(repos, pub, log)
	apiHandler := handlers.NewHandler(services, log)

	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	waitForShutdown(srv, log)
}

// openStore connects the configured backend and returns its repositories plus a close func.
func openStore(cfg config.StoreConfig, log *logger.Logger) (*repository.Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		sqlDB, err := db.InitDB(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("store_ready", "driver", cfg.Driver, "path", cfg.SQLite.Path)
		return repository.NewRepository(sqlDB), func() {
			if err := sqlDB.Close(); err != nil {
				log.Errorw("failed to close sqlite", "err", err)
			}
		}, nil

	case config.DriverMongo:
		client, err := db.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("store_ready", "driver", cfg.Driver, "database", cfg.Mongo.Database)
		return repository.NewMongoRepository(client.Database(cfg.Mongo.Database)), func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Errorw("failed to disconnect mongo", "err", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// newPublisher connects to NATS when configured. A connection failure is not fatal:
// events are still kept in the store, only the fan-out is lost.
func newPublisher(cfg config.NATSConfig, log *logger.Logger) messaging.Publisher {
	if cfg.URL == "" {
		return messaging.NopPublisher{}
	}
	pub, err := messaging.NewNatsPublisher(cfg.URL, cfg.SubjectPrefix)
	if err != nil {
		log.Warnw("nats_unavailable", "url", cfg.URL, "err", err)
		return messaging.NopPublisher{}
	}
	log.Infow("nats_connected", "url", cfg.URL, "subject_prefix", cfg.SubjectPrefix)
	return pub
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http_server_started", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM and then drains in-flight requests.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
