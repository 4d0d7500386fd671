// Package app wires storage, services and the HTTP server together and runs
// them until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/sqlstore"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/shortcode"
	"github.com/vadimbarashkov/shortlink/internal/usecase"
	"github.com/vadimbarashkov/shortlink/migrations"
	"github.com/vadimbarashkov/shortlink/pkg/postgres"
	"github.com/vadimbarashkov/shortlink/pkg/sqlite"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/shortlink/internal/adapter/delivery/http"
)

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	db, dialect, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	logger.Info("storage ready", "driver", dialect.String())

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        newHandler(db, dialect, cfg, logger),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		logger.Info("starting http server", "addr", server.Addr, "env", cfg.Env)

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down http server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// openStorage connects to the configured engine and brings its schema up to date.
func openStorage(ctx context.Context, cfg *config.Config) (*sqlx.DB, sqlstore.Dialect, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(
			ctx,
			cfg.Postgres.DSN(),
			postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, sqlstore.Dialect{}, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := postgres.RunMigrations(db, migrations.Postgres()); err != nil {
			db.Close()
			return nil, sqlstore.Dialect{}, fmt.Errorf("failed to run migrations: %w", err)
		}

		return db, sqlstore.Postgres, nil

	case config.DriverSQLite:
		db, err := sqlite.New(
			ctx,
			cfg.Storage.SQLite.Path,
			sqlite.WithBusyTimeout(cfg.Storage.SQLite.BusyTimeout),
			sqlite.WithMaxOpenConns(cfg.Storage.SQLite.MaxOpenConns),
		)
		if err != nil {
			return nil, sqlstore.Dialect{}, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := sqlite.RunMigrations(db, migrations.SQLite()); err != nil {
			db.Close()
			return nil, sqlstore.Dialect{}, fmt.Errorf("failed to run migrations: %w", err)
		}

		return db, sqlstore.SQLite, nil

	default:
		return nil, sqlstore.Dialect{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func newHandler(db *sqlx.DB, dialect sqlstore.Dialect, cfg *config.Config, logger *httplog.Logger) http.Handler {
	urlRepo := sqlstore.NewURLRepository(db, dialect)
	codeGen := shortcode.NewGenerator(cfg.ShortCodeLength)
	urlUseCase := usecase.New(urlRepo, codeGen, logger.Logger)

	return delivery.NewRouter(logger, urlUseCase)
}
