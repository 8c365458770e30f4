package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"socialnet/app/config"
	"socialnet/app/logger"
	"socialnet/app/repositories"
	"socialnet/app/repositories/mongodb"
	"socialnet/app/routes"
	"socialnet/app/storage"
	"socialnet/app/storage/minio"
)

// RunAppServer loads configuration and serves the API until SIGINT or SIGTERM.
func RunAppServer() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse config: %v\n", err)
		return 1
	}
	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := Run(ctx, cfg, log); err != nil {
		log.Errorw("server stopped with error", "error", err)
		return 1
	}
	return 0
}

// Run opens the configured stores, serves HTTP until ctx is done, then shuts down
// the server and closes the stores.
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) (err error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		err = multierr.Append(err, store.Close(closeCtx))
	}()

	images, err := openImages(ctx, cfg)
	if err != nil {
		return err
	}

	handler := routes.Handler(routes.Deps{
		Store:          store,
		Images:         images,
		Log:            log,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		StaticDir:      cfg.StaticDir,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
	})

	listener, err := net.Listen("tcp", cfg.HTTP.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.HTTP.Address(), err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, listener, log, cfg.HTTP.ShutdownTimeout)
}

func serve(ctx context.Context, srv *http.Server, listener net.Listener, log *logger.Logger, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("Starting server", "address", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Infow("received interruption signal, shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	err = multierr.Append(err, <-errCh)
	if err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	log.Infow("shutdown complete")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongoDB:
		conn, err := mongodb.Connect(ctx, cfg.Database.URI, cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		return mongodb.NewStore(conn), nil
	default:
		repo, err := repositories.NewRepository(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		return repo.Store(), nil
	}
}

func openImages(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageMinio:
		m := cfg.Minio
		client, err := minio.Dial(ctx, m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize image storage: %w", err)
		}
		return client, nil
	default:
		return storage.NewDiskStore(cfg.Storage.UploadDir), nil
	}
}
