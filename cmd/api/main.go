package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mdb "pet-lost-found/internal/adapters/storage/mongodb"
	pg "pet-lost-found/internal/adapters/storage/postgres"
	"pet-lost-found/internal/config"
	"pet-lost-found/internal/platform/logger"
	"pet-lost-found/internal/router"

	"github.com/spf13/cobra"
)

// @title       Pet Lost & Found API
// @version     1.0
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	if err := rootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "petmatch",
		Short:        "Lost & found pet matching API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load(configFile)
				if err != nil {
					return err
				}
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply Postgres migrations or create Mongo indexes",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load(configFile)
				if err != nil {
					return err
				}
				return migrate(cmd.Context(), cfg)
			},
		},
	)
	return rootCmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.LoggerOptions())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := router.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn("store close failed", map[string]any{"err": err})
		}
	}()

	verifier, err := router.NewAuthVerifier(ctx, cfg.Auth)
	if err != nil {
		return fmt.Errorf("auth verifier: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Logger:       log,
			AuthVerifier: verifier,
			Store:        store,
			Matching:     cfg.Matching,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":      srv.Addr,
			"store":     cfg.Store,
			"auth_mode": cfg.Auth.Mode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", map[string]any{"timeout": cfg.HTTP.ShutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrate(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.LoggerOptions())

	switch cfg.Store {
	case config.StorePostgres:
		return pg.Migrate(cfg.DBDSN, log)
	case config.StoreMongo:
		client, err := mdb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		names, err := mdb.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			return err
		}
		log.Info("mongo indexes ready", map[string]any{"indexes": names})
		return nil
	default:
		log.Info("in-memory store: nothing to migrate", nil)
		return nil
	}
}
