package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"showcase/api"
	"showcase/config"
	"showcase/kafka"
	"showcase/logger"
	"showcase/showcase"
	"showcase/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Rotating testimonial and video showcases for the agency site",
	// failures are reported once, through the structured logger in main
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = os.Getenv("SHOWCASE_CONFIG")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve showcase sessions over websocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default testimonials and videos into the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())
		n, err := store.Seed(cmd.Context(), st)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items into %s store\n", n, cfg.Store.Driver)
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items [showcase]",
	Short: "Print the items of a showcase in display order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())
		items, err := st.ListItems(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (default $SHOWCASE_CONFIG)")
	rootCmd.AddCommand(serveCmd, seedCmd, itemsCmd)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("log level: %w", err)
	}
	return cfg, nil
}

func serve(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info("starting application")

	// Root context with cancellation for graceful shutdown (used across subsystems)
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("store init failed: %w", err)
	}
	defer st.Close(context.Background())

	var pub interface {
		showcase.EventPublisher
		Close() error
	} = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		pub = kafka.NewPublisher(cfg.Kafka)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("publisher close failed", err)
		}
	}()

	mgr, err := showcase.NewManager(st, pub, cfg.Carousel)
	if err != nil {
		return err
	}
	defer mgr.Close()

	if cfg.Kafka.Enabled {
		go kafka.CatalogReader(ctx, cfg.Kafka, mgr)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           api.NewServer(mgr, api.NewCommandValidator(), st, cfg.MaxCommandBytes),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errC := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.FieldKV("port", cfg.APIPort))
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", err)
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", err)
		os.Exit(1)
	}
}
