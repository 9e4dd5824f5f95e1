package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"task-tracker/api"
	"task-tracker/config"
	"task-tracker/logging"
	"task-tracker/store"
)

const connectTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		port       int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the task API server",
		Long: `Runs the HTTP API. The store is chosen by STORE_URI (or MONGO_URI):

  sqlite://tasks.db     SQLite file, the default (sqlite::memory: for in-memory)
  mongodb://host/db     MongoDB
  badger:///var/tasks   Badger directory (badger://memory for in-memory)

If the store cannot be reached at startup the error is logged and the server
starts anyway; task requests then fail with 500.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			logger := logging.New(os.Stdout, cfg.LogFormat, cfg.SlogLevel())
			slog.SetDefault(logger)

			st := openStore(cmd.Context(), cfg, logger)
			defer st.Close()

			router := newServer(cfg, st, logger)
			logger.Info("Server listening", "addr", cfg.Addr())
			return router.Run(cfg.Addr())
		},
	}

	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	return cmd
}

// openStore never fails: a store that cannot be opened is replaced by one
// that reports the failure on every call.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) store.Store {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	st, err := store.Open(ctx, cfg.StoreURI, logger)
	if err != nil {
		logger.Error("DB connection error", "error", err)
		return store.Unavailable(err)
	}
	if err := st.Ping(ctx); err != nil {
		logger.Error("DB connection error", "error", err)
		return st
	}
	logger.Info("Connected to DB")
	return st
}

func newServer(cfg config.Config, st store.Store, logger *slog.Logger) *gin.Engine {
	if cfg.SlogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(st, logger, api.Options{CORSOrigins: cfg.CORSOrigins})
}
