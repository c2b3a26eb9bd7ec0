package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"beatbox/config"
	"beatbox/core/catalog"
	"beatbox/db"
	"beatbox/logger"
	"beatbox/repository"
	"beatbox/server"
	"beatbox/storage"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "beatbox",
	Short: "beatbox serves a catalog of beats, vocals and finished tracks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads and validates configuration and starts the logger.
func setup() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialise logger: %w", err)
	}
	return cfg, nil
}

// openCatalog connects the database and file store and wires the services.
// The caller closes the returned *gorm.DB.
func openCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, *gorm.DB, error) {
	policy, err := storage.ParseDeletePolicy(cfg.FileDeletePolicy)
	if err != nil {
		return nil, nil, err
	}

	gdb, err := db.Open(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		_ = db.Close(gdb)
		return nil, nil, err
	}

	backend, err := storage.NewBackend(cfg)
	if err != nil {
		_ = db.Close(gdb)
		return nil, nil, err
	}
	files := storage.NewFileStore(backend)
	if err := files.Init(ctx); err != nil {
		_ = db.Close(gdb)
		return nil, nil, err
	}

	logger.Info("catalog ready",
		logger.String("storage", cfg.StorageBackend),
		logger.String("delete_policy", policy.String()))
	return catalog.New(repository.New(gdb), files, policy), gdb, nil
}

func runServer() error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, gdb, err := openCatalog(ctx, cfg)
	if err != nil {
		logger.Error("failed to start", logger.ErrorField(err))
		return err
	}
	defer db.Close(gdb)

	return server.New(cfg, cat).Run(ctx)
}
