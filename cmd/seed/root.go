package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/db"
	"libraryhub/internal/logging"
	"libraryhub/internal/repository"
)

var migrate bool

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bootstrap a library database",
	Long: `seed prepares a library database outside the web server.

It reads the same environment as the server (DB_DRIVER, SQLITE_PATH, MYSQL_DSN,
POSTGRES_DSN, REDIS_ADDR, ...) so it always targets the server's database.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&migrate, "migrate", true, "Create or update tables before seeding")
}

// env is what every subcommand needs to reach the server's state.
type env struct {
	cfg   *config.Config
	db    *gorm.DB
	store *repository.Store
	cache *cache.Client
}

func openEnv() (*env, error) {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if migrate {
		if err := db.Migrate(gormDB); err != nil {
			return nil, err
		}
	}

	return &env{
		cfg:   cfg,
		db:    gormDB,
		store: repository.NewStore(gormDB),
		cache: cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB),
	}, nil
}

func (e *env) Close() {
	_ = e.cache.Close()
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
