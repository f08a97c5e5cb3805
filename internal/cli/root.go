package cli

import (
	"fmt"
	"os"

	"github.com/school-georesolver/internal/app"
	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewRootCmd собирает команду georesolve со всеми подкомандами
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "georesolve",
		Short: "Identify the school at a map point",
		Long: `georesolve identifies the educational institution at a coordinate using
OpenStreetMap (Overpass), Nominatim, Wikidata and Wikimedia Commons.

Manual selections are kept in a local store (SQLite by default) and take
precedence over automatic search on the next resolve.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("selection-backend", app.BackendSQLite, "Selection store (memory, redis, sqlite)")
	rootCmd.PersistentFlags().String("sqlite-path", "selections.db", "SQLite file for the selection store")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("SELECTION_BACKEND", "selection-backend")
	mustBind("SELECTION_SQLITE_PATH", "sqlite-path")
	mustBind("LOG_LEVEL", "log-level")

	rootCmd.AddCommand(newResolveCmd(), newSelectCmd(), newForgetCmd())

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRuntime загружает конфигурацию (флаги уже привязаны к viper) и собирает резолвер.
// Логи идут в stderr.
func newRuntime() (*app.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewWithOutput(cfg.Log.Level, "stderr")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt, err := app.Bootstrap(cfg, log)
	if err != nil {
		return nil, err
	}
	rt.AddCloser(func() error {
		_ = log.Sync()
		return nil
	})
	return rt, nil
}

func closeRuntime(rt *app.Runtime) {
	if err := rt.Close(); err != nil {
		rt.Log.Warn("Failed to release resources", zap.Error(err))
	}
}
