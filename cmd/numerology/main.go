package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"numerology/internal/meanings"
	"numerology/pkg/utils"
)

type app struct {
	cfg     utils.Config
	logger  *zap.Logger
	catalog *meanings.Catalog

	dbPath   string
	locale   string
	systems  string
	apiURL   string
	logLevel string
	asJSON   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "numerology",
		Short:         "Compute and interpret numerology charts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.dbPath, "db", "", "sqlite database path (default $NUMEROLOGY_DB_PATH or ~/.numerology/data.db)")
	pf.StringVar(&a.locale, "locale", "", "interpretation locale (default $NUMEROLOGY_LOCALE)")
	pf.StringVarP(&a.systems, "systems", "s", "", "comma separated systems or \"all\" (default $NUMEROLOGY_SYSTEMS)")
	pf.StringVar(&a.apiURL, "api", "", "API base URL for remote commands (default $NUMEROLOGY_API_URL)")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level")
	pf.BoolVar(&a.asJSON, "json", false, "print JSON")

	root.AddCommand(
		newChartCmd(a),
		newSystemsCmd(a),
		newHistoryCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := utils.LoadConfig()
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.locale != "" {
		cfg.Locale = a.locale
	}
	if a.systems != "" {
		cfg.Systems = a.systems
	}
	if a.apiURL != "" {
		cfg.APIURL = strings.TrimRight(a.apiURL, "/")
	}
	// commands are quiet unless asked
	cfg.LogLevel = a.logLevel
	a.cfg = cfg

	a.logger, err = utils.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.catalog, err = meanings.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	return nil
}
