package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/refmerge/internal/config"
)

var (
	cfg *config.Config

	// logLevel overrides log.level from refmerge.yaml or REFMERGE_LOG_LEVEL.
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:          "refmerge",
	Short:        "Reconcile extracted bibliographic references",
	Long:         "Aligns the reference lists several extractors produced for one document, scores each field, and merges them into consensus references with a quality score.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		zap.L().Debug("refmerge: starting", zap.String("command", cmd.Name()))

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
