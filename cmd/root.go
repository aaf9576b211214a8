package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/people-finder/internal/config"
)

var (
	cfg *config.Config

	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "people-finder",
	Short: "Find who holds a designation at a company",
	Long:  "Searches the web for a company and designation, extracts candidate names with an LLM, and reports the best-supported person with a confidence score.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(configPath, logLevel)
		if err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		zap.L().Debug("config loaded",
			zap.String("file", configPath),
			zap.String("log_level", cfg.Log.Level),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadConfig reads configuration and applies the persistent flag overrides.
func loadConfig(path, level string) (*config.Config, error) {
	c, err := config.LoadFrom(path)
	if err != nil {
		return nil, eris.Wrap(err, "load config")
	}
	if level != "" {
		c.Log.Level = level
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
