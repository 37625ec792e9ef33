package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "intelliqr",
	Short: "Emergency profile and QR identity service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Overwrite zap's log level
		if logLevel == "" {
			return nil
		}
		return os.Setenv("LOG_LEVEL", logLevel)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "", "Log level (overrides LOG_LEVEL)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// partialConfig loads configuration for commands that need only some
// sections, together with a logger
func partialConfig() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
