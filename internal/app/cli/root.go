// Package cli defines the command line entrypoints of the price backend.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"price_backend/internal/platform/config"
	"price_backend/internal/platform/logger"
)

var (
	configPath string
	cfg        *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "price-backend",
	Short:         "Symbol management API and real-time price stream",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		return logger.Setup(logger.Options{
			Level:      cfg.Log.Level,
			JSON:       cfg.IsProduction(),
			ShowCaller: cfg.Log.ShowCaller,
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ./config.yml)")
}
