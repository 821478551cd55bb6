package main

import (
	"fmt"
	"os"

	"grabbi-storefront/config"
	"grabbi-storefront/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const programName = "storefront"

var globalFlags = struct {
	debug bool
}{}

// commonRun loads the environment and builds the logger shared by every
// subcommand.
func commonRun() (*config.Config, *logrus.Logger, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if globalFlags.debug {
		level = "debug"
	}
	logger := logging.Setup(level, cfg.LogFormat)
	return cfg, logger, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Storefront backend-for-frontend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
