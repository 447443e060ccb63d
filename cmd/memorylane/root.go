package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/koscakluka/memorylane/internal/config"
	"github.com/koscakluka/memorylane/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	cfg       *config.Config
	logger    = slog.Default()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "memorylane",
	Short: "Search your photo memories and have them narrated",
	Long: `Memory Lane searches a photo collection by typed or spoken queries,
shows how each agent contributed to the result and narrates the selected
photo as a short story.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initConfig,
	PersistentPostRunE: closeLogging,
	RunE:               runTUI,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.memorylane.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func initConfig(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded

	closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logCloser = closer
	logger = slog.Default()

	logger.Debug("configuration loaded", "file", path, "command", cmd.Name())
	return nil
}

func closeLogging(*cobra.Command, []string) error {
	if logCloser == nil {
		return nil
	}
	return logCloser.Close()
}
