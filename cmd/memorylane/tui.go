package main

import (
	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal interface (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, err := newAgentsClient(cfg)
	if err != nil {
		return err
	}

	opts, cleanup, err := orchestratorOptions(cfg)
	defer cleanup()
	if err != nil {
		return err
	}

	bridge := &tui.Bridge{}
	opts = append(opts, orchestration.WithEventCallback(bridge.Send))

	orchestrator := orchestration.NewOrchestrator(client, opts...)
	defer orchestrator.Close()
	orchestrator.Orchestrate(ctx)

	logger.Info("starting terminal interface", "backend", cfg.Backend.BaseURL, "audio", cfg.Audio.Backend)
	return tui.Run(ctx, orchestrator, bridge)
}
