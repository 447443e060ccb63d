package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/koscakluka/memorylane/core/render"
	"github.com/spf13/cobra"
)

const outputWidth = 80

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a single search and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		asJSON, _ := cmd.Flags().GetBool("json")
		noPacing, _ := cmd.Flags().GetBool("no-pacing")
		out := cmd.OutOrStdout()

		client, err := newAgentsClient(cfg)
		if err != nil {
			return err
		}

		opts := []orchestration.WorkflowOption{
			orchestration.WithWorkflowPacing(orchestration.Pacing(cfg.Pacing.Search)),
		}
		if noPacing {
			opts = append(opts, orchestration.WithWorkflowPacer(orchestration.NoopPacer{}))
		}
		if !asJSON {
			opts = append(opts, orchestration.WithStepObserver(stepPrinter(out)))
		}

		logger.Info("running search", "query", query)
		outcome, err := orchestration.NewSearchWorkflow(client, opts...).Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		if asJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(render.Cards(outcome.Photos))
		}
		printSearchOutcome(out, outcome)
		if outcome.Status == orchestration.SearchFailed {
			return fmt.Errorf("search failed: %s", outcome.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Bool("json", false, "print result cards as JSON")
	searchCmd.Flags().Bool("no-pacing", false, "skip the dwell time between agent steps")
}

// stepPrinter prints a line when a step starts and its summary when it
// completes.
func stepPrinter(out io.Writer) func(int, memories.AgentStep) {
	return func(_ int, step memories.AgentStep) {
		if !step.IsComplete() {
			fmt.Fprintf(out, "%s %s: %s\n", step.Icon, step.Label, step.StatusText)
			return
		}

		fmt.Fprintf(out, "✓ %s\n", step.Label)
		summary := render.StepSummary(step)
		if summary.IsZero() {
			return
		}
		if summary.Title != "" {
			fmt.Fprintf(out, "    %s\n", summary.Title)
		}
		for _, line := range summary.Lines {
			fmt.Fprintf(out, "    %s\n", line)
		}
		if len(summary.Badges) > 0 {
			fmt.Fprintf(out, "    [%s]\n", strings.Join(summary.Badges, "] ["))
		}
	}
}

func printSearchOutcome(out io.Writer, outcome orchestration.SearchOutcome) {
	fmt.Fprintln(out)
	if title, text := render.SearchMessage(outcome); title != "" {
		fmt.Fprintln(out, title)
		fmt.Fprintln(out, render.Wrap(text, outputWidth))
		return
	}

	fmt.Fprintln(out, render.ResultsCount(len(outcome.Photos)))
	for i, card := range render.Cards(outcome.Photos) {
		fmt.Fprintf(out, "%2d. %s (%s) id=%s\n", i+1, card.Title, card.RelevanceLabel, card.ID)
		if card.Description != "" {
			fmt.Fprintf(out, "    %s\n", card.Description)
		}
	}
}
