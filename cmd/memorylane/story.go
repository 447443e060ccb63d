package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/agents"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/koscakluka/memorylane/core/render"
	"github.com/spf13/cobra"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Upload a photo and narrate it",
	Long: `Upload a photo to the backend and run the narration agents on it
without going through a search first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("file")
		noPacing, _ := cmd.Flags().GetBool("no-pacing")
		if path == "" {
			return errors.New("--file is required")
		}
		out := cmd.OutOrStdout()

		client, err := newAgentsClient(cfg)
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open photo: %w", err)
		}
		defer file.Close()

		name := filepath.Base(path)
		logger.Info("uploading photo", "file", name)
		uploaded, err := client.UploadPhoto(cmd.Context(), name, file)
		if err != nil {
			return fmt.Errorf("failed to upload photo: %w", err)
		}
		fmt.Fprintf(out, "Uploaded %s to %s\n\n", name, uploaded.PhotoURL)

		opts := []orchestration.WorkflowOption{
			orchestration.WithWorkflowPacing(orchestration.Pacing(cfg.Pacing.Narration)),
			orchestration.WithStepObserver(stepPrinter(out)),
		}
		if noPacing {
			opts = append(opts, orchestration.WithWorkflowPacer(orchestration.NoopPacer{}))
		}

		photo := memories.Photo{ID: uploaded.Filepath, URL: uploaded.PhotoURL, Title: name}
		backend := uploadedStoryBackend{Client: client, photoPath: uploaded.Filepath}
		outcome, err := orchestration.NewNarrationWorkflow(backend, opts...).Narrate(cmd.Context(), photo)
		if err != nil {
			return err
		}

		printNarration(out, outcome)
		if outcome.Failed() {
			return fmt.Errorf("story generation failed: %s", outcome.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storyCmd)

	storyCmd.Flags().String("file", "", "photo to upload")
	storyCmd.Flags().Bool("no-pacing", false, "skip the dwell time between agent steps")
}

// uploadedStoryBackend sends the uploaded file path along with the photo
// url so the story agents read the upload directly.
type uploadedStoryBackend struct {
	*agents.Client
	photoPath string
}

func (b uploadedStoryBackend) GenerateStory(ctx context.Context, photoURL string) (memories.Narration, error) {
	return b.GenerateStoryWithPath(ctx, photoURL, b.photoPath)
}

func printNarration(out io.Writer, outcome orchestration.NarrationOutcome) {
	view := render.Narration(outcome)
	fmt.Fprintln(out)
	fmt.Fprintln(out, view.Text(outputWidth))

	switch outcome.Mode {
	case orchestration.PlaybackToggle:
		fmt.Fprintf(out, "\nNarration audio: %s\n", outcome.Narration.AudioURL)
	case orchestration.PlaybackQueue:
		fmt.Fprintln(out, "\nAudio segments:")
		for i, segment := range outcome.Segments {
			fmt.Fprintf(out, "%2d. %s %s\n", i+1, segment.Kind, segment.URL)
		}
	}
}
