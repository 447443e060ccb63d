package orchestration

import (
	"context"

	"github.com/koscakluka/memorylane/core/agents"
	"github.com/koscakluka/memorylane/core/memories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// PlaybackMode selects how narration audio is played. Queue and toggle are
// mutually exclusive for one narration.
type PlaybackMode string

const (
	PlaybackNone   PlaybackMode = "none"
	PlaybackQueue  PlaybackMode = "queue"
	PlaybackToggle PlaybackMode = "toggle"
)

type NarrationOutcome struct {
	Photo memories.Photo
	// Narration is nil when story generation failed.
	Narration *memories.Narration
	Segments  []memories.AudioSegment
	Mode      PlaybackMode
	// Message explains a failed story generation and is shown in place of
	// the narration.
	Message string
}

func (o NarrationOutcome) Failed() bool { return o.Narration == nil }

type NarrationBackend interface {
	GenerateStory(ctx context.Context, photoURL string) (memories.Narration, error)
	Synthesize(ctx context.Context, text string) (string, error)
}

type narrationWorkflow struct {
	backend NarrationBackend
}

// Narrate paces the perception, emotion and narration steps, then generates
// the story for photo and renders its main narration to speech.
//
// A failed story generation is reported in the outcome. A failed speech
// synthesis only leaves the narration without generated audio.
func (w *narrationWorkflow) Narrate(ctx context.Context, seq *Sequencer, photo memories.Photo) (NarrationOutcome, error) {
	ctx, span := tracer.Start(ctx, "narration workflow")
	defer span.End()
	span.SetAttributes(attribute.String("photo.id", photo.ID))

	outcome := NarrationOutcome{Photo: photo, Mode: PlaybackNone}
	record := func(result string) {
		workflowRuns.Add(ctx, 1, metric.WithAttributes(
			attribute.String("workflow", workflowNarration),
			attribute.String("outcome", result),
		))
	}

	for _, step := range []StepSpec{StepPerception, StepEmotion, StepNarration} {
		if _, err := RunStep(ctx, seq, step, func(context.Context) (any, error) { return nil, nil }); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return outcome, err
		}
	}

	narration, err := w.backend.GenerateStory(ctx, photo.URL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if isRunAborted(ctx, err) {
			return outcome, err
		}
		outcome.Message = agents.FailureMessage(err)
		record("failed")
		return outcome, nil
	}

	if narration.MainNarration != "" {
		audioURL, err := w.backend.Synthesize(ctx, narration.MainNarration)
		if err != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			logger.WarnContext(ctx, "speech synthesis failed, narration has no generated audio", "error", err, "photo_id", photo.ID)
		} else {
			narration.AudioURL = audioURL
		}
	}

	outcome.Narration = &narration
	outcome.Segments = narration.Segments()
	switch {
	case narration.HasDialogueAudio():
		outcome.Mode = PlaybackQueue
	case narration.AudioURL != "":
		outcome.Mode = PlaybackToggle
	}
	span.SetAttributes(
		attribute.String("narration.playback_mode", string(outcome.Mode)),
		attribute.Int("narration.segments", len(outcome.Segments)),
	)
	record("completed")

	return outcome, nil
}
