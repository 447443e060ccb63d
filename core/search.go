package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/koscakluka/memorylane/core/agents"
	"github.com/koscakluka/memorylane/core/memories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	workflowSearch    = "search"
	workflowNarration = "narration"
)

const NoResultsMessage = "No photos found matching your query. Try a different search term."

type SearchStatus string

const (
	SearchFound  SearchStatus = "found"
	SearchEmpty  SearchStatus = "empty"
	SearchFailed SearchStatus = "failed"
)

// VoiceStepResult is attached to the completed voice processing step.
type VoiceStepResult struct {
	Success bool
	Message string
	Intent  memories.VoiceIntent
}

// SearchStepResult is attached to the completed embedding search step.
type SearchStepResult struct {
	Success bool
	Message string
	Photos  []memories.Photo
}

// SearchOutcome tells "nothing matched" (SearchEmpty) apart from "the search
// did not work" (SearchFailed).
type SearchOutcome struct {
	Query string
	// EffectiveQuery is what the embedding search was run with.
	EffectiveQuery string
	Intent         memories.VoiceIntent
	Photos         []memories.Photo
	Status         SearchStatus
	Message        string
}

type SearchBackend interface {
	ProcessVoice(ctx context.Context, text string) (memories.VoiceIntent, error)
	Search(ctx context.Context, query string, useVoiceProcessing bool) ([]memories.Photo, error)
}

type searchWorkflow struct {
	backend SearchBackend
}

// Search runs the voice processing step and then the embedding search step
// with the refined query, or with query itself when none was derived.
//
// Backend and network failures end up in the outcome. The returned error is
// only set when the run itself could not finish, for example because it was
// superseded or ctx was cancelled.
func (w *searchWorkflow) Search(ctx context.Context, seq *Sequencer, query string) (SearchOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchOutcome{}, ErrEmptyQuery
	}

	ctx, span := tracer.Start(ctx, "search workflow")
	defer span.End()

	outcome := SearchOutcome{Query: query, EffectiveQuery: query}
	finish := func(status SearchStatus, message string) (SearchOutcome, error) {
		outcome.Status = status
		outcome.Message = message
		span.SetAttributes(
			attribute.String("search.status", string(status)),
			attribute.Int("search.results", len(outcome.Photos)),
		)
		workflowRuns.Add(ctx, 1, metric.WithAttributes(
			attribute.String("workflow", workflowSearch),
			attribute.String("outcome", string(status)),
		))
		return outcome, nil
	}
	fail := func(err error) (SearchOutcome, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if isRunAborted(ctx, err) {
			return outcome, err
		}
		return finish(SearchFailed, agents.FailureMessage(err))
	}

	voice, err := RunStep(ctx, seq, StepVoiceProcessing, func(ctx context.Context) (VoiceStepResult, error) {
		intent, err := w.backend.ProcessVoice(ctx, query)
		if err != nil {
			if agents.IsBackendFailure(err) {
				logger.InfoContext(ctx, "voice processing failed, searching with the original query", "error", err)
				return VoiceStepResult{Success: false, Message: agents.FailureMessage(err)}, nil
			}
			return VoiceStepResult{}, err
		}
		return VoiceStepResult{Success: true, Intent: intent}, nil
	})
	if err != nil {
		return fail(err)
	}

	outcome.Intent = voice.Intent
	if refined := strings.TrimSpace(voice.Intent.SearchQuery); voice.Success && refined != "" {
		outcome.EffectiveQuery = refined
	}
	span.SetAttributes(attribute.String("search.effective_query", outcome.EffectiveQuery))

	search, err := RunStep(ctx, seq, StepEmbeddingSearch, func(ctx context.Context) (SearchStepResult, error) {
		photos, err := w.backend.Search(ctx, outcome.EffectiveQuery, true)
		if err != nil {
			if agents.IsBackendFailure(err) {
				return SearchStepResult{Success: false, Message: agents.FailureMessage(err)}, nil
			}
			return SearchStepResult{}, err
		}
		return SearchStepResult{Success: true, Photos: photos}, nil
	})
	if err != nil {
		return fail(err)
	}

	if !search.Success {
		return finish(SearchFailed, search.Message)
	}

	outcome.Photos = search.Photos
	if len(search.Photos) == 0 {
		return finish(SearchEmpty, NoResultsMessage)
	}
	return finish(SearchFound, "")
}

// ResultAnnouncement is what gets spoken after a search that found photos.
func ResultAnnouncement(photos []memories.Photo) string {
	if len(photos) == 0 {
		return ""
	}

	plural := ""
	if len(photos) > 1 {
		plural = "s"
	}
	return fmt.Sprintf("I found %d photo%s matching your search. %s is the top result.", len(photos), plural, photos[0].Title)
}
