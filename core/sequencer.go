package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/memorylane/core/memories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// StepSpec is the presentation of a step. The sequencer does not interpret
// it.
type StepSpec struct {
	Label      string
	Icon       string
	StatusText string
}

var (
	StepVoiceProcessing = StepSpec{Label: "Voice Processing Agent", Icon: "🎤", StatusText: "Processing natural language..."}
	StepEmbeddingSearch = StepSpec{Label: "Embedding Search Agent", Icon: "🔍", StatusText: "Computing vector embeddings..."}
	StepPerception      = StepSpec{Label: "Perception Agent", Icon: "👁️", StatusText: "Analyzing visual content..."}
	StepEmotion         = StepSpec{Label: "Emotion Agent", Icon: "💭", StatusText: "Detecting emotions and mood..."}
	StepNarration       = StepSpec{Label: "Narration Agent", Icon: "📖", StatusText: "Generating story..."}
)

// StepRecorder stores step records in the order steps start.
type StepRecorder interface {
	// StartStep appends a pending record and returns its index.
	StartStep(step memories.AgentStep) (int, error)
	// CompleteStep marks the record at index complete with result.
	CompleteStep(index int, result any) error
}

// Sequencer runs workflow steps one at a time with dwell intervals around
// each action.
type Sequencer struct {
	workflow string
	recorder StepRecorder
	pacer    Pacer
	pacing   Pacing

	// mu serializes steps of one sequencer.
	mu sync.Mutex
}

func NewSequencer(workflow string, recorder StepRecorder, pacer Pacer, pacing Pacing) *Sequencer {
	if pacer == nil {
		pacer = TimerPacer{}
	}
	if recorder == nil {
		recorder = &StepLog{}
	}
	return &Sequencer{workflow: workflow, recorder: recorder, pacer: pacer, pacing: pacing}
}

// RunStep records spec as a pending step, waits the lead dwell, runs action,
// marks the step complete with the action's result, waits the trail dwell
// and returns the result.
//
// If action fails its error is returned right away and the record stays
// pending. Recorder errors, such as [ErrSuperseded], are returned as is.
func RunStep[T any](ctx context.Context, seq *Sequencer, spec StepSpec, action func(context.Context) (T, error)) (T, error) {
	var zero T

	seq.mu.Lock()
	defer seq.mu.Unlock()

	ctx, span := tracer.Start(ctx, "run step")
	defer span.End()
	span.SetAttributes(
		attribute.String("workflow", seq.workflow),
		attribute.String("step.label", spec.Label),
	)

	index, err := seq.recorder.StartStep(memories.AgentStep{
		ID:         uuid.NewString(),
		Label:      spec.Label,
		Icon:       spec.Icon,
		StatusText: spec.StatusText,
		Status:     memories.StepPending,
		StartedAt:  time.Now(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}
	span.SetAttributes(attribute.Int("step.index", index))

	if err := seq.pacer.Dwell(ctx, seq.pacing.Lead); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	result, err := action(ctx)
	if err != nil {
		err = fmt.Errorf("%s failed: %w", spec.Label, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	if err := seq.recorder.CompleteStep(index, result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	if err := seq.pacer.Dwell(ctx, seq.pacing.Trail); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	return result, nil
}

// StepLog is a StepRecorder kept in memory, used when a workflow runs outside
// of a page visit.
type StepLog struct {
	mu    sync.Mutex
	steps []memories.AgentStep

	onChange func(index int, step memories.AgentStep)
}

func NewStepLog(onChange func(index int, step memories.AgentStep)) *StepLog {
	return &StepLog{onChange: onChange}
}

func (l *StepLog) StartStep(step memories.AgentStep) (int, error) {
	l.mu.Lock()
	l.steps = append(l.steps, step)
	index := len(l.steps) - 1
	l.mu.Unlock()

	if l.onChange != nil {
		l.onChange(index, step)
	}
	return index, nil
}

func (l *StepLog) CompleteStep(index int, result any) error {
	l.mu.Lock()
	step, err := completeStep(l.steps, index, result)
	l.mu.Unlock()
	if err != nil {
		return err
	}

	if l.onChange != nil {
		l.onChange(index, step)
	}
	return nil
}

func (l *StepLog) Steps() []memories.AgentStep {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]memories.AgentStep(nil), l.steps...)
}

func (l *StepLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps = nil
}

// completeStep marks steps[index] complete in place. A record changes state
// at most once.
func completeStep(steps []memories.AgentStep, index int, result any) (memories.AgentStep, error) {
	if index < 0 || index >= len(steps) {
		return memories.AgentStep{}, fmt.Errorf("step %d does not exist", index)
	}
	if steps[index].IsComplete() {
		return memories.AgentStep{}, fmt.Errorf("step %d is already complete", index)
	}

	steps[index].Status = memories.StepComplete
	steps[index].Result = result
	steps[index].CompletedAt = time.Now()
	return steps[index], nil
}
