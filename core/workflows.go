package orchestration

import (
	"context"

	"github.com/koscakluka/memorylane/core/memories"
)

// WorkflowOption configures a [SearchWorkflow] or [NarrationWorkflow].
type WorkflowOption func(*workflowConfig)

type workflowConfig struct {
	pacer  Pacer
	pacing *Pacing
	onStep func(index int, step memories.AgentStep)
}

// WithWorkflowPacer replaces the wall-clock pacer. Nil is ignored.
func WithWorkflowPacer(pacer Pacer) WorkflowOption {
	return func(c *workflowConfig) {
		if pacer != nil {
			c.pacer = pacer
		}
	}
}

func WithWorkflowPacing(pacing Pacing) WorkflowOption {
	return func(c *workflowConfig) { c.pacing = &pacing }
}

// WithStepObserver is called whenever a step record is added or completed.
func WithStepObserver(onStep func(index int, step memories.AgentStep)) WorkflowOption {
	return func(c *workflowConfig) { c.onStep = onStep }
}

func newWorkflowConfig(defaultPacing Pacing, opts []WorkflowOption) workflowConfig {
	c := workflowConfig{pacer: TimerPacer{}}
	for _, opt := range opts {
		opt(&c)
	}
	if c.pacing == nil {
		c.pacing = &defaultPacing
	}
	return c
}

// SearchWorkflow runs searches outside of the page state machine. Each call
// to Search starts a fresh step log.
type SearchWorkflow struct {
	workflow searchWorkflow
	config   workflowConfig
	log      *StepLog
}

func NewSearchWorkflow(backend SearchBackend, opts ...WorkflowOption) *SearchWorkflow {
	config := newWorkflowConfig(DefaultSearchPacing, opts)
	return &SearchWorkflow{
		workflow: searchWorkflow{backend: backend},
		config:   config,
		log:      NewStepLog(config.onStep),
	}
}

func (w *SearchWorkflow) Search(ctx context.Context, query string) (SearchOutcome, error) {
	w.log.Reset()
	seq := NewSequencer(workflowSearch, w.log, w.config.pacer, *w.config.pacing)
	return w.workflow.Search(ctx, seq, query)
}

// Steps returns the step records of the latest run.
func (w *SearchWorkflow) Steps() []memories.AgentStep { return w.log.Steps() }

// NarrationWorkflow narrates photos outside of the page state machine, for
// example right after an upload.
type NarrationWorkflow struct {
	workflow narrationWorkflow
	config   workflowConfig
	log      *StepLog
}

func NewNarrationWorkflow(backend NarrationBackend, opts ...WorkflowOption) *NarrationWorkflow {
	config := newWorkflowConfig(DefaultNarrationPacing, opts)
	return &NarrationWorkflow{
		workflow: narrationWorkflow{backend: backend},
		config:   config,
		log:      NewStepLog(config.onStep),
	}
}

func (w *NarrationWorkflow) Narrate(ctx context.Context, photo memories.Photo) (NarrationOutcome, error) {
	w.log.Reset()
	seq := NewSequencer(workflowNarration, w.log, w.config.pacer, *w.config.pacing)
	return w.workflow.Narrate(ctx, seq, photo)
}

func (w *NarrationWorkflow) Steps() []memories.AgentStep { return w.log.Steps() }
