package events

import "github.com/koscakluka/memorylane/core/memories"

const (
	// KindStepStarted identifies a newly appended pending step record.
	KindStepStarted Kind = "workflow.step_started"
	// KindStepCompleted identifies a step record marked complete.
	KindStepCompleted Kind = "workflow.step_completed"
	// KindSearchCompleted identifies the end of a search workflow run.
	KindSearchCompleted Kind = "workflow.search_completed"
	// KindNarrationCompleted identifies a successful narration workflow run.
	KindNarrationCompleted Kind = "workflow.narration_completed"
	// KindNarrationFailed identifies a narration workflow run that failed.
	KindNarrationFailed Kind = "workflow.narration_failed"
)

// StepStarted carries the step record as it was appended.
type StepStarted struct {
	Base
	Workflow string
	Index    int
	Step     memories.AgentStep
}

// NewStepStarted creates a step started event.
func NewStepStarted(workflow string, index int, step memories.AgentStep) StepStarted {
	return StepStarted{Base: NewBase(KindStepStarted), Workflow: workflow, Index: index, Step: step}
}

// StepCompleted carries the step record after it was marked complete.
type StepCompleted struct {
	Base
	Workflow string
	Index    int
	Step     memories.AgentStep
}

// NewStepCompleted creates a step completed event.
func NewStepCompleted(workflow string, index int, step memories.AgentStep) StepCompleted {
	return StepCompleted{Base: NewBase(KindStepCompleted), Workflow: workflow, Index: index, Step: step}
}

// SearchCompleted carries the photos to render. Found is false both for an
// empty result set and for a failed search; Failed tells them apart.
type SearchCompleted struct {
	Base
	Query   string
	Photos  []memories.Photo
	Failed  bool
	Message string
}

// NewSearchCompleted creates a search completed event.
func NewSearchCompleted(query string, photos []memories.Photo, failed bool, message string) SearchCompleted {
	return SearchCompleted{
		Base:    NewBase(KindSearchCompleted),
		Query:   query,
		Photos:  photos,
		Failed:  failed,
		Message: message,
	}
}

// NarrationCompleted carries the narration of the active photo.
type NarrationCompleted struct {
	Base
	Photo     memories.Photo
	Narration memories.Narration
	Segments  []memories.AudioSegment
	// PlaybackMode is one of "none", "queue" or "toggle".
	PlaybackMode string
}

// NewNarrationCompleted creates a narration completed event.
func NewNarrationCompleted(photo memories.Photo, narration memories.Narration, segments []memories.AudioSegment, playbackMode string) NarrationCompleted {
	return NarrationCompleted{
		Base:         NewBase(KindNarrationCompleted),
		Photo:        photo,
		Narration:    narration,
		Segments:     segments,
		PlaybackMode: playbackMode,
	}
}

// NarrationFailed carries the message shown in place of the narration.
type NarrationFailed struct {
	Base
	Photo   memories.Photo
	Message string
}

// NewNarrationFailed creates a narration failed event.
func NewNarrationFailed(photo memories.Photo, message string) NarrationFailed {
	return NarrationFailed{Base: NewBase(KindNarrationFailed), Photo: photo, Message: message}
}
