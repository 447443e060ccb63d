package orchestration

import (
	"errors"
	"fmt"

	"github.com/koscakluka/memorylane/core/memories"
)

var (
	ErrEmptyQuery        = errors.New("query is empty")
	ErrNoActivePhoto     = errors.New("no active photo")
	ErrIllegalTransition = errors.New("illegal page transition")
	// ErrSuperseded is returned when a workflow finishes after the page visit
	// it was started for has ended. Its results are discarded.
	ErrSuperseded         = errors.New("page visit superseded")
	ErrNoAudio            = errors.New("no audio available")
	ErrCaptureUnavailable = errors.New("speech capture is not configured")
	ErrUnknownPhoto       = errors.New("photo is not part of the current results")
)

// PlaybackError reports the queued segment that failed. Segments after it
// were not played.
type PlaybackError struct {
	Index   int
	Segment memories.AudioSegment
	Err     error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("failed to play %s segment %d: %v", e.Segment.Kind, e.Index, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// CaptureError wraps a failure of the speech recognition engine.
type CaptureError struct {
	SessionID string
	Err       error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("speech capture failed: %v", e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
