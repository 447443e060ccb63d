package events

import "github.com/koscakluka/memorylane/core/memories"

const (
	// KindSegmentStarted identifies the start of a queued segment.
	KindSegmentStarted Kind = "playback.segment_started"
	// KindSegmentCompleted identifies a queued segment that played to the end.
	KindSegmentCompleted Kind = "playback.segment_completed"
	// KindSegmentFailed identifies a queued segment that failed to play.
	KindSegmentFailed Kind = "playback.segment_failed"
	// KindQueueCompleted identifies a queue that played every segment.
	KindQueueCompleted Kind = "playback.queue_completed"
	// KindPlayerStateChanged identifies state changes of the single player.
	KindPlayerStateChanged Kind = "playback.player_state_changed"
)

// SegmentStarted marks the start of a queued segment.
type SegmentStarted struct {
	Base
	Index   int
	Segment memories.AudioSegment
}

// NewSegmentStarted creates a segment started event.
func NewSegmentStarted(index int, segment memories.AudioSegment) SegmentStarted {
	return SegmentStarted{Base: NewBase(KindSegmentStarted), Index: index, Segment: segment}
}

// SegmentCompleted marks a queued segment that finished playing.
type SegmentCompleted struct {
	Base
	Index   int
	Segment memories.AudioSegment
}

// NewSegmentCompleted creates a segment completed event.
func NewSegmentCompleted(index int, segment memories.AudioSegment) SegmentCompleted {
	return SegmentCompleted{Base: NewBase(KindSegmentCompleted), Index: index, Segment: segment}
}

// SegmentFailed marks a queued segment that could not be played.
type SegmentFailed struct {
	Base
	Index   int
	Segment memories.AudioSegment
	Err     error
}

// NewSegmentFailed creates a segment failed event.
func NewSegmentFailed(index int, segment memories.AudioSegment, err error) SegmentFailed {
	return SegmentFailed{Base: NewBase(KindSegmentFailed), Index: index, Segment: segment, Err: err}
}

// QueueCompleted marks a queue that played all of its segments.
type QueueCompleted struct {
	Base
	Segments int
}

// NewQueueCompleted creates a queue completed event.
func NewQueueCompleted(segments int) QueueCompleted {
	return QueueCompleted{Base: NewBase(KindQueueCompleted), Segments: segments}
}

// PlayerStateChanged reports the state of the single replayable player.
type PlayerStateChanged struct {
	Base
	// State is one of "stopped", "playing" or "paused".
	State string
	URL   string
}

// NewPlayerStateChanged creates a player state changed event.
func NewPlayerStateChanged(state, url string) PlayerStateChanged {
	return PlayerStateChanged{Base: NewBase(KindPlayerStateChanged), State: state, URL: url}
}
