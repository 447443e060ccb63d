package events

import (
	"errors"
	"testing"

	"github.com/koscakluka/memorylane/core/memories"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	segment := memories.AudioSegment{Kind: memories.SegmentNarration, URL: "main.mp3"}
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "page changed", event: NewPageChanged("entry", "processing", "visit"), expected: KindPageChanged},
		{name: "step started", event: NewStepStarted("search", 0, memories.AgentStep{}), expected: KindStepStarted},
		{name: "step completed", event: NewStepCompleted("search", 0, memories.AgentStep{}), expected: KindStepCompleted},
		{name: "search completed", event: NewSearchCompleted("dog", nil, false, ""), expected: KindSearchCompleted},
		{name: "narration completed", event: NewNarrationCompleted(memories.Photo{}, memories.Narration{}, nil, "none"), expected: KindNarrationCompleted},
		{name: "narration failed", event: NewNarrationFailed(memories.Photo{}, "no faces detected"), expected: KindNarrationFailed},
		{name: "capture started", event: NewCaptureStarted("session"), expected: KindCaptureStarted},
		{name: "transcript updated", event: NewTranscriptUpdated("session", "hel"), expected: KindTranscriptUpdated},
		{name: "transcript finalized", event: NewTranscriptFinalized("session", "hello"), expected: KindTranscriptFinalized},
		{name: "capture error", event: NewCaptureError("session", errors.New("no-speech")), expected: KindCaptureError},
		{name: "capture ended", event: NewCaptureEnded("session", CaptureEndStopped), expected: KindCaptureEnded},
		{name: "utterance started", event: NewUtteranceStarted("u", "hi"), expected: KindUtteranceStarted},
		{name: "utterance cancelled", event: NewUtteranceCancelled("u"), expected: KindUtteranceCancelled},
		{name: "utterance ended", event: NewUtteranceEnded("u"), expected: KindUtteranceEnded},
		{name: "segment started", event: NewSegmentStarted(0, segment), expected: KindSegmentStarted},
		{name: "segment completed", event: NewSegmentCompleted(0, segment), expected: KindSegmentCompleted},
		{name: "segment failed", event: NewSegmentFailed(0, segment, errors.New("decode")), expected: KindSegmentFailed},
		{name: "queue completed", event: NewQueueCompleted(1), expected: KindQueueCompleted},
		{name: "player state changed", event: NewPlayerStateChanged("playing", "main.mp3"), expected: KindPlayerStateChanged},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected event timestamp to be set")
			}
		})
	}
}

func TestStepStartedAndCompletedKindsAreDistinct(t *testing.T) {
	started := NewStepStarted("narration", 1, memories.AgentStep{})
	completed := NewStepCompleted("narration", 1, memories.AgentStep{})

	if started.Kind() == completed.Kind() {
		t.Fatalf("expected step started and step completed kinds to differ, both were %q", started.Kind())
	}
}
