package events

const (
	// KindUtteranceStarted identifies the start of a spoken utterance.
	KindUtteranceStarted Kind = "speech_output.utterance_started"
	// KindUtteranceCancelled identifies an utterance cut off by a newer one.
	KindUtteranceCancelled Kind = "speech_output.utterance_cancelled"
	// KindUtteranceEnded identifies an utterance that finished generating.
	KindUtteranceEnded Kind = "speech_output.utterance_ended"
)

// UtteranceStarted marks the start of an utterance.
type UtteranceStarted struct {
	Base
	UtteranceID string
	Text        string
}

// NewUtteranceStarted creates an utterance started event.
func NewUtteranceStarted(utteranceID, text string) UtteranceStarted {
	return UtteranceStarted{Base: NewBase(KindUtteranceStarted), UtteranceID: utteranceID, Text: text}
}

// UtteranceCancelled marks an utterance that was cancelled.
type UtteranceCancelled struct {
	Base
	UtteranceID string
}

// NewUtteranceCancelled creates an utterance cancelled event.
func NewUtteranceCancelled(utteranceID string) UtteranceCancelled {
	return UtteranceCancelled{Base: NewBase(KindUtteranceCancelled), UtteranceID: utteranceID}
}

// UtteranceEnded marks an utterance whose speech has been fully generated.
type UtteranceEnded struct {
	Base
	UtteranceID string
}

// NewUtteranceEnded creates an utterance ended event.
func NewUtteranceEnded(utteranceID string) UtteranceEnded {
	return UtteranceEnded{Base: NewBase(KindUtteranceEnded), UtteranceID: utteranceID}
}
