package events

const (
	// KindCaptureStarted identifies the start of a speech capture session.
	KindCaptureStarted Kind = "user_input.capture_started"
	// KindTranscriptUpdated identifies interim transcript snapshots.
	KindTranscriptUpdated Kind = "user_input.transcript_updated"
	// KindTranscriptFinalized identifies the final transcript of a session.
	KindTranscriptFinalized Kind = "user_input.transcript_finalized"
	// KindCaptureError identifies a recognition failure.
	KindCaptureError Kind = "user_input.capture_error"
	// KindCaptureEnded identifies the end of a speech capture session.
	KindCaptureEnded Kind = "user_input.capture_ended"
)

// CaptureEndReason explains why a capture session ended.
type CaptureEndReason string

const (
	CaptureEndFinalized CaptureEndReason = "finalized"
	CaptureEndStopped   CaptureEndReason = "stopped"
	CaptureEndEngine    CaptureEndReason = "engine_ended"
	CaptureEndError     CaptureEndReason = "error"
)

// CaptureStarted marks the start of a capture session.
type CaptureStarted struct {
	Base
	SessionID string
}

// NewCaptureStarted creates a capture started event.
func NewCaptureStarted(sessionID string) CaptureStarted {
	return CaptureStarted{Base: NewBase(KindCaptureStarted), SessionID: sessionID}
}

// TranscriptUpdated carries the current interim transcript. It replaces,
// never extends, the previously displayed transcript.
type TranscriptUpdated struct {
	Base
	SessionID  string
	Transcript string
}

// NewTranscriptUpdated creates a transcript updated event.
func NewTranscriptUpdated(sessionID, transcript string) TranscriptUpdated {
	return TranscriptUpdated{Base: NewBase(KindTranscriptUpdated), SessionID: sessionID, Transcript: transcript}
}

// TranscriptFinalized carries the transcript submitted as a query.
type TranscriptFinalized struct {
	Base
	SessionID  string
	Transcript string
}

// NewTranscriptFinalized creates a transcript finalized event.
func NewTranscriptFinalized(sessionID, transcript string) TranscriptFinalized {
	return TranscriptFinalized{Base: NewBase(KindTranscriptFinalized), SessionID: sessionID, Transcript: transcript}
}

// CaptureError carries the recognition engine failure.
type CaptureError struct {
	Base
	SessionID string
	Err       error
}

// NewCaptureError creates a capture error event.
func NewCaptureError(sessionID string, err error) CaptureError {
	return CaptureError{Base: NewBase(KindCaptureError), SessionID: sessionID, Err: err}
}

// CaptureEnded marks the end of a capture session.
type CaptureEnded struct {
	Base
	SessionID string
	Reason    CaptureEndReason
}

// NewCaptureEnded creates a capture ended event.
func NewCaptureEnded(sessionID string, reason CaptureEndReason) CaptureEnded {
	return CaptureEnded{Base: NewBase(KindCaptureEnded), SessionID: sessionID, Reason: reason}
}
