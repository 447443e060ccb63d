package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/speechtotext"
)

// speechCapture turns a streaming recognizer into capture sessions: interim
// transcripts replace each other, and the first final transcript is
// submitted exactly once and ends the session.
type speechCapture struct {
	client SpeechToText
	input  *audioInput

	mu      sync.Mutex
	session *captureSession

	// onSubmit receives the finalized transcript of a session.
	onSubmit func(transcript string)
	// onFailure is called after a session ended because recognition failed.
	onFailure func(err *CaptureError)

	emitEvent eventEmitter
}

type captureSession struct {
	id         string
	transcript string
	submitted  bool
}

func newSpeechCapture(client SpeechToText, input *audioInput) *speechCapture {
	capture := &speechCapture{
		input:     input,
		onSubmit:  func(string) {},
		onFailure: func(*CaptureError) {},
		emitEvent: noopEventEmitter,
	}
	capture.set(client)
	return capture
}

func (s *speechCapture) set(client SpeechToText) {
	if s == nil {
		return
	}
	s.client = nil
	if !isNilClient(client) {
		s.client = client
	}
}

func (s *speechCapture) SetEventEmitter(emitEvent eventEmitter) {
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	s.emitEvent = emitEvent
}

func (s *speechCapture) isConfigured() bool { return s != nil && s.client != nil }

// Start opens a capture session. Starting while a session is active does
// nothing.
func (s *speechCapture) Start(ctx context.Context) error {
	if !s.isConfigured() {
		return ErrCaptureUnavailable
	}

	s.mu.Lock()
	if s.session != nil {
		s.mu.Unlock()
		return nil
	}
	id := uuid.NewString()
	s.session = &captureSession{id: id}
	s.mu.Unlock()

	s.emitEvent(events.NewCaptureStarted(id))

	if err := s.client.Transcribe(ctx,
		speechtotext.WithInterimTranscriptionCallback(func(transcript string) { s.onInterim(id, transcript) }),
		speechtotext.WithTranscriptionCallback(func(transcript string) { s.onFinal(id, transcript) }),
		speechtotext.WithErrorCallback(func(err error) { s.onError(id, err) }),
		speechtotext.WithEndedCallback(func() { s.end(id, events.CaptureEndEngine) }),
		speechtotext.WithEncodingInfo(s.input.EncodingInfo()),
	); err != nil {
		s.end(id, events.CaptureEndError)
		return fmt.Errorf("failed to start transcribing: %w", err)
	}

	if err := s.input.Capture(ctx, func(audio []byte) {
		if s.isActive(id) {
			if err := s.client.SendAudio(audio); err != nil {
				logger.Debug("failed to send captured audio", "error", err)
			}
		}
	}); err != nil {
		s.end(id, events.CaptureEndError)
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	return nil
}

// Stop ends the active session without submitting anything.
func (s *speechCapture) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session != nil {
		s.end(session.id, events.CaptureEndStopped)
	}
}

// Toggle starts a session when idle and stops the active one otherwise. It
// reports whether a session is active afterwards.
func (s *speechCapture) Toggle(ctx context.Context) (bool, error) {
	if s.IsActive() {
		s.Stop()
		return false, nil
	}

	if err := s.Start(ctx); err != nil {
		return false, err
	}
	return s.IsActive(), nil
}

func (s *speechCapture) IsActive() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Transcript is the latest transcript of the active session.
func (s *speechCapture) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.transcript
}

func (s *speechCapture) isActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && s.session.id == id && !s.session.submitted
}

func (s *speechCapture) onInterim(id, transcript string) {
	s.mu.Lock()
	if s.session == nil || s.session.id != id || s.session.submitted {
		s.mu.Unlock()
		return
	}
	s.session.transcript = transcript
	s.mu.Unlock()

	s.emitEvent(events.NewTranscriptUpdated(id, transcript))
}

func (s *speechCapture) onFinal(id, transcript string) {
	transcript = strings.TrimSpace(transcript)

	s.mu.Lock()
	if s.session == nil || s.session.id != id || s.session.submitted || transcript == "" {
		s.mu.Unlock()
		return
	}
	s.session.submitted = true
	s.session.transcript = transcript
	s.mu.Unlock()

	s.emitEvent(events.NewTranscriptFinalized(id, transcript))
	s.end(id, events.CaptureEndFinalized)
	s.onSubmit(transcript)
}

func (s *speechCapture) onError(id string, err error) {
	if !s.isActive(id) {
		return
	}

	s.emitEvent(events.NewCaptureError(id, err))
	s.end(id, events.CaptureEndError)
	s.onFailure(&CaptureError{SessionID: id, Err: err})
}

// end closes session id. Only the first call for a session has an effect.
func (s *speechCapture) end(id string, reason events.CaptureEndReason) {
	s.mu.Lock()
	if s.session == nil || s.session.id != id {
		s.mu.Unlock()
		return
	}
	s.session = nil
	s.mu.Unlock()

	if err := s.input.StopCapture(); err != nil {
		logger.Warn("failed to stop audio capture", "error", err)
	}
	if reason != events.CaptureEndEngine {
		if err := s.client.StopStream(); err != nil {
			logger.Debug("failed to stop transcription stream", "error", err)
		}
	}

	s.emitEvent(events.NewCaptureEnded(id, reason))
}
