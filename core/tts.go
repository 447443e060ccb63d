package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/texttospeech"
)

// speechOutput owns the single speech channel. A new utterance always
// cancels the one in progress first, so speech never overlaps.
type speechOutput struct {
	client TextToSpeech
	output *audioOutput

	mu      sync.Mutex
	current *utterance

	emitEvent eventEmitter
}

type utterance struct {
	id        string
	generator texttospeech.SpeechGenerator
}

func newSpeechOutput(client TextToSpeech, output *audioOutput) *speechOutput {
	speechOutput := &speechOutput{output: output, emitEvent: noopEventEmitter}
	speechOutput.set(client)
	return speechOutput
}

func (s *speechOutput) set(client TextToSpeech) {
	if s == nil {
		return
	}
	s.client = nil
	if !isNilClient(client) {
		s.client = client
	}
}

func (s *speechOutput) SetEventEmitter(emitEvent eventEmitter) {
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	s.emitEvent = emitEvent
}

func (s *speechOutput) isConfigured() bool { return s != nil && s.client != nil }

// Speak cancels any utterance in progress and starts speaking text. It
// returns once the text has been handed to the generator, not once it has
// been spoken.
func (s *speechOutput) Speak(ctx context.Context, text string) error {
	if !s.isConfigured() {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	ctx, span := tracer.Start(ctx, "speak")
	defer span.End()

	id := uuid.NewString()

	// The utterance is claimed before dialing so Cancel and a newer Speak
	// do not wait on the connection.
	s.mu.Lock()
	s.cancelLocked()
	s.current = &utterance{id: id}
	s.mu.Unlock()

	generator, err := s.client.NewSpeechGenerator(ctx,
		texttospeech.WithEncodingInfo(s.output.EncodingInfo()),
		texttospeech.WithSpeechAudioCallback(func(audio []byte) {
			if s.isCurrent(id) {
				s.output.SendAudio(audio)
			}
		}),
		texttospeech.WithSpeechEndedCallback(func() { s.finish(id) }),
		texttospeech.WithErrorCallback(func(err error) {
			logger.Warn("speech generation failed", "utterance_id", id, "error", err)
			s.finish(id)
		}),
	)

	s.mu.Lock()
	if s.current == nil || s.current.id != id {
		s.mu.Unlock()
		if err == nil {
			if err := generator.Cancel(); err != nil {
				logger.Debug("failed to cancel superseded speech generator", "utterance_id", id, "error", err)
			}
		}
		return nil
	}
	if err != nil {
		s.current = nil
		s.mu.Unlock()
		return fmt.Errorf("failed to create speech generator: %w", err)
	}

	s.current.generator = generator
	s.emitEvent(events.NewUtteranceStarted(id, text))
	s.mu.Unlock()

	// Generators may report the end synchronously, so text is sent without
	// holding the lock.
	if err := errors.Join(generator.SendText(text), generator.EndOfText()); err != nil {
		s.mu.Lock()
		if s.current != nil && s.current.id == id {
			s.cancelLocked()
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to send text to speech generator: %w", err)
	}
	return nil
}

// Cancel stops the utterance in progress, if any, and drops its buffered
// audio.
func (s *speechOutput) Cancel() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *speechOutput) IsSpeaking() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *speechOutput) cancelLocked() {
	current := s.current
	s.current = nil
	if current == nil || current.generator == nil {
		return
	}

	if err := current.generator.Cancel(); err != nil {
		logger.Debug("failed to cancel speech generator", "utterance_id", current.id, "error", err)
	}
	s.output.Clear()
	s.emitEvent(events.NewUtteranceCancelled(current.id))
}

func (s *speechOutput) isCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.id == id
}

func (s *speechOutput) finish(id string) {
	s.mu.Lock()
	if s.current == nil || s.current.id != id {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.mu.Unlock()

	s.emitEvent(events.NewUtteranceEnded(id))
}

func (s *speechOutput) Close() {
	s.Cancel()
}
