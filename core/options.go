package orchestration

import (
	"context"
	"time"

	"github.com/koscakluka/memorylane/core/audio"
	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/koscakluka/memorylane/core/speechtotext"
	"github.com/koscakluka/memorylane/core/texttospeech"
)

type OrchestratorOption func(*Orchestrator)

// Backend is the set of remote agents the workflows call.
type Backend interface {
	SearchBackend
	NarrationBackend
}

type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	StopStream() error
}

func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) { o.speechCapture.set(client) }
}

type TextToSpeech interface {
	NewSpeechGenerator(ctx context.Context, opts ...texttospeech.TextToSpeechOption) (texttospeech.SpeechGenerator, error)
}

func WithTextToSpeechClient(client TextToSpeech) OrchestratorOption {
	return func(o *Orchestrator) { o.speechOutput.set(client) }
}

type AudioInput interface {
	EncodingInfo() audio.EncodingInfo
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioInput.Set(client) }
}

// AudioOutput is the streaming output synthesized speech is written to.
type AudioOutput interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	ClearBuffer()
}

func WithAudioOutput(client AudioOutput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioOutput.Set(client) }
}

// WithAudioFetcher sets where narration segment audio is downloaded from.
func WithAudioFetcher(fetcher AudioFetcher) OrchestratorOption {
	return func(o *Orchestrator) { o.settings.fetcher = fetcher }
}

// WithClipPlayer sets the output narration segments are played on.
func WithClipPlayer(player ClipPlayer) OrchestratorOption {
	return func(o *Orchestrator) { o.settings.player = player }
}

// WithPacer replaces the wall-clock dwell intervals, mostly with [NoopPacer]
// in tests.
func WithPacer(pacer Pacer) OrchestratorOption {
	return func(o *Orchestrator) {
		if pacer != nil {
			o.pacer = pacer
		}
	}
}

func WithSearchPacing(pacing Pacing) OrchestratorOption {
	return func(o *Orchestrator) { o.searchPacing = pacing }
}

func WithNarrationPacing(pacing Pacing) OrchestratorOption {
	return func(o *Orchestrator) { o.narrationPacing = pacing }
}

// WithClipCacheTTL sets how long decoded segment audio is kept for replay.
func WithClipCacheTTL(ttl time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.settings.clipCacheTTL = ttl }
}

// WithPrefetchConcurrency bounds how many segments are fetched at once.
func WithPrefetchConcurrency(n int) OrchestratorOption {
	return func(o *Orchestrator) { o.settings.prefetchConcurrency = n }
}

// WithWelcomeMessage sets what is spoken when orchestration starts. An empty
// message disables the welcome.
func WithWelcomeMessage(message string) OrchestratorOption {
	return func(o *Orchestrator) { o.settings.welcomeMessage = message }
}

// WithCaptureApology sets what is spoken after speech capture fails. An empty
// message keeps the failure silent.
func WithCaptureApology(message string) OrchestratorOption {
	return func(o *Orchestrator) { o.settings.captureApology = message }
}

// WithSpokenAnnouncements toggles the spoken prompts that follow user
// actions: search results, opened photos and empty queries.
func WithSpokenAnnouncements(enabled bool) OrchestratorOption {
	return func(o *Orchestrator) { o.settings.announce = enabled }
}

// WithEventCallback registers a callback that receives every event.
//
// Callbacks run synchronously on the goroutine that produced the event and
// must not call back into the orchestrator.
func WithEventCallback(callback func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onEvent = callback }
}

// WithTranscriptCallback registers a callback for interim and final speech
// transcripts. Each call replaces the previous transcript.
func WithTranscriptCallback(callback func(transcript string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onTranscript = callback }
}

func WithCaptureStateCallback(callback func(isCapturing bool)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onCaptureStateChanged = callback }
}

func WithPageChangedCallback(callback func(from, to Page)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onPageChanged = callback }
}

// WithStepCallback registers a callback for step records as they start and
// complete.
func WithStepCallback(callback func(workflow string, index int, step memories.AgentStep)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onStep = callback }
}

func WithSpeakingStateCallback(callback func(isSpeaking bool)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onSpeakingStateChanged = callback }
}

func WithPlayerStateCallback(callback func(state PlayerState)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onPlayerStateChanged = callback }
}

type callbacks struct {
	onEvent                func(events.Event)
	onTranscript           func(transcript string)
	onCaptureStateChanged  func(isCapturing bool)
	onPageChanged          func(from, to Page)
	onStep                 func(workflow string, index int, step memories.AgentStep)
	onSpeakingStateChanged func(isSpeaking bool)
	onPlayerStateChanged   func(state PlayerState)
}

type settings struct {
	fetcher             AudioFetcher
	player              ClipPlayer
	clipCacheTTL        time.Duration
	prefetchConcurrency int

	welcomeMessage string
	captureApology string
	announce       bool
}
