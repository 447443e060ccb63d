package main

import (
	"fmt"

	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/agents"
	"github.com/koscakluka/memorylane/core/audio/miniaudio"
	"github.com/koscakluka/memorylane/core/audio/portaudio"
	stt "github.com/koscakluka/memorylane/core/speechtotext/deepgram"
	tts "github.com/koscakluka/memorylane/core/texttospeech/deepgram"
	"github.com/koscakluka/memorylane/internal/config"
)

const portaudioBufferSize = 1024

func newAgentsClient(cfg *config.Config) (*agents.Client, error) {
	var opts []agents.ClientOption
	if cfg.Backend.Timeout > 0 {
		opts = append(opts, agents.WithTimeout(cfg.Backend.Timeout))
	}
	return agents.NewClient(cfg.Backend.BaseURL, opts...)
}

// orchestratorOptions wires speech and audio devices according to cfg. The
// returned cleanup releases the devices and is never nil.
func orchestratorOptions(cfg *config.Config) ([]orchestration.OrchestratorOption, func(), error) {
	opts := []orchestration.OrchestratorOption{
		orchestration.WithSearchPacing(orchestration.Pacing(cfg.Pacing.Search)),
		orchestration.WithNarrationPacing(orchestration.Pacing(cfg.Pacing.Narration)),
		orchestration.WithClipCacheTTL(cfg.Audio.CacheTTL),
		orchestration.WithPrefetchConcurrency(cfg.Audio.PrefetchConcurrency),
		orchestration.WithSpokenAnnouncements(cfg.Speech.Announce),
	}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Audio.Backend == config.AudioBackendNone {
		return opts, cleanup, nil
	}

	device, err := miniaudio.NewClient()
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to open audio device: %w", err)
	}
	closers = append(closers, device.Close)
	opts = append(opts,
		orchestration.WithAudioOutput(device),
		orchestration.WithClipPlayer(device),
	)

	switch cfg.Audio.Backend {
	case config.AudioBackendPortaudio:
		mic, err := portaudio.NewClient(portaudioBufferSize)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to open microphone: %w", err)
		}
		closers = append(closers, mic.Close)
		opts = append(opts, orchestration.WithAudioInput(mic))
	default:
		opts = append(opts, orchestration.WithAudioInput(device))
	}

	if !cfg.Speech.Enabled {
		return opts, cleanup, nil
	}

	voice, ok := tts.ParseVoice(cfg.Speech.Voice)
	if !ok {
		cleanup()
		return nil, func() {}, fmt.Errorf("unknown voice %q", cfg.Speech.Voice)
	}
	speaker, err := tts.NewTextToSpeechClient(voice, tts.WithAPIKey(cfg.Speech.APIKey))
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	transcriber := stt.NewTranscriptionClient(stt.WithAPIKey(cfg.Speech.APIKey))
	closers = append(closers, transcriber.Close)

	opts = append(opts,
		orchestration.WithTextToSpeechClient(speaker),
		orchestration.WithSpeechToTextClient(transcriber),
	)
	if cfg.Speech.Announce {
		opts = append(opts, orchestration.WithWelcomeMessage(orchestration.DefaultWelcomeMessage))
	}
	return opts, cleanup, nil
}
