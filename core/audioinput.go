package orchestration

import (
	"context"
	"sync/atomic"

	"github.com/koscakluka/memorylane/core/audio"
)

// audioInput is the microphone feeding speech capture.
type audioInput struct {
	client AudioInput

	// isCapturing reports whether the input client is currently capturing audio.
	isCapturing atomic.Bool
}

func newAudioInput(client AudioInput) *audioInput {
	audioInput := audioInput{}
	audioInput.Set(client)
	return &audioInput
}

func (a *audioInput) Set(client AudioInput) {
	if a == nil {
		return
	}

	a.client = nil
	a.isCapturing.Store(false)
	if isNilClient(client) {
		return
	}
	a.client = client
}

func (a *audioInput) IsConfigured() bool { return a != nil && a.client != nil }
func (a *audioInput) IsCapturing() bool  { return a != nil && a.isCapturing.Load() }

func (a *audioInput) Capture(ctx context.Context, onAudio func(audio []byte)) error {
	if !a.IsConfigured() {
		return nil
	}
	if !a.isCapturing.CompareAndSwap(false, true) {
		return nil
	}

	if err := a.client.StartCapture(ctx, onAudio); err != nil {
		a.isCapturing.Store(false)
		return err
	}
	return nil
}

func (a *audioInput) StopCapture() error {
	if !a.IsConfigured() {
		return nil
	}
	if !a.isCapturing.CompareAndSwap(true, false) {
		return nil
	}
	return a.client.StopCapture()
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if !a.IsConfigured() {
		return audio.GetDefaultEncodingInfo()
	}
	return a.client.EncodingInfo()
}
