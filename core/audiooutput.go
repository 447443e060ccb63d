package orchestration

import (
	"reflect"

	"github.com/koscakluka/memorylane/core/audio"
)

// audioOutput is the streaming output that synthesized speech is written to.
// Without a configured client every call is a no-op.
type audioOutput struct {
	client AudioOutput
}

func newAudioOutput(client AudioOutput) *audioOutput {
	audioOutput := audioOutput{}
	audioOutput.Set(client)
	return &audioOutput
}

// Set replaces the configured output client. Nil and typed-nil clients are
// treated as unconfigured.
func (a *audioOutput) Set(client AudioOutput) {
	if a == nil {
		return
	}

	a.client = nil
	if isNilClient(client) {
		return
	}
	a.client = client
}

func (a *audioOutput) isConfigured() bool { return a != nil && a.client != nil }

// SendAudio forwards a chunk to the configured output client. Failures are
// logged and the chunk is dropped; speech output is never fatal.
func (a *audioOutput) SendAudio(audio []byte) {
	if !a.isConfigured() {
		return
	}
	if err := a.client.SendAudio(audio); err != nil {
		logger.Debug("failed to send speech audio", "error", err)
	}
}

// Clear flushes buffered output on the configured client.
func (a *audioOutput) Clear() {
	if a.isConfigured() {
		a.client.ClearBuffer()
	}
}

// EncodingInfo returns the output encoding, or the project default when no
// client is configured.
func (a *audioOutput) EncodingInfo() audio.EncodingInfo {
	if a.isConfigured() {
		return a.client.EncodingInfo()
	}
	return audio.GetDefaultEncodingInfo()
}

// isNilClient detects nil and typed-nil interface values so facades do not
// store unusable interface wrappers as configured clients.
func isNilClient(client any) bool {
	if client == nil {
		return true
	}

	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
