package speechtotext

import "github.com/koscakluka/memorylane/core/audio"

type TranscriptionOptions struct {
	// InterimTranscriptionCallback receives the whole non-final transcript of
	// the current utterance. Every call replaces the previous one.
	InterimTranscriptionCallback func(transcript string)
	// TranscriptionCallback receives the final transcript of an utterance.
	TranscriptionCallback func(transcript string)

	SpeechStartedCallback func()

	// ErrorCallback is called when recognition fails. No further callbacks
	// follow an error.
	ErrorCallback func(err error)
	// EndedCallback is called once when the recognition stream ends on its
	// own or after StopStream.
	EndedCallback func()

	EncodingInfo audio.EncodingInfo
	Language     string
}

type TranscriptionOption func(*TranscriptionOptions)

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

func WithEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EndedCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}

// WithLanguage sets a BCP-47 language tag. Clients fall back to their own
// default when it is empty.
func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = language
	}
}
