package orchestration

import "github.com/koscakluka/memorylane/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(cb callbacks) eventEmitter {
	return func(event events.Event) {
		if cb.onEvent != nil {
			cb.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.PageChanged:
			if cb.onPageChanged != nil {
				cb.onPageChanged(Page(typedEvent.From), Page(typedEvent.To))
			}
		case events.StepStarted:
			if cb.onStep != nil {
				cb.onStep(typedEvent.Workflow, typedEvent.Index, typedEvent.Step)
			}
		case events.StepCompleted:
			if cb.onStep != nil {
				cb.onStep(typedEvent.Workflow, typedEvent.Index, typedEvent.Step)
			}
		case events.CaptureStarted:
			if cb.onCaptureStateChanged != nil {
				cb.onCaptureStateChanged(true)
			}
		case events.CaptureEnded:
			if cb.onCaptureStateChanged != nil {
				cb.onCaptureStateChanged(false)
			}
		case events.TranscriptUpdated:
			if cb.onTranscript != nil {
				cb.onTranscript(typedEvent.Transcript)
			}
		case events.TranscriptFinalized:
			if cb.onTranscript != nil {
				cb.onTranscript(typedEvent.Transcript)
			}
		case events.UtteranceStarted:
			if cb.onSpeakingStateChanged != nil {
				cb.onSpeakingStateChanged(true)
			}
		case events.UtteranceEnded, events.UtteranceCancelled:
			if cb.onSpeakingStateChanged != nil {
				cb.onSpeakingStateChanged(false)
			}
		case events.PlayerStateChanged:
			if cb.onPlayerStateChanged != nil {
				cb.onPlayerStateChanged(PlayerState(typedEvent.State))
			}
		}
	}
}
