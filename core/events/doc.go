// Package events defines the typed event contract emitted by the memory
// search orchestrator.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - page.*
//   - workflow.*
//   - user_input.*
//   - speech_output.*
//   - playback.*
//
// Semantics used across the package:
//
//   - Updated: mutable point-in-time snapshot that replaces the previous one.
//   - Finalized: terminal immutable value for the current capture session.
//   - Started/Completed/Failed: lifecycle boundaries of one unit of work.
//   - Ended: lifecycle boundary that carries the reason it ended.
//
// page events
//
//   - PageChanged (page.changed): the visible screen changed.
//
// workflow events
//
//   - StepStarted (workflow.step_started): a step record was appended as
//     pending.
//   - StepCompleted (workflow.step_completed): a step record was marked
//     complete with its result.
//   - SearchCompleted (workflow.search_completed): search results (or the
//     lack of them) are ready to render.
//   - NarrationCompleted (workflow.narration_completed): narration text and
//     playback mode are ready to render.
//   - NarrationFailed (workflow.narration_failed): narration could not be
//     generated; carries the message to show in its place.
//
// user_input events
//
//   - CaptureStarted (user_input.capture_started): speech capture began.
//   - TranscriptUpdated (user_input.transcript_updated): interim transcript
//     that replaces the displayed one.
//   - TranscriptFinalized (user_input.transcript_finalized): the final
//     transcript that is submitted as a query.
//   - CaptureError (user_input.capture_error): recognition failed.
//   - CaptureEnded (user_input.capture_ended): capture is no longer active.
//
// speech_output events
//
//   - UtteranceStarted (speech_output.utterance_started)
//   - UtteranceCancelled (speech_output.utterance_cancelled): a newer
//     utterance replaced this one.
//   - UtteranceEnded (speech_output.utterance_ended)
//
// playback events
//
//   - SegmentStarted (playback.segment_started)
//   - SegmentCompleted (playback.segment_completed)
//   - SegmentFailed (playback.segment_failed): aborts the remaining queue.
//   - QueueCompleted (playback.queue_completed)
//   - PlayerStateChanged (playback.player_state_changed): the single
//     replayable player moved between stopped, playing and paused.
package events
