package orchestration

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/memories"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultWelcomeMessage = "Welcome to AI Agent Search. Click the microphone or type to begin."
	DefaultCaptureApology = "Sorry, could not understand. Please try again."
	EmptyQueryPrompt      = "Please enter a search query."
)

// Orchestrator owns the page state machine and drives the search and
// narration workflows, speech capture and output, and narration playback for
// a single user.
type Orchestrator struct {
	session   *session
	search    *searchWorkflow
	narration *narrationWorkflow

	pacer           Pacer
	searchPacing    Pacing
	narrationPacing Pacing

	audioInput    *audioInput
	audioOutput   *audioOutput
	speechCapture *speechCapture
	speechOutput  *speechOutput

	clips  *clipSource
	queue  *playbackQueue
	toggle *togglePlayer

	settings  settings
	callbacks callbacks
	emitEvent eventEmitter

	mu          sync.Mutex
	baseContext context.Context
	started     atomic.Bool
	closed      atomic.Bool
	closeOnce   sync.Once
}

func NewOrchestrator(backend Backend, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		session:         newSession(),
		search:          &searchWorkflow{backend: backend},
		narration:       &narrationWorkflow{backend: backend},
		pacer:           TimerPacer{},
		searchPacing:    DefaultSearchPacing,
		narrationPacing: DefaultNarrationPacing,
		audioInput:      newAudioInput(nil),
		audioOutput:     newAudioOutput(nil),
		baseContext:     context.Background(),
		settings: settings{
			captureApology: DefaultCaptureApology,
			announce:       true,
		},
	}
	o.speechCapture = newSpeechCapture(nil, o.audioInput)
	o.speechOutput = newSpeechOutput(nil, o.audioOutput)

	if fetcher, ok := backend.(AudioFetcher); ok && !isNilClient(fetcher) {
		o.settings.fetcher = fetcher
	}

	for _, opt := range opts {
		opt(o)
	}

	o.clips = newClipSource(o.settings.fetcher, o.settings.clipCacheTTL, o.settings.prefetchConcurrency)
	o.queue = newPlaybackQueue(o.clips, o.settings.player)
	o.toggle = newTogglePlayer(o.clips, o.settings.player)

	o.emitEvent = newCallbackEventEmitter(o.callbacks)
	o.session.SetEventEmitter(o.emitEvent)
	o.queue.SetEventEmitter(o.emitEvent)
	o.toggle.SetEventEmitter(o.emitEvent)
	o.speechOutput.SetEventEmitter(o.emitEvent)
	o.speechCapture.SetEventEmitter(o.emitEvent)

	o.speechCapture.onSubmit = o.submitTranscript
	o.speechCapture.onFailure = o.apologize

	return o
}

// Orchestrate binds the orchestrator to ctx and speaks the welcome message.
// Speech and background work started later use ctx as their base context,
// and the orchestrator closes itself once ctx is done.
//
// Orchestrate is meant to be called once; later calls are ignored.
func (o *Orchestrator) Orchestrate(ctx context.Context) {
	if o.closed.Load() {
		logger.Warn("orchestrator already closed, skipping Orchestrate")
		return
	}
	if !o.started.CompareAndSwap(false, true) {
		return
	}

	o.mu.Lock()
	o.baseContext = ctx
	o.mu.Unlock()

	go func() {
		<-ctx.Done()
		o.Close()
	}()

	if o.settings.welcomeMessage != "" {
		o.speak(ctx, o.settings.welcomeMessage)
	}
}

func (o *Orchestrator) context() context.Context {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.baseContext
}

// SubmitQuery moves from the entry page to processing and runs the search
// workflow for query.
//
// An empty query is rejected with [ErrEmptyQuery] and leaves the page as it
// is. Submitting from any page other than entry is an
// [ErrIllegalTransition]. Failed and empty searches are not errors; they are
// reported through the outcome's Status and Message.
func (o *Orchestrator) SubmitQuery(ctx context.Context, query string) (SearchOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		if o.settings.announce {
			o.speak(ctx, EmptyQueryPrompt)
		}
		return SearchOutcome{}, ErrEmptyQuery
	}

	visit, err := o.session.beginSearch(query)
	if err != nil {
		return SearchOutcome{}, err
	}

	seq := NewSequencer(workflowSearch, visit, o.pacer, o.searchPacing)
	outcome, err := o.search.Search(ctx, seq, query)
	if err == nil {
		err = o.session.applySearch(visit.id, outcome)
	}
	if err != nil {
		o.logAbortedRun(ctx, workflowSearch, err)
		return outcome, err
	}

	o.emitEvent(events.NewSearchCompleted(outcome.Query, outcome.Photos, outcome.Status == SearchFailed, outcome.Message))
	if outcome.Status == SearchFound && o.settings.announce {
		o.speak(ctx, ResultAnnouncement(outcome.Photos))
	}
	return outcome, nil
}

// SelectPhoto opens one of the current search results on the memory page
// and runs the narration workflow for it.
func (o *Orchestrator) SelectPhoto(ctx context.Context, photoID string) (NarrationOutcome, error) {
	visit, photo, err := o.session.selectPhoto(photoID)
	if err != nil {
		return NarrationOutcome{}, err
	}

	o.StopPlayback()
	if o.settings.announce {
		o.speak(ctx, strings.TrimSuffix(photo.Title+". "+photo.Description, " "))
	}

	return o.narrate(ctx, visit, photo)
}

// Narrate runs the narration workflow again for the photo on the memory
// page. A run still in flight is superseded.
func (o *Orchestrator) Narrate(ctx context.Context) (NarrationOutcome, error) {
	visit, photo, err := o.session.restartNarration()
	if err != nil {
		return NarrationOutcome{}, err
	}

	o.StopPlayback()
	return o.narrate(ctx, visit, photo)
}

func (o *Orchestrator) narrate(ctx context.Context, visit *pageVisit, photo memories.Photo) (NarrationOutcome, error) {
	o.toggle.SetSource("")

	seq := NewSequencer(workflowNarration, visit, o.pacer, o.narrationPacing)
	outcome, err := o.narration.Narrate(ctx, seq, photo)
	if err == nil {
		err = o.session.applyNarration(visit.id, outcome)
	}
	if err != nil {
		o.logAbortedRun(ctx, workflowNarration, err)
		return outcome, err
	}

	if outcome.Failed() {
		o.emitEvent(events.NewNarrationFailed(outcome.Photo, outcome.Message))
		return outcome, nil
	}

	if outcome.Mode == PlaybackToggle {
		if err := o.attachNarrationAudio(visit.id, outcome.Narration.AudioURL); err != nil {
			o.logAbortedRun(ctx, workflowNarration, err)
			return outcome, err
		}
	}
	o.emitEvent(events.NewNarrationCompleted(outcome.Photo, *outcome.Narration, outcome.Segments, string(outcome.Mode)))
	return outcome, nil
}

// attachNarrationAudio makes url the toggle player's source for visitID. The
// source is withdrawn again if the visit was left in the meantime.
func (o *Orchestrator) attachNarrationAudio(visitID, url string) error {
	o.toggle.SetSource(url)
	if err := o.session.checkVisit(visitID); err != nil {
		o.toggle.ClearSource(url)
		return err
	}
	return nil
}

// Back leaves the current page, clearing what it showed, and returns the
// page that is now active. Workflows still running for the page that was
// left finish in the background and their results are discarded.
func (o *Orchestrator) Back(ctx context.Context) (Page, error) {
	from := o.session.Page()
	to, err := o.session.back()
	if err != nil {
		return to, err
	}

	o.StopPlayback()
	o.speechOutput.Cancel()
	if from == PageMemory {
		o.toggle.SetSource("")
		o.clips.Forget()
	}

	logger.DebugContext(ctx, "navigated back", "from", from, "to", to)
	return to, nil
}

// PlayNarration plays the audio of the current narration.
//
// With per-segment audio it plays every segment in order and returns once
// the last one has finished. With a single audio file it toggles that file
// between playing and paused and returns right away.
func (o *Orchestrator) PlayNarration(ctx context.Context) error {
	outcome, err := o.session.currentNarration()
	if err != nil {
		return err
	}

	switch outcome.Mode {
	case PlaybackQueue:
		return o.queue.PlayAll(ctx, outcome.Segments)
	case PlaybackToggle:
		_, err := o.toggle.Toggle(ctx)
		return err
	default:
		return ErrNoAudio
	}
}

// StopPlayback stops queued and toggled narration playback.
func (o *Orchestrator) StopPlayback() {
	o.queue.Stop()
	o.toggle.Stop()
}

func (o *Orchestrator) PlayerState() PlayerState { return o.toggle.State() }

// StartCapture starts a speech capture session. Its finalized transcript is
// submitted as a query.
func (o *Orchestrator) StartCapture(ctx context.Context) error {
	return o.speechCapture.Start(ctx)
}

func (o *Orchestrator) StopCapture() { o.speechCapture.Stop() }

// ToggleCapture stops an active capture session or starts a new one, and
// reports whether capture is active afterwards.
func (o *Orchestrator) ToggleCapture(ctx context.Context) (bool, error) {
	return o.speechCapture.Toggle(ctx)
}

func (o *Orchestrator) IsCapturing() bool  { return o.speechCapture.IsActive() }
func (o *Orchestrator) Transcript() string { return o.speechCapture.Transcript() }

func (o *Orchestrator) submitTranscript(transcript string) {
	goWorker(o.context(), "voice query", func(ctx context.Context) error {
		_, err := o.SubmitQuery(ctx, transcript)
		return err
	})
}

func (o *Orchestrator) apologize(err *CaptureError) {
	ctx := o.context()
	logger.InfoContext(ctx, "speech capture failed", "session_id", err.SessionID, "error", err.Err)
	if o.settings.captureApology != "" {
		o.speak(ctx, o.settings.captureApology)
	}
}

// Speak says text, cancelling whatever is being said.
func (o *Orchestrator) Speak(ctx context.Context, text string) error {
	return o.speechOutput.Speak(ctx, text)
}

func (o *Orchestrator) CancelSpeech()    { o.speechOutput.Cancel() }
func (o *Orchestrator) IsSpeaking() bool { return o.speechOutput.IsSpeaking() }

// speak is Speak for prompts: the utterance outlives ctx and failures are
// only recorded.
func (o *Orchestrator) speak(ctx context.Context, text string) {
	if err := o.speechOutput.Speak(context.WithoutCancel(ctx), text); err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "failed to speak prompt", "error", err)
	}
}

func (o *Orchestrator) logAbortedRun(ctx context.Context, workflow string, err error) {
	if errors.Is(err, ErrSuperseded) {
		logger.DebugContext(ctx, "discarding results of superseded workflow run", "workflow", workflow)
		return
	}
	logger.InfoContext(ctx, "workflow run aborted", "workflow", workflow, "error", err)
}

// Snapshot returns a copy of the current page and workflow state.
func (o *Orchestrator) Snapshot() SessionSnapshot { return o.session.Snapshot() }

// Close stops capture, speech and playback. It is safe to call more than
// once.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.closed.Store(true)
		o.speechCapture.Stop()
		o.speechOutput.Close()
		o.StopPlayback()
		o.clips.Forget()
	})
}
