package orchestration

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/memorylane/core/agents"
	"github.com/koscakluka/memorylane/core/audio"
	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/koscakluka/memorylane/core/speechtotext"
	"github.com/koscakluka/memorylane/core/texttospeech"
	"github.com/koscakluka/memorylane/internal/utils"
)

func waitForCondition(t *testing.T, timeout time.Duration, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %s", description)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) emit(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]events.Kind, 0, len(r.events))
	for _, event := range r.events {
		kinds = append(kinds, event.Kind())
	}
	return kinds
}

func (r *eventRecorder) count(kind events.Kind) int {
	count := 0
	for _, k := range r.kinds() {
		if k == kind {
			count++
		}
	}
	return count
}

type backendStub struct {
	mu sync.Mutex

	processVoice  func(ctx context.Context, text string) (memories.VoiceIntent, error)
	search        func(ctx context.Context, query string) ([]memories.Photo, error)
	generateStory func(ctx context.Context, photoURL string) (memories.Narration, error)
	synthesize    func(ctx context.Context, text string) (string, error)

	voiceTexts    []string
	searchQueries []string
	storyURLs     []string
	ttsTexts      []string
}

func (b *backendStub) ProcessVoice(ctx context.Context, text string) (memories.VoiceIntent, error) {
	b.mu.Lock()
	b.voiceTexts = append(b.voiceTexts, text)
	b.mu.Unlock()
	if b.processVoice == nil {
		return memories.VoiceIntent{Intent: "search", SearchQuery: text}, nil
	}
	return b.processVoice(ctx, text)
}

func (b *backendStub) Search(ctx context.Context, query string, useVoiceProcessing bool) ([]memories.Photo, error) {
	b.mu.Lock()
	b.searchQueries = append(b.searchQueries, query)
	b.mu.Unlock()
	if !useVoiceProcessing {
		return nil, errors.New("expected voice processing flag to be set")
	}
	if b.search == nil {
		return nil, nil
	}
	return b.search(ctx, query)
}

func (b *backendStub) GenerateStory(ctx context.Context, photoURL string) (memories.Narration, error) {
	b.mu.Lock()
	b.storyURLs = append(b.storyURLs, photoURL)
	b.mu.Unlock()
	if b.generateStory == nil {
		return memories.Narration{MainNarration: "A quiet afternoon."}, nil
	}
	return b.generateStory(ctx, photoURL)
}

func (b *backendStub) Synthesize(ctx context.Context, text string) (string, error) {
	b.mu.Lock()
	b.ttsTexts = append(b.ttsTexts, text)
	b.mu.Unlock()
	if b.synthesize == nil {
		return "/audio/narration.wav", nil
	}
	return b.synthesize(ctx, text)
}

func (b *backendStub) SearchQueries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.searchQueries...)
}

func backendFailure(endpoint, message string) error {
	return &agents.BackendError{Endpoint: endpoint, Message: message, StatusCode: 200}
}

func testPhoto(id, title string, similarity float64) memories.Photo {
	return memories.Photo{
		ID:              id,
		URL:             "/photos/" + id + ".jpg",
		Title:           title,
		Description:     title + " on a sunny day",
		Tags:            []string{"outdoor", "sunny"},
		SimilarityScore: utils.Ptr(similarity),
	}
}

// audioFetcherStub serves WAV files whose sample rate identifies the url.
type audioFetcherStub struct {
	mu      sync.Mutex
	rates   map[string]int
	fetches map[string]int
}

func newAudioFetcherStub(rates map[string]int) *audioFetcherStub {
	return &audioFetcherStub{rates: rates, fetches: map[string]int{}}
}

func (f *audioFetcherStub) FetchAudio(_ context.Context, ref string) (agents.AudioFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[ref]++

	rate, ok := f.rates[ref]
	if !ok {
		return agents.AudioFile{}, fmt.Errorf("%s: 404 Not Found", ref)
	}
	return agents.AudioFile{URL: ref, ContentType: "audio/wav", Data: buildWAV(rate, []int16{1, 2, 3, 4})}, nil
}

func (f *audioFetcherStub) fetchCount(ref string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[ref]
}

func buildWAV(sampleRate int, samples []int16) []byte {
	dataSize := len(samples) * 2
	buf := &bytes.Buffer{}
	write := func(v any) { _ = binary.Write(buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	write(uint32(36 + dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1))
	write(uint16(1))
	write(uint32(sampleRate))
	write(uint32(sampleRate * 2))
	write(uint16(2))
	write(uint16(16))
	buf.WriteString("data")
	write(uint32(dataSize))
	write(samples)

	return buf.Bytes()
}

type playbackStub struct {
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	err     error
	paused  bool
	stopped bool
}

func newPlaybackStub() *playbackStub {
	return &playbackStub{done: make(chan struct{})}
}

func (p *playbackStub) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
	return nil
}

func (p *playbackStub) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = false
	return nil
}

func (p *playbackStub) Stop() error {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.finish(nil)
	return nil
}

func (p *playbackStub) Done() <-chan struct{} { return p.done }

func (p *playbackStub) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *playbackStub) finish(err error) {
	p.once.Do(func() {
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	})
}

func (p *playbackStub) isFinished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// clipPlayerStub records the sample rate of every clip it plays. With
// autoFinish set, every playback ends right away with the error returned
// for its sample rate.
type clipPlayerStub struct {
	mu        sync.Mutex
	rates     []int
	playbacks []*playbackStub
	overlaps  int

	autoFinish bool
	failRate   int
}

func (c *clipPlayerStub) Play(_ context.Context, clip *audio.Clip) (audio.Playback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, previous := range c.playbacks {
		if !previous.isFinished() {
			c.overlaps++
		}
	}

	playback := newPlaybackStub()
	c.rates = append(c.rates, clip.EncodingInfo.SampleRate)
	c.playbacks = append(c.playbacks, playback)

	if c.autoFinish {
		var err error
		if c.failRate != 0 && clip.EncodingInfo.SampleRate == c.failRate {
			err = errors.New("device error")
		}
		playback.finish(err)
	}
	return playback, nil
}

func (c *clipPlayerStub) playedRates() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.rates...)
}

func (c *clipPlayerStub) playback(i int) *playbackStub {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= len(c.playbacks) {
		return nil
	}
	return c.playbacks[i]
}

func (c *clipPlayerStub) playCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.playbacks)
}

type textToSpeechStub struct {
	mu         sync.Mutex
	generators []*speechGeneratorStub
	// endOnEndOfText makes generators report the end of speech as soon as
	// all text was sent.
	endOnEndOfText bool
}

func (s *textToSpeechStub) NewSpeechGenerator(_ context.Context, opts ...texttospeech.TextToSpeechOption) (texttospeech.SpeechGenerator, error) {
	options := texttospeech.TextToSpeechOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	generator := &speechGeneratorStub{options: options, endOnEndOfText: s.endOnEndOfText}
	s.generators = append(s.generators, generator)
	return generator, nil
}

func (s *textToSpeechStub) generator(i int) *speechGeneratorStub {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= len(s.generators) {
		return nil
	}
	return s.generators[i]
}

func (s *textToSpeechStub) spokenTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	texts := []string{}
	for _, generator := range s.generators {
		texts = append(texts, generator.text())
	}
	return texts
}

type speechGeneratorStub struct {
	options        texttospeech.TextToSpeechOptions
	endOnEndOfText bool

	mu        sync.Mutex
	texts     []string
	cancelled bool
}

func (g *speechGeneratorStub) SendText(text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.texts = append(g.texts, text)
	return nil
}

func (g *speechGeneratorStub) EndOfText() error {
	if g.endOnEndOfText {
		g.options.SpeechAudioCallback([]byte{1, 2})
		g.options.SpeechEndedCallback()
	}
	return nil
}

func (g *speechGeneratorStub) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelled = true
	return nil
}

func (g *speechGeneratorStub) Close() error { return nil }

func (g *speechGeneratorStub) text() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	text := ""
	for _, t := range g.texts {
		text += t
	}
	return text
}

func (g *speechGeneratorStub) isCancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled
}

type audioOutputStub struct {
	mu      sync.Mutex
	chunks  int
	cleared int
}

func (a *audioOutputStub) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }

func (a *audioOutputStub) SendAudio([]byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chunks++
	return nil
}

func (a *audioOutputStub) ClearBuffer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cleared++
}

type speechToTextStub struct {
	mu          sync.Mutex
	options     speechtotext.TranscriptionOptions
	transcribed int
	audio       int
	stopped     int

	transcribeErr error
}

func (s *speechToTextStub) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transcribeErr != nil {
		return s.transcribeErr
	}
	s.options = options
	s.transcribed++
	return nil
}

func (s *speechToTextStub) SendAudio([]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio++
	return nil
}

func (s *speechToTextStub) StopStream() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
	return nil
}

func (s *speechToTextStub) callbacks() speechtotext.TranscriptionOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

type audioInputStub struct {
	mu       sync.Mutex
	onAudio  func([]byte)
	started  int
	stopped  int
	startErr error
}

func (a *audioInputStub) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }

func (a *audioInputStub) StartCapture(_ context.Context, onAudio func([]byte)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.startErr != nil {
		return a.startErr
	}
	a.onAudio = onAudio
	a.started++
	return nil
}

func (a *audioInputStub) StopCapture() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped++
	return nil
}

func (a *audioInputStub) feed(chunk []byte) {
	a.mu.Lock()
	onAudio := a.onAudio
	a.mu.Unlock()
	if onAudio != nil {
		onAudio(chunk)
	}
}
