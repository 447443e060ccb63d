package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/koscakluka/memorylane/core/render"
	"github.com/koscakluka/memorylane/internal/utils"
)

type controllerStub struct {
	mu       sync.Mutex
	snapshot orchestration.SessionSnapshot
	photos   []memories.Photo

	queries    []string
	selected   []string
	stops      int
	playErr    error
	captureErr error
}

func newControllerStub(photos ...memories.Photo) *controllerStub {
	return &controllerStub{
		snapshot: orchestration.SessionSnapshot{Page: orchestration.PageEntry},
		photos:   photos,
	}
}

func (c *controllerStub) SubmitQuery(_ context.Context, query string) (orchestration.SearchOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(query) == "" {
		return orchestration.SearchOutcome{}, orchestration.ErrEmptyQuery
	}
	c.queries = append(c.queries, query)

	outcome := orchestration.SearchOutcome{Query: query, Photos: c.photos, Status: orchestration.SearchFound}
	if len(c.photos) == 0 {
		outcome.Status = orchestration.SearchEmpty
		outcome.Message = orchestration.NoResultsMessage
	}
	c.snapshot = orchestration.SessionSnapshot{
		Page:          orchestration.PageProcessing,
		Query:         query,
		SearchOutcome: &outcome,
		SearchSteps: []memories.AgentStep{{
			Label:  orchestration.StepEmbeddingSearch.Label,
			Icon:   orchestration.StepEmbeddingSearch.Icon,
			Status: memories.StepComplete,
			Result: orchestration.SearchStepResult{Success: true, Photos: c.photos},
		}},
	}
	return outcome, nil
}

func (c *controllerStub) SelectPhoto(_ context.Context, photoID string) (orchestration.NarrationOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = append(c.selected, photoID)

	var photo memories.Photo
	for _, p := range c.photos {
		if p.ID == photoID {
			photo = p
		}
	}
	outcome := orchestration.NarrationOutcome{
		Photo: photo,
		Narration: &memories.Narration{
			MainNarration:       "The waves rolled in slowly.",
			AmbientDescriptions: []string{"gulls", "surf"},
			AudioURL:            "/audio/story.wav",
		},
		Mode: orchestration.PlaybackToggle,
	}
	c.snapshot.Page = orchestration.PageMemory
	c.snapshot.ActivePhoto = &photo
	c.snapshot.NarrationOutcome = &outcome
	return outcome, nil
}

func (c *controllerStub) Narrate(ctx context.Context) (orchestration.NarrationOutcome, error) {
	return orchestration.NarrationOutcome{}, nil
}

func (c *controllerStub) Back(context.Context) (orchestration.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.snapshot.Page {
	case orchestration.PageMemory:
		c.snapshot.Page = orchestration.PageProcessing
		c.snapshot.ActivePhoto = nil
		c.snapshot.NarrationOutcome = nil
	case orchestration.PageProcessing:
		c.snapshot = orchestration.SessionSnapshot{Page: orchestration.PageEntry}
	default:
		return c.snapshot.Page, orchestration.ErrIllegalTransition
	}
	return c.snapshot.Page, nil
}

func (c *controllerStub) PlayNarration(context.Context) error { return c.playErr }

func (c *controllerStub) StopPlayback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
}

func (c *controllerStub) ToggleCapture(context.Context) (bool, error) {
	if c.captureErr != nil {
		return false, c.captureErr
	}
	return true, nil
}

func (c *controllerStub) Snapshot() orchestration.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", next)
	}
	return model, cmd
}

// press sends a key and feeds the message produced by its command back into
// the model.
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	m, cmd := update(t, m, key)
	if cmd != nil {
		m, _ = update(t, m, cmd())
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func beachPhotos() []memories.Photo {
	return []memories.Photo{
		{ID: "1", Title: "Beach day", Description: "Sand and sun", Tags: []string{"beach"}, SimilarityScore: utils.Ptr(0.91)},
		{ID: "2", Title: "Sunset walk", SimilarityScore: utils.Ptr(0.72)},
	}
}

func TestEnterSubmitsQueryAndShowsResults(t *testing.T) {
	controller := newControllerStub(beachPhotos()...)
	m := New(context.Background(), controller)

	m.input.SetValue("beach")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(controller.queries) != 1 || controller.queries[0] != "beach" {
		t.Fatalf("expected query to be submitted, got %v", controller.queries)
	}
	if m.snapshot.Page != orchestration.PageProcessing {
		t.Fatalf("expected processing page, got %q", m.snapshot.Page)
	}

	content := m.processingContent()
	for _, want := range []string{"2 photos found", "Beach day", "91.0%", "Sunset walk", "Found 2 matching images"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected processing page to contain %q, got:\n%s", want, content)
		}
	}
}

func TestEmptyQueryShowsPrompt(t *testing.T) {
	controller := newControllerStub()
	m := New(context.Background(), controller)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.snapshot.Page != orchestration.PageEntry {
		t.Fatalf("expected to stay on entry page, got %q", m.snapshot.Page)
	}
	if m.status != orchestration.EmptyQueryPrompt {
		t.Fatalf("expected empty query prompt, got %q", m.status)
	}
	if !strings.Contains(m.View(), orchestration.EmptyQueryPrompt) {
		t.Fatalf("expected prompt to be rendered")
	}
}

func TestEmptySearchShowsNoResultsMessage(t *testing.T) {
	controller := newControllerStub()
	m := New(context.Background(), controller)

	m.input.SetValue("unicorns")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	content := m.processingContent()
	if !strings.Contains(content, "No Results") || !strings.Contains(content, "Try a different search term.") {
		t.Fatalf("expected no results message, got:\n%s", content)
	}
}

func TestSelectingResultOpensMemoryPage(t *testing.T) {
	controller := newControllerStub(beachPhotos()...)
	m := New(context.Background(), controller)
	m.input.SetValue("beach")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(controller.selected) != 1 || controller.selected[0] != "2" {
		t.Fatalf("expected second photo to be selected, got %v", controller.selected)
	}
	if m.snapshot.Page != orchestration.PageMemory {
		t.Fatalf("expected memory page, got %q", m.snapshot.Page)
	}

	content := m.memoryContent()
	for _, want := range []string{"Sunset walk", "The waves rolled in slowly.", "Ambient atmosphere: gulls, surf", "Narration audio: stopped"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected memory page to contain %q, got:\n%s", want, content)
		}
	}
}

func TestSelectionWrapsAround(t *testing.T) {
	controller := newControllerStub(beachPhotos()...)
	m := New(context.Background(), controller)
	m.input.SetValue("beach")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, runes("k"))
	if m.selected != 1 {
		t.Fatalf("expected selection to wrap to the last photo, got %d", m.selected)
	}
}

func TestBackReturnsThroughPages(t *testing.T) {
	controller := newControllerStub(beachPhotos()...)
	m := New(context.Background(), controller)
	m.input.SetValue("beach")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.snapshot.Page != orchestration.PageProcessing {
		t.Fatalf("expected processing page after back, got %q", m.snapshot.Page)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.snapshot.Page != orchestration.PageEntry {
		t.Fatalf("expected entry page after back, got %q", m.snapshot.Page)
	}
	if m.input.Value() != "" || !m.input.Focused() {
		t.Fatalf("expected a cleared and focused input on entry")
	}
}

func TestPlaybackKeys(t *testing.T) {
	controller := newControllerStub(beachPhotos()...)
	controller.playErr = orchestration.ErrNoAudio
	m := New(context.Background(), controller)
	m.input.SetValue("beach")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, runes("p"))
	if m.status != "No narration audio available" {
		t.Fatalf("expected missing audio status, got %q", m.status)
	}

	m = press(t, m, runes("s"))
	if controller.stops != 1 {
		t.Fatalf("expected playback to be stopped once, got %d", controller.stops)
	}

	m, _ = update(t, m, EventMsg{Event: events.NewPlayerStateChanged(string(orchestration.PlayerPlaying), "/audio/story.wav")})
	if !strings.Contains(m.memoryContent(), "Narration audio: playing") {
		t.Fatalf("expected player state to be rendered")
	}
}

func TestCaptureEventsUpdateStatus(t *testing.T) {
	controller := newControllerStub()
	m := New(context.Background(), controller)

	m, _ = update(t, m, EventMsg{Event: events.NewCaptureStarted("s1")})
	if !m.capturing || m.status != render.StatusListening {
		t.Fatalf("expected listening state, got capturing=%v status=%q", m.capturing, m.status)
	}

	m, _ = update(t, m, EventMsg{Event: events.NewTranscriptUpdated("s1", "dogs at the")})
	m, _ = update(t, m, EventMsg{Event: events.NewTranscriptUpdated("s1", "dogs at the park")})
	if m.transcript != "dogs at the park" {
		t.Fatalf("expected transcript to be replaced, got %q", m.transcript)
	}

	m, _ = update(t, m, EventMsg{Event: events.NewCaptureError("s1", context.DeadlineExceeded)})
	m, _ = update(t, m, EventMsg{Event: events.NewCaptureEnded("s1", events.CaptureEndError)})
	if m.capturing || m.status != render.StatusCaptureFailed {
		t.Fatalf("expected capture failure status, got capturing=%v status=%q", m.capturing, m.status)
	}

	m, _ = update(t, m, EventMsg{Event: events.NewCaptureStarted("s2")})
	m, _ = update(t, m, EventMsg{Event: events.NewCaptureEnded("s2", events.CaptureEndStopped)})
	if m.status != render.StatusIdle {
		t.Fatalf("expected idle status after stop, got %q", m.status)
	}
}

func TestToggleCaptureWithoutEngine(t *testing.T) {
	controller := newControllerStub()
	controller.captureErr = orchestration.ErrCaptureUnavailable
	m := New(context.Background(), controller)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.capturing || m.status != "Speech capture is not configured" {
		t.Fatalf("expected unavailable capture status, got capturing=%v status=%q", m.capturing, m.status)
	}
}

func TestBridgeDropsEventsWithoutProgram(t *testing.T) {
	var bridge Bridge
	bridge.Send(events.NewCaptureStarted("s1"))
}
