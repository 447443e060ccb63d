package render

import (
	"strings"
	"testing"

	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/koscakluka/memorylane/internal/utils"
)

func TestCardsKeepOrderTagsAndRelevance(t *testing.T) {
	photos := []memories.Photo{
		{ID: "2", Title: "Rex", Tags: []string{"z", "a", "m"}, SimilarityScore: utils.Ptr(0.873)},
		{ID: "1", Title: "Buddy", Tags: []string{"dog"}, RelevanceScore: utils.Ptr(42.0)},
		{ID: "3", Title: "Unknown"},
	}

	cards := Cards(photos)
	if len(cards) != len(photos) {
		t.Fatalf("expected one card per photo, got %d", len(cards))
	}

	expectedLabels := []string{"87.3%", "42.0%", "50.0%"}
	for i, card := range cards {
		if card.ID != photos[i].ID {
			t.Fatalf("expected card %d to be photo %s, got %s", i, photos[i].ID, card.ID)
		}
		if card.RelevanceLabel != expectedLabels[i] {
			t.Fatalf("expected card %d relevance %s, got %s", i, expectedLabels[i], card.RelevanceLabel)
		}
	}
	if strings.Join(cards[0].Tags, ",") != "z,a,m" {
		t.Fatalf("expected tags in source order, got %v", cards[0].Tags)
	}
}

func TestSearchMessageSeparatesEmptyFromFailed(t *testing.T) {
	title, text := SearchMessage(orchestration.SearchOutcome{Status: orchestration.SearchEmpty})
	if title != "No Results" || text != orchestration.NoResultsMessage {
		t.Fatalf("unexpected empty message %q %q", title, text)
	}

	title, text = SearchMessage(orchestration.SearchOutcome{Status: orchestration.SearchFailed, Message: "index not loaded"})
	if title != "Search Failed" || text != "index not loaded" {
		t.Fatalf("unexpected failure message %q %q", title, text)
	}

	if title, text := SearchMessage(orchestration.SearchOutcome{Status: orchestration.SearchFound}); title != "" || text != "" {
		t.Fatalf("expected no message for found results, got %q %q", title, text)
	}
}

func TestStepsSummarizeCompletedResults(t *testing.T) {
	photos := []memories.Photo{
		{Title: "A", SimilarityScore: utils.Ptr(0.9)},
		{Title: "B", SimilarityScore: utils.Ptr(0.8)},
		{Title: "C", SimilarityScore: utils.Ptr(0.7)},
		{Title: "D", SimilarityScore: utils.Ptr(0.6)},
	}
	steps := []memories.AgentStep{
		{
			Label: "Voice Processing Agent", Status: memories.StepComplete,
			Result: orchestration.VoiceStepResult{Success: true, Intent: memories.VoiceIntent{Intent: "search", SearchQuery: "dogs", Entities: []string{"dog"}}},
		},
		{
			Label: "Embedding Search Agent", Status: memories.StepComplete,
			Result: orchestration.SearchStepResult{Success: true, Photos: photos},
		},
		{Label: "Perception Agent", StatusText: "Analyzing visual content...", Status: memories.StepPending},
	}

	views := Steps(steps)

	voice := views[0].Summary
	if voice.Lines[1] != `Search Query: "dogs"` || len(voice.Badges) != 1 || voice.Badges[0] != "dog" {
		t.Fatalf("unexpected voice summary %+v", voice)
	}

	search := views[1].Summary
	if search.Lines[0] != "Found 4 matching images" {
		t.Fatalf("unexpected search summary %+v", search)
	}
	if len(search.Badges) != 3 || search.Badges[0] != "A: 90.0%" || search.Badges[2] != "C: 70.0%" {
		t.Fatalf("expected top three badges, got %v", search.Badges)
	}

	pending := views[2]
	if pending.Complete || pending.Status != "Analyzing visual content..." || !pending.Summary.IsZero() {
		t.Fatalf("expected pending step without summary, got %+v", pending)
	}
	if views[0].Status != "Complete" {
		t.Fatalf("expected completed status text, got %q", views[0].Status)
	}
}

func TestNarrationView(t *testing.T) {
	view := Narration(orchestration.NarrationOutcome{
		Photo: memories.Photo{Title: "Buddy"},
		Narration: &memories.Narration{
			MainNarration:       "Buddy chased the ball.",
			PersonDialogues:     []memories.PersonDialogue{{DialogueText: "Fetch!", Emotion: "joy"}, {DialogueText: "Again"}},
			AmbientDescriptions: []string{"birdsong", "wind"},
		},
		Mode: orchestration.PlaybackToggle,
	})

	if !view.CanPlay {
		t.Fatalf("expected playback to be available")
	}
	if view.Dialogues[0] != `"Fetch!" - joy` || view.Dialogues[1] != `"Again"` {
		t.Fatalf("unexpected dialogues %v", view.Dialogues)
	}
	if view.Ambient != "Ambient atmosphere: birdsong, wind" {
		t.Fatalf("unexpected ambient line %q", view.Ambient)
	}

	text := view.Text(0)
	if !strings.HasPrefix(text, "Buddy chased the ball.") || !strings.HasSuffix(text, view.Ambient) {
		t.Fatalf("unexpected narration text %q", text)
	}
}

func TestFailedNarrationShowsMessageWithoutPlayback(t *testing.T) {
	view := Narration(orchestration.NarrationOutcome{
		Photo:   memories.Photo{Title: "Buddy"},
		Message: "no faces detected",
		Mode:    orchestration.PlaybackNone,
	})

	if view.CanPlay {
		t.Fatalf("expected playback to stay disabled")
	}
	if got := view.Text(80); got != "no faces detected" {
		t.Fatalf("expected failure message, got %q", got)
	}
}

func TestWrap(t *testing.T) {
	wrapped := Wrap("the quick brown fox jumps", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 10 {
			t.Fatalf("expected lines of at most 10 characters, got %q", line)
		}
	}
	if Wrap("unchanged", 0) != "unchanged" {
		t.Fatalf("expected zero width to leave text unchanged")
	}
}
