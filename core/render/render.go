// Package render turns orchestration state into display-ready view models.
// It holds every piece of user-facing copy so terminal and plain-text
// front ends show the same thing.
package render

import (
	"fmt"
	"strings"

	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/muesli/reflow/wordwrap"
)

const (
	StatusIdle          = "Click to speak or type your query"
	StatusListening     = "Listening... Speak now"
	StatusCaptureFailed = orchestration.DefaultCaptureApology

	stepCompleteText = "Complete"
	topResultBadges  = 3
)

type Card struct {
	ID          string
	ImageURL    string
	Title       string
	Description string
	Tags        []string
	// Relevance is in [0,1], RelevanceLabel the same value as shown.
	Relevance      float64
	RelevanceLabel string
}

// Cards returns exactly one card per photo, in backend order.
func Cards(photos []memories.Photo) []Card {
	cards := make([]Card, 0, len(photos))
	for _, photo := range photos {
		cards = append(cards, Card{
			ID:             photo.ID,
			ImageURL:       photo.URL,
			Title:          photo.Title,
			Description:    photo.Description,
			Tags:           append([]string(nil), photo.Tags...),
			Relevance:      photo.Relevance(),
			RelevanceLabel: memories.FormatRelevance(photo.Relevance()),
		})
	}
	return cards
}

func ResultsCount(n int) string {
	if n == 1 {
		return "1 photo found"
	}
	return fmt.Sprintf("%d photos found", n)
}

// SearchMessage is shown in place of result cards when a search found
// nothing or failed. It is empty for a search that found photos.
func SearchMessage(outcome orchestration.SearchOutcome) (title, text string) {
	switch outcome.Status {
	case orchestration.SearchEmpty:
		return "No Results", orchestration.NoResultsMessage
	case orchestration.SearchFailed:
		message := outcome.Message
		if message == "" {
			message = "The search could not be completed."
		}
		return "Search Failed", message
	}
	return "", ""
}

type StepView struct {
	Icon     string
	Label    string
	Status   string
	Complete bool
	Summary  Summary
}

// Summary is the result shown under a completed step.
type Summary struct {
	Title  string
	Lines  []string
	Badges []string
}

func (s Summary) IsZero() bool {
	return s.Title == "" && len(s.Lines) == 0 && len(s.Badges) == 0
}

func Steps(steps []memories.AgentStep) []StepView {
	views := make([]StepView, 0, len(steps))
	for _, step := range steps {
		view := StepView{Icon: step.Icon, Label: step.Label, Status: step.StatusText}
		if step.IsComplete() {
			view.Complete = true
			view.Status = stepCompleteText
			view.Summary = StepSummary(step)
		}
		views = append(views, view)
	}
	return views
}

// StepSummary describes the result attached to a completed step. Steps
// without a known result type have an empty summary.
func StepSummary(step memories.AgentStep) Summary {
	switch result := step.Result.(type) {
	case orchestration.VoiceStepResult:
		if !result.Success {
			return failureSummary(result.Message)
		}
		return Summary{
			Title: "Extracted Information",
			Lines: []string{
				"Intent: " + result.Intent.Intent,
				fmt.Sprintf("Search Query: %q", result.Intent.SearchQuery),
			},
			Badges: append([]string(nil), result.Intent.Entities...),
		}

	case orchestration.SearchStepResult:
		if !result.Success {
			return failureSummary(result.Message)
		}
		summary := Summary{
			Title: "Vector Similarity Search",
			Lines: []string{fmt.Sprintf("Found %d matching images", len(result.Photos))},
		}
		for _, photo := range result.Photos[:min(topResultBadges, len(result.Photos))] {
			summary.Badges = append(summary.Badges, photo.Title+": "+memories.FormatRelevance(photo.Relevance()))
		}
		return summary
	}

	return Summary{}
}

func failureSummary(message string) Summary {
	if message == "" {
		message = "The agent reported a failure."
	}
	return Summary{Title: "Agent Failed", Lines: []string{message}}
}

type NarrationView struct {
	Title     string
	Main      string
	Dialogues []string
	Ambient   string
	// Message replaces the narration when story generation failed.
	Message string
	Mode    orchestration.PlaybackMode
	CanPlay bool
}

func Narration(outcome orchestration.NarrationOutcome) NarrationView {
	view := NarrationView{Title: outcome.Photo.Title, Mode: outcome.Mode}
	if outcome.Failed() {
		view.Message = outcome.Message
		view.Mode = orchestration.PlaybackNone
		return view
	}

	narration := outcome.Narration
	view.Main = narration.MainNarration
	for _, dialogue := range narration.PersonDialogues {
		line := fmt.Sprintf("%q", dialogue.DialogueText)
		if dialogue.Emotion != "" {
			line += " - " + dialogue.Emotion
		}
		view.Dialogues = append(view.Dialogues, line)
	}
	view.Ambient = AmbientLine(narration.AmbientDescriptions)
	view.CanPlay = outcome.Mode != orchestration.PlaybackNone
	return view
}

func AmbientLine(descriptions []string) string {
	if len(descriptions) == 0 {
		return ""
	}
	return "Ambient atmosphere: " + strings.Join(descriptions, ", ")
}

// Text lays the view out as paragraphs wrapped at width.
func (v NarrationView) Text(width int) string {
	if v.Message != "" {
		return Wrap(v.Message, width)
	}

	paragraphs := []string{}
	if v.Main != "" {
		paragraphs = append(paragraphs, v.Main)
	}
	paragraphs = append(paragraphs, v.Dialogues...)
	if v.Ambient != "" {
		paragraphs = append(paragraphs, v.Ambient)
	}

	for i, paragraph := range paragraphs {
		paragraphs[i] = Wrap(paragraph, width)
	}
	return strings.Join(paragraphs, "\n\n")
}

// Wrap word-wraps text at width. A width below one leaves text unchanged.
func Wrap(text string, width int) string {
	if width < 1 {
		return text
	}
	return wordwrap.String(text, width)
}
