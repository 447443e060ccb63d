package tui

import (
	"fmt"
	"strings"

	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/koscakluka/memorylane/core/render"
)

const title = "Memory Lane - AI Agent Search"

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString("\n\n")

	if m.snapshot.Page == orchestration.PageEntry {
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
		if m.transcript != "" {
			sb.WriteString(m.styles.Muted.Render(m.transcript))
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(m.viewport.View())
		sb.WriteString("\n")
	}

	sb.WriteString(m.footer())
	return sb.String()
}

func (m Model) footer() string {
	var lines []string
	if m.err != nil {
		lines = append(lines, m.styles.Error.Render(m.err.Error()))
	}

	status := m.status
	if m.capturing {
		status = m.spinner.View() + " " + render.StatusListening
	}
	lines = append(lines, m.styles.Status.Render(status))

	var help string
	switch m.snapshot.Page {
	case orchestration.PageEntry:
		help = "enter search • ctrl+t microphone • esc quit"
	case orchestration.PageProcessing:
		help = "↑/↓ select • enter open • esc back • q quit"
	case orchestration.PageMemory:
		help = "p play/pause • s stop • r retell • esc back • q quit"
	}
	lines = append(lines, m.styles.Help.Render(help))
	return strings.Join(lines, "\n")
}

// refreshContent re-renders the viewport for the current page.
func (m *Model) refreshContent() {
	switch m.snapshot.Page {
	case orchestration.PageProcessing:
		m.viewport.SetContent(m.processingContent())
	case orchestration.PageMemory:
		m.viewport.SetContent(m.memoryContent())
	default:
		m.viewport.SetContent("")
	}
}

func (m Model) processingContent() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Heading.Render("Searching for: " + m.snapshot.Query))
	sb.WriteString("\n\n")
	m.writeSteps(&sb, m.snapshot.SearchSteps)

	outcome := m.snapshot.SearchOutcome
	if outcome == nil {
		return sb.String()
	}

	sb.WriteString("\n")
	if heading, text := render.SearchMessage(*outcome); heading != "" {
		style := m.styles.Muted
		if outcome.Status == orchestration.SearchFailed {
			style = m.styles.Error
		}
		sb.WriteString(style.Render(heading))
		sb.WriteString("\n")
		sb.WriteString(render.Wrap(text, m.contentWidth()))
		sb.WriteString("\n")
		return sb.String()
	}

	cards := render.Cards(outcome.Photos)
	sb.WriteString(m.styles.Heading.Render(render.ResultsCount(len(cards))))
	sb.WriteString("\n")
	for i, card := range cards {
		line := fmt.Sprintf("  %s  %s", card.Title, m.styles.Muted.Render(card.RelevanceLabel))
		if i == m.selected {
			line = m.styles.Selected.Render(fmt.Sprintf("> %s  %s", card.Title, card.RelevanceLabel))
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		if card.Description != "" {
			sb.WriteString(indent(render.Wrap(card.Description, m.contentWidth()-4), "    "))
			sb.WriteString("\n")
		}
		if len(card.Tags) > 0 {
			sb.WriteString(m.styles.Muted.Render("    #" + strings.Join(card.Tags, " #")))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m Model) memoryContent() string {
	var sb strings.Builder
	if photo := m.snapshot.ActivePhoto; photo != nil {
		sb.WriteString(m.styles.Heading.Render(photo.Title))
		sb.WriteString("\n")
		if photo.Description != "" {
			sb.WriteString(render.Wrap(photo.Description, m.contentWidth()))
			sb.WriteString("\n")
		}
		sb.WriteString(m.styles.Muted.Render(photo.URL))
		sb.WriteString("\n\n")
	}
	m.writeSteps(&sb, m.snapshot.MemorySteps)

	outcome := m.snapshot.NarrationOutcome
	if outcome == nil {
		return sb.String()
	}

	view := render.Narration(*outcome)
	sb.WriteString("\n")
	if view.Message != "" {
		sb.WriteString(m.styles.Error.Render(view.Text(m.contentWidth())))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(view.Text(m.contentWidth()))
	sb.WriteString("\n\n")
	switch view.Mode {
	case orchestration.PlaybackToggle:
		sb.WriteString(m.styles.Muted.Render("Narration audio: " + m.player))
	case orchestration.PlaybackQueue:
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d audio segments ready", len(outcome.Segments))))
	default:
		sb.WriteString(m.styles.Muted.Render("No narration audio"))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) writeSteps(sb *strings.Builder, steps []memories.AgentStep) {
	for _, step := range render.Steps(steps) {
		marker := m.spinner.View()
		status := m.styles.Muted.Render(step.Status)
		if step.Complete {
			marker = m.styles.Complete.Render("✓")
			status = m.styles.Complete.Render(step.Status)
		}
		fmt.Fprintf(sb, "%s %s %s  %s\n", marker, step.Icon, step.Label, status)

		if step.Summary.IsZero() {
			continue
		}
		if step.Summary.Title != "" {
			sb.WriteString("    " + m.styles.Heading.Render(step.Summary.Title) + "\n")
		}
		for _, line := range step.Summary.Lines {
			sb.WriteString("    " + line + "\n")
		}
		if len(step.Summary.Badges) > 0 {
			badges := make([]string, 0, len(step.Summary.Badges))
			for _, badge := range step.Summary.Badges {
				badges = append(badges, m.styles.Badge.Render(badge))
			}
			sb.WriteString("    " + strings.Join(badges, " ") + "\n")
		}
	}
}

func (m Model) contentWidth() int {
	return max(m.width-2, 20)
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
