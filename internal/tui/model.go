// Package tui is the interactive terminal front end. It shows the entry,
// processing and memory pages of an orchestrator and forwards key presses
// to it.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/render"
)

const (
	defaultWidth  = 80
	defaultHeight = 20
	// chromeHeight is the number of lines around the viewport.
	chromeHeight = 6
)

// Controller is the part of the orchestrator the terminal drives.
type Controller interface {
	SubmitQuery(ctx context.Context, query string) (orchestration.SearchOutcome, error)
	SelectPhoto(ctx context.Context, photoID string) (orchestration.NarrationOutcome, error)
	Narrate(ctx context.Context) (orchestration.NarrationOutcome, error)
	Back(ctx context.Context) (orchestration.Page, error)
	PlayNarration(ctx context.Context) error
	StopPlayback()
	ToggleCapture(ctx context.Context) (bool, error)
	Snapshot() orchestration.SessionSnapshot
}

type (
	searchDoneMsg struct {
		outcome orchestration.SearchOutcome
		err     error
	}
	narrationDoneMsg struct{ err error }
	backDoneMsg      struct{ err error }
	playDoneMsg      struct{ err error }
	playbackStopped  struct{}
	captureMsg       struct {
		active bool
		err    error
	}
)

type Model struct {
	ctx        context.Context
	controller Controller

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	styles   Styles

	snapshot   orchestration.SessionSnapshot
	selected   int
	status     string
	transcript string
	capturing  bool
	player     string
	err        error

	width int
}

func New(ctx context.Context, controller Controller) Model {
	input := textinput.New()
	input.Placeholder = "Search your memories..."
	input.CharLimit = 256
	input.Width = defaultWidth - 4
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:        ctx,
		controller: controller,
		input:      input,
		spinner:    sp,
		viewport:   viewport.New(defaultWidth, defaultHeight),
		styles:     DefaultStyles(),
		status:     render.StatusIdle,
		player:     string(orchestration.PlayerStopped),
		width:      defaultWidth,
	}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case searchDoneMsg:
		switch {
		case errors.Is(msg.err, orchestration.ErrEmptyQuery):
			m.status = orchestration.EmptyQueryPrompt
		case msg.err != nil && !errors.Is(msg.err, orchestration.ErrSuperseded):
			m.err = msg.err
		}
		m.sync()
		return m, nil

	case narrationDoneMsg:
		m.setError(msg.err)
		m.sync()
		return m, nil

	case backDoneMsg:
		m.setError(msg.err)
		m.sync()
		return m, nil

	case playDoneMsg:
		if errors.Is(msg.err, orchestration.ErrNoAudio) {
			m.status = "No narration audio available"
		} else {
			m.setError(msg.err)
		}
		return m, nil

	case playbackStopped:
		return m, nil

	case captureMsg:
		m.capturing = msg.active
		if msg.err != nil {
			m.capturing = false
			m.status = render.StatusCaptureFailed
			if errors.Is(msg.err, orchestration.ErrCaptureUnavailable) {
				m.status = "Speech capture is not configured"
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.hasPendingSteps() {
			m.refreshContent()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	if m.snapshot.Page == orchestration.PageEntry {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.snapshot.Page {
	case orchestration.PageEntry:
		switch msg.Type {
		case tea.KeyEnter:
			m.err = nil
			return m, m.submit(m.input.Value())
		case tea.KeyCtrlT:
			return m, m.toggleCapture()
		case tea.KeyEsc:
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case orchestration.PageProcessing:
		switch msg.String() {
		case "up", "k":
			m.moveSelection(-1)
			return m, nil
		case "down", "j":
			m.moveSelection(1)
			return m, nil
		case "enter":
			if photos := m.photos(); len(photos) > 0 {
				m.err = nil
				return m, m.selectPhoto(photos[m.selected].ID)
			}
			return m, nil
		case "esc", "backspace":
			return m, m.back()
		case "q":
			return m, tea.Quit
		}

	case orchestration.PageMemory:
		switch msg.String() {
		case "p", " ":
			return m, m.play()
		case "s":
			return m, m.stopPlayback()
		case "r":
			m.err = nil
			return m, m.narrate()
		case "esc", "backspace":
			return m, m.back()
		case "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleEvent(event events.Event) {
	switch event := event.(type) {
	case events.CaptureStarted:
		m.capturing = true
		m.transcript = ""
		m.status = render.StatusListening
	case events.TranscriptUpdated:
		m.transcript = event.Transcript
	case events.TranscriptFinalized:
		m.transcript = event.Transcript
	case events.CaptureError:
		m.status = render.StatusCaptureFailed
	case events.CaptureEnded:
		m.capturing = false
		if event.Reason != events.CaptureEndError {
			m.status = render.StatusIdle
		}
	case events.PlayerStateChanged:
		m.player = event.State
	}
	m.sync()
}

func (m *Model) setError(err error) {
	if err != nil && !errors.Is(err, orchestration.ErrSuperseded) {
		m.err = err
	}
}

// sync pulls a fresh snapshot from the controller.
func (m *Model) sync() {
	previous := m.snapshot.Page
	m.snapshot = m.controller.Snapshot()

	if m.snapshot.Page != previous {
		m.viewport.GotoTop()
		if m.snapshot.Page == orchestration.PageEntry {
			m.input.Reset()
			m.input.Focus()
			m.selected = 0
		} else {
			m.input.Blur()
		}
	}
	if n := len(m.photos()); m.selected >= n {
		m.selected = max(n-1, 0)
	}
	m.refreshContent()
}

func (m *Model) moveSelection(delta int) {
	n := len(m.photos())
	if n == 0 {
		return
	}
	m.selected = (m.selected + delta + n) % n
	m.refreshContent()
}

func (m Model) photos() []render.Card {
	if m.snapshot.SearchOutcome == nil {
		return nil
	}
	return render.Cards(m.snapshot.SearchOutcome.Photos)
}

func (m Model) hasPendingSteps() bool {
	steps := m.snapshot.SearchSteps
	if m.snapshot.Page == orchestration.PageMemory {
		steps = m.snapshot.MemorySteps
	}
	for _, step := range steps {
		if !step.IsComplete() {
			return true
		}
	}
	return false
}

func (m Model) submit(query string) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		outcome, err := controller.SubmitQuery(ctx, query)
		return searchDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) selectPhoto(id string) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		_, err := controller.SelectPhoto(ctx, id)
		return narrationDoneMsg{err: err}
	}
}

func (m Model) narrate() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		_, err := controller.Narrate(ctx)
		return narrationDoneMsg{err: err}
	}
}

func (m Model) back() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		_, err := controller.Back(ctx)
		return backDoneMsg{err: err}
	}
}

func (m Model) play() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		return playDoneMsg{err: controller.PlayNarration(ctx)}
	}
}

// stopPlayback runs off the event loop because stopping emits events that
// are delivered back through Program.Send.
func (m Model) stopPlayback() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		controller.StopPlayback()
		return playbackStopped{}
	}
}

func (m Model) toggleCapture() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		active, err := controller.ToggleCapture(ctx)
		return captureMsg{active: active, err: err}
	}
}

// Run shows the terminal UI until the user quits or ctx is done.
func Run(ctx context.Context, controller Controller, bridge *Bridge) error {
	program := tea.NewProgram(New(ctx, controller), tea.WithAltScreen(), tea.WithContext(ctx))
	if bridge != nil {
		bridge.Attach(program)
		defer bridge.Attach(nil)
	}

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
