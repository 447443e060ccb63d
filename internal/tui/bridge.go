package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/koscakluka/memorylane/core/events"
)

// EventMsg delivers an orchestrator event to the model.
type EventMsg struct {
	Event events.Event
}

// Bridge forwards orchestrator events into a running program. Events
// emitted before a program is attached are dropped.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
}

func (b *Bridge) Attach(program *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = program
}

// Send is meant to be registered as the orchestrator's event callback.
func (b *Bridge) Send(event events.Event) {
	b.mu.Lock()
	program := b.program
	b.mu.Unlock()

	if program != nil {
		program.Send(EventMsg{Event: event})
	}
}
