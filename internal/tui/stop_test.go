package tui

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	orchestration "github.com/koscakluka/memorylane/core"
	"github.com/koscakluka/memorylane/core/agents"
	"github.com/koscakluka/memorylane/core/audio"
	"github.com/koscakluka/memorylane/core/memories"
)

type narrationBackendStub struct{}

func (narrationBackendStub) ProcessVoice(_ context.Context, text string) (memories.VoiceIntent, error) {
	return memories.VoiceIntent{Intent: "search", SearchQuery: text}, nil
}

func (narrationBackendStub) Search(context.Context, string, bool) ([]memories.Photo, error) {
	return []memories.Photo{{ID: "1", URL: "/photos/1.jpg", Title: "Beach day"}}, nil
}

func (narrationBackendStub) GenerateStory(context.Context, string) (memories.Narration, error) {
	return memories.Narration{MainNarration: "Waves rolled in."}, nil
}

func (narrationBackendStub) Synthesize(context.Context, string) (string, error) {
	return "/audio/story.wav", nil
}

func (narrationBackendStub) FetchAudio(_ context.Context, ref string) (agents.AudioFile, error) {
	return agents.AudioFile{URL: ref, ContentType: "audio/wav", Data: silentWAV(8000)}, nil
}

func silentWAV(sampleRate int) []byte {
	samples := make([]int16, sampleRate/10)
	buf := &bytes.Buffer{}
	write := func(v any) { _ = binary.Write(buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	write(uint32(36 + len(samples)*2))
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
	write(uint32(len(samples) * 2))
	write(samples)

	return buf.Bytes()
}

// endlessPlayback runs until it is stopped.
type endlessPlayback struct {
	once sync.Once
	done chan struct{}
}

func (p *endlessPlayback) Pause() error { return nil }
func (p *endlessPlayback) Resume() error { return nil }
func (p *endlessPlayback) Stop() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
func (p *endlessPlayback) Done() <-chan struct{} { return p.done }
func (p *endlessPlayback) Err() error { return nil }

type endlessPlayer struct{}

func (endlessPlayer) Play(context.Context, *audio.Clip) (audio.Playback, error) {
	return &endlessPlayback{done: make(chan struct{})}, nil
}

func TestStopKeyDoesNotBlockEventDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := &Bridge{}
	orch := orchestration.NewOrchestrator(narrationBackendStub{},
		orchestration.WithClipPlayer(endlessPlayer{}),
		orchestration.WithPacer(orchestration.NoopPacer{}),
		orchestration.WithSpokenAnnouncements(false),
		orchestration.WithEventCallback(bridge.Send),
	)
	defer orch.Close()

	if _, err := orch.SubmitQuery(ctx, "beach"); err != nil {
		t.Fatalf("unexpected search error: %v", err)
	}
	if _, err := orch.SelectPhoto(ctx, "1"); err != nil {
		t.Fatalf("unexpected narration error: %v", err)
	}
	if err := orch.PlayNarration(ctx); err != nil {
		t.Fatalf("unexpected play error: %v", err)
	}
	if state := orch.PlayerState(); state != orchestration.PlayerPlaying {
		t.Fatalf("expected player to be playing, got %q", state)
	}

	program := tea.NewProgram(New(ctx, orch),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	)
	bridge.Attach(program)
	defer bridge.Attach(nil)

	finished := make(chan error, 1)
	go func() {
		_, err := program.Run()
		finished <- err
	}()

	go func() {
		program.Send(runes("s"))
		deadline := time.Now().Add(2 * time.Second)
		for orch.PlayerState() != orchestration.PlayerStopped && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		program.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	}()

	select {
	case err := <-finished:
		if err != nil {
			t.Fatalf("expected program to quit cleanly, got %v", err)
		}
	case <-time.After(3 * time.Second):
		cancel()
		<-finished
		t.Fatalf("expected program to keep handling messages after stopping playback")
	}

	if state := orch.PlayerState(); state != orchestration.PlayerStopped {
		t.Fatalf("expected player to be stopped, got %q", state)
	}
}
