package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/memorylane/core/agents"
	"github.com/koscakluka/memorylane/core/events"
)

func TestTogglePlayerCyclesThroughStates(t *testing.T) {
	player := &clipPlayerStub{}
	toggle := newTogglePlayer(newClipSource(newAudioFetcherStub(map[string]int{"/audio/n.wav": 16000}), 0, 0), player)
	recorder := &eventRecorder{}
	toggle.SetEventEmitter(recorder.emit)
	toggle.SetSource("/audio/n.wav")

	expected := []PlayerState{PlayerPlaying, PlayerPaused, PlayerPlaying}
	for i, want := range expected {
		state, err := toggle.Toggle(context.Background())
		if err != nil {
			t.Fatalf("expected toggle %d to succeed, got %v", i, err)
		}
		if state != want {
			t.Fatalf("expected toggle %d to give %q, got %q", i, want, state)
		}
	}

	if got := player.playCount(); got != 1 {
		t.Fatalf("expected pause and resume to reuse the playback, got %d plays", got)
	}
	playback := player.playback(0)
	if playback.paused {
		t.Fatalf("expected playback to be resumed")
	}

	playback.finish(nil)
	waitForCondition(t, time.Second, "player to stop at the end", func() bool { return toggle.State() == PlayerStopped })

	state, err := toggle.Toggle(context.Background())
	if err != nil || state != PlayerPlaying {
		t.Fatalf("expected toggle after the end to start from the beginning, got %q, %v", state, err)
	}
	if got := player.playCount(); got != 2 {
		t.Fatalf("expected a fresh playback, got %d plays", got)
	}

	if got := recorder.count(events.KindPlayerStateChanged); got != 5 {
		t.Fatalf("expected 5 state changes, got %v", recorder.kinds())
	}

	toggle.Stop()
	if toggle.State() != PlayerStopped || !player.playback(1).stopped {
		t.Fatalf("expected stop to end playback")
	}
}

func TestTogglePlayerWithoutSourceHasNoAudio(t *testing.T) {
	toggle := newTogglePlayer(newClipSource(newAudioFetcherStub(nil), 0, 0), &clipPlayerStub{})

	if _, err := toggle.Toggle(context.Background()); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
	if toggle.State() != PlayerStopped {
		t.Fatalf("expected player to stay stopped, got %q", toggle.State())
	}
}

func TestTogglePlayerSetSourceStopsPlayback(t *testing.T) {
	player := &clipPlayerStub{}
	rates := map[string]int{"/audio/a.wav": 8000, "/audio/b.wav": 16000}
	toggle := newTogglePlayer(newClipSource(newAudioFetcherStub(rates), 0, 0), player)

	toggle.SetSource("/audio/a.wav")
	if _, err := toggle.Toggle(context.Background()); err != nil {
		t.Fatalf("expected playback to start, got %v", err)
	}

	toggle.SetSource("/audio/b.wav")
	if !player.playback(0).stopped || toggle.State() != PlayerStopped {
		t.Fatalf("expected new source to stop the old playback")
	}

	if _, err := toggle.Toggle(context.Background()); err != nil {
		t.Fatalf("expected new source to play, got %v", err)
	}
	if rates := player.playedRates(); rates[len(rates)-1] != 16000 {
		t.Fatalf("expected new source to be played, got %v", rates)
	}
	toggle.Stop()
}

// gatedFetcher holds every fetch until release is closed.
type gatedFetcher struct {
	*audioFetcherStub
	started chan struct{}
	once    sync.Once
	release chan struct{}
}

func newGatedFetcher(rates map[string]int) *gatedFetcher {
	return &gatedFetcher{audioFetcherStub: newAudioFetcherStub(rates), started: make(chan struct{}), release: make(chan struct{})}
}

func (f *gatedFetcher) FetchAudio(ctx context.Context, ref string) (agents.AudioFile, error) {
	f.once.Do(func() { close(f.started) })
	<-f.release
	return f.audioFetcherStub.FetchAudio(ctx, ref)
}

func TestTogglePlayerStopDuringLoadDropsClip(t *testing.T) {
	fetcher := newGatedFetcher(map[string]int{"/audio/n.wav": 16000})
	player := &clipPlayerStub{}
	toggle := newTogglePlayer(newClipSource(fetcher, 0, 0), player)
	toggle.SetSource("/audio/n.wav")

	result := make(chan PlayerState, 1)
	go func() {
		state, _ := toggle.Toggle(context.Background())
		result <- state
	}()
	<-fetcher.started

	stopped := make(chan PlayerState, 1)
	go func() {
		toggle.Stop()
		stopped <- toggle.State()
	}()

	select {
	case state := <-stopped:
		if state != PlayerStopped {
			t.Fatalf("expected stopped state during load, got %q", state)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected Stop to return while the clip is loading")
	}

	close(fetcher.release)
	if state := <-result; state != PlayerStopped {
		t.Fatalf("expected toggle to report stopped, got %q", state)
	}
	if rates := player.playedRates(); len(rates) != 0 {
		t.Fatalf("expected stale clip to be dropped, got %v", rates)
	}
	if toggle.State() != PlayerStopped {
		t.Fatalf("expected player to stay stopped, got %q", toggle.State())
	}
}

func TestTogglePlayerClearSourceKeepsNewerSource(t *testing.T) {
	player := &clipPlayerStub{}
	rates := map[string]int{"/audio/a.wav": 8000, "/audio/b.wav": 16000}
	toggle := newTogglePlayer(newClipSource(newAudioFetcherStub(rates), 0, 0), player)

	toggle.SetSource("/audio/b.wav")
	toggle.ClearSource("/audio/a.wav")
	if _, err := toggle.Toggle(context.Background()); err != nil {
		t.Fatalf("expected newer source to survive, got %v", err)
	}

	toggle.ClearSource("/audio/b.wav")
	if !player.playback(0).stopped || toggle.State() != PlayerStopped {
		t.Fatalf("expected cleared source to stop its playback")
	}
	if _, err := toggle.Toggle(context.Background()); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio after clearing, got %v", err)
	}
}
