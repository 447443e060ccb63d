package orchestration

import (
	"context"
	"fmt"
	"sync"

	"github.com/koscakluka/memorylane/core/audio"
	"github.com/koscakluka/memorylane/core/events"
)

type PlayerState string

const (
	PlayerStopped PlayerState = "stopped"
	PlayerPlaying PlayerState = "playing"
	PlayerPaused  PlayerState = "paused"
)

// togglePlayer is the single replayable player used when a narration has no
// per-segment audio.
type togglePlayer struct {
	source *clipSource
	player ClipPlayer

	mu       sync.Mutex
	url      string
	state    PlayerState
	playback audio.Playback
	// generation changes whenever playback is stopped or the source is
	// replaced, so a Toggle that loaded its clip without holding mu can
	// tell whether it is still wanted.
	generation uint64

	emitEvent eventEmitter
}

func newTogglePlayer(source *clipSource, player ClipPlayer) *togglePlayer {
	return &togglePlayer{source: source, player: player, state: PlayerStopped, emitEvent: noopEventEmitter}
}

func (p *togglePlayer) SetEventEmitter(emitEvent eventEmitter) {
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	p.emitEvent = emitEvent
}

// SetSource stops whatever is playing and remembers url for the next Toggle.
func (p *togglePlayer) SetSource(url string) {
	p.mu.Lock()
	playback, previous := p.stopLocked()
	p.url = url
	p.mu.Unlock()

	p.finishStop(playback, previous)
}

// ClearSource forgets url if it is still the source, stopping its playback.
func (p *togglePlayer) ClearSource(url string) {
	p.mu.Lock()
	if p.url != url {
		p.mu.Unlock()
		return
	}
	playback, previous := p.stopLocked()
	p.url = ""
	p.mu.Unlock()

	p.finishStop(playback, previous)
}

// Toggle pauses a playing clip, resumes a paused one and otherwise starts
// the stored url from the beginning. It returns the new state.
//
// The clip is loaded without holding the player's lock, so Stop and State
// stay responsive during a slow fetch. A load that was overtaken by Stop,
// SetSource or another Toggle is dropped.
func (p *togglePlayer) Toggle(ctx context.Context) (PlayerState, error) {
	p.mu.Lock()
	if p.state != PlayerStopped {
		before := p.state
		state, err := p.pauseOrResumeLocked()
		url := p.url
		p.mu.Unlock()

		if state != before {
			p.emitEvent(events.NewPlayerStateChanged(string(state), url))
		}
		return state, err
	}
	if p.url == "" || p.player == nil {
		p.mu.Unlock()
		return PlayerStopped, ErrNoAudio
	}
	url, generation := p.url, p.generation
	p.mu.Unlock()

	clip, err := p.source.Load(ctx, url)

	p.mu.Lock()
	if p.generation != generation || p.state != PlayerStopped {
		state := p.state
		p.mu.Unlock()
		return state, nil
	}
	if err != nil {
		p.mu.Unlock()
		return PlayerStopped, fmt.Errorf("failed to load %s: %w", url, err)
	}

	// Playback outlives the call that started it and ends with Stop.
	playback, err := p.player.Play(context.WithoutCancel(ctx), clip)
	if err != nil {
		p.mu.Unlock()
		return PlayerStopped, fmt.Errorf("failed to play %s: %w", url, err)
	}
	p.playback = playback
	p.state = PlayerPlaying
	p.mu.Unlock()

	go p.awaitEnd(playback)
	p.emitEvent(events.NewPlayerStateChanged(string(PlayerPlaying), url))
	return PlayerPlaying, nil
}

func (p *togglePlayer) pauseOrResumeLocked() (PlayerState, error) {
	switch p.state {
	case PlayerPlaying:
		if err := p.playback.Pause(); err != nil {
			return p.state, fmt.Errorf("failed to pause: %w", err)
		}
		p.state = PlayerPaused

	case PlayerPaused:
		if err := p.playback.Resume(); err != nil {
			return p.state, fmt.Errorf("failed to resume: %w", err)
		}
		p.state = PlayerPlaying
	}
	return p.state, nil
}

func (p *togglePlayer) awaitEnd(playback audio.Playback) {
	<-playback.Done()
	if err := playback.Err(); err != nil {
		logger.Warn("narration playback failed", "error", err)
	}

	p.mu.Lock()
	current := p.playback == playback
	if current {
		p.playback = nil
		p.state = PlayerStopped
	}
	url := p.url
	p.mu.Unlock()

	if current {
		p.emitEvent(events.NewPlayerStateChanged(string(PlayerStopped), url))
	}
}

func (p *togglePlayer) Stop() {
	p.mu.Lock()
	playback, url := p.stopLocked()
	p.mu.Unlock()

	p.finishStop(playback, url)
}

// stopLocked detaches the current playback and invalidates loads in flight.
// It returns the playback and the url it was playing.
func (p *togglePlayer) stopLocked() (audio.Playback, string) {
	playback := p.playback
	p.playback = nil
	p.state = PlayerStopped
	p.generation++
	return playback, p.url
}

func (p *togglePlayer) finishStop(playback audio.Playback, url string) {
	if playback == nil {
		return
	}
	_ = playback.Stop()
	p.emitEvent(events.NewPlayerStateChanged(string(PlayerStopped), url))
}

func (p *togglePlayer) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
