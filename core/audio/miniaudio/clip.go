package miniaudio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/memorylane/core/audio"
)

// drainPeriods is how many silent periods are rendered after the last
// sample before a clip counts as finished, so the tail is not cut off.
const drainPeriods = 2

// clipPlayback plays one decoded clip on its own device, opened with the
// clip's sample rate and channel count.
type clipPlayback struct {
	device *malgo.Device

	pcm          []byte
	position     int
	silentPeriod int

	// mu guards the read position and is taken by the device callback.
	mu sync.Mutex

	// controlMu guards device state changes. It must never be taken by the
	// device callback, since stopping a device waits for the callback.
	controlMu sync.Mutex
	paused    bool

	done     chan struct{}
	doneOnce sync.Once
	err      error
}

// Play opens a fresh device for clip and starts it. The returned playback
// finishes when the clip is exhausted, when Stop is called or when ctx is
// done.
func (c *Client) Play(ctx context.Context, clip *audio.Clip) (audio.Playback, error) {
	if clip == nil || len(clip.PCM) == 0 {
		return nil, errors.New("empty clip")
	}
	if clip.EncodingInfo.Format != audio.EncodingLinear16 {
		return nil, fmt.Errorf("unsupported clip format %q", clip.EncodingInfo.Format.Name())
	}

	playback := &clipPlayback{pcm: clip.PCM, done: make(chan struct{})}

	format := malgo.FormatS16
	channels := clip.EncodingInfo.ChannelCount()
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(clip.EncodingInfo.SampleRate)
	config.Playback.Format = format
	config.Playback.Channels = uint32(channels)
	config.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(c.audioContext.Context, config, malgo.DeviceCallbacks{
		Data: playback.processAudio(bytesPerFrame),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize clip device: %w", err)
	}
	playback.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("failed to start clip device: %w", err)
	}

	go func() {
		select {
		case <-ctx.Done():
			playback.finish(ctx.Err())
		case <-playback.done:
		}
	}()

	return playback, nil
}

func (p *clipPlayback) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		p.mu.Lock()
		defer p.mu.Unlock()

		n := copy(pOutput[:need], p.pcm[p.position:])
		p.position += n
		clear(pOutput[n:need])

		if p.position >= len(p.pcm) {
			p.silentPeriod++
			if p.silentPeriod > drainPeriods {
				// The device must not be torn down from its own callback.
				go p.finish(nil)
			}
		}
	}
}

func (p *clipPlayback) Pause() error {
	p.controlMu.Lock()
	defer p.controlMu.Unlock()
	if p.paused || p.isDone() {
		return nil
	}
	if err := p.device.Stop(); err != nil {
		return fmt.Errorf("failed to pause clip: %w", err)
	}
	p.paused = true
	return nil
}

func (p *clipPlayback) Resume() error {
	p.controlMu.Lock()
	defer p.controlMu.Unlock()
	if !p.paused || p.isDone() {
		return nil
	}
	if err := p.device.Start(); err != nil {
		return fmt.Errorf("failed to resume clip: %w", err)
	}
	p.paused = false
	return nil
}

func (p *clipPlayback) Stop() error {
	p.finish(nil)
	return nil
}

func (p *clipPlayback) Done() <-chan struct{} { return p.done }

// Err reports why playback finished early. It is nil for a clip that
// played to the end or was stopped.
func (p *clipPlayback) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *clipPlayback) isDone() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *clipPlayback) finish(err error) {
	p.doneOnce.Do(func() {
		p.controlMu.Lock()
		defer p.controlMu.Unlock()

		p.err = err
		p.device.Uninit()
		close(p.done)
	})
}
