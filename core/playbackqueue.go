package orchestration

import (
	"context"
	"sync"

	"github.com/koscakluka/memorylane/core/audio"
	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/memories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// ClipPlayer starts playback of a decoded clip on a fresh output.
type ClipPlayer interface {
	Play(ctx context.Context, clip *audio.Clip) (audio.Playback, error)
}

// playbackQueue plays narration segments strictly one after another.
type playbackQueue struct {
	source *clipSource
	player ClipPlayer

	mu     sync.Mutex
	cancel context.CancelFunc
	run    int

	emitEvent eventEmitter
}

func newPlaybackQueue(source *clipSource, player ClipPlayer) *playbackQueue {
	return &playbackQueue{source: source, player: player, emitEvent: noopEventEmitter}
}

func (q *playbackQueue) SetEventEmitter(emitEvent eventEmitter) {
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	q.emitEvent = emitEvent
}

// PlayAll plays segments in order and returns once the last one has
// finished. The first failing segment aborts the rest of the queue with a
// [PlaybackError]. Starting a new queue stops the one still playing.
func (q *playbackQueue) PlayAll(ctx context.Context, segments []memories.AudioSegment) error {
	if q.player == nil {
		return ErrNoAudio
	}
	if len(segments) == 0 {
		q.emitEvent(events.NewQueueCompleted(0))
		return nil
	}

	ctx, span := tracer.Start(ctx, "play segment queue")
	defer span.End()
	span.SetAttributes(attribute.Int("queue.segments", len(segments)))

	ctx, cancel := context.WithCancel(ctx)
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.cancel = cancel
	q.run++
	run := q.run
	q.mu.Unlock()
	defer func() {
		cancel()
		q.mu.Lock()
		if q.run == run {
			q.cancel = nil
		}
		q.mu.Unlock()
	}()

	clips, loadErrs := q.source.Prefetch(ctx, segments)

	for i, segment := range segments {
		err := loadErrs[i]
		if err == nil {
			err = q.playSegment(ctx, i, segment, clips[i])
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			playbackErr := &PlaybackError{Index: i, Segment: segment, Err: err}
			span.RecordError(playbackErr)
			span.SetStatus(codes.Error, playbackErr.Error())
			q.recordSegment(ctx, segment, "failed")
			q.emitEvent(events.NewSegmentFailed(i, segment, err))
			return playbackErr
		}
		q.recordSegment(ctx, segment, "completed")
		q.emitEvent(events.NewSegmentCompleted(i, segment))
	}

	q.emitEvent(events.NewQueueCompleted(len(segments)))
	return nil
}

func (q *playbackQueue) playSegment(ctx context.Context, index int, segment memories.AudioSegment, clip *audio.Clip) error {
	playback, err := q.player.Play(ctx, clip)
	if err != nil {
		return err
	}
	q.emitEvent(events.NewSegmentStarted(index, segment))

	select {
	case <-playback.Done():
		return playback.Err()
	case <-ctx.Done():
		_ = playback.Stop()
		return ctx.Err()
	}
}

func (q *playbackQueue) recordSegment(ctx context.Context, segment memories.AudioSegment, outcome string) {
	playbackSegments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(segment.Kind)),
		attribute.String("outcome", outcome),
	))
}

// Stop aborts the queue that is currently playing, if any.
func (q *playbackQueue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}
