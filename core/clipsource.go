package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/koscakluka/memorylane/core/agents"
	"github.com/koscakluka/memorylane/core/audio"
	"github.com/koscakluka/memorylane/core/memories"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	defaultClipCacheTTL        = 5 * time.Minute
	defaultPrefetchConcurrency = 4
)

type AudioFetcher interface {
	FetchAudio(ctx context.Context, ref string) (agents.AudioFile, error)
}

// clipSource fetches and decodes segment audio. Decoded clips are cached by
// url so replaying a narration does not fetch it again.
//
// The cache runs without a janitor goroutine. Expired clips are swept on
// cache misses and by Forget.
type clipSource struct {
	fetcher     AudioFetcher
	clips       *cache.Cache
	concurrency int
}

func newClipSource(fetcher AudioFetcher, ttl time.Duration, concurrency int) *clipSource {
	if ttl <= 0 {
		ttl = defaultClipCacheTTL
	}
	if concurrency <= 0 {
		concurrency = defaultPrefetchConcurrency
	}
	return &clipSource{
		fetcher:     fetcher,
		clips:       cache.New(ttl, 0),
		concurrency: concurrency,
	}
}

func (s *clipSource) isConfigured() bool { return s != nil && s.fetcher != nil }

func (s *clipSource) Load(ctx context.Context, url string) (*audio.Clip, error) {
	if !s.isConfigured() {
		return nil, fmt.Errorf("%w: no audio fetcher configured", ErrNoAudio)
	}
	if url == "" {
		return nil, ErrNoAudio
	}

	if cached, ok := s.clips.Get(url); ok {
		return cached.(*audio.Clip), nil
	}
	s.clips.DeleteExpired()

	file, err := s.fetcher.FetchAudio(ctx, url)
	if err != nil {
		return nil, err
	}

	clip, err := audio.Decode(file.Data, file.ContentType, file.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	s.clips.SetDefault(url, clip)
	return clip, nil
}

// Prefetch loads every segment concurrently. Failures are reported per
// segment so playback can still start with the segments before the first
// failure.
func (s *clipSource) Prefetch(ctx context.Context, segments []memories.AudioSegment) ([]*audio.Clip, []error) {
	clips := make([]*audio.Clip, len(segments))
	errs := make([]error, len(segments))

	var group errgroup.Group
	group.SetLimit(s.concurrency)
	for i, segment := range segments {
		group.Go(func() error {
			clips[i], errs[i] = s.Load(ctx, segment.URL)
			return nil
		})
	}
	_ = group.Wait()

	return clips, errs
}

// Forget drops cached clips, for example when the narration they belong to
// is cleared.
func (s *clipSource) Forget() {
	if s != nil {
		s.clips.DeleteExpired()
		s.clips.Flush()
	}
}
