package agents

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AudioFile is a fetched, still encoded, audio file.
type AudioFile struct {
	URL         string
	ContentType string
	Data        []byte
}

// FetchAudio downloads the audio file at ref, resolving relative references
// against the backend base URL.
func (c *Client) FetchAudio(ctx context.Context, ref string) (AudioFile, error) {
	resolved, err := c.ResolveURL(ref)
	if err != nil {
		return AudioFile{}, err
	}

	ctx, span := tracer.Start(ctx, "fetch audio")
	defer span.End()
	span.SetAttributes(attribute.String("request.url", resolved))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return AudioFile{}, fmt.Errorf("error creating HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error fetching audio: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AudioFile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		err := &StatusError{Endpoint: req.URL.Path, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AudioFile{}, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading audio: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AudioFile{}, err
	}

	span.SetAttributes(attribute.Int("response.size", len(data)))
	return AudioFile{URL: resolved, ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}
