// Package agents is the HTTP client for the memory search backend: voice
// intent extraction, embedding search, story generation, text-to-speech and
// photo upload.
package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	EndpointVoiceProcess  = "/api/voice/process"
	EndpointSearch        = "/api/search"
	EndpointStoryGenerate = "/api/story/generate"
	EndpointTTS           = "/api/tts"
	EndpointPhotoUpload   = "/api/photos/upload"
)

const maxErrorBodySize = 4 << 10

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	transport  http.RoundTripper
	timeout    time.Duration
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is used
// as is, without tracing instrumentation.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = client }
}

// WithTransport sets the base transport wrapped by the tracing transport.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(o *clientOptions) { o.transport = transport }
}

// WithTimeout bounds every request. Zero, the default, means requests are
// only bounded by their context.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = timeout }
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host are required", baseURL)
	}

	options := clientOptions{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: options.timeout,
			Transport: otelhttp.NewTransport(options.transport,
				otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
					return request.Method + " " + request.URL.Path
				}),
			),
		}
	}

	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// ResolveURL resolves ref (usually a relative audio or photo path returned by
// the backend) against the backend base URL.
func (c *Client) ResolveURL(ref string) (string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", ref, err)
	}
	return c.baseURL.ResolveReference(parsed).String(), nil
}

// postJSON sends body to endpoint and decodes the answer into response.
//
// The backend answers failures with a JSON body and a 4xx/5xx status, so the
// body is decoded regardless of status and success:false becomes a
// [BackendError].
func (c *Client) postJSON(ctx context.Context, endpoint string, body any, response any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(endpoint), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, endpoint, req, response)
}

func (c *Client) do(ctx context.Context, endpoint string, req *http.Request, response any) error {
	ctx, span := tracer.Start(ctx, "call "+endpoint)
	defer span.End()
	span.SetAttributes(attribute.String("request.url", req.URL.String()))

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		err = fmt.Errorf("error sending request to %s: %w", endpoint, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response from %s: %w", endpoint, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var head envelope
	if err := json.Unmarshal(raw, &head); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err := &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Status: resp.Status, Body: truncate(string(raw), maxErrorBodySize)}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		err = fmt.Errorf("error unmarshalling JSON from %s: %w", endpoint, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if !head.Success {
		err := &BackendError{Endpoint: endpoint, Message: head.Message, StatusCode: resp.StatusCode}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.DebugContext(ctx, "backend reported failure", "endpoint", endpoint, "message", head.Message, "status", resp.StatusCode)
		return err
	}

	if err := json.Unmarshal(raw, response); err != nil {
		err = fmt.Errorf("error unmarshalling JSON from %s: %w", endpoint, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (c *Client) endpointURL(endpoint string) string {
	return c.baseURL.JoinPath(endpoint).String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var errEmptyText = errors.New("text is required")
