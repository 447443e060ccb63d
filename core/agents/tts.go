package agents

import (
	"context"
	"strings"
)

// Synthesize renders text to speech and returns the URL of the audio file.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errEmptyText
	}

	var response TTSResponse
	if err := c.postJSON(ctx, EndpointTTS, TTSRequest{Text: text}, &response); err != nil {
		return "", err
	}

	if response.AudioURL == "" {
		return "", &BackendError{Endpoint: EndpointTTS, Message: "no audio url returned"}
	}
	return response.AudioURL, nil
}
