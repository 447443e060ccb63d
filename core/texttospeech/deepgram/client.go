// Package deepgram renders speech with the Deepgram speak websocket.
package deepgram

import (
	"fmt"
	"slices"

	"github.com/gorilla/websocket"
)

const speakURL = "wss://api.deepgram.com/v1/speak"

type TextToSpeechClient struct {
	apiKey   string
	endpoint string
	dialer   *websocket.Dialer

	voice deepgramVoice
}

type ClientOption func(*TextToSpeechClient)

// WithAPIKey sets the API key. Without it DEEPGRAM_API_KEY is read when a
// generator is created.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *TextToSpeechClient) { c.apiKey = apiKey }
}

// WithEndpoint overrides the speak websocket url, mostly for tests.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *TextToSpeechClient) { c.endpoint = endpoint }
}

func NewTextToSpeechClient(voice deepgramVoice, opts ...ClientOption) (*TextToSpeechClient, error) {
	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice %q", voice)
	}

	client := &TextToSpeechClient{
		voice:    voice,
		endpoint: speakURL,
		dialer:   websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *TextToSpeechClient) SetVoice(voice deepgramVoice) {
	c.voice = voice
}
