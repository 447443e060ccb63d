package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/memorylane/core/audio"
	"github.com/koscakluka/memorylane/core/texttospeech"
)

type streamingRequest struct {
	ws *websocket.Conn
	mu sync.Mutex

	options texttospeech.TextToSpeechOptions

	// pendingFlushes counts flushes sent but not yet confirmed.
	pendingFlushes int
	textSent       bool
	textComplete   bool
	cancelled      bool
	closed         bool
}

// NewSpeechGenerator opens a speak websocket for a single utterance.
func (c *TextToSpeechClient) NewSpeechGenerator(ctx context.Context, opts ...texttospeech.TextToSpeechOption) (texttospeech.SpeechGenerator, error) {
	req := &streamingRequest{
		options: texttospeech.TextToSpeechOptions{
			SpeechAudioCallback: func([]byte) {},
			SpeechEndedCallback: func() {},
			ErrorCallback:       func(error) {},
			EncodingInfo:        audio.GetDefaultEncodingInfo(),
		},
	}

	for _, opt := range opts {
		opt(&req.options)
	}

	var err error
	if req.ws, err = c.connectWebsocket(ctx, req.options.EncodingInfo); err != nil {
		return nil, fmt.Errorf("failed to open websocket: %w", err)
	}

	go req.processIncomingMessages()

	return req, nil
}

func (c *TextToSpeechClient) connectWebsocket(ctx context.Context, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	apiKey := c.apiKey
	if apiKey == "" {
		var ok bool
		if apiKey, ok = os.LookupEnv("DEEPGRAM_API_KEY"); !ok {
			return nil, errors.New("deepgram api key not found")
		}
	}

	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid speak endpoint: %w", err)
	}
	urlValues := endpoint.Query()
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(c.voice))
	urlValues.Set("container", "none")
	endpoint.RawQuery = urlValues.Encode()

	conn, _, err := c.dialer.DialContext(ctx, endpoint.String(),
		http.Header{"Authorization": {"token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (r *streamingRequest) processIncomingMessages() {
	for {
		msgType, msg, err := r.ws.ReadMessage()
		if err != nil {
			r.mu.Lock()
			expected := r.closed || r.cancelled
			r.closed = true
			r.mu.Unlock()
			_ = r.ws.Close()

			if !expected && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				r.options.ErrorCallback(fmt.Errorf("speak websocket read failed: %w", err))
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			r.mu.Lock()
			cancelled := r.cancelled
			r.mu.Unlock()
			if !cancelled && len(msg) > 0 {
				r.options.SpeechAudioCallback(msg)
			}
		case websocket.TextMessage:
			var parsedMsg struct {
				Type        string `json:"type"`
				Description string `json:"description"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				logger.Debug("failed to unmarshal deepgram message", "error", err)
				continue
			}

			switch parsedMsg.Type {
			case "Flushed":
				r.mu.Lock()
				if r.pendingFlushes > 0 {
					r.pendingFlushes--
				}
				finished := r.pendingFlushes == 0 && r.textComplete && !r.cancelled
				r.mu.Unlock()

				if finished {
					r.options.SpeechEndedCallback()
					_ = r.Close()
				}
			case "Warning", "Error":
				logger.Warn("deepgram speak reported a problem", "type", parsedMsg.Type, "description", parsedMsg.Description)
			}
		}
	}
}

func (r *streamingRequest) SendText(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New("streaming request closed")
	} else if r.cancelled {
		return errors.New("streaming request cancelled")
	} else if r.textComplete {
		return errors.New("streaming request text already completed")
	}

	if text == "" {
		return nil
	}
	if err := r.ws.WriteJSON(speakMsg{Type: "Speak", Text: text}); err != nil {
		return fmt.Errorf("failed to send websocket speak message: %w", err)
	}
	r.textSent = true
	return nil
}

func (r *streamingRequest) EndOfText() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return errors.New("streaming request closed")
	} else if r.cancelled {
		r.mu.Unlock()
		return errors.New("streaming request cancelled")
	} else if r.textComplete {
		r.mu.Unlock()
		return nil
	}
	r.textComplete = true

	if !r.textSent {
		r.mu.Unlock()
		r.options.SpeechEndedCallback()
		return r.Close()
	}

	// The final flush makes Deepgram render whatever text is still buffered.
	if err := r.ws.WriteJSON(flushMsg); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("failed to send websocket flush message: %w", err)
	}
	r.pendingFlushes++
	r.mu.Unlock()
	return nil
}

func (r *streamingRequest) Cancel() error {
	r.mu.Lock()
	if r.closed || r.cancelled {
		r.mu.Unlock()
		return nil
	}
	r.cancelled = true
	err := r.ws.WriteJSON(clearMsg)
	r.mu.Unlock()

	closeErr := r.Close()
	if err != nil {
		return errors.Join(fmt.Errorf("failed to send websocket clear message: %w", err), closeErr)
	}
	return closeErr
}

func (r *streamingRequest) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.ws.WriteJSON(closeMsg); err != nil {
		if agressiveCloseErr := r.ws.Close(); agressiveCloseErr != nil {
			return fmt.Errorf("failed to close websocket: %w", errors.Join(err, agressiveCloseErr))
		}
	}
	return nil
}

type websocketMessage struct {
	Type string `json:"type"`
}

type speakMsg struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var (
	flushMsg = websocketMessage{Type: "Flush"}
	clearMsg = websocketMessage{Type: "Clear"}
	closeMsg = websocketMessage{Type: "Close"}
)
