package deepgram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/memorylane/core/texttospeech"
)

type fakeSpeakServer struct {
	mu       sync.Mutex
	received []string
}

func (s *fakeSpeakServer) handler(t *testing.T) http.HandlerFunc {
	upgrader := websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token test-key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("model") != string(VoiceLunaEn) {
			t.Errorf("expected voice model, got %q", r.URL.Query().Get("model"))
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for {
			var msg struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			s.mu.Lock()
			s.received = append(s.received, msg.Type)
			s.mu.Unlock()

			switch msg.Type {
			case "Speak":
				conn.WriteMessage(websocket.BinaryMessage, []byte(msg.Text))
			case "Flush":
				conn.WriteJSON(map[string]string{"type": "Flushed"})
			case "Close":
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	}
}

func (s *fakeSpeakServer) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

func newTestClient(t *testing.T, server *fakeSpeakServer) *TextToSpeechClient {
	t.Helper()

	httpServer := httptest.NewServer(server.handler(t))
	t.Cleanup(httpServer.Close)

	client, err := NewTextToSpeechClient(VoiceLunaEn,
		WithAPIKey("test-key"),
		WithEndpoint("ws"+strings.TrimPrefix(httpServer.URL, "http")),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewTextToSpeechClientRejectsUnknownVoice(t *testing.T) {
	if _, err := NewTextToSpeechClient(deepgramVoice("robot")); err == nil {
		t.Fatalf("expected error for unknown voice")
	}
}

func TestParseVoice(t *testing.T) {
	if voice, ok := ParseVoice(""); !ok || voice != defaultVoice {
		t.Fatalf("expected default voice for empty name, got %q", voice)
	}
	if _, ok := ParseVoice("nope"); ok {
		t.Fatalf("expected unknown voice to be rejected")
	}
}

func TestSpeechGeneratorStreamsAudioAndEnds(t *testing.T) {
	server := &fakeSpeakServer{}
	client := newTestClient(t, server)

	var audioMu sync.Mutex
	var audio []byte
	ended := make(chan struct{})

	generator, err := client.NewSpeechGenerator(context.Background(),
		texttospeech.WithSpeechAudioCallback(func(chunk []byte) {
			audioMu.Lock()
			audio = append(audio, chunk...)
			audioMu.Unlock()
		}),
		texttospeech.WithSpeechEndedCallback(func() { close(ended) }),
	)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	if err := generator.SendText("hello"); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if err := generator.EndOfText(); err != nil {
		t.Fatalf("unexpected end of text error: %v", err)
	}

	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for speech to end")
	}

	audioMu.Lock()
	got := string(audio)
	audioMu.Unlock()
	if got != "hello" {
		t.Fatalf("expected audio to be forwarded, got %q", got)
	}

	if err := generator.SendText("more"); err == nil {
		t.Fatalf("expected send after end of text to fail")
	}
}

func TestSpeechGeneratorCancelClearsAndCloses(t *testing.T) {
	server := &fakeSpeakServer{}
	client := newTestClient(t, server)

	generator, err := client.NewSpeechGenerator(context.Background())
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}
	if err := generator.SendText("hello"); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if err := generator.Cancel(); err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}
	if err := generator.Cancel(); err != nil {
		t.Fatalf("expected repeated cancel to be ignored, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		messages := server.messages()
		if len(messages) >= 3 {
			if messages[1] != "Clear" || messages[2] != "Close" {
				t.Fatalf("expected clear then close, got %v", messages)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected clear and close messages, got %v", server.messages())
}

func TestEndOfTextWithoutTextEndsImmediately(t *testing.T) {
	server := &fakeSpeakServer{}
	client := newTestClient(t, server)

	ended := false
	generator, err := client.NewSpeechGenerator(context.Background(),
		texttospeech.WithSpeechEndedCallback(func() { ended = true }),
	)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}
	if err := generator.EndOfText(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ended {
		t.Fatalf("expected speech to end without any text")
	}
}
