package model

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type recordingHandler struct {
	opened    chan struct{}
	audio     chan []byte
	toolCalls chan []FunctionCall
	closed    chan error
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		opened:    make(chan struct{}, 4),
		audio:     make(chan []byte, 16),
		toolCalls: make(chan []FunctionCall, 4),
		closed:    make(chan error, 4),
	}
}

func (h *recordingHandler) OnOpen()                         { h.opened <- struct{}{} }
func (h *recordingHandler) OnAudio(pcm []byte)              { h.audio <- pcm }
func (h *recordingHandler) OnTranscript(string)             {}
func (h *recordingHandler) OnInterrupted()                  {}
func (h *recordingHandler) OnTurnComplete()                 {}
func (h *recordingHandler) OnToolCall(calls []FunctionCall) { h.toolCalls <- calls }
func (h *recordingHandler) OnClosed(err error)              { h.closed <- err }

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(endpoint string) Config {
	return Config{
		APIKey:         "test-key",
		Model:          "models/test",
		Voice:          "Aoede",
		GreetingPrompt: "Greet the caller.",
		Endpoint:       endpoint,
		GreetingDelay:  10 * time.Millisecond,
		ReconnectDelay: 10 * time.Millisecond,
	}
}

func TestLegGreetingAfterSetupComplete(t *testing.T) {
	upgrader := websocket.Upgrader{}
	greeting := make(chan clientMessage, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var setup clientMessage
		if err := conn.ReadJSON(&setup); err != nil || setup.Setup == nil {
			t.Errorf("expected setup first, got %+v err=%v", setup, err)
			return
		}
		if err := conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}}); err != nil {
			return
		}

		var next clientMessage
		if err := conn.ReadJSON(&next); err != nil {
			return
		}
		greeting <- next
	}))
	defer srv.Close()

	h := newRecordingHandler()
	leg, err := Connect(context.Background(), testConfig(wsURL(srv)), h)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer leg.Close()

	select {
	case <-h.opened:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected OnOpen")
	}

	select {
	case msg := <-greeting:
		if msg.ClientContent == nil || !msg.ClientContent.TurnComplete {
			t.Fatalf("expected greeting client content, got %+v", msg)
		}
		if msg.ClientContent.Turns[0].Parts[0].Text != "Greet the caller." {
			t.Fatalf("unexpected greeting text")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected greeting injection")
	}
}

func TestLegReconnectBeforeGreeting(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var dials atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := dials.Add(1)

		var setup clientMessage
		_ = conn.ReadJSON(&setup)

		if n <= 2 {
			// Abnormal close before setup acknowledgement.
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "boom"))
			_ = conn.Close()
			return
		}
		_ = conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
		// Hold the connection open until the test is done.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				_ = conn.Close()
				return
			}
		}
	}))
	defer srv.Close()

	h := newRecordingHandler()
	leg, err := Connect(context.Background(), testConfig(wsURL(srv)), h)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer leg.Close()

	select {
	case <-h.opened:
	case <-time.After(3 * time.Second):
		t.Fatalf("expected OnOpen after reconnects")
	}
	if got := dials.Load(); got != 3 {
		t.Fatalf("expected 3 dials, got %d", got)
	}
}

func TestLegTerminalAfterExhaustedReconnects(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var dials atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		dials.Add(1)
		var setup clientMessage
		_ = conn.ReadJSON(&setup)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "boom"))
		_ = conn.Close()
	}))
	defer srv.Close()

	h := newRecordingHandler()
	leg, err := Connect(context.Background(), testConfig(wsURL(srv)), h)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer leg.Close()

	select {
	case err := <-h.closed:
		if err == nil {
			t.Fatalf("expected a close error")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("expected terminal close")
	}
	if got := dials.Load(); got != 3 {
		t.Fatalf("expected 3 dials, got %d", got)
	}
}

func TestLegDispatchAudioAndToolCalls(t *testing.T) {
	h := newRecordingHandler()
	l := &Leg{cfg: testConfig("ws://unused"), handler: h, log: discardLogger()}

	var msg serverMessage
	raw := `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"data":"AQI="}}]}},"toolCall":{"functionCalls":[{"id":"x","name":"searchMenu"}]}}`
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	l.dispatch(msg)

	select {
	case pcm := <-h.audio:
		if len(pcm) != 2 || pcm[0] != 1 || pcm[1] != 2 {
			t.Fatalf("unexpected audio %v", pcm)
		}
	default:
		t.Fatalf("expected audio")
	}
	select {
	case calls := <-h.toolCalls:
		if len(calls) != 1 || calls[0].Name != "searchMenu" {
			t.Fatalf("unexpected tool calls %+v", calls)
		}
	default:
		t.Fatalf("expected tool call")
	}
}

func TestSendAfterClose(t *testing.T) {
	l := &Leg{closed: true}
	if err := l.SendAudio([]byte{0}); err != ErrLegClosed {
		t.Fatalf("expected ErrLegClosed, got %v", err)
	}
}
