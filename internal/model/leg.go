package model

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultEndpoint is the Gemini Live bidirectional WebSocket endpoint.
const DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

const (
	mimePCM16k = "audio/pcm;rate=16000"

	defaultGreetingDelay  = 500 * time.Millisecond
	defaultReconnectDelay = time.Second
	maxReconnects         = 2

	dialTimeout = 15 * time.Second
)

// ErrLegClosed is returned by senders after the leg has shut down.
var ErrLegClosed = errors.New("model: leg closed")

// Config fixes the session at connect time.
type Config struct {
	APIKey            string
	Model             string
	Voice             string
	SystemInstruction string
	GreetingPrompt    string
	Tools             []FunctionDeclaration

	// Endpoint overrides the service URL (tests).
	Endpoint string

	// GreetingDelay and ReconnectDelay default to the empirically safe
	// 500 ms / 1 s. Sending client content immediately after open makes some
	// deployments slam the session shut mid-handshake.
	GreetingDelay  time.Duration
	ReconnectDelay time.Duration

	Log *slog.Logger
}

// Handler receives decoded inbound traffic. Calls are made from the leg's
// read goroutine, one at a time.
type Handler interface {
	// OnOpen fires when the service acknowledges setup.
	OnOpen()
	// OnAudio delivers one wideband PCM16 fragment of model speech.
	OnAudio(pcm []byte)
	// OnTranscript delivers an output-transcription fragment.
	OnTranscript(text string)
	OnInterrupted()
	OnTurnComplete()
	OnToolCall(calls []FunctionCall)
	// OnClosed fires once, after reconnect attempts (if any) are exhausted.
	OnClosed(err error)
}

// Leg is the duplex session with the generative-speech service.
type Leg struct {
	cfg     Config
	handler Handler
	log     *slog.Logger

	mu           sync.Mutex
	conn         *websocket.Conn
	closed       bool
	greetingSent bool
	reconnects   int
	greetTimer   *time.Timer
}

// Connect dials the service, sends the setup message, and starts the read
// loop. The greeting injection is scheduled by the leg itself once the
// service acknowledges setup.
func Connect(ctx context.Context, cfg Config, h Handler) (*Leg, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("model: api key required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.GreetingDelay <= 0 {
		cfg.GreetingDelay = defaultGreetingDelay
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	l := &Leg{cfg: cfg, handler: h, log: cfg.Log}
	conn, err := l.dial(ctx)
	if err != nil {
		return nil, err
	}
	l.conn = conn
	go l.readLoop(conn)
	return l, nil
}

func (l *Leg) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	url := l.cfg.Endpoint + "?key=" + l.cfg.APIKey
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("model: dial: %w", err)
	}
	if err := conn.WriteJSON(clientMessage{Setup: l.setup()}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("model: setup: %w", err)
	}
	return conn, nil
}

func (l *Leg) setup() *Setup {
	s := &Setup{
		Model: l.cfg.Model,
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: &VoiceConfig{
					PrebuiltVoiceConfig: &PrebuiltVoiceConfig{VoiceName: l.cfg.Voice},
				},
			},
		},
		RealtimeInputConfig: &RealtimeInputConfig{
			AutomaticActivityDetection: &AutomaticActivityDetection{
				StartOfSpeechSensitivity: StartSensitivityHigh,
				EndOfSpeechSensitivity:   EndSensitivityLow,
				PrefixPaddingMs:          200,
				SilenceDurationMs:        600,
			},
		},
		InputAudioTranscription:  &struct{}{},
		OutputAudioTranscription: &struct{}{},
	}
	if l.cfg.SystemInstruction != "" {
		s.SystemInstruction = &Content{Parts: []Part{{Text: l.cfg.SystemInstruction}}}
	}
	if len(l.cfg.Tools) > 0 {
		s.Tools = []Tool{{FunctionDeclarations: l.cfg.Tools}}
	}
	return s
}

func (l *Leg) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			l.onReadError(conn, err)
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			l.log.Debug("model frame discarded", "err", err)
			continue
		}
		l.dispatch(msg)
	}
}

func (l *Leg) dispatch(msg serverMessage) {
	if msg.SetupComplete != nil {
		l.handler.OnOpen()
		l.scheduleGreeting()
		return
	}
	if msg.ToolCall != nil && len(msg.ToolCall.FunctionCalls) > 0 {
		l.handler.OnToolCall(msg.ToolCall.FunctionCalls)
	}
	sc := msg.ServerContent
	if sc == nil {
		return
	}
	if sc.ModelTurn != nil {
		for _, p := range sc.ModelTurn.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				l.log.Debug("model audio part discarded", "err", err)
				continue
			}
			l.handler.OnAudio(pcm)
		}
	}
	if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
		l.handler.OnTranscript(sc.OutputTranscription.Text)
	}
	if sc.Interrupted {
		l.handler.OnInterrupted()
	}
	if sc.TurnComplete {
		l.handler.OnTurnComplete()
	}
}

// onReadError decides between reconnect and terminal close. The service is
// known to drop sessions abnormally during its open handshake; before the
// greeting has gone out we retry the dial up to twice.
func (l *Leg) onReadError(conn *websocket.Conn, err error) {
	_ = conn.Close()

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.handler.OnClosed(nil)
		return
	}
	if l.greetTimer != nil {
		l.greetTimer.Stop()
		l.greetTimer = nil
	}
	retry := !l.greetingSent && l.reconnects < maxReconnects && isAbnormalClose(err)
	if retry {
		l.reconnects++
		attempt := l.reconnects
		l.mu.Unlock()

		l.log.Warn("model leg closed before greeting, reconnecting", "attempt", attempt, "err", err)
		time.Sleep(l.cfg.ReconnectDelay)

		next, dialErr := l.dial(context.Background())
		if dialErr == nil {
			l.mu.Lock()
			if l.closed {
				l.mu.Unlock()
				_ = next.Close()
				l.handler.OnClosed(nil)
				return
			}
			l.conn = next
			l.mu.Unlock()
			l.readLoop(next)
			return
		}
		l.log.Error("model leg reconnect failed", "attempt", attempt, "err", dialErr)
		l.handler.OnClosed(dialErr)
		return
	}
	l.mu.Unlock()
	l.handler.OnClosed(err)
}

func isAbnormalClose(err error) bool {
	return !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

func (l *Leg) scheduleGreeting() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.greetingSent {
		return
	}
	if l.greetTimer != nil {
		l.greetTimer.Stop()
	}
	l.greetTimer = time.AfterFunc(l.cfg.GreetingDelay, l.sendGreeting)
}

// sendGreeting injects a user-role turn so the agent speaks first.
func (l *Leg) sendGreeting() {
	prompt := l.cfg.GreetingPrompt
	if prompt == "" {
		prompt = "Greet the caller."
	}
	msg := clientMessage{ClientContent: &clientContent{
		Turns:        []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
		TurnComplete: true,
	}}

	l.mu.Lock()
	if l.closed || l.greetingSent {
		l.mu.Unlock()
		return
	}
	l.greetingSent = true
	l.mu.Unlock()

	if err := l.writeJSON(msg); err != nil {
		l.log.Warn("greeting send failed", "err", err)
	}
}

// SendAudio forwards one PCM16 @ 16 kHz frame of caller audio.
func (l *Leg) SendAudio(pcm []byte) error {
	return l.writeJSON(clientMessage{RealtimeInput: &realtimeInput{
		Audio: &InlineData{
			MimeType: mimePCM16k,
			Data:     base64.StdEncoding.EncodeToString(pcm),
		},
	}})
}

// SendToolResponse acknowledges a tool-call batch, in batch order.
func (l *Leg) SendToolResponse(resps []FunctionResponse) error {
	return l.writeJSON(clientMessage{ToolResponse: &toolResponse{FunctionResponses: resps}})
}

func (l *Leg) writeJSON(msg clientMessage) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.conn == nil {
		return ErrLegClosed
	}
	return l.conn.WriteJSON(msg)
}

// Close tears the leg down. Safe to call more than once.
func (l *Leg) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	if l.greetTimer != nil {
		l.greetTimer.Stop()
		l.greetTimer = nil
	}
	conn := l.conn
	l.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}
