package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kilobco/sb-voice-agent/internal/agent"
	"github.com/kilobco/sb-voice-agent/internal/audio"
	"github.com/kilobco/sb-voice-agent/internal/cart"
	"github.com/kilobco/sb-voice-agent/internal/media"
	"github.com/kilobco/sb-voice-agent/internal/model"
	"github.com/kilobco/sb-voice-agent/internal/store"
	"github.com/kilobco/sb-voice-agent/pkg/logger"
)

// Session couples one telephony call to one model session. It is an actor:
// both legs and every timer enqueue typed events onto a single channel, and
// the run loop is the only goroutine that touches the cart, the lifecycle
// flags, and the transcript. The boolean check-then-act races of a shared
// object design disappear because there is exactly one reader.

// MediaSender is the outbound half of the media leg.
type MediaSender interface {
	SendAudio(streamSID string, mulaw []byte) error
	SendClear(streamSID string) error
	Close() error
}

// ModelConn is the outbound half of the model leg.
type ModelConn interface {
	SendAudio(pcm []byte) error
	SendToolResponse(resps []model.FunctionResponse) error
	Close() error
}

// ModelDialer opens the model leg. Inbound traffic is delivered to h.
type ModelDialer func(ctx context.Context, h model.Handler) (ModelConn, error)

// TransferService escalates a live call to a human.
type TransferService interface {
	Transfer(ctx context.Context, callSID, number string) error
}

type Config struct {
	Store     store.Gateway
	Transfer  TransferService
	Registry  *Registry
	DialModel ModelDialer

	RestaurantID   string
	TransferNumber string

	// TeardownGrace is how long a media-leg close waits for an in-flight
	// order write. FarewellDelay keeps the session up after a successful
	// order so the agent can read the order number back.
	TeardownGrace time.Duration
	FarewellDelay time.Duration

	PersistTimeout time.Duration

	Log   *slog.Logger
	Clock func() time.Time
}

type state int

const (
	stateInit state = iota
	stateConnecting
	stateSpeaking
	stateListening
	stateTerminating
	stateClosed
)

type eventKind int

const (
	evMediaStart eventKind = iota
	evMediaFrame
	evMediaStop
	evMediaClosed
	evModelDialed
	evModelDialFailed
	evModelOpen
	evModelAudio
	evModelTranscript
	evModelInterrupted
	evModelTurnComplete
	evModelToolCall
	evModelClosed
	evOrderResult
	evFarewellTimer
	evGraceTimer
	evTerminate
)

type event struct {
	kind      eventKind
	start     media.Start
	payload   []byte
	text      string
	calls     []model.FunctionCall
	conn      ModelConn
	err       error
	resp      model.FunctionResponse
	clearCart bool
}

// toolBatch tracks one inbound toolCall batch. Responses go back in call
// order in a single sendToolResponse; an async completeOrder suspends the
// batch until its result event arrives.
type toolBatch struct {
	calls     []model.FunctionCall
	responses []model.FunctionResponse
	idx       int
}

type Session struct {
	cfg      Config
	log      *slog.Logger
	mediaLeg MediaSender

	events chan event
	done   chan struct{}

	// Everything below is owned by the run loop.
	st              state
	callSID         string
	streamSID       string
	callerPhone     string
	restaurantPhone string

	callRec     store.CallRecord
	haveCallRec bool

	cart       *cart.Cart
	router     *agent.Router
	modelLeg   ModelConn
	transcript strings.Builder

	agentSpeaking      bool
	toolCallInProgress bool
	wasInterrupted     bool
	orderInProgress    bool
	transferTriggered  bool

	pendingBatch *toolBatch
	pendingClose bool
	closeCause   error

	farewellTimer *time.Timer
	graceTimer    *time.Timer

	framesIn  int
	framesOut int
}

// New creates a session for a freshly upgraded media socket and starts its
// loop. Identity arrives later with the start event.
func New(cfg Config, mediaLeg MediaSender) *Session {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.TeardownGrace <= 0 {
		cfg.TeardownGrace = 8 * time.Second
	}
	if cfg.FarewellDelay <= 0 {
		cfg.FarewellDelay = 22 * time.Second
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 5 * time.Second
	}

	s := &Session{
		cfg:      cfg,
		log:      cfg.Log,
		mediaLeg: mediaLeg,
		events:   make(chan event, 256),
		done:     make(chan struct{}),
		st:       stateInit,
	}
	s.cart = cart.New(cfg.Log)
	go s.run()
	return s
}

// Done closes when the session has fully torn down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Terminate asks the session to run its close path (graceful shutdown).
func (s *Session) Terminate() { s.post(event{kind: evTerminate}) }

func (s *Session) post(ev event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// --- media.Handler: called from the media leg's read goroutine ---

func (s *Session) OnStart(start media.Start) { s.post(event{kind: evMediaStart, start: start}) }
func (s *Session) OnMedia(payload []byte)    { s.post(event{kind: evMediaFrame, payload: payload}) }
func (s *Session) OnStop()                   { s.post(event{kind: evMediaStop}) }
func (s *Session) OnClosed(err error)        { s.post(event{kind: evMediaClosed, err: err}) }

// --- model.Handler adapter: called from the model leg's read goroutine ---

type modelHandler struct{ s *Session }

func (h modelHandler) OnOpen()                  { h.s.post(event{kind: evModelOpen}) }
func (h modelHandler) OnAudio(pcm []byte)       { h.s.post(event{kind: evModelAudio, payload: pcm}) }
func (h modelHandler) OnTranscript(text string) { h.s.post(event{kind: evModelTranscript, text: text}) }
func (h modelHandler) OnInterrupted()           { h.s.post(event{kind: evModelInterrupted}) }
func (h modelHandler) OnTurnComplete()          { h.s.post(event{kind: evModelTurnComplete}) }
func (h modelHandler) OnToolCall(c []model.FunctionCall) {
	h.s.post(event{kind: evModelToolCall, calls: c})
}
func (h modelHandler) OnClosed(err error) { h.s.post(event{kind: evModelClosed, err: err}) }

// --- run loop ---

func (s *Session) run() {
	for ev := range s.events {
		s.handle(ev)
		if s.st == stateClosed {
			return
		}
	}
}

func (s *Session) handle(ev event) {
	switch ev.kind {
	case evMediaStart:
		s.onStart(ev.start)
	case evMediaFrame:
		s.onCallerAudio(ev.payload)
	case evMediaStop:
		s.requestClose(nil)
	case evMediaClosed:
		s.requestClose(ev.err)
	case evModelDialed:
		s.onModelDialed(ev.conn)
	case evModelDialFailed:
		s.log.Error("model dial failed", "err", ev.err)
		s.requestClose(ev.err)
	case evModelOpen:
		if s.st == stateConnecting {
			s.st = stateSpeaking
		}
	case evModelAudio:
		s.onModelAudio(ev.payload)
	case evModelTranscript:
		s.transcript.WriteString(ev.text)
	case evModelInterrupted:
		s.onInterrupted()
	case evModelTurnComplete:
		s.onTurnComplete()
	case evModelToolCall:
		s.onToolCall(ev.calls)
	case evModelClosed:
		if ev.err != nil && s.st != stateTerminating {
			s.log.Error("model leg closed", "err", ev.err)
			s.requestClose(ev.err)
		}
	case evOrderResult:
		s.onOrderResult(ev.resp, ev.clearCart)
	case evFarewellTimer:
		s.log.Info("farewell window elapsed")
		s.teardown()
	case evGraceTimer:
		s.log.Warn("teardown grace elapsed with order still in flight")
		s.teardown()
	case evTerminate:
		s.requestClose(nil)
	}
}

func (s *Session) onStart(start media.Start) {
	if s.st != stateInit {
		s.log.Debug("duplicate start ignored")
		return
	}
	s.callSID = start.CallSID
	s.streamSID = start.StreamSID
	s.callerPhone = start.CallerPhone
	s.restaurantPhone = start.RestaurantPhone
	s.log = logger.WithCall(s.log, s.callSID, s.streamSID)
	s.router = agent.NewRouter(s.cart, s.cfg.Store, s.cfg.RestaurantID, s.callSID, s.log)

	if s.cfg.Registry != nil {
		s.cfg.Registry.Add(s.callSID, s)
	}

	// Best-effort: the call continues even if the record insert fails.
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PersistTimeout)
	rec, err := s.cfg.Store.CreateCall(ctx, s.callSID, s.streamSID, s.callerPhone, s.restaurantPhone)
	cancel()
	if err != nil {
		s.log.Error("call record insert failed", "err", err)
	} else {
		s.callRec = rec
		s.haveCallRec = true
	}

	s.st = stateConnecting
	s.log.Info("call started", "caller", s.callerPhone)

	go func() {
		conn, err := s.cfg.DialModel(context.Background(), modelHandler{s})
		if err != nil {
			s.post(event{kind: evModelDialFailed, err: err})
			return
		}
		s.post(event{kind: evModelDialed, conn: conn})
	}()
}

func (s *Session) onModelDialed(conn ModelConn) {
	if s.st == stateTerminating || s.st == stateClosed {
		_ = conn.Close()
		return
	}
	s.modelLeg = conn
}

// onCallerAudio forwards narrowband caller audio to the model. The tool-call
// gate prevents interleaving realtime input with a pending tool response,
// which the model service treats as a protocol violation.
func (s *Session) onCallerAudio(mulaw []byte) {
	s.framesIn++
	if s.st != stateSpeaking && s.st != stateListening {
		return
	}
	if s.toolCallInProgress || s.modelLeg == nil {
		return
	}
	pcm, err := audio.MediaToModel(mulaw)
	if err != nil {
		s.log.Debug("caller frame skipped", "err", err)
		return
	}
	if err := s.modelLeg.SendAudio(pcm); err != nil {
		s.log.Debug("model send failed", "err", err)
	}
}

// onModelAudio forwards model speech to the caller. Fragments of a turn that
// was already interrupted are dropped.
func (s *Session) onModelAudio(pcm []byte) {
	if s.st != stateSpeaking && s.st != stateListening {
		return
	}
	if s.wasInterrupted {
		return
	}
	if !s.agentSpeaking {
		s.agentSpeaking = true
		s.st = stateSpeaking
	}
	mulaw, err := audio.ModelToMedia(pcm)
	if err != nil {
		s.log.Debug("model frame skipped", "err", err)
		return
	}
	s.framesOut++
	if err := s.mediaLeg.SendAudio(s.streamSID, mulaw); err != nil {
		s.log.Warn("media send failed", "err", err)
	}
}

func (s *Session) onInterrupted() {
	s.agentSpeaking = false
	s.wasInterrupted = true
	if err := s.mediaLeg.SendClear(s.streamSID); err != nil {
		s.log.Warn("clear send failed", "err", err)
	}
	s.log.Debug("barge-in, cleared outbound audio")
}

func (s *Session) onTurnComplete() {
	s.agentSpeaking = false
	s.wasInterrupted = false
	if s.st == stateSpeaking {
		s.st = stateListening
	}
	s.checkTransferPhrase()
}

// checkTransferPhrase scans the accumulated transcript for the escalation
// token. The latch fires at most once; a REST failure rolls it back so a
// normal terminal can still apply.
func (s *Session) checkTransferPhrase() {
	if s.transferTriggered || s.cfg.Transfer == nil {
		return
	}
	if !strings.Contains(s.transcript.String(), agent.TransferPhrase) {
		return
	}
	s.transferTriggered = true
	s.log.Info("transfer phrase detected", "to", s.cfg.TransferNumber)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err := s.cfg.Transfer.Transfer(ctx, s.callSID, s.cfg.TransferNumber)
	cancel()
	if err != nil {
		s.transferTriggered = false
		s.log.Error("transfer failed", "err", err)
	}
}

func (s *Session) onToolCall(calls []model.FunctionCall) {
	if s.st == stateTerminating || s.st == stateClosed {
		return
	}
	if s.pendingBatch != nil {
		s.log.Warn("tool call batch while another is pending, dropped")
		return
	}
	s.toolCallInProgress = true
	s.pendingBatch = &toolBatch{calls: calls}
	s.advanceBatch()
}

// advanceBatch dispatches calls in batch order. Synchronous tools answer on
// the loop; completeOrder snapshots the cart here and runs off-loop, parking
// the batch until its result event returns.
func (s *Session) advanceBatch() {
	b := s.pendingBatch
	for b.idx < len(b.calls) {
		call := b.calls[b.idx]

		if call.Name == "completeOrder" {
			job, resp := s.router.PrepareOrder(call)
			if job == nil {
				b.responses = append(b.responses, resp)
				b.idx++
				continue
			}
			s.orderInProgress = true
			s.log.Info("order persistence started", "items", s.cart.ItemCount())
			go func() {
				resp, clear := job.Run(context.Background())
				s.post(event{kind: evOrderResult, resp: resp, clearCart: clear})
			}()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PersistTimeout)
		resp := s.router.Dispatch(ctx, call)
		cancel()
		b.responses = append(b.responses, resp)
		b.idx++
	}
	s.finishBatch()
}

func (s *Session) finishBatch() {
	b := s.pendingBatch
	s.pendingBatch = nil
	s.toolCallInProgress = false

	if s.wasInterrupted {
		// The turn carrying this tool call was cancelled; acknowledging it
		// now would make the service close the session.
		s.wasInterrupted = false
		s.log.Debug("tool response skipped after interruption")
		return
	}
	if s.modelLeg == nil {
		return
	}
	if err := s.modelLeg.SendToolResponse(b.responses); err != nil {
		s.log.Warn("tool response send failed", "err", err)
	}
}

func (s *Session) onOrderResult(resp model.FunctionResponse, clearCart bool) {
	s.orderInProgress = false
	if clearCart {
		s.cart.Clear()
		if s.farewellTimer != nil {
			s.farewellTimer.Stop()
		}
		s.farewellTimer = time.AfterFunc(s.cfg.FarewellDelay, func() {
			s.post(event{kind: evFarewellTimer})
		})
	}

	if s.pendingBatch != nil {
		s.pendingBatch.responses = append(s.pendingBatch.responses, resp)
		s.pendingBatch.idx++
		s.advanceBatch()
	}

	if s.pendingClose && !s.orderInProgress {
		s.teardown()
	}
}

// requestClose drives the session toward terminal close. A close that lands
// while the order pipeline is running defers teardown so the write can
// finish.
func (s *Session) requestClose(cause error) {
	if s.st == stateTerminating || s.st == stateClosed {
		return
	}
	if s.closeCause == nil {
		s.closeCause = cause
	}
	if s.orderInProgress {
		if s.pendingClose {
			return
		}
		s.pendingClose = true
		s.log.Info("close deferred, order in flight")
		s.graceTimer = time.AfterFunc(s.cfg.TeardownGrace, func() {
			s.post(event{kind: evGraceTimer})
		})
		return
	}
	s.teardown()
}

// teardown runs exactly once: cart discarded, model leg closed, the one
// terminal status written, registry entry removed, socket closed.
func (s *Session) teardown() {
	if s.st == stateTerminating || s.st == stateClosed {
		return
	}
	s.st = stateTerminating

	if s.farewellTimer != nil {
		s.farewellTimer.Stop()
	}
	if s.graceTimer != nil {
		s.graceTimer.Stop()
	}

	cartSize := s.cart.ItemCount()
	s.cart.Clear()

	if s.modelLeg != nil {
		_ = s.modelLeg.Close()
	}

	s.persistTerminal()

	if s.cfg.Registry != nil && s.callSID != "" {
		s.cfg.Registry.Remove(s.callSID)
	}

	s.log.Info("session closed",
		"frames_in", s.framesIn, "frames_out", s.framesOut,
		"transcript_len", s.transcript.Len(), "cart_items", cartSize,
		"escalated", s.transferTriggered)

	_ = s.mediaLeg.Close()
	s.st = stateClosed
	close(s.done)
}

// persistTerminal applies the one terminal status: escalated wins, then
// failed when the close came from an underlying error, else completed.
// Failures are logged and swallowed; the call is already over.
func (s *Session) persistTerminal() {
	if s.callSID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PersistTimeout)
	defer cancel()

	var err error
	switch {
	case s.transferTriggered:
		err = s.cfg.Store.EscalateCall(ctx, s.callSID)
	case s.closeCause != nil:
		err = s.cfg.Store.FailCall(ctx, s.callSID, s.closeCause.Error())
	default:
		startedAt := s.callRec.StartedAt
		if !s.haveCallRec {
			startedAt = s.cfg.Clock()
		}
		err = s.cfg.Store.CompleteCall(ctx, s.callSID, startedAt)
	}
	if err != nil {
		s.log.Error("terminal status write failed", "err", err)
	}
}
