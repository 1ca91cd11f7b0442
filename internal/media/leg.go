package media

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Handler receives decoded inbound traffic. Calls are made from the leg's
// read goroutine, one at a time, in wire-arrival order.
type Handler interface {
	OnStart(s Start)
	// OnMedia delivers one decoded µ-law frame of caller audio.
	OnMedia(payload []byte)
	OnStop()
	// OnClosed fires once when the socket dies; err is nil on a clean close.
	OnClosed(err error)
}

// Leg is the framed duplex channel to the telephony provider.
//
// gorilla permits one concurrent writer, so outbound frames serialize on a
// mutex. Sends after close are skipped with a warning instead of failing the
// session: the call is already gone and the audio has nowhere to go.
type Leg struct {
	conn *websocket.Conn
	log  *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	closed  bool
	started bool
}

func NewLeg(conn *websocket.Conn, log *slog.Logger) *Leg {
	if log == nil {
		log = slog.Default()
	}
	return &Leg{conn: conn, log: log}
}

// ReadLoop pumps inbound frames into h until the socket closes. Non-JSON
// frames are discarded; malformed JSON does not terminate the leg. A media
// event before start is dropped (Twilio occasionally races them).
func (l *Leg) ReadLoop(h Handler) {
	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || l.isClosed() {
				h.OnClosed(nil)
			} else {
				h.OnClosed(err)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			l.log.Debug("media frame discarded", "err", err)
			continue
		}

		switch f.Event {
		case "start":
			if f.Start == nil {
				l.log.Debug("start frame without body")
				continue
			}
			l.mu.Lock()
			l.started = true
			l.mu.Unlock()
			h.OnStart(f.Start.toStart())

		case "media":
			if !l.hasStarted() {
				l.log.Debug("media before start dropped")
				continue
			}
			if f.Media == nil || f.Media.Payload == "" {
				continue
			}
			payload, err := base64.StdEncoding.DecodeString(f.Media.Payload)
			if err != nil {
				l.log.Debug("media payload discarded", "err", err)
				continue
			}
			h.OnMedia(payload)

		case "stop":
			h.OnStop()

		case "connected", "mark", "dtmf":
			l.log.Debug("media event ignored", "event", f.Event)

		default:
			l.log.Debug("unknown media event", "event", f.Event)
		}
	}
}

// SendAudio pushes one µ-law frame of model speech toward the caller.
func (l *Leg) SendAudio(streamSID string, mulaw []byte) error {
	return l.send(frame{
		Event:     "media",
		StreamSID: streamSID,
		Media:     &mediaFrame{Payload: base64.StdEncoding.EncodeToString(mulaw)},
	})
}

// SendClear flushes any audio Twilio has queued toward the caller. Used on
// barge-in so the agent stops talking over the human.
func (l *Leg) SendClear(streamSID string) error {
	return l.send(frame{Event: "clear", StreamSID: streamSID})
}

// SendMark asks Twilio to echo a mark once the queued audio has played.
func (l *Leg) SendMark(streamSID, name string) error {
	return l.send(frame{Event: "mark", StreamSID: streamSID, Mark: &markFrame{Name: name}})
}

func (l *Leg) send(f frame) error {
	if l.isClosed() {
		l.log.Warn("media send skipped, socket closed", "event", f.Event)
		return nil
	}
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	return l.conn.WriteJSON(f)
}

func (l *Leg) hasStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

func (l *Leg) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Close shuts the socket. Safe to call more than once.
func (l *Leg) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	return l.conn.Close()
}
