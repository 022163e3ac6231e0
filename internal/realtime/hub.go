package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"

	"github.com/campushq/platform/internal/interface/middleware"
)

// TopicPrefix is the well-known destination prefix; the suffix is the
// target user id.
const TopicPrefix = "/topic/notifications/"

// Frame is the wire format exchanged over the socket.
type Frame struct {
	Command     string          `json:"command"`
	UserID      string          `json:"user_id,omitempty"`     // CONNECT
	Destination string          `json:"destination,omitempty"` // SUBSCRIBE, MESSAGE
	Message     string          `json:"message,omitempty"`     // ERROR
	Body        json.RawMessage `json:"body,omitempty"`        // MESSAGE
}

const (
	CmdConnect    = "CONNECT"
	CmdConnected  = "CONNECTED"
	CmdSubscribe  = "SUBSCRIBE"
	CmdSubscribed = "SUBSCRIBED"
	CmdMessage    = "MESSAGE"
	CmdError      = "ERROR"
)

// Rejection messages surfaced in ERROR frames.
const (
	MsgIdentityRequired         = "identity required"
	MsgUnauthorizedSubscription = "unauthorized subscription"
)

// session is one live connection bound to exactly one identity. The bound
// user id is set at connect time and never changes.
type session struct {
	id     string
	userID string

	mu  sync.Mutex // serializes writes to the connection
	enc *json.Encoder
}

func (s *session) send(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(f)
}

// Hub tracks sessions and their topic subscriptions. The subscription
// table is the only shared mutable state in the real-time channel.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[string]*session // destination -> session id -> session
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{subs: make(map[string]map[string]*session), logger: logger}
}

// Handler returns the websocket endpoint handler.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

func (h *Hub) serve(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	dec := json.NewDecoder(conn)
	sess := &session{enc: json.NewEncoder(conn)}

	// Identity propagated by the gateway during the HTTP upgrade. When
	// present it overrides whatever the client claims in the CONNECT frame.
	trusted := conn.Request().Header.Get(middleware.HeaderUserID)

	// Handshake: the first frame must be CONNECT and carry an identity.
	var first Frame
	if err := dec.Decode(&first); err != nil {
		return
	}
	if first.Command != CmdConnect {
		_ = sess.send(Frame{Command: CmdError, Message: MsgIdentityRequired})
		return
	}
	userID := trusted
	if userID == "" {
		userID = first.UserID
	}
	if userID == "" || (first.UserID != "" && first.UserID != userID) {
		_ = sess.send(Frame{Command: CmdError, Message: MsgIdentityRequired})
		return
	}
	sess.id = uuid.NewString()
	sess.userID = userID
	if err := sess.send(Frame{Command: CmdConnected}); err != nil {
		return
	}
	defer h.drop(sess)

	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			return
		}
		switch f.Command {
		case CmdSubscribe:
			// A session may subscribe only to its own topic.
			if f.Destination != TopicPrefix+sess.userID {
				if h.logger != nil {
					h.logger.WithFields(logrus.Fields{
						"session_id":  sess.id,
						"bound_user":  sess.userID,
						"destination": f.Destination,
					}).Warn("unauthorized subscription rejected")
				}
				_ = sess.send(Frame{Command: CmdError, Destination: f.Destination, Message: MsgUnauthorizedSubscription})
				continue
			}
			h.subscribe(f.Destination, sess)
			_ = sess.send(Frame{Command: CmdSubscribed, Destination: f.Destination})
		default:
			_ = sess.send(Frame{Command: CmdError, Message: "unknown command"})
		}
	}
}

func (h *Hub) subscribe(dest string, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.subs[dest]
	if !ok {
		m = make(map[string]*session)
		h.subs[dest] = m
	}
	m[s.id] = s
}

func (h *Hub) drop(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for dest, m := range h.subs {
		delete(m, s.id)
		if len(m) == 0 {
			delete(h.subs, dest)
		}
	}
}

// Publish pushes body to every session subscribed to the user's topic.
// Topic addressing enforces authorization a second time: only sessions
// bound to userID could have subscribed to this destination.
func (h *Hub) Publish(userID string, body any) {
	dest := TopicPrefix + userID
	raw, err := json.Marshal(body)
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Warn("realtime payload marshal failed")
		}
		return
	}

	h.mu.RLock()
	sessions := make([]*session, 0, len(h.subs[dest]))
	for _, s := range h.subs[dest] {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if err := s.send(Frame{Command: CmdMessage, Destination: dest, Body: raw}); err != nil && h.logger != nil {
			h.logger.WithError(err).WithField("session_id", s.id).Debug("realtime push failed")
		}
	}
}
