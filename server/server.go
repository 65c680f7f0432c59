package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tavolagames/tavola/protocol"
)

// inboundQueueSize bounds how many unpolled events the server buffers
const inboundQueueSize = 256

var ErrRecipientOffline = errors.New("recipient has no open connection")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// InboundFrame is what a connected client sends: either a chat line or
// the echo of a pressed button's data token.
type InboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"`
}

// OutboundFrame is a message pushed to a client. Edit marks that the
// frame supersedes the previous frame with the same ID.
type OutboundFrame struct {
	ID       string              `json:"id"`
	Edit     bool                `json:"edit,omitempty"`
	Text     string              `json:"text"`
	Keyboard [][]protocol.Button `json:"keyboard,omitempty"`
}

// Server binds the registry's transport contract to websockets: one
// connection per player, inbound frames queued for Poll, outbound frames
// addressed by message id so an edit replaces an earlier one in place.
type Server struct {
	baseURL string
	log     *logrus.Logger

	mu     sync.Mutex
	conns  map[string]*websocket.Conn
	nextID int64

	inbound chan protocol.Event
}

// New constructs a Server. baseURL is what join links point at.
func New(baseURL string, log *logrus.Logger) *Server {
	return &Server{
		baseURL: baseURL,
		log:     log,
		conns:   map[string]*websocket.Conn{},
		inbound: make(chan protocol.Event, inboundQueueSize),
	}
}

// Handler returns the HTTP surface: the websocket endpoint plus a health
// check, wrapped in logging and panic recovery middleware.
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.Handle("/ws", http.HandlerFunc(s.handleWS))
	router.Handle("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	}))
	return handlers.RecoveryHandler()(handlers.LoggingHandler(s.log.Writer(), router))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	name := r.URL.Query().Get("name")
	if playerID == "" {
		http.Error(w, "player_id is required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Error("websocket upgrade failed")
		return
	}
	s.register(playerID, conn)
	defer s.unregister(playerID, conn)

	from := protocol.Player{ID: playerID, Name: name}
	for {
		var frame InboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).WithField("player", playerID).Warn("websocket closed unexpectedly")
			}
			return
		}
		if event, ok := frameToEvent(frame, from); ok {
			select {
			case s.inbound <- event:
			default:
				s.log.WithField("player", playerID).Warn("inbound queue full, event dropped")
			}
		}
	}
}

func frameToEvent(frame InboundFrame, from protocol.Player) (protocol.Event, bool) {
	switch frame.Type {
	case "text":
		return protocol.Event{Kind: protocol.EventText, From: from, Text: frame.Text}, true
	case "button":
		parts := strings.SplitN(frame.Data, ":", 2)
		event := protocol.Event{Kind: protocol.EventButton, From: from, Command: parts[0]}
		if len(parts) == 2 {
			event.Arg = parts[1]
		}
		return event, true
	}
	return protocol.Event{}, false
}

// Poll drains and returns every event received since the last call
func (s *Server) Poll() []protocol.Event {
	events := []protocol.Event{}
	for {
		select {
		case event := <-s.inbound:
			events = append(events, event)
		default:
			return events
		}
	}
}

// Send delivers a message to its recipient's connection and returns the
// id a later Edit can refer to
func (s *Server) Send(msg protocol.Message) (protocol.MessageID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := protocol.MessageID(strconv.FormatInt(s.nextID, 10))
	return id, s.write(msg, OutboundFrame{ID: string(id), Text: msg.Text, Keyboard: msg.Keyboard})
}

// Edit replaces a previously sent message in place. The id is stable, so
// the caller can keep using it.
func (s *Server) Edit(id protocol.MessageID, msg protocol.Message) (protocol.MessageID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return id, s.write(msg, OutboundFrame{ID: string(id), Edit: true, Text: msg.Text, Keyboard: msg.Keyboard})
}

// JoinLink is the deep link other players follow to join a session
func (s *Server) JoinLink(token string) string {
	return fmt.Sprintf("%s?start=%s", s.baseURL, token)
}

// write must be called with the mutex held: gorilla connections do not
// allow concurrent writers, and session workers send in parallel.
func (s *Server) write(msg protocol.Message, frame OutboundFrame) error {
	conn, ok := s.conns[msg.PlayerID]
	if !ok {
		return ErrRecipientOffline
	}
	return conn.WriteJSON(frame)
}

func (s *Server) register(playerID string, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.conns[playerID]; ok {
		prev.Close()
	}
	s.conns[playerID] = conn
	s.log.WithField("player", playerID).Info("player connected")
}

func (s *Server) unregister(playerID string, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[playerID] == conn {
		delete(s.conns, playerID)
	}
	conn.Close()
	s.log.WithField("player", playerID).Info("player disconnected")
}
