package devtool

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/statekit-dev/statekit/pkg/store"
)

// defaultHistory is how many recent dispatch events a new client receives.
const defaultHistory = 100

// MessageType identifies an inspector message.
type MessageType string

const (
	// MessageTypeHello is sent once on connect with the current state and
	// the recent dispatch history.
	MessageTypeHello MessageType = "hello"

	// MessageTypeDispatch is sent for every dispatch observed on the store.
	MessageTypeDispatch MessageType = "dispatch"

	// MessageTypeListeners is sent when the store's listener count changes.
	MessageTypeListeners MessageType = "listeners"
)

// Message is the wire format sent to inspector clients.
type Message struct {
	Type      MessageType     `json:"type"`
	State     store.State     `json:"state,omitempty"`
	Recent    []DispatchEvent `json:"recent,omitempty"`
	Dispatch  *DispatchEvent  `json:"dispatch,omitempty"`
	Listeners int             `json:"listeners,omitempty"`
}

// DispatchEvent is the JSON form of a store.DispatchRecord.
type DispatchEvent struct {
	Seq        uint64    `json:"seq"`
	Action     string    `json:"action"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	Time       time.Time `json:"time"`
}

// Server is the inspector. It implements store.Observer; attach it with
// store.WithObserver (or via devtool.New's store argument, which is used
// for the /state endpoint).
type Server struct {
	store  *store.Store
	logger *zap.Logger

	upgrader websocket.Upgrader
	metrics  http.Handler

	mu       sync.RWMutex
	clients  map[string]*websocket.Conn
	recent   []DispatchEvent
	history  int
	listener int

	// sendMu serializes all websocket writes; gorilla conns allow only
	// one concurrent writer.
	sendMu sync.Mutex
}

// ServerOption configures the inspector.
type ServerOption func(*Server)

// WithLogger sets the inspector's logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistory sets how many recent dispatch events are kept and replayed
// to newly connected clients. Default is 100.
func WithHistory(n int) ServerOption {
	return func(s *Server) {
		if n >= 0 {
			s.history = n
		}
	}
}

// WithMetricsHandler replaces the /metrics handler. Default is
// promhttp.Handler() on the default registry.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		if h != nil {
			s.metrics = h
		}
	}
}

// New creates an inspector for the given store.
func New(st *store.Store, opts ...ServerOption) *Server {
	s := &Server{
		store:   st,
		logger:  zap.NewNop(),
		clients: make(map[string]*websocket.Conn),
		history: defaultHistory,
		metrics: promhttp.Handler(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Dev tooling, all origins allowed
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the inspector's HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", s.handleWebSocket)
	r.Get("/state", s.handleState)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics)
	return r
}

// ObserveDispatch implements store.Observer.
func (s *Server) ObserveDispatch(rec store.DispatchRecord) {
	ev := DispatchEvent{
		Seq:        rec.Seq,
		Action:     rec.ActionID,
		DurationMS: float64(rec.Duration) / float64(time.Millisecond),
		Time:       rec.Start,
	}
	if rec.Err != nil {
		ev.Error = rec.Err.Error()
	}

	s.mu.Lock()
	s.recent = append(s.recent, ev)
	if len(s.recent) > s.history {
		s.recent = s.recent[len(s.recent)-s.history:]
	}
	s.mu.Unlock()

	s.broadcast(Message{Type: MessageTypeDispatch, Dispatch: &ev})
}

// ObserveListeners implements store.Observer.
func (s *Server) ObserveListeners(count int) {
	s.mu.Lock()
	s.listener = count
	s.mu.Unlock()

	s.broadcast(Message{Type: MessageTypeListeners, Listeners: count})
}

// handleWebSocket upgrades the connection, replays recent history, and
// keeps the client registered until it disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("inspector upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()

	s.mu.Lock()
	recent := append([]DispatchEvent(nil), s.recent...)
	s.clients[id] = conn
	s.mu.Unlock()

	s.logger.Info("inspector client connected", zap.String("client", id))

	hello := Message{
		Type:   MessageTypeHello,
		State:  s.store.GetState(),
		Recent: recent,
	}
	if err := s.send(conn, hello); err != nil {
		s.drop(id, conn)
		return
	}

	// Block until the client goes away; inbound messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.drop(id, conn)
	s.logger.Info("inspector client disconnected", zap.String("client", id))
}

// handleState serves the current state snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.store.GetState()); err != nil {
		s.logger.Warn("state encode failed", zap.Error(err))
	}
}

// handleHealthz is a trivial liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// broadcast sends a message to every connected client, dropping clients
// whose connection has failed.
func (s *Server) broadcast(msg Message) {
	s.mu.RLock()
	if len(s.clients) == 0 {
		s.mu.RUnlock()
		return
	}
	clients := make(map[string]*websocket.Conn, len(s.clients))
	for id, conn := range s.clients {
		clients[id] = conn
	}
	s.mu.RUnlock()

	for id, conn := range clients {
		if err := s.send(conn, msg); err != nil {
			s.drop(id, conn)
		}
	}
}

// send writes one JSON message to a connection.
func (s *Server) send(conn *websocket.Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// drop unregisters and closes a client connection.
func (s *Server) drop(id string, conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
	conn.Close()
}

// ClientCount returns the number of connected inspector clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close closes all client connections.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, conn := range s.clients {
		conn.Close()
		delete(s.clients, id)
	}
}
