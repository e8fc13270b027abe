package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gridparty/gridparty-backend/internal/protocol"
)

// dispatcher is the command surface of the room/match state machine. Every
// call returns fully resolved (connection, message) pairs; the server only
// delivers them.
type dispatcher interface {
	CreateRoom(connID string) []protocol.Outbound
	JoinRoom(connID, roomCode string) []protocol.Outbound
	SetPlayerInfo(connID string, payload protocol.SetPlayerInfoPayload) []protocol.Outbound
	MakeMove(connID string, payload protocol.MakeMovePayload) []protocol.Outbound
	NextRound(connID, roomCode string) []protocol.Outbound
	ResetMatch(connID, roomCode string) []protocol.Outbound
	Disconnect(connID string) []protocol.Outbound
}

// subscriptions resolves a room code to its locally connected subscribers,
// used when a peer instance relays a snapshot over the bus.
type subscriptions interface {
	Connections(roomCode string) []string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type handlerFunc func(connID string, payload json.RawMessage) []protocol.Outbound

type Server struct {
	logger     *slog.Logger
	dispatcher dispatcher
	subs       subscriptions

	handlers map[string]handlerFunc

	mu      sync.RWMutex
	clients map[string]*client
}

func New(logger *slog.Logger, d dispatcher, subs subscriptions) *Server {
	server := &Server{
		logger:     logger.With("component", "websocket"),
		dispatcher: d,
		subs:       subs,
		handlers:   make(map[string]handlerFunc),
		clients:    make(map[string]*client),
	}

	server.handlers[protocol.TypeCreateGame] = server.handleCreateGame
	server.handlers[protocol.TypeJoinGame] = server.handleJoinGame
	server.handlers[protocol.TypeSetPlayerInfo] = server.handleSetPlayerInfo
	server.handlers[protocol.TypeMakeMove] = server.handleMakeMove
	server.handlers[protocol.TypeNextRound] = server.handleNextRound
	server.handlers[protocol.TypeResetMatch] = server.handleResetMatch

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.ServeWS)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeWS - upgrades one HTTP request and runs its read loop until the
// client goes away, then raises the Disconnect command.
func (that *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeWS")

	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(uuid.NewString(), sock)
	that.register(c)

	go c.writePump()

	log.Info("connection established", "connID", c.id)

	that.readLoop(c)

	that.unregister(c)
	that.deliver(that.dispatcher.Disconnect(c.id))
	c.close()

	log.Info("connection closed", "connID", c.id)
}

func (that *Server) readLoop(c *client) {
	log := that.logger.With("method", "readLoop", "connID", c.id)

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			return
		}

		var msg protocol.Message
		if err = json.Unmarshal(raw, &msg); err != nil {
			log.Debug("dropping malformed frame", "error", err)
			continue
		}

		handler, ok := that.handlers[msg.Type]
		if !ok {
			log.Debug("dropping message of unknown type", "type", msg.Type)
			continue
		}

		that.deliver(handler(c.id, msg.Payload))
	}
}

// deliver - fans messages out to their local connections. Sends never block:
// a subscriber with a full buffer loses the frame, the rest still get theirs.
func (that *Server) deliver(outbound []protocol.Outbound) {
	for _, out := range outbound {
		raw, err := json.Marshal(out.Message)
		if err != nil {
			that.logger.Error("failed to marshal outbound message", "error", err)
			continue
		}

		that.mu.RLock()
		c, ok := that.clients[out.ConnID]
		that.mu.RUnlock()

		if !ok {
			continue
		}

		if !c.send(raw) {
			that.logger.Warn("dropped frame for slow subscriber", "connID", out.ConnID)
		}
	}
}

// DeliverToRoom - hands a relayed snapshot from a peer instance to every
// local subscriber of the room.
func (that *Server) DeliverToRoom(roomCode string, msg protocol.Message) {
	outbound := make([]protocol.Outbound, 0)
	for _, connID := range that.subs.Connections(roomCode) {
		outbound = append(outbound, protocol.Outbound{ConnID: connID, Message: msg})
	}

	that.deliver(outbound)
}

func (that *Server) register(c *client) {
	that.mu.Lock()
	that.clients[c.id] = c
	that.mu.Unlock()
}

func (that *Server) unregister(c *client) {
	that.mu.Lock()
	delete(that.clients, c.id)
	that.mu.Unlock()
}
