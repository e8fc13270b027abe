package usecase

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/gridparty/gridparty-backend/internal/celebration"
	"github.com/gridparty/gridparty-backend/internal/entity"
	"github.com/gridparty/gridparty-backend/internal/protocol"
	"github.com/gridparty/gridparty-backend/internal/registry"
	"github.com/gridparty/gridparty-backend/internal/tictactoe"
)

const msgRoomNotFound = "Game not found."
const msgSymbolTaken = "Symbol already taken. Please choose another."

// Relay mirrors room broadcasts to peer instances. A single-node deployment
// uses NoopRelay.
type Relay interface {
	Publish(roomCode string, msg protocol.Message)
}

type NoopRelay struct{}

func (NoopRelay) Publish(string, protocol.Message) {}

// RoomManager is the room/match state machine. Each command method validates
// its input, applies at most one state transition and returns the fully
// resolved outbound messages, so transports only deliver. A single mutex
// serializes every transition; no two commands ever interleave on a room.
//
// Bad client input never fails the process: commands that miss a listed
// precondition are dropped silently, the two reportable cases answer only
// the originating connection.
type RoomManager struct {
	logger *slog.Logger

	mu          sync.Mutex
	registry    *registry.Registry
	celebration celebration.Picker
	relay       Relay
}

func NewRoomManager(logger *slog.Logger, reg *registry.Registry, picker celebration.Picker, relay Relay) *RoomManager {
	return &RoomManager{
		logger:      logger,
		registry:    reg,
		celebration: picker,
		relay:       relay,
	}
}

// CreateRoom - always succeeds: fresh room, fresh player token, the caller's
// connection subscribed to the new room.
func (that *RoomManager) CreateRoom(connID string) []protocol.Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "CreateRoom")

	room := that.registry.CreateRoom()
	playerToken := uuid.NewString()

	if err := that.registry.AddConnection(room.Code, connID); err != nil {
		log.Error("failed to subscribe creator connection", "error", err)
		return nil
	}

	that.registry.BindPlayer(connID, playerToken)

	log.Info("room created", "roomCode", room.Code)

	return []protocol.Outbound{{
		ConnID: connID,
		Message: protocol.NewMessage(protocol.TypeGameCreated, protocol.GameCreatedPayload{
			GameID:   room.Code,
			PlayerID: playerToken,
		}),
	}}
}

// JoinRoom - subscribes the connection to an existing room and hands out a
// fresh player token. No Player entity is created yet; that happens at
// SetPlayerInfo. The returned snapshot lets a late joiner render in-progress
// state immediately.
func (that *RoomManager) JoinRoom(connID, roomCode string) []protocol.Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "JoinRoom", "roomCode", roomCode)

	room, err := that.registry.GetRoom(roomCode)
	if err != nil {
		return that.errorTo(connID, msgRoomNotFound)
	}

	playerToken := uuid.NewString()

	if err = that.registry.AddConnection(room.Code, connID); err != nil {
		log.Error("failed to subscribe joining connection", "error", err)
		return that.errorTo(connID, msgRoomNotFound)
	}

	that.registry.BindPlayer(connID, playerToken)

	log.Info("connection joined room")

	return []protocol.Outbound{{
		ConnID: connID,
		Message: protocol.NewMessage(protocol.TypeJoinAccepted, protocol.JoinAcceptedPayload{
			GameID:    room.Code,
			PlayerID:  playerToken,
			GameState: protocol.Snapshot(room),
		}),
	}}
}

// SetPlayerInfo - registers a player in the room's turn order. A symbol value
// already held by another player is rejected to the caller only; a token that
// is already registered is a full no-op, whatever the payload says.
func (that *RoomManager) SetPlayerInfo(connID string, payload protocol.SetPlayerInfoPayload) []protocol.Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.registry.GetRoom(payload.GameID)
	if err != nil {
		return nil
	}

	if room.FindPlayerByID(payload.PlayerID) != nil {
		return nil
	}

	if room.HasSymbol(payload.Symbol) {
		return that.errorTo(connID, msgSymbolTaken)
	}

	room.AddPlayer(&entity.Player{
		ID:     payload.PlayerID,
		Name:   payload.Name,
		Symbol: payload.Symbol,
	})

	that.logger.Info("player registered", "method", "SetPlayerInfo", "roomCode", room.Code, "name", payload.Name)

	return that.broadcast(room, "")
}

// MakeMove - applies one move. Anything short of a fully valid move - unknown
// room, unregistered player, out of turn, occupied cell, finished round - is
// dropped without a reply, treated as a benign race rather than a client bug.
func (that *RoomManager) MakeMove(connID string, payload protocol.MakeMovePayload) []protocol.Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "MakeMove", "roomCode", payload.GameID)

	room, err := that.registry.GetRoom(payload.GameID)
	if err != nil {
		return nil
	}

	player := room.FindPlayerByID(payload.PlayerID)
	if player == nil {
		return nil
	}

	result, err := tictactoe.ApplyMove(room, player, payload.Index)
	if err != nil {
		log.Debug("move ignored", "cell", payload.Index, "reason", err)
		return nil
	}

	var memeURL string

	if result == tictactoe.MoveWins {
		room.Scores[player.ID]++

		if url, ok := that.celebration.Pick(player.Name); ok {
			memeURL = url
		}

		log.Info("round won", "winner", player.Name, "score", room.Scores[player.ID])
	}

	return that.broadcast(room, memeURL)
}

// NextRound - clears the board and rotates the opener. Scores survive.
func (that *RoomManager) NextRound(_, roomCode string) []protocol.Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.registry.GetRoom(roomCode)
	if err != nil {
		return nil
	}

	room.StartNextRound()

	return that.broadcast(room, "")
}

// ResetMatch - clears the board, hands the opener back to the first player
// and zeroes every score.
func (that *RoomManager) ResetMatch(_, roomCode string) []protocol.Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.registry.GetRoom(roomCode)
	if err != nil {
		return nil
	}

	room.ResetMatch()

	return that.broadcast(room, "")
}

// Disconnect - unsubscribes a closed connection. The room's last connection
// takes the room with it; otherwise the departed player is dropped from the
// turn order, the turn index is clamped, and the survivors get a snapshot.
func (that *RoomManager) Disconnect(connID string) []protocol.Outbound {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Disconnect")

	roomCode, playerToken, ok := that.registry.Lookup(connID)
	if !ok {
		return nil
	}

	if deleted := that.registry.RemoveConnection(connID); deleted {
		log.Info("last connection left, room deleted", "roomCode", roomCode)
		return nil
	}

	room, err := that.registry.GetRoom(roomCode)
	if err != nil {
		return nil
	}

	if playerToken != "" {
		room.RemovePlayer(playerToken)
	}

	if len(room.Players) == 0 {
		return nil
	}

	log.Info("connection left room", "roomCode", roomCode)

	return that.broadcast(room, "")
}

// broadcast - fans the room snapshot out to every subscribed connection and
// mirrors it to peer instances through the relay. Delivery is fire-and-forget;
// the transport drops frames for slow subscribers rather than blocking here.
func (that *RoomManager) broadcast(room *entity.Room, memeURL string) []protocol.Outbound {
	msg := protocol.NewMessage(protocol.TypeUpdateState, protocol.UpdateStatePayload{
		GameState: protocol.Snapshot(room),
		MemeURL:   memeURL,
	})

	connIDs := that.registry.Connections(room.Code)

	outbound := make([]protocol.Outbound, 0, len(connIDs))
	for _, connID := range connIDs {
		outbound = append(outbound, protocol.Outbound{ConnID: connID, Message: msg})
	}

	that.relay.Publish(room.Code, msg)

	return outbound
}

func (that *RoomManager) errorTo(connID, message string) []protocol.Outbound {
	return []protocol.Outbound{{
		ConnID:  connID,
		Message: protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: message}),
	}}
}
