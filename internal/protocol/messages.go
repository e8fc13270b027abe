package protocol

import (
	"encoding/json"

	"github.com/gridparty/gridparty-backend/internal/entity"
)

// Client to server message types.
const (
	TypeCreateGame    = "CREATE_GAME"
	TypeJoinGame      = "JOIN_GAME"
	TypeSetPlayerInfo = "SET_PLAYER_INFO"
	TypeMakeMove      = "MAKE_MOVE"
	TypeNextRound     = "NEXT_ROUND"
	TypeResetMatch    = "RESET_MATCH"
)

// Server to client message types.
const (
	TypeGameCreated  = "GAME_CREATED"
	TypeJoinAccepted = "JOIN_ACCEPTED"
	TypeUpdateState  = "UPDATE_STATE"
	TypeError        = "ERROR"
)

// Message is the framed envelope exchanged over the socket.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage wraps a payload struct into an envelope. Payload structs are
// server-defined, marshalling them cannot fail.
func NewMessage(msgType string, payload any) Message {
	raw, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}

	return Message{Type: msgType, Payload: raw}
}

// Outbound is one message addressed to one connection. Command dispatch
// returns a list of these so the transport only has to deliver.
type Outbound struct {
	ConnID  string
	Message Message
}

type JoinGamePayload struct {
	GameID string `json:"gameId"`
}

type SetPlayerInfoPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
}

type MakeMovePayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Index    int    `json:"index"`
}

type RoomPayload struct {
	GameID string `json:"gameId"`
}

type GameCreatedPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type JoinAcceptedPayload struct {
	GameID    string    `json:"gameId"`
	PlayerID  string    `json:"playerId"`
	GameState GameState `json:"gameState"`
}

type UpdateStatePayload struct {
	GameState GameState `json:"gameState"`
	MemeURL   string    `json:"memeUrl,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// PlayerInfo mirrors entity.Player on the wire.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// GameState is the full room snapshot broadcast to every subscriber.
// Empty cells are nulls, never empty strings.
type GameState struct {
	Board              [9]*string     `json:"board"`
	Players            []PlayerInfo   `json:"players"`
	Scores             map[string]int `json:"scores"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Winner             *PlayerInfo    `json:"winner"`
	IsDraw             bool           `json:"isDraw"`
}

// Snapshot - builds the wire snapshot from room state.
func Snapshot(room *entity.Room) GameState {
	state := GameState{
		Players:            make([]PlayerInfo, 0, len(room.Players)),
		Scores:             make(map[string]int, len(room.Scores)),
		CurrentPlayerIndex: room.CurrentPlayerIndex,
		IsDraw:             room.IsDraw,
	}

	for i, cell := range room.Board {
		if cell != entity.EmptyCell {
			symbol := cell
			state.Board[i] = &symbol
		}
	}

	for _, player := range room.Players {
		state.Players = append(state.Players, playerInfo(player))
	}

	for id, score := range room.Scores {
		state.Scores[id] = score
	}

	if room.Winner != nil {
		winner := playerInfo(room.Winner)
		state.Winner = &winner
	}

	return state
}

func playerInfo(player *entity.Player) PlayerInfo {
	return PlayerInfo{
		ID:     player.ID,
		Name:   player.Name,
		Symbol: player.Symbol,
	}
}
