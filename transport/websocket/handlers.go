package websocket

import (
	"encoding/json"

	"github.com/gridparty/gridparty-backend/internal/protocol"
)

func (that *Server) handleCreateGame(connID string, _ json.RawMessage) []protocol.Outbound {
	return that.dispatcher.CreateRoom(connID)
}

func (that *Server) handleJoinGame(connID string, raw json.RawMessage) []protocol.Outbound {
	var payload protocol.JoinGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Debug("dropping malformed JOIN_GAME payload", "error", err)
		return nil
	}

	return that.dispatcher.JoinRoom(connID, payload.GameID)
}

func (that *Server) handleSetPlayerInfo(connID string, raw json.RawMessage) []protocol.Outbound {
	var payload protocol.SetPlayerInfoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Debug("dropping malformed SET_PLAYER_INFO payload", "error", err)
		return nil
	}

	return that.dispatcher.SetPlayerInfo(connID, payload)
}

func (that *Server) handleMakeMove(connID string, raw json.RawMessage) []protocol.Outbound {
	var payload protocol.MakeMovePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Debug("dropping malformed MAKE_MOVE payload", "error", err)
		return nil
	}

	return that.dispatcher.MakeMove(connID, payload)
}

func (that *Server) handleNextRound(connID string, raw json.RawMessage) []protocol.Outbound {
	var payload protocol.RoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Debug("dropping malformed NEXT_ROUND payload", "error", err)
		return nil
	}

	return that.dispatcher.NextRound(connID, payload.GameID)
}

func (that *Server) handleResetMatch(connID string, raw json.RawMessage) []protocol.Outbound {
	var payload protocol.RoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Debug("dropping malformed RESET_MATCH payload", "error", err)
		return nil
	}

	return that.dispatcher.ResetMatch(connID, payload.GameID)
}
