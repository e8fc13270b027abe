package apperror

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrSymbolTaken   = errors.New("symbol already taken")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrRoundFinished = errors.New("round is already finished")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrUnknownPlayer = errors.New("player is not registered in the room")
)
