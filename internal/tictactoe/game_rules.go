package tictactoe

import (
	"github.com/gridparty/gridparty-backend/internal/apperror"
	"github.com/gridparty/gridparty-backend/internal/entity"
)

// WinCombos - the 8 winning lines: 3 rows, 3 columns, 2 diagonals,
// checked in this fixed order.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// MoveResult classifies a successfully applied move.
type MoveResult int

const (
	MoveContinues MoveResult = iota
	MoveWins
	MoveDraws
)

// DetectWinner - returns the symbol occupying the first fully matched line,
// or entity.EmptyCell when no line is complete. Pure, constant work.
func DetectWinner(board [9]string) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

// IsBoardFull - reports whether every cell is occupied.
func IsBoardFull(board [9]string) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// ApplyMove - validates and applies one move for the given player.
// On a win the room's winner is recorded; on a draw the draw flag is set;
// otherwise the turn passes to the next player in join order.
func ApplyMove(room *entity.Room, player *entity.Player, cell int) (MoveResult, error) {
	if err := validateMove(room, player, cell); err != nil {
		return MoveContinues, err
	}

	room.Board[cell] = player.Symbol

	switch {
	case DetectWinner(room.Board) != entity.EmptyCell:
		room.Winner = player
		return MoveWins, nil
	case IsBoardFull(room.Board):
		room.IsDraw = true
		return MoveDraws, nil
	default:
		room.AdvanceTurn()
		return MoveContinues, nil
	}
}

// validateMove - checks if the move is valid.
func validateMove(room *entity.Room, player *entity.Player, cell int) error {
	if cell < 0 || cell >= len(room.Board) {
		return apperror.ErrInvalidCell
	}

	if room.IsRoundOver() {
		return apperror.ErrRoundFinished
	}

	current := room.CurrentPlayer()
	if current == nil || current.ID != player.ID {
		return apperror.ErrNotYourTurn
	}

	if room.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}
