package entity

const EmptyCell = ""

// Room holds the authoritative state of one match: the ordered players
// (join order is turn order), the board, whose turn it is, the round
// outcome and the running score per player token.
type Room struct {
	Code               string
	Players            []*Player
	Board              [9]string
	CurrentPlayerIndex int
	Winner             *Player
	IsDraw             bool
	Scores             map[string]int
}

func NewRoom(code string) *Room {
	return &Room{
		Code:   code,
		Scores: make(map[string]int),
	}
}

// CurrentPlayer - returns the player whose turn it is, or nil when the
// room has no registered players yet.
func (that *Room) CurrentPlayer() *Player {
	if len(that.Players) == 0 {
		return nil
	}

	return that.Players[that.CurrentPlayerIndex]
}

func (that *Room) FindPlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

// HasSymbol - reports whether any registered player already uses the
// exact symbol value.
func (that *Room) HasSymbol(symbol string) bool {
	for _, player := range that.Players {
		if player.Symbol == symbol {
			return true
		}
	}

	return false
}

// AddPlayer - appends a player to the turn order and opens their score at 0.
func (that *Room) AddPlayer(player *Player) {
	that.Players = append(that.Players, player)
	that.Scores[player.ID] = 0
}

// RemovePlayer - drops the player with the given id, along with their score,
// and clamps the turn index into the shortened range. It is a no-op for an
// unregistered id.
func (that *Room) RemovePlayer(id string) {
	for i, player := range that.Players {
		if player.ID != id {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)
		delete(that.Scores, id)

		if len(that.Players) > 0 {
			that.CurrentPlayerIndex %= len(that.Players)
		} else {
			that.CurrentPlayerIndex = 0
		}

		return
	}
}

// AdvanceTurn - moves the turn to the next player in join order.
func (that *Room) AdvanceTurn() {
	if len(that.Players) == 0 {
		return
	}

	that.CurrentPlayerIndex = (that.CurrentPlayerIndex + 1) % len(that.Players)
}

// IsRoundOver - the board is frozen once a winner or a draw is recorded.
func (that *Room) IsRoundOver() bool {
	return that.Winner != nil || that.IsDraw
}

func (that *Room) clearBoard() {
	that.Board = [9]string{}
	that.Winner = nil
	that.IsDraw = false
}

// StartNextRound - clears the round state and rotates the starting player,
// so the player who did not open the previous round opens this one.
// Scores are untouched.
func (that *Room) StartNextRound() {
	that.clearBoard()
	that.AdvanceTurn()
}

// ResetMatch - clears the round state, hands the opening turn back to the
// first player and zeroes every score.
func (that *Room) ResetMatch() {
	that.clearBoard()
	that.CurrentPlayerIndex = 0

	for id := range that.Scores {
		that.Scores[id] = 0
	}
}
