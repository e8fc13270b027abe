package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_Players(t *testing.T) {
	t.Run("AddPlayer opens the score at zero in join order", func(t *testing.T) {
		// Given: an empty room
		room := NewRoom("AB12CD")

		// When: two players register
		room.AddPlayer(&Player{ID: "p1", Name: "Alice", Symbol: "X"})
		room.AddPlayer(&Player{ID: "p2", Name: "Bob", Symbol: "O"})

		// Then: join order is turn order and both scores are zero
		require.Len(t, room.Players, 2)
		assert.Equal(t, "p1", room.Players[0].ID)
		assert.Equal(t, "p2", room.Players[1].ID)
		assert.Equal(t, map[string]int{"p1": 0, "p2": 0}, room.Scores)
	})

	t.Run("CurrentPlayer is nil while nobody registered", func(t *testing.T) {
		room := NewRoom("AB12CD")

		assert.Nil(t, room.CurrentPlayer())
	})

	t.Run("HasSymbol compares by exact value", func(t *testing.T) {
		room := NewRoom("AB12CD")
		room.AddPlayer(&Player{ID: "p1", Name: "Alice", Symbol: "X"})

		assert.True(t, room.HasSymbol("X"))
		assert.False(t, room.HasSymbol("x"))
	})

	t.Run("RemovePlayer clamps the turn index into the shorter range", func(t *testing.T) {
		// Given: three players with the third one to move
		room := NewRoom("AB12CD")
		room.AddPlayer(&Player{ID: "p1", Name: "Alice", Symbol: "X"})
		room.AddPlayer(&Player{ID: "p2", Name: "Bob", Symbol: "O"})
		room.AddPlayer(&Player{ID: "p3", Name: "Carol", Symbol: "Z"})
		room.CurrentPlayerIndex = 2

		// When: the middle player leaves
		room.RemovePlayer("p2")

		// Then: the survivors keep their order and the index wraps to 0
		require.Len(t, room.Players, 2)
		assert.Equal(t, "p1", room.Players[0].ID)
		assert.Equal(t, "p3", room.Players[1].ID)
		assert.Equal(t, 0, room.CurrentPlayerIndex)
		assert.NotContains(t, room.Scores, "p2")
	})

	t.Run("RemovePlayer is a no-op for an unknown id", func(t *testing.T) {
		room := NewRoom("AB12CD")
		room.AddPlayer(&Player{ID: "p1", Name: "Alice", Symbol: "X"})

		room.RemovePlayer("ghost")

		assert.Len(t, room.Players, 1)
	})
}

func TestRoom_Rounds(t *testing.T) {
	newScoredRoom := func() *Room {
		room := NewRoom("AB12CD")
		room.AddPlayer(&Player{ID: "p1", Name: "Alice", Symbol: "X"})
		room.AddPlayer(&Player{ID: "p2", Name: "Bob", Symbol: "O"})
		room.Board[0] = "X"
		room.Winner = room.Players[0]
		room.Scores["p1"] = 3

		return room
	}

	t.Run("StartNextRound clears the board and rotates the opener", func(t *testing.T) {
		// Given: a finished round that Alice opened and won
		room := newScoredRoom()

		// When: the next round starts
		room.StartNextRound()

		// Then: the board and outcome are cleared, Bob opens, scores survive
		assert.Equal(t, [9]string{}, room.Board)
		assert.Nil(t, room.Winner)
		assert.False(t, room.IsDraw)
		assert.Equal(t, 1, room.CurrentPlayerIndex)
		assert.Equal(t, 3, room.Scores["p1"])
	})

	t.Run("ResetMatch zeroes scores and hands the opener back to the first player", func(t *testing.T) {
		// Given: a finished round with accumulated score
		room := newScoredRoom()
		room.CurrentPlayerIndex = 1

		// When: the match resets
		room.ResetMatch()

		// Then: everything starts over
		assert.Equal(t, [9]string{}, room.Board)
		assert.Nil(t, room.Winner)
		assert.Equal(t, 0, room.CurrentPlayerIndex)
		assert.Equal(t, map[string]int{"p1": 0, "p2": 0}, room.Scores)
	})
}
