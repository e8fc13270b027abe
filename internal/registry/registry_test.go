package registry

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridparty/gridparty-backend/internal/apperror"
)

func TestRegistry_CreateRoom(t *testing.T) {
	t.Run("Generates short uppercase alphanumeric codes", func(t *testing.T) {
		// Given: a fresh registry
		reg := New()

		// When: creating a batch of rooms
		codePattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
		seen := make(map[string]struct{})

		for range 50 {
			room := reg.CreateRoom()

			// Then: every code matches the format and is unique
			assert.Regexp(t, codePattern, room.Code)

			_, dup := seen[room.Code]
			assert.False(t, dup, "duplicate code %s", room.Code)
			seen[room.Code] = struct{}{}
		}
	})

	t.Run("Initializes an empty room", func(t *testing.T) {
		reg := New()

		room := reg.CreateRoom()

		assert.Empty(t, room.Players)
		assert.Equal(t, [9]string{}, room.Board)
		assert.Equal(t, 0, room.CurrentPlayerIndex)
		assert.Nil(t, room.Winner)
		assert.False(t, room.IsDraw)
		assert.Empty(t, room.Scores)
		assert.Empty(t, reg.Connections(room.Code))
	})
}

func TestRegistry_GetRoom(t *testing.T) {
	t.Run("Looks codes up case-insensitively", func(t *testing.T) {
		// Given: a registered room
		reg := New()
		created := reg.CreateRoom()

		// When: looking it up in lower case
		room, err := reg.GetRoom(strings.ToLower(created.Code))

		// Then: the same room is found
		require.NoError(t, err)
		assert.Same(t, created, room)
	})

	t.Run("Returns ErrRoomNotFound for an unknown code", func(t *testing.T) {
		reg := New()

		_, err := reg.GetRoom("NOPE99")

		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestRegistry_Connections(t *testing.T) {
	t.Run("Tracks subscriptions and player bindings per connection", func(t *testing.T) {
		// Given: a room with one subscribed connection
		reg := New()
		room := reg.CreateRoom()
		require.NoError(t, reg.AddConnection(room.Code, "conn1"))

		// When: binding a player token to it
		reg.BindPlayer("conn1", "token1")

		// Then: the association is retrievable
		roomCode, playerToken, ok := reg.Lookup("conn1")
		require.True(t, ok)
		assert.Equal(t, room.Code, roomCode)
		assert.Equal(t, "token1", playerToken)
		assert.ElementsMatch(t, []string{"conn1"}, reg.Connections(room.Code))
	})

	t.Run("AddConnection fails for an unknown room", func(t *testing.T) {
		reg := New()

		err := reg.AddConnection("NOPE99", "conn1")

		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Removing the last connection deletes the room outright", func(t *testing.T) {
		// Given: a room with two subscribed connections
		reg := New()
		room := reg.CreateRoom()
		require.NoError(t, reg.AddConnection(room.Code, "conn1"))
		require.NoError(t, reg.AddConnection(room.Code, "conn2"))

		// When: the first connection leaves
		deleted := reg.RemoveConnection("conn1")

		// Then: the room survives
		assert.False(t, deleted)
		_, err := reg.GetRoom(room.Code)
		require.NoError(t, err)

		// When: the last connection leaves
		deleted = reg.RemoveConnection("conn2")

		// Then: the room and its connection set are gone
		assert.True(t, deleted)
		_, err = reg.GetRoom(room.Code)
		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
		assert.Empty(t, reg.Connections(room.Code))
	})

	t.Run("Removing an unknown connection is a no-op", func(t *testing.T) {
		reg := New()

		assert.False(t, reg.RemoveConnection("ghost"))
	})
}

