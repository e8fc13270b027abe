package registry

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"

	"github.com/gridparty/gridparty-backend/internal/apperror"
	"github.com/gridparty/gridparty-backend/internal/entity"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 6
)

// connState is the weak association the core keeps per connection: which
// room it subscribed to and which player token it was handed. The transport
// owns the connection itself.
type connState struct {
	roomCode    string
	playerToken string
}

// Registry is the process-scoped source of truth for rooms and the
// connection sets subscribed to them. Nothing is persisted; a room lives
// exactly as long as its last connection.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
	subs  map[string]map[string]struct{} // roomCode -> set of connIDs
	conns map[string]*connState          // connID -> association
}

func New() *Registry {
	return &Registry{
		rooms: make(map[string]*entity.Room),
		subs:  make(map[string]map[string]struct{}),
		conns: make(map[string]*connState),
	}
}

// CreateRoom - initializes an empty room under a fresh code and registers
// an empty connection set for it.
func (that *Registry) CreateRoom() *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	code := that.generateCode()
	room := entity.NewRoom(code)

	that.rooms[code] = room
	that.subs[code] = make(map[string]struct{})

	return room
}

// GetRoom - case-insensitive lookup by room code.
func (that *Registry) GetRoom(code string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

// AddConnection - subscribes a connection to a room's broadcasts.
func (that *Registry) AddConnection(code, connID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	code = strings.ToUpper(code)

	set, ok := that.subs[code]
	if !ok {
		return apperror.ErrRoomNotFound
	}

	set[connID] = struct{}{}
	that.conns[connID] = &connState{roomCode: code}

	return nil
}

// BindPlayer - records which player token was issued to a connection, so a
// later disconnect can drop the right player.
func (that *Registry) BindPlayer(connID, playerToken string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if state, ok := that.conns[connID]; ok {
		state.playerToken = playerToken
	}
}

// Lookup - returns the (roomCode, playerToken) association of a connection.
func (that *Registry) Lookup(connID string) (string, string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	state, ok := that.conns[connID]
	if !ok {
		return "", "", false
	}

	return state.roomCode, state.playerToken, true
}

// Connections - the connIDs currently subscribed to a room.
func (that *Registry) Connections(code string) []string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	set := that.subs[strings.ToUpper(code)]

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}

	return ids
}

// RemoveConnection - drops a connection from its room. When the room's last
// connection leaves, the room and its connection set are deleted outright:
// no grace period, no persistence. Reports whether the room was deleted.
func (that *Registry) RemoveConnection(connID string) (roomDeleted bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	state, ok := that.conns[connID]
	if !ok {
		return false
	}

	delete(that.conns, connID)

	set, ok := that.subs[state.roomCode]
	if !ok {
		return false
	}

	delete(set, connID)

	if len(set) == 0 {
		delete(that.subs, state.roomCode)
		delete(that.rooms, state.roomCode)
		return true
	}

	return false
}

// generateCode - short human-typeable uppercase code, regenerated on the
// rare collision with a live room. Caller holds the lock.
func (that *Registry) generateCode() string {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
			if err != nil {
				panic(err)
			}
			buf[i] = codeCharset[n.Int64()]
		}

		code := string(buf)
		if _, exists := that.rooms[code]; !exists {
			return code
		}
	}
}
