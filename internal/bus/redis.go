package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gridparty/gridparty-backend/internal/protocol"
)

// Frame is the envelope mirrored between instances. NodeID lets a node
// recognize and drop its own publications, since redis pattern subscriptions
// echo them back.
type Frame struct {
	RoomCode string           `json:"roomCode"`
	NodeID   string           `json:"nodeId"`
	Message  protocol.Message `json:"message"`
}

// RoomBus mirrors room broadcasts across instances over redis pub/sub, one
// channel per room code. Connections for a room may live on any instance;
// the bus carries the snapshot, each instance delivers to its local
// subscribers. Local delivery never depends on the bus.
type RoomBus struct {
	logger *slog.Logger
	client *redis.Client
	nodeID string
}

// New - connects to redis and verifies connectivity.
func New(ctx context.Context, logger *slog.Logger, addr string) (*RoomBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RoomBus{
		logger: logger.With("component", "bus"),
		client: client,
		nodeID: uuid.NewString(),
	}, nil
}

// Publish - mirrors one room broadcast to peer instances. Fire-and-forget:
// a publish failure is logged, never surfaced to the state machine.
func (that *RoomBus) Publish(roomCode string, msg protocol.Message) {
	frame := Frame{
		RoomCode: roomCode,
		NodeID:   that.nodeID,
		Message:  msg,
	}

	raw, err := json.Marshal(frame)
	if err != nil {
		that.logger.Error("failed to marshal bus frame", "error", err)
		return
	}

	if err = that.client.Publish(context.Background(), channel(roomCode), raw).Err(); err != nil {
		that.logger.Error("failed to publish bus frame", "roomCode", roomCode, "error", err)
	}
}

// Subscribe - listens on all room channels and invokes fn for every frame
// published by a peer instance. Own frames are dropped. Blocks until the
// context is cancelled.
func (that *RoomBus) Subscribe(ctx context.Context, fn func(roomCode string, msg protocol.Message)) {
	pubsub := that.client.PSubscribe(ctx, channel("*"))
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			if err := pubsub.Close(); err != nil {
				that.logger.Error("failed to close subscription", "error", err)
			}
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var frame Frame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				that.logger.Error("failed to unmarshal bus frame", "error", err)
				continue
			}

			if frame.NodeID == that.nodeID || frame.RoomCode == "" {
				continue
			}

			fn(frame.RoomCode, frame.Message)
		}
	}
}

func (that *RoomBus) Close() error {
	if err := that.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// channel namespacing for room pub/sub.
func channel(roomCode string) string {
	return "room:" + roomCode
}
