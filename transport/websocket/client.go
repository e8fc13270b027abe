package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	outBufferSize = 256
	pingInterval  = 20 * time.Second
	writeTimeout  = 10 * time.Second
)

// client wraps one upgraded connection with a buffered outbound queue, so
// broadcast fan-out never blocks on a slow reader.
type client struct {
	id   string
	sock *websocket.Conn

	out chan []byte

	closeOnce sync.Once
}

func newClient(id string, sock *websocket.Conn) *client {
	return &client{
		id:   id,
		sock: sock,
		out:  make(chan []byte, outBufferSize),
	}
}

// send - enqueues one frame without blocking. Reports false when the buffer
// is full and the frame was dropped.
func (that *client) send(raw []byte) bool {
	select {
	case that.out <- raw:
		return true
	default:
		return false
	}
}

// writePump - drains the outbound queue onto the socket and keeps the
// connection alive with periodic pings. Exits when the queue closes or a
// write fails.
func (that *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case raw, ok := <-that.out:
			if !ok {
				return
			}

			_ = that.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := that.sock.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			if err := that.sock.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.out)
		_ = that.sock.Close()
	})
}
