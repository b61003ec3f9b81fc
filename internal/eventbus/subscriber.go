package eventbus

import (
	"sync"

	"github.com/gorilla/websocket"
)

// subscriber wraps one WebSocket connection fed by a Hub. Writes are
// serialized through a buffered channel so a slow client never blocks
// the synthesis goroutine emitting events.
type subscriber struct {
	conn   *websocket.Conn
	origin string
	outbox chan []byte
	once   sync.Once
	done   chan struct{}
}

const outboxCapacity = 64

func newSubscriber(conn *websocket.Conn, origin string, maxMessageSize int64) *subscriber {
	conn.SetReadLimit(maxMessageSize)
	return &subscriber{
		conn:   conn,
		origin: origin,
		outbox: make(chan []byte, outboxCapacity),
		done:   make(chan struct{}),
	}
}

// enqueue attempts a non-blocking send; if the subscriber's outbox is
// full it is dropped rather than letting a stalled client back up the
// whole hub. It is a no-op once the subscriber has closed.
func (s *subscriber) enqueue(payload []byte) (dropped bool) {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case s.outbox <- payload:
		return false
	default:
		return true
	}
}

// writeLoop drains the outbox to the underlying connection until the
// subscriber is closed. Run it in its own goroutine per subscriber.
func (s *subscriber) writeLoop() {
	for {
		select {
		case payload, ok := <-s.outbox:
			if !ok {
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// readLoop discards inbound messages and closes the subscriber on the
// first read error, which is how client-initiated closes are noticed.
func (s *subscriber) readLoop() {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.close()
			return
		}
	}
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
