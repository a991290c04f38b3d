package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// WriteWait is the deadline for a single frame write.
	WriteWait = 10 * time.Second
	// PongWait is how long the peer may stay silent before it is considered gone.
	PongWait = 60 * time.Second
	// PingPeriod must be shorter than PongWait.
	PingPeriod = 30 * time.Second
)

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(WriteWait))
	return conn.WriteJSON(v)
}

// WriteError sends an error frame.
func WriteError(conn *websocket.Conn, msg string) error {
	return WriteTyped(conn, ErrorMessage{Event: EventError, Error: msg})
}

// WritePing sends a ping control frame.
func WritePing(conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteWait))
}

// WatchClose reads and discards client frames for a push-only stream. The
// returned channel is closed once the peer disconnects or misses a pong.
func WatchClose(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})

	conn.SetReadDeadline(time.Now().Add(PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return done
}
