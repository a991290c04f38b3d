package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTypedAndWatchClose(t *testing.T) {
	closed := make(chan struct{})
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		done := WatchClose(conn)
		_ = WriteTyped(conn, SubscribedMessage{Event: EventSubscribed, ClassID: 3})
		_ = WriteError(conn, "boom")

		select {
		case <-done:
			close(closed)
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	var hello SubscribedMessage
	require.NoError(t, client.ReadJSON(&hello))
	assert.Equal(t, EventSubscribed, hello.Event)
	assert.Equal(t, 3, hello.ClassID)

	var failure ErrorMessage
	require.NoError(t, client.ReadJSON(&failure))
	assert.Equal(t, EventError, failure.Event)
	assert.Equal(t, "boom", failure.Error)

	require.NoError(t, client.Close())

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not notice the client going away")
	}
}
