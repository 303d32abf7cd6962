package uisync

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketHub_ReplaysLatestOnConnect(t *testing.T) {
	hub := NewWebSocketHub()
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	require.NoError(t, hub.Publish(context.Background(), []byte(`{"seq":1}`)))
	require.NoError(t, hub.Publish(context.Background(), []byte(`{"seq":2}`)))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"seq":2}`, string(msg))
}

func TestWebSocketHub_BroadcastReachesClient(t *testing.T) {
	hub := NewWebSocketHub()
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	// No replay before the first publish; the first read is the broadcast.
	// Publishing retries until the read loop has registered the client.
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		assert.NoError(t, err)
		assert.Equal(t, `{"seq":1}`, string(msg))
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, hub.Publish(context.Background(), []byte(`{"seq":1}`)))
		select {
		case <-done:
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
	t.Fatal("client never received the broadcast")
}

// Connect handling must never race the broadcast path: the replay write and
// client registration happen atomically with respect to Publish, so a conn is
// only ever written by one goroutine at a time.
func TestWebSocketHub_ConcurrentConnectAndPublish(t *testing.T) {
	hub := NewWebSocketHub()
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	require.NoError(t, hub.Publish(context.Background(), []byte(`{"seq":0}`)))

	stop := make(chan struct{})
	var publisher sync.WaitGroup
	publisher.Add(1)
	go func() {
		defer publisher.Done()
		for i := 1; ; i++ {
			select {
			case <-stop:
				return
			default:
				_ = hub.Publish(context.Background(), []byte(fmt.Sprintf(`{"seq":%d}`, i)))
			}
		}
	}()

	const numClients = 50
	errs := make(chan error, numClients)
	var clients sync.WaitGroup
	for i := 0; i < numClients; i++ {
		clients.Add(1)
		go func() {
			defer clients.Done()
			conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
			if err != nil {
				errs <- err
				return
			}
			defer conn.Close()
			if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
				errs <- err
				return
			}
			// Each client gets the replay plus live broadcasts as whole frames.
			for j := 0; j < 3; j++ {
				if _, _, err := conn.ReadMessage(); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	clients.Wait()
	close(stop)
	publisher.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("client error: %v", err)
	}
}
