package orderControllers

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopcore/shop-api/models"
)

func waitForClients(t *testing.T, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		wsMu.Lock()
		n := len(wsClients)
		wsMu.Unlock()
		if n == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d connected clients", want)
}

// drainClients waits for handlers of a previous test's connections to exit so
// the shared client set starts empty.
func drainClients(t *testing.T) {
	t.Helper()
	waitForClients(t, 0)
}

// Broadcasting from several checkout goroutines while clients connect and
// disconnect must neither corrupt the client set nor interleave writes on a
// single connection.
func TestOrderFeedConcurrentBroadcast(t *testing.T) {
	drainClients(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/ws", OrderWebSocketHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/orders/ws"

	const (
		clients      = 8
		broadcasters = 4
		perGoroutine = 50
	)

	conns := make([]*websocket.Conn, 0, clients)
	for i := 0; i < clients; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("dial client %d: %v", i, err)
		}
		defer conn.Close()
		conns = append(conns, conn)
	}
	waitForClients(t, clients)

	var readers sync.WaitGroup
	for i, conn := range conns {
		readers.Add(1)
		go func(i int, conn *websocket.Conn) {
			defer readers.Done()
			conn.SetReadDeadline(time.Now().Add(10 * time.Second))
			for j := 0; j < broadcasters*perGoroutine; j++ {
				if _, _, err := conn.ReadMessage(); err != nil {
					t.Errorf("client %d: read %d: %v", i, j, err)
					return
				}
			}
		}(i, conn)
	}

	var writers sync.WaitGroup
	for i := 0; i < broadcasters; i++ {
		writers.Add(1)
		go func() {
			defer writers.Done()
			for j := 0; j < perGoroutine; j++ {
				broadcastNewOrder(models.Order{ID: uint(j + 1), UserID: "user-1", Total: 24.5})
			}
		}()
	}
	writers.Wait()
	readers.Wait()

	// Every client survived all broadcasts, so none was dropped.
	wsMu.Lock()
	remaining := len(wsClients)
	wsMu.Unlock()
	if remaining != clients {
		t.Errorf("expected %d connected clients after broadcast, got %d", clients, remaining)
	}
}

func TestOrderFeedDropsHungUpClient(t *testing.T) {
	drainClients(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/ws", OrderWebSocketHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/orders/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForClients(t, 1)

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		broadcastNewOrder(models.Order{ID: 1})
		wsMu.Lock()
		n := len(wsClients)
		wsMu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("hung-up client was never dropped from the feed")
}
