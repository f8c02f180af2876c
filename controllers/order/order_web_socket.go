package orderControllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopcore/shop-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMu guards wsClients and serializes writes to each connection; gorilla
// connections allow only one concurrent writer.
var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]struct{})
)

func addWSClient(conn *websocket.Conn) {
	wsMu.Lock()
	wsClients[conn] = struct{}{}
	wsMu.Unlock()
}

func removeWSClient(conn *websocket.Conn) {
	wsMu.Lock()
	delete(wsClients, conn)
	wsMu.Unlock()
	conn.Close()
}

// GET /orders/ws — pushes every newly checked-out order to connected admin
// dashboards. Clients only listen; the read loop just detects hangup.
func OrderWebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	addWSClient(conn)
	defer removeWSClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// broadcastNewOrder fans a checked-out order out to every listener. A failed
// write drops that listener; its handler's read loop then ends on the closed
// connection.
func broadcastNewOrder(order models.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		log.Printf("order feed: marshal order %d: %v", order.ID, err)
		return
	}

	wsMu.Lock()
	defer wsMu.Unlock()
	for conn := range wsClients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(wsClients, conn)
			conn.Close()
		}
	}
}
