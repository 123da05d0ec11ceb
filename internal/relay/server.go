package relay

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an incoming HTTP request to a WebSocket connection and
// joins it to hub under the channel/endpoint identifiers given in the
// request's query string, mirroring the teacher's WebSocket upgrade
// handler shape (internal/handlers/websocket_handlers.go).
func ServeWS(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID := r.URL.Query().Get("channel")
		endpointID := r.URL.Query().Get("endpoint")
		if channelID == "" || endpointID == "" {
			http.Error(w, "channel and endpoint query parameters are required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("relay: upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, channelID, endpointID)
		if err := client.Join(); err != nil {
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
