package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket upgrades the request and runs the connection as a
// hub client until the device disconnects.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // same-origin checks don't apply on the home LAN
		})
		if err != nil {
			hub.logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		client := NewClient(hub, conn)
		client.Run(r.Context())
	}
}
