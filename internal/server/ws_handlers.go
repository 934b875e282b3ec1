package server

import (
	"net/http"

	"github.com/CK6170/sensorcal-go/ui"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// local viewer; allow all
		return true
	},
}

func (s *Server) handleWSRuns(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ui.L().Debug("ws upgrade", "err", err)
		return
	}
	client := s.wsRuns.Add(conn)
	_ = client.Send(WSMessage{Type: "hello", Data: HelloMessage{Sensors: sensorNames(s)}})

	// Keep reading until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.wsRuns.Remove(client)
			return
		}
	}
}

func sensorNames(s *Server) []string {
	out := make([]string, len(s.params.SENSORS))
	for i, sensor := range s.params.SENSORS {
		out[i] = sensor.NAME
	}
	return out
}
