package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = eventsPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	// Origins are enforced by the CORS configuration of the HTTP routes;
	// the event stream carries no private data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleEvents streams index events over a websocket. The first message is
// an EventsInit snapshot, followed by realtime.Event values as they happen.
func (s *Server) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("websocket upgrade: %v", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// Register before the snapshot so no event falls in between.
	id, events := s.hub.Register()
	defer s.hub.Unregister(id)

	snapshot := EventsInit{Type: "init"}
	if s.reindexer != nil {
		status := s.reindexer.Status()
		snapshot.Reindexing = status.Current != nil
		snapshot.Current = jobResponse(status.Current)
		snapshot.Last = jobResponse(status.Last)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
	if err := conn.WriteJSON(snapshot); err != nil {
		logger.Debugf("websocket write init: %v", err)
		return
	}

	// Drain client messages so close frames and pongs are processed.
	closed := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debugf("websocket read: %v", err)
				}
				return
			}
		}
	}()

	ping := time.NewTicker(eventsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debugf("websocket write: %v", err)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
