package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mithrel/mdpreview/internal/preview"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// The zero CheckOrigin only accepts same-origin upgrades.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// handleWS gives each connection its own session. Every text message is a
// render request; every reply carries a revision from the server-wide clock,
// so it orders against /api/render replies too. Pings keep idle connections
// inside the read deadline.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	sess := preview.NewSessionWithClock(s.engine, s.cfg.Options, "", s.log, s.clock)
	s.log.Debug("websocket client connected", "remote", r.RemoteAddr)
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				s.log.Debug("websocket read ended", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		if typ != websocket.TextMessage {
			continue
		}
		req, err := decodeRequest(bytes.NewReader(data))
		if err != nil {
			if werr := s.writeWS(conn, preview.Result{Error: "bad request"}); werr != nil {
				return
			}
			continue
		}
		if err := s.writeWS(conn, sess.Update(req.Source, req.options())); err != nil {
			s.log.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, res preview.Result) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(res)
}

// pingLoop pings conn until done is closed or a ping fails. WriteControl is
// safe to call alongside the reply writer.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				s.log.Debug("websocket ping failed", "error", err)
				return
			}
		}
	}
}
