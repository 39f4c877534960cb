package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/folio-agent/internal/domain"
	"github.com/PabloGalante/folio-agent/internal/observability"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

const (
	frameSubmit   = "submit"
	frameInput    = "input"
	frameSnapshot = "snapshot"
	frameRejected = "rejected"
)

type clientFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type snapshotFrame struct {
	Type string `json:"type"`
	snapshotResponse
}

type rejectedFrame struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// wsClient is one open socket on a session. Only writePump writes to conn.
type wsClient struct {
	conn    *websocket.Conn
	id      domain.SessionID
	updates <-chan domain.Snapshot
	rejects chan rejectedFrame
	log     *slog.Logger
}

// handleWebSocket streams session snapshots and accepts submit and input
// frames. It returns when the socket closes or the session ends.
func (s *Server) handleWebSocket(c echo.Context) error {
	ctx := c.Request().Context()
	id := sessionID(c)

	updates, unsubscribe, err := s.chat.Subscribe(ctx, id)
	if err != nil {
		return writeError(c, err, nil)
	}
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already answered the request
		observability.LoggerFromContext(ctx).Warn("websocket upgrade failed", "error", err)
		return nil
	}

	client := &wsClient{
		conn:    conn,
		id:      id,
		updates: updates,
		rejects: make(chan rejectedFrame, 8),
		log:     observability.LoggerFromContext(ctx).With("session_id", id),
	}
	client.log.Info("websocket connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.writePump()
	}()

	s.readPump(ctx, client)
	unsubscribe()
	<-done

	client.log.Info("websocket disconnected")
	return nil
}

// readPump reads client frames until the socket fails.
func (s *Server) readPump(ctx context.Context, client *wsClient) {
	defer client.conn.Close()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				client.log.Warn("websocket read failed", "error", err)
			}
			return
		}

		s.handleFrame(ctx, client, message)
	}
}

func (s *Server) handleFrame(ctx context.Context, client *wsClient, data []byte) {
	var frame clientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		client.reject("invalid JSON message")
		return
	}

	switch frame.Type {
	case frameSubmit:
		// a cycle can take a while; keep reading so input frames still land
		go func() {
			if _, err := s.chat.Submit(ctx, client.id, frame.Text); err != nil {
				client.reject(err.Error())
			}
		}()
	case frameInput:
		if _, err := s.chat.UpdatePendingInput(ctx, client.id, frame.Text); err != nil {
			client.reject(err.Error())
		}
	default:
		client.reject("unknown message type: " + frame.Type)
	}
}

// writePump forwards snapshots and rejections and keeps the socket alive.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case snap, ok := <-c.updates:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// session ended or the reader went away
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			frame := snapshotFrame{Type: frameSnapshot, snapshotResponse: toSnapshotResponse(snap)}
			if err := c.conn.WriteJSON(frame); err != nil {
				c.log.Warn("websocket write failed", "error", err)
				return
			}

		case frame := <-c.rejects:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				c.log.Warn("websocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reject queues a rejection frame, dropping it if the client is not keeping up.
func (c *wsClient) reject(reason string) {
	select {
	case c.rejects <- rejectedFrame{Type: frameRejected, Reason: reason}:
	default:
	}
}
