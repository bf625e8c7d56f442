// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pdiddy/research-trends/internal/trend"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SubmitRequest is one form submit sent by a stream client.
type SubmitRequest struct {
	Term   string `json:"term"`
	Start  string `json:"start"`
	Finish string `json:"finish"`
}

// Frame types sent to stream clients.
const (
	FrameSession = "session"
	FrameWarning = "warning"
	FrameCleared = "cleared"
	FrameUpdate  = "update"
	FrameDone    = "done"
)

// StreamFrame is one server-to-client message.
type StreamFrame struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	Warning   string        `json:"warning,omitempty"`
	Update    *trend.Update `json:"update,omitempty"`
	Report    *trend.Report `json:"report,omitempty"`
}

// conn serialises writes; gorilla connections allow one writer at a time.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) send(f StreamFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(f); err != nil {
		slog.Warn("failed to write stream frame", "type", f.Type, "error", err)
		return err
	}
	return nil
}

// handleStream keeps one trend session per connection. Every submit
// supersedes the previous one. After a cleared frame only update and done
// frames of the new search follow; both carry its generation.
func (s *Server) handleStream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()

	sessionID := uuid.New().String()
	log := slog.With("session_id", sessionID)
	log.Info("stream client connected")

	out := &conn{ws: ws}
	if err := out.send(StreamFrame{Type: FrameSession, SessionID: sessionID}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	session := trend.NewSession(s.sched, s.palette)
	defer session.Close()
	// Session hooks run under its publish lock, so cleared, update and done
	// frames of one search never interleave with those of the next.
	session.OnSubmit = func(*trend.Run) {
		out.send(StreamFrame{Type: FrameCleared})
	}
	session.OnUpdate = func(u trend.Update) {
		out.send(StreamFrame{Type: FrameUpdate, Update: &u})
	}

	for {
		var req SubmitRequest
		if err := ws.ReadJSON(&req); err != nil {
			log.Info("stream client disconnected", "error", err.Error())
			return
		}

		run, err := session.Submit(ctx, req.Start, req.Finish, req.Term)
		if err != nil {
			log.Info("submit rejected", "warning", err.Error())
			if out.send(StreamFrame{Type: FrameWarning, Warning: err.Error()}) != nil {
				return
			}
			continue
		}
		log.Info("search submitted", "term", run.Term().String(), "start", run.Range().Start, "finish", run.Range().Finish, "generation", run.Generation())

		go session.Finish(run, func(rep trend.Report) {
			out.send(StreamFrame{Type: FrameDone, Report: &rep})
		})
	}
}
