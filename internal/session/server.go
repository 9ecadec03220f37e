package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	readLimit    = 64 << 10
	writeTimeout = 10 * time.Second
)

// Handler upgrades requests to WebSocket connections and runs one Session
// per connection. The learner is identified by the "user" query parameter.
type Handler struct {
	deps   Deps
	accept *websocket.AcceptOptions
}

// NewHandler creates a handler. originPatterns lists extra origins allowed
// to connect besides the request host.
func NewHandler(deps Deps, originPatterns ...string) *Handler {
	return &Handler{
		deps:   deps,
		accept: &websocket.AcceptOptions{OriginPatterns: originPatterns},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, `{"success":false,"error":"user is required"}`, http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		slog.Warn("websocket accept failed", "user_id", userID, "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	slog.Info("session opened", "user_id", userID)
	err = Serve(r.Context(), conn, New(userID, h.deps))
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		slog.Info("session closed", "user_id", userID)
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("session ended", "user_id", userID, "error", err)
	}
}

// Serve reads commands from conn and writes the session's replies until the
// connection closes or ctx is done. Commands are handled one at a time.
func Serve(ctx context.Context, conn *websocket.Conn, sess *Session) error {
	if err := write(ctx, conn, sess.snapshot()); err != nil {
		return err
	}
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var cmd Command
		replies := []Reply{}
		if err := json.Unmarshal(data, &cmd); err != nil {
			replies = append(replies, Reply{Type: ReplyRejected, Error: "invalid command"})
		} else {
			replies = sess.Handle(ctx, cmd)
		}

		for _, r := range replies {
			if err := write(ctx, conn, r); err != nil {
				return err
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, r Reply) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, r)
}
