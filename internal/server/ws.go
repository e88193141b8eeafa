package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/halcyon-games/armada/internal/middleware"
	"github.com/halcyon-games/armada/internal/protocol"
)

const (
	// outQueueSize bounds the per-session outbound buffer. A client that
	// cannot drain this many messages is effectively dead.
	outQueueSize = 32

	writeTimeout = 5 * time.Second
)

// Handler returns the HTTP handler that upgrades connections to
// websocket and runs the per-client read loop until disconnect.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			s.log.WithError(err).Warn("WebSocket accept error")
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan protocol.Envelope, outQueueSize)
		sess := s.connect(r.RemoteAddr, func(env protocol.Envelope) {
			select {
			case out <- env:
			default:
				s.log.WithFields(logrus.Fields{
					"remote": r.RemoteAddr,
					"type":   env.Type,
				}).Warn("Outbound queue full, dropping message")
			}
		})

		entry := middleware.ConnEntry(s.log, sess.connID, r.RemoteAddr)
		entry.Info("WebSocket session opened")

		go s.writeLoop(ctx, c, out)

		readErr := s.readLoop(ctx, c, sess)
		cancel()

		s.disconnect(sess)
		if readErr != nil {
			entry.WithError(readErr).Info("WebSocket session closed")
		} else {
			entry.Info("WebSocket session closed")
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readLoop pulls frames off the socket and dispatches them until the
// connection closes or the context is cancelled.
func (s *Server) readLoop(ctx context.Context, c *websocket.Conn, sess *session) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			s.log.WithField("remote", sess.remote).Warn("Ignoring non-text websocket message")
			continue
		}
		s.dispatch(sess, data)
	}
}

// writeLoop drains the session's outbound queue onto the socket in
// order, each write under its own timeout.
func (s *Server) writeLoop(ctx context.Context, c *websocket.Conn, out <-chan protocol.Envelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-out:
			data, err := json.Marshal(env)
			if err != nil {
				s.log.WithError(err).WithField("type", env.Type).Error("Failed to marshal envelope")
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				// The read loop notices the broken connection and tears
				// the session down.
				return
			}
			s.log.WithField("type", env.Type).Trace("Response sent")
		}
	}
}
