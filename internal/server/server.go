// Package server is the protocol dispatcher: it owns the live client
// sessions, decodes inbound envelopes, routes them to the registry,
// room manager, and match engine, and produces responses and
// broadcasts. All command processing is serialized behind one mutex so
// no two commands ever observe a match, room, or player mid-mutation.
package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halcyon-games/armada/internal/engine"
	"github.com/halcyon-games/armada/internal/ledger"
	"github.com/halcyon-games/armada/internal/player"
	"github.com/halcyon-games/armada/internal/protocol"
	"github.com/halcyon-games/armada/internal/room"
)

// defaultBotDelay is the bot's "thinking time" before a scheduled move.
const defaultBotDelay = 500 * time.Millisecond

// session is one connected client. send enqueues an outbound envelope;
// the websocket layer injects a writer-backed implementation, tests
// inject a capture function.
type session struct {
	connID player.ConnID
	remote string
	send   func(protocol.Envelope)
}

// Server wires the dispatcher to its collaborators.
type Server struct {
	mu sync.Mutex // serializes all command processing and bot turns

	log      *logrus.Logger
	registry *player.Registry
	rooms    *room.Manager
	engine   *engine.Engine
	ledger   ledger.Ledger

	sessions map[player.ConnID]*session
	botDelay time.Duration
}

// New builds a server around the given collaborators.
func New(log *logrus.Logger, registry *player.Registry, rooms *room.Manager,
	eng *engine.Engine, ledg ledger.Ledger) *Server {
	return &Server{
		log:      log,
		registry: registry,
		rooms:    rooms,
		engine:   eng,
		ledger:   ledg,
		sessions: make(map[player.ConnID]*session),
		botDelay: defaultBotDelay,
	}
}

// connect registers a new session and returns it.
func (s *Server) connect(remote string, send func(protocol.Envelope)) *session {
	sess := &session{connID: uuid.New(), remote: remote, send: send}
	s.mu.Lock()
	s.sessions[sess.connID] = sess
	s.mu.Unlock()
	return sess
}

// disconnect tears a session down: the connection binding is cleared,
// the player leaves all rooms, and their active matches forfeit to the
// opponent. The player record itself survives for reconnection.
func (s *Server) disconnect(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sess.connID)

	playerID, ok := s.registry.LookupConn(sess.connID)
	if !ok {
		return
	}
	s.log.WithFields(logrus.Fields{"player": playerID, "remote": sess.remote}).Info("Player disconnected")

	s.rooms.Leave(playerID)
	s.broadcastRooms()

	ctx := context.Background()
	res := s.engine.HandleDisconnect(ctx, playerID)
	for _, award := range res.AwardedWins {
		s.sendToPlayer(award.Winner, protocol.RespFinish, protocol.FinishResponse{
			WinPlayer: award.Winner,
			Reason:    protocol.ReasonOpponentDisconnected,
		})
	}
	if len(res.AwardedWins) > 0 {
		s.broadcastWinners(ctx)
	}

	s.registry.Unbind(playerID)
}

// playerOf resolves the authenticated player bound to a session.
func (s *Server) playerOf(sess *session) (uuid.UUID, bool) {
	return s.registry.LookupConn(sess.connID)
}

// sendTo encodes a payload and queues it on one session.
func (s *Server) sendTo(sess *session, msgType string, payload interface{}) {
	env, err := protocol.NewEnvelope(msgType, payload)
	if err != nil {
		s.log.WithError(err).WithField("type", msgType).Error("Failed to encode response")
		return
	}
	sess.send(env)
}

// sendToPlayer queues a message on whichever session the player is
// currently bound to, if any.
func (s *Server) sendToPlayer(playerID uuid.UUID, msgType string, payload interface{}) {
	connID, ok := s.registry.ConnOf(playerID)
	if !ok {
		return
	}
	if sess, ok := s.sessions[connID]; ok {
		s.sendTo(sess, msgType, payload)
	}
}

// sendError sends the single-shot error envelope for a rejected command.
func (s *Server) sendError(sess *session, text string) {
	s.sendTo(sess, protocol.RespError, protocol.ErrorResponse{Error: true, ErrorText: text})
}

// broadcast queues a message on every connected session, regardless of
// match membership.
func (s *Server) broadcast(msgType string, payload interface{}) {
	env, err := protocol.NewEnvelope(msgType, payload)
	if err != nil {
		s.log.WithError(err).WithField("type", msgType).Error("Failed to encode broadcast")
		return
	}
	for _, sess := range s.sessions {
		sess.send(env)
	}
}

// broadcastRooms pushes the current open-room list to every client.
func (s *Server) broadcastRooms() {
	s.broadcast(protocol.RespUpdateRoom, s.rooms.ListOpen())
}

// broadcastWinners pushes the leaderboard snapshot to every client.
func (s *Server) broadcastWinners(ctx context.Context) {
	snapshot, err := s.ledger.Snapshot(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to read winners ledger")
		return
	}
	winners := make([]protocol.WinnerEntry, 0, len(snapshot))
	for _, e := range snapshot {
		winners = append(winners, protocol.WinnerEntry{Name: e.Name, Wins: e.Wins})
	}
	s.broadcast(protocol.RespUpdateWinners, winners)
}
