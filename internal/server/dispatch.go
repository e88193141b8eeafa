package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halcyon-games/armada/internal/engine"
	"github.com/halcyon-games/armada/internal/models"
	"github.com/halcyon-games/armada/internal/player"
	"github.com/halcyon-games/armada/internal/protocol"
	"github.com/halcyon-games/armada/internal/room"
)

// dispatch decodes one inbound frame and routes it. Every failure mode
// short of a broken connection is answered with an error envelope on
// the offending session; nothing here panics or touches other
// connections' state.
func (s *Server) dispatch(sess *session, raw []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.log.WithError(err).WithField("remote", sess.remote).Warn("Malformed envelope")
		s.sendError(sess, "Invalid message format")
		return
	}
	if !protocol.KnownCommand(env.Type) {
		s.log.WithFields(logrus.Fields{"type": env.Type, "remote": sess.remote}).Warn("Unknown command type")
		s.sendError(sess, "Invalid command")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"type": env.Type, "remote": sess.remote}).Debug("Command received")

	switch env.Type {
	case protocol.CmdReg:
		s.handleReg(sess, &env)
	case protocol.CmdCreateRoom:
		s.handleCreateRoom(sess)
	case protocol.CmdAddUserToRoom:
		s.handleAddUserToRoom(sess, &env)
	case protocol.CmdAddShips:
		s.handleAddShips(sess, &env)
	case protocol.CmdAttack:
		s.handleAttack(sess, &env)
	case protocol.CmdRandomAttack:
		s.handleRandomAttack(sess, &env)
	case protocol.CmdSinglePlay:
		s.handleSinglePlay(sess)
	}
}

// handleReg authenticates a session: login first, registration only
// when the name is unknown. Success rebinds the connection and pushes
// the lobby and leaderboard to the fresh client.
func (s *Server) handleReg(sess *session, env *protocol.Envelope) {
	var req protocol.RegRequest
	if err := env.DecodeData(&req); err != nil {
		s.sendError(sess, "Invalid message format")
		return
	}
	if err := req.Validate(); err != nil {
		s.regFailure(sess, req.Name, "Name and password are required")
		return
	}

	p, err := s.registry.Login(req.Name, req.Password, sess.connID)
	if errors.Is(err, player.ErrNotFound) {
		p, err = s.registry.Register(req.Name, req.Password, sess.connID)
	}
	if err != nil {
		// A known name with a wrong password is a failed registration
		// from the client's point of view, never an auto-login.
		s.log.WithFields(logrus.Fields{"name": req.Name, "remote": sess.remote}).
			WithError(err).Warn("Registration rejected")
		s.regFailure(sess, req.Name, err.Error())
		return
	}

	s.log.WithFields(logrus.Fields{"player": p.ID, "name": p.Name, "remote": sess.remote}).Info("Player authenticated")
	s.sendTo(sess, protocol.RespReg, protocol.RegResponse{Name: p.Name, Index: p.ID})
	s.broadcastRooms()
	s.broadcastWinners(context.Background())
}

func (s *Server) regFailure(sess *session, name, text string) {
	s.sendTo(sess, protocol.RespReg, protocol.RegResponse{
		Name:      name,
		Error:     true,
		ErrorText: text,
	})
}

// handleCreateRoom opens a one-user room for the caller.
func (s *Server) handleCreateRoom(sess *session) {
	playerID, ok := s.playerOf(sess)
	if !ok {
		s.sendError(sess, "Not authenticated")
		return
	}
	p, ok := s.registry.Lookup(playerID)
	if !ok {
		s.sendError(sess, "Player not found")
		return
	}
	r := s.rooms.Open(p.ID, p.Name)
	s.log.WithFields(logrus.Fields{"room": r.ID, "player": p.ID}).Info("Room created")
	s.broadcastRooms()
}

// handleAddUserToRoom joins the caller to an open room. A filled room
// is consumed into a match immediately and retired from the lobby.
func (s *Server) handleAddUserToRoom(sess *session, env *protocol.Envelope) {
	playerID, ok := s.playerOf(sess)
	if !ok {
		s.sendError(sess, "Not authenticated")
		return
	}
	var req protocol.AddUserToRoomRequest
	if err := env.DecodeData(&req); err != nil {
		s.sendError(sess, "Invalid message format")
		return
	}
	if err := req.Validate(); err != nil {
		s.sendError(sess, "Invalid command")
		return
	}
	p, ok := s.registry.Lookup(playerID)
	if !ok {
		s.sendError(sess, "Player not found")
		return
	}

	r, err := s.rooms.Join(req.IndexRoom, p.ID, p.Name)
	switch {
	case errors.Is(err, room.ErrAlreadyInRoom):
		s.sendError(sess, "Already in room")
		return
	case err != nil:
		s.sendError(sess, "Failed to join room")
		return
	}

	if len(r.Users) == 2 {
		snap := s.engine.CreateMatch(r.Users[0].Index, r.Users[1].Index)
		for _, u := range r.Users {
			s.sendToPlayer(u.Index, protocol.RespCreateGame, protocol.CreateGameResponse{
				IDGame:   snap.ID,
				IDPlayer: u.Index,
			})
		}
		s.rooms.Remove(r.ID)
	}
	s.broadcastRooms()
}

// handleAddShips stores the caller's fleet. When the second fleet lands
// the match goes Active and each human side receives start_game with
// its own ships and the first mover.
func (s *Server) handleAddShips(sess *session, env *protocol.Envelope) {
	playerID, ok := s.playerOf(sess)
	if !ok {
		s.sendError(sess, "Not authenticated")
		return
	}
	var req protocol.AddShipsRequest
	if err := env.DecodeData(&req); err != nil {
		s.sendError(sess, "Invalid message format")
		return
	}
	if err := req.Validate(); err != nil {
		s.sendError(sess, "Invalid command")
		return
	}
	if req.IndexPlayer != playerID {
		s.sendError(sess, "Unauthorized")
		return
	}

	started, err := s.engine.PlaceFleet(req.GameID, playerID, req.Ships)
	if err != nil {
		s.sendError(sess, "Game not found")
		return
	}
	if !started {
		return
	}

	snap, ok := s.engine.Get(req.GameID)
	if !ok {
		return
	}
	for _, pid := range snap.Players {
		fleet, err := s.engine.FleetOf(snap.ID, pid)
		if err != nil {
			continue
		}
		s.sendToPlayer(pid, protocol.RespStartGame, protocol.StartGameResponse{
			Ships:              fleet,
			CurrentPlayerIndex: snap.Turn,
		})
	}
}

// handleAttack resolves a client-chosen shot.
func (s *Server) handleAttack(sess *session, env *protocol.Envelope) {
	playerID, ok := s.playerOf(sess)
	if !ok {
		s.sendError(sess, "Not authenticated")
		return
	}
	var req protocol.AttackRequest
	if err := env.DecodeData(&req); err != nil {
		s.sendError(sess, "Invalid message format")
		return
	}
	if err := req.Validate(); err != nil {
		s.sendError(sess, "Invalid command")
		return
	}
	if req.IndexPlayer != playerID {
		s.sendError(sess, "Unauthorized")
		return
	}
	s.resolveAttack(sess, req.GameID, playerID, models.Position{X: req.X, Y: req.Y})
}

// handleRandomAttack resolves a server-chosen shot for the caller.
func (s *Server) handleRandomAttack(sess *session, env *protocol.Envelope) {
	playerID, ok := s.playerOf(sess)
	if !ok {
		s.sendError(sess, "Not authenticated")
		return
	}
	var req protocol.RandomAttackRequest
	if err := env.DecodeData(&req); err != nil {
		s.sendError(sess, "Invalid message format")
		return
	}
	if err := req.Validate(); err != nil {
		s.sendError(sess, "Invalid command")
		return
	}
	if req.IndexPlayer != playerID {
		s.sendError(sess, "Unauthorized")
		return
	}

	pos, err := s.engine.RandomAttack(req.GameID, playerID)
	if err != nil {
		s.sendError(sess, "No valid attack coordinates available")
		return
	}
	s.resolveAttack(sess, req.GameID, playerID, pos)
}

// resolveAttack runs one shot through the engine and fans the result
// out to both sides: the attack report, then turn or finish. A solo
// match whose turn passed to the bot gets a bot move scheduled.
func (s *Server) resolveAttack(sess *session, matchID, attackerID uuid.UUID, pos models.Position) {
	snap, ok := s.engine.Get(matchID)
	if !ok {
		s.sendError(sess, "Invalid attack")
		return
	}

	ctx := context.Background()
	outcome, err := s.engine.Attack(ctx, matchID, attackerID, pos.X, pos.Y)
	if err != nil {
		if !errors.Is(err, engine.ErrIllegalMove) && !errors.Is(err, engine.ErrMatchNotFound) {
			s.log.WithError(err).WithField("match", matchID).Error("Attack resolution fault")
		}
		s.sendError(sess, "Invalid attack")
		return
	}

	for _, pid := range snap.Players {
		s.sendToPlayer(pid, protocol.RespAttack, protocol.AttackResponse{
			Position:      pos,
			CurrentPlayer: attackerID,
			Status:        outcome.Status,
		})
	}

	switch {
	case outcome.GameOver:
		for _, pid := range snap.Players {
			s.sendToPlayer(pid, protocol.RespFinish, protocol.FinishResponse{
				WinPlayer: outcome.Winner,
				Reason:    protocol.ReasonAllShipsSunk,
			})
		}
		s.broadcastWinners(ctx)
		return

	case outcome.Status == engine.StatusMiss:
		next, ok := s.engine.Get(matchID)
		if !ok {
			return
		}
		for _, pid := range snap.Players {
			s.sendToPlayer(pid, protocol.RespTurn, protocol.TurnResponse{CurrentPlayer: next.Turn})
		}
	}

	s.maybeScheduleBotTurn(matchID)
}

// handleSinglePlay starts a match against the computer opponent.
func (s *Server) handleSinglePlay(sess *session) {
	playerID, ok := s.playerOf(sess)
	if !ok {
		s.sendError(sess, "Not authenticated")
		return
	}

	snap, err := s.engine.CreateSoloMatch(playerID)
	if err != nil {
		s.log.WithError(err).Error("Failed to create solo match")
		s.sendError(sess, "Failed to create game")
		return
	}
	s.sendTo(sess, protocol.RespCreateGame, protocol.CreateGameResponse{
		IDGame:   snap.ID,
		IDPlayer: playerID,
	})
}
