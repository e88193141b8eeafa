package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halcyon-games/armada/internal/bot"
	"github.com/halcyon-games/armada/internal/engine"
	"github.com/halcyon-games/armada/internal/protocol"
)

// maybeScheduleBotTurn schedules a delayed bot move if the match is a
// solo game whose turn now belongs to the computer. Caller holds s.mu.
func (s *Server) maybeScheduleBotTurn(matchID uuid.UUID) {
	snap, ok := s.engine.Get(matchID)
	if !ok || !snap.IsComputerMatch || snap.Turn != bot.PlayerID {
		return
	}
	s.scheduleBotTurn(matchID)
}

// scheduleBotTurn queues one bot move after the thinking delay. The
// fired callback re-acquires the command mutex and re-validates the
// world before acting: the match may have been retired, or the turn may
// have changed, since scheduling. A stale firing is a silent no-op.
func (s *Server) scheduleBotTurn(matchID uuid.UUID) {
	time.AfterFunc(s.botDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.playBotTurn(matchID)
	})
}

// playBotTurn executes one link of the bot's turn chain: make a move,
// report it to the human, then either hand the turn back (miss), finish
// the game, or schedule the next link. Caller holds s.mu.
func (s *Server) playBotTurn(matchID uuid.UUID) {
	snap, ok := s.engine.Get(matchID)
	if !ok || !snap.IsComputerMatch {
		return
	}
	human := snap.Players[0]
	if human == bot.PlayerID {
		human = snap.Players[1]
	}

	pos, outcome, err := s.engine.PlayBotMove(context.Background(), matchID)
	if err != nil {
		if !errors.Is(err, engine.ErrIllegalMove) && !errors.Is(err, engine.ErrNoMove) {
			s.log.WithError(err).WithField("match", matchID).Error("Bot move failed")
		}
		return
	}

	s.log.WithFields(logrus.Fields{
		"match":  matchID,
		"x":      pos.X,
		"y":      pos.Y,
		"status": outcome.Status,
	}).Debug("Bot move resolved")

	s.sendToPlayer(human, protocol.RespAttack, protocol.AttackResponse{
		Position:      pos,
		CurrentPlayer: bot.PlayerID,
		Status:        outcome.Status,
	})

	switch {
	case outcome.GameOver:
		// Bot wins are not recorded in the ledger, so no winners
		// broadcast follows.
		s.sendToPlayer(human, protocol.RespFinish, protocol.FinishResponse{
			WinPlayer: bot.PlayerID,
			Reason:    protocol.ReasonAllShipsSunk,
		})

	case outcome.Status == engine.StatusMiss:
		s.sendToPlayer(human, protocol.RespTurn, protocol.TurnResponse{CurrentPlayer: human})

	default:
		// Hit or sink short of game over: the bot keeps the turn and
		// thinks again.
		s.scheduleBotTurn(matchID)
	}
}
