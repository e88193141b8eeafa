// Package engine owns every active match: board state, ship placement,
// attack resolution, turn order, win detection, and disconnect
// forfeiture. It is the only component with nontrivial game logic.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halcyon-games/armada/internal/bot"
	"github.com/halcyon-games/armada/internal/ledger"
	"github.com/halcyon-games/armada/internal/models"
	"github.com/halcyon-games/armada/internal/player"
)

var (
	// ErrMatchNotFound is returned for an unknown match id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrIllegalMove rejects attacks that are out of turn, out of phase,
	// on an already-resolved cell, or from a non-participant.
	ErrIllegalMove = errors.New("illegal move")
	// ErrNoMove means the bot (or randomAttack) found no unresolved cell.
	ErrNoMove = errors.New("no move available")
)

// Engine is the match state machine. A single mutex serializes every
// operation, so callers never observe a match mid-mutation.
type Engine struct {
	mu      sync.Mutex
	matches map[uuid.UUID]*match

	registry *player.Registry
	ledger   ledger.Ledger
	bot      *bot.Bot
	log      *logrus.Logger
}

// New wires an engine to the registry it resolves winners against, the
// ledger it records wins in, and the computer opponent for solo play.
func New(registry *player.Registry, ledg ledger.Ledger, b *bot.Bot, log *logrus.Logger) *Engine {
	return &Engine{
		matches:  make(map[uuid.UUID]*match),
		registry: registry,
		ledger:   ledg,
		bot:      b,
		log:      log,
	}
}

// CreateMatch starts a two-player match in Setup phase with empty
// boards. The first listed player moves first.
func (e *Engine) CreateMatch(playerA, playerB uuid.UUID) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := &match{
		id:    uuid.New(),
		sides: [2]*side{{playerID: playerA}, {playerID: playerB}},
		turn:  playerA,
		phase: PhaseSetup,
	}
	e.matches[m.id] = m
	e.log.WithFields(logrus.Fields{
		"match":   m.id,
		"playerA": playerA,
		"playerB": playerB,
	}).Info("Match created")
	return m.snapshot()
}

// CreateSoloMatch starts a match against the computer opponent. The bot
// side's fleet and board are generated immediately; the human places
// ships normally and moves first. Fleet generation exhaustion is fatal
// and propagates.
func (e *Engine) CreateSoloMatch(humanID uuid.UUID) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fleet, board, err := e.bot.GenerateFleet()
	if err != nil {
		return Snapshot{}, fmt.Errorf("generate bot fleet: %w", err)
	}

	m := &match{
		id: uuid.New(),
		sides: [2]*side{
			{playerID: humanID},
			{playerID: bot.PlayerID, fleet: fleet, board: board},
		},
		turn:            humanID,
		phase:           PhaseSetup,
		isComputerMatch: true,
	}
	e.matches[m.id] = m
	e.log.WithFields(logrus.Fields{"match": m.id, "player": humanID}).Info("Solo match created")
	return m.snapshot(), nil
}

// PlaceFleet stores a player's fleet and derives their board from it.
// Returns true when the placement completed setup and the match just
// transitioned to Active.
func (e *Engine) PlaceFleet(matchID, playerID uuid.UUID, ships []models.Ship) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.matches[matchID]
	if !ok {
		return false, ErrMatchNotFound
	}
	s := m.sideOf(playerID)
	if s == nil {
		return false, ErrMatchNotFound
	}

	s.fleet = ships
	s.board = models.PlaceShips(ships)

	if m.phase == PhaseSetup && m.bothReady() {
		m.phase = PhaseActive
		e.log.WithField("match", m.id).Info("Match active, both fleets placed")
		return true, nil
	}
	return false, nil
}

// Attack resolves one shot from attackerID at (x, y).
//
//  1. Empty cell: marked miss, turn passes to the defender.
//  2. Ship cell: marked hit, attacker keeps the turn. If the hit sank
//     the ship, its surrounding water is marked and the fleet is checked
//     for game over; a game over records the win and retires the match.
func (e *Engine) Attack(ctx context.Context, matchID, attackerID uuid.UUID, x, y int) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.matches[matchID]
	if !ok {
		return Outcome{}, ErrMatchNotFound
	}
	if m.phase != PhaseActive || m.turn != attackerID {
		return Outcome{}, ErrIllegalMove
	}
	defender := m.opponentOf(attackerID)
	if defender == nil || m.sideOf(attackerID) == nil {
		return Outcome{}, ErrIllegalMove
	}
	if !models.InBounds(x, y) {
		return Outcome{}, ErrIllegalMove
	}

	switch defender.board[x][y] {
	case models.CellHit, models.CellMiss:
		return Outcome{}, fmt.Errorf("%w: cell (%d, %d) already resolved", ErrIllegalMove, x, y)

	case models.CellEmpty:
		defender.board[x][y] = models.CellMiss
		m.turn = defender.playerID
		return Outcome{Status: StatusMiss}, nil
	}

	// Ship cell.
	ship, ok := findShipAt(defender.fleet, x, y)
	if !ok {
		// Board says ship but the fleet has no hull there: state has
		// diverged, which is a fault rather than a rejected move.
		return Outcome{}, fmt.Errorf("board/fleet mismatch at (%d, %d) in match %s", x, y, matchID)
	}

	defender.board[x][y] = models.CellHit
	defender.hitsTaken++

	if !defender.board.IsShipSunk(ship) {
		return Outcome{Status: StatusShot}, nil
	}

	defender.board.MarkAround(ship)

	if !allSunk(defender) {
		return Outcome{Status: StatusKilled}, nil
	}

	// Last ship down: the match is finished and leaves the active set.
	e.recordWin(ctx, attackerID)
	delete(e.matches, matchID)
	e.log.WithFields(logrus.Fields{"match": matchID, "winner": attackerID}).Info("Match finished")
	return Outcome{Status: StatusKilled, GameOver: true, Winner: attackerID}, nil
}

// RandomAttack picks a target uniformly among the defender's cells that
// are still empty or hold an unhit ship. It never re-targets a resolved
// cell. The engine's bot does not use this; it is a helper for the
// randomAttack command.
func (e *Engine) RandomAttack(matchID, attackerID uuid.UUID) (models.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.matches[matchID]
	if !ok {
		return models.Position{}, ErrMatchNotFound
	}
	defender := m.opponentOf(attackerID)
	if defender == nil {
		return models.Position{}, ErrIllegalMove
	}

	var cells []models.Position
	for x := 0; x < models.BoardSize; x++ {
		for y := 0; y < models.BoardSize; y++ {
			if c := defender.board[x][y]; c == models.CellEmpty || c == models.CellShip {
				cells = append(cells, models.Position{X: x, Y: y})
			}
		}
	}
	if len(cells) == 0 {
		return models.Position{}, ErrNoMove
	}
	return cells[rand.Intn(len(cells))], nil
}

// PlayBotMove makes one computer move in a solo match: selects a target
// via the bot heuristic and resolves it through the normal attack path.
// It fails silently (ErrIllegalMove) if the match is gone, is not a
// computer match, or it is not the bot's turn — the scheduled task that
// calls this must tolerate a world that moved on.
func (e *Engine) PlayBotMove(ctx context.Context, matchID uuid.UUID) (models.Position, Outcome, error) {
	e.mu.Lock()
	m, ok := e.matches[matchID]
	if !ok || !m.isComputerMatch || m.turn != bot.PlayerID || m.phase != PhaseActive {
		e.mu.Unlock()
		return models.Position{}, Outcome{}, ErrIllegalMove
	}
	human := m.opponentOf(bot.PlayerID)
	pos, ok := e.bot.ChooseMove(&human.board)
	e.mu.Unlock()
	if !ok {
		return models.Position{}, Outcome{}, ErrNoMove
	}

	outcome, err := e.Attack(ctx, matchID, bot.PlayerID, pos.X, pos.Y)
	if err != nil {
		return models.Position{}, Outcome{}, err
	}
	return pos, outcome, nil
}

// HandleDisconnect retires every match containing playerID. An Active
// match forfeits to the opponent, recorded like any other win; a Setup
// match dissolves with no winner.
func (e *Engine) HandleDisconnect(ctx context.Context, playerID uuid.UUID) DisconnectResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res DisconnectResult
	for id, m := range e.matches {
		if m.sideOf(playerID) == nil {
			continue
		}
		if m.phase == PhaseActive {
			opp := m.opponentOf(playerID)
			e.recordWin(ctx, opp.playerID)
			res.AwardedWins = append(res.AwardedWins, Award{Winner: opp.playerID, MatchID: id})
			e.log.WithFields(logrus.Fields{
				"match":  id,
				"winner": opp.playerID,
				"loser":  playerID,
			}).Info("Match forfeited on disconnect")
		}
		delete(e.matches, id)
		res.RetiredMatchIDs = append(res.RetiredMatchIDs, id)
	}
	return res
}

// Get returns a read-only snapshot of a live match.
func (e *Engine) Get(matchID uuid.UUID) (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.matches[matchID]
	if !ok {
		return Snapshot{}, false
	}
	return m.snapshot(), true
}

// FleetOf returns a copy of one side's fleet.
func (e *Engine) FleetOf(matchID, playerID uuid.UUID) ([]models.Ship, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	s := m.sideOf(playerID)
	if s == nil {
		return nil, ErrMatchNotFound
	}
	fleet := make([]models.Ship, len(s.fleet))
	copy(fleet, s.fleet)
	return fleet, nil
}

// IsReadyBothSides reports whether both sides have placed fleets.
func (e *Engine) IsReadyBothSides(matchID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.matches[matchID]
	return ok && m.bothReady()
}

// IsFleetFullySunk reports whether every ship of the given side is sunk.
func (e *Engine) IsFleetFullySunk(matchID, playerID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.matches[matchID]
	if !ok {
		return false
	}
	s := m.sideOf(playerID)
	return s != nil && len(s.fleet) > 0 && allSunk(s)
}

// recordWin credits a human winner in both the registry counter and the
// ledger, exactly once per win event. The bot never accrues wins.
// Caller holds e.mu.
func (e *Engine) recordWin(ctx context.Context, winnerID uuid.UUID) {
	winner, ok := e.registry.Lookup(winnerID)
	if !ok {
		return
	}
	if _, err := e.registry.IncrementWins(winnerID); err != nil {
		e.log.WithError(err).WithField("winner", winnerID).Error("Failed to increment win counter")
	}
	if err := e.ledger.RecordWin(ctx, winnerID, winner.Name); err != nil {
		e.log.WithError(err).WithField("winner", winnerID).Error("Failed to record win in ledger")
	}
}

func findShipAt(fleet []models.Ship, x, y int) (models.Ship, bool) {
	for _, s := range fleet {
		if s.Occupies(x, y) {
			return s, true
		}
	}
	return models.Ship{}, false
}

func allSunk(s *side) bool {
	for _, ship := range s.fleet {
		if !s.board.IsShipSunk(ship) {
			return false
		}
	}
	return true
}
