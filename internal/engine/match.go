package engine

import (
	"github.com/google/uuid"

	"github.com/halcyon-games/armada/internal/models"
)

// Phase is a match's lifecycle stage. Finished matches are removed from
// the engine rather than kept in a terminal state.
type Phase int

const (
	// PhaseSetup means at least one side has not placed its fleet.
	PhaseSetup Phase = iota
	// PhaseActive means both fleets are placed and attacks are legal.
	PhaseActive
)

// side is one participant's state within a match.
type side struct {
	playerID  uuid.UUID
	fleet     []models.Ship
	board     models.Board
	hitsTaken int
}

// match is the full in-memory state of one game. All access goes
// through the engine's lock.
type match struct {
	id              uuid.UUID
	sides           [2]*side
	turn            uuid.UUID
	phase           Phase
	isComputerMatch bool
}

// sideOf returns the participant with the given player id.
func (m *match) sideOf(playerID uuid.UUID) *side {
	for _, s := range m.sides {
		if s.playerID == playerID {
			return s
		}
	}
	return nil
}

// opponentOf returns the participant other than playerID.
func (m *match) opponentOf(playerID uuid.UUID) *side {
	for _, s := range m.sides {
		if s.playerID != playerID {
			return s
		}
	}
	return nil
}

// bothReady reports whether both sides have a non-empty fleet.
func (m *match) bothReady() bool {
	return len(m.sides[0].fleet) > 0 && len(m.sides[1].fleet) > 0
}

// Status values reported in attack outcomes.
const (
	StatusMiss   = "miss"
	StatusShot   = "shot"
	StatusKilled = "killed"
)

// Outcome describes a resolved attack.
type Outcome struct {
	Status   string
	GameOver bool
	Winner   uuid.UUID
}

// Snapshot is a read-only view of a match handed out by queries.
type Snapshot struct {
	ID              uuid.UUID
	Players         [2]uuid.UUID
	Turn            uuid.UUID
	Phase           Phase
	IsComputerMatch bool
}

func (m *match) snapshot() Snapshot {
	return Snapshot{
		ID:              m.id,
		Players:         [2]uuid.UUID{m.sides[0].playerID, m.sides[1].playerID},
		Turn:            m.turn,
		Phase:           m.phase,
		IsComputerMatch: m.isComputerMatch,
	}
}

// Award records one win granted by a disconnect forfeit.
type Award struct {
	Winner  uuid.UUID
	MatchID uuid.UUID
}

// DisconnectResult summarizes the matches retired by a disconnect.
type DisconnectResult struct {
	RetiredMatchIDs []uuid.UUID
	AwardedWins     []Award
}
