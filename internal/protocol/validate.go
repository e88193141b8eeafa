package protocol

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyon-games/armada/internal/models"
)

// ErrValidation tags every shape-validation failure so callers can map
// the whole family to a single client-facing error response.
var ErrValidation = errors.New("validation failure")

// KnownCommand reports whether msgType is a routable client command.
func KnownCommand(msgType string) bool {
	switch msgType {
	case CmdReg, CmdCreateRoom, CmdAddUserToRoom, CmdAddShips,
		CmdAttack, CmdRandomAttack, CmdSinglePlay:
		return true
	}
	return false
}

// Validate checks a reg payload: both fields present and non-empty.
func (r RegRequest) Validate() error {
	if r.Name == "" || r.Password == "" {
		return fmt.Errorf("%w: reg requires name and password", ErrValidation)
	}
	return nil
}

// Validate checks that a room reference was supplied.
func (r AddUserToRoomRequest) Validate() error {
	if r.IndexRoom == uuid.Nil {
		return fmt.Errorf("%w: add_user_to_room requires indexRoom", ErrValidation)
	}
	return nil
}

// Validate checks the shape of a submitted fleet. Ship legality (counts,
// bounds, spacing) is deliberately not enforced here; the server accepts
// client layouts as submitted.
func (r AddShipsRequest) Validate() error {
	if r.GameID == uuid.Nil || r.IndexPlayer == uuid.Nil {
		return fmt.Errorf("%w: add_ships requires gameId and indexPlayer", ErrValidation)
	}
	if len(r.Ships) == 0 {
		return fmt.Errorf("%w: add_ships requires a non-empty ships array", ErrValidation)
	}
	for i, s := range r.Ships {
		if !s.Type.Valid() {
			return fmt.Errorf("%w: ship %d has unknown type %q", ErrValidation, i, s.Type)
		}
		if s.Length < 1 || s.Length > models.BoardSize {
			return fmt.Errorf("%w: ship %d has invalid length %d", ErrValidation, i, s.Length)
		}
	}
	return nil
}

// Validate checks an attack payload, including board bounds.
func (r AttackRequest) Validate() error {
	if r.GameID == uuid.Nil || r.IndexPlayer == uuid.Nil {
		return fmt.Errorf("%w: attack requires gameId and indexPlayer", ErrValidation)
	}
	if !models.InBounds(r.X, r.Y) {
		return fmt.Errorf("%w: attack coordinates (%d, %d) out of bounds", ErrValidation, r.X, r.Y)
	}
	return nil
}

// Validate checks a randomAttack payload.
func (r RandomAttackRequest) Validate() error {
	if r.GameID == uuid.Nil || r.IndexPlayer == uuid.Nil {
		return fmt.Errorf("%w: randomAttack requires gameId and indexPlayer", ErrValidation)
	}
	return nil
}
