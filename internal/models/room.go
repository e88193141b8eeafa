package models

import "github.com/google/uuid"

// RoomUser is the identity of one room occupant as exposed on the wire.
type RoomUser struct {
	Name  string    `json:"name"`
	Index uuid.UUID `json:"index"`
}

// Room is a matchmaking lobby entry. A room holds at most two users;
// one user means it is open to join, two means it is ready to become a
// match.
type Room struct {
	ID    uuid.UUID  `json:"roomId"`
	Users []RoomUser `json:"roomUsers"`
}

// HasUser reports whether the player already occupies the room.
func (r *Room) HasUser(playerID uuid.UUID) bool {
	for _, u := range r.Users {
		if u.Index == playerID {
			return true
		}
	}
	return false
}
