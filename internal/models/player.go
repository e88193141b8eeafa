package models

import "github.com/google/uuid"

// Player is a registered identity. Name is the unique, case-sensitive
// key; Password holds the Argon2id encoded hash, never the plaintext.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	TotalWins int       `json:"totalWins"`
}
