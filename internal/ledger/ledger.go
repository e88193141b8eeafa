// Package ledger tracks cumulative wins across matches. The default
// backend is in-memory; a Redis backend can be selected so the
// leaderboard survives process restarts.
package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Entry is one leaderboard row: a player who has won at least once.
type Entry struct {
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name"`
	Wins     int       `json:"wins"`
}

// Ledger records wins and produces leaderboard snapshots. Snapshots are
// ordered by wins descending, then name, so broadcasts are stable.
type Ledger interface {
	// RecordWin increments the win count for a player, creating the
	// entry on first win.
	RecordWin(ctx context.Context, playerID uuid.UUID, name string) error

	// Snapshot returns all entries in leaderboard order.
	Snapshot(ctx context.Context) ([]Entry, error)
}
