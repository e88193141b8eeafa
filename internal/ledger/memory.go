package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is the volatile in-process ledger backend.
type Memory struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*Entry
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{entries: make(map[uuid.UUID]*Entry)}
}

var _ Ledger = (*Memory)(nil)

// RecordWin increments a player's entry, creating it on first win. The
// name is refreshed on every win so renames (future-proofing) surface.
func (m *Memory) RecordWin(_ context.Context, playerID uuid.UUID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[playerID]
	if !ok {
		e = &Entry{PlayerID: playerID, Name: name}
		m.entries[playerID] = e
	}
	e.Name = name
	e.Wins++
	return nil
}

// Snapshot returns all entries ordered by wins descending, then name.
func (m *Memory) Snapshot(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Name < entries[j].Name
	})
}
