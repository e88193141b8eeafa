// Package room implements matchmaking: open rooms wait for a second
// player, full rooms are handed to the match engine by the dispatcher.
package room

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/halcyon-games/armada/internal/models"
)

var (
	// ErrNotFound is returned for a room id that does not exist.
	ErrNotFound = errors.New("room not found")
	// ErrRoomFull is returned when joining a room that already has two users.
	ErrRoomFull = errors.New("room is full")
	// ErrAlreadyInRoom is returned when a player joins a room they occupy.
	ErrAlreadyInRoom = errors.New("player already in room")
)

// Manager is the thread-safe store of matchmaking rooms.
type Manager struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*models.Room
	order []uuid.UUID
}

// NewManager returns an empty room manager.
func NewManager() *Manager {
	return &Manager{rooms: make(map[uuid.UUID]*models.Room)}
}

// Open creates a new one-user room for the player and returns a copy.
func (m *Manager) Open(playerID uuid.UUID, name string) models.Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := &models.Room{
		ID:    uuid.New(),
		Users: []models.RoomUser{{Name: name, Index: playerID}},
	}
	m.rooms[r.ID] = r
	m.order = append(m.order, r.ID)
	return *r
}

// Join adds the player to an open room. A member rejoining their own
// room is rejected, as is joining a full or unknown room.
func (m *Manager) Join(roomID, playerID uuid.UUID, name string) (models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return models.Room{}, ErrNotFound
	}
	if r.HasUser(playerID) {
		return models.Room{}, ErrAlreadyInRoom
	}
	if len(r.Users) >= 2 {
		return models.Room{}, ErrRoomFull
	}
	r.Users = append(r.Users, models.RoomUser{Name: name, Index: playerID})
	return *r, nil
}

// Remove deletes a room outright. Called by the dispatcher once a full
// room has been consumed into a match.
func (m *Manager) Remove(roomID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(roomID)
}

// ListOpen returns every room with exactly one occupant, in creation
// order.
func (m *Manager) ListOpen() []models.Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	open := make([]models.Room, 0, len(m.rooms))
	for _, id := range m.order {
		if r, ok := m.rooms[id]; ok && len(r.Users) == 1 {
			open = append(open, *r)
		}
	}
	return open
}

// Leave removes the player from every room they occupy and deletes any
// room left empty.
func (m *Manager) Leave(playerID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.rooms {
		kept := r.Users[:0]
		for _, u := range r.Users {
			if u.Index != playerID {
				kept = append(kept, u)
			}
		}
		r.Users = kept
		if len(r.Users) == 0 {
			m.deleteLocked(id)
		}
	}
}

// deleteLocked removes a room from the map and the ordering slice.
// Caller holds m.mu.
func (m *Manager) deleteLocked(roomID uuid.UUID) {
	if _, ok := m.rooms[roomID]; !ok {
		return
	}
	delete(m.rooms, roomID)
	for i, id := range m.order {
		if id == roomID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
