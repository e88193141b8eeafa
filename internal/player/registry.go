// Package player holds the in-memory registry of identities: who is
// registered, their credential hashes, cumulative wins, and which live
// connection each player is currently bound to.
package player

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/halcyon-games/armada/internal/auth"
	"github.com/halcyon-games/armada/internal/models"
)

var (
	// ErrAlreadyExists is returned when registering a name that is taken.
	ErrAlreadyExists = errors.New("player already exists")
	// ErrNotFound is returned when a name or id resolves to no player.
	ErrNotFound = errors.New("player not found")
	// ErrBadCredentials is returned when a login password does not match.
	ErrBadCredentials = errors.New("invalid credentials")
)

// ConnID is an opaque key for one live client connection. The registry
// never touches the transport itself; the dispatcher allocates one
// ConnID per accepted connection.
type ConnID = uuid.UUID

// Registry is the thread-safe store of player records and connection
// bindings. Records survive disconnects; bindings do not.
type Registry struct {
	mu       sync.Mutex
	players  map[uuid.UUID]*models.Player
	nameToID map[string]uuid.UUID
	conns    map[ConnID]uuid.UUID
	bindings map[uuid.UUID]ConnID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		players:  make(map[uuid.UUID]*models.Player),
		nameToID: make(map[string]uuid.UUID),
		conns:    make(map[ConnID]uuid.UUID),
		bindings: make(map[uuid.UUID]ConnID),
	}
}

// Register creates a new player, hashing the password, and binds the
// supplied connection to it. Fails with ErrAlreadyExists if the name is
// taken.
func (r *Registry) Register(name, password string, conn ConnID) (models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nameToID[name]; exists {
		return models.Player{}, ErrAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Player{}, fmt.Errorf("hash password: %w", err)
	}

	p := &models.Player{
		ID:       uuid.New(),
		Name:     name,
		Password: hash,
	}
	r.players[p.ID] = p
	r.nameToID[name] = p.ID
	r.bindLocked(p.ID, conn)
	return *p, nil
}

// Login verifies credentials for an existing name and rebinds the
// supplied connection to the player. Fails with ErrNotFound for an
// unknown name and ErrBadCredentials for a wrong password.
func (r *Registry) Login(name, password string, conn ConnID) (models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.nameToID[name]
	if !ok {
		return models.Player{}, ErrNotFound
	}
	p := r.players[id]

	match, err := auth.VerifyPassword(password, p.Password)
	if err != nil || !match {
		return models.Player{}, ErrBadCredentials
	}

	r.bindLocked(id, conn)
	return *p, nil
}

// Lookup returns a copy of the player record for id.
func (r *Registry) Lookup(id uuid.UUID) (models.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return models.Player{}, false
	}
	return *p, true
}

// LookupConn resolves the player currently bound to a connection.
func (r *Registry) LookupConn(conn ConnID) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.conns[conn]
	return id, ok
}

// ConnOf resolves the connection a player is currently bound to.
func (r *Registry) ConnOf(id uuid.UUID) (ConnID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.bindings[id]
	return conn, ok
}

// Unbind clears the connection binding for a player, leaving the record
// itself intact.
func (r *Registry) Unbind(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.bindings[id]; ok {
		delete(r.conns, conn)
		delete(r.bindings, id)
	}
}

// IncrementWins bumps a player's cumulative win counter and returns the
// new total.
func (r *Registry) IncrementWins(id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return 0, ErrNotFound
	}
	p.TotalWins++
	return p.TotalWins, nil
}

// bindLocked rebinds a player to a connection, displacing any previous
// binding in either direction. Caller holds r.mu.
func (r *Registry) bindLocked(id uuid.UUID, conn ConnID) {
	if old, ok := r.bindings[id]; ok {
		delete(r.conns, old)
	}
	if prev, ok := r.conns[conn]; ok {
		delete(r.bindings, prev)
	}
	r.conns[conn] = id
	r.bindings[id] = conn
}
