package room

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndListOpen(t *testing.T) {
	m := NewManager()
	alice := uuid.New()

	r := m.Open(alice, "alice")
	require.Len(t, r.Users, 1)
	assert.Equal(t, "alice", r.Users[0].Name)

	open := m.ListOpen()
	require.Len(t, open, 1)
	assert.Equal(t, r.ID, open[0].ID)
}

func TestJoin(t *testing.T) {
	m := NewManager()
	alice, bob := uuid.New(), uuid.New()

	r := m.Open(alice, "alice")

	joined, err := m.Join(r.ID, bob, "bob")
	require.NoError(t, err)
	require.Len(t, joined.Users, 2)

	// A full room is no longer open.
	assert.Empty(t, m.ListOpen())
}

func TestJoinOwnRoomRejected(t *testing.T) {
	m := NewManager()
	alice := uuid.New()

	r := m.Open(alice, "alice")

	_, err := m.Join(r.ID, alice, "alice")
	assert.ErrorIs(t, err, ErrAlreadyInRoom)

	// Room unchanged.
	open := m.ListOpen()
	require.Len(t, open, 1)
	assert.Len(t, open[0].Users, 1)
}

func TestJoinFullRoomRejected(t *testing.T) {
	m := NewManager()
	r := m.Open(uuid.New(), "alice")
	_, err := m.Join(r.ID, uuid.New(), "bob")
	require.NoError(t, err)

	_, err = m.Join(r.ID, uuid.New(), "carol")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestJoinUnknownRoom(t *testing.T) {
	m := NewManager()
	_, err := m.Join(uuid.New(), uuid.New(), "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveDeletesEmptyRooms(t *testing.T) {
	m := NewManager()
	alice := uuid.New()
	m.Open(alice, "alice")
	m.Open(alice, "alice") // player can hold several open rooms

	m.Leave(alice)

	assert.Empty(t, m.ListOpen())
}

func TestRemove(t *testing.T) {
	m := NewManager()
	r := m.Open(uuid.New(), "alice")
	m.Remove(r.ID)
	assert.Empty(t, m.ListOpen())
	// Removing twice is harmless.
	m.Remove(r.ID)
}

func TestListOpenPreservesCreationOrder(t *testing.T) {
	m := NewManager()
	first := m.Open(uuid.New(), "a")
	second := m.Open(uuid.New(), "b")
	third := m.Open(uuid.New(), "c")

	open := m.ListOpen()
	require.Len(t, open, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID},
		[]uuid.UUID{open[0].ID, open[1].ID, open[2].ID})
}
