package player

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	conn := uuid.New()

	p, err := r.Register("alice", "secret", conn)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.NotEqual(t, "secret", p.Password, "password must be stored hashed")

	got, ok := r.Lookup(p.ID)
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)

	id, ok := r.LookupConn(conn)
	require.True(t, ok)
	assert.Equal(t, p.ID, id)
}

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry()

	first, err := r.Register("alice", "secret", uuid.New())
	require.NoError(t, err)

	_, err = r.Register("alice", "different", uuid.New())
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Original record unchanged.
	got, ok := r.Lookup(first.ID)
	require.True(t, ok)
	assert.Equal(t, first.Password, got.Password)
	assert.Equal(t, 0, got.TotalWins)
}

func TestLogin(t *testing.T) {
	r := NewRegistry()
	p, err := r.Register("bob", "pw", uuid.New())
	require.NoError(t, err)

	newConn := uuid.New()
	got, err := r.Login("bob", "pw", newConn)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	// Login rebinds the connection.
	id, ok := r.LookupConn(newConn)
	require.True(t, ok)
	assert.Equal(t, p.ID, id)

	_, err = r.Login("bob", "wrong", uuid.New())
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = r.Login("nobody", "pw", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRebindDisplacesOldConnection(t *testing.T) {
	r := NewRegistry()
	oldConn := uuid.New()
	p, err := r.Register("carol", "pw", oldConn)
	require.NoError(t, err)

	newConn := uuid.New()
	_, err = r.Login("carol", "pw", newConn)
	require.NoError(t, err)

	_, ok := r.LookupConn(oldConn)
	assert.False(t, ok, "old connection must no longer resolve")

	conn, ok := r.ConnOf(p.ID)
	require.True(t, ok)
	assert.Equal(t, newConn, conn)
}

func TestUnbindKeepsRecord(t *testing.T) {
	r := NewRegistry()
	conn := uuid.New()
	p, err := r.Register("dave", "pw", conn)
	require.NoError(t, err)

	r.Unbind(p.ID)

	_, ok := r.LookupConn(conn)
	assert.False(t, ok)
	_, ok = r.ConnOf(p.ID)
	assert.False(t, ok)

	// The identity survives the disconnect.
	_, ok = r.Lookup(p.ID)
	assert.True(t, ok)
}

func TestIncrementWins(t *testing.T) {
	r := NewRegistry()
	p, err := r.Register("eve", "pw", uuid.New())
	require.NoError(t, err)

	total, err := r.IncrementWins(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = r.IncrementWins(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, err = r.IncrementWins(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
