package ledger

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisWithClient(client)
}

func TestRedisRecordAndSnapshot(t *testing.T) {
	ctx := context.Background()
	l := newTestRedis(t)

	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, l.RecordWin(ctx, alice, "alice"))
	require.NoError(t, l.RecordWin(ctx, bob, "bob"))
	require.NoError(t, l.RecordWin(ctx, bob, "bob"))

	snap, err := l.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 2)

	assert.Equal(t, Entry{PlayerID: bob, Name: "bob", Wins: 2}, snap[0])
	assert.Equal(t, Entry{PlayerID: alice, Name: "alice", Wins: 1}, snap[1])
}

func TestRedisSnapshotEmpty(t *testing.T) {
	snap, err := newTestRedis(t).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}

// The two backends must be interchangeable: same ordering, same counts.
func TestBackendsAgree(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	red := newTestRedis(t)

	players := []struct {
		id   uuid.UUID
		name string
		wins int
	}{
		{uuid.New(), "alice", 3},
		{uuid.New(), "bob", 1},
		{uuid.New(), "carol", 3},
	}

	for _, p := range players {
		for i := 0; i < p.wins; i++ {
			require.NoError(t, mem.RecordWin(ctx, p.id, p.name))
			require.NoError(t, red.RecordWin(ctx, p.id, p.name))
		}
	}

	memSnap, err := mem.Snapshot(ctx)
	require.NoError(t, err)
	redSnap, err := red.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, memSnap, redSnap)
}
