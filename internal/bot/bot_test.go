package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-games/armada/internal/models"
)

func newTestBot(d Difficulty, seed int64) *Bot {
	return New(d, rand.New(rand.NewSource(seed)))
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, Medium, d)

	d, err = ParseDifficulty("hard")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	_, err = ParseDifficulty("nightmare")
	assert.Error(t, err)
}

func TestGenerateFleetComposition(t *testing.T) {
	b := newTestBot(Medium, 1)

	for i := 0; i < 1000; i++ {
		fleet, board, err := b.GenerateFleet()
		require.NoError(t, err)
		require.Len(t, fleet, 10)

		counts := map[models.ShipClass]int{}
		shipCells := 0
		for _, s := range fleet {
			counts[s.Type]++
			assert.Equal(t, s.Type.Length(), s.Length)
			shipCells += s.Length
		}
		assert.Equal(t, 1, counts[models.ShipHuge])
		assert.Equal(t, 2, counts[models.ShipLarge])
		assert.Equal(t, 3, counts[models.ShipMedium])
		assert.Equal(t, 4, counts[models.ShipSmall])
		assert.Equal(t, 20, shipCells)

		// The board agrees with the fleet.
		boardCells := 0
		for x := 0; x < models.BoardSize; x++ {
			for y := 0; y < models.BoardSize; y++ {
				if board[x][y] == models.CellShip {
					boardCells++
				}
			}
		}
		assert.Equal(t, 20, boardCells)
	}
}

func TestGenerateFleetNoTouchingShips(t *testing.T) {
	b := newTestBot(Medium, 2)

	for i := 0; i < 1000; i++ {
		fleet, _, err := b.GenerateFleet()
		require.NoError(t, err)

		owner := map[models.Position]int{}
		for idx, s := range fleet {
			for _, p := range s.Cells() {
				require.True(t, models.InBounds(p.X, p.Y))
				_, taken := owner[p]
				require.False(t, taken, "ships overlap at (%d, %d)", p.X, p.Y)
				owner[p] = idx
			}
		}

		// No two distinct ships may occupy Moore-adjacent cells.
		for p, idx := range owner {
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					n := models.Position{X: p.X + dx, Y: p.Y + dy}
					if other, ok := owner[n]; ok {
						require.Equal(t, idx, other,
							"ships %d and %d touch at (%d, %d)", idx, other, n.X, n.Y)
					}
				}
			}
		}
	}
}

func TestChooseMoveAlwaysIncludesShipCells(t *testing.T) {
	// Easy bot with a single remaining ship cell: hammering ChooseMove
	// must only ever return unresolved cells, and with everything else
	// resolved it must find the ship.
	b := newTestBot(Easy, 3)

	var board models.Board
	for x := 0; x < models.BoardSize; x++ {
		for y := 0; y < models.BoardSize; y++ {
			board[x][y] = models.CellMiss
		}
	}
	board[4][7] = models.CellShip

	for i := 0; i < 100; i++ {
		pos, ok := b.ChooseMove(&board)
		require.True(t, ok)
		assert.Equal(t, models.Position{X: 4, Y: 7}, pos)
	}
}

func TestChooseMoveNeverTargetsResolvedCells(t *testing.T) {
	b := newTestBot(Hard, 4)

	var board models.Board
	board[0][0] = models.CellHit
	board[1][1] = models.CellMiss
	board[5][5] = models.CellShip

	for i := 0; i < 500; i++ {
		pos, ok := b.ChooseMove(&board)
		require.True(t, ok)
		cell := board[pos.X][pos.Y]
		assert.NotEqual(t, models.CellHit, cell)
		assert.NotEqual(t, models.CellMiss, cell)
	}
}

func TestChooseMoveNoCandidates(t *testing.T) {
	b := newTestBot(Hard, 5)

	// Fully resolved board: no move is available. With p=0.1 an all-miss
	// board admits nothing.
	var board models.Board
	for x := 0; x < models.BoardSize; x++ {
		for y := 0; y < models.BoardSize; y++ {
			board[x][y] = models.CellHit
		}
	}
	_, ok := b.ChooseMove(&board)
	assert.False(t, ok)
}
