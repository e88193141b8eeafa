// Package bot implements the computer opponent: random fleet layout
// generation and a difficulty-weighted move selector.
package bot

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/halcyon-games/armada/internal/models"
)

// PlayerID is the sentinel identity of the computer opponent. Human ids
// are random UUIDs, so the nil UUID can never collide with one.
var PlayerID = uuid.Nil

// Difficulty selects how focused the bot's targeting is.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty maps a config string to a Difficulty, defaulting to
// Medium for an empty value.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), nil
	case "":
		return Medium, nil
	}
	return "", fmt.Errorf("unknown bot difficulty %q", s)
}

// missChance is the probability with which an unknown empty cell is
// admitted to the bot's candidate set. Known ship cells are always
// candidates, so a lower chance means more focused play.
func (d Difficulty) missChance() float64 {
	switch d {
	case Easy:
		return 0.9
	case Hard:
		return 0.1
	}
	return 0.5
}

// maxPlacementAttempts bounds rejection sampling per ship during fleet
// generation. Exhausting it is a configuration fault, not a user error.
const maxPlacementAttempts = 100

// Bot is the computer opponent. It is stateless across turns apart from
// its fixed difficulty; randomness is injected so tests can seed it.
type Bot struct {
	difficulty Difficulty
	rng        *rand.Rand
}

// New returns a bot with the given difficulty and random source.
func New(difficulty Difficulty, rng *rand.Rand) *Bot {
	return &Bot{difficulty: difficulty, rng: rng}
}

// fleetComposition is the classic loadout: one ship of length 4 down to
// four ships of length 1.
var fleetComposition = []struct {
	class models.ShipClass
	count int
}{
	{models.ShipHuge, 1},
	{models.ShipLarge, 2},
	{models.ShipMedium, 3},
	{models.ShipSmall, 4},
}

// GenerateFleet places a full fleet by rejection sampling: pick a random
// origin and orientation, accept if every cell and its Moore neighbors
// are free and in-bounds. Returns the fleet and the derived board, or an
// error if any single ship cannot be placed within the attempt budget.
func (b *Bot) GenerateFleet() ([]models.Ship, models.Board, error) {
	var board models.Board
	var fleet []models.Ship

	for _, ct := range fleetComposition {
		length := ct.class.Length()
		for i := 0; i < ct.count; i++ {
			placed := false
			for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
				ship := models.Ship{
					Direction: b.rng.Intn(2) == 0,
					Length:    length,
					Type:      ct.class,
				}
				maxX, maxY := models.BoardSize, models.BoardSize-length+1
				if !ship.Direction {
					maxX, maxY = maxY, maxX
				}
				ship.Position = models.Position{X: b.rng.Intn(maxX), Y: b.rng.Intn(maxY)}

				if !canPlace(&board, ship) {
					continue
				}
				for _, p := range ship.Cells() {
					board[p.X][p.Y] = models.CellShip
				}
				fleet = append(fleet, ship)
				placed = true
				break
			}
			if !placed {
				return nil, models.Board{}, fmt.Errorf(
					"failed to place %s ship after %d attempts", ct.class, maxPlacementAttempts)
			}
		}
	}
	return fleet, board, nil
}

// canPlace reports whether the ship fits on the board with its entire
// Moore neighborhood free of other ships.
func canPlace(board *models.Board, ship models.Ship) bool {
	for _, p := range ship.Cells() {
		if !models.InBounds(p.X, p.Y) {
			return false
		}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				nx, ny := p.X+dx, p.Y+dy
				if models.InBounds(nx, ny) && board[nx][ny] == models.CellShip {
					return false
				}
			}
		}
	}
	return true
}

// ChooseMove selects the bot's next target on the defender's board. The
// candidate set is every unresolved ship cell plus each unknown empty
// cell admitted independently with the difficulty's miss chance; one
// candidate is drawn uniformly. Targeting is memoryless across turns.
// Returns ok=false when no candidate exists.
func (b *Bot) ChooseMove(defender *models.Board) (models.Position, bool) {
	var candidates []models.Position
	for x := 0; x < models.BoardSize; x++ {
		for y := 0; y < models.BoardSize; y++ {
			switch defender[x][y] {
			case models.CellShip:
				candidates = append(candidates, models.Position{X: x, Y: y})
			case models.CellEmpty:
				if b.rng.Float64() <= b.difficulty.missChance() {
					candidates = append(candidates, models.Position{X: x, Y: y})
				}
			}
		}
	}
	if len(candidates) == 0 {
		return models.Position{}, false
	}
	return candidates[b.rng.Intn(len(candidates))], true
}
