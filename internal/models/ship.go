package models

// BoardSize is the side length of every game board.
const BoardSize = 10

// ShipClass names the four hull sizes a fleet is composed of.
type ShipClass string

const (
	ShipSmall  ShipClass = "small"
	ShipMedium ShipClass = "medium"
	ShipLarge  ShipClass = "large"
	ShipHuge   ShipClass = "huge"
)

// Length returns the number of cells a ship of this class occupies,
// or 0 for an unknown class.
func (c ShipClass) Length() int {
	switch c {
	case ShipSmall:
		return 1
	case ShipMedium:
		return 2
	case ShipLarge:
		return 3
	case ShipHuge:
		return 4
	}
	return 0
}

// Valid reports whether c is one of the four known classes.
func (c ShipClass) Valid() bool {
	return c.Length() > 0
}

// Position is a cell coordinate on a board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Ship is a single placed hull. Direction false extends the ship along
// the x axis from its origin, true extends it along the y axis, matching
// the client's wire representation.
type Ship struct {
	Position  Position  `json:"position"`
	Direction bool      `json:"direction"`
	Length    int       `json:"length"`
	Type      ShipClass `json:"type"`
}

// Cells returns every board coordinate the ship occupies, in order from
// its origin. Coordinates may fall outside the board if the ship was
// placed illegally; callers clip as needed.
func (s Ship) Cells() []Position {
	cells := make([]Position, 0, s.Length)
	for i := 0; i < s.Length; i++ {
		p := s.Position
		if s.Direction {
			p.Y += i
		} else {
			p.X += i
		}
		cells = append(cells, p)
	}
	return cells
}

// Occupies reports whether (x, y) is one of the ship's cells.
func (s Ship) Occupies(x, y int) bool {
	if s.Direction {
		return s.Position.X == x && y >= s.Position.Y && y < s.Position.Y+s.Length
	}
	return s.Position.Y == y && x >= s.Position.X && x < s.Position.X+s.Length
}
