package models

// Cell is the resolution state of a single board coordinate.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellShip
	CellHit
	CellMiss
)

// Board is one player's 10x10 grid. The zero value is an empty board.
type Board [BoardSize][BoardSize]Cell

// InBounds reports whether (x, y) lies on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// PlaceShips derives a board from a fleet: every in-bounds cell covered
// by a ship is marked CellShip. Out-of-bounds cells are silently
// dropped, mirroring how the reference server tolerates client layouts.
func PlaceShips(ships []Ship) Board {
	var b Board
	for _, s := range ships {
		for _, p := range s.Cells() {
			if InBounds(p.X, p.Y) {
				b[p.X][p.Y] = CellShip
			}
		}
	}
	return b
}

// IsShipSunk reports whether every cell of the ship has been hit.
func (b *Board) IsShipSunk(s Ship) bool {
	for _, p := range s.Cells() {
		if !InBounds(p.X, p.Y) || b[p.X][p.Y] != CellHit {
			return false
		}
	}
	return true
}

// MarkAround sets every still-empty cell in the Moore neighborhood of
// the ship to CellMiss. Called once a ship is sunk: no other ship can
// touch a dead one, so the surrounding water is known.
func (b *Board) MarkAround(s Ship) {
	for i := -1; i <= s.Length; i++ {
		for j := -1; j <= 1; j++ {
			x, y := s.Position.X+i, s.Position.Y+j
			if s.Direction {
				x, y = s.Position.X+j, s.Position.Y+i
			}
			if InBounds(x, y) && b[x][y] == CellEmpty {
				b[x][y] = CellMiss
			}
		}
	}
}
