package model

// Position identifies a cell on the board
type Position struct {
	X int // 0-indexed column
	Y int // 0-indexed row
}

// Cell is a single square of a board
type Cell struct {
	HasShip bool
	Hit     bool
}

// Board is one participant's hidden grid for a match
type Board struct {
	Size  int
	Cells [][]Cell // Row-major: Cells[y][x]
}

// NewBoard creates an empty board of the given size
func NewBoard(size int) *Board {
	cells := make([][]Cell, size)
	for i := range cells {
		cells[i] = make([]Cell, size)
	}
	return &Board{
		Size:  size,
		Cells: cells,
	}
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Size && pos.Y >= 0 && pos.Y < b.Size
}

// At returns the cell at the given position, or nil if out of bounds
func (b *Board) At(pos Position) *Cell {
	if !b.IsValidPosition(pos) {
		return nil
	}
	return &b.Cells[pos.Y][pos.X]
}

// ShipCells returns every cell occupied by a ship, in row-major order
func (b *Board) ShipCells() []ShipCell {
	var ships []ShipCell
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			cell := b.Cells[y][x]
			if cell.HasShip {
				ships = append(ships, ShipCell{X: x, Y: y, Hit: cell.Hit})
			}
		}
	}
	return ships
}

// RemainingShipCells returns the number of ship cells not yet hit
func (b *Board) RemainingShipCells() int {
	count := 0
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if b.Cells[y][x].HasShip && !b.Cells[y][x].Hit {
				count++
			}
		}
	}
	return count
}
