package model

import (
	"fmt"
	"time"
)

// GameConfig holds the rules every match is played with
type GameConfig struct {
	GridSize          int           // Board dimension (8 means 8x8)
	Fleet             []int         // Ship lengths, placed in this order
	PlacementAttempts int           // Random tries per ship before the board is regenerated
	FinishDelay       time.Duration // How long a finished match stays visible
	MaxNameLength     int
	MaxChatLength     int
}

// DefaultGameConfig returns the standard 8x8 rules
func DefaultGameConfig() GameConfig {
	return GameConfig{
		GridSize:          8,
		Fleet:             []int{4, 3, 2, 2, 1, 1},
		PlacementAttempts: 2000,
		FinishDelay:       1200 * time.Millisecond,
		MaxNameLength:     20,
		MaxChatLength:     500,
	}
}

// FleetCells returns the number of cells the fleet occupies
func (c GameConfig) FleetCells() int {
	total := 0
	for _, length := range c.Fleet {
		total += length
	}
	return total
}

// Validate checks that the fleet can be placed on the grid
func (c GameConfig) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("grid size must be positive, got %d", c.GridSize)
	}
	if len(c.Fleet) == 0 {
		return fmt.Errorf("fleet must contain at least one ship: %w", ErrFleetDoesNotFit)
	}
	for _, length := range c.Fleet {
		if length <= 0 || length > c.GridSize {
			return fmt.Errorf("ship length %d on a %dx%d grid: %w", length, c.GridSize, c.GridSize, ErrFleetDoesNotFit)
		}
	}
	if c.FleetCells() > c.GridSize*c.GridSize {
		return fmt.Errorf("fleet needs %d cells: %w", c.FleetCells(), ErrFleetDoesNotFit)
	}
	if c.PlacementAttempts <= 0 {
		return fmt.Errorf("placement attempts must be positive, got %d", c.PlacementAttempts)
	}
	if c.MaxNameLength <= 0 {
		return fmt.Errorf("max name length must be positive, got %d", c.MaxNameLength)
	}
	return nil
}
