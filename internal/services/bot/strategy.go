package bot

import "github.com/Kemiem/schiffe-versenken-ms4/internal/model"

// Strategy picks the next cell to fire at
type Strategy interface {
	// ChooseTarget returns an unshot cell, or false when every cell has been shot.
	// shots are the player's own earlier shots with their outcomes.
	ChooseTarget(gridSize int, shots []model.ShotView) (model.Position, bool)
}

// unshot lists the cells not yet fired at, row by row
func unshot(gridSize int, shots []model.ShotView) []model.Position {
	fired := make(map[model.Position]bool, len(shots))
	for _, shot := range shots {
		fired[model.Position{X: shot.X, Y: shot.Y}] = true
	}
	var open []model.Position
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			pos := model.Position{X: x, Y: y}
			if !fired[pos] {
				open = append(open, pos)
			}
		}
	}
	return open
}
