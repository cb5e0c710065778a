package bot

import (
	"github.com/Kemiem/schiffe-versenken-ms4/internal/dependencies/random"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// RandomStrategy fires at a random unshot cell
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseTarget picks uniformly among the unshot cells
func (s *RandomStrategy) ChooseTarget(gridSize int, shots []model.ShotView) (model.Position, bool) {
	open := unshot(gridSize, shots)
	if len(open) == 0 {
		return model.Position{}, false
	}
	return open[s.random.Intn(len(open))], true
}

// HuntStrategy fires next to earlier hits while any such cell is open, and
// falls back to random shots otherwise
type HuntStrategy struct {
	fallback *RandomStrategy
}

// NewHuntStrategy creates a new HuntStrategy
func NewHuntStrategy(rnd random.Random) *HuntStrategy {
	return &HuntStrategy{fallback: NewRandomStrategy(rnd)}
}

// ChooseTarget returns the first open neighbour of the most recent hit that
// has one, or a random open cell
func (s *HuntStrategy) ChooseTarget(gridSize int, shots []model.ShotView) (model.Position, bool) {
	fired := make(map[model.Position]bool, len(shots))
	for _, shot := range shots {
		fired[model.Position{X: shot.X, Y: shot.Y}] = true
	}

	for i := len(shots) - 1; i >= 0; i-- {
		if !shots[i].Hit {
			continue
		}
		for _, d := range []model.Position{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			next := model.Position{X: shots[i].X + d.X, Y: shots[i].Y + d.Y}
			if next.X < 0 || next.Y < 0 || next.X >= gridSize || next.Y >= gridSize {
				continue
			}
			if !fired[next] {
				return next, true
			}
		}
	}
	return s.fallback.ChooseTarget(gridSize, shots)
}

// ForName returns the strategy registered under name, defaulting to random
func ForName(name string, rnd random.Random) Strategy {
	if name == "hunt" {
		return NewHuntStrategy(rnd)
	}
	return NewRandomStrategy(rnd)
}
